package litters

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"akita-connect/internal/domain/animals"
	"akita-connect/internal/domain/notifications"
	"akita-connect/internal/domain/profiles"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrBadState     = errors.New("invalid state")
)

type Service struct {
	repo        Repository
	publicRepo  Repository // optional restricted read-only pool
	animalsSvc  *animals.Service
	profilesSvc *profiles.Service
	notifier    *notifications.Service
	now         func() time.Time
}

func NewService(repo Repository, animalsSvc *animals.Service, profilesSvc *profiles.Service, notifier *notifications.Service) *Service {
	return &Service{
		repo:        repo,
		animalsSvc:  animalsSvc,
		profilesSvc: profilesSvc,
		notifier:    notifier,
		now:         time.Now,
	}
}

type CreateInput struct {
	SireID      string
	DamID       string
	WhelpedAt   *time.Time
	Description string
}

// Create registers a litter in pending state. Breeder role required.
func (s *Service) Create(ctx context.Context, breederUserID string, in CreateInput) (Litter, error) {
	breederUserID = strings.TrimSpace(breederUserID)
	sireID := strings.TrimSpace(in.SireID)
	damID := strings.TrimSpace(in.DamID)
	if breederUserID == "" || sireID == "" || damID == "" {
		return Litter{}, ErrInvalidInput
	}

	role, err := s.profilesSvc.RoleOf(ctx, breederUserID)
	if err != nil || (role != profiles.RoleBreeder && role != profiles.RoleModerator) {
		return Litter{}, ErrForbidden
	}

	if _, err := s.animalsSvc.GetByID(ctx, sireID); err != nil {
		return Litter{}, ErrInvalidInput
	}
	if _, err := s.animalsSvc.GetByID(ctx, damID); err != nil {
		return Litter{}, ErrInvalidInput
	}

	now := s.now()
	l := Litter{
		ID:             uuid.NewString(),
		BreederUserID:  breederUserID,
		SireID:         sireID,
		DamID:          damID,
		WhelpedAt:      in.WhelpedAt,
		Description:    strings.TrimSpace(in.Description),
		ListingStatus:  ListingUnlisted,
		ApprovalStatus: ApprovalPending,
		Puppies:        []Puppy{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return Litter{}, err
	}
	return l, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Litter, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Litter{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByBreeder(ctx context.Context, breederUserID string) ([]Litter, error) {
	return s.repo.ListByBreeder(ctx, breederUserID)
}

// ListPending exposes the moderation queue. Moderator only.
func (s *Service) ListPending(ctx context.Context, callerID string) ([]Litter, error) {
	if err := s.requireModerator(ctx, callerID); err != nil {
		return nil, err
	}
	return s.repo.ListPending(ctx)
}

type UpdateInput struct {
	WhelpedAt     *time.Time
	Description   *string
	ListingStatus *string
}

func (s *Service) Update(ctx context.Context, id, callerID string, in UpdateInput) (Litter, error) {
	l, err := s.authorizeBreeder(ctx, id, callerID)
	if err != nil {
		return Litter{}, err
	}

	if in.WhelpedAt != nil {
		l.WhelpedAt = in.WhelpedAt
	}
	if in.Description != nil {
		l.Description = strings.TrimSpace(*in.Description)
	}
	if in.ListingStatus != nil {
		st := ListingStatus(strings.TrimSpace(*in.ListingStatus))
		switch st {
		case ListingUnlisted, ListingListed, ListingSold:
			l.ListingStatus = st
		default:
			return Litter{}, ErrInvalidInput
		}
	}

	l.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, l); err != nil {
		return Litter{}, err
	}
	return l, nil
}

type PuppyInput struct {
	Name  string
	Sex   string
	Color string
}

func (s *Service) AddPuppy(ctx context.Context, litterID, callerID string, in PuppyInput) (Litter, error) {
	l, err := s.authorizeBreeder(ctx, litterID, callerID)
	if err != nil {
		return Litter{}, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return Litter{}, ErrInvalidInput
	}

	l.Puppies = append(l.Puppies, Puppy{
		ID:      uuid.NewString(),
		Name:    strings.TrimSpace(in.Name),
		Sex:     strings.TrimSpace(in.Sex),
		Color:   strings.TrimSpace(in.Color),
		Weights: []WeightEntry{},
	})

	l.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, l); err != nil {
		return Litter{}, err
	}
	return l, nil
}

// AddWeight appends one observation to a puppy's series, keeping the series
// sorted by date. Entries are never removed or rewritten.
func (s *Service) AddWeight(ctx context.Context, litterID, puppyID, callerID string, date time.Time, weightKg float64) (Litter, error) {
	l, err := s.authorizeBreeder(ctx, litterID, callerID)
	if err != nil {
		return Litter{}, err
	}
	if date.IsZero() || weightKg <= 0 {
		return Litter{}, ErrInvalidInput
	}

	idx := -1
	for i := range l.Puppies {
		if l.Puppies[i].ID == puppyID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Litter{}, ErrNotFound
	}

	p := &l.Puppies[idx]
	p.Weights = append(p.Weights, WeightEntry{Date: date, WeightKg: weightKg})
	sort.SliceStable(p.Weights, func(i, j int) bool {
		return p.Weights[i].Date.Before(p.Weights[j].Date)
	})

	l.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, l); err != nil {
		return Litter{}, err
	}
	return l, nil
}

// Approve transitions pending -> approved, records the approver and notifies
// the breeder. Terminal states return ErrBadState.
func (s *Service) Approve(ctx context.Context, litterID, moderatorID string) (Litter, error) {
	l, err := s.moderationTarget(ctx, litterID, moderatorID)
	if err != nil {
		return Litter{}, err
	}

	now := s.now()
	l.ApprovalStatus = ApprovalApproved
	l.ApprovedBy = moderatorID
	l.ApprovedAt = &now
	l.UpdatedAt = now

	if err := s.repo.Update(ctx, l); err != nil {
		return Litter{}, err
	}

	s.notifier.Notify(ctx, l.BreederUserID, notifications.TypeLitterApproved,
		"Litter approved",
		fmt.Sprintf("Your litter out of %s has been approved.", s.parentPhrase(ctx, l)),
		"/litters/"+l.ID)

	return l, nil
}

// Reject transitions pending -> rejected with a free-text reason.
func (s *Service) Reject(ctx context.Context, litterID, moderatorID, reason string) (Litter, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Litter{}, ErrInvalidInput
	}

	l, err := s.moderationTarget(ctx, litterID, moderatorID)
	if err != nil {
		return Litter{}, err
	}

	l.ApprovalStatus = ApprovalRejected
	l.RejectionReason = reason
	l.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, l); err != nil {
		return Litter{}, err
	}

	s.notifier.Notify(ctx, l.BreederUserID, notifications.TypeLitterRejected,
		"Litter rejected",
		fmt.Sprintf("Your litter out of %s was rejected: %s", s.parentPhrase(ctx, l), reason),
		"/litters/"+l.ID)

	return l, nil
}

// UsePublicReads routes the marketplace query through a repository backed by
// restricted read-only credentials.
func (s *Service) UsePublicReads(repo Repository) {
	s.publicRepo = repo
}

// Marketplace is the public read path: approved and listed litters only.
// A rejected litter can never appear here regardless of its listing status.
func (s *Service) Marketplace(ctx context.Context) ([]Litter, error) {
	repo := s.repo
	if s.publicRepo != nil {
		repo = s.publicRepo
	}
	return repo.ListApprovedListed(ctx)
}

func (s *Service) moderationTarget(ctx context.Context, litterID, moderatorID string) (Litter, error) {
	litterID = strings.TrimSpace(litterID)
	moderatorID = strings.TrimSpace(moderatorID)
	if litterID == "" || moderatorID == "" {
		return Litter{}, ErrInvalidInput
	}

	if err := s.requireModerator(ctx, moderatorID); err != nil {
		return Litter{}, err
	}

	l, err := s.repo.GetByID(ctx, litterID)
	if err != nil {
		return Litter{}, ErrNotFound
	}
	if l.ApprovalStatus != ApprovalPending {
		return Litter{}, ErrBadState
	}
	return l, nil
}

// parentPhrase names both parents for notification wording; lookups that fail
// degrade to a generic phrase.
func (s *Service) parentPhrase(ctx context.Context, l Litter) string {
	sire := s.animalsSvc.NameOf(ctx, l.SireID)
	dam := s.animalsSvc.NameOf(ctx, l.DamID)
	if sire == "" || dam == "" {
		return "your registered pair"
	}
	return fmt.Sprintf("%s and %s", sire, dam)
}

func (s *Service) requireModerator(ctx context.Context, userID string) error {
	role, err := s.profilesSvc.RoleOf(ctx, userID)
	if err != nil || role != profiles.RoleModerator {
		return ErrForbidden
	}
	return nil
}

func (s *Service) authorizeBreeder(ctx context.Context, id, callerID string) (Litter, error) {
	id = strings.TrimSpace(id)
	callerID = strings.TrimSpace(callerID)
	if id == "" || callerID == "" {
		return Litter{}, ErrInvalidInput
	}

	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Litter{}, ErrNotFound
	}
	if l.BreederUserID != callerID {
		return Litter{}, ErrForbidden
	}
	return l, nil
}
