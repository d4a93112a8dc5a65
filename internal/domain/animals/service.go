package animals

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name      string
	Sex       string
	BirthDate *time.Time
	Color     string
	Titles    string
	PhotoURL  string
	SireID    string
	DamID     string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Animal, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return Animal{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Animal{}, ErrInvalidInput
	}

	sex := Sex(strings.TrimSpace(in.Sex))
	if sex == "" {
		sex = SexUnknown
	}
	switch sex {
	case SexMale, SexFemale, SexUnknown:
	default:
		return Animal{}, ErrInvalidInput
	}

	sireID, err := s.parentRef(ctx, in.SireID)
	if err != nil {
		return Animal{}, err
	}
	damID, err := s.parentRef(ctx, in.DamID)
	if err != nil {
		return Animal{}, err
	}

	now := s.now()
	a := Animal{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        strings.TrimSpace(in.Name),
		Sex:         sex,
		BirthDate:   in.BirthDate,
		Color:       strings.TrimSpace(in.Color),
		Titles:      strings.TrimSpace(in.Titles),
		PhotoURL:    strings.TrimSpace(in.PhotoURL),
		SireID:      sireID,
		DamID:       damID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

// parentRef validates an optional parent id and normalizes "" to nil.
func (s *Service) parentRef(ctx context.Context, id string) (*string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, ErrInvalidInput
	}
	return &id, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Animal{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Animal, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Animal, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

func (s *Service) SearchByName(ctx context.Context, q string, limit int) ([]Animal, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.SearchByName(ctx, q, limit)
}

type UpdateInput struct {
	Name      *string
	Sex       *string
	BirthDate *time.Time
	Color     *string
	Titles    *string
	PhotoURL  *string
	SireID    *string // "" clears the reference
	DamID     *string
}

func (s *Service) Update(ctx context.Context, id, callerID string, in UpdateInput) (Animal, error) {
	a, err := s.authorizeOwner(ctx, id, callerID)
	if err != nil {
		return Animal{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Animal{}, ErrInvalidInput
		}
		a.Name = name
	}
	if in.Sex != nil {
		sex := Sex(strings.TrimSpace(*in.Sex))
		switch sex {
		case SexMale, SexFemale, SexUnknown:
			a.Sex = sex
		default:
			return Animal{}, ErrInvalidInput
		}
	}
	if in.BirthDate != nil {
		a.BirthDate = in.BirthDate
	}
	if in.Color != nil {
		a.Color = strings.TrimSpace(*in.Color)
	}
	if in.Titles != nil {
		a.Titles = strings.TrimSpace(*in.Titles)
	}
	if in.PhotoURL != nil {
		a.PhotoURL = strings.TrimSpace(*in.PhotoURL)
	}
	if in.SireID != nil {
		ref, err := s.parentRef(ctx, *in.SireID)
		if err != nil {
			return Animal{}, err
		}
		a.SireID = ref
	}
	if in.DamID != nil {
		ref, err := s.parentRef(ctx, *in.DamID)
		if err != nil {
			return Animal{}, err
		}
		a.DamID = ref
	}

	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id, callerID string) error {
	if _, err := s.authorizeOwner(ctx, id, callerID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

type HealthRecordInput struct {
	Type   string
	Date   time.Time
	Result string
	Notes  string
}

func (s *Service) AddHealthRecord(ctx context.Context, animalID, callerID string, in HealthRecordInput) (HealthRecord, error) {
	if _, err := s.authorizeOwner(ctx, animalID, callerID); err != nil {
		return HealthRecord{}, err
	}
	if strings.TrimSpace(in.Type) == "" || in.Date.IsZero() {
		return HealthRecord{}, ErrInvalidInput
	}

	hr := HealthRecord{
		ID:        uuid.NewString(),
		AnimalID:  animalID,
		Type:      strings.TrimSpace(in.Type),
		Date:      in.Date,
		Result:    strings.TrimSpace(in.Result),
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: s.now(),
	}
	if err := s.repo.AddHealthRecord(ctx, hr); err != nil {
		return HealthRecord{}, err
	}
	return hr, nil
}

func (s *Service) ListHealthRecords(ctx context.Context, animalID string) ([]HealthRecord, error) {
	if _, err := s.repo.GetByID(ctx, animalID); err != nil {
		return nil, ErrNotFound
	}
	return s.repo.ListHealthRecords(ctx, animalID)
}

// NameOf is used for notification wording; falls back to "" on lookup failure.
func (s *Service) NameOf(ctx context.Context, id string) string {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ""
	}
	return a.Name
}

func (s *Service) authorizeOwner(ctx context.Context, id, callerID string) (Animal, error) {
	id = strings.TrimSpace(id)
	callerID = strings.TrimSpace(callerID)
	if id == "" || callerID == "" {
		return Animal{}, ErrInvalidInput
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Animal{}, ErrNotFound
	}
	if a.OwnerUserID != callerID {
		return Animal{}, ErrForbidden
	}
	return a, nil
}
