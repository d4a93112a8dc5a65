package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"akita-connect/internal/domain/notifications"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo     Repository
	notifier *notifications.Service
	now      func() time.Time
}

func NewService(repo Repository, notifier *notifications.Service) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

type CreateInput struct {
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
}

func (s *Service) Create(ctx context.Context, organizerID string, in CreateInput) (Event, error) {
	organizerID = strings.TrimSpace(organizerID)
	if organizerID == "" || strings.TrimSpace(in.Title) == "" || in.StartsAt.IsZero() {
		return Event{}, ErrInvalidInput
	}

	now := s.now()
	e := Event{
		ID:          uuid.NewString(),
		OrganizerID: organizerID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		StartsAt:    in.StartsAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Event{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Event, error) {
	return s.repo.List(ctx)
}

func (s *Service) SearchByTitle(ctx context.Context, q string, limit int) ([]Event, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.SearchByTitle(ctx, q, limit)
}

type UpdateInput struct {
	Title       *string
	Description *string
	Location    *string
	StartsAt    *time.Time
}

func (s *Service) Update(ctx context.Context, id, callerID string, in UpdateInput) (Event, error) {
	e, err := s.authorizeOrganizer(ctx, id, callerID)
	if err != nil {
		return Event{}, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return Event{}, ErrInvalidInput
		}
		e.Title = title
	}
	if in.Description != nil {
		e.Description = strings.TrimSpace(*in.Description)
	}
	if in.Location != nil {
		e.Location = strings.TrimSpace(*in.Location)
	}
	if in.StartsAt != nil {
		if in.StartsAt.IsZero() {
			return Event{}, ErrInvalidInput
		}
		e.StartsAt = *in.StartsAt
	}

	e.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, id, callerID string) error {
	if _, err := s.authorizeOrganizer(ctx, id, callerID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// SetRSVP upserts the caller's RSVP and notifies the organizer.
func (s *Service) SetRSVP(ctx context.Context, eventID, userID string, status RSVPStatus) (RSVP, error) {
	eventID = strings.TrimSpace(eventID)
	userID = strings.TrimSpace(userID)
	if eventID == "" || userID == "" {
		return RSVP{}, ErrInvalidInput
	}
	switch status {
	case RSVPGoing, RSVPInterested:
	default:
		return RSVP{}, ErrInvalidInput
	}

	e, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return RSVP{}, ErrNotFound
	}

	now := s.now()
	rsvp := RSVP{
		EventID:   eventID,
		UserID:    userID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.UpsertRSVP(ctx, rsvp); err != nil {
		return RSVP{}, err
	}

	if e.OrganizerID != userID {
		s.notifier.Notify(ctx, e.OrganizerID, notifications.TypeRSVP,
			"New RSVP",
			"Someone is "+string(status)+" for \""+e.Title+"\".",
			"/events/"+e.ID)
	}

	return rsvp, nil
}

func (s *Service) ListRSVPs(ctx context.Context, eventID string) ([]RSVP, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, ErrInvalidInput
	}
	if _, err := s.repo.GetByID(ctx, eventID); err != nil {
		return nil, ErrNotFound
	}
	return s.repo.ListRSVPs(ctx, eventID)
}

func (s *Service) authorizeOrganizer(ctx context.Context, id, callerID string) (Event, error) {
	id = strings.TrimSpace(id)
	callerID = strings.TrimSpace(callerID)
	if id == "" || callerID == "" {
		return Event{}, ErrInvalidInput
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Event{}, ErrNotFound
	}
	if e.OrganizerID != callerID {
		return Event{}, ErrForbidden
	}
	return e, nil
}
