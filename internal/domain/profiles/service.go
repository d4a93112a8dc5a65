package profiles

import (
	"context"
	"errors"
	"strings"
	"time"
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
	Email       string
	DisplayName string
	Role        Role
}

// Create registers a profile under an externally assigned user id.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Profile{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.DisplayName) == "" {
		return Profile{}, ErrInvalidInput
	}

	role := in.Role
	if role == "" {
		role = RoleUser
	}
	if !ValidRole(role) {
		return Profile{}, ErrInvalidInput
	}

	now := s.now()
	p := Profile{
		ID:          userID,
		Email:       strings.TrimSpace(in.Email),
		DisplayName: strings.TrimSpace(in.DisplayName),
		Role:        role,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Profile{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// EnsureExists creates a minimal profile lazily on first authenticated write
// when registration never produced one.
func (s *Service) EnsureExists(ctx context.Context, userID, email string) (Profile, error) {
	p, err := s.repo.GetByID(ctx, userID)
	if err == nil {
		return p, nil
	}
	return s.Create(ctx, userID, CreateInput{
		Email:       email,
		DisplayName: displayNameFromEmail(email, userID),
	})
}

func (s *Service) List(ctx context.Context) ([]Profile, error) {
	return s.repo.List(ctx)
}

func (s *Service) SearchByName(ctx context.Context, q string, limit int) ([]Profile, error) {
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
	DisplayName *string
	AvatarURL   *string
	Location    *string
	Bio         *string
	Role        *string // moderator-only
}

// Update mutates a profile. Callers may edit their own profile; a moderator
// may edit anyone and is the only one allowed to change roles.
func (s *Service) Update(ctx context.Context, id, callerID string, in UpdateInput) (Profile, error) {
	id = strings.TrimSpace(id)
	callerID = strings.TrimSpace(callerID)
	if id == "" || callerID == "" {
		return Profile{}, ErrInvalidInput
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Profile{}, ErrNotFound
	}

	callerIsModerator := false
	if callerID != id {
		role, err := s.RoleOf(ctx, callerID)
		if err != nil || role != RoleModerator {
			return Profile{}, ErrForbidden
		}
		callerIsModerator = true
	} else if role, err := s.RoleOf(ctx, callerID); err == nil && role == RoleModerator {
		callerIsModerator = true
	}

	if in.DisplayName != nil {
		name := strings.TrimSpace(*in.DisplayName)
		if name == "" {
			return Profile{}, ErrInvalidInput
		}
		p.DisplayName = name
	}
	if in.AvatarURL != nil {
		p.AvatarURL = strings.TrimSpace(*in.AvatarURL)
	}
	if in.Location != nil {
		p.Location = strings.TrimSpace(*in.Location)
	}
	if in.Bio != nil {
		p.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.Role != nil {
		if !callerIsModerator {
			return Profile{}, ErrForbidden
		}
		role := Role(strings.TrimSpace(*in.Role))
		if !ValidRole(role) {
			return Profile{}, ErrInvalidInput
		}
		p.Role = role
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// RoleOf exposes a user's role for cross-module authorization checks
// without importing this package's handlers.
func (s *Service) RoleOf(ctx context.Context, userID string) (Role, error) {
	p, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return p.Role, nil
}

// DisplayNameOf is used for notification wording; falls back to the id.
func (s *Service) DisplayNameOf(ctx context.Context, userID string) string {
	p, err := s.repo.GetByID(ctx, userID)
	if err != nil || strings.TrimSpace(p.DisplayName) == "" {
		return userID
	}
	return p.DisplayName
}

func displayNameFromEmail(email, fallback string) string {
	email = strings.TrimSpace(email)
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	if email != "" {
		return email
	}
	return fallback
}
