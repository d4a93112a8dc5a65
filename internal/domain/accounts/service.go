package accounts

import (
	"context"
	"errors"
	"strings"
	"time"

	"akita-connect/internal/adapters/auth/jwtauth"
	"akita-connect/internal/domain/profiles"
	"akita-connect/internal/ports/auth"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service struct {
	repo        Repository
	profilesSvc *profiles.Service

	jwtSecret string
	tokenTTL  time.Duration

	now func() time.Time
}

func NewService(repo Repository, profilesSvc *profiles.Service, jwtSecret string, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{
		repo:        repo,
		profilesSvc: profilesSvc,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
		now:         time.Now,
	}
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	Role        string // optional; "breeder" self-select allowed, moderator is not
}

type Session struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	email := normalizeEmail(in.Email)
	if email == "" || len(in.Password) < 8 {
		return Session{}, ErrInvalidInput
	}

	role := profiles.Role(strings.TrimSpace(in.Role))
	if role == "" {
		role = profiles.RoleUser
	}
	// Moderator is assigned out of band, never self-selected.
	if role != profiles.RoleUser && role != profiles.RoleBreeder {
		return Session{}, ErrInvalidInput
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return Session{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, err
	}

	a := Account{
		UserID:       uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Session{}, err
	}

	if _, err := s.profilesSvc.Create(ctx, a.UserID, profiles.CreateInput{
		Email:       email,
		DisplayName: in.DisplayName,
		Role:        role,
	}); err != nil {
		return Session{}, err
	}

	return s.issue(a)
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, ErrInvalidInput
	}

	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	return s.issue(a)
}

func (s *Service) issue(a Account) (Session, error) {
	token, expires, err := jwtauth.Sign(s.jwtSecret, auth.Claims{
		UserID: a.UserID,
		Email:  a.Email,
	}, s.tokenTTL, s.now())
	if err != nil {
		return Session{}, err
	}
	return Session{UserID: a.UserID, Token: token, ExpiresAt: expires}, nil
}

func normalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return ""
	}
	return email
}
