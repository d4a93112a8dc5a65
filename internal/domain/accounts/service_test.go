package accounts_test

import (
	"context"
	"testing"
	"time"

	mem "akita-connect/internal/adapters/storage/memory"
	"akita-connect/internal/domain/accounts"
	"akita-connect/internal/domain/profiles"
)

func newAccountsFixture() (*accounts.Service, *profiles.Service) {
	profilesSvc := profiles.NewService(mem.NewProfilesRepo())
	svc := accounts.NewService(mem.NewAccountsRepo(), profilesSvc, "test-secret", time.Hour)
	return svc, profilesSvc
}

func TestRegister_CreatesProfileAndSession(t *testing.T) {
	svc, profilesSvc := newAccountsFixture()
	ctx := context.Background()

	sess, err := svc.Register(ctx, accounts.RegisterInput{
		Email:       "Hana@Example.com",
		Password:    "correct horse",
		DisplayName: "Hana",
		Role:        "breeder",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if sess.Token == "" || sess.UserID == "" {
		t.Fatalf("incomplete session: %+v", sess)
	}

	p, err := profilesSvc.GetByID(ctx, sess.UserID)
	if err != nil {
		t.Fatalf("profile not created: %v", err)
	}
	if p.Role != profiles.RoleBreeder || p.DisplayName != "Hana" {
		t.Fatalf("profile = %+v", p)
	}
	if p.Email != "hana@example.com" {
		t.Fatalf("email not normalized: %q", p.Email)
	}
}

func TestRegister_RejectsModeratorSelfSelect(t *testing.T) {
	svc, _ := newAccountsFixture()

	_, err := svc.Register(context.Background(), accounts.RegisterInput{
		Email:       "mod@example.com",
		Password:    "longenough",
		DisplayName: "Mod",
		Role:        "moderator",
	})
	if err != accounts.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRegister_ShortPassword(t *testing.T) {
	svc, _ := newAccountsFixture()

	_, err := svc.Register(context.Background(), accounts.RegisterInput{
		Email:       "a@example.com",
		Password:    "short",
		DisplayName: "A",
	})
	if err != accounts.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newAccountsFixture()
	ctx := context.Background()

	in := accounts.RegisterInput{
		Email:       "dup@example.com",
		Password:    "longenough",
		DisplayName: "First",
	}
	if _, err := svc.Register(ctx, in); err != nil {
		t.Fatalf("register: %v", err)
	}

	in.DisplayName = "Second"
	if _, err := svc.Register(ctx, in); err != accounts.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newAccountsFixture()
	ctx := context.Background()

	reg, err := svc.Register(ctx, accounts.RegisterInput{
		Email:       "login@example.com",
		Password:    "longenough",
		DisplayName: "L",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	sess, err := svc.Login(ctx, "LOGIN@example.com", "longenough")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.UserID != reg.UserID {
		t.Fatalf("user id mismatch: %s vs %s", sess.UserID, reg.UserID)
	}

	if _, err := svc.Login(ctx, "login@example.com", "wrongpass"); err != accounts.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "longenough"); err != accounts.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}
