package jwtauth_test

import (
	"context"
	"testing"
	"time"

	"akita-connect/internal/adapters/auth/jwtauth"
	"akita-connect/internal/ports/auth"
)

func TestSignAndVerify(t *testing.T) {
	now := time.Now()
	token, expires, err := jwtauth.Sign("secret", auth.Claims{
		UserID: "user-1",
		Email:  "u@example.com",
	}, time.Hour, now)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if got, want := expires, now.Add(time.Hour); !got.Equal(want) {
		t.Fatalf("expires = %v, want %v", got, want)
	}

	claims, err := jwtauth.NewVerifier("secret").Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "u@example.com" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	token, _, err := jwtauth.Sign("secret", auth.Claims{UserID: "user-1"}, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := jwtauth.NewVerifier("other").Verify(context.Background(), token); err == nil {
		t.Fatal("expected verification failure")
	}
}

func TestVerify_Expired(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	token, _, err := jwtauth.Sign("secret", auth.Claims{UserID: "user-1"}, time.Hour, past)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := jwtauth.NewVerifier("secret").Verify(context.Background(), token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestVerify_Empty(t *testing.T) {
	if _, err := jwtauth.NewVerifier("secret").Verify(context.Background(), ""); err != jwtauth.ErrTokenEmpty {
		t.Fatalf("expected ErrTokenEmpty, got %v", err)
	}
}

func TestSign_MissingUserID(t *testing.T) {
	if _, _, err := jwtauth.Sign("secret", auth.Claims{}, time.Hour, time.Now()); err == nil {
		t.Fatal("expected error for empty user id")
	}
}
