package follows_test

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	mem "akita-connect/internal/adapters/storage/memory"
	"akita-connect/internal/domain/follows"
	"akita-connect/internal/domain/notifications"
	"akita-connect/internal/domain/profiles"
)

func newFollowsFixture(t *testing.T) (*follows.Service, notifications.Repository) {
	t.Helper()
	ctx := context.Background()

	profilesSvc := profiles.NewService(mem.NewProfilesRepo())
	for id, name := range map[string]string{"user-a": "Aiko", "user-b": "Ben"} {
		if _, err := profilesSvc.Create(ctx, id, profiles.CreateInput{DisplayName: name}); err != nil {
			t.Fatalf("create profile %s: %v", id, err)
		}
	}

	notifRepo := mem.NewNotificationsRepo()
	notifier := notifications.NewService(notifRepo, zerolog.Nop())
	return follows.NewService(mem.NewFollowsRepo(), profilesSvc, notifier), notifRepo
}

func TestFollow_IdempotentAndNotifiesOnce(t *testing.T) {
	svc, notifRepo := newFollowsFixture(t)
	ctx := context.Background()

	if err := svc.Follow(ctx, "user-a", "user-b"); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if err := svc.Follow(ctx, "user-a", "user-b"); err != nil {
		t.Fatalf("second follow: %v", err)
	}

	fs, err := svc.Followers(ctx, "user-b")
	if err != nil || len(fs) != 1 {
		t.Fatalf("followers = %d (%v), want 1", len(fs), err)
	}

	ns, err := notifRepo.ListByUser(ctx, "user-b")
	if err != nil || len(ns) != 1 {
		t.Fatalf("notifications = %d (%v), want 1", len(ns), err)
	}
	if ns[0].Type != notifications.TypeFollow {
		t.Fatalf("type = %s", ns[0].Type)
	}
	if !strings.Contains(ns[0].Message, "Aiko") {
		t.Fatalf("message does not name the follower: %q", ns[0].Message)
	}
}

func TestFollow_NoSelfFollow(t *testing.T) {
	svc, _ := newFollowsFixture(t)

	if err := svc.Follow(context.Background(), "user-a", "user-a"); err != follows.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUnfollow_Idempotent(t *testing.T) {
	svc, _ := newFollowsFixture(t)
	ctx := context.Background()

	if err := svc.Follow(ctx, "user-a", "user-b"); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if err := svc.Unfollow(ctx, "user-a", "user-b"); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if err := svc.Unfollow(ctx, "user-a", "user-b"); err != nil {
		t.Fatalf("second unfollow: %v", err)
	}

	fs, err := svc.Following(ctx, "user-a")
	if err != nil || len(fs) != 0 {
		t.Fatalf("following = %d (%v), want 0", len(fs), err)
	}
}
