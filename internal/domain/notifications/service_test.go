package notifications_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	mem "akita-connect/internal/adapters/storage/memory"
	"akita-connect/internal/domain/notifications"
)

func TestMarkRead_RecipientOnly(t *testing.T) {
	svc := notifications.NewService(mem.NewNotificationsRepo(), zerolog.Nop())
	ctx := context.Background()

	svc.Notify(ctx, "user-a", notifications.TypeFollow, "New follower", "Ben is now following you.", "/users/user-b")

	ns, err := svc.ListForUser(ctx, "user-a")
	if err != nil || len(ns) != 1 {
		t.Fatalf("expected 1 notification, got %d (%v)", len(ns), err)
	}
	id := ns[0].ID

	if _, err := svc.MarkRead(ctx, id, "user-b"); err != notifications.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	n, err := svc.MarkRead(ctx, id, "user-a")
	if err != nil || !n.Read {
		t.Fatalf("mark read: read=%v err=%v", n.Read, err)
	}

	// Idempotent second call.
	n, err = svc.MarkRead(ctx, id, "user-a")
	if err != nil || !n.Read {
		t.Fatalf("second mark read: read=%v err=%v", n.Read, err)
	}
}

func TestMarkAllRead(t *testing.T) {
	svc := notifications.NewService(mem.NewNotificationsRepo(), zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		svc.Notify(ctx, "user-a", notifications.TypeMessage, "New message", "You have a new direct message.", "/conversations/x")
	}
	svc.Notify(ctx, "user-b", notifications.TypeMessage, "New message", "You have a new direct message.", "/conversations/x")

	if err := svc.MarkAllRead(ctx, "user-a"); err != nil {
		t.Fatalf("mark all read: %v", err)
	}

	ns, _ := svc.ListForUser(ctx, "user-a")
	for _, n := range ns {
		if !n.Read {
			t.Fatalf("unread notification left for user-a: %+v", n)
		}
	}
	ns, _ = svc.ListForUser(ctx, "user-b")
	if len(ns) != 1 || ns[0].Read {
		t.Fatalf("user-b notifications touched: %+v", ns)
	}
}
