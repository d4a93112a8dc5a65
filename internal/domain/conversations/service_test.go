package conversations_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	mem "akita-connect/internal/adapters/storage/memory"
	"akita-connect/internal/domain/conversations"
	"akita-connect/internal/domain/notifications"
)

func newConversationsService(repo conversations.Repository) *conversations.Service {
	notifier := notifications.NewService(mem.NewNotificationsRepo(), zerolog.Nop())
	return conversations.NewService(repo, notifier, zerolog.Nop())
}

func unreadFor(t *testing.T, svc *conversations.Service, userID, convID string) int {
	t.Helper()
	sums, err := svc.ListForUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("list for %s: %v", userID, err)
	}
	for _, s := range sums {
		if s.Conversation.ID == convID {
			return s.UnreadCount
		}
	}
	t.Fatalf("conversation %s not listed for %s", convID, userID)
	return 0
}

func TestConversations_UnreadWatermarks(t *testing.T) {
	svc := newConversationsService(mem.NewConversationsRepo())
	ctx := context.Background()

	sum, err := svc.Create(ctx, "user-a", []string{"user-b"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	convID := sum.Conversation.ID

	if _, err := svc.Send(ctx, convID, "user-b", "hello A"); err != nil {
		t.Fatalf("send: %v", err)
	}

	// The sender's own message never counts as unread for them.
	if n := unreadFor(t, svc, "user-b", convID); n != 0 {
		t.Fatalf("sender unread = %d, want 0", n)
	}
	if n := unreadFor(t, svc, "user-a", convID); n != 1 {
		t.Fatalf("recipient unread = %d, want 1", n)
	}

	// Opening advances only the opener's watermark.
	if _, msgs, err := svc.Open(ctx, convID, "user-a"); err != nil || len(msgs) != 1 {
		t.Fatalf("open: msgs=%d err=%v", len(msgs), err)
	}
	if n := unreadFor(t, svc, "user-a", convID); n != 0 {
		t.Fatalf("unread after open = %d, want 0", n)
	}

	if _, err := svc.Send(ctx, convID, "user-a", "hi B"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if n := unreadFor(t, svc, "user-b", convID); n != 1 {
		t.Fatalf("b unread = %d, want 1", n)
	}
	if n := unreadFor(t, svc, "user-a", convID); n != 0 {
		t.Fatalf("a unread = %d, want 0", n)
	}
}

func TestConversations_ParticipantOnly(t *testing.T) {
	svc := newConversationsService(mem.NewConversationsRepo())
	ctx := context.Background()

	sum, err := svc.Create(ctx, "user-a", []string{"user-b"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, _, err := svc.Open(ctx, sum.Conversation.ID, "stranger"); err != conversations.ErrForbidden {
		t.Fatalf("open: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Send(ctx, sum.Conversation.ID, "stranger", "let me in"); err != conversations.ErrForbidden {
		t.Fatalf("send: expected ErrForbidden, got %v", err)
	}
}

func TestConversations_CreateNeedsTwoMembers(t *testing.T) {
	svc := newConversationsService(mem.NewConversationsRepo())

	// Duplicates of the creator collapse to a single member.
	_, err := svc.Create(context.Background(), "user-a", []string{"user-a", " ", ""})
	if err != conversations.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

// failingParticipantsRepo rejects the participant insert so the compensating
// delete path runs.
type failingParticipantsRepo struct {
	conversations.Repository
	deleted []string
}

var errInsert = errors.New("insert failed")

func (r *failingParticipantsRepo) AddParticipants(ctx context.Context, ps []conversations.Participant) error {
	return errInsert
}

func (r *failingParticipantsRepo) DeleteConversation(ctx context.Context, id string) error {
	r.deleted = append(r.deleted, id)
	return r.Repository.DeleteConversation(ctx, id)
}

func TestConversations_CompensatingDelete(t *testing.T) {
	repo := &failingParticipantsRepo{Repository: mem.NewConversationsRepo()}
	svc := newConversationsService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-a", []string{"user-b"})
	if !errors.Is(err, errInsert) {
		t.Fatalf("expected insert error, got %v", err)
	}
	if len(repo.deleted) != 1 {
		t.Fatalf("expected 1 compensating delete, got %d", len(repo.deleted))
	}

	sums, err := svc.ListForUser(ctx, "user-a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sums) != 0 {
		t.Fatalf("orphan conversation visible: %d", len(sums))
	}
}
