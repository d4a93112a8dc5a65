package forum_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	mem "akita-connect/internal/adapters/storage/memory"
	"akita-connect/internal/domain/forum"
	"akita-connect/internal/domain/notifications"
)

func newForumService(t *testing.T, repo forum.Repository) *forum.Service {
	t.Helper()
	notifier := notifications.NewService(mem.NewNotificationsRepo(), zerolog.Nop())
	return forum.NewService(repo, notifier, zerolog.Nop())
}

func createThread(t *testing.T, svc *forum.Service, author, title string) forum.Thread {
	t.Helper()
	th, err := svc.CreateThread(context.Background(), author, forum.CreateThreadInput{
		Title: title,
		Body:  "body of " + title,
	})
	if err != nil {
		t.Fatalf("create thread %q: %v", title, err)
	}
	return th
}

func TestEnrichThreads_Empty(t *testing.T) {
	svc := newForumService(t, mem.NewForumRepo())

	out := svc.EnrichThreads(context.Background(), nil, "viewer")
	if len(out) != 0 {
		t.Fatalf("expected empty result, got %d", len(out))
	}
}

func TestEnrichThreads_CountsAndViewerFlags(t *testing.T) {
	repo := mem.NewForumRepo()
	svc := newForumService(t, repo)
	ctx := context.Background()

	t1 := createThread(t, svc, "author-1", "First")
	t2 := createThread(t, svc, "author-1", "Second")

	if _, err := svc.ToggleThreadLike(ctx, t1.ID, "viewer-v"); err != nil {
		t.Fatalf("like: %v", err)
	}
	if _, err := svc.ToggleThreadLike(ctx, t1.ID, "viewer-w"); err != nil {
		t.Fatalf("like: %v", err)
	}
	if _, err := svc.Reply(ctx, t1.ID, "viewer-w", "nice thread"); err != nil {
		t.Fatalf("reply: %v", err)
	}

	views := svc.EnrichThreads(ctx, []forum.Thread{t1, t2}, "viewer-v")
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}
	if views[0].Thread.ID != t1.ID || views[1].Thread.ID != t2.ID {
		t.Fatalf("input order not preserved")
	}
	if views[0].LikesCount != 2 || !views[0].UserHasLiked || views[0].ReplyCount != 1 {
		t.Fatalf("t1 view = %+v", views[0])
	}
	if views[1].LikesCount != 0 || views[1].UserHasLiked || views[1].ReplyCount != 0 {
		t.Fatalf("t2 view = %+v", views[1])
	}

	// A viewer who never liked sees the counts but no flag.
	views = svc.EnrichThreads(ctx, []forum.Thread{t1}, "viewer-w2")
	if views[0].LikesCount != 2 || views[0].UserHasLiked {
		t.Fatalf("t1 view for stranger = %+v", views[0])
	}
}

// failingLookupsRepo breaks every batched lookup while the underlying
// repository keeps working.
type failingLookupsRepo struct {
	forum.Repository
}

var errLookup = errors.New("lookup down")

func (r failingLookupsRepo) CountThreadLikes(ctx context.Context, ids []string) (map[string]int, error) {
	return nil, errLookup
}

func (r failingLookupsRepo) ThreadLikesByViewer(ctx context.Context, ids []string, viewerID string) (map[string]bool, error) {
	return nil, errLookup
}

func (r failingLookupsRepo) CountReplies(ctx context.Context, ids []string) (map[string]int, error) {
	return nil, errLookup
}

func TestEnrichThreads_LookupFailureDegradesToZero(t *testing.T) {
	repo := failingLookupsRepo{Repository: mem.NewForumRepo()}
	svc := newForumService(t, repo)
	ctx := context.Background()

	t1 := createThread(t, svc, "author-1", "First")
	t2 := createThread(t, svc, "author-1", "Second")
	if _, err := svc.ToggleThreadLike(ctx, t1.ID, "viewer-v"); err != nil {
		t.Fatalf("like: %v", err)
	}

	views := svc.EnrichThreads(ctx, []forum.Thread{t1, t2}, "viewer-v")
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}
	if views[0].Thread.ID != t1.ID || views[1].Thread.ID != t2.ID {
		t.Fatalf("input order not preserved on failure")
	}
	for _, v := range views {
		if v.LikesCount != 0 || v.UserHasLiked || v.ReplyCount != 0 {
			t.Fatalf("expected zero-value enrichment, got %+v", v)
		}
	}
}

func TestToggleThreadLike_Idempotent(t *testing.T) {
	svc := newForumService(t, mem.NewForumRepo())
	ctx := context.Background()

	th := createThread(t, svc, "author-1", "Toggle")

	liked, err := svc.ToggleThreadLike(ctx, th.ID, "viewer-v")
	if err != nil || !liked {
		t.Fatalf("first toggle: liked=%v err=%v", liked, err)
	}
	liked, err = svc.ToggleThreadLike(ctx, th.ID, "viewer-v")
	if err != nil || liked {
		t.Fatalf("second toggle: liked=%v err=%v", liked, err)
	}
	liked, err = svc.ToggleThreadLike(ctx, th.ID, "viewer-v")
	if err != nil || !liked {
		t.Fatalf("third toggle: liked=%v err=%v", liked, err)
	}

	views := svc.EnrichThreads(ctx, []forum.Thread{th}, "viewer-v")
	if views[0].LikesCount != 1 || !views[0].UserHasLiked {
		t.Fatalf("after like-unlike-like: %+v", views[0])
	}
}

func TestReply_NotifiesThreadAuthor(t *testing.T) {
	notifRepo := mem.NewNotificationsRepo()
	notifier := notifications.NewService(notifRepo, zerolog.Nop())
	svc := forum.NewService(mem.NewForumRepo(), notifier, zerolog.Nop())
	ctx := context.Background()

	th := createThread(t, svc, "author-1", "Question")

	// Self-replies stay silent.
	if _, err := svc.Reply(ctx, th.ID, "author-1", "bump"); err != nil {
		t.Fatalf("self reply: %v", err)
	}
	ns, err := notifRepo.ListByUser(ctx, "author-1")
	if err != nil || len(ns) != 0 {
		t.Fatalf("expected no notifications after self reply, got %d (%v)", len(ns), err)
	}

	if _, err := svc.Reply(ctx, th.ID, "helper-1", "an answer"); err != nil {
		t.Fatalf("reply: %v", err)
	}
	ns, err = notifRepo.ListByUser(ctx, "author-1")
	if err != nil || len(ns) != 1 {
		t.Fatalf("expected 1 notification, got %d (%v)", len(ns), err)
	}
	if ns[0].Type != notifications.TypeThreadReply {
		t.Fatalf("notification type = %s", ns[0].Type)
	}
}
