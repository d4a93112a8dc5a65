package forum

import (
	"context"
	"errors"
	"strings"
	"time"

	"akita-connect/internal/domain/notifications"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo     Repository
	notifier *notifications.Service
	log      zerolog.Logger
	now      func() time.Time
}

func NewService(repo Repository, notifier *notifications.Service, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

type CreateThreadInput struct {
	Title    string
	Body     string
	Category string
	Tags     []string
}

func (s *Service) CreateThread(ctx context.Context, authorID string, in CreateThreadInput) (Thread, error) {
	authorID = strings.TrimSpace(authorID)
	if authorID == "" || strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Body) == "" {
		return Thread{}, ErrInvalidInput
	}

	now := s.now()
	t := Thread{
		ID:           uuid.NewString(),
		AuthorID:     authorID,
		Title:        strings.TrimSpace(in.Title),
		Body:         strings.TrimSpace(in.Body),
		Category:     strings.TrimSpace(in.Category),
		Tags:         normalizeTags(in.Tags),
		LastActiveAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateThread(ctx, t); err != nil {
		return Thread{}, err
	}
	return t, nil
}

func (s *Service) GetThread(ctx context.Context, id string) (Thread, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Thread{}, ErrInvalidInput
	}
	return s.repo.GetThread(ctx, id)
}

func (s *Service) ListThreads(ctx context.Context, f ListFilter) ([]Thread, error) {
	return s.repo.ListThreads(ctx, f)
}

func (s *Service) SearchThreads(ctx context.Context, q string, limit int) ([]Thread, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.SearchThreads(ctx, q, limit)
}

type UpdateThreadInput struct {
	Title    *string
	Body     *string
	Category *string
	Tags     []string // nil = leave untouched
	IsPinned *bool    // author cannot pin; accepted only from moderation paths
}

func (s *Service) UpdateThread(ctx context.Context, id, callerID string, in UpdateThreadInput) (Thread, error) {
	t, err := s.authorizeAuthor(ctx, id, callerID)
	if err != nil {
		return Thread{}, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return Thread{}, ErrInvalidInput
		}
		t.Title = title
	}
	if in.Body != nil {
		body := strings.TrimSpace(*in.Body)
		if body == "" {
			return Thread{}, ErrInvalidInput
		}
		t.Body = body
	}
	if in.Category != nil {
		t.Category = strings.TrimSpace(*in.Category)
	}
	if in.Tags != nil {
		t.Tags = normalizeTags(in.Tags)
	}
	if in.IsPinned != nil {
		t.IsPinned = *in.IsPinned
	}

	t.UpdatedAt = s.now()
	if err := s.repo.UpdateThread(ctx, t); err != nil {
		return Thread{}, err
	}
	return t, nil
}

func (s *Service) DeleteThread(ctx context.Context, id, callerID string) error {
	if _, err := s.authorizeAuthor(ctx, id, callerID); err != nil {
		return err
	}
	return s.repo.DeleteThread(ctx, id)
}

// Reply creates a comment, bumps the thread's last_active and notifies the
// thread author (unless they reply to themselves).
func (s *Service) Reply(ctx context.Context, threadID, authorID, body string) (Comment, error) {
	threadID = strings.TrimSpace(threadID)
	authorID = strings.TrimSpace(authorID)
	body = strings.TrimSpace(body)
	if threadID == "" || authorID == "" || body == "" {
		return Comment{}, ErrInvalidInput
	}

	t, err := s.repo.GetThread(ctx, threadID)
	if err != nil {
		return Comment{}, ErrNotFound
	}

	now := s.now()
	c := Comment{
		ID:        uuid.NewString(),
		ThreadID:  threadID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: now,
	}
	if err := s.repo.CreateComment(ctx, c); err != nil {
		return Comment{}, err
	}

	t.LastActiveAt = now
	if err := s.repo.UpdateThread(ctx, t); err != nil {
		// Activity bump is advisory; the reply itself already landed.
		s.log.Warn().Err(err).Str("thread_id", threadID).Msg("last_active bump failed")
	}

	if t.AuthorID != authorID {
		s.notifier.Notify(ctx, t.AuthorID, notifications.TypeThreadReply,
			"New reply",
			"Someone replied to your thread \""+t.Title+"\".",
			"/threads/"+t.ID)
	}

	return c, nil
}

func (s *Service) ListComments(ctx context.Context, threadID string) ([]Comment, error) {
	threadID = strings.TrimSpace(threadID)
	if threadID == "" {
		return nil, ErrInvalidInput
	}
	if _, err := s.repo.GetThread(ctx, threadID); err != nil {
		return nil, ErrNotFound
	}
	return s.repo.ListComments(ctx, threadID)
}

// ToggleThreadLike likes or unlikes; like -> unlike -> like lands on liked.
func (s *Service) ToggleThreadLike(ctx context.Context, threadID, userID string) (liked bool, err error) {
	threadID = strings.TrimSpace(threadID)
	userID = strings.TrimSpace(userID)
	if threadID == "" || userID == "" {
		return false, ErrInvalidInput
	}
	if _, err := s.repo.GetThread(ctx, threadID); err != nil {
		return false, ErrNotFound
	}

	has, err := s.repo.HasThreadLike(ctx, threadID, userID)
	if err != nil {
		return false, err
	}
	if has {
		return false, s.repo.RemoveThreadLike(ctx, threadID, userID)
	}
	return true, s.repo.AddThreadLike(ctx, threadID, userID)
}

func (s *Service) ToggleCommentLike(ctx context.Context, commentID, userID string) (liked bool, err error) {
	commentID = strings.TrimSpace(commentID)
	userID = strings.TrimSpace(userID)
	if commentID == "" || userID == "" {
		return false, ErrInvalidInput
	}
	if _, err := s.repo.GetComment(ctx, commentID); err != nil {
		return false, ErrNotFound
	}

	has, err := s.repo.HasCommentLike(ctx, commentID, userID)
	if err != nil {
		return false, err
	}
	if has {
		return false, s.repo.RemoveCommentLike(ctx, commentID, userID)
	}
	return true, s.repo.AddCommentLike(ctx, commentID, userID)
}

func (s *Service) authorizeAuthor(ctx context.Context, id, callerID string) (Thread, error) {
	id = strings.TrimSpace(id)
	callerID = strings.TrimSpace(callerID)
	if id == "" || callerID == "" {
		return Thread{}, ErrInvalidInput
	}

	t, err := s.repo.GetThread(ctx, id)
	if err != nil {
		return Thread{}, ErrNotFound
	}
	if t.AuthorID != callerID {
		return Thread{}, ErrForbidden
	}
	return t, nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]struct{}{}
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
