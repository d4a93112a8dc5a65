package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"akita-connect/internal/domain/forum"
)

type likeKey struct {
	itemID string
	userID string
}

type forumRepo struct {
	mu           sync.RWMutex
	threads      map[string]forum.Thread
	comments     map[string]forum.Comment
	threadLikes  map[likeKey]struct{}
	commentLikes map[likeKey]struct{}
}

func NewForumRepo() forum.Repository {
	return &forumRepo{
		threads:      make(map[string]forum.Thread),
		comments:     make(map[string]forum.Comment),
		threadLikes:  make(map[likeKey]struct{}),
		commentLikes: make(map[likeKey]struct{}),
	}
}

func (r *forumRepo) CreateThread(ctx context.Context, t forum.Thread) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(t.ID) == "" {
		return errors.New("thread id required")
	}
	if _, exists := r.threads[t.ID]; exists {
		return errors.New("thread already exists")
	}
	r.threads[t.ID] = t
	return nil
}

func (r *forumRepo) UpdateThread(ctx context.Context, t forum.Thread) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.threads[t.ID]; !exists {
		return ErrNotFound
	}
	r.threads[t.ID] = t
	return nil
}

func (r *forumRepo) DeleteThread(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.threads[id]; !exists {
		return ErrNotFound
	}
	delete(r.threads, id)
	for cid, c := range r.comments {
		if c.ThreadID == id {
			delete(r.comments, cid)
		}
	}
	return nil
}

func (r *forumRepo) GetThread(ctx context.Context, id string) (forum.Thread, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.threads[id]
	if !ok {
		return forum.Thread{}, ErrNotFound
	}
	return t, nil
}

func (r *forumRepo) ListThreads(ctx context.Context, f forum.ListFilter) ([]forum.Thread, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]forum.Thread, 0)
	for _, t := range r.threads {
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		if f.Tag != "" && !hasTag(t.Tags, f.Tag) {
			continue
		}
		out = append(out, t)
	}
	// Pinned first, then most recently active.
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPinned != out[j].IsPinned {
			return out[i].IsPinned
		}
		return out[i].LastActiveAt.After(out[j].LastActiveAt)
	})
	return out, nil
}

func (r *forumRepo) SearchThreads(ctx context.Context, q string, limit int) ([]forum.Thread, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q = strings.ToLower(q)
	out := make([]forum.Thread, 0)
	for _, t := range r.threads {
		if strings.Contains(strings.ToLower(t.Title), q) || strings.Contains(strings.ToLower(t.Body), q) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActiveAt.After(out[j].LastActiveAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *forumRepo) CreateComment(ctx context.Context, c forum.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("comment id required")
	}
	if _, exists := r.threads[c.ThreadID]; !exists {
		return ErrNotFound
	}
	r.comments[c.ID] = c
	return nil
}

func (r *forumRepo) GetComment(ctx context.Context, id string) (forum.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.comments[id]
	if !ok {
		return forum.Comment{}, ErrNotFound
	}
	return c, nil
}

func (r *forumRepo) ListComments(ctx context.Context, threadID string) ([]forum.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]forum.Comment, 0)
	for _, c := range r.comments {
		if c.ThreadID == threadID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *forumRepo) AddThreadLike(ctx context.Context, threadID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.threadLikes[likeKey{threadID, userID}] = struct{}{}
	return nil
}

func (r *forumRepo) RemoveThreadLike(ctx context.Context, threadID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.threadLikes, likeKey{threadID, userID})
	return nil
}

func (r *forumRepo) HasThreadLike(ctx context.Context, threadID, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.threadLikes[likeKey{threadID, userID}]
	return ok, nil
}

func (r *forumRepo) AddCommentLike(ctx context.Context, commentID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commentLikes[likeKey{commentID, userID}] = struct{}{}
	return nil
}

func (r *forumRepo) RemoveCommentLike(ctx context.Context, commentID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.commentLikes, likeKey{commentID, userID})
	return nil
}

func (r *forumRepo) HasCommentLike(ctx context.Context, commentID, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.commentLikes[likeKey{commentID, userID}]
	return ok, nil
}

func (r *forumRepo) CountThreadLikes(ctx context.Context, threadIDs []string) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return countLikes(r.threadLikes, threadIDs), nil
}

func (r *forumRepo) ThreadLikesByViewer(ctx context.Context, threadIDs []string, viewerID string) (map[string]bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return likesByViewer(r.threadLikes, threadIDs, viewerID), nil
}

func (r *forumRepo) CountReplies(ctx context.Context, threadIDs []string) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	want := idSet(threadIDs)
	out := make(map[string]int, len(threadIDs))
	for _, c := range r.comments {
		if _, ok := want[c.ThreadID]; ok {
			out[c.ThreadID]++
		}
	}
	return out, nil
}

func (r *forumRepo) CountCommentLikes(ctx context.Context, commentIDs []string) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return countLikes(r.commentLikes, commentIDs), nil
}

func (r *forumRepo) CommentLikesByViewer(ctx context.Context, commentIDs []string, viewerID string) (map[string]bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return likesByViewer(r.commentLikes, commentIDs, viewerID), nil
}

func countLikes(likes map[likeKey]struct{}, ids []string) map[string]int {
	want := idSet(ids)
	out := make(map[string]int, len(ids))
	for k := range likes {
		if _, ok := want[k.itemID]; ok {
			out[k.itemID]++
		}
	}
	return out
}

func likesByViewer(likes map[likeKey]struct{}, ids []string, viewerID string) map[string]bool {
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := likes[likeKey{id, viewerID}]; ok {
			out[id] = true
		}
	}
	return out
}

func idSet(ids []string) map[string]struct{} {
	s := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
