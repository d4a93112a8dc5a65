package memory

import (
	"context"
	"sort"
	"sync"

	"akita-connect/internal/domain/follows"
)

type followKey struct {
	followerID string
	followeeID string
}

type followsRepo struct {
	mu   sync.RWMutex
	rows map[followKey]follows.Follow
}

func NewFollowsRepo() follows.Repository {
	return &followsRepo{
		rows: make(map[followKey]follows.Follow),
	}
}

func (r *followsRepo) Add(ctx context.Context, f follows.Follow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := followKey{f.FollowerID, f.FolloweeID}
	if _, exists := r.rows[key]; exists {
		return nil
	}
	r.rows[key] = f
	return nil
}

func (r *followsRepo) Remove(ctx context.Context, followerID, followeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rows, followKey{followerID, followeeID})
	return nil
}

func (r *followsRepo) Exists(ctx context.Context, followerID, followeeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rows[followKey{followerID, followeeID}]
	return ok, nil
}

func (r *followsRepo) ListFollowers(ctx context.Context, followeeID string) ([]follows.Follow, error) {
	return r.filter(func(f follows.Follow) bool {
		return f.FolloweeID == followeeID
	})
}

func (r *followsRepo) ListFollowing(ctx context.Context, followerID string) ([]follows.Follow, error) {
	return r.filter(func(f follows.Follow) bool {
		return f.FollowerID == followerID
	})
}

func (r *followsRepo) filter(keep func(follows.Follow) bool) ([]follows.Follow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]follows.Follow, 0)
	for _, f := range r.rows {
		if keep(f) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
