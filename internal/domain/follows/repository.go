package follows

import "context"

type Repository interface {
	Add(ctx context.Context, f Follow) error
	Remove(ctx context.Context, followerID, followeeID string) error
	Exists(ctx context.Context, followerID, followeeID string) (bool, error)
	ListFollowers(ctx context.Context, followeeID string) ([]Follow, error)
	ListFollowing(ctx context.Context, followerID string) ([]Follow, error)
}
