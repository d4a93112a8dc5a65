package postgres

import (
	"context"
	"database/sql"

	"akita-connect/internal/domain/follows"
)

type FollowsRepo struct {
	db *sql.DB
}

func NewFollowsRepo(db *sql.DB) *FollowsRepo {
	return &FollowsRepo{db: db}
}

func (r *FollowsRepo) Add(ctx context.Context, f follows.Follow) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO follows (follower_id, followee_id, created_at)
		VALUES ($1,$2,$3)
		ON CONFLICT DO NOTHING
	`, f.FollowerID, f.FolloweeID, f.CreatedAt)
	return err
}

func (r *FollowsRepo) Remove(ctx context.Context, followerID, followeeID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2
	`, followerID, followeeID)
	return err
}

func (r *FollowsRepo) Exists(ctx context.Context, followerID, followeeID string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2
		)
	`, followerID, followeeID).Scan(&ok)
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (r *FollowsRepo) ListFollowers(ctx context.Context, followeeID string) ([]follows.Follow, error) {
	return r.list(ctx, `WHERE followee_id = $1`, followeeID)
}

func (r *FollowsRepo) ListFollowing(ctx context.Context, followerID string) ([]follows.Follow, error) {
	return r.list(ctx, `WHERE follower_id = $1`, followerID)
}

func (r *FollowsRepo) list(ctx context.Context, where string, arg string) ([]follows.Follow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT follower_id, followee_id, created_at
		FROM follows
		`+where+`
		ORDER BY created_at ASC
	`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]follows.Follow, 0)
	for rows.Next() {
		var f follows.Follow
		if err := rows.Scan(&f.FollowerID, &f.FolloweeID, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
