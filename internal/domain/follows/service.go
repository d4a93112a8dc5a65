package follows

import (
	"context"
	"errors"
	"strings"
	"time"

	"akita-connect/internal/domain/notifications"
	"akita-connect/internal/domain/profiles"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo        Repository
	profilesSvc *profiles.Service
	notifier    *notifications.Service
	now         func() time.Time
}

func NewService(repo Repository, profilesSvc *profiles.Service, notifier *notifications.Service) *Service {
	return &Service{
		repo:        repo,
		profilesSvc: profilesSvc,
		notifier:    notifier,
		now:         time.Now,
	}
}

// Follow is idempotent: following twice is a no-op. The followee is notified
// only on the first follow.
func (s *Service) Follow(ctx context.Context, followerID, followeeID string) error {
	followerID = strings.TrimSpace(followerID)
	followeeID = strings.TrimSpace(followeeID)
	if followerID == "" || followeeID == "" || followerID == followeeID {
		return ErrInvalidInput
	}

	exists, err := s.repo.Exists(ctx, followerID, followeeID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	// Dev-mode identities may not have registered; materialize a minimal
	// profile so the notification link resolves.
	if _, err := s.profilesSvc.EnsureExists(ctx, followerID, ""); err != nil {
		return err
	}

	if err := s.repo.Add(ctx, Follow{
		FollowerID: followerID,
		FolloweeID: followeeID,
		CreatedAt:  s.now(),
	}); err != nil {
		return err
	}

	s.notifier.Notify(ctx, followeeID, notifications.TypeFollow,
		"New follower",
		s.profilesSvc.DisplayNameOf(ctx, followerID)+" is now following you.",
		"/users/"+followerID)

	return nil
}

// Unfollow is idempotent.
func (s *Service) Unfollow(ctx context.Context, followerID, followeeID string) error {
	followerID = strings.TrimSpace(followerID)
	followeeID = strings.TrimSpace(followeeID)
	if followerID == "" || followeeID == "" {
		return ErrInvalidInput
	}
	return s.repo.Remove(ctx, followerID, followeeID)
}

func (s *Service) Followers(ctx context.Context, userID string) ([]Follow, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListFollowers(ctx, userID)
}

func (s *Service) Following(ctx context.Context, userID string) ([]Follow, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListFollowing(ctx, userID)
}
