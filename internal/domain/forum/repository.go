package forum

import "context"

type ListFilter struct {
	Category string
	Tag      string
}

type Repository interface {
	CreateThread(ctx context.Context, t Thread) error
	UpdateThread(ctx context.Context, t Thread) error
	DeleteThread(ctx context.Context, id string) error
	GetThread(ctx context.Context, id string) (Thread, error)
	ListThreads(ctx context.Context, f ListFilter) ([]Thread, error)
	SearchThreads(ctx context.Context, q string, limit int) ([]Thread, error)

	CreateComment(ctx context.Context, c Comment) error
	GetComment(ctx context.Context, id string) (Comment, error)
	ListComments(ctx context.Context, threadID string) ([]Comment, error)

	// Likes are join rows unique per (item, user).
	AddThreadLike(ctx context.Context, threadID, userID string) error
	RemoveThreadLike(ctx context.Context, threadID, userID string) error
	HasThreadLike(ctx context.Context, threadID, userID string) (bool, error)
	AddCommentLike(ctx context.Context, commentID, userID string) error
	RemoveCommentLike(ctx context.Context, commentID, userID string) error
	HasCommentLike(ctx context.Context, commentID, userID string) (bool, error)

	// Batched enrichment lookups over an id-set, one round trip each.
	CountThreadLikes(ctx context.Context, threadIDs []string) (map[string]int, error)
	ThreadLikesByViewer(ctx context.Context, threadIDs []string, viewerID string) (map[string]bool, error)
	CountReplies(ctx context.Context, threadIDs []string) (map[string]int, error)
	CountCommentLikes(ctx context.Context, commentIDs []string) (map[string]int, error)
	CommentLikesByViewer(ctx context.Context, commentIDs []string, viewerID string) (map[string]bool, error)
}
