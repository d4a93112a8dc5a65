package forum

import "time"

type Thread struct {
	ID       string
	AuthorID string

	Title    string
	Body     string
	Category string
	Tags     []string

	IsPinned     bool
	LastActiveAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Comment is a reply inside a thread.
type Comment struct {
	ID       string
	ThreadID string
	AuthorID string
	Body     string

	CreatedAt time.Time
}

// ThreadView is a thread decorated with derived social metadata.
type ThreadView struct {
	Thread
	LikesCount   int
	UserHasLiked bool
	ReplyCount   int
}

type CommentView struct {
	Comment
	LikesCount   int
	UserHasLiked bool
}
