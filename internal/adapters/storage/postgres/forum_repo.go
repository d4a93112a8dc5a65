package postgres

import (
	"context"
	"database/sql"
	"strings"

	"akita-connect/internal/domain/forum"
)

type ForumRepo struct {
	db *sql.DB
}

func NewForumRepo(db *sql.DB) *ForumRepo {
	return &ForumRepo{db: db}
}

const threadColumns = `
	id, author_id, title, body, category, tags,
	is_pinned, last_active_at,
	created_at, updated_at
`

func (r *ForumRepo) CreateThread(ctx context.Context, t forum.Thread) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO threads (
			id, author_id, title, body, category, tags,
			is_pinned, last_active_at,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		t.ID,
		t.AuthorID,
		t.Title,
		t.Body,
		t.Category,
		tagList(t.Tags),
		t.IsPinned,
		t.LastActiveAt,
		t.CreatedAt,
		t.UpdatedAt,
	)
	return err
}

func (r *ForumRepo) UpdateThread(ctx context.Context, t forum.Thread) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE threads
		SET
			title = $2,
			body = $3,
			category = $4,
			tags = $5,
			is_pinned = $6,
			last_active_at = $7,
			updated_at = $8
		WHERE id = $1
	`,
		t.ID,
		t.Title,
		t.Body,
		t.Category,
		tagList(t.Tags),
		t.IsPinned,
		t.LastActiveAt,
		t.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ForumRepo) DeleteThread(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM threads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ForumRepo) GetThread(ctx context.Context, id string) (forum.Thread, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return forum.Thread{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+threadColumns+`
		FROM threads
		WHERE id = $1
	`, id)

	t, err := scanThread(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return forum.Thread{}, ErrNotFound
		}
		return forum.Thread{}, err
	}
	return t, nil
}

func (r *ForumRepo) ListThreads(ctx context.Context, f forum.ListFilter) ([]forum.Thread, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+threadColumns+`
		FROM threads
		WHERE ($1 = '' OR category = $1)
		  AND ($2 = '' OR $2 = ANY(tags))
		ORDER BY is_pinned DESC, last_active_at DESC
	`, f.Category, f.Tag)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectThreads(rows)
}

func (r *ForumRepo) SearchThreads(ctx context.Context, q string, limit int) ([]forum.Thread, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+threadColumns+`
		FROM threads
		WHERE title ILIKE '%' || $1 || '%' OR body ILIKE '%' || $1 || '%'
		ORDER BY last_active_at DESC
		LIMIT $2
	`, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectThreads(rows)
}

func (r *ForumRepo) CreateComment(ctx context.Context, c forum.Comment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO comments (id, thread_id, author_id, body, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`,
		c.ID,
		c.ThreadID,
		c.AuthorID,
		c.Body,
		c.CreatedAt,
	)
	return err
}

func (r *ForumRepo) GetComment(ctx context.Context, id string) (forum.Comment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, thread_id, author_id, body, created_at
		FROM comments
		WHERE id = $1
	`, id)

	var c forum.Comment
	if err := row.Scan(&c.ID, &c.ThreadID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return forum.Comment{}, ErrNotFound
		}
		return forum.Comment{}, err
	}
	return c, nil
}

func (r *ForumRepo) ListComments(ctx context.Context, threadID string) ([]forum.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, thread_id, author_id, body, created_at
		FROM comments
		WHERE thread_id = $1
		ORDER BY created_at ASC
	`, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]forum.Comment, 0)
	for rows.Next() {
		var c forum.Comment
		if err := rows.Scan(&c.ID, &c.ThreadID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ForumRepo) AddThreadLike(ctx context.Context, threadID, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO thread_likes (thread_id, user_id)
		VALUES ($1,$2)
		ON CONFLICT DO NOTHING
	`, threadID, userID)
	return err
}

func (r *ForumRepo) RemoveThreadLike(ctx context.Context, threadID, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM thread_likes WHERE thread_id = $1 AND user_id = $2
	`, threadID, userID)
	return err
}

func (r *ForumRepo) HasThreadLike(ctx context.Context, threadID, userID string) (bool, error) {
	return r.hasLike(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM thread_likes WHERE thread_id = $1 AND user_id = $2
		)
	`, threadID, userID)
}

func (r *ForumRepo) AddCommentLike(ctx context.Context, commentID, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO comment_likes (comment_id, user_id)
		VALUES ($1,$2)
		ON CONFLICT DO NOTHING
	`, commentID, userID)
	return err
}

func (r *ForumRepo) RemoveCommentLike(ctx context.Context, commentID, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM comment_likes WHERE comment_id = $1 AND user_id = $2
	`, commentID, userID)
	return err
}

func (r *ForumRepo) HasCommentLike(ctx context.Context, commentID, userID string) (bool, error) {
	return r.hasLike(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM comment_likes WHERE comment_id = $1 AND user_id = $2
		)
	`, commentID, userID)
}

func (r *ForumRepo) hasLike(ctx context.Context, query, itemID, userID string) (bool, error) {
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, itemID, userID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *ForumRepo) CountThreadLikes(ctx context.Context, threadIDs []string) (map[string]int, error) {
	return r.countByID(ctx, `
		SELECT thread_id, COUNT(*)
		FROM thread_likes
		WHERE thread_id = ANY($1)
		GROUP BY thread_id
	`, threadIDs)
}

func (r *ForumRepo) ThreadLikesByViewer(ctx context.Context, threadIDs []string, viewerID string) (map[string]bool, error) {
	return r.likedByViewer(ctx, `
		SELECT thread_id
		FROM thread_likes
		WHERE thread_id = ANY($1) AND user_id = $2
	`, threadIDs, viewerID)
}

func (r *ForumRepo) CountReplies(ctx context.Context, threadIDs []string) (map[string]int, error) {
	return r.countByID(ctx, `
		SELECT thread_id, COUNT(*)
		FROM comments
		WHERE thread_id = ANY($1)
		GROUP BY thread_id
	`, threadIDs)
}

func (r *ForumRepo) CountCommentLikes(ctx context.Context, commentIDs []string) (map[string]int, error) {
	return r.countByID(ctx, `
		SELECT comment_id, COUNT(*)
		FROM comment_likes
		WHERE comment_id = ANY($1)
		GROUP BY comment_id
	`, commentIDs)
}

func (r *ForumRepo) CommentLikesByViewer(ctx context.Context, commentIDs []string, viewerID string) (map[string]bool, error) {
	return r.likedByViewer(ctx, `
		SELECT comment_id
		FROM comment_likes
		WHERE comment_id = ANY($1) AND user_id = $2
	`, commentIDs, viewerID)
}

func (r *ForumRepo) countByID(ctx context.Context, query string, ids []string) (map[string]int, error) {
	out := make(map[string]int, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[id] = n
	}
	return out, rows.Err()
}

func (r *ForumRepo) likedByViewer(ctx context.Context, query string, ids []string, viewerID string) (map[string]bool, error) {
	out := make(map[string]bool, len(ids))
	if len(ids) == 0 || viewerID == "" {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx, query, ids, viewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

func scanThread(row rowScanner) (forum.Thread, error) {
	var t forum.Thread
	err := row.Scan(
		&t.ID,
		&t.AuthorID,
		&t.Title,
		&t.Body,
		&t.Category,
		&t.Tags,
		&t.IsPinned,
		&t.LastActiveAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return forum.Thread{}, err
	}
	return t, nil
}

func collectThreads(rows *sql.Rows) ([]forum.Thread, error) {
	out := make([]forum.Thread, 0)
	for rows.Next() {
		t, err := scanThread(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// tags is a text[] column; never insert NULL so ANY() matches stay simple.
func tagList(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
