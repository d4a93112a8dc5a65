package postgres

import (
	"context"
	"database/sql"
	"time"

	"akita-connect/internal/domain/conversations"
)

type ConversationsRepo struct {
	db *sql.DB
}

func NewConversationsRepo(db *sql.DB) *ConversationsRepo {
	return &ConversationsRepo{db: db}
}

func (r *ConversationsRepo) CreateConversation(ctx context.Context, c conversations.Conversation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO conversations (id, created_at)
		VALUES ($1,$2)
	`, c.ID, c.CreatedAt)
	return err
}

func (r *ConversationsRepo) DeleteConversation(ctx context.Context, id string) error {
	// Participants and messages cascade on the foreign key.
	_, err := r.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = $1`, id)
	return err
}

func (r *ConversationsRepo) GetConversation(ctx context.Context, id string) (conversations.Conversation, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, created_at
		FROM conversations
		WHERE id = $1
	`, id)

	var c conversations.Conversation
	if err := row.Scan(&c.ID, &c.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return conversations.Conversation{}, ErrNotFound
		}
		return conversations.Conversation{}, err
	}
	return c, nil
}

func (r *ConversationsRepo) ListConversationsByUser(ctx context.Context, userID string) ([]conversations.Conversation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.created_at
		FROM conversations c
		JOIN conversation_participants p ON p.conversation_id = c.id
		WHERE p.user_id = $1
		ORDER BY c.created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]conversations.Conversation, 0)
	for rows.Next() {
		var c conversations.Conversation
		if err := rows.Scan(&c.ID, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ConversationsRepo) AddParticipants(ctx context.Context, ps []conversations.Participant) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range ps {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO conversation_participants (conversation_id, user_id, last_read_at, joined_at)
			VALUES ($1,$2,$3,$4)
		`, p.ConversationID, p.UserID, p.LastReadAt, p.JoinedAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *ConversationsRepo) GetParticipant(ctx context.Context, conversationID, userID string) (conversations.Participant, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT conversation_id, user_id, last_read_at, joined_at
		FROM conversation_participants
		WHERE conversation_id = $1 AND user_id = $2
	`, conversationID, userID)

	var p conversations.Participant
	if err := row.Scan(&p.ConversationID, &p.UserID, &p.LastReadAt, &p.JoinedAt); err != nil {
		if err == sql.ErrNoRows {
			return conversations.Participant{}, ErrNotFound
		}
		return conversations.Participant{}, err
	}
	return p, nil
}

func (r *ConversationsRepo) ListParticipants(ctx context.Context, conversationID string) ([]conversations.Participant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT conversation_id, user_id, last_read_at, joined_at
		FROM conversation_participants
		WHERE conversation_id = $1
		ORDER BY user_id ASC
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]conversations.Participant, 0)
	for rows.Next() {
		var p conversations.Participant
		if err := rows.Scan(&p.ConversationID, &p.UserID, &p.LastReadAt, &p.JoinedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ConversationsRepo) UpdateLastRead(ctx context.Context, conversationID, userID string, t time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE conversation_participants
		SET last_read_at = $3
		WHERE conversation_id = $1 AND user_id = $2
	`, conversationID, userID, t)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ConversationsRepo) CreateMessage(ctx context.Context, m conversations.Message) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (id, conversation_id, sender_id, body, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, m.ID, m.ConversationID, m.SenderID, m.Body, m.CreatedAt)
	return err
}

func (r *ConversationsRepo) ListMessages(ctx context.Context, conversationID string) ([]conversations.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, conversation_id, sender_id, body, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]conversations.Message, 0)
	for rows.Next() {
		var m conversations.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *ConversationsRepo) CountUnread(ctx context.Context, conversationID, userID string, after time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM messages
		WHERE conversation_id = $1
		  AND sender_id <> $2
		  AND created_at > $3
	`, conversationID, userID, after).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}
