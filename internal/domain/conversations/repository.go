package conversations

import (
	"context"
	"time"
)

type Repository interface {
	CreateConversation(ctx context.Context, c Conversation) error
	// DeleteConversation backs the compensating delete when participant
	// insertion fails after the conversation row landed.
	DeleteConversation(ctx context.Context, id string) error
	GetConversation(ctx context.Context, id string) (Conversation, error)
	ListConversationsByUser(ctx context.Context, userID string) ([]Conversation, error)

	AddParticipants(ctx context.Context, ps []Participant) error
	GetParticipant(ctx context.Context, conversationID, userID string) (Participant, error)
	ListParticipants(ctx context.Context, conversationID string) ([]Participant, error)
	UpdateLastRead(ctx context.Context, conversationID, userID string, t time.Time) error

	CreateMessage(ctx context.Context, m Message) error
	ListMessages(ctx context.Context, conversationID string) ([]Message, error)
	// CountUnread counts messages after the watermark not sent by userID.
	CountUnread(ctx context.Context, conversationID, userID string, after time.Time) (int, error)
}
