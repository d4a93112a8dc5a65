package conversations

import "time"

type Conversation struct {
	ID        string
	CreatedAt time.Time
}

// Participant carries the per-user read watermark. Unread count is derived:
// messages created strictly after LastReadAt, excluding the participant's own.
type Participant struct {
	ConversationID string
	UserID         string
	LastReadAt     time.Time // zero = never opened
	JoinedAt       time.Time
}

type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	Body           string
	CreatedAt      time.Time
}

// Summary is a conversation as seen by one participant.
type Summary struct {
	Conversation Conversation
	Participants []Participant
	UnreadCount  int
}
