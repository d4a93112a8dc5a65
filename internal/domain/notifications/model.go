package notifications

import "time"

type Type string

const (
	TypeFollow         Type = "follow"
	TypeRSVP           Type = "rsvp"
	TypeLitterApproved Type = "litter_approved"
	TypeLitterRejected Type = "litter_rejected"
	TypeThreadReply    Type = "thread_reply"
	TypeMessage        Type = "message"
)

// Notification is a one-way fan-out record created as a side effect of
// follows, RSVPs, litter moderation, thread replies and direct messages.
type Notification struct {
	ID      string
	UserID  string
	Type    Type
	Title   string
	Message string
	Link    string
	Read    bool

	CreatedAt time.Time
}
