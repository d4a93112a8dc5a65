package events

import "time"

// Event is a community gathering (show, meetup, training day).
type Event struct {
	ID          string
	OrganizerID string

	Title       string
	Description string
	Location    string
	StartsAt    time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

type RSVPStatus string

const (
	RSVPGoing      RSVPStatus = "going"
	RSVPInterested RSVPStatus = "interested"
)

// RSVP is upserted per (event, user).
type RSVP struct {
	EventID string
	UserID  string
	Status  RSVPStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}
