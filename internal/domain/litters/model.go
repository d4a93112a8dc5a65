package litters

import "time"

// ApprovalStatus is the moderation tri-state. Approved and rejected are
// terminal; there is no path back to pending.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// ListingStatus is the breeder-controlled visibility flag. It is independent
// of moderation: the marketplace requires approved AND listed.
type ListingStatus string

const (
	ListingUnlisted ListingStatus = "unlisted"
	ListingListed   ListingStatus = "listed"
	ListingSold     ListingStatus = "sold"
)

// WeightEntry is one observation in a puppy's weight series.
type WeightEntry struct {
	Date     time.Time `json:"date"`
	WeightKg float64   `json:"weight_kg"`
}

// Puppy is an embedded sub-record of a litter. Weights is append-only and
// kept sorted by date on each insert.
type Puppy struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Sex     string        `json:"sex"`
	Color   string        `json:"color"`
	Weights []WeightEntry `json:"weights"`
}

type Litter struct {
	ID            string
	BreederUserID string

	SireID string
	DamID  string

	WhelpedAt   *time.Time
	Description string

	ListingStatus  ListingStatus
	ApprovalStatus ApprovalStatus

	RejectionReason string
	ApprovedBy      string
	ApprovedAt      *time.Time

	Puppies []Puppy

	CreatedAt time.Time
	UpdatedAt time.Time
}
