package events

import "context"

type Repository interface {
	Create(ctx context.Context, e Event) error
	Update(ctx context.Context, e Event) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Event, error)
	List(ctx context.Context) ([]Event, error)
	SearchByTitle(ctx context.Context, q string, limit int) ([]Event, error)

	UpsertRSVP(ctx context.Context, r RSVP) error
	ListRSVPs(ctx context.Context, eventID string) ([]RSVP, error)
}
