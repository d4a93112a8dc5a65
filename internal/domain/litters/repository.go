package litters

import "context"

type Repository interface {
	Create(ctx context.Context, l Litter) error
	Update(ctx context.Context, l Litter) error
	GetByID(ctx context.Context, id string) (Litter, error)
	ListByBreeder(ctx context.Context, breederUserID string) ([]Litter, error)
	ListPending(ctx context.Context) ([]Litter, error)
	// ListApprovedListed backs the public marketplace view.
	ListApprovedListed(ctx context.Context) ([]Litter, error)
}
