package animals

import "context"

type Repository interface {
	Create(ctx context.Context, a Animal) error
	Update(ctx context.Context, a Animal) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Animal, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Animal, error)
	List(ctx context.Context) ([]Animal, error)
	SearchByName(ctx context.Context, q string, limit int) ([]Animal, error)

	AddHealthRecord(ctx context.Context, hr HealthRecord) error
	ListHealthRecords(ctx context.Context, animalID string) ([]HealthRecord, error)
}
