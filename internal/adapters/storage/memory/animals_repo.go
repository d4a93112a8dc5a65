package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"akita-connect/internal/domain/animals"
)

type animalsRepo struct {
	mu       sync.RWMutex
	byID     map[string]animals.Animal
	healthBy map[string][]animals.HealthRecord // animal id -> records
}

func NewAnimalsRepo() animals.Repository {
	return &animalsRepo{
		byID:     make(map[string]animals.Animal),
		healthBy: make(map[string][]animals.HealthRecord),
	}
}

func (r *animalsRepo) Create(ctx context.Context, a animals.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("animal id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("animal already exists")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *animalsRepo) Update(ctx context.Context, a animals.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[a.ID]; !exists {
		return ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *animalsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return ErrNotFound
	}
	delete(r.byID, id)
	delete(r.healthBy, id)
	return nil
}

func (r *animalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return animals.Animal{}, ErrNotFound
	}
	return a, nil
}

func (r *animalsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]animals.Animal, 0)
	for _, a := range r.byID {
		if a.OwnerUserID == ownerUserID {
			out = append(out, a)
		}
	}
	sortAnimals(out)
	return out, nil
}

func (r *animalsRepo) List(ctx context.Context) ([]animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]animals.Animal, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	sortAnimals(out)
	return out, nil
}

func (r *animalsRepo) SearchByName(ctx context.Context, q string, limit int) ([]animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q = strings.ToLower(q)
	out := make([]animals.Animal, 0)
	for _, a := range r.byID {
		if strings.Contains(strings.ToLower(a.Name), q) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *animalsRepo) AddHealthRecord(ctx context.Context, hr animals.HealthRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[hr.AnimalID]; !exists {
		return ErrNotFound
	}
	r.healthBy[hr.AnimalID] = append(r.healthBy[hr.AnimalID], hr)
	return nil
}

func (r *animalsRepo) ListHealthRecords(ctx context.Context, animalID string) ([]animals.HealthRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := r.healthBy[animalID]
	out := make([]animals.HealthRecord, len(recs))
	copy(out, recs)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func sortAnimals(out []animals.Animal) {
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
}
