package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"akita-connect/internal/domain/litters"
)

type littersRepo struct {
	mu   sync.RWMutex
	byID map[string]litters.Litter
}

func NewLittersRepo() litters.Repository {
	return &littersRepo{
		byID: make(map[string]litters.Litter),
	}
}

func (r *littersRepo) Create(ctx context.Context, l litters.Litter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(l.ID) == "" {
		return errors.New("litter id required")
	}
	if _, exists := r.byID[l.ID]; exists {
		return errors.New("litter already exists")
	}
	r.byID[l.ID] = cloneLitter(l)
	return nil
}

func (r *littersRepo) Update(ctx context.Context, l litters.Litter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[l.ID]; !exists {
		return ErrNotFound
	}
	r.byID[l.ID] = cloneLitter(l)
	return nil
}

func (r *littersRepo) GetByID(ctx context.Context, id string) (litters.Litter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.byID[id]
	if !ok {
		return litters.Litter{}, ErrNotFound
	}
	return cloneLitter(l), nil
}

func (r *littersRepo) ListByBreeder(ctx context.Context, breederUserID string) ([]litters.Litter, error) {
	return r.filter(func(l litters.Litter) bool {
		return l.BreederUserID == breederUserID
	})
}

func (r *littersRepo) ListPending(ctx context.Context) ([]litters.Litter, error) {
	return r.filter(func(l litters.Litter) bool {
		return l.ApprovalStatus == litters.ApprovalPending
	})
}

func (r *littersRepo) ListApprovedListed(ctx context.Context) ([]litters.Litter, error) {
	return r.filter(func(l litters.Litter) bool {
		return l.ApprovalStatus == litters.ApprovalApproved && l.ListingStatus == litters.ListingListed
	})
}

func (r *littersRepo) filter(keep func(litters.Litter) bool) ([]litters.Litter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]litters.Litter, 0)
	for _, l := range r.byID {
		if keep(l) {
			out = append(out, cloneLitter(l))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// cloneLitter deep-copies the puppy slice so callers cannot mutate stored
// state through a returned value.
func cloneLitter(l litters.Litter) litters.Litter {
	if l.Puppies == nil {
		return l
	}
	pups := make([]litters.Puppy, len(l.Puppies))
	for i, p := range l.Puppies {
		weights := make([]litters.WeightEntry, len(p.Weights))
		copy(weights, p.Weights)
		p.Weights = weights
		pups[i] = p
	}
	l.Puppies = pups
	return l
}
