package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"akita-connect/internal/domain/events"
)

type rsvpKey struct {
	eventID string
	userID  string
}

type eventsRepo struct {
	mu    sync.RWMutex
	byID  map[string]events.Event
	rsvps map[rsvpKey]events.RSVP
}

func NewEventsRepo() events.Repository {
	return &eventsRepo{
		byID:  make(map[string]events.Event),
		rsvps: make(map[rsvpKey]events.RSVP),
	}
}

func (r *eventsRepo) Create(ctx context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(e.ID) == "" {
		return errors.New("event id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return errors.New("event already exists")
	}
	r.byID[e.ID] = e
	return nil
}

func (r *eventsRepo) Update(ctx context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[e.ID]; !exists {
		return ErrNotFound
	}
	r.byID[e.ID] = e
	return nil
}

func (r *eventsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return ErrNotFound
	}
	delete(r.byID, id)
	for k := range r.rsvps {
		if k.eventID == id {
			delete(r.rsvps, k)
		}
	}
	return nil
}

func (r *eventsRepo) GetByID(ctx context.Context, id string) (events.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return events.Event{}, ErrNotFound
	}
	return e, nil
}

func (r *eventsRepo) List(ctx context.Context) ([]events.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]events.Event, 0, len(r.byID))
	for _, e := range r.byID {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartsAt.Before(out[j].StartsAt)
	})
	return out, nil
}

func (r *eventsRepo) SearchByTitle(ctx context.Context, q string, limit int) ([]events.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q = strings.ToLower(q)
	out := make([]events.Event, 0)
	for _, e := range r.byID {
		if strings.Contains(strings.ToLower(e.Title), q) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartsAt.Before(out[j].StartsAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *eventsRepo) UpsertRSVP(ctx context.Context, rv events.RSVP) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[rv.EventID]; !exists {
		return ErrNotFound
	}
	key := rsvpKey{rv.EventID, rv.UserID}
	if prev, ok := r.rsvps[key]; ok {
		rv.CreatedAt = prev.CreatedAt
	}
	r.rsvps[key] = rv
	return nil
}

func (r *eventsRepo) ListRSVPs(ctx context.Context, eventID string) ([]events.RSVP, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]events.RSVP, 0)
	for k, rv := range r.rsvps {
		if k.eventID == eventID {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
