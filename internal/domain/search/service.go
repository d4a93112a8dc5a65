package search

import (
	"context"
	"strings"

	"akita-connect/internal/domain/animals"
	"akita-connect/internal/domain/events"
	"akita-connect/internal/domain/forum"
	"akita-connect/internal/domain/profiles"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const defaultLimit = 20

// Results groups per-entity matches for one query.
type Results struct {
	Profiles []profiles.Profile
	Animals  []animals.Animal
	Threads  []forum.Thread
	Events   []events.Event
}

type Service struct {
	profilesSvc *profiles.Service
	animalsSvc  *animals.Service
	forumSvc    *forum.Service
	eventsSvc   *events.Service
	log         zerolog.Logger
}

func NewService(profilesSvc *profiles.Service, animalsSvc *animals.Service, forumSvc *forum.Service, eventsSvc *events.Service, log zerolog.Logger) *Service {
	return &Service{
		profilesSvc: profilesSvc,
		animalsSvc:  animalsSvc,
		forumSvc:    forumSvc,
		eventsSvc:   eventsSvc,
		log:         log,
	}
}

// Query fans out one lookup per entity type. Each branch is best-effort: a
// failed branch logs and contributes an empty slice instead of failing the
// whole search.
func (s *Service) Query(ctx context.Context, q string) (Results, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return Results{}, nil
	}

	var res Results
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		items, err := s.profilesSvc.SearchByName(gctx, q, defaultLimit)
		if err != nil {
			s.log.Warn().Err(err).Msg("profile search branch failed")
			return nil
		}
		res.Profiles = items
		return nil
	})
	g.Go(func() error {
		items, err := s.animalsSvc.SearchByName(gctx, q, defaultLimit)
		if err != nil {
			s.log.Warn().Err(err).Msg("animal search branch failed")
			return nil
		}
		res.Animals = items
		return nil
	})
	g.Go(func() error {
		items, err := s.forumSvc.SearchThreads(gctx, q, defaultLimit)
		if err != nil {
			s.log.Warn().Err(err).Msg("thread search branch failed")
			return nil
		}
		res.Threads = items
		return nil
	})
	g.Go(func() error {
		items, err := s.eventsSvc.SearchByTitle(gctx, q, defaultLimit)
		if err != nil {
			s.log.Warn().Err(err).Msg("event search branch failed")
			return nil
		}
		res.Events = items
		return nil
	})

	_ = g.Wait() // branches never return an error

	return res, nil
}
