package search

import (
	"net/http"

	"akita-connect/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/search", searchHandler(svc))
}

type profileHit struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Location    string `json:"location,omitempty"`
}

type animalHit struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url,omitempty"`
}

type threadHit struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
}

type eventHit struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Location string `json:"location,omitempty"`
}

type searchResponse struct {
	Profiles []profileHit `json:"profiles"`
	Animals  []animalHit  `json:"akitas"`
	Threads  []threadHit  `json:"threads"`
	Events   []eventHit   `json:"events"`
}

func searchHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Query(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := searchResponse{
			Profiles: make([]profileHit, 0, len(res.Profiles)),
			Animals:  make([]animalHit, 0, len(res.Animals)),
			Threads:  make([]threadHit, 0, len(res.Threads)),
			Events:   make([]eventHit, 0, len(res.Events)),
		}
		for _, p := range res.Profiles {
			out.Profiles = append(out.Profiles, profileHit{
				ID:          p.ID,
				DisplayName: p.DisplayName,
				AvatarURL:   p.AvatarURL,
				Location:    p.Location,
			})
		}
		for _, a := range res.Animals {
			out.Animals = append(out.Animals, animalHit{ID: a.ID, Name: a.Name, PhotoURL: a.PhotoURL})
		}
		for _, t := range res.Threads {
			out.Threads = append(out.Threads, threadHit{ID: t.ID, Title: t.Title, Category: t.Category})
		}
		for _, e := range res.Events {
			out.Events = append(out.Events, eventHit{ID: e.ID, Title: e.Title, Location: e.Location})
		}

		httpx.JSON(w, http.StatusOK, out)
	}
}
