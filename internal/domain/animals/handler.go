package animals

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"akita-connect/internal/middleware"
	"akita-connect/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/akitas", func(ar chi.Router) {
		ar.Get("/", listAnimalsHandler(svc))
		ar.Post("/", createAnimalHandler(svc))

		ar.Get("/{animalID}", getAnimalHandler(svc))
		ar.Put("/{animalID}", updateAnimalHandler(svc))
		ar.Delete("/{animalID}", deleteAnimalHandler(svc))

		ar.Get("/{animalID}/pedigree", pedigreeHandler(svc))

		ar.Get("/{animalID}/health", listHealthRecordsHandler(svc))
		ar.Post("/{animalID}/health", addHealthRecordHandler(svc))
	})
}

type createAnimalRequest struct {
	Name      string `json:"name"`
	Sex       string `json:"sex"`
	BirthDate string `json:"birth_date"` // YYYY-MM-DD, optional
	Color     string `json:"color"`
	Titles    string `json:"titles"`
	PhotoURL  string `json:"photo_url"`
	SireID    string `json:"sire_id"`
	DamID     string `json:"dam_id"`
}

type updateAnimalRequest struct {
	// Pointers for partial update: nil = leave untouched.
	Name      *string `json:"name"`
	Sex       *string `json:"sex"`
	BirthDate *string `json:"birth_date"`
	Color     *string `json:"color"`
	Titles    *string `json:"titles"`
	PhotoURL  *string `json:"photo_url"`
	SireID    *string `json:"sire_id"` // "" clears
	DamID     *string `json:"dam_id"`
}

type animalResponse struct {
	ID          string     `json:"id"`
	OwnerUserID string     `json:"owner_user_id"`
	Name        string     `json:"name"`
	Sex         Sex        `json:"sex"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	Color       string     `json:"color,omitempty"`
	Titles      string     `json:"titles,omitempty"`
	PhotoURL    string     `json:"photo_url,omitempty"`
	SireID      *string    `json:"sire_id"`
	DamID       *string    `json:"dam_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type pedigreeResponse struct {
	animalResponse
	Sire *pedigreeResponse `json:"sire"`
	Dam  *pedigreeResponse `json:"dam"`
}

type healthRecordRequest struct {
	Type   string `json:"type"`
	Date   string `json:"date"` // YYYY-MM-DD
	Result string `json:"result"`
	Notes  string `json:"notes"`
}

type healthRecordResponse struct {
	ID        string    `json:"id"`
	AnimalID  string    `json:"animal_id"`
	Type      string    `json:"type"`
	Date      time.Time `json:"date"`
	Result    string    `json:"result,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func createAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		var bd *time.Time
		if strings.TrimSpace(req.BirthDate) != "" {
			t, err := time.Parse("2006-01-02", req.BirthDate)
			if err != nil {
				httpx.Error(w, http.StatusBadRequest, "birth_date must be YYYY-MM-DD")
				return
			}
			bd = &t
		}

		a, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:      req.Name,
			Sex:       req.Sex,
			BirthDate: bd,
			Color:     req.Color,
			Titles:    req.Titles,
			PhotoURL:  req.PhotoURL,
			SireID:    req.SireID,
			DamID:     req.DamID,
		})
		if err != nil {
			if err == ErrInvalidInput {
				httpx.Error(w, http.StatusBadRequest, err.Error())
				return
			}
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		httpx.JSON(w, http.StatusCreated, toAnimalResponse(a))
	}
}

func listAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			items []Animal
			err   error
		)
		if owner := strings.TrimSpace(r.URL.Query().Get("owner")); owner != "" {
			items, err = svc.ListByOwner(r.Context(), owner)
		} else {
			items, err = svc.List(r.Context())
		}
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]animalResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAnimalResponse(a))
		}
		httpx.JSON(w, http.StatusOK, out)
	}
}

func getAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "animalID"))
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "animal not found")
			return
		}
		httpx.JSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

func updateAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req updateAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		in := UpdateInput{
			Name:     req.Name,
			Sex:      req.Sex,
			Color:    req.Color,
			Titles:   req.Titles,
			PhotoURL: req.PhotoURL,
			SireID:   req.SireID,
			DamID:    req.DamID,
		}
		if req.BirthDate != nil && strings.TrimSpace(*req.BirthDate) != "" {
			t, err := time.Parse("2006-01-02", *req.BirthDate)
			if err != nil {
				httpx.Error(w, http.StatusBadRequest, "birth_date must be YYYY-MM-DD")
				return
			}
			in.BirthDate = &t
		}

		a, err := svc.Update(r.Context(), chi.URLParam(r, "animalID"), claims.UserID, in)
		if err != nil {
			writeServiceError(w, err, "animal not found")
			return
		}

		httpx.JSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

func deleteAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "animalID"), claims.UserID); err != nil {
			writeServiceError(w, err, "animal not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func pedigreeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tree, err := svc.Pedigree(r.Context(), chi.URLParam(r, "animalID"))
		if err != nil {
			writeServiceError(w, err, "animal not found")
			return
		}
		httpx.JSON(w, http.StatusOK, toPedigreeResponse(tree))
	}
}

func addHealthRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req healthRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		date, err := time.Parse("2006-01-02", strings.TrimSpace(req.Date))
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}

		hr, err := svc.AddHealthRecord(r.Context(), chi.URLParam(r, "animalID"), claims.UserID, HealthRecordInput{
			Type:   req.Type,
			Date:   date,
			Result: req.Result,
			Notes:  req.Notes,
		})
		if err != nil {
			writeServiceError(w, err, "animal not found")
			return
		}

		httpx.JSON(w, http.StatusCreated, toHealthRecordResponse(hr))
	}
}

func listHealthRecordsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListHealthRecords(r.Context(), chi.URLParam(r, "animalID"))
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "animal not found")
			return
		}

		out := make([]healthRecordResponse, 0, len(items))
		for _, hr := range items {
			out = append(out, toHealthRecordResponse(hr))
		}
		httpx.JSON(w, http.StatusOK, out)
	}
}

func writeServiceError(w http.ResponseWriter, err error, notFoundMsg string) {
	switch err {
	case ErrInvalidInput:
		httpx.Error(w, http.StatusBadRequest, err.Error())
	case ErrForbidden:
		httpx.Error(w, http.StatusForbidden, "forbidden")
	case ErrNotFound:
		httpx.Error(w, http.StatusNotFound, notFoundMsg)
	default:
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func toAnimalResponse(a Animal) animalResponse {
	return animalResponse{
		ID:          a.ID,
		OwnerUserID: a.OwnerUserID,
		Name:        a.Name,
		Sex:         a.Sex,
		BirthDate:   a.BirthDate,
		Color:       a.Color,
		Titles:      a.Titles,
		PhotoURL:    a.PhotoURL,
		SireID:      a.SireID,
		DamID:       a.DamID,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toPedigreeResponse(n *PedigreeNode) *pedigreeResponse {
	if n == nil {
		return nil
	}
	return &pedigreeResponse{
		animalResponse: toAnimalResponse(n.Animal),
		Sire:           toPedigreeResponse(n.Sire),
		Dam:            toPedigreeResponse(n.Dam),
	}
}

func toHealthRecordResponse(hr HealthRecord) healthRecordResponse {
	return healthRecordResponse{
		ID:        hr.ID,
		AnimalID:  hr.AnimalID,
		Type:      hr.Type,
		Date:      hr.Date,
		Result:    hr.Result,
		Notes:     hr.Notes,
		CreatedAt: hr.CreatedAt,
	}
}
