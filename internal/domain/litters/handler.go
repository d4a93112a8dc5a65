package litters

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
	r.Route("/litters", func(lr chi.Router) {
		lr.Post("/", createLitterHandler(svc))
		lr.Get("/", listLittersHandler(svc))
		lr.Get("/pending", listPendingHandler(svc))

		lr.Get("/{litterID}", getLitterHandler(svc))
		lr.Put("/{litterID}", updateLitterHandler(svc))

		lr.Post("/{litterID}/puppies", addPuppyHandler(svc))
		lr.Post("/{litterID}/puppies/{puppyID}/weights", addWeightHandler(svc))

		lr.Post("/{litterID}/approve", approveHandler(svc))
		lr.Post("/{litterID}/reject", rejectHandler(svc))
	})

	// Public marketplace read path.
	r.Get("/marketplace", marketplaceHandler(svc))
}

type createLitterRequest struct {
	SireID      string `json:"sire_id"`
	DamID       string `json:"dam_id"`
	WhelpedAt   string `json:"whelped_at"` // YYYY-MM-DD, optional
	Description string `json:"description"`
}

type updateLitterRequest struct {
	WhelpedAt     *string `json:"whelped_at"`
	Description   *string `json:"description"`
	ListingStatus *string `json:"listing_status"`
}

type addPuppyRequest struct {
	Name  string `json:"name"`
	Sex   string `json:"sex"`
	Color string `json:"color"`
}

type addWeightRequest struct {
	Date     string  `json:"date"` // YYYY-MM-DD
	WeightKg float64 `json:"weight_kg"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

type litterResponse struct {
	ID              string         `json:"id"`
	BreederUserID   string         `json:"breeder_user_id"`
	SireID          string         `json:"sire_id"`
	DamID           string         `json:"dam_id"`
	WhelpedAt       *time.Time     `json:"whelped_at,omitempty"`
	Description     string         `json:"description,omitempty"`
	ListingStatus   ListingStatus  `json:"listing_status"`
	ApprovalStatus  ApprovalStatus `json:"approval_status"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
	ApprovedBy      string         `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time     `json:"approved_at,omitempty"`
	Puppies         []Puppy        `json:"puppies"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func createLitterHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createLitterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		var whelped *time.Time
		if strings.TrimSpace(req.WhelpedAt) != "" {
			t, err := time.Parse("2006-01-02", req.WhelpedAt)
			if err != nil {
				httpx.Error(w, http.StatusBadRequest, "whelped_at must be YYYY-MM-DD")
				return
			}
			whelped = &t
		}

		l, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			SireID:      req.SireID,
			DamID:       req.DamID,
			WhelpedAt:   whelped,
			Description: req.Description,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		httpx.JSON(w, http.StatusCreated, toLitterResponse(l))
	}
}

func listLittersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		breeder := strings.TrimSpace(r.URL.Query().Get("breeder"))
		if breeder == "" {
			claims, ok := middleware.GetClaims(r.Context())
			if !ok || strings.TrimSpace(claims.UserID) == "" {
				httpx.Error(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			breeder = claims.UserID
		}

		items, err := svc.ListByBreeder(r.Context(), breeder)
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeLitterList(w, items)
	}
}

func listPendingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := svc.ListPending(r.Context(), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeLitterList(w, items)
	}
}

func getLitterHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, err := svc.GetByID(r.Context(), chi.URLParam(r, "litterID"))
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "litter not found")
			return
		}
		httpx.JSON(w, http.StatusOK, toLitterResponse(l))
	}
}

func updateLitterHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req updateLitterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		in := UpdateInput{
			Description:   req.Description,
			ListingStatus: req.ListingStatus,
		}
		if req.WhelpedAt != nil && strings.TrimSpace(*req.WhelpedAt) != "" {
			t, err := time.Parse("2006-01-02", *req.WhelpedAt)
			if err != nil {
				httpx.Error(w, http.StatusBadRequest, "whelped_at must be YYYY-MM-DD")
				return
			}
			in.WhelpedAt = &t
		}

		l, err := svc.Update(r.Context(), chi.URLParam(r, "litterID"), claims.UserID, in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, toLitterResponse(l))
	}
}

func addPuppyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req addPuppyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		l, err := svc.AddPuppy(r.Context(), chi.URLParam(r, "litterID"), claims.UserID, PuppyInput{
			Name:  req.Name,
			Sex:   req.Sex,
			Color: req.Color,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httpx.JSON(w, http.StatusCreated, toLitterResponse(l))
	}
}

func addWeightHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req addWeightRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		date, err := time.Parse("2006-01-02", strings.TrimSpace(req.Date))
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}

		l, err := svc.AddWeight(r.Context(), chi.URLParam(r, "litterID"), chi.URLParam(r, "puppyID"), claims.UserID, date, req.WeightKg)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httpx.JSON(w, http.StatusCreated, toLitterResponse(l))
	}
}

func approveHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		l, err := svc.Approve(r.Context(), chi.URLParam(r, "litterID"), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, toLitterResponse(l))
	}
}

func rejectHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req rejectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		l, err := svc.Reject(r.Context(), chi.URLParam(r, "litterID"), claims.UserID, req.Reason)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, toLitterResponse(l))
	}
}

func marketplaceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Marketplace(r.Context())
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeLitterList(w, items)
	}
}

func writeLitterList(w http.ResponseWriter, items []Litter) {
	out := make([]litterResponse, 0, len(items))
	for _, l := range items {
		out = append(out, toLitterResponse(l))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch err {
	case ErrInvalidInput:
		httpx.Error(w, http.StatusBadRequest, err.Error())
	case ErrForbidden:
		httpx.Error(w, http.StatusForbidden, "forbidden")
	case ErrNotFound:
		httpx.Error(w, http.StatusNotFound, "litter not found")
	case ErrBadState:
		httpx.Error(w, http.StatusBadRequest, "litter is not pending")
	default:
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func toLitterResponse(l Litter) litterResponse {
	puppies := l.Puppies
	if puppies == nil {
		puppies = []Puppy{}
	}
	return litterResponse{
		ID:              l.ID,
		BreederUserID:   l.BreederUserID,
		SireID:          l.SireID,
		DamID:           l.DamID,
		WhelpedAt:       l.WhelpedAt,
		Description:     l.Description,
		ListingStatus:   l.ListingStatus,
		ApprovalStatus:  l.ApprovalStatus,
		RejectionReason: l.RejectionReason,
		ApprovedBy:      l.ApprovedBy,
		ApprovedAt:      l.ApprovedAt,
		Puppies:         puppies,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}
