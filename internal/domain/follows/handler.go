package follows

import (
	"net/http"
	"strings"
	"time"

	"akita-connect/internal/middleware"
	"akita-connect/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/follows/{userID}", followHandler(svc))
	r.Delete("/follows/{userID}", unfollowHandler(svc))

	r.Get("/users/{userID}/followers", listFollowersHandler(svc))
	r.Get("/users/{userID}/following", listFollowingHandler(svc))
}

type followResponse struct {
	FollowerID string    `json:"follower_id"`
	FolloweeID string    `json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func followHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if err := svc.Follow(r.Context(), claims.UserID, chi.URLParam(r, "userID")); err != nil {
			if err == ErrInvalidInput {
				httpx.Error(w, http.StatusBadRequest, err.Error())
				return
			}
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func unfollowHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if err := svc.Unfollow(r.Context(), claims.UserID, chi.URLParam(r, "userID")); err != nil {
			if err == ErrInvalidInput {
				httpx.Error(w, http.StatusBadRequest, err.Error())
				return
			}
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listFollowersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Followers(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeFollowList(w, items)
	}
}

func listFollowingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Following(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeFollowList(w, items)
	}
}

func writeFollowList(w http.ResponseWriter, items []Follow) {
	out := make([]followResponse, 0, len(items))
	for _, f := range items {
		out = append(out, followResponse{
			FollowerID: f.FollowerID,
			FolloweeID: f.FolloweeID,
			CreatedAt:  f.CreatedAt,
		})
	}
	httpx.JSON(w, http.StatusOK, out)
}
