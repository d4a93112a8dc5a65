package forum

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
	r.Route("/threads", func(tr chi.Router) {
		tr.Get("/", listThreadsHandler(svc))
		tr.Post("/", createThreadHandler(svc))

		tr.Get("/{threadID}", getThreadHandler(svc))
		tr.Put("/{threadID}", updateThreadHandler(svc))
		tr.Delete("/{threadID}", deleteThreadHandler(svc))

		tr.Get("/{threadID}/posts", listPostsHandler(svc))
		tr.Post("/{threadID}/posts", createPostHandler(svc))

		tr.Post("/{threadID}/like", likeThreadHandler(svc))
	})

	r.Post("/posts/{postID}/like", likePostHandler(svc))
}

type createThreadRequest struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

type updateThreadRequest struct {
	Title    *string  `json:"title"`
	Body     *string  `json:"body"`
	Category *string  `json:"category"`
	Tags     []string `json:"tags"`
}

type createPostRequest struct {
	Body string `json:"body"`
}

type threadResponse struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"author_id"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	Category     string    `json:"category,omitempty"`
	Tags         []string  `json:"tags"`
	IsPinned     bool      `json:"is_pinned"`
	LastActiveAt time.Time `json:"last_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	LikesCount   int  `json:"likes_count"`
	UserHasLiked bool `json:"user_has_liked"`
	ReplyCount   int  `json:"reply_count"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`

	LikesCount   int  `json:"likes_count"`
	UserHasLiked bool `json:"user_has_liked"`
}

type likeResponse struct {
	Liked bool `json:"liked"`
}

func viewerID(r *http.Request) string {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		return ""
	}
	return claims.UserID
}

func createThreadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createThreadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		t, err := svc.CreateThread(r.Context(), claims.UserID, CreateThreadInput{
			Title:    req.Title,
			Body:     req.Body,
			Category: req.Category,
			Tags:     req.Tags,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		views := svc.EnrichThreads(r.Context(), []Thread{t}, claims.UserID)
		httpx.JSON(w, http.StatusCreated, toThreadResponse(views[0]))
	}
}

func listThreadsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := ListFilter{
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
			Tag:      strings.TrimSpace(r.URL.Query().Get("tag")),
		}

		items, err := svc.ListThreads(r.Context(), f)
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		views := svc.EnrichThreads(r.Context(), items, viewerID(r))
		out := make([]threadResponse, 0, len(views))
		for _, v := range views {
			out = append(out, toThreadResponse(v))
		}
		httpx.JSON(w, http.StatusOK, out)
	}
}

func getThreadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.GetThread(r.Context(), chi.URLParam(r, "threadID"))
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "thread not found")
			return
		}

		views := svc.EnrichThreads(r.Context(), []Thread{t}, viewerID(r))
		httpx.JSON(w, http.StatusOK, toThreadResponse(views[0]))
	}
}

func updateThreadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req updateThreadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		t, err := svc.UpdateThread(r.Context(), chi.URLParam(r, "threadID"), claims.UserID, UpdateThreadInput{
			Title:    req.Title,
			Body:     req.Body,
			Category: req.Category,
			Tags:     req.Tags,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		views := svc.EnrichThreads(r.Context(), []Thread{t}, claims.UserID)
		httpx.JSON(w, http.StatusOK, toThreadResponse(views[0]))
	}
}

func deleteThreadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if err := svc.DeleteThread(r.Context(), chi.URLParam(r, "threadID"), claims.UserID); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func createPostHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createPostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		c, err := svc.Reply(r.Context(), chi.URLParam(r, "threadID"), claims.UserID, req.Body)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		views := svc.EnrichComments(r.Context(), []Comment{c}, claims.UserID)
		httpx.JSON(w, http.StatusCreated, toCommentResponse(views[0]))
	}
}

func listPostsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListComments(r.Context(), chi.URLParam(r, "threadID"))
		if err != nil {
			if err == ErrNotFound {
				httpx.Error(w, http.StatusNotFound, "thread not found")
				return
			}
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		views := svc.EnrichComments(r.Context(), items, viewerID(r))
		out := make([]commentResponse, 0, len(views))
		for _, v := range views {
			out = append(out, toCommentResponse(v))
		}
		httpx.JSON(w, http.StatusOK, out)
	}
}

func likeThreadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		liked, err := svc.ToggleThreadLike(r.Context(), chi.URLParam(r, "threadID"), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, likeResponse{Liked: liked})
	}
}

func likePostHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		liked, err := svc.ToggleCommentLike(r.Context(), chi.URLParam(r, "postID"), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, likeResponse{Liked: liked})
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch err {
	case ErrInvalidInput:
		httpx.Error(w, http.StatusBadRequest, err.Error())
	case ErrForbidden:
		httpx.Error(w, http.StatusForbidden, "forbidden")
	case ErrNotFound:
		httpx.Error(w, http.StatusNotFound, "not found")
	default:
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func toThreadResponse(v ThreadView) threadResponse {
	tags := v.Tags
	if tags == nil {
		tags = []string{}
	}
	return threadResponse{
		ID:           v.ID,
		AuthorID:     v.AuthorID,
		Title:        v.Title,
		Body:         v.Body,
		Category:     v.Category,
		Tags:         tags,
		IsPinned:     v.IsPinned,
		LastActiveAt: v.LastActiveAt,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
		LikesCount:   v.LikesCount,
		UserHasLiked: v.UserHasLiked,
		ReplyCount:   v.ReplyCount,
	}
}

func toCommentResponse(v CommentView) commentResponse {
	return commentResponse{
		ID:           v.ID,
		ThreadID:     v.ThreadID,
		AuthorID:     v.AuthorID,
		Body:         v.Body,
		CreatedAt:    v.CreatedAt,
		LikesCount:   v.LikesCount,
		UserHasLiked: v.UserHasLiked,
	}
}
