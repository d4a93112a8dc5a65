package conversations

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
	r.Route("/conversations", func(cr chi.Router) {
		cr.Get("/", listConversationsHandler(svc))
		cr.Post("/", createConversationHandler(svc))

		cr.Get("/{conversationID}", openConversationHandler(svc))
		cr.Get("/{conversationID}/messages", listMessagesHandler(svc))
		cr.Post("/{conversationID}/messages", sendMessageHandler(svc))
	})
}

type createConversationRequest struct {
	ParticipantIDs []string `json:"participant_ids"`
}

type sendMessageRequest struct {
	Body string `json:"body"`
}

type participantResponse struct {
	UserID     string     `json:"user_id"`
	LastReadAt *time.Time `json:"last_read_at,omitempty"`
	JoinedAt   time.Time  `json:"joined_at"`
}

type conversationResponse struct {
	ID           string                `json:"id"`
	Participants []participantResponse `json:"participants"`
	UnreadCount  int                   `json:"unread_count"`
	CreatedAt    time.Time             `json:"created_at"`
}

type messageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

type openConversationResponse struct {
	ID        string            `json:"id"`
	Messages  []messageResponse `json:"messages"`
	CreatedAt time.Time         `json:"created_at"`
}

func createConversationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createConversationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		sum, err := svc.Create(r.Context(), claims.UserID, req.ParticipantIDs)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httpx.JSON(w, http.StatusCreated, toConversationResponse(sum))
	}
}

func listConversationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := svc.ListForUser(r.Context(), claims.UserID)
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]conversationResponse, 0, len(items))
		for _, sum := range items {
			out = append(out, toConversationResponse(sum))
		}
		httpx.JSON(w, http.StatusOK, out)
	}
}

func openConversationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		c, msgs, err := svc.Open(r.Context(), chi.URLParam(r, "conversationID"), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := openConversationResponse{
			ID:        c.ID,
			Messages:  make([]messageResponse, 0, len(msgs)),
			CreatedAt: c.CreatedAt,
		}
		for _, m := range msgs {
			out.Messages = append(out.Messages, toMessageResponse(m))
		}
		httpx.JSON(w, http.StatusOK, out)
	}
}

func listMessagesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		msgs, err := svc.ListMessages(r.Context(), chi.URLParam(r, "conversationID"), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]messageResponse, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, toMessageResponse(m))
		}
		httpx.JSON(w, http.StatusOK, out)
	}
}

func sendMessageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req sendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		m, err := svc.Send(r.Context(), chi.URLParam(r, "conversationID"), claims.UserID, req.Body)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httpx.JSON(w, http.StatusCreated, toMessageResponse(m))
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch err {
	case ErrInvalidInput:
		httpx.Error(w, http.StatusBadRequest, err.Error())
	case ErrForbidden:
		httpx.Error(w, http.StatusForbidden, "forbidden")
	case ErrNotFound:
		httpx.Error(w, http.StatusNotFound, "conversation not found")
	default:
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func toConversationResponse(sum Summary) conversationResponse {
	ps := make([]participantResponse, 0, len(sum.Participants))
	for _, p := range sum.Participants {
		pr := participantResponse{UserID: p.UserID, JoinedAt: p.JoinedAt}
		if !p.LastReadAt.IsZero() {
			t := p.LastReadAt
			pr.LastReadAt = &t
		}
		ps = append(ps, pr)
	}
	return conversationResponse{
		ID:           sum.Conversation.ID,
		Participants: ps,
		UnreadCount:  sum.UnreadCount,
		CreatedAt:    sum.Conversation.CreatedAt,
	}
}

func toMessageResponse(m Message) messageResponse {
	return messageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Body:           m.Body,
		CreatedAt:      m.CreatedAt,
	}
}
