package conversations

import (
	"context"
	"errors"
	"strings"
	"time"

	"akita-connect/internal/domain/notifications"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo     Repository
	notifier *notifications.Service
	log      zerolog.Logger
	now      func() time.Time
}

func NewService(repo Repository, notifier *notifications.Service, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Create starts a conversation between the creator and otherIDs. The store is
// not transactional across the two writes: if adding participants fails after
// the conversation row was inserted, the row is deleted again as compensation.
func (s *Service) Create(ctx context.Context, creatorID string, otherIDs []string) (Summary, error) {
	creatorID = strings.TrimSpace(creatorID)
	if creatorID == "" {
		return Summary{}, ErrInvalidInput
	}

	members := []string{creatorID}
	seen := map[string]struct{}{creatorID: {}}
	for _, id := range otherIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		members = append(members, id)
	}
	if len(members) < 2 {
		return Summary{}, ErrInvalidInput
	}

	now := s.now()
	c := Conversation{ID: uuid.NewString(), CreatedAt: now}
	if err := s.repo.CreateConversation(ctx, c); err != nil {
		return Summary{}, err
	}

	ps := make([]Participant, 0, len(members))
	for _, id := range members {
		ps = append(ps, Participant{
			ConversationID: c.ID,
			UserID:         id,
			JoinedAt:       now,
		})
	}
	if err := s.repo.AddParticipants(ctx, ps); err != nil {
		if derr := s.repo.DeleteConversation(ctx, c.ID); derr != nil {
			s.log.Error().Err(derr).Str("conversation_id", c.ID).
				Msg("compensating delete failed, orphan conversation row left behind")
		}
		return Summary{}, err
	}

	return Summary{Conversation: c, Participants: ps, UnreadCount: 0}, nil
}

// ListForUser returns the caller's conversations with unread counts. A failed
// unread lookup degrades to 0 rather than failing the listing.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Summary, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}

	convs, err := s.repo.ListConversationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]Summary, 0, len(convs))
	for _, c := range convs {
		sum := Summary{Conversation: c}

		if ps, err := s.repo.ListParticipants(ctx, c.ID); err == nil {
			sum.Participants = ps
		}

		p, err := s.repo.GetParticipant(ctx, c.ID, userID)
		if err == nil {
			n, err := s.repo.CountUnread(ctx, c.ID, userID, p.LastReadAt)
			if err != nil {
				s.log.Warn().Err(err).Str("conversation_id", c.ID).Msg("unread count lookup failed")
			} else {
				sum.UnreadCount = n
			}
		}

		out = append(out, sum)
	}
	return out, nil
}

// Open returns a conversation's messages and advances the caller's watermark
// to now. Participant-only. Other participants' watermarks are untouched.
func (s *Service) Open(ctx context.Context, conversationID, userID string) (Conversation, []Message, error) {
	conversationID = strings.TrimSpace(conversationID)
	userID = strings.TrimSpace(userID)
	if conversationID == "" || userID == "" {
		return Conversation{}, nil, ErrInvalidInput
	}

	c, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		return Conversation{}, nil, ErrNotFound
	}
	if _, err := s.repo.GetParticipant(ctx, conversationID, userID); err != nil {
		return Conversation{}, nil, ErrForbidden
	}

	msgs, err := s.repo.ListMessages(ctx, conversationID)
	if err != nil {
		return Conversation{}, nil, err
	}

	if err := s.repo.UpdateLastRead(ctx, conversationID, userID, s.now()); err != nil {
		// Watermark advance is best-effort; the read itself succeeded.
		s.log.Warn().Err(err).Str("conversation_id", conversationID).Msg("watermark advance failed")
	}

	return c, msgs, nil
}

// Send appends a message and notifies the other participants.
func (s *Service) Send(ctx context.Context, conversationID, senderID, body string) (Message, error) {
	conversationID = strings.TrimSpace(conversationID)
	senderID = strings.TrimSpace(senderID)
	body = strings.TrimSpace(body)
	if conversationID == "" || senderID == "" || body == "" {
		return Message{}, ErrInvalidInput
	}

	if _, err := s.repo.GetConversation(ctx, conversationID); err != nil {
		return Message{}, ErrNotFound
	}
	if _, err := s.repo.GetParticipant(ctx, conversationID, senderID); err != nil {
		return Message{}, ErrForbidden
	}

	m := Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
		CreatedAt:      s.now(),
	}
	if err := s.repo.CreateMessage(ctx, m); err != nil {
		return Message{}, err
	}

	if ps, err := s.repo.ListParticipants(ctx, conversationID); err == nil {
		for _, p := range ps {
			if p.UserID == senderID {
				continue
			}
			s.notifier.Notify(ctx, p.UserID, notifications.TypeMessage,
				"New message",
				"You have a new direct message.",
				"/conversations/"+conversationID)
		}
	}

	return m, nil
}

// ListMessages is the read path without a watermark advance (message history
// for a participant already inside the conversation view).
func (s *Service) ListMessages(ctx context.Context, conversationID, userID string) ([]Message, error) {
	conversationID = strings.TrimSpace(conversationID)
	userID = strings.TrimSpace(userID)
	if conversationID == "" || userID == "" {
		return nil, ErrInvalidInput
	}
	if _, err := s.repo.GetConversation(ctx, conversationID); err != nil {
		return nil, ErrNotFound
	}
	if _, err := s.repo.GetParticipant(ctx, conversationID, userID); err != nil {
		return nil, ErrForbidden
	}
	return s.repo.ListMessages(ctx, conversationID)
}
