package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"akita-connect/internal/domain/conversations"
)

type participantKey struct {
	conversationID string
	userID         string
}

type conversationsRepo struct {
	mu           sync.RWMutex
	byID         map[string]conversations.Conversation
	participants map[participantKey]conversations.Participant
	messages     map[string][]conversations.Message // conversation id -> messages
}

func NewConversationsRepo() conversations.Repository {
	return &conversationsRepo{
		byID:         make(map[string]conversations.Conversation),
		participants: make(map[participantKey]conversations.Participant),
		messages:     make(map[string][]conversations.Message),
	}
}

func (r *conversationsRepo) CreateConversation(ctx context.Context, c conversations.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("conversation id required")
	}
	if _, exists := r.byID[c.ID]; exists {
		return errors.New("conversation already exists")
	}
	r.byID[c.ID] = c
	return nil
}

func (r *conversationsRepo) DeleteConversation(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byID, id)
	delete(r.messages, id)
	for k := range r.participants {
		if k.conversationID == id {
			delete(r.participants, k)
		}
	}
	return nil
}

func (r *conversationsRepo) GetConversation(ctx context.Context, id string) (conversations.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return conversations.Conversation{}, ErrNotFound
	}
	return c, nil
}

func (r *conversationsRepo) ListConversationsByUser(ctx context.Context, userID string) ([]conversations.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]conversations.Conversation, 0)
	for k := range r.participants {
		if k.userID == userID {
			if c, ok := r.byID[k.conversationID]; ok {
				out = append(out, c)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *conversationsRepo) AddParticipants(ctx context.Context, ps []conversations.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range ps {
		if _, exists := r.byID[p.ConversationID]; !exists {
			return ErrNotFound
		}
		r.participants[participantKey{p.ConversationID, p.UserID}] = p
	}
	return nil
}

func (r *conversationsRepo) GetParticipant(ctx context.Context, conversationID, userID string) (conversations.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.participants[participantKey{conversationID, userID}]
	if !ok {
		return conversations.Participant{}, ErrNotFound
	}
	return p, nil
}

func (r *conversationsRepo) ListParticipants(ctx context.Context, conversationID string) ([]conversations.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]conversations.Participant, 0)
	for k, p := range r.participants {
		if k.conversationID == conversationID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

func (r *conversationsRepo) UpdateLastRead(ctx context.Context, conversationID, userID string, t time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := participantKey{conversationID, userID}
	p, ok := r.participants[key]
	if !ok {
		return ErrNotFound
	}
	p.LastReadAt = t
	r.participants[key] = p
	return nil
}

func (r *conversationsRepo) CreateMessage(ctx context.Context, m conversations.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[m.ConversationID]; !exists {
		return ErrNotFound
	}
	r.messages[m.ConversationID] = append(r.messages[m.ConversationID], m)
	return nil
}

func (r *conversationsRepo) ListMessages(ctx context.Context, conversationID string) ([]conversations.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msgs := r.messages[conversationID]
	out := make([]conversations.Message, len(msgs))
	copy(out, msgs)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *conversationsRepo) CountUnread(ctx context.Context, conversationID, userID string, after time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, m := range r.messages[conversationID] {
		if m.SenderID != userID && m.CreatedAt.After(after) {
			n++
		}
	}
	return n, nil
}
