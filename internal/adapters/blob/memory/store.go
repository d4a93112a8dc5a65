package memory

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"akita-connect/internal/ports/blob"
)

// Store is the in-memory blob store for dev mode and tests.
type Store struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewStore() *Store {
	return &Store{objects: make(map[string][]byte)}
}

func (s *Store) Put(ctx context.Context, key, contentType string, r io.Reader) (blob.PutResult, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return blob.PutResult{}, errors.New("object key required")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return blob.PutResult{}, err
	}

	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()

	return blob.PutResult{Path: key, URL: "mem://" + key}, nil
}

// Get exists for test assertions.
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	return data, ok
}
