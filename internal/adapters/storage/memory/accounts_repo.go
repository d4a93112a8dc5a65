package memory

import (
	"context"
	"errors"
	"sync"

	"akita-connect/internal/domain/accounts"
)

type accountsRepo struct {
	mu      sync.RWMutex
	byEmail map[string]accounts.Account
}

func NewAccountsRepo() accounts.Repository {
	return &accountsRepo{
		byEmail: make(map[string]accounts.Account),
	}
}

func (r *accountsRepo) Create(ctx context.Context, a accounts.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.Email == "" || a.UserID == "" {
		return errors.New("account email and user id required")
	}
	if _, exists := r.byEmail[a.Email]; exists {
		return errors.New("account already exists")
	}
	r.byEmail[a.Email] = a
	return nil
}

func (r *accountsRepo) GetByEmail(ctx context.Context, email string) (accounts.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byEmail[email]
	if !ok {
		return accounts.Account{}, ErrNotFound
	}
	return a, nil
}
