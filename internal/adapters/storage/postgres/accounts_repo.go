package postgres

import (
	"context"
	"database/sql"
	"strings"

	"akita-connect/internal/domain/accounts"
)

type AccountsRepo struct {
	db *sql.DB
}

func NewAccountsRepo(db *sql.DB) *AccountsRepo {
	return &AccountsRepo{db: db}
}

func (r *AccountsRepo) Create(ctx context.Context, a accounts.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (user_id, email, password_hash, created_at)
		VALUES ($1,$2,$3,$4)
	`,
		a.UserID,
		a.Email,
		a.PasswordHash,
		a.CreatedAt,
	)
	return err
}

func (r *AccountsRepo) GetByEmail(ctx context.Context, email string) (accounts.Account, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return accounts.Account{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, email, password_hash, created_at
		FROM accounts
		WHERE email = $1
	`, email)

	var a accounts.Account
	if err := row.Scan(&a.UserID, &a.Email, &a.PasswordHash, &a.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return accounts.Account{}, ErrNotFound
		}
		return accounts.Account{}, err
	}
	return a, nil
}
