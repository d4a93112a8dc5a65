package accounts

import "time"

// Account is the credential record behind a profile.
type Account struct {
	UserID       string
	Email        string
	PasswordHash []byte

	CreatedAt time.Time
}
