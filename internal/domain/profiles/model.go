package profiles

import "time"

// Role defines the platform roles.
type Role string

const (
	RoleUser      Role = "user"
	RoleBreeder   Role = "breeder"
	RoleModerator Role = "moderator"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleBreeder, RoleModerator:
		return true
	default:
		return false
	}
}

// Profile is the identity record, keyed by the opaque user id shared with the
// auth layer. Profiles are never hard-deleted.
type Profile struct {
	ID          string // user id
	Email       string
	DisplayName string
	AvatarURL   string
	Role        Role
	Location    string
	Bio         string

	CreatedAt time.Time
	UpdatedAt time.Time
}
