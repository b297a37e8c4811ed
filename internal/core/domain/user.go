package domain

import "time"

type UserID string

type User struct {
	ID           UserID    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Role is the request-scoped role label carried inside the token.
type Role string

const (
	RoleMember  Role = "member"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// NormalizeRole maps unknown or empty labels to the baseline member role.
// Defaulting happens here, once, at claim extraction.
func NormalizeRole(role string) Role {
	switch Role(role) {
	case RoleMember, RoleManager, RoleAdmin:
		return Role(role)
	default:
		return RoleMember
	}
}
