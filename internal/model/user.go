package model

// UserID uniquely identifies a registered user
type UserID int64

// Role is a coarse permission tag attached to a user
type Role string

const (
	// RoleAdmin may create, update and delete ship records
	RoleAdmin Role = "admin"
	// RoleUser is stored when registration does not name a role
	RoleUser Role = "user"
)

// User is a registered account
type User struct {
	ID           UserID
	Username     string // unique, immutable
	PasswordHash string // bcrypt hash, never serialized in responses
	Role         Role
}
