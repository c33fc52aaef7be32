package model

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleProvider Role = "provider"
	RoleConsumer Role = "consumer"
)

// User mirrors the 'users' table.
type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`         // stored lower-cased, unique
	PasswordHash string    `db:"password_hash"` // bcrypt
	FullName     string    `db:"full_name"`
	Role         Role      `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
