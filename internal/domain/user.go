package domain

import "time"

// User is a directory entry for anyone who can sign in.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
}
