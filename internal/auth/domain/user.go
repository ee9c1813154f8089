package domain

import "time"

type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string // argon2id PHC string, or a legacy bcrypt hash
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is what a successful authentication yields, whatever the mode.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Role   Role
}

func (u User) Identity() Identity {
	return Identity{UserID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}
