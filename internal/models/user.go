package models

import "time"

type User struct {
	ID           int
	Username     string
	Email        string
	PasswordHash []byte
	Gender       *string
	Age          *int
	CreatedAt    time.Time
	LastLogin    *time.Time
}

// PublicProfile strips credentials for anything that leaves the service.
func (u User) PublicProfile() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Gender:   u.Gender,
		Age:      u.Age,
	}
}

// PublicUser is the only user shape handlers and the session resolver
// ever return. It has no room for a password hash.
type PublicUser struct {
	ID       int     `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Gender   *string `json:"gender,omitempty"`
	Age      *int    `json:"age,omitempty"`
}

type Session struct {
	ID        int
	UserID    int
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}
