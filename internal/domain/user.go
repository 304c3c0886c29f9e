package domain

import "time"

type User struct {
	ID           string
	Username     string
	PasswordHash []byte
	Role         Role
	CreatedAt    time.Time
}

func (u User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Username, Role: u.Role}
}
