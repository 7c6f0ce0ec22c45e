package models

import "fmt"

// User is a library member as served by the users backend.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserRequest is the body for creating or updating a user.
type UserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u User) EntityID() int64 { return u.ID }

func (u User) Summary() string {
	return fmt.Sprintf("ID: %d, Name: %s, Email: %s", u.ID, u.Name, u.Email)
}
