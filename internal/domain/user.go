package domain

import "github.com/google/uuid"

type User struct {
	ID       uuid.UUID
	Name     string
	Email    string
	Location string
}

// Identity is what the client persists across reloads: the access token plus
// the cached user profile. Both are cleared together on logout or 401.
type Identity struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
