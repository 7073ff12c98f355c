package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Image        *string   `json:"image,omitempty"`
	Color        int       `json:"color"`
	DMClosed     bool      `json:"dm_closed"`
	ProfileSetup bool      `json:"profile_setup"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Ref returns the display projection embedded in message and channel payloads.
func (u *User) Ref() UserRef {
	return UserRef{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Image:     u.Image,
		Color:     u.Color,
	}
}

// UserRef is the resolved display-field subset of a User attached to
// outbound payloads (message sender/recipient, channel members).
type UserRef struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Image     *string   `json:"image,omitempty"`
	Color     int       `json:"color"`
}

// Contact is a DM partner entry for the conversation list, ordered by the
// most recently exchanged message.
type Contact struct {
	UserRef
	LastMessageAt time.Time `json:"last_message_at"`
}
