package entities

import "time"

// User represents a user record in the store
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // bcrypt hash for records created through the service
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserUpdate lists the fields an update may merge into an existing user.
// Nil fields are left untouched; set fields are written verbatim.
type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
}
