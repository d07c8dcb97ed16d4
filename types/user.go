package types

import "time"

// User represents a registered account in the forum.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Email is the address the user registered and logs in with.
	// It is unique across all accounts.
	Email string `json:"email" db:"email"`

	// Username is the display name shown next to questions and comments.
	Username string `json:"username" db:"username"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// The raw password is never persisted and this field is never rendered.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
