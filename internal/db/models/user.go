// Package models contains the persisted data types of the gateway.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered account.
type User struct {
	// ID is the opaque identifier generated by the store on creation.
	ID string `gorm:"primaryKey;size:36"`
	// FirstName is the user's first or given name.
	FirstName string `gorm:"size:100;not null"`
	// LastName is the user's last or family name.
	LastName string `gorm:"size:100;not null"`
	// Email is the login name and unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`
	// Password is the one-way hash of the password, never the plaintext.
	Password string `gorm:"size:255;not null" json:"-"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
}

// BeforeCreate generates the ID for new records.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	return nil
}

// Sanitized returns a copy of the user without the password hash.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}

	out := *u
	out.Password = ""

	return &out
}

// FullName returns first and last name separated by a space.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
