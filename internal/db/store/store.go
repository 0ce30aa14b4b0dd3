// Package store persists users.
//
// Two implementations exist: GormStore for the SQL databases supported by gorm and MongoStore
// for MongoDB. Both report a unique email violation as ErrDuplicateKey and a missing record as
// ErrNotFound, every other failure is a wrapped infrastructure error.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/gatehouse-web/gatehouse/internal/db/models"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateKey is returned when a user with the same email already exists.
	ErrDuplicateKey = errors.New("user with email already exists")
)

// Store is the user persistence used by the auth flow.
type Store interface {
	// Create persists u and sets u.ID.
	Create(ctx context.Context, u *models.User) error
	// FindByID returns the user with the given id.
	FindByID(ctx context.Context, id string) (*models.User, error)
	// FindByEmail returns the user with the given email.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// withTimeout bounds a store call, a zero timeout keeps ctx as is.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, timeout)
}
