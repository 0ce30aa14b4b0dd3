package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatehouse-web/gatehouse/internal/db/models"
	"github.com/gatehouse-web/gatehouse/internal/db/store"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, hash string) (bool, error)
	VerifyDummy(ctx context.Context, password string)
}

// RegisterInput holds the fields of a new account.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// LocalProvider handles registration and authentication against the user store.
type LocalProvider struct {
	users  store.Store
	hasher PasswordHasher
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(users store.Store, hasher PasswordHasher) *LocalProvider {
	return &LocalProvider{
		users:  users,
		hasher: hasher,
	}
}

// Register creates a new user. Only the hash of the password is stored.
// A taken email yields an error matching both ErrEmailExists and store.ErrDuplicateKey.
func (p *LocalProvider) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	hashedPassword, err := p.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  hashedPassword,
	}

	if err := p.users.Create(ctx, &user); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %w", ErrEmailExists, err)
		}

		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// Authenticate returns the user registered with email if password matches.
// Unknown emails and wrong passwords match ErrInvalidCredentials, store and hash failures do not.
func (p *LocalProvider) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := p.users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		p.hasher.VerifyDummy(ctx, password)
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, ErrUserNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	match, err := p.hasher.Verify(ctx, password, user.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	if !match {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, ErrInvalidPassword)
	}

	return user, nil
}
