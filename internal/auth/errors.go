package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when email and password do not identify a user.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailExists is returned when registering an email that is already taken.
	ErrEmailExists = errors.New("user with email already exists")

	// ErrInvalidPassword is returned when the provided password is incorrect during authentication.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUserNotFound is returned when no user is registered with the email.
	ErrUserNotFound = errors.New("user not found")
)
