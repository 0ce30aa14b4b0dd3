package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrEmptySessionSecret error if no secret is available to encrypt the session cookie.
	ErrEmptySessionSecret = errors.New("session secret can not be empty (SESSION_SECRET)")

	// ErrInvalidWorkFactor error if the bcrypt work factor is out of range.
	ErrInvalidWorkFactor = errors.New("hash work factor out of range")

	// ErrUnknownHashAlgorithm error if the configured password hash algorithm is not supported.
	ErrUnknownHashAlgorithm = errors.New("unknown hash algorithm")

	// ErrUnknownDBDriver error if the user store driver is not supported.
	ErrUnknownDBDriver = errors.New("unknown db driver")

	// ErrUnknownSessionStorage error if the session storage backend is not supported.
	ErrUnknownSessionStorage = errors.New("unknown session storage")
)
