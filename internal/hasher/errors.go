package hasher

import "errors"

var (
	// ErrUnknownHashFormat is returned when a stored hash was not produced by a supported algorithm.
	ErrUnknownHashFormat = errors.New("unknown password hash format")

	// ErrUnknownAlgorithm is returned when the hasher is configured with an unsupported algorithm.
	ErrUnknownAlgorithm = errors.New("unknown password hash algorithm")
)
