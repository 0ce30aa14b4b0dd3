// Package hasher implements one-way password hashing and verification.
//
// New hashes are created with the configured algorithm, bcrypt with a work factor or argon2id.
// Verification picks the algorithm from the hash itself, so existing hashes keep working
// after the configured algorithm changes.
//
// Hashing is CPU bound. A weighted semaphore limits how many hashes are computed at the same
// time so a burst of logins can not starve the rest of the request processing.
package hasher

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"github.com/gatehouse-web/gatehouse/internal/config"
	"github.com/gatehouse-web/gatehouse/internal/metrics"
)

const (
	argon2idPrefix = "$argon2id$"

	opHash   = "hash"
	opVerify = "verify"

	// dummyPassword is hashed once and used to spend verify time on unknown accounts.
	dummyPassword = "gatehouse-dummy-password"
)

// Hasher hashes and verifies passwords.
type Hasher struct {
	algorithm string
	cost      int
	params    *argon2id.Params
	sem       *semaphore.Weighted

	dummyOnce sync.Once
	dummyHash string
	dummyErr  error
}

// New creates a Hasher from the hash settings.
func New(cfg config.Hash) (*Hasher, error) {
	h := &Hasher{
		algorithm: cfg.Algorithm,
		cost:      cfg.WorkFactor,
		params:    argon2Params(cfg.Argon2),
	}

	if h.algorithm == "" {
		h.algorithm = config.HashAlgorithmBcrypt
	}

	switch h.algorithm {
	case config.HashAlgorithmBcrypt:
		if h.cost == 0 {
			h.cost = bcrypt.DefaultCost
		}

		if h.cost < bcrypt.MinCost || h.cost > bcrypt.MaxCost {
			return nil, errors.Wrapf(config.ErrInvalidWorkFactor, "work factor %d", h.cost)
		}
	case config.HashAlgorithmArgon2id:
	default:
		return nil, errors.Wrapf(ErrUnknownAlgorithm, "%q", h.algorithm)
	}

	limit := cfg.MaxConcurrent
	if limit <= 0 {
		limit = 1
	}

	h.sem = semaphore.NewWeighted(int64(limit))

	return h, nil
}

func argon2Params(a config.Argon2) *argon2id.Params {
	p := *argon2id.DefaultParams

	if a.Memory > 0 {
		p.Memory = a.Memory
	}

	if a.Iterations > 0 {
		p.Iterations = a.Iterations
	}

	if a.Parallelism > 0 {
		p.Parallelism = a.Parallelism
	}

	if a.SaltLength > 0 {
		p.SaltLength = a.SaltLength
	}

	if a.KeyLength > 0 {
		p.KeyLength = a.KeyLength
	}

	return &p
}

// Algorithm returns the algorithm used for new hashes.
func (h *Hasher) Algorithm() string {
	return h.algorithm
}

// Hash returns the one-way hash of password.
// It blocks until a hashing slot is free or ctx is done.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", errors.Wrap(err, "waiting for hash slot")
	}
	defer h.sem.Release(1)

	defer observe(h.algorithm, opHash, time.Now())

	if h.algorithm == config.HashAlgorithmArgon2id {
		hash, err := argon2id.CreateHash(password, h.params)
		if err != nil {
			return "", errors.Wrap(err, "argon2id")
		}

		return hash, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.Wrap(err, "bcrypt")
	}

	return string(hash), nil
}

// Verify reports whether password matches hash.
// A mismatch is not an error, a malformed hash is.
func (h *Hasher) Verify(ctx context.Context, password, hash string) (bool, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, errors.Wrap(err, "waiting for hash slot")
	}
	defer h.sem.Release(1)

	if strings.HasPrefix(hash, argon2idPrefix) {
		defer observe(config.HashAlgorithmArgon2id, opVerify, time.Now())

		match, err := argon2id.ComparePasswordAndHash(password, hash)
		if err != nil {
			return false, errors.Wrap(err, "argon2id")
		}

		return match, nil
	}

	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return false, errors.Wrap(ErrUnknownHashFormat, err.Error())
	}

	defer observe(config.HashAlgorithmBcrypt, opVerify, time.Now())

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, errors.Wrap(err, "bcrypt")
	}
}

// VerifyDummy spends the time of a real verification without a real account behind it.
// Login uses it for unknown emails, so the response time does not reveal whether an email is registered.
func (h *Hasher) VerifyDummy(ctx context.Context, password string) {
	h.dummyOnce.Do(func() {
		h.dummyHash, h.dummyErr = h.Hash(context.WithoutCancel(ctx), dummyPassword)
	})

	if h.dummyErr != nil {
		return
	}

	_, _ = h.Verify(ctx, password, h.dummyHash)
}

func observe(algorithm, op string, start time.Time) {
	metrics.HashDuration.WithLabelValues(algorithm, op).Observe(time.Since(start).Seconds())
}
