// Package session configures the server side session store.
//
// Sessions are kept in a fiber storage backend and referenced by an opaque random token carried in
// the "session" cookie. The cookie value is encrypted by the encryptcookie middleware with the key
// returned by EncryptionKey.
package session

import (
	"crypto/sha256"
	"encoding/base64"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/pkg/errors"

	"github.com/gatehouse-web/gatehouse/internal/config"
	"github.com/gatehouse-web/gatehouse/internal/uniuri"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "session"

	// KeyUserID is the session attribute holding the id of the logged-in user.
	KeyUserID = "userId"

	// KeyLoginAt holds the unix time of the login.
	KeyLoginAt = "loginAt"

	sameSite = "Lax"
)

// New creates the session store: sliding expiry, HttpOnly, SameSite Lax and Secure unless in dev mode.
func New(cfg *config.Config, storage fiber.Storage) *session.Store {
	if storage == nil {
		panic("storage is nil")
	}

	return session.New(session.Config{
		Expiration:     cfg.Webserver.Session.ExpiryTime,
		Storage:        storage,
		KeyLookup:      "cookie:" + CookieName,
		CookieDomain:   cfg.Webserver.Domain,
		CookiePath:     "/",
		CookieSecure:   !cfg.DevMode,
		CookieHTTPOnly: true,
		CookieSameSite: sameSite,
		KeyGenerator:   GenerateSessionID,
	})
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() string {
	return uniuri.Session()
}

// EncryptionKey derives the encryptcookie key from the session secret.
func EncryptionKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// UserID returns the id of the user bound to sess, empty if there is none.
func UserID(sess *session.Session) string {
	id, _ := sess.Get(KeyUserID).(string)
	return id
}

// Login binds userID to a freshly generated session token and saves it.
// The session must not be used after Login returns.
func Login(sess *session.Session, userID string) error {
	if err := sess.Regenerate(); err != nil {
		return errors.Wrap(err, "failed to regenerate session")
	}

	sess.Set(KeyUserID, userID)
	sess.Set(KeyLoginAt, time.Now().Unix())

	return errors.Wrap(sess.Save(), "failed to save session")
}
