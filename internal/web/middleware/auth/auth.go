package auth

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/rs/zerolog/log"

	"github.com/gatehouse-web/gatehouse/internal/db/store"
	"github.com/gatehouse-web/gatehouse/internal/web/handler"
	"github.com/gatehouse-web/gatehouse/internal/web/session"
)

// New returns the middleware attaching the logged-in user to the request.
func New(sessions *fibersession.Store, users store.Store) fiber.Handler {
	if sessions == nil || users == nil {
		panic("sessions or users is nil")
	}

	return func(c *fiber.Ctx) error {
		sess, err := sessions.Get(c)
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}

		userID := session.UserID(sess)
		if userID == "" {
			log.Debug().Str("path", c.Path()).Msg("request has no session data")
			return c.Next()
		}

		user, err := users.FindByID(c.UserContext(), userID)
		if errors.Is(err, store.ErrNotFound) {
			log.Warn().Str("user_id", userID).Msg("user not found")
			return c.Next()
		}

		if err != nil {
			return fmt.Errorf("failed to load user %s: %w", userID, err)
		}

		c.Locals(handler.CurrentUserKey, user.Sanitized())

		// refresh the expiry
		if err := sess.Save(); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}

		log.Debug().Str("user_id", user.ID).Msg("user added to request")

		return c.Next()
	}
}

// RequireLogin redirects requests without an identity to the login page.
func RequireLogin(c *fiber.Ctx) error {
	if handler.CurrentUser(c) == nil {
		return c.Redirect(handler.LoginPath)
	}

	return c.Next()
}

// UserID returns the id of the current user for the access log, empty for anonymous requests.
func UserID(c *fiber.Ctx) string {
	if user := handler.CurrentUser(c); user != nil {
		return user.ID
	}

	return ""
}
