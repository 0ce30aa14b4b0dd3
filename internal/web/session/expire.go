package session

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gatehouse-web/gatehouse/internal/config"
)

const localExpire = "session.expire"

// MarkExpired asks CookieExpirer to delete the session cookie once the response is complete.
func MarkExpired(c *fiber.Ctx) {
	c.Locals(localExpire, true)
}

// ExpiredCookie is the session cookie with an expiry in the past.
func ExpiredCookie(cfg *config.Config) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Domain:   cfg.Webserver.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   !cfg.DevMode,
		HTTPOnly: true,
		SameSite: sameSite,
	}
}

// CookieExpirer writes ExpiredCookie for responses marked with MarkExpired.
// It must run outside the cookie encryption: encryptcookie rewrites response cookies and
// drops the expiry of a deleted one.
func CookieExpirer(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if expired, _ := c.Locals(localExpire).(bool); expired {
			c.Cookie(ExpiredCookie(cfg))
		}

		return err
	}
}
