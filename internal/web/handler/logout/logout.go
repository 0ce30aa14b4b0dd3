// Package logout ends the session of the current user.
package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/gatehouse-web/gatehouse/internal/web/handler"
	"github.com/gatehouse-web/gatehouse/internal/web/session"
)

const (
	// Path is the path of the logout route.
	Path = handler.LogoutPath
)

// Service is the logout handler service.
type Service struct {
	handler.Service
	deps *handler.Dependencies
}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, deps *handler.Dependencies) error {
	if app == nil || deps == nil || deps.Sessions == nil {
		return handler.ErrNilDependencies
	}

	s.deps = deps

	app.Get(Path, s.Logout)
	app.Post(Path, s.Logout)

	return nil
}

// Logout destroys the server side session, expires the cookie and redirects to the login page.
func (s *Service) Logout(c *fiber.Ctx) error {
	if user := handler.CurrentUser(c); user != nil {
		log.Info().Str("user_id", user.ID).Msg("user logged out")
	}

	sess, err := s.deps.Sessions.Get(c)
	if err != nil {
		log.Error().Err(err).Msg("failed to load session")
		session.MarkExpired(c)

		return c.Redirect(handler.LoginPath)
	}

	if err := sess.Destroy(); err != nil {
		log.Error().Err(err).Msg("failed to delete session")
	}

	session.MarkExpired(c)

	return c.Redirect(handler.LoginPath)
}
