// Package dashboard provides the protected dashboard of logged-in users.
package dashboard

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/gatehouse-web/gatehouse/internal/web/handler"
	authmw "github.com/gatehouse-web/gatehouse/internal/web/middleware/auth"
	"github.com/gatehouse-web/gatehouse/internal/web/navigation"
	"github.com/gatehouse-web/gatehouse/internal/web/session"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.DashboardPath

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard"
)

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	deps *handler.Dependencies
}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, deps *handler.Dependencies) error {
	if app == nil || deps == nil || deps.Sessions == nil {
		return handler.ErrNilDependencies
	}

	s.deps = deps

	app.Get(Path, authmw.RequireLogin, s.Get)

	return nil
}

// Get handles the dashboard page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := handler.Nav(c, "Dashboard", navigation.PageDashboard).
		AddBreadcrumb("Home", handler.RootPath, false).
		AddBreadcrumb("Dashboard", Path, true)

	return c.Render(TemplateName, s.deps.View(c, nav, fiber.Map{
		"LoginAt": s.loginAt(c),
	}), handler.BaseLayout)
}

// loginAt returns the login time stored in the session, zero if unknown.
func (s *Service) loginAt(c *fiber.Ctx) time.Time {
	sess, err := s.deps.Sessions.Get(c)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load session")
		return time.Time{}
	}

	ts, ok := sess.Get(session.KeyLoginAt).(int64)
	if !ok {
		return time.Time{}
	}

	return time.Unix(ts, 0)
}
