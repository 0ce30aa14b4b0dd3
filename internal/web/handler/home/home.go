// Package home serves the public landing page.
package home

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gatehouse-web/gatehouse/internal/web/handler"
	"github.com/gatehouse-web/gatehouse/internal/web/navigation"
)

const (
	// Path is the path to the home page.
	Path = handler.RootPath

	// TemplateName is the name of the home template.
	TemplateName = "index"
)

// Service is the home handler service.
type Service struct {
	handler.Service
	deps *handler.Dependencies
}

// Init initializes the home handler.
func (s *Service) Init(app *fiber.App, deps *handler.Dependencies) error {
	if app == nil || deps == nil {
		return handler.ErrNilDependencies
	}

	s.deps = deps

	app.Get(Path, s.Get)

	return nil
}

// Get renders the home page.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := handler.Nav(c, "Home", navigation.PageHome)

	return c.Render(TemplateName, s.deps.View(c, nav, nil), handler.BaseLayout)
}
