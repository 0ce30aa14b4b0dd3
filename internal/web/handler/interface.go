// Package handler holds what the route handlers share: their dependencies, paths and view data.
package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/gatehouse-web/gatehouse/internal/auth"
	"github.com/gatehouse-web/gatehouse/internal/config"
	"github.com/gatehouse-web/gatehouse/internal/db/models"
	"github.com/gatehouse-web/gatehouse/internal/db/store"
	"github.com/gatehouse-web/gatehouse/internal/web/navigation"
)

// ErrNilDependencies is returned by Init when app or a required dependency is missing.
var ErrNilDependencies = errors.New(ErrNilADFatalLogMsg)

// Dependencies are created once by the daemon and shared by all handlers.
type Dependencies struct {
	Cfg      *config.Config
	Sessions *session.Store
	Users    store.Store
	Auth     *auth.LocalProvider
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, deps *Dependencies) error
}

// CurrentUser returns the user attached by the auth middleware, nil for anonymous requests.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(CurrentUserKey).(*models.User)
	return user
}

// View returns the template data of a page: data plus the current user, the navigation and the app title.
func (d *Dependencies) View(c *fiber.Ctx, nav *navigation.Context, data fiber.Map) fiber.Map {
	out := fiber.Map{
		"CurrentUser": CurrentUser(c),
		"Navigation":  nav,
	}

	if d.Cfg != nil {
		out["AppTitle"] = d.Cfg.Title
	}

	for k, v := range data {
		out[k] = v
	}

	return out
}

// Nav creates the navigation context for a page of the current request.
func Nav(c *fiber.Ctx, pageTitle, page string) *navigation.Context {
	return navigation.NewContext(pageTitle, page, CurrentUser(c) != nil)
}
