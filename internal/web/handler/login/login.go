// Package login provides HTTP handlers for password authentication.
package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/gatehouse-web/gatehouse/internal/auth"
	"github.com/gatehouse-web/gatehouse/internal/metrics"
	"github.com/gatehouse-web/gatehouse/internal/web/handler"
	"github.com/gatehouse-web/gatehouse/internal/web/navigation"
	"github.com/gatehouse-web/gatehouse/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = handler.LoginPath

	// TemplateName is the name of the login template.
	TemplateName = "login"

	pageTitle = "Login"
)

// Messages rendered on the login form.
const (
	// MsgInvalidCredentials is shown for unknown emails, wrong passwords and lookup failures alike.
	MsgInvalidCredentials = "Incorrect email / password."
	MsgGeneric            = "Something bad happened! Please try again"
)

// Form is the submitted login form.
type Form struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// Service is the login handler service.
type Service struct {
	handler.Service
	deps *handler.Dependencies
}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, deps *handler.Dependencies) error {
	if app == nil || deps == nil || deps.Auth == nil || deps.Sessions == nil {
		return handler.ErrNilDependencies
	}

	s.deps = deps

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.Get)
		router.Post(handler.RootPath, s.Post)
	})

	return nil
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, "", "")
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	form := new(Form)

	if err := c.BodyParser(form); err != nil {
		log.Warn().Err(err).Msg("failed to parse login form")
		metrics.Logins.WithLabelValues(metrics.ResultInvalid).Inc()

		return s.render(c, "", MsgInvalidCredentials)
	}

	log.Info().Str("email", form.Email).Msg("login attempt")

	user, err := s.deps.Auth.Authenticate(c.UserContext(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			log.Info().Err(err).Str("email", form.Email).Msg("login failed")
			metrics.Logins.WithLabelValues(metrics.ResultFailure).Inc()
		} else {
			log.Error().Err(err).Str("email", form.Email).Msg("login failed")
			metrics.Logins.WithLabelValues(metrics.ResultError).Inc()
		}

		return s.render(c, form.Email, MsgInvalidCredentials)
	}

	sess, err := s.deps.Sessions.Get(c)
	if err != nil {
		log.Error().Err(err).Msg("failed to load session")
		metrics.Logins.WithLabelValues(metrics.ResultError).Inc()

		return s.render(c, form.Email, MsgGeneric)
	}

	if err := session.Login(sess, user.ID); err != nil {
		log.Error().Err(err).Msg("failed to write session")
		metrics.Logins.WithLabelValues(metrics.ResultError).Inc()

		return s.render(c, form.Email, MsgGeneric)
	}

	log.Info().Str("user_id", user.ID).Msg("user logged in")
	metrics.Logins.WithLabelValues(metrics.ResultSuccess).Inc()

	return c.Redirect(handler.DashboardPath)
}

func (s *Service) render(c *fiber.Ctx, email, msg string) error {
	nav := handler.Nav(c, pageTitle, navigation.PageLogin)

	data := fiber.Map{"Email": email}
	if msg != "" {
		data["error"] = msg
	}

	return c.Render(TemplateName, s.deps.View(c, nav, data), handler.BaseLayout)
}
