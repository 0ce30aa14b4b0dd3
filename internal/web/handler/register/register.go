// Package register handles account creation.
package register

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/gatehouse-web/gatehouse/internal/auth"
	"github.com/gatehouse-web/gatehouse/internal/metrics"
	"github.com/gatehouse-web/gatehouse/internal/web/handler"
	"github.com/gatehouse-web/gatehouse/internal/web/navigation"
	"github.com/gatehouse-web/gatehouse/internal/web/session"
)

const (
	// Path is the path to the registration page.
	Path = handler.RegisterPath

	// TemplateName is the name of the registration template.
	TemplateName = "register"

	pageTitle = "Register"
)

// Messages rendered on the registration form.
const (
	MsgInvalidForm   = "Invalid form data"
	MsgMissingFields = "Please fill in all fields"
	MsgEmailTaken    = "That email is already taken, please try another"
	MsgGeneric       = "Something bad happened! Please try again"
)

// Form is the submitted registration form.
type Form struct {
	FirstName string `form:"firstName" validate:"required"`
	LastName  string `form:"lastName" validate:"required"`
	Email     string `form:"email" validate:"required"`
	Password  string `form:"password" validate:"required"`
}

// Service is the registration handler service.
type Service struct {
	handler.Service
	deps      *handler.Dependencies
	validator *validator.Validate
}

// Init initializes the registration handler.
func (s *Service) Init(app *fiber.App, deps *handler.Dependencies) error {
	if app == nil || deps == nil || deps.Auth == nil || deps.Sessions == nil {
		return handler.ErrNilDependencies
	}

	s.deps = deps
	s.validator = validator.New()

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.Get)
		router.Post(handler.RootPath, s.Post)
	})

	return nil
}

// Get renders the registration form.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, nil, "")
}

// Post handles the registration form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	form := new(Form)

	if err := c.BodyParser(form); err != nil {
		log.Warn().Err(err).Msg("failed to parse registration form")
		metrics.Registrations.WithLabelValues(metrics.ResultInvalid).Inc()

		return s.render(c, form, MsgInvalidForm)
	}

	if err := s.validator.Struct(form); err != nil {
		var validationErrors validator.ValidationErrors
		errors.As(err, &validationErrors)

		fields := make([]string, len(validationErrors))
		for i, ve := range validationErrors {
			fields[i] = ve.Field()
		}

		log.Debug().Strs("fields", fields).Msg("registration form incomplete")
		metrics.Registrations.WithLabelValues(metrics.ResultInvalid).Inc()

		return s.render(c, form, MsgMissingFields)
	}

	log.Info().Str("email", form.Email).Msg("registration attempt")

	user, err := s.deps.Auth.Register(c.UserContext(), auth.RegisterInput{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Password:  form.Password,
	})

	switch {
	case errors.Is(err, auth.ErrEmailExists):
		log.Info().Str("email", form.Email).Msg("email already registered")
		metrics.Registrations.WithLabelValues(metrics.ResultDuplicate).Inc()

		return s.render(c, form, MsgEmailTaken)
	case err != nil:
		log.Error().Err(err).Str("email", form.Email).Msg("failed to register user")
		metrics.Registrations.WithLabelValues(metrics.ResultError).Inc()

		return s.render(c, form, MsgGeneric)
	}

	log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("user registered")
	metrics.Registrations.WithLabelValues(metrics.ResultSuccess).Inc()

	if s.deps.Cfg != nil && s.deps.Cfg.Webserver.Session.LoginAfterRegister {
		s.login(c, user.ID)
	}

	return c.Redirect(handler.DashboardPath)
}

// login opens a session for the new user. A failure leaves the user anonymous.
func (s *Service) login(c *fiber.Ctx, userID string) {
	sess, err := s.deps.Sessions.Get(c)
	if err != nil {
		log.Error().Err(err).Msg("failed to load session after registration")
		return
	}

	if err := session.Login(sess, userID); err != nil {
		log.Error().Err(err).Msg("failed to open session after registration")
	}
}

func (s *Service) render(c *fiber.Ctx, form *Form, msg string) error {
	nav := handler.Nav(c, pageTitle, navigation.PageRegister)

	data := fiber.Map{}
	if form != nil {
		// the password is never sent back
		data["Form"] = fiber.Map{
			"FirstName": form.FirstName,
			"LastName":  form.LastName,
			"Email":     form.Email,
		}
	}

	if msg != "" {
		data["error"] = msg
	}

	return c.Render(TemplateName, s.deps.View(c, nav, data), handler.BaseLayout)
}
