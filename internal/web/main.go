// Package web assembles the fiber application: middleware chain, views, routes and lifecycle.
package web

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/gofiber/template/html/v2"
	"github.com/rs/zerolog/log"

	"github.com/gatehouse-web/gatehouse/internal/config"
	fiberlogger "github.com/gatehouse-web/gatehouse/internal/logger/adapter/fiber"
	"github.com/gatehouse-web/gatehouse/internal/metrics"
	"github.com/gatehouse-web/gatehouse/internal/web/handler"
	"github.com/gatehouse-web/gatehouse/internal/web/handler/dashboard"
	"github.com/gatehouse-web/gatehouse/internal/web/handler/home"
	"github.com/gatehouse-web/gatehouse/internal/web/handler/login"
	"github.com/gatehouse-web/gatehouse/internal/web/handler/logout"
	"github.com/gatehouse-web/gatehouse/internal/web/handler/register"
	authmw "github.com/gatehouse-web/gatehouse/internal/web/middleware/auth"
	"github.com/gatehouse-web/gatehouse/internal/web/navigation"
	"github.com/gatehouse-web/gatehouse/internal/web/session"
)

const (
	// CheckAlivePath answers load balancer health checks.
	CheckAlivePath = "/checkalive"

	// ErrorTemplateName is the view rendered for unmatched routes and request errors.
	ErrorTemplateName = "error"

	defaultAppName = "Gatehouse"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	deps         *handler.Dependencies
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address in the background.
func (s *Service) Start(addr string) {
	go func() {
		log.Info().Str("addr", addr).Msg("starting http server")

		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}
	}()
}

// WaitShutdown blocks until SIGINT or SIGTERM and shuts the web service down.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown stops the http server gracefully.
func (s *Service) Shutdown() {
	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	s.alive.Store(false)

	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped")
}

// Alive reports whether the service accepts traffic.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// New creates a new web service with the given configuration and dependencies.
func New(cfg *config.Config, deps *handler.Dependencies) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if deps == nil || deps.Sessions == nil || deps.Users == nil || deps.Auth == nil {
		return nil, handler.ErrNilDependencies
	}

	if deps.Cfg == nil {
		deps.Cfg = cfg
	}

	templateEngine := html.NewFileSystem(templatesFS(), templateExtension)

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New(devTemplateDir, templateExtension)
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	appName := cfg.Title
	if appName == "" {
		appName = defaultAppName
	}

	service := &Service{
		cfg:          cfg,
		deps:         deps,
		fastShutDown: cfg.DevMode,
	}
	service.alive.Store(true)

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        appName,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          templateEngine,
			ErrorHandler:   service.errorHandler,
		},
	)
	service.App = app

	// access log, the logger calls the error handler for chain errors
	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
		UserID:        authmw.UserID,
	}))

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	app.Get(CheckAlivePath, service.checkAlive)
	app.Get(metrics.Path, metrics.Handler())

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       staticFS(),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
			},
		),
	)

	// deletes the session cookie after logout, outside of the encryption below
	app.Use(session.CookieExpirer(cfg))

	// session cookie encryption
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: session.EncryptionKey(cfg.Webserver.Session.Secret),
	}))

	// attaches the logged-in user
	app.Use(authmw.New(deps.Sessions, deps.Users))

	// init handlers (they register their own routes)
	for _, h := range []handler.Service{
		&home.Service{},
		&register.Service{},
		&login.Service{},
		&dashboard.Service{},
		&logout.Service{},
	} {
		if err := h.Init(app, deps); err != nil {
			return nil, fmt.Errorf("failed to init handler: %w", err)
		}
	}

	// everything else is not found
	app.Use(func(_ *fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	return service, nil
}

func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
	}

	return c.SendString("OK")
}

// errorHandler renders the error view. Details of server errors are logged, never shown.
func (s *Service) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	} else {
		log.Debug().Err(err).Str("path", c.Path()).Int("status", code).Msg("request rejected")
	}

	message := utils.StatusMessage(code)
	nav := handler.Nav(c, message, navigation.PageError)

	renderErr := c.Status(code).Render(ErrorTemplateName, s.deps.View(c, nav, fiber.Map{
		"Status":  code,
		"Message": message,
	}), handler.BaseLayout)
	if renderErr != nil {
		log.Error().Err(renderErr).Msg("failed to render error page")

		return c.Status(code).SendString(message)
	}

	return nil
}
