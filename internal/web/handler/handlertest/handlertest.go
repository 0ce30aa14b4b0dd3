// Package handlertest wires handlers to in-memory dependencies for tests.
package handlertest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gatehouse-web/gatehouse/internal/auth"
	"github.com/gatehouse-web/gatehouse/internal/config"
	"github.com/gatehouse-web/gatehouse/internal/db/models"
	"github.com/gatehouse-web/gatehouse/internal/db/store"
	"github.com/gatehouse-web/gatehouse/internal/hasher"
	"github.com/gatehouse-web/gatehouse/internal/web/handler"
	authmw "github.com/gatehouse-web/gatehouse/internal/web/middleware/auth"
	"github.com/gatehouse-web/gatehouse/internal/web/session"
	"github.com/gatehouse-web/gatehouse/internal/web/session/sessiontest"
)

// NoOpViews is a minimal Fiber Views engine used for tests.
// It writes the "error" field from the provided fiber.Map (if any)
// so tests can assert error messages rendered by handlers.
// Otherwise it writes the template name followed by the email of the current user.
type NoOpViews struct{}

// Load implements fiber.Views.
func (NoOpViews) Load() error { return nil }

// Render implements fiber.Views.
func (NoOpViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	m, _ := data.(fiber.Map)

	if v, ok := m["error"].(string); ok && v != "" {
		_, _ = io.WriteString(w, v)
		return nil
	}

	// write template name to have some content
	_, _ = io.WriteString(w, name)

	if u, ok := m["CurrentUser"].(*models.User); ok && u != nil {
		_, _ = io.WriteString(w, " "+u.Email)
	}

	return nil
}

// Env is a fiber app with the auth middleware, an in-memory user store and session storage.
type Env struct {
	App     *fiber.App
	Deps    *handler.Dependencies
	Users   *store.GormStore
	Storage *sessiontest.Storage
	Clock   *sessiontest.Clock

	// Cookie is the current session cookie value, updated from responses.
	Cookie string
}

// NewConfig returns a valid configuration for tests.
func NewConfig() *config.Config {
	return &config.Config{
		Title: "Gatehouse",
		Webserver: config.Webserver{
			URL:  "http://localhost",
			Port: 3000,
			Session: config.Session{
				ExpiryTime: 30 * time.Minute,
				Secret:     "test-secret",
			},
		},
		Hash: config.Hash{
			Algorithm:     config.HashAlgorithmBcrypt,
			WorkFactor:    4,
			MaxConcurrent: 2,
		},
	}
}

// NewUserStore opens an empty in-memory user store.
func NewUserStore(t *testing.T) *store.GormStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = sqlDB.Close() })

	users := store.NewGorm(db, time.Second)
	require.NoError(t, users.Migrate())

	return users
}

// New creates an Env for cfg, nil uses NewConfig.
func New(t *testing.T, cfg *config.Config) *Env {
	t.Helper()

	if cfg == nil {
		cfg = NewConfig()
	}

	h, err := hasher.New(cfg.Hash)
	require.NoError(t, err)

	clock := sessiontest.NewClock()
	storage := sessiontest.New(clock)
	users := NewUserStore(t)

	deps := &handler.Dependencies{
		Cfg:      cfg,
		Sessions: session.New(cfg, storage),
		Users:    users,
		Auth:     auth.NewLocalProvider(users, h),
	}

	app := fiber.New(fiber.Config{Views: NoOpViews{}})
	app.Use(session.CookieExpirer(cfg))
	app.Use(authmw.New(deps.Sessions, deps.Users))

	return &Env{
		App:     app,
		Deps:    deps,
		Users:   users,
		Storage: storage,
		Clock:   clock,
	}
}

// Register creates a user directly through the auth provider.
func (e *Env) Register(t *testing.T, firstName, lastName, email, password string) *models.User {
	t.Helper()

	user, err := e.Deps.Auth.Register(context.Background(), auth.RegisterInput{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  password,
	})
	require.NoError(t, err)

	return user
}

// Get performs a GET request with the current session cookie.
func (e *Env) Get(t *testing.T, target string) (*http.Response, string) {
	t.Helper()

	return e.Do(t, httptest.NewRequest(http.MethodGet, target, nil))
}

// PostForm performs a form POST request with the current session cookie.
func (e *Env) PostForm(t *testing.T, target string, form url.Values) (*http.Response, string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return e.Do(t, req)
}

// Do sends req and keeps track of the session cookie like a browser would.
func (e *Env) Do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()

	if e.Cookie != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: e.Cookie})
	}

	resp, err := e.App.Test(req, -1)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	for _, c := range resp.Cookies() {
		if c.Name != session.CookieName {
			continue
		}

		if c.Value == "" || c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(time.Now())) {
			e.Cookie = ""
			continue
		}

		e.Cookie = c.Value
	}

	return resp, string(body)
}
