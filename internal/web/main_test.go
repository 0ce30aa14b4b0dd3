package web

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse-web/gatehouse/internal/config"
	"github.com/gatehouse-web/gatehouse/internal/web/handler"
	"github.com/gatehouse-web/gatehouse/internal/web/handler/handlertest"
	"github.com/gatehouse-web/gatehouse/internal/web/handler/login"
	"github.com/gatehouse-web/gatehouse/internal/web/handler/register"
	"github.com/gatehouse-web/gatehouse/internal/web/session"
)

func newTestService(t *testing.T, cfg *config.Config) (*Service, *handlertest.Env) {
	t.Helper()

	if cfg == nil {
		cfg = handlertest.NewConfig()
	}

	env := handlertest.New(t, cfg)

	s, err := New(cfg, env.Deps)
	require.NoError(t, err)

	env.App = s.App

	return s, env
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New(handlertest.NewConfig(), nil)
	require.ErrorIs(t, err, handler.ErrNilDependencies)

	_, err = New(nil, &handler.Dependencies{})
	require.Error(t, err)
}

func TestRegisterLoginDashboardScenario(t *testing.T) {
	_, env := newTestService(t, nil)

	resp, _ := env.PostForm(t, handler.RegisterPath, url.Values{
		"firstName": {"A"},
		"lastName":  {"B"},
		"email":     {"a@b.com"},
		"password":  {"secret"},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, handler.DashboardPath, resp.Header.Get("Location"))

	resp, _ = env.Get(t, handler.DashboardPath)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, handler.LoginPath, resp.Header.Get("Location"))

	resp, _ = env.PostForm(t, handler.LoginPath, url.Values{
		"email":    {"a@b.com"},
		"password": {"secret"},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, handler.DashboardPath, resp.Header.Get("Location"))
	require.NotEmpty(t, env.Cookie)

	resp, body := env.Get(t, handler.DashboardPath)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Hello A B")
	assert.Contains(t, body, "a@b.com")
	assert.Contains(t, body, `action="/logout"`)

	resp, _ = env.PostForm(t, handler.LogoutPath, url.Values{})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Empty(t, env.Cookie)

	var deleted *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			deleted = c
		}
	}

	require.NotNil(t, deleted, "logout must send the session cookie")
	assert.Empty(t, deleted.Value)
	assert.True(t, deleted.Expires.Before(time.Now()), "cookie expires at %v", deleted.Expires)
	assert.True(t, deleted.HttpOnly)

	resp, _ = env.Get(t, handler.DashboardPath)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestCookieIsEncrypted(t *testing.T) {
	_, env := newTestService(t, nil)
	env.Register(t, "A", "B", "a@b.com", "secret")

	env.PostForm(t, handler.LoginPath, url.Values{"email": {"a@b.com"}, "password": {"secret"}})
	require.NotEmpty(t, env.Cookie)

	// the raw session id is 64 alphanumeric chars, the cookie carries the encrypted form
	assert.NotRegexp(t, `^[A-Za-z0-9]{64}$`, env.Cookie)

	env.Cookie = "tampered" + env.Cookie

	resp, _ := env.Get(t, handler.DashboardPath)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, handler.LoginPath, resp.Header.Get("Location"))
}

func TestFormErrorsRenderInViews(t *testing.T) {
	_, env := newTestService(t, nil)
	env.Register(t, "A", "B", "a@b.com", "secret")

	resp, body := env.PostForm(t, handler.LoginPath, url.Values{"email": {"a@b.com"}, "password": {"nope"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, login.MsgInvalidCredentials)

	resp, body = env.PostForm(t, handler.RegisterPath, url.Values{
		"firstName": {"C"},
		"lastName":  {"D"},
		"email":     {"a@b.com"},
		"password":  {"pw-Zq81"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, register.MsgEmailTaken)
	assert.Contains(t, body, `value="C"`)
	assert.NotContains(t, body, "pw-Zq81")
}

func TestPublicPages(t *testing.T) {
	_, env := newTestService(t, nil)

	for _, path := range []string{handler.RootPath, handler.RegisterPath, handler.LoginPath} {
		resp, body := env.Get(t, path)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Contains(t, body, "<html", path)
	}
}

func TestNotFoundRendersErrorPage(t *testing.T) {
	_, env := newTestService(t, nil)

	resp, body := env.Get(t, "/does-not-exist")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Not Found")
}

func TestStoreFailureRendersErrorPage(t *testing.T) {
	_, env := newTestService(t, nil)
	env.Register(t, "A", "B", "a@b.com", "secret")

	env.PostForm(t, handler.LoginPath, url.Values{"email": {"a@b.com"}, "password": {"secret"}})
	require.NotEmpty(t, env.Cookie)

	require.NoError(t, env.Users.Close(context.Background()))

	resp, body := env.Get(t, handler.DashboardPath)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, "Internal Server Error")
	assert.NotContains(t, body, "database is closed")
}

func TestCheckAlive(t *testing.T) {
	s, env := newTestService(t, nil)

	resp, body := env.Get(t, CheckAlivePath)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body)
	assert.True(t, s.Alive())

	s.alive.Store(false)

	resp, _ = env.Get(t, CheckAlivePath)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestMetricsAndStatic(t *testing.T) {
	_, env := newTestService(t, nil)
	env.Register(t, "A", "B", "a@b.com", "secret")
	env.PostForm(t, handler.LoginPath, url.Values{"email": {"a@b.com"}, "password": {"secret"}})

	resp, body := env.Get(t, "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "gatehouse_logins_total")
	assert.Contains(t, body, "gatehouse_password_hash_duration_seconds")

	resp, body = env.Get(t, "/static/css/main.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, ".card")
}
