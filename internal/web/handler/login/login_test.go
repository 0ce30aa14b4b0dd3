package login

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse-web/gatehouse/internal/web/handler"
	"github.com/gatehouse-web/gatehouse/internal/web/handler/handlertest"
	"github.com/gatehouse-web/gatehouse/internal/web/session"
)

func newEnv(t *testing.T, devMode bool) *handlertest.Env {
	t.Helper()

	cfg := handlertest.NewConfig()
	cfg.DevMode = devMode

	env := handlertest.New(t, cfg)

	var s Service
	require.NoError(t, s.Init(env.App, env.Deps))

	env.Register(t, "Bob", "Doe", "bob@example.com", "s3cr3t")

	return env
}

func credentials(email, password string) url.Values {
	return url.Values{
		"email":    {email},
		"password": {password},
	}
}

func TestInitRequiresDependencies(t *testing.T) {
	var s Service
	require.ErrorIs(t, s.Init(nil, nil), handler.ErrNilDependencies)
}

func TestGet(t *testing.T) {
	env := newEnv(t, false)

	resp, body := env.Get(t, Path)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, TemplateName, body)
}

func TestPost_Success_SetsCookieAndRedirects(t *testing.T) {
	env := newEnv(t, false)

	resp, _ := env.PostForm(t, Path, credentials("bob@example.com", "s3cr3t"))

	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, handler.DashboardPath, resp.Header.Get("Location"))

	setCookie := resp.Header.Get("Set-Cookie")
	require.Contains(t, setCookie, session.CookieName+"=")
	assert.Contains(t, strings.ToLower(setCookie), "secure")
	assert.Contains(t, strings.ToLower(setCookie), "httponly")
	assert.NotEmpty(t, env.Cookie)
	assert.Equal(t, 1, env.Storage.Len())
}

func TestPost_Success_DevModeDisablesSecure(t *testing.T) {
	env := newEnv(t, true)

	resp, _ := env.PostForm(t, Path, credentials("bob@example.com", "s3cr3t"))
	require.Equal(t, http.StatusFound, resp.StatusCode)

	setCookie := resp.Header.Get("Set-Cookie")
	assert.NotContains(t, strings.ToLower(setCookie), "secure")
}

func TestPost_RegeneratesSessionToken(t *testing.T) {
	env := newEnv(t, false)

	env.PostForm(t, Path, credentials("bob@example.com", "s3cr3t"))
	first := env.Cookie

	env.PostForm(t, Path, credentials("bob@example.com", "s3cr3t"))
	assert.NotEqual(t, first, env.Cookie)
	assert.Equal(t, 1, env.Storage.Len())
}

func TestPost_InvalidCredentials(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong password", email: "bob@example.com", password: "wrong"},
		{name: "unknown email", email: "nobody@example.com", password: "s3cr3t"},
		{name: "empty form", email: "", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t, false)

			resp, body := env.PostForm(t, Path, credentials(tt.email, tt.password))

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, MsgInvalidCredentials, body)
			assert.Empty(t, resp.Header.Get("Set-Cookie"))
			assert.Equal(t, 0, env.Storage.Len())
		})
	}
}

func TestPost_StoreFailure_RendersSameMessage(t *testing.T) {
	env := newEnv(t, false)
	require.NoError(t, env.Users.Close(context.Background()))

	resp, body := env.PostForm(t, Path, credentials("bob@example.com", "s3cr3t"))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, MsgInvalidCredentials, body)
}

func TestPost_SessionStorageFailure(t *testing.T) {
	env := newEnv(t, false)
	env.Storage.Err = assert.AnError

	resp, body := env.PostForm(t, Path, credentials("bob@example.com", "s3cr3t"))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, MsgGeneric, body)
	assert.Empty(t, env.Cookie)
}

func TestPost_NeverLeaksHash(t *testing.T) {
	env := newEnv(t, false)

	user, err := env.Users.FindByEmail(context.Background(), "bob@example.com")
	require.NoError(t, err)

	_, body := env.PostForm(t, Path, credentials("bob@example.com", "wrong"))
	assert.NotContains(t, body, user.Password)
}
