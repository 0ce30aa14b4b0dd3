package dashboard

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse-web/gatehouse/internal/web/handler"
	"github.com/gatehouse-web/gatehouse/internal/web/handler/handlertest"
	"github.com/gatehouse-web/gatehouse/internal/web/handler/login"
)

func newEnv(t *testing.T) *handlertest.Env {
	t.Helper()

	env := handlertest.New(t, nil)

	var s Service
	require.NoError(t, s.Init(env.App, env.Deps))

	var l login.Service
	require.NoError(t, l.Init(env.App, env.Deps))

	env.Register(t, "Alice", "Doe", "alice@example.com", "secret")

	return env
}

func TestGet_Anonymous_RedirectsToLogin(t *testing.T) {
	env := newEnv(t)

	resp, body := env.Get(t, Path)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, handler.LoginPath, resp.Header.Get("Location"))
	assert.NotContains(t, body, TemplateName)
}

func TestGet_LoggedIn(t *testing.T) {
	env := newEnv(t)

	resp, _ := env.PostForm(t, login.Path, url.Values{
		"email":    {"alice@example.com"},
		"password": {"secret"},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)

	resp, body := env.Get(t, Path)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, TemplateName+" alice@example.com", body)
}
