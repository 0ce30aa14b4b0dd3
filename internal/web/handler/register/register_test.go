package register

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse-web/gatehouse/internal/config"
	"github.com/gatehouse-web/gatehouse/internal/db/store"
	"github.com/gatehouse-web/gatehouse/internal/web/handler"
	"github.com/gatehouse-web/gatehouse/internal/web/handler/dashboard"
	"github.com/gatehouse-web/gatehouse/internal/web/handler/handlertest"
)

func newEnv(t *testing.T, cfg *config.Config) *handlertest.Env {
	t.Helper()

	env := handlertest.New(t, cfg)

	var s Service
	require.NoError(t, s.Init(env.App, env.Deps))

	var d dashboard.Service
	require.NoError(t, d.Init(env.App, env.Deps))

	return env
}

func aliceForm() url.Values {
	return url.Values{
		"firstName": {"Alice"},
		"lastName":  {"Doe"},
		"email":     {"alice@example.com"},
		"password":  {"secret"},
	}
}

func TestGet(t *testing.T) {
	env := newEnv(t, nil)

	resp, body := env.Get(t, Path)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, TemplateName, body)
}

func TestPost_Success_RedirectsToDashboard(t *testing.T) {
	env := newEnv(t, nil)

	resp, _ := env.PostForm(t, Path, aliceForm())
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, handler.DashboardPath, resp.Header.Get("Location"))

	user, err := env.Users.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.FirstName)
	assert.NotEqual(t, "secret", user.Password)

	// registration does not log in, the dashboard sends the visitor on to the login page
	assert.Empty(t, env.Cookie)

	resp, _ = env.Get(t, handler.DashboardPath)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, handler.LoginPath, resp.Header.Get("Location"))
}

func TestPost_LoginAfterRegister(t *testing.T) {
	cfg := handlertest.NewConfig()
	cfg.Webserver.Session.LoginAfterRegister = true

	env := newEnv(t, cfg)

	resp, _ := env.PostForm(t, Path, aliceForm())
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.NotEmpty(t, env.Cookie)

	resp, body := env.Get(t, handler.DashboardPath)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, dashboard.TemplateName+" alice@example.com", body)
}

func TestPost_MissingFields(t *testing.T) {
	for _, field := range []string{"firstName", "lastName", "email", "password"} {
		t.Run(field, func(t *testing.T) {
			env := newEnv(t, nil)

			form := aliceForm()
			form.Del(field)

			resp, body := env.PostForm(t, Path, form)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, MsgMissingFields, body)

			_, err := env.Users.FindByEmail(context.Background(), "alice@example.com")
			require.ErrorIs(t, err, store.ErrNotFound)
		})
	}
}

func TestPost_DuplicateEmail(t *testing.T) {
	env := newEnv(t, nil)
	env.Register(t, "Alice", "Doe", "alice@example.com", "first")

	form := aliceForm()
	form.Set("firstName", "Mallory")

	resp, body := env.PostForm(t, Path, form)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, MsgEmailTaken, body)

	user, err := env.Users.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.FirstName)
}

func TestPost_StoreFailure(t *testing.T) {
	env := newEnv(t, nil)
	require.NoError(t, env.Users.Close(context.Background()))

	resp, body := env.PostForm(t, Path, aliceForm())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, MsgGeneric, body)
}
