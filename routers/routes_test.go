package routers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diplomas/config"
	diplomaController "diplomas/controllers/diploma"
	settingsController "diplomas/controllers/settings"
	"diplomas/database"
	"diplomas/middleware"
	"diplomas/render"
	"diplomas/utils"
)

type nopRenderer struct{}

func (nopRenderer) RenderPDF(context.Context, *render.Document) ([]byte, error) {
	return []byte("%PDF"), nil
}

func (nopRenderer) RenderPNG(context.Context, *render.Document) ([]byte, error) {
	return []byte("PNG"), nil
}

type nopMailer struct{}

func (nopMailer) Validate(s utils.MailSettings) error { return s.Check() }

func (nopMailer) Send(context.Context, utils.MailSettings, utils.Message) error { return nil }

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := config.Defaults()
	cfg.SaltRound = 4
	cfg.GeneratedDir = t.TempDir()
	config.AppConfig = cfg

	_, err := database.OpenMemory(t.Name())
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	SetupRoutes(app, Handlers{
		Diplomas: diplomaController.NewHandler(cfg, nopRenderer{}, nopMailer{}),
		Settings: &settingsController.Handler{Mailer: nopMailer{}},
	}, 0)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	if resp.Header.Get("Content-Type") == fiber.MIMEApplicationJSON {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp.StatusCode, env
}

func TestRegisterLoginAndCourseFlow(t *testing.T) {
	app := newTestApp(t)

	status, env := do(t, app, http.MethodGet, "/api/check-first-user", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"has_users":false}`, string(env.Data))

	status, env = do(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "Admin@Example.com", "password": "secret1", "name": "Admin", "organization_name": "Acme",
	})
	require.Equal(t, fiber.StatusOK, status, env.Message)

	status, env = do(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "admin@example.com", "password": "secret1",
	})
	require.Equal(t, fiber.StatusOK, status, env.Message)
	var login struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.Equal(t, "bearer", login.TokenType)
	token := login.AccessToken

	status, _ = do(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "admin@example.com", "password": "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = do(t, app, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = do(t, app, http.MethodGet, "/api/courses", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, env = do(t, app, http.MethodPost, "/api/courses", token, map[string]interface{}{
		"name": "Go", "instructor": "Rob", "duration_hours": 10, "start_date": "2025-01-31",
	})
	require.Equal(t, fiber.StatusCreated, status, env.Message)

	status, env = do(t, app, http.MethodPost, "/api/courses", token, map[string]interface{}{
		"name": "Bad", "instructor": "Rob", "start_date": "31/01/2025",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, string(env.Data), "start_date")

	status, env = do(t, app, http.MethodGet, "/api/courses", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var courses []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &courses))
	require.Len(t, courses, 1)
	assert.Equal(t, "Go", courses[0]["name"])
}

func TestPublicEndpoints(t *testing.T) {
	app := newTestApp(t)

	status, env := do(t, app, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(env.Data), `"api_version":"1.0.1"`)

	status, env = do(t, app, http.MethodGet, "/api/settings/public", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(env.Data), `"site_title":"Academy"`)

	status, _ = do(t, app, http.MethodGet, "/api/settings", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = do(t, app, http.MethodGet, "/api/verify/CERT-ZZZZZZ-0000", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = do(t, app, http.MethodGet, "/api/uploads/..secret", "", nil)
	assert.NotEqual(t, fiber.StatusOK, status)
}
