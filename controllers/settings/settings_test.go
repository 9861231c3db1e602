package settingsController

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diplomas/config"
	"diplomas/database"
	"diplomas/models"
	"diplomas/utils"
	settingsValidator "diplomas/validators/settings"
)

type recordingMailer struct {
	api      bool
	settings []utils.MailSettings
	messages []utils.Message
}

func (m *recordingMailer) Validate(s utils.MailSettings) error {
	if m.api {
		return (&utils.SendGridMailer{}).Validate(s)
	}
	return s.Check()
}

func (m *recordingMailer) Send(ctx context.Context, s utils.MailSettings, msg utils.Message) error {
	m.settings = append(m.settings, s)
	m.messages = append(m.messages, msg)
	return nil
}

func settingsApp(t *testing.T) (*fiber.App, *recordingMailer, string) {
	t.Helper()
	config.AppConfig = config.Defaults()
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)
	org := models.Organization{Name: "Acme"}
	require.NoError(t, db.Create(&org).Error)

	mailer := &recordingMailer{}
	h := &Handler{Mailer: mailer}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("orgId", org.ID)
		return c.Next()
	})
	app.Get("/settings", h.GetSettings)
	app.Put("/settings", settingsValidator.UpdateSettings(), h.UpdateSettings)
	app.Post("/settings/test-email", h.TestEmail)
	return app, mailer, org.ID
}

func put(t *testing.T, app *fiber.App, body map[string]interface{}) models.Settings {
	t.Helper()
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest("PUT", "/settings", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var env struct {
		Data models.Settings `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env.Data
}

func TestUpdateSettingsMasksPassword(t *testing.T) {
	app, _, orgID := settingsApp(t)

	got := put(t, app, map[string]interface{}{"smtp_user": "me@example.com", "smtp_password": "hunter2", "email_enabled": true})
	assert.Equal(t, "********", got.SMTPPassword)
	assert.Equal(t, "Academy", got.SiteTitle)

	// sending the mask back keeps the stored password
	got = put(t, app, map[string]interface{}{"smtp_password": "********", "site_title": "Acme Diplomas"})
	assert.Equal(t, "Acme Diplomas", got.SiteTitle)
	assert.Equal(t, "me@example.com", got.SMTPUser)

	stored, err := LoadSettings(database.Database.Db, orgID)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", stored.SMTPPassword)
	assert.True(t, stored.EmailEnabled)
}

func TestTestEmailNeedsCredentials(t *testing.T) {
	app, mailer, _ := settingsApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/settings/test-email", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, mailer.messages)

	put(t, app, map[string]interface{}{"smtp_user": "me@example.com", "smtp_password": "hunter2"})
	resp, err = app.Test(httptest.NewRequest("POST", "/settings/test-email", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, mailer.messages, 1)
	assert.Equal(t, "me@example.com", mailer.messages[0].To)
	assert.True(t, mailer.settings[0].Enabled)
}

func TestTestEmailThroughAPITransportNeedsNoSMTPCredentials(t *testing.T) {
	app, mailer, _ := settingsApp(t)
	mailer.api = true

	resp, err := app.Test(httptest.NewRequest("POST", "/settings/test-email", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	put(t, app, map[string]interface{}{"smtp_from_email": "noreply@acme.test"})
	resp, err = app.Test(httptest.NewRequest("POST", "/settings/test-email", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, mailer.messages, 1)
	assert.Equal(t, "noreply@acme.test", mailer.messages[0].To)
}
