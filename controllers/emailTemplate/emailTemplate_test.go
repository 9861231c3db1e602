package emailTemplateController

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"diplomas/config"
	"diplomas/database"
	"diplomas/models"
	"diplomas/utils"
	emailTemplateValidator "diplomas/validators/emailTemplate"
)

func setup(t *testing.T) (*gorm.DB, string) {
	t.Helper()
	config.AppConfig = config.Defaults()
	db, err := database.OpenMemory(strings.ReplaceAll(t.Name(), "/", "_"))
	require.NoError(t, err)
	org := models.Organization{Name: "Acme"}
	require.NoError(t, db.Create(&org).Error)
	return db, org.ID
}

func defaults(t *testing.T, db *gorm.DB, orgID string) []models.EmailTemplate {
	t.Helper()
	var list []models.EmailTemplate
	require.NoError(t, db.Where("organization_id = ? AND is_default = ?", orgID, true).Find(&list).Error)
	return list
}

func TestEnsureDefaultCreatesOnce(t *testing.T) {
	db, orgID := setup(t)

	require.NoError(t, EnsureDefault(db, orgID))
	require.NoError(t, EnsureDefault(db, orgID))

	list := defaults(t, db, orgID)
	require.Len(t, list, 1)
	assert.Equal(t, utils.DefaultEmailTemplateName, list[0].Name)
	assert.Equal(t, utils.DefaultEmailSubject, list[0].Subject)
}

func TestDeleteTemplateKeepsOneDefault(t *testing.T) {
	db, orgID := setup(t)
	require.NoError(t, EnsureDefault(db, orgID))
	only := defaults(t, db, orgID)[0]

	err := DeleteTemplate(db, orgID, only.ID)
	assert.ErrorIs(t, err, ErrOnlyDefault)

	extra := models.EmailTemplate{OrganizationID: orgID, Name: "Second", Subject: "s", HTMLContent: "h"}
	require.NoError(t, db.Create(&extra).Error)

	require.NoError(t, DeleteTemplate(db, orgID, only.ID))
	list := defaults(t, db, orgID)
	require.Len(t, list, 1)
	assert.Equal(t, extra.ID, list[0].ID)

	assert.ErrorIs(t, DeleteTemplate(db, orgID, "missing"), gorm.ErrRecordNotFound)
}

func TestCreateDefaultUnsetsPrevious(t *testing.T) {
	db, orgID := setup(t)
	require.NoError(t, EnsureDefault(db, orgID))

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("orgId", orgID)
		return c.Next()
	})
	app.Post("/email-templates", emailTemplateValidator.Create(), CreateEmailTemplate)

	payload, _ := json.Marshal(map[string]interface{}{
		"name":         "Nueva",
		"subject":      "Hola {{recipient_name}}",
		"html_content": "<p>{{course_name}}</p>",
		"is_default":   true,
	})
	req := httptest.NewRequest("POST", "/email-templates", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	list := defaults(t, db, orgID)
	require.Len(t, list, 1)
	assert.Equal(t, "Nueva", list[0].Name)
}

func TestPreviewSubstitutesSampleData(t *testing.T) {
	config.AppConfig = config.Defaults()

	app := fiber.New()
	app.Post("/preview", emailTemplateValidator.Preview(), PreviewEmailTemplate)

	payload, _ := json.Marshal(map[string]string{
		"html_content": "<h1>{{recipient_name}}</h1><p>{{unknown}}</p>",
		"subject":      "{{course_name}}",
	})
	req := httptest.NewRequest("POST", "/preview", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			PreviewHTML    string `json:"preview_html"`
			PreviewSubject string `json:"preview_subject"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "<h1>Juan Pérez</h1><p>{{unknown}}</p>", body.Data.PreviewHTML)
	assert.Equal(t, "Curso de Ejemplo", body.Data.PreviewSubject)
}
