package userController

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"diplomas/config"
	"diplomas/database"
	"diplomas/models"
	userValidator "diplomas/validators/user"
)

func seedUsers(t *testing.T) (*gorm.DB, models.Organization, []models.User) {
	t.Helper()
	config.AppConfig = config.Defaults()
	db, err := database.OpenMemory(strings.ReplaceAll(t.Name(), "/", "_"))
	require.NoError(t, err)

	org := models.Organization{Name: "Acme"}
	require.NoError(t, db.Create(&org).Error)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	users := []models.User{
		{Base: models.Base{CreatedAt: base}, OrganizationID: org.ID, Email: "first@example.com", PasswordHash: "x"},
		{Base: models.Base{CreatedAt: base.Add(time.Hour)}, OrganizationID: org.ID, Email: "second@example.com", PasswordHash: "x"},
		{Base: models.Base{CreatedAt: base.Add(2 * time.Hour)}, OrganizationID: org.ID, Email: "third@example.com", PasswordHash: "x"},
	}
	require.NoError(t, db.Create(&users).Error)
	return db, org, users
}

func asUser(orgID, userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("orgId", orgID)
		c.Locals("userId", userID)
		return c.Next()
	}
}

func TestBaseAdminIsEarliestUser(t *testing.T) {
	db, org, users := seedUsers(t)

	id, err := BaseAdminID(db, org.ID)
	require.NoError(t, err)
	assert.Equal(t, users[0].ID, id)
}

func TestDeleteUserProtections(t *testing.T) {
	_, org, users := seedUsers(t)

	app := fiber.New()
	app.Use(asUser(org.ID, users[1].ID))
	app.Delete("/users/:id", DeleteUser)

	cases := []struct {
		name   string
		target string
		status int
	}{
		{"self", users[1].ID, fiber.StatusBadRequest},
		{"base admin", users[0].ID, fiber.StatusForbidden},
		{"unknown", "missing", fiber.StatusNotFound},
		{"other user", users[2].ID, fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("DELETE", "/users/"+tc.target, nil))
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestOnlyBaseAdminEditsBaseAdmin(t *testing.T) {
	_, org, users := seedUsers(t)

	app := fiber.New()
	app.Put("/as/:caller/users/:id", func(c *fiber.Ctx) error {
		c.Locals("orgId", org.ID)
		c.Locals("userId", c.Params("caller"))
		c.Locals("validatedUser", new(userValidator.UpdateUserRequest))
		return c.Next()
	}, UpdateUser)

	resp, err := app.Test(httptest.NewRequest("PUT", "/as/"+users[1].ID+"/users/"+users[0].ID, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
