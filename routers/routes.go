package routers

import (
	diplomaController "diplomas/controllers/diploma"
	settingsController "diplomas/controllers/settings"
	"diplomas/middleware"
	authRoutes "diplomas/routers/authRoutes"
	courseRoutes "diplomas/routers/courseRoutes"
	dashboardRoutes "diplomas/routers/dashboardRoutes"
	diplomaRoutes "diplomas/routers/diplomaRoutes"
	emailTemplateRoutes "diplomas/routers/emailTemplateRoutes"
	healthRoutes "diplomas/routers/healthRoutes"
	settingsRoutes "diplomas/routers/settingsRoutes"
	templateRoutes "diplomas/routers/templateRoutes"
	uploadRoutes "diplomas/routers/uploadRoutes"
	userRoutes "diplomas/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
)

// Handlers carries the controllers that need injected collaborators
type Handlers struct {
	Diplomas *diplomaController.Handler
	Settings *settingsController.Handler
}

// SetupRoutes mounts every endpoint under /api
func SetupRoutes(app *fiber.App, h Handlers, publicRateLimit int) {
	api := app.Group("/api")

	healthRoutes.SetupHealthRoutes(api)
	authRoutes.SetupAuthRoutes(api)
	settingsRoutes.SetupSettingsRoutes(api, h.Settings)
	diplomaRoutes.SetupDiplomaRoutes(api, h.Diplomas, middleware.RateLimit(publicRateLimit))
	courseRoutes.SetupCourseRoutes(api, h.Diplomas)
	courseRoutes.SetupRecipientRoutes(api)
	templateRoutes.SetupTemplateRoutes(api)
	dashboardRoutes.SetupDashboardRoutes(api)
	uploadRoutes.SetupUploadRoutes(api)
	userRoutes.SetupUserRoutes(api)
	emailTemplateRoutes.SetupEmailTemplateRoutes(api)
}
