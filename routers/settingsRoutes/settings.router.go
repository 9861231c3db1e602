package settingsRoutes

import (
	settingsController "diplomas/controllers/settings"
	"diplomas/middleware"
	settingsValidator "diplomas/validators/settings"

	"github.com/gofiber/fiber/v2"
)

func SetupSettingsRoutes(api fiber.Router, h *settingsController.Handler) {
	api.Get("/settings/public", h.GetPublicSettings)

	settingsGroup := api.Group("/settings", middleware.JWTMiddleware, middleware.LoadCurrentUser)
	settingsGroup.Get("/", h.GetSettings)
	settingsGroup.Put("/", settingsValidator.UpdateSettings(), h.UpdateSettings)
	settingsGroup.Post("/test-email", h.TestEmail)
}
