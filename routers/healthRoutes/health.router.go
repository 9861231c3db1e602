package healthRoutes

import (
	healthController "diplomas/controllers/health"

	"github.com/gofiber/fiber/v2"
)

func SetupHealthRoutes(api fiber.Router) {
	api.Get("/", healthController.Root)
	api.Get("/health", healthController.Health)
}
