package dashboardRoutes

import (
	dashboardController "diplomas/controllers/dashboard"
	"diplomas/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupDashboardRoutes(api fiber.Router) {
	api.Get("/dashboard", middleware.JWTMiddleware, middleware.LoadCurrentUser, dashboardController.GetDashboard)

	scanGroup := api.Group("/scan-logs", middleware.JWTMiddleware, middleware.LoadCurrentUser)
	scanGroup.Get("/", dashboardController.GetScanLogs)
	scanGroup.Delete("/clear", dashboardController.ClearScanLogs)
}
