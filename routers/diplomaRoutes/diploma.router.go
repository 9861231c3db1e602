package diplomaRoutes

import (
	diplomaController "diplomas/controllers/diploma"
	"diplomas/middleware"
	diplomaValidator "diplomas/validators/diploma"

	"github.com/gofiber/fiber/v2"
)

// SetupDiplomaRoutes registers the issuing endpoints and the public verification surface.
// publicLimit guards every unauthenticated route.
func SetupDiplomaRoutes(api fiber.Router, h *diplomaController.Handler, publicLimit fiber.Handler) {
	// public
	api.Get("/verify/:certificate_id", publicLimit, h.Verify)
	api.Get("/diplomas/by-certificate/:certificate_id/download-pdf", publicLimit, h.DownloadPDFByCertificate)
	api.Get("/diplomas/:id/data", publicLimit, h.Data)

	auth := []fiber.Handler{middleware.JWTMiddleware, middleware.LoadCurrentUser}
	with := func(handlers ...fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, auth...), handlers...)
	}

	diplomaGroup := api.Group("/diplomas")
	diplomaGroup.Post("/generate", with(diplomaValidator.Generate(), h.Generate)...)
	diplomaGroup.Post("/send-bulk-email", with(diplomaValidator.BulkEmail(), h.SendBulkEmail)...)
	diplomaGroup.Get("/", with(diplomaValidator.List(), h.List)...)
	diplomaGroup.Get("/:id", with(h.Get)...)
	diplomaGroup.Delete("/:id", with(h.Delete)...)
	diplomaGroup.Post("/:id/revoke", with(h.Revoke)...)
	diplomaGroup.Post("/:id/reactivate", with(h.Reactivate)...)
	diplomaGroup.Post("/:id/send-email", with(h.SendEmail)...)
	diplomaGroup.Get("/:id/download-pdf", with(h.DownloadPDF)...)
	diplomaGroup.Get("/:id/download-png", with(h.DownloadPNG)...)
}
