package courseRoutes

import (
	courseController "diplomas/controllers/course"
	"diplomas/middleware"
	recipientValidator "diplomas/validators/recipient"

	"github.com/gofiber/fiber/v2"
)

func SetupRecipientRoutes(api fiber.Router) {
	recipientGroup := api.Group("/recipients", middleware.JWTMiddleware, middleware.LoadCurrentUser)

	recipientGroup.Get("/csv-template", courseController.CSVTemplate)
	recipientGroup.Get("/", recipientValidator.ListRecipients(), courseController.GetRecipients)
	recipientGroup.Post("/", recipientValidator.CreateRecipient(), courseController.CreateRecipient)
	recipientGroup.Post("/bulk", recipientValidator.BulkImport(), courseController.BulkImportRecipients)
	recipientGroup.Delete("/:id", courseController.DeleteRecipient)
}
