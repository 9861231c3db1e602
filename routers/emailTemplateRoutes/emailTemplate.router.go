package emailTemplateRoutes

import (
	emailTemplateController "diplomas/controllers/emailTemplate"
	"diplomas/middleware"
	emailTemplateValidator "diplomas/validators/emailTemplate"

	"github.com/gofiber/fiber/v2"
)

func SetupEmailTemplateRoutes(api fiber.Router) {
	group := api.Group("/email-templates", middleware.JWTMiddleware, middleware.LoadCurrentUser)

	group.Post("/preview", emailTemplateValidator.Preview(), emailTemplateController.PreviewEmailTemplate)
	group.Get("/", emailTemplateController.GetEmailTemplates)
	group.Post("/", emailTemplateValidator.Create(), emailTemplateController.CreateEmailTemplate)
	group.Get("/:id", emailTemplateController.GetEmailTemplate)
	group.Put("/:id", emailTemplateValidator.Update(), emailTemplateController.UpdateEmailTemplate)
	group.Delete("/:id", emailTemplateController.DeleteEmailTemplate)
	group.Post("/:id/duplicate", emailTemplateController.DuplicateEmailTemplate)
}
