package templateRoutes

import (
	templateController "diplomas/controllers/template"
	"diplomas/middleware"
	templateValidator "diplomas/validators/template"

	"github.com/gofiber/fiber/v2"
)

func SetupTemplateRoutes(api fiber.Router) {
	templateGroup := api.Group("/templates", middleware.JWTMiddleware, middleware.LoadCurrentUser)

	templateGroup.Get("/", templateController.GetTemplates)
	templateGroup.Post("/", templateValidator.Template(), templateController.CreateTemplate)
	templateGroup.Get("/:id", templateController.GetTemplate)
	templateGroup.Put("/:id", templateValidator.Template(), templateController.UpdateTemplate)
	templateGroup.Delete("/:id", templateController.DeleteTemplate)
	templateGroup.Post("/:id/duplicate", templateController.DuplicateTemplate)
}
