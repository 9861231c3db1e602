package courseRoutes

import (
	courseController "diplomas/controllers/course"
	diplomaController "diplomas/controllers/diploma"
	"diplomas/middleware"
	courseValidator "diplomas/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes registers course CRUD and the per-course diploma archive
func SetupCourseRoutes(api fiber.Router, diplomas *diplomaController.Handler) {
	courseGroup := api.Group("/courses", middleware.JWTMiddleware, middleware.LoadCurrentUser)

	courseGroup.Get("/", courseController.GetCourses)
	courseGroup.Post("/", courseValidator.Course(), courseController.CreateCourse)
	courseGroup.Get("/:id", courseController.GetCourse)
	courseGroup.Put("/:id", courseValidator.Course(), courseController.UpdateCourse)
	courseGroup.Delete("/:id", courseController.DeleteCourse)
	courseGroup.Get("/:id/download-all-diplomas", diplomas.DownloadCourseArchive)
}
