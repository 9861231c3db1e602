package uploadRoutes

import (
	uploadController "diplomas/controllers/upload"
	"diplomas/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupUploadRoutes(api fiber.Router) {
	api.Post("/upload", middleware.JWTMiddleware, middleware.LoadCurrentUser, uploadController.UploadFile)
	// served without auth so the renderer and the verification page can load images
	api.Get("/uploads/:filename", uploadController.GetUpload)
}
