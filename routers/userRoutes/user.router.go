package userRoutes

import (
	userController "diplomas/controllers/userControllers"
	"diplomas/middleware"
	userValidator "diplomas/validators/user"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(api fiber.Router) {
	userGroup := api.Group("/users", middleware.JWTMiddleware, middleware.LoadCurrentUser)

	userGroup.Get("/", userController.GetUsers)
	userGroup.Post("/", userValidator.CreateUser(), userController.CreateUser)
	userGroup.Put("/:id", userValidator.UpdateUser(), userController.UpdateUser)
	userGroup.Delete("/:id", userController.DeleteUser)
}
