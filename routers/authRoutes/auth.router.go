package authRoutes

import (
	authController "diplomas/controllers/auth"
	"diplomas/middleware"
	authValidator "diplomas/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(api fiber.Router) {
	authGroup := api.Group("/auth")

	authGroup.Post("/register", authValidator.Register(), authController.Register)
	authGroup.Post("/login", authValidator.Login(), authController.Login)
	authGroup.Get("/me", middleware.JWTMiddleware, middleware.LoadCurrentUser, authController.Me)

	api.Get("/check-first-user", authController.CheckFirstUser)
}
