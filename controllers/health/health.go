package healthController

import (
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"diplomas/database"
	"diplomas/middleware"
	"diplomas/models"
)

const APIVersion = "1.0.1"

func Root(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Diploma API", fiber.Map{
		"message": "Diploma Management API",
		"version": APIVersion,
	})
}

// Health reports database reachability. It answers 200 even when the database is down.
func Health(c *fiber.Ctx) error {
	result := fiber.Map{
		"status":      "healthy",
		"database":    "connected",
		"users_in_db": int64(0),
		"api_version": APIVersion,
	}

	db := database.Database.Db
	sqlDB, err := db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.UserContext())
	}
	if err != nil {
		log.WithError(err).Warn("health check: database unreachable")
		result["status"] = "unhealthy"
		result["database"] = "error: " + err.Error()
		return middleware.JsonResponse(c, fiber.StatusOK, false, "Database unreachable", result)
	}

	var users int64
	if err := db.Model(&models.User{}).Count(&users).Error; err == nil {
		result["users_in_db"] = users
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", result)
}
