package middleware

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"diplomas/database"
	"diplomas/models"
)

// LoadCurrentUser rejects tokens whose user no longer exists and stores the user under "user"
func LoadCurrentUser(c *fiber.Ctx) error {
	userID := UserID(c)
	if userID == "" {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
	}

	var user models.User
	err := database.Database.Db.Where("id = ? AND organization_id = ?", userID, OrgID(c)).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "User not found", nil)
		}
		return JsonResponse(c, fiber.StatusInternalServerError, false, "Server error while loading user!", nil)
	}

	c.Locals("user", &user)
	return c.Next()
}

// CurrentUser returns the user loaded by LoadCurrentUser
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}
