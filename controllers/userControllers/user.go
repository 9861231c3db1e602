package userController

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"diplomas/config"
	"diplomas/database"
	"diplomas/middleware"
	"diplomas/models"
	"diplomas/validators"
	userValidator "diplomas/validators/user"
)

type UserListItem struct {
	models.User
	IsBaseAdmin bool `json:"is_base_admin"`
}

// BaseAdminID is the id of the earliest created user of the organization
func BaseAdminID(db *gorm.DB, orgID string) (string, error) {
	var first models.User
	err := db.Select("id").Where("organization_id = ?", orgID).Order("created_at ASC").Order("id ASC").First(&first).Error
	if err != nil {
		return "", err
	}
	return first.ID, nil
}

func GetUsers(c *fiber.Ctx) error {
	db := database.Database.Db
	orgID := middleware.OrgID(c)

	var users []models.User
	if err := db.Where("organization_id = ?", orgID).Order("created_at ASC").Limit(100).Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	baseID, _ := BaseAdminID(db, orgID)
	list := make([]UserListItem, len(users))
	for i, u := range users {
		list[i] = UserListItem{User: u, IsBaseAdmin: u.ID == baseID}
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully.", list)
}

func CreateUser(c *fiber.Ctx) error {
	reqData := validators.Validated[userValidator.CreateUserRequest](c, "validatedUser")
	db := database.Database.Db

	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Email already registered", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	user := models.User{
		OrganizationID: middleware.OrgID(c),
		Email:          reqData.Email,
		PasswordHash:   string(hash),
		Name:           reqData.Name,
		Role:           models.RoleAdmin,
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Email already registered", nil)
		}
		log.WithError(err).Error("Error creating user")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create user!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User created successfully.", user)
}

// UpdateUser edits a user of the organization; only the base admin may edit the base admin
func UpdateUser(c *fiber.Ctx) error {
	reqData := validators.Validated[userValidator.UpdateUserRequest](c, "validatedUser")
	db := database.Database.Db
	orgID := middleware.OrgID(c)

	var target models.User
	if err := db.Where("id = ? AND organization_id = ?", c.Params("id"), orgID).First(&target).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found", nil)
	}

	if baseID, err := BaseAdminID(db, orgID); err == nil && target.ID == baseID && middleware.UserID(c) != baseID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Cannot modify base admin", nil)
	}

	updates := map[string]interface{}{}
	if reqData.Email != nil {
		if err := db.Where("email = ? AND id <> ?", *reqData.Email, target.ID).First(&models.User{}).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Email already in use", nil)
		}
		updates["email"] = *reqData.Email
	}
	if reqData.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*reqData.Password), config.AppConfig.SaltRound)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
		}
		updates["password_hash"] = string(hash)
	}
	if reqData.Name != nil {
		updates["name"] = *reqData.Name
	}

	if len(updates) > 0 {
		if err := db.Model(&target).Updates(updates).Error; err != nil {
			log.WithError(err).Error("Error updating user")
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
		}
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User updated", nil)
}

// DeleteUser removes a user; neither the caller nor the base admin can be removed
func DeleteUser(c *fiber.Ctx) error {
	db := database.Database.Db
	orgID := middleware.OrgID(c)
	id := c.Params("id")

	if id == middleware.UserID(c) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Cannot delete yourself", nil)
	}

	var target models.User
	if err := db.Where("id = ? AND organization_id = ?", id, orgID).First(&target).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found", nil)
	}
	if baseID, err := BaseAdminID(db, orgID); err == nil && target.ID == baseID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Cannot delete base admin", nil)
	}

	if err := db.Delete(&target).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted", nil)
}
