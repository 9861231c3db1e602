package authController

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
	authValidator "diplomas/validators/auth"
)

// UserResponse is the public shape of a user
type UserResponse struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	OrganizationID string `json:"organization_id"`
	Role           string `json:"role"`
}

type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

func toResponse(u *models.User) UserResponse {
	role := u.Role
	if role == "" {
		role = models.RoleAdmin
	}
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name, OrganizationID: u.OrganizationID, Role: role}
}

func issueToken(c *fiber.Ctx, status int, message string, u *models.User) error {
	token, err := middleware.GenerateJWT(u.ID, u.OrganizationID)
	if err != nil {
		log.WithError(err).Error("Error generating JWT")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}
	return middleware.JsonResponse(c, status, true, message, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        toResponse(u),
	})
}

// Register creates an organization and its first admin
func Register(c *fiber.Ctx) error {
	reqData := validators.Validated[authValidator.RegisterRequest](c, "validatedUser")
	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Email already registered", nil)
	}

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	orgName := reqData.OrganizationName
	if orgName == "" {
		orgName = config.AppConfig.DefaultOrganizationName
	}

	var user models.User
	err = db.Transaction(func(tx *gorm.DB) error {
		org := models.Organization{Name: orgName}
		if err := tx.Create(&org).Error; err != nil {
			return err
		}
		user = models.User{
			OrganizationID: org.ID,
			Email:          reqData.Email,
			PasswordHash:   string(hashedPassword),
			Name:           reqData.Name,
			Role:           models.RoleAdmin,
		}
		return tx.Create(&user).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Email already registered", nil)
	}
	if err != nil {
		log.WithError(err).Error("Error saving user to database")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user!", nil)
	}

	log.WithFields(log.Fields{"user_id": user.ID, "organization_id": user.OrganizationID}).Info("organization registered")
	return issueToken(c, fiber.StatusOK, "User registered successfully.", &user)
}

func Login(c *fiber.Ctx) error {
	reqData := validators.Validated[authValidator.LoginRequest](c, "validatedLogin")

	var user models.User
	if err := database.Database.Db.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.WithError(err).Error("Database error during login")
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Server error!", nil)
		}
		log.WithField("email", reqData.Email).Warn("login for unknown email")
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(reqData.Password)); err != nil {
		log.WithField("email", reqData.Email).Warn("login with wrong password")
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials", nil)
	}

	return issueToken(c, fiber.StatusOK, "Login successful.", &user)
}

func Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully.", toResponse(user))
}

// CheckFirstUser tells the login page whether registration should be offered
func CheckFirstUser(c *fiber.Ctx) error {
	var count int64
	if err := database.Database.Db.Model(&models.User{}).Count(&count).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Server error!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", fiber.Map{"has_users": count > 0})
}
