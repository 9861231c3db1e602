package settingsValidator

import (
	"github.com/gofiber/fiber/v2"

	"diplomas/validators"
)

// SettingsRequest is a partial update; nil fields keep their stored value
type SettingsRequest struct {
	LoginLogoURL    *string `json:"login_logo_url"`
	SidebarLogoURL  *string `json:"sidebar_logo_url"`
	FaviconURL      *string `json:"favicon_url"`
	SiteTitle       *string `json:"site_title"`
	SiteDescription *string `json:"site_description"`

	EmailEnabled  *bool   `json:"email_enabled"`
	SMTPHost      *string `json:"smtp_host"`
	SMTPPort      *string `json:"smtp_port" validate:"omitempty,numeric"`
	SMTPUser      *string `json:"smtp_user"`
	SMTPPassword  *string `json:"smtp_password"`
	SMTPFromName  *string `json:"smtp_from_name"`
	SMTPFromEmail *string `json:"smtp_from_email" validate:"omitempty,email"`
}

func UpdateSettings() fiber.Handler {
	return validators.Body[SettingsRequest]("validatedSettings")
}
