package models

import (
	"strconv"

	"diplomas/utils"
)

// Settings holds per-organization branding and email delivery configuration
type Settings struct {
	Base
	OrganizationID string `json:"organization_id" gorm:"size:36;uniqueIndex;not null"`

	LoginLogoURL    string `json:"login_logo_url"`
	SidebarLogoURL  string `json:"sidebar_logo_url"`
	FaviconURL      string `json:"favicon_url"`
	SiteTitle       string `json:"site_title"`
	SiteDescription string `json:"site_description"`

	EmailEnabled  bool   `json:"email_enabled" gorm:"default:false"`
	SMTPHost      string `json:"smtp_host" gorm:"default:'smtp.gmail.com'"`
	SMTPPort      string `json:"smtp_port" gorm:"default:'587'"`
	SMTPUser      string `json:"smtp_user"`
	SMTPPassword  string `json:"smtp_password"`
	SMTPFromName  string `json:"smtp_from_name"`
	SMTPFromEmail string `json:"smtp_from_email"`
}

// DefaultSettings is what an organization sees before saving anything
func DefaultSettings(organizationID string) Settings {
	return Settings{
		OrganizationID: organizationID,
		SMTPHost:       "smtp.gmail.com",
		SMTPPort:       "587",
	}
}

// MailSettings converts the stored SMTP fields for the mail transport
func (s Settings) MailSettings() utils.MailSettings {
	port := 587
	if p, err := strconv.Atoi(s.SMTPPort); err == nil && p > 0 {
		port = p
	}
	return utils.MailSettings{
		Enabled:   s.EmailEnabled,
		Host:      s.SMTPHost,
		Port:      port,
		User:      s.SMTPUser,
		Password:  s.SMTPPassword,
		FromName:  s.SMTPFromName,
		FromEmail: s.SMTPFromEmail,
	}
}

// Masked hides the SMTP password in responses
func (s Settings) Masked() Settings {
	if s.SMTPPassword != "" {
		s.SMTPPassword = "********"
	}
	return s
}
