package settingsController

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"diplomas/config"
	"diplomas/database"
	"diplomas/middleware"
	"diplomas/models"
	"diplomas/utils"
	"diplomas/validators"
	settingsValidator "diplomas/validators/settings"
)

const (
	defaultSiteDescription = "Sistema de Gestión de Diplomas Digitales"
	maskedPassword         = "********"
)

type Handler struct {
	Mailer utils.Mailer
}

// PublicSettings is the branding shown on the login page
type PublicSettings struct {
	LoginLogoURL    string `json:"login_logo_url"`
	SidebarLogoURL  string `json:"sidebar_logo_url"`
	FaviconURL      string `json:"favicon_url"`
	SiteTitle       string `json:"site_title"`
	SiteDescription string `json:"site_description"`
}

func withDefaults(s models.Settings) models.Settings {
	if s.SiteTitle == "" {
		s.SiteTitle = config.AppConfig.DefaultOrganizationName
	}
	if s.SiteDescription == "" {
		s.SiteDescription = defaultSiteDescription
	}
	return s
}

// LoadSettings returns the stored settings of the organization or the defaults
func LoadSettings(db *gorm.DB, orgID string) (models.Settings, error) {
	s := models.DefaultSettings(orgID)
	err := db.Where("organization_id = ?", orgID).First(&s).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return s, err
	}
	return s, nil
}

func (h *Handler) GetSettings(c *fiber.Ctx) error {
	s, err := LoadSettings(database.Database.Db, middleware.OrgID(c))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch settings!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Settings fetched successfully.", withDefaults(s).Masked())
}

// UpdateSettings applies the non-null fields of the request, creating the row on first save
func (h *Handler) UpdateSettings(c *fiber.Ctx) error {
	reqData := validators.Validated[settingsValidator.SettingsRequest](c, "validatedSettings")
	db := database.Database.Db
	orgID := middleware.OrgID(c)

	s, err := LoadSettings(db, orgID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch settings!", nil)
	}

	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&s.LoginLogoURL, reqData.LoginLogoURL)
	set(&s.SidebarLogoURL, reqData.SidebarLogoURL)
	set(&s.FaviconURL, reqData.FaviconURL)
	set(&s.SiteTitle, reqData.SiteTitle)
	set(&s.SiteDescription, reqData.SiteDescription)
	set(&s.SMTPHost, reqData.SMTPHost)
	set(&s.SMTPPort, reqData.SMTPPort)
	set(&s.SMTPUser, reqData.SMTPUser)
	set(&s.SMTPFromName, reqData.SMTPFromName)
	set(&s.SMTPFromEmail, reqData.SMTPFromEmail)
	if reqData.SMTPPassword != nil && *reqData.SMTPPassword != maskedPassword {
		s.SMTPPassword = *reqData.SMTPPassword
	}
	if reqData.EmailEnabled != nil {
		s.EmailEnabled = *reqData.EmailEnabled
	}

	if s.ID == "" {
		err = db.Create(&s).Error
	} else {
		err = db.Save(&s).Error
	}
	if err != nil {
		log.WithError(err).Error("Error saving settings")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update settings!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Settings updated", withDefaults(s).Masked())
}

// TestEmail sends a test message to the configured SMTP user or sender address
func (h *Handler) TestEmail(c *fiber.Ctx) error {
	s, err := LoadSettings(database.Database.Db, middleware.OrgID(c))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch settings!", nil)
	}

	ms := s.MailSettings()
	ms.Enabled = true
	if err := h.Mailer.Validate(ms); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Configuración SMTP incompleta", nil)
	}

	title := withDefaults(s).SiteTitle
	msg := utils.Message{
		To:      ms.Address(),
		Subject: "Prueba de conexión SMTP - " + title,
		HTML: utils.WrapEmailHTML(title, "¡Conexión SMTP exitosa!",
			"<p>Este es un correo de prueba.</p><p>Tu configuración de correo electrónico está funcionando correctamente.</p>"),
	}
	if err := h.Mailer.Send(c.UserContext(), ms, msg); err != nil {
		log.WithError(err).Error("[MAILER] SMTP test failed")
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Error al enviar: "+err.Error(), nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Email de prueba enviado correctamente", nil)
}

// GetPublicSettings serves the branding of the first organization that saved settings
func (h *Handler) GetPublicSettings(c *fiber.Ctx) error {
	var s models.Settings
	err := database.Database.Db.Order("created_at ASC").First(&s).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch settings!", nil)
	}
	s = withDefaults(s)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Settings fetched successfully.", PublicSettings{
		LoginLogoURL:    s.LoginLogoURL,
		SidebarLogoURL:  s.SidebarLogoURL,
		FaviconURL:      s.FaviconURL,
		SiteTitle:       s.SiteTitle,
		SiteDescription: s.SiteDescription,
	})
}
