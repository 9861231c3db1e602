package emailTemplateController

import (
	"time"

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
	emailTemplateValidator "diplomas/validators/emailTemplate"
)

var ErrOnlyDefault = errors.New("the only default template cannot be deleted")

// EnsureDefault creates the built-in template when the organization has none
func EnsureDefault(db *gorm.DB, orgID string) error {
	var count int64
	if err := db.Model(&models.EmailTemplate{}).Where("organization_id = ?", orgID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Create(&models.EmailTemplate{
		OrganizationID: orgID,
		Name:           utils.DefaultEmailTemplateName,
		Subject:        utils.DefaultEmailSubject,
		HTMLContent:    utils.DefaultEmailHTML,
		IsDefault:      true,
	}).Error
}

// clearDefault unsets the default flag on every template of the organization except keepID
func clearDefault(tx *gorm.DB, orgID, keepID string) error {
	q := tx.Model(&models.EmailTemplate{}).Where("organization_id = ? AND is_default = ?", orgID, true)
	if keepID != "" {
		q = q.Where("id <> ?", keepID)
	}
	return q.Update("is_default", false).Error
}

// DeleteTemplate removes a template. Deleting the default hands the flag to the oldest remaining one.
func DeleteTemplate(db *gorm.DB, orgID, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var tpl models.EmailTemplate
		if err := tx.Where("id = ? AND organization_id = ?", id, orgID).First(&tpl).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.EmailTemplate{}).Where("organization_id = ?", orgID).Count(&count).Error; err != nil {
			return err
		}
		if tpl.IsDefault && count <= 1 {
			return ErrOnlyDefault
		}

		if err := tx.Delete(&tpl).Error; err != nil {
			return err
		}
		if !tpl.IsDefault {
			return nil
		}

		var next models.EmailTemplate
		if err := tx.Where("organization_id = ?", orgID).Order("created_at ASC").First(&next).Error; err != nil {
			return err
		}
		return tx.Model(&next).Update("is_default", true).Error
	})
}

func GetEmailTemplates(c *fiber.Ctx) error {
	db := database.Database.Db
	orgID := middleware.OrgID(c)

	if err := EnsureDefault(db, orgID); err != nil {
		log.WithError(err).Error("could not create default email template")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch email templates!", nil)
	}

	var templates []models.EmailTemplate
	if err := db.Where("organization_id = ?", orgID).Order("created_at ASC").Limit(100).Find(&templates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch email templates!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Email templates fetched successfully.", templates)
}

func findTemplate(c *fiber.Ctx) (*models.EmailTemplate, error) {
	var tpl models.EmailTemplate
	if err := database.Database.Db.Where("id = ? AND organization_id = ?", c.Params("id"), middleware.OrgID(c)).First(&tpl).Error; err != nil {
		return nil, err
	}
	return &tpl, nil
}

func GetEmailTemplate(c *fiber.Ctx) error {
	tpl, err := findTemplate(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Template not found", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Email template fetched successfully.", tpl)
}

func CreateEmailTemplate(c *fiber.Ctx) error {
	reqData := validators.Validated[emailTemplateValidator.CreateRequest](c, "validatedEmailTemplate")
	orgID := middleware.OrgID(c)

	tpl := models.EmailTemplate{
		OrganizationID: orgID,
		Name:           reqData.Name,
		Subject:        reqData.Subject,
		HTMLContent:    reqData.HTMLContent,
		IsDefault:      reqData.IsDefault,
	}
	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if tpl.IsDefault {
			if err := clearDefault(tx, orgID, ""); err != nil {
				return err
			}
		}
		return tx.Create(&tpl).Error
	})
	if err != nil {
		log.WithError(err).Error("Error creating email template")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create email template!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Email template created successfully.", tpl)
}

func UpdateEmailTemplate(c *fiber.Ctx) error {
	reqData := validators.Validated[emailTemplateValidator.UpdateRequest](c, "validatedEmailTemplate")

	tpl, err := findTemplate(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Template not found", nil)
	}

	if reqData.Name != nil {
		tpl.Name = *reqData.Name
	}
	if reqData.Subject != nil {
		tpl.Subject = *reqData.Subject
	}
	if reqData.HTMLContent != nil {
		tpl.HTMLContent = *reqData.HTMLContent
	}
	if reqData.IsDefault != nil {
		tpl.IsDefault = *reqData.IsDefault
	}
	tpl.UpdatedAt = time.Now().UTC()

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if tpl.IsDefault {
			if err := clearDefault(tx, tpl.OrganizationID, tpl.ID); err != nil {
				return err
			}
		}
		return tx.Save(tpl).Error
	})
	if err != nil {
		log.WithError(err).Error("Error updating email template")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update email template!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Email template updated successfully.", tpl)
}

func DeleteEmailTemplate(c *fiber.Ctx) error {
	err := DeleteTemplate(database.Database.Db, middleware.OrgID(c), c.Params("id"))
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Template not found", nil)
	case errors.Is(err, ErrOnlyDefault):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No puedes eliminar la única plantilla por defecto", nil)
	case err != nil:
		log.WithError(err).Error("Error deleting email template")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete email template!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Template deleted", nil)
}

func DuplicateEmailTemplate(c *fiber.Ctx) error {
	original, err := findTemplate(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Template not found", nil)
	}

	dup := models.EmailTemplate{
		OrganizationID: original.OrganizationID,
		Name:           original.Name + " (copia)",
		Subject:        original.Subject,
		HTMLContent:    original.HTMLContent,
	}
	if err := database.Database.Db.Create(&dup).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to duplicate email template!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Email template duplicated successfully.", dup)
}

// PreviewEmailTemplate fills the template with sample data
func PreviewEmailTemplate(c *fiber.Ctx) error {
	reqData := validators.Validated[emailTemplateValidator.PreviewRequest](c, "validatedPreview")

	vars := make(map[string]string, len(utils.SampleEmailVariables))
	for k, v := range utils.SampleEmailVariables {
		vars[k] = v
	}
	vars["issue_date"] = utils.FormatDiplomaDate(time.Now(), config.AppConfig.DiplomaLocale)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Preview generated.", fiber.Map{
		"preview_html":    utils.SubstituteVariables(reqData.HTMLContent, vars),
		"preview_subject": utils.SubstituteVariables(reqData.Subject, vars),
	})
}
