package templateController

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"diplomas/database"
	"diplomas/middleware"
	"diplomas/models/diploma"
	"diplomas/render"
	"diplomas/validators"
	templateValidator "diplomas/validators/template"
)

func GetTemplates(c *fiber.Ctx) error {
	var templates []diploma.Template
	if err := database.Database.Db.Where("organization_id = ?", middleware.OrgID(c)).Order("created_at DESC").Limit(1000).Find(&templates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch templates!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Templates fetched successfully.", templates)
}

func CreateTemplate(c *fiber.Ctx) error {
	reqData := validators.Validated[templateValidator.TemplateRequest](c, "validatedTemplate")

	tpl := diploma.Template{
		OrganizationID:     middleware.OrgID(c),
		Name:               reqData.Name,
		BackgroundImageURL: reqData.BackgroundImageURL,
		Fields:             reqData.Fields,
		ThumbnailURL:       reqData.ThumbnailURL,
		CanvasWidth:        reqData.CanvasWidth,
		CanvasHeight:       reqData.CanvasHeight,
	}
	if err := database.Database.Db.Create(&tpl).Error; err != nil {
		log.WithError(err).Error("Error creating template")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create template!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Template created successfully.", tpl)
}

func findTemplate(c *fiber.Ctx) (*diploma.Template, error) {
	var tpl diploma.Template
	err := database.Database.Db.Where("id = ? AND organization_id = ?", c.Params("id"), middleware.OrgID(c)).First(&tpl).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func notFoundOr500(c *fiber.Ctx, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Template not found", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch template!", nil)
}

func GetTemplate(c *fiber.Ctx) error {
	tpl, err := findTemplate(c)
	if err != nil {
		return notFoundOr500(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Template fetched successfully.", tpl)
}

func UpdateTemplate(c *fiber.Ctx) error {
	reqData := validators.Validated[templateValidator.TemplateRequest](c, "validatedTemplate")

	tpl, err := findTemplate(c)
	if err != nil {
		return notFoundOr500(c, err)
	}

	tpl.Name = reqData.Name
	tpl.BackgroundImageURL = reqData.BackgroundImageURL
	tpl.Fields = reqData.Fields
	tpl.ThumbnailURL = reqData.ThumbnailURL
	tpl.CanvasWidth = reqData.CanvasWidth
	tpl.CanvasHeight = reqData.CanvasHeight
	if err := database.Database.Db.Save(tpl).Error; err != nil {
		log.WithError(err).Error("Error updating template")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update template!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Template updated successfully.", tpl)
}

func DeleteTemplate(c *fiber.Ctx) error {
	result := database.Database.Db.Where("id = ? AND organization_id = ?", c.Params("id"), middleware.OrgID(c)).Delete(&diploma.Template{})
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete template!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Template not found", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Template deleted", nil)
}

// DuplicateTemplate copies a template under the name "<name> (Copy)"
func DuplicateTemplate(c *fiber.Ctx) error {
	original, err := findTemplate(c)
	if err != nil {
		return notFoundOr500(c, err)
	}

	fields := append(make([]render.Field, 0, len(original.Fields)), original.Fields...)

	dup := diploma.Template{
		OrganizationID:     original.OrganizationID,
		Name:               original.Name + " (Copy)",
		BackgroundImageURL: original.BackgroundImageURL,
		Fields:             fields,
		ThumbnailURL:       original.ThumbnailURL,
		CanvasWidth:        original.CanvasWidth,
		CanvasHeight:       original.CanvasHeight,
	}
	if err := database.Database.Db.Create(&dup).Error; err != nil {
		log.WithError(err).Error("Error duplicating template")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to duplicate template!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Template duplicated successfully.", dup)
}
