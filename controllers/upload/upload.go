package uploadController

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"diplomas/config"
	"diplomas/middleware"
	"diplomas/utils"
)

// UploadFile stores an image for use as a template background or image field
func UploadFile(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "File is required!", nil)
	}

	stored, err := utils.SaveUploadedFile(file, config.AppConfig.UploadsDir)
	if err != nil {
		if errors.Is(err, utils.ErrUnsupportedUpload) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Only PNG, JPEG, GIF, WEBP and SVG images are allowed!", nil)
		}
		log.WithError(err).Error("Error saving upload")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to upload file!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "File uploaded successfully.", stored)
}

func GetUpload(c *fiber.Ctx) error {
	path, err := utils.UploadPath(config.AppConfig.UploadsDir, c.Params("filename"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "File not found", nil)
	}
	if _, err := os.Stat(path); err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "File not found", nil)
	}
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.SendFile(path)
}
