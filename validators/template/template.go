package templateValidator

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"diplomas/middleware"
	"diplomas/qr"
	"diplomas/render"
	"diplomas/validators"
)

type TemplateRequest struct {
	Name               string         `json:"name" validate:"required"`
	BackgroundImageURL string         `json:"background_image_url"`
	Fields             []render.Field `json:"fields_config"`
	ThumbnailURL       *string        `json:"thumbnail_url"`
	CanvasWidth        int            `json:"canvas_width" validate:"omitempty,gte=1"`
	CanvasHeight       int            `json:"canvas_height" validate:"omitempty,gte=1"`
}

// Template validates a template payload including the colors of its QR fields
func Template() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(TemplateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errs := validators.Struct(reqData)
		if err := render.ValidateFields(reqData.Fields); err != nil {
			if errs == nil {
				errs = make(map[string]string)
			}
			if errors.Is(err, qr.ErrInvalidColor) {
				errs["fields_config"] = "Invalid color format: " + err.Error()
			} else {
				errs["fields_config"] = err.Error()
			}
		}
		if len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		if reqData.CanvasWidth == 0 {
			reqData.CanvasWidth = render.CanvasWidth
		}
		if reqData.CanvasHeight == 0 {
			reqData.CanvasHeight = render.CanvasHeight
		}
		if reqData.Fields == nil {
			reqData.Fields = []render.Field{}
		}

		c.Locals("validatedTemplate", reqData)
		return c.Next()
	}
}
