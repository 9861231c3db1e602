package emailTemplateValidator

import (
	"github.com/gofiber/fiber/v2"

	"diplomas/validators"
)

type CreateRequest struct {
	Name        string `json:"name" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
	HTMLContent string `json:"html_content" validate:"required"`
	IsDefault   bool   `json:"is_default"`
}

type UpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Subject     *string `json:"subject"`
	HTMLContent *string `json:"html_content"`
	IsDefault   *bool   `json:"is_default"`
}

type PreviewRequest struct {
	HTMLContent string `json:"html_content"`
	Subject     string `json:"subject"`
}

func Create() fiber.Handler {
	return validators.Body[CreateRequest]("validatedEmailTemplate")
}

func Update() fiber.Handler {
	return validators.Body[UpdateRequest]("validatedEmailTemplate")
}

func Preview() fiber.Handler {
	return validators.Body[PreviewRequest]("validatedPreview")
}
