package diplomaValidator

import (
	"github.com/gofiber/fiber/v2"

	"diplomas/validators"
)

type GenerateRequest struct {
	CourseID     string   `json:"course_id" validate:"required"`
	TemplateID   string   `json:"template_id" validate:"required"`
	RecipientIDs []string `json:"recipient_ids" validate:"required,min=1,dive,required"`
}

type BulkEmailRequest struct {
	DiplomaIDs []string `json:"diploma_ids" validate:"required,min=1,dive,required"`
}

type ListQuery struct {
	CourseID string `query:"course_id" json:"course_id"`
	Status   string `query:"status" json:"status" validate:"omitempty,oneof=valid revoked"`
	Search   string `query:"search" json:"search"`
}

func Generate() fiber.Handler {
	return validators.Body[GenerateRequest]("validatedGenerate")
}

func BulkEmail() fiber.Handler {
	return validators.Body[BulkEmailRequest]("validatedBulkEmail")
}

func List() fiber.Handler {
	return validators.Query[ListQuery]("validatedQuery")
}
