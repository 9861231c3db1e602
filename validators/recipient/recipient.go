package recipientValidator

import (
	"github.com/gofiber/fiber/v2"

	"diplomas/middleware"
	"diplomas/validators"
)

type RecipientRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	CourseID string `json:"course_id" validate:"required"`
}

type ListQuery struct {
	CourseID string `query:"course_id" json:"course_id"`
}

func CreateRecipient() fiber.Handler {
	return validators.Body[RecipientRequest]("validatedRecipient")
}

func ListRecipients() fiber.Handler {
	return validators.Query[ListQuery]("validatedQuery")
}

// BulkImport requires a course_id form value and a file part
func BulkImport() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)

		if c.FormValue("course_id") == "" {
			errors["course_id"] = "course_id is required!"
		}
		if _, err := c.FormFile("file"); err != nil {
			errors["file"] = "A CSV file is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}
		return c.Next()
	}
}
