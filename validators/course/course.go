package courseValidator

import (
	"github.com/gofiber/fiber/v2"

	"diplomas/validators"
)

type CourseRequest struct {
	Name          string  `json:"name" validate:"required"`
	Description   string  `json:"description"`
	Instructor    string  `json:"instructor" validate:"required"`
	DurationHours int     `json:"duration_hours" validate:"gte=0"`
	StartDate     *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate       *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// Course validates both create and update payloads
func Course() fiber.Handler {
	return validators.Body[CourseRequest]("validatedCourse")
}
