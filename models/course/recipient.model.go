package course

import "diplomas/models"

type Recipient struct {
	models.Base
	OrganizationID string `json:"organization_id" gorm:"size:36;index;not null"`
	CourseID       string `json:"course_id" gorm:"size:36;index;not null"`
	FullName       string `json:"full_name" gorm:"not null"`
	Email          string `json:"email"`
}
