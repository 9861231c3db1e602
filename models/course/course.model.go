package course

import "diplomas/models"

// Course is an organization's course; diplomas snapshot its name, instructor and duration
type Course struct {
	models.Base
	OrganizationID string  `json:"organization_id" gorm:"size:36;index;not null"`
	Name           string  `json:"name" gorm:"not null"`
	Description    string  `json:"description" gorm:"type:text"`
	Instructor     string  `json:"instructor"`
	DurationHours  int     `json:"duration_hours" gorm:"default:0"`
	StartDate      *string `json:"start_date"`
	EndDate        *string `json:"end_date"`

	RecipientCount int64 `json:"recipient_count" gorm:"-"`
	DiplomaCount   int64 `json:"diploma_count" gorm:"-"`
}
