package models

import "time"

type EmailTemplate struct {
	Base
	OrganizationID string    `json:"organization_id" gorm:"size:36;index;not null"`
	Name           string    `json:"name" gorm:"not null"`
	Subject        string    `json:"subject"`
	HTMLContent    string    `json:"html_content" gorm:"type:text"`
	IsDefault      bool      `json:"is_default" gorm:"default:false"`
	UpdatedAt      time.Time `json:"updated_at"`
}
