package models

const RoleAdmin = "admin"

// User belongs to one organization. The earliest created user of an organization is its base admin.
type User struct {
	Base
	OrganizationID string `json:"organization_id" gorm:"size:36;index;not null"`
	Email          string `json:"email" gorm:"unique;not null"`
	PasswordHash   string `json:"-" gorm:"not null"`
	Name           string `json:"name" gorm:"default:''"`
	Role           string `json:"role" gorm:"default:'admin'"`
}
