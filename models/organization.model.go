package models

type Organization struct {
	Base
	Name    string `json:"name" gorm:"not null"`
	LogoURL string `json:"logo_url"`
}
