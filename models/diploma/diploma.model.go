package diploma

import (
	"time"

	"diplomas/models"
)

const (
	StatusValid   = "valid"
	StatusRevoked = "revoked"
)

// Diploma is one issued certificate. Recipient, course and organization data are
// copied at issuance and never follow later edits.
type Diploma struct {
	models.Base
	OrganizationID string     `json:"organization_id" gorm:"size:36;index;not null"`
	CourseID       string     `json:"course_id" gorm:"size:36;not null;uniqueIndex:idx_diploma_course_recipient"`
	TemplateID     string     `json:"template_id" gorm:"size:36;index"`
	RecipientID    string     `json:"recipient_id" gorm:"size:36;not null;uniqueIndex:idx_diploma_course_recipient"`
	CertificateID  string     `json:"certificate_id" gorm:"size:32;uniqueIndex;not null"`
	QRCodeURL      string     `json:"qr_code_url" gorm:"type:text"`
	PDFURL         *string    `json:"pdf_url"`
	PNGURL         *string    `json:"png_url"`
	Status         string     `json:"status" gorm:"size:16;default:'valid';index"`
	IssuedAt       time.Time  `json:"issued_at" gorm:"index"`
	RevokedAt      *time.Time `json:"revoked_at"`

	RecipientName    string `json:"recipient_name"`
	RecipientEmail   string `json:"recipient_email"`
	CourseName       string `json:"course_name"`
	Instructor       string `json:"instructor"`
	DurationHours    int    `json:"duration_hours"`
	OrganizationName string `json:"organization_name"`

	EmailSent   bool       `json:"email_sent" gorm:"default:false"`
	EmailSentAt *time.Time `json:"email_sent_at"`
}
