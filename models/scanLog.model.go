package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScanLog is appended on every verification lookup
type ScanLog struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	OrganizationID string    `json:"-" gorm:"size:36;index"`
	DiplomaID      string    `json:"diploma_id" gorm:"size:36;index;not null"`
	CertificateID  string    `json:"certificate_id" gorm:"index;not null"`
	ScannedAt      time.Time `json:"scanned_at" gorm:"index"`
	IPAddress      string    `json:"ip_address"`
	UserAgent      string    `json:"user_agent"`
}

func (l *ScanLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.ScannedAt.IsZero() {
		l.ScannedAt = time.Now().UTC()
	}
	return nil
}
