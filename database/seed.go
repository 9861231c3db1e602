package database

import (
	"encoding/json"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"diplomas/models"
	"diplomas/models/course"
	"diplomas/models/diploma"
	"diplomas/render"
	"diplomas/utils"
)

const (
	SeedOrganization = "SETY"
	SeedAdminEmail   = "admin@sety.com"
	SeedAdminPass    = "admin123"
)

var seedTemplateFields = `[
	{"id":"1","type":"variable","variable":"recipient_name","x":0,"y":280,"width":1123,"fontFamily":"Libre Baskerville","fontSize":36,"fontColor":"#0f172a","bold":true,"align":"center"},
	{"id":"2","type":"variable","variable":"course_name","x":0,"y":350,"width":1123,"fontFamily":"Libre Baskerville","fontSize":24,"fontColor":"#0f172a","italic":true,"align":"center"},
	{"id":"3","type":"variable","variable":"completion_date","x":0,"y":420,"width":1123,"fontFamily":"Manrope","fontSize":16,"fontColor":"#64748b","align":"center"},
	{"id":"4","type":"qr_code","x":940,"y":610,"qrSize":120}
]`

// Seed creates a demo organization with an admin, two courses, recipients, a template
// and the default email template. It is a no-op when the demo organization exists.
func Seed(db *gorm.DB, saltRound int) (bool, error) {
	var count int64
	if err := db.Model(&models.Organization{}).Where("name = ?", SeedOrganization).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		log.Info("Database already seeded")
		return false, nil
	}

	var fields []render.Field
	if err := json.Unmarshal([]byte(seedTemplateFields), &fields); err != nil {
		return false, errors.Wrap(err, "seed template fields")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedAdminPass), saltRound)
	if err != nil {
		return false, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		org := models.Organization{Name: SeedOrganization}
		if err := tx.Create(&org).Error; err != nil {
			return err
		}
		admin := models.User{OrganizationID: org.ID, Email: SeedAdminEmail, PasswordHash: string(hash), Name: "Admin User", Role: models.RoleAdmin}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}

		start, end := "2024-01-15", "2024-03-15"
		courses := []course.Course{
			{OrganizationID: org.ID, Name: "IA para Negocios", Description: "Curso completo de inteligencia artificial aplicada a los negocios", Instructor: "Dr. Carlos Martinez", DurationHours: 40, StartDate: &start, EndDate: &end},
			{OrganizationID: org.ID, Name: "Excel Avanzado", Description: "Domina Excel con fórmulas avanzadas, macros y análisis de datos", Instructor: "María García", DurationHours: 20, StartDate: &start, EndDate: &end},
		}
		if err := tx.Create(&courses).Error; err != nil {
			return err
		}

		people := [][2]string{
			{"Juan Pérez", "juan.perez@email.com"},
			{"Ana López", "ana.lopez@email.com"},
			{"Carlos Rodríguez", "carlos.rodriguez@email.com"},
			{"María Fernández", "maria.fernandez@email.com"},
			{"Pedro Sánchez", "pedro.sanchez@email.com"},
		}
		var recipients []course.Recipient
		for _, c := range courses {
			for _, p := range people {
				recipients = append(recipients, course.Recipient{OrganizationID: org.ID, CourseID: c.ID, FullName: p[0], Email: p[1]})
			}
		}
		if err := tx.Create(&recipients).Error; err != nil {
			return err
		}

		tpl := diploma.Template{
			OrganizationID:     org.ID,
			Name:               "Classic Certificate",
			BackgroundImageURL: "https://images.unsplash.com/photo-1579546929518-9e396f3cc809?w=1200&h=800&fit=crop",
			Fields:             fields,
			CanvasWidth:        render.CanvasWidth,
			CanvasHeight:       render.CanvasHeight,
		}
		if err := tx.Create(&tpl).Error; err != nil {
			return err
		}

		return tx.Create(&models.EmailTemplate{
			OrganizationID: org.ID,
			Name:           utils.DefaultEmailTemplateName,
			Subject:        utils.DefaultEmailSubject,
			HTMLContent:    utils.DefaultEmailHTML,
			IsDefault:      true,
		}).Error
	})
	if err != nil {
		return false, errors.Wrap(err, "seed")
	}

	log.WithField("email", SeedAdminEmail).Info("Database seeded successfully")
	return true, nil
}
