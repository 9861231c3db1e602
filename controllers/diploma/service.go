package diplomaController

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"diplomas/config"
	"diplomas/models"
	"diplomas/models/course"
	"diplomas/models/diploma"
	"diplomas/qr"
	"diplomas/render"
	"diplomas/utils"
)

var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrDiplomaNotFound  = errors.New("diploma not found")
	ErrNoRecipientEmail = errors.New("recipient has no email address")

	errPairExists = errors.New("diploma already issued for this recipient")
)

// a fresh identifier is drawn on every unique-key collision, up to this many times
const maxCertificateAttempts = 5

// Handler holds the collaborators shared by the diploma endpoints
type Handler struct {
	Renderer render.PDFRenderer
	Mailer   utils.Mailer
	Resolver *render.Resolver

	Locale                  string
	GeneratedDir            string
	DefaultOrganizationName string
	Concurrency             int

	// NewCertificateID draws identifiers for new diplomas
	NewCertificateID func() string
}

// NewHandler builds a handler from the application configuration
func NewHandler(cfg *config.Config, renderer render.PDFRenderer, mailer utils.Mailer) *Handler {
	return &Handler{
		Renderer:                renderer,
		Mailer:                  mailer,
		Resolver:                render.NewResolver(cfg.FrontendURL, cfg.RenderImagesOnTop, cfg.DiplomaLocale),
		Locale:                  cfg.DiplomaLocale,
		GeneratedDir:            cfg.GeneratedDir,
		DefaultOrganizationName: cfg.DefaultOrganizationName,
		Concurrency:             cfg.RenderConcurrency,
		NewCertificateID:        utils.GenerateCertificateID,
	}
}

func (h *Handler) concurrency() int {
	if h.Concurrency <= 0 {
		return 1
	}
	return h.Concurrency
}

// GenerateResult is returned by GenerateDiplomas
type GenerateResult struct {
	Generated int               `json:"generated"`
	Skipped   int               `json:"skipped"`
	Diplomas  []diploma.Diploma `json:"diplomas"`
}

// GenerateDiplomas issues one diploma per recipient of the organization that has none for the course yet.
// Unknown recipients and already issued pairs are skipped, so repeating a call is a no-op.
func (h *Handler) GenerateDiplomas(db *gorm.DB, orgID, courseID, templateID string, recipientIDs []string) (*GenerateResult, error) {
	var c course.Course
	if err := db.Where("id = ? AND organization_id = ?", courseID, orgID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, errors.Wrap(err, "load course")
	}

	var templates int64
	if err := db.Model(&diploma.Template{}).Where("id = ? AND organization_id = ?", templateID, orgID).Count(&templates).Error; err != nil {
		return nil, errors.Wrap(err, "load template")
	}
	if templates == 0 {
		return nil, ErrTemplateNotFound
	}

	orgName := h.DefaultOrganizationName
	var org models.Organization
	if err := db.Where("id = ?", orgID).First(&org).Error; err == nil && org.Name != "" {
		orgName = org.Name
	}

	ids := uniqueStrings(recipientIDs)
	result := &GenerateResult{Diplomas: []diploma.Diploma{}}
	if len(ids) == 0 {
		return result, nil
	}

	var recipients []course.Recipient
	if err := db.Where("organization_id = ? AND id IN ?", orgID, ids).Find(&recipients).Error; err != nil {
		return nil, errors.Wrap(err, "load recipients")
	}
	byID := make(map[string]course.Recipient, len(recipients))
	for _, r := range recipients {
		byID[r.ID] = r
	}

	var issued []string
	if err := db.Model(&diploma.Diploma{}).Where("course_id = ? AND recipient_id IN ?", courseID, ids).Pluck("recipient_id", &issued).Error; err != nil {
		return nil, errors.Wrap(err, "load issued diplomas")
	}
	done := make(map[string]bool, len(issued))
	for _, id := range issued {
		done[id] = true
	}

	for _, id := range ids {
		r, ok := byID[id]
		if !ok || done[id] {
			result.Skipped++
			continue
		}

		d, err := h.issue(db, c, templateID, r, orgName)
		if errors.Is(err, errPairExists) {
			result.Skipped++
			continue
		}
		if err != nil {
			return nil, err
		}
		result.Diplomas = append(result.Diplomas, *d)
	}
	result.Generated = len(result.Diplomas)

	log.WithFields(log.Fields{
		"organization_id": orgID,
		"course_id":       courseID,
		"generated":       result.Generated,
		"skipped":         result.Skipped,
	}).Info("diplomas generated")
	return result, nil
}

func (h *Handler) issue(db *gorm.DB, c course.Course, templateID string, r course.Recipient, orgName string) (*diploma.Diploma, error) {
	newID := h.NewCertificateID
	if newID == nil {
		newID = utils.GenerateCertificateID
	}
	for attempt := 1; attempt <= maxCertificateAttempts; attempt++ {
		certID := newID()
		d := diploma.Diploma{
			OrganizationID:   c.OrganizationID,
			CourseID:         c.ID,
			TemplateID:       templateID,
			RecipientID:      r.ID,
			CertificateID:    certID,
			QRCodeURL:        h.defaultQR(certID),
			Status:           diploma.StatusValid,
			IssuedAt:         time.Now().UTC(),
			RecipientName:    r.FullName,
			RecipientEmail:   r.Email,
			CourseName:       c.Name,
			Instructor:       c.Instructor,
			DurationHours:    c.DurationHours,
			OrganizationName: orgName,
		}

		err := db.Create(&d).Error
		if err == nil {
			return &d, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.Wrap(err, "create diploma")
		}

		// the unique key hit is either the (course, recipient) pair or the certificate id
		var n int64
		if err := db.Model(&diploma.Diploma{}).Where("course_id = ? AND recipient_id = ?", c.ID, r.ID).Count(&n).Error; err != nil {
			return nil, errors.Wrap(err, "check issued diploma")
		}
		if n > 0 {
			return nil, errPairExists
		}
		log.WithFields(log.Fields{"certificate_id": certID, "attempt": attempt}).Warn("certificate id collision, drawing a new one")
	}
	return nil, errors.Errorf("could not allocate a unique certificate id after %d attempts", maxCertificateAttempts)
}

// defaultQR is the plain QR stored on the diploma for previews; templates restyle it at render time
func (h *Handler) defaultQR(certificateID string) string {
	uri, err := qr.Generate(utils.VerificationURL(h.Resolver.VerifyBaseURL, certificateID), qr.DefaultOptions())
	if err != nil {
		log.WithError(err).WithField("certificate_id", certificateID).Warn("could not generate default qr code")
		return ""
	}
	return uri
}

// RenderContext is the diploma snapshot as seen by the field resolver
func (h *Handler) RenderContext(d *diploma.Diploma) render.Context {
	return render.Context{
		RecipientName:    d.RecipientName,
		CourseName:       d.CourseName,
		IssueDate:        utils.FormatDiplomaDate(d.IssuedAt, h.Locale),
		Instructor:       d.Instructor,
		DurationHours:    d.DurationHours,
		CertificateID:    d.CertificateID,
		OrganizationName: d.OrganizationName,
	}
}

// BuildRenderInput resolves the diploma's template into a document. A deleted template
// falls back to the built-in layout.
func (h *Handler) BuildRenderInput(db *gorm.DB, d *diploma.Diploma) (*render.Document, error) {
	var layout render.Layout
	var tpl diploma.Template
	err := db.Where("id = ?", d.TemplateID).First(&tpl).Error
	switch {
	case err == nil:
		layout = tpl.Layout()
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.WithField("diploma_id", d.ID).Warn("[RENDERER] template not found, using the built-in layout")
		layout = render.Layout{Name: d.CourseName}
	default:
		return nil, errors.Wrap(err, "load template")
	}

	fields := layout.EffectiveFields(h.Locale)
	resolved := h.Resolver.Resolve(fields, h.RenderContext(d))
	return render.BuildDocument(layout, resolved), nil
}

// RenderPDF renders the diploma and keeps a copy in the generated files directory
func (h *Handler) RenderPDF(ctx context.Context, db *gorm.DB, d *diploma.Diploma) ([]byte, error) {
	doc, err := h.BuildRenderInput(db, d)
	if err != nil {
		return nil, err
	}
	data, err := h.Renderer.RenderPDF(ctx, doc)
	if err != nil {
		return nil, err
	}
	h.keepGenerated(d.CertificateID+".pdf", data)
	return data, nil
}

// RenderPNG renders the diploma as an image
func (h *Handler) RenderPNG(ctx context.Context, db *gorm.DB, d *diploma.Diploma) ([]byte, error) {
	doc, err := h.BuildRenderInput(db, d)
	if err != nil {
		return nil, err
	}
	data, err := h.Renderer.RenderPNG(ctx, doc)
	if err != nil {
		return nil, err
	}
	h.keepGenerated(d.CertificateID+".png", data)
	return data, nil
}

func (h *Handler) keepGenerated(name string, data []byte) {
	if h.GeneratedDir == "" {
		return
	}
	if err := os.MkdirAll(h.GeneratedDir, 0755); err != nil {
		log.WithError(err).Warn("[RENDERER] could not create generated files directory")
		return
	}
	if err := os.WriteFile(filepath.Join(h.GeneratedDir, name), data, 0644); err != nil {
		log.WithError(err).WithField("file", name).Warn("[RENDERER] could not keep generated file")
	}
}

// EmailVariables are the {{placeholders}} available in email subjects and bodies
func (h *Handler) EmailVariables(d *diploma.Diploma) map[string]string {
	instructor := d.Instructor
	if instructor == "" {
		instructor = "N/A"
	}
	return map[string]string{
		"recipient_name":    d.RecipientName,
		"course_name":       d.CourseName,
		"instructor":        instructor,
		"duration_hours":    strconv.Itoa(d.DurationHours),
		"issue_date":        utils.FormatDiplomaDate(d.IssuedAt, h.Locale),
		"certificate_id":    d.CertificateID,
		"organization_name": d.OrganizationName,
	}
}

// MailSettings loads the organization's delivery settings and checks the mailer can use them
func MailSettings(db *gorm.DB, orgID string, mailer utils.Mailer) (utils.MailSettings, error) {
	settings := models.DefaultSettings(orgID)
	if err := db.Where("organization_id = ?", orgID).First(&settings).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.MailSettings{}, errors.Wrap(err, "load settings")
	}
	ms := settings.MailSettings()
	return ms, mailer.Validate(ms)
}

// EmailContent returns the subject and body of the organization's default email template
func EmailContent(db *gorm.DB, orgID string) (subject, body string) {
	var tpl models.EmailTemplate
	err := db.Where("organization_id = ? AND is_default = ?", orgID, true).First(&tpl).Error
	if err != nil {
		return utils.DefaultEmailSubject, utils.FallbackEmailHTML
	}
	subject = tpl.Subject
	if subject == "" {
		subject = utils.DefaultEmailSubject
	}
	return subject, tpl.HTMLContent
}

// SendDiplomaEmail renders the diploma, mails it as an attachment and records the delivery
func (h *Handler) SendDiplomaEmail(ctx context.Context, db *gorm.DB, d *diploma.Diploma, settings utils.MailSettings, subject, body string) (time.Time, error) {
	if d.RecipientEmail == "" {
		return time.Time{}, ErrNoRecipientEmail
	}

	pdf, err := h.RenderPDF(ctx, db, d)
	if err != nil {
		return time.Time{}, err
	}

	vars := h.EmailVariables(d)
	msg := utils.Message{
		To:      d.RecipientEmail,
		ToName:  d.RecipientName,
		Subject: utils.SubstituteVariables(subject, vars),
		HTML:    utils.SubstituteVariables(body, vars),
		Attachments: []utils.Attachment{{
			Filename:    utils.DiplomaAttachmentName(d.CertificateID),
			ContentType: "application/pdf",
			Data:        pdf,
		}},
	}
	if err := h.Mailer.Send(ctx, settings, msg); err != nil {
		return time.Time{}, err
	}

	sentAt := time.Now().UTC()
	err = db.Model(&diploma.Diploma{}).Where("id = ?", d.ID).Updates(map[string]interface{}{
		"email_sent":    true,
		"email_sent_at": sentAt,
	}).Error
	if err != nil {
		return time.Time{}, errors.Wrap(err, "mark email sent")
	}
	d.EmailSent = true
	d.EmailSentAt = &sentAt
	return sentAt, nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
