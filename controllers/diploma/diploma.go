package diplomaController

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"diplomas/database"
	"diplomas/middleware"
	"diplomas/models"
	"diplomas/models/diploma"
	"diplomas/render"
	"diplomas/utils"
	"diplomas/validators"
	diplomaValidator "diplomas/validators/diploma"
)

func (h *Handler) Generate(c *fiber.Ctx) error {
	reqData := validators.Validated[diplomaValidator.GenerateRequest](c, "validatedGenerate")

	result, err := h.GenerateDiplomas(database.Database.Db, middleware.OrgID(c), reqData.CourseID, reqData.TemplateID, reqData.RecipientIDs)
	switch {
	case errors.Is(err, ErrCourseNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found", nil)
	case errors.Is(err, ErrTemplateNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Template not found", nil)
	case err != nil:
		log.WithError(err).Error("diploma generation failed")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate diplomas!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, fmt.Sprintf("%d diplomas generated.", result.Generated), result)
}

func (h *Handler) List(c *fiber.Ctx) error {
	reqData := validators.Validated[diplomaValidator.ListQuery](c, "validatedQuery")

	query := database.Database.Db.Where("organization_id = ?", middleware.OrgID(c))
	if reqData.CourseID != "" {
		query = query.Where("course_id = ?", reqData.CourseID)
	}
	if reqData.Status != "" {
		query = query.Where("status = ?", reqData.Status)
	}
	if search := strings.TrimSpace(reqData.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(recipient_name) LIKE ? OR LOWER(certificate_id) LIKE ?", pattern, pattern)
	}

	var list []diploma.Diploma
	if err := query.Order("issued_at DESC").Limit(1000).Find(&list).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch diplomas!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Diplomas fetched successfully.", list)
}

// findDiploma loads a diploma of the caller's organization, writing the 404 itself
func findDiploma(c *fiber.Ctx) (*diploma.Diploma, error) {
	var d diploma.Diploma
	err := database.Database.Db.Where("id = ? AND organization_id = ?", c.Params("id"), middleware.OrgID(c)).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Diploma not found", nil)
	}
	if err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch diploma!", nil)
	}
	return &d, nil
}

func (h *Handler) Get(c *fiber.Ctx) error {
	d, err := findDiploma(c)
	if d == nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Diploma fetched successfully.", d)
}

func (h *Handler) Revoke(c *fiber.Ctx) error {
	d, err := findDiploma(c)
	if d == nil {
		return err
	}

	now := time.Now().UTC()
	if err := database.Database.Db.Model(d).Updates(map[string]interface{}{"status": diploma.StatusRevoked, "revoked_at": now}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to revoke diploma!", nil)
	}
	d.Status, d.RevokedAt = diploma.StatusRevoked, &now
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Diploma revoked", d)
}

func (h *Handler) Reactivate(c *fiber.Ctx) error {
	d, err := findDiploma(c)
	if d == nil {
		return err
	}

	if err := database.Database.Db.Model(d).Updates(map[string]interface{}{"status": diploma.StatusValid, "revoked_at": nil}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reactivate diploma!", nil)
	}
	d.Status, d.RevokedAt = diploma.StatusValid, nil
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Diploma reactivated", d)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	result := database.Database.Db.Where("id = ? AND organization_id = ?", c.Params("id"), middleware.OrgID(c)).Delete(&diploma.Diploma{})
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete diploma!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Diploma not found", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Diploma deleted", nil)
}

// mailError maps a settings check failure to the response the client sees
func mailError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, utils.ErrMailDisabled):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "El envío de emails no está habilitado", nil)
	case errors.Is(err, utils.ErrMailNotConfigured):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Configuración SMTP incompleta", nil)
	default:
		log.WithError(err).Error("could not load mail settings")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load settings!", nil)
	}
}

func (h *Handler) SendEmail(c *fiber.Ctx) error {
	d, err := findDiploma(c)
	if d == nil {
		return err
	}

	db := database.Database.Db
	settings, err := MailSettings(db, d.OrganizationID, h.Mailer)
	if err != nil {
		return mailError(c, err)
	}
	if d.RecipientEmail == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "El destinatario no tiene email registrado", nil)
	}

	subject, body := EmailContent(db, d.OrganizationID)
	sentAt, err := h.SendDiplomaEmail(c.UserContext(), db, d, settings, subject, body)
	if err != nil {
		log.WithError(err).WithField("diploma_id", d.ID).Error("[MAILER] diploma email failed")
		if errors.Is(err, render.ErrRenderFailed) {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error generando PDF: "+err.Error(), nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error al enviar email: "+err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Diploma enviado a "+d.RecipientEmail, fiber.Map{
		"email_sent":    true,
		"email_sent_at": sentAt,
	})
}

// BulkEmailResult is the outcome for one diploma of a bulk send
type BulkEmailResult struct {
	DiplomaID string `json:"diploma_id"`
	Success   bool   `json:"success"`
	Recipient string `json:"recipient,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (h *Handler) SendBulkEmail(c *fiber.Ctx) error {
	reqData := validators.Validated[diplomaValidator.BulkEmailRequest](c, "validatedBulkEmail")
	orgID := middleware.OrgID(c)
	db := database.Database.Db

	settings, err := MailSettings(db, orgID, h.Mailer)
	if err != nil {
		return mailError(c, err)
	}
	subject, body := EmailContent(db, orgID)

	ids := uniqueStrings(reqData.DiplomaIDs)
	results := make([]BulkEmailResult, len(ids))
	ctx := c.UserContext()

	var g errgroup.Group
	g.SetLimit(h.concurrency())
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			results[i] = h.sendOne(ctx, db, orgID, id, settings, subject, body)
			return nil
		})
	}
	_ = g.Wait()

	sent, failed := 0, 0
	for _, r := range results {
		if r.Success {
			sent++
		} else {
			failed++
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, fmt.Sprintf("%d sent, %d failed", sent, failed), fiber.Map{
		"sent":    sent,
		"failed":  failed,
		"results": results,
	})
}

func (h *Handler) sendOne(ctx context.Context, db *gorm.DB, orgID, id string, settings utils.MailSettings, subject, body string) BulkEmailResult {
	res := BulkEmailResult{DiplomaID: id}

	var d diploma.Diploma
	if err := db.Where("id = ? AND organization_id = ?", id, orgID).First(&d).Error; err != nil {
		res.Error = "Diploma not found"
		return res
	}
	res.Recipient = d.RecipientEmail

	if _, err := h.SendDiplomaEmail(ctx, db, &d, settings, subject, body); err != nil {
		log.WithError(err).WithField("diploma_id", id).Error("[MAILER] bulk diploma email failed")
		if errors.Is(err, ErrNoRecipientEmail) {
			res.Error = "Sin email"
		} else {
			res.Error = err.Error()
		}
		return res
	}
	res.Success = true
	return res
}

func sendAttachment(c *fiber.Ctx, contentType, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Status(fiber.StatusOK).Send(data)
}

func renderFailure(c *fiber.Ctx, d *diploma.Diploma, err error) error {
	log.WithError(err).WithField("certificate_id", d.CertificateID).Error("[RENDERER] diploma render failed")
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error generando PDF: "+err.Error(), nil)
}

func (h *Handler) DownloadPDF(c *fiber.Ctx) error {
	d, err := findDiploma(c)
	if d == nil {
		return err
	}
	data, err := h.RenderPDF(c.UserContext(), database.Database.Db, d)
	if err != nil {
		return renderFailure(c, d, err)
	}
	return sendAttachment(c, "application/pdf", utils.DiplomaAttachmentName(d.CertificateID), data)
}

func (h *Handler) DownloadPNG(c *fiber.Ctx) error {
	d, err := findDiploma(c)
	if d == nil {
		return err
	}
	data, err := h.RenderPNG(c.UserContext(), database.Database.Db, d)
	if err != nil {
		return renderFailure(c, d, err)
	}
	return sendAttachment(c, "image/png", fmt.Sprintf("certificado_%s.png", d.CertificateID), data)
}

// DownloadPDFByCertificate is the public download offered on the verification page
func (h *Handler) DownloadPDFByCertificate(c *fiber.Ctx) error {
	var d diploma.Diploma
	err := database.Database.Db.Where("certificate_id = ?", c.Params("certificate_id")).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found", nil)
	}
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificate!", nil)
	}

	data, err := h.RenderPDF(c.UserContext(), database.Database.Db, &d)
	if err != nil {
		return renderFailure(c, &d, err)
	}
	return sendAttachment(c, "application/pdf", utils.DiplomaAttachmentName(d.CertificateID), data)
}

// Data returns the diploma with its template for client-side rendering
func (h *Handler) Data(c *fiber.Ctx) error {
	db := database.Database.Db

	var d diploma.Diploma
	if err := db.Where("id = ?", c.Params("id")).First(&d).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Diploma not found", nil)
	}

	var tpl *diploma.Template
	var found diploma.Template
	if err := db.Where("id = ?", d.TemplateID).First(&found).Error; err == nil {
		tpl = &found
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Diploma data fetched successfully.", fiber.Map{
		"diploma":  d,
		"template": tpl,
	})
}

// VerificationResponse is the public view of a certificate
type VerificationResponse struct {
	CertificateID     string    `json:"certificate_id"`
	RecipientName     string    `json:"recipient_name"`
	CourseName        string    `json:"course_name"`
	Instructor        string    `json:"instructor"`
	DurationHours     int       `json:"duration_hours"`
	OrganizationName  string    `json:"organization_name"`
	Status            string    `json:"status"`
	IssuedAt          time.Time `json:"issued_at"`
	DiplomaID         string    `json:"diploma_id"`
	DiplomaPreviewURL *string   `json:"diploma_preview_url"`
	VerificationURL   string    `json:"verification_url"`
}

// Verify looks a certificate up by its public identifier and records the scan
func (h *Handler) Verify(c *fiber.Ctx) error {
	db := database.Database.Db
	certID := strings.TrimSpace(c.Params("certificate_id"))

	var d diploma.Diploma
	err := db.Where("certificate_id = ?", certID).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found", nil)
	}
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify certificate!", nil)
	}

	scan := models.ScanLog{
		OrganizationID: d.OrganizationID,
		DiplomaID:      d.ID,
		CertificateID:  d.CertificateID,
		IPAddress:      orUnknown(c.IP()),
		UserAgent:      orUnknown(c.Get(fiber.HeaderUserAgent)),
	}
	if err := db.Create(&scan).Error; err != nil {
		log.WithError(err).WithField("certificate_id", certID).Warn("could not record scan")
	}

	resp := VerificationResponse{
		CertificateID:    d.CertificateID,
		RecipientName:    d.RecipientName,
		CourseName:       d.CourseName,
		Instructor:       d.Instructor,
		DurationHours:    d.DurationHours,
		OrganizationName: d.OrganizationName,
		Status:           d.Status,
		IssuedAt:         d.IssuedAt,
		DiplomaID:        d.ID,
		VerificationURL:  utils.VerificationURL(h.Resolver.VerifyBaseURL, d.CertificateID),
	}
	var tpl diploma.Template
	if err := db.Select("background_image_url").Where("id = ?", d.TemplateID).First(&tpl).Error; err == nil {
		resp.DiplomaPreviewURL = &tpl.BackgroundImageURL
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate verified.", resp)
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}
