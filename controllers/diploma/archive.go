package diplomaController

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"diplomas/database"
	"diplomas/middleware"
	"diplomas/models/course"
	"diplomas/models/diploma"
)

var archiveNameReplacer = strings.NewReplacer(" ", "_", "/", "-", "\\", "-")

// BuildCourseArchive renders every diploma of the course into a ZIP. Diplomas that fail to
// render are left out; an archive with no entries is an error.
func (h *Handler) BuildCourseArchive(ctx context.Context, db *gorm.DB, list []diploma.Diploma) ([]byte, int, error) {
	pdfs := make([][]byte, len(list))

	var g errgroup.Group
	g.SetLimit(h.concurrency())
	for i := range list {
		i := i
		g.Go(func() error {
			data, err := h.RenderPDF(ctx, db, &list[i])
			if err != nil {
				log.WithError(err).WithField("certificate_id", list[i].CertificateID).Error("[RENDERER] skipping diploma in archive")
				return nil
			}
			pdfs[i] = data
			return nil
		})
	}
	_ = g.Wait()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	added := 0
	for i, d := range list {
		if pdfs[i] == nil {
			continue
		}
		w, err := zw.Create(fmt.Sprintf("%s_%s.pdf", archiveNameReplacer.Replace(d.RecipientName), d.CertificateID))
		if err != nil {
			return nil, 0, errors.Wrap(err, "zip entry")
		}
		if _, err := w.Write(pdfs[i]); err != nil {
			return nil, 0, errors.Wrap(err, "zip write")
		}
		added++
	}
	if err := zw.Close(); err != nil {
		return nil, 0, errors.Wrap(err, "zip close")
	}
	if added == 0 {
		return nil, 0, errors.New("no diploma could be rendered")
	}
	return buf.Bytes(), added, nil
}

// DownloadCourseArchive serves every diploma of a course as a ZIP of PDFs
func (h *Handler) DownloadCourseArchive(c *fiber.Ctx) error {
	db := database.Database.Db
	orgID := middleware.OrgID(c)

	var crs course.Course
	if err := db.Where("id = ? AND organization_id = ?", c.Params("id"), orgID).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found", nil)
	}

	var list []diploma.Diploma
	if err := db.Where("course_id = ? AND organization_id = ?", crs.ID, orgID).Order("issued_at ASC").Limit(1000).Find(&list).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch diplomas!", nil)
	}
	if len(list) == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No diplomas found for this course", nil)
	}

	data, added, err := h.BuildCourseArchive(c.UserContext(), db, list)
	if err != nil {
		log.WithError(err).WithField("course_id", crs.ID).Error("course archive failed")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error generating ZIP: "+err.Error(), nil)
	}

	log.WithFields(log.Fields{"course_id": crs.ID, "diplomas": added, "total": len(list)}).Info("course archive built")
	return sendAttachment(c, "application/zip", fmt.Sprintf("diplomas_%s.zip", archiveNameReplacer.Replace(crs.Name)), data)
}
