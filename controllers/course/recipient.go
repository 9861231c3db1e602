package courseController

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"diplomas/database"
	"diplomas/middleware"
	"diplomas/models/course"
	"diplomas/validators"
	recipientValidator "diplomas/validators/recipient"
)

const csvTemplate = "full_name,email\nJohn Doe,john@example.com\nJane Smith,jane@example.com\n"

func GetRecipients(c *fiber.Ctx) error {
	reqData := validators.Validated[recipientValidator.ListQuery](c, "validatedQuery")

	query := database.Database.Db.Where("organization_id = ?", middleware.OrgID(c))
	if reqData != nil && reqData.CourseID != "" {
		query = query.Where("course_id = ?", reqData.CourseID)
	}

	var recipients []course.Recipient
	if err := query.Order("created_at ASC").Limit(1000).Find(&recipients).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch recipients!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Recipients fetched successfully.", recipients)
}

func CreateRecipient(c *fiber.Ctx) error {
	reqData := validators.Validated[recipientValidator.RecipientRequest](c, "validatedRecipient")
	db := database.Database.Db
	orgID := middleware.OrgID(c)

	var count int64
	if err := db.Model(&course.Course{}).Where("id = ? AND organization_id = ?", reqData.CourseID, orgID).Count(&count).Error; err != nil || count == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found", nil)
	}

	recipient := course.Recipient{
		OrganizationID: orgID,
		CourseID:       reqData.CourseID,
		FullName:       strings.TrimSpace(reqData.FullName),
		Email:          strings.TrimSpace(reqData.Email),
	}
	if err := db.Create(&recipient).Error; err != nil {
		log.WithError(err).Error("Error creating recipient")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create recipient!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Recipient created successfully.", recipient)
}

// ImportResult summarizes a CSV import
type ImportResult struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors"`
}

// ParseRecipientsCSV reads full_name (or name) and email columns. Rows missing either
// value are reported by their 1-based line number and skipped.
func ParseRecipientsCSV(r io.Reader) ([]course.Recipient, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, err
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, ok := col[h]; !ok {
			col[h] = i
		}
	}
	get := func(row []string, names ...string) string {
		for _, n := range names {
			if i, ok := col[n]; ok && i < len(row) {
				if v := strings.TrimSpace(row[i]); v != "" {
					return v
				}
			}
		}
		return ""
	}

	var out []course.Recipient
	var problems []string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			problems = append(problems, fmt.Sprintf("Row %d: %v", lineOf(err), err))
			continue
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}

		line, _ := reader.FieldPos(0)
		name, email := get(row, "full_name", "name"), get(row, "email")
		if name == "" || email == "" {
			problems = append(problems, fmt.Sprintf("Row %d: Missing name or email", line))
			continue
		}
		out = append(out, course.Recipient{FullName: name, Email: email})
	}
	return out, problems, nil
}

func lineOf(err error) int {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return pe.Line
	}
	return 0
}

func BulkImportRecipients(c *fiber.Ctx) error {
	db := database.Database.Db
	orgID := middleware.OrgID(c)
	courseID := c.FormValue("course_id")

	var count int64
	if err := db.Model(&course.Course{}).Where("id = ? AND organization_id = ?", courseID, orgID).Count(&count).Error; err != nil || count == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found", nil)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A CSV file is required!", nil)
	}
	f, err := fh.Open()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Could not read the uploaded file!", nil)
	}
	defer f.Close()

	recipients, problems, err := ParseRecipientsCSV(f)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid CSV file: "+err.Error(), nil)
	}

	result := ImportResult{Errors: problems}
	if result.Errors == nil {
		result.Errors = []string{}
	}
	for i := range recipients {
		recipients[i].OrganizationID = orgID
		recipients[i].CourseID = courseID
	}
	if len(recipients) > 0 {
		if err := db.CreateInBatches(&recipients, 200).Error; err != nil {
			log.WithError(err).Error("Error importing recipients")
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to import recipients!", nil)
		}
		result.Imported = len(recipients)
	}

	log.WithFields(log.Fields{"course_id": courseID, "imported": result.Imported, "errors": len(result.Errors)}).Info("recipients imported")
	return middleware.JsonResponse(c, fiber.StatusOK, true, fmt.Sprintf("%d recipients imported.", result.Imported), result)
}

func DeleteRecipient(c *fiber.Ctx) error {
	result := database.Database.Db.Where("id = ? AND organization_id = ?", c.Params("id"), middleware.OrgID(c)).Delete(&course.Recipient{})
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete recipient!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Recipient not found", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Recipient deleted", nil)
}

// CSVTemplate serves a sample import file
func CSVTemplate(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="recipients_template.csv"`)
	return c.SendString(csvTemplate)
}
