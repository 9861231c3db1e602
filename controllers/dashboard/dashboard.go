package dashboardController

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"diplomas/database"
	"diplomas/middleware"
	"diplomas/models"
	"diplomas/models/course"
	"diplomas/models/diploma"
)

type Stats struct {
	TotalDiplomas   int64             `json:"total_diplomas"`
	ValidDiplomas   int64             `json:"valid_diplomas"`
	RevokedDiplomas int64             `json:"revoked_diplomas"`
	TotalCourses    int64             `json:"total_courses"`
	TotalRecipients int64             `json:"total_recipients"`
	TotalTemplates  int64             `json:"total_templates"`
	ScansToday      int64             `json:"scans_today"`
	ScansThisWeek   int64             `json:"scans_this_week"`
	RecentActivity  []diploma.Diploma `json:"recent_activity"`
}

// CollectStats counts the organization's records; scan windows are computed relative to at
func CollectStats(db *gorm.DB, orgID string, at time.Time) (*Stats, error) {
	s := &Stats{RecentActivity: []diploma.Diploma{}}
	scoped := func(model interface{}) *gorm.DB {
		return db.Model(model).Where("organization_id = ?", orgID)
	}

	counts := []struct {
		query *gorm.DB
		dst   *int64
	}{
		{scoped(&diploma.Diploma{}), &s.TotalDiplomas},
		{scoped(&diploma.Diploma{}).Where("status = ?", diploma.StatusValid), &s.ValidDiplomas},
		{scoped(&diploma.Diploma{}).Where("status = ?", diploma.StatusRevoked), &s.RevokedDiplomas},
		{scoped(&course.Course{}), &s.TotalCourses},
		{scoped(&course.Recipient{}), &s.TotalRecipients},
		{scoped(&diploma.Template{}), &s.TotalTemplates},
		{scoped(&models.ScanLog{}).Where("scanned_at >= ?", now.With(at).BeginningOfDay()), &s.ScansToday},
		{scoped(&models.ScanLog{}).Where("scanned_at >= ?", now.With(at).BeginningOfWeek()), &s.ScansThisWeek},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	if err := db.Where("organization_id = ?", orgID).Order("issued_at DESC").Limit(5).Find(&s.RecentActivity).Error; err != nil {
		return nil, err
	}
	return s, nil
}

func GetDashboard(c *fiber.Ctx) error {
	stats, err := CollectStats(database.Database.Db, middleware.OrgID(c), time.Now().UTC())
	if err != nil {
		log.WithError(err).Error("could not collect dashboard stats")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch dashboard!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully.", stats)
}

// GetScanLogs returns the 100 latest scans of the organization, optionally for one diploma
func GetScanLogs(c *fiber.Ctx) error {
	db := database.Database.Db
	orgID := middleware.OrgID(c)

	query := db.Where("organization_id = ?", orgID)
	if diplomaID := c.Query("diploma_id"); diplomaID != "" {
		var count int64
		if err := db.Model(&diploma.Diploma{}).Where("id = ? AND organization_id = ?", diplomaID, orgID).Count(&count).Error; err != nil || count == 0 {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Diploma not found", nil)
		}
		query = query.Where("diploma_id = ?", diplomaID)
	}

	var logs []models.ScanLog
	if err := query.Order("scanned_at DESC").Limit(100).Find(&logs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch scan logs!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Scan logs fetched successfully.", logs)
}

func ClearScanLogs(c *fiber.Ctx) error {
	result := database.Database.Db.Where("organization_id = ?", middleware.OrgID(c)).Delete(&models.ScanLog{})
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to clear scan logs!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Scan logs cleared", fiber.Map{"deleted": result.RowsAffected})
}
