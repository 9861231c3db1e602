package courseController

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"diplomas/database"
	"diplomas/middleware"
	"diplomas/models/course"
	"diplomas/models/diploma"
	"diplomas/validators"
	courseValidator "diplomas/validators/course"
)

type countRow struct {
	CourseID string
	Total    int64
}

// attachCounts fills the recipient and diploma counters of the given courses
func attachCounts(db *gorm.DB, courses []course.Course) error {
	if len(courses) == 0 {
		return nil
	}
	ids := make([]string, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
	}

	var recipients, diplomas []countRow
	if err := db.Model(&course.Recipient{}).Select("course_id, COUNT(*) AS total").
		Where("course_id IN ?", ids).Group("course_id").Scan(&recipients).Error; err != nil {
		return err
	}
	if err := db.Model(&diploma.Diploma{}).Select("course_id, COUNT(*) AS total").
		Where("course_id IN ?", ids).Group("course_id").Scan(&diplomas).Error; err != nil {
		return err
	}

	rc := make(map[string]int64, len(recipients))
	for _, r := range recipients {
		rc[r.CourseID] = r.Total
	}
	dc := make(map[string]int64, len(diplomas))
	for _, d := range diplomas {
		dc[d.CourseID] = d.Total
	}
	for i := range courses {
		courses[i].RecipientCount = rc[courses[i].ID]
		courses[i].DiplomaCount = dc[courses[i].ID]
	}
	return nil
}

func GetCourses(c *fiber.Ctx) error {
	db := database.Database.Db

	var courses []course.Course
	if err := db.Where("organization_id = ?", middleware.OrgID(c)).Order("created_at DESC").Limit(1000).Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}
	if err := attachCounts(db, courses); err != nil {
		log.WithError(err).Error("could not count course recipients")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully.", courses)
}

func CreateCourse(c *fiber.Ctx) error {
	reqData := validators.Validated[courseValidator.CourseRequest](c, "validatedCourse")

	newCourse := course.Course{
		OrganizationID: middleware.OrgID(c),
		Name:           reqData.Name,
		Description:    reqData.Description,
		Instructor:     reqData.Instructor,
		DurationHours:  reqData.DurationHours,
		StartDate:      reqData.StartDate,
		EndDate:        reqData.EndDate,
	}
	if err := database.Database.Db.Create(&newCourse).Error; err != nil {
		log.WithError(err).Error("Error creating course")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully.", newCourse)
}

func findCourse(db *gorm.DB, c *fiber.Ctx) (*course.Course, error) {
	var crs course.Course
	if err := db.Where("id = ? AND organization_id = ?", c.Params("id"), middleware.OrgID(c)).First(&crs).Error; err != nil {
		return nil, err
	}
	return &crs, nil
}

func notFoundOr500(c *fiber.Ctx, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
}

func GetCourse(c *fiber.Ctx) error {
	db := database.Database.Db
	crs, err := findCourse(db, c)
	if err != nil {
		return notFoundOr500(c, err)
	}

	list := []course.Course{*crs}
	if err := attachCounts(db, list); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully.", list[0])
}

func UpdateCourse(c *fiber.Ctx) error {
	reqData := validators.Validated[courseValidator.CourseRequest](c, "validatedCourse")
	db := database.Database.Db

	crs, err := findCourse(db, c)
	if err != nil {
		return notFoundOr500(c, err)
	}

	// issued diplomas keep their snapshot of the previous values
	err = db.Model(crs).Select("name", "description", "instructor", "duration_hours", "start_date", "end_date").Updates(course.Course{
		Name:          reqData.Name,
		Description:   reqData.Description,
		Instructor:    reqData.Instructor,
		DurationHours: reqData.DurationHours,
		StartDate:     reqData.StartDate,
		EndDate:       reqData.EndDate,
	}).Error
	if err != nil {
		log.WithError(err).Error("Error updating course")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	list := []course.Course{*crs}
	_ = attachCounts(db, list)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully.", list[0])
}

// DeleteCourse removes the course and its recipients
func DeleteCourse(c *fiber.Ctx) error {
	db := database.Database.Db
	crs, err := findCourse(db, c)
	if err != nil {
		return notFoundOr500(c, err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", crs.ID).Delete(&course.Recipient{}).Error; err != nil {
			return err
		}
		return tx.Delete(crs).Error
	})
	if err != nil {
		log.WithError(err).Error("Error deleting course")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted", nil)
}
