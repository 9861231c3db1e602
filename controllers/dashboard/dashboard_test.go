package dashboardController

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diplomas/database"
	"diplomas/models"
	"diplomas/models/course"
	"diplomas/models/diploma"
)

func TestCollectStats(t *testing.T) {
	db, err := database.OpenMemory(strings.ReplaceAll(t.Name(), "/", "_"))
	require.NoError(t, err)

	org := models.Organization{Name: "Acme"}
	other := models.Organization{Name: "Other"}
	require.NoError(t, db.Create(&org).Error)
	require.NoError(t, db.Create(&other).Error)

	crs := course.Course{OrganizationID: org.ID, Name: "Go"}
	require.NoError(t, db.Create(&crs).Error)

	// Wednesday noon; the week starts on Sunday
	at := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)
	diplomas := []diploma.Diploma{
		{OrganizationID: org.ID, CourseID: crs.ID, RecipientID: "r1", CertificateID: "CERT-AAAAAA-0001", Status: diploma.StatusValid, IssuedAt: at.Add(-time.Hour)},
		{OrganizationID: org.ID, CourseID: crs.ID, RecipientID: "r2", CertificateID: "CERT-AAAAAA-0002", Status: diploma.StatusRevoked, IssuedAt: at.Add(-2 * time.Hour)},
		{OrganizationID: other.ID, CourseID: "c2", RecipientID: "r3", CertificateID: "CERT-AAAAAA-0003", Status: diploma.StatusValid, IssuedAt: at},
	}
	require.NoError(t, db.Create(&diplomas).Error)

	scans := []models.ScanLog{
		{OrganizationID: org.ID, DiplomaID: diplomas[0].ID, CertificateID: diplomas[0].CertificateID, ScannedAt: at.Add(-time.Hour)},
		{OrganizationID: org.ID, DiplomaID: diplomas[0].ID, CertificateID: diplomas[0].CertificateID, ScannedAt: at.Add(-48 * time.Hour)},
		{OrganizationID: org.ID, DiplomaID: diplomas[0].ID, CertificateID: diplomas[0].CertificateID, ScannedAt: at.Add(-10 * 24 * time.Hour)},
		{OrganizationID: other.ID, DiplomaID: diplomas[2].ID, CertificateID: diplomas[2].CertificateID, ScannedAt: at},
	}
	require.NoError(t, db.Create(&scans).Error)

	stats, err := CollectStats(db, org.ID, at)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalDiplomas)
	assert.Equal(t, int64(1), stats.ValidDiplomas)
	assert.Equal(t, int64(1), stats.RevokedDiplomas)
	assert.Equal(t, int64(1), stats.TotalCourses)
	assert.Equal(t, int64(0), stats.TotalRecipients)
	assert.Equal(t, int64(1), stats.ScansToday)
	assert.Equal(t, int64(2), stats.ScansThisWeek)
	require.Len(t, stats.RecentActivity, 2)
	assert.Equal(t, diplomas[0].ID, stats.RecentActivity[0].ID)
}
