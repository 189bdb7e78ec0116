// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/applicant-tracking-api/internal/database"
	"github.com/yukikurage/applicant-tracking-api/internal/models"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))

	database.SetDB(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

// CreateOrganization inserts an organization with a unique slug.
func CreateOrganization(t *testing.T, db *gorm.DB, name string) *models.Organization {
	t.Helper()
	org := &models.Organization{Name: name, Slug: name + "-" + uuid.NewString()[:8]}
	require.NoError(t, db.Create(org).Error)
	return org
}

// CreateUser inserts a user and makes them a member of org.
func CreateUser(t *testing.T, db *gorm.DB, email string, org *models.Organization) *models.User {
	t.Helper()
	user := &models.User{Email: email, Name: "Test User", PasswordHash: "hashed"}
	require.NoError(t, db.Create(user).Error)
	if org != nil {
		require.NoError(t, db.Create(&models.OrganizationMember{
			OrganizationID: org.ID,
			UserID:         user.ID,
			Role:           models.RoleOwner,
			JoinedAt:       time.Now(),
		}).Error)
	}
	return user
}

// CreateJob inserts a job with the given slug and status.
func CreateJob(t *testing.T, db *gorm.DB, org *models.Organization, title, slug string, status models.JobStatus) *models.Job {
	t.Helper()
	job := &models.Job{
		OrganizationID: org.ID,
		Title:          title,
		Slug:           slug,
		Status:         status,
		Type:           models.JobTypeFullTime,
	}
	require.NoError(t, db.Create(job).Error)
	return job
}

// CreateQuestion adds a question to job.
func CreateQuestion(t *testing.T, db *gorm.DB, job *models.Job, qType models.QuestionType, label string, required bool, order int) *models.JobQuestion {
	t.Helper()
	q := &models.JobQuestion{
		OrganizationID: job.OrganizationID,
		JobID:          job.ID,
		Type:           qType,
		Label:          label,
		Required:       required,
		DisplayOrder:   order,
	}
	if qType.RequiresOptions() {
		q.Options = datatypes.JSONSlice[string]{"Yes", "No"}
	}
	require.NoError(t, db.Create(q).Error)
	return q
}

// CreateCandidate inserts a candidate.
func CreateCandidate(t *testing.T, db *gorm.DB, org *models.Organization, email string) *models.Candidate {
	t.Helper()
	c := &models.Candidate{OrganizationID: org.ID, FirstName: "Test", LastName: "Candidate", Email: email}
	require.NoError(t, db.Create(c).Error)
	return c
}

// SamplePDF is the smallest byte stream detected as a PDF.
func SamplePDF() []byte {
	return []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
}
