package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/applicant-tracking-api/internal/models"
	"github.com/yukikurage/applicant-tracking-api/internal/repository"
	"github.com/yukikurage/applicant-tracking-api/internal/testutil"
)

func statusPtr(s models.ApplicationStatus) *models.ApplicationStatus { return &s }

func TestApplicationService_UpdateApplication(t *testing.T) {
	db := testutil.NewDB(t)
	org := testutil.CreateOrganization(t, db, "acme")
	other := testutil.CreateOrganization(t, db, "other")
	job := testutil.CreateJob(t, db, org, "Designer", "designer-0000000a", models.JobStatusOpen)
	candidate := testutil.CreateCandidate(t, db, org, "ada@example.com")
	app := &models.Application{OrganizationID: org.ID, CandidateID: candidate.ID, JobID: job.ID, Status: models.ApplicationNew}
	require.NoError(t, db.Create(app).Error)

	service := NewApplicationService(repository.NewApplicationRepository(db))
	ctx := context.Background()

	score := 87
	notes := "Strong portfolio"
	updated, err := service.UpdateApplication(ctx, org.ID, app.ID, UpdateApplicationInput{
		Status: statusPtr(models.ApplicationScreening),
		Score:  &score,
		Notes:  &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationScreening, updated.Status)

	var stored models.Application
	require.NoError(t, db.First(&stored, "id = ?", app.ID).Error)
	assert.Equal(t, models.ApplicationScreening, stored.Status)
	require.NotNil(t, stored.Score)
	assert.Equal(t, 87, *stored.Score)
	require.NotNil(t, stored.Notes)
	assert.Equal(t, notes, *stored.Notes)

	_, err = service.UpdateApplication(ctx, org.ID, app.ID, UpdateApplicationInput{Status: statusPtr(models.ApplicationHired)})
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	_, err = service.UpdateApplication(ctx, org.ID, app.ID, UpdateApplicationInput{Status: statusPtr("archived")})
	assert.ErrorIs(t, err, ErrInvalidApplicationStatus)

	tooHigh := 101
	_, err = service.UpdateApplication(ctx, org.ID, app.ID, UpdateApplicationInput{Score: &tooHigh})
	assert.ErrorIs(t, err, ErrInvalidScore)

	long := strings.Repeat("n", 5001)
	_, err = service.UpdateApplication(ctx, org.ID, app.ID, UpdateApplicationInput{Notes: &long})
	assert.ErrorIs(t, err, ErrNotesTooLong)

	_, err = service.UpdateApplication(ctx, other.ID, app.ID, UpdateApplicationInput{Score: &score})
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestApplicationService_RejectedCanReopen(t *testing.T) {
	db := testutil.NewDB(t)
	org := testutil.CreateOrganization(t, db, "acme")
	job := testutil.CreateJob(t, db, org, "Designer", "designer-0000000b", models.JobStatusOpen)
	candidate := testutil.CreateCandidate(t, db, org, "ada@example.com")
	app := &models.Application{OrganizationID: org.ID, CandidateID: candidate.ID, JobID: job.ID, Status: models.ApplicationRejected}
	require.NoError(t, db.Create(app).Error)

	service := NewApplicationService(repository.NewApplicationRepository(db))
	updated, err := service.UpdateApplication(context.Background(), org.ID, app.ID, UpdateApplicationInput{Status: statusPtr(models.ApplicationNew)})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationNew, updated.Status)
}
