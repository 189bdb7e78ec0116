package services

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/applicant-tracking-api/internal/models"
	"github.com/yukikurage/applicant-tracking-api/internal/repository"
	"github.com/yukikurage/applicant-tracking-api/internal/testutil"
)

func TestJobService_CreateJob(t *testing.T) {
	db := testutil.NewDB(t)
	org := testutil.CreateOrganization(t, db, "acme")
	service := NewJobService(repository.NewJobRepository(db))

	job, err := service.CreateJob(context.Background(), CreateJobInput{
		OrganizationID: org.ID,
		Title:          "  Senior Designer ",
	})
	require.NoError(t, err)

	assert.Equal(t, "Senior Designer", job.Title)
	assert.Equal(t, models.JobStatusDraft, job.Status)
	assert.Equal(t, models.JobTypeFullTime, job.Type)
	assert.Regexp(t, regexp.MustCompile(`^senior-designer-[0-9a-f]{8}$`), job.Slug)
	assert.Equal(t, job.ID[:8], job.Slug[len(job.Slug)-8:])

	_, err = service.CreateJob(context.Background(), CreateJobInput{OrganizationID: org.ID, Title: " "})
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = service.CreateJob(context.Background(), CreateJobInput{OrganizationID: org.ID, Title: "Ops", Type: "freelance"})
	assert.ErrorIs(t, err, ErrInvalidJobType)
}

func TestJobService_UpdateJobStatus(t *testing.T) {
	db := testutil.NewDB(t)
	org := testutil.CreateOrganization(t, db, "acme")
	other := testutil.CreateOrganization(t, db, "other")
	job := testutil.CreateJob(t, db, org, "Designer", "designer-00000001", models.JobStatusDraft)
	service := NewJobService(repository.NewJobRepository(db))
	ctx := context.Background()

	updated, err := service.UpdateJobStatus(ctx, org.ID, job.ID, models.JobStatusOpen)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusOpen, updated.Status)

	_, err = service.UpdateJobStatus(ctx, org.ID, job.ID, models.JobStatusOpen)
	assert.NoError(t, err)

	_, err = service.UpdateJobStatus(ctx, org.ID, job.ID, models.JobStatusDraft)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	_, err = service.UpdateJobStatus(ctx, org.ID, job.ID, "paused")
	assert.ErrorIs(t, err, ErrInvalidJobStatus)

	_, err = service.UpdateJobStatus(ctx, other.ID, job.ID, models.JobStatusClosed)
	assert.ErrorIs(t, err, ErrJobNotFound)

	var stored models.Job
	require.NoError(t, db.First(&stored, "id = ?", job.ID).Error)
	assert.Equal(t, models.JobStatusOpen, stored.Status)
}

func TestJobService_AddQuestion(t *testing.T) {
	db := testutil.NewDB(t)
	org := testutil.CreateOrganization(t, db, "acme")
	job := testutil.CreateJob(t, db, org, "Designer", "designer-00000002", models.JobStatusDraft)
	service := NewJobService(repository.NewJobRepository(db))
	ctx := context.Background()

	first, err := service.AddQuestion(ctx, AddQuestionInput{
		OrganizationID: org.ID,
		JobID:          job.ID,
		Type:           models.QuestionFileUpload,
		Label:          "Resume",
		Required:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, first.DisplayOrder)

	second, err := service.AddQuestion(ctx, AddQuestionInput{
		OrganizationID: org.ID,
		JobID:          job.ID,
		Type:           models.QuestionSingleSelect,
		Label:          "Work authorization",
		Options:        []string{"Yes", " ", "No"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, second.DisplayOrder)
	assert.Equal(t, []string{"Yes", "No"}, []string(second.Options))

	_, err = service.AddQuestion(ctx, AddQuestionInput{
		OrganizationID: org.ID,
		JobID:          job.ID,
		Type:           models.QuestionMultiSelect,
		Label:          "Languages",
	})
	assert.ErrorIs(t, err, ErrQuestionOptionsRequired)

	_, err = service.AddQuestion(ctx, AddQuestionInput{
		OrganizationID: org.ID,
		JobID:          job.ID,
		Type:           "essay",
		Label:          "Tell us",
	})
	assert.ErrorIs(t, err, ErrInvalidQuestionType)
}

func TestJobService_GetPublicJob(t *testing.T) {
	db := testutil.NewDB(t)
	org := testutil.CreateOrganization(t, db, "acme")
	open := testutil.CreateJob(t, db, org, "Designer", "designer-00000003", models.JobStatusOpen)
	testutil.CreateQuestion(t, db, open, models.QuestionLongText, "Second", false, 2)
	testutil.CreateQuestion(t, db, open, models.QuestionShortText, "First", true, 1)
	draft := testutil.CreateJob(t, db, org, "Draft", "draft-00000003", models.JobStatusDraft)
	service := NewJobService(repository.NewJobRepository(db))

	job, err := service.GetPublicJob(context.Background(), open.Slug)
	require.NoError(t, err)
	require.Len(t, job.Questions, 2)
	assert.Equal(t, "First", job.Questions[0].Label)
	assert.Equal(t, "Second", job.Questions[1].Label)

	_, err = service.GetPublicJob(context.Background(), draft.Slug)
	assert.ErrorIs(t, err, ErrJobNotAcceptingApplications)
}
