package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/applicant-tracking-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestCandidateRepository_Postgres_UniqueViolationIsDuplicatedKey(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCandidateRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "candidates"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_candidates_org_email"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Candidate{
		OrganizationID: "org-1",
		FirstName:      "Jane",
		LastName:       "Doe",
		Email:          "jane@x.com",
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_Postgres_FindOpenBySlugFiltersStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJobRepository(db)

	rows := sqlmock.NewRows([]string{"id", "organization_id", "title", "slug", "status"}).
		AddRow("job-1", "org-1", "Designer", "designer-ab12cd34", "open")
	mock.ExpectQuery(`SELECT \* FROM "jobs" WHERE`).
		WithArgs("designer-ab12cd34", "open", sqlmock.AnyArg()).
		WillReturnRows(rows)

	job, err := repo.FindOpenBySlug(context.Background(), "designer-ab12cd34")
	require.NoError(t, err)
	assert.Equal(t, "org-1", job.OrganizationID)
	assert.Equal(t, models.JobStatusOpen, job.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
