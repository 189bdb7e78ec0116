package repository

import (
	"context"

	"github.com/yukikurage/applicant-tracking-api/internal/models"
	"gorm.io/gorm"
)

// GormJobRepository is a GORM implementation of JobRepository
type GormJobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(db *gorm.DB) JobRepository {
	return &GormJobRepository{db: db}
}

// Create creates a new job
func (r *GormJobRepository) Create(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// FindByID finds a job inside an organization
func (r *GormJobRepository) FindByID(ctx context.Context, organizationID, id string) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, organizationID).
		First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// FindOpenBySlug finds an open job by its public slug
func (r *GormJobRepository) FindOpenBySlug(ctx context.Context, slug string) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).
		Where("slug = ? AND status = ?", slug, models.JobStatusOpen).
		First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// UpdateStatus sets the status of a job inside an organization
func (r *GormJobRepository) UpdateStatus(ctx context.Context, organizationID, id string, status models.JobStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ? AND organization_id = ?", id, organizationID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListQuestions lists the questions of a job ordered by display order
func (r *GormJobRepository) ListQuestions(ctx context.Context, organizationID, jobID string) ([]models.JobQuestion, error) {
	var questions []models.JobQuestion
	if err := r.db.WithContext(ctx).
		Where("job_id = ? AND organization_id = ?", jobID, organizationID).
		Order("display_order ASC").
		Order("created_at ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

// CreateQuestion adds a question to a job
func (r *GormJobRepository) CreateQuestion(ctx context.Context, question *models.JobQuestion) error {
	return r.db.WithContext(ctx).Create(question).Error
}

// NextDisplayOrder returns the display order after the job's last question
func (r *GormJobRepository) NextDisplayOrder(ctx context.Context, organizationID, jobID string) (int, error) {
	var next int
	err := r.db.WithContext(ctx).Model(&models.JobQuestion{}).
		Where("job_id = ? AND organization_id = ?", jobID, organizationID).
		Select("COALESCE(MAX(display_order) + 1, 0)").
		Scan(&next).Error
	return next, err
}
