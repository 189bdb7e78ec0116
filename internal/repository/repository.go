package repository

import (
	"context"

	"github.com/yukikurage/applicant-tracking-api/internal/models"
)

// OrganizationRepository reads organizations and memberships
type OrganizationRepository interface {
	// FindByID finds an organization by ID
	FindByID(ctx context.Context, id string) (*models.Organization, error)

	// FindMembership finds the user's membership with its organization loaded
	FindMembership(ctx context.Context, organizationID, userID string) (*models.OrganizationMember, error)

	// ListMemberships lists the user's memberships with organizations loaded
	ListMemberships(ctx context.Context, userID string) ([]models.OrganizationMember, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// CreateAccount creates a user, their organization and the owner membership atomically
	CreateAccount(ctx context.Context, user *models.User, org *models.Organization) (*models.OrganizationMember, error)

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// JobRepository defines the interface for job and question data access
type JobRepository interface {
	// Create creates a new job
	Create(ctx context.Context, job *models.Job) error

	// FindByID finds a job inside an organization
	FindByID(ctx context.Context, organizationID, id string) (*models.Job, error)

	// FindOpenBySlug finds an open job by its public slug
	FindOpenBySlug(ctx context.Context, slug string) (*models.Job, error)

	// UpdateStatus sets the status of a job inside an organization
	UpdateStatus(ctx context.Context, organizationID, id string, status models.JobStatus) error

	// ListQuestions lists the questions of a job ordered by display order
	ListQuestions(ctx context.Context, organizationID, jobID string) ([]models.JobQuestion, error)

	// CreateQuestion adds a question to a job
	CreateQuestion(ctx context.Context, question *models.JobQuestion) error

	// NextDisplayOrder returns the display order after the job's last question
	NextDisplayOrder(ctx context.Context, organizationID, jobID string) (int, error)
}

// CandidateFill holds values that may populate empty candidate fields
type CandidateFill struct {
	FirstName string
	LastName  string
	Phone     *string
}

// CandidateRepository defines the interface for candidate data access
type CandidateRepository interface {
	// Create inserts a candidate; a taken (organization, email) pair
	// yields gorm.ErrDuplicatedKey
	Create(ctx context.Context, candidate *models.Candidate) error

	// FindByEmail finds a candidate by lowercased email inside an organization
	FindByEmail(ctx context.Context, organizationID, email string) (*models.Candidate, error)

	// FindByID finds a candidate inside an organization
	FindByID(ctx context.Context, organizationID, id string) (*models.Candidate, error)

	// FindWithDetails loads a candidate with applications and documents, newest first
	FindWithDetails(ctx context.Context, organizationID, id string) (*models.Candidate, error)

	// FillGaps writes fill values only into empty fields and refreshes updated_at
	FillGaps(ctx context.Context, candidate *models.Candidate, fill CandidateFill) error
}

// ApplicationRepository defines the interface for application data access
type ApplicationRepository interface {
	// Exists reports whether the candidate already applied to the job
	Exists(ctx context.Context, organizationID, candidateID, jobID string) (bool, error)

	// CreateWithResponses inserts an application and its responses in one transaction
	CreateWithResponses(ctx context.Context, application *models.Application, responses []models.QuestionResponse) error

	// FindByID finds an application inside an organization
	FindByID(ctx context.Context, organizationID, id string) (*models.Application, error)

	// Update saves status, score and notes
	Update(ctx context.Context, application *models.Application) error
}

// DocumentRepository defines the interface for document data access
type DocumentRepository interface {
	// CountByCandidate counts documents stored for a candidate
	CountByCandidate(ctx context.Context, organizationID, candidateID string) (int64, error)

	// Create inserts a document
	Create(ctx context.Context, document *models.Document) error

	// CreateWithResponse inserts a document and the response that references it in one transaction
	CreateWithResponse(ctx context.Context, document *models.Document, response *models.QuestionResponse) error

	// FindByID finds a document inside an organization
	FindByID(ctx context.Context, organizationID, id string) (*models.Document, error)

	// Delete removes a document inside an organization
	Delete(ctx context.Context, organizationID, id string) error
}
