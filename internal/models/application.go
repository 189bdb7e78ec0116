package models

import (
	"time"

	"gorm.io/gorm"
)

type ApplicationStatus string

const (
	ApplicationNew       ApplicationStatus = "new"
	ApplicationScreening ApplicationStatus = "screening"
	ApplicationInterview ApplicationStatus = "interview"
	ApplicationOffer     ApplicationStatus = "offer"
	ApplicationHired     ApplicationStatus = "hired"
	ApplicationRejected  ApplicationStatus = "rejected"
)

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationNew:       {ApplicationScreening, ApplicationInterview, ApplicationRejected},
	ApplicationScreening: {ApplicationInterview, ApplicationOffer, ApplicationRejected},
	ApplicationInterview: {ApplicationOffer, ApplicationRejected},
	ApplicationOffer:     {ApplicationHired, ApplicationRejected},
	ApplicationHired:     {},
	ApplicationRejected:  {ApplicationNew},
}

func (s ApplicationStatus) Valid() bool {
	_, ok := applicationTransitions[s]
	return ok
}

// CanTransitionTo reports whether an application may move from s to next.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Application is unique per (organization, candidate, job); the index is the
// authoritative guard against concurrent duplicate submissions.
type Application struct {
	ID             string            `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrganizationID string            `gorm:"type:varchar(36);not null;uniqueIndex:idx_applications_org_candidate_job" json:"organization_id"`
	CandidateID    string            `gorm:"type:varchar(36);not null;uniqueIndex:idx_applications_org_candidate_job" json:"candidate_id"`
	JobID          string            `gorm:"type:varchar(36);not null;uniqueIndex:idx_applications_org_candidate_job;index" json:"job_id"`
	Status         ApplicationStatus `gorm:"type:varchar(20);not null;default:'new'" json:"status"`
	Score          *int              `json:"score"`
	Notes          *string           `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`

	// Relations
	Job       *Job               `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Responses []QuestionResponse `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"responses,omitempty"`
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	assignID(&a.ID)
	return nil
}
