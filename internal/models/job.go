package models

import (
	"time"

	"gorm.io/gorm"
)

type JobType string

const (
	JobTypeFullTime   JobType = "full_time"
	JobTypePartTime   JobType = "part_time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
)

func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship:
		return true
	}
	return false
}

type JobStatus string

const (
	JobStatusDraft    JobStatus = "draft"
	JobStatusOpen     JobStatus = "open"
	JobStatusClosed   JobStatus = "closed"
	JobStatusArchived JobStatus = "archived"
)

var jobTransitions = map[JobStatus][]JobStatus{
	JobStatusDraft:    {JobStatusOpen, JobStatusArchived},
	JobStatusOpen:     {JobStatusClosed, JobStatusArchived},
	JobStatusClosed:   {JobStatusOpen, JobStatusArchived},
	JobStatusArchived: {},
}

func (s JobStatus) Valid() bool {
	_, ok := jobTransitions[s]
	return ok
}

// CanTransitionTo reports whether a job may move from s to next.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	for _, allowed := range jobTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Job struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrganizationID string    `gorm:"type:varchar(36);not null;index" json:"organization_id"`
	Title          string    `gorm:"type:varchar(255);not null" json:"title"`
	Slug           string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	Description    string    `gorm:"type:text" json:"description"`
	Location       *string   `gorm:"type:varchar(255)" json:"location"`
	Type           JobType   `gorm:"type:varchar(20);not null;default:'full_time'" json:"type"`
	Status         JobStatus `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	Organization *Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"-"`
	Questions    []JobQuestion `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	Applications []Application `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	assignID(&j.ID)
	return nil
}
