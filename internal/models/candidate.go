package models

import (
	"time"

	"gorm.io/gorm"
)

// Candidate is unique per (organization, lowercased email).
type Candidate struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrganizationID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_candidates_org_email" json:"organization_id"`
	FirstName      string    `gorm:"type:varchar(255);not null" json:"first_name"`
	LastName       string    `gorm:"type:varchar(255);not null" json:"last_name"`
	Email          string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_candidates_org_email" json:"email"`
	Phone          *string   `gorm:"type:varchar(50)" json:"phone"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	Applications []Application `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"applications,omitempty"`
	Documents    []Document    `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"documents,omitempty"`
}

func (c *Candidate) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}
