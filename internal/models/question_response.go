package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuestionResponse stores one answer as a JSON value. For file upload
// questions the value is the created document id.
type QuestionResponse struct {
	ID             string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrganizationID string         `gorm:"type:varchar(36);not null;index" json:"organization_id"`
	ApplicationID  string         `gorm:"type:varchar(36);not null;index" json:"application_id"`
	QuestionID     string         `gorm:"type:varchar(36);not null;index" json:"question_id"`
	Value          datatypes.JSON `gorm:"not null" json:"value"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (r *QuestionResponse) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	return nil
}
