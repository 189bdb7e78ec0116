package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionShortText    QuestionType = "short_text"
	QuestionLongText     QuestionType = "long_text"
	QuestionSingleSelect QuestionType = "single_select"
	QuestionMultiSelect  QuestionType = "multi_select"
	QuestionNumber       QuestionType = "number"
	QuestionDate         QuestionType = "date"
	QuestionURL          QuestionType = "url"
	QuestionCheckbox     QuestionType = "checkbox"
	QuestionFileUpload   QuestionType = "file_upload"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionShortText, QuestionLongText, QuestionSingleSelect, QuestionMultiSelect,
		QuestionNumber, QuestionDate, QuestionURL, QuestionCheckbox, QuestionFileUpload:
		return true
	}
	return false
}

// RequiresOptions reports whether the question type needs a choice list.
func (t QuestionType) RequiresOptions() bool {
	return t == QuestionSingleSelect || t == QuestionMultiSelect
}

type JobQuestion struct {
	ID             string                      `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrganizationID string                      `gorm:"type:varchar(36);not null;index" json:"organization_id"`
	JobID          string                      `gorm:"type:varchar(36);not null;index" json:"job_id"`
	Type           QuestionType                `gorm:"type:varchar(20);not null" json:"type"`
	Label          string                      `gorm:"type:varchar(500);not null" json:"label"`
	Description    *string                     `gorm:"type:text" json:"description"`
	Required       bool                        `gorm:"not null;default:false" json:"required"`
	Options        datatypes.JSONSlice[string] `json:"options"`
	DisplayOrder   int                         `gorm:"not null;default:0" json:"display_order"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

func (q *JobQuestion) BeforeCreate(tx *gorm.DB) error {
	assignID(&q.ID)
	return nil
}
