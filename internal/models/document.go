package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DocumentType string

const (
	DocumentResume      DocumentType = "resume"
	DocumentCoverLetter DocumentType = "cover_letter"
	DocumentOther       DocumentType = "other"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocumentResume, DocumentCoverLetter, DocumentOther:
		return true
	}
	return false
}

// DocumentTypeForLabel infers a document type from a question label.
func DocumentTypeForLabel(label string) DocumentType {
	lower := strings.ToLower(label)
	switch {
	case strings.Contains(lower, "resume"), strings.Contains(lower, "cv"):
		return DocumentResume
	case strings.Contains(lower, "cover letter"):
		return DocumentCoverLetter
	default:
		return DocumentOther
	}
}

// Document references a blob by a server generated storage key.
type Document struct {
	ID               string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrganizationID   string         `gorm:"type:varchar(36);not null;index" json:"organization_id"`
	CandidateID      string         `gorm:"type:varchar(36);not null;index" json:"candidate_id"`
	Type             DocumentType   `gorm:"type:varchar(20);not null" json:"type"`
	StorageKey       string         `gorm:"type:varchar(512);uniqueIndex;not null" json:"-"`
	OriginalFilename string         `gorm:"type:varchar(255);not null" json:"original_filename"`
	MimeType         string         `gorm:"type:varchar(127);not null" json:"mime_type"`
	SizeBytes        int64          `gorm:"not null" json:"size_bytes"`
	ParsedContent    datatypes.JSON `json:"parsed_content,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	assignID(&d.ID)
	return nil
}
