package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to JobStatus
		want     bool
	}{
		{JobStatusDraft, JobStatusOpen, true},
		{JobStatusDraft, JobStatusClosed, false},
		{JobStatusOpen, JobStatusClosed, true},
		{JobStatusClosed, JobStatusOpen, true},
		{JobStatusOpen, JobStatusDraft, false},
		{JobStatusArchived, JobStatusOpen, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestApplicationStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, ApplicationNew.CanTransitionTo(ApplicationScreening))
	assert.True(t, ApplicationOffer.CanTransitionTo(ApplicationHired))
	assert.True(t, ApplicationRejected.CanTransitionTo(ApplicationNew))
	assert.False(t, ApplicationNew.CanTransitionTo(ApplicationHired))
	assert.False(t, ApplicationHired.CanTransitionTo(ApplicationRejected))
	assert.False(t, ApplicationStatus("unknown").Valid())
}

func TestDocumentTypeForLabel(t *testing.T) {
	assert.Equal(t, DocumentResume, DocumentTypeForLabel("Resume"))
	assert.Equal(t, DocumentResume, DocumentTypeForLabel("Upload your CV"))
	assert.Equal(t, DocumentCoverLetter, DocumentTypeForLabel("Cover Letter (optional)"))
	assert.Equal(t, DocumentOther, DocumentTypeForLabel("Portfolio"))
}
