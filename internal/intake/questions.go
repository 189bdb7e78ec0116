package intake

import (
	"strings"

	"github.com/yukikurage/applicant-tracking-api/internal/models"
)

// MissingAnswersError lists the labels of unanswered required questions in display order.
type MissingAnswersError struct {
	Labels []string
}

func (e *MissingAnswersError) Error() string {
	return "Missing required answers: " + strings.Join(e.Labels, ", ")
}

// FileAnswer is an accepted upload paired with its file_upload question.
type FileAnswer struct {
	Question models.JobQuestion
	File     UploadedFile
}

// Answers holds the responses and files that belong to the job.
type Answers struct {
	Responses []Response
	// Files follow question display order.
	Files []FileAnswer
}

// ValidateAnswers checks required questions and drops anything that does not
// belong to the job. questions must be ordered by display order.
func ValidateAnswers(questions []models.JobQuestion, responses []Response, files map[string]UploadedFile) (*Answers, error) {
	answered := make(map[string]bool, len(responses))
	for _, r := range responses {
		answered[r.QuestionID] = true
	}

	byID := make(map[string]models.JobQuestion, len(questions))
	var missing []string
	for _, q := range questions {
		byID[q.ID] = q
		if !q.Required {
			continue
		}
		if q.Type == models.QuestionFileUpload {
			if _, ok := files[q.ID]; !ok {
				missing = append(missing, q.Label)
			}
			continue
		}
		if !answered[q.ID] {
			missing = append(missing, q.Label)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingAnswersError{Labels: missing}
	}

	answers := &Answers{}
	for _, r := range responses {
		q, ok := byID[r.QuestionID]
		// File question answers are always the server-created document id.
		if !ok || q.Type == models.QuestionFileUpload {
			continue
		}
		answers.Responses = append(answers.Responses, r)
	}
	for _, q := range questions {
		if q.Type != models.QuestionFileUpload {
			continue
		}
		if f, ok := files[q.ID]; ok {
			answers.Files = append(answers.Files, FileAnswer{Question: q, File: f})
		}
	}
	return answers, nil
}
