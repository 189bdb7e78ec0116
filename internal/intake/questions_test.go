package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/applicant-tracking-api/internal/models"
)

func testQuestions() []models.JobQuestion {
	return []models.JobQuestion{
		{ID: "q-resume", Type: models.QuestionFileUpload, Label: "Resume", Required: true, DisplayOrder: 0},
		{ID: "q-why", Type: models.QuestionLongText, Label: "Why us?", Required: true, DisplayOrder: 1},
		{ID: "q-years", Type: models.QuestionNumber, Label: "Years of experience", Required: false, DisplayOrder: 2},
		{ID: "q-cover", Type: models.QuestionFileUpload, Label: "Cover letter", Required: false, DisplayOrder: 3},
		{ID: "q-remote", Type: models.QuestionCheckbox, Label: "Remote OK", Required: true, DisplayOrder: 4},
	}
}

func TestValidateAnswers_ListsEveryMissingLabel(t *testing.T) {
	responses := []Response{{QuestionID: "q-years", Value: Value{Kind: KindNumber, Number: 3}}}

	_, err := ValidateAnswers(testQuestions(), responses, nil)

	var missing *MissingAnswersError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"Resume", "Why us?", "Remote OK"}, missing.Labels)
	assert.Equal(t, "Missing required answers: Resume, Why us?, Remote OK", missing.Error())
}

func TestValidateAnswers_ResponseDoesNotSatisfyFileQuestion(t *testing.T) {
	responses := []Response{
		{QuestionID: "q-resume", Value: StringValue("some-id")},
		{QuestionID: "q-why", Value: StringValue("Because")},
		{QuestionID: "q-remote", Value: Value{Kind: KindBool, Bool: true}},
	}

	_, err := ValidateAnswers(testQuestions(), responses, nil)

	var missing *MissingAnswersError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"Resume"}, missing.Labels)
}

func TestValidateAnswers_DropsForeignIDs(t *testing.T) {
	responses := []Response{
		{QuestionID: "q-why", Value: StringValue("Because")},
		{QuestionID: "q-remote", Value: Value{Kind: KindBool, Bool: true}},
		{QuestionID: "other-job-question", Value: StringValue("injected")},
		{QuestionID: "q-resume", Value: StringValue("forged-document-id")},
	}
	files := map[string]UploadedFile{
		"q-cover":  {Filename: "cover.pdf", Data: samplePDF()},
		"q-resume": {Filename: "cv.pdf", Data: samplePDF()},
		"q-why":    {Filename: "stray.pdf", Data: samplePDF()},
		"foreign":  {Filename: "x.pdf", Data: samplePDF()},
	}

	answers, err := ValidateAnswers(testQuestions(), responses, files)
	require.NoError(t, err)

	require.Len(t, answers.Responses, 2)
	assert.Equal(t, "q-why", answers.Responses[0].QuestionID)
	assert.Equal(t, "q-remote", answers.Responses[1].QuestionID)

	require.Len(t, answers.Files, 2)
	assert.Equal(t, "q-resume", answers.Files[0].Question.ID)
	assert.Equal(t, "q-cover", answers.Files[1].Question.ID)
}

func TestValidateAnswers_NoQuestions(t *testing.T) {
	answers, err := ValidateAnswers(nil, []Response{{QuestionID: "x", Value: StringValue("y")}}, nil)
	require.NoError(t, err)
	assert.Empty(t, answers.Responses)
	assert.Empty(t, answers.Files)
}
