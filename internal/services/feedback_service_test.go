package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }

type issuePayload struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Labels []string `json:"labels"`
}

func newTestFeedbackService(baseURL string) *FeedbackService {
	s := NewFeedbackService(FeedbackConfig{
		Token:      "ghp_test",
		Repo:       "acme/hiring",
		APIBaseURL: baseURL,
	}, zap.NewNop())
	s.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestFeedbackService_Submit(t *testing.T) {
	var (
		gotPath    string
		gotHeaders http.Header
		gotBody    issuePayload
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeaders = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"html_url":"https://github.com/acme/hiring/issues/7"}`))
	}))
	defer server.Close()

	service := newTestFeedbackService(server.URL)
	url, err := service.Submit(context.Background(), Reporter{Name: "Grace | Ops", Email: "grace@example.com"}, FeedbackInput{
		Type:                   "bug",
		Title:                  "Upload hangs",
		Description:            "The resume upload never finishes.",
		CurrentURL:             strPtr("https://app.example.com/candidates"),
		IncludeReporterContext: true,
		IncludeEmail:           false,
		BugContext:             &BugContext{StepsToReproduce: "Open a candidate\nUpload a PDF"},
		Diagnostics:            &FeedbackDiagnostics{Language: strPtr("en-GB")},
	})
	require.NoError(t, err)

	assert.Equal(t, "https://github.com/acme/hiring/issues/7", url)
	assert.Equal(t, "/repos/acme/hiring/issues", gotPath)
	assert.Equal(t, "Bearer ghp_test", gotHeaders.Get("Authorization"))
	assert.Equal(t, "2022-11-28", gotHeaders.Get("X-GitHub-Api-Version"))

	assert.Equal(t, "[Bug Report] Upload hangs", gotBody.Title)
	assert.Equal(t, []string{"bug", "source:in-app"}, gotBody.Labels)
	assert.True(t, strings.HasPrefix(gotBody.Body, "## 🐛 Bug Report\n\n### Summary\n\nThe resume upload never finishes."))
	assert.Contains(t, gotBody.Body, "- Expected result: _not provided_")
	assert.Contains(t, gotBody.Body, `| **Reporter** | Grace \| Ops |`)
	assert.NotContains(t, gotBody.Body, "grace@example.com")
	assert.Contains(t, gotBody.Body, "| **Page** | https://app.example.com/candidates |")
	assert.Contains(t, gotBody.Body, "| **Submitted** | 2026-03-01T12:00:00.000Z |")
	assert.Contains(t, gotBody.Body, "| **Language** | en-GB |")
	assert.Contains(t, gotBody.Body, "| **Screen** | Not shared |")
	assert.True(t, strings.HasSuffix(gotBody.Body, "_Submitted via in-app feedback_"))
}

func TestFeedbackService_FeatureRequestLabels(t *testing.T) {
	var gotBody issuePayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"html_url":"https://github.com/acme/hiring/issues/8"}`))
	}))
	defer server.Close()

	_, err := newTestFeedbackService(server.URL).Submit(context.Background(), Reporter{}, FeedbackInput{
		Type:        "feature",
		Title:       "Bulk export",
		Description: "Export candidates as CSV please.",
	})
	require.NoError(t, err)

	assert.Equal(t, "[Feature Request] Bulk export", gotBody.Title)
	assert.Equal(t, []string{"enhancement", "source:in-app"}, gotBody.Labels)
	assert.Contains(t, gotBody.Body, "### Feature Context")
	assert.NotContains(t, gotBody.Body, "### Technical Context")
	assert.NotContains(t, gotBody.Body, "**Reporter**")
}

func TestFeedbackService_UpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Bad credentials"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestFeedbackService(server.URL).Submit(context.Background(), Reporter{}, FeedbackInput{
		Type:        "bug",
		Title:       "Broken",
		Description: "Something is broken here.",
	})
	assert.ErrorIs(t, err, ErrFeedbackUpstream)
}

func TestFeedbackService_Rejections(t *testing.T) {
	disabled := NewFeedbackService(FeedbackConfig{}, zap.NewNop())
	assert.False(t, disabled.Enabled())
	_, err := disabled.Submit(context.Background(), Reporter{}, FeedbackInput{Type: "bug"})
	assert.ErrorIs(t, err, ErrFeedbackNotConfigured)
	assert.False(t, NewFeedbackService(FeedbackConfig{Token: "t", Repo: "no-slash"}, zap.NewNop()).Enabled())

	service := newTestFeedbackService("http://127.0.0.1:0")
	input := FeedbackInput{Type: "bug", Title: "Broken", Description: "Something is broken here.", IncludeScreenshot: true}
	_, err = service.Submit(context.Background(), Reporter{}, input)
	assert.ErrorIs(t, err, ErrScreenshotRequired)

	input.ScreenshotDataURL = strPtr("data:image/gif;base64,AAAA")
	_, err = service.Submit(context.Background(), Reporter{}, input)
	assert.ErrorIs(t, err, ErrInvalidScreenshot)

	input.IncludeScreenshot = false
	input.ScreenshotDataURL = nil
	input.Description = strings.Repeat("x", maxIssueBodyChars)
	_, err = service.Submit(context.Background(), Reporter{}, input)
	assert.ErrorIs(t, err, ErrFeedbackTooLarge)
}
