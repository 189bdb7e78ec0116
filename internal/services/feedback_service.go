package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/go-github/v68/github"
	"github.com/yukikurage/applicant-tracking-api/internal/logging"
	"go.uber.org/zap"
)

const (
	maxIssueBodyChars = 60000
	notProvided       = "_not provided_"
	notShared         = "Not shared"
)

var (
	ErrFeedbackNotConfigured = errors.New("feedback is not configured on this instance")
	ErrFeedbackTooLarge      = errors.New("feedback payload is too large for a GitHub issue body")
	ErrFeedbackUpstream      = errors.New("failed to create GitHub issue")
	ErrScreenshotRequired    = errors.New("screenshot is required when sharing screenshot is enabled")
	ErrInvalidScreenshot     = errors.New("screenshot must be a valid image data URL")
)

var screenshotDataURL = regexp.MustCompile(`^data:image/(png|jpeg|jpg|webp);base64,[A-Za-z0-9+/=]+$`)

var feedbackLabels = map[string][]string{
	"bug":     {"bug", "source:in-app"},
	"feature": {"enhancement", "source:in-app"},
}

// FeedbackDiagnostics is browser context the reporter chose to share.
type FeedbackDiagnostics struct {
	UserAgent *string `json:"userAgent" binding:"omitempty,max=1000"`
	Language  *string `json:"language" binding:"omitempty,max=50"`
	Platform  *string `json:"platform" binding:"omitempty,max=100"`
	Timezone  *string `json:"timezone" binding:"omitempty,max=100"`
	Viewport  *string `json:"viewport" binding:"omitempty,max=100"`
	Screen    *string `json:"screen" binding:"omitempty,max=100"`
}

type FeatureContext struct {
	UserProblem     string `json:"userProblem" binding:"max=1000"`
	DesiredWorkflow string `json:"desiredWorkflow" binding:"max=1000"`
	ExpectedImpact  string `json:"expectedImpact" binding:"max=1000"`
}

type BugContext struct {
	StepsToReproduce string `json:"stepsToReproduce" binding:"max=1500"`
	ExpectedResult   string `json:"expectedResult" binding:"max=1000"`
	ActualResult     string `json:"actualResult" binding:"max=1000"`
}

// FeedbackInput is an in-app bug report or feature request.
type FeedbackInput struct {
	Type                   string               `json:"type" binding:"required,oneof=bug feature"`
	Title                  string               `json:"title" binding:"required,min=5,max=200"`
	Description            string               `json:"description" binding:"required,min=10,max=5000"`
	CurrentURL             *string              `json:"currentUrl" binding:"omitempty,url,max=2000"`
	IncludeReporterContext bool                 `json:"includeReporterContext"`
	IncludeEmail           bool                 `json:"includeEmail"`
	IncludeScreenshot      bool                 `json:"includeScreenshot"`
	ScreenshotDataURL      *string              `json:"screenshotDataUrl" binding:"omitempty,max=45000"`
	ScreenshotFileName     *string              `json:"screenshotFileName" binding:"omitempty,max=255"`
	Diagnostics            *FeedbackDiagnostics `json:"diagnostics"`
	FeatureContext         *FeatureContext      `json:"featureContext"`
	BugContext             *BugContext          `json:"bugContext"`
}

// Reporter identifies the signed-in user sending feedback.
type Reporter struct {
	Name  string
	Email string
}

// FeedbackConfig points the service at a GitHub repository.
type FeedbackConfig struct {
	Token string
	// Repo is "owner/name".
	Repo string
	// APIBaseURL overrides https://api.github.com, e.g. for GitHub Enterprise.
	APIBaseURL string
	HTTPClient *http.Client
}

// Enabled reports whether a token and a repository are configured.
func (c FeedbackConfig) Enabled() bool {
	owner, repo, ok := strings.Cut(c.Repo, "/")
	return c.Token != "" && ok && owner != "" && repo != ""
}

// FeedbackService files user feedback as GitHub issues.
type FeedbackService struct {
	cfg    FeedbackConfig
	client *github.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewFeedbackService creates a new FeedbackService
func NewFeedbackService(cfg FeedbackConfig, logger *zap.Logger) *FeedbackService {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	client := github.NewClient(httpClient).WithAuthToken(cfg.Token)
	if cfg.APIBaseURL != "" {
		baseURL, err := url.Parse(strings.TrimRight(cfg.APIBaseURL, "/") + "/")
		if err != nil {
			logger.Error("invalid GitHub API base URL, feedback disabled", zap.Error(err))
			cfg.Token = ""
		} else {
			client.BaseURL = baseURL
		}
	}
	return &FeedbackService{
		cfg:    cfg,
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// Enabled reports whether feedback can be submitted.
func (s *FeedbackService) Enabled() bool {
	return s.cfg.Enabled()
}

// Validate checks the rules that struct tags cannot express.
func (s *FeedbackService) Validate(input FeedbackInput) error {
	if input.ScreenshotDataURL != nil && !screenshotDataURL.MatchString(*input.ScreenshotDataURL) {
		return ErrInvalidScreenshot
	}
	if input.IncludeScreenshot && (input.ScreenshotDataURL == nil || *input.ScreenshotDataURL == "") {
		return ErrScreenshotRequired
	}
	return nil
}

// Submit creates the issue and returns its URL.
func (s *FeedbackService) Submit(ctx context.Context, reporter Reporter, input FeedbackInput) (string, error) {
	if !s.Enabled() {
		return "", ErrFeedbackNotConfigured
	}
	if err := s.Validate(input); err != nil {
		return "", err
	}

	body := s.buildIssueBody(reporter, input)
	if len([]rune(body)) > maxIssueBodyChars {
		return "", ErrFeedbackTooLarge
	}

	labels := feedbackLabels[input.Type]
	owner, repo, _ := strings.Cut(s.cfg.Repo, "/")
	issue, resp, err := s.client.Issues.Create(ctx, owner, repo, &github.IssueRequest{
		Title:  github.Ptr(fmt.Sprintf("[%s] %s", feedbackTypeLabel(input.Type), input.Title)),
		Body:   github.Ptr(body),
		Labels: &labels,
	})
	if err != nil {
		fields := []zap.Field{zap.Error(err)}
		if resp != nil {
			fields = append(fields, zap.Int("status", resp.StatusCode))
		}
		logging.FromContext(ctx, s.logger).Error("failed to create GitHub issue", fields...)
		return "", ErrFeedbackUpstream
	}
	return issue.GetHTMLURL(), nil
}

func feedbackTypeLabel(feedbackType string) string {
	if feedbackType == "bug" {
		return "Bug Report"
	}
	return "Feature Request"
}

func (s *FeedbackService) buildIssueBody(reporter Reporter, input FeedbackInput) string {
	emoji := "💡"
	if input.Type == "bug" {
		emoji = "🐛"
	}

	lines := []string{
		fmt.Sprintf("## %s %s", emoji, feedbackTypeLabel(input.Type)),
		"",
		"### Summary",
		"",
		input.Description,
		"",
	}

	if input.Type == "bug" {
		var bc BugContext
		if input.BugContext != nil {
			bc = *input.BugContext
		}
		lines = append(lines,
			"### Bug Reproduction",
			"",
			"- Steps to reproduce: "+orNotProvided(bc.StepsToReproduce),
			"- Expected result: "+orNotProvided(bc.ExpectedResult),
			"- Actual result: "+orNotProvided(bc.ActualResult),
			"",
		)
	} else {
		var fc FeatureContext
		if input.FeatureContext != nil {
			fc = *input.FeatureContext
		}
		lines = append(lines,
			"### Feature Context",
			"",
			"- User problem: "+orNotProvided(fc.UserProblem),
			"- Desired workflow: "+orNotProvided(fc.DesiredWorkflow),
			"- Expected impact: "+orNotProvided(fc.ExpectedImpact),
			"",
		)
	}

	if input.IncludeScreenshot && input.ScreenshotDataURL != nil {
		filename := "screenshot.jpg"
		if input.ScreenshotFileName != nil {
			filename = *input.ScreenshotFileName
		}
		lines = append(lines,
			"### Screenshot Context",
			"",
			"Filename: "+escapeTableValue(filename),
			"",
			"<details>",
			"<summary>Screenshot data URL (base64)</summary>",
			"",
			"```text",
			*input.ScreenshotDataURL,
			"```",
			"</details>",
			"",
		)
	}

	lines = append(lines,
		"---",
		"",
		"### Reporter Context",
		"",
		"| Field | Value |",
		"|-------|-------|",
	)
	if input.IncludeReporterContext {
		lines = append(lines, tableRow("Reporter", reporter.Name))
	}
	if input.IncludeEmail {
		lines = append(lines, tableRow("Email", reporter.Email))
	}
	if input.IncludeReporterContext && input.CurrentURL != nil && *input.CurrentURL != "" {
		lines = append(lines, tableRow("Page", *input.CurrentURL))
	}
	lines = append(lines, tableRow("Submitted", s.now().UTC().Format("2006-01-02T15:04:05.000Z")))

	if d := input.Diagnostics; d != nil {
		lines = append(lines,
			"",
			"### Technical Context",
			"",
			"| Field | Value |",
			"|-------|-------|",
			tableRow("User Agent", orNotShared(d.UserAgent)),
			tableRow("Language", orNotShared(d.Language)),
			tableRow("Platform", orNotShared(d.Platform)),
			tableRow("Timezone", orNotShared(d.Timezone)),
			tableRow("Viewport", orNotShared(d.Viewport)),
			tableRow("Screen", orNotShared(d.Screen)),
		)
	}

	lines = append(lines, "", "_Submitted via in-app feedback_")
	return strings.Join(lines, "\n")
}

var lineBreaks = regexp.MustCompile(`[\r\n]+`)

func escapeTableValue(value string) string {
	value = strings.TrimSpace(lineBreaks.ReplaceAllString(value, " "))
	return strings.ReplaceAll(value, "|", `\|`)
}

func tableRow(field, value string) string {
	return fmt.Sprintf("| **%s** | %s |", field, escapeTableValue(value))
}

func orNotProvided(value string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return notProvided
}

func orNotShared(value *string) string {
	if value == nil {
		return notShared
	}
	return *value
}
