// Package server wires repositories, services and handlers into a gin engine.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/applicant-tracking-api/internal/constants"
	"github.com/yukikurage/applicant-tracking-api/internal/handlers"
	"github.com/yukikurage/applicant-tracking-api/internal/logging"
	"github.com/yukikurage/applicant-tracking-api/internal/middleware"
	"github.com/yukikurage/applicant-tracking-api/internal/ratelimit"
	"github.com/yukikurage/applicant-tracking-api/internal/repository"
	"github.com/yukikurage/applicant-tracking-api/internal/services"
	"github.com/yukikurage/applicant-tracking-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the collaborators the router needs. Everything here is built
// by main, or by tests with in-memory replacements.
type Deps struct {
	DB              *gorm.DB
	Logger          *zap.Logger
	SessionStore    sessions.Store
	BlobStore       storage.BlobStore
	ApplyLimiter    ratelimit.Limiter
	FeedbackLimiter ratelimit.Limiter
	Feedback        services.FeedbackConfig

	DemoOrgSlug      string
	MaxRequestBytes  int64
	TrustedProxies   []string
	CORSAllowOrigins []string
}

// NewRouter builds the HTTP engine.
func NewRouter(deps Deps) (*gin.Engine, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxRequestBytes := deps.MaxRequestBytes
	if maxRequestBytes <= 0 {
		maxRequestBytes = 25 << 20
	}

	r := gin.New()
	if err := r.SetTrustedProxies(deps.TrustedProxies); err != nil {
		return nil, err
	}
	r.Use(gin.Recovery())
	r.Use(logging.RequestLogger(logger))
	r.Use(sessions.Sessions(constants.SessionCookieName, deps.SessionStore))

	// Repositories
	userRepo := repository.NewUserRepository(deps.DB)
	orgRepo := repository.NewOrganizationRepository(deps.DB)
	jobRepo := repository.NewJobRepository(deps.DB)
	candidateRepo := repository.NewCandidateRepository(deps.DB)
	appRepo := repository.NewApplicationRepository(deps.DB)
	docRepo := repository.NewDocumentRepository(deps.DB)

	// Services
	uploader := storage.NewUploader(deps.BlobStore, logger)
	authService := services.NewAuthService(userRepo)
	orgService := services.NewOrganizationService(orgRepo, deps.DemoOrgSlug)
	jobService := services.NewJobService(jobRepo)
	candidateService := services.NewCandidateService(candidateRepo)
	applicationService := services.NewApplicationService(appRepo)
	documentService := services.NewDocumentService(docRepo, candidateRepo, uploader, logger)
	feedbackService := services.NewFeedbackService(deps.Feedback, logger)
	intakeService := services.NewIntakeService(services.IntakeDeps{
		JobRepo:       jobRepo,
		AppRepo:       appRepo,
		DocRepo:       docRepo,
		Candidates:    candidateService,
		Organizations: orgService,
		Uploader:      uploader,
		Logger:        logger,
	})

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, orgService)
	publicHandler := handlers.NewPublicApplicationHandler(intakeService, jobService, maxRequestBytes, logger)
	jobHandler := handlers.NewJobHandler(jobService)
	candidateHandler := handlers.NewCandidateHandler(candidateService, applicationService)
	documentHandler := handlers.NewDocumentHandler(documentService, maxRequestBytes, logger)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService, authService, logger)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Applicant Tracking API is running",
		})
	})

	api := r.Group("/api")
	{
		// Career pages are embedded on customer sites, so only this group
		// answers cross-origin requests.
		public := api.Group("/public")
		public.Use(publicCORS(deps.CORSAllowOrigins))
		{
			public.GET("/jobs/:slug", publicHandler.GetJob)
			public.POST("/jobs/:slug/apply",
				middleware.RateLimit(deps.ApplyLimiter, middleware.ClientIPKey("apply"), "Too many applications. Please try again later.", logger),
				publicHandler.Apply,
			)
		}

		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", authHandler.GetCurrentUser)
			auth.POST("/active-organization", authHandler.SetActiveOrganization)
		}

		protected := api.Group("")
		protected.Use(
			middleware.RequireAuth(),
			middleware.RequireActiveOrganization(),
			middleware.RejectReadOnlyWrites(orgService),
		)
		{
			protected.POST("/jobs", jobHandler.CreateJob)
			protected.PATCH("/jobs/:id", jobHandler.UpdateJob)
			protected.POST("/jobs/:id/questions", jobHandler.AddQuestion)

			protected.GET("/candidates/:id", candidateHandler.GetCandidate)
			protected.POST("/candidates/:id/documents", documentHandler.UploadDocument)
			protected.PATCH("/applications/:id", candidateHandler.UpdateApplication)

			docs := protected.Group("/documents/:id")
			docs.Use(middleware.RequireDocumentAccess(logger))
			{
				docs.GET("/download", documentHandler.DownloadDocument)
				docs.GET("/preview", documentHandler.PreviewDocument)
				docs.DELETE("", documentHandler.DeleteDocument)
			}

			protected.POST("/feedback",
				middleware.RateLimit(deps.FeedbackLimiter, middleware.UserKey("feedback"), "Too many feedback submissions. Please try again later.", logger),
				feedbackHandler.SubmitFeedback,
			)
		}
	}

	return r, nil
}

func publicCORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
