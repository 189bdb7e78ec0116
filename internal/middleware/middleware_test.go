package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/applicant-tracking-api/internal/constants"
	"github.com/yukikurage/applicant-tracking-api/internal/models"
	"github.com/yukikurage/applicant-tracking-api/internal/ratelimit"
	"github.com/yukikurage/applicant-tracking-api/internal/testutil"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newSessionRouter exposes /session to seed session values for later requests.
func newSessionRouter() *gin.Engine {
	router := gin.New()
	router.Use(sessions.Sessions("ats_session", cookie.NewStore([]byte("test-secret"))))
	router.POST("/session", func(c *gin.Context) {
		session := sessions.Default(c)
		if v := c.Query("user"); v != "" {
			session.Set(constants.ContextKeyUserID, v)
		}
		if v := c.Query("org"); v != "" {
			session.Set(constants.ContextKeyOrganizationID, v)
		}
		if err := session.Save(); err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	return router
}

func seedSession(t *testing.T, router *gin.Engine, query string) []*http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/session?"+query, nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	return w.Result().Cookies()
}

func doRequest(router *gin.Engine, method, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	router := newSessionRouter()
	router.GET("/me", RequireAuth(), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		orgID, _ := GetOrganizationID(c)
		c.String(http.StatusOK, userID+"/"+orgID)
	})

	w := doRequest(router, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodGet, "/me", seedSession(t, router, "user=u1"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "No active organization")

	w = doRequest(router, http.MethodGet, "/me", seedSession(t, router, "user=u1&org=o1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1/o1", w.Body.String())
}

type demoChecker struct{ slug string }

func (d demoChecker) IsReadOnly(org *models.Organization) bool {
	return org.ReadOnly || org.Slug == d.slug
}

func TestRequireActiveOrganizationAndReadOnly(t *testing.T) {
	db := testutil.NewDB(t)
	demo := testutil.CreateOrganization(t, db, "demo")
	other := testutil.CreateOrganization(t, db, "other")
	user := testutil.CreateUser(t, db, "grace@example.com", demo)

	router := newSessionRouter()
	api := router.Group("/api", RequireAuth(), RequireActiveOrganization(), RejectReadOnlyWrites(demoChecker{slug: demo.Slug}))
	api.GET("/jobs", func(c *gin.Context) { c.Status(http.StatusOK) })
	api.POST("/jobs", func(c *gin.Context) { c.Status(http.StatusCreated) })

	cookies := seedSession(t, router, "user="+user.ID+"&org="+demo.ID)
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/api/jobs", cookies).Code)

	w := doRequest(router, http.MethodPost, "/api/jobs", cookies)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "PREVIEW_READ_ONLY")

	notMember := seedSession(t, router, "user="+user.ID+"&org="+other.ID)
	assert.Equal(t, http.StatusForbidden, doRequest(router, http.MethodGet, "/api/jobs", notMember).Code)
}

func TestRequireDocumentAccess(t *testing.T) {
	db := testutil.NewDB(t)
	org := testutil.CreateOrganization(t, db, "acme")
	other := testutil.CreateOrganization(t, db, "other")
	candidate := testutil.CreateCandidate(t, db, org, "ada@example.com")
	doc := &models.Document{
		OrganizationID:   org.ID,
		CandidateID:      candidate.ID,
		Type:             models.DocumentResume,
		StorageKey:       org.ID + "/" + candidate.ID + "/doc.pdf",
		OriginalFilename: "cv.pdf",
		MimeType:         "application/pdf",
		SizeBytes:        10,
	}
	require.NoError(t, db.Create(doc).Error)

	router := newSessionRouter()
	router.GET("/documents/:id", RequireAuth(), RequireDocumentAccess(zap.NewNop()), func(c *gin.Context) {
		loaded, ok := GetDocument(c)
		require.True(t, ok)
		c.String(http.StatusOK, loaded.OriginalFilename)
	})

	w := doRequest(router, http.MethodGet, "/documents/"+doc.ID, seedSession(t, router, "user=u1&org="+org.ID))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cv.pdf", w.Body.String())

	w = doRequest(router, http.MethodGet, "/documents/"+doc.ID, seedSession(t, router, "user=u1&org="+other.ID))
	assert.Equal(t, http.StatusNotFound, w.Code)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w = doRequest(router, http.MethodGet, "/documents/"+doc.ID, seedSession(t, router, "user=u1&org="+org.ID))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "Document not found")
}

type brokenLimiter struct{}

func (brokenLimiter) Check(ctx context.Context, key string) (ratelimit.Result, error) {
	return ratelimit.Result{}, errors.New("redis: connection refused")
}

func TestRateLimit(t *testing.T) {
	router := gin.New()
	router.POST("/apply", RateLimit(ratelimit.NewSlidingWindow(2, time.Minute), ClientIPKey("apply"), "Too many applications", zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	w := doRequest(router, http.MethodPost, "/apply", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Remaining"))

	w = doRequest(router, http.MethodPost, "/apply", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	w = doRequest(router, http.MethodPost, "/apply", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "Too many applications")
}

func TestRateLimit_FailsOpen(t *testing.T) {
	router := gin.New()
	router.POST("/apply", RateLimit(brokenLimiter{}, ClientIPKey("apply"), "", zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	w := doRequest(router, http.MethodPost, "/apply", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}
