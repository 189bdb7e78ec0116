package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/applicant-tracking-api/internal/constants"
	"github.com/yukikurage/applicant-tracking-api/internal/dto"
	apierrors "github.com/yukikurage/applicant-tracking-api/internal/errors"
	"github.com/yukikurage/applicant-tracking-api/internal/intake"
	"github.com/yukikurage/applicant-tracking-api/internal/logging"
	"github.com/yukikurage/applicant-tracking-api/internal/middleware"
	"github.com/yukikurage/applicant-tracking-api/internal/models"
	"github.com/yukikurage/applicant-tracking-api/internal/services"
	"go.uber.org/zap"
)

// DocumentHandler serves recruiter-facing document endpoints.
type DocumentHandler struct {
	documentService *services.DocumentService
	maxRequestBytes int64
	logger          *zap.Logger
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documentService *services.DocumentService, maxRequestBytes int64, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		maxRequestBytes: maxRequestBytes,
		logger:          logger,
	}
}

// UploadDocument handles POST /api/candidates/:id/documents
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	orgID, ok := middleware.GetOrganizationID(c)
	if !ok {
		apierrors.Forbidden(c, "No active organization")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxRequestBytes)
	header, err := c.FormFile("file")
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			apierrors.PayloadTooLarge(c, "Request body too large")
			return
		}
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeMissingField, "file is required")
		return
	}

	file, err := header.Open()
	if err != nil {
		apierrors.BadRequest(c, "Invalid file")
		return
	}
	defer file.Close()

	// One byte past the limit is enough for the validator to reject it.
	data, err := io.ReadAll(io.LimitReader(file, constants.MaxFileSize+1))
	if err != nil {
		apierrors.BadRequest(c, "Invalid file")
		return
	}

	doc, err := h.documentService.Upload(c.Request.Context(), services.UploadDocumentInput{
		OrganizationID: orgID,
		CandidateID:    c.Param("id"),
		Type:           models.DocumentType(c.PostForm("type")),
		Filename:       header.Filename,
		Data:           data,
	})
	if err != nil {
		h.respondDocumentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToDocumentDTO(*doc))
}

// DownloadDocument handles GET /api/documents/:id/download
func (h *DocumentHandler) DownloadDocument(c *gin.Context) {
	doc, ok := middleware.GetDocument(c)
	if !ok {
		apierrors.NotFound(c, "Document not found")
		return
	}
	h.serve(c, doc, "attachment")
}

// PreviewDocument handles GET /api/documents/:id/preview. Only PDFs can be
// shown inline.
func (h *DocumentHandler) PreviewDocument(c *gin.Context) {
	doc, ok := middleware.GetDocument(c)
	if !ok {
		apierrors.NotFound(c, "Document not found")
		return
	}
	if doc.MimeType != intake.MimePDF {
		apierrors.UnsupportedMediaType(c, "Preview is only available for PDF documents")
		return
	}

	c.Header("X-Frame-Options", "SAMEORIGIN")
	h.serve(c, doc, "inline")
}

// DeleteDocument handles DELETE /api/documents/:id
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	doc, ok := middleware.GetDocument(c)
	if !ok {
		apierrors.NotFound(c, "Document not found")
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), doc); err != nil {
		h.respondDocumentError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *DocumentHandler) serve(c *gin.Context, doc *models.Document, disposition string) {
	obj, err := h.documentService.Open(c.Request.Context(), doc)
	if err != nil {
		h.respondDocumentError(c, err)
		return
	}
	defer obj.Body.Close()

	size := obj.Size
	if size <= 0 {
		size = doc.SizeBytes
	}

	c.DataFromReader(http.StatusOK, size, doc.MimeType, obj.Body, map[string]string{
		"Content-Disposition":    mime.FormatMediaType(disposition, map[string]string{"filename": doc.OriginalFilename}),
		"Cache-Control":          "private, no-store",
		"X-Content-Type-Options": "nosniff",
	})
}

func (h *DocumentHandler) respondDocumentError(c *gin.Context, err error) {
	if respondUploadError(c, err) {
		return
	}

	switch {
	case errors.Is(err, services.ErrCandidateNotFound):
		apierrors.NotFound(c, "Candidate not found")
	case errors.Is(err, services.ErrDocumentNotFound), errors.Is(err, services.ErrDocumentBlobMissing):
		apierrors.NotFound(c, "Document not found")
	case errors.Is(err, services.ErrInvalidDocumentType):
		apierrors.BadRequest(c, "Invalid document type")
	default:
		logging.FromContext(c.Request.Context(), h.logger).Error("document request failed", zap.Error(err))
		apierrors.InternalError(c, "Failed to process document")
	}
}
