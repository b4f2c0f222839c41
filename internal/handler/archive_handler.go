package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nikhilporwal7/ResumeHelper/internal/domain"
	"github.com/nikhilporwal7/ResumeHelper/internal/service"
)

type ArchiveHandler struct {
	archiveService service.ArchiveService
}

func NewArchiveHandler(archiveService service.ArchiveService) *ArchiveHandler {
	return &ArchiveHandler{archiveService: archiveService}
}

// PublishResume handles POST /api/archive/resumes: publishes an immutable
// snapshot of the aggregate in the body and returns the content id plus the
// gateway URL. Publishing is independent of the relational store.
func (h *ArchiveHandler) PublishResume(c *gin.Context) {
	var data domain.ResumeData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid resume data", "details": err.Error()})
		return
	}

	data.BeforeSave()
	if err := data.Validate(); err != nil {
		if validationFailed(c, err) {
			return
		}
		serverError(c, err, "Failed to publish resume")
		return
	}

	receipt, err := h.archiveService.Publish(c.Request.Context(), &data)
	if err != nil {
		// surface the gateway failure to the caller, the UI shows it verbatim
		c.JSON(http.StatusBadGateway, gin.H{"message": "Failed to publish resume", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

// GetArchivedResume handles GET /api/archive/resumes/:txId.
func (h *ArchiveHandler) GetArchivedResume(c *gin.Context) {
	contentID := strings.TrimSpace(c.Param("txId"))
	if contentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid content ID"})
		return
	}

	data, err := h.archiveService.Retrieve(c.Request.Context(), contentID)
	if err != nil {
		if errors.Is(err, domain.ErrArchiveNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Archived resume not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"message": "Failed to retrieve resume", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, data)
}

// ListArchivedResumes handles GET /api/archive/resumes: every snapshot
// published under this application's process id. Entries that failed to
// parse come back with a null resume body.
func (h *ArchiveHandler) ListArchivedResumes(c *gin.Context) {
	entries, err := h.archiveService.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"message": "Failed to query archive", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"resumes": entries, "total": len(entries)})
}
