package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/nikhilporwal7/ResumeHelper/internal/domain"
	"github.com/nikhilporwal7/ResumeHelper/internal/middleware"
	"github.com/nikhilporwal7/ResumeHelper/internal/service"
)

type ResumeHandler struct {
	resumeService service.ResumeService
}

func NewResumeHandler(resumeService service.ResumeService) *ResumeHandler {
	return &ResumeHandler{resumeService: resumeService}
}

// ListResumes handles GET /api/resumes. When the request carries a valid
// bearer token the listing is scoped to that user; anonymous requests see
// everything.
func (h *ResumeHandler) ListResumes(c *gin.Context) {
	resumes, err := h.resumeService.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		serverError(c, err, "Failed to fetch resumes")
		return
	}
	c.JSON(http.StatusOK, resumes)
}

// GetResume handles GET /api/resumes/:id and returns the full aggregate.
func (h *ResumeHandler) GetResume(c *gin.Context) {
	id, ok := resumeID(c)
	if !ok {
		return
	}

	data, err := h.resumeService.Get(c.Request.Context(), id)
	if err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Resume not found"})
			return
		}
		serverError(c, err, "Failed to fetch resume")
		return
	}
	c.JSON(http.StatusOK, data)
}

// CreateResume handles POST /api/resumes: validates the full aggregate and
// saves it, assigning an id on first save.
func (h *ResumeHandler) CreateResume(c *gin.Context) {
	var data domain.ResumeData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid resume data", "details": err.Error()})
		return
	}

	saved, err := h.resumeService.Save(c.Request.Context(), &data, middleware.UserID(c))
	if err != nil {
		if validationFailed(c, err) {
			return
		}
		serverError(c, err, "Failed to create resume")
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// UpdateResume handles PUT /api/resumes/:id. The body id is forced to the
// path id and the save performs the same upsert as create.
func (h *ResumeHandler) UpdateResume(c *gin.Context) {
	id, ok := resumeID(c)
	if !ok {
		return
	}

	var data domain.ResumeData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid resume data", "details": err.Error()})
		return
	}
	data.ID = id

	saved, err := h.resumeService.Save(c.Request.Context(), &data, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrResumeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Resume not found"})
			return
		}
		if validationFailed(c, err) {
			return
		}
		serverError(c, err, "Failed to update resume")
		return
	}
	c.JSON(http.StatusOK, saved)
}

// DeleteResume handles DELETE /api/resumes/:id.
func (h *ResumeHandler) DeleteResume(c *gin.Context) {
	id, ok := resumeID(c)
	if !ok {
		return
	}

	if err := h.resumeService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrResumeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Resume not found"})
			return
		}
		serverError(c, err, "Failed to delete resume")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Resume deleted successfully"})
}

// RecalculateScore handles POST /api/resumes/:id/ats-score: recomputes the
// compatibility score and persists it onto the resume row.
func (h *ResumeHandler) RecalculateScore(c *gin.Context) {
	id, ok := resumeID(c)
	if !ok {
		return
	}

	score, err := h.resumeService.RecalculateScore(c.Request.Context(), id)
	if err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Resume not found"})
			return
		}
		serverError(c, err, "Failed to calculate ATS score")
		return
	}
	c.JSON(http.StatusOK, gin.H{"score": score})
}

// Analyze handles POST /api/ats/analyze: scores an aggregate from the
// request body without persisting anything. This is the same arithmetic the
// persisted scoring path runs.
func (h *ResumeHandler) Analyze(c *gin.Context) {
	var data domain.ResumeData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid resume data", "details": err.Error()})
		return
	}

	score, tips := h.resumeService.Analyze(&data)
	c.JSON(http.StatusOK, gin.H{"score": score, "tips": tips})
}

func resumeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid resume ID"})
		return 0, false
	}
	return id, true
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrResumeNotFound) || errors.Is(err, domain.ErrIncompleteResume)
}

// validationFailed writes a 400 with per-field detail when err is a
// validation failure, and reports whether it did.
func validationFailed(c *gin.Context, err error) bool {
	var many domain.ValidationErrors
	if errors.As(err, &many) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid resume data", "errors": many})
		return true
	}
	var single *domain.ValidationError
	if errors.As(err, &single) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid resume data", "errors": domain.ValidationErrors{*single}})
		return true
	}
	return false
}

// serverError logs the real failure and returns a generic 500; internal
// detail never reaches the client.
func serverError(c *gin.Context, err error, message string) {
	log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"message": message})
}
