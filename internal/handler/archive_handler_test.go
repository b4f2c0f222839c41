package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilporwal7/ResumeHelper/internal/domain"
	"github.com/nikhilporwal7/ResumeHelper/internal/service"
)

// stubArchive satisfies service.ArchiveService without touching a gateway.
type stubArchive struct {
	receipt    *service.ArchiveReceipt
	publishErr error
	retrieved  *domain.ResumeData
	entries    []service.ArchiveEntry
	listErr    error
}

func (s *stubArchive) Publish(_ context.Context, _ *domain.ResumeData) (*service.ArchiveReceipt, error) {
	return s.receipt, s.publishErr
}

func (s *stubArchive) Retrieve(_ context.Context, id string) (*domain.ResumeData, error) {
	if s.retrieved == nil {
		return nil, domain.ErrArchiveNotFound
	}
	return s.retrieved, nil
}

func (s *stubArchive) ListAll(_ context.Context) ([]service.ArchiveEntry, error) {
	return s.entries, s.listErr
}

func newArchiveRouter(stub *stubArchive) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewArchiveHandler(stub)

	router := gin.New()
	archive := router.Group("/api/archive")
	{
		archive.POST("/resumes", h.PublishResume)
		archive.GET("/resumes", h.ListArchivedResumes)
		archive.GET("/resumes/:txId", h.GetArchivedResume)
	}
	return router
}

func TestPublishResume(t *testing.T) {
	stub := &stubArchive{receipt: &service.ArchiveReceipt{
		ID:  "abc123",
		URL: "https://arweave.net/abc123",
	}}
	router := newArchiveRouter(stub)

	w := doJSON(t, router, http.MethodPost, "/api/archive/resumes", validBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var receipt service.ArchiveReceipt
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &receipt))
	assert.Equal(t, "abc123", receipt.ID)
	assert.Equal(t, "https://arweave.net/abc123", receipt.URL)
}

func TestPublishResumeValidationFailure(t *testing.T) {
	router := newArchiveRouter(&stubArchive{})

	body := validBody()
	delete(body, "title")

	w := doJSON(t, router, http.MethodPost, "/api/archive/resumes", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublishResumeGatewayFailure(t *testing.T) {
	stub := &stubArchive{publishErr: errors.New("gateway responded 503 Service Unavailable")}
	router := newArchiveRouter(stub)

	w := doJSON(t, router, http.MethodPost, "/api/archive/resumes", validBody())
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "503")
}

func TestGetArchivedResume(t *testing.T) {
	data := &domain.ResumeData{Title: "Archived", Template: domain.TemplateMinimal}
	router := newArchiveRouter(&stubArchive{retrieved: data})

	w := doJSON(t, router, http.MethodGet, "/api/archive/resumes/abc123", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var loaded domain.ResumeData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loaded))
	assert.Equal(t, "Archived", loaded.Title)
}

func TestGetArchivedResumeNotFound(t *testing.T) {
	router := newArchiveRouter(&stubArchive{})

	w := doJSON(t, router, http.MethodGet, "/api/archive/resumes/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListArchivedResumes(t *testing.T) {
	stub := &stubArchive{entries: []service.ArchiveEntry{
		{ID: "one", Resume: &domain.ResumeData{Title: "First"}},
		{ID: "two", Resume: nil},
	}}
	router := newArchiveRouter(stub)

	w := doJSON(t, router, http.MethodGet, "/api/archive/resumes", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Resumes []service.ArchiveEntry `json:"resumes"`
		Total   int                    `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Resumes, 2)
	assert.Equal(t, "First", resp.Resumes[0].Resume.Title)
	assert.Nil(t, resp.Resumes[1].Resume)
}
