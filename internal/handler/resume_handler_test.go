package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilporwal7/ResumeHelper/internal/domain"
	"github.com/nikhilporwal7/ResumeHelper/internal/service"
	"github.com/nikhilporwal7/ResumeHelper/internal/storage"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	store := storage.NewMemoryStorage()
	svc := service.NewResumeService(store, nil, 0)
	h := NewResumeHandler(svc)

	router := gin.New()
	api := router.Group("/api")
	resumes := api.Group("/resumes")
	{
		resumes.GET("", h.ListResumes)
		resumes.GET("/:id", h.GetResume)
		resumes.POST("", h.CreateResume)
		resumes.PUT("/:id", h.UpdateResume)
		resumes.DELETE("/:id", h.DeleteResume)
		resumes.POST("/:id/ats-score", h.RecalculateScore)
	}
	api.POST("/ats/analyze", h.Analyze)
	return router
}

func validBody() map[string]any {
	return map[string]any{
		"title":    "Test Resume",
		"template": "minimal",
		"personalInfo": map[string]any{
			"firstName":         "Ana",
			"lastName":          "Silva",
			"professionalTitle": "Engineer",
			"email":             "ana@example.com",
			"phone":             "555-0144",
			"location":          "Porto",
			"linkedin":          "https://linkedin.com/in/anasilva",
		},
		"summary": map[string]any{
			"summary": "Engineer who enjoys building reliable backend services and tooling.",
		},
		"experience": []map[string]any{
			{
				"jobTitle":     "Engineer",
				"company":      "Web Co",
				"startDate":    "2020-01-01",
				"description":  "Backend work.",
				"bulletPoints": []string{"Shipped API", "Cut incidents", "Mentored juniors"},
			},
		},
		"education": []map[string]any{
			{"degree": "BSc", "institution": "FEUP", "startDate": "2014-09-01", "endDate": "2018-06-01"},
		},
		"skills": map[string]any{"skills": []string{"Go", "Postgres", "Redis", "Docker", "Grafana"}},
	}
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateResume(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/resumes", validBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var saved domain.ResumeData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.NotZero(t, saved.ID)
	assert.Equal(t, "Test Resume", saved.Title)
}

func TestCreateResumeValidationFailure(t *testing.T) {
	router := newTestRouter()

	body := validBody()
	body["template"] = "sparkly"
	delete(body["personalInfo"].(map[string]any), "email")

	w := doJSON(t, router, http.MethodPost, "/api/resumes", body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Errors domain.ValidationErrors `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Errors)

	fields := make(map[string]bool)
	for _, e := range resp.Errors {
		fields[e.Field] = true
	}
	assert.True(t, fields["template"])
	assert.True(t, fields["email"])
}

func TestGetResume(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/resumes", validBody())
	require.Equal(t, http.StatusCreated, w.Code)
	var saved domain.ResumeData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/resumes/%d", saved.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var loaded domain.ResumeData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loaded))
	assert.Equal(t, saved.ID, loaded.ID)
	assert.Equal(t, "Ana", loaded.PersonalInfo.FirstName)
}

func TestGetResumeNotFound(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodGet, "/api/resumes/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/resumes/banana", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateResumeForcesPathID(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/resumes", validBody())
	require.Equal(t, http.StatusCreated, w.Code)
	var saved domain.ResumeData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))

	body := validBody()
	body["id"] = 424242 // ignored, the path wins
	body["title"] = "Renamed Resume"

	w = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/resumes/%d", saved.ID), body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated domain.ResumeData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, saved.ID, updated.ID)
	assert.Equal(t, "Renamed Resume", updated.Title)
}

func TestUpdateResumeNotFound(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPut, "/api/resumes/555", validBody())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteResume(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/resumes", validBody())
	require.Equal(t, http.StatusCreated, w.Code)
	var saved domain.ResumeData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/resumes/%d", saved.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/resumes/%d", saved.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecalculateScoreEndpoint(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/resumes", validBody())
	require.Equal(t, http.StatusCreated, w.Code)
	var saved domain.ResumeData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))

	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/resumes/%d/ats-score", saved.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Score int `json:"score"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Greater(t, resp.Score, 0)
	assert.LessOrEqual(t, resp.Score, 100)

	// the recomputed score is persisted onto the row
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/resumes/%d", saved.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var loaded domain.ResumeData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loaded))
	assert.Equal(t, resp.Score, loaded.ATSScore)
}

func TestRecalculateScoreNotFound(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/resumes/31337/ats-score", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalyzeEndpoint(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/ats/analyze", validBody())
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Score int `json:"score"`
		Tips  []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"tips"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Greater(t, resp.Score, 0)
	assert.Len(t, resp.Tips, 5)
}

func TestListResumes(t *testing.T) {
	router := newTestRouter()

	for i := 0; i < 3; i++ {
		body := validBody()
		body["title"] = fmt.Sprintf("Resume %d", i)
		w := doJSON(t, router, http.MethodPost, "/api/resumes", body)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/api/resumes", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rows []domain.Resume
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	assert.Len(t, rows, 3)
}
