package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/krishkumar84/assignmentDude/internal/models"
	"github.com/krishkumar84/assignmentDude/internal/router"
	"github.com/krishkumar84/assignmentDude/internal/session"
)

func setupRouter(t *testing.T) (*gin.Engine, *session.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	registry := session.NewRegistry(models.DefaultPolicy(), zap.NewNop())
	return router.Setup(zap.NewNop(), registry), registry
}

func startSession(t *testing.T, r http.Handler, candidate string) string {
	t.Helper()
	form := url.Values{"candidate_name": {candidate}}
	req := httptest.NewRequest(http.MethodPost, "/api/session/start", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		SessionID string `json:"session_id"`
		Status    string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.SessionID)
	require.Equal(t, "active", body.Status)
	return body.SessionID
}

func TestStartRequiresCandidateName(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/session/start", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionLifecycle(t *testing.T) {
	r, _ := setupRouter(t)
	sessionID := startSession(t, r, "Jane Candidate")

	// Report on the open, event-free session: perfect score.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/session/"+sessionID+"/report", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var report models.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 100.0, report.IntegrityScore)
	assert.Equal(t, "active", report.SessionInfo.Status)
	assert.Equal(t, []string{"Session completed with good integrity - no major concerns"}, report.Recommendations)

	// End the session.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/session/"+sessionID+"/end", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var endBody struct {
		Status   string  `json:"status"`
		Duration float64 `json:"duration"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &endBody))
	assert.Equal(t, "completed", endBody.Status)
	assert.GreaterOrEqual(t, endBody.Duration, 0.0)

	// Ending twice is a conflict.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/session/"+sessionID+"/end", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReportUnknownSession(t *testing.T) {
	r, _ := setupRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/session/session_missing/report", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListSessions(t *testing.T) {
	r, _ := setupRouter(t)
	first := startSession(t, r, "First")
	second := startSession(t, r, "Second")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Sessions []session.Summary `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Sessions, 2)

	ids := []string{body.Sessions[0].SessionID, body.Sessions[1].SessionID}
	assert.Contains(t, ids, first)
	assert.Contains(t, ids, second)
}

func TestEventsCSVExport(t *testing.T) {
	r, registry := setupRouter(t)
	sessionID := startSession(t, r, "Jane Candidate")

	tracker, err := registry.Get(sessionID)
	require.NoError(t, err)
	_, err = tracker.ClassifyAndUpdate(models.FocusResult{FaceDetected: false}, nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/session/"+sessionID+"/events.csv", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "timestamp,event_type,confidence,details", lines[0])
	assert.Contains(t, lines[1], "no_face")
}

func TestReportHTMLExport(t *testing.T) {
	r, _ := setupRouter(t)
	sessionID := startSession(t, r, "Jane Candidate")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/session/"+sessionID+"/report/html", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Event Summary")
}
