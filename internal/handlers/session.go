package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/krishkumar84/assignmentDude/internal/report"
	"github.com/krishkumar84/assignmentDude/internal/session"
)

// SessionHandler exposes the session lifecycle and report surface over HTTP.
type SessionHandler struct {
	log      *zap.Logger
	registry *session.Registry
	reports  *report.Generator
}

func NewSessionHandler(log *zap.Logger, registry *session.Registry) *SessionHandler {
	return &SessionHandler{
		log:      log,
		registry: registry,
		reports:  report.NewGenerator(),
	}
}

// Start creates a new proctoring session for a candidate.
func (h *SessionHandler) Start(c *gin.Context) {
	candidateName := c.PostForm("candidate_name")
	if candidateName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "candidate_name is required"})
		return
	}

	tracker := h.registry.Create(candidateName)

	c.JSON(http.StatusOK, gin.H{
		"session_id":     tracker.SessionID(),
		"candidate_name": tracker.CandidateName(),
		"start_time":     tracker.StartTime().Format(time.RFC3339Nano),
		"status":         "active",
	})
}

// End closes a session and returns its final report.
func (h *SessionHandler) End(c *gin.Context) {
	tracker, ok := h.lookup(c)
	if !ok {
		return
	}

	if err := tracker.End(); err != nil {
		if errors.Is(err, session.ErrInvalidState) {
			c.JSON(http.StatusConflict, gin.H{"error": "Session already ended"})
			return
		}
		h.log.Error("Failed to end session", zap.String("session_id", tracker.SessionID()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to end session"})
		return
	}

	snapshot := tracker.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"session_id": tracker.SessionID(),
		"end_time":   tracker.EndTime().Format(time.RFC3339Nano),
		"duration":   tracker.Duration(),
		"report":     h.reports.Generate(snapshot),
		"status":     "completed",
	})
}

// Report returns the current report for an open or closed session.
func (h *SessionHandler) Report(c *gin.Context) {
	tracker, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.reports.Generate(tracker.Snapshot()))
}

// ReportHTML renders the chart-based HTML report.
func (h *SessionHandler) ReportHTML(c *gin.Context) {
	tracker, ok := h.lookup(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := report.RenderHTML(h.reports.Generate(tracker.Snapshot()), c.Writer); err != nil {
		h.log.Error("Failed to render HTML report", zap.String("session_id", tracker.SessionID()), zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

// EventsCSV exports the session event log as CSV.
func (h *SessionHandler) EventsCSV(c *gin.Context) {
	tracker, ok := h.lookup(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=proctoring_data_%s.csv", tracker.SessionID()))
	if err := report.WriteCSV(tracker.Snapshot(), c.Writer); err != nil {
		h.log.Error("Failed to write CSV export", zap.String("session_id", tracker.SessionID()), zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

// List returns lightweight summaries of all known sessions.
func (h *SessionHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sessions": h.registry.List()})
}

// lookup resolves the session id path parameter, writing the 404 response
// itself when the session is unknown.
func (h *SessionHandler) lookup(c *gin.Context) (*session.Tracker, bool) {
	sessionID := c.Param("session_id")
	tracker, err := h.registry.Get(sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, false
	}
	return tracker, true
}
