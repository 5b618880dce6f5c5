package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/krishkumar84/assignmentDude/internal/models"
	"github.com/krishkumar84/assignmentDude/internal/session"
)

// frameMessage is what the perception client sends per processed frame. The
// perception models run client-side; the server only receives their results.
type frameMessage struct {
	Type    string                   `json:"type"`
	Focus   *models.FocusResult      `json:"focus"`
	Objects []models.ObjectDetection `json:"objects"`
}

// StreamHandler ingests per-frame perception results over a WebSocket and
// streams back detection events and running session stats.
type StreamHandler struct {
	log      *zap.Logger
	registry *session.Registry
	upgrader websocket.Upgrader
}

func NewStreamHandler(log *zap.Logger, registry *session.Registry) *StreamHandler {
	return &StreamHandler{
		log:      log,
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The browser client runs on a different origin than the API.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve upgrades the connection and runs the per-frame ingestion loop. Each
// frame produces at most one events message (only when events fired) followed
// by one stats message. A malformed frame degrades to an error message for
// that frame; the session state stays intact and the loop continues.
func (h *StreamHandler) Serve(c *gin.Context) {
	sessionID := c.Param("session_id")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("WebSocket upgrade failed", zap.String("session_id", sessionID), zap.Error(err))
		return
	}
	defer conn.Close()

	tracker, err := h.registry.Get(sessionID)
	if err != nil {
		conn.WriteJSON(gin.H{"error": "Session not found"})
		return
	}

	h.log.Info("Client connected to session stream", zap.String("session_id", sessionID))

	for {
		var frame frameMessage
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("WebSocket read error", zap.String("session_id", sessionID), zap.Error(err))
			} else {
				h.log.Info("Client disconnected from session stream", zap.String("session_id", sessionID))
			}
			return
		}

		if frame.Type != "frame" {
			continue
		}

		if err := h.processFrame(conn, tracker, frame); err != nil {
			return
		}
	}
}

func (h *StreamHandler) processFrame(conn *websocket.Conn, tracker *session.Tracker, frame frameMessage) error {
	if frame.Focus == nil {
		return h.writeFrameError(conn, tracker.SessionID(), "frame is missing the focus result")
	}

	events, err := tracker.ClassifyAndUpdate(*frame.Focus, frame.Objects)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrMalformedPerception):
			// Frame-local failure: report it and keep the stream open.
			return h.writeFrameError(conn, tracker.SessionID(), err.Error())
		case errors.Is(err, session.ErrInvalidState):
			conn.WriteJSON(gin.H{"type": "error", "error": "Session already ended"})
			return err
		default:
			h.log.Error("Frame classification failed", zap.String("session_id", tracker.SessionID()), zap.Error(err))
			return h.writeFrameError(conn, tracker.SessionID(), "classification failed")
		}
	}

	if len(events) > 0 {
		payload := make([]map[string]any, 0, len(events))
		for _, e := range events {
			payload = append(payload, e.ToMap())
		}
		if err := conn.WriteJSON(gin.H{
			"type":      "events",
			"events":    payload,
			"timestamp": time.Now().Format(time.RFC3339Nano),
		}); err != nil {
			return err
		}
	}

	return conn.WriteJSON(gin.H{
		"type":  "stats",
		"stats": tracker.Stats(),
	})
}

func (h *StreamHandler) writeFrameError(conn *websocket.Conn, sessionID, msg string) error {
	h.log.Warn("Dropping malformed frame", zap.String("session_id", sessionID), zap.String("reason", msg))
	return conn.WriteJSON(gin.H{"type": "error", "error": msg})
}
