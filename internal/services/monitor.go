package services

import (
	"time"

	"go.uber.org/zap"

	"github.com/krishkumar84/assignmentDude/internal/session"
)

// Monitor periodically logs a summary of the registry so operators can see
// session buildup: the registry retains sessions for the process lifetime,
// so the active/completed split is the main capacity signal.
type Monitor struct {
	log      *zap.Logger
	registry *session.Registry
	interval time.Duration
}

func NewMonitor(log *zap.Logger, registry *session.Registry) *Monitor {
	return &Monitor{
		log:      log,
		registry: registry,
		interval: time.Minute,
	}
}

// Start runs the monitor in a goroutine.
func (m *Monitor) Start() {
	m.log.Info("Starting session monitor...")
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			<-ticker.C
			m.logSessionStats()
		}
	}()
}

func (m *Monitor) logSessionStats() {
	summaries := m.registry.List()

	active := 0
	events := 0
	for _, s := range summaries {
		if s.Status == "active" {
			active++
		}
		events += s.EventCount
	}

	m.log.Debug("Session registry summary",
		zap.Int("total_sessions", len(summaries)),
		zap.Int("active_sessions", active),
		zap.Int("total_events", events),
	)
}
