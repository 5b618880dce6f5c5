package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/krishkumar84/assignmentDude/internal/models"
)

// WriteCSV exports a session's event log as CSV for external data analysis,
// one row per event with the details payload serialized as JSON.
func WriteCSV(snap models.SessionSnapshot, w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"timestamp", "event_type", "confidence", "details"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, e := range snap.Events {
		details, err := json.Marshal(e.Details)
		if err != nil {
			return fmt.Errorf("failed to marshal event details: %w", err)
		}
		record := []string{
			e.Timestamp.Format(time.RFC3339Nano),
			string(e.EventType),
			fmt.Sprintf("%g", e.Confidence),
			string(details),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
