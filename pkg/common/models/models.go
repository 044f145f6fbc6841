package models

import "time"

const (
	EventDatasetPublished     = "dataset.published"
	EventDatasetPublishFailed = "dataset.publish_failed"
)

// Event Bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // dataset.published, dataset.publish_failed
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

// Manifest describes one generation run.
type Manifest struct {
	RunID         string    `json:"run_id"`
	RecordCount   int       `json:"record_count"`
	OutputPath    string    `json:"output_path"`
	CommitMessage string    `json:"commit_message"`
	Branch        string    `json:"branch"`
	Published     bool      `json:"published"`
	FailedStep    string    `json:"failed_step,omitempty"`
	Error         string    `json:"error,omitempty"`
	Archived      bool      `json:"archived"`
	GeneratedAt   time.Time `json:"generated_at"`
	FinishedAt    time.Time `json:"finished_at"`
}

func (m Manifest) EventData() map[string]interface{} {
	data := map[string]interface{}{
		"run_id":         m.RunID,
		"record_count":   m.RecordCount,
		"output_path":    m.OutputPath,
		"commit_message": m.CommitMessage,
		"branch":         m.Branch,
		"published":      m.Published,
		"archived":       m.Archived,
	}
	if m.FailedStep != "" {
		data["failed_step"] = m.FailedStep
		data["error"] = m.Error
	}
	return data
}
