// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into the upload audit trail.
package queue

// UploadProcessedEvent is published after every upload reconciliation
// pass, successful or partial. It carries the full tally so downstream
// consumers can audit or alert without querying the primary database.
type UploadProcessedEvent struct {
	Kind        string `json:"kind"`
	FileName    string `json:"file_name"`
	ParkID      string `json:"park_id,omitempty"`
	Parsed      int    `json:"parsed"`
	Inserted    int    `json:"inserted"`
	Updated     int    `json:"updated"`
	NotFound    int    `json:"not_found"`
	Skipped     int    `json:"skipped"`
	ErrorCount  int    `json:"error_count"`
	ProcessedAt string `json:"processed_at"`
}
