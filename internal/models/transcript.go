// Package models defines the wire DTOs exchanged with Kafka consumers
// and HTTP clients.
package models

import "transcript-merge-engine/internal/merge"

// SnapshotEvent wraps a merge.Snapshot with the interaction metadata
// needed by downstream consumers (spec §6, §9).
type SnapshotEvent struct {
	EventType     string `json:"eventType"`
	InteractionID string `json:"interactionId"`
	TenantID      string `json:"tenantId"`
	Timestamp     int64  `json:"timestamp"`

	Words           []string  `json:"words"`
	Probs           []float64 `json:"probs"`
	Occurrences     []int     `json:"occurrences"`
	SegStartWordsID []int     `json:"segStartWordsId"`
	SegStartTimeMs  []int64   `json:"segStartTimeMs"`
	SegDurationMs   []int64   `json:"segDurationMs"`
	ActiveIndex     int       `json:"activeIndex"`
}

// NewSnapshotEvent flattens a merge.Snapshot into its published wire form.
func NewSnapshotEvent(interactionID, tenantID string, timestampMs int64, s merge.Snapshot) SnapshotEvent {
	return SnapshotEvent{
		EventType:       "transcript.snapshot",
		InteractionID:   interactionID,
		TenantID:        tenantID,
		Timestamp:       timestampMs,
		Words:           s.Words,
		Probs:           s.Probs,
		Occurrences:     s.Occurrences,
		SegStartWordsID: s.SegStartWordsID,
		SegStartTimeMs:  s.SegStartTimeMs,
		SegDurationMs:   s.SegDurationMs,
		ActiveIndex:     s.ActiveIndex,
	}
}
