// Package ingest implements the producer context: validating and
// deserializing raw recognizer updates onto an interaction's ring
// (spec §5). Adapted from audio.Handler's per-frame backpressure
// checks, now applied to per-update validation instead of per-frame
// byte/duration limits, since this handler no longer owns an STT
// session of its own.
package ingest

import (
	"fmt"

	"github.com/rs/zerolog"

	"transcript-merge-engine/internal/merge"
	"transcript-merge-engine/internal/observability/metrics"
	"transcript-merge-engine/internal/schema"
)

// Handler validates and enqueues one interaction's updates.
type Handler struct {
	validator *schema.Validator
	log       zerolog.Logger
	metrics   *metrics.Metrics
}

// NewHandler constructs a Handler.
func NewHandler(log zerolog.Logger) *Handler {
	return &Handler{
		validator: schema.New(),
		log:       log.With().Str("component", "ingest.handler").Logger(),
		metrics:   metrics.DefaultMetrics,
	}
}

// Accept validates u and, if well-formed, hands it to engine.Ingest.
// A malformed update is rejected whole (spec §7): the error is
// returned for the caller to surface as a 400, and nothing is merged.
func (h *Handler) Accept(engine *merge.Engine, interactionID string, u merge.Update) error {
	if err := h.validator.Validate(u); err != nil {
		h.metrics.RecordUpdateRejected("malformed")
		return fmt.Errorf("ingest: rejected update for interaction %s: %w", interactionID, err)
	}

	if err := engine.Ingest(u); err != nil {
		h.metrics.RecordUpdateRejected("malformed")
		return err
	}

	h.metrics.RecordUpdateIngested()
	if engine.AlmostFull() {
		h.metrics.RecordRingAlmostFull()
		h.log.Warn().Str("interactionId", interactionID).Msg("ingest ring nearing capacity")
	}
	return nil
}
