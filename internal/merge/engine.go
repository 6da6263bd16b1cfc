package merge

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"transcript-merge-engine/internal/observability/metrics"
)

// EngineConfig tunes the per-interaction engine (spec §4.2, §5).
type EngineConfig struct {
	AllowedGaps  int
	RingCapacity int
}

// DefaultEngineConfig returns the spec's defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		AllowedGaps:  DefaultAllowedGaps,
		RingCapacity: DefaultRingCapacity,
	}
}

// Engine owns one interaction's Transcript and the bounded Ring feeding
// it. Ingest (producer context) and Drain (consumer context) are safe to
// call concurrently from separate goroutines; Engine serializes access to
// the transcript itself with a mutex since Drain mutates it and Snapshot
// reads it.
type Engine struct {
	cfg        EngineConfig
	ring       *Ring
	log        zerolog.Logger
	mu         sync.Mutex
	transcript *Transcript
	metrics    *metrics.Metrics
}

// NewEngine constructs an Engine for one interaction.
func NewEngine(cfg EngineConfig, log zerolog.Logger) *Engine {
	return &Engine{
		cfg:        cfg,
		ring:       NewRing(cfg.RingCapacity, log),
		log:        log.With().Str("component", "merge.engine").Logger(),
		transcript: NewTranscript(),
		metrics:    metrics.DefaultMetrics,
	}
}

// Ingest validates and deserializes a raw Update and enqueues its Words
// onto the ring. A malformed update is rejected outright and never
// reaches the transcript (spec §7). Returns the validation error, if any.
func (e *Engine) Ingest(u Update) error {
	if err := u.Validate(); err != nil {
		e.log.Warn().Err(err).Msg("rejecting malformed update")
		return err
	}
	if u.Empty() {
		return nil
	}

	words := Deserialize(u)
	e.ring.Enqueue(words)
	return nil
}

// Drain dequeues every update currently queued and merges each one into
// the transcript in arrival order. Called on the consumer context's
// periodic tick (spec §5). Returns whether anything was merged.
func (e *Engine) Drain() bool {
	batches := e.ring.Dequeue()
	if len(batches) == 0 {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, words := range batches {
		e.mergeOne(words)
	}
	return true
}

// mergeOne merges one update's already-deserialized Words into the
// transcript (spec §4.3). Grounded on transcript_manager_node.cpp's
// merge_one_.
func (e *Engine) mergeOne(newWords []Word) {
	if len(newWords) == 0 {
		return
	}

	start := time.Now()
	defer func() {
		e.metrics.RecordMerge(time.Since(start).Seconds(), len(e.transcript.Words))
	}()

	if e.transcript.Empty() {
		e.transcript.Append(newWords)
		return
	}

	staleID := e.transcript.StaleWordID
	tail := append([]Word(nil), e.transcript.ActiveTail()...)

	comparableOld, fullIndexOld := StripComparable(tail)
	comparableNew, fullIndexNew := StripComparable(newWords)

	idxA, idxB, gapsUsed := AlignFuzzy(comparableOld, comparableNew, e.cfg.AllowedGaps)
	if len(idxA) == 0 {
		e.transcript.Append(newWords)
		return
	}
	e.metrics.RecordAlignerGaps(gapsUsed)

	ops := Plan(tail, newWords, idxA, idxB, fullIndexOld, fullIndexNew)
	for _, op := range ops {
		e.metrics.RecordOpApplied(op.Type.String())
	}
	Execute(&tail, ops, newWords)

	e.transcript.Words = append(e.transcript.Words[:staleID:staleID], tail...)
	newStaleID := AdvanceStaleWordID(staleID, idxA[0], idxB[0])
	e.metrics.RecordStaleCursorAdvance(newStaleID - staleID)
	e.transcript.StaleWordID = newStaleID
	e.transcript.ClearMistakes()
}

// Snapshot returns the current serialized view of the transcript
// (spec §4.6).
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return BuildSnapshot(e.transcript)
}

// AlmostFull reports whether the ingest ring is nearing capacity.
func (e *Engine) AlmostFull() bool {
	return e.ring.AlmostFull()
}
