// Package registry owns the set of live per-interaction merge engines.
package registry

import (
	"sync"

	"github.com/rs/zerolog"

	"transcript-merge-engine/internal/merge"
	"transcript-merge-engine/internal/observability/logging"
	"transcript-merge-engine/internal/observability/metrics"
)

// Registry maps interaction IDs to their merge.Engine. One interaction
// gets exactly one engine for its lifetime; the engine owns its own ring
// and transcript, so interactions never contend with each other.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]*merge.Engine
	cfg     merge.EngineConfig
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// New constructs an empty Registry using cfg for every engine it creates.
func New(cfg merge.EngineConfig, log zerolog.Logger) *Registry {
	return &Registry{
		engines: make(map[string]*merge.Engine),
		cfg:     cfg,
		log:     log.With().Str("component", "registry").Logger(),
		metrics: metrics.DefaultMetrics,
	}
}

// GetOrCreate returns the engine for interactionID, creating one on
// first use.
func (r *Registry) GetOrCreate(interactionID string) *merge.Engine {
	r.mu.RLock()
	e, ok := r.engines[interactionID]
	r.mu.RUnlock()
	if ok {
		return e
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok = r.engines[interactionID]; ok {
		return e
	}

	e = merge.NewEngine(r.cfg, logging.WithInteraction(interactionID, ""))
	r.engines[interactionID] = e
	r.metrics.InteractionsOpen.Set(float64(len(r.engines)))
	r.log.Info().Str("interactionId", interactionID).Msg("opened interaction engine")
	return e
}

// Get returns the engine for interactionID and whether it exists.
func (r *Registry) Get(interactionID string) (*merge.Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.engines[interactionID]
	return e, ok
}

// Close drops interactionID's engine from the registry.
func (r *Registry) Close(interactionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.engines, interactionID)
	r.metrics.InteractionsOpen.Set(float64(len(r.engines)))
	r.log.Info().Str("interactionId", interactionID).Msg("closed interaction engine")
}

// DrainAll drains every live engine's ring. Called by the consumer
// context's ticker (spec §5).
func (r *Registry) DrainAll() {
	r.DrainAllAnd(func(string, merge.Snapshot) {})
}

// DrainAllAnd drains every live engine's ring and, for each interaction
// that had anything merged, calls onMerged with its fresh snapshot.
// Grounded on clear_queue_'s drain-then-publish: a snapshot event is
// published after every drain cycle that actually changed something.
func (r *Registry) DrainAllAnd(onMerged func(interactionID string, snap merge.Snapshot)) {
	r.mu.RLock()
	engines := make(map[string]*merge.Engine, len(r.engines))
	for id, e := range r.engines {
		engines[id] = e
	}
	r.mu.RUnlock()

	for id, e := range engines {
		if e.Drain() {
			onMerged(id, e.Snapshot())
		}
	}
}

// Len returns the number of live interactions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.engines)
}
