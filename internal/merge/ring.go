package merge

import (
	"sync"

	"github.com/rs/zerolog"

	"transcript-merge-engine/internal/observability/metrics"
)

// DefaultRingCapacity is the bounded queue depth between the producer and
// consumer contexts (spec §5) when no explicit capacity is configured.
const DefaultRingCapacity = 10

// Ring is a bounded, mutex-guarded single-producer/single-consumer FIFO
// queue of deserialized Word batches, one batch per ingested Update. It
// never blocks: Enqueue drops the newest batch when the ring is full,
// logging a throttled warning instead of applying backpressure (spec §5,
// "no blocking"). Grounded on the teacher's service/audio ingest-handler
// backpressure pattern, adapted from a channel-based drop to an explicit
// bounded slice so AlmostFull can report occupancy without racing a
// channel's internal state.
type Ring struct {
	mu       sync.Mutex
	items    [][]Word
	capacity int
	dropped  uint64
	log      zerolog.Logger
	metrics  *metrics.Metrics
}

// NewRing returns a Ring with the given capacity. A non-positive capacity
// falls back to DefaultRingCapacity.
func NewRing(capacity int, log zerolog.Logger) *Ring {
	if capacity <= 0 {
		capacity = DefaultRingCapacity
	}
	return &Ring{
		capacity: capacity,
		log:      log.With().Str("component", "merge.ring").Logger(),
		metrics:  metrics.DefaultMetrics,
	}
}

// Enqueue appends words to the tail of the queue. If the queue is already
// at capacity, words is dropped (drop-newest) and a warning is logged —
// at most once per 100 drops, so a sustained overload does not flood the
// log.
func (r *Ring) Enqueue(words []Word) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.items) >= r.capacity {
		r.dropped++
		r.metrics.RecordRingDropped(1)
		if r.dropped%100 == 1 {
			r.log.Warn().
				Int("capacity", r.capacity).
				Uint64("dropped_total", r.dropped).
				Msg("ring buffer full, dropping newest update")
		}
		return
	}
	r.items = append(r.items, words)
}

// Dequeue removes and returns every currently queued Word batch, oldest
// first, leaving the ring empty. The consumer context drains the whole
// queue on each tick rather than popping one item at a time (spec §5).
func (r *Ring) Dequeue() [][]Word {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.items) == 0 {
		return nil
	}
	drained := r.items
	r.items = nil
	return drained
}

// Empty reports whether the ring currently holds no items.
func (r *Ring) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items) == 0
}

// AlmostFull reports whether exactly one slot remains before the ring
// overflows, the signal the producer context uses to start logging ingest
// pressure (spec §4.2, §5).
func (r *Ring) AlmostFull() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items) == r.capacity-1
}

// Dropped returns the total number of updates dropped for overflow since
// the ring was created.
func (r *Ring) Dropped() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}
