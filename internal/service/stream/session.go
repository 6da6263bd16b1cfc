// Package stream implements the client response context: a per-request
// session that polls an interaction's engine and streams back running
// transcript feedback until it succeeds, is cancelled, or times out.
// Grounded on transcript_manager_node.cpp's on_inference_accepted_
// action-server loop, re-expressed as a goroutine driven by a ticker
// instead of a ROS2 action server. Session lifecycle bookkeeping reuses
// segment.Lifecycle's OPEN/CLOSED/DROPPED state machine, repurposed from
// gating audio-segment partial/final emission to gating a streaming
// session's terminal outcome.
package stream

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"transcript-merge-engine/internal/merge"
	"transcript-merge-engine/internal/observability/logging"
	"transcript-merge-engine/internal/service/segment"
)

// Status names the three possible terminal outcomes of a Session.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusCancelled Status = "cancelled"
	StatusTimedOut  Status = "timed out"
)

// Feedback is one periodic progress update, corresponding to the
// original's Inference::Feedback.
type Feedback struct {
	Text     string `json:"text"`
	BatchIdx int    `json:"batch_idx"`
}

// Result is the terminal outcome of a Session, corresponding to the
// original's Inference::Result. History is the concatenation produced at
// every feedback tick, oldest first — the original's result->transcriptions,
// built by one push_back per drain/feedback cycle.
type Result struct {
	Status  Status   `json:"status"`
	Cause   string   `json:"cause"`
	Text    string   `json:"text"`
	History []string `json:"history"`
}

// Session streams an interaction's transcript until told to finish.
type Session struct {
	engine       *merge.Engine
	pollInterval time.Duration
	deadline     time.Time
	log          zerolog.Logger

	lifecycle *segment.Lifecycle

	mu       sync.Mutex
	timedOut bool
}

// New constructs a Session that runs for at most maxDuration, polling
// engine every pollInterval.
func New(interactionID string, engine *merge.Engine, maxDuration, pollInterval time.Duration) *Session {
	return &Session{
		engine:       engine,
		pollInterval: pollInterval,
		deadline:     time.Now().Add(maxDuration),
		log:          logging.WithStream(interactionID, ""),
		lifecycle:    segment.NewLifecycle(),
	}
}

// Finish marks the session as having completed its work normally, e.g.
// because the caller closed the underlying interaction while the
// stream was still open. The next poll reports StatusSucceeded.
func (s *Session) Finish() {
	s.lifecycle.Close()
}

// Run streams feedback to onFeedback until a terminal condition is
// reached, then returns the terminal Result. ctx cancellation (e.g. a
// client disconnect) is treated the same as the original's
// is_canceling() check.
func (s *Session) Run(ctx context.Context, onFeedback func(Feedback)) Result {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	batchIdx := 0
	var lastText string
	var history []string

	for {
		select {
		case <-ctx.Done():
			s.lifecycle.Drop()
			s.log.Info().Int("batchIdx", batchIdx).Msg("stream cancelled, client disconnected")
			return Result{Status: StatusCancelled, Cause: "client disconnected", Text: lastText, History: history}
		case <-ticker.C:
		}

		if time.Now().After(s.deadline) {
			s.mu.Lock()
			s.timedOut = true
			s.mu.Unlock()
			s.lifecycle.Drop()
			s.log.Info().Int("batchIdx", batchIdx).Msg("stream timed out, max_duration elapsed")
			return Result{Status: StatusTimedOut, Cause: "max_duration elapsed", Text: lastText, History: history}
		}
		if s.lifecycle.IsClosed() {
			if s.lifecycle.IsDropped() {
				return s.droppedResult(lastText, history)
			}
			return Result{Status: StatusSucceeded, Cause: "interaction closed", Text: lastText, History: history}
		}

		snap := s.engine.Snapshot()
		lastText = concatenate(snap.Words)
		history = append(history, lastText)

		onFeedback(Feedback{Text: lastText, BatchIdx: batchIdx})
		batchIdx++
	}
}

func (s *Session) droppedResult(text string, history []string) Result {
	s.mu.Lock()
	timedOut := s.timedOut
	s.mu.Unlock()
	if timedOut {
		return Result{Status: StatusTimedOut, Cause: "max_duration elapsed", Text: text, History: history}
	}
	return Result{Status: StatusCancelled, Cause: "client disconnected", Text: text, History: history}
}

func concatenate(words []string) string {
	return strings.Join(words, " ")
}
