package stream

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"transcript-merge-engine/internal/merge"
)

func TestSession_TimesOut(t *testing.T) {
	engine := merge.NewEngine(merge.DefaultEngineConfig(), zerolog.Nop())
	s := New("test-interaction", engine, 20*time.Millisecond, 5*time.Millisecond)

	result := s.Run(context.Background(), func(Feedback) {})

	if result.Status != StatusTimedOut {
		t.Fatalf("expected StatusTimedOut, got %s", result.Status)
	}
}

func TestSession_CancelledOnContextDone(t *testing.T) {
	engine := merge.NewEngine(merge.DefaultEngineConfig(), zerolog.Nop())
	s := New("test-interaction", engine, time.Minute, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	result := s.Run(ctx, func(Feedback) {})

	if result.Status != StatusCancelled {
		t.Fatalf("expected StatusCancelled, got %s", result.Status)
	}
}

func TestSession_FinishReportsSucceeded(t *testing.T) {
	engine := merge.NewEngine(merge.DefaultEngineConfig(), zerolog.Nop())
	s := New("test-interaction", engine, time.Minute, 5*time.Millisecond)

	go func() {
		time.Sleep(10 * time.Millisecond)
		s.Finish()
	}()

	result := s.Run(context.Background(), func(Feedback) {})

	if result.Status != StatusSucceeded {
		t.Fatalf("expected StatusSucceeded, got %s", result.Status)
	}
}

func TestSession_FeedbackCarriesRunningConcatenation(t *testing.T) {
	engine := merge.NewEngine(merge.DefaultEngineConfig(), zerolog.Nop())
	_ = engine.Ingest(merge.Update{
		TokenTexts: []string{"hello", "world"},
		TokenProbs: []float64{0.9, 0.9},
	})
	engine.Drain()

	s := New("test-interaction", engine, 30*time.Millisecond, 5*time.Millisecond)

	var lastFeedback Feedback
	s.Run(context.Background(), func(fb Feedback) {
		lastFeedback = fb
	})

	// "world" has no leading whitespace, so Deserialize appends it to the
	// in-progress word: the transcript holds the single word "helloworld".
	if lastFeedback.Text != "helloworld" {
		t.Errorf("expected feedback text 'helloworld', got %q", lastFeedback.Text)
	}
}

func TestSession_ResultHistoryAccumulatesEveryTick(t *testing.T) {
	engine := merge.NewEngine(merge.DefaultEngineConfig(), zerolog.Nop())
	_ = engine.Ingest(merge.Update{
		TokenTexts: []string{"hello", "world"},
		TokenProbs: []float64{0.9, 0.9},
	})
	engine.Drain()

	s := New("test-interaction", engine, 20*time.Millisecond, 5*time.Millisecond)
	result := s.Run(context.Background(), func(Feedback) {})

	if len(result.History) == 0 {
		t.Fatal("expected History to carry at least one feedback tick")
	}
	for i, text := range result.History {
		if text != "helloworld" {
			t.Errorf("history[%d] = %q, want %q", i, text, "helloworld")
		}
	}
	if result.Text != result.History[len(result.History)-1] {
		t.Errorf("Text = %q, want to match last history entry %q", result.Text, result.History[len(result.History)-1])
	}
}
