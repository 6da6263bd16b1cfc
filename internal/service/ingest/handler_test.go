package ingest

import (
	"testing"

	"github.com/rs/zerolog"

	"transcript-merge-engine/internal/merge"
)

func TestAccept_WellFormedUpdate(t *testing.T) {
	h := NewHandler(zerolog.Nop())
	engine := merge.NewEngine(merge.DefaultEngineConfig(), zerolog.Nop())

	u := merge.Update{
		TokenTexts: []string{"hi", "there"},
		TokenProbs: []float64{0.9, 0.8},
	}

	if err := h.Accept(engine, "int-1", u); err != nil {
		t.Fatalf("expected well-formed update to be accepted, got %v", err)
	}
}

func TestAccept_MalformedUpdateRejected(t *testing.T) {
	h := NewHandler(zerolog.Nop())
	engine := merge.NewEngine(merge.DefaultEngineConfig(), zerolog.Nop())

	u := merge.Update{
		TokenTexts: []string{"hi"},
		TokenProbs: []float64{0.9, 0.8},
	}

	if err := h.Accept(engine, "int-1", u); err == nil {
		t.Fatal("expected malformed update to be rejected")
	}
}
