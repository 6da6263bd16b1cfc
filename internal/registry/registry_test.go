package registry

import (
	"testing"

	"github.com/rs/zerolog"

	"transcript-merge-engine/internal/merge"
)

func TestGetOrCreate_ReturnsSameEngine(t *testing.T) {
	r := New(merge.DefaultEngineConfig(), zerolog.Nop())

	a := r.GetOrCreate("int-1")
	b := r.GetOrCreate("int-1")

	if a != b {
		t.Fatal("expected the same engine for the same interaction ID")
	}
	if r.Len() != 1 {
		t.Errorf("expected one live interaction, got %d", r.Len())
	}
}

func TestGet_MissingInteraction(t *testing.T) {
	r := New(merge.DefaultEngineConfig(), zerolog.Nop())

	if _, ok := r.Get("missing"); ok {
		t.Fatal("expected missing interaction to not be found")
	}
}

func TestClose_RemovesEngine(t *testing.T) {
	r := New(merge.DefaultEngineConfig(), zerolog.Nop())
	r.GetOrCreate("int-1")

	r.Close("int-1")

	if _, ok := r.Get("int-1"); ok {
		t.Fatal("expected interaction to be removed after Close")
	}
	if r.Len() != 0 {
		t.Errorf("expected zero live interactions, got %d", r.Len())
	}
}

func TestDrainAll_DoesNotPanicWhenEmpty(t *testing.T) {
	r := New(merge.DefaultEngineConfig(), zerolog.Nop())
	r.DrainAll()
}
