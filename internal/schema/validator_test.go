package schema

import (
	"testing"

	"transcript-merge-engine/internal/merge"
)

func TestValidator_AcceptsWellFormedUpdate(t *testing.T) {
	v := New()
	u := merge.Update{
		TokenTexts: []string{"hi"},
		TokenProbs: []float64{0.9},
	}

	if err := v.Validate(u); err != nil {
		t.Fatalf("expected well-formed update to pass, got %v", err)
	}
}

func TestValidator_RejectsTokenLengthMismatch(t *testing.T) {
	v := New()
	u := merge.Update{
		TokenTexts: []string{"hi", "there"},
		TokenProbs: []float64{0.9},
	}

	if err := v.Validate(u); err == nil {
		t.Fatal("expected error for mismatched token arrays")
	}
}

func TestValidator_RejectsOutOfRangeSegmentIndex(t *testing.T) {
	v := New()
	u := merge.Update{
		TokenTexts:            []string{"hi"},
		TokenProbs:            []float64{0.9},
		SegmentStartTokenIdxs: []int{5},
		StartTimes:            []int64{0},
		EndTimes:              []int64{10},
	}

	if err := v.Validate(u); err == nil {
		t.Fatal("expected error for out-of-range segment index")
	}
}
