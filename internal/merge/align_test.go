package merge

import "testing"

func TestAlignFuzzyExactOverlap(t *testing.T) {
	a := []string{"the", "quick", "brown", "fox"}
	b := []string{"the", "quick", "brown", "fox"}

	idxA, idxB, _ := AlignFuzzy(a, b, DefaultAllowedGaps)
	if len(idxA) != 4 || len(idxB) != 4 {
		t.Fatalf("got %d pairs, want 4", len(idxA))
	}
	for k := range idxA {
		if a[idxA[k]] != b[idxB[k]] {
			t.Errorf("pair %d: a[%d]=%q != b[%d]=%q", k, idxA[k], a[idxA[k]], idxB[k], b[idxB[k]])
		}
	}
}

func TestAlignFuzzyGapBounded(t *testing.T) {
	a := []string{"the", "quik", "brown", "fox"}
	b := []string{"quick", "brown", "fox", "jumps"}

	idxA, _, gapsUsed := AlignFuzzy(a, b, DefaultAllowedGaps)
	if len(idxA) != 2 {
		t.Fatalf("got %d pairs, want 2 (brown, fox)", len(idxA))
	}
	if a[idxA[0]] != "brown" || a[idxA[1]] != "fox" {
		t.Errorf("unexpected matched words: %v", idxA)
	}
	if gapsUsed == 0 {
		t.Errorf("gapsUsed = 0, want > 0 (jumps on b's side, after the last match, is a skipped mismatch)")
	}
}

func TestAlignFuzzyNoOverlap(t *testing.T) {
	a := []string{"hello", "world"}
	b := []string{"foo", "bar"}

	idxA, idxB, _ := AlignFuzzy(a, b, DefaultAllowedGaps)
	if len(idxA) != 0 || len(idxB) != 0 {
		t.Fatalf("got %d pairs, want 0 for disjoint sequences", len(idxA))
	}
}

func TestAlignFuzzyIndicesStrictlyIncreasing(t *testing.T) {
	a := []string{"a", "x", "b", "y", "c", "z", "d"}
	b := []string{"a", "b", "c", "d"}

	idxA, idxB, _ := AlignFuzzy(a, b, DefaultAllowedGaps)
	for k := 1; k < len(idxA); k++ {
		if idxA[k] <= idxA[k-1] || idxB[k] <= idxB[k-1] {
			t.Fatalf("indices not strictly increasing at %d: %v / %v", k, idxA, idxB)
		}
	}
	for k := range idxA {
		if a[idxA[k]] != b[idxB[k]] {
			t.Fatalf("pair %d does not match: %q vs %q", k, a[idxA[k]], b[idxB[k]])
		}
	}
}

func TestAlignFuzzyEmptyInputs(t *testing.T) {
	if idxA, idxB, _ := AlignFuzzy(nil, []string{"a"}, DefaultAllowedGaps); idxA != nil || idxB != nil {
		t.Errorf("expected nil/nil for empty a")
	}
	if idxA, idxB, _ := AlignFuzzy([]string{"a"}, nil, DefaultAllowedGaps); idxA != nil || idxB != nil {
		t.Errorf("expected nil/nil for empty b")
	}
}
