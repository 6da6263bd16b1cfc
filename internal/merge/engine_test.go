package merge

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestEngine() *Engine {
	return NewEngine(DefaultEngineConfig(), zerolog.Nop())
}

func wordTexts(words []Word) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.Text()
	}
	return out
}

func textWords(texts ...string) []Word {
	out := make([]Word, len(texts))
	for i, t := range texts {
		out[i] = textWord(t)
	}
	return out
}

// Scenario 1: pure append — disjoint update, no overlap.
func TestMergeOnePureAppend(t *testing.T) {
	e := newTestEngine()
	e.transcript.Words = textWords("hello", "world")

	e.mergeOne(textWords("foo", "bar"))

	got := wordTexts(e.transcript.Words)
	want := []string{"hello", "world", "foo", "bar"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("word %d = %q, want %q", i, got[i], want[i])
		}
	}
	if e.transcript.StaleWordID != 0 {
		t.Errorf("StaleWordID = %d, want unchanged 0", e.transcript.StaleWordID)
	}
}

// Scenario 2: full overlap reconfirmation — text unchanged, occurrences +1.
func TestMergeOneFullOverlapReconfirmation(t *testing.T) {
	e := newTestEngine()
	e.transcript.Words = textWords("the", "quick", "brown", "fox")

	e.mergeOne(textWords("the", "quick", "brown", "fox"))

	got := wordTexts(e.transcript.Words)
	want := []string{"the", "quick", "brown", "fox"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("word %d = %q, want %q (text must not change)", i, got[i], want[i])
		}
		if e.transcript.Words[i].Occurrences != 2 {
			t.Errorf("word %d occurrences = %d, want 2", i, e.transcript.Words[i].Occurrences)
		}
	}
}

// Scenario 3: overlap with correction. The aligner can only match on exact
// comparable-string equality, so "quik"/"quick" never align; per the
// documented open-question resolution (prefix before the first matched
// pair is left unreconciled, matching original_source literally) "the"
// and "quik" are untouched by this merge. stale_word_id advances to 1, so
// "the" falls below the cursor while "quik" stays in the active tail.
func TestMergeOneOverlapWithCorrection(t *testing.T) {
	e := newTestEngine()
	e.transcript.Words = textWords("the", "quik", "brown", "fox")

	e.mergeOne(textWords("quick", "brown", "fox", "jumps"))

	got := wordTexts(e.transcript.Words)
	want := []string{"the", "quik", "brown", "fox", "jumps"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("word %d = %q, want %q", i, got[i], want[i])
		}
	}
	if e.transcript.Words[2].Occurrences != 2 || e.transcript.Words[3].Occurrences != 2 {
		t.Errorf("brown/fox occurrences = %d/%d, want 2/2",
			e.transcript.Words[2].Occurrences, e.transcript.Words[3].Occurrences)
	}
	if e.transcript.Words[4].Occurrences != 1 {
		t.Errorf("jumps occurrences = %d, want 1 (freshly inserted)", e.transcript.Words[4].Occurrences)
	}
	if e.transcript.StaleWordID != 1 {
		t.Errorf("StaleWordID = %d, want 1", e.transcript.StaleWordID)
	}
}

// Scenario 4: punctuation overwrite. A miss decrements "." to zero
// occurrences and clear_mistakes removes it from the active tail.
func TestMergeOnePunctuationOverwrite(t *testing.T) {
	e := newTestEngine()
	punct := NewTextWord([]SingleToken{{Text: ".", Prob: 0.9}}, true)
	e.transcript.Words = []Word{textWord("hi"), punct, textWord("there")}

	e.mergeOne(textWords("hi", "there"))

	got := wordTexts(e.transcript.Words)
	want := []string{"hi", "there"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v (punctuation should be cleared)", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("word %d = %q, want %q", i, got[i], want[i])
		}
	}
}

// Scenario 5: segment merge. Both sides carry a Segment at the same
// alignment point; the earlier start and the longer duration win.
func TestMergeOneSegmentMerge(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	e := newTestEngine()
	oldSeg := NewSegment(SingleToken{Text: ".", Prob: 0.9}, 500, start)
	e.transcript.Words = []Word{textWord("hi"), oldSeg, textWord("there")}

	newSeg := NewSegment(SingleToken{Text: ".", Prob: 0.9}, 520, start.Add(20*time.Millisecond))
	e.mergeOne([]Word{textWord("hi"), newSeg, textWord("there")})

	if len(e.transcript.Words) != 3 {
		t.Fatalf("got %d words, want 3 (no insert/delete on a clean segment merge)", len(e.transcript.Words))
	}
	merged := e.transcript.Words[1]
	if !merged.IsSegment() {
		t.Fatalf("words[1] should remain a Segment, got %+v", merged)
	}
	if !merged.StartTime.Equal(start) {
		t.Errorf("merged start = %v, want %v (earlier wins)", merged.StartTime, start)
	}
	if merged.DurationMs != 520 {
		t.Errorf("merged duration = %d, want 520 (longer wins)", merged.DurationMs)
	}
}

// Scenario 6: ring overflow — drop-newest, FIFO retained, almost_full seen.
func TestRingOverflowDropsNewest(t *testing.T) {
	r := NewRing(10, zerolog.Nop())

	sawAlmostFull := false
	for i := 0; i < 11; i++ {
		if r.AlmostFull() {
			sawAlmostFull = true
		}
		r.Enqueue([]Word{textWord(string(rune('a' + i)))})
	}

	if !sawAlmostFull {
		t.Error("expected AlmostFull() to be observed true before overflow")
	}
	if got := r.Dropped(); got != 1 {
		t.Errorf("Dropped() = %d, want 1", got)
	}

	drained := r.Dequeue()
	if len(drained) != 10 {
		t.Fatalf("got %d batches, want 10 retained", len(drained))
	}
	for i, batch := range drained {
		want := string(rune('a' + i))
		if batch[0].Text() != want {
			t.Errorf("batch %d = %q, want %q (FIFO order)", i, batch[0].Text(), want)
		}
	}
}

// Idempotence law: merging the same update twice leaves text unchanged.
func TestMergeOneIdempotentOnRepeat(t *testing.T) {
	e := newTestEngine()
	e.transcript.Words = textWords("the", "quick", "brown", "fox")

	e.mergeOne(textWords("the", "quick", "brown", "fox"))
	e.mergeOne(textWords("the", "quick", "brown", "fox"))

	got := wordTexts(e.transcript.Words)
	want := []string{"the", "quick", "brown", "fox"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("word %d = %q, want %q after repeated identical merges", i, got[i], want[i])
		}
	}
	for i, w := range e.transcript.Words {
		if w.Occurrences != 3 {
			t.Errorf("word %d occurrences = %d, want 3 (1 initial + 2 confirmations)", i, w.Occurrences)
		}
	}
}
