package merge

// Transcript is the ordered sequence of Words the engine maintains for one
// interaction. Positions are dense integer indices; StaleWordID is the
// cursor below which the transcript is considered finalized (spec §3).
//
// Transcript owns all Words exclusively. A Segment never references a
// neighbouring Word directly — only by position — so the store can be
// represented as a plain slice with mid-sequence insertion, no linked
// structure required (spec §9).
type Transcript struct {
	Words       []Word
	StaleWordID int
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Len returns the number of words (TextWords and Segments) in the
// transcript.
func (t *Transcript) Len() int { return len(t.Words) }

// Empty reports whether the transcript has no words yet.
func (t *Transcript) Empty() bool { return len(t.Words) == 0 }

// Append adds words to the end of the transcript unconditionally. Used
// both for the very first update and for the pure-append case when the
// aligner finds no overlap at all (spec §4.3, "empty inputs").
func (t *Transcript) Append(words []Word) {
	t.Words = append(t.Words, words...)
}

// ActiveTail returns the suffix of the transcript eligible for alignment,
// i.e. Words[StaleWordID:].
func (t *Transcript) ActiveTail() []Word {
	return t.Words[t.StaleWordID:]
}

// StripComparable strips the empty-comparable entries (punctuation,
// Segments) out of words and returns the surviving comparable strings
// alongside a parallel fullIndex slice such that fullIndex[k] is the
// position in words of the k-th comparable entry. This is the mapping the
// merge planner uses to translate the aligner's comparable-space indices
// back into full-array indices (spec §4.4).
func StripComparable(words []Word) (comparable []string, fullIndex []int) {
	for i, w := range words {
		c := w.Comparable()
		if c == "" {
			continue
		}
		comparable = append(comparable, c)
		fullIndex = append(fullIndex, i)
	}
	return comparable, fullIndex
}

// ClearMistakes removes every word at position >= StaleWordID whose
// Occurrences has decayed to zero (spec §3 invariant 5, §4.5). Positions
// below StaleWordID are never touched: the active tail is the only region
// eligible for garbage collection.
func (t *Transcript) ClearMistakes() {
	kept := t.Words[:t.StaleWordID]
	for i := t.StaleWordID; i < len(t.Words); i++ {
		if t.Words[i].Occurrences == 0 {
			continue
		}
		kept = append(kept, t.Words[i])
	}
	t.Words = kept
}
