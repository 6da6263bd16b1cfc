package merge

import (
	"strings"
	"time"
)

// Kind discriminates the two Word variants. Matching on Kind is preferred
// over an interface/inheritance hierarchy: the set of variants is closed
// and every caller needs to handle both, so an exhaustive switch is
// clearer than a type hierarchy.
type Kind int

const (
	// KindText is an ordinary lexical unit: a word or a punctuation mark.
	KindText Kind = iota
	// KindSegment is a sentence-boundary marker carrying timing metadata.
	KindSegment
)

// Word is one element of a Transcript: either a TextWord (a run of
// SingleTokens forming one lexical unit, possibly punctuation) or a
// Segment (a sentence boundary with timing metadata). See spec §3.
type Word struct {
	Kind Kind

	// TextWord fields.
	Tokens  []SingleToken
	IsPunct bool

	// Segment fields.
	EndToken   SingleToken
	DurationMs int64
	StartTime  time.Time

	// Shared bookkeeping.
	Occurrences int
	Prob        float64
}

// NewTextWord builds a TextWord from its constituent tokens. Occurrences
// starts at 1; Prob is the average of the tokens' probabilities.
func NewTextWord(tokens []SingleToken, isPunct bool) Word {
	return Word{
		Kind:        KindText,
		Tokens:      tokens,
		IsPunct:     isPunct,
		Occurrences: 1,
		Prob:        averageProb(tokens),
	}
}

// NewSegment builds a Segment marker. Occurrences starts at 1.
func NewSegment(endToken SingleToken, durationMs int64, startTime time.Time) Word {
	return Word{
		Kind:        KindSegment,
		EndToken:    endToken,
		DurationMs:  durationMs,
		StartTime:   startTime,
		Occurrences: 1,
		Prob:        endToken.Prob,
	}
}

func averageProb(tokens []SingleToken) float64 {
	if len(tokens) == 0 {
		return 0
	}
	var sum float64
	for _, t := range tokens {
		sum += t.Prob
	}
	return sum / float64(len(tokens))
}

// IsSegment reports whether w is a sentence-boundary marker.
func (w Word) IsSegment() bool { return w.Kind == KindSegment }

// Text returns the concatenated token text of a TextWord, or the empty
// string for a Segment.
func (w Word) Text() string {
	if w.Kind != KindText {
		return ""
	}
	var b strings.Builder
	for _, t := range w.Tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// Comparable returns the normalized form used by the aligner for equality
// testing: the lower-cased, whitespace-trimmed text of a non-punctuation
// TextWord. Punctuation and Segments return "" — they never participate
// in alignment (spec §3).
func (w Word) Comparable() string {
	if w.Kind != KindText || w.IsPunct {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(w.Text()))
}

// Decrement lowers Occurrences by one, clamped at zero (spec §4.5).
func (w *Word) Decrement() {
	if w.Occurrences > 0 {
		w.Occurrences--
	}
}

// Increment raises Occurrences by one and blends prob as a running average
// weighted by the updated occurrence count (spec §3, §4.5).
func (w *Word) Increment(observedProb float64) {
	w.Occurrences++
	w.Prob = w.Prob + (observedProb-w.Prob)/float64(w.Occurrences)
}
