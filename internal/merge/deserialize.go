package merge

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// centisecondToMillis is the conversion factor the recognizer's segment
// timestamps arrive in (spec §4.1): segment times are centiseconds
// relative to Update.Stamp.
const centisecondToMillis = 10

// maxJoinLookahead bounds how many trailing tokens the byte-split join
// rule (rule 4) will absorb: a UTF-8 codepoint needs at most 3 further
// continuation bytes to complete.
const maxJoinLookahead = 3

// Deserialize groups a raw Update's parallel token arrays into an ordered
// list of Words (spec §4.1). The caller must have already validated u
// (Update.Validate) — Deserialize assumes well-formed parallel arrays.
func Deserialize(u Update) []Word {
	var words []Word
	var wip []SingleToken

	segPtr := 0
	n := len(u.TokenTexts)

	for i := 0; i < n; i++ {
		// Rule 1: segment boundary. Emits any in-progress word, then a
		// Segment; does not skip further processing of this same token.
		if segPtr < len(u.SegmentStartTokenIdxs) && i == u.SegmentStartTokenIdxs[segPtr] {
			if len(wip) > 0 {
				words = append(words, NewTextWord(wip, false))
				wip = nil
			}
			words = append(words, segmentAt(u, segPtr, n))
			segPtr++
		}

		text := u.TokenTexts[i]

		// Rule 2: recognizer-internal control markers are dropped.
		if isControlMarker(text) {
			continue
		}

		// Rule 3: standalone punctuation.
		if isPunctuation(text) {
			if len(wip) > 0 {
				words = append(words, NewTextWord(wip, false))
				wip = nil
			}
			words = append(words, NewTextWord([]SingleToken{{Text: text, Prob: u.TokenProbs[i]}}, true))
			continue
		}

		// Rule 4: multi-piece glyph join (e.g. a UTF-8 codepoint split
		// across adjacent byte-level tokens).
		if joinCount := byteSplitJoinCount(u.TokenTexts, i); joinCount > 0 {
			combinedText, combinedProb := combineTokens(u.TokenTexts, u.TokenProbs, i, joinCount)
			wip = append(wip, SingleToken{Text: combinedText, Prob: combinedProb})
			i += joinCount - 1
			continue
		}

		// Rule 5: a leading whitespace character starts a new word.
		if len(wip) > 0 && hasLeadingWhitespace(text) {
			words = append(words, NewTextWord(wip, false))
			wip = nil
		}

		// Rule 6: default — append to the in-progress word.
		wip = append(wip, SingleToken{Text: text, Prob: u.TokenProbs[i]})
	}

	if len(wip) > 0 {
		words = append(words, NewTextWord(wip, false))
	}

	return words
}

// segmentAt builds the Segment word for the boundary at segPtr. The
// segment's end token is the token immediately before the next segment
// boundary, or the update's last token if segPtr is the final segment.
func segmentAt(u Update, segPtr, totalTokens int) Word {
	var endIdx int
	if segPtr == len(u.SegmentStartTokenIdxs)-1 {
		endIdx = totalTokens - 1
	} else {
		endIdx = u.SegmentStartTokenIdxs[segPtr+1] - 1
	}
	endToken := SingleToken{Text: u.TokenTexts[endIdx], Prob: u.TokenProbs[endIdx]}

	startMs := u.StartTimes[segPtr] * centisecondToMillis
	endMs := u.EndTimes[segPtr] * centisecondToMillis
	startTime := u.Stamp.Add(time.Duration(startMs) * time.Millisecond)

	return NewSegment(endToken, endMs-startMs, startTime)
}

// isControlMarker reports whether text is a recognizer-internal bracketed
// marker such as "[_TT_150_]" or "[BLANK_AUDIO]".
func isControlMarker(text string) bool {
	return len(text) > 1 && strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]")
}

// isPunctuation reports whether text consists entirely of punctuation
// runes (and is non-empty).
func isPunctuation(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if !unicode.IsPunct(r) {
			return false
		}
	}
	return true
}

// hasLeadingWhitespace reports whether text's first rune is whitespace.
func hasLeadingWhitespace(text string) bool {
	if text == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text)
	return unicode.IsSpace(r)
}

// byteSplitJoinCount detects a run of tokens starting at i whose
// concatenated bytes are needed to complete a valid UTF-8 codepoint that
// texts[i] alone does not form. Returns the number of tokens to join (>=2),
// or 0 if texts[i] is already valid on its own (no join).
func byteSplitJoinCount(texts []string, i int) int {
	if utf8.ValidString(texts[i]) {
		return 0
	}
	combined := texts[i]
	for n := 1; n <= maxJoinLookahead && i+n < len(texts); n++ {
		combined += texts[i+n]
		if utf8.ValidString(combined) {
			return n + 1
		}
	}
	return 0
}

// combineTokens concatenates n tokens' text starting at i and averages
// their probabilities.
func combineTokens(texts []string, probs []float64, i, n int) (string, float64) {
	var b strings.Builder
	var sum float64
	for k := 0; k < n; k++ {
		b.WriteString(texts[i+k])
		sum += probs[i+k]
	}
	return b.String(), sum / float64(n)
}
