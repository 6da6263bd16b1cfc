package merge

// String names an OpType for observability labels.
func (t OpType) String() string {
	switch t {
	case OpMatchedWord:
		return "matched_word"
	case OpMergeSegments:
		return "merge_segments"
	case OpInsert:
		return "insert"
	case OpConflict:
		return "conflict"
	case OpDecrement:
		return "decrement"
	default:
		return "unknown"
	}
}

// Execute applies ops against words in order, using newWords as the source
// of truth for INSERT/CONFLICT/MERGE_SEGMENTS operations' B-side data.
// Every op's A index is expressed in the index space it was planned in,
// before any insertion shifts it; Execute maintains an internal shift so
// later ops still land on the right position after earlier INSERTs have
// grown the slice (spec §4.4, §4.5).
//
// Grounded on transcript_manager_node.cpp's Transcript::run (inferred from
// call sites in merge_one_, since the executor's header was not part of
// the retrieved source — the operation semantics below follow spec §4.5
// exactly, which resolves that gap).
func Execute(words *[]Word, ops []Op, newWords []Word) {
	shift := 0

	for _, op := range ops {
		a := op.A + shift
		w := *words

		switch op.Type {
		case OpMatchedWord:
			w[a].Increment(newWords[op.B].Prob)

		case OpMergeSegments:
			mergeSegments(&w[a], newWords[op.B])

		case OpInsert:
			*words = insertWord(w, a, newWords[op.B])
			shift++

		case OpConflict:
			replacement := newWords[op.B]
			replacement.Occurrences = 1
			w[a] = replacement

		case OpDecrement:
			w[a].Decrement()
		}
	}
}

// mergeSegments combines an existing Segment with a newly observed one at
// the same alignment point: the earlier start timestamp wins, and the
// longer duration wins (spec §4.4).
func mergeSegments(dst *Word, src Word) {
	if src.StartTime.Before(dst.StartTime) {
		dst.StartTime = src.StartTime
	}
	if src.DurationMs > dst.DurationMs {
		dst.DurationMs = src.DurationMs
	}
	dst.Increment(src.Prob)
}

// insertWord splices w into words immediately before position at.
func insertWord(words []Word, at int, w Word) []Word {
	out := make([]Word, 0, len(words)+1)
	out = append(out, words[:at]...)
	out = append(out, w)
	out = append(out, words[at:]...)
	return out
}

// AdvanceStaleWordID computes the new stale_word_id cursor after a merge
// pass, given the first matched pair's positions on the old and new sides
// (spec §4.5): the cursor moves forward by however much of the active
// tail the update definitively passed.
func AdvanceStaleWordID(oldStaleID, firstMatchedA, firstMatchedB int) int {
	advanced := oldStaleID + firstMatchedA - firstMatchedB
	if advanced > oldStaleID {
		return advanced
	}
	return oldStaleID
}
