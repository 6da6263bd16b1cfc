package merge

// OpType names a pending mutation the planner emits for the executor to
// apply (spec §4.4).
type OpType int

const (
	OpMatchedWord OpType = iota
	OpMergeSegments
	OpInsert
	OpConflict
	OpDecrement
)

// Op is one planned mutation against the transcript's full-index space.
// A and B are positions into oldWords and newWords respectively; B is
// unused for OpDecrement.
type Op struct {
	Type OpType
	A    int
	B    int
}

// Plan walks the gap between every pair of aligned anchors in oldWords and
// newWords and emits the ordered operation list the executor must apply
// (spec §4.4). indicesA/indicesB are aligner output in comparable-space;
// fullIndexOld/fullIndexNew translate those back to positions in
// oldWords/newWords (StripComparable's second return value).
//
// Grounded on transcript_manager_node.cpp's merge_one_: the gap-walk rule
// ladder, its priority order, and the anchor-to-end-of-array handling for
// the final matched pair are reproduced exactly.
func Plan(oldWords, newWords []Word, indicesA, indicesB, fullIndexOld, fullIndexNew []int) []Op {
	if len(indicesA) == 0 {
		return nil
	}

	var ops []Op

	// Intentional: the prefix before the first matched pair is not reconciled; no ops are emitted for it.
	prevA, prevB := fullIndexOld[indicesA[0]], fullIndexNew[indicesB[0]]

	for i := 1; i <= len(indicesA); i++ {
		ops = append(ops, Op{Type: OpMatchedWord, A: prevA, B: prevB})

		curA, curB := prevA+1, prevB+1

		var nextA, nextB int
		if i == len(indicesA) {
			nextA, nextB = len(oldWords), len(newWords)
		} else {
			nextA, nextB = fullIndexOld[indicesA[i]], fullIndexNew[indicesB[i]]
		}

		for curA != nextA || curB != nextB {
			switch {
			// Rule 1: both cursors still in the gap and both current
			// elements are Segments.
			case curA != nextA && curB != nextB && oldWords[curA].IsSegment() && newWords[curB].IsSegment():
				ops = append(ops, Op{Type: OpMergeSegments, A: curA, B: curB})
				curA++
				curB++

			// Rule 2: the old side has an unmatched Segment — decays
			// twice as fast as a word.
			case curA != nextA && oldWords[curA].IsSegment():
				ops = append(ops, Op{Type: OpDecrement, A: curA})
				ops = append(ops, Op{Type: OpDecrement, A: curA})
				curA++

			// Rule 3: the new side carries a Segment not present at this
			// point in the old transcript.
			case curB != nextB && newWords[curB].IsSegment():
				ops = append(ops, Op{Type: OpInsert, A: curA, B: curB})
				curB++

			// Rule 4: prefer letting a real word overwrite stray
			// punctuation.
			case curA != nextA && curB != nextB && oldWords[curA].IsPunct && !newWords[curB].IsPunct:
				ops = append(ops, Op{Type: OpDecrement, A: curA})
				ops = append(ops, Op{Type: OpConflict, A: curA, B: curB})
				curA++
				curB++

			// Rule 5: general mismatch within the gap region.
			case curA != nextA && curB != nextB:
				ops = append(ops, Op{Type: OpConflict, A: curA, B: curB})
				curA++
				curB++

			// Rule 6: only the new cursor remains — insert.
			case curB != nextB:
				ops = append(ops, Op{Type: OpInsert, A: curA, B: curB})
				curB++

			// Rule 7: only the old cursor remains — not observed in the
			// update.
			default:
				ops = append(ops, Op{Type: OpDecrement, A: curA})
				curA++
			}
		}

		prevA, prevB = nextA, nextB
	}

	return ops
}
