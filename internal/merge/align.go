package merge

// DefaultAllowedGaps is the number of mismatched elements the aligner may
// skip, on either side, while extending a candidate match run (spec §4.2).
const DefaultAllowedGaps = 4

// dpCell is one cell of the fuzzy-LCS dynamic-programming table. predI and
// predJ point at the DP coordinate (1-indexed) this cell's best run was
// extended from: the diagonal predecessor for a matched cell, or the
// source cell's own coordinate for a skip. matched is true only when this
// cell was reached by a direct element match (textA[i-1] == textB[j-1]),
// never by a skip — that is what lets the backtrack below emit exactly
// the matched pairs and nothing else, in order.
type dpCell struct {
	length      int
	gaps        int
	predI, predJ int
	matched     bool
}

// AlignFuzzy computes a gap-bounded fuzzy longest common subsequence
// between a and b and returns the aligned positions as two parallel index
// slices: indicesA[k] in a corresponds to indicesB[k] in b, for every k,
// in ascending order on both sides (spec §4.2). gapsUsed is the gap count
// of the cell the winning run ends at: the number of elements skipped
// after its last matched pair (a match resets the count), for
// observability.
//
// This reimplements the recurrence from the transcript-manager's
// lcs_indicies_ with the same recurrence order and the same max-length
// tie-break (prefer the later-position cell on ties), but tracks
// predecessors as an explicit matched flag plus a predecessor DP
// coordinate instead of the original's trick of reusing the same integer
// pair as both a DP lookup key and a word-index result.
func AlignFuzzy(a, b []string, allowedGaps int) (indicesA, indicesB []int, gapsUsed int) {
	nA, nB := len(a), len(b)
	if nA == 0 || nB == 0 {
		return nil, nil, 0
	}

	dp := make([][]dpCell, nA+1)
	for i := range dp {
		dp[i] = make([]dpCell, nB+1)
	}

	maxLength := 0
	endI, endJ := -1, -1

	for i := 1; i <= nA; i++ {
		for j := 1; j <= nB; j++ {
			cell := &dp[i][j]
			if a[i-1] == b[j-1] {
				cell.length = dp[i-1][j-1].length + 1
				cell.gaps = 0
				cell.matched = true
				cell.predI, cell.predJ = i-1, j-1
			} else {
				// Case 1: skip one element from a.
				if dp[i-1][j].gaps < allowedGaps && cell.length < dp[i-1][j].length {
					cell.length = dp[i-1][j].length
					cell.gaps = dp[i-1][j].gaps + 1
					cell.predI, cell.predJ = i-1, j
				}
				// Case 2: skip one element from b.
				if dp[i][j-1].gaps < allowedGaps && cell.length < dp[i][j-1].length {
					cell.length = dp[i][j-1].length
					cell.gaps = dp[i][j-1].gaps + 1
					cell.predI, cell.predJ = i, j-1
				}
				// Case 3: skip one element from both a and b.
				if dp[i-1][j-1].gaps < allowedGaps && cell.length < dp[i-1][j-1].length {
					cell.length = dp[i-1][j-1].length
					cell.gaps = dp[i-1][j-1].gaps + 1
					cell.predI, cell.predJ = i-1, j-1
				}
			}

			if cell.length >= maxLength {
				maxLength = cell.length
				endI, endJ = i, j
			}
		}
	}

	if maxLength == 0 {
		return nil, nil, 0
	}
	gapsUsed = dp[endI][endJ].gaps

	i, j := endI, endJ
	for i > 0 && j > 0 {
		cell := dp[i][j]
		if cell.matched {
			indicesA = append(indicesA, i-1)
			indicesB = append(indicesB, j-1)
		}
		i, j = cell.predI, cell.predJ
	}

	reverseInts(indicesA)
	reverseInts(indicesB)
	return indicesA, indicesB, gapsUsed
}

func reverseInts(s []int) {
	for l, r := 0, len(s)-1; l < r; l, r = l+1, r-1 {
		s[l], s[r] = s[r], s[l]
	}
}
