// Package merge implements the transcript-merge engine: the word/segment
// data model, the fuzzy LCS aligner, the merge planner and operation
// executor, and the bounded-queue pipeline that drives online merging of
// overlapping speech-recognition updates into a single transcript.
package merge

// SingleToken is the smallest unit the recognizer emits: a piece of text
// and the recognizer's confidence in it.
type SingleToken struct {
	Text string
	Prob float64
}
