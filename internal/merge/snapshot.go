package merge

// Snapshot is the flat, wire-friendly view of a Transcript (spec §4.6).
// SegStartWordsID[k]/SegStartTimeMs[k]/SegDurationMs[k] describe the k-th
// Segment in transcript order; SegStartWordsID[k] is that Segment's
// position in Words (segments are never themselves entries of Words).
type Snapshot struct {
	Words           []string  `json:"words"`
	Probs           []float64 `json:"probs"`
	Occurrences     []int     `json:"occurrences"`
	SegStartWordsID []int     `json:"seg_start_words_id"`
	SegStartTimeMs  []int64   `json:"seg_start_time_ms"`
	SegDurationMs   []int64   `json:"seg_duration_ms"`
	ActiveIndex     int       `json:"active_index"`
}

// BuildSnapshot serializes t into its flat wire form. Grounded on
// transcript_manager_node.cpp's serialize_transcript_.
func BuildSnapshot(t *Transcript) Snapshot {
	var s Snapshot

	segmentsBeforeStale := 0
	for i, w := range t.Words {
		if w.IsSegment() {
			s.SegStartWordsID = append(s.SegStartWordsID, len(s.Words))
			s.SegStartTimeMs = append(s.SegStartTimeMs, w.StartTime.UnixMilli())
			s.SegDurationMs = append(s.SegDurationMs, w.DurationMs)
			if i < t.StaleWordID {
				segmentsBeforeStale++
			}
			continue
		}
		s.Words = append(s.Words, w.Text())
		s.Probs = append(s.Probs, w.Prob)
		s.Occurrences = append(s.Occurrences, w.Occurrences)
	}

	s.ActiveIndex = t.StaleWordID - segmentsBeforeStale
	return s
}
