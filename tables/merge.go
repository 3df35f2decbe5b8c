package tables

import "sort"

// mergeCandidates resolves overlapping candidates from different passes into
// a final, non-overlapping set. Ruled candidates above the priority floor win
// over anything they overlap; among the rest, higher confidence wins.
func mergeCandidates(candidates []Candidate, config Config) []Candidate {
	if len(candidates) <= 1 {
		return candidates
	}

	ordered := make([]Candidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		pi := ordered[i].Source == "ruled" && ordered[i].Confidence >= config.RuledPriorityFloor
		pj := ordered[j].Source == "ruled" && ordered[j].Confidence >= config.RuledPriorityFloor
		if pi != pj {
			return pi
		}
		return ordered[i].Confidence > ordered[j].Confidence
	})

	const overlapLimit = 0.3
	var kept []Candidate
	for _, candidate := range ordered {
		overlapsKept := false
		for _, existing := range kept {
			if candidate.BBox.OverlapRatio(existing.BBox) > overlapLimit {
				overlapsKept = true
				break
			}
		}
		if !overlapsKept {
			kept = append(kept, candidate)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].BBox.Top() < kept[j].BBox.Top()
	})
	return kept
}
