package scheduler

import "sort"

// CanonicalSort orders rescored candidates deterministically:
// 1. Score: higher first
// 2. Pool order: earlier first
func CanonicalSort(candidates []ScoredCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Input.PoolIndex < b.Input.PoolIndex
	})
}
