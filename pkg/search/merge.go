package search

import (
	"fmt"
	"math"
	"sort"

	"github.com/harun/cortex/pkg/memory"
)

// mergeResultCap bounds the merged list.
const mergeResultCap = 10

// Merge reconciles the two ranked result sets into one list using weighted
// scoring. Semantic results contribute similarity*semanticWeight keyed by
// memory id. Keyword hits reconcile by date equality: the first existing
// entry with the same date absorbs keywordScore*(1-semanticWeight) and is
// flagged keyword-boosted; an unmatched hit becomes its own entry with the
// synthetic identity kw-<date>.
//
// Date equality is a deliberate heuristic for "probably the same memory";
// it can over-merge two same-day memories and under-merge one logged across
// a day boundary.
//
// Output is ordered by final score descending; ties keep semantic rank
// order, with keyword-only entries after semantic ones. Length is the
// smaller of 10 and limit (limit <= 0 means no caller limit).
func Merge(semantic, keyword []Result, semanticWeight float64, limit int) ([]Result, error) {
	if math.IsNaN(semanticWeight) || semanticWeight < 0 || semanticWeight > 1 {
		return nil, fmt.Errorf("semantic weight %v: %w", semanticWeight, memory.ErrInvalidWeight)
	}
	keywordWeight := 1 - semanticWeight

	type entry struct {
		Result
		keywordOnly bool
		rank        int // rank within its own source list
	}

	merged := make([]entry, 0, len(semantic)+len(keyword))
	for i, sr := range semantic {
		e := entry{Result: sr, rank: i}
		e.Score = sr.Score * semanticWeight
		merged = append(merged, e)
	}

	for j, kr := range keyword {
		found := false
		for i := range merged {
			if merged[i].Date == kr.Date {
				merged[i].Score += kr.Score * keywordWeight
				merged[i].KeywordBoosted = true
				found = true
				break
			}
		}
		if found {
			continue
		}

		e := entry{Result: kr, keywordOnly: true, rank: j}
		e.ID = "kw-" + kr.Date
		e.Score = kr.Score * keywordWeight
		merged = append(merged, e)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		if merged[i].keywordOnly != merged[j].keywordOnly {
			return !merged[i].keywordOnly
		}
		return merged[i].rank < merged[j].rank
	})

	bound := mergeResultCap
	if limit > 0 && limit < bound {
		bound = limit
	}
	if len(merged) > bound {
		merged = merged[:bound]
	}

	results := make([]Result, len(merged))
	for i, e := range merged {
		results[i] = e.Result
	}
	return results, nil
}
