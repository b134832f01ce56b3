// Package search implements hybrid retrieval: vector similarity over the
// memory store's index, keyword overlap over recent journal days, and the
// weighted merge that reconciles the two ranked lists.
package search

import (
	"context"
	"fmt"

	"github.com/harun/cortex/pkg/memory"
	"github.com/rs/zerolog"
)

// Source labels for merged results.
const (
	SourceSemantic = "semantic"
	SourceKeyword  = "keyword"
)

// Result is one ranked retrieval hit.
type Result struct {
	ID             string   `json:"id"`
	Date           string   `json:"date"`
	Category       string   `json:"category"`
	Summary        string   `json:"summary"`
	Importance     float64  `json:"importance,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Score          float64  `json:"score"`
	Source         string   `json:"source"`
	KeywordBoosted bool     `json:"keyword_boost,omitempty"`
}

// Semantic retrieves memories by vector distance. It only reads: the index
// is ordered by the store, distances are converted to similarities here.
type Semantic struct {
	store  *memory.Store
	logger zerolog.Logger
}

// NewSemantic creates a semantic searcher over a store.
func NewSemantic(store *memory.Store, logger zerolog.Logger) *Semantic {
	return &Semantic{store: store, logger: logger}
}

// Search returns up to limit memories nearest to queryVec by cosine
// distance, scored as similarity = 1 - distance. A zero or negative limit
// returns an empty list; an empty query vector is ErrInvalidQuery.
func (s *Semantic) Search(ctx context.Context, queryVec []float32, limit int) ([]Result, error) {
	if len(queryVec) == 0 {
		return nil, fmt.Errorf("empty query vector: %w", memory.ErrInvalidQuery)
	}
	if limit <= 0 {
		return []Result{}, nil
	}

	hits, err := s.store.Nearest(ctx, queryVec, limit)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return []Result{}, nil
	}

	slots := make([]int64, len(hits))
	for i, h := range hits {
		slots[i] = h.Slot
	}

	memories, err := s.store.ResolveSlots(ctx, slots)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(memories))
	for i, mem := range memories {
		results[i] = Result{
			ID:         mem.ID,
			Date:       mem.Date,
			Category:   mem.Category,
			Summary:    mem.Summary,
			Importance: mem.Importance,
			Tags:       mem.Tags,
			Score:      1.0 - hits[i].Distance,
			Source:     SourceSemantic,
		}
	}

	s.logger.Debug().Int("results", len(results)).Msg("Semantic search completed")
	return results, nil
}
