package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/harun/cortex/internal/observability"
	"github.com/harun/cortex/internal/tracing"
	"github.com/harun/cortex/pkg/embedding"
	"github.com/harun/cortex/pkg/memory"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

// Options configures one retrieval.
type Options struct {
	Limit          int
	SemanticWeight float64
	WindowDays     int
}

// DefaultOptions mirrors the CLI defaults.
func DefaultOptions() *Options {
	return &Options{
		Limit:          10,
		SemanticWeight: 0.7,
		WindowDays:     3,
	}
}

// Retriever runs a full hybrid retrieval: embed the query, fan out to the
// semantic and keyword searchers, merge.
type Retriever struct {
	semantic *Semantic
	keyword  *Keyword
	embedder embedding.Provider
	logger   zerolog.Logger
}

// Config holds retriever construction parameters.
type Config struct {
	Store      *memory.Store
	JournalDir string
	Embedder   embedding.Provider
	Logger     zerolog.Logger
}

// NewRetriever creates a retriever.
func NewRetriever(cfg Config) *Retriever {
	return &Retriever{
		semantic: NewSemantic(cfg.Store, cfg.Logger),
		keyword:  NewKeyword(cfg.JournalDir, cfg.Logger),
		embedder: cfg.Embedder,
		logger:   cfg.Logger,
	}
}

// Retrieve answers a free-text query with a ranked result list. The query
// vector is mandatory: if the embedder fails or returns an empty vector the
// whole retrieval fails with ErrInvalidQuery. A failed journal scan only
// empties the keyword contribution.
func (r *Retriever) Retrieve(ctx context.Context, query string, opts *Options) ([]Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts == nil {
		opts = DefaultOptions()
	}

	ctx, span := tracing.StartSpan(
		ctx,
		"cortex.search",
		"search.retrieve",
		attribute.String("query", query),
	)
	defer span.End()

	queryID, _ := gonanoid.New()
	logger := r.logger.With().Str("query_id", queryID).Logger()

	start := time.Now()
	defer func() { observability.RecordRetrieval(time.Since(start)) }()

	queryVec, err := r.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query (%v): %w", err, memory.ErrInvalidQuery)
	}
	if len(queryVec) == 0 {
		return nil, fmt.Errorf("embedding service returned empty vector: %w", memory.ErrInvalidQuery)
	}

	// The two searches touch disjoint resources and may run concurrently;
	// merge happens only after both complete.
	var semanticResults, keywordResults []Result
	var semanticErr error

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		semanticResults, semanticErr = r.semantic.Search(ctx, queryVec, opts.Limit)
	}()

	go func() {
		defer wg.Done()
		keywordResults = r.keyword.Search(query, opts.WindowDays)
	}()

	wg.Wait()

	if semanticErr != nil {
		span.RecordError(semanticErr)
		return nil, semanticErr
	}

	results, err := Merge(semanticResults, keywordResults, opts.SemanticWeight, opts.Limit)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Int("semantic", len(semanticResults)).
		Int("keyword", len(keywordResults)).
		Int("merged", len(results)).
		Msg("Retrieval completed")

	return results, nil
}
