package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harun/cortex/internal/observability"
	"github.com/harun/cortex/internal/tracing"
	"github.com/harun/cortex/pkg/embedding"
	"github.com/harun/cortex/pkg/journal"
	"github.com/harun/cortex/pkg/memory"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const systemPrompt = `You are a memory summarization agent. You analyze a day's journal entries and extract what is worth keeping in long-term memory: important decisions and insights, knowledge worth retaining, action items. Skip temporary noise and trivial thoughts.`

// Extractor runs the daily summarization pipeline: journal entries in,
// validated long-term memories out.
type Extractor struct {
	store      *memory.Store
	embedder   embedding.Provider
	llm        LLMProvider
	journalDir string
	model      string
	maxTokens  int
	logger     zerolog.Logger
}

// Config holds extractor construction parameters.
type Config struct {
	Store      *memory.Store
	Embedder   embedding.Provider
	LLM        LLMProvider
	JournalDir string
	Model      string
	MaxTokens  int
	Logger     zerolog.Logger
}

// New creates an extractor.
func New(cfg Config) *Extractor {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &Extractor{
		store:      cfg.Store,
		embedder:   cfg.Embedder,
		llm:        cfg.LLM,
		journalDir: cfg.JournalDir,
		model:      cfg.Model,
		maxTokens:  maxTokens,
		logger:     cfg.Logger,
	}
}

// ExtractDay summarizes one day's journal into long-term memories and
// stores them. Returns the ids of the stored memories. A day with no
// journal file or no valuable entries stores nothing.
func (e *Extractor) ExtractDay(ctx context.Context, day time.Time) ([]string, error) {
	date := day.Format("2006-01-02")

	ctx, span := tracing.StartSpan(
		ctx,
		"cortex.extract",
		"extract.day",
		attribute.String("date", date),
	)
	defer span.End()

	logger := tracing.LoggerFromContext(ctx, e.logger).With().Str("date", date).Logger()

	entries, err := journal.ReadDay(e.journalDir, day)
	if err != nil {
		span.RecordError(err)
		observability.RecordExtraction("error")
		return nil, err
	}
	if len(entries) == 0 {
		logger.Info().Msg("No journal entries for day")
		observability.RecordExtraction("empty")
		return nil, nil
	}

	candidates, err := e.summarize(ctx, entries)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "summarization failed")
		observability.RecordExtraction("error")
		return nil, err
	}
	if len(candidates) == 0 {
		logger.Info().Msg("No long-term memories extracted")
		observability.RecordExtraction("empty")
		return nil, nil
	}

	var ids []string
	for _, c := range candidates {
		// A failed embedding is not fatal: the memory is stored without an
		// index row and stays reachable by id and date.
		vec, err := e.embedder.GenerateEmbedding(ctx, c.Summary)
		if err != nil {
			logger.Warn().Err(err).Msg("Embedding failed, storing memory without index entry")
			vec = nil
		}

		id, err := e.store.Insert(ctx, memory.Memory{
			Date:             date,
			Category:         c.Category,
			Summary:          c.Summary,
			Importance:       c.Importance,
			Tags:             c.Tags,
			OriginalTime:     c.OriginalTime,
			OriginalCategory: c.OriginalCategory,
		}, vec)
		if err != nil {
			span.RecordError(err)
			observability.RecordExtraction("error")
			return ids, fmt.Errorf("failed to store memory: %w", err)
		}
		ids = append(ids, id)
	}

	if n, err := e.store.Count(ctx); err == nil {
		observability.SetMemoriesTotal(n)
	}
	observability.RecordExtraction("success")

	logger.Info().Int("memories", len(ids)).Msg("Extraction completed")
	return ids, nil
}

// summarize asks the LLM which entries carry long-term value.
func (e *Extractor) summarize(ctx context.Context, entries []journal.Entry) ([]Candidate, error) {
	var b strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&b, "[%s] %s\n\n", entry.Category, entry.Text)
	}

	prompt := fmt.Sprintf(`# Today's journal entries:
%s
# Instructions:
For each entry with long-term value, provide:
- type: free-form label describing the memory's nature
- summary: concise 1-2 sentence summary
- importance: score 0-1
- tags: array of relevant tags (e.g. ["#tech", "#sqlite"])
- original_type: the entry's category tag
- original_time: the entry's HH:MM timestamp

Return ONLY a JSON array of these objects. Skip trivial content.`, b.String())

	output, err := e.llm.Complete(ctx, CompletionRequest{
		Model:        e.model,
		Prompt:       prompt,
		SystemPrompt: systemPrompt,
		MaxTokens:    e.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("completion failed: %w", err)
	}

	return ParseCandidates(output)
}
