// Package agent defines the capability surface agents use to work with the
// memory system. Variants are independent types sharing an interface, not a
// base type with shared state.
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harun/cortex/pkg/journal"
	"github.com/harun/cortex/pkg/memory"
	"github.com/harun/cortex/pkg/search"
	"github.com/rs/zerolog"
)

// Assistant is the memory capability an agent needs: look up what is known,
// record what was learned.
type Assistant interface {
	RetrieveRelevant(ctx context.Context, query string, limit int) ([]search.Result, error)
	RecordInsight(ctx context.Context, text, category string) error
}

// ResearchAssistant gathers prior knowledge for a topic.
type ResearchAssistant struct {
	retriever  *search.Retriever
	journalDir string
	logger     zerolog.Logger
}

// NewResearchAssistant creates a research assistant.
func NewResearchAssistant(retriever *search.Retriever, journalDir string, logger zerolog.Logger) *ResearchAssistant {
	return &ResearchAssistant{retriever: retriever, journalDir: journalDir, logger: logger}
}

func (a *ResearchAssistant) RetrieveRelevant(ctx context.Context, query string, limit int) ([]search.Result, error) {
	opts := search.DefaultOptions()
	opts.Limit = limit
	return a.retriever.Retrieve(ctx, query, opts)
}

func (a *ResearchAssistant) RecordInsight(ctx context.Context, text, category string) error {
	if category == "" {
		category = memory.CategoryKnowledge
	}
	return journal.Append(a.journalDir, time.Now(), category, text)
}

// Findings summarizes what the store already knows about a topic, with a
// confidence derived from the result scores.
type Findings struct {
	Topic      string   `json:"topic"`
	Summaries  []string `json:"summaries"`
	Confidence float64  `json:"confidence"`
}

// Research collects prior knowledge on a topic.
func (a *ResearchAssistant) Research(ctx context.Context, topic string, limit int) (Findings, error) {
	results, err := a.RetrieveRelevant(ctx, topic, limit)
	if err != nil {
		return Findings{}, err
	}

	f := Findings{Topic: topic}
	for _, r := range results {
		f.Summaries = append(f.Summaries, r.Summary)
		f.Confidence += r.Score
	}
	if len(results) > 0 {
		f.Confidence /= float64(len(results))
	}
	return f, nil
}

// PlanningAssistant drafts plans from similar past experiences.
type PlanningAssistant struct {
	retriever  *search.Retriever
	journalDir string
	logger     zerolog.Logger
}

// NewPlanningAssistant creates a planning assistant.
func NewPlanningAssistant(retriever *search.Retriever, journalDir string, logger zerolog.Logger) *PlanningAssistant {
	return &PlanningAssistant{retriever: retriever, journalDir: journalDir, logger: logger}
}

func (a *PlanningAssistant) RetrieveRelevant(ctx context.Context, query string, limit int) ([]search.Result, error) {
	opts := search.DefaultOptions()
	opts.Limit = limit
	return a.retriever.Retrieve(ctx, "how to "+query, opts)
}

func (a *PlanningAssistant) RecordInsight(ctx context.Context, text, category string) error {
	if category == "" {
		category = memory.CategoryTask
	}
	return journal.Append(a.journalDir, time.Now(), category, text)
}

// Plan turns past experiences into ordered steps. With no prior knowledge
// it returns a single research step.
func (a *PlanningAssistant) Plan(ctx context.Context, goal string, limit int) ([]string, error) {
	results, err := a.RetrieveRelevant(ctx, goal, limit)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return []string{fmt.Sprintf("Research %q from scratch", goal)}, nil
	}

	steps := make([]string, 0, len(results))
	for _, r := range results {
		steps = append(steps, fmt.Sprintf("Apply prior experience (%s): %s", r.Date, truncate(r.Summary, 80)))
	}
	return steps, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n]) + "..."
}
