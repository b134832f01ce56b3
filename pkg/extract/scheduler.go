package extract

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler runs the extractor on a cron schedule over the set of days the
// journal watcher reported as changed.
type Scheduler struct {
	extractor *Extractor
	cron      *cron.Cron
	logger    zerolog.Logger

	mu    sync.Mutex
	dirty map[string]bool
}

// NewScheduler creates a scheduler with a standard 5-field cron expression.
func NewScheduler(extractor *Extractor, schedule string, logger zerolog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		extractor: extractor,
		cron:      cron.New(),
		logger:    logger,
		dirty:     make(map[string]bool),
	}

	if _, err := s.cron.AddFunc(schedule, s.runPending); err != nil {
		return nil, err
	}

	return s, nil
}

// MarkDirty records that a day's journal changed and needs extraction.
func (s *Scheduler) MarkDirty(date string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty[date] = true
}

// Start begins the cron loop.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Msg("Extraction scheduler started")
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("Extraction scheduler stopped")
}

// runPending extracts every dirty day, oldest first.
func (s *Scheduler) runPending() {
	s.mu.Lock()
	dates := make([]string, 0, len(s.dirty))
	for date := range s.dirty {
		dates = append(dates, date)
	}
	s.dirty = make(map[string]bool)
	s.mu.Unlock()

	sort.Strings(dates)

	for _, date := range dates {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			s.logger.Warn().Str("date", date).Msg("Skipping unparseable dirty date")
			continue
		}

		if _, err := s.extractor.ExtractDay(context.Background(), day); err != nil {
			s.logger.Error().Err(err).Str("date", date).Msg("Extraction failed, day stays dirty")
			s.MarkDirty(date)
		}
	}
}
