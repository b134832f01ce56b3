package search

import (
	"sort"
	"strings"
	"time"

	"github.com/harun/cortex/pkg/journal"
	"github.com/rs/zerolog"
)

// keywordResultCap bounds keyword results regardless of the caller's limit.
// The window is a recency sample, not a fully ranked corpus; callers that
// want more should widen the window.
const keywordResultCap = 10

// Keyword scans recent journal days for term overlap. It never touches the
// memory store and has no notion of memory ids.
type Keyword struct {
	dir    string
	logger zerolog.Logger
	now    func() time.Time
}

// NewKeyword creates a keyword searcher over a journal directory.
func NewKeyword(dir string, logger zerolog.Logger) *Keyword {
	return &Keyword{dir: dir, logger: logger, now: time.Now}
}

// Search scans the most recent windowDays calendar days (today inclusive)
// and scores each entry by the fraction of distinct query terms it
// contains. Entries scoring zero are dropped; results are ordered by score
// descending with more recent dates first on ties, capped at 10. Days with
// no journal file are skipped.
func (k *Keyword) Search(queryText string, windowDays int) []Result {
	terms := distinctTerms(queryText)
	if len(terms) == 0 || windowDays <= 0 {
		return []Result{}
	}

	today := k.now()
	var results []Result

	for i := 0; i < windowDays; i++ {
		day := today.AddDate(0, 0, -i)
		entries, err := journal.ReadDay(k.dir, day)
		if err != nil {
			k.logger.Warn().Err(err).Str("date", day.Format("2006-01-02")).Msg("Failed to read journal day")
			continue
		}

		for _, entry := range entries {
			text := strings.ToLower(entry.Text)
			matched := 0
			for _, term := range terms {
				if strings.Contains(text, term) {
					matched++
				}
			}
			if matched == 0 {
				continue
			}

			results = append(results, Result{
				Date:     entry.Date,
				Category: entry.Category,
				Summary:  entry.Text,
				Score:    float64(matched) / float64(len(terms)),
				Source:   SourceKeyword,
			})
		}
	}

	// Days are visited newest first, so a stable sort on score keeps the
	// recency tie-break deterministic.
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Date > results[j].Date
	})

	if len(results) > keywordResultCap {
		results = results[:keywordResultCap]
	}
	return results
}

// distinctTerms lowercases and splits the query; duplicate terms collapse.
func distinctTerms(query string) []string {
	seen := make(map[string]bool)
	var terms []string
	for _, term := range strings.Fields(strings.ToLower(query)) {
		if !seen[term] {
			seen[term] = true
			terms = append(terms, term)
		}
	}
	return terms
}
