package memory

import (
	"fmt"
	"time"
)

// Categories recognized in journal entries and memory records.
const (
	CategoryTask      = "task"
	CategoryKnowledge = "knowledge"
	CategoryNoise     = "noise"
	CategoryNote      = "note"
)

// Memory is a single long-term fact. The id is assigned at creation and
// never reused; it stays stable across devices so independently created
// stores can be merged without collisions.
type Memory struct {
	ID         string    `json:"id"`
	Date       string    `json:"date"` // YYYY-MM-DD
	Category   string    `json:"category"`
	Summary    string    `json:"summary"`
	Importance float64   `json:"importance"`
	Tags       []string  `json:"tags,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`

	// OriginalTime/OriginalCategory preserve where the memory came from in
	// the day's journal.
	OriginalTime     string `json:"original_time,omitempty"`
	OriginalCategory string `json:"original_category,omitempty"`
}

// metadata is the JSON shape stored in the memories.metadata column.
type metadata struct {
	OriginalTime     string   `json:"original_time,omitempty"`
	OriginalCategory string   `json:"original_type,omitempty"`
	Tags             []string `json:"tags,omitempty"`
}

// Profile is the singleton personal_info row.
type Profile struct {
	UserName  string    `json:"user_name"`
	Device    string    `json:"device"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks a memory record at the store boundary. Malformed input is
// rejected here rather than propagated through the pipeline.
func (m Memory) Validate() error {
	if m.Summary == "" {
		return fmt.Errorf("memory summary is required")
	}
	if _, err := time.Parse("2006-01-02", m.Date); err != nil {
		return fmt.Errorf("invalid memory date %q: %w", m.Date, err)
	}
	if m.Importance < 0 || m.Importance > 1 {
		return fmt.Errorf("importance %v outside [0, 1]", m.Importance)
	}
	return nil
}
