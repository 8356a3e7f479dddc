// Package domain holds the extraction analytics records
package domain

import (
	"time"
	"unicode/utf8"

	tasks "tasker/internal/services/tasks/domain"

	"github.com/google/uuid"
)

// Event is one extraction flattened for the columnar store
type Event struct {
	ID       uuid.UUID `json:"event_id"`
	At       time.Time `json:"at"`
	UserID   string    `json:"user_id"`
	Source   string    `json:"source"`
	HasDate  bool      `json:"has_date"`
	HasTime  bool      `json:"has_time"`
	DateRule string    `json:"matched_date_rule"`
	TimeRule string    `json:"matched_time_rule"`
	TitleLen uint16    `json:"title_len"`
	Lexicon  uint16    `json:"lexicon_version"`
	Inferred bool      `json:"time_inferred"`
	Fallback string    `json:"title_fallback"`
}

// EventFrom flattens an extraction, the id is generated here
func EventFrom(e tasks.Extraction) Event {
	n := utf8.RuneCountInString(e.Result.Title)
	if n > 0xFFFF {
		n = 0xFFFF
	}
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	return Event{
		ID:       uuid.New(),
		At:       at.UTC(),
		UserID:   e.UserID,
		Source:   e.Source,
		HasDate:  e.Result.HasDate(),
		HasTime:  e.Result.HasTime(),
		DateRule: e.Trace.DateRule(),
		TimeRule: e.Trace.TimeRule(),
		TitleLen: uint16(n),
		Lexicon:  uint16(e.Lexicon),
		Inferred: e.Trace.Inferred,
		Fallback: e.Trace.Fallback,
	}
}

// RuleCount is how often one rule matched
type RuleCount struct {
	Rule  string `json:"rule" example:"amanha"`
	Count uint64 `json:"count" example:"12"`
}

// SourceCount is how many extractions one source ran
type SourceCount struct {
	Source string `json:"source" example:"api"`
	Count  uint64 `json:"count" example:"40"`
}

// Summary aggregates extractions since an instant
type Summary struct {
	Since     time.Time     `json:"since"`
	Total     uint64        `json:"total" example:"40"`
	WithDate  uint64        `json:"with_date" example:"30"`
	WithTime  uint64        `json:"with_time" example:"25"`
	Inferred  uint64        `json:"inferred" example:"5"`
	Fallbacks uint64        `json:"fallbacks" example:"1"`
	AvgTitle  float64       `json:"avg_title_len" example:"14.5"`
	DateRate  float64       `json:"date_rate" example:"0.75"`
	TimeRate  float64       `json:"time_rate" example:"0.625"`
	DateRules []RuleCount   `json:"date_rules"`
	TimeRules []RuleCount   `json:"time_rules"`
	Sources   []SourceCount `json:"sources"`
}

// Rates fills DateRate and TimeRate from the counters
func (s *Summary) Rates() {
	if s.Total == 0 {
		s.DateRate, s.TimeRate = 0, 0
		return
	}
	s.DateRate = float64(s.WithDate) / float64(s.Total)
	s.TimeRate = float64(s.WithTime) / float64(s.Total)
}
