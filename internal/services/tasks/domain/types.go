// Package domain holds the task record and the DTOs of the tasks http and service contracts
package domain

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"tasker/internal/core/calendar"
	"tasker/internal/core/extract"
	perr "tasker/internal/platform/errors"
	ptime "tasker/internal/platform/time"

	"github.com/google/uuid"
)

// Sources an extraction can come from
const (
	SourceAPI = "api"
	SourceCLI = "cli"
	SourceMCP = "mcp"
)

// Task is one dated to-do owned by a user
type Task struct {
	ID          uuid.UUID `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        string    `json:"date"`
	Time        string    `json:"time,omitempty"`
	Done        bool      `json:"done"`
	Lat         *float64  `json:"lat,omitempty"`
	Lng         *float64  `json:"lng,omitempty"`
	Deleted     bool      `json:"deleted,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Event is the calendar view of t
func (t Task) Event(d time.Duration) calendar.Event {
	return calendar.Event{
		Title:       t.Title,
		Description: t.Description,
		Date:        t.Date,
		Time:        t.Time,
		Done:        t.Done,
		Lat:         t.Lat,
		Lng:         t.Lng,
		Duration:    d,
	}
}

// FromResult builds the task an extraction describes: the date defaults to today
// in loc, a missing time stays empty and the title is capitalized
func FromResult(res extract.Result, userID string, now time.Time, loc *time.Location) Task {
	date := res.Date
	if date == "" {
		date = ptime.Today(now, loc)
	}
	return Task{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     Capitalize(res.Title),
		Date:      date,
		Time:      res.Time,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

// Normalize checks t and fills the id, date and timestamps when missing
func (t Task) Normalize(now time.Time, loc *time.Location) (Task, error) {
	t.Title = Capitalize(t.Title)
	switch {
	case strings.TrimSpace(t.UserID) == "":
		return t, perr.WithField(perr.InvalidArgf("user id is required"), "user_id")
	case t.Title == "":
		return t, perr.WithField(perr.InvalidArgf("title must not be empty"), "title")
	}
	now = now.UTC()
	if t.Date == "" {
		t.Date = ptime.Today(now, loc)
	}
	if _, err := ptime.ParseDate(t.Date, loc); err != nil {
		return t, perr.WithField(perr.InvalidArgf("%v", err), "date")
	}
	if t.Time != "" {
		if _, _, err := ptime.ParseClock(t.Time); err != nil {
			return t, perr.WithField(perr.InvalidArgf("%v", err), "time")
		}
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
	return t, nil
}

// Capitalize upper-cases the first letter of s
func Capitalize(s string) string {
	s = strings.TrimSpace(s)
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// Extraction is one run of the extractor, recorded for analytics
type Extraction struct {
	At      time.Time
	UserID  string
	Source  string
	Result  extract.Result
	Trace   extract.Trace
	Lexicon int
}

// ParseInput is the body of the dry-run extraction endpoint
type ParseInput struct {
	Text string `json:"text" validate:"required,max=500" example:"Levar meu pet amanhã de tarde"`
	Now  string `json:"now,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00" example:"2024-01-10T10:00:00-03:00"`
}

// CreateInput is the body of the create endpoint
type CreateInput struct {
	Text        string   `json:"text" validate:"required,max=500" example:"Reunião com Ana quinta às 14h"`
	Description string   `json:"description,omitempty" validate:"max=2000"`
	Lat         *float64 `json:"lat,omitempty" validate:"omitempty,latitude"`
	Lng         *float64 `json:"lng,omitempty" validate:"omitempty,longitude"`
}

// DoneInput flips the done flag
type DoneInput struct {
	Done *bool `json:"done" validate:"required"`
}

// Parsed is the dry-run response
type Parsed struct {
	extract.Result
	Today string `json:"today"`
}

// CalendarLink carries a calendar template URL
type CalendarLink struct {
	URL string `json:"url"`
}
