// Package service contains the task workflows
package service

import (
	"context"
	"strings"
	"time"

	"tasker/internal/core/calendar"
	"tasker/internal/core/extract"
	"tasker/internal/modkit/repokit"
	perr "tasker/internal/platform/errors"
	"tasker/internal/platform/logger"
	pnet "tasker/internal/platform/net"
	ptime "tasker/internal/platform/time"
	"tasker/internal/services/tasks/domain"
	"tasker/internal/services/tasks/repo"

	"github.com/google/uuid"
)

// Service defines the service contract for tasks
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner

	ex       *extract.Extractor
	sink     domain.ExtractionSink
	now      func() time.Time
	loc      *time.Location
	zone     string
	duration time.Duration
	source   string
}

// Option tunes a Svc
type Option func(*Svc)

// WithExtractor swaps the default extractor
func WithExtractor(e *extract.Extractor) Option { return func(s *Svc) { s.ex = e } }

// WithSink records every extraction into sink
func WithSink(sink domain.ExtractionSink) Option { return func(s *Svc) { s.sink = sink } }

// WithClock sets the reference clock and the zone "today" is computed in
func WithClock(now func() time.Time, loc *time.Location) Option {
	return func(s *Svc) {
		if now != nil {
			s.now = now
		}
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithCalendar sets the calendar zone and the default event length
func WithCalendar(zone string, d time.Duration) Option {
	return func(s *Svc) { s.zone, s.duration = zone, d }
}

// WithSource tags recorded extractions, the request context wins when it carries one
func WithSource(source string) Option { return func(s *Svc) { s.source = source } }

// New creates a new tasks service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opts ...Option) *Svc {
	if db == nil {
		panic("tasks.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("tasks.Service requires a non nil Repo binder")
	}
	s := &Svc{
		Repo:   binder.Bind(db),
		binder: binder,
		db:     db,
		ex:     extract.Default(),
		now:    time.Now,
		loc:    time.UTC,
		zone:   calendar.DefaultZone,
		source: domain.SourceAPI,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Now returns the service clock in its zone
func (s *Svc) Now() time.Time { return s.now().In(s.loc) }

// Location is the zone "today" is computed in
func (s *Svc) Location() *time.Location { return s.loc }

// Parse runs the extractor without saving anything
func (s *Svc) Parse(ctx context.Context, userID, text string, now time.Time) (extract.Result, error) {
	if strings.TrimSpace(text) == "" {
		return extract.Result{}, perr.WithField(perr.InvalidArgf("text must not be empty"), "text")
	}
	if now.IsZero() {
		now = s.Now()
	}
	res, tr := s.ex.ExtractTrace(text, now)
	s.record(ctx, domain.Extraction{
		At:      now,
		UserID:  userID,
		Source:  s.sourceOf(ctx),
		Result:  res,
		Trace:   tr,
		Lexicon: s.ex.Lexicon().Version(),
	})
	return res, nil
}

// Draft builds the task an utterance describes without storing it
func (s *Svc) Draft(ctx context.Context, userID, text string, now time.Time) (domain.Task, error) {
	if now.IsZero() {
		now = s.Now()
	}
	res, err := s.Parse(ctx, userID, text, now)
	if err != nil {
		return domain.Task{}, err
	}
	return domain.FromResult(res, userID, now, s.loc), nil
}

// CreateFromText drafts and stores a task
func (s *Svc) CreateFromText(ctx context.Context, userID, text string, now time.Time) (domain.Task, error) {
	t, err := s.Draft(ctx, userID, text, now)
	if err != nil {
		return domain.Task{}, err
	}
	return s.Create(ctx, t)
}

// Create validates and stores t, filling the id and timestamps when missing
func (s *Svc) Create(ctx context.Context, t domain.Task) (domain.Task, error) {
	t, err := s.prepare(t)
	if err != nil {
		return domain.Task{}, err
	}
	if err := s.Repo.Insert(ctx, t); err != nil {
		return domain.Task{}, err
	}
	logger.C(ctx).Debug().Str("task", t.ID.String()).Str("date", t.Date).Msg("task created")
	return t, nil
}

// Get returns one live task of userID
func (s *Svc) Get(ctx context.Context, userID string, id uuid.UUID) (domain.Task, error) {
	return s.Repo.Get(ctx, userID, id)
}

// ListByUser returns every live task of userID ordered by date then time
func (s *Svc) ListByUser(ctx context.Context, userID string) ([]domain.Task, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// ListByUserDate returns the live tasks of userID on date
func (s *Svc) ListByUserDate(ctx context.Context, userID, date string) ([]domain.Task, error) {
	if _, err := ptime.ParseDate(date, s.loc); err != nil {
		return nil, perr.WithField(perr.InvalidArgf("%v", err), "date")
	}
	return s.Repo.ListByUserDate(ctx, userID, date)
}

// SetDone flips the done flag
func (s *Svc) SetDone(ctx context.Context, userID string, id uuid.UUID, done bool) (domain.Task, error) {
	return s.Repo.SetDone(ctx, userID, id, done, s.now().UTC())
}

// Delete soft deletes a task, it stops showing up in reads
func (s *Svc) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	return s.Repo.SoftDelete(ctx, userID, id, s.now().UTC())
}

// Upsert stores a task sent by a client as is, the sync target
func (s *Svc) Upsert(ctx context.Context, t domain.Task) (domain.Task, error) {
	t, err := s.prepare(t)
	if err != nil {
		return domain.Task{}, err
	}
	var out domain.Task
	err = repokit.WithTx(ctx, s.db, s.binder, func(ctx context.Context, r repo.Repo) error {
		var err error
		out, err = r.Upsert(ctx, t)
		return err
	})
	return out, err
}

// HardDelete removes a task for good
func (s *Svc) HardDelete(ctx context.Context, userID string, id uuid.UUID) error {
	return s.Repo.HardDelete(ctx, userID, id)
}

// CalendarLink renders a Google Calendar template link for one task
func (s *Svc) CalendarLink(ctx context.Context, userID string, id uuid.UUID) (string, error) {
	t, err := s.Get(ctx, userID, id)
	if err != nil {
		return "", err
	}
	return calendar.GoogleLink(t.Event(s.duration), calendar.Options{Zone: s.zone, Now: s.Now()}), nil
}

func (s *Svc) prepare(t domain.Task) (domain.Task, error) {
	return t.Normalize(s.now(), s.loc)
}

func (s *Svc) sourceOf(ctx context.Context) string {
	if src := pnet.Source(ctx); src != "" {
		return src
	}
	return s.source
}

func (s *Svc) record(ctx context.Context, e domain.Extraction) {
	if s.sink == nil {
		return
	}
	s.sink.Record(ctx, e)
}
