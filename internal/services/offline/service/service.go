// Package service runs the local task workflows the CLI and the mcp tools share
package service

import (
	"context"
	"strings"
	"time"

	"tasker/internal/core/calendar"
	"tasker/internal/core/extract"
	"tasker/internal/modkit/repokit"
	perr "tasker/internal/platform/errors"
	"tasker/internal/services/offline/domain"
	"tasker/internal/services/offline/repo"
	tasks "tasker/internal/services/tasks/domain"

	"github.com/google/uuid"
)

// Svc implements domain.StorePort over sqlite
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Repo]
	repo   repo.Repo

	ex       *extract.Extractor
	sink     tasks.ExtractionSink
	now      func() time.Time
	loc      *time.Location
	zone     string
	duration time.Duration
	source   string
}

var _ domain.StorePort = (*Svc)(nil)

// Option tunes a Svc
type Option func(*Svc)

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

// WithSink records every extraction into sink
func WithSink(sink tasks.ExtractionSink) Option { return func(s *Svc) { s.sink = sink } }

// WithSource tags recorded extractions
func WithSource(source string) Option { return func(s *Svc) { s.source = source } }

// WithCalendar sets the calendar zone and the default event length
func WithCalendar(zone string, d time.Duration) Option {
	return func(s *Svc) { s.zone, s.duration = zone, d }
}

// New creates the local store service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opts ...Option) *Svc {
	if db == nil {
		panic("offline.Service requires a non nil TxRunner")
	}
	if binder == nil {
		binder = repo.NewLite()
	}
	s := &Svc{
		db:     db,
		binder: binder,
		repo:   binder.Bind(db),
		ex:     extract.Default(),
		now:    time.Now,
		loc:    time.UTC,
		zone:   calendar.DefaultZone,
		source: tasks.SourceCLI,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Now returns the service clock in its zone
func (s *Svc) Now() time.Time { return s.now().In(s.loc) }

// Extract runs the extractor and records the run
func (s *Svc) Extract(ctx context.Context, user, text string, now time.Time) (extract.Result, extract.Trace, error) {
	if strings.TrimSpace(text) == "" {
		return extract.Result{}, extract.Trace{}, perr.WithField(perr.InvalidArgf("text must not be empty"), "text")
	}
	if now.IsZero() {
		now = s.Now()
	}
	res, tr := s.ex.ExtractTrace(text, now)
	if s.sink != nil {
		s.sink.Record(ctx, tasks.Extraction{
			At: now, UserID: user, Source: s.source, Result: res, Trace: tr, Lexicon: s.ex.Lexicon().Version(),
		})
	}
	return res, tr, nil
}

// AddText drafts a task from an utterance and stores it unsynced
func (s *Svc) AddText(ctx context.Context, user, text string, now time.Time) (domain.Record, error) {
	if now.IsZero() {
		now = s.Now()
	}
	res, _, err := s.Extract(ctx, user, text, now)
	if err != nil {
		return domain.Record{}, err
	}
	rec := domain.Record{Task: tasks.FromResult(res, user, now, s.loc)}
	if err := s.Add(ctx, rec); err != nil {
		return domain.Record{}, err
	}
	return s.repo.Get(ctx, rec.ID)
}

// Add validates rec and writes it as is
func (s *Svc) Add(ctx context.Context, rec domain.Record) error {
	t, err := rec.Task.Normalize(s.now(), s.loc)
	if err != nil {
		return err
	}
	rec.Task = t
	return s.repo.Put(ctx, rec)
}

// Get returns one record, tombstones included
func (s *Svc) Get(ctx context.Context, id uuid.UUID) (domain.Record, error) {
	return s.repo.Get(ctx, id)
}

// List returns live records matching f
func (s *Svc) List(ctx context.Context, f domain.Filter) ([]domain.Record, error) {
	switch {
	case f.All && f.Date != "":
		return s.repo.ByDate(ctx, f.Date)
	case f.All:
		return s.repo.All(ctx)
	case f.Date != "":
		return s.repo.ByUserDate(ctx, f.User, f.Date)
	default:
		return s.repo.ByUser(ctx, f.User)
	}
}

// SetDone flips done and returns the updated record
func (s *Svc) SetDone(ctx context.Context, id uuid.UUID, done bool) (domain.Record, error) {
	var out domain.Record
	err := repokit.WithTx(ctx, s.db, s.binder, func(ctx context.Context, r repo.Repo) error {
		if err := r.SetDone(ctx, id, done, s.now()); err != nil {
			return err
		}
		var err error
		out, err = r.Get(ctx, id)
		return err
	})
	return out, err
}

// MarkDeleted tombstones a record until sync removes it remotely
func (s *Svc) MarkDeleted(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkDeleted(ctx, id, s.now())
}

// HardDelete removes a record locally
func (s *Svc) HardDelete(ctx context.Context, id uuid.UUID) error { return s.repo.HardDelete(ctx, id) }

// MarkSynced records the remote acknowledged the latest change
func (s *Svc) MarkSynced(ctx context.Context, id uuid.UUID) error { return s.repo.MarkSynced(ctx, id) }

// Pending lists live unsynced records of user, every user when empty
func (s *Svc) Pending(ctx context.Context, user string) ([]domain.Record, error) {
	return s.repo.Pending(ctx, user)
}

// Tombstones lists deleted records of user still kept locally
func (s *Svc) Tombstones(ctx context.Context, user string) ([]domain.Record, error) {
	return s.repo.Tombstones(ctx, user)
}

// Resolve accepts a full id or a unique prefix of one of user's live records
func (s *Svc) Resolve(ctx context.Context, user, ref string) (uuid.UUID, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if id, err := uuid.Parse(ref); err == nil {
		return id, nil
	}
	if len(ref) < 4 {
		return uuid.Nil, perr.WithField(perr.InvalidArgf("id prefix %q is too short", ref), "id")
	}
	recs, err := s.repo.ByUser(ctx, user)
	if err != nil {
		return uuid.Nil, err
	}
	var hits []uuid.UUID
	for _, r := range recs {
		if strings.HasPrefix(r.ID.String(), ref) {
			hits = append(hits, r.ID)
		}
	}
	switch len(hits) {
	case 0:
		return uuid.Nil, perr.NotFoundf("no task matches %q", ref)
	case 1:
		return hits[0], nil
	default:
		return uuid.Nil, perr.Conflictf("%q matches %d tasks", ref, len(hits))
	}
}

// CalendarLink renders a Google Calendar template link for one record
func (s *Svc) CalendarLink(ctx context.Context, id uuid.UUID) (string, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return calendar.GoogleLink(rec.Event(s.duration), calendar.Options{Zone: s.zone, Now: s.Now()}), nil
}
