package service

import (
	"context"
	"sync/atomic"
	"time"

	"tasker/internal/platform/logger"
	"tasker/internal/services/analytics/domain"
	"tasker/internal/services/analytics/repo"
	tasks "tasker/internal/services/tasks/domain"
)

// RecorderOptions tune batching
type RecorderOptions struct {
	Queue        int           // buffered events before new ones are dropped
	Batch        int           // events per insert
	FlushEvery   time.Duration // upper bound on how long an event waits
	FlushTimeout time.Duration // per insert
}

func (o RecorderOptions) withDefaults() RecorderOptions {
	if o.Queue <= 0 {
		o.Queue = 4096
	}
	if o.Batch <= 0 {
		o.Batch = 256
	}
	if o.FlushEvery <= 0 {
		o.FlushEvery = 5 * time.Second
	}
	if o.FlushTimeout <= 0 {
		o.FlushTimeout = 10 * time.Second
	}
	return o
}

// Recorder batches extraction events into the repo
// a Recorder over a nil repo drops everything, failures are logged and never returned
type Recorder struct {
	repo repo.Repo
	opt  RecorderOptions
	log  *logger.Logger
	ch   chan domain.Event

	dropped atomic.Int64
	failed  atomic.Int64
	written atomic.Int64
}

var _ tasks.ExtractionSink = (*Recorder)(nil)

// NewRecorder builds a recorder, r may be nil
func NewRecorder(r repo.Repo, opt RecorderOptions) *Recorder {
	opt = opt.withDefaults()
	return &Recorder{
		repo: r,
		opt:  opt,
		log:  logger.Named("analytics"),
		ch:   make(chan domain.Event, opt.Queue),
	}
}

// Enabled reports whether events go anywhere
func (r *Recorder) Enabled() bool { return r != nil && r.repo != nil }

// Record queues one extraction without blocking
func (r *Recorder) Record(_ context.Context, e tasks.Extraction) {
	if !r.Enabled() {
		return
	}
	select {
	case r.ch <- domain.EventFrom(e):
	default:
		if n := r.dropped.Add(1); n == 1 || n%1000 == 0 {
			r.log.Warn().Int64("dropped", n).Msg("analytics queue full")
		}
	}
}

// Run drains the queue until ctx is done, then flushes what is left
func (r *Recorder) Run(ctx context.Context) {
	if !r.Enabled() {
		<-ctx.Done()
		return
	}
	tick := time.NewTicker(r.opt.FlushEvery)
	defer tick.Stop()

	buf := make([]domain.Event, 0, r.opt.Batch)
	for {
		select {
		case <-ctx.Done():
			buf = r.drain(buf)
			r.insert(context.Background(), buf)
			return
		case ev := <-r.ch:
			buf = append(buf, ev)
			if len(buf) >= r.opt.Batch {
				r.insert(ctx, buf)
				buf = buf[:0]
			}
		case <-tick.C:
			r.insert(ctx, buf)
			buf = buf[:0]
		}
	}
}

// Flush writes every queued event now, for processes that never call Run
func (r *Recorder) Flush(ctx context.Context) {
	if !r.Enabled() {
		return
	}
	buf := r.drain(nil)
	for len(buf) > 0 {
		n := min(len(buf), r.opt.Batch)
		r.insert(ctx, buf[:n])
		buf = buf[n:]
	}
}

// Stats returns written, failed and dropped counts
func (r *Recorder) Stats() (written, failed, dropped int64) {
	return r.written.Load(), r.failed.Load(), r.dropped.Load()
}

func (r *Recorder) drain(buf []domain.Event) []domain.Event {
	for {
		select {
		case ev := <-r.ch:
			buf = append(buf, ev)
		default:
			return buf
		}
	}
}

func (r *Recorder) insert(ctx context.Context, buf []domain.Event) {
	if len(buf) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, r.opt.FlushTimeout)
	defer cancel()
	if err := r.repo.Insert(ctx, buf); err != nil {
		r.failed.Add(int64(len(buf)))
		r.log.Error().Err(err).Int("events", len(buf)).Msg("analytics insert failed")
		return
	}
	r.written.Add(int64(len(buf)))
	r.log.Debug().Int("events", len(buf)).Msg("analytics batch written")
}
