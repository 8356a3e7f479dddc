// Package syncer pushes the local task copy to the remote store
//
// One run first replays tombstones as remote deletes, then sends every unsynced
// live task: a done-only change as SetDone, anything else as a full Upsert. A task
// that fails stays pending for the next run.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tasker/internal/platform/logger"
	offline "tasker/internal/services/offline/domain"
	tasks "tasker/internal/services/tasks/domain"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// ErrBusy means another sync holds the lock
var ErrBusy = errors.New("sync already running")

// Remote is where tasks go, the tasks service implements it
type Remote interface {
	Upsert(ctx context.Context, t tasks.Task) (tasks.Task, error)
	SetDone(ctx context.Context, userID string, id uuid.UUID, done bool) (tasks.Task, error)
	HardDelete(ctx context.Context, userID string, id uuid.UUID) error
}

// Local is the part of the offline store a run touches
type Local interface {
	Pending(ctx context.Context, user string) ([]offline.Record, error)
	Tombstones(ctx context.Context, user string) ([]offline.Record, error)
	HardDelete(ctx context.Context, id uuid.UUID) error
	MarkSynced(ctx context.Context, id uuid.UUID) error
}

// Report counts what a run did
type Report struct {
	Sent    int `json:"sent"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}

// Total is every change the remote accepted
func (r Report) Total() int { return r.Sent + r.Updated + r.Deleted }

// Message renders the user facing summary, only non zero counters are listed
func (r Report) Message() string {
	var parts []string
	if r.Sent > 0 {
		parts = append(parts, fmt.Sprintf("%d enviada(s)", r.Sent))
	}
	if r.Updated > 0 {
		parts = append(parts, fmt.Sprintf("%d atualizada(s)", r.Updated))
	}
	if r.Deleted > 0 {
		parts = append(parts, fmt.Sprintf("%d excluída(s)", r.Deleted))
	}
	msg := "Nada para sincronizar"
	if len(parts) > 0 {
		msg = "Sincronização concluída: " + strings.Join(parts, " · ")
	}
	if r.Failed > 0 {
		msg += fmt.Sprintf(" (%d falha(s))", r.Failed)
	}
	return msg
}

// Options configure a Syncer
type Options struct {
	LockPath string // required
	User     string // empty syncs every user in the local store
}

// Syncer runs sync passes, at most one at a time per lock file
type Syncer struct {
	local  Local
	remote Remote
	opt    Options
	log    *logger.Logger
}

// New builds a syncer
func New(local Local, remote Remote, opt Options) *Syncer {
	if local == nil || remote == nil {
		panic("syncer requires a local store and a remote")
	}
	if opt.LockPath == "" {
		panic("syncer requires a lock path")
	}
	return &Syncer{local: local, remote: remote, opt: opt, log: logger.Named("sync")}
}

// Run performs one pass, per task failures are logged and counted, not returned
func (s *Syncer) Run(ctx context.Context) (Report, error) {
	var rep Report
	unlock, err := s.lock()
	if err != nil {
		return rep, err
	}
	defer unlock()

	tombs, err := s.local.Tombstones(ctx, s.opt.User)
	if err != nil {
		return rep, fmt.Errorf("sync: list tombstones: %w", err)
	}
	for _, t := range tombs {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if err := s.remote.HardDelete(ctx, t.UserID, t.ID); err != nil {
			s.fail(&rep, t, "delete", err)
			continue
		}
		if err := s.local.HardDelete(ctx, t.ID); err != nil {
			s.fail(&rep, t, "local delete", err)
			continue
		}
		rep.Deleted++
	}

	pending, err := s.local.Pending(ctx, s.opt.User)
	if err != nil {
		return rep, fmt.Errorf("sync: list pending: %w", err)
	}
	for _, t := range pending {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if t.OnlyDone {
			if _, err := s.remote.SetDone(ctx, t.UserID, t.ID, t.Done); err != nil {
				s.fail(&rep, t, "set done", err)
				continue
			}
		} else if _, err := s.remote.Upsert(ctx, t.Task); err != nil {
			s.fail(&rep, t, "upsert", err)
			continue
		}
		if err := s.local.MarkSynced(ctx, t.ID); err != nil {
			s.fail(&rep, t, "mark synced", err)
			continue
		}
		if t.OnlyDone {
			rep.Updated++
		} else {
			rep.Sent++
		}
	}

	s.log.Info().
		Int("sent", rep.Sent).
		Int("updated", rep.Updated).
		Int("deleted", rep.Deleted).
		Int("failed", rep.Failed).
		Msg("sync finished")
	return rep, nil
}

func (s *Syncer) lock() (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.opt.LockPath), 0o755); err != nil {
		return nil, fmt.Errorf("sync: lock dir: %w", err)
	}
	fl := flock.New(s.opt.LockPath)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("sync: acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrBusy
	}
	return func() {
		if err := fl.Unlock(); err != nil {
			s.log.Warn().Err(err).Str("lock", s.opt.LockPath).Msg("release sync lock")
		}
	}, nil
}

func (s *Syncer) fail(rep *Report, t offline.Record, step string, err error) {
	rep.Failed++
	s.log.Error().Err(err).Str("task", t.ID.String()).Str("step", step).Msg("sync task failed")
}
