// Package service reads and writes extraction analytics
package service

import (
	"context"
	"time"

	perr "tasker/internal/platform/errors"
	"tasker/internal/services/analytics/domain"
	"tasker/internal/services/analytics/repo"
)

// Service defines the analytics read contract
type Service interface{ domain.SummaryPort }

// Svc implements Service over an optional repo
type Svc struct {
	repo repo.Repo
	now  func() time.Time
}

// New creates the analytics service, r may be nil when ClickHouse is off
func New(r repo.Repo, now func() time.Time) *Svc {
	if now == nil {
		now = time.Now
	}
	return &Svc{repo: r, now: now}
}

// Summary aggregates extractions since the given instant
func (s *Svc) Summary(ctx context.Context, since time.Time) (domain.Summary, error) {
	if s.repo == nil {
		return domain.Summary{}, perr.Unavailablef("analytics is disabled")
	}
	if since.After(s.now()) {
		return domain.Summary{}, perr.WithField(perr.InvalidArgf("since is in the future"), "since")
	}
	return s.repo.Summary(ctx, since)
}
