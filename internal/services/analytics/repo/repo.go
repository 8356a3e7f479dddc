// Package repo stores extraction events in ClickHouse
package repo

import (
	"context"
	"fmt"
	"time"

	"tasker/internal/platform/store"
	"tasker/internal/services/analytics/domain"
)

// Table is where extraction events land
const Table = "extraction_events"

// Schema creates the events table
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS ` + Table + ` (
		event_id          UUID,
		at                DateTime64(3, 'UTC'),
		user_id           String,
		source            LowCardinality(String),
		has_date          Bool,
		has_time          Bool,
		matched_date_rule LowCardinality(String),
		matched_time_rule LowCardinality(String),
		title_len         UInt16,
		lexicon_version   UInt16,
		time_inferred     Bool,
		title_fallback    LowCardinality(String)
	) ENGINE = MergeTree
	PARTITION BY toYYYYMM(at)
	ORDER BY (at, event_id)`,
}

// Repo is the analytics storage surface
type Repo interface {
	Migrate(ctx context.Context) error
	Insert(ctx context.Context, events []domain.Event) error
	Summary(ctx context.Context, since time.Time) (domain.Summary, error)
}

type chRepo struct{ ch store.Clickhouse }

// NewCH binds the repo to a ClickHouse client
func NewCH(ch store.Clickhouse) Repo {
	if ch == nil {
		panic("analytics repo requires a Clickhouse client")
	}
	return &chRepo{ch: ch}
}

func (r *chRepo) Migrate(ctx context.Context) error {
	for i, stmt := range Schema {
		if err := r.ch.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("analytics schema step %d: %w", i, err)
		}
	}
	return nil
}

// Insert appends events in column order as one batch
func (r *chRepo) Insert(ctx context.Context, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(events))
	for _, e := range events {
		rows = append(rows, []any{
			e.ID, e.At, e.UserID, e.Source, e.HasDate, e.HasTime,
			e.DateRule, e.TimeRule, e.TitleLen, e.Lexicon, e.Inferred, e.Fallback,
		})
	}
	return r.ch.Insert(ctx, Table, rows)
}

func (r *chRepo) Summary(ctx context.Context, since time.Time) (domain.Summary, error) {
	out := domain.Summary{Since: since.UTC()}

	rows, err := r.ch.Query(ctx, `
SELECT
	count(),
	countIf(has_date),
	countIf(has_time),
	countIf(time_inferred),
	countIf(title_fallback != ''),
	ifNotFinite(avg(title_len), 0)
FROM `+Table+`
WHERE at >= ?`, since.UTC())
	if err != nil {
		return out, fmt.Errorf("analytics summary: %w", err)
	}
	err = scanOne(rows, &out.Total, &out.WithDate, &out.WithTime, &out.Inferred, &out.Fallbacks, &out.AvgTitle)
	if err != nil {
		return out, fmt.Errorf("analytics summary: %w", err)
	}

	if out.DateRules, err = r.rules(ctx, "matched_date_rule", since); err != nil {
		return out, err
	}
	if out.TimeRules, err = r.rules(ctx, "matched_time_rule", since); err != nil {
		return out, err
	}
	if out.Sources, err = r.sources(ctx, since); err != nil {
		return out, err
	}
	out.Rates()
	return out, nil
}

// rules counts the top hits of one rule column, col is never user input
func (r *chRepo) rules(ctx context.Context, col string, since time.Time) ([]domain.RuleCount, error) {
	rows, err := r.ch.Query(ctx, `
SELECT `+col+` AS rule, count() AS c
FROM `+Table+`
WHERE at >= ? AND `+col+` != ''
GROUP BY rule
ORDER BY c DESC, rule
LIMIT 10`, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("analytics %s: %w", col, err)
	}
	defer rows.Close()

	out := []domain.RuleCount{}
	for rows.Next() {
		var rc domain.RuleCount
		if err := rows.Scan(&rc.Rule, &rc.Count); err != nil {
			return nil, fmt.Errorf("analytics %s scan: %w", col, err)
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

func (r *chRepo) sources(ctx context.Context, since time.Time) ([]domain.SourceCount, error) {
	rows, err := r.ch.Query(ctx, `
SELECT source, count()
FROM `+Table+`
WHERE at >= ?
GROUP BY source
ORDER BY source`, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("analytics sources: %w", err)
	}
	defer rows.Close()

	out := []domain.SourceCount{}
	for rows.Next() {
		var sc domain.SourceCount
		if err := rows.Scan(&sc.Source, &sc.Count); err != nil {
			return nil, fmt.Errorf("analytics sources scan: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func scanOne(rows store.Rows, dest ...any) error {
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return fmt.Errorf("no rows")
	}
	if err := rows.Scan(dest...); err != nil {
		return err
	}
	return rows.Err()
}
