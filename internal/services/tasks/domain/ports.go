package domain

import (
	"context"
	"time"

	"tasker/internal/core/extract"

	"github.com/google/uuid"
)

// ServicePort is what the http layer, the CLI and the sync worker use
type ServicePort interface {
	Parse(ctx context.Context, userID, text string, now time.Time) (extract.Result, error)
	Draft(ctx context.Context, userID, text string, now time.Time) (Task, error)
	CreateFromText(ctx context.Context, userID, text string, now time.Time) (Task, error)
	Create(ctx context.Context, t Task) (Task, error)
	Get(ctx context.Context, userID string, id uuid.UUID) (Task, error)
	ListByUser(ctx context.Context, userID string) ([]Task, error)
	ListByUserDate(ctx context.Context, userID, date string) ([]Task, error)
	SetDone(ctx context.Context, userID string, id uuid.UUID, done bool) (Task, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	Upsert(ctx context.Context, t Task) (Task, error)
	HardDelete(ctx context.Context, userID string, id uuid.UUID) error
	CalendarLink(ctx context.Context, userID string, id uuid.UUID) (string, error)
}

// ExtractionSink receives every extraction, failures stay inside the sink
type ExtractionSink interface {
	Record(ctx context.Context, e Extraction)
}
