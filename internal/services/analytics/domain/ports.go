package domain

import (
	"context"
	"time"
)

// SummaryPort answers hit rate questions
type SummaryPort interface {
	Summary(ctx context.Context, since time.Time) (Summary, error)
}
