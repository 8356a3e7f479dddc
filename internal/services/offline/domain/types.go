// Package domain holds the local copy of a task and its sync flags
package domain

import (
	"context"

	tasks "tasker/internal/services/tasks/domain"

	"github.com/google/uuid"
)

// Record is a task as kept on this machine
// Synced is false until the remote acknowledged the latest change, OnlyDone marks a
// pending change that only flipped Done so sync can send the smaller update
type Record struct {
	tasks.Task
	Synced   bool `json:"synced"`
	OnlyDone bool `json:"only_done_update,omitempty"`
}

// Filter narrows a listing, the zero value lists every live record of User
type Filter struct {
	User string
	Date string
	All  bool // include records of every user
}

// StorePort is what the CLI, the mcp tools and the sync worker need locally
type StorePort interface {
	Add(ctx context.Context, r Record) error
	Get(ctx context.Context, id uuid.UUID) (Record, error)
	List(ctx context.Context, f Filter) ([]Record, error)
	SetDone(ctx context.Context, id uuid.UUID, done bool) (Record, error)
	MarkDeleted(ctx context.Context, id uuid.UUID) error
	HardDelete(ctx context.Context, id uuid.UUID) error
	MarkSynced(ctx context.Context, id uuid.UUID) error
	Pending(ctx context.Context, user string) ([]Record, error)
	Tombstones(ctx context.Context, user string) ([]Record, error)
}
