package store

import (
	"context"
	"errors"

	"basegraph.app/hooks/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// EventStore defines the contract for event log data access.
// Events are append-only: there is no update or delete.
type EventStore interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	GetByID(ctx context.Context, id int64) (*model.Event, error)
	Count(ctx context.Context) (int64, error)
}
