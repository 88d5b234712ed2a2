package store

import (
	"context"
	"encoding/json"
	"errors"

	"basegraph.app/hooks/core/db/sqlc"
	"basegraph.app/hooks/internal/model"
	"github.com/jackc/pgx/v5"
)

type eventStore struct {
	queries *sqlc.Queries
}

func newEventStore(queries *sqlc.Queries) EventStore {
	return &eventStore{queries: queries}
}

// Create inserts the event and returns it with the database-assigned ID and
// CreatedAt. Any ID or CreatedAt set by the caller is ignored.
func (s *eventStore) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	row, err := s.queries.CreateEvent(ctx, sqlc.CreateEventParams{
		Type:    event.Type,
		Payload: []byte(event.Payload),
	})
	if err != nil {
		return nil, err
	}
	return toEventModel(row), nil
}

func (s *eventStore) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	row, err := s.queries.GetEvent(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toEventModel(row), nil
}

func (s *eventStore) Count(ctx context.Context) (int64, error) {
	return s.queries.CountEvents(ctx)
}

func toEventModel(row sqlc.Event) *model.Event {
	return &model.Event{
		ID:        row.ID,
		Type:      row.Type,
		Payload:   json.RawMessage(row.Payload),
		CreatedAt: row.CreatedAt.Time,
	}
}
