package store

import (
	"basegraph.app/hooks/core/db/sqlc"
)

type Stores struct {
	queries *sqlc.Queries
}

func NewStores(queries *sqlc.Queries) *Stores {
	return &Stores{queries: queries}
}

func (s *Stores) Events() EventStore {
	return newEventStore(s.queries)
}
