package model

import (
	"encoding/json"
	"time"
)

// EventTypeUnknown is stored when a webhook body carries no usable type.
const EventTypeUnknown = "unknown"

// Event is one persisted webhook notification. ID and CreatedAt are assigned
// by the database on insert.
type Event struct {
	CreatedAt time.Time       `json:"created_at"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	ID        int64           `json:"id"`
}
