package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ActivityLog is an append-only audit record. It is written in the same
// transaction as the mutation it describes and is never updated.
type ActivityLog struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Action    string          `json:"action" db:"action"`
	ActorID   uint64          `json:"actor_id" db:"actor_id"`
	ActorName string          `json:"actor_name" db:"actor_name"`
	Details   json.RawMessage `json:"details" db:"details"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
