package dto

import (
	"encoding/json"
	"time"
)

type ActivityLogDTO struct {
	ID        string          `json:"id"`
	Action    string          `json:"action"`
	ActorID   uint64          `json:"actor_id"`
	ActorName string          `json:"actor_name"`
	Details   json.RawMessage `json:"details"`
	CreatedAt time.Time       `json:"created_at"`
}
