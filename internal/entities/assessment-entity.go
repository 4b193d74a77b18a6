package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// ChecklistItem is a single inspection point marked normal or abnormal.
type ChecklistItem struct {
	Name   string `json:"name"`
	Result string `json:"result"`
}

type Assessment struct {
	ID           uint64          `json:"id" db:"id"`
	BorrowID     null.Uint64     `json:"borrow_id" db:"borrow_id"`
	EquipmentID  uint64          `json:"equipment_id" db:"equipment_id"`
	Phase        string          `json:"phase" db:"phase"`
	Result       string          `json:"result" db:"result"`
	Items        []ChecklistItem `json:"items" db:"items"`
	Notes        string          `json:"notes" db:"notes"`
	AssessorID   uint64          `json:"assessor_id" db:"assessor_id"`
	AssessorName string          `json:"assessor_name" db:"assessor_name"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}
