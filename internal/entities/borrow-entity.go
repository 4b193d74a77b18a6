package entities

import (
	"time"

	"github.com/aarondl/null/v8"

	"borrow-system/pkg/constants"
	"borrow-system/pkg/types"
)

type BorrowRequest struct {
	ID           uint64                 `json:"id" db:"id"`
	UserID       uint64                 `json:"user_id" db:"user_id"`
	UserName     string                 `json:"user_name" db:"user_name"`
	Purpose      string                 `json:"purpose" db:"purpose"`
	Contact      string                 `json:"contact" db:"contact"`
	Status       constants.BorrowStatus `json:"status" db:"status"`
	RequestDate  time.Time              `json:"request_date" db:"request_date"`
	DueDate      time.Time              `json:"due_date" db:"due_date"`
	ReturnedDate null.Time              `json:"returned_date" db:"returned_date"`

	// Ordered demand lines; not yet bound to concrete units.
	Lines []BorrowLine `json:"equipment_requests" db:"-"`
	// Concrete unit snapshots bound at approval time.
	Assigned []BorrowAssignment `json:"equipment_assigned" db:"-"`
	// Snapshot copied from Assigned when the request is returned.
	Returned []ReturnedItem `json:"equipment_returned" db:"-"`

	types.BaseEntity
}

type BorrowLine struct {
	ID            uint64 `json:"id" db:"id"`
	BorrowID      uint64 `json:"borrow_id" db:"borrow_id"`
	Position      int    `json:"position" db:"position"`
	EquipmentType string `json:"equipment_type" db:"equipment_type"`
	Quantity      int    `json:"quantity" db:"quantity"`
}

// BorrowAssignment binds one concrete equipment unit to a request slot.
// The snapshot fields are frozen at binding time; an abnormal pre-delivery
// assessment rewrites the slot in place with the replacement unit.
type BorrowAssignment struct {
	ID               uint64    `json:"id" db:"id"`
	BorrowID         uint64    `json:"borrow_id" db:"borrow_id"`
	Slot             int       `json:"slot" db:"slot"`
	EquipmentID      uint64    `json:"equipment_id" db:"equipment_id"`
	Name             string    `json:"name" db:"name"`
	Serial           string    `json:"serial" db:"serial"`
	Type             string    `json:"type" db:"type"`
	DeliveredAt      null.Time `json:"delivered_at" db:"delivered_at"`
	ReturnAssessedAt null.Time `json:"return_assessed_at" db:"return_assessed_at"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

type ReturnedItem struct {
	ID          uint64    `json:"id" db:"id"`
	BorrowID    uint64    `json:"borrow_id" db:"borrow_id"`
	EquipmentID uint64    `json:"equipment_id" db:"equipment_id"`
	Name        string    `json:"name" db:"name"`
	Serial      string    `json:"serial" db:"serial"`
	Type        string    `json:"type" db:"type"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
