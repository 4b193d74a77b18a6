package entities

import (
	"github.com/aarondl/null/v8"

	"borrow-system/pkg/constants"
	"borrow-system/pkg/types"
)

type RepairRequest struct {
	ID                uint64                 `json:"id" db:"id"`
	EquipmentID       uint64                 `json:"equipment_id" db:"equipment_id"`
	BorrowID          null.Uint64            `json:"borrow_id" db:"borrow_id"`
	AssessmentID      null.Uint64            `json:"assessment_id" db:"assessment_id"`
	DamageDescription string                 `json:"damage_description" db:"damage_description"`
	EstimatedCost     float64                `json:"estimated_cost" db:"estimated_cost"`
	FinalCost         null.Float64           `json:"final_cost" db:"final_cost"`
	RepairDetails     null.String            `json:"repair_details" db:"repair_details"`
	PartsUsed         null.String            `json:"parts_used" db:"parts_used"`
	Status            constants.RepairStatus `json:"status" db:"status"`

	types.BaseEntity
}
