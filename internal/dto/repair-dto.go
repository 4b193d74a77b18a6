package dto

import "borrow-system/pkg/constants"

type CreateRepairRequestDTO struct {
	EquipmentID       uint64  `json:"equipment_id" validate:"required"`
	DamageDescription string  `json:"damage_description" validate:"required"`
	EstimatedCost     float64 `json:"estimated_cost" validate:"gte=0"`
}

type CompleteRepairDTO struct {
	RepairDetails string  `json:"repair_details" validate:"required"`
	FinalCost     float64 `json:"final_cost" validate:"gte=0"`
	PartsUsed     string  `json:"parts_used"`
}

type RepairRequestDTO struct {
	ID                uint64                 `json:"id"`
	EquipmentID       uint64                 `json:"equipment_id"`
	BorrowID          *uint64                `json:"borrow_id,omitempty"`
	AssessmentID      *uint64                `json:"assessment_id,omitempty"`
	DamageDescription string                 `json:"damage_description"`
	EstimatedCost     float64                `json:"estimated_cost"`
	FinalCost         *float64               `json:"final_cost,omitempty"`
	RepairDetails     *string                `json:"repair_details,omitempty"`
	PartsUsed         *string                `json:"parts_used,omitempty"`
	Status            constants.RepairStatus `json:"status"`
	CreatedAt         string                 `json:"created_at"`
}
