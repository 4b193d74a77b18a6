package dto

import (
	"time"

	"borrow-system/internal/entities"
	"borrow-system/pkg/constants"
)

type BorrowLineDTO struct {
	EquipmentType string `json:"equipment_type" validate:"required"`
	Quantity      int    `json:"quantity" validate:"required,gt=0"`
}

type CreateBorrowRequestDTO struct {
	Purpose string          `json:"purpose" validate:"required"`
	Contact string          `json:"contact" validate:"required"`
	Lines   []BorrowLineDTO `json:"equipment_requests" validate:"required,min=1,dive"`
}

type AssignedEquipmentDTO struct {
	Slot        int    `json:"slot"`
	EquipmentID uint64 `json:"equipment_id"`
	Name        string `json:"name"`
	Serial      string `json:"serial"`
	Type        string `json:"type"`
	Delivered   bool   `json:"delivered"`
}

type BorrowRequestDTO struct {
	ID           uint64                 `json:"id"`
	UserID       uint64                 `json:"user_id"`
	UserName     string                 `json:"user_name"`
	Purpose      string                 `json:"purpose"`
	Contact      string                 `json:"contact"`
	Status       constants.BorrowStatus `json:"status"`
	RequestDate  time.Time              `json:"request_date"`
	DueDate      time.Time              `json:"due_date"`
	ReturnedDate *time.Time             `json:"returned_date,omitempty"`
	Lines        []BorrowLineDTO        `json:"equipment_requests"`
	Assigned     []AssignedEquipmentDTO `json:"equipment_assigned"`
	Returned     []AssignedEquipmentDTO `json:"equipment_returned"`
	CreatedAt    time.Time              `json:"created_at"`
}

type ChecklistItemDTO struct {
	Name   string `json:"name" validate:"required"`
	Result string `json:"result" validate:"required,checklist_result"`
}

// PreDeliveryAssessmentDTO records a technician's inspection of one assigned
// unit before hand-over. ReplacementEquipmentID is required only when any
// checklist item is abnormal.
type PreDeliveryAssessmentDTO struct {
	EquipmentID            uint64             `json:"equipment_id" validate:"required"`
	Items                  []ChecklistItemDTO `json:"items" validate:"required,min=1,dive"`
	Notes                  string             `json:"notes"`
	ReplacementEquipmentID uint64             `json:"replacement_equipment_id"`
}

type PostReturnAssessmentDTO struct {
	EquipmentID uint64             `json:"equipment_id" validate:"required"`
	Items       []ChecklistItemDTO `json:"items" validate:"required,min=1,dive"`
	Notes       string             `json:"notes"`
	// Populated when any item is abnormal; seeds the repair request.
	DamageDescription string  `json:"damage_description"`
	EstimatedCost     float64 `json:"estimated_cost" validate:"gte=0"`
}

func ChecklistFromDTO(items []ChecklistItemDTO) []entities.ChecklistItem {
	out := make([]entities.ChecklistItem, 0, len(items))
	for _, it := range items {
		out = append(out, entities.ChecklistItem{Name: it.Name, Result: it.Result})
	}
	return out
}

// ChecklistHasAbnormal reports whether any inspection point failed.
func ChecklistHasAbnormal(items []ChecklistItemDTO) bool {
	for _, it := range items {
		if it.Result == constants.ResultAbnormal {
			return true
		}
	}
	return false
}
