package dto

import "borrow-system/pkg/constants"

type CreateEquipmentDTO struct {
	Name   string `json:"name" validate:"required"`
	Serial string `json:"serial" validate:"required,equipment_serial"`
	Type   string `json:"type" validate:"required"`
}

type UpdateEquipmentDTO struct {
	Name   string `json:"name" validate:"required"`
	Serial string `json:"serial" validate:"required,equipment_serial"`
	Type   string `json:"type" validate:"required"`
}

type EquipmentDTO struct {
	ID        uint64                    `json:"id"`
	Name      string                    `json:"name"`
	Serial    string                    `json:"serial"`
	Type      string                    `json:"type"`
	Status    constants.EquipmentStatus `json:"status"`
	CreatedAt string                    `json:"created_at"`
	UpdatedAt string                    `json:"updated_at"`
}

type AvailabilityDTO struct {
	EquipmentType string `json:"equipment_type"`
	Available     int    `json:"available"`
}
