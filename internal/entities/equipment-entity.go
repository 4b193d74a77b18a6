package entities

import (
	"borrow-system/pkg/constants"
	"borrow-system/pkg/types"
)

type Equipment struct {
	ID     uint64                    `json:"id" db:"id"`
	Name   string                    `json:"name" db:"name"`
	Serial string                    `json:"serial" db:"serial"`
	Type   string                    `json:"type" db:"type"`
	Status constants.EquipmentStatus `json:"status" db:"status"`

	types.BaseEntity
}
