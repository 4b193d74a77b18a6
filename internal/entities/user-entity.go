package entities

import (
	"borrow-system/pkg/types"
)

type User struct {
	ID       uint64 `json:"id" db:"id"`
	FullName string `json:"full_name" db:"full_name"`
	Email    string `json:"email" db:"email"`
	Password string `json:"-" db:"password"`
	Role     string `json:"role" db:"role"`
	Status   string `json:"status" db:"status"`

	types.BaseEntity
}
