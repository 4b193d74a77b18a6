package authz

import "borrow-system/pkg/constants"

// Permissions name the operations a role can perform. The admin role passes
// every check.
const (
	BorrowApprove  = "borrow:approve"
	BorrowAssess   = "borrow:assess"
	BorrowReturn   = "borrow:return"
	RepairManage   = "repair:manage"
	EquipmentWrite = "equipment:write"
	UsersManage    = "users:manage"
	AuditClear     = "audit:clear"
)

var rolePermissions = map[string]map[string]bool{
	constants.RoleApprover: {
		BorrowApprove: true,
	},
	constants.RoleTechnician: {
		BorrowAssess: true,
		BorrowReturn: true,
		RepairManage: true,
	},
	constants.RoleUser: {},
}
