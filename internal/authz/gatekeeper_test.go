package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"borrow-system/pkg/constants"
)

func TestGatekeeper_AdminPassesEverything(t *testing.T) {
	g := NewGatekeeper()
	for _, p := range []string{BorrowApprove, BorrowAssess, RepairManage, EquipmentWrite, UsersManage, AuditClear} {
		assert.True(t, g.Can(constants.RoleAdmin, p), p)
	}
}

func TestGatekeeper_RoleBoundaries(t *testing.T) {
	g := NewGatekeeper()

	assert.True(t, g.Can(constants.RoleApprover, BorrowApprove))
	assert.False(t, g.Can(constants.RoleApprover, RepairManage))
	assert.False(t, g.Can(constants.RoleApprover, UsersManage))

	assert.True(t, g.Can(constants.RoleTechnician, BorrowAssess))
	assert.True(t, g.Can(constants.RoleTechnician, RepairManage))
	assert.False(t, g.Can(constants.RoleTechnician, BorrowApprove))

	assert.False(t, g.Can(constants.RoleUser, BorrowApprove))
	assert.False(t, g.Can(constants.RoleUser, AuditClear))

	assert.False(t, g.Can("unknown", BorrowApprove))
}
