package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"borrow-system/internal/dto"
	"borrow-system/internal/repositories"
	"borrow-system/pkg/constants"
	apperrors "borrow-system/pkg/errors"
	"borrow-system/pkg/eventbus"
)

func newRepairServiceForTest(t *testing.T) RepairServiceInterface {
	t.Helper()
	nop := zap.NewNop()
	return NewRepairService(
		testPool,
		repositories.NewRepairRepository(testPool),
		repositories.NewEquipmentRepository(testPool),
		repositories.NewActivityLogRepository(testPool),
		newMemoryCache(),
		eventbus.New(nop),
		nop,
	)
}

func TestRepairService_StandaloneLifecycle(t *testing.T) {
	cleanupTables(t)
	svc := newRepairServiceForTest(t)
	techID := seedUser(t, "technician")
	unit := seedUnit(t, "FOG-01", "fogging_machine")
	ctx := actorCtx(techID, "Test technician", constants.RoleTechnician)

	id, err := svc.CreateRepairRequest(ctx, dto.CreateRepairRequestDTO{
		EquipmentID:       unit,
		DamageDescription: "pump leaks fuel",
		EstimatedCost:     80,
	})
	require.NoError(t, err)
	assert.Equal(t, string(constants.EquipmentPendingRepairApproval), equipmentStatus(t, unit))

	require.NoError(t, svc.ApproveRepair(ctx, id))
	assert.Equal(t, string(constants.EquipmentUnderMaintenance), equipmentStatus(t, unit))

	// Approving twice is an illegal transition.
	err = svc.ApproveRepair(ctx, id)
	assert.True(t, errors.Is(err, apperrors.ErrIllegalTransition))

	require.NoError(t, svc.CompleteRepair(ctx, id, dto.CompleteRepairDTO{
		RepairDetails: "replaced pump seal",
		FinalCost:     95.50,
		PartsUsed:     "seal kit",
	}))
	assert.Equal(t, string(constants.EquipmentAvailable), equipmentStatus(t, unit))

	repair, err := svc.FindRepair(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, constants.RepairCompleted, repair.Status)
	require.NotNil(t, repair.FinalCost)
	assert.InDelta(t, 95.50, *repair.FinalCost, 0.001)
	require.NotNil(t, repair.RepairDetails)
	assert.Equal(t, "replaced pump seal", *repair.RepairDetails)

	assert.Equal(t, 1, countLogs(t, constants.ActionCreateRepairRequest))
	assert.Equal(t, 1, countLogs(t, constants.ActionApproveRepair))
	assert.Equal(t, 1, countLogs(t, constants.ActionCompleteRepair))
}

func TestRepairService_RejectReturnsUnitToCirculation(t *testing.T) {
	cleanupTables(t)
	svc := newRepairServiceForTest(t)
	techID := seedUser(t, "technician")
	unit := seedUnit(t, "SPR-01", "sprayer")
	ctx := actorCtx(techID, "Test technician", constants.RoleTechnician)

	id, err := svc.CreateRepairRequest(ctx, dto.CreateRepairRequestDTO{
		EquipmentID:       unit,
		DamageDescription: "clogged nozzle",
	})
	require.NoError(t, err)

	require.NoError(t, svc.RejectRepair(ctx, id))
	assert.Equal(t, string(constants.EquipmentAvailable), equipmentStatus(t, unit))

	repair, err := svc.FindRepair(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, constants.RepairRejected, repair.Status)

	// A rejected request cannot be completed later.
	err = svc.CompleteRepair(ctx, id, dto.CompleteRepairDTO{RepairDetails: "n/a"})
	assert.True(t, errors.Is(err, apperrors.ErrIllegalTransition))
}

func TestRepairService_CompleteRequiresApproval(t *testing.T) {
	cleanupTables(t)
	svc := newRepairServiceForTest(t)
	techID := seedUser(t, "technician")
	unit := seedUnit(t, "TRP-01", "mosquito_trap")
	ctx := actorCtx(techID, "Test technician", constants.RoleTechnician)

	id, err := svc.CreateRepairRequest(ctx, dto.CreateRepairRequestDTO{
		EquipmentID:       unit,
		DamageDescription: "broken fan",
	})
	require.NoError(t, err)

	err = svc.CompleteRepair(ctx, id, dto.CompleteRepairDTO{RepairDetails: "swapped fan", FinalCost: 15})
	assert.True(t, errors.Is(err, apperrors.ErrIllegalTransition))
	assert.Equal(t, string(constants.EquipmentPendingRepairApproval), equipmentStatus(t, unit))
}

func TestActivityLogService_ClearDeletesEverything(t *testing.T) {
	cleanupTables(t)
	logRepo := repositories.NewActivityLogRepository(testPool)
	svc := NewActivityLogService(testPool, logRepo, zap.NewNop())
	adminID := seedUser(t, "admin")
	ctx := actorCtx(adminID, "Test admin", constants.RoleAdmin)

	repairSvc := newRepairServiceForTest(t)
	for i := 0; i < 3; i++ {
		unit := seedUnit(t, "BULK-"+string(rune('A'+i)), "sprayer")
		_, err := repairSvc.CreateRepairRequest(ctx, dto.CreateRepairRequestDTO{
			EquipmentID:       unit,
			DamageDescription: "wear",
		})
		require.NoError(t, err)
	}
	require.Equal(t, 3, countLogs(t, constants.ActionCreateRepairRequest))

	deleted, err := svc.Clear(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, deleted)

	// Only the record of the clear itself remains.
	var remaining int
	require.NoError(t, testPool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM activity_logs`).Scan(&remaining))
	assert.Equal(t, 1, remaining)
	assert.Equal(t, 1, countLogs(t, constants.ActionClearActivityLog))
}
