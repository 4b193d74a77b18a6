package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"borrow-system/internal/repositories"
	"borrow-system/pkg/config"
	"borrow-system/pkg/constants"
	"borrow-system/pkg/utils"
)

func newEquipmentServiceForTest(t *testing.T) EquipmentServiceInterface {
	t.Helper()
	nop := zap.NewNop()
	return NewEquipmentService(
		testPool,
		repositories.NewEquipmentRepository(testPool),
		repositories.NewActivityLogRepository(testPool),
		newMemoryCache(),
		nop,
		config.BorrowConfig{Period: 7 * 24 * time.Hour, AvailabilityCacheTTL: 30 * time.Second},
	)
}

func TestEquipmentService_FindEquipmentMatchesListShape(t *testing.T) {
	cleanupTables(t)
	svc := newEquipmentServiceForTest(t)
	id := seedUnit(t, "SPR-01", "sprayer")

	ctx := actorCtx(seedUser(t, "user"), "Test user", constants.RoleUser)

	single, err := svc.FindEquipment(ctx, id)
	require.NoError(t, err)

	list, total, err := svc.GetEquipment(ctx, utils.QueryParams{Limit: 10})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, list, 1)

	// The single-row read must carry the same fields as the list read,
	// timestamps included.
	assert.Equal(t, list[0], *single)
	assert.NotEmpty(t, single.CreatedAt)
	assert.NotEmpty(t, single.UpdatedAt)

	_, err = time.Parse(time.RFC3339, single.CreatedAt)
	assert.NoError(t, err)
}
