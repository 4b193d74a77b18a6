package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"borrow-system/internal/dto"
	"borrow-system/internal/repositories"
	"borrow-system/pkg/constants"
	"borrow-system/pkg/utils"
)

// clearBatchSize mirrors the store's batch-delete limit.
const clearBatchSize = 500

type ActivityLogServiceInterface interface {
	GetLogs(ctx context.Context, params utils.QueryParams) ([]dto.ActivityLogDTO, uint64, error)
	Clear(ctx context.Context) (int64, error)
}

type ActivityLogService struct {
	pool    *pgxpool.Pool
	logRepo repositories.ActivityLogRepositoryInterface
	logger  *zap.Logger
}

func NewActivityLogService(pool *pgxpool.Pool, logRepo repositories.ActivityLogRepositoryInterface, logger *zap.Logger) ActivityLogServiceInterface {
	return &ActivityLogService{pool: pool, logRepo: logRepo, logger: logger}
}

func (s *ActivityLogService) GetLogs(ctx context.Context, params utils.QueryParams) ([]dto.ActivityLogDTO, uint64, error) {
	logs, total, err := s.logRepo.GetLogs(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	list := make([]dto.ActivityLogDTO, 0, len(logs))
	for _, l := range logs {
		list = append(list, dto.ActivityLogDTO{
			ID:        l.ID.String(),
			Action:    l.Action,
			ActorID:   l.ActorID,
			ActorName: l.ActorName,
			Details:   l.Details,
			CreatedAt: l.CreatedAt,
		})
	}
	return list, total, nil
}

// Clear deletes the whole collection in fixed-size batches. This is the only
// path that removes audit entries.
func (s *ActivityLogService) Clear(ctx context.Context) (int64, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return 0, err
	}

	var total int64
	for {
		deleted, err := s.logRepo.DeleteBatch(ctx, clearBatchSize)
		if err != nil {
			return total, err
		}
		total += deleted
		if deleted < clearBatchSize {
			break
		}
	}

	// Leave a single entry recording who emptied the collection.
	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		return s.logRepo.AppendInTx(ctx, tx, constants.ActionClearActivityLog, actor.ID, actor.Name,
			map[string]interface{}{"deleted": total})
	})
	if err != nil {
		return total, err
	}

	s.logger.Info("activity log cleared",
		zap.Int64("deleted", total),
		zap.Uint64("actorId", actor.ID),
	)
	return total, nil
}
