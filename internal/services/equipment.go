package services

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"borrow-system/internal/dto"
	"borrow-system/internal/repositories"
	"borrow-system/pkg/config"
	"borrow-system/pkg/constants"
	"borrow-system/pkg/utils"
)

type EquipmentServiceInterface interface {
	GetEquipment(ctx context.Context, params utils.QueryParams) ([]dto.EquipmentDTO, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error)
	CreateEquipment(ctx context.Context, data dto.CreateEquipmentDTO) (uint64, error)
	UpdateEquipment(ctx context.Context, id uint64, data dto.UpdateEquipmentDTO) error
	SoftDeleteEquipment(ctx context.Context, id uint64) error
	GetAvailability(ctx context.Context, equipmentType string) (*dto.AvailabilityDTO, error)
}

type EquipmentService struct {
	pool          *pgxpool.Pool
	equipmentRepo repositories.EquipmentRepositoryInterface
	logRepo       repositories.ActivityLogRepositoryInterface
	cacheRepo     repositories.CacheRepositoryInterface
	logger        *zap.Logger
	policy        config.BorrowConfig
}

func NewEquipmentService(
	pool *pgxpool.Pool,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	logRepo repositories.ActivityLogRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
	policy config.BorrowConfig,
) EquipmentServiceInterface {
	return &EquipmentService{
		pool:          pool,
		equipmentRepo: equipmentRepo,
		logRepo:       logRepo,
		cacheRepo:     cacheRepo,
		logger:        logger,
		policy:        policy,
	}
}

func availabilityCacheKey(equipmentType string) string {
	return "availability:" + equipmentType
}

func (s *EquipmentService) GetEquipment(ctx context.Context, params utils.QueryParams) ([]dto.EquipmentDTO, uint64, error) {
	return s.equipmentRepo.GetEquipment(ctx, params)
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error) {
	e, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return nil, err
	}
	result := repositories.EquipmentToDTO(*e)
	return &result, nil
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, data dto.CreateEquipmentDTO) (uint64, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return 0, err
	}

	var id uint64
	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		id, err = s.equipmentRepo.CreateEquipmentInTx(ctx, tx, data)
		if err != nil {
			return err
		}
		return s.logRepo.AppendInTx(ctx, tx, constants.ActionCreateEquipment, actor.ID, actor.Name, map[string]interface{}{
			"equipment_id": id,
			"serial":       data.Serial,
			"type":         data.Type,
		})
	})
	if err != nil {
		s.logger.Error("failed to create equipment", zap.Error(err))
		return 0, err
	}

	s.invalidate(ctx, data.Type)
	return id, nil
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, id uint64, data dto.UpdateEquipmentDTO) error {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if err := s.equipmentRepo.UpdateEquipmentInTx(ctx, tx, id, data); err != nil {
			return err
		}
		return s.logRepo.AppendInTx(ctx, tx, constants.ActionUpdateEquipment, actor.ID, actor.Name, map[string]interface{}{
			"equipment_id": id,
		})
	})
	if err != nil {
		s.logger.Error("failed to update equipment", zap.Error(err), zap.Uint64("equipmentId", id))
		return err
	}

	s.invalidate(ctx, data.Type)
	return nil
}

// SoftDeleteEquipment never removes the row; the unit just stops being
// visible to the borrow workflow.
func (s *EquipmentService) SoftDeleteEquipment(ctx context.Context, id uint64) error {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	unit, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return err
	}

	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if err := s.equipmentRepo.SoftDeleteEquipmentInTx(ctx, tx, id); err != nil {
			return err
		}
		return s.logRepo.AppendInTx(ctx, tx, constants.ActionDeleteEquipment, actor.ID, actor.Name, map[string]interface{}{
			"equipment_id": id,
			"serial":       unit.Serial,
		})
	})
	if err != nil {
		s.logger.Error("failed to soft-delete equipment", zap.Error(err), zap.Uint64("equipmentId", id))
		return err
	}

	s.invalidate(ctx, unit.Type)
	return nil
}

// GetAvailability serves per-type counts through a short-TTL cache. The
// approval path never reads this; correctness there comes from row locks.
func (s *EquipmentService) GetAvailability(ctx context.Context, equipmentType string) (*dto.AvailabilityDTO, error) {
	key := availabilityCacheKey(equipmentType)

	if cached, err := s.cacheRepo.Get(ctx, key); err == nil {
		if count, convErr := strconv.Atoi(cached); convErr == nil {
			return &dto.AvailabilityDTO{EquipmentType: equipmentType, Available: count}, nil
		}
	}

	count, err := s.equipmentRepo.CountAvailableByType(ctx, equipmentType)
	if err != nil {
		return nil, err
	}

	if err := s.cacheRepo.Set(ctx, key, strconv.Itoa(count), s.policy.AvailabilityCacheTTL); err != nil {
		s.logger.Warn("failed to cache availability count", zap.Error(err), zap.String("type", equipmentType))
	}

	return &dto.AvailabilityDTO{EquipmentType: equipmentType, Available: count}, nil
}

func (s *EquipmentService) invalidate(ctx context.Context, equipmentType string) {
	if err := s.cacheRepo.Delete(ctx, availabilityCacheKey(equipmentType)); err != nil {
		s.logger.Warn("failed to invalidate availability cache", zap.Error(err))
	}
}
