package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"borrow-system/internal/dto"
	"borrow-system/internal/entities"
	"borrow-system/internal/events"
	"borrow-system/internal/repositories"
	"borrow-system/pkg/constants"
	"borrow-system/pkg/eventbus"
	"borrow-system/pkg/utils"
)

type RepairServiceInterface interface {
	CreateRepairRequest(ctx context.Context, data dto.CreateRepairRequestDTO) (uint64, error)
	ApproveRepair(ctx context.Context, id uint64) error
	RejectRepair(ctx context.Context, id uint64) error
	CompleteRepair(ctx context.Context, id uint64, data dto.CompleteRepairDTO) error
	GetRepairs(ctx context.Context, params utils.QueryParams) ([]dto.RepairRequestDTO, uint64, error)
	FindRepair(ctx context.Context, id uint64) (*dto.RepairRequestDTO, error)
}

type RepairService struct {
	pool          *pgxpool.Pool
	repairRepo    repositories.RepairRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	logRepo       repositories.ActivityLogRepositoryInterface
	cacheRepo     repositories.CacheRepositoryInterface
	bus           *eventbus.Bus
	logger        *zap.Logger
}

func NewRepairService(
	pool *pgxpool.Pool,
	repairRepo repositories.RepairRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	logRepo repositories.ActivityLogRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) RepairServiceInterface {
	return &RepairService{
		pool:          pool,
		repairRepo:    repairRepo,
		equipmentRepo: equipmentRepo,
		logRepo:       logRepo,
		cacheRepo:     cacheRepo,
		bus:           bus,
		logger:        logger,
	}
}

// CreateRepairRequest files damage outside an assessment, e.g. a technician
// noticing a fault in storage.
func (s *RepairService) CreateRepairRequest(ctx context.Context, data dto.CreateRepairRequestDTO) (uint64, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return 0, err
	}

	var id uint64
	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		id, err = s.repairRepo.CreateRepairInTx(ctx, tx, entities.RepairRequest{
			EquipmentID:       data.EquipmentID,
			DamageDescription: data.DamageDescription,
			EstimatedCost:     data.EstimatedCost,
		})
		if err != nil {
			return err
		}
		if err := s.equipmentRepo.UpdateStatusInTx(ctx, tx, data.EquipmentID, constants.EquipmentAvailable, constants.EquipmentPendingRepairApproval); err != nil {
			return err
		}
		return s.logRepo.AppendInTx(ctx, tx, constants.ActionCreateRepairRequest, actor.ID, actor.Name, map[string]interface{}{
			"repair_id":    id,
			"equipment_id": data.EquipmentID,
		})
	})
	if err != nil {
		s.logger.Error("failed to create repair request", zap.Error(err))
		return 0, err
	}

	s.bus.Publish(ctx, events.RepairRequestedEvent{RepairID: id, EquipmentID: data.EquipmentID})
	return id, nil
}

func (s *RepairService) ApproveRepair(ctx context.Context, id uint64) error {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		repair, err := s.repairRepo.FindRepairForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		nextStatus, err := constants.NextRepairStatus(repair.Status, constants.EventApprove)
		if err != nil {
			return err
		}
		if err := s.repairRepo.UpdateStatusInTx(ctx, tx, id, repair.Status, nextStatus); err != nil {
			return err
		}
		if err := s.equipmentRepo.UpdateStatusInTx(ctx, tx, repair.EquipmentID, constants.EquipmentPendingRepairApproval, constants.EquipmentUnderMaintenance); err != nil {
			return err
		}
		return s.logRepo.AppendInTx(ctx, tx, constants.ActionApproveRepair, actor.ID, actor.Name, map[string]interface{}{
			"repair_id":    id,
			"equipment_id": repair.EquipmentID,
		})
	})
	if err != nil {
		s.logger.Error("failed to approve repair", zap.Error(err), zap.Uint64("repairId", id))
	}
	return err
}

// RejectRepair sends the unit straight back into circulation.
func (s *RepairService) RejectRepair(ctx context.Context, id uint64) error {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	var equipmentType string
	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		repair, err := s.repairRepo.FindRepairForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		nextStatus, err := constants.NextRepairStatus(repair.Status, constants.EventReject)
		if err != nil {
			return err
		}
		if err := s.repairRepo.UpdateStatusInTx(ctx, tx, id, repair.Status, nextStatus); err != nil {
			return err
		}
		if err := s.equipmentRepo.UpdateStatusInTx(ctx, tx, repair.EquipmentID, constants.EquipmentPendingRepairApproval, constants.EquipmentAvailable); err != nil {
			return err
		}
		unit, err := s.equipmentRepo.FindEquipment(ctx, repair.EquipmentID)
		if err == nil {
			equipmentType = unit.Type
		}
		return s.logRepo.AppendInTx(ctx, tx, constants.ActionRejectRepair, actor.ID, actor.Name, map[string]interface{}{
			"repair_id":    id,
			"equipment_id": repair.EquipmentID,
		})
	})
	if err != nil {
		s.logger.Error("failed to reject repair", zap.Error(err), zap.Uint64("repairId", id))
		return err
	}

	s.invalidate(ctx, equipmentType)
	return nil
}

func (s *RepairService) CompleteRepair(ctx context.Context, id uint64, data dto.CompleteRepairDTO) error {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	var equipmentType string
	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		repair, err := s.repairRepo.FindRepairForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := constants.NextRepairStatus(repair.Status, constants.EventAssess); err != nil {
			return err
		}
		if err := s.repairRepo.CompleteRepairInTx(ctx, tx, id, data); err != nil {
			return err
		}
		if err := s.equipmentRepo.UpdateStatusInTx(ctx, tx, repair.EquipmentID, constants.EquipmentUnderMaintenance, constants.EquipmentAvailable); err != nil {
			return err
		}
		unit, err := s.equipmentRepo.FindEquipment(ctx, repair.EquipmentID)
		if err == nil {
			equipmentType = unit.Type
		}
		return s.logRepo.AppendInTx(ctx, tx, constants.ActionCompleteRepair, actor.ID, actor.Name, map[string]interface{}{
			"repair_id":    id,
			"equipment_id": repair.EquipmentID,
			"final_cost":   data.FinalCost,
		})
	})
	if err != nil {
		s.logger.Error("failed to complete repair", zap.Error(err), zap.Uint64("repairId", id))
		return err
	}

	s.invalidate(ctx, equipmentType)
	return nil
}

func (s *RepairService) GetRepairs(ctx context.Context, params utils.QueryParams) ([]dto.RepairRequestDTO, uint64, error) {
	repairs, total, err := s.repairRepo.GetRepairs(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	list := make([]dto.RepairRequestDTO, 0, len(repairs))
	for i := range repairs {
		list = append(list, repairToDTO(&repairs[i]))
	}
	return list, total, nil
}

func (s *RepairService) FindRepair(ctx context.Context, id uint64) (*dto.RepairRequestDTO, error) {
	repair, err := s.repairRepo.FindRepair(ctx, id)
	if err != nil {
		return nil, err
	}
	result := repairToDTO(repair)
	return &result, nil
}

func (s *RepairService) invalidate(ctx context.Context, equipmentType string) {
	if equipmentType == "" {
		return
	}
	if err := s.cacheRepo.Delete(ctx, availabilityCacheKey(equipmentType)); err != nil {
		s.logger.Warn("failed to invalidate availability cache", zap.Error(err))
	}
}

func repairToDTO(r *entities.RepairRequest) dto.RepairRequestDTO {
	out := dto.RepairRequestDTO{
		ID:                r.ID,
		EquipmentID:       r.EquipmentID,
		DamageDescription: r.DamageDescription,
		EstimatedCost:     r.EstimatedCost,
		Status:            r.Status,
		CreatedAt:         r.CreatedAt.Format(time.RFC3339),
	}
	if r.BorrowID.Valid {
		v := r.BorrowID.Uint64
		out.BorrowID = &v
	}
	if r.AssessmentID.Valid {
		v := r.AssessmentID.Uint64
		out.AssessmentID = &v
	}
	if r.FinalCost.Valid {
		v := r.FinalCost.Float64
		out.FinalCost = &v
	}
	if r.RepairDetails.Valid {
		v := r.RepairDetails.String
		out.RepairDetails = &v
	}
	if r.PartsUsed.Valid {
		v := r.PartsUsed.String
		out.PartsUsed = &v
	}
	return out
}
