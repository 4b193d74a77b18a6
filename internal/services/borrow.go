package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"borrow-system/internal/dto"
	"borrow-system/internal/entities"
	"borrow-system/internal/events"
	"borrow-system/internal/repositories"
	"borrow-system/pkg/config"
	"borrow-system/pkg/constants"
	apperrors "borrow-system/pkg/errors"
	"borrow-system/pkg/eventbus"
	"borrow-system/pkg/utils"
)

type BorrowServiceInterface interface {
	SubmitRequest(ctx context.Context, data dto.CreateBorrowRequestDTO) (uint64, error)
	ApproveRequest(ctx context.Context, id uint64) (*dto.BorrowRequestDTO, error)
	RejectRequest(ctx context.Context, id uint64) error
	PreDeliveryAssessment(ctx context.Context, borrowID uint64, data dto.PreDeliveryAssessmentDTO) error
	ProcessReturn(ctx context.Context, id uint64) error
	PostReturnAssessment(ctx context.Context, borrowID uint64, data dto.PostReturnAssessmentDTO) error
	GetBorrows(ctx context.Context, params utils.QueryParams) ([]dto.BorrowRequestDTO, uint64, error)
	FindBorrow(ctx context.Context, id uint64) (*dto.BorrowRequestDTO, error)
}

// BorrowService owns the borrow request lifecycle: submission, approval with
// auto-assignment, delivery assessment, return and post-return assessment.
// Every mutation runs in one transaction together with its audit log entry.
type BorrowService struct {
	pool           *pgxpool.Pool
	borrowRepo     repositories.BorrowRepositoryInterface
	equipmentRepo  repositories.EquipmentRepositoryInterface
	assessmentRepo repositories.AssessmentRepositoryInterface
	repairRepo     repositories.RepairRepositoryInterface
	logRepo        repositories.ActivityLogRepositoryInterface
	cacheRepo      repositories.CacheRepositoryInterface
	bus            *eventbus.Bus
	logger         *zap.Logger
	policy         config.BorrowConfig
}

func NewBorrowService(
	pool *pgxpool.Pool,
	borrowRepo repositories.BorrowRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	assessmentRepo repositories.AssessmentRepositoryInterface,
	repairRepo repositories.RepairRepositoryInterface,
	logRepo repositories.ActivityLogRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
	policy config.BorrowConfig,
) BorrowServiceInterface {
	return &BorrowService{
		pool:           pool,
		borrowRepo:     borrowRepo,
		equipmentRepo:  equipmentRepo,
		assessmentRepo: assessmentRepo,
		repairRepo:     repairRepo,
		logRepo:        logRepo,
		cacheRepo:      cacheRepo,
		bus:            bus,
		logger:         logger,
		policy:         policy,
	}
}

// SubmitRequest accepts the demand unconditionally; availability is checked
// only at approval time.
func (s *BorrowService) SubmitRequest(ctx context.Context, data dto.CreateBorrowRequestDTO) (uint64, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return 0, err
	}

	requestDate := time.Now()
	dueDate := requestDate.Add(s.policy.Period)

	var newID uint64
	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		newID, err = s.borrowRepo.CreateBorrowInTx(ctx, tx, actor.ID, actor.Name, data, requestDate, dueDate)
		if err != nil {
			return err
		}
		return s.logRepo.AppendInTx(ctx, tx, constants.ActionCreateBorrowRequest, actor.ID, actor.Name, map[string]interface{}{
			"borrow_id":          newID,
			"equipment_requests": data.Lines,
			"due_date":           dueDate,
		})
	})
	if err != nil {
		s.logger.Error("failed to submit borrow request", zap.Error(err), zap.Uint64("actorId", actor.ID))
		return 0, err
	}

	if borrow, findErr := s.borrowRepo.FindBorrow(ctx, newID); findErr == nil {
		s.bus.Publish(ctx, events.BorrowSubmittedEvent{Borrow: borrow})
	}

	return newID, nil
}

// ApproveRequest binds concrete units to every demand line and moves the
// request to pending_delivery. The availability check for every line
// completes before any write is issued; candidate rows stay locked for the
// rest of the transaction, so a concurrent approval over the same pool
// cannot bind the same unit. Units are taken oldest first.
func (s *BorrowService) ApproveRequest(ctx context.Context, id uint64) (*dto.BorrowRequestDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	var assigned []entities.BorrowAssignment
	var affectedTypes []string

	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		borrow, err := s.borrowRepo.FindBorrowForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}

		nextStatus, err := constants.NextBorrowStatus(borrow.Status, constants.EventApprove)
		if err != nil {
			return err
		}

		// Check every demand before touching anything. Lines are merged by
		// type first: a request may carry the same type on several lines,
		// and locking per line would hand out the same rows twice.
		var units []entities.Equipment
		for _, demand := range mergeDemandLines(borrow.Lines) {
			candidates, err := s.equipmentRepo.LockAvailableByType(ctx, tx, demand.EquipmentType, demand.Quantity)
			if err != nil {
				return err
			}
			if len(candidates) < demand.Quantity {
				return fmt.Errorf("%w: need %d of type %q, only %d available",
					apperrors.ErrInsufficientAvailability, demand.Quantity, demand.EquipmentType, len(candidates))
			}
			units = append(units, candidates...)
			affectedTypes = append(affectedTypes, demand.EquipmentType)
		}

		for _, unit := range units {
			if err := s.equipmentRepo.UpdateStatusInTx(ctx, tx, unit.ID, constants.EquipmentAvailable, constants.EquipmentPendingDelivery); err != nil {
				return err
			}
		}

		assigned, err = s.borrowRepo.CreateAssignmentsInTx(ctx, tx, id, units)
		if err != nil {
			return err
		}

		if err := s.borrowRepo.UpdateStatusInTx(ctx, tx, id, borrow.Status, nextStatus); err != nil {
			return err
		}

		return s.logRepo.AppendInTx(ctx, tx, constants.ActionApproveAndAutoAssign, actor.ID, actor.Name, map[string]interface{}{
			"borrow_id":          id,
			"equipment_assigned": assigned,
		})
	})
	if err != nil {
		s.logger.Error("failed to approve borrow request", zap.Error(err), zap.Uint64("borrowId", id))
		return nil, err
	}

	s.invalidateAvailability(ctx, affectedTypes...)
	s.bus.Publish(ctx, events.BorrowApprovedEvent{BorrowID: id, Assigned: assigned})

	return s.FindBorrow(ctx, id)
}

// mergeDemandLines collapses lines sharing an equipment type into a single
// demand, keeping the order the types first appear in.
func mergeDemandLines(lines []entities.BorrowLine) []entities.BorrowLine {
	index := make(map[string]int, len(lines))
	merged := make([]entities.BorrowLine, 0, len(lines))
	for _, line := range lines {
		if i, ok := index[line.EquipmentType]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.EquipmentType] = len(merged)
		merged = append(merged, entities.BorrowLine{
			EquipmentType: line.EquipmentType,
			Quantity:      line.Quantity,
		})
	}
	return merged
}

// RejectRequest is terminal; no equipment was bound, so none is touched.
func (s *BorrowService) RejectRequest(ctx context.Context, id uint64) error {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		borrow, err := s.borrowRepo.FindBorrowForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		nextStatus, err := constants.NextBorrowStatus(borrow.Status, constants.EventReject)
		if err != nil {
			return err
		}
		if err := s.borrowRepo.UpdateStatusInTx(ctx, tx, id, borrow.Status, nextStatus); err != nil {
			return err
		}
		return s.logRepo.AppendInTx(ctx, tx, constants.ActionRejectBorrow, actor.ID, actor.Name, map[string]interface{}{
			"borrow_id": id,
		})
	})
	if err != nil {
		s.logger.Error("failed to reject borrow request", zap.Error(err), zap.Uint64("borrowId", id))
		return err
	}

	s.bus.Publish(ctx, events.BorrowRejectedEvent{BorrowID: id})
	return nil
}

// PreDeliveryAssessment inspects one assigned unit before hand-over. A fully
// normal checklist delivers the unit as-is; any abnormal item sends the
// faulty unit to maintenance and swaps in the selected replacement of the
// same type. The request becomes borrowed only once the last assigned unit
// has been assessed.
func (s *BorrowService) PreDeliveryAssessment(ctx context.Context, borrowID uint64, data dto.PreDeliveryAssessmentDTO) error {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	abnormal := dto.ChecklistHasAbnormal(data.Items)
	now := time.Now()
	var delivered bool
	var affectedTypes []string

	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		borrow, err := s.borrowRepo.FindBorrowForUpdateInTx(ctx, tx, borrowID)
		if err != nil {
			return err
		}
		if borrow.Status != constants.BorrowPendingDelivery {
			return fmt.Errorf("%w: borrow request %d is not awaiting delivery", apperrors.ErrIllegalTransition, borrowID)
		}

		assignment, err := s.borrowRepo.FindAssignmentByEquipmentInTx(ctx, tx, borrowID, data.EquipmentID)
		if err != nil {
			return err
		}

		result := constants.ResultNormal
		if abnormal {
			result = constants.ResultAbnormal
		}
		assessment := entities.Assessment{
			BorrowID:     null.Uint64From(borrowID),
			EquipmentID:  data.EquipmentID,
			Phase:        constants.PhasePreDelivery,
			Result:       result,
			Items:        dto.ChecklistFromDTO(data.Items),
			Notes:        data.Notes,
			AssessorID:   actor.ID,
			AssessorName: actor.Name,
		}
		if _, err := s.assessmentRepo.CreateAssessmentInTx(ctx, tx, assessment); err != nil {
			return err
		}

		if !abnormal {
			if err := s.equipmentRepo.UpdateStatusInTx(ctx, tx, data.EquipmentID, constants.EquipmentPendingDelivery, constants.EquipmentBorrowed); err != nil {
				return err
			}
			if err := s.borrowRepo.MarkDeliveredInTx(ctx, tx, assignment.ID, now); err != nil {
				return err
			}
			if err := s.logRepo.AppendInTx(ctx, tx, constants.ActionConfirmDelivery, actor.ID, actor.Name, map[string]interface{}{
				"borrow_id":    borrowID,
				"equipment_id": data.EquipmentID,
			}); err != nil {
				return err
			}
		} else {
			if data.ReplacementEquipmentID == 0 {
				return apperrors.NewInvalidInputError("an abnormal assessment requires a replacement unit")
			}

			if err := s.equipmentRepo.UpdateStatusInTx(ctx, tx, data.EquipmentID, constants.EquipmentPendingDelivery, constants.EquipmentUnderMaintenance); err != nil {
				return err
			}

			replacement, err := s.equipmentRepo.LockAvailableByID(ctx, tx, data.ReplacementEquipmentID)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return apperrors.NewInvalidInputError("replacement unit %d is not available", data.ReplacementEquipmentID)
				}
				return fmt.Errorf("failed to lock replacement unit %d: %w", data.ReplacementEquipmentID, err)
			}
			if replacement.Type != assignment.Type {
				return apperrors.NewInvalidInputError("replacement unit must be of type %q", assignment.Type)
			}

			if err := s.equipmentRepo.UpdateStatusInTx(ctx, tx, replacement.ID, constants.EquipmentAvailable, constants.EquipmentBorrowed); err != nil {
				return err
			}
			if err := s.borrowRepo.ReplaceAssignmentInTx(ctx, tx, assignment.ID, *replacement); err != nil {
				return err
			}
			if err := s.borrowRepo.MarkDeliveredInTx(ctx, tx, assignment.ID, now); err != nil {
				return err
			}
			affectedTypes = append(affectedTypes, replacement.Type)

			if err := s.logRepo.AppendInTx(ctx, tx, constants.ActionChangeEquipmentDeliver, actor.ID, actor.Name, map[string]interface{}{
				"borrow_id":      borrowID,
				"faulty_id":      data.EquipmentID,
				"replacement_id": replacement.ID,
			}); err != nil {
				return err
			}
		}

		remaining, err := s.borrowRepo.CountUndeliveredInTx(ctx, tx, borrowID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			nextStatus, err := constants.NextBorrowStatus(borrow.Status, constants.EventDeliver)
			if err != nil {
				return err
			}
			if err := s.borrowRepo.UpdateStatusInTx(ctx, tx, borrowID, borrow.Status, nextStatus); err != nil {
				return err
			}
			delivered = true
		}
		return nil
	})
	if err != nil {
		s.logger.Error("pre-delivery assessment failed", zap.Error(err), zap.Uint64("borrowId", borrowID))
		return err
	}

	s.invalidateAvailability(ctx, affectedTypes...)
	if delivered {
		s.bus.Publish(ctx, events.BorrowDeliveredEvent{BorrowID: borrowID})
	}
	return nil
}

// ProcessReturn records the return of all borrowed units. Equipment keeps
// its borrowed status until the post-return assessment decides its fate.
func (s *BorrowService) ProcessReturn(ctx context.Context, id uint64) error {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		borrow, err := s.borrowRepo.FindBorrowForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		nextStatus, err := constants.NextBorrowStatus(borrow.Status, constants.EventReturn)
		if err != nil {
			return err
		}
		if err := s.borrowRepo.SetReturnedDateInTx(ctx, tx, id, now); err != nil {
			return err
		}
		if err := s.borrowRepo.CopyAssignmentsToReturnedInTx(ctx, tx, id); err != nil {
			return err
		}
		if err := s.borrowRepo.UpdateStatusInTx(ctx, tx, id, borrow.Status, nextStatus); err != nil {
			return err
		}
		return s.logRepo.AppendInTx(ctx, tx, constants.ActionProcessReturn, actor.ID, actor.Name, map[string]interface{}{
			"borrow_id":     id,
			"returned_date": now,
		})
	})
	if err != nil {
		s.logger.Error("failed to process return", zap.Error(err), zap.Uint64("borrowId", id))
		return err
	}

	s.bus.Publish(ctx, events.BorrowReturnedEvent{BorrowID: id})
	return nil
}

// PostReturnAssessment inspects one returned unit. A normal result frees the
// unit; an abnormal one opens a repair request and parks the unit pending
// repair approval. The request completes once the last unit is assessed.
func (s *BorrowService) PostReturnAssessment(ctx context.Context, borrowID uint64, data dto.PostReturnAssessmentDTO) error {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	abnormal := dto.ChecklistHasAbnormal(data.Items)
	now := time.Now()
	var completed bool
	var repairID uint64
	var affectedTypes []string

	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		borrow, err := s.borrowRepo.FindBorrowForUpdateInTx(ctx, tx, borrowID)
		if err != nil {
			return err
		}
		if borrow.Status != constants.BorrowReturnedPending {
			return fmt.Errorf("%w: borrow request %d is not awaiting assessment", apperrors.ErrIllegalTransition, borrowID)
		}

		assignment, err := s.borrowRepo.FindAssignmentByEquipmentInTx(ctx, tx, borrowID, data.EquipmentID)
		if err != nil {
			return err
		}

		result := constants.ResultNormal
		if abnormal {
			result = constants.ResultAbnormal
		}
		assessmentID, err := s.assessmentRepo.CreateAssessmentInTx(ctx, tx, entities.Assessment{
			BorrowID:     null.Uint64From(borrowID),
			EquipmentID:  data.EquipmentID,
			Phase:        constants.PhasePostReturn,
			Result:       result,
			Items:        dto.ChecklistFromDTO(data.Items),
			Notes:        data.Notes,
			AssessorID:   actor.ID,
			AssessorName: actor.Name,
		})
		if err != nil {
			return err
		}

		if !abnormal {
			if err := s.equipmentRepo.UpdateStatusInTx(ctx, tx, data.EquipmentID, constants.EquipmentBorrowed, constants.EquipmentAvailable); err != nil {
				return err
			}
			affectedTypes = append(affectedTypes, assignment.Type)
		} else {
			if data.DamageDescription == "" {
				return apperrors.NewInvalidInputError("an abnormal assessment requires a damage description")
			}
			repairID, err = s.repairRepo.CreateRepairInTx(ctx, tx, entities.RepairRequest{
				EquipmentID:       data.EquipmentID,
				BorrowID:          null.Uint64From(borrowID),
				AssessmentID:      null.Uint64From(assessmentID),
				DamageDescription: data.DamageDescription,
				EstimatedCost:     data.EstimatedCost,
			})
			if err != nil {
				return err
			}
			if err := s.equipmentRepo.UpdateStatusInTx(ctx, tx, data.EquipmentID, constants.EquipmentBorrowed, constants.EquipmentPendingRepairApproval); err != nil {
				return err
			}
			if err := s.logRepo.AppendInTx(ctx, tx, constants.ActionCreateRepairFromAssess, actor.ID, actor.Name, map[string]interface{}{
				"borrow_id":     borrowID,
				"equipment_id":  data.EquipmentID,
				"repair_id":     repairID,
				"assessment_id": assessmentID,
			}); err != nil {
				return err
			}
		}

		if err := s.borrowRepo.MarkReturnAssessedInTx(ctx, tx, assignment.ID, now); err != nil {
			return err
		}

		if err := s.logRepo.AppendInTx(ctx, tx, constants.ActionPostAssessment, actor.ID, actor.Name, map[string]interface{}{
			"borrow_id":    borrowID,
			"equipment_id": data.EquipmentID,
			"result":       result,
		}); err != nil {
			return err
		}

		remaining, err := s.borrowRepo.CountReturnUnassessedInTx(ctx, tx, borrowID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			nextStatus, err := constants.NextBorrowStatus(borrow.Status, constants.EventAssess)
			if err != nil {
				return err
			}
			if err := s.borrowRepo.UpdateStatusInTx(ctx, tx, borrowID, borrow.Status, nextStatus); err != nil {
				return err
			}
			completed = true
		}
		return nil
	})
	if err != nil {
		s.logger.Error("post-return assessment failed", zap.Error(err), zap.Uint64("borrowId", borrowID))
		return err
	}

	s.invalidateAvailability(ctx, affectedTypes...)
	if completed {
		s.bus.Publish(ctx, events.BorrowCompletedEvent{BorrowID: borrowID})
	}
	if repairID != 0 {
		s.bus.Publish(ctx, events.RepairRequestedEvent{RepairID: repairID, EquipmentID: data.EquipmentID})
	}
	return nil
}

func (s *BorrowService) GetBorrows(ctx context.Context, params utils.QueryParams) ([]dto.BorrowRequestDTO, uint64, error) {
	borrows, total, err := s.borrowRepo.GetBorrows(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	list := make([]dto.BorrowRequestDTO, 0, len(borrows))
	for i := range borrows {
		list = append(list, borrowToDTO(&borrows[i]))
	}
	return list, total, nil
}

func (s *BorrowService) FindBorrow(ctx context.Context, id uint64) (*dto.BorrowRequestDTO, error) {
	borrow, err := s.borrowRepo.FindBorrow(ctx, id)
	if err != nil {
		return nil, err
	}
	result := borrowToDTO(borrow)
	return &result, nil
}

func (s *BorrowService) invalidateAvailability(ctx context.Context, equipmentTypes ...string) {
	if len(equipmentTypes) == 0 {
		return
	}
	keys := make([]string, 0, len(equipmentTypes))
	for _, t := range equipmentTypes {
		keys = append(keys, availabilityCacheKey(t))
	}
	if err := s.cacheRepo.Delete(ctx, keys...); err != nil {
		s.logger.Warn("failed to invalidate availability cache", zap.Error(err))
	}
}

func borrowToDTO(b *entities.BorrowRequest) dto.BorrowRequestDTO {
	out := dto.BorrowRequestDTO{
		ID:          b.ID,
		UserID:      b.UserID,
		UserName:    b.UserName,
		Purpose:     b.Purpose,
		Contact:     b.Contact,
		Status:      b.Status,
		RequestDate: b.RequestDate,
		DueDate:     b.DueDate,
		CreatedAt:   b.CreatedAt,
		Lines:       make([]dto.BorrowLineDTO, 0, len(b.Lines)),
		Assigned:    make([]dto.AssignedEquipmentDTO, 0, len(b.Assigned)),
		Returned:    make([]dto.AssignedEquipmentDTO, 0, len(b.Returned)),
	}
	if b.ReturnedDate.Valid {
		t := b.ReturnedDate.Time
		out.ReturnedDate = &t
	}
	for _, l := range b.Lines {
		out.Lines = append(out.Lines, dto.BorrowLineDTO{EquipmentType: l.EquipmentType, Quantity: l.Quantity})
	}
	for _, a := range b.Assigned {
		out.Assigned = append(out.Assigned, dto.AssignedEquipmentDTO{
			Slot:        a.Slot,
			EquipmentID: a.EquipmentID,
			Name:        a.Name,
			Serial:      a.Serial,
			Type:        a.Type,
			Delivered:   a.DeliveredAt.Valid,
		})
	}
	for _, ri := range b.Returned {
		out.Returned = append(out.Returned, dto.AssignedEquipmentDTO{
			EquipmentID: ri.EquipmentID,
			Name:        ri.Name,
			Serial:      ri.Serial,
			Type:        ri.Type,
		})
	}
	return out
}
