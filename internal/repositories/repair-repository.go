package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"borrow-system/internal/dto"
	"borrow-system/internal/entities"
	"borrow-system/pkg/constants"
	apperrors "borrow-system/pkg/errors"
	"borrow-system/pkg/utils"
)

type RepairRepositoryInterface interface {
	CreateRepairInTx(ctx context.Context, tx pgx.Tx, repair entities.RepairRequest) (uint64, error)
	FindRepair(ctx context.Context, id uint64) (*entities.RepairRequest, error)
	FindRepairForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.RepairRequest, error)
	GetRepairs(ctx context.Context, params utils.QueryParams) ([]entities.RepairRequest, uint64, error)
	UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, from, to constants.RepairStatus) error
	CompleteRepairInTx(ctx context.Context, tx pgx.Tx, id uint64, data dto.CompleteRepairDTO) error
}

type RepairRepository struct {
	storage *pgxpool.Pool
}

func NewRepairRepository(storage *pgxpool.Pool) RepairRepositoryInterface {
	return &RepairRepository{storage: storage}
}

const repairFields = `id, equipment_id, borrow_id, assessment_id, damage_description, estimated_cost, final_cost, repair_details, parts_used, status, created_at, updated_at`

func scanRepair(row pgx.Row, r *entities.RepairRequest) error {
	return row.Scan(
		&r.ID, &r.EquipmentID, &r.BorrowID, &r.AssessmentID, &r.DamageDescription,
		&r.EstimatedCost, &r.FinalCost, &r.RepairDetails, &r.PartsUsed, &r.Status,
		&r.CreatedAt, &r.UpdatedAt,
	)
}

func (r *RepairRepository) CreateRepairInTx(ctx context.Context, tx pgx.Tx, repair entities.RepairRequest) (uint64, error) {
	var id uint64
	err := tx.QueryRow(ctx,
		`INSERT INTO repair_requests (equipment_id, borrow_id, assessment_id, damage_description, estimated_cost, status)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		repair.EquipmentID, repair.BorrowID, repair.AssessmentID, repair.DamageDescription,
		repair.EstimatedCost, constants.RepairPendingApproval,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *RepairRepository) FindRepair(ctx context.Context, id uint64) (*entities.RepairRequest, error) {
	var rep entities.RepairRequest
	err := scanRepair(r.storage.QueryRow(ctx,
		`SELECT `+repairFields+` FROM repair_requests WHERE id = $1`, id), &rep)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &rep, nil
}

func (r *RepairRepository) FindRepairForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.RepairRequest, error) {
	var rep entities.RepairRequest
	err := scanRepair(tx.QueryRow(ctx,
		`SELECT `+repairFields+` FROM repair_requests WHERE id = $1 FOR UPDATE`, id), &rep)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &rep, nil
}

var allowedRepairFilters = map[string]string{
	"status":       "status",
	"equipment_id": "equipment_id",
}

func (r *RepairRepository) GetRepairs(ctx context.Context, params utils.QueryParams) ([]entities.RepairRequest, uint64, error) {
	builder := psql.Select(repairFields).From("repair_requests")
	countBuilder := psql.Select("COUNT(*)").From("repair_requests")

	for key, val := range params.Filters {
		col, ok := allowedRepairFilters[key]
		if !ok {
			continue
		}
		builder = builder.Where(sq.Eq{col: val})
		countBuilder = countBuilder.Where(sq.Eq{col: val})
	}

	builder = builder.OrderBy("created_at DESC, id DESC").Limit(params.Limit).Offset(params.Offset)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build repair list query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]entities.RepairRequest, 0)
	for rows.Next() {
		var rep entities.RepairRequest
		if err := scanRepair(rows, &rep); err != nil {
			return nil, 0, err
		}
		list = append(list, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *RepairRepository) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, from, to constants.RepairStatus) error {
	result, err := tx.Exec(ctx,
		`UPDATE repair_requests SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2 AND status = $3`,
		to, id, from,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: repair request %d is not %q", apperrors.ErrIllegalTransition, id, from)
	}
	return nil
}

func (r *RepairRepository) CompleteRepairInTx(ctx context.Context, tx pgx.Tx, id uint64, data dto.CompleteRepairDTO) error {
	result, err := tx.Exec(ctx,
		`UPDATE repair_requests
		 SET status = $1, repair_details = $2, final_cost = $3, parts_used = $4, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $5 AND status = $6`,
		constants.RepairCompleted, data.RepairDetails, data.FinalCost, data.PartsUsed, id, constants.RepairApproved,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: repair request %d is not %q", apperrors.ErrIllegalTransition, id, constants.RepairApproved)
	}
	return nil
}
