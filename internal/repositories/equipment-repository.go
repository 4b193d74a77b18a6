package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"borrow-system/internal/dto"
	"borrow-system/internal/entities"
	"borrow-system/pkg/constants"
	apperrors "borrow-system/pkg/errors"
	"borrow-system/pkg/utils"
)

const equipmentTable = "equipment"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type EquipmentRepositoryInterface interface {
	GetEquipment(ctx context.Context, params utils.QueryParams) ([]dto.EquipmentDTO, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error)
	CreateEquipmentInTx(ctx context.Context, tx pgx.Tx, data dto.CreateEquipmentDTO) (uint64, error)
	UpdateEquipmentInTx(ctx context.Context, tx pgx.Tx, id uint64, data dto.UpdateEquipmentDTO) error
	SoftDeleteEquipmentInTx(ctx context.Context, tx pgx.Tx, id uint64) error
	LockAvailableByType(ctx context.Context, tx pgx.Tx, equipmentType string, limit int) ([]entities.Equipment, error)
	LockAvailableByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error)
	UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, from, to constants.EquipmentStatus) error
	CountAvailableByType(ctx context.Context, equipmentType string) (int, error)
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
}

func NewEquipmentRepository(storage *pgxpool.Pool) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage}
}

var allowedEquipmentFilters = map[string]string{
	"type":   "type",
	"status": "status",
}

func (r *EquipmentRepository) GetEquipment(ctx context.Context, params utils.QueryParams) ([]dto.EquipmentDTO, uint64, error) {
	builder := psql.Select("id", "name", "serial", "type", "status", "created_at", "updated_at").
		From(equipmentTable).
		Where(sq.NotEq{"status": constants.EquipmentDeleted})

	countBuilder := psql.Select("COUNT(*)").
		From(equipmentTable).
		Where(sq.NotEq{"status": constants.EquipmentDeleted})

	for key, val := range params.Filters {
		col, ok := allowedEquipmentFilters[key]
		if !ok {
			continue
		}
		builder = builder.Where(sq.Eq{col: val})
		countBuilder = countBuilder.Where(sq.Eq{col: val})
	}

	if params.Search != "" {
		like := "%" + params.Search + "%"
		cond := sq.Or{sq.ILike{"name": like}, sq.ILike{"serial": like}}
		builder = builder.Where(cond)
		countBuilder = countBuilder.Where(cond)
	}

	builder = builder.OrderBy("created_at DESC, id DESC").Limit(params.Limit).Offset(params.Offset)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build equipment list query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]dto.EquipmentDTO, 0)
	for rows.Next() {
		var e entities.Equipment
		if err := rows.Scan(&e.ID, &e.Name, &e.Serial, &e.Type, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, EquipmentToDTO(e))
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

func (r *EquipmentRepository) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	var e entities.Equipment
	err := r.storage.QueryRow(ctx,
		`SELECT id, name, serial, type, status, created_at, updated_at FROM equipment WHERE id = $1 AND status != $2`,
		id, constants.EquipmentDeleted,
	).Scan(&e.ID, &e.Name, &e.Serial, &e.Type, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *EquipmentRepository) CreateEquipmentInTx(ctx context.Context, tx pgx.Tx, data dto.CreateEquipmentDTO) (uint64, error) {
	var id uint64
	err := tx.QueryRow(ctx,
		`INSERT INTO equipment (name, serial, type, status) VALUES ($1, $2, $3, $4) RETURNING id`,
		data.Name, data.Serial, data.Type, constants.EquipmentAvailable,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *EquipmentRepository) UpdateEquipmentInTx(ctx context.Context, tx pgx.Tx, id uint64, data dto.UpdateEquipmentDTO) error {
	result, err := tx.Exec(ctx,
		`UPDATE equipment SET name = $1, serial = $2, type = $3, updated_at = CURRENT_TIMESTAMP WHERE id = $4 AND status != $5`,
		data.Name, data.Serial, data.Type, id, constants.EquipmentDeleted,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SoftDeleteEquipmentInTx marks the unit deleted; the row is never removed.
func (r *EquipmentRepository) SoftDeleteEquipmentInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	result, err := tx.Exec(ctx,
		`UPDATE equipment SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2 AND status != $1`,
		constants.EquipmentDeleted, id,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// LockAvailableByType locks up to limit available units of the given type.
// Oldest unit first, id as the tie-break, so assignment order is
// deterministic. The row locks hold until the surrounding transaction ends,
// which is what keeps two concurrent approvals from binding the same unit.
func (r *EquipmentRepository) LockAvailableByType(ctx context.Context, tx pgx.Tx, equipmentType string, limit int) ([]entities.Equipment, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, name, serial, type, status, created_at, updated_at
		 FROM equipment
		 WHERE type = $1 AND status = $2
		 ORDER BY created_at, id
		 LIMIT $3
		 FOR UPDATE`,
		equipmentType, constants.EquipmentAvailable, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	units := make([]entities.Equipment, 0, limit)
	for rows.Next() {
		var e entities.Equipment
		if err := rows.Scan(&e.ID, &e.Name, &e.Serial, &e.Type, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		units = append(units, e)
	}
	return units, rows.Err()
}

func (r *EquipmentRepository) LockAvailableByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	var e entities.Equipment
	err := tx.QueryRow(ctx,
		`SELECT id, name, serial, type, status, created_at, updated_at
		 FROM equipment
		 WHERE id = $1 AND status = $2
		 FOR UPDATE`,
		id, constants.EquipmentAvailable,
	).Scan(&e.ID, &e.Name, &e.Serial, &e.Type, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// UpdateStatusInTx is a conditional write: it only succeeds when the unit is
// still in the expected prior status. Zero rows affected means another
// transaction got there first or the transition is illegal.
func (r *EquipmentRepository) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, from, to constants.EquipmentStatus) error {
	result, err := tx.Exec(ctx,
		`UPDATE equipment SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2 AND status = $3`,
		to, id, from,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: equipment %d is not %q", apperrors.ErrIllegalTransition, id, from)
	}
	return nil
}

func (r *EquipmentRepository) CountAvailableByType(ctx context.Context, equipmentType string) (int, error) {
	var count int
	err := r.storage.QueryRow(ctx,
		`SELECT COUNT(*) FROM equipment WHERE type = $1 AND status = $2`,
		equipmentType, constants.EquipmentAvailable,
	).Scan(&count)
	return count, err
}

// EquipmentToDTO is the one place an equipment row is shaped for transport,
// so single-row and list reads stay identical.
func EquipmentToDTO(e entities.Equipment) dto.EquipmentDTO {
	return dto.EquipmentDTO{
		ID:        e.ID,
		Name:      e.Name,
		Serial:    e.Serial,
		Type:      e.Type,
		Status:    e.Status,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
		UpdatedAt: e.UpdatedAt.Format(time.RFC3339),
	}
}
