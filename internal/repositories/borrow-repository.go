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

type BorrowRepositoryInterface interface {
	CreateBorrowInTx(ctx context.Context, tx pgx.Tx, userID uint64, userName string, data dto.CreateBorrowRequestDTO, requestDate, dueDate time.Time) (uint64, error)
	FindBorrow(ctx context.Context, id uint64) (*entities.BorrowRequest, error)
	FindBorrowForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.BorrowRequest, error)
	GetBorrows(ctx context.Context, params utils.QueryParams) ([]entities.BorrowRequest, uint64, error)
	GetLines(ctx context.Context, q querier, borrowID uint64) ([]entities.BorrowLine, error)
	UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, from, to constants.BorrowStatus) error
	SetReturnedDateInTx(ctx context.Context, tx pgx.Tx, id uint64, returnedAt time.Time) error

	CreateAssignmentsInTx(ctx context.Context, tx pgx.Tx, borrowID uint64, units []entities.Equipment) ([]entities.BorrowAssignment, error)
	GetAssignments(ctx context.Context, q querier, borrowID uint64) ([]entities.BorrowAssignment, error)
	FindAssignmentByEquipmentInTx(ctx context.Context, tx pgx.Tx, borrowID, equipmentID uint64) (*entities.BorrowAssignment, error)
	ReplaceAssignmentInTx(ctx context.Context, tx pgx.Tx, assignmentID uint64, replacement entities.Equipment) error
	MarkDeliveredInTx(ctx context.Context, tx pgx.Tx, assignmentID uint64, at time.Time) error
	MarkReturnAssessedInTx(ctx context.Context, tx pgx.Tx, assignmentID uint64, at time.Time) error
	CountUndeliveredInTx(ctx context.Context, tx pgx.Tx, borrowID uint64) (int, error)
	CountReturnUnassessedInTx(ctx context.Context, tx pgx.Tx, borrowID uint64) (int, error)

	CopyAssignmentsToReturnedInTx(ctx context.Context, tx pgx.Tx, borrowID uint64) error
	GetReturnedItems(ctx context.Context, q querier, borrowID uint64) ([]entities.ReturnedItem, error)
}

type BorrowRepository struct {
	storage *pgxpool.Pool
}

func NewBorrowRepository(storage *pgxpool.Pool) BorrowRepositoryInterface {
	return &BorrowRepository{storage: storage}
}

func (r *BorrowRepository) CreateBorrowInTx(ctx context.Context, tx pgx.Tx, userID uint64, userName string, data dto.CreateBorrowRequestDTO, requestDate, dueDate time.Time) (uint64, error) {
	var id uint64
	err := tx.QueryRow(ctx,
		`INSERT INTO borrow_requests (user_id, user_name, purpose, contact, status, request_date, due_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		userID, userName, data.Purpose, data.Contact, constants.BorrowPendingApproval, requestDate, dueDate,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	for i, line := range data.Lines {
		_, err = tx.Exec(ctx,
			`INSERT INTO borrow_request_lines (borrow_id, position, equipment_type, quantity) VALUES ($1, $2, $3, $4)`,
			id, i, line.EquipmentType, line.Quantity,
		)
		if err != nil {
			return 0, err
		}
	}

	return id, nil
}

const borrowFields = `id, user_id, user_name, purpose, contact, status, request_date, due_date, returned_date, created_at, updated_at`

func scanBorrow(row pgx.Row, b *entities.BorrowRequest) error {
	return row.Scan(
		&b.ID, &b.UserID, &b.UserName, &b.Purpose, &b.Contact, &b.Status,
		&b.RequestDate, &b.DueDate, &b.ReturnedDate, &b.CreatedAt, &b.UpdatedAt,
	)
}

func (r *BorrowRepository) FindBorrow(ctx context.Context, id uint64) (*entities.BorrowRequest, error) {
	var b entities.BorrowRequest
	err := scanBorrow(r.storage.QueryRow(ctx,
		`SELECT `+borrowFields+` FROM borrow_requests WHERE id = $1`, id), &b)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	if b.Lines, err = r.GetLines(ctx, r.storage, id); err != nil {
		return nil, err
	}
	if b.Assigned, err = r.GetAssignments(ctx, r.storage, id); err != nil {
		return nil, err
	}
	if b.Returned, err = r.GetReturnedItems(ctx, r.storage, id); err != nil {
		return nil, err
	}
	return &b, nil
}

// FindBorrowForUpdateInTx locks the request row for the rest of the
// transaction so concurrent workflow operations on the same request
// serialize instead of racing.
func (r *BorrowRepository) FindBorrowForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.BorrowRequest, error) {
	var b entities.BorrowRequest
	err := scanBorrow(tx.QueryRow(ctx,
		`SELECT `+borrowFields+` FROM borrow_requests WHERE id = $1 FOR UPDATE`, id), &b)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	if b.Lines, err = r.GetLines(ctx, tx, id); err != nil {
		return nil, err
	}
	if b.Assigned, err = r.GetAssignments(ctx, tx, id); err != nil {
		return nil, err
	}
	return &b, nil
}

var allowedBorrowFilters = map[string]string{
	"status":  "status",
	"user_id": "user_id",
}

func (r *BorrowRepository) GetBorrows(ctx context.Context, params utils.QueryParams) ([]entities.BorrowRequest, uint64, error) {
	builder := psql.Select(borrowFields).From("borrow_requests")
	countBuilder := psql.Select("COUNT(*)").From("borrow_requests")

	for key, val := range params.Filters {
		col, ok := allowedBorrowFilters[key]
		if !ok {
			continue
		}
		builder = builder.Where(sq.Eq{col: val})
		countBuilder = countBuilder.Where(sq.Eq{col: val})
	}

	builder = builder.OrderBy("request_date DESC, id DESC").Limit(params.Limit).Offset(params.Offset)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build borrow list query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]entities.BorrowRequest, 0)
	for rows.Next() {
		var b entities.BorrowRequest
		if err := scanBorrow(rows, &b); err != nil {
			return nil, 0, err
		}
		list = append(list, b)
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

func (r *BorrowRepository) GetLines(ctx context.Context, q querier, borrowID uint64) ([]entities.BorrowLine, error) {
	rows, err := q.Query(ctx,
		`SELECT id, borrow_id, position, equipment_type, quantity
		 FROM borrow_request_lines WHERE borrow_id = $1 ORDER BY position`, borrowID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]entities.BorrowLine, 0)
	for rows.Next() {
		var l entities.BorrowLine
		if err := rows.Scan(&l.ID, &l.BorrowID, &l.Position, &l.EquipmentType, &l.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// UpdateStatusInTx moves the request between statuses conditionally, the
// same way equipment statuses move: zero rows affected means the request
// was not in the expected prior status.
func (r *BorrowRepository) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, from, to constants.BorrowStatus) error {
	result, err := tx.Exec(ctx,
		`UPDATE borrow_requests SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2 AND status = $3`,
		to, id, from,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: borrow request %d is not %q", apperrors.ErrIllegalTransition, id, from)
	}
	return nil
}

func (r *BorrowRepository) SetReturnedDateInTx(ctx context.Context, tx pgx.Tx, id uint64, returnedAt time.Time) error {
	result, err := tx.Exec(ctx,
		`UPDATE borrow_requests SET returned_date = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		returnedAt, id,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *BorrowRepository) CreateAssignmentsInTx(ctx context.Context, tx pgx.Tx, borrowID uint64, units []entities.Equipment) ([]entities.BorrowAssignment, error) {
	assignments := make([]entities.BorrowAssignment, 0, len(units))
	for i, unit := range units {
		var a entities.BorrowAssignment
		err := tx.QueryRow(ctx,
			`INSERT INTO borrow_assignments (borrow_id, slot, equipment_id, name, serial, type)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id, borrow_id, slot, equipment_id, name, serial, type, delivered_at, return_assessed_at, created_at`,
			borrowID, i, unit.ID, unit.Name, unit.Serial, unit.Type,
		).Scan(&a.ID, &a.BorrowID, &a.Slot, &a.EquipmentID, &a.Name, &a.Serial, &a.Type, &a.DeliveredAt, &a.ReturnAssessedAt, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, nil
}

const assignmentFields = `id, borrow_id, slot, equipment_id, name, serial, type, delivered_at, return_assessed_at, created_at`

func (r *BorrowRepository) GetAssignments(ctx context.Context, q querier, borrowID uint64) ([]entities.BorrowAssignment, error) {
	rows, err := q.Query(ctx,
		`SELECT `+assignmentFields+` FROM borrow_assignments WHERE borrow_id = $1 ORDER BY slot`, borrowID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]entities.BorrowAssignment, 0)
	for rows.Next() {
		var a entities.BorrowAssignment
		if err := rows.Scan(&a.ID, &a.BorrowID, &a.Slot, &a.EquipmentID, &a.Name, &a.Serial, &a.Type, &a.DeliveredAt, &a.ReturnAssessedAt, &a.CreatedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func (r *BorrowRepository) FindAssignmentByEquipmentInTx(ctx context.Context, tx pgx.Tx, borrowID, equipmentID uint64) (*entities.BorrowAssignment, error) {
	var a entities.BorrowAssignment
	err := tx.QueryRow(ctx,
		`SELECT `+assignmentFields+` FROM borrow_assignments WHERE borrow_id = $1 AND equipment_id = $2`,
		borrowID, equipmentID,
	).Scan(&a.ID, &a.BorrowID, &a.Slot, &a.EquipmentID, &a.Name, &a.Serial, &a.Type, &a.DeliveredAt, &a.ReturnAssessedAt, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ReplaceAssignmentInTx rewrites a slot in place with the replacement
// unit's snapshot. The slot keeps its position in the assignment list.
func (r *BorrowRepository) ReplaceAssignmentInTx(ctx context.Context, tx pgx.Tx, assignmentID uint64, replacement entities.Equipment) error {
	result, err := tx.Exec(ctx,
		`UPDATE borrow_assignments SET equipment_id = $1, name = $2, serial = $3, type = $4 WHERE id = $5`,
		replacement.ID, replacement.Name, replacement.Serial, replacement.Type, assignmentID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *BorrowRepository) MarkDeliveredInTx(ctx context.Context, tx pgx.Tx, assignmentID uint64, at time.Time) error {
	result, err := tx.Exec(ctx,
		`UPDATE borrow_assignments SET delivered_at = $1 WHERE id = $2 AND delivered_at IS NULL`,
		at, assignmentID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewInvalidInputError("assignment %d has already passed pre-delivery assessment", assignmentID)
	}
	return nil
}

func (r *BorrowRepository) MarkReturnAssessedInTx(ctx context.Context, tx pgx.Tx, assignmentID uint64, at time.Time) error {
	result, err := tx.Exec(ctx,
		`UPDATE borrow_assignments SET return_assessed_at = $1 WHERE id = $2 AND return_assessed_at IS NULL`,
		at, assignmentID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewInvalidInputError("assignment %d has already passed post-return assessment", assignmentID)
	}
	return nil
}

func (r *BorrowRepository) CountUndeliveredInTx(ctx context.Context, tx pgx.Tx, borrowID uint64) (int, error) {
	var count int
	err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM borrow_assignments WHERE borrow_id = $1 AND delivered_at IS NULL`, borrowID,
	).Scan(&count)
	return count, err
}

func (r *BorrowRepository) CountReturnUnassessedInTx(ctx context.Context, tx pgx.Tx, borrowID uint64) (int, error) {
	var count int
	err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM borrow_assignments WHERE borrow_id = $1 AND return_assessed_at IS NULL`, borrowID,
	).Scan(&count)
	return count, err
}

// CopyAssignmentsToReturnedInTx freezes the assignment snapshots into the
// returned-items table at return time.
func (r *BorrowRepository) CopyAssignmentsToReturnedInTx(ctx context.Context, tx pgx.Tx, borrowID uint64) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO borrow_returned_items (borrow_id, equipment_id, name, serial, type)
		 SELECT borrow_id, equipment_id, name, serial, type
		 FROM borrow_assignments WHERE borrow_id = $1 ORDER BY slot`,
		borrowID,
	)
	return err
}

func (r *BorrowRepository) GetReturnedItems(ctx context.Context, q querier, borrowID uint64) ([]entities.ReturnedItem, error) {
	rows, err := q.Query(ctx,
		`SELECT id, borrow_id, equipment_id, name, serial, type, created_at
		 FROM borrow_returned_items WHERE borrow_id = $1 ORDER BY id`, borrowID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]entities.ReturnedItem, 0)
	for rows.Next() {
		var it entities.ReturnedItem
		if err := rows.Scan(&it.ID, &it.BorrowID, &it.EquipmentID, &it.Name, &it.Serial, &it.Type, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
