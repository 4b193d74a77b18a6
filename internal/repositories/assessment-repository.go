package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"borrow-system/internal/entities"
)

type AssessmentRepositoryInterface interface {
	CreateAssessmentInTx(ctx context.Context, tx pgx.Tx, a entities.Assessment) (uint64, error)
	GetByBorrow(ctx context.Context, borrowID uint64) ([]entities.Assessment, error)
}

type AssessmentRepository struct {
	storage *pgxpool.Pool
}

func NewAssessmentRepository(storage *pgxpool.Pool) AssessmentRepositoryInterface {
	return &AssessmentRepository{storage: storage}
}

func (r *AssessmentRepository) CreateAssessmentInTx(ctx context.Context, tx pgx.Tx, a entities.Assessment) (uint64, error) {
	items, err := json.Marshal(a.Items)
	if err != nil {
		return 0, fmt.Errorf("failed to encode checklist items: %w", err)
	}

	var id uint64
	err = tx.QueryRow(ctx,
		`INSERT INTO assessments (borrow_id, equipment_id, phase, result, items, notes, assessor_id, assessor_name)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		a.BorrowID, a.EquipmentID, a.Phase, a.Result, items, a.Notes, a.AssessorID, a.AssessorName,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *AssessmentRepository) GetByBorrow(ctx context.Context, borrowID uint64) ([]entities.Assessment, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT id, borrow_id, equipment_id, phase, result, items, notes, assessor_id, assessor_name, created_at
		 FROM assessments WHERE borrow_id = $1 ORDER BY created_at, id`, borrowID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]entities.Assessment, 0)
	for rows.Next() {
		var a entities.Assessment
		var items []byte
		if err := rows.Scan(&a.ID, &a.BorrowID, &a.EquipmentID, &a.Phase, &a.Result, &items, &a.Notes, &a.AssessorID, &a.AssessorName, &a.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(items, &a.Items); err != nil {
			return nil, fmt.Errorf("failed to decode checklist items: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
