package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"borrow-system/internal/entities"
	"borrow-system/pkg/utils"
)

type ActivityLogRepositoryInterface interface {
	AppendInTx(ctx context.Context, tx pgx.Tx, action string, actorID uint64, actorName string, details interface{}) error
	GetLogs(ctx context.Context, params utils.QueryParams) ([]entities.ActivityLog, uint64, error)
	DeleteBatch(ctx context.Context, limit int) (int64, error)
}

type ActivityLogRepository struct {
	storage *pgxpool.Pool
}

func NewActivityLogRepository(storage *pgxpool.Pool) ActivityLogRepositoryInterface {
	return &ActivityLogRepository{storage: storage}
}

// AppendInTx writes the audit entry inside the caller's transaction so the
// log row commits or rolls back together with the mutation it describes.
func (r *ActivityLogRepository) AppendInTx(ctx context.Context, tx pgx.Tx, action string, actorID uint64, actorName string, details interface{}) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to encode activity log details: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO activity_logs (id, action, actor_id, actor_name, details) VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), action, actorID, actorName, payload,
	)
	return err
}

var allowedLogFilters = map[string]string{
	"action":   "action",
	"actor_id": "actor_id",
}

func (r *ActivityLogRepository) GetLogs(ctx context.Context, params utils.QueryParams) ([]entities.ActivityLog, uint64, error) {
	builder := psql.Select("id", "action", "actor_id", "actor_name", "details", "created_at").
		From("activity_logs")
	countBuilder := psql.Select("COUNT(*)").From("activity_logs")

	for key, val := range params.Filters {
		col, ok := allowedLogFilters[key]
		if !ok {
			continue
		}
		builder = builder.Where(sq.Eq{col: val})
		countBuilder = countBuilder.Where(sq.Eq{col: val})
	}

	builder = builder.OrderBy("created_at DESC").Limit(params.Limit).Offset(params.Offset)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build activity log query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	logs := make([]entities.ActivityLog, 0)
	for rows.Next() {
		var l entities.ActivityLog
		if err := rows.Scan(&l.ID, &l.Action, &l.ActorID, &l.ActorName, &l.Details, &l.CreatedAt); err != nil {
			return nil, 0, err
		}
		logs = append(logs, l)
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

	return logs, total, nil
}

// DeleteBatch removes at most limit rows, oldest first. The full-collection
// clear loops over this until zero rows remain; individual entries are never
// deleted any other way.
func (r *ActivityLogRepository) DeleteBatch(ctx context.Context, limit int) (int64, error) {
	result, err := r.storage.Exec(ctx,
		`DELETE FROM activity_logs WHERE id IN (
			SELECT id FROM activity_logs ORDER BY created_at LIMIT $1
		)`, limit)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
