package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"borrow-system/internal/dto"
	"borrow-system/internal/entities"
	apperrors "borrow-system/pkg/errors"
	"borrow-system/pkg/utils"
)

type UserRepositoryInterface interface {
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	FindByID(ctx context.Context, id uint64) (*entities.User, error)
	GetUsers(ctx context.Context, params utils.QueryParams) ([]entities.User, uint64, error)
	CreateUserInTx(ctx context.Context, tx pgx.Tx, data dto.CreateUserDTO, hashedPassword string) (uint64, error)
	UpdateUserInTx(ctx context.Context, tx pgx.Tx, id uint64, data dto.UpdateUserDTO) error
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

const userFields = `id, full_name, email, password, role, status, created_at, updated_at`

func scanUser(row pgx.Row, u *entities.User) error {
	return row.Scan(&u.ID, &u.FullName, &u.Email, &u.Password, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	var u entities.User
	err := scanUser(r.storage.QueryRow(ctx,
		`SELECT `+userFields+` FROM users WHERE email = $1`, email), &u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*entities.User, error) {
	var u entities.User
	err := scanUser(r.storage.QueryRow(ctx,
		`SELECT `+userFields+` FROM users WHERE id = $1`, id), &u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetUsers(ctx context.Context, params utils.QueryParams) ([]entities.User, uint64, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT `+userFields+` FROM users ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`,
		params.Limit, params.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		var u entities.User
		if err := scanUser(rows, &u); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepository) CreateUserInTx(ctx context.Context, tx pgx.Tx, data dto.CreateUserDTO, hashedPassword string) (uint64, error) {
	var id uint64
	err := tx.QueryRow(ctx,
		`INSERT INTO users (full_name, email, password, role) VALUES ($1, $2, $3, $4) RETURNING id`,
		data.FullName, data.Email, hashedPassword, data.Role,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *UserRepository) UpdateUserInTx(ctx context.Context, tx pgx.Tx, id uint64, data dto.UpdateUserDTO) error {
	result, err := tx.Exec(ctx,
		`UPDATE users SET full_name = $1, role = $2, status = $3, updated_at = CURRENT_TIMESTAMP WHERE id = $4`,
		data.FullName, data.Role, data.Status, id,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
