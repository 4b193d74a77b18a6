package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"borrow-system/internal/dto"
	"borrow-system/internal/entities"
	"borrow-system/internal/repositories"
	"borrow-system/pkg/constants"
	"borrow-system/pkg/utils"
)

type UserServiceInterface interface {
	GetUsers(ctx context.Context, params utils.QueryParams) ([]dto.UserDTO, uint64, error)
	FindUser(ctx context.Context, id uint64) (*dto.UserDTO, error)
	CreateUser(ctx context.Context, data dto.CreateUserDTO) (uint64, error)
	UpdateUser(ctx context.Context, id uint64, data dto.UpdateUserDTO) error
}

type UserService struct {
	pool     *pgxpool.Pool
	userRepo repositories.UserRepositoryInterface
	logRepo  repositories.ActivityLogRepositoryInterface
	logger   *zap.Logger
}

func NewUserService(
	pool *pgxpool.Pool,
	userRepo repositories.UserRepositoryInterface,
	logRepo repositories.ActivityLogRepositoryInterface,
	logger *zap.Logger,
) UserServiceInterface {
	return &UserService{pool: pool, userRepo: userRepo, logRepo: logRepo, logger: logger}
}

func userToDTO(u *entities.User) *dto.UserDTO {
	return &dto.UserDTO{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
		Role:     u.Role,
		Status:   u.Status,
	}
}

func (s *UserService) GetUsers(ctx context.Context, params utils.QueryParams) ([]dto.UserDTO, uint64, error) {
	users, total, err := s.userRepo.GetUsers(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	list := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		list = append(list, *userToDTO(&users[i]))
	}
	return list, total, nil
}

func (s *UserService) FindUser(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return userToDTO(user), nil
}

func (s *UserService) CreateUser(ctx context.Context, data dto.CreateUserDTO) (uint64, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return 0, err
	}

	hashed, err := utils.HashPassword(data.Password)
	if err != nil {
		return 0, err
	}

	var id uint64
	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		id, err = s.userRepo.CreateUserInTx(ctx, tx, data, hashed)
		if err != nil {
			return err
		}
		return s.logRepo.AppendInTx(ctx, tx, constants.ActionCreateUser, actor.ID, actor.Name,
			map[string]interface{}{"user_id": id, "email": data.Email, "role": data.Role})
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("user created", zap.Uint64("userId", id), zap.String("role", data.Role))
	return id, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id uint64, data dto.UpdateUserDTO) error {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	return repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if err := s.userRepo.UpdateUserInTx(ctx, tx, id, data); err != nil {
			return err
		}
		return s.logRepo.AppendInTx(ctx, tx, constants.ActionUpdateUser, actor.ID, actor.Name,
			map[string]interface{}{"user_id": id, "role": data.Role, "status": data.Status})
	})
}
