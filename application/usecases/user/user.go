package user

import (
	"context"
	"strings"

	"github.com/hilthontt/eventra/domain/apperrors"
	"github.com/hilthontt/eventra/domain/model"
	"github.com/hilthontt/eventra/domain/repository"
	"github.com/hilthontt/eventra/infrastructure/logger"
	"go.uber.org/zap"
)

type UserUseCase interface {
	Register(ctx context.Context, username, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

type userUseCase struct {
	repository repository.UserRepository
	logger     *logger.Logger
}

func NewUserUseCase(repository repository.UserRepository, logger *logger.Logger) UserUseCase {
	return &userUseCase{
		repository: repository,
		logger:     logger,
	}
}

func (uc *userUseCase) Register(ctx context.Context, username, email string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.InvalidInput("username cannot be empty")
	}

	user := &model.User{
		Username: username,
		Email:    strings.TrimSpace(email),
	}

	if err := uc.repository.Create(ctx, user); err != nil {
		uc.logger.Error("failed to create user", zap.Error(err), zap.String("username", username))
		return nil, err
	}

	uc.logger.Info("user registered", zap.Int64("userId", user.ID), zap.String("username", user.Username))
	return user, nil
}

func (uc *userUseCase) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if id <= 0 {
		return nil, apperrors.InvalidInput("user id must be positive")
	}

	return uc.repository.GetByID(ctx, id)
}

func (uc *userUseCase) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if username == "" {
		return nil, apperrors.InvalidInput("username cannot be empty")
	}

	return uc.repository.GetByUsername(ctx, username)
}
