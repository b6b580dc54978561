package repository

import (
	"context"
	"fmt"

	"github.com/hilthontt/eventra/domain/model"
	"github.com/hilthontt/eventra/domain/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

type userRepository struct {
	db     *gorm.DB
	tracer trace.Tracer
}

func NewUserRepository(db *gorm.DB, tracer trace.Tracer) repository.UserRepository {
	return &userRepository{
		db:     db,
		tracer: tracer,
	}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	ctx, span := r.tracer.Start(ctx, "userRepository.Create")
	defer span.End()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create user")
		return translate(err, "user not found")
	}

	span.SetAttributes(attribute.Int64("user.id", user.ID))
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	ctx, span := r.tracer.Start(ctx, "userRepository.GetByID")
	defer span.End()

	span.SetAttributes(attribute.Int64("user.id", id))

	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get user")
		return nil, translate(err, fmt.Sprintf("user with id %d not found", id))
	}

	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	ctx, span := r.tracer.Start(ctx, "userRepository.GetByUsername")
	defer span.End()

	span.SetAttributes(attribute.String("user.username", username))

	var user model.User
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get user by username")
		return nil, translate(err, fmt.Sprintf("user %s not found", username))
	}

	return &user, nil
}

func (r *userRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "userRepository.Exists")
	defer span.End()

	span.SetAttributes(attribute.Int64("user.id", id))

	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to check user existence")
		return false, translate(err, "user not found")
	}

	return count > 0, nil
}
