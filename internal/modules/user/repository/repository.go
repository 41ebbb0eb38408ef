package user

import (
	"context"
	"time"

	"github.com/formforge/backend/internal/entity"
	"github.com/formforge/backend/pkg/database"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *entity.User) error
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	store *database.Supervisor
}

func NewUserRepository(store *database.Supervisor) UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	db, err := r.store.DB()
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	db, err := r.store.DB()
	if err != nil {
		return nil, err
	}

	var user entity.User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	db, err := r.store.DB()
	if err != nil {
		return nil, err
	}

	var user entity.User
	if err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	db, err := r.store.DB()
	if err != nil {
		return false, err
	}

	var count int64
	if err := db.WithContext(ctx).Model(&entity.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	db, err := r.store.DB()
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	db, err := r.store.DB()
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).
		Update("last_login", time.Now()).Error
}
