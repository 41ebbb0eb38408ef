package form

import (
	"context"
	"time"

	"github.com/formforge/backend/internal/entity"
	"github.com/formforge/backend/pkg/database"
	"github.com/google/uuid"
)

type FormRepository interface {
	Create(ctx context.Context, form *entity.Form) error
	// FindByIDAndOwner queries by id AND owner in one filter so a missing form
	// and someone else's form are indistinguishable to the caller.
	FindByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*entity.Form, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (*entity.Form, error)
	FindActiveByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Form, error)
	Update(ctx context.Context, form *entity.Form) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type formRepository struct {
	store *database.Supervisor
}

func NewFormRepository(store *database.Supervisor) FormRepository {
	return &formRepository{store: store}
}

func (r *formRepository) Create(ctx context.Context, form *entity.Form) error {
	db, err := r.store.DB()
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Create(form).Error
}

func (r *formRepository) FindByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*entity.Form, error) {
	db, err := r.store.DB()
	if err != nil {
		return nil, err
	}

	var form entity.Form
	if err := db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&form).Error; err != nil {
		return nil, err
	}
	return &form, nil
}

func (r *formRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*entity.Form, error) {
	db, err := r.store.DB()
	if err != nil {
		return nil, err
	}

	var form entity.Form
	if err := db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&form).Error; err != nil {
		return nil, err
	}
	return &form, nil
}

func (r *formRepository) FindActiveByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Form, error) {
	db, err := r.store.DB()
	if err != nil {
		return nil, err
	}

	var forms []*entity.Form
	if err := db.WithContext(ctx).
		Where("owner_id = ? AND is_active = ?", ownerID, true).
		Order("updated_at DESC").
		Find(&forms).Error; err != nil {
		return nil, err
	}
	return forms, nil
}

func (r *formRepository) Update(ctx context.Context, form *entity.Form) error {
	db, err := r.store.DB()
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Save(form).Error
}

func (r *formRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	db, err := r.store.DB()
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Model(&entity.Form{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_active": false, "updated_at": time.Now()}).Error
}
