package submission

import (
	"context"

	"github.com/formforge/backend/internal/entity"
	"github.com/formforge/backend/pkg/database"
	"github.com/google/uuid"
)

type ResponseRepository interface {
	Insert(ctx context.Context, response *entity.Response) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Response, error)
	ListByForm(ctx context.Context, formID uuid.UUID, offset, limit int) ([]*entity.Response, int64, error)
	ListByFormWithSubmitters(ctx context.Context, formID uuid.UUID) ([]*entity.Response, error)
	ListRecentByForms(ctx context.Context, formIDs []uuid.UUID, limit int) ([]*entity.Response, error)
	CountByForm(ctx context.Context, formID uuid.UUID) (int64, error)
	CountsPerForm(ctx context.Context, formIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type responseRepository struct {
	store *database.Supervisor
}

func NewResponseRepository(store *database.Supervisor) ResponseRepository {
	return &responseRepository{store: store}
}

func (r *responseRepository) Insert(ctx context.Context, response *entity.Response) error {
	db, err := r.store.DB()
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Create(response).Error
}

func (r *responseRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Response, error) {
	db, err := r.store.DB()
	if err != nil {
		return nil, err
	}

	var response entity.Response
	if err := db.WithContext(ctx).
		Preload("Form").
		Where("id = ?", id).
		First(&response).Error; err != nil {
		return nil, err
	}
	return &response, nil
}

func (r *responseRepository) ListByForm(ctx context.Context, formID uuid.UUID, offset, limit int) ([]*entity.Response, int64, error) {
	db, err := r.store.DB()
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := db.WithContext(ctx).Model(&entity.Response{}).
		Where("form_id = ?", formID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var responses []*entity.Response
	if err := db.WithContext(ctx).
		Where("form_id = ?", formID).
		Order("submitted_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&responses).Error; err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

func (r *responseRepository) ListByFormWithSubmitters(ctx context.Context, formID uuid.UUID) ([]*entity.Response, error) {
	db, err := r.store.DB()
	if err != nil {
		return nil, err
	}

	var responses []*entity.Response
	if err := db.WithContext(ctx).
		Preload("User").
		Where("form_id = ?", formID).
		Order("submitted_at DESC").
		Find(&responses).Error; err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *responseRepository) ListRecentByForms(ctx context.Context, formIDs []uuid.UUID, limit int) ([]*entity.Response, error) {
	if len(formIDs) == 0 {
		return []*entity.Response{}, nil
	}

	db, err := r.store.DB()
	if err != nil {
		return nil, err
	}

	var responses []*entity.Response
	if err := db.WithContext(ctx).
		Preload("Form").
		Preload("User").
		Where("form_id IN ?", formIDs).
		Order("submitted_at DESC").
		Limit(limit).
		Find(&responses).Error; err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *responseRepository) CountByForm(ctx context.Context, formID uuid.UUID) (int64, error) {
	db, err := r.store.DB()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := db.WithContext(ctx).Model(&entity.Response{}).
		Where("form_id = ?", formID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *responseRepository) CountsPerForm(ctx context.Context, formIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(formIDs))
	if len(formIDs) == 0 {
		return counts, nil
	}

	db, err := r.store.DB()
	if err != nil {
		return nil, err
	}

	var rows []struct {
		FormID uuid.UUID
		Count  int64
	}
	if err := db.WithContext(ctx).Model(&entity.Response{}).
		Select("form_id, COUNT(*) AS count").
		Where("form_id IN ?", formIDs).
		Group("form_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.FormID] = row.Count
	}
	return counts, nil
}
