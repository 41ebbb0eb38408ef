package analytics

import (
	"context"
	"time"

	"github.com/formforge/backend/internal/modules/analytics/dto"
	"github.com/formforge/backend/pkg/database"
	"github.com/google/uuid"
)

// AnalyticsRepository runs the grouped aggregate queries over the responses
// (and forms) tables. Every method reads only; rows come back pre-sorted the
// way the dashboards render them.
type AnalyticsRepository interface {
	DailyTrend(ctx context.Context, formID uuid.UUID, since time.Time) ([]dto.DailyCount, error)
	DeviceDistribution(ctx context.Context, formID uuid.UUID) ([]dto.BucketCount, error)
	BrowserDistribution(ctx context.Context, formID uuid.UUID) ([]dto.BucketCount, error)
	HourlyDistribution(ctx context.Context, formID uuid.UUID) ([]dto.HourCount, error)
	TopValuesForField(ctx context.Context, formID uuid.UUID, fieldID string) ([]dto.ValueCount, error)
	CompletionStats(ctx context.Context, formID uuid.UUID) (*dto.CompletionStats, error)
	AverageTimeSpent(ctx context.Context, formID uuid.UUID) (float64, error)
	CountSince(ctx context.Context, formID uuid.UUID, since time.Time) (int64, error)
	LastSubmission(ctx context.Context, formID uuid.UUID) (*time.Time, error)
	MonthlyCreationTrend(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]dto.BucketCount, error)
}

type analyticsRepository struct {
	store *database.Supervisor
}

func NewAnalyticsRepository(store *database.Supervisor) AnalyticsRepository {
	return &analyticsRepository{store: store}
}

func (r *analyticsRepository) DailyTrend(ctx context.Context, formID uuid.UUID, since time.Time) ([]dto.DailyCount, error) {
	db, err := r.store.DB()
	if err != nil {
		return nil, err
	}

	rows := []dto.DailyCount{}
	query := `
		SELECT to_char(submitted_at, 'YYYY-MM-DD') AS date, COUNT(*) AS count
		FROM responses
		WHERE form_id = ? AND submitted_at >= ?
		GROUP BY 1
		ORDER BY 1
	`
	if err := db.WithContext(ctx).Raw(query, formID, since).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *analyticsRepository) DeviceDistribution(ctx context.Context, formID uuid.UUID) ([]dto.BucketCount, error) {
	return r.distribution(ctx, formID, "device_type")
}

func (r *analyticsRepository) BrowserDistribution(ctx context.Context, formID uuid.UUID) ([]dto.BucketCount, error) {
	return r.distribution(ctx, formID, "browser")
}

func (r *analyticsRepository) distribution(ctx context.Context, formID uuid.UUID, column string) ([]dto.BucketCount, error) {
	db, err := r.store.DB()
	if err != nil {
		return nil, err
	}

	rows := []dto.BucketCount{}
	query := `
		SELECT ` + column + ` AS key, COUNT(*) AS count
		FROM responses
		WHERE form_id = ?
		GROUP BY 1
		ORDER BY count DESC
	`
	if err := db.WithContext(ctx).Raw(query, formID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *analyticsRepository) HourlyDistribution(ctx context.Context, formID uuid.UUID) ([]dto.HourCount, error) {
	db, err := r.store.DB()
	if err != nil {
		return nil, err
	}

	rows := []dto.HourCount{}
	query := `
		SELECT EXTRACT(HOUR FROM submitted_at)::int AS hour, COUNT(*) AS count
		FROM responses
		WHERE form_id = ?
		GROUP BY 1
		ORDER BY 1
	`
	if err := db.WithContext(ctx).Raw(query, formID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// TopValuesForField unwinds the embedded answer array and groups by the raw
// value text. Values are not normalized: "Yes" and "yes" count separately.
func (r *analyticsRepository) TopValuesForField(ctx context.Context, formID uuid.UUID, fieldID string) ([]dto.ValueCount, error) {
	db, err := r.store.DB()
	if err != nil {
		return nil, err
	}

	rows := []dto.ValueCount{}
	query := `
		SELECT ans->>'value' AS value, COUNT(*) AS count
		FROM responses, jsonb_array_elements(answers) AS ans
		WHERE form_id = ? AND ans->>'fieldId' = ?
		GROUP BY 1
		ORDER BY count DESC
		LIMIT 10
	`
	if err := db.WithContext(ctx).Raw(query, formID, fieldID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CompletionStats returns nil when no response carries a time_spent value.
func (r *analyticsRepository) CompletionStats(ctx context.Context, formID uuid.UUID) (*dto.CompletionStats, error) {
	db, err := r.store.DB()
	if err != nil {
		return nil, err
	}

	var row struct {
		AvgTimeSpent     float64
		MinTimeSpent     int64
		MaxTimeSpent     int64
		TotalCompletions int64
	}
	query := `
		SELECT
			COALESCE(AVG(time_spent), 0) AS avg_time_spent,
			COALESCE(MIN(time_spent), 0) AS min_time_spent,
			COALESCE(MAX(time_spent), 0) AS max_time_spent,
			COUNT(*) AS total_completions
		FROM responses
		WHERE form_id = ? AND time_spent IS NOT NULL
	`
	if err := db.WithContext(ctx).Raw(query, formID).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.TotalCompletions == 0 {
		return nil, nil
	}

	return &dto.CompletionStats{
		AvgTimeSpent:     row.AvgTimeSpent,
		MinTimeSpent:     row.MinTimeSpent,
		MaxTimeSpent:     row.MaxTimeSpent,
		TotalCompletions: row.TotalCompletions,
	}, nil
}

func (r *analyticsRepository) AverageTimeSpent(ctx context.Context, formID uuid.UUID) (float64, error) {
	db, err := r.store.DB()
	if err != nil {
		return 0, err
	}

	var avg float64
	query := `
		SELECT COALESCE(AVG(time_spent), 0)
		FROM responses
		WHERE form_id = ? AND time_spent IS NOT NULL
	`
	if err := db.WithContext(ctx).Raw(query, formID).Scan(&avg).Error; err != nil {
		return 0, err
	}
	return avg, nil
}

func (r *analyticsRepository) CountSince(ctx context.Context, formID uuid.UUID, since time.Time) (int64, error) {
	db, err := r.store.DB()
	if err != nil {
		return 0, err
	}

	var count int64
	query := `SELECT COUNT(*) FROM responses WHERE form_id = ? AND submitted_at >= ?`
	if err := db.WithContext(ctx).Raw(query, formID, since).Scan(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *analyticsRepository) LastSubmission(ctx context.Context, formID uuid.UUID) (*time.Time, error) {
	db, err := r.store.DB()
	if err != nil {
		return nil, err
	}

	var last *time.Time
	query := `SELECT MAX(submitted_at) FROM responses WHERE form_id = ?`
	if err := db.WithContext(ctx).Raw(query, formID).Scan(&last).Error; err != nil {
		return nil, err
	}
	return last, nil
}

// MonthlyCreationTrend groups the owner's active forms by Y-M of creation.
func (r *analyticsRepository) MonthlyCreationTrend(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]dto.BucketCount, error) {
	db, err := r.store.DB()
	if err != nil {
		return nil, err
	}

	rows := []dto.BucketCount{}
	query := `
		SELECT to_char(created_at, 'YYYY-MM') AS key, COUNT(*) AS count
		FROM forms
		WHERE owner_id = ? AND is_active = true AND created_at >= ?
		GROUP BY 1
		ORDER BY 1
	`
	if err := db.WithContext(ctx).Raw(query, ownerID, since).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
