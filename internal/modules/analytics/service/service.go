package service

import (
	"context"
	"errors"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/formforge/backend/internal/entity"
	"github.com/formforge/backend/internal/modules/analytics/dto"
	analyticsrepo "github.com/formforge/backend/internal/modules/analytics/repository"
	formrepo "github.com/formforge/backend/internal/modules/form/repository"
	submissionrepo "github.com/formforge/backend/internal/modules/submission/repository"
	"github.com/formforge/backend/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	trendWindowDays     = 30
	creationTrendMonths = 6
	dashboardFormLimit  = 5
	dashboardFeedLimit  = 10
	activityFeedLimit   = 15
)

// AnalyticsService computes the owner-facing dashboards. Aggregations inside
// one report run concurrently and fail independently: a broken query logs and
// leaves its slot at the zero value instead of failing the whole report.
type AnalyticsService interface {
	FormAnalytics(ctx context.Context, formID, ownerID uuid.UUID) (*dto.FormAnalytics, error)
	DashboardOverview(ctx context.Context, ownerID uuid.UUID) (*dto.DashboardOverview, error)
	ManagementOverview(ctx context.Context, ownerID uuid.UUID) (*dto.ManagementOverview, error)
}

type analyticsService struct {
	forms     formrepo.FormRepository
	responses submissionrepo.ResponseRepository
	aggs      analyticsrepo.AnalyticsRepository
}

func NewAnalyticsService(
	forms formrepo.FormRepository,
	responses submissionrepo.ResponseRepository,
	aggs analyticsrepo.AnalyticsRepository,
) AnalyticsService {
	return &analyticsService{
		forms:     forms,
		responses: responses,
		aggs:      aggs,
	}
}

func (s *analyticsService) FormAnalytics(ctx context.Context, formID, ownerID uuid.UUID) (*dto.FormAnalytics, error) {
	form, err := s.findOwned(ctx, formID, ownerID)
	if err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -trendWindowDays)
	bundle := dto.AnalyticsBundle{
		DailyTrends:        []dto.DailyCount{},
		DeviceStats:        []dto.BucketCount{},
		BrowserStats:       []dto.BucketCount{},
		HourlyDistribution: []dto.HourCount{},
		FieldAnalytics:     []dto.FieldAnalytics{},
	}

	var wg sync.WaitGroup
	run := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				log.Printf("analytics: %s aggregation failed for form %s: %v", name, formID, err)
			}
		}()
	}

	run("total", func() error {
		total, err := s.responses.CountByForm(ctx, formID)
		if err != nil {
			return err
		}
		bundle.TotalResponses = total
		return nil
	})
	run("daily trend", func() error {
		trend, err := s.aggs.DailyTrend(ctx, formID, since)
		if err != nil {
			return err
		}
		bundle.DailyTrends = trend
		return nil
	})
	run("device", func() error {
		stats, err := s.aggs.DeviceDistribution(ctx, formID)
		if err != nil {
			return err
		}
		bundle.DeviceStats = stats
		return nil
	})
	run("browser", func() error {
		stats, err := s.aggs.BrowserDistribution(ctx, formID)
		if err != nil {
			return err
		}
		bundle.BrowserStats = stats
		return nil
	})
	run("hourly", func() error {
		hours, err := s.aggs.HourlyDistribution(ctx, formID)
		if err != nil {
			return err
		}
		bundle.HourlyDistribution = hours
		return nil
	})
	run("fields", func() error {
		fields, err := s.fieldAnalytics(ctx, form)
		if err != nil {
			return err
		}
		bundle.FieldAnalytics = fields
		return nil
	})
	run("completion", func() error {
		stats, err := s.aggs.CompletionStats(ctx, formID)
		if err != nil {
			return err
		}
		bundle.CompletionStats = stats
		return nil
	})
	wg.Wait()

	return &dto.FormAnalytics{
		Form: dto.FormHeader{
			ID:          form.ID,
			Title:       form.Title,
			Description: form.Description,
			FieldCount:  len(form.Fields),
			CreatedAt:   form.CreatedAt,
		},
		Analytics: bundle,
	}, nil
}

// fieldAnalytics reports top answer values for every field on the form.
// A field whose query fails is reported with an empty top list instead of
// dropping out.
func (s *analyticsService) fieldAnalytics(ctx context.Context, form *entity.Form) ([]dto.FieldAnalytics, error) {
	fields := []dto.FieldAnalytics{}
	for _, field := range form.Fields {
		fa := dto.FieldAnalytics{
			FieldID:      field.ID,
			FieldLabel:   field.Label,
			FieldType:    field.Type,
			TopResponses: []dto.ValueCount{},
		}
		top, err := s.aggs.TopValuesForField(ctx, form.ID, field.ID)
		if err != nil {
			log.Printf("analytics: top values failed for form %s field %s: %v", form.ID, field.ID, err)
		} else {
			fa.TopResponses = top
			for _, vc := range top {
				fa.ResponseCount += int(vc.Count)
			}
		}
		fields = append(fields, fa)
	}
	return fields, nil
}

func (s *analyticsService) DashboardOverview(ctx context.Context, ownerID uuid.UUID) (*dto.DashboardOverview, error) {
	forms, err := s.forms.FindActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	overview := &dto.DashboardOverview{
		TotalForms:      int64(len(forms)),
		RecentForms:     []dto.FormRef{},
		TopForms:        []dto.FormRef{},
		RecentResponses: []dto.ActivityEntry{},
	}

	formIDs := make([]uuid.UUID, 0, len(forms))
	titles := make(map[uuid.UUID]string, len(forms))
	for _, f := range forms {
		formIDs = append(formIDs, f.ID)
		titles[f.ID] = f.Title
	}

	counts, err := s.responses.CountsPerForm(ctx, formIDs)
	if err != nil {
		log.Printf("analytics: response counts failed for owner %s: %v", ownerID, err)
		counts = map[uuid.UUID]int64{}
	}
	for _, n := range counts {
		overview.TotalResponses += n
	}

	// FindActiveByOwner orders by updated_at; the dashboard wants newest
	// creations first.
	recent := make([]*entity.Form, len(forms))
	copy(recent, forms)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	for _, f := range recent {
		if len(overview.RecentForms) == dashboardFormLimit {
			break
		}
		overview.RecentForms = append(overview.RecentForms, dto.FormRef{
			ID:        f.ID,
			Title:     f.Title,
			CreatedAt: f.CreatedAt,
		})
	}

	overview.TopForms = topFormsByCount(forms, counts, dashboardFormLimit)

	feed, err := s.responses.ListRecentByForms(ctx, formIDs, dashboardFeedLimit)
	if err != nil {
		log.Printf("analytics: recent responses failed for owner %s: %v", ownerID, err)
		feed = nil
	}
	for _, r := range feed {
		overview.RecentResponses = append(overview.RecentResponses, activityEntry(r, titles))
	}

	return overview, nil
}

func (s *analyticsService) ManagementOverview(ctx context.Context, ownerID uuid.UUID) (*dto.ManagementOverview, error) {
	forms, err := s.forms.FindActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := now.AddDate(0, 0, -7)
	monthStart := now.AddDate(0, -1, 0)

	managed := make([]dto.ManagedForm, len(forms))
	var wg sync.WaitGroup
	for i, f := range forms {
		wg.Add(1)
		go func(i int, f *entity.Form) {
			defer wg.Done()
			managed[i] = dto.ManagedForm{
				ID:          f.ID,
				Title:       f.Title,
				Description: f.Description,
				Theme:       f.Theme,
				CreatedAt:   f.CreatedAt,
				UpdatedAt:   f.UpdatedAt,
				FieldCount:  len(f.Fields),
				Analytics:   s.formManagementAnalytics(ctx, f.ID, todayStart, weekStart, monthStart),
			}
		}(i, f)
	}
	wg.Wait()

	summary := dto.ManagementSummary{
		TotalForms:     int64(len(forms)),
		CreationTrend:  []dto.BucketCount{},
		TopForms:       []dto.FormRef{},
		RecentActivity: []dto.ActivityEntry{},
	}

	counts := make(map[uuid.UUID]int64, len(managed))
	for _, m := range managed {
		summary.TotalResponses += m.Analytics.TotalResponses
		counts[m.ID] = m.Analytics.TotalResponses
	}
	if len(forms) > 0 {
		summary.AverageResponsesPerForm = int64(math.Round(float64(summary.TotalResponses) / float64(len(forms))))
	}

	trendStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(creationTrendMonths - 1), 0)
	trend, err := s.aggs.MonthlyCreationTrend(ctx, ownerID, trendStart)
	if err != nil {
		log.Printf("analytics: creation trend failed for owner %s: %v", ownerID, err)
	} else {
		summary.CreationTrend = trend
	}

	summary.TopForms = topFormsByCount(forms, counts, dashboardFormLimit)

	formIDs := make([]uuid.UUID, 0, len(forms))
	titles := make(map[uuid.UUID]string, len(forms))
	for _, f := range forms {
		formIDs = append(formIDs, f.ID)
		titles[f.ID] = f.Title
	}
	feed, err := s.responses.ListRecentByForms(ctx, formIDs, activityFeedLimit)
	if err != nil {
		log.Printf("analytics: activity feed failed for owner %s: %v", ownerID, err)
		feed = nil
	}
	for _, r := range feed {
		summary.RecentActivity = append(summary.RecentActivity, activityEntry(r, titles))
	}

	return &dto.ManagementOverview{Forms: managed, Overview: summary}, nil
}

func (s *analyticsService) formManagementAnalytics(ctx context.Context, formID uuid.UUID, todayStart, weekStart, monthStart time.Time) dto.FormManagementAnalytics {
	out := dto.FormManagementAnalytics{DeviceStats: []dto.BucketCount{}}

	var wg sync.WaitGroup
	run := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				log.Printf("analytics: %s failed for form %s: %v", name, formID, err)
			}
		}()
	}

	run("total count", func() error {
		n, err := s.responses.CountByForm(ctx, formID)
		if err != nil {
			return err
		}
		out.TotalResponses = n
		return nil
	})
	run("today count", func() error {
		n, err := s.aggs.CountSince(ctx, formID, todayStart)
		if err != nil {
			return err
		}
		out.TodayResponses = n
		return nil
	})
	run("week count", func() error {
		n, err := s.aggs.CountSince(ctx, formID, weekStart)
		if err != nil {
			return err
		}
		out.WeekResponses = n
		return nil
	})
	run("month count", func() error {
		n, err := s.aggs.CountSince(ctx, formID, monthStart)
		if err != nil {
			return err
		}
		out.MonthResponses = n
		return nil
	})
	run("last submission", func() error {
		last, err := s.aggs.LastSubmission(ctx, formID)
		if err != nil {
			return err
		}
		out.LastSubmission = last
		return nil
	})
	run("device stats", func() error {
		stats, err := s.aggs.DeviceDistribution(ctx, formID)
		if err != nil {
			return err
		}
		out.DeviceStats = stats
		return nil
	})
	run("avg time", func() error {
		avg, err := s.aggs.AverageTimeSpent(ctx, formID)
		if err != nil {
			return err
		}
		out.AvgTimeSpent = avg
		return nil
	})
	wg.Wait()

	return out
}

func (s *analyticsService) findOwned(ctx context.Context, formID, ownerID uuid.UUID) (*entity.Form, error) {
	form, err := s.forms.FindByIDAndOwner(ctx, formID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return form, nil
}

func topFormsByCount(forms []*entity.Form, counts map[uuid.UUID]int64, limit int) []dto.FormRef {
	ranked := make([]*entity.Form, len(forms))
	copy(ranked, forms)
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i].ID] > counts[ranked[j].ID]
	})

	top := []dto.FormRef{}
	for _, f := range ranked {
		if len(top) == limit {
			break
		}
		top = append(top, dto.FormRef{
			ID:            f.ID,
			Title:         f.Title,
			ResponseCount: counts[f.ID],
			CreatedAt:     f.CreatedAt,
		})
	}
	return top
}

func activityEntry(r *entity.Response, titles map[uuid.UUID]string) dto.ActivityEntry {
	title, ok := titles[r.FormID]
	if !ok {
		title = "Unknown Form"
	}
	return dto.ActivityEntry{
		ResponseID:  r.ID,
		FormTitle:   title,
		SubmittedAt: r.SubmittedAt,
		IPAddress:   r.IPAddress,
		DeviceType:  r.DeviceType,
		Browser:     r.Browser,
	}
}
