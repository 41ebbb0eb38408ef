package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/formforge/backend/internal/entity"
	"github.com/formforge/backend/internal/modules/form/dto"
	repository "github.com/formforge/backend/internal/modules/form/repository"
	search "github.com/formforge/backend/internal/modules/search/service"
	responseRepo "github.com/formforge/backend/internal/modules/submission/repository"
	"github.com/formforge/backend/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const publicFormCacheTTL = 5 * time.Minute

type FormService interface {
	Create(ctx context.Context, ownerID uuid.UUID, input dto.FormInput) (*entity.Form, error)
	Update(ctx context.Context, ownerID, formID uuid.UUID, input dto.FormInput) (*entity.Form, error)
	SoftDelete(ctx context.Context, ownerID, formID uuid.UUID) error
	GetOwned(ctx context.Context, ownerID, formID uuid.UUID) (*entity.Form, error)
	GetPublic(ctx context.Context, formID uuid.UUID) (*dto.PublicFormView, error)
	ListOwned(ctx context.Context, ownerID uuid.UUID) ([]dto.FormSummary, error)
	GetStats(ctx context.Context, ownerID, formID uuid.UUID) (*dto.FormStats, error)
	ListSubmissions(ctx context.Context, ownerID, formID uuid.UUID, page, limit int) (*dto.PaginatedSubmissions, error)
	SearchOwned(ctx context.Context, ownerID uuid.UUID, query string, limit int) ([]search.SearchHit, error)
}

type formService struct {
	repo        repository.FormRepository
	responses   responseRepo.ResponseRepository
	searchSvc   search.SearchService
	redisClient *redis.Client
}

func NewFormService(
	repo repository.FormRepository,
	responses responseRepo.ResponseRepository,
	searchSvc search.SearchService,
	redisClient *redis.Client,
) FormService {
	return &formService{
		repo:        repo,
		responses:   responses,
		searchSvc:   searchSvc,
		redisClient: redisClient,
	}
}

func (s *formService) Create(ctx context.Context, ownerID uuid.UUID, input dto.FormInput) (*entity.Form, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || len(input.Fields) == 0 {
		return nil, apperror.New(http.StatusBadRequest,
			"title and at least one field are required", apperror.ErrMissingInput)
	}

	fields, err := normalizeFields(input.Fields)
	if err != nil {
		return nil, err
	}

	theme := input.Theme
	if theme == "" {
		theme = "default"
	}
	settings := entity.DefaultFormSettings()
	if input.Settings != nil {
		settings = *input.Settings
	}

	form := &entity.Form{
		OwnerID:     ownerID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Fields:      fields,
		Theme:       theme,
		Deadline:    input.Deadline,
		Category:    input.Category,
		Settings:    settings,
		IsActive:    true,
	}

	if err := s.repo.Create(ctx, form); err != nil {
		return nil, err
	}

	s.indexForm(form)
	return form, nil
}

func (s *formService) Update(ctx context.Context, ownerID, formID uuid.UUID, input dto.FormInput) (*entity.Form, error) {
	form, err := s.findOwned(ctx, ownerID, formID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" || len(input.Fields) == 0 {
		return nil, apperror.New(http.StatusBadRequest,
			"title and at least one field are required", apperror.ErrMissingInput)
	}

	fields, err := normalizeFields(input.Fields)
	if err != nil {
		return nil, err
	}

	form.Title = title
	form.Description = strings.TrimSpace(input.Description)
	form.Fields = fields
	if input.Theme != "" {
		form.Theme = input.Theme
	}
	if input.Settings != nil {
		form.Settings = *input.Settings
	}
	form.Deadline = input.Deadline
	form.Category = input.Category
	form.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, form); err != nil {
		return nil, err
	}

	s.invalidatePublicCache(ctx, formID)
	s.indexForm(form)
	return form, nil
}

func (s *formService) SoftDelete(ctx context.Context, ownerID, formID uuid.UUID) error {
	if _, err := s.findOwned(ctx, ownerID, formID); err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, formID); err != nil {
		return err
	}

	s.invalidatePublicCache(ctx, formID)
	if s.searchSvc != nil {
		if err := s.searchSvc.DeleteForm(formID.String()); err != nil {
			log.Printf("failed to remove form %s from search index: %v", formID, err)
		}
	}
	return nil
}

func (s *formService) GetOwned(ctx context.Context, ownerID, formID uuid.UUID) (*entity.Form, error) {
	return s.findOwned(ctx, ownerID, formID)
}

func (s *formService) GetPublic(ctx context.Context, formID uuid.UUID) (*dto.PublicFormView, error) {
	if view, ok := s.cachedPublicView(ctx, formID); ok {
		return view, nil
	}

	form, err := s.repo.FindActiveByID(ctx, formID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusNotFound,
				"form not found or no longer accepting responses", apperror.ErrNotFound)
		}
		return nil, err
	}

	view := dto.NewPublicFormView(form)
	s.cachePublicView(ctx, formID, view)
	return view, nil
}

func (s *formService) ListOwned(ctx context.Context, ownerID uuid.UUID) ([]dto.FormSummary, error) {
	forms, err := s.repo.FindActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(forms))
	for i, f := range forms {
		ids[i] = f.ID
	}
	counts, err := s.responses.CountsPerForm(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.FormSummary, 0, len(forms))
	for _, f := range forms {
		summaries = append(summaries, dto.FormSummary{
			ID:            f.ID,
			Title:         f.Title,
			Description:   f.Description,
			Theme:         f.Theme,
			Category:      f.Category,
			CreatedAt:     f.CreatedAt,
			UpdatedAt:     f.UpdatedAt,
			ResponseCount: counts[f.ID],
		})
	}
	return summaries, nil
}

func (s *formService) GetStats(ctx context.Context, ownerID, formID uuid.UUID) (*dto.FormStats, error) {
	form, err := s.findOwned(ctx, ownerID, formID)
	if err != nil {
		return nil, err
	}

	count, err := s.responses.CountByForm(ctx, formID)
	if err != nil {
		return nil, err
	}

	return &dto.FormStats{
		FormID:         form.ID,
		Title:          form.Title,
		TotalResponses: count,
		CreatedAt:      form.CreatedAt,
		LastUpdated:    form.UpdatedAt,
	}, nil
}

func (s *formService) ListSubmissions(ctx context.Context, ownerID, formID uuid.UUID, page, limit int) (*dto.PaginatedSubmissions, error) {
	form, err := s.findOwned(ctx, ownerID, formID)
	if err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	responses, total, err := s.responses.ListByForm(ctx, formID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	views := make([]dto.SubmissionView, 0, len(responses))
	for _, r := range responses {
		views = append(views, buildSubmissionView(form, r))
	}

	return &dto.PaginatedSubmissions{
		Submissions: views,
		Meta: dto.PaginationMeta{
			CurrentPage: page,
			TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
			TotalItems:  total,
			Limit:       limit,
		},
	}, nil
}

func (s *formService) SearchOwned(ctx context.Context, ownerID uuid.UUID, query string, limit int) ([]search.SearchHit, error) {
	if s.searchSvc == nil || !s.searchSvc.Enabled() {
		return nil, apperror.New(http.StatusServiceUnavailable, "search is not configured", apperror.ErrInternal)
	}
	return s.searchSvc.SearchForms(ownerID.String(), query, limit)
}

// buildSubmissionView re-labels answers against the live field schema, falling
// back to the type/label snapshot taken at submission time for fields that no
// longer exist on the form.
func buildSubmissionView(form *entity.Form, r *entity.Response) dto.SubmissionView {
	answers := make([]dto.SubmissionAnswer, 0, len(r.Answers))
	for _, a := range r.Answers {
		fieldType, label := a.FieldType, a.Label
		if field, ok := form.FieldByID(a.FieldID); ok {
			fieldType, label = field.Type, field.Label
		}
		answers = append(answers, dto.SubmissionAnswer{
			FieldID:   a.FieldID,
			FieldType: fieldType,
			Label:     label,
			Value:     a.Value,
			Required:  a.Required,
		})
	}

	return dto.SubmissionView{
		ID:          r.ID,
		Answers:     answers,
		SubmittedAt: r.SubmittedAt,
		IPAddress:   r.IPAddress,
		UserAgent:   r.UserAgent,
		DeviceType:  r.DeviceType,
		Browser:     r.Browser,
		OS:          r.OS,
		TimeSpent:   r.TimeSpent,
	}
}

func (s *formService) findOwned(ctx context.Context, ownerID, formID uuid.UUID) (*entity.Form, error) {
	form, err := s.repo.FindByIDAndOwner(ctx, formID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return form, nil
}

func (s *formService) indexForm(form *entity.Form) {
	if s.searchSvc == nil {
		return
	}
	if err := s.searchSvc.IndexForm(form); err != nil {
		log.Printf("failed to index form %s: %v", form.ID, err)
	}
}

func publicCacheKey(formID uuid.UUID) string {
	return fmt.Sprintf("form:public:%s", formID)
}

func (s *formService) cachedPublicView(ctx context.Context, formID uuid.UUID) (*dto.PublicFormView, bool) {
	if s.redisClient == nil {
		return nil, false
	}

	raw, err := s.redisClient.Get(ctx, publicCacheKey(formID)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("public form cache read failed: %v", err)
		}
		return nil, false
	}

	var view dto.PublicFormView
	if err := json.Unmarshal([]byte(raw), &view); err != nil {
		return nil, false
	}
	return &view, true
}

func (s *formService) cachePublicView(ctx context.Context, formID uuid.UUID, view *dto.PublicFormView) {
	if s.redisClient == nil {
		return
	}

	raw, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := s.redisClient.Set(ctx, publicCacheKey(formID), raw, publicFormCacheTTL).Err(); err != nil {
		log.Printf("public form cache write failed: %v", err)
	}
}

func (s *formService) invalidatePublicCache(ctx context.Context, formID uuid.UUID) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.Del(ctx, publicCacheKey(formID)).Err(); err != nil {
		log.Printf("public form cache invalidation failed: %v", err)
	}
}
