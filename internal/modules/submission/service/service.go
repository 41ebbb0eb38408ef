package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/formforge/backend/internal/entity"
	formRepo "github.com/formforge/backend/internal/modules/form/repository"
	"github.com/formforge/backend/internal/modules/submission/dto"
	repository "github.com/formforge/backend/internal/modules/submission/repository"
	"github.com/formforge/backend/pkg/apperror"
	"github.com/formforge/backend/pkg/useragent"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubmissionService interface {
	Submit(ctx context.Context, userID uuid.UUID, input dto.SubmitInput, meta dto.RequestMeta) (*dto.SubmitResult, error)
	GetByID(ctx context.Context, responseID uuid.UUID) (*dto.ResponseView, error)
	ListForForm(ctx context.Context, ownerID, formID uuid.UUID) ([]dto.ResponseView, error)
	ListAllForOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]dto.ResponseView, error)
}

type submissionService struct {
	responses repository.ResponseRepository
	forms     formRepo.FormRepository

	// strict turns on required-field and value-type enforcement. The default
	// (false) preserves the permissive accept-anything write path.
	strict bool
}

func NewSubmissionService(responses repository.ResponseRepository, forms formRepo.FormRepository, strict bool) SubmissionService {
	return &submissionService{
		responses: responses,
		forms:     forms,
		strict:    strict,
	}
}

// Submit validates a submission against the form's live field schema, derives
// device metadata from the User-Agent, and persists the response. No
// idempotency key exists: a client double-submit stores two responses.
func (s *submissionService) Submit(ctx context.Context, userID uuid.UUID, input dto.SubmitInput, meta dto.RequestMeta) (*dto.SubmitResult, error) {
	if userID == uuid.Nil {
		return nil, apperror.ErrUnauthorized
	}

	formID, err := uuid.Parse(input.FormID)
	if err != nil || len(input.Answers) == 0 {
		return nil, apperror.New(http.StatusBadRequest,
			"form ID and responses are required", apperror.ErrMissingInput)
	}

	form, err := s.forms.FindActiveByID(ctx, formID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrFormClosed
		}
		return nil, err
	}

	answers, err := s.normalizeAnswers(form, input.Answers)
	if err != nil {
		return nil, err
	}

	info := useragent.Classify(meta.UserAgent)
	response := &entity.Response{
		FormID:      form.ID,
		UserID:      userID,
		Answers:     answers,
		SubmittedAt: time.Now(),
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
		TimeSpent:   input.TimeSpent,
		DeviceType:  info.DeviceType,
		Browser:     info.Browser,
		OS:          info.OS,
	}

	if err := s.responses.Insert(ctx, response); err != nil {
		return nil, err
	}

	return &dto.SubmitResult{
		Message:    "Response submitted successfully",
		ResponseID: response.ID,
	}, nil
}

// normalizeAnswers snapshots each answer against the live field schema.
// Answers referencing unknown fields are kept with their submitted snapshot;
// values are stored as-is. Strict mode additionally enforces required-field
// presence and value/type agreement.
func (s *submissionService) normalizeAnswers(form *entity.Form, raw []dto.AnswerInput) ([]entity.Answer, error) {
	answers := make([]entity.Answer, 0, len(raw))
	answered := make(map[string]entity.AnswerValue, len(raw))

	for _, in := range raw {
		fieldType, label, required := in.FieldType, in.Label, in.Required
		if field, ok := form.FieldByID(in.FieldID); ok {
			fieldType, label, required = field.Type, field.Label, field.Required
		}

		if s.strict {
			if err := checkValueKind(fieldType, in.Value); err != nil {
				return nil, err
			}
		}

		answered[in.FieldID] = in.Value
		answers = append(answers, entity.Answer{
			FieldID:   in.FieldID,
			FieldType: fieldType,
			Label:     label,
			Value:     in.Value,
			Required:  required,
		})
	}

	if s.strict {
		for _, field := range form.Fields {
			if !field.Required {
				continue
			}
			if value, ok := answered[field.ID]; !ok || value.IsEmpty() {
				return nil, apperror.New(http.StatusBadRequest,
					fmt.Sprintf("field %q is required", field.Label), apperror.ErrMissingInput)
			}
		}
	}

	return answers, nil
}

// checkValueKind verifies that a strict-mode value matches the field's
// declared type. Empty values pass; required-ness is checked separately.
func checkValueKind(fieldType string, value entity.AnswerValue) error {
	if value.IsEmpty() {
		return nil
	}

	ok := true
	switch fieldType {
	case entity.FieldNumber, entity.FieldRating:
		ok = value.Kind == entity.ValueNumber
	case entity.FieldCheckbox:
		ok = value.Kind == entity.ValueList
	default:
		ok = value.Kind == entity.ValueText
	}

	if !ok {
		return apperror.New(http.StatusBadRequest,
			fmt.Sprintf("value does not match field type %q", fieldType), apperror.ErrInvalidInput)
	}
	return nil
}

func (s *submissionService) GetByID(ctx context.Context, responseID uuid.UUID) (*dto.ResponseView, error) {
	response, err := s.responses.FindByID(ctx, responseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	view := buildResponseView(response)
	return &view, nil
}

func (s *submissionService) ListForForm(ctx context.Context, ownerID, formID uuid.UUID) ([]dto.ResponseView, error) {
	form, err := s.forms.FindByIDAndOwner(ctx, formID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	responses, err := s.responses.ListByFormWithSubmitters(ctx, formID)
	if err != nil {
		return nil, err
	}

	views := make([]dto.ResponseView, 0, len(responses))
	for _, r := range responses {
		view := buildResponseView(r)
		view.FormTitle = form.Title
		views = append(views, view)
	}
	return views, nil
}

func (s *submissionService) ListAllForOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]dto.ResponseView, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	forms, err := s.forms.FindActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	formIDs := make([]uuid.UUID, len(forms))
	for i, f := range forms {
		formIDs[i] = f.ID
	}

	responses, err := s.responses.ListRecentByForms(ctx, formIDs, limit)
	if err != nil {
		return nil, err
	}

	views := make([]dto.ResponseView, 0, len(responses))
	for _, r := range responses {
		views = append(views, buildResponseView(r))
	}
	return views, nil
}

func buildResponseView(r *entity.Response) dto.ResponseView {
	view := dto.ResponseView{
		ID:          r.ID,
		FormTitle:   "Unknown Form",
		Answers:     r.Answers,
		SubmittedAt: r.SubmittedAt,
		DeviceType:  r.DeviceType,
		Browser:     r.Browser,
		IPAddress:   r.IPAddress,
	}
	if r.Form != nil {
		view.FormTitle = r.Form.Title
	}
	if r.User != nil {
		view.User = &dto.SubmitterInfo{Name: r.User.Name, Email: r.User.Email}
	}
	return view
}
