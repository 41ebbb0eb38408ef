package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/formforge/backend/internal/entity"
	"github.com/formforge/backend/internal/modules/submission/dto"
	"github.com/formforge/backend/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeResponseRepo struct {
	inserted []*entity.Response
}

func (r *fakeResponseRepo) Insert(_ context.Context, response *entity.Response) error {
	if response.ID == uuid.Nil {
		response.ID = uuid.New()
	}
	r.inserted = append(r.inserted, response)
	return nil
}

func (r *fakeResponseRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Response, error) {
	for _, resp := range r.inserted {
		if resp.ID == id {
			return resp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeResponseRepo) ListByForm(_ context.Context, formID uuid.UUID, _, _ int) ([]*entity.Response, int64, error) {
	out, _ := r.byForm(formID)
	return out, int64(len(out)), nil
}

func (r *fakeResponseRepo) ListByFormWithSubmitters(_ context.Context, formID uuid.UUID) ([]*entity.Response, error) {
	out, _ := r.byForm(formID)
	return out, nil
}

func (r *fakeResponseRepo) ListRecentByForms(_ context.Context, formIDs []uuid.UUID, limit int) ([]*entity.Response, error) {
	var out []*entity.Response
	for _, id := range formIDs {
		forForm, _ := r.byForm(id)
		out = append(out, forForm...)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeResponseRepo) CountByForm(_ context.Context, formID uuid.UUID) (int64, error) {
	_, n := r.byForm(formID)
	return n, nil
}

func (r *fakeResponseRepo) CountsPerForm(_ context.Context, formIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64)
	for _, id := range formIDs {
		if _, n := r.byForm(id); n > 0 {
			out[id] = n
		}
	}
	return out, nil
}

func (r *fakeResponseRepo) byForm(formID uuid.UUID) ([]*entity.Response, int64) {
	var out []*entity.Response
	for _, resp := range r.inserted {
		if resp.FormID == formID {
			out = append(out, resp)
		}
	}
	return out, int64(len(out))
}

type fakeFormRepo struct {
	forms map[uuid.UUID]*entity.Form
}

func (r *fakeFormRepo) Create(_ context.Context, form *entity.Form) error {
	r.forms[form.ID] = form
	return nil
}

func (r *fakeFormRepo) FindByIDAndOwner(_ context.Context, id, ownerID uuid.UUID) (*entity.Form, error) {
	form, ok := r.forms[id]
	if !ok || form.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	return form, nil
}

func (r *fakeFormRepo) FindActiveByID(_ context.Context, id uuid.UUID) (*entity.Form, error) {
	form, ok := r.forms[id]
	if !ok || !form.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return form, nil
}

func (r *fakeFormRepo) FindActiveByOwner(_ context.Context, ownerID uuid.UUID) ([]*entity.Form, error) {
	var out []*entity.Form
	for _, f := range r.forms {
		if f.OwnerID == ownerID && f.IsActive {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFormRepo) Update(_ context.Context, form *entity.Form) error {
	r.forms[form.ID] = form
	return nil
}

func (r *fakeFormRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if form, ok := r.forms[id]; ok {
		form.IsActive = false
	}
	return nil
}

func surveyForm() *entity.Form {
	return &entity.Form{
		ID:      uuid.New(),
		OwnerID: uuid.New(),
		Title:   "Feedback",
		Fields: []entity.FieldDefinition{
			{ID: "name", Type: entity.FieldText, Label: "Your Name", Required: true, Order: 0},
			{ID: "score", Type: entity.FieldRating, Label: "Score", Order: 1},
		},
		IsActive: true,
	}
}

func setup(form *entity.Form, strict bool) (SubmissionService, *fakeResponseRepo) {
	responses := &fakeResponseRepo{}
	forms := &fakeFormRepo{forms: map[uuid.UUID]*entity.Form{}}
	if form != nil {
		forms.forms[form.ID] = form
	}
	return NewSubmissionService(responses, forms, strict), responses
}

func submitInput(form *entity.Form) dto.SubmitInput {
	return dto.SubmitInput{
		FormID: form.ID.String(),
		Answers: []dto.AnswerInput{
			{FieldID: "name", Value: entity.TextValue("Ada")},
			{FieldID: "score", Value: entity.NumberValue(5)},
		},
	}
}

func TestSubmitStoresSchemaSnapshot(t *testing.T) {
	form := surveyForm()
	svc, responses := setup(form, false)

	meta := dto.RequestMeta{
		IPAddress: "203.0.113.9",
		UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Version/17.0 Mobile/15E148 Safari/604.1",
	}
	result, err := svc.Submit(context.Background(), uuid.New(), submitInput(form), meta)
	require.NoError(t, err)
	assert.Equal(t, "Response submitted successfully", result.Message)

	require.Len(t, responses.inserted, 1)
	stored := responses.inserted[0]
	assert.Equal(t, result.ResponseID, stored.ID)

	// Labels and types come from the live schema, not the client payload.
	require.Len(t, stored.Answers, 2)
	assert.Equal(t, "Your Name", stored.Answers[0].Label)
	assert.Equal(t, entity.FieldText, stored.Answers[0].FieldType)
	assert.True(t, stored.Answers[0].Required)

	assert.Equal(t, "mobile", stored.DeviceType)
	assert.Equal(t, "Safari", stored.Browser)
	assert.Equal(t, "macOS", stored.OS)
	assert.Equal(t, "203.0.113.9", stored.IPAddress)
	assert.WithinDuration(t, time.Now(), stored.SubmittedAt, time.Minute)
}

func TestSubmitRequiresAuthenticatedUser(t *testing.T) {
	form := surveyForm()
	svc, responses := setup(form, false)

	_, err := svc.Submit(context.Background(), uuid.Nil, submitInput(form), dto.RequestMeta{})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	assert.Empty(t, responses.inserted)
}

func TestSubmitRequiresFormAndAnswers(t *testing.T) {
	form := surveyForm()
	svc, _ := setup(form, false)

	input := submitInput(form)
	input.FormID = "not-a-uuid"
	_, err := svc.Submit(context.Background(), uuid.New(), input, dto.RequestMeta{})
	assert.Equal(t, http.StatusBadRequest, apperror.MapErrorToStatus(err))

	input = submitInput(form)
	input.Answers = nil
	_, err = svc.Submit(context.Background(), uuid.New(), input, dto.RequestMeta{})
	assert.Equal(t, http.StatusBadRequest, apperror.MapErrorToStatus(err))
}

func TestSubmitToDeletedFormReportsClosed(t *testing.T) {
	form := surveyForm()
	form.IsActive = false
	svc, responses := setup(form, false)

	_, err := svc.Submit(context.Background(), uuid.New(), submitInput(form), dto.RequestMeta{})
	assert.ErrorIs(t, err, apperror.ErrFormClosed)
	assert.Equal(t, http.StatusNotFound, apperror.MapErrorToStatus(err))
	assert.Empty(t, responses.inserted)
}

func TestSubmitAfterDeadlineStillAccepted(t *testing.T) {
	form := surveyForm()
	past := time.Now().AddDate(0, 0, -3)
	form.Deadline = &past
	svc, responses := setup(form, false)

	_, err := svc.Submit(context.Background(), uuid.New(), submitInput(form), dto.RequestMeta{})
	require.NoError(t, err)
	assert.Len(t, responses.inserted, 1)
}

func TestSubmitPermissiveAcceptsMissingRequired(t *testing.T) {
	form := surveyForm()
	svc, responses := setup(form, false)

	input := submitInput(form)
	input.Answers = []dto.AnswerInput{
		{FieldID: "score", Value: entity.NumberValue(3)},
	}

	_, err := svc.Submit(context.Background(), uuid.New(), input, dto.RequestMeta{})
	require.NoError(t, err)
	assert.Len(t, responses.inserted, 1)
}

func TestSubmitStrictRejectsMissingRequired(t *testing.T) {
	form := surveyForm()
	svc, responses := setup(form, true)

	input := submitInput(form)
	input.Answers = []dto.AnswerInput{
		{FieldID: "score", Value: entity.NumberValue(3)},
	}

	_, err := svc.Submit(context.Background(), uuid.New(), input, dto.RequestMeta{})
	assert.ErrorIs(t, err, apperror.ErrMissingInput)
	assert.Empty(t, responses.inserted)
}

func TestSubmitStrictRejectsWrongValueKind(t *testing.T) {
	form := surveyForm()
	svc, _ := setup(form, true)

	input := submitInput(form)
	input.Answers[1].Value = entity.TextValue("five")

	_, err := svc.Submit(context.Background(), uuid.New(), input, dto.RequestMeta{})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestSubmitKeepsUnknownFieldSnapshot(t *testing.T) {
	form := surveyForm()
	svc, responses := setup(form, false)

	input := submitInput(form)
	input.Answers = append(input.Answers, dto.AnswerInput{
		FieldID:   "legacy",
		FieldType: entity.FieldText,
		Label:     "Old Question",
		Value:     entity.TextValue("kept"),
	})

	_, err := svc.Submit(context.Background(), uuid.New(), input, dto.RequestMeta{})
	require.NoError(t, err)

	stored := responses.inserted[0]
	require.Len(t, stored.Answers, 3)
	assert.Equal(t, "Old Question", stored.Answers[2].Label)
}

func TestDoubleSubmitStoresTwoResponses(t *testing.T) {
	form := surveyForm()
	svc, responses := setup(form, false)
	userID := uuid.New()

	first, err := svc.Submit(context.Background(), userID, submitInput(form), dto.RequestMeta{})
	require.NoError(t, err)
	second, err := svc.Submit(context.Background(), userID, submitInput(form), dto.RequestMeta{})
	require.NoError(t, err)

	assert.NotEqual(t, first.ResponseID, second.ResponseID)
	assert.Len(t, responses.inserted, 2)
}

func TestListForFormMasksOtherOwners(t *testing.T) {
	form := surveyForm()
	svc, _ := setup(form, false)

	_, err := svc.ListForForm(context.Background(), uuid.New(), form.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	views, err := svc.ListForForm(context.Background(), form.OwnerID, form.ID)
	require.NoError(t, err)
	assert.Empty(t, views)
}
