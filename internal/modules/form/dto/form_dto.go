package dto

import (
	"time"

	"github.com/formforge/backend/internal/entity"
	"github.com/google/uuid"
)

// FieldInput is a raw field definition as submitted by the builder UI. Any
// client-supplied order is discarded during normalization.
type FieldInput struct {
	ID          string                  `json:"id"`
	Type        string                  `json:"type"`
	Label       string                  `json:"label"`
	Placeholder string                  `json:"placeholder"`
	Required    bool                    `json:"required"`
	Options     []string                `json:"options"`
	Validation  *entity.FieldValidation `json:"validation"`
	Order       int                     `json:"order"`
}

type FormInput struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Fields      []FieldInput          `json:"fields"`
	Theme       string                `json:"theme" binding:"omitempty,oneof=default dark light blue green purple"`
	Settings    *entity.FormSettings  `json:"settings"`
	Deadline    *time.Time            `json:"deadline"`
	Category    string                `json:"category"`
}

// FormSummary is one row of the owner's form list.
type FormSummary struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Theme         string    `json:"theme"`
	Category      string    `json:"category"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	ResponseCount int64     `json:"response_count"`
}

// PublicFormView is the reduced projection served on the share link. It
// deliberately omits the owner and the active flag.
type PublicFormView struct {
	ID          uuid.UUID                `json:"id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Fields      []entity.FieldDefinition `json:"fields"`
	Theme       string                   `json:"theme"`
	Settings    entity.FormSettings      `json:"settings"`
	CreatedAt   time.Time                `json:"created_at"`
}

func NewPublicFormView(f *entity.Form) *PublicFormView {
	return &PublicFormView{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		Fields:      f.Fields,
		Theme:       f.Theme,
		Settings:    f.Settings,
		CreatedAt:   f.CreatedAt,
	}
}

type FormStats struct {
	FormID         uuid.UUID `json:"form_id"`
	Title          string    `json:"title"`
	TotalResponses int64     `json:"total_responses"`
	CreatedAt      time.Time `json:"created_at"`
	LastUpdated    time.Time `json:"last_updated"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	Limit       int   `json:"limit"`
}

// SubmissionAnswer is an answer re-labeled against the live field schema,
// falling back to the snapshot stored at submission time.
type SubmissionAnswer struct {
	FieldID   string             `json:"fieldId"`
	FieldType string             `json:"fieldType"`
	Label     string             `json:"label"`
	Value     entity.AnswerValue `json:"value"`
	Required  bool               `json:"required"`
}

type SubmissionView struct {
	ID          uuid.UUID          `json:"id"`
	Answers     []SubmissionAnswer `json:"responses"`
	SubmittedAt time.Time          `json:"submitted_at"`
	IPAddress   string             `json:"ip_address"`
	UserAgent   string             `json:"user_agent"`
	DeviceType  string             `json:"device_type"`
	Browser     string             `json:"browser"`
	OS          string             `json:"os"`
	TimeSpent   *int               `json:"time_spent,omitempty"`
}

type PaginatedSubmissions struct {
	Submissions []SubmissionView `json:"submissions"`
	Meta        PaginationMeta   `json:"pagination"`
}
