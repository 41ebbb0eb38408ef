package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recognized field types. A form field must carry one of these.
const (
	FieldText     = "text"
	FieldEmail    = "email"
	FieldNumber   = "number"
	FieldTextarea = "textarea"
	FieldSelect   = "select"
	FieldRadio    = "radio"
	FieldCheckbox = "checkbox"
	FieldDate     = "date"
	FieldFile     = "file"
	FieldPhone    = "phone"
	FieldURL      = "url"
	FieldRating   = "rating"
	FieldToggle   = "toggle"
)

var fieldTypes = map[string]bool{
	FieldText: true, FieldEmail: true, FieldNumber: true, FieldTextarea: true,
	FieldSelect: true, FieldRadio: true, FieldCheckbox: true, FieldDate: true,
	FieldFile: true, FieldPhone: true, FieldURL: true, FieldRating: true,
	FieldToggle: true,
}

func IsValidFieldType(t string) bool {
	return fieldTypes[t]
}

type FieldValidation struct {
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Pattern string   `json:"pattern,omitempty"`
}

// FieldDefinition is one input specification embedded in a form. Order is
// always the field's index in the saved array, never a client-supplied value.
type FieldDefinition struct {
	ID          string           `json:"id"`
	Type        string           `json:"type"`
	Label       string           `json:"label"`
	Placeholder string           `json:"placeholder,omitempty"`
	Required    bool             `json:"required"`
	Options     []string         `json:"options"`
	Validation  *FieldValidation `json:"validation,omitempty"`
	Order       int              `json:"order"`
}

type FormSettings struct {
	AllowMultipleResponses bool   `json:"allowMultipleResponses"`
	RequireAuthentication  bool   `json:"requireAuthentication"`
	ShowProgressBar        bool   `json:"showProgressBar"`
	SubmitButtonText       string `json:"submitButtonText"`
	SuccessMessage         string `json:"successMessage"`
}

func DefaultFormSettings() FormSettings {
	return FormSettings{
		AllowMultipleResponses: true,
		RequireAuthentication:  false,
		ShowProgressBar:        true,
		SubmitButtonText:       "Submit",
		SuccessMessage:         "Thank you for your response!",
	}
}

type Form struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     uuid.UUID         `gorm:"type:uuid;index;not null" json:"owner_id"`
	Title       string            `gorm:"size:255;not null" json:"title"`
	Description string            `gorm:"type:text" json:"description"`
	Fields      []FieldDefinition `gorm:"type:jsonb;serializer:json" json:"fields"`
	Theme       string            `gorm:"size:50;default:default" json:"theme"`
	Deadline    *time.Time        `json:"deadline"`
	Category    string            `gorm:"size:100;index;default:''" json:"category"`
	Settings    FormSettings      `gorm:"type:jsonb;serializer:json" json:"settings"`
	IsActive    bool              `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (f *Form) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID, err = uuid.NewV7()
	}
	return
}

// FieldByID looks a live field up by its caller-supplied id. Answers may
// reference fields that no longer exist; callers must fall back to the
// snapshot stored on the answer when ok is false.
func (f *Form) FieldByID(id string) (FieldDefinition, bool) {
	for _, field := range f.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return FieldDefinition{}, false
}
