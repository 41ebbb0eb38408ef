package dto

import (
	"time"

	"github.com/formforge/backend/internal/entity"
	"github.com/google/uuid"
)

// AnswerInput is one filled-in field as submitted by the public form page.
// Value is decoded into the tagged union at bind time.
type AnswerInput struct {
	FieldID   string             `json:"fieldId" binding:"required"`
	FieldType string             `json:"fieldType"`
	Label     string             `json:"label"`
	Value     entity.AnswerValue `json:"value"`
	Required  bool               `json:"required"`
}

type SubmitInput struct {
	FormID    string        `json:"formId" binding:"required"`
	Answers   []AnswerInput `json:"responses" binding:"required"`
	TimeSpent *int          `json:"timeSpent"`
}

// RequestMeta carries the transport-level facts the ingestion pipeline
// derives metadata from.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type SubmitResult struct {
	Message    string    `json:"message"`
	ResponseID uuid.UUID `json:"responseId"`
}

type SubmitterInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ResponseView is a stored response resolved for owner-facing listings.
type ResponseView struct {
	ID          uuid.UUID       `json:"id"`
	User        *SubmitterInfo  `json:"user"`
	FormTitle   string          `json:"form_title"`
	Answers     []entity.Answer `json:"responses"`
	SubmittedAt time.Time       `json:"submitted_at"`
	DeviceType  string          `json:"device_type"`
	Browser     string          `json:"browser"`
	IPAddress   string          `json:"ip_address"`
}
