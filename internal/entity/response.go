package entity

import (
	"encoding/json"
	"strconv"

	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ValueKind tags the variant held by an AnswerValue.
type ValueKind int

const (
	ValueEmpty ValueKind = iota
	ValueText
	ValueList
	ValueNumber
)

// AnswerValue is a tagged union over the polymorphic answer payload
// (string | string[] | number). The tag is assigned when the raw JSON is
// decoded; marshalling reproduces the original wire shape.
type AnswerValue struct {
	Kind   ValueKind
	Text   string
	List   []string
	Number float64
}

func TextValue(s string) AnswerValue   { return AnswerValue{Kind: ValueText, Text: s} }
func ListValue(l []string) AnswerValue { return AnswerValue{Kind: ValueList, List: l} }
func NumberValue(n float64) AnswerValue {
	return AnswerValue{Kind: ValueNumber, Number: n}
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch val := raw.(type) {
	case nil:
		*v = AnswerValue{Kind: ValueEmpty}
	case string:
		*v = TextValue(val)
	case float64:
		*v = NumberValue(val)
	case []any:
		list := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				list = append(list, s)
				continue
			}
			// Non-string elements keep their JSON text representation.
			b, err := json.Marshal(item)
			if err != nil {
				return err
			}
			list = append(list, string(b))
		}
		*v = ListValue(list)
	default:
		// Booleans and objects were legal in the source's untyped column;
		// store their JSON text so nothing is dropped.
		b, err := json.Marshal(val)
		if err != nil {
			return err
		}
		*v = TextValue(string(b))
	}
	return nil
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueText:
		return json.Marshal(v.Text)
	case ValueList:
		if v.List == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(v.List)
	case ValueNumber:
		return json.Marshal(v.Number)
	default:
		return []byte("null"), nil
	}
}

// IsEmpty reports whether the value carries no answer at all.
func (v AnswerValue) IsEmpty() bool {
	switch v.Kind {
	case ValueEmpty:
		return true
	case ValueText:
		return v.Text == ""
	case ValueList:
		return len(v.List) == 0
	default:
		return false
	}
}

// String renders the raw value the way analytics groups it.
func (v AnswerValue) String() string {
	switch v.Kind {
	case ValueText:
		return v.Text
	case ValueNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case ValueList:
		b, _ := json.Marshal(v.List)
		return string(b)
	default:
		return ""
	}
}

// Answer is one filled-in field, snapshotting type and label so responses
// stay readable after the form's fields change.
type Answer struct {
	FieldID   string      `json:"fieldId"`
	FieldType string      `json:"fieldType"`
	Label     string      `json:"label"`
	Value     AnswerValue `json:"value"`
	Required  bool        `json:"required"`
}

// Response is immutable once created; there is no update path.
type Response struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FormID      uuid.UUID `gorm:"type:uuid;index:idx_responses_form_submitted,priority:1;not null" json:"form_id"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Answers     []Answer  `gorm:"type:jsonb;serializer:json" json:"responses"`
	SubmittedAt time.Time `gorm:"index:idx_responses_form_submitted,priority:2;index" json:"submitted_at"`
	IPAddress   string    `gorm:"size:64" json:"ip_address"`
	UserAgent   string    `gorm:"type:text" json:"user_agent"`
	TimeSpent   *int      `json:"time_spent,omitempty"`
	DeviceType  string    `gorm:"size:20;default:desktop" json:"device_type"`
	Browser     string    `gorm:"size:50" json:"browser"`
	OS          string    `gorm:"size:50" json:"os"`

	// Loaded on demand; referential fields are not enforced as foreign keys.
	Form *Form `gorm:"foreignKey:FormID;constraint:-" json:"-"`
	User *User `gorm:"foreignKey:UserID;constraint:-" json:"-"`
}

func (r *Response) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}
