package dto

import (
	"time"

	"github.com/google/uuid"
)

// DailyCount is one day bucket of the submission trend, date as Y-M-D.
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// BucketCount is one row of a keyed distribution (device, browser, month).
type BucketCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type HourCount struct {
	Hour  int   `json:"hour"`
	Count int64 `json:"count"`
}

type ValueCount struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

type FieldAnalytics struct {
	FieldID       string       `json:"field_id"`
	FieldLabel    string       `json:"field_label"`
	FieldType     string       `json:"field_type"`
	ResponseCount int          `json:"response_count"`
	TopResponses  []ValueCount `json:"top_responses"`
}

type CompletionStats struct {
	AvgTimeSpent     float64 `json:"avg_time_spent"`
	MinTimeSpent     int64   `json:"min_time_spent"`
	MaxTimeSpent     int64   `json:"max_time_spent"`
	TotalCompletions int64   `json:"total_completions"`
}

type FormHeader struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	FieldCount  int       `json:"field_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// FormAnalytics bundles every per-form aggregation. Aggregations degrade
// independently: a failed one is zero-valued without blanking the rest.
type FormAnalytics struct {
	Form      FormHeader      `json:"form"`
	Analytics AnalyticsBundle `json:"analytics"`
}

type AnalyticsBundle struct {
	TotalResponses     int64            `json:"total_responses"`
	DailyTrends        []DailyCount     `json:"daily_trends"`
	DeviceStats        []BucketCount    `json:"device_stats"`
	BrowserStats       []BucketCount    `json:"browser_stats"`
	HourlyDistribution []HourCount      `json:"hourly_distribution"`
	FieldAnalytics     []FieldAnalytics `json:"field_analytics"`
	CompletionStats    *CompletionStats `json:"completion_stats"`
}

type FormRef struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	ResponseCount int64     `json:"response_count,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ActivityEntry is one line of a recent-submissions feed.
type ActivityEntry struct {
	ResponseID  uuid.UUID `json:"response_id"`
	FormTitle   string    `json:"form_title"`
	SubmittedAt time.Time `json:"submitted_at"`
	IPAddress   string    `json:"ip_address"`
	DeviceType  string    `json:"device_type"`
	Browser     string    `json:"browser,omitempty"`
}

type DashboardOverview struct {
	TotalForms      int64           `json:"total_forms"`
	TotalResponses  int64           `json:"total_responses"`
	RecentForms     []FormRef       `json:"recent_forms"`
	TopForms        []FormRef       `json:"top_forms"`
	RecentResponses []ActivityEntry `json:"recent_responses"`
}

type FormManagementAnalytics struct {
	TotalResponses int64         `json:"total_responses"`
	TodayResponses int64         `json:"today_responses"`
	WeekResponses  int64         `json:"week_responses"`
	MonthResponses int64         `json:"month_responses"`
	LastSubmission *time.Time    `json:"last_submission"`
	DeviceStats    []BucketCount `json:"device_stats"`
	AvgTimeSpent   float64       `json:"avg_time_spent"`
}

type ManagedForm struct {
	ID          uuid.UUID               `json:"id"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Theme       string                  `json:"theme"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
	FieldCount  int                     `json:"field_count"`
	Analytics   FormManagementAnalytics `json:"analytics"`
}

type ManagementSummary struct {
	TotalForms              int64           `json:"total_forms"`
	TotalResponses          int64           `json:"total_responses"`
	AverageResponsesPerForm int64           `json:"average_responses_per_form"`
	CreationTrend           []BucketCount   `json:"creation_trend"`
	TopForms                []FormRef       `json:"top_forms"`
	RecentActivity          []ActivityEntry `json:"recent_activity"`
}

type ManagementOverview struct {
	Forms    []ManagedForm     `json:"forms"`
	Overview ManagementSummary `json:"overview"`
}
