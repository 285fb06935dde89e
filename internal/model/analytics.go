package model

import "time"

// QuestionAnalytics is the per-question aggregate. Exactly one of the
// payload fields is populated depending on question type:
//   - Answers for option-bearing and rating types (label -> count; the
//     fallback bucket for file_upload/date stores {"total_responses": n})
//   - AverageRating alongside Answers for rating questions, omitted
//     entirely when no rating parsed (absence signals "no data")
//   - Responses for free-text types
type QuestionAnalytics struct {
	QuestionID     string         `json:"question_id"`
	QuestionText   string         `json:"question_text"`
	QuestionType   QuestionType   `json:"question_type"`
	TotalResponses int            `json:"total_responses"`
	Answers        map[string]int `json:"answers,omitempty"`
	AverageRating  *float64       `json:"average_rating,omitempty"`
	Responses      []string       `json:"responses,omitempty"`
}

// TimeAnalytics buckets a form's responses by UTC calendar day.
type TimeAnalytics struct {
	TotalResponses    int            `json:"total_responses"`
	ResponsesOverTime map[string]int `json:"responses_over_time"`
}

// FormAnalytics is the persisted shape of a form_analytics cache entry.
// RequiredQuestions and ResponseCount are the raw completion-rate inputs;
// they are deliberately never combined into a percentage.
type FormAnalytics struct {
	ResponseCount     int                 `json:"response_count"`
	AnalyticsData     []QuestionAnalytics `json:"analytics_data"`
	TimeAnalytics     TimeAnalytics       `json:"time_analytics"`
	RequiredQuestions int                 `json:"required_questions"`
}

// EngagementAnalytics buckets all responses across a user's forms by
// weekday name and hour of day, using the stored timestamp's own calendar
// fields (no timezone conversion).
type EngagementAnalytics struct {
	TotalResponses int            `json:"total_responses"`
	DayResponses   map[string]int `json:"day_responses"`
	HourResponses  map[int]int    `json:"hour_responses"`
}

// TrendPoint is one day of a sparse response-count series.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// FormStat is one form's row in the owner dashboard.
type FormStat struct {
	FormID        string `json:"form_id"`
	Title         string `json:"title"`
	Published     bool   `json:"published"`
	ResponseCount int    `json:"response_count"`
}

// DashboardStats is the per-owner dashboard aggregate (dashboard_stats
// cache kind).
type DashboardStats struct {
	TotalForms     int        `json:"total_forms"`
	PublishedForms int        `json:"published_forms"`
	TotalResponses int        `json:"total_responses"`
	Forms          []FormStat `json:"forms"`
}

// DateRange bounds a form-analytics query. A nil bound is unbounded;
// both bounds are inclusive.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Contains reports whether t falls inside the range. The zero time never
// matches a bounded range.
func (r *DateRange) Contains(t time.Time) bool {
	if r == nil {
		return true
	}
	if (r.Start != nil || r.End != nil) && t.IsZero() {
		return false
	}
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}
