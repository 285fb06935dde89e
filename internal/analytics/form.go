package analytics

import (
	"time"

	"formpulse/internal/model"
)

const dayFormat = "2006-01-02"

// AggregateForm computes the full analytics payload for one form. The
// question list is the concatenation of each section's questions in
// section order then question order. When dateRange is non-nil, responses
// outside the inclusive [start, end] window are dropped before any
// per-question work, so an excluded response contributes no answer to any
// question. Zero questions or zero responses yield a fully-shaped result
// with zero counts, never nil fields.
func AggregateForm(form *model.Form, responses []*model.Response, dateRange *model.DateRange) *model.FormAnalytics {
	filtered := make([]*model.Response, 0, len(responses))
	for _, r := range responses {
		if dateRange.Contains(r.SubmittedAt) {
			filtered = append(filtered, r)
		}
	}

	// Index every filtered response's answers once; per-question passes
	// below reuse the maps.
	indexed := make([]map[string]model.Answer, len(filtered))
	for i, r := range filtered {
		indexed[i] = r.AnswersByQuestion()
	}

	questions := form.FlatQuestions()
	data := make([]model.QuestionAnalytics, 0, len(questions))
	for _, q := range questions {
		var answers []model.Answer
		for _, byQ := range indexed {
			if a, ok := byQ[q.ID]; ok {
				answers = append(answers, a)
			}
		}
		data = append(data, AggregateQuestion(q, answers))
	}

	overTime := make(map[string]int)
	for _, r := range filtered {
		if r.SubmittedAt.IsZero() {
			continue
		}
		overTime[dayKey(r.SubmittedAt)]++
	}

	return &model.FormAnalytics{
		ResponseCount: len(filtered),
		AnalyticsData: data,
		TimeAnalytics: model.TimeAnalytics{
			TotalResponses:    len(filtered),
			ResponsesOverTime: overTime,
		},
		RequiredQuestions: form.RequiredQuestionCount(),
	}
}

// dayKey buckets a timestamp by UTC calendar day.
func dayKey(t time.Time) string {
	return t.UTC().Format(dayFormat)
}
