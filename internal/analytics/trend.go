package analytics

import (
	"sort"
	"time"

	"formpulse/internal/model"
)

// AggregateResponseTrend computes the daily response-count series for one
// form over the trailing window, grouped by UTC calendar date. Days with
// zero responses are omitted: the series is sparse, not zero-filled, and
// dashboard consumers rely on that.
func AggregateResponseTrend(formID string, responses []*model.Response, windowDays int) []model.TrendPoint {
	return responseTrendAt(formID, responses, windowDays, time.Now().UTC())
}

func responseTrendAt(formID string, responses []*model.Response, windowDays int, now time.Time) []model.TrendPoint {
	cutoff := now.AddDate(0, 0, -windowDays)

	counts := make(map[string]int)
	for _, r := range responses {
		if r.SubmittedAt.IsZero() || r.SubmittedAt.Before(cutoff) {
			continue
		}
		counts[dayKey(r.SubmittedAt)]++
	}

	dates := make([]string, 0, len(counts))
	for d := range counts {
		dates = append(dates, d)
	}
	sort.Strings(dates) // ISO dates sort chronologically

	points := make([]model.TrendPoint, 0, len(dates))
	for _, d := range dates {
		points = append(points, model.TrendPoint{Date: d, Count: counts[d]})
	}
	return points
}
