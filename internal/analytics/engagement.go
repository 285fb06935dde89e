package analytics

import "formpulse/internal/model"

// AggregateUserEngagement computes per-owner statistics over the full set
// of responses across every form the user owns. Day and hour buckets use
// the stored timestamp's own calendar fields with no timezone conversion;
// if timestamps are persisted in UTC the weekday may differ from the
// responder's wall clock. Responses without a timestamp still count toward
// the total but appear in no bucket.
func AggregateUserEngagement(userID string, responses []*model.Response) *model.EngagementAnalytics {
	ea := &model.EngagementAnalytics{
		TotalResponses: len(responses),
		DayResponses:   make(map[string]int),
		HourResponses:  make(map[int]int),
	}
	for _, r := range responses {
		if r.SubmittedAt.IsZero() {
			continue
		}
		ea.DayResponses[r.SubmittedAt.Weekday().String()]++
		ea.HourResponses[r.SubmittedAt.Hour()]++
	}
	return ea
}
