package analytics

import (
	"reflect"
	"testing"
	"time"

	"formpulse/internal/model"
)

func TestResponseTrendSparseSeries(t *testing.T) {
	now := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	responses := []*model.Response{
		{ID: "r1", SubmittedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
		{ID: "r2", SubmittedAt: time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)},
		{ID: "r3", SubmittedAt: time.Date(2026, 3, 3, 16, 0, 0, 0, time.UTC)},
	}

	points := responseTrendAt("f1", responses, 5, now)
	// Days with zero responses are omitted, not zero-filled.
	want := []model.TrendPoint{
		{Date: "2026-03-01", Count: 1},
		{Date: "2026-03-03", Count: 2},
	}
	if !reflect.DeepEqual(points, want) {
		t.Fatalf("expected sparse series %v, got %v", want, points)
	}
}

func TestResponseTrendWindowCutoff(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	responses := []*model.Response{
		{ID: "r1", SubmittedAt: now.AddDate(0, 0, -8)},  // outside window
		{ID: "r2", SubmittedAt: now.AddDate(0, 0, -7)},  // exactly on the cutoff
		{ID: "r3", SubmittedAt: now.AddDate(0, 0, -1)},
		{ID: "r4"}, // no timestamp
	}

	points := responseTrendAt("f1", responses, 7, now)
	if len(points) != 2 {
		t.Fatalf("expected 2 days in window, got %v", points)
	}
	if points[0].Date != "2026-03-03" || points[1].Date != "2026-03-09" {
		t.Fatalf("unexpected dates: %v", points)
	}
}

func TestResponseTrendAscendingOrder(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	responses := []*model.Response{
		{ID: "r1", SubmittedAt: now.AddDate(0, 0, -1)},
		{ID: "r2", SubmittedAt: now.AddDate(0, 0, -5)},
		{ID: "r3", SubmittedAt: now.AddDate(0, 0, -3)},
	}

	points := responseTrendAt("f1", responses, 7, now)
	for i := 1; i < len(points); i++ {
		if points[i-1].Date >= points[i].Date {
			t.Fatalf("series not ascending: %v", points)
		}
	}
}

func TestResponseTrendEmpty(t *testing.T) {
	points := AggregateResponseTrend("f1", nil, 7)
	if points == nil || len(points) != 0 {
		t.Fatalf("expected empty (not nil) series, got %v", points)
	}
}
