package cache

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"formpulse/internal/model"
)

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// failingStore errors on every operation.
type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("store down")
}

func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("store down")
}

func (failingStore) Delete(context.Context, ...string) error {
	return errors.New("store down")
}

func TestAnalyticsCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewAnalyticsCache(NewMemoryStore(), testLog())

	avg := 4.5
	in := &model.FormAnalytics{
		ResponseCount: 3,
		AnalyticsData: []model.QuestionAnalytics{
			{QuestionID: "q1", TotalResponses: 3, Answers: map[string]int{"A": 2, "B": 1}, AverageRating: &avg},
		},
		TimeAnalytics:     model.TimeAnalytics{TotalResponses: 3, ResponsesOverTime: map[string]int{"2026-03-01": 3}},
		RequiredQuestions: 2,
	}
	c.Set(ctx, KindFormAnalytics, "f1", "", in, TTLFormAnalytics)

	var out model.FormAnalytics
	if !c.Get(ctx, KindFormAnalytics, "f1", "", &out) {
		t.Fatal("expected a hit")
	}
	if out.ResponseCount != 3 || out.RequiredQuestions != 2 {
		t.Fatalf("round trip lost top-level fields: %+v", out)
	}
	if out.AnalyticsData[0].Answers["A"] != 2 {
		t.Fatalf("round trip lost option counts: %+v", out.AnalyticsData[0])
	}
	if out.AnalyticsData[0].AverageRating == nil || *out.AnalyticsData[0].AverageRating != 4.5 {
		t.Fatalf("round trip lost average rating: %+v", out.AnalyticsData[0])
	}
}

func TestAnalyticsCacheMiss(t *testing.T) {
	c := NewAnalyticsCache(NewMemoryStore(), testLog())

	var out model.FormAnalytics
	if c.Get(context.Background(), KindFormAnalytics, "missing", "", &out) {
		t.Fatal("expected a miss")
	}
}

func TestAnalyticsCacheExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }
	c := NewAnalyticsCache(store, testLog())

	c.Set(ctx, KindFormResponses, "f1", "", []string{"r1"}, TTLFormResponses)

	var out []string
	if !c.Get(ctx, KindFormResponses, "f1", "", &out) {
		t.Fatal("expected a hit before expiry")
	}

	current = current.Add(TTLFormResponses + time.Second)
	if c.Get(ctx, KindFormResponses, "f1", "", &out) {
		t.Fatal("expected a miss after TTL elapsed")
	}
}

func TestAnalyticsCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewAnalyticsCache(NewMemoryStore(), testLog())

	c.Set(ctx, KindDashboardStats, "u1", "", model.DashboardStats{TotalForms: 2}, TTLDashboardStats)
	c.Invalidate(ctx, KindDashboardStats, "u1", "")

	var out model.DashboardStats
	if c.Get(ctx, KindDashboardStats, "u1", "", &out) {
		t.Fatal("expected a miss after invalidation")
	}

	// Invalidating an absent entry is a no-op.
	c.Invalidate(ctx, KindDashboardStats, "u1", "")
}

func TestAnalyticsCacheInvalidateForm(t *testing.T) {
	ctx := context.Background()
	c := NewAnalyticsCache(NewMemoryStore(), testLog())

	c.Set(ctx, KindFormAnalytics, "f1", "", model.FormAnalytics{ResponseCount: 1}, TTLFormAnalytics)
	c.Set(ctx, KindFormResponses, "f1", "", []string{"r1"}, TTLFormResponses)
	c.Set(ctx, KindDashboardStats, "u1", "", model.DashboardStats{TotalForms: 1}, TTLDashboardStats)
	c.Set(ctx, KindFormAnalytics, "f2", "", model.FormAnalytics{ResponseCount: 9}, TTLFormAnalytics)

	c.InvalidateForm(ctx, "f1", "u1")

	var fa model.FormAnalytics
	if c.Get(ctx, KindFormAnalytics, "f1", "", &fa) {
		t.Fatal("form analytics should be dropped")
	}
	var ids []string
	if c.Get(ctx, KindFormResponses, "f1", "", &ids) {
		t.Fatal("form responses should be dropped")
	}
	var ds model.DashboardStats
	if c.Get(ctx, KindDashboardStats, "u1", "", &ds) {
		t.Fatal("owner dashboard stats should be dropped")
	}
	if !c.Get(ctx, KindFormAnalytics, "f2", "", &fa) {
		t.Fatal("unrelated form must survive")
	}
}

func TestAnalyticsCacheInvalidateUser(t *testing.T) {
	ctx := context.Background()
	c := NewAnalyticsCache(NewMemoryStore(), testLog())

	c.Set(ctx, KindDashboardStats, "u1", "", model.DashboardStats{}, TTLDashboardStats)
	c.Set(ctx, KindUserEngagement, "u1", "", model.EngagementAnalytics{}, TTLUserEngagement)
	c.Set(ctx, KindFormAnalytics, "f1", "", model.FormAnalytics{}, TTLFormAnalytics)
	c.Set(ctx, KindFormResponses, "f1", "", []string{}, TTLFormResponses)
	c.Set(ctx, KindUserEngagement, "u2", "", model.EngagementAnalytics{TotalResponses: 7}, TTLUserEngagement)

	c.InvalidateUser(ctx, "u1", []string{"f1"})

	var ds model.DashboardStats
	if c.Get(ctx, KindDashboardStats, "u1", "", &ds) {
		t.Fatal("dashboard stats should be dropped")
	}
	var ea model.EngagementAnalytics
	if c.Get(ctx, KindUserEngagement, "u1", "", &ea) {
		t.Fatal("engagement should be dropped")
	}
	var fa model.FormAnalytics
	if c.Get(ctx, KindFormAnalytics, "f1", "", &fa) {
		t.Fatal("owned form analytics should be dropped")
	}
	if !c.Get(ctx, KindUserEngagement, "u2", "", &ea) || ea.TotalResponses != 7 {
		t.Fatal("other users' entries must survive")
	}
}

func TestAnalyticsCacheKindNamespacing(t *testing.T) {
	ctx := context.Background()
	c := NewAnalyticsCache(NewMemoryStore(), testLog())

	// Same id under two kinds must not collide.
	c.Set(ctx, KindFormAnalytics, "abc", "", model.FormAnalytics{ResponseCount: 1}, TTLFormAnalytics)
	c.Set(ctx, KindDashboardStats, "abc", "", model.DashboardStats{TotalForms: 5}, TTLDashboardStats)

	var ds model.DashboardStats
	if !c.Get(ctx, KindDashboardStats, "abc", "", &ds) || ds.TotalForms != 5 {
		t.Fatalf("kinds collided: %+v", ds)
	}
}

func TestAnalyticsCacheCorruptEntryIsAMiss(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := NewAnalyticsCache(store, testLog())

	if err := store.Set(ctx, cacheKey(KindFormAnalytics, "f1", ""), []byte("{not json"), TTLFormAnalytics); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var out model.FormAnalytics
	if c.Get(ctx, KindFormAnalytics, "f1", "", &out) {
		t.Fatal("corrupt entry should read as a miss")
	}
}

func TestAnalyticsCacheFailingStoreDegrades(t *testing.T) {
	ctx := context.Background()
	c := NewAnalyticsCache(failingStore{}, testLog())

	// None of these may panic or surface the store error.
	c.Set(ctx, KindFormAnalytics, "f1", "", model.FormAnalytics{}, TTLFormAnalytics)

	var out model.FormAnalytics
	if c.Get(ctx, KindFormAnalytics, "f1", "", &out) {
		t.Fatal("failing store must read as a miss")
	}
	c.Invalidate(ctx, KindFormAnalytics, "f1", "")
	c.InvalidateForm(ctx, "f1", "u1")
	c.InvalidateUser(ctx, "u1", []string{"f1"})
}

func TestCacheKeyFormat(t *testing.T) {
	if got := cacheKey(KindFormAnalytics, "f1", ""); got != "analytics:form_analytics:f1" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := cacheKey(KindUserEngagement, "all", "u1"); got != "analytics:user_engagement:all:u:u1" {
		t.Fatalf("unexpected scoped key: %s", got)
	}
}
