package service

import (
	"context"
	"fmt"

	"formpulse/internal/analytics"
	"formpulse/internal/cache"
	"formpulse/internal/model"
	"formpulse/internal/repository"
)

// AnalyticsService orchestrates the aggregation core behind the cache
// layer: check cache, compute against a fresh snapshot on miss, store the
// result with the kind's TTL. Only the form owner may view analytics.
type AnalyticsService struct {
	formRepo       repository.FormRepo
	responseRepo   repository.ResponseRepo
	analyticsCache cache.AnalyticsCache
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(
	formRepo repository.FormRepo,
	responseRepo repository.ResponseRepo,
	analyticsCache cache.AnalyticsCache,
) *AnalyticsService {
	return &AnalyticsService{
		formRepo:       formRepo,
		responseRepo:   responseRepo,
		analyticsCache: analyticsCache,
	}
}

func (s *AnalyticsService) ownedForm(ctx context.Context, ownerID, formID string) (*model.Form, error) {
	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("lookup form: %w", err)
	}
	if form == nil {
		return nil, ErrFormNotFound
	}
	if form.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return form, nil
}

// FormAnalytics computes the full analytics payload for one form. Only
// unfiltered results are cached; a date-filtered view always recomputes so
// it can never poison the canonical entry.
func (s *AnalyticsService) FormAnalytics(ctx context.Context, ownerID, formID string, dateRange *model.DateRange) (*model.FormAnalytics, error) {
	form, err := s.ownedForm(ctx, ownerID, formID)
	if err != nil {
		return nil, err
	}

	if dateRange == nil {
		var cached model.FormAnalytics
		if s.analyticsCache.Get(ctx, cache.KindFormAnalytics, formID, "", &cached) {
			return &cached, nil
		}
	}

	responses, err := s.responseRepo.GetByForm(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}

	result := analytics.AggregateForm(form, responses, dateRange)

	if dateRange == nil {
		s.analyticsCache.Set(ctx, cache.KindFormAnalytics, formID, "", result, cache.TTLFormAnalytics)
	}
	return result, nil
}

// ResponseTrend computes the sparse daily series for the trailing window.
// Cheap enough to recompute per request; not cached.
func (s *AnalyticsService) ResponseTrend(ctx context.Context, ownerID, formID string, windowDays int) ([]model.TrendPoint, error) {
	if _, err := s.ownedForm(ctx, ownerID, formID); err != nil {
		return nil, err
	}

	responses, err := s.responseRepo.GetByForm(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}

	return analytics.AggregateResponseTrend(formID, responses, windowDays), nil
}

// DashboardStats computes the owner's per-form response counts.
func (s *AnalyticsService) DashboardStats(ctx context.Context, userID string) (*model.DashboardStats, error) {
	var cached model.DashboardStats
	if s.analyticsCache.Get(ctx, cache.KindDashboardStats, userID, "", &cached) {
		return &cached, nil
	}

	forms, err := s.formRepo.GetByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}

	stats := &model.DashboardStats{Forms: []model.FormStat{}}
	for _, form := range forms {
		count, err := s.responseRepo.CountByForm(ctx, form.ID)
		if err != nil {
			return nil, fmt.Errorf("count responses: %w", err)
		}
		stats.TotalForms++
		if form.Published {
			stats.PublishedForms++
		}
		stats.TotalResponses += int(count)
		stats.Forms = append(stats.Forms, model.FormStat{
			FormID:        form.ID,
			Title:         form.Title,
			Published:     form.Published,
			ResponseCount: int(count),
		})
	}

	s.analyticsCache.Set(ctx, cache.KindDashboardStats, userID, "", stats, cache.TTLDashboardStats)
	return stats, nil
}

// UserEngagement buckets all responses across the user's forms by weekday
// and hour of day.
func (s *AnalyticsService) UserEngagement(ctx context.Context, userID string) (*model.EngagementAnalytics, error) {
	var cached model.EngagementAnalytics
	if s.analyticsCache.Get(ctx, cache.KindUserEngagement, userID, "", &cached) {
		return &cached, nil
	}

	forms, err := s.formRepo.GetByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	formIDs := make([]string, 0, len(forms))
	for _, form := range forms {
		formIDs = append(formIDs, form.ID)
	}

	responses, err := s.responseRepo.GetByForms(ctx, formIDs)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}

	result := analytics.AggregateUserEngagement(userID, responses)
	s.analyticsCache.Set(ctx, cache.KindUserEngagement, userID, "", result, cache.TTLUserEngagement)
	return result, nil
}

// InvalidateUser drops every cache entry scoped to the user, including
// the analytics of each form they own. Account-wide mutation paths call
// this instead of per-form invalidation.
func (s *AnalyticsService) InvalidateUser(ctx context.Context, userID string) error {
	forms, err := s.formRepo.GetByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("list forms: %w", err)
	}
	formIDs := make([]string, 0, len(forms))
	for _, form := range forms {
		formIDs = append(formIDs, form.ID)
	}
	s.analyticsCache.InvalidateUser(ctx, userID, formIDs)
	return nil
}
