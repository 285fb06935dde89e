package service

import (
	"context"
	"errors"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"formpulse/internal/cache"
	"formpulse/internal/model"
)

type stubFormRepo struct {
	forms map[string]*model.Form
}

func (r *stubFormRepo) Create(_ context.Context, form *model.Form) (string, error) {
	r.forms[form.ID] = form
	return form.ID, nil
}

func (r *stubFormRepo) GetByID(_ context.Context, id string) (*model.Form, error) {
	return r.forms[id], nil
}

func (r *stubFormRepo) GetByOwner(_ context.Context, ownerID string) ([]*model.Form, error) {
	var out []*model.Form
	for _, f := range r.forms {
		if f.OwnerID == ownerID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *stubFormRepo) Update(_ context.Context, form *model.Form) error {
	r.forms[form.ID] = form
	return nil
}

func (r *stubFormRepo) Delete(_ context.Context, id string) error {
	delete(r.forms, id)
	return nil
}

type stubResponseRepo struct {
	responses map[string][]*model.Response
	getCalls  int
	nextID    int
}

func (r *stubResponseRepo) Create(_ context.Context, response *model.Response) (string, error) {
	r.nextID++
	response.ID = "r" + strconv.Itoa(r.nextID)
	r.responses[response.FormID] = append(r.responses[response.FormID], response)
	return response.ID, nil
}

func (r *stubResponseRepo) GetByID(_ context.Context, id string) (*model.Response, error) {
	for _, list := range r.responses {
		for _, resp := range list {
			if resp.ID == id {
				return resp, nil
			}
		}
	}
	return nil, nil
}

func (r *stubResponseRepo) GetByForm(_ context.Context, formID string) ([]*model.Response, error) {
	r.getCalls++
	return r.responses[formID], nil
}

func (r *stubResponseRepo) GetByForms(_ context.Context, formIDs []string) ([]*model.Response, error) {
	var out []*model.Response
	for _, id := range formIDs {
		out = append(out, r.responses[id]...)
	}
	return out, nil
}

func (r *stubResponseRepo) CountByForm(_ context.Context, formID string) (int64, error) {
	return int64(len(r.responses[formID])), nil
}

func (r *stubResponseRepo) Delete(_ context.Context, id string) error {
	for formID, list := range r.responses {
		for i, resp := range list {
			if resp.ID == id {
				r.responses[formID] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return errors.New("not found")
}

func (r *stubResponseRepo) DeleteByForm(_ context.Context, formID string) error {
	delete(r.responses, formID)
	return nil
}

func testCache() cache.AnalyticsCache {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return cache.NewAnalyticsCache(cache.NewMemoryStore(), logrus.NewEntry(l))
}

func fixtureForm() *model.Form {
	return &model.Form{
		ID:        "f1",
		OwnerID:   "u1",
		Title:     "Feedback",
		Published: true,
		Sections: []model.Section{
			{
				ID: "s1",
				Questions: []model.Question{
					{ID: "q1", Text: "Role", Type: model.QuestionTypeDropdown, Options: []string{"Eng", "Product"}},
					{ID: "q2", Text: "Rating", Type: model.QuestionTypeRating},
				},
			},
		},
	}
}

func fixtureServices() (*AnalyticsService, *ResponseService, *stubFormRepo, *stubResponseRepo) {
	forms := &stubFormRepo{forms: map[string]*model.Form{"f1": fixtureForm()}}
	responses := &stubResponseRepo{responses: map[string][]*model.Response{
		"f1": {
			{ID: "ra", FormID: "f1", SubmittedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), Answers: []model.Answer{
				{QuestionID: "q1", Value: "Eng"},
				{QuestionID: "q2", Text: "4"},
			}},
		},
	}}
	c := testCache()
	return NewAnalyticsService(forms, responses, c),
		NewResponseService(forms, responses, c),
		forms, responses
}

func TestFormAnalyticsComputesAndCaches(t *testing.T) {
	ctx := context.Background()
	svc, _, _, responseRepo := fixtureServices()

	first, err := svc.FormAnalytics(ctx, "u1", "f1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ResponseCount != 1 {
		t.Fatalf("expected 1 response, got %d", first.ResponseCount)
	}

	second, err := svc.FormAnalytics(ctx, "u1", "f1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if responseRepo.getCalls != 1 {
		t.Fatalf("second call should hit the cache, repo called %d times", responseRepo.getCalls)
	}
	if second.ResponseCount != first.ResponseCount {
		t.Fatalf("cached result diverged: %+v vs %+v", second, first)
	}
}

func TestFormAnalyticsDateFilteredBypassesCache(t *testing.T) {
	ctx := context.Background()
	svc, _, _, responseRepo := fixtureServices()

	// Warm the canonical entry.
	if _, err := svc.FormAnalytics(ctx, "u1", "f1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	filtered, err := svc.FormAnalytics(ctx, "u1", "f1", &model.DateRange{Start: &start})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filtered.ResponseCount != 0 {
		t.Fatalf("filter should exclude the march response, got %d", filtered.ResponseCount)
	}
	if responseRepo.getCalls != 2 {
		t.Fatalf("filtered call must recompute, repo called %d times", responseRepo.getCalls)
	}

	// The canonical entry survives the filtered request untouched.
	unfiltered, err := svc.FormAnalytics(ctx, "u1", "f1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unfiltered.ResponseCount != 1 {
		t.Fatalf("filtered view poisoned the cache: %+v", unfiltered)
	}
}

func TestFormAnalyticsOwnership(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := fixtureServices()

	if _, err := svc.FormAnalytics(ctx, "intruder", "f1", nil); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if _, err := svc.FormAnalytics(ctx, "u1", "missing", nil); !errors.Is(err, ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
}

func TestSubmitInvalidatesFormAnalytics(t *testing.T) {
	ctx := context.Background()
	svc, responseSvc, _, _ := fixtureServices()

	before, err := svc.FormAnalytics(ctx, "u1", "f1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if before.ResponseCount != 1 {
		t.Fatalf("expected 1 response, got %d", before.ResponseCount)
	}

	if _, err := responseSvc.Submit(ctx, "f1", "", []model.Answer{
		{QuestionID: "q1", Value: "Product"},
		{QuestionID: "ghost", Value: "dropped"},
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	after, err := svc.FormAnalytics(ctx, "u1", "f1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after.ResponseCount != 2 {
		t.Fatalf("submission must invalidate the cached aggregate, got %d", after.ResponseCount)
	}
	if after.AnalyticsData[0].Answers["Product"] != 1 {
		t.Fatalf("new answer missing from aggregate: %v", after.AnalyticsData[0].Answers)
	}
}

func TestCreateFormInvalidatesDashboardStats(t *testing.T) {
	ctx := context.Background()
	forms := &stubFormRepo{forms: map[string]*model.Form{"f1": fixtureForm()}}
	responses := &stubResponseRepo{responses: map[string][]*model.Response{}}
	c := testCache()
	svc := NewAnalyticsService(forms, responses, c)
	formSvc := NewFormService(forms, responses, c)

	before, err := svc.DashboardStats(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if before.TotalForms != 1 {
		t.Fatalf("expected 1 form, got %d", before.TotalForms)
	}

	if _, err := formSvc.Create(ctx, "u1", &model.Form{ID: "f2", Title: "Second"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	after, err := svc.DashboardStats(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after.TotalForms != 2 {
		t.Fatalf("creation must invalidate the cached dashboard, got %d forms", after.TotalForms)
	}
}

func TestDeleteResponseInvalidatesFormAnalytics(t *testing.T) {
	ctx := context.Background()
	svc, responseSvc, _, _ := fixtureServices()

	if _, err := svc.FormAnalytics(ctx, "u1", "f1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := responseSvc.Delete(ctx, "u1", "ra"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	after, err := svc.FormAnalytics(ctx, "u1", "f1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after.ResponseCount != 0 {
		t.Fatalf("deletion must invalidate the cached aggregate, got %d", after.ResponseCount)
	}
}

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	svc, _, formRepo, responseRepo := fixtureServices()
	formRepo.forms["f2"] = &model.Form{ID: "f2", OwnerID: "u1", Title: "Draft"}

	stats, err := svc.DashboardStats(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalForms != 2 || stats.PublishedForms != 1 {
		t.Fatalf("unexpected form counts: %+v", stats)
	}
	if stats.TotalResponses != 1 {
		t.Fatalf("expected 1 total response, got %d", stats.TotalResponses)
	}

	// Second read is served from cache even after the repo changes.
	responseRepo.responses["f2"] = append(responseRepo.responses["f2"], &model.Response{ID: "rx", FormID: "f2"})
	again, err := svc.DashboardStats(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.TotalResponses != 1 {
		t.Fatalf("expected cached stats, got %+v", again)
	}
}

func TestUserEngagementAcrossForms(t *testing.T) {
	ctx := context.Background()
	svc, _, formRepo, responseRepo := fixtureServices()
	formRepo.forms["f2"] = &model.Form{ID: "f2", OwnerID: "u1", Published: true}
	responseRepo.responses["f2"] = []*model.Response{
		{ID: "rb", FormID: "f2", SubmittedAt: time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)},
	}

	ea, err := svc.UserEngagement(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ea.TotalResponses != 2 {
		t.Fatalf("expected responses across both forms, got %d", ea.TotalResponses)
	}
	if ea.HourResponses[10] != 1 || ea.HourResponses[14] != 1 {
		t.Fatalf("unexpected hour buckets: %v", ea.HourResponses)
	}
}

func TestInvalidateUserDropsEngagement(t *testing.T) {
	ctx := context.Background()
	svc, _, _, responseRepo := fixtureServices()

	if _, err := svc.UserEngagement(ctx, "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	responseRepo.responses["f1"] = append(responseRepo.responses["f1"], &model.Response{
		ID: "rc", FormID: "f1", SubmittedAt: time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC),
	})

	if err := svc.InvalidateUser(ctx, "u1"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	ea, err := svc.UserEngagement(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ea.TotalResponses != 2 {
		t.Fatalf("expected recomputed engagement, got %d", ea.TotalResponses)
	}
}

func TestResponseTrendRequiresOwnership(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := fixtureServices()

	if _, err := svc.ResponseTrend(ctx, "intruder", "f1", 7); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}
