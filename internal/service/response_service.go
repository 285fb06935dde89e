package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"formpulse/internal/cache"
	"formpulse/internal/model"
	"formpulse/internal/repository"
)

var ErrResponseNotFound = errors.New("response not found")

// ResponseService handles submission, listing, and deletion of responses.
// Every mutation here invalidates the affected form's analytics; a missed
// call would serve stale aggregates for up to a TTL window.
type ResponseService struct {
	formRepo       repository.FormRepo
	responseRepo   repository.ResponseRepo
	analyticsCache cache.AnalyticsCache
}

// NewResponseService creates a new response service.
func NewResponseService(
	formRepo repository.FormRepo,
	responseRepo repository.ResponseRepo,
	analyticsCache cache.AnalyticsCache,
) *ResponseService {
	return &ResponseService{
		formRepo:       formRepo,
		responseRepo:   responseRepo,
		analyticsCache: analyticsCache,
	}
}

// Submit records a response against a published form. userID is empty for
// anonymous submissions. Answers referencing questions the form no longer
// contains are dropped rather than rejected.
func (s *ResponseService) Submit(ctx context.Context, formID, userID string, answers []model.Answer) (string, error) {
	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return "", fmt.Errorf("lookup form: %w", err)
	}
	if form == nil {
		return "", ErrFormNotFound
	}
	if !form.Published {
		return "", ErrFormNotPublished
	}

	known := make(map[string]bool)
	for _, q := range form.FlatQuestions() {
		known[q.ID] = true
	}
	kept := make([]model.Answer, 0, len(answers))
	for _, a := range answers {
		if known[a.QuestionID] {
			kept = append(kept, a)
		}
	}

	response := &model.Response{
		FormID:      formID,
		UserID:      userID,
		SubmittedAt: time.Now(),
		Answers:     kept,
	}
	id, err := s.responseRepo.Create(ctx, response)
	if err != nil {
		return "", fmt.Errorf("create response: %w", err)
	}

	s.analyticsCache.InvalidateForm(ctx, formID, form.OwnerID)
	return id, nil
}

// ListForForm returns a form's responses to its owner, served from the
// form_responses cache when live.
func (s *ResponseService) ListForForm(ctx context.Context, ownerID, formID string) ([]*model.Response, error) {
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

	var cached []*model.Response
	if s.analyticsCache.Get(ctx, cache.KindFormResponses, formID, "", &cached) {
		return cached, nil
	}

	responses, err := s.responseRepo.GetByForm(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	if responses == nil {
		responses = []*model.Response{}
	}

	s.analyticsCache.Set(ctx, cache.KindFormResponses, formID, "", responses, cache.TTLFormResponses)
	return responses, nil
}

// Delete removes one response after checking the caller owns its form.
func (s *ResponseService) Delete(ctx context.Context, ownerID, responseID string) error {
	response, err := s.responseRepo.GetByID(ctx, responseID)
	if err != nil {
		return fmt.Errorf("lookup response: %w", err)
	}
	if response == nil {
		return ErrResponseNotFound
	}

	form, err := s.formRepo.GetByID(ctx, response.FormID)
	if err != nil {
		return fmt.Errorf("lookup form: %w", err)
	}
	if form == nil {
		return ErrFormNotFound
	}
	if form.OwnerID != ownerID {
		return ErrNotOwner
	}

	if err := s.responseRepo.Delete(ctx, responseID); err != nil {
		return fmt.Errorf("delete response: %w", err)
	}

	s.analyticsCache.InvalidateForm(ctx, response.FormID, ownerID)
	return nil
}
