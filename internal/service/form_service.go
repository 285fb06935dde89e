package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"formpulse/internal/cache"
	"formpulse/internal/model"
	"formpulse/internal/repository"
)

var (
	ErrFormNotFound     = errors.New("form not found")
	ErrNotOwner         = errors.New("form belongs to another user")
	ErrFormNotPublished = errors.New("form is not accepting responses")
)

// FormService handles form design: section/question structure, publication
// state, and the cache invalidation every structural mutation owes.
type FormService struct {
	formRepo       repository.FormRepo
	responseRepo   repository.ResponseRepo
	analyticsCache cache.AnalyticsCache
}

// NewFormService creates a new form service.
func NewFormService(
	formRepo repository.FormRepo,
	responseRepo repository.ResponseRepo,
	analyticsCache cache.AnalyticsCache,
) *FormService {
	return &FormService{
		formRepo:       formRepo,
		responseRepo:   responseRepo,
		analyticsCache: analyticsCache,
	}
}

// Create validates and persists a new form for the owner.
func (s *FormService) Create(ctx context.Context, ownerID string, form *model.Form) (string, error) {
	form.OwnerID = ownerID
	form.Published = false
	if err := normalizeStructure(form); err != nil {
		return "", err
	}

	id, err := s.formRepo.Create(ctx, form)
	if err != nil {
		return "", fmt.Errorf("create form: %w", err)
	}
	s.analyticsCache.InvalidateForm(ctx, id, ownerID)
	return id, nil
}

// List returns all forms owned by the user.
func (s *FormService) List(ctx context.Context, ownerID string) ([]*model.Form, error) {
	return s.formRepo.GetByOwner(ctx, ownerID)
}

// Get returns a form by id regardless of owner. Used by the public
// submission path.
func (s *FormService) Get(ctx context.Context, formID string) (*model.Form, error) {
	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrFormNotFound
	}
	return form, nil
}

// GetOwned returns the form after checking ownership.
func (s *FormService) GetOwned(ctx context.Context, ownerID, formID string) (*model.Form, error) {
	form, err := s.Get(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return form, nil
}

// Update replaces the form's section tree. Any structural edit can shift
// every aggregate, so the form's cache entries are dropped.
func (s *FormService) Update(ctx context.Context, ownerID string, form *model.Form) error {
	existing, err := s.GetOwned(ctx, ownerID, form.ID)
	if err != nil {
		return err
	}

	form.OwnerID = existing.OwnerID
	form.Published = existing.Published
	form.CreatedAt = existing.CreatedAt
	if err := normalizeStructure(form); err != nil {
		return err
	}

	if err := s.formRepo.Update(ctx, form); err != nil {
		return fmt.Errorf("update form: %w", err)
	}
	s.analyticsCache.InvalidateForm(ctx, form.ID, ownerID)
	return nil
}

// SetPublished toggles whether the form accepts responses.
func (s *FormService) SetPublished(ctx context.Context, ownerID, formID string, published bool) (*model.Form, error) {
	form, err := s.GetOwned(ctx, ownerID, formID)
	if err != nil {
		return nil, err
	}

	form.Published = published
	if err := s.formRepo.Update(ctx, form); err != nil {
		return nil, fmt.Errorf("update form: %w", err)
	}
	s.analyticsCache.InvalidateForm(ctx, formID, ownerID)
	return form, nil
}

// Delete removes the form and all of its responses.
func (s *FormService) Delete(ctx context.Context, ownerID, formID string) error {
	if _, err := s.GetOwned(ctx, ownerID, formID); err != nil {
		return err
	}

	if err := s.responseRepo.DeleteByForm(ctx, formID); err != nil {
		return fmt.Errorf("delete responses: %w", err)
	}
	if err := s.formRepo.Delete(ctx, formID); err != nil {
		return fmt.Errorf("delete form: %w", err)
	}
	s.analyticsCache.InvalidateForm(ctx, formID, ownerID)
	return nil
}

// normalizeStructure assigns ids and positions to sections and questions
// and validates every question type at the boundary.
func normalizeStructure(form *model.Form) error {
	for i := range form.Sections {
		sec := &form.Sections[i]
		if sec.ID == "" {
			sec.ID = uuid.New().String()
		}
		sec.Position = i
		for j := range sec.Questions {
			q := &sec.Questions[j]
			qt, err := model.ParseQuestionType(string(q.Type))
			if err != nil {
				return err
			}
			q.Type = qt
			if qt.HasOptions() && len(q.Options) == 0 {
				return fmt.Errorf("question %q of type %s has no options", q.Text, qt)
			}
			if q.ID == "" {
				q.ID = uuid.New().String()
			}
			q.Position = j
		}
	}
	return nil
}
