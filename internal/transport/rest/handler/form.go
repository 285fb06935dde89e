package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"formpulse/internal/model"
	"formpulse/internal/service"
	"formpulse/internal/transport/rest/middleware"
)

// FormHandler handles form design endpoints.
type FormHandler struct {
	formSvc *service.FormService
}

// NewFormHandler creates a new form handler.
func NewFormHandler(formSvc *service.FormService) *FormHandler {
	return &FormHandler{formSvc: formSvc}
}

// CreateFormRequest is the request body for creating or updating a form.
type CreateFormRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Sections    []model.Section `json:"sections"`
}

// Create handles POST /v1/forms
func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	form := &model.Form{
		Title:       req.Title,
		Description: req.Description,
		Sections:    req.Sections,
	}
	id, err := h.formSvc.Create(r.Context(), userID, form)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// List handles GET /v1/forms
func (h *FormHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	forms, err := h.formSvc.List(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if forms == nil {
		forms = []*model.Form{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"forms": forms})
}

// Get handles GET /v1/forms/{formId}
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]
	userID := middleware.GetUserID(r.Context())

	form, err := h.formSvc.GetOwned(r.Context(), userID, formID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, form)
}

// GetPublic handles GET /v1/public/forms/{formId} — the responder-facing
// view of a published form.
func (h *FormHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]

	form, err := h.formSvc.Get(r.Context(), formID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !form.Published {
		writeError(w, http.StatusNotFound, "form not found")
		return
	}

	writeJSON(w, http.StatusOK, form)
}

// Update handles PUT /v1/forms/{formId}
func (h *FormHandler) Update(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]
	userID := middleware.GetUserID(r.Context())

	var req CreateFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form := &model.Form{
		ID:          formID,
		Title:       req.Title,
		Description: req.Description,
		Sections:    req.Sections,
	}
	if err := h.formSvc.Update(r.Context(), userID, form); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, form)
}

// SetPublished handles POST /v1/forms/{formId}/publish and /unpublish
func (h *FormHandler) SetPublished(published bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID := mux.Vars(r)["formId"]
		userID := middleware.GetUserID(r.Context())

		form, err := h.formSvc.SetPublished(r.Context(), userID, formID, published)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, form)
	}
}

// Delete handles DELETE /v1/forms/{formId}
func (h *FormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]
	userID := middleware.GetUserID(r.Context())

	if err := h.formSvc.Delete(r.Context(), userID, formID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
