package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"formpulse/internal/model"
	"formpulse/internal/service"
	"formpulse/internal/transport/rest/middleware"
)

// ResponseHandler handles response submission and management endpoints.
type ResponseHandler struct {
	responseSvc *service.ResponseService
}

// NewResponseHandler creates a new response handler.
func NewResponseHandler(responseSvc *service.ResponseService) *ResponseHandler {
	return &ResponseHandler{responseSvc: responseSvc}
}

// SubmitRequest is the request body for submitting a response.
type SubmitRequest struct {
	Answers []model.Answer `json:"answers"`
}

// Submit handles POST /v1/public/forms/{formId}/responses
func (h *ResponseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]
	userID := middleware.GetUserID(r.Context()) // empty for anonymous

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.responseSvc.Submit(r.Context(), formID, userID, req.Answers)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// List handles GET /v1/forms/{formId}/responses
func (h *ResponseHandler) List(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]
	userID := middleware.GetUserID(r.Context())

	responses, err := h.responseSvc.ListForForm(r.Context(), userID, formID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"responses": responses})
}

// Delete handles DELETE /v1/responses/{responseId}
func (h *ResponseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	responseID := mux.Vars(r)["responseId"]
	userID := middleware.GetUserID(r.Context())

	if err := h.responseSvc.Delete(r.Context(), userID, responseID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
