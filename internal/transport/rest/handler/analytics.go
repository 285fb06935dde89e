package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"formpulse/internal/model"
	"formpulse/internal/service"
	"formpulse/internal/transport/rest/middleware"
)

const defaultTrendDays = 7

// AnalyticsHandler handles analytics and dashboard endpoints.
type AnalyticsHandler struct {
	analyticsSvc *service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(analyticsSvc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc}
}

// FormAnalytics handles GET /v1/forms/{formId}/analytics?start=&end=
func (h *AnalyticsHandler) FormAnalytics(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]
	userID := middleware.GetUserID(r.Context())

	dateRange, err := parseDateRange(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.analyticsSvc.FormAnalytics(r.Context(), userID, formID, dateRange)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ResponseTrend handles GET /v1/forms/{formId}/analytics/trend?days=N
func (h *AnalyticsHandler) ResponseTrend(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]
	userID := middleware.GetUserID(r.Context())

	days := defaultTrendDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = n
	}

	trend, err := h.analyticsSvc.ResponseTrend(r.Context(), userID, formID, days)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"trend": trend})
}

// DashboardStats handles GET /v1/dashboard/stats
func (h *AnalyticsHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	stats, err := h.analyticsSvc.DashboardStats(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Engagement handles GET /v1/dashboard/engagement
func (h *AnalyticsHandler) Engagement(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	engagement, err := h.analyticsSvc.UserEngagement(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, engagement)
}

// parseDateRange parses the optional start/end query bounds. Bounds accept
// RFC 3339 timestamps or bare dates; a bare end date covers its whole day
// so both ends stay inclusive. Unparsable input is rejected here — the
// aggregation core only ever sees parsed timestamps.
func parseDateRange(start, end string) (*model.DateRange, error) {
	if start == "" && end == "" {
		return nil, nil
	}

	dr := &model.DateRange{}
	if start != "" {
		t, err := parseBound(start, false)
		if err != nil {
			return nil, err
		}
		dr.Start = &t
	}
	if end != "" {
		t, err := parseBound(end, true)
		if err != nil {
			return nil, err
		}
		dr.End = &t
	}
	return dr, nil
}

func parseBound(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
