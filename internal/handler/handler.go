package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/KOFI-GYIMAH/insight-gateway/pkg/errors"
	"github.com/KOFI-GYIMAH/insight-gateway/pkg/logger"
	"github.com/gorilla/mux"
)

// * InsightLookup is implemented by *insight.Service
type InsightLookup interface {
	GetIssueData(ctx context.Context, repoName string) (any, error)
	GetPRData(ctx context.Context, repoName string) (any, error)
	GetCodeFrequency(ctx context.Context, repoName string) (any, error)
	GetActivityData(ctx context.Context, repoName string) (any, error)
	GetActiveDatesAndTimes(ctx context.Context, repoName string) (any, error)
}

type InsightHandler struct {
	lookup InsightLookup
}

func NewInsightHandler(lookup InsightLookup) *InsightHandler {
	return &InsightHandler{lookup: lookup}
}

// * RegisterRoutes expects the /api/insight subrouter
func (h *InsightHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/issue", h.getIssue).Methods("GET")
	r.HandleFunc("/pr", h.getPR).Methods("GET")
	r.HandleFunc("/code_frequency", h.getCodeFrequency).Methods("GET")
	r.HandleFunc("/activity", h.getActivity).Methods("GET")
	r.HandleFunc("/active_dates_and_times", h.getActiveDatesAndTimes).Methods("GET")
}

func writeSuccess(w http.ResponseWriter, status int, data any, message ...string) {
	resp := APIResponse{
		Success: true,
		Data:    data,
	}
	if len(message) > 0 {
		resp.Message = message[0]
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("failed to encode response: %v", err)
	}
}

// * serve passes repo_name through unchanged and wraps the lookup result in the envelope
func (h *InsightHandler) serve(w http.ResponseWriter, r *http.Request, name string, fn func(context.Context, string) (any, error)) {
	repoName := r.URL.Query().Get("repo_name")

	data, err := fn(r.Context(), repoName)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	logger.Debug("Fetched %s insight for %s", name, repoName)
	writeSuccess(w, http.StatusOK, data)
}

// getIssue godoc
// @Summary Issue insight
// @Description Opened, closed and commented issues grouped by year, quarter and month
// @Tags Insight
// @Produce json
// @Param repo_name query string true "Repository (owner/name)"
// @Success 200 {object} APIResponse{data=insight.PeriodData}
// @Failure 400 {object} errors.FailureResponse
// @Failure 404 {object} errors.FailureResponse
// @Failure 502 {object} errors.FailureResponse
// @Router /insight/issue [get]
func (h *InsightHandler) getIssue(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "issue", h.lookup.GetIssueData)
}

// getPR godoc
// @Summary Pull request insight
// @Description Opened, merged and reviewed pull requests grouped by year, quarter and month
// @Tags Insight
// @Produce json
// @Param repo_name query string true "Repository (owner/name)"
// @Success 200 {object} APIResponse{data=insight.PeriodData}
// @Failure 400 {object} errors.FailureResponse
// @Failure 404 {object} errors.FailureResponse
// @Failure 502 {object} errors.FailureResponse
// @Router /insight/pr [get]
func (h *InsightHandler) getPR(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "pr", h.lookup.GetPRData)
}

// getCodeFrequency godoc
// @Summary Code frequency
// @Description Lines added and removed per month, removals are negative
// @Tags Insight
// @Produce json
// @Param repo_name query string true "Repository (owner/name)"
// @Success 200 {object} APIResponse{data=[]insight.Point}
// @Failure 400 {object} errors.FailureResponse
// @Failure 404 {object} errors.FailureResponse
// @Failure 502 {object} errors.FailureResponse
// @Router /insight/code_frequency [get]
func (h *InsightHandler) getCodeFrequency(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "code_frequency", h.lookup.GetCodeFrequency)
}

// getActivity godoc
// @Summary Activity
// @Description Monthly OpenDigger activity score
// @Tags Insight
// @Produce json
// @Param repo_name query string true "Repository (owner/name)"
// @Success 200 {object} APIResponse{data=[]insight.Point}
// @Failure 400 {object} errors.FailureResponse
// @Failure 404 {object} errors.FailureResponse
// @Failure 502 {object} errors.FailureResponse
// @Router /insight/activity [get]
func (h *InsightHandler) getActivity(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "activity", h.lookup.GetActivityData)
}

// getActiveDatesAndTimes godoc
// @Summary Active dates and times
// @Description Weekday by hour activity heatmap of the most recent year
// @Tags Insight
// @Produce json
// @Param repo_name query string true "Repository (owner/name)"
// @Success 200 {object} APIResponse{data=insight.ActiveDatesAndTimes}
// @Failure 400 {object} errors.FailureResponse
// @Failure 404 {object} errors.FailureResponse
// @Failure 502 {object} errors.FailureResponse
// @Router /insight/active_dates_and_times [get]
func (h *InsightHandler) getActiveDatesAndTimes(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "active_dates_and_times", h.lookup.GetActiveDatesAndTimes)
}
