package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/KOFI-GYIMAH/insight-gateway/internal/models"
	"github.com/KOFI-GYIMAH/insight-gateway/pkg/errors"
	"github.com/KOFI-GYIMAH/insight-gateway/pkg/logger"
	"github.com/gorilla/mux"
)

// * Tracker is implemented by *service.TrackingService
type Tracker interface {
	Track(ctx context.Context, repoName string) (*models.TrackedRepository, error)
	ListTracked(ctx context.Context) ([]*models.TrackedRepository, error)
	LatestSnapshot(ctx context.Context, repoName, metric string) (*models.Snapshot, error)
}

type TrackingHandler struct {
	tracker Tracker
}

func NewTrackingHandler(tracker Tracker) *TrackingHandler {
	return &TrackingHandler{tracker: tracker}
}

// * RegisterRoutes expects the /api/insight subrouter
func (h *TrackingHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/repositories", h.trackRepository).Methods("POST")
	r.HandleFunc("/repositories", h.listRepositories).Methods("GET")
	r.HandleFunc("/snapshots", h.getSnapshot).Methods("GET")
}

// trackRepository godoc
// @Summary Track a repository
// @Description Stores a repository whose insights are refreshed periodically and schedules a refresh
// @Tags Tracking
// @Accept json
// @Produce json
// @Param repository body models.TrackRepositoryRequest true "Repository to track"
// @Success 201 {object} APIResponse{data=models.TrackedRepository}
// @Failure 400 {object} errors.FailureResponse
// @Failure 500 {object} errors.FailureResponse
// @Router /insight/repositories [post]
func (h *TrackingHandler) trackRepository(w http.ResponseWriter, r *http.Request) {
	var req models.TrackRepositoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteHTTPError(w, errors.NewKind(
			errors.KindInvalidInput,
			"INVALID_REQUEST",
			"Invalid request",
			"Body must be a JSON object with repo_name",
			err,
			errors.LevelInfo,
		))
		return
	}

	repo, err := h.tracker.Track(r.Context(), req.RepoName)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, repo, "Repository tracked and refresh scheduled")
}

// listRepositories godoc
// @Summary List tracked repositories
// @Tags Tracking
// @Produce json
// @Success 200 {object} APIResponse{data=[]models.TrackedRepository}
// @Failure 500 {object} errors.FailureResponse
// @Router /insight/repositories [get]
func (h *TrackingHandler) listRepositories(w http.ResponseWriter, r *http.Request) {
	repos, err := h.tracker.ListTracked(r.Context())
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	if repos == nil {
		repos = []*models.TrackedRepository{}
	}

	logger.Debug("Listed %d tracked repositories", len(repos))
	writeSuccess(w, http.StatusOK, repos)
}

// getSnapshot godoc
// @Summary Latest stored snapshot
// @Tags Tracking
// @Produce json
// @Param repo_name query string true "Repository (owner/name)"
// @Param metric query string true "issue, pr, code_frequency, activity or active_dates_and_times"
// @Success 200 {object} APIResponse{data=models.Snapshot}
// @Failure 400 {object} errors.FailureResponse
// @Failure 404 {object} errors.FailureResponse
// @Router /insight/snapshots [get]
func (h *TrackingHandler) getSnapshot(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	snap, err := h.tracker.LatestSnapshot(r.Context(), q.Get("repo_name"), q.Get("metric"))
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, snap)
}
