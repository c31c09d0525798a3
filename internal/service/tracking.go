package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/KOFI-GYIMAH/insight-gateway/internal/config"
	"github.com/KOFI-GYIMAH/insight-gateway/internal/insight"
	"github.com/KOFI-GYIMAH/insight-gateway/internal/metrics"
	"github.com/KOFI-GYIMAH/insight-gateway/internal/models"
	"github.com/KOFI-GYIMAH/insight-gateway/pkg/errors"
	"github.com/KOFI-GYIMAH/insight-gateway/pkg/logger"
)

// * Lookup runs one named insight lookup, implemented by *insight.Service
type Lookup interface {
	Lookup(ctx context.Context, name, repoName string) (any, error)
}

// * Publisher hands refresh requests to another process
type Publisher interface {
	PublishRefreshRequest(ctx context.Context, repoName string) error
}

// * PendingCapacity bounds the in-process refresh requests waiting for the worker
const PendingCapacity = 64

type TrackingService struct {
	lookups   Lookup
	db        models.Database
	recorder  metrics.Recorder
	publisher Publisher
	pending   chan string
}

func NewTrackingService(lookups Lookup, db models.Database, recorder metrics.Recorder) *TrackingService {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &TrackingService{
		lookups:  lookups,
		db:       db,
		recorder: recorder,
		pending:  make(chan string, PendingCapacity),
	}
}

// * WithPublisher routes refresh requests through a queue instead of running them in-process
func (s *TrackingService) WithPublisher(p Publisher) *TrackingService {
	s.publisher = p
	return s
}

func (s *TrackingService) Track(ctx context.Context, repoName string) (*models.TrackedRepository, error) {
	if _, _, err := config.ParseRepository(repoName); err != nil {
		return nil, errors.NewKind(
			errors.KindInvalidInput,
			"INVALID_REPOSITORY",
			"Invalid repository name",
			fmt.Sprintf("'%s' is not in owner/name form", repoName),
			err,
			errors.LevelInfo,
		)
	}

	repo, err := s.db.AddTrackedRepository(ctx, repoName)
	if err != nil {
		return nil, err
	}

	logger.Info("Tracking repository %s", repoName)
	s.RequestRefresh(ctx, repoName)

	return repo, nil
}

func (s *TrackingService) ListTracked(ctx context.Context) ([]*models.TrackedRepository, error) {
	return s.db.ListTrackedRepositories(ctx)
}

func (s *TrackingService) LatestSnapshot(ctx context.Context, repoName, metric string) (*models.Snapshot, error) {
	if !slices.Contains(insight.Lookups, metric) {
		return nil, errors.NewKind(
			errors.KindInvalidInput,
			"UNKNOWN_LOOKUP",
			"Unknown insight metric",
			fmt.Sprintf("'%s' is not one of %s", metric, strings.Join(insight.Lookups, ", ")),
			nil,
			errors.LevelInfo,
		)
	}
	return s.db.GetLatestSnapshot(ctx, repoName, metric)
}

// * RequestRefresh publishes a refresh request, or queues it for the refresh
// * worker when no publisher is configured. Failures are logged.
func (s *TrackingService) RequestRefresh(ctx context.Context, repoName string) {
	if s.publisher != nil {
		if err := s.publisher.PublishRefreshRequest(ctx, repoName); err != nil {
			logger.Error("failed to publish refresh request for %s: %v", repoName, err)
		}
		return
	}

	select {
	case s.pending <- repoName:
	default:
		logger.Warn("refresh queue is full, %s will be refreshed on the next cycle", repoName)
	}
}

// * Pending yields repositories queued by RequestRefresh
func (s *TrackingService) Pending() <-chan string {
	return s.pending
}

// * Refresh runs every insight lookup for a tracked repository and stores the
// * results in one transaction. Lookups reporting not_found are skipped, any
// * other failure aborts the refresh.
func (s *TrackingService) Refresh(ctx context.Context, repoName string) (err error) {
	defer func() { s.recorder.IncRefresh(err == nil) }()

	logger.Info("Refreshing insights for %s...", repoName)

	repo, err := s.db.GetTrackedRepository(ctx, repoName)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	snapshots := make([]*models.Snapshot, 0, len(insight.Lookups))
	for _, name := range insight.Lookups {
		data, err := s.lookups.Lookup(ctx, name, repoName)
		if err != nil {
			if errors.KindOf(err) == errors.KindNotFound {
				logger.Warn("skipping %s for %s: %v", name, repoName, err)
				continue
			}
			return fmt.Errorf("failed to run %s lookup: %w", name, err)
		}

		body, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to encode %s snapshot: %w", name, err)
		}

		snapshots = append(snapshots, &models.Snapshot{
			RepositoryID: repo.ID,
			Metric:       name,
			Data:         body,
			FetchedAt:    now,
		})
	}

	err = s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, snap := range snapshots {
			if err := s.db.InsertSnapshotTx(ctx, tx, snap); err != nil {
				return fmt.Errorf("failed to save snapshot: %w", err)
			}
		}
		return s.db.MarkRefreshedTx(ctx, tx, repo.ID, now)
	})
	if err != nil {
		return err
	}

	logger.Info("Stored %d snapshots for %s", len(snapshots), repoName)
	return nil
}

// * RefreshAll refreshes every tracked repository, continuing past failures
func (s *TrackingService) RefreshAll(ctx context.Context) error {
	repos, err := s.db.ListTrackedRepositories(ctx)
	if err != nil {
		return err
	}

	failed := 0
	for _, repo := range repos {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.Refresh(ctx, repo.Name); err != nil {
			failed++
			logger.Error("refresh of %s failed: %v", repo.Name, err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d repositories failed to refresh", failed, len(repos))
	}
	return nil
}
