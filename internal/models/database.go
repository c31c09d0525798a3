package models

import (
	"context"
	"database/sql"
	"time"
)

// * This interface defines all db operations needed by the application
type Database interface {
	// * Tracked repository operations
	AddTrackedRepository(ctx context.Context, name string) (*TrackedRepository, error)
	GetTrackedRepository(ctx context.Context, name string) (*TrackedRepository, error)
	ListTrackedRepositories(ctx context.Context) ([]*TrackedRepository, error)

	// * Snapshot operations
	GetLatestSnapshot(ctx context.Context, repoName, metric string) (*Snapshot, error)

	// * Transaction support
	WithTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error
	InsertSnapshotTx(ctx context.Context, tx *sql.Tx, snapshot *Snapshot) error
	MarkRefreshedTx(ctx context.Context, tx *sql.Tx, repoID int, at time.Time) error
}
