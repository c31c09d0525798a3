package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/KOFI-GYIMAH/insight-gateway/internal/models"
	"github.com/KOFI-GYIMAH/insight-gateway/pkg/errors"
	"github.com/KOFI-GYIMAH/insight-gateway/pkg/logger"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

const migrationsSource = "file://migrations"

type PostgresDB struct {
	db *sql.DB
}

var _ models.Database = (*PostgresDB)(nil)

func NewPostgresDB(url string) (*PostgresDB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, errors.New(
			"DB_CONNECTION_ERROR",
			"Failed to open database connection",
			"Could not initialize database connection",
			err,
			errors.LevelError,
		)
	}

	// * Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// * Verify connection
	if err := db.Ping(); err != nil {
		return nil, errors.New(
			"DB_CONNECTION_ERROR",
			"Failed to verify database connection",
			"Database ping failed",
			err,
			errors.LevelError,
		)
	}

	logger.Info("connected to database successfully 🎉")
	return &PostgresDB{db: db}, nil
}

func (p *PostgresDB) Migrate() error {
	driver, err := postgres.WithInstance(p.db, &postgres.Config{})
	if err != nil {
		return errors.New(
			"DB_MIGRATION_ERROR",
			"Failed to create migration driver",
			"Could not initialize migration driver instance",
			err,
			errors.LevelError,
		)
	}

	m, err := migrate.NewWithDatabaseInstance(migrationsSource, "postgres", driver)
	if err != nil {
		return errors.New(
			"DB_MIGRATION_ERROR",
			"Failed to create migration instance",
			"Could not create migration instance with database",
			err,
			errors.LevelError,
		)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return errors.New(
			"DB_MIGRATION_ERROR",
			"Failed to run migrations",
			"Migration up operation failed",
			err,
			errors.LevelError,
		)
	}

	return nil
}

func (p *PostgresDB) Close() error {
	if err := p.db.Close(); err != nil {
		return errors.New(
			"DB_CONNECTION_ERROR",
			"Failed to close database connection",
			"Error while closing database connection",
			err,
			errors.LevelWarning,
		)
	}
	return nil
}

func (p *PostgresDB) WithTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.New(
			"DB_TRANSACTION_ERROR",
			"Failed to begin transaction",
			"Could not start database transaction",
			err,
			errors.LevelError,
		)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.New(
				"DB_TRANSACTION_ERROR",
				"Transaction failed and rollback encountered error",
				"Transaction error with additional rollback failure",
				fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr),
				errors.LevelError,
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.New(
			"DB_TRANSACTION_ERROR",
			"Failed to commit transaction",
			"Error while committing transaction",
			err,
			errors.LevelError,
		)
	}

	return nil
}

// * AddTrackedRepository is idempotent, tracking an existing name returns the stored row
func (p *PostgresDB) AddTrackedRepository(ctx context.Context, name string) (*models.TrackedRepository, error) {
	query := `
		INSERT INTO tracked_repositories (name)
		VALUES ($1)
		ON CONFLICT(name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, created_at, last_refreshed_at
	`

	repo := &models.TrackedRepository{Name: name}
	var lastRefreshed sql.NullTime

	if err := p.db.QueryRowContext(ctx, query, name).Scan(&repo.ID, &repo.CreatedAt, &lastRefreshed); err != nil {
		return nil, errors.New(
			"DB_REPOSITORY_ERROR",
			"Failed to track repository",
			fmt.Sprintf("Could not track repository '%s'", name),
			err,
			errors.LevelError,
		)
	}

	if lastRefreshed.Valid {
		repo.LastRefreshedAt = &lastRefreshed.Time
	}

	return repo, nil
}

func (p *PostgresDB) GetTrackedRepository(ctx context.Context, name string) (*models.TrackedRepository, error) {
	query := `
		SELECT id, name, created_at, last_refreshed_at
		FROM tracked_repositories
		WHERE name = $1
	`

	var repo models.TrackedRepository
	var lastRefreshed sql.NullTime

	err := p.db.QueryRowContext(ctx, query, name).Scan(&repo.ID, &repo.Name, &repo.CreatedAt, &lastRefreshed)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewKind(
				errors.KindNotFound,
				"DB_REPOSITORY_NOT_FOUND",
				"Repository not tracked",
				fmt.Sprintf("Repository '%s' is not tracked", name),
				err,
				errors.LevelInfo,
			)
		}
		return nil, errors.New(
			"DB_REPOSITORY_ERROR",
			"Failed to fetch repository",
			fmt.Sprintf("Could not fetch repository '%s'", name),
			err,
			errors.LevelError,
		)
	}

	if lastRefreshed.Valid {
		repo.LastRefreshedAt = &lastRefreshed.Time
	}

	return &repo, nil
}

func (p *PostgresDB) ListTrackedRepositories(ctx context.Context) ([]*models.TrackedRepository, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, name, created_at, last_refreshed_at
		FROM tracked_repositories
		ORDER BY name
	`)
	if err != nil {
		return nil, errors.New(
			"DB_REPOSITORY_ERROR",
			"Failed to query tracked repositories",
			"Could not list tracked repositories",
			err,
			errors.LevelError,
		)
	}
	defer rows.Close()

	repos := []*models.TrackedRepository{}
	for rows.Next() {
		var r models.TrackedRepository
		var lastRefreshed sql.NullTime
		if err := rows.Scan(&r.ID, &r.Name, &r.CreatedAt, &lastRefreshed); err != nil {
			return nil, errors.New(
				"DB_REPOSITORY_ERROR",
				"Failed to scan tracked repository",
				"Error while scanning tracked repository row",
				err,
				errors.LevelError,
			)
		}
		if lastRefreshed.Valid {
			r.LastRefreshedAt = &lastRefreshed.Time
		}
		repos = append(repos, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.New(
			"DB_REPOSITORY_ERROR",
			"Failed to process tracked repositories",
			"Error while processing tracked repository rows",
			err,
			errors.LevelError,
		)
	}

	return repos, nil
}

func (p *PostgresDB) GetLatestSnapshot(ctx context.Context, repoName, metric string) (*models.Snapshot, error) {
	query := `
		SELECT s.id, s.repository_id, s.metric, s.data, s.fetched_at
		FROM insight_snapshots s
		JOIN tracked_repositories r ON s.repository_id = r.id
		WHERE r.name = $1 AND s.metric = $2
		ORDER BY s.fetched_at DESC
		LIMIT 1
	`

	var s models.Snapshot
	err := p.db.QueryRowContext(ctx, query, repoName, metric).
		Scan(&s.ID, &s.RepositoryID, &s.Metric, &s.Data, &s.FetchedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewKind(
				errors.KindNotFound,
				"DB_SNAPSHOT_NOT_FOUND",
				"Snapshot not found",
				fmt.Sprintf("No '%s' snapshot stored for repository '%s'", metric, repoName),
				err,
				errors.LevelInfo,
			)
		}
		return nil, errors.New(
			"DB_SNAPSHOT_ERROR",
			"Failed to fetch snapshot",
			fmt.Sprintf("Could not fetch '%s' snapshot for repository '%s'", metric, repoName),
			err,
			errors.LevelError,
		)
	}

	return &s, nil
}

// * Transaction versions of methods for use with WithTransaction
func (p *PostgresDB) InsertSnapshotTx(ctx context.Context, tx *sql.Tx, snapshot *models.Snapshot) error {
	query := `
		INSERT INTO insight_snapshots (repository_id, metric, data, fetched_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := tx.QueryRowContext(ctx, query,
		snapshot.RepositoryID, snapshot.Metric, []byte(snapshot.Data), snapshot.FetchedAt,
	).Scan(&snapshot.ID)
	if err != nil {
		return errors.New(
			"DB_SNAPSHOT_ERROR",
			"Failed to insert snapshot in transaction",
			fmt.Sprintf("Could not insert '%s' snapshot for repository '%d'", snapshot.Metric, snapshot.RepositoryID),
			err,
			errors.LevelError,
		)
	}

	return nil
}

func (p *PostgresDB) MarkRefreshedTx(ctx context.Context, tx *sql.Tx, repoID int, at time.Time) error {
	query := `
		UPDATE tracked_repositories
		SET last_refreshed_at = $1
		WHERE id = $2
	`

	if _, err := tx.ExecContext(ctx, query, at, repoID); err != nil {
		return errors.New(
			"DB_REPOSITORY_ERROR",
			"Failed to update repository in transaction",
			fmt.Sprintf("Could not update repository '%d' in transaction", repoID),
			err,
			errors.LevelError,
		)
	}

	return nil
}
