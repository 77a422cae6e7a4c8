package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"proforma-engine/config"
	"proforma-engine/domain"
)

const uniqueViolation = "23505"

const createSnapshotsTable = `
CREATE TABLE IF NOT EXISTS proforma_snapshots (
	id          UUID PRIMARY KEY,
	property_id TEXT NOT NULL,
	assumptions JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS proforma_snapshots_property_idx
	ON proforma_snapshots (property_id, created_at DESC);`

// OpenPostgres opens a connection pool for the snapshot store.
func OpenPostgres(cfg config.PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return db, nil
}

// SnapshotRepositoryPostgres stores snapshots as JSONB rows.
type SnapshotRepositoryPostgres struct {
	db *sql.DB
}

func NewSnapshotRepositoryPostgres(db *sql.DB) *SnapshotRepositoryPostgres {
	return &SnapshotRepositoryPostgres{db: db}
}

// Migrate creates the snapshots table when it does not exist.
func (r *SnapshotRepositoryPostgres) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createSnapshotsTable); err != nil {
		return fmt.Errorf("migrate snapshots: %w", err)
	}
	return nil
}

func (r *SnapshotRepositoryPostgres) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SnapshotRepositoryPostgres) Save(ctx context.Context, snapshot domain.Snapshot) error {
	payload, err := json.Marshal(snapshot.Assumptions)
	if err != nil {
		return fmt.Errorf("marshal assumptions: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO proforma_snapshots (id, property_id, assumptions, created_at) VALUES ($1, $2, $3, $4)`,
		snapshot.ID, snapshot.PropertyID, payload, snapshot.CreatedAt.UTC(),
	)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrSnapshotExists
	}
	if err != nil {
		return fmt.Errorf("insert snapshot %s: %w", snapshot.ID, err)
	}
	return nil
}

func (r *SnapshotRepositoryPostgres) Latest(ctx context.Context, propertyID string) (domain.Snapshot, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, property_id, assumptions, created_at FROM proforma_snapshots WHERE property_id = $1 ORDER BY created_at DESC LIMIT 1`,
		propertyID,
	)

	snapshot, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Snapshot{}, ErrSnapshotNotFound
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("latest snapshot of %s: %w", propertyID, err)
	}
	return snapshot, nil
}

func (r *SnapshotRepositoryPostgres) List(ctx context.Context, propertyID string) ([]domain.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, property_id, assumptions, created_at FROM proforma_snapshots WHERE property_id = $1 ORDER BY created_at DESC`,
		propertyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots of %s: %w", propertyID, err)
	}
	defer rows.Close()

	out := []domain.Snapshot{}
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots of %s: %w", propertyID, err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSnapshot(s scanner) (domain.Snapshot, error) {
	var (
		snapshot domain.Snapshot
		payload  []byte
	)
	if err := s.Scan(&snapshot.ID, &snapshot.PropertyID, &payload, &snapshot.CreatedAt); err != nil {
		return domain.Snapshot{}, err
	}
	if err := json.Unmarshal(payload, &snapshot.Assumptions); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode assumptions: %w", err)
	}
	return snapshot, nil
}
