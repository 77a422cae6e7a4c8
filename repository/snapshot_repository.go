package repository

import (
	"context"
	"errors"

	"proforma-engine/domain"
)

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrSnapshotExists   = errors.New("snapshot already exists")
)

// SnapshotRepository keeps versioned assumption snapshots per property.
// List and Latest order snapshots newest first.
type SnapshotRepository interface {
	Save(ctx context.Context, snapshot domain.Snapshot) error
	Latest(ctx context.Context, propertyID string) (domain.Snapshot, error)
	List(ctx context.Context, propertyID string) ([]domain.Snapshot, error)
}
