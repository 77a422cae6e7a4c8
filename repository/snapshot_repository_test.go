package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proforma-engine/domain"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testSnapshot(id, propertyID string, offset time.Duration) domain.Snapshot {
	return domain.Snapshot{
		ID:         id,
		PropertyID: propertyID,
		Assumptions: domain.Assumptions{
			PurchasePrice:   2_000_000,
			RentalIncome:    []float64{240_000, 247_200},
			HoldPeriodYears: 2,
		},
		CreatedAt: baseTime.Add(offset),
	}
}

func TestSnapshotRepositoryMemory(t *testing.T) {
	ctx := context.Background()
	repo := NewSnapshotRepositoryMemory()

	_, err := repo.Latest(ctx, "tower-a")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	list, err := repo.List(ctx, "tower-a")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	// saved out of order on purpose
	require.NoError(t, repo.Save(ctx, testSnapshot("v2", "tower-a", time.Hour)))
	require.NoError(t, repo.Save(ctx, testSnapshot("v1", "tower-a", 0)))
	require.NoError(t, repo.Save(ctx, testSnapshot("x1", "tower-b", 2*time.Hour)))

	assert.ErrorIs(t, repo.Save(ctx, testSnapshot("v1", "tower-a", 0)), ErrSnapshotExists)

	latest, err := repo.Latest(ctx, "tower-a")
	require.NoError(t, err)
	assert.Equal(t, "v2", latest.ID)

	list, err = repo.List(ctx, "tower-a")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "v2", list[0].ID)
	assert.Equal(t, "v1", list[1].ID)
}

func TestSnapshotRepositoryMemory_CopiesAssumptions(t *testing.T) {
	ctx := context.Background()
	repo := NewSnapshotRepositoryMemory()

	snap := testSnapshot("v1", "tower-a", 0)
	require.NoError(t, repo.Save(ctx, snap))
	snap.Assumptions.RentalIncome[0] = 1

	latest, err := repo.Latest(ctx, "tower-a")
	require.NoError(t, err)
	latest.Assumptions.RentalIncome[1] = 2

	again, err := repo.Latest(ctx, "tower-a")
	require.NoError(t, err)
	assert.Equal(t, []float64{240_000, 247_200}, again.Assumptions.RentalIncome)
}

func newPostgresRepo(t *testing.T) (*SnapshotRepositoryPostgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSnapshotRepositoryPostgres(db), mock
}

func snapshotRows(snapshots ...domain.Snapshot) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "property_id", "assumptions", "created_at"})
	for _, s := range snapshots {
		payload, _ := json.Marshal(s.Assumptions)
		rows.AddRow(s.ID, s.PropertyID, payload, s.CreatedAt)
	}
	return rows
}

func TestSnapshotRepositoryPostgres_Save(t *testing.T) {
	tests := []struct {
		name    string
		execErr error
		wantErr error
	}{
		{name: "inserted"},
		{name: "duplicate id", execErr: &pq.Error{Code: uniqueViolation}, wantErr: ErrSnapshotExists},
		{name: "connection lost", execErr: errors.New("connection reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newPostgresRepo(t)
			snap := testSnapshot("0b6f5f1c-1a7e-4c36-9f1e-3c1c3e2f9a10", "tower-a", 0)
			payload, err := json.Marshal(snap.Assumptions)
			require.NoError(t, err)

			exec := mock.ExpectExec(`INSERT INTO proforma_snapshots`).
				WithArgs(snap.ID, snap.PropertyID, payload, snap.CreatedAt)
			if tt.execErr != nil {
				exec.WillReturnError(tt.execErr)
			} else {
				exec.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err = repo.Save(context.Background(), snap)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.execErr != nil:
				assert.ErrorIs(t, err, tt.execErr)
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSnapshotRepositoryPostgres_Latest(t *testing.T) {
	repo, mock := newPostgresRepo(t)
	snap := testSnapshot("v2", "tower-a", time.Hour)

	mock.ExpectQuery(`SELECT id, property_id, assumptions, created_at FROM proforma_snapshots WHERE property_id = \$1 ORDER BY created_at DESC LIMIT 1`).
		WithArgs("tower-a").
		WillReturnRows(snapshotRows(snap))

	got, err := repo.Latest(context.Background(), "tower-a")
	require.NoError(t, err)
	assert.Equal(t, snap, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepositoryPostgres_LatestNotFound(t *testing.T) {
	repo, mock := newPostgresRepo(t)

	mock.ExpectQuery(`FROM proforma_snapshots WHERE property_id = \$1`).
		WithArgs("missing").
		WillReturnRows(snapshotRows())

	_, err := repo.Latest(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepositoryPostgres_List(t *testing.T) {
	repo, mock := newPostgresRepo(t)
	v2 := testSnapshot("v2", "tower-a", time.Hour)
	v1 := testSnapshot("v1", "tower-a", 0)

	mock.ExpectQuery(`FROM proforma_snapshots WHERE property_id = \$1 ORDER BY created_at DESC`).
		WithArgs("tower-a").
		WillReturnRows(snapshotRows(v2, v1))

	list, err := repo.List(context.Background(), "tower-a")
	require.NoError(t, err)
	assert.Equal(t, []domain.Snapshot{v2, v1}, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepositoryPostgres_ListCorruptRow(t *testing.T) {
	repo, mock := newPostgresRepo(t)

	rows := sqlmock.NewRows([]string{"id", "property_id", "assumptions", "created_at"}).
		AddRow("v1", "tower-a", []byte("{not json"), baseTime)
	mock.ExpectQuery(`FROM proforma_snapshots`).WithArgs("tower-a").WillReturnRows(rows)

	_, err := repo.List(context.Background(), "tower-a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode assumptions")
}

func TestSnapshotRepositoryPostgres_Migrate(t *testing.T) {
	repo, mock := newPostgresRepo(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS proforma_snapshots`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
