package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proforma-engine/domain"
	"proforma-engine/logger"
	"proforma-engine/repository"
)

// MockSnapshotRepository is a mock of SnapshotRepository for tests
type MockSnapshotRepository struct {
	*repository.SnapshotRepositoryMemory
	SaveErr error
}

func (m *MockSnapshotRepository) Save(ctx context.Context, snapshot domain.Snapshot) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	return m.SnapshotRepositoryMemory.Save(ctx, snapshot)
}

func newSnapshotService(t *testing.T) (*SnapshotService, *MockSnapshotRepository) {
	repo := &MockSnapshotRepository{SnapshotRepositoryMemory: repository.NewSnapshotRepositoryMemory()}
	log := logger.NewTestLogger(t)
	svc := NewSnapshotService(repo, NewProFormaService(nil, log, DefaultOptions()), log)

	clock := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc, repo
}

func TestSnapshotService_SaveAndLatest(t *testing.T) {
	svc, _ := newSnapshotService(t)
	ctx := context.Background()

	first, err := svc.Save(ctx, "elm-street-12", testAssumptions())
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "elm-street-12", first.PropertyID)

	updated := testAssumptions()
	updated.PurchasePrice = 2_100_000
	second, err := svc.Save(ctx, "elm-street-12", updated)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.True(t, second.CreatedAt.After(first.CreatedAt))

	latest, err := svc.Latest(ctx, "elm-street-12")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, 2_100_000.0, latest.Assumptions.PurchasePrice)

	list, err := svc.List(ctx, "elm-street-12")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestSnapshotService_SaveDoesNotAlias(t *testing.T) {
	svc, _ := newSnapshotService(t)
	ctx := context.Background()
	a := testAssumptions()

	_, err := svc.Save(ctx, "p1", a)
	require.NoError(t, err)
	a.RentalIncome[0] = 1

	latest, err := svc.Latest(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 240_000.0, latest.Assumptions.RentalIncome[0])
}

func TestSnapshotService_AcceptsDrafts(t *testing.T) {
	svc, _ := newSnapshotService(t)

	_, err := svc.Save(context.Background(), "draft", domain.Assumptions{PurchasePrice: 500_000})
	assert.NoError(t, err)
}

func TestSnapshotService_CalculateLatest(t *testing.T) {
	svc, _ := newSnapshotService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, "p1", testAssumptions())
	require.NoError(t, err)

	snapshot, out, err := svc.CalculateLatest(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", snapshot.PropertyID)
	assert.True(t, out.OK())
	assert.NotNil(t, out.Results.IRR)
}

func TestSnapshotService_Errors(t *testing.T) {
	tests := []struct {
		name       string
		propertyID string
		wantErr    error
	}{
		{"empty id", "", ErrInvalidPropertyID},
		{"blank id", "   ", ErrInvalidPropertyID},
		{"id too long", strings.Repeat("x", MaxPropertyIDLength+1), ErrInvalidPropertyID},
		{"unknown property", "nowhere", repository.ErrSnapshotNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newSnapshotService(t)
			ctx := context.Background()

			_, err := svc.Latest(ctx, tt.propertyID)
			assert.ErrorIs(t, err, tt.wantErr)

			_, _, err = svc.CalculateLatest(ctx, tt.propertyID)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSnapshotService_ListUnknownProperty(t *testing.T) {
	svc, _ := newSnapshotService(t)

	list, err := svc.List(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSnapshotService_RepositoryFailure(t *testing.T) {
	svc, repo := newSnapshotService(t)
	repo.SaveErr = repository.ErrSnapshotExists

	_, err := svc.Save(context.Background(), "p1", testAssumptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrSnapshotExists)
	assert.Contains(t, err.Error(), "p1")
}
