package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"proforma-engine/domain"
	"proforma-engine/logger"
	"proforma-engine/repository"
)

var ErrInvalidPropertyID = errors.New("invalid property id")

// SnapshotService versions the assumptions of a property. Every save creates
// a new snapshot; the latest one is what CalculateLatest runs.
type SnapshotService struct {
	repo     repository.SnapshotRepository
	proforma *ProFormaService
	log      logger.Logger
	now      func() time.Time
}

func NewSnapshotService(
	repo repository.SnapshotRepository,
	proforma *ProFormaService,
	log logger.Logger,
) *SnapshotService {
	return &SnapshotService{
		repo:     repo,
		proforma: proforma,
		log:      log,
		now:      time.Now,
	}
}

// Save stores a new snapshot. Incomplete assumptions are accepted so that
// drafts can be saved; readiness is checked at calculation time.
func (s *SnapshotService) Save(ctx context.Context, propertyID string, a domain.Assumptions) (domain.Snapshot, error) {
	if err := checkPropertyID(propertyID); err != nil {
		return domain.Snapshot{}, err
	}

	snapshot := domain.Snapshot{
		ID:          uuid.NewString(),
		PropertyID:  propertyID,
		Assumptions: a.Clone(),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Save(ctx, snapshot); err != nil {
		return domain.Snapshot{}, fmt.Errorf("save snapshot of %s: %w", propertyID, err)
	}

	s.log.Info("snapshot saved", map[string]interface{}{
		"property_id": propertyID,
		"snapshot_id": snapshot.ID,
	})
	return snapshot, nil
}

func (s *SnapshotService) Latest(ctx context.Context, propertyID string) (domain.Snapshot, error) {
	if err := checkPropertyID(propertyID); err != nil {
		return domain.Snapshot{}, err
	}
	return s.repo.Latest(ctx, propertyID)
}

func (s *SnapshotService) List(ctx context.Context, propertyID string) ([]domain.Snapshot, error) {
	if err := checkPropertyID(propertyID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, propertyID)
}

// CalculateLatest runs the pro forma on the most recent snapshot.
func (s *SnapshotService) CalculateLatest(ctx context.Context, propertyID string) (domain.Snapshot, domain.Outcome, error) {
	snapshot, err := s.Latest(ctx, propertyID)
	if err != nil {
		return domain.Snapshot{}, domain.Outcome{}, err
	}

	out, err := s.proforma.Calculate(ctx, snapshot.Assumptions)
	if err != nil {
		return snapshot, domain.Outcome{}, err
	}
	return snapshot, out, nil
}

func checkPropertyID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidPropertyID)
	}
	if len(id) > MaxPropertyIDLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidPropertyID, MaxPropertyIDLength)
	}
	return nil
}
