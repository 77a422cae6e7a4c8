package repository

import (
	"context"
	"sort"
	"sync"

	"proforma-engine/domain"
)

// SnapshotRepositoryMemory is an in-memory implementation of
// SnapshotRepository.
type SnapshotRepositoryMemory struct {
	mu   sync.RWMutex
	ids  map[string]struct{}
	data map[string][]domain.Snapshot // by property, oldest first
}

func NewSnapshotRepositoryMemory() *SnapshotRepositoryMemory {
	return &SnapshotRepositoryMemory{
		ids:  make(map[string]struct{}),
		data: make(map[string][]domain.Snapshot),
	}
}

func (r *SnapshotRepositoryMemory) Save(_ context.Context, snapshot domain.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ids[snapshot.ID]; exists {
		return ErrSnapshotExists
	}
	r.ids[snapshot.ID] = struct{}{}

	snapshot.Assumptions = snapshot.Assumptions.Clone()
	list := append(r.data[snapshot.PropertyID], snapshot)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	r.data[snapshot.PropertyID] = list
	return nil
}

func (r *SnapshotRepositoryMemory) Latest(_ context.Context, propertyID string) (domain.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.data[propertyID]
	if len(list) == 0 {
		return domain.Snapshot{}, ErrSnapshotNotFound
	}
	latest := list[len(list)-1]
	latest.Assumptions = latest.Assumptions.Clone()
	return latest, nil
}

func (r *SnapshotRepositoryMemory) List(_ context.Context, propertyID string) ([]domain.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.data[propertyID]
	out := make([]domain.Snapshot, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		s := list[i]
		s.Assumptions = s.Assumptions.Clone()
		out = append(out, s)
	}
	return out, nil
}
