package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/domain"
)

// MemoryReadingsRepo: used when the DB is not up (local dev, tests).
// Same ordering contract as the Postgres repo.
type MemoryReadingsRepo struct {
	mu       sync.RWMutex
	readings []domain.SensorReading
}

func NewMemoryReadingsRepo() *MemoryReadingsRepo {
	return &MemoryReadingsRepo{}
}

var _ ReadingsRepository = (*MemoryReadingsRepo)(nil)

func (r *MemoryReadingsRepo) Append(_ context.Context, reading *domain.SensorReading) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readings = append(r.readings, *reading)
	return nil
}

func (r *MemoryReadingsRepo) Range(_ context.Context, ownerID string, start, end time.Time, limit int) ([]*domain.SensorReading, error) {
	r.mu.RLock()
	matched := make([]domain.SensorReading, 0)
	for _, reading := range r.readings {
		if ownerID != "" && reading.OwnerID != ownerID {
			continue
		}
		if reading.Timestamp.Before(start) || reading.Timestamp.After(end) {
			continue
		}
		matched = append(matched, reading)
	}
	r.mu.RUnlock()

	sortReadings(matched)
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	out := make([]*domain.SensorReading, len(matched))
	for i := range matched {
		out[i] = &matched[i]
	}
	return out, nil
}

func (r *MemoryReadingsRepo) Latest(_ context.Context, ownerID string) (*domain.SensorReading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *domain.SensorReading
	for i := range r.readings {
		reading := &r.readings[i]
		if ownerID != "" && reading.OwnerID != ownerID {
			continue
		}
		if latest == nil || readingLess(latest, reading) {
			latest = reading
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func sortReadings(readings []domain.SensorReading) {
	sort.SliceStable(readings, func(i, j int) bool {
		return readingLess(&readings[i], &readings[j])
	})
}

// readingLess implements the partition order: timestamp, then
// recorded_at, then id.
func readingLess(a, b *domain.SensorReading) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.Before(b.Timestamp)
	}
	if !a.RecordedAt.Equal(b.RecordedAt) {
		return a.RecordedAt.Before(b.RecordedAt)
	}
	return a.ID < b.ID
}
