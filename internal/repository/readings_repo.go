package repository

import (
	"context"
	"time"

	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/domain"
)

// ReadingsRepository is the ordered series store keyed by
// (owner_id, timestamp). Append-only: readings are never mutated or
// deleted here (retention is the operator's concern).
//
// Range is inclusive on both ends and returns ascending
// (timestamp, recorded_at, id) order regardless of the store's native
// scan order; chart rendering depends on it. limit <= 0 means no
// limit; a positive limit truncates the already-ordered result to the
// earliest entries. ownerID "" disables the owner filter (unscoped
// guest-read deployments only).
type ReadingsRepository interface {
	Append(ctx context.Context, reading *domain.SensorReading) error
	Range(ctx context.Context, ownerID string, start, end time.Time, limit int) ([]*domain.SensorReading, error)

	// Latest returns the maximum-timestamp reading of the partition with
	// no window filter, or (nil, nil) when the partition is empty.
	Latest(ctx context.Context, ownerID string) (*domain.SensorReading, error)
}
