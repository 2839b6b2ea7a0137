package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/domain"
	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IngestService is the write path: authenticated-write policy, then
// validation, then a single durable append.
type IngestService struct {
	repo   repository.ReadingsRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewIngestService(repo repository.ReadingsRepository, logger *zap.Logger) *IngestService {
	return &IngestService{repo: repo, logger: logger, now: time.Now}
}

// Submit validates raw and appends it under the caller's partition.
// Guests are rejected with domain.ErrAuthenticationRequired; validator
// errors are surfaced unchanged. The returned reading is exactly what
// was persisted, server-assigned fields included.
func (s *IngestService) Submit(ctx context.Context, identity domain.Identity, raw RawReading) (*domain.SensorReading, error) {
	ownerID, ok := identity.OwnerID()
	if !ok {
		return nil, domain.ErrAuthenticationRequired
	}

	now := s.now()
	reading, err := ValidateReading(raw, now)
	if err != nil {
		return nil, err
	}

	reading.ID = uuid.NewString()
	reading.OwnerID = ownerID
	reading.RecordedAt = now

	if err := s.repo.Append(ctx, reading); err != nil {
		s.logger.Error("Failed to append sensor reading",
			zap.String("owner_id", ownerID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	return reading, nil
}
