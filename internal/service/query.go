package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/domain"
	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/repository"

	"go.uber.org/zap"
)

// GuestReadPolicy decides what an unauthenticated read sees. The
// authenticated-write / guest-read-empty combination is the default;
// unscoped reads exist for single-user deployments that run without
// auth entirely.
type GuestReadPolicy string

const (
	GuestReadEmpty    GuestReadPolicy = "empty"
	GuestReadUnscoped GuestReadPolicy = "unscoped"
)

// WindowSpec is a query window before resolution: either a named
// relative range ("24h", "7d", "30d") or explicit bounds. An explicit
// (start, end) pair takes precedence over the named range.
type WindowSpec struct {
	Range string
	Start *time.Time
	End   *time.Time
	Limit int
}

// Window is a resolved inclusive [start, end] pair.
type Window struct {
	Start time.Time
	End   time.Time
}

// ResolveWindow computes the concrete window once, so nothing
// downstream branches on named-vs-explicit again. End defaults to now;
// start falls back to end minus the named duration (default last-24h).
func ResolveWindow(spec WindowSpec, now time.Time) Window {
	end := now
	if spec.End != nil {
		end = *spec.End
	}
	if spec.Start != nil {
		return Window{Start: *spec.Start, End: end}
	}

	var d time.Duration
	switch spec.Range {
	case "7d":
		d = 7 * 24 * time.Hour
	case "30d":
		d = 30 * 24 * time.Hour
	default:
		d = 24 * time.Hour
	}
	return Window{Start: end.Add(-d), End: end}
}

// QueryService is the read path: window resolution, owner scoping,
// ascending range scan.
type QueryService struct {
	repo   repository.ReadingsRepository
	policy GuestReadPolicy
	logger *zap.Logger
	now    func() time.Time
}

func NewQueryService(repo repository.ReadingsRepository, policy GuestReadPolicy, logger *zap.Logger) *QueryService {
	if policy != GuestReadUnscoped {
		policy = GuestReadEmpty
	}
	return &QueryService{repo: repo, policy: policy, logger: logger, now: time.Now}
}

// Query returns the caller's readings inside the resolved window in
// ascending timestamp order. Never nil: guests get an empty slice under
// the default policy rather than an error. Limit keeps the earliest
// entries of the ordered window.
func (s *QueryService) Query(ctx context.Context, identity domain.Identity, spec WindowSpec) ([]*domain.SensorReading, error) {
	ownerID, ok := identity.OwnerID()
	if !ok {
		if s.policy != GuestReadUnscoped {
			return []*domain.SensorReading{}, nil
		}
		ownerID = ""
	}

	w := ResolveWindow(spec, s.now())
	readings, err := s.repo.Range(ctx, ownerID, w.Start, w.End, spec.Limit)
	if err != nil {
		s.logger.Error("Failed to query sensor readings", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if readings == nil {
		readings = []*domain.SensorReading{}
	}
	return readings, nil
}

// Latest returns the single most recent reading for the resolved scope
// with no window filter, or nil when the partition is empty.
func (s *QueryService) Latest(ctx context.Context, identity domain.Identity) (*domain.SensorReading, error) {
	ownerID, ok := identity.OwnerID()
	if !ok {
		if s.policy != GuestReadUnscoped {
			return nil, nil
		}
		ownerID = ""
	}

	reading, err := s.repo.Latest(ctx, ownerID)
	if err != nil {
		s.logger.Error("Failed to query latest sensor reading", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return reading, nil
}
