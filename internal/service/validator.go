package service

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/domain"
)

// RawReading is the unvalidated ingestion payload. Devices are sloppy
// about types, so vitals may arrive as JSON numbers or numeric strings
// and the timestamp as RFC3339 or epoch milliseconds.
type RawReading struct {
	O2Reading       any `json:"o2Reading"`
	BodyTemperature any `json:"bodyTemperature"`
	PulseReading    any `json:"pulseReading"`
	Timestamp       any `json:"timestamp,omitempty"`
}

// ValidateReading turns a raw payload into a reading with vitals and
// timestamp populated, or fails with a domain.ValidationError naming
// every offending field. Pure: ID, OwnerID and RecordedAt are left for
// the ingestion service. Values are never clamped; an out-of-domain
// vital is a rejection.
func ValidateReading(raw RawReading, now time.Time) (*domain.SensorReading, error) {
	var missing []string
	o2, ok := coerceNumber(raw.O2Reading)
	if !ok {
		missing = append(missing, "o2Reading")
	}
	temp, ok := coerceNumber(raw.BodyTemperature)
	if !ok {
		missing = append(missing, "bodyTemperature")
	}
	pulse, ok := coerceNumber(raw.PulseReading)
	if !ok {
		missing = append(missing, "pulseReading")
	}
	if len(missing) > 0 {
		return nil, domain.NewValidationError(domain.MissingField, missing...)
	}

	var outOfRange []string
	if o2 < domain.O2Min || o2 > domain.O2Max {
		outOfRange = append(outOfRange, "o2Reading")
	}
	if temp < domain.TempMin || temp > domain.TempMax {
		outOfRange = append(outOfRange, "bodyTemperature")
	}
	if pulse < domain.PulseMin || pulse > domain.PulseMax {
		outOfRange = append(outOfRange, "pulseReading")
	}
	if len(outOfRange) > 0 {
		return nil, domain.NewValidationError(domain.OutOfRange, outOfRange...)
	}

	ts, err := coerceTimestamp(raw.Timestamp, now)
	if err != nil {
		return nil, err
	}

	return &domain.SensorReading{
		O2Reading:       o2,
		BodyTemperature: temp,
		PulseReading:    pulse,
		Timestamp:       ts,
	}, nil
}

func coerceNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return finiteNumber(n)
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return finiteNumber(f)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return finiteNumber(f)
	default:
		return 0, false
	}
}

// finiteNumber rejects NaN and the infinities: NaN compares false
// against every range bound, so non-finite values must not reach the
// range checks.
func finiteNumber(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func coerceTimestamp(v any, now time.Time) (time.Time, error) {
	switch ts := v.(type) {
	case nil:
		return now, nil
	case string:
		if ts == "" {
			return now, nil
		}
		// RFC3339Nano also accepts timestamps without fractional seconds
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			return t, nil
		}
		return time.Time{}, domain.NewValidationError(domain.InvalidTimestamp, "timestamp")
	case float64:
		// epoch milliseconds, the JS Date convention
		return time.UnixMilli(int64(ts)), nil
	case json.Number:
		if ms, err := ts.Int64(); err == nil {
			return time.UnixMilli(ms), nil
		}
		return time.Time{}, domain.NewValidationError(domain.InvalidTimestamp, "timestamp")
	default:
		return time.Time{}, domain.NewValidationError(domain.InvalidTimestamp, "timestamp")
	}
}
