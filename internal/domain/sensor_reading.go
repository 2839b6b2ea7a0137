package domain

import "time"

// Hard domains for the three vitals. A reading with any vital outside
// its domain is rejected at ingestion, never clamped.
const (
	O2Min    = 0.0
	O2Max    = 100.0
	TempMin  = 30.0
	TempMax  = 45.0
	PulseMin = 0.0
	PulseMax = 250.0
)

// SensorReading is one persisted vitals sample (corresponds to the
// sensor_readings table). Readings are immutable after creation; within
// one owner partition they are totally ordered by (timestamp,
// recorded_at, id).
type SensorReading struct {
	ID      string `db:"id"`       // UUID, assigned at ingestion
	OwnerID string `db:"owner_id"` // UUID; "" is the guest sentinel

	O2Reading       float64 `db:"o2_reading"`       // SpO2, %
	BodyTemperature float64 `db:"body_temperature"` // °C
	PulseReading    float64 `db:"pulse_reading"`    // BPM

	Timestamp  time.Time `db:"timestamp"`   // point the reading represents, caller-suppliable
	RecordedAt time.Time `db:"recorded_at"` // persistence time, always server-assigned
}
