package models

import (
	"strconv"
	"time"

	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/domain"
)

// Feed wire format stays ThingSpeak-compatible so the dashboard charts
// work against either source:
// field1 = SpO2, field2 = pulse, field3 = body temperature.
// Values are serialized as strings, created_at as ISO-8601 UTC with
// millisecond precision.
type FeedEntry struct {
	CreatedAt string `json:"created_at"`
	Field1    string `json:"field1"`
	Field2    string `json:"field2"`
	Field3    string `json:"field3"`
}

type FeedsResponse struct {
	Feeds []FeedEntry `json:"feeds"`
}

const createdAtLayout = "2006-01-02T15:04:05.000Z07:00"

func FeedEntryFrom(r domain.SensorReading) FeedEntry {
	return FeedEntry{
		CreatedAt: r.Timestamp.UTC().Format(createdAtLayout),
		Field1:    formatVital(r.O2Reading),
		Field2:    formatVital(r.PulseReading),
		Field3:    formatVital(r.BodyTemperature),
	}
}

// FeedsFrom projects readings to the wire format. Feeds is never nil so
// the response always carries a JSON array.
func FeedsFrom(readings []*domain.SensorReading) FeedsResponse {
	feeds := make([]FeedEntry, 0, len(readings))
	for _, r := range readings {
		feeds = append(feeds, FeedEntryFrom(*r))
	}
	return FeedsResponse{Feeds: feeds}
}

// FeedsFromValues is FeedsFrom for generator output.
func FeedsFromValues(readings []domain.SensorReading) FeedsResponse {
	feeds := make([]FeedEntry, 0, len(readings))
	for _, r := range readings {
		feeds = append(feeds, FeedEntryFrom(r))
	}
	return FeedsResponse{Feeds: feeds}
}

func formatVital(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ReadingResponse is the POST /sensor-data 201 body: the persisted
// reading including server-assigned fields.
type ReadingResponse struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"ownerId"`
	O2Reading       float64   `json:"o2Reading"`
	BodyTemperature float64   `json:"bodyTemperature"`
	PulseReading    float64   `json:"pulseReading"`
	Timestamp       time.Time `json:"timestamp"`
}

func ReadingResponseFrom(r *domain.SensorReading) ReadingResponse {
	return ReadingResponse{
		ID:              r.ID,
		OwnerID:         r.OwnerID,
		O2Reading:       r.O2Reading,
		BodyTemperature: r.BodyTemperature,
		PulseReading:    r.PulseReading,
		Timestamp:       r.Timestamp,
	}
}

// LatestResponse is the GET /sensor-data/latest body (no internal
// identifiers).
type LatestResponse struct {
	O2Reading       float64   `json:"o2Reading"`
	BodyTemperature float64   `json:"bodyTemperature"`
	PulseReading    float64   `json:"pulseReading"`
	Timestamp       time.Time `json:"timestamp"`
}

func LatestResponseFrom(r *domain.SensorReading) LatestResponse {
	return LatestResponse{
		O2Reading:       r.O2Reading,
		BodyTemperature: r.BodyTemperature,
		PulseReading:    r.PulseReading,
		Timestamp:       r.Timestamp,
	}
}
