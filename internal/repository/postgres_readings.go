package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/domain"
)

// PostgresReadingsRepo stores sensor readings in the sensor_readings
// table (see cmd/apply-migration).
type PostgresReadingsRepo struct {
	db *sql.DB
}

func NewPostgresReadingsRepo(db *sql.DB) *PostgresReadingsRepo {
	return &PostgresReadingsRepo{db: db}
}

var _ ReadingsRepository = (*PostgresReadingsRepo)(nil)

const readingColumns = `id::text, owner_id::text, o2_reading, body_temperature, pulse_reading, timestamp, recorded_at`

func (r *PostgresReadingsRepo) Append(ctx context.Context, reading *domain.SensorReading) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sensor_readings (id, owner_id, o2_reading, body_temperature, pulse_reading, timestamp, recorded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		reading.ID,
		reading.OwnerID,
		reading.O2Reading,
		reading.BodyTemperature,
		reading.PulseReading,
		reading.Timestamp,
		reading.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sensor reading: %w", err)
	}
	return nil
}

func (r *PostgresReadingsRepo) Range(ctx context.Context, ownerID string, start, end time.Time, limit int) ([]*domain.SensorReading, error) {
	query := `SELECT ` + readingColumns + `
		 FROM sensor_readings
		 WHERE timestamp >= $1 AND timestamp <= $2`
	args := []interface{}{start, end}
	if ownerID != "" {
		query += ` AND owner_id = $3`
		args = append(args, ownerID)
	}
	query += ` ORDER BY timestamp ASC, recorded_at ASC, id ASC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, len(args)+1)
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sensor readings: %w", err)
	}
	defer rows.Close()

	var out []*domain.SensorReading
	for rows.Next() {
		var reading domain.SensorReading
		if err := rows.Scan(
			&reading.ID,
			&reading.OwnerID,
			&reading.O2Reading,
			&reading.BodyTemperature,
			&reading.PulseReading,
			&reading.Timestamp,
			&reading.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sensor reading: %w", err)
		}
		out = append(out, &reading)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sensor readings: %w", err)
	}
	return out, nil
}

func (r *PostgresReadingsRepo) Latest(ctx context.Context, ownerID string) (*domain.SensorReading, error) {
	query := `SELECT ` + readingColumns + ` FROM sensor_readings`
	var args []interface{}
	if ownerID != "" {
		query += ` WHERE owner_id = $1`
		args = append(args, ownerID)
	}
	query += ` ORDER BY timestamp DESC, recorded_at DESC, id DESC LIMIT 1`

	var reading domain.SensorReading
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&reading.ID,
		&reading.OwnerID,
		&reading.O2Reading,
		&reading.BodyTemperature,
		&reading.PulseReading,
		&reading.Timestamp,
		&reading.RecordedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest sensor reading: %w", err)
	}
	return &reading, nil
}
