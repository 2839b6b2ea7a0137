package main

import (
	"fmt"
	"os"

	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/config"
	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/database"
)

const createSensorReadings = `
CREATE TABLE IF NOT EXISTS sensor_readings (
    id UUID PRIMARY KEY,
    owner_id UUID NOT NULL,
    o2_reading DOUBLE PRECISION NOT NULL,
    body_temperature DOUBLE PRECISION NOT NULL,
    pulse_reading DOUBLE PRECISION NOT NULL,
    timestamp TIMESTAMPTZ NOT NULL,
    recorded_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sensor_readings_owner_timestamp
    ON sensor_readings (owner_id, timestamp);
`

func main() {
	cfg := config.Load()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if _, err := db.Exec(createSensorReadings); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to execute migration: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("sensor_readings table ready")
}
