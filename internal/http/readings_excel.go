package httpapi

import (
	"bytes"
	"fmt"

	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/domain"

	"github.com/xuri/excelize/v2"
)

var readingsExportHeader = []string{
	"Timestamp",
	"SpO2 (%)",
	"Pulse (BPM)",
	"Body Temperature (°C)",
	"Recorded At",
}

// generateReadingsExport builds an xlsx workbook for a window of
// readings. Empty input still produces a sheet with the header row.
func generateReadingsExport(readings []*domain.SensorReading) ([]byte, error) {
	f := excelize.NewFile()

	sheetName := "Sensor Readings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, title := range readingsExportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}
	_ = f.SetColWidth(sheetName, "A", "A", 24)
	_ = f.SetColWidth(sheetName, "B", "D", 16)
	_ = f.SetColWidth(sheetName, "E", "E", 24)

	for i, reading := range readings {
		row := i + 2
		values := []any{
			reading.Timestamp.UTC().Format("2006-01-02 15:04:05"),
			reading.O2Reading,
			reading.PulseReading,
			reading.BodyTemperature,
			reading.RecordedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}
