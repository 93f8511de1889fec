package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/kilianp07/bikecast/core/model"
)

// SheetName is the worksheet holding the dataset in XLSX output.
const SheetName = "data"

// WriteXLSX writes the dataset as a single-sheet workbook with typed cells.
func WriteXLSX(w io.Writer, rows []model.Observation) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return err
	}
	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{
			r.Timestamp.Format(TimestampLayout),
			r.StationID,
			r.StationName,
			r.Latitude,
			r.Longitude,
			r.BikesAvailable,
			r.DocksAvailable,
			r.Temperature,
			r.Precipitation,
			r.Windspeed,
			r.Hour,
			r.DayOfWeek,
			r.IsWeekend,
		}
		if err := sw.SetRow(cell, values); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}

// ReadXLSX parses a workbook written by WriteXLSX.
func ReadXLSX(r io.Reader) ([]model.Observation, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	records, err := f.GetRows(SheetName)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty sheet", ErrHeaderMismatch)
	}
	for i, c := range Columns {
		if i >= len(records[0]) || records[0][i] != c {
			return nil, fmt.Errorf("%w: sheet column %d", ErrHeaderMismatch, i)
		}
	}
	rows := make([]model.Observation, 0, len(records)-1)
	for n, rec := range records[1:] {
		if len(rec) != len(Columns) {
			return nil, fmt.Errorf("row %d: expected %d cells, got %d", n+2, len(Columns), len(rec))
		}
		o, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		rows = append(rows, o)
	}
	return rows, nil
}
