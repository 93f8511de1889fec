package sink

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kilianp07/bikecast/core/model"
	coresink "github.com/kilianp07/bikecast/core/sink"
	"github.com/kilianp07/bikecast/pkg/export"
)

// SQLiteSink persists batches to a SQLite database.
type SQLiteSink struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    generated_at INTEGER NOT NULL,
    params TEXT NOT NULL,
    row_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS observations (
    run_id TEXT NOT NULL,
    ts TEXT NOT NULL,
    station_id TEXT NOT NULL,
    station_name TEXT NOT NULL,
    station_type TEXT NOT NULL,
    latitude REAL NOT NULL,
    longitude REAL NOT NULL,
    capacity INTEGER NOT NULL,
    bikes_available INTEGER NOT NULL,
    docks_available INTEGER NOT NULL,
    temperature REAL NOT NULL,
    precipitation REAL NOT NULL,
    windspeed REAL NOT NULL,
    hour INTEGER NOT NULL,
    day_of_week INTEGER NOT NULL,
    is_weekend INTEGER NOT NULL,
    PRIMARY KEY (run_id, ts, station_id)
);`

// NewSQLiteSink opens or creates the database at path and ensures schema.
// The parent directory of a plain file path is created.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	if !strings.HasPrefix(path, "file:") && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteSink{db: db}, nil
}

// WriteBatch stores the run and its rows in a single transaction.
func (s *SQLiteSink) WriteBatch(ctx context.Context, b coresink.Batch) (err error) {
	params, err := json.Marshal(b.Params)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, generated_at, params, row_count) VALUES (?, ?, ?, ?)`,
		b.RunID, b.GeneratedAt.Unix(), string(params), len(b.Rows)); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO observations (
        run_id, ts, station_id, station_name, station_type, latitude, longitude, capacity,
        bikes_available, docks_available, temperature, precipitation, windspeed,
        hour, day_of_week, is_weekend
    ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()
	for _, r := range b.Rows {
		if _, err = stmt.ExecContext(ctx,
			b.RunID, r.Timestamp.Format(export.TimestampLayout), r.StationID, r.StationName,
			r.StationType.String(), r.Latitude, r.Longitude, r.Capacity,
			r.BikesAvailable, r.DocksAvailable, r.Temperature, r.Precipitation, r.Windspeed,
			r.Hour, r.DayOfWeek, r.IsWeekend); err != nil {
			return fmt.Errorf("insert observation %s %s: %w", r.StationID, r.Timestamp.Format(time.DateTime), err)
		}
	}
	return tx.Commit()
}

// Observations returns the rows stored for runID in dataset order.
func (s *SQLiteSink) Observations(ctx context.Context, runID string) ([]model.Observation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ts, station_id, station_name, station_type, latitude, longitude,
        capacity, bikes_available, docks_available, temperature, precipitation, windspeed,
        hour, day_of_week, is_weekend
        FROM observations WHERE run_id = ? ORDER BY ts, station_id`, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []model.Observation
	for rows.Next() {
		var (
			o       model.Observation
			ts, typ string
		)
		if err := rows.Scan(&ts, &o.StationID, &o.StationName, &typ, &o.Latitude, &o.Longitude,
			&o.Capacity, &o.BikesAvailable, &o.DocksAvailable, &o.Temperature, &o.Precipitation, &o.Windspeed,
			&o.Hour, &o.DayOfWeek, &o.IsWeekend); err != nil {
			return nil, err
		}
		if o.Timestamp, err = time.Parse(export.TimestampLayout, ts); err != nil {
			return nil, fmt.Errorf("parse ts: %w", err)
		}
		if o.StationType, err = model.ParseStationType(typ); err != nil {
			return nil, err
		}
		res = append(res, o)
	}
	return res, rows.Err()
}

// Close releases the database handle.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
