package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/kilianp07/bikecast/core/model"
)

// TimestampLayout is the date-time format of the timestamp column.
const TimestampLayout = "2006-01-02 15:04:05"

// Columns is the dataset header, in output order.
var Columns = []string{
	"timestamp",
	"station_id",
	"station_name",
	"latitude",
	"longitude",
	"bikes_available",
	"docks_available",
	"temperature",
	"precipitation",
	"windspeed",
	"hour",
	"day_of_week",
	"is_weekend",
}

// ErrHeaderMismatch is returned by readers when the header differs from Columns.
var ErrHeaderMismatch = errors.New("unexpected dataset header")

// Record renders an observation as the string fields of a dataset row.
func Record(o model.Observation) []string {
	return []string{
		o.Timestamp.Format(TimestampLayout),
		o.StationID,
		o.StationName,
		formatFloat(o.Latitude),
		formatFloat(o.Longitude),
		strconv.Itoa(o.BikesAvailable),
		strconv.Itoa(o.DocksAvailable),
		formatTenths(o.Temperature),
		formatTenths(o.Precipitation),
		formatTenths(o.Windspeed),
		strconv.Itoa(o.Hour),
		strconv.Itoa(o.DayOfWeek),
		strconv.Itoa(o.IsWeekend),
	}
}

// WriteCSV writes the dataset to w with a header row.
func WriteCSV(w io.Writer, rows []model.Observation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(Record(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a dataset written by WriteCSV. Station capacity and type are
// restored from the roster when the identifier is known.
func ReadCSV(r io.Reader) ([]model.Observation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Columns)
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrHeaderMismatch)
		}
		return nil, err
	}
	for i, c := range Columns {
		if header[i] != c {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrHeaderMismatch, i, header[i], c)
		}
	}
	var rows []model.Observation
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		o, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, o)
	}
	return rows, nil
}

func parseRecord(rec []string) (model.Observation, error) {
	var (
		o   model.Observation
		err error
	)
	if o.Timestamp, err = parseTimestamp(rec[0]); err != nil {
		return o, fmt.Errorf("timestamp: %w", err)
	}
	o.StationID = rec[1]
	o.StationName = rec[2]
	floats := []struct {
		dst  *float64
		name string
		src  string
	}{
		{&o.Latitude, "latitude", rec[3]},
		{&o.Longitude, "longitude", rec[4]},
		{&o.Temperature, "temperature", rec[7]},
		{&o.Precipitation, "precipitation", rec[8]},
		{&o.Windspeed, "windspeed", rec[9]},
	}
	for _, f := range floats {
		if *f.dst, err = strconv.ParseFloat(f.src, 64); err != nil {
			return o, fmt.Errorf("%s: %w", f.name, err)
		}
	}
	ints := []struct {
		dst  *int
		name string
		src  string
	}{
		{&o.BikesAvailable, "bikes_available", rec[5]},
		{&o.DocksAvailable, "docks_available", rec[6]},
		{&o.Hour, "hour", rec[10]},
		{&o.DayOfWeek, "day_of_week", rec[11]},
		{&o.IsWeekend, "is_weekend", rec[12]},
	}
	for _, f := range ints {
		if *f.dst, err = strconv.Atoi(f.src); err != nil {
			return o, fmt.Errorf("%s: %w", f.name, err)
		}
	}
	restoreStation(&o)
	return o, nil
}

func restoreStation(o *model.Observation) {
	if st, ok := model.StationByID(o.StationID); ok {
		o.Capacity = st.Capacity
		o.StationType = st.Type
	}
}

// jsonRow fixes the timestamp layout of JSON output to the CSV one.
type jsonRow struct {
	Timestamp string `json:"timestamp"`
	model.Observation
}

// WriteJSONL writes one JSON object per observation.
func WriteJSONL(w io.Writer, rows []model.Observation) error {
	enc := json.NewEncoder(w)
	for _, r := range rows {
		if err := enc.Encode(jsonRow{Timestamp: r.Timestamp.Format(TimestampLayout), Observation: r}); err != nil {
			return err
		}
	}
	return nil
}

// ReadJSONL parses the output of WriteJSONL.
func ReadJSONL(r io.Reader) ([]model.Observation, error) {
	dec := json.NewDecoder(r)
	var rows []model.Observation
	for {
		var jr jsonRow
		if err := dec.Decode(&jr); err != nil {
			if errors.Is(err, io.EOF) {
				return rows, nil
			}
			return nil, err
		}
		ts, err := parseTimestamp(jr.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("timestamp: %w", err)
		}
		o := jr.Observation
		o.Timestamp = ts
		restoreStation(&o)
		rows = append(rows, o)
	}
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimestampLayout, s)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatTenths renders weather values with exactly one decimal.
func formatTenths(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}
