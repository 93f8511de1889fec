package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/bikecast/core/model"
)

func sampleRows() []model.Observation {
	ts := time.Date(2024, 1, 15, 6, 0, 0, 0, time.UTC)
	return []model.Observation{
		{
			Timestamp: ts, StationID: "AMS-001", StationName: "Centraal Station",
			Latitude: 52.3791, Longitude: 4.9003, Capacity: 20, StationType: model.StationCommuter,
			BikesAvailable: 9, DocksAvailable: 11, Temperature: 8.0, Precipitation: 0, Windspeed: 7.4,
			Hour: 6, DayOfWeek: 0, IsWeekend: 0,
		},
		{
			Timestamp: ts, StationID: "AMS-002", StationName: "Museumplein",
			Latitude: 52.358, Longitude: 4.8814, Capacity: 20, StationType: model.StationTourist,
			BikesAvailable: 16, DocksAvailable: 4, Temperature: -1.3, Precipitation: 1.2, Windspeed: 11.9,
			Hour: 6, DayOfWeek: 0, IsWeekend: 0,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows()))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "timestamp,station_id,station_name,latitude,longitude,bikes_available,docks_available,temperature,precipitation,windspeed,hour,day_of_week,is_weekend", lines[0])
	assert.Equal(t, "2024-01-15 06:00:00,AMS-001,Centraal Station,52.3791,4.9003,9,11,8.0,0.0,7.4,6,0,0", lines[1])
	assert.Equal(t, "2024-01-15 06:00:00,AMS-002,Museumplein,52.358,4.8814,16,4,-1.3,1.2,11.9,6,0,0", lines[2])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, strings.Join(Columns, ",")+"\n", buf.String())
}

func TestCSVReadBack(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows()))
	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, sampleRows(), got)
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrHeaderMismatch)

	swapped := strings.Replace(strings.Join(Columns, ","), "latitude,longitude", "longitude,latitude", 1)
	_, err = ReadCSV(strings.NewReader(swapped + "\n"))
	assert.ErrorIs(t, err, ErrHeaderMismatch)

	bad := strings.Join(Columns, ",") + "\n2024-01-15 06:00:00,AMS-001,X,52,4,many,11,8.0,0.0,7.4,6,0,0\n"
	_, err = ReadCSV(strings.NewReader(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "bikes_available")
}

func TestJSONLReadBack(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONL(&buf, sampleRows()))
	first := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.Contains(t, first, `"timestamp":"2024-01-15 06:00:00"`)
	assert.Contains(t, first, `"station_id":"AMS-001"`)
	assert.NotContains(t, first, "Capacity")

	got, err := ReadJSONL(&buf)
	require.NoError(t, err)
	assert.Equal(t, sampleRows(), got)
}

func TestXLSXReadBack(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleRows()))
	got, err := ReadXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, sampleRows(), got)
}

func TestFormatDispatch(t *testing.T) {
	assert.Equal(t, FormatCSV, FormatFromPath("data/raw/sample.csv"))
	assert.Equal(t, FormatJSONL, FormatFromPath("x.ndjson"))
	assert.Equal(t, FormatXLSX, FormatFromPath("x.xlsx"))

	var buf bytes.Buffer
	assert.Error(t, Write(&buf, "parquet", sampleRows()))
	_, err := Read(&buf, "parquet")
	assert.Error(t, err)

	for _, f := range []string{FormatCSV, FormatJSONL, FormatXLSX} {
		buf.Reset()
		require.NoError(t, Write(&buf, f, sampleRows()), f)
		got, err := Read(bytes.NewReader(buf.Bytes()), f)
		require.NoError(t, err, f)
		assert.Len(t, got, 2, f)
	}
}
