package sink

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kilianp07/bikecast/core/model"
	coresink "github.com/kilianp07/bikecast/core/sink"
	"github.com/kilianp07/bikecast/infra/logger"
)

// InfluxMeasurement is the measurement name of written points.
const InfluxMeasurement = "bike_availability"

// influxChunk bounds the number of points per write request.
const influxChunk = 5000

// InfluxSink writes observations to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coresink.Sink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coresink.NopSink{}
	}
	return sink
}

// ObservationPoint converts an observation into a line protocol point.
func ObservationPoint(runID string, o model.Observation) *write.Point {
	return write.NewPointWithMeasurement(InfluxMeasurement).
		AddTag("station_id", o.StationID).
		AddTag("station_type", o.StationType.String()).
		AddTag("run_id", runID).
		AddField("bikes_available", o.BikesAvailable).
		AddField("docks_available", o.DocksAvailable).
		AddField("temperature", o.Temperature).
		AddField("precipitation", o.Precipitation).
		AddField("windspeed", o.Windspeed).
		AddField("is_weekend", o.IsWeekend).
		SetTime(o.Timestamp)
}

// WriteBatch writes every row as a point, in chunks.
func (s *InfluxSink) WriteBatch(ctx context.Context, b coresink.Batch) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	points := make([]*write.Point, 0, influxChunk)
	flush := func() error {
		if len(points) == 0 {
			return nil
		}
		err := s.writeAPI.WritePoint(ctx, points...)
		points = points[:0]
		return err
	}
	for _, r := range b.Rows {
		points = append(points, ObservationPoint(b.RunID, r))
		if len(points) == influxChunk {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}
	s.log.Infof("wrote %d points for run %s", len(b.Rows), b.RunID)
	return nil
}

// Close releases the client resources.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}
