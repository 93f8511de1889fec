package generator

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"github.com/kilianp07/bikecast/core/model"
)

// randSource is the stream every draw of a run is taken from.
type randSource = rand.Source

const jitterSpan = 2

// Generator holds the random state of a single run.
type Generator struct {
	rand    *rand.Rand
	weather weatherModel
}

// New creates a Generator seeded with seed.
func New(seed int64) *Generator {
	src := rand.NewPCG(uint64(seed), 0)
	return &Generator{
		rand:    rand.New(src),
		weather: newWeatherModel(src),
	}
}

// Generate builds the dataset for p with a freshly seeded Generator.
func Generate(p Params) ([]model.Observation, error) {
	return New(p.Seed).Generate(p)
}

// Generate produces one observation per station and timestamp, sorted by
// timestamp then station identifier. Station counts above the roster size
// are truncated and a non-positive day count yields an empty result.
func (g *Generator) Generate(p Params) ([]model.Observation, error) {
	start, err := p.start()
	if err != nil {
		return nil, err
	}
	stations := model.Stations(p.Stations)
	grid, err := buildGrid(start, p.Days, p.StartHour, p.EndHour)
	if err != nil {
		return nil, err
	}

	rows := make([]model.Observation, 0, len(grid)*len(stations))
	for _, s := range grid {
		hour := s.at.Hour()
		dow := model.Weekday(s.at)
		weekend := model.IsWeekendDay(dow)
		w := g.weather.sample(s.dayOffset, hour)
		for _, st := range stations {
			bikes := baseBikes(st, hour, weekend, w) + g.jitter()
			bikes = clampInt(bikes, 0, st.Capacity)
			rows = append(rows, model.Observation{
				Timestamp:      s.at,
				StationID:      st.ID,
				StationName:    st.Name,
				Latitude:       st.Latitude,
				Longitude:      st.Longitude,
				Capacity:       st.Capacity,
				StationType:    st.Type,
				BikesAvailable: bikes,
				DocksAvailable: st.Capacity - bikes,
				Temperature:    round1(w.Temperature),
				Precipitation:  round1(w.Precipitation),
				Windspeed:      round1(w.Windspeed),
				Hour:           hour,
				DayOfWeek:      dow,
				IsWeekend:      boolToInt(weekend),
			})
		}
	}
	SortObservations(rows)
	return rows, nil
}

// jitter returns a uniform integer in [-2, 2].
func (g *Generator) jitter() int {
	return g.rand.IntN(2*jitterSpan+1) - jitterSpan
}

// SortObservations orders rows by timestamp, then station identifier.
func SortObservations(rows []model.Observation) {
	slices.SortStableFunc(rows, func(a, b model.Observation) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(a.StationID, b.StationID)
	})
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
