package quality

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/bikecast/core/generator"
	"github.com/kilianp07/bikecast/core/model"
)

func generated(t *testing.T) []model.Observation {
	t.Helper()
	rows, err := generator.Generate(generator.Params{Stations: 5, Days: 7, StartDate: "2024-01-15", StartHour: 0, EndHour: 23, Seed: 3})
	require.NoError(t, err)
	return rows
}

func rules(vs []Violation) []Rule {
	out := make([]Rule, len(vs))
	for i, v := range vs {
		out[i] = v.Rule
	}
	return out
}

func TestCheckGeneratedIsClean(t *testing.T) {
	assert.Empty(t, Check(generated(t), Options{}))
}

func TestCheckDetectsViolations(t *testing.T) {
	tests := []struct {
		name string
		mut  func([]model.Observation) []model.Observation
		want Rule
	}{
		{"capacity", func(r []model.Observation) []model.Observation { r[0].DocksAvailable++; return r }, RuleCapacity},
		{"bikes range", func(r []model.Observation) []model.Observation {
			r[0].BikesAvailable, r[0].DocksAvailable = 21, -1
			return r
		}, RuleBikesRange},
		{"unknown station", func(r []model.Observation) []model.Observation { r[0].StationID = "AMS-999"; return r }, RuleUnknownStation},
		{"windspeed", func(r []model.Observation) []model.Observation { r[0].Windspeed = 25; return r }, RuleWindspeed},
		{"dry day rain", func(r []model.Observation) []model.Observation { r[0].Precipitation = 0.5; return r }, RulePrecipitation},
		{"calendar", func(r []model.Observation) []model.Observation { r[0].DayOfWeek = 3; return r }, RuleCalendar},
		{"order", func(r []model.Observation) []model.Observation { r[0], r[1] = r[1], r[0]; return r }, RuleOrder},
		{"duplicate", func(r []model.Observation) []model.Observation { return append(r, r[len(r)-1]) }, RuleDuplicate},
		{"shared weather", func(r []model.Observation) []model.Observation { r[1].Temperature += 1; return r }, RuleSharedWeather},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs := Check(tt.mut(generated(t)), Options{})
			require.NotEmpty(t, vs)
			assert.Contains(t, rules(vs), tt.want)
		})
	}
}

func TestCheckExplicitStartDate(t *testing.T) {
	rows := generated(t)
	// Shifting the start by one day moves the rainy offsets.
	vs := Check(rows, Options{StartDate: time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)})
	assert.Contains(t, rules(vs), RulePrecipitation)
}

func TestDeduplicate(t *testing.T) {
	rows := generated(t)[:4]
	dup := append(append([]model.Observation{}, rows...), rows[1], rows[3])
	got := Deduplicate(dup)
	assert.Equal(t, rows, got)
}

func TestViolationString(t *testing.T) {
	v := Violation{Row: 3, Rule: RuleCapacity, Detail: "x"}
	assert.Equal(t, "row 3: capacity: x", v.String())
}
