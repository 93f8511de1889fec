// Package quality checks a bike availability dataset against the invariants
// every generated dataset satisfies.
package quality

import (
	"cmp"
	"fmt"
	"time"

	"github.com/kilianp07/bikecast/core/model"
)

// Rule identifies the invariant a Violation breaks.
type Rule string

const (
	RuleUnknownStation Rule = "unknown_station"
	RuleCapacity       Rule = "capacity"
	RuleBikesRange     Rule = "bikes_range"
	RuleWindspeed      Rule = "windspeed_range"
	RulePrecipitation  Rule = "precipitation"
	RuleCalendar       Rule = "calendar"
	RuleOrder          Rule = "order"
	RuleDuplicate      Rule = "duplicate"
	RuleSharedWeather  Rule = "shared_weather"
)

// Violation is a single broken invariant at a given row index.
type Violation struct {
	Row    int
	Rule   Rule
	Detail string
}

func (v Violation) String() string {
	return fmt.Sprintf("row %d: %s: %s", v.Row, v.Rule, v.Detail)
}

// Options tune the checks.
type Options struct {
	// StartDate is the first generated day. Zero means the date of the
	// earliest timestamp in the dataset.
	StartDate time.Time
}

type key struct {
	at time.Time
	id string
}

// Check returns every violation found in rows, in row order per rule.
func Check(rows []model.Observation, opts Options) []Violation {
	var out []Violation
	add := func(i int, r Rule, format string, args ...any) {
		out = append(out, Violation{Row: i, Rule: r, Detail: fmt.Sprintf(format, args...)})
	}
	start := opts.StartDate
	if start.IsZero() {
		start = firstDay(rows)
	}
	seen := make(map[key]int, len(rows))
	weather := make(map[time.Time]model.Weather)
	for i, r := range rows {
		st, ok := model.StationByID(r.StationID)
		if !ok {
			add(i, RuleUnknownStation, "station %s", r.StationID)
		} else {
			checkAvailability(i, r, st.Capacity, add)
		}
		if r.Windspeed < 5 || r.Windspeed > 20 {
			add(i, RuleWindspeed, "windspeed %.1f outside [5, 20]", r.Windspeed)
		}
		if r.Precipitation < 0 {
			add(i, RulePrecipitation, "negative precipitation %.1f", r.Precipitation)
		} else if r.Precipitation > 0 && dayOffset(start, r.Timestamp)%3 != 1 {
			add(i, RulePrecipitation, "rain on dry day offset %d", dayOffset(start, r.Timestamp))
		}
		checkCalendar(i, r, add)

		k := key{at: r.Timestamp, id: r.StationID}
		if first, dup := seen[k]; dup {
			add(i, RuleDuplicate, "same timestamp and station as row %d", first)
		} else {
			seen[k] = i
		}
		w := model.Weather{Temperature: r.Temperature, Precipitation: r.Precipitation, Windspeed: r.Windspeed}
		if ref, ok := weather[r.Timestamp]; ok && ref != w {
			add(i, RuleSharedWeather, "weather differs from other stations at %s", r.Timestamp.Format(time.DateTime))
		} else if !ok {
			weather[r.Timestamp] = w
		}
		if i > 0 && compareRows(rows[i-1], r) > 0 {
			add(i, RuleOrder, "row sorts before row %d", i-1)
		}
	}
	return out
}

// Deduplicate drops rows repeating an earlier (timestamp, station) pair,
// keeping the first occurrence.
func Deduplicate(rows []model.Observation) []model.Observation {
	seen := make(map[key]struct{}, len(rows))
	out := make([]model.Observation, 0, len(rows))
	for _, r := range rows {
		k := key{at: r.Timestamp, id: r.StationID}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

func checkAvailability(i int, r model.Observation, capacity int, add func(int, Rule, string, ...any)) {
	if r.BikesAvailable+r.DocksAvailable != capacity {
		add(i, RuleCapacity, "bikes %d + docks %d != capacity %d", r.BikesAvailable, r.DocksAvailable, capacity)
	}
	if r.BikesAvailable < 0 || r.BikesAvailable > capacity {
		add(i, RuleBikesRange, "bikes %d outside [0, %d]", r.BikesAvailable, capacity)
	}
}

func checkCalendar(i int, r model.Observation, add func(int, Rule, string, ...any)) {
	if r.Hour != r.Timestamp.Hour() {
		add(i, RuleCalendar, "hour %d does not match timestamp", r.Hour)
	}
	dow := model.Weekday(r.Timestamp)
	if r.DayOfWeek != dow {
		add(i, RuleCalendar, "day_of_week %d, want %d", r.DayOfWeek, dow)
	}
	weekend := 0
	if model.IsWeekendDay(dow) {
		weekend = 1
	}
	if r.IsWeekend != weekend {
		add(i, RuleCalendar, "is_weekend %d, want %d", r.IsWeekend, weekend)
	}
}

func compareRows(a, b model.Observation) int {
	if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
		return c
	}
	return cmp.Compare(a.StationID, b.StationID)
}

func firstDay(rows []model.Observation) time.Time {
	var first time.Time
	for _, r := range rows {
		if first.IsZero() || r.Timestamp.Before(first) {
			first = r.Timestamp
		}
	}
	if first.IsZero() {
		return first
	}
	return time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, time.UTC)
}

func dayOffset(start, at time.Time) int {
	day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
	return int(day.Sub(start).Hours()) / 24
}
