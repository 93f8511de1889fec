package generator

import "github.com/kilianp07/bikecast/core/model"

// curve gives the expected number of bikes at a station for the hour of day
// before weather, weekend and noise adjustments.
type curve func(hour int, weekend bool, w model.Weather) int

var curves = map[model.StationType]curve{
	model.StationCommuter: commuterCurve,
	model.StationTourist:  touristCurve,
	model.StationLeisure:  leisureCurve,
}

// commuterCurve empties in the morning and fills up again in the evening.
func commuterCurve(hour int, _ bool, _ model.Weather) int {
	switch {
	case hour < 9:
		return 15 - (9-hour)*2
	case hour < 17:
		return 8
	default:
		return 15 + (hour - 17)
	}
}

// touristCurve is busy around midday.
func touristCurve(hour int, _ bool, _ model.Weather) int {
	if hour >= 10 && hour <= 16 {
		return 5
	}
	return 14
}

// leisureCurve is busy on dry weekend afternoons.
func leisureCurve(hour int, weekend bool, w model.Weather) int {
	if weekend && hour >= 12 && hour <= 18 && w.Precipitation == 0 {
		return 4
	}
	return 12
}

// weekendAdjustment shifts the base count on Saturdays and Sundays.
var weekendAdjustment = map[model.StationType]int{
	model.StationCommuter: 4,
	model.StationTourist:  -2,
}

// baseBikes applies the station curve plus weather and weekend effects.
// Rain means fewer rides, hence more bikes at the dock.
func baseBikes(st model.Station, hour int, weekend bool, w model.Weather) int {
	fn, ok := curves[st.Type]
	if !ok {
		fn = leisureCurve
	}
	bikes := fn(hour, weekend, w)
	if w.Precipitation > 0 {
		bikes += 5
	}
	if w.Temperature < 5 {
		bikes += 3
	}
	if weekend {
		bikes += weekendAdjustment[st.Type]
	}
	return bikes
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
