package model

import "time"

// Weather is the simulated weather at one timestamp. It is shared by every
// station observed at that instant.
type Weather struct {
	Temperature   float64 // degrees Celsius
	Precipitation float64 // mm, never negative
	Windspeed     float64 // clamped to [5, 20]
}

// Observation is one dataset row: a station's availability at a timestamp
// together with the weather and calendar context.
type Observation struct {
	Timestamp      time.Time   `json:"timestamp"`
	StationID      string      `json:"station_id"`
	StationName    string      `json:"station_name"`
	Latitude       float64     `json:"latitude"`
	Longitude      float64     `json:"longitude"`
	Capacity       int         `json:"-"`
	StationType    StationType `json:"-"`
	BikesAvailable int         `json:"bikes_available"`
	DocksAvailable int         `json:"docks_available"`
	Temperature    float64     `json:"temperature"`
	Precipitation  float64     `json:"precipitation"`
	Windspeed      float64     `json:"windspeed"`
	Hour           int         `json:"hour"`
	DayOfWeek      int         `json:"day_of_week"`
	IsWeekend      int         `json:"is_weekend"`
}

// Weekday returns the day of week with Monday as 0 and Sunday as 6.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// IsWeekendDay reports whether a Monday-based weekday is Saturday or Sunday.
func IsWeekendDay(dow int) bool { return dow >= 5 }
