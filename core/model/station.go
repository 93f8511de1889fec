package model

import "fmt"

// StationType describes how a station's occupancy evolves over the day.
type StationType int

const (
	StationCommuter StationType = iota
	StationTourist
	StationLeisure
)

// DefaultCapacity is the number of docks of every predefined station.
const DefaultCapacity = 20

// String returns the lower-case name used in datasets and configuration.
func (t StationType) String() string {
	switch t {
	case StationCommuter:
		return "commuter"
	case StationTourist:
		return "tourist"
	case StationLeisure:
		return "leisure"
	default:
		return "unknown"
	}
}

// ParseStationType converts a name back into a StationType.
func ParseStationType(s string) (StationType, error) {
	switch s {
	case "commuter":
		return StationCommuter, nil
	case "tourist":
		return StationTourist, nil
	case "leisure":
		return StationLeisure, nil
	default:
		return 0, fmt.Errorf("unknown station type %q", s)
	}
}

// Station is a fixed docking location.
type Station struct {
	ID        string
	Name      string
	Latitude  float64
	Longitude float64
	Capacity  int
	Type      StationType
}

var roster = []struct {
	name     string
	lat, lon float64
	typ      StationType
}{
	{"Centraal Station", 52.3791, 4.9003, StationCommuter},
	{"Museumplein", 52.3580, 4.8814, StationTourist},
	{"Vondelpark", 52.3579, 4.8686, StationLeisure},
	{"Dam Square", 52.3730, 4.8936, StationTourist},
	{"RAI Station", 52.3387, 4.8907, StationCommuter},
}

// MaxStations is the size of the predefined roster.
var MaxStations = len(roster)

// Roster returns every predefined Amsterdam station in a fixed order.
func Roster() []Station {
	out := make([]Station, len(roster))
	for i, r := range roster {
		out[i] = Station{
			ID:        fmt.Sprintf("AMS-%03d", i+1),
			Name:      r.name,
			Latitude:  r.lat,
			Longitude: r.lon,
			Capacity:  DefaultCapacity,
			Type:      r.typ,
		}
	}
	return out
}

// Stations returns the first n stations of the roster. Requests above the
// roster size are truncated and n <= 0 yields no station.
func Stations(n int) []Station {
	all := Roster()
	if n <= 0 {
		return nil
	}
	if n > len(all) {
		n = len(all)
	}
	return all[:n]
}

// StationByID looks up a roster station by identifier.
func StationByID(id string) (Station, bool) {
	for _, s := range Roster() {
		if s.ID == id {
			return s, true
		}
	}
	return Station{}, false
}
