package generator

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the accepted format of Params.StartDate.
const DateLayout = "2006-01-02"

var (
	// ErrInvalidStartDate is returned when StartDate does not match DateLayout.
	ErrInvalidStartDate = errors.New("invalid start date")
	// ErrHourOutOfRange is returned when a non-empty hour window leaves [0, 23].
	ErrHourOutOfRange = errors.New("hour out of range")
)

// Params controls a generation run.
type Params struct {
	Stations  int    `json:"stations"`
	Days      int    `json:"days"`
	StartDate string `json:"start_date"`
	StartHour int    `json:"start_hour"`
	EndHour   int    `json:"end_hour"`
	Seed      int64  `json:"seed"`
}

// DefaultParams mirrors the defaults of the command line.
func DefaultParams() Params {
	return Params{
		Stations:  2,
		Days:      3,
		StartDate: "2024-01-15",
		StartHour: 6,
		EndHour:   20,
		Seed:      42,
	}
}

// ExpectedRows returns the row count a run with p produces.
func (p Params) ExpectedRows(stations int) int {
	if p.Days <= 0 || p.StartHour > p.EndHour || stations <= 0 {
		return 0
	}
	return stations * p.Days * (p.EndHour - p.StartHour + 1)
}

func (p Params) start() (time.Time, error) {
	t, err := time.Parse(DateLayout, p.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidStartDate, p.StartDate, err)
	}
	return t, nil
}
