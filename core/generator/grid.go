package generator

import (
	"fmt"
	"time"
)

// slot is one instant of the timestamp grid.
type slot struct {
	at        time.Time
	dayOffset int
}

// buildGrid lists every hourly instant of the window in chronological order.
// No randomness is involved.
func buildGrid(start time.Time, days, startHour, endHour int) ([]slot, error) {
	if days <= 0 || startHour > endHour {
		return nil, nil
	}
	if startHour < 0 || endHour > 23 {
		return nil, fmt.Errorf("%w: window %d-%d", ErrHourOutOfRange, startHour, endHour)
	}
	grid := make([]slot, 0, days*(endHour-startHour+1))
	for d := 0; d < days; d++ {
		day := start.AddDate(0, 0, d)
		for h := startHour; h <= endHour; h++ {
			at := time.Date(day.Year(), day.Month(), day.Day(), h, 0, 0, 0, time.UTC)
			grid = append(grid, slot{at: at, dayOffset: d})
		}
	}
	return grid, nil
}
