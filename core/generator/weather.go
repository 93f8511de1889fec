package generator

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/kilianp07/bikecast/core/model"
)

const (
	tempNoiseSigma   = 0.5
	precipNoiseSigma = 0.3
	windNoiseSigma   = 1.5

	minWindspeed = 5.0
	maxWindspeed = 20.0
)

// weatherModel draws the per-timestamp weather. The three normal
// distributions share the run's source.
type weatherModel struct {
	temp   distuv.Normal
	precip distuv.Normal
	wind   distuv.Normal
}

func newWeatherModel(src randSource) weatherModel {
	return weatherModel{
		temp:   distuv.Normal{Mu: 0, Sigma: tempNoiseSigma, Src: src},
		precip: distuv.Normal{Mu: 0, Sigma: precipNoiseSigma, Src: src},
		wind:   distuv.Normal{Mu: 0, Sigma: windNoiseSigma, Src: src},
	}
}

// sample consumes, in order: temperature noise, precipitation noise on rainy
// days only, wind noise.
func (w weatherModel) sample(dayOffset, hour int) model.Weather {
	baseTemp := 8 + math.Sin(float64(dayOffset)*0.5)*4
	diurnal := math.Sin(float64(hour-6)/12*math.Pi) * 3
	temperature := baseTemp + diurnal + w.temp.Rand()

	precipitation := 0.0
	if rainyDay(dayOffset) {
		precipitation = math.Max(0, 2.0-math.Abs(float64(hour-12))*0.2+w.precip.Rand())
	}

	windspeed := 8 + precipitation*2 + w.wind.Rand()
	windspeed = clamp(windspeed, minWindspeed, maxWindspeed)

	return model.Weather{
		Temperature:   temperature,
		Precipitation: precipitation,
		Windspeed:     windspeed,
	}
}

// rainyDay reports whether the given day offset has rain: every third day,
// starting with the second.
func rainyDay(dayOffset int) bool {
	return dayOffset%3 == 1
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
