package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/kilianp07/bikecast/core/generator"
)

// GeneratorConfig holds the dataset parameters.
type GeneratorConfig struct {
	Stations  int    `json:"stations" validate:"min=1,max=5"`
	Days      int    `json:"days" validate:"min=1"`
	StartDate string `json:"start_date"`
	StartHour int    `json:"start_hour"`
	EndHour   int    `json:"end_hour"`
	Seed      int64  `json:"seed"`
}

// DefaultGenerator returns the command line defaults.
func DefaultGenerator() GeneratorConfig {
	p := generator.DefaultParams()
	return GeneratorConfig{
		Stations:  p.Stations,
		Days:      p.Days,
		StartDate: p.StartDate,
		StartHour: p.StartHour,
		EndHour:   p.EndHour,
		Seed:      p.Seed,
	}
}

// Params converts the configuration into generator parameters.
func (c GeneratorConfig) Params() generator.Params {
	return generator.Params{
		Stations:  c.Stations,
		Days:      c.Days,
		StartDate: c.StartDate,
		StartHour: c.StartHour,
		EndHour:   c.EndHour,
		Seed:      c.Seed,
	}
}

// Validate checks the ranges accepted by the command line. The start date and
// the hour window are left to the generator, which reports them as errors.
func (c GeneratorConfig) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	return &RangeError{Field: verrs[0].Field(), msg: rangeMessage(verrs[0])}
}

// RangeError reports a parameter outside its accepted range.
type RangeError struct {
	Field string
	msg   string
}

func (e *RangeError) Error() string { return e.msg }

func rangeMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Stations":
		return "Number of stations must be between 1 and 5"
	case "Days":
		return "Number of days must be at least 1"
	default:
		return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
	}
}
