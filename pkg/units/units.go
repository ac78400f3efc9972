// Package units converts raw one-wire readings (thousandths of a degree
// Celsius) into the units a sensor reports in.
package units

import (
	"regexp"
	"strings"

	"liyu1981.xyz/w1-temperature-service/pkg/common"
	"liyu1981.xyz/w1-temperature-service/pkg/models"
)

var unitPattern = regexp.MustCompile(`^[cCfF]`)

// ParseUnit normalizes user input to models.UnitCelsius or models.UnitFahrenheit.
// Only the leading letter is significant, so "celsius" and "f" are accepted.
func ParseUnit(input string) (models.Unit, error) {
	match := unitPattern.FindString(input)
	if match == "" {
		return "", &common.ConfigError{
			Field:  "unit",
			Value:  input,
			Reason: "has to be F or C representing Fahrenheit or Celsius",
		}
	}
	return models.Unit(strings.ToUpper(match)), nil
}

func Celsius(rawMilliDegrees int64) float64 {
	return float64(rawMilliDegrees) / 1000.0
}

func Fahrenheit(celsius float64) float64 {
	return celsius*9.0/5.0 + 32.0
}

// InUnit picks the value a sensor declared in unit reports for celsius.
func InUnit(unit models.Unit, celsius float64) float64 {
	if unit == models.UnitFahrenheit {
		return Fahrenheit(celsius)
	}
	return celsius
}

// Converted carries a raw reading in every unit we report.
type Converted struct {
	Raw        int64
	Celsius    float64
	Fahrenheit float64
}

func Convert(rawMilliDegrees int64) Converted {
	c := Celsius(rawMilliDegrees)
	return Converted{
		Raw:        rawMilliDegrees,
		Celsius:    c,
		Fahrenheit: Fahrenheit(c),
	}
}

// In returns the value for unit.
func (c Converted) In(unit models.Unit) float64 {
	if unit == models.UnitFahrenheit {
		return c.Fahrenheit
	}
	return c.Celsius
}
