package simulator

import "fmt"

// ConsumptionRange buckets a household by monthly consumption.
type ConsumptionRange int

const (
	ConsumptionLow ConsumptionRange = iota
	ConsumptionMedium
	ConsumptionHigh
	ConsumptionVeryHigh
)

// Upper bounds, in kWh per month, of each range. VeryHigh is unbounded.
const (
	lowConsumptionMax    = 150.0
	mediumConsumptionMax = 400.0
	highConsumptionMax   = 800.0
)

// ClassifyConsumption returns the range monthly kWh falls into.
func ClassifyConsumption(kwh float64) ConsumptionRange {
	switch {
	case kwh <= lowConsumptionMax:
		return ConsumptionLow
	case kwh <= mediumConsumptionMax:
		return ConsumptionMedium
	case kwh <= highConsumptionMax:
		return ConsumptionHigh
	default:
		return ConsumptionVeryHigh
	}
}

func (c ConsumptionRange) String() string {
	switch c {
	case ConsumptionLow:
		return "low"
	case ConsumptionMedium:
		return "medium"
	case ConsumptionHigh:
		return "high"
	case ConsumptionVeryHigh:
		return "very_high"
	}
	return fmt.Sprintf("ConsumptionRange(%d)", int(c))
}

// Label is the display name of the range.
func (c ConsumptionRange) Label() string {
	switch c {
	case ConsumptionLow:
		return "Low Consumption"
	case ConsumptionMedium:
		return "Medium Consumption"
	case ConsumptionHigh:
		return "High Consumption"
	case ConsumptionVeryHigh:
		return "Very High Consumption"
	}
	return ""
}

// MarshalText implements encoding.TextMarshaler.
func (c ConsumptionRange) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ConsumptionRange) UnmarshalText(text []byte) error {
	for r := ConsumptionLow; r <= ConsumptionVeryHigh; r++ {
		if r.String() == string(text) {
			*c = r
			return nil
		}
	}
	return fmt.Errorf("unknown consumption range %q", string(text))
}
