// Package simulator computes rooftop solar economics from a monthly
// electricity bill: system sizing, cost, savings, payback and financing.
package simulator

import (
	"fmt"
	"strings"

	"github.com/iwvelando/solar-simulator/internal/config"
)

// Input holds the values a user submits. Optional fields are nil when the
// user left them blank.
type Input struct {
	MonthlyBill        float64    `json:"monthlyBill"`
	MonthlyConsumption *float64   `json:"monthlyConsumption,omitempty"` // kWh
	Tariff             *float64   `json:"tariff,omitempty"`             // currency/kWh
	Irradiation        *float64   `json:"irradiation,omitempty"`        // kWh/m²/day
	RoofArea           *float64   `json:"roofArea,omitempty"`           // m²
	TariffFlag         TariffFlag `json:"tariffFlag,omitempty"`
}

// ResolvedInput is an Input with every default applied. The calculator only
// ever sees resolved values.
type ResolvedInput struct {
	MonthlyBill        float64    `json:"monthlyBill"`
	MonthlyConsumption float64    `json:"monthlyConsumption"`
	Tariff             float64    `json:"tariff"`
	Irradiation        float64    `json:"irradiation"`
	RoofArea           *float64   `json:"roofArea,omitempty"`
	TariffFlag         TariffFlag `json:"tariffFlag,omitempty"`
}

// Resolve applies configuration defaults to in. Consumption is derived from
// the bill when absent, priced at the tariff adjusted for the tariff flag.
func Resolve(in Input, conf config.Simulator) ResolvedInput {
	resolved := ResolvedInput{
		MonthlyBill: in.MonthlyBill,
		Tariff:      conf.DefaultTariff,
		Irradiation: conf.DefaultIrradiation,
		RoofArea:    in.RoofArea,
		TariffFlag:  in.TariffFlag,
	}
	if in.Tariff != nil {
		resolved.Tariff = *in.Tariff
	}
	if in.Irradiation != nil {
		resolved.Irradiation = *in.Irradiation
	}

	if in.MonthlyConsumption != nil && *in.MonthlyConsumption != 0 {
		resolved.MonthlyConsumption = *in.MonthlyConsumption
	} else {
		resolved.MonthlyConsumption = in.MonthlyBill / resolved.EffectiveTariff()
	}
	return resolved
}

// EffectiveTariff is the tariff including the tariff flag surcharge.
func (r ResolvedInput) EffectiveTariff() float64 {
	return r.Tariff * r.TariffFlag.Multiplier()
}

// TariffFlag is the monthly surcharge level announced by the grid regulator.
// The zero value means no flag was given.
type TariffFlag int

const (
	FlagNone TariffFlag = iota
	FlagGreen
	FlagYellow
	FlagRed1
	FlagRed2
)

var tariffFlags = []struct {
	flag       TariffFlag
	name       string
	label      string
	multiplier float64
}{
	{FlagGreen, "green", "Green Flag", 1.00},
	{FlagYellow, "yellow", "Yellow Flag", 1.05},
	{FlagRed1, "red1", "Red Flag 1", 1.10},
	{FlagRed2, "red2", "Red Flag 2", 1.15},
}

// TariffFlags lists every known flag in surcharge order.
func TariffFlags() []TariffFlag {
	flags := make([]TariffFlag, 0, len(tariffFlags))
	for _, f := range tariffFlags {
		flags = append(flags, f.flag)
	}
	return flags
}

// ParseTariffFlag maps a flag name such as "yellow" to its TariffFlag. An
// empty name is FlagNone.
func ParseTariffFlag(name string) (TariffFlag, error) {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	if trimmed == "" {
		return FlagNone, nil
	}
	for _, f := range tariffFlags {
		if f.name == trimmed {
			return f.flag, nil
		}
	}
	return FlagNone, fmt.Errorf("unknown tariff flag %q", name)
}

// Valid reports whether f is FlagNone or a known flag.
func (f TariffFlag) Valid() bool {
	return f >= FlagNone && f <= FlagRed2
}

// Multiplier is the factor applied to the base tariff. FlagNone and unknown
// values apply no surcharge.
func (f TariffFlag) Multiplier() float64 {
	for _, entry := range tariffFlags {
		if entry.flag == f {
			return entry.multiplier
		}
	}
	return 1.0
}

// Label is the display name of the flag.
func (f TariffFlag) Label() string {
	for _, entry := range tariffFlags {
		if entry.flag == f {
			return entry.label
		}
	}
	return ""
}

func (f TariffFlag) String() string {
	for _, entry := range tariffFlags {
		if entry.flag == f {
			return entry.name
		}
	}
	if f == FlagNone {
		return ""
	}
	return fmt.Sprintf("TariffFlag(%d)", int(f))
}

// MarshalText implements encoding.TextMarshaler.
func (f TariffFlag) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("invalid tariff flag %d", int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *TariffFlag) UnmarshalText(text []byte) error {
	parsed, err := ParseTariffFlag(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
