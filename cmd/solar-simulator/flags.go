package main

import (
	"strconv"

	"github.com/iwvelando/solar-simulator/internal/simulator"
)

// optionalFloat is a flag that remembers whether it was set, so an omitted
// input falls back to the configured default instead of zero.
type optionalFloat struct {
	value *float64
}

func (o *optionalFloat) String() string {
	if o == nil || o.value == nil {
		return ""
	}
	return strconv.FormatFloat(*o.value, 'f', -1, 64)
}

func (o *optionalFloat) Set(raw string) error {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	o.value = &v
	return nil
}

type inputFlags struct {
	bill        float64
	consumption optionalFloat
	tariff      optionalFloat
	irradiation optionalFloat
	roofArea    optionalFloat
	tariffFlag  string
}

// input converts the parsed flags into simulator input.
func (f *inputFlags) input() (simulator.Input, error) {
	parsedFlag, err := simulator.ParseTariffFlag(f.tariffFlag)
	if err != nil {
		return simulator.Input{}, err
	}
	return simulator.Input{
		MonthlyBill:        f.bill,
		MonthlyConsumption: f.consumption.value,
		Tariff:             f.tariff.value,
		Irradiation:        f.irradiation.value,
		RoofArea:           f.roofArea.value,
		TariffFlag:         parsedFlag,
	}, nil
}
