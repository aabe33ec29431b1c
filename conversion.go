/*
 * conversion.go, part of confcat.
 *
 * Copyright 2026 The confcat authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package conf

import (
	"fmt"
	"strconv"
)

//Units and conversion factors.

// Default units for the values in directory names.
const (
	DefaultPressureUnit    = "GPa"
	DefaultTemperatureUnit = "K"
)

//Pressure units, in GPa
var pressureFactors = map[string]float64{
	"GPa":  1,
	"MPa":  1e-3,
	"Pa":   1e-9,
	"Mbar": 100,
	"kbar": 0.1,
	"bar":  1e-4,
	"atm":  1.01325e-4,
}

//Temperature units, in K. Only scale factors, so no Celsius.
var temperatureFactors = map[string]float64{
	"K":  1,
	"eV": 11604.518,
}

// Units are the units attached to the values read from directory names.
type Units struct {
	Pressure    string
	Temperature string
}

// DefaultUnits returns GPa and K.
func DefaultUnits() Units {
	return Units{Pressure: DefaultPressureUnit, Temperature: DefaultTemperatureUnit}
}

// Check returns an error if either unit is not known.
func (U Units) Check() error {
	if _, ok := pressureFactors[U.Pressure]; !ok {
		return fmt.Errorf("unknown pressure unit %q", U.Pressure)
	}
	if _, ok := temperatureFactors[U.Temperature]; !ok {
		return fmt.Errorf("unknown temperature unit %q", U.Temperature)
	}
	return nil
}

// Quantity is a value with a unit tag.
type Quantity struct {
	Value float64
	Unit  string
}

// Q returns a Quantity with the value v and unit u.
// Just a less verbose way of writing the literal.
func Q(v float64, u string) Quantity {
	return Quantity{Value: v, Unit: u}
}

func (V Quantity) String() string {
	if V.Unit == "" {
		return strconv.FormatFloat(V.Value, 'g', -1, 64)
	}
	return strconv.FormatFloat(V.Value, 'g', -1, 64) + " " + V.Unit
}

// In converts the quantity to the given unit. Pressures convert to pressures, temperatures to
// temperatures, anything else is an error.
func (V Quantity) In(unit string) (Quantity, error) {
	if unit == V.Unit {
		return V, nil
	}
	for _, table := range []map[string]float64{pressureFactors, temperatureFactors} {
		from, ok1 := table[V.Unit]
		to, ok2 := table[unit]
		if ok1 && ok2 {
			return Quantity{Value: V.Value * from / to, Unit: unit}, nil
		}
	}
	return Quantity{}, fmt.Errorf("can't convert %s to %s", V.Unit, unit)
}
