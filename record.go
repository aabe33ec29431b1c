/*
 * record.go, part of confcat.
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
	"math"
	"regexp"
	"strings"

	v3 "github.com/rmera/confcat/v3"
)

// State is the thermodynamic phase of a configuration, if known.
type State string

const (
	StateUnknown State = ""
	Solid        State = "solid"
	Liquid       State = "liquid"
)

// ParseState reads a state name. Anything other than solid or liquid
// (case-insensitive) gives StateUnknown.
func ParseState(s string) State {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "solid":
		return Solid
	case "liquid":
		return Liquid
	}
	return StateUnknown
}

//key=value and key="some value" pairs in extended XYZ comment lines.
var propertyRe = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_.:-]*)=("([^"]*)"|[^\s"]+)`)

// Properties reads the key=value pairs in an (extended XYZ) comment line. It
// returns nil if there are none.
func Properties(comment string) map[string]string {
	m := propertyRe.FindAllStringSubmatch(comment, -1)
	if len(m) == 0 {
		return nil
	}
	ret := make(map[string]string, len(m))
	for _, v := range m {
		val := v[2]
		if strings.HasPrefix(val, `"`) {
			val = v[3]
		}
		ret[v[1]] = val
	}
	return ret
}

// Record is one parsed sample plus the metadata derived from where it came
// from. A Record can only be built with NewRecord, and doesn't change after that.
type Record struct {
	id          string
	source      string
	pressure    Quantity
	temperature Quantity
	sample      *Sample
	composition Composition
	properties  map[string]string
}

// NewRecord builds a record from the sample, the pressure and temperature of the directory
// it was found in, and the name of its source file. The identifier is the source base name
// without extension. The sample is copied.
func NewRecord(sample *Sample, pressure, temperature Quantity, source string) (*Record, error) {
	if sample == nil {
		return nil, fmt.Errorf("NewRecord: given nil sample")
	}
	id := Identifier(source)
	if id == "" {
		return nil, fmt.Errorf("NewRecord: can't get an identifier from source name %q", source)
	}
	for _, q := range [2]Quantity{pressure, temperature} {
		if math.IsNaN(q.Value) || math.IsInf(q.Value, 0) {
			return nil, fmt.Errorf("NewRecord: %v is not a finite value", q.Value)
		}
	}
	if err := sample.Validate(); err != nil {
		var me = err.(*MalformedSampleError)
		me.File = source
		me.Decorate("NewRecord")
		return nil, me
	}
	s := sample.Copy()
	return &Record{
		id:          id,
		source:      filepathBase(source),
		pressure:    pressure,
		temperature: temperature,
		sample:      s,
		composition: CompositionOf(s.Atoms),
		properties:  Properties(s.Comment),
	}, nil
}

// ID returns the record identifier.
func (R *Record) ID() string { return R.id }

// Source returns the base name of the file the record was read from.
func (R *Record) Source() string { return R.source }

// Pressure returns the pressure of the record, with its unit.
func (R *Record) Pressure() Quantity { return R.pressure }

// Temperature returns the temperature of the record, with its unit.
func (R *Record) Temperature() Quantity { return R.temperature }

// Comment returns the comment line of the source file.
func (R *Record) Comment() string { return R.sample.Comment }

// Len returns the number of atoms.
func (R *Record) Len() int { return len(R.sample.Atoms) }

// Atoms returns a copy of the atoms, in file order.
func (R *Record) Atoms() []Atom {
	ret := make([]Atom, len(R.sample.Atoms))
	copy(ret, R.sample.Atoms)
	return ret
}

// Atom returns the atom with index i. It panics if i is out of range.
func (R *Record) Atom(i int) Atom {
	return R.sample.Atoms[i]
}

// Sample returns a copy of the sample the record holds.
func (R *Record) Sample() *Sample { return R.sample.Copy() }

// Composition returns a copy of the number of atoms per element.
func (R *Record) Composition() Composition { return R.composition.Copy() }

// Properties returns a copy of the key=value pairs read from the comment line or nil.
func (R *Record) Properties() map[string]string {
	if R.properties == nil {
		return nil
	}
	ret := make(map[string]string, len(R.properties))
	for k, v := range R.properties {
		ret[k] = v
	}
	return ret
}

// State returns the state given in the comment line ("state=liquid"), if any.
func (R *Record) State() State {
	return ParseState(R.properties["state"])
}

// Coords returns the coordinates as a matrix, one row per atom, or nil if the record has no atoms.
func (R *Record) Coords() *v3.Matrix {
	return R.sample.Coords()
}

// Equal returns true if both records hold the same data. Floats are compared
// bit by bit.
func (R *Record) Equal(O *Record) bool {
	if R == nil || O == nil {
		return R == O
	}
	if R.id != O.id || R.source != O.source || R.sample.Comment != O.sample.Comment {
		return false
	}
	if !sameQuantity(R.pressure, O.pressure) || !sameQuantity(R.temperature, O.temperature) {
		return false
	}
	if len(R.sample.Atoms) != len(O.sample.Atoms) || !R.composition.Equal(O.composition) {
		return false
	}
	for i, a := range R.sample.Atoms {
		b := O.sample.Atoms[i]
		if a.Symbol != b.Symbol || !sameFloat(a.X, b.X) || !sameFloat(a.Y, b.Y) || !sameFloat(a.Z, b.Z) {
			return false
		}
	}
	return true
}

// Summary returns a one-line, human-readable description of the record.
func Summary(R *Record) string {
	formula := R.composition.Formula()
	if formula == "" {
		formula = "(no atoms)"
	}
	s := fmt.Sprintf("%s  P=%s  T=%s  %s", R.id, R.pressure, R.temperature, formula)
	if st := R.State(); st != StateUnknown {
		s += "  " + string(st)
	}
	return s
}

func (R *Record) String() string {
	return Summary(R)
}

func sameQuantity(a, b Quantity) bool {
	return a.Unit == b.Unit && sameFloat(a.Value, b.Value)
}

func sameFloat(a, b float64) bool {
	return math.Float64bits(a) == math.Float64bits(b)
}

func filepathBase(s string) string {
	i := strings.LastIndexAny(s, "/\\")
	return s[i+1:]
}
