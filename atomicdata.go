/*
 * atomicdata.go, part of confcat.
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
	"sort"
	"strconv"
	"strings"
)

//A map for assigning mass (in amu) to elements.
//Only the first rows and the usual suspects from high-pressure work are present.
var symbolMass = map[string]float64{
	"H":  1.008,
	"D":  2.014,
	"He": 4.0026,
	"Li": 6.94,
	"Be": 9.012,
	"B":  10.81,
	"C":  12.011,
	"N":  14.007,
	"O":  15.999,
	"F":  18.998,
	"Ne": 20.180,
	"Na": 22.990,
	"Mg": 24.305,
	"Al": 26.982,
	"Si": 28.085,
	"P":  30.974,
	"S":  32.06,
	"Cl": 35.45,
	"Ar": 39.948,
	"K":  39.098,
	"Ca": 40.078,
	"Ti": 47.867,
	"Cr": 51.996,
	"Mn": 54.938,
	"Fe": 55.845,
	"Co": 58.933,
	"Ni": 58.693,
	"Cu": 63.546,
	"Zn": 65.38,
	"Ge": 72.630,
	"Se": 78.971,
	"Br": 79.904,
	"Kr": 83.798,
	"Xe": 131.29,
	"I":  126.90,
	"W":  183.84,
	"Pt": 195.08,
	"Au": 196.97,
}

// Mass returns the atomic mass, in amu, of the element with the given symbol,
// and false if the element is not in the table.
func Mass(symbol string) (float64, bool) {
	m, ok := symbolMass[symbol]
	return m, ok
}

// Composition maps element symbols to the number of atoms of that element.
type Composition map[string]int

// CompositionOf counts the atoms of each element in atoms.
func CompositionOf(atoms []Atom) Composition {
	c := make(Composition)
	for _, a := range atoms {
		c[a.Symbol]++
	}
	return c
}

// Total returns the total number of atoms.
func (C Composition) Total() int {
	n := 0
	for _, v := range C {
		n += v
	}
	return n
}

// Symbols returns the elements present, in Hill order (C, then H,
// then everything else alphabetically; alphabetical if there is no carbon).
func (C Composition) Symbols() []string {
	ret := make([]string, 0, len(C))
	for k := range C {
		ret = append(ret, k)
	}
	_, carbon := C["C"]
	rank := func(s string) int {
		if !carbon {
			return 2
		}
		switch s {
		case "C":
			return 0
		case "H":
			return 1
		}
		return 2
	}
	sort.Slice(ret, func(i, j int) bool {
		ri, rj := rank(ret[i]), rank(ret[j])
		if ri != rj {
			return ri < rj
		}
		return ret[i] < ret[j]
	})
	return ret
}

// Formula returns the empirical formula, i.e. "H128" or "CH4". An empty
// composition gives an empty string.
func (C Composition) Formula() string {
	var b strings.Builder
	for _, s := range C.Symbols() {
		b.WriteString(s)
		if n := C[s]; n != 1 {
			b.WriteString(strconv.Itoa(n))
		}
	}
	return b.String()
}

// Mass returns the total mass in amu. It fails if any element is missing from the
// mass table.
func (C Composition) Mass() (float64, error) {
	var m float64
	for _, s := range C.Symbols() {
		sm, ok := symbolMass[s]
		if !ok {
			return 0, fmt.Errorf("no mass known for element %q", s)
		}
		m += sm * float64(C[s])
	}
	return m, nil
}

// Equal returns true if both compositions have the same elements with the same counts.
func (C Composition) Equal(D Composition) bool {
	if len(C) != len(D) {
		return false
	}
	for k, v := range C {
		if w, ok := D[k]; !ok || w != v {
			return false
		}
	}
	return true
}

// Copy returns an independent copy of the composition.
func (C Composition) Copy() Composition {
	ret := make(Composition, len(C))
	for k, v := range C {
		ret[k] = v
	}
	return ret
}
