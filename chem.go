/*
 * chem.go, part of confcat.
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
	"strings"

	v3 "github.com/rmera/confcat/v3"
)

// Atom is one entry of an atomic sample: an element symbol and its
// cartesian coordinates.
type Atom struct {
	Symbol string
	X      float64
	Y      float64
	Z      float64
}

func (A Atom) check() *MalformedSampleError {
	if A.Symbol == "" {
		return newMalformed(0, "atom with empty symbol")
	}
	if strings.ContainsAny(A.Symbol, " \t\n\r") {
		return newMalformed(0, "atom symbol %q contains whitespace", A.Symbol)
	}
	for _, v := range [3]float64{A.X, A.Y, A.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return newMalformed(0, "atom %s has a non-finite coordinate", A.Symbol)
		}
	}
	return nil
}

// Sample is the set of atoms read from one coordinate file, in file order,
// plus the comment line, if any.
type Sample struct {
	Comment string
	Atoms   []Atom
}

// Len returns the number of atoms in the sample.
func (S *Sample) Len() int {
	return len(S.Atoms)
}

// Copy returns a deep copy of the sample.
func (S *Sample) Copy() *Sample {
	if S == nil {
		return nil
	}
	ret := &Sample{Comment: S.Comment, Atoms: make([]Atom, len(S.Atoms))}
	copy(ret.Atoms, S.Atoms)
	return ret
}

// Coords returns the coordinates of the sample as a matrix with one
// row per atom. It returns nil for an empty sample.
func (S *Sample) Coords() *v3.Matrix {
	if len(S.Atoms) == 0 {
		return nil
	}
	data := make([]float64, 0, 3*len(S.Atoms))
	for _, a := range S.Atoms {
		data = append(data, a.X, a.Y, a.Z)
	}
	m, err := v3.NewMatrix(data)
	if err != nil {
		panic(err.Error()) //can't happen, the slice always has 3N elements.
	}
	return m
}

// Validate returns an error if any atom in the sample has an empty symbol
// or non-finite coordinates.
func (S *Sample) Validate() error {
	for i, a := range S.Atoms {
		if err := a.check(); err != nil {
			err.Message = fmt.Sprintf("atom %d: %s", i+1, err.Message)
			return err
		}
	}
	return nil
}
