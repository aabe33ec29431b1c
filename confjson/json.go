/*
 * json.go, part of confcat.
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

package confjson

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	conf "github.com/rmera/confcat"
)

//Header is the first line of a serialized record.
type Header struct {
	ID              string
	Source          string
	Pressure        float64
	PressureUnit    string
	Temperature     float64
	TemperatureUnit string
	Comment         string
	Atoms           int //number of atom lines that follow
	Formula         string
	State           string            `json:",omitempty"`
	Properties      map[string]string `json:",omitempty"`
}

//A ready-to-serialize atom. Each one is followed by a Coords line.
type Atom struct {
	Symbol string
}

//A ready-to-serialize container for coordinates
type Coords struct {
	Coords []float64
}

//An easily JSON-serializable error type,
type Error struct {
	deco     []string
	IsError  bool //If this is false (no error) all the other fields will be at their zero-values.
	InHeader bool //was it in the header line?
	InAtoms  bool //or in the atoms?
	Atom     int
	Function string //which go function gave the error
	Message  string //the error itself
}

//Error implements the error interface
func (J *Error) Error() string {
	return J.Message
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (J *Error) Decorate(dec string) []string {
	if dec == "" {
		return J.deco
	}
	J.deco = append(J.deco, dec)
	return J.deco
}

//Serializes the error. Panics on failure.
func (J *Error) Marshal() []byte {
	ret, err2 := json.Marshal(J)
	if err2 != nil {
		panic(strings.Join([]string{J.Error(), err2.Error()}, " - "))
	}
	return ret
}

//Takes an error and some additional info to create a json-marshal-ble error
func NewError(where, function string, err error) *Error {
	jerr := new(Error)
	jerr.IsError = true
	switch where {
	case "header":
		jerr.InHeader = true
	case "atoms":
		jerr.InAtoms = true
	}
	jerr.Function = function
	jerr.Message = err.Error()
	return jerr
}

//SendRecord encodes r and writes it to out, one JSON object per line: the header,
//then an Atom and a Coords line for each atom.
func SendRecord(r *conf.Record, out io.Writer) *Error {
	const funcname = "SendRecord"
	enc := json.NewEncoder(out)
	h := &Header{
		ID:              r.ID(),
		Source:          r.Source(),
		Pressure:        r.Pressure().Value,
		PressureUnit:    r.Pressure().Unit,
		Temperature:     r.Temperature().Value,
		TemperatureUnit: r.Temperature().Unit,
		Comment:         r.Comment(),
		Atoms:           r.Len(),
		Formula:         r.Composition().Formula(),
		State:           string(r.State()),
		Properties:      r.Properties(),
	}
	if err := enc.Encode(h); err != nil {
		return NewError("header", funcname, err)
	}
	at := new(Atom)
	c := &Coords{Coords: make([]float64, 3)}
	for i := 0; i < r.Len(); i++ {
		a := r.Atom(i)
		at.Symbol = a.Symbol
		if err := enc.Encode(at); err != nil {
			e := NewError("atoms", funcname, err)
			e.Atom = i
			return e
		}
		c.Coords[0], c.Coords[1], c.Coords[2] = a.X, a.Y, a.Z
		if err := enc.Encode(c); err != nil {
			e := NewError("atoms", funcname, err)
			e.Atom = i
			return e
		}
	}
	return nil
}

//upper bound for the atoms preallocated from the count in a header.
const maxPrealloc = 1 << 16

//DecodeRecord reads a record written by SendRecord from stream. The record is
//validated as any other.
func DecodeRecord(stream *bufio.Reader) (*conf.Record, *Error) {
	const funcname = "DecodeRecord"
	line, err := stream.ReadBytes('\n')
	if err != nil && (err != io.EOF || len(line) == 0) {
		return nil, NewError("header", funcname, err)
	}
	h := new(Header)
	if err := json.Unmarshal(line, h); err != nil {
		return nil, NewError("header", funcname, err)
	}
	if h.Atoms < 0 {
		return nil, NewError("header", funcname, fmt.Errorf("negative number of atoms: %d", h.Atoms))
	}
	atoms := make([]conf.Atom, 0, min(h.Atoms, maxPrealloc))
	for i := 0; i < h.Atoms; i++ {
		var a conf.Atom
		at := new(Atom)
		c := new(Coords)
		if err := decodeLine(stream, at); err != nil {
			e := NewError("atoms", funcname, err)
			e.Atom = i
			return nil, e
		}
		if err := decodeLine(stream, c); err != nil {
			e := NewError("atoms", funcname, err)
			e.Atom = i
			return nil, e
		}
		if len(c.Coords) != 3 {
			e := NewError("atoms", funcname, fmt.Errorf("atom %d has %d coordinates", i, len(c.Coords)))
			e.Atom = i
			return nil, e
		}
		a.Symbol = at.Symbol
		a.X, a.Y, a.Z = c.Coords[0], c.Coords[1], c.Coords[2]
		atoms = append(atoms, a)
	}
	r, err := conf.NewRecord(&conf.Sample{Comment: h.Comment, Atoms: atoms},
		conf.Q(h.Pressure, h.PressureUnit), conf.Q(h.Temperature, h.TemperatureUnit), h.Source)
	if err != nil {
		return nil, NewError("atoms", funcname, err)
	}
	if r.ID() != h.ID {
		return nil, NewError("header", funcname, fmt.Errorf("identifier %q doesn't match source %q", h.ID, h.Source))
	}
	return r, nil
}

func decodeLine(stream *bufio.Reader, v any) error {
	line, err := stream.ReadBytes('\n')
	if err != nil && (err != io.EOF || len(line) == 0) {
		return err
	}
	return json.Unmarshal(line, v)
}

//Information on a container, to be passed to the calling program.
type Info struct {
	ID              string
	File            string
	Size            int64
	Records         int
	PressureUnit    string
	TemperatureUnit string
	Groups          []Group
}

//A pressure/temperature group and the number of records in it.
type Group struct {
	Pressure    float64
	Temperature float64
	Records     int
}

//Send Marshals the info and writes to out, returns an error or nil
func (J *Info) Send(out io.Writer) *Error {
	enc := json.NewEncoder(out)
	if err := enc.Encode(J); err != nil {
		return NewError("header", "Info.Send", err)
	}
	return nil
}
