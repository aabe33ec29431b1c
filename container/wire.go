/*
 * wire.go, part of confcat.
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

package container

import (
	"bytes"
	"fmt"
	"math"
	"sort"

	conf "github.com/rmera/confcat"
	"google.golang.org/protobuf/encoding/protowire"
)

/***
Layout of the uncompressed payload:

	"CONFCAT" version(1 byte) Container

where Container and everything under it are protocol buffer wire-format messages:

	Container        { 1: Header; 2: repeated PressureGroup }
	Header           { 1: id string; 2: pressure unit; 3: temperature unit }
	PressureGroup    { 1: key string; 2: repeated TemperatureGroup }
	TemperatureGroup { 1: key string; 2: repeated Record }
	Record           { 1: id; 2: source; 3: pressure (fixed64 float bits); 4: pressure unit;
	                   5: temperature (fixed64); 6: temperature unit; 7: comment;
	                   8: repeated Atom; 9: repeated Element; 10: repeated Property }
	Atom             { 1: symbol; 2: x; 3: y; 4: z (fixed64 float bits) }
	Element          { 1: symbol; 2: count (varint) }
	Property         { 1: key; 2: value }

Groups are written in increasing numeric order, records by identifier, properties by key,
elements in Hill order, so the same content always gives the same bytes.
Unknown fields are skipped when reading.
***/

const (
	magic   = "CONFCAT"
	version = 1
)

type header struct {
	id    string
	units conf.Units
}

//decoded container content.
type payload struct {
	header
	groups tree
}

//tree is pressure key -> temperature key -> identifier -> record
type tree map[string]map[string]map[string]*conf.Record

func appendString(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendFloat(b []byte, num protowire.Number, f float64) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(f))
}

func appendMessage(b []byte, num protowire.Number, m []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m)
}

func encodePayload(h header, t tree) []byte {
	b := append([]byte(magic), version)
	var hb []byte
	hb = appendString(hb, 1, h.id)
	hb = appendString(hb, 2, h.units.Pressure)
	hb = appendString(hb, 3, h.units.Temperature)
	b = appendMessage(b, 1, hb)
	for _, pk := range sortedKeys(t) {
		var pb []byte
		pb = appendString(pb, 1, pk)
		for _, tk := range sortedKeys(t[pk]) {
			var tb []byte
			tb = appendString(tb, 1, tk)
			recs := t[pk][tk]
			ids := make([]string, 0, len(recs))
			for id := range recs {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				tb = appendMessage(tb, 2, encodeRecord(recs[id]))
			}
			pb = appendMessage(pb, 2, tb)
		}
		b = appendMessage(b, 2, pb)
	}
	return b
}

func encodeRecord(r *conf.Record) []byte {
	var b []byte
	b = appendString(b, 1, r.ID())
	b = appendString(b, 2, r.Source())
	b = appendFloat(b, 3, r.Pressure().Value)
	b = appendString(b, 4, r.Pressure().Unit)
	b = appendFloat(b, 5, r.Temperature().Value)
	b = appendString(b, 6, r.Temperature().Unit)
	b = appendString(b, 7, r.Comment())
	for i := 0; i < r.Len(); i++ {
		a := r.Atom(i)
		var ab []byte
		ab = appendString(ab, 1, a.Symbol)
		ab = appendFloat(ab, 2, a.X)
		ab = appendFloat(ab, 3, a.Y)
		ab = appendFloat(ab, 4, a.Z)
		b = appendMessage(b, 8, ab)
	}
	comp := r.Composition()
	for _, s := range comp.Symbols() {
		var eb []byte
		eb = appendString(eb, 1, s)
		eb = protowire.AppendTag(eb, 2, protowire.VarintType)
		eb = protowire.AppendVarint(eb, uint64(comp[s]))
		b = appendMessage(b, 9, eb)
	}
	props := r.Properties()
	for _, k := range sortedKeys(props) {
		var kb []byte
		kb = appendString(kb, 1, k)
		kb = appendString(kb, 2, props[k])
		b = appendMessage(b, 10, kb)
	}
	return b
}

//sortedKeys returns the keys of m. Keys that are numbers go first, in numeric order.
func sortedKeys[V any](m map[string]V) []string {
	ret := make([]string, 0, len(m))
	for k := range m {
		ret = append(ret, k)
	}
	sort.Slice(ret, func(i, j int) bool { return keyLess(ret[i], ret[j]) })
	return ret
}

//field reader

type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

//walkFields calls f for every field in the message b. f returns the number of bytes it consumed,
//or -1 to have the field skipped.
func walkFields(b []byte, f fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		m, err := f(num, typ, b)
		if err != nil {
			return err
		}
		if m < 0 {
			m = protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return protowire.ParseError(m)
			}
		}
		b = b[m:]
	}
	return nil
}

//expect checks the wire type of a known field before it is read.
func expect(num protowire.Number, got, want protowire.Type) error {
	if got != want {
		return fmt.Errorf("field %d: wrong wire type %d", num, got)
	}
	return nil
}

func consumeString(num protowire.Number, typ protowire.Type, b []byte, dst *string) (int, error) {
	if err := expect(num, typ, protowire.BytesType); err != nil {
		return 0, err
	}
	s, n := protowire.ConsumeString(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = s
	return n, nil
}

func consumeFloat(num protowire.Number, typ protowire.Type, b []byte, dst *float64) (int, error) {
	if err := expect(num, typ, protowire.Fixed64Type); err != nil {
		return 0, err
	}
	v, n := protowire.ConsumeFixed64(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = math.Float64frombits(v)
	return n, nil
}

func consumeMessage(num protowire.Number, typ protowire.Type, b []byte, f func([]byte) error) (int, error) {
	if err := expect(num, typ, protowire.BytesType); err != nil {
		return 0, err
	}
	m, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	return n, f(m)
}

func decodePayload(data []byte) (*payload, error) {
	if !bytes.HasPrefix(data, []byte(magic)) || len(data) < len(magic)+1 {
		return nil, fmt.Errorf("%w: not a confcat container", ErrCorrupt)
	}
	if v := data[len(magic)]; v != version {
		return nil, fmt.Errorf("%w: unsupported container version %d", ErrCorrupt, v)
	}
	p := &payload{groups: make(tree)}
	var sawHeader bool
	err := walkFields(data[len(magic)+1:], func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			sawHeader = true
			return consumeMessage(num, typ, b, func(m []byte) error { return decodeHeader(m, &p.header) })
		case 2:
			return consumeMessage(num, typ, b, func(m []byte) error { return decodePressureGroup(m, p) })
		}
		return -1, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCorrupt, err.Error())
	}
	if !sawHeader {
		return nil, fmt.Errorf("%w: missing header", ErrCorrupt)
	}
	return p, nil
}

func decodeHeader(b []byte, h *header) error {
	return walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(num, typ, b, &h.id)
		case 2:
			return consumeString(num, typ, b, &h.units.Pressure)
		case 3:
			return consumeString(num, typ, b, &h.units.Temperature)
		}
		return -1, nil
	})
}

func decodePressureGroup(b []byte, p *payload) error {
	var key string
	var temps [][]byte
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(num, typ, b, &key)
		case 2:
			return consumeMessage(num, typ, b, func(m []byte) error { temps = append(temps, m); return nil })
		}
		return -1, nil
	})
	if err != nil {
		return err
	}
	for _, t := range temps {
		if err := decodeTemperatureGroup(t, key, p); err != nil {
			return err
		}
	}
	return nil
}

func decodeTemperatureGroup(b []byte, pkey string, p *payload) error {
	var key string
	var recs []*conf.Record
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(num, typ, b, &key)
		case 2:
			return consumeMessage(num, typ, b, func(m []byte) error {
				r, err := decodeRecord(m)
				if err != nil {
					return err
				}
				recs = append(recs, r)
				return nil
			})
		}
		return -1, nil
	})
	if err != nil {
		return err
	}
	for _, r := range recs {
		k := KeyOf(r)
		if k.Pressure != pkey || k.Temperature != key {
			return fmt.Errorf("record %s stored under %s/%s", k, pkey, key)
		}
		if err := p.groups.insert(k, r, false); err != nil {
			return err
		}
	}
	return nil
}

func decodeRecord(b []byte) (*conf.Record, error) {
	var id, source, comment string
	var pressure, temperature conf.Quantity
	var atoms []conf.Atom
	comp := make(conf.Composition)
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(num, typ, b, &id)
		case 2:
			return consumeString(num, typ, b, &source)
		case 3:
			return consumeFloat(num, typ, b, &pressure.Value)
		case 4:
			return consumeString(num, typ, b, &pressure.Unit)
		case 5:
			return consumeFloat(num, typ, b, &temperature.Value)
		case 6:
			return consumeString(num, typ, b, &temperature.Unit)
		case 7:
			return consumeString(num, typ, b, &comment)
		case 8:
			return consumeMessage(num, typ, b, func(m []byte) error {
				a, err := decodeAtom(m)
				atoms = append(atoms, a)
				return err
			})
		case 9:
			return consumeMessage(num, typ, b, func(m []byte) error { return decodeElement(m, comp) })
		}
		return -1, nil //properties are derived from the comment again.
	})
	if err != nil {
		return nil, err
	}
	r, err := conf.NewRecord(&conf.Sample{Comment: comment, Atoms: atoms}, pressure, temperature, source)
	if err != nil {
		return nil, err
	}
	if r.ID() != id {
		return nil, fmt.Errorf("record %q has a source name (%s) that gives a different identifier", id, source)
	}
	if !r.Composition().Equal(comp) {
		return nil, fmt.Errorf("record %q: stored composition doesn't match its atoms", id)
	}
	return r, nil
}

func decodeAtom(b []byte) (conf.Atom, error) {
	var a conf.Atom
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(num, typ, b, &a.Symbol)
		case 2:
			return consumeFloat(num, typ, b, &a.X)
		case 3:
			return consumeFloat(num, typ, b, &a.Y)
		case 4:
			return consumeFloat(num, typ, b, &a.Z)
		}
		return -1, nil
	})
	return a, err
}

func decodeElement(b []byte, comp conf.Composition) error {
	var symbol string
	var count uint64
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(num, typ, b, &symbol)
		case 2:
			if err := expect(num, typ, protowire.VarintType); err != nil {
				return 0, err
			}
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			count = v
			return n, nil
		}
		return -1, nil
	})
	if err != nil {
		return err
	}
	comp[symbol] += int(count)
	return nil
}
