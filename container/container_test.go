/*
 * container_test.go, part of confcat.
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
	"errors"
	"os"
	"path/filepath"
	"testing"

	conf "github.com/rmera/confcat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(Te *testing.T, source string, p, t float64, comment string, atoms ...conf.Atom) *conf.Record {
	Te.Helper()
	r, err := conf.NewRecord(&conf.Sample{Comment: comment, Atoms: atoms}, conf.Q(p, "GPa"), conf.Q(t, "K"), source)
	require.NoError(Te, err)
	return r
}

func someRecords(Te *testing.T) []*conf.Record {
	h := func(x float64) conf.Atom { return conf.Atom{Symbol: "H", X: x, Y: -x, Z: 1.0 / 3} }
	return []*conf.Record{
		record(Te, "config1.xyz", 225, 1000, "state=liquid", h(0), h(0.74), conf.Atom{Symbol: "O", X: 1e-300}),
		record(Te, "config2.xyz", 225, 1000, "", h(1)),
		record(Te, "config3.xyz", 225, 2000, "state=solid"),
		record(Te, "config1.xyz", 12.5, 1000, "another one", conf.Atom{Symbol: "Fe", X: 3, Y: 2, Z: 1}),
		record(Te, "config9.xyz", 150, 500, "", h(2), h(3)),
	}
}

func fill(Te *testing.T, C *Container) []*conf.Record {
	recs := someRecords(Te)
	for _, r := range recs {
		require.NoError(Te, C.Put(r))
	}
	return recs
}

func TestRoundTrip(Te *testing.T) {
	dir := Te.TempDir()
	for _, name := range []string{"c.cfc", "c.cfc.gz", "c.cfc.xz"} {
		path := filepath.Join(dir, name)
		C, err := Open(path, Options{})
		require.NoError(Te, err)
		recs := fill(Te, C)
		id := C.ID()
		require.NoError(Te, C.Close())
		assert.ErrorIs(Te, C.Put(recs[0]), ErrClosed)

		R, err := Open(path, Options{ReadOnly: true})
		require.NoError(Te, err, name)
		assert.Equal(Te, CodecFor(name), R.codec)
		assert.Equal(Te, id, R.ID())
		assert.Equal(Te, conf.DefaultUnits(), R.Units())
		assert.Equal(Te, len(recs), R.Len())
		for _, r := range recs {
			got, err := R.Get(r.ID(), r.Pressure().Value, r.Temperature().Value)
			require.NoError(Te, err)
			assert.True(Te, r.Equal(got), "%s differs after reading %s", r.ID(), name)
			assert.Equal(Te, r.Properties(), got.Properties())
		}
		assert.ErrorIs(Te, R.Put(recs[0]), ErrReadOnly)
		require.NoError(Te, R.Close())
	}
}

func TestReadWriteTo(Te *testing.T) {
	C := New(Options{Codec: Gzip})
	recs := fill(Te, C)
	var buf bytes.Buffer
	n, err := C.WriteTo(&buf)
	require.NoError(Te, err)
	assert.Equal(Te, int64(buf.Len()), n)
	R, err := Read(&buf, Options{})
	require.NoError(Te, err)
	assert.Equal(Te, Gzip, R.codec)
	assert.Equal(Te, C.List(Filter{}), R.List(Filter{}))
	got, err := R.Get("config9", 150, 500)
	require.NoError(Te, err)
	assert.True(Te, recs[4].Equal(got))
}

func TestDeterministic(Te *testing.T) {
	a, b := New(Options{}), New(Options{})
	b.header.id = a.header.id
	recs := someRecords(Te)
	for i := range recs {
		require.NoError(Te, a.Put(recs[i]))
		require.NoError(Te, b.Put(recs[len(recs)-1-i]))
	}
	var ab, bb bytes.Buffer
	_, err := a.WriteTo(&ab)
	require.NoError(Te, err)
	_, err = b.WriteTo(&bb)
	require.NoError(Te, err)
	assert.Equal(Te, ab.Bytes(), bb.Bytes())
}

func TestDuplicate(Te *testing.T) {
	C := New(Options{})
	fill(Te, C)
	dup := record(Te, "/elsewhere/config2.xyz", 225, 1000, "new")
	err := C.Put(dup)
	var de *DuplicateIdentifierError
	require.True(Te, errors.As(err, &de))
	assert.Equal(Te, Key{"225.0000", "1000.0000", "config2"}, de.Key)
	assert.Equal(Te, "P225.0000/T1000.0000/config2", de.Key.String())
	got, err := C.Get("config2", 225, 1000)
	require.NoError(Te, err)
	assert.Equal(Te, "", got.Comment())

	//same identifier, different group, is fine.
	require.NoError(Te, C.Put(record(Te, "config2.xyz", 225, 1500, "")))

	O := New(Options{Overwrite: true})
	fill(Te, O)
	require.NoError(Te, O.Put(dup))
	got, err = O.Get("config2", 225, 1000)
	require.NoError(Te, err)
	assert.Equal(Te, "new", got.Comment())
	assert.Equal(Te, 5, O.Len())
}

func TestList(Te *testing.T) {
	C := New(Options{})
	fill(Te, C)
	all := C.List(Filter{})
	assert.Equal(Te, []Key{
		{"12.5000", "1000.0000", "config1"},
		{"150.0000", "500.0000", "config9"},
		{"225.0000", "1000.0000", "config1"},
		{"225.0000", "1000.0000", "config2"},
		{"225.0000", "2000.0000", "config3"},
	}, all)

	onlyP := C.List(Filter{Pressure: Val(225)})
	assert.Len(Te, onlyP, 3)
	onlyT := C.List(Filter{Temperature: Val(1000)})
	assert.Len(Te, onlyT, 3)
	both := C.List(Filter{Pressure: Val(225), Temperature: Val(1000)})
	//union over records of the matching groups, and nothing else
	var want []Key
	for _, k := range onlyP {
		if k.Temperature == "1000.0000" {
			want = append(want, k)
		}
	}
	assert.Equal(Te, want, both)
	assert.Empty(Te, C.List(Filter{Pressure: Val(3)}))

	groups := C.Groups()
	require.Len(Te, groups, 4)
	assert.Equal(Te, 12.5, groups[0].Pressure)
	assert.Equal(Te, 2, groups[2].Count)
	assert.Equal(Te, Key{Pressure: "225.0000", Temperature: "1000.0000"}, groups[2].Key)

	var seen []Key
	require.NoError(Te, C.Walk(func(k Key, r *conf.Record) error {
		assert.Equal(Te, k, KeyOf(r))
		seen = append(seen, k)
		return nil
	}))
	assert.Equal(Te, all, seen)
	stop := errors.New("stop")
	assert.ErrorIs(Te, C.Walk(func(Key, *conf.Record) error { return stop }), stop)
}

func TestNotFoundDelete(Te *testing.T) {
	C := New(Options{})
	fill(Te, C)
	_, err := C.Get("config2", 225, 2000)
	var nf *NotFoundError
	require.True(Te, errors.As(err, &nf))
	assert.Equal(Te, "config2", nf.Key.ID)

	require.NoError(Te, C.Delete("config3", 225, 2000))
	assert.Equal(Te, 4, C.Len())
	assert.Len(Te, C.Groups(), 3)
	err = C.Delete("config3", 225, 2000)
	assert.True(Te, errors.As(err, &nf))
}

func TestUnits(Te *testing.T) {
	C := New(Options{})
	r, err := conf.NewRecord(&conf.Sample{}, conf.Q(1, "kbar"), conf.Q(1, "K"), "a.xyz")
	require.NoError(Te, err)
	assert.Error(Te, C.Put(r))

	K := New(Options{Units: conf.Units{Pressure: "kbar", Temperature: "K"}})
	require.NoError(Te, K.Put(r))
	var buf bytes.Buffer
	_, err = K.WriteTo(&buf)
	require.NoError(Te, err)
	data := buf.Bytes()
	_, err = Read(bytes.NewReader(data), Options{Units: conf.DefaultUnits()})
	assert.Error(Te, err)
	R, err := Read(bytes.NewReader(data), Options{})
	require.NoError(Te, err)
	assert.Equal(Te, "kbar", R.Units().Pressure)

	_, err = Open(filepath.Join(Te.TempDir(), "x.cfc"), Options{Units: conf.Units{Pressure: "psi", Temperature: "K"}})
	assert.Error(Te, err)
}

func TestCorrupt(Te *testing.T) {
	dir := Te.TempDir()
	C := New(Options{})
	fill(Te, C)
	var buf bytes.Buffer
	_, err := C.WriteTo(&buf)
	require.NoError(Te, err)
	good := buf.Bytes()

	cases := map[string][]byte{
		"garbage":   []byte("this is not a container at all"),
		"truncated": good[:len(good)/2],
	}
	var zbuf bytes.Buffer
	z, err := newWriter(Zstd, &zbuf, 0)
	require.NoError(Te, err)
	_, err = z.Write([]byte("NOTCONF\x01"))
	require.NoError(Te, err)
	require.NoError(Te, z.Close())
	cases["magic"] = zbuf.Bytes()

	for name, data := range cases {
		path := filepath.Join(dir, name)
		require.NoError(Te, os.WriteFile(path, data, 0o644))
		_, err := Open(path, Options{})
		assert.ErrorIs(Te, err, ErrCorrupt, name)
		//the file is left untouched.
		after, err := os.ReadFile(path)
		require.NoError(Te, err)
		assert.Equal(Te, data, after)
	}
	payload := encodePayload(header{id: "x", units: conf.DefaultUnits()}, tree{})
	payload[len(magic)] = version + 1
	_, err = decodePayload(payload)
	assert.ErrorIs(Te, err, ErrCorrupt)
	_, err = decodePayload([]byte(magic + "\x01"))
	assert.ErrorIs(Te, err, ErrCorrupt) //no header
}

func TestCompositionMismatch(Te *testing.T) {
	r := someRecords(Te)[0]
	b := encodeRecord(r)
	_, err := decodeRecord(b)
	require.NoError(Te, err)
	var eb []byte
	eb = appendString(eb, 1, "Xe")
	b = appendMessage(b, 9, eb)
	_, err = decodeRecord(b)
	assert.Error(Te, err)
}

func TestEmptyContainerFile(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "empty.cfc")
	C, err := Open(path, Options{})
	require.NoError(Te, err)
	assert.Equal(Te, 0, C.Len())
	require.NoError(Te, C.Close())
	R, err := Open(path, Options{ReadOnly: true})
	require.NoError(Te, err)
	assert.Equal(Te, 0, R.Len())
	assert.Equal(Te, C.ID(), R.ID())
	require.NoError(Te, R.Close())
}

func TestFlushRewrites(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "c.cfc")
	C, err := Open(path, Options{})
	require.NoError(Te, err)
	fill(Te, C)
	require.NoError(Te, C.Flush())
	require.NoError(Te, C.Delete("config1", 225, 1000))
	require.NoError(Te, C.Delete("config1", 12.5, 1000))
	require.NoError(Te, C.Close())
	R, err := Open(path, Options{ReadOnly: true})
	require.NoError(Te, err)
	defer R.Close()
	assert.Equal(Te, 3, R.Len())
}

func TestFailedFlushKeepsFile(Te *testing.T) {
	dir := Te.TempDir()
	path := filepath.Join(dir, "c.cfc.gz")
	C, err := Open(path, Options{})
	require.NoError(Te, err)
	fill(Te, C)
	require.NoError(Te, C.Flush())
	before, err := os.ReadFile(path)
	require.NoError(Te, err)

	require.NoError(Te, C.Delete("config1", 225, 1000))
	C.opts.Level = 42 //not a gzip level, so the encoder fails.
	assert.Error(Te, C.Flush())
	after, err := os.ReadFile(path)
	require.NoError(Te, err)
	assert.Equal(Te, before, after)
	entries, err := os.ReadDir(dir)
	require.NoError(Te, err)
	assert.Len(Te, entries, 1)

	C.opts.Level = 0
	require.NoError(Te, C.Close())
	R, err := Open(path, Options{ReadOnly: true})
	require.NoError(Te, err)
	defer R.Close()
	assert.Equal(Te, 4, R.Len())
}

func TestKeyLess(Te *testing.T) {
	assert.True(Te, keyLess("9.0000", "10.0000"))
	assert.False(Te, keyLess("10.0000", "9.0000"))
	assert.True(Te, keyLess("10.0000", "abc"))
	assert.True(Te, keyLess("abc", "abd"))
	assert.Equal(Te, []string{"2", "10", "b"}, sortedKeys(map[string]int{"b": 0, "10": 0, "2": 0}))
}
