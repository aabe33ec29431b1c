/*
 * files_test.go, part of confcat.
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
	"bytes"
	"errors"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseString(s string) (*Sample, error) {
	return ParseXYZ(strings.NewReader(s))
}

func TestXYZCounted(Te *testing.T) {
	s, err := parseString("3\nwater state=liquid\nO 0 0 0\nH 0.757 0.586 0\nH -0.757 0.586 0\n")
	require.NoError(Te, err)
	want := &Sample{
		Comment: "water state=liquid",
		Atoms: []Atom{
			{"O", 0, 0, 0},
			{"H", 0.757, 0.586, 0},
			{"H", -0.757, 0.586, 0},
		},
	}
	if diff := cmp.Diff(want, s); diff != "" {
		Te.Errorf("ParseXYZ mismatch (-want +got):\n%s", diff)
	}
}

func TestXYZTolerant(Te *testing.T) {
	s, err := parseString("some title\n\nH 0 0 0\n\nH 1 0 0\n")
	require.NoError(Te, err)
	assert.Equal(Te, "some title", s.Comment)
	assert.Equal(Te, 2, s.Len())

	//no comment at all
	s, err = parseString("He 1 2 3\r\nNe 4 5 6\r\n")
	require.NoError(Te, err)
	assert.Equal(Te, "", s.Comment)
	assert.Equal(Te, []Atom{{"He", 1, 2, 3}, {"Ne", 4, 5, 6}}, s.Atoms)

	//only the first line can be a comment
	_, err = parseString("title\nH 0 0 0\nnot an atom\n")
	var me *MalformedSampleError
	require.True(Te, errors.As(err, &me), "got %v", err)
	assert.Equal(Te, 3, me.Line)

	//a broken atom line is not a comment
	for _, in := range []string{"H 0 0\nH 1 0 0\nH 2 0 0\n", "H 0 x 0\nH 1 0 0\n", "H 0 0 0 0\nH 1 0 0\n"} {
		_, err = parseString(in)
		require.True(Te, errors.As(err, &me), "input %q got %v", in, err)
		assert.Equal(Te, 1, me.Line)
	}
	s, err = parseString("made by hand\nH 1 0 0\n")
	require.NoError(Te, err)
	assert.Equal(Te, "made by hand", s.Comment)
	assert.Equal(Te, 1, s.Len())
}

func TestXYZEmpty(Te *testing.T) {
	for _, in := range []string{"", "\n\n  \n", "0\n\n", "0\nnothing here\n"} {
		s, err := parseString(in)
		require.NoError(Te, err, "input %q", in)
		require.NotNil(Te, s.Atoms)
		assert.Equal(Te, 0, s.Len())
	}
}

func TestXYZMalformed(Te *testing.T) {
	cases := []struct {
		name string
		in   string
		line int
	}{
		{"count mismatch", "3\n\nH 0 0 0\nH 1 0 0\n", 1},
		{"too many atoms", "1\n\nH 0 0 0\nH 1 0 0\n", 1},
		{"few fields", "2\n\nH 0 0 0\nH 1 0\n", 4},
		{"many fields", "2\n\nH 0 0 0 0\nH 1 0 0\n", 3},
		{"not a number", "1\n\nH 0 x 0\n", 3},
		{"not finite", "1\n\nH 0 NaN 0\n", 3},
		{"inf", "H 0 0 0\nH Inf 0 0\n", 2},
		{"negative count", "-1\n\n", 1},
	}
	for _, c := range cases {
		Te.Run(c.name, func(Te *testing.T) {
			_, err := parseString(c.in)
			var me *MalformedSampleError
			require.True(Te, errors.As(err, &me), "got %v", err)
			assert.Equal(Te, c.line, me.Line)
		})
	}
}

func randomSample(r *rand.Rand) *Sample {
	symbols := []string{"H", "He", "C", "O", "Fe", "Si"}
	n := r.Intn(50)
	s := &Sample{Comment: "random sample", Atoms: make([]Atom, n)}
	for i := range s.Atoms {
		s.Atoms[i] = Atom{
			Symbol: symbols[r.Intn(len(symbols))],
			X:      r.NormFloat64() * 10,
			Y:      (r.Float64() - 0.5) * 1e-7,
			Z:      math.Float64frombits(r.Uint64()&^(0x7ff<<52) | 0x3ff<<52), //always finite
		}
	}
	return s
}

func TestXYZRoundTrip(Te *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		s := randomSample(r)
		var buf bytes.Buffer
		require.NoError(Te, WriteXYZ(&buf, s))
		got, err := ParseXYZ(&buf)
		require.NoError(Te, err)
		if diff := cmp.Diff(s, got); diff != "" {
			Te.Fatalf("round trip %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestXYZCommentVerbatim(Te *testing.T) {
	for _, c := range []string{"  padded ", "\ttab", " ", "state=liquid  "} {
		s := &Sample{Comment: c, Atoms: []Atom{{"H", 0, 0, 1}}}
		var buf bytes.Buffer
		require.NoError(Te, WriteXYZ(&buf, s))
		got, err := ParseXYZ(&buf)
		require.NoError(Te, err)
		assert.Equal(Te, s, got, "comment %q", c)
	}
}

func TestXYZWriteRejects(Te *testing.T) {
	var buf bytes.Buffer
	assert.Error(Te, WriteXYZ(&buf, &Sample{Comment: "two\nlines"}))
	assert.Error(Te, WriteXYZ(&buf, &Sample{Atoms: []Atom{{"", 0, 0, 0}}}))
	assert.Error(Te, WriteXYZ(&buf, &Sample{Atoms: []Atom{{"H", math.Inf(1), 0, 0}}}))
	assert.Error(Te, WriteXYZ(&buf, nil))
}

func TestXYZFileIO(Te *testing.T) {
	dir := Te.TempDir()
	name := filepath.Join(dir, "sample.xyz")
	s := &Sample{Comment: "P150T2000 config=60", Atoms: []Atom{{"H", 1.25, -3.5, 0.1}, {"H", 0, 0, 2}}}
	require.NoError(Te, WriteXYZFile(name, s))
	got, err := ReadXYZFile(name)
	require.NoError(Te, err)
	assert.Equal(Te, s, got)

	bad := filepath.Join(dir, "bad.xyz")
	require.NoError(Te, os.WriteFile(bad, []byte("2\n\nH 0 0 0\n"), 0o644))
	_, err = ReadXYZFile(bad)
	var me *MalformedSampleError
	require.True(Te, errors.As(err, &me))
	assert.Equal(Te, bad, me.File)
	assert.Contains(Te, me.Error(), bad)

	_, err = ReadXYZFile(filepath.Join(dir, "missing.xyz"))
	assert.ErrorIs(Te, err, os.ErrNotExist)
}
