/*
 * files.go, part of confcat.
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
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

//XYZ read/write family

//maximum length of a line in a coordinate file. Comment lines
//in extended XYZ files can get long.
const maxLineLen = 1 << 20

type xyzLine struct {
	n    int //1-based line number in the file
	text string
}

// ReadXYZFile reads the whole file xyzname and parses it as an XYZ file.
// The file is closed before parsing starts.
func ReadXYZFile(xyzname string) (*Sample, error) {
	data, err := os.ReadFile(xyzname)
	if err != nil {
		return nil, err
	}
	s, err := ParseXYZ(bytes.NewReader(data))
	if err != nil {
		var me *MalformedSampleError
		if errors.As(err, &me) {
			me.File = xyzname
			me.Decorate("ReadXYZFile")
		}
		return nil, err
	}
	return s, nil
}

// ParseXYZ parses an XYZ-like coordinate listing. If the first line is an integer, it is
// taken as the number of atoms, the second line is the comment, and exactly that many atom
// lines must follow. Otherwise, every non-blank line is an atom line, except for a first line
// of text that doesn't look like an atom, which is kept, verbatim, as the comment.
// Blank lines are ignored. Empty input gives an empty sample.
func ParseXYZ(r io.Reader) (*Sample, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLen)
	var lines []xyzLine
	for n := 1; sc.Scan(); n++ {
		lines = append(lines, xyzLine{n, strings.TrimRight(sc.Text(), "\r")})
	}
	if err := sc.Err(); err != nil {
		return nil, newMalformed(0, "can't read input: %s", err.Error())
	}
	s := &Sample{Atoms: make([]Atom, 0)}
	first := -1
	for i, l := range lines {
		if strings.TrimSpace(l.text) != "" {
			first = i
			break
		}
	}
	if first < 0 {
		return s, nil //nothing to read, not an error.
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(lines[first].text))
	if err == nil {
		return parseCounted(s, natoms, lines[first], lines[first+1:])
	}
	//tolerant mode
	body := lines[first:]
	if _, err := parseAtomLine(lines[first]); err != nil {
		if atomLike(lines[first].text) {
			return nil, err
		}
		s.Comment = lines[first].text
		body = lines[first+1:]
	}
	if err := readAtoms(s, body); err != nil {
		return nil, err
	}
	return s, nil
}

func parseCounted(s *Sample, natoms int, countline xyzLine, rest []xyzLine) (*Sample, error) {
	if natoms < 0 {
		return nil, newMalformed(countline.n, "negative atom count %d", natoms)
	}
	if len(rest) > 0 {
		s.Comment = rest[0].text
		rest = rest[1:]
	}
	if err := readAtoms(s, rest); err != nil {
		return nil, err
	}
	if len(s.Atoms) != natoms {
		return nil, newMalformed(countline.n, "%d atoms declared but %d found", natoms, len(s.Atoms))
	}
	return s, nil
}

func readAtoms(s *Sample, lines []xyzLine) error {
	for _, l := range lines {
		if strings.TrimSpace(l.text) == "" {
			continue
		}
		at, err := parseAtomLine(l)
		if err != nil {
			return err
		}
		s.Atoms = append(s.Atoms, at)
	}
	return nil
}

//atomLike is true for lines that are meant as atom lines even if they can't be read
//as one: a symbol followed only by numbers, or 4 fields with some number among the last 3.
func atomLike(line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return false
	}
	nums := 0
	for _, f := range fields[1:] {
		if _, err := strconv.ParseFloat(f, 64); err == nil {
			nums++
		}
	}
	return nums == len(fields)-1 || (len(fields) == 4 && nums > 0)
}

//parseAtomLine reads a "symbol x y z" line.
func parseAtomLine(l xyzLine) (Atom, error) {
	fields := strings.Fields(l.text)
	if len(fields) != 4 {
		return Atom{}, newMalformed(l.n, "expected 4 fields (symbol x y z), got %d", len(fields))
	}
	var c [3]float64
	for i, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Atom{}, newMalformed(l.n, "can't read coordinate %d (%s)", i+1, f)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Atom{}, newMalformed(l.n, "coordinate %d (%s) is not finite", i+1, f)
		}
		c[i] = v
	}
	return Atom{Symbol: fields[0], X: c[0], Y: c[1], Z: c[2]}, nil
}

// WriteXYZ writes the sample s in XYZ format to out. Coordinates are written
// with the shortest representation that reads back to the same float64, so
// ParseXYZ(WriteXYZ(s)) gives back s exactly.
func WriteXYZ(out io.Writer, s *Sample) error {
	if s == nil {
		return fmt.Errorf("WriteXYZ: given nil sample")
	}
	if strings.ContainsAny(s.Comment, "\n\r") {
		return fmt.Errorf("WriteXYZ: comment can't span more than one line")
	}
	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "%d\n%s\n", len(s.Atoms), s.Comment)
	for _, a := range s.Atoms {
		if err := a.check(); err != nil {
			return err
		}
		fmt.Fprintf(w, "%-2s %s %s %s\n", a.Symbol, ftoa(a.X), ftoa(a.Y), ftoa(a.Z))
	}
	return w.Flush()
}

// WriteXYZFile writes the sample s to a file with name xyzname, which will
// be created for that. If the file exists it will be overwritten.
func WriteXYZFile(xyzname string, s *Sample) error {
	out, err := os.Create(xyzname)
	if err != nil {
		return err
	}
	if err := WriteXYZ(out, s); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
