/*
 * naming.go, part of confcat.
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
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Prefixes for the directory levels.
const (
	PressurePrefix    byte = 'P'
	TemperaturePrefix byte = 'T'
)

// GroupKeyDecimals is the number of decimals used in the canonical
// string encoding of pressure and temperature values.
const GroupKeyDecimals = 4

var numeral = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)$`)

// Extract reads the value encoded in a name like "P225" or "T1000.5", given the expected
// prefix. It returns the value and the whole label. The label must be the prefix
// immediately followed by a decimal number and nothing else, otherwise a
// *NamingConventionError is returned.
func Extract(label string, prefix byte) (float64, string, error) {
	if len(label) < 2 || label[0] != prefix || !numeral.MatchString(label[1:]) {
		return 0, label, &NamingConventionError{Label: label, Prefix: prefix}
	}
	v, err := strconv.ParseFloat(label[1:], 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, label, &NamingConventionError{Label: label, Prefix: prefix}
	}
	return v, label, nil
}

// HasPrefix tells whether label starts with prefix. It is the discovery filter for
// pressure and temperature directories: names that pass it are expected to follow
// the convention, names that don't are not ours.
func HasPrefix(label string, prefix byte) bool {
	return len(label) > 0 && label[0] == prefix
}

// GroupKey returns the canonical string for a pressure or temperature value, used
// as the group name in containers. The same value always gives the same key.
func GroupKey(v float64) string {
	s := strconv.FormatFloat(v, 'f', GroupKeyDecimals, 64)
	if strings.Trim(s, "-0.") == "" {
		return strconv.FormatFloat(0, 'f', GroupKeyDecimals, 64) //no "-0.0000"
	}
	return s
}

// Identifier gives the record identifier for a source file name: the base
// name, without extension.
func Identifier(source string) string {
	base := filepathBase(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
