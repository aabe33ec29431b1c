/*
 * interfaces.go, part of confcat.
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
	"strings"
)

//Errors

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing its type or wrapping it around something else.
// If passed an empty string, Decorate just returns the current decoration.
type Error interface {
	Error() string
	Decorate(string) []string
}

// MalformedSampleError is returned when the content of a coordinate file does not
// follow the expected line format.
type MalformedSampleError struct {
	File    string //may be empty if the sample didn't come from a file
	Line    int    //1-based, 0 if the problem is not tied to a line
	Message string
	deco    []string
}

func (E *MalformedSampleError) Error() string {
	var b strings.Builder
	b.WriteString("malformed sample")
	if E.File != "" {
		fmt.Fprintf(&b, " %s", E.File)
	}
	if E.Line > 0 {
		fmt.Fprintf(&b, " line %d", E.Line)
	}
	b.WriteString(": ")
	b.WriteString(E.Message)
	return b.String()
}

// Decorate adds new information to the error
func (E *MalformedSampleError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newMalformed(line int, format string, args ...any) *MalformedSampleError {
	return &MalformedSampleError{Line: line, Message: fmt.Sprintf(format, args...)}
}

// NamingConventionError is returned when a directory name does not follow
// the prefix+number convention, i.e. "P225" or "T1000".
type NamingConventionError struct {
	Label  string
	Prefix byte
	deco   []string
}

func (E *NamingConventionError) Error() string {
	return fmt.Sprintf("name %q does not follow the %c<number> convention", E.Label, E.Prefix)
}

// Decorate adds new information to the error
func (E *NamingConventionError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}
