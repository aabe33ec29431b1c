/*
 * errors.go, part of confcat.
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
	"errors"
	"fmt"
)

//Errors

var (
	// ErrCorrupt is wrapped by every error caused by a container file that can't be read.
	ErrCorrupt = errors.New("corrupt container")
	// ErrReadOnly is returned when trying to modify a container opened read-only.
	ErrReadOnly = errors.New("container opened read-only")
	// ErrClosed is returned when using a closed container.
	ErrClosed = errors.New("container closed")
)

// DuplicateIdentifierError is returned by Put when the key of the record is
// already in the container and overwriting was not requested.
type DuplicateIdentifierError struct {
	Key    Key
	Source string //source of the record that was rejected
	deco   []string
}

func (E *DuplicateIdentifierError) Error() string {
	if E.Source != "" {
		return fmt.Sprintf("duplicate identifier %s (from %s)", E.Key, E.Source)
	}
	return fmt.Sprintf("duplicate identifier %s", E.Key)
}

// Decorate adds new information to the error
func (E *DuplicateIdentifierError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

// NotFoundError is returned when a requested key is not in the container.
type NotFoundError struct {
	Key  Key
	deco []string
}

func (E *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found in container", E.Key)
}

// Decorate adds new information to the error
func (E *NotFoundError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}
