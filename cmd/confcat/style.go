/*
 * style.go, part of confcat.
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

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	conf "github.com/rmera/confcat"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#101F38")).
			Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	fieldStyle = lipgloss.NewStyle().Faint(true).Width(12)
)

//maxShownAtoms is the number of atoms listed in a panel. The rest are only counted.
const maxShownAtoms = 20

//panel renders a record in a bordered box.
func panel(r *conf.Record) string {
	field := func(name, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, fieldStyle.Render(name), value)
	}
	formula := r.Composition().Formula()
	if formula == "" {
		formula = "(no atoms)"
	}
	lines := []string{
		titleStyle.Render(r.ID()),
		field("source", r.Source()),
		field("pressure", r.Pressure().String()),
		field("temperature", r.Temperature().String()),
		field("formula", formula),
		field("atoms", strconv.Itoa(r.Len())),
	}
	if st := r.State(); st != conf.StateUnknown {
		lines = append(lines, field("state", string(st)))
	}
	if c := r.Comment(); c != "" {
		lines = append(lines, field("comment", c))
	}
	if r.Len() > 0 {
		var b strings.Builder
		for i := 0; i < r.Len() && i < maxShownAtoms; i++ {
			a := r.Atom(i)
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "%-2s %12.6f %12.6f %12.6f", a.Symbol, a.X, a.Y, a.Z)
		}
		if r.Len() > maxShownAtoms {
			fmt.Fprintf(&b, "\n... %d more", r.Len()-maxShownAtoms)
		}
		lines = append(lines, "", b.String())
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
