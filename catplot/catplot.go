/*
 * catplot.go, part of confcat.
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

// Package catplot draws the pressure/temperature map of a container: one point per group,
// sized and colored by the number of records in it.
package catplot

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/rmera/confcat/container"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//Point radius range, in points.
const (
	minRadius = 3
	maxRadius = 9
)

// Map returns a plot with a point for each group, at its pressure (x axis) and temperature (y axis),
// labeled with the number of records. The units are only used for the axis labels.
func Map(groups []container.Group, title, punit, tunit string) (*plot.Plot, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("catplot: no groups to plot")
	}
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "Pressure (" + punit + ")"
	p.Y.Label.Text = "Temperature (" + tunit + ")"
	p.Add(plotter.NewGrid())

	//groups with the same number of records get the same color.
	counts := distinctCounts(groups)
	maxc := float64(counts[len(counts)-1])
	labels := plotter.XYLabels{XYs: make(plotter.XYs, len(groups)), Labels: make([]string, len(groups))}
	for i, g := range groups {
		pts := plotter.XYs{{X: g.Pressure, Y: g.Temperature}}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		r, gr, b := colors(sort.SearchInts(counts, g.Count), len(counts))
		s.GlyphStyle.Color = color.RGBA{R: r, G: gr, B: b, A: 255}
		s.GlyphStyle.Radius = vg.Points(minRadius + (maxRadius-minRadius)*math.Sqrt(float64(g.Count)/maxc))
		p.Add(s)
		labels.XYs[i] = pts[0]
		labels.Labels[i] = strconv.Itoa(g.Count)
	}
	l, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, err
	}
	l.Offset = vg.Point{X: vg.Points(maxRadius), Y: vg.Points(maxRadius)}
	p.Add(l)
	return p, nil
}

// Save draws the map of the groups and saves it to filename. The format
// is taken from the extension (png, svg, pdf...). Sizes are in centimeters.
func Save(groups []container.Group, title, punit, tunit string, width, height float64, filename string) error {
	p, err := Map(groups, title, punit, tunit)
	if err != nil {
		return err
	}
	return p.Save(vg.Length(width)*vg.Centimeter, vg.Length(height)*vg.Centimeter, filename)
}

// Write draws the map and writes it to w in the given format ("png", "svg"...).
func Write(w io.Writer, groups []container.Group, title, punit, tunit string, width, height float64, format string) error {
	p, err := Map(groups, title, punit, tunit)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(vg.Length(width)*vg.Centimeter, vg.Length(height)*vg.Centimeter, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

//distinctCounts returns the different record counts in groups, in increasing order.
func distinctCounts(groups []container.Group) []int {
	seen := make(map[int]bool)
	var ret []int
	for _, g := range groups {
		if !seen[g.Count] {
			seen[g.Count] = true
			ret = append(ret, g.Count)
		}
	}
	sort.Ints(ret)
	return ret
}
