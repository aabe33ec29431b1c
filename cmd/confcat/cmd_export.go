/*
 * cmd_export.go, part of confcat.
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
	"os"

	"github.com/dustin/go-humanize"
	"github.com/rmera/confcat/catalog"
	"github.com/rmera/confcat/catplot"
	"github.com/rmera/confcat/confjson"
	"github.com/spf13/cobra"
)

func (a *app) exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <out.parquet>",
		Short: "Write a Parquet catalog of the container",
		Long: `Writes a Parquet table with one row per record: key, identifier, source,
pressure, temperature, state, number of atoms, formula, mass and radius of gyration.`,
		Args: cobra.ExactArgs(1),
		RunE: a.runExport,
	}
	groupFlags(cmd, false)
	return cmd
}

func (a *app) runExport(cmd *cobra.Command, args []string) error {
	f, err := filter(cmd)
	if err != nil {
		return err
	}
	C, err := a.open(true)
	if err != nil {
		return err
	}
	defer C.Close()
	rows, err := catalog.FromContainer(C)
	if err != nil {
		return err
	}
	if f.Pressure != nil || f.Temperature != nil {
		rows = catalog.Select(rows, f.Pressure, f.Temperature)
	}
	if err := catalog.WriteFile(args[0], rows); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s rows written to %s\n", humanize.Comma(int64(len(rows))), args[0])
	return nil
}

func (a *app) plotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot <out.png>",
		Short: "Plot the pressure/temperature groups of the container",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runPlot,
	}
	cmd.Flags().String("title", "", "Plot title (default: the container file name)")
	cmd.Flags().Float64("width", 16, "Width in cm")
	cmd.Flags().Float64("height", 12, "Height in cm")
	return cmd
}

func (a *app) runPlot(cmd *cobra.Command, args []string) error {
	C, err := a.open(true)
	if err != nil {
		return err
	}
	defer C.Close()
	title, _ := cmd.Flags().GetString("title")
	if title == "" {
		title = a.cfg.Container
	}
	w, _ := cmd.Flags().GetFloat64("width")
	h, _ := cmd.Flags().GetFloat64("height")
	u := C.Units()
	if err := catplot.Save(C.Groups(), title, u.Pressure, u.Temperature, w, h, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "plot written to %s\n", args[0])
	return nil
}

func (a *app) infoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Describe the container",
		Args:  cobra.NoArgs,
		RunE:  a.runInfo,
	}
	cmd.Flags().Bool("json", false, "Write the description as JSON")
	return cmd
}

func (a *app) runInfo(cmd *cobra.Command, args []string) error {
	st, err := os.Stat(a.cfg.Container)
	if err != nil {
		return fmt.Errorf("can't open container: %w", err)
	}
	C, err := a.open(true)
	if err != nil {
		return err
	}
	defer C.Close()
	u := C.Units()
	info := &confjson.Info{
		ID:              C.ID(),
		File:            a.cfg.Container,
		Size:            st.Size(),
		Records:         C.Len(),
		PressureUnit:    u.Pressure,
		TemperatureUnit: u.Temperature,
	}
	for _, g := range C.Groups() {
		info.Groups = append(info.Groups, confjson.Group{Pressure: g.Pressure, Temperature: g.Temperature, Records: g.Count})
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		if jerr := info.Send(a.out); jerr != nil {
			return jerr
		}
		return nil
	}
	fmt.Fprintf(a.out, "container   %s (%s)\n", info.File, humanize.Bytes(uint64(info.Size)))
	fmt.Fprintf(a.out, "id          %s\n", info.ID)
	fmt.Fprintf(a.out, "units       %s, %s\n", u.Pressure, u.Temperature)
	fmt.Fprintf(a.out, "records     %s in %d groups\n", humanize.Comma(int64(info.Records)), len(info.Groups))
	for _, g := range C.Groups() {
		fmt.Fprintf(a.out, "  P=%-10s T=%-10s %s\n", g.Key.Pressure, g.Key.Temperature, humanize.Comma(int64(g.Count)))
	}
	return nil
}
