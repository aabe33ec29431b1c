/*
 * catalog.go, part of confcat.
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

// Package catalog exports the records of a container as a Parquet table with one row per
// record, so that they can be searched by pressure, temperature or composition with
// any tool that reads Parquet.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
	conf "github.com/rmera/confcat"
	"github.com/rmera/confcat/container"
)

// Row is one catalog entry.
type Row struct {
	Key              string  `parquet:"key,zstd"`
	ID               string  `parquet:"id,zstd"`
	Source           string  `parquet:"source,zstd"`
	Pressure         float64 `parquet:"pressure"`
	PressureUnit     string  `parquet:"pressure_unit,dict"`
	Temperature      float64 `parquet:"temperature"`
	TemperatureUnit  string  `parquet:"temperature_unit,dict"`
	PressureGPa      float64 `parquet:"pressure_gpa"`
	TemperatureK     float64 `parquet:"temperature_k"`
	State            string  `parquet:"state,optional,dict"`
	Atoms            int32   `parquet:"atoms"`
	Formula          string  `parquet:"formula,optional,zstd"`
	Mass             float64 `parquet:"mass,optional"`
	RadiusOfGyration float64 `parquet:"radius_of_gyration,optional"`
}

// RowOf returns the catalog entry for record r stored under key k. Besides the values in the
// units of the record, the row carries pressure and temperature in GPa and K, so catalogs
// of containers with different units can be compared.
func RowOf(k container.Key, r *conf.Record) Row {
	row := Row{
		Key:             k.String(),
		ID:              r.ID(),
		Source:          r.Source(),
		Pressure:        r.Pressure().Value,
		PressureUnit:    r.Pressure().Unit,
		Temperature:     r.Temperature().Value,
		TemperatureUnit: r.Temperature().Unit,
		State:           string(r.State()),
		Atoms:           int32(r.Len()),
		Formula:         r.Composition().Formula(),
	}
	if q, err := r.Pressure().In(conf.DefaultPressureUnit); err == nil {
		row.PressureGPa = q.Value
	}
	if q, err := r.Temperature().In(conf.DefaultTemperatureUnit); err == nil {
		row.TemperatureK = q.Value
	}
	if m, err := r.Composition().Mass(); err == nil {
		row.Mass = m
	}
	if c := r.Coords(); c != nil {
		row.RadiusOfGyration = c.RadiusOfGyration()
	}
	return row
}

// FromContainer returns a row for each record in C, in the order given by C.List.
func FromContainer(C *container.Container) ([]Row, error) {
	rows := make([]Row, 0, C.Len())
	err := C.Walk(func(k container.Key, r *conf.Record) error {
		rows = append(rows, RowOf(k, r))
		return nil
	})
	return rows, err
}

// Select returns the rows in the given pressure and temperature groups. A nil
// value matches every group.
func Select(rows []Row, pressure, temperature *float64) []Row {
	var ret []Row
	for _, r := range rows {
		if pressure != nil && conf.GroupKey(*pressure) != conf.GroupKey(r.Pressure) {
			continue
		}
		if temperature != nil && conf.GroupKey(*temperature) != conf.GroupKey(r.Temperature) {
			continue
		}
		ret = append(ret, r)
	}
	return ret
}

// Write writes the rows to w as a zstd-compressed Parquet file.
func Write(w io.Writer, rows []Row) error {
	pw := parquet.NewGenericWriter[Row](w, parquet.Compression(&parquet.Zstd))
	if _, err := pw.Write(rows); err != nil {
		pw.Close()
		return fmt.Errorf("write rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("close writer: %w", err)
	}
	return nil
}

// WriteFile writes the rows to the file name, which is created or truncated.
func WriteFile(name string, rows []Row) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if err := Write(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read reads every row from a Parquet file of the given size written by Write.
func Read(r io.ReaderAt, size int64) ([]Row, error) {
	//NewGenericReader panics on files it can't open.
	if _, err := parquet.OpenFile(r, size); err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	pr := parquet.NewGenericReader[Row](io.NewSectionReader(r, 0, size))
	defer pr.Close()
	rows := make([]Row, pr.NumRows())
	n, err := pr.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return rows[:n], nil
}

// ReadFile reads the catalog in the file name.
func ReadFile(name string) ([]Row, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	return Read(f, info.Size())
}
