/*
 * cmd_query.go, part of confcat.
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

	conf "github.com/rmera/confcat"
	"github.com/rmera/confcat/confjson"
	"github.com/spf13/cobra"
)

func (a *app) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the records in the container",
		Long:  "Lists the records in the container, optionally only those in the given pressure and/or temperature groups.",
		Args:  cobra.NoArgs,
		RunE:  a.runList,
	}
	groupFlags(cmd, false)
	return cmd
}

func (a *app) runList(cmd *cobra.Command, args []string) error {
	f, err := filter(cmd)
	if err != nil {
		return err
	}
	C, err := a.open(true)
	if err != nil {
		return err
	}
	defer C.Close()
	keys := C.List(f)
	for _, k := range keys {
		r, err := C.GetKey(k)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, conf.Summary(r))
	}
	if len(keys) == 0 {
		fmt.Fprintln(a.out, "no records")
	}
	return nil
}

func (a *app) showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runShow,
	}
	groupFlags(cmd, true)
	cmd.Flags().Bool("json", false, "Write the record as line-delimited JSON")
	return cmd
}

func (a *app) runShow(cmd *cobra.Command, args []string) error {
	C, err := a.open(true)
	if err != nil {
		return err
	}
	defer C.Close()
	r, err := record(C, cmd, args)
	if err != nil {
		return err
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		if jerr := confjson.SendRecord(r, a.out); jerr != nil {
			return jerr
		}
		return nil
	}
	fmt.Fprintln(a.out, panel(r))
	return nil
}

func (a *app) deleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove one record from the container",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runDelete,
	}
	groupFlags(cmd, true)
	return cmd
}

func (a *app) runDelete(cmd *cobra.Command, args []string) error {
	f, err := filter(cmd)
	if err != nil {
		return err
	}
	if _, err := os.Stat(a.cfg.Container); err != nil {
		return fmt.Errorf("can't open container: %w", err)
	}
	C, err := a.open(false)
	if err != nil {
		return err
	}
	if err := C.Delete(args[0], *f.Pressure, *f.Temperature); err != nil {
		C.Close()
		return err
	}
	if err := C.Close(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "deleted %s\n", args[0])
	return nil
}
