/*
 * cmd_create.go, part of confcat.
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
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	conf "github.com/rmera/confcat"
	"github.com/rmera/confcat/container"
	"github.com/rmera/confcat/ingest"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) createCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <root>",
		Short: "Ingest a P<pressure>/T<temperature>/ directory tree into the container",
		Long: `Reads every coordinate file under root and stores it in the container, which is
created if needed. Directories and files that can't be read are skipped and listed
at the end. A record whose identifier is already in its group is skipped too,
unless --overwrite is given.`,
		Args: cobra.ExactArgs(1),
		RunE: a.runCreate,
	}
	cmd.Flags().Bool("overwrite", false, "Replace records with repeated identifiers")
	cmd.Flags().Int("workers", 0, "Directories read at the same time (default from the configuration)")
	cmd.Flags().String("codec", "", "Compression: zstd, gzip or xz (default from the file name)")
	return cmd
}

func (a *app) runCreate(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("overwrite") {
		a.cfg.Overwrite, _ = cmd.Flags().GetBool("overwrite")
	}
	if cmd.Flags().Changed("workers") {
		a.cfg.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if cmd.Flags().Changed("codec") {
		a.cfg.Codec, _ = cmd.Flags().GetString("codec")
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	//checked before the container is created.
	if st, err := os.Stat(args[0]); err != nil {
		return fmt.Errorf("ingest: %w", err)
	} else if !st.IsDir() {
		return fmt.Errorf("ingest: %s is not a directory", args[0])
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	o, err := a.options(false)
	if err != nil {
		return err
	}
	o.Units = a.cfg.ConfUnits()
	C, err := container.Open(a.cfg.Container, o)
	if err != nil {
		return err
	}
	a.logger.Info("ingesting", zap.String("root", args[0]), zap.String("container", a.cfg.Container),
		zap.Int("workers", a.cfg.Workers))
	rep, err := ingest.Run(ctx, args[0], C, ingest.Options{
		Units:      a.cfg.ConfUnits(),
		Extensions: a.cfg.Extensions,
		Workers:    a.cfg.Workers,
		Logger:     a.logger.Named("ingest"),
		OnRecord: func(r *conf.Record) {
			fmt.Fprintln(a.out, conf.Summary(r))
		},
	})
	if cerr := C.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d records stored in %s\n", rep.Records, a.cfg.Container)
	if len(rep.Failures) > 0 {
		fmt.Fprintf(a.out, "skipped %d:\n", len(rep.Failures))
		for _, f := range rep.Failures {
			fmt.Fprintf(a.out, "  %s\n", f)
		}
	}
	return nil
}
