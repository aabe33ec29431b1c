/*
 * main.go, part of confcat.
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

// Command confcat ingests P<pressure>/T<temperature>/ trees of XYZ files into
// a container, and queries and exports containers.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	conf "github.com/rmera/confcat"
	"github.com/rmera/confcat/container"
	"github.com/rmera/confcat/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//app holds what the commands share.
type app struct {
	out io.Writer

	//global flags
	configPath    string
	containerPath string
	verbose       bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out, logger: zap.NewNop()}
	root := &cobra.Command{
		Use:   "confcat",
		Short: "Catalog atomic configurations by pressure and temperature",
		Long: `confcat reads XYZ files from a directory tree of the form

  root/P<pressure>/T<temperature>/*.xyz

and stores them in a single compressed container, grouped by pressure and
temperature. The container can then be listed, queried, exported to Parquet
and plotted.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zc := zap.NewProductionConfig()
			if a.verbose {
				zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := zc.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("container") {
				cfg.Container = a.containerPath
			}
			a.cfg = cfg
			a.logger.Debug("configuration loaded", zap.String("config", a.configPath), zap.String("container", cfg.Container))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&a.configPath, "config", "confcat.yaml", "Configuration file")
	root.PersistentFlags().StringVarP(&a.containerPath, "container", "c", "", "Container file (default from the configuration)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(a.createCmd())
	root.AddCommand(a.listCmd())
	root.AddCommand(a.showCmd())
	root.AddCommand(a.deleteCmd())
	root.AddCommand(a.exportCmd())
	root.AddCommand(a.plotCmd())
	root.AddCommand(a.infoCmd())
	return root
}

//options returns the container options given by the configuration.
func (a *app) options(readOnly bool) (container.Options, error) {
	codec, err := container.ParseCodec(a.cfg.Codec)
	if err != nil {
		return container.Options{}, err
	}
	o := container.Options{
		Overwrite: a.cfg.Overwrite,
		ReadOnly:  readOnly,
		Codec:     codec,
		Level:     a.cfg.Level,
		Logger:    a.logger.Named("container"),
	}
	return o, nil
}

//open opens the container in the configuration. Existing containers keep their units.
func (a *app) open(readOnly bool) (*container.Container, error) {
	o, err := a.options(readOnly)
	if err != nil {
		return nil, err
	}
	return container.Open(a.cfg.Container, o)
}

//groupFlags adds the --pressure and --temperature flags to cmd.
func groupFlags(cmd *cobra.Command, required bool) {
	cmd.Flags().StringP("pressure", "p", "", "Pressure group")
	cmd.Flags().StringP("temperature", "t", "", "Temperature group")
	if required {
		cmd.MarkFlagRequired("pressure")
		cmd.MarkFlagRequired("temperature")
	}
}

//groupValue returns the value of a pressure or temperature flag, nil if it wasn't given.
func groupValue(cmd *cobra.Command, name string) (*float64, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	s, _ := cmd.Flags().GetString(name)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s value %q", name, s)
	}
	return &v, nil
}

func filter(cmd *cobra.Command) (container.Filter, error) {
	var f container.Filter
	var err error
	if f.Pressure, err = groupValue(cmd, "pressure"); err != nil {
		return f, err
	}
	f.Temperature, err = groupValue(cmd, "temperature")
	return f, err
}

//record gets the record given by the identifier in args and the group flags.
func record(C *container.Container, cmd *cobra.Command, args []string) (*conf.Record, error) {
	f, err := filter(cmd)
	if err != nil {
		return nil, err
	}
	return C.Get(args[0], *f.Pressure, *f.Temperature)
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
