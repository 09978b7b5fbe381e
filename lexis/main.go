// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command lexis draws Lexis surfaces: heat maps of a demographic rate
// over calendar year and age.
//
// lexis reads a table with Year and Age columns and one or more rate
// columns from a CSV file, a Human Mortality Database text file, or an
// XLSX workbook. Each rate column can be drawn as a plain surface,
// optionally on a log color scale with contour lines, or compared with
// another column or with itself a number of years earlier as a log
// ratio or difference surface. Figures are written as SVG or PNG.
//
// Usage:
//
//	lexis surface mortality.csv --measure Male --log --contours 0,-7,-0.5 -o male.svg
//	lexis ratio mortality.csv --measure Male --reference Female --clip 1 -o sex.svg
//	lexis ratio mortality.csv --measure Male --lag 1 --clip 0.5 --format png -o change.png
//	lexis breaks 0 -7 -0.5
//	lexis table mortality.csv
//	lexis run --tutorial --input mortality.csv
package main

import (
	"io"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

// logger is the command's logger. It is replaced before any
// subcommand runs, once --verbose is known.
var logger = newLogger(os.Stderr, false)

func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          "lexis",
	})
}

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		cpuProfile string
		memProfile string
		cpuFile    *os.File
	)
	root := &cobra.Command{
		Use:           "lexis",
		Short:         "Draw Lexis surfaces of demographic rates",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger = newLogger(cmd.ErrOrStderr(), verbose)
			if cpuProfile != "" {
				f, err := os.Create(cpuProfile)
				if err != nil {
					return err
				}
				if err := pprof.StartCPUProfile(f); err != nil {
					f.Close()
					return err
				}
				cpuFile = f
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if cpuFile != nil {
				pprof.StopCPUProfile()
				cpuFile.Close()
			}
			if memProfile != "" {
				runtime.GC()
				f, err := os.Create(memProfile)
				if err != nil {
					return err
				}
				defer f.Close()
				return pprof.WriteHeapProfile(f)
			}
			return nil
		},
	}
	pf := root.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&cpuProfile, "cpuprofile", "", "write CPU profile to `file`")
	pf.StringVar(&memProfile, "memprofile", "", "write heap profile to `file`")

	root.AddCommand(newSurfaceCmd(), newRatioCmd(), newBreaksCmd(), newTableCmd(), newRunCmd())
	return root
}
