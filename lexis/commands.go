// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/lexis/rates"
	"github.com/aclements/lexis/recipe"
	"github.com/aclements/lexis/surface"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// figureFlags are the flags shared by the surface and ratio commands.
type figureFlags struct {
	out      string
	sheet    string
	fig      recipe.Figure
	contours string

	fs               *pflag.FlagSet
	fillMin, fillMax float64
}

func (ff *figureFlags) register(fs *pflag.FlagSet) {
	ff.fs = fs
	fs.StringVarP(&ff.out, "output", "o", "", "write output to `file` (default: stdout)")
	fs.StringVar(&ff.sheet, "sheet", "", "read XLSX `sheet` (default: first sheet)")
	fs.StringVarP(&ff.fig.Measure, "measure", "m", "", "rate `column` to draw")
	fs.StringVar(&ff.fig.Format, "format", "", "output `format`: svg or png (default: from -o, else svg)")
	fs.StringVar(&ff.fig.Palette, "palette", "", "viridis or a ColorBrewer palette `name`")
	fs.StringSliceVar(&ff.fig.Colors, "colors", nil, "blend between hex `colors` instead of a named palette")
	fs.BoolVar(&ff.fig.Reverse, "reverse", false, "reverse the palette")
	fs.StringVar(&ff.fig.Title, "title", "", "plot `title`")
	fs.IntVar(&ff.fig.Scale, "scale", 0, "`pixels` per year and age")
	fs.IntVar(&ff.fig.MaxAge, "max-age", 0, "top of the age axis (default 111)")
	fs.IntVar(&ff.fig.Window.MinYear, "min-year", 0, "first `year` to draw")
	fs.IntVar(&ff.fig.Window.MaxYear, "max-year", 0, "last `year` to draw")
	fs.StringVar(&ff.contours, "contours", "", "draw contours at `min,max,step`")
}

func (ff *figureFlags) registerFill(fs *pflag.FlagSet) {
	fs.Float64Var(&ff.fillMin, "fill-min", 0, "rate at the low end of the palette (default: data minimum)")
	fs.Float64Var(&ff.fillMax, "fill-max", 0, "rate at the high end of the palette (default: data maximum)")
}

// run validates the figure, reads path, and draws it.
func (ff *figureFlags) run(path string) error {
	f := &ff.fig
	if f.Format == "" && strings.EqualFold(filepath.Ext(ff.out), ".png") {
		f.Format = recipe.FormatPNG
	}
	if ff.contours != "" {
		b, err := parseBreaks(ff.contours)
		if err != nil {
			return err
		}
		f.Contour = b
	}
	if ff.fs.Changed("fill-min") {
		f.FillMin = &ff.fillMin
	}
	if ff.fs.Changed("fill-max") {
		f.FillMax = &ff.fillMax
	}
	f.Name = strings.TrimSuffix(filepath.Base(ff.out), filepath.Ext(ff.out))
	if f.Name == "" || f.Name == "-" || f.Name == "." {
		f.Name = "figure"
	}
	r := &recipe.Recipe{Input: path, Sheet: ff.sheet, Figures: []recipe.Figure{*f}}
	if err := r.Validate(); err != nil {
		return err
	}
	tab, err := rates.Open(path, ff.sheet)
	if err != nil {
		return err
	}
	logger.Debug("read table", "path", path, "rows", tab.Len(), "columns", tab.Columns())
	return drawFile(ff.out, tab, f)
}

// parseBreaks parses "min,max,step".
func parseBreaks(s string) (*recipe.Breaks, error) {
	fs := strings.Split(s, ",")
	if len(fs) != 3 {
		return nil, fmt.Errorf("breaks %q: want min,max,step", s)
	}
	var v [3]float64
	for i, f := range fs {
		x, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("breaks %q: %w", s, err)
		}
		v[i] = x
	}
	return &recipe.Breaks{Min: v[0], Max: v[1], Step: v[2]}, nil
}

func newSurfaceCmd() *cobra.Command {
	var (
		ff  figureFlags
		log bool
	)
	cmd := &cobra.Command{
		Use:   "surface FILE",
		Short: "Draw a rate column as a Lexis surface",
		Long: `Draw a rate column as a Lexis surface.

With --log, cells are colored by the decimal logarithm of the rate and
--contours gives decimal exponents, so --contours 0,-7,-0.5 draws lines
at 1, 10^-0.5, ..., 10^-7. Without --log, contours are at rate values.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ff.fig.Kind = recipe.KindSurface
			if log {
				ff.fig.Transform = surface.Log10.String()
			}
			return ff.run(args[0])
		},
	}
	ff.register(cmd.Flags())
	ff.registerFill(cmd.Flags())
	cmd.Flags().BoolVar(&log, "log", false, "color by the decimal logarithm of the rate")
	return cmd
}

func newRatioCmd() *cobra.Command {
	var (
		ff   figureFlags
		diff bool
	)
	cmd := &cobra.Command{
		Use:   "ratio FILE",
		Short: "Draw the log ratio of a rate column to a reference",
		Long: `Draw the log ratio of a rate column to a reference.

The reference is another column (--reference) or the same column --lag
years earlier. Each cell is ln(measure/reference) clipped to
[-clip, clip] and drawn on a diverging palette centered on 0. With
--diff, cells are measure-reference instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ff.fig.Kind = recipe.KindRatio
			if diff {
				ff.fig.Kind = recipe.KindDiff
			}
			return ff.run(args[0])
		},
	}
	ff.register(cmd.Flags())
	fs := cmd.Flags()
	fs.StringVar(&ff.fig.Reference, "reference", "", "reference rate `column`")
	fs.IntVar(&ff.fig.Lag, "lag", 0, "compare with the measure this many `years` earlier")
	fs.Float64Var(&ff.fig.Clip, "clip", 0, "clip values to [-`bound`, bound] (default: no clipping)")
	fs.BoolVar(&diff, "diff", false, "draw measure-reference instead of the log ratio")
	return cmd
}

func newBreaksCmd() *cobra.Command {
	var linear bool
	cmd := &cobra.Command{
		Use:   "breaks MIN MAX STEP",
		Short: "Print a contour break sequence",
		Long: `Print the break sequence 10^MIN, 10^(MIN+STEP), ... up to 10^MAX.

With --linear, print MIN, MIN+STEP, ... up to MAX. Flags must come
before the arguments, and a negative MIN must follow "--".`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := parseBreaks(strings.Join(args, ","))
			if err != nil {
				return err
			}
			breaks := surface.Breaks
			if linear {
				breaks = surface.LinearBreaks
			}
			vs, err := breaks(b.Min, b.Max, b.Step)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, v := range vs {
				fmt.Fprintf(w, "%g\n", v)
			}
			return nil
		},
	}
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().BoolVar(&linear, "linear", false, "print an arithmetic sequence")
	return cmd
}

func newTableCmd() *cobra.Command {
	var (
		sheet   string
		summary bool
	)
	cmd := &cobra.Command{
		Use:   "table FILE",
		Short: "Print a rate table as it was parsed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, err := rates.Open(args[0], sheet)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if summary {
				table.Fprint(w, rates.SummaryTable(tab.Summarize()))
				return nil
			}
			table.Fprint(w, tab.Grouping())
			return nil
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", "", "read XLSX `sheet` (default: first sheet)")
	cmd.Flags().BoolVar(&summary, "summary", false, "print per-column statistics instead of rows")
	return cmd
}

func newRunCmd() *cobra.Command {
	var (
		tutorial bool
		input    string
		output   string
	)
	cmd := &cobra.Command{
		Use:   "run [RECIPE]",
		Short: "Draw every figure of a TOML recipe",
		Long: `Draw every figure of a TOML recipe.

With --tutorial, draw the built-in tutorial recipe, which needs a table
with Male and Female columns given by --input.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r *recipe.Recipe
			switch {
			case tutorial && len(args) == 0:
				r = recipe.Tutorial()
			case !tutorial && len(args) == 1:
				var err error
				if r, err = recipe.Load(args[0]); err != nil {
					return err
				}
			default:
				return errors.New("need exactly one of RECIPE and --tutorial")
			}
			if input != "" {
				r.Input = input
			}
			if output != "" {
				r.Output = output
			}
			return runRecipe(r)
		},
	}
	fs := cmd.Flags()
	fs.BoolVar(&tutorial, "tutorial", false, "draw the built-in tutorial recipe")
	fs.StringVar(&input, "input", "", "read the rate table from `file` instead of the recipe's input")
	fs.StringVarP(&output, "output", "o", "", "write figures to `dir` instead of the recipe's output")
	return cmd
}

// runRecipe draws every figure of r into r.Output.
func runRecipe(r *recipe.Recipe) error {
	if err := r.Validate(); err != nil {
		return err
	}
	tab, err := rates.Open(r.Input, r.Sheet)
	if err != nil {
		return err
	}
	logger.Info("read table", "path", r.Input, "rows", tab.Len())
	if r.Output != "" {
		if err := os.MkdirAll(r.Output, 0777); err != nil {
			return err
		}
	}
	for i := range r.Figures {
		f := &r.Figures[i]
		start := time.Now()
		path := filepath.Join(r.Output, f.FileName())
		if err := drawFile(path, tab, f); err != nil {
			return fmt.Errorf("figure %s: %w", f.Name, err)
		}
		logger.Infof("wrote %s (%s)", path, time.Since(start).Round(time.Millisecond))
	}
	return nil
}
