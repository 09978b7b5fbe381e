// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ggsurface renders Lexis surfaces with gg.
//
// Each cell of a surface becomes one tile of a gg.LayerTiles layer,
// filled through a continuous palette. Plain surfaces use a sequential
// palette over the transformed value; ratio and difference surfaces
// use a diverging palette centered on 0 with symmetric limits. Contour
// lines at given levels can be overlaid, and the figure is sized so
// that a year and an age cover about the same number of pixels.
package ggsurface

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/palette"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/lexis/surface"
)

const (
	// DefaultMaxAge is the upper limit of the age axis.
	DefaultMaxAge = 111

	// DefaultScale is the default number of pixels per year.
	DefaultScale = 5

	// DefaultPalette is the default sequential palette.
	DefaultPalette = "viridis"

	// DefaultDivergingPalette is the default diverging palette.
	DefaultDivergingPalette = "RdBu"
)

// ErrEmpty is returned when there are no cells to plot.
var ErrEmpty = errors.New("no cells to plot")

// ErrBadFill is returned for a fill range that cannot be mapped to
// the fill scale.
var ErrBadFill = errors.New("bad fill range")

// Style configures how a surface is drawn.
type Style struct {
	Title string

	// Palette names the fill palette (see Palette). If Colors is
	// not empty, it gives the palette as hex colors instead (see
	// HexPalette). Reverse flips the palette.
	Palette string
	Colors  []string
	Reverse bool

	// FillMin and FillMax fix the ends of the fill scale of a
	// plain surface, in untransformed units. A nil end is trained
	// on the data. Under Log10 a fixed end must be positive.
	FillMin, FillMax *float64

	// Limit is the symmetric fill limit of a ratio or difference
	// surface. If it is 0, the largest absolute value is used.
	Limit float64

	// Contours lists the levels at which to draw iso-lines. For a
	// plain surface these are in untransformed units; for a ratio
	// or difference surface they are in the units of its value.
	Contours []float64

	// MinYear and MaxYear fix the year axis. If 0, the axis spans
	// the data.
	MinYear, MaxYear int

	// MaxAge is the upper limit of the age axis, which always
	// starts at 0. If 0, DefaultMaxAge is used.
	MaxAge int

	// Scale is the number of pixels per year and per age. If 0,
	// DefaultScale is used.
	Scale int
}

// Figure is a plot ready to be written.
type Figure struct {
	Plot *gg.Plot

	// Width and Height are the SVG size in pixels.
	Width, Height int
}

// WriteSVG writes f to w as an SVG image.
func (f *Figure) WriteSVG(w io.Writer) error {
	return f.Plot.WriteSVG(w, f.Width, f.Height)
}

// ColorPalette returns the palette configured by st, using def if
// st names none.
func (st *Style) ColorPalette(def string) (palette.Continuous, error) {
	if len(st.Colors) > 0 {
		return HexPalette(st.Colors, st.Reverse)
	}
	name := st.Palette
	if name == "" {
		name = def
	}
	return Palette(name, st.Reverse)
}

func (st *Style) maxAge() int {
	if st.MaxAge > 0 {
		return st.MaxAge
	}
	return DefaultMaxAge
}

func (st *Style) scale() int {
	if st.Scale > 0 {
		return st.Scale
	}
	return DefaultScale
}

// Surface plots cells colored by their transformed value. tr must be
// the transform the cells were built with; it maps st.FillMin,
// st.FillMax, and st.Contours into the fill space.
func Surface(cells []surface.Cell, tr surface.Transform, st Style) (*Figure, error) {
	pal, err := st.ColorPalette(DefaultPalette)
	if err != nil {
		return nil, err
	}
	fill, err := st.surfaceFill(tr, pal)
	if err != nil {
		return nil, err
	}
	levels := make([]float64, len(st.Contours))
	for i, c := range st.Contours {
		levels[i] = tr.Apply(c)
	}
	return newFigure(surface.CellTable(cells), surface.ColTransformed, surface.CellPoints(cells), fill, levels, st)
}

// surfaceFill returns the fill scale of a plain surface drawn with
// transform tr and palette pal.
func (st *Style) surfaceFill(tr surface.Transform, pal palette.Continuous) (gg.ContinuousScaler, error) {
	fill := gg.NewLinearScaler()
	fill.Ranger(paletteRanger{pal})
	bound := func(v *float64) (float64, error) {
		if v == nil {
			return math.NaN(), nil
		}
		x := tr.Apply(*v)
		if !finite(x) {
			return 0, fmt.Errorf("fill bound %v under %s: %w", *v, tr, ErrBadFill)
		}
		return x, nil
	}
	lo, err := bound(st.FillMin)
	if err != nil {
		return nil, err
	}
	hi, err := bound(st.FillMax)
	if err != nil {
		return nil, err
	}
	if lo >= hi {
		return nil, fmt.Errorf("fill range [%v, %v]: %w", *st.FillMin, *st.FillMax, ErrBadFill)
	}
	if !math.IsNaN(lo) {
		fill.SetMin(lo)
	}
	if !math.IsNaN(hi) {
		fill.SetMax(hi)
	}
	return fill, nil
}

// Ratio plots ratio or difference cells colored by their clipped
// value on a diverging scale whose midpoint is 0.
func Ratio(cells []surface.RatioCell, st Style) (*Figure, error) {
	pal, err := st.ColorPalette(DefaultDivergingPalette)
	if err != nil {
		return nil, err
	}
	limit := RatioLimit(cells, st.Limit)
	fill := gg.NewLinearScaler().SetMin(-limit).SetMax(limit)
	fill.Ranger(paletteRanger{pal})
	return newFigure(surface.RatioTable(cells), surface.ColRatio, surface.RatioPoints(cells), fill, st.Contours, st)
}

// RatioLimit returns limit if it is positive. Otherwise it returns the
// largest finite absolute value of cells, or 1 if there is none.
func RatioLimit(cells []surface.RatioCell, limit float64) float64 {
	if limit > 0 {
		return limit
	}
	limit = 0
	for _, c := range cells {
		if v := math.Abs(c.Value); v > limit && !math.IsInf(v, 0) {
			limit = v
		}
	}
	if limit == 0 {
		limit = 1
	}
	return limit
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func newFigure(tab *table.Table, col string, ps []surface.Point, fill gg.ContinuousScaler, levels []float64, st Style) (*Figure, error) {
	if tab.Len() == 0 {
		return nil, ErrEmpty
	}
	minYear, maxYear, _, _ := surface.Bounds(ps)
	if st.MinYear != 0 {
		minYear = st.MinYear
	}
	if st.MaxYear != 0 {
		maxYear = st.MaxYear
	}
	if maxYear < minYear {
		return nil, fmt.Errorf("year axis %d-%d is empty", minYear, maxYear)
	}
	maxAge := st.maxAge()

	// Cells with no value are left blank.
	data := table.Filter(tab, finite, col)

	plot := gg.NewPlot(data)
	plot.SetScale("x", gg.NewLinearScaler().SetMin(float64(minYear)).SetMax(float64(maxYear+1)))
	plot.SetScale("y", gg.NewLinearScaler().SetMin(0).SetMax(float64(maxAge)))
	plot.SetScale("fill", fill)

	plot.Add(gg.LayerTiles{X: surface.ColX, Y: surface.ColY, Fill: col})

	if len(levels) > 0 {
		g, err := surface.NewGrid(ps)
		if err != nil {
			return nil, err
		}
		if hasLines(g, levels) {
			plot.Save()
			plot.Stat(Contour{X: surface.ColX, Y: surface.ColY, Z: col, Levels: levels})
			plot.Add(gg.LayerPaths{X: surface.ColX, Y: surface.ColY})
			plot.Restore()
		}
	}

	plot.Add(gg.AxisLabel("x", "Year"), gg.AxisLabel("y", "Age"))
	if st.Title != "" {
		plot.Add(gg.Title(st.Title))
	}

	w, h := Size(maxYear-minYear+1, maxAge, st.scale())
	return &Figure{Plot: plot, Width: w, Height: h}, nil
}

// hasLines reports whether any level has an iso-line on g.
func hasLines(g *surface.Grid, levels []float64) bool {
	for _, level := range levels {
		if len(Trace(g, level)) > 0 {
			return true
		}
	}
	return false
}

// Size returns the SVG size for a plot area of years × ages units at
// scale pixels per unit, so that both axes have about the same number
// of pixels per unit. The extra space accounts for gg's plot margins,
// tick labels, and axis labels.
func Size(years, ages, scale int) (width, height int) {
	const (
		margin = 0.05 // gg's margin, as a fraction of the smaller side
		padX   = 70   // y tick labels and axis label
		padY   = 60   // x tick labels, axis label, and title
	)
	w, h := float64(years*scale), float64(ages*scale)
	m := 2 * margin * math.Min(w, h) / (1 - 2*margin)
	return int(math.Ceil(w+m)) + padX, int(math.Ceil(h+m)) + padY
}
