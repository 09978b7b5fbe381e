// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/aclements/lexis/ggsurface"
	"github.com/aclements/lexis/raster"
	"github.com/aclements/lexis/rates"
	"github.com/aclements/lexis/recipe"
	"github.com/aclements/lexis/surface"
)

// draw renders figure f of tab to w in f's format.
func draw(w io.Writer, tab *rates.Table, f *recipe.Figure) error {
	all, err := tab.Observations(f.Measure)
	if err != nil {
		return err
	}
	win := f.Window.Surface()
	obs := win.Filter(all)
	levels, err := f.Levels()
	if err != nil {
		return err
	}

	st := ggsurface.Style{
		Title:    f.Title,
		Palette:  f.Palette,
		Colors:   f.Colors,
		Reverse:  f.Reverse,
		Contours: levels,
		MinYear:  win.MinYear,
		MaxYear:  win.MaxYear,
		MaxAge:   f.MaxAge,
		Scale:    f.Scale,
		FillMin:  f.FillMin,
		FillMax:  f.FillMax,
	}
	if st.MaxAge == 0 && win.MaxAge != 0 {
		st.MaxAge = win.MaxAge + 1
	}
	png := f.Format == recipe.FormatPNG

	if f.IsSurface() {
		tr, err := f.TransformKind()
		if err != nil {
			return err
		}
		cells, err := surface.Build(obs, tr)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Measure, err)
		}
		logger.Debug("built surface", "figure", f.Name, "cells", len(cells), "transform", tr)
		if png {
			g, err := surface.NewGrid(surface.CellPoints(cells))
			if err != nil {
				return err
			}
			lo, hi := raster.Range(g)
			if f.FillMin != nil {
				lo = tr.Apply(*f.FillMin)
			}
			if f.FillMax != nil {
				hi = tr.Apply(*f.FillMax)
			}
			return encodePNG(w, g, &st, ggsurface.DefaultPalette, lo, hi)
		}
		fig, err := ggsurface.Surface(cells, tr, st)
		if err != nil {
			return err
		}
		return fig.WriteSVG(w)
	}

	var ref []surface.Observation
	if f.Lag != 0 {
		ref = surface.Lag(all, f.Lag)
	} else if ref, err = tab.Observations(f.Reference); err != nil {
		return err
	}
	build := surface.BuildRatio
	if f.Kind == recipe.KindDiff {
		build = surface.BuildDiff
	}
	cells, err := build(obs, ref, f.ClipBound())
	if err != nil {
		return fmt.Errorf("%s: %w", f.Measure, err)
	}
	logger.Debug("built ratio surface", "figure", f.Name, "kind", f.Kind, "cells", len(cells))

	st.Limit = f.Clip
	if png {
		g, err := surface.NewGrid(surface.RatioPoints(cells))
		if err != nil {
			return err
		}
		limit := ggsurface.RatioLimit(cells, st.Limit)
		return encodePNG(w, g, &st, ggsurface.DefaultDivergingPalette, -limit, limit)
	}
	fig, err := ggsurface.Ratio(cells, st)
	if err != nil {
		return err
	}
	return fig.WriteSVG(w)
}

func encodePNG(w io.Writer, g *surface.Grid, st *ggsurface.Style, def string, lo, hi float64) error {
	if g.Years == 0 {
		return ggsurface.ErrEmpty
	}
	pal, err := st.ColorPalette(def)
	if err != nil {
		return err
	}
	scale := st.Scale
	if scale == 0 {
		scale = ggsurface.DefaultScale
	}
	return raster.Encode(w, g, raster.Options{Palette: pal, Min: lo, Max: hi, Scale: scale})
}

// drawFile renders f of tab to the file path, or to standard output if
// path is "" or "-".
func drawFile(path string, tab *rates.Table, f *recipe.Figure) (err error) {
	if path == "" || path == "-" {
		return draw(os.Stdout, tab, f)
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	if err := draw(out, tab, f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
