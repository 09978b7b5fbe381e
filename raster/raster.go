// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package raster draws a Lexis surface grid as a PNG image with one
// block of pixels per cell.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/aclements/go-gg/palette"
	"github.com/aclements/go-moremath/scale"
	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/lexis/surface"
	"golang.org/x/image/colornames"
	"golang.org/x/image/draw"
)

// ErrEmpty is returned for a grid with no cells.
var ErrEmpty = errors.New("empty grid")

// Options control how a grid is drawn.
type Options struct {
	// Palette maps [0, 1] to colors. If nil, palette.Viridis is
	// used.
	Palette palette.Continuous

	// Min and Max are the values mapped to the ends of the
	// palette. Values outside are clamped. If Min == Max, the
	// range is taken from the finite values of the grid.
	Min, Max float64

	// Scale is the number of pixels per cell on each side. If it
	// is less than 1, it is 1.
	Scale int

	// NA names the color of cells with no value, as an SVG color
	// keyword. If empty, it is "lightgray".
	NA string
}

// Image returns g as an image, one pixel per cell. Age 0 is the
// bottom row and the first year the left column.
func Image(g *surface.Grid, opts Options) (*image.RGBA, error) {
	if g.Years == 0 || g.Ages == 0 {
		return nil, ErrEmpty
	}
	pal := opts.Palette
	if pal == nil {
		pal = palette.Viridis
	}
	naName := opts.NA
	if naName == "" {
		naName = "lightgray"
	}
	na, ok := colornames.Map[naName]
	if !ok {
		return nil, fmt.Errorf("unknown color %q", naName)
	}

	lo, hi := opts.Min, opts.Max
	if lo == hi {
		lo, hi = Range(g)
	}
	s := scale.Linear{Min: lo, Max: hi}

	img := image.NewRGBA(image.Rect(0, 0, g.Years, g.Ages))
	for j := 0; j < g.Ages; j++ {
		row := g.Ages - 1 - j
		for i := 0; i < g.Years; i++ {
			v := g.V[j*g.Years+i]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				img.Set(i, row, na)
				continue
			}
			x := 0.5
			if hi != lo {
				x = math.Max(0, math.Min(1, s.Map(v)))
			}
			img.Set(i, row, pal.Map(x))
		}
	}
	return img, nil
}

// Range returns the range of the finite values of g, or [0, 1] if
// there are none.
func Range(g *surface.Grid) (lo, hi float64) {
	vs := g.Finite()
	if len(vs) == 0 {
		return 0, 1
	}
	return stats.Bounds(vs)
}

// Encode writes g to w as a PNG image, scaling each cell to an
// opts.Scale square of pixels.
func Encode(w io.Writer, g *surface.Grid, opts Options) error {
	src, err := Image(g, opts)
	if err != nil {
		return err
	}
	k := opts.Scale
	if k < 1 {
		k = 1
	}
	dst := src
	if k > 1 {
		sb := src.Bounds()
		dst = image.NewRGBA(image.Rect(0, 0, sb.Dx()*k, sb.Dy()*k))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
	}
	return png.Encode(w, dst)
}
