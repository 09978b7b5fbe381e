// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggsurface

import (
	"errors"
	"fmt"
	"image/color"
	"reflect"
	"strings"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/palette"
	"github.com/aclements/go-gg/palette/brewer"
	"github.com/lucasb-eyer/go-colorful"
)

// ErrUnknownPalette is returned for a palette name that is neither
// "viridis" nor a ColorBrewer palette.
var ErrUnknownPalette = errors.New("unknown palette")

// Palette returns the continuous palette called name. name is
// "viridis" or the name of a ColorBrewer palette such as "Spectral",
// "YlOrRd", or "RdBu" (case-insensitive). ColorBrewer palettes are
// interpolated in L*a*b* space from their largest variant. If reverse
// is true, the palette runs from its last color to its first.
func Palette(name string, reverse bool) (palette.Continuous, error) {
	var p palette.Continuous
	if strings.EqualFold(name, "viridis") {
		p = palette.Viridis
	} else {
		colors, err := brewerColors(name)
		if err != nil {
			return nil, err
		}
		p = colors
	}
	if reverse {
		p = reversed{p}
	}
	return p, nil
}

func brewerColors(name string) (labGradient, error) {
	for bname, levels := range brewer.ByName {
		if !strings.EqualFold(bname, name) {
			continue
		}
		best := 0
		for n := range levels {
			if n > best {
				best = n
			}
		}
		var out labGradient
		for _, c := range levels[best] {
			lc, _ := colorful.MakeColor(c)
			out = append(out, lc)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownPalette, name)
}

// HexPalette returns a continuous palette that blends between colors,
// given as hex strings like "#2166ac", in CIE L*a*b* space.
func HexPalette(colors []string, reverse bool) (palette.Continuous, error) {
	if len(colors) < 2 {
		return nil, fmt.Errorf("need at least 2 colors, have %d", len(colors))
	}
	lab := make(labGradient, len(colors))
	for i, s := range colors {
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, fmt.Errorf("color %q: %w", s, err)
		}
		lab[i] = c
	}
	var p palette.Continuous = lab
	if reverse {
		p = reversed{p}
	}
	return p, nil
}

// labGradient interpolates evenly spaced colors in L*a*b* space.
type labGradient []colorful.Color

func (g labGradient) Map(x float64) color.Color {
	if !(x > 0) {
		return g[0]
	} else if x >= 1 {
		return g[len(g)-1]
	}
	n := x * float64(len(g)-1)
	i := int(n)
	return g[i].BlendLab(g[i+1], n-float64(i)).Clamped()
}

type reversed struct {
	p palette.Continuous
}

func (r reversed) Map(x float64) color.Color {
	return r.p.Map(1 - x)
}

var colorType = reflect.TypeOf((*color.Color)(nil)).Elem()

// paletteRanger adapts a continuous palette to a gg fill scale.
type paletteRanger struct {
	p palette.Continuous
}

var _ gg.ContinuousRanger = paletteRanger{}

func (r paletteRanger) RangeType() reflect.Type {
	return colorType
}

func (r paletteRanger) Map(x float64) interface{} {
	return r.p.Map(x)
}

func (r paletteRanger) Unmap(y interface{}) (float64, bool) {
	return 0, false
}
