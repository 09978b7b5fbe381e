// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package recipe reads TOML files describing a set of Lexis surface
// figures to draw from one input table.
//
// A recipe looks like:
//
//	input = "mortality.csv"
//	output = "figures"
//
//	[[figure]]
//	name = "log-rates"
//	measure = "Male"
//	transform = "log10"
//	palette = "Spectral"
//	reverse = true
//	contour = { min = 0, max = -7, step = -0.5 }
//
//	[[figure]]
//	name = "sex-ratio"
//	kind = "ratio"
//	measure = "Male"
//	reference = "Female"
//	clip = 1
package recipe

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/aclements/lexis/surface"
)

// Kind is the kind of surface a figure draws.
type Kind string

const (
	// KindSurface colors each cell by its (transformed) value.
	KindSurface Kind = "surface"

	// KindRatio colors each cell by the log ratio of the measure
	// to a reference.
	KindRatio Kind = "ratio"

	// KindDiff colors each cell by the difference of the measure
	// and a reference.
	KindDiff Kind = "diff"
)

// Format is an output image format.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid recipe")

// Recipe is a set of figures drawn from one table.
type Recipe struct {
	// Input is the path of the rate table. Relative paths are
	// relative to the working directory.
	Input string `toml:"input"`

	// Sheet is the XLSX sheet to read. It defaults to the first.
	Sheet string `toml:"sheet"`

	// Output is the directory figures are written to. It defaults
	// to the working directory.
	Output string `toml:"output"`

	Figures []Figure `toml:"figure"`
}

// Figure is one surface to draw.
type Figure struct {
	// Name is the output file name, without extension.
	Name string `toml:"name"`

	// Kind defaults to KindSurface.
	Kind Kind `toml:"kind"`

	// Measure is the rate column to draw.
	Measure string `toml:"measure"`

	// A ratio or difference figure compares Measure with the
	// Reference column, or with itself Lag years earlier.
	Reference string `toml:"reference"`
	Lag       int    `toml:"lag"`

	// Transform is applied to the values of a plain surface:
	// "none" (the default) or "log10".
	Transform string `toml:"transform"`

	Palette string   `toml:"palette"`
	Colors  []string `toml:"colors"`
	Reverse bool     `toml:"reverse"`

	// FillMin and FillMax fix the ends of the color scale of a
	// plain surface, in untransformed units. Unset ends span the
	// data.
	FillMin *float64 `toml:"fill_min"`
	FillMax *float64 `toml:"fill_max"`

	// Clip bounds ratio and difference values to [-Clip, Clip].
	// 0 means no clipping.
	Clip float64 `toml:"clip"`

	// Contour gives the contour levels, if any.
	Contour *Breaks `toml:"contour"`

	Window Window `toml:"window"`

	// Format is "svg" (the default) or "png".
	Format string `toml:"format"`

	// Scale is the number of pixels per year and age.
	Scale int `toml:"scale"`

	// MaxAge is the top of the age axis.
	MaxAge int `toml:"max_age"`

	Title string `toml:"title"`
}

// Breaks describes a sequence of contour levels. For a log10 surface,
// Min, Max, and Step are decimal exponents (see surface.Breaks);
// otherwise they are values (see surface.LinearBreaks).
type Breaks struct {
	Min  float64 `toml:"min"`
	Max  float64 `toml:"max"`
	Step float64 `toml:"step"`
}

// Window limits the years and ages of a figure. Zero fields are
// unbounded.
type Window struct {
	MinYear int `toml:"min_year"`
	MaxYear int `toml:"max_year"`
	MinAge  int `toml:"min_age"`
	MaxAge  int `toml:"max_age"`
}

// Surface returns w as a surface.Window.
func (w Window) Surface() surface.Window {
	return surface.Window{MinYear: w.MinYear, MaxYear: w.MaxYear, MinAge: w.MinAge, MaxAge: w.MaxAge}
}

//go:embed tutorial.toml
var tutorial []byte

// Tutorial returns the built-in recipe that walks through the usual
// views of a mortality table: plain rates, rates on a log color scale,
// log rates with contours, year-on-year change, and the male to female
// ratio. It expects a table with Male and Female columns; its Input is
// empty.
func Tutorial() *Recipe {
	r, err := Parse(tutorial)
	if err != nil {
		panic("bad tutorial recipe: " + err.Error())
	}
	return r
}

// Load reads and parses the recipe file at path. It does not
// validate it.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Parse parses a TOML recipe. Unknown keys are errors.
func Parse(data []byte) (*Recipe, error) {
	var r Recipe
	md, err := toml.Decode(string(data), &r)
	if err != nil {
		return nil, err
	}
	if un := md.Undecoded(); len(un) > 0 {
		keys := make([]string, len(un))
		for i, k := range un {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}
	for i := range r.Figures {
		if r.Figures[i].Kind == "" {
			r.Figures[i].Kind = KindSurface
		}
	}
	return &r, nil
}

// Validate checks r for errors that would otherwise only show up
// partway through drawing it.
func (r *Recipe) Validate() error {
	if r.Input == "" {
		return fmt.Errorf("%w: no input", ErrInvalid)
	}
	if len(r.Figures) == 0 {
		return fmt.Errorf("%w: no figures", ErrInvalid)
	}
	names := make(map[string]bool)
	for i := range r.Figures {
		f := &r.Figures[i]
		if err := f.validate(); err != nil {
			name := f.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i+1)
			}
			return fmt.Errorf("%w: figure %s: %v", ErrInvalid, name, err)
		}
		if names[f.Name] {
			return fmt.Errorf("%w: duplicate figure name %q", ErrInvalid, f.Name)
		}
		names[f.Name] = true
	}
	return nil
}

func (f *Figure) validate() error {
	if f.Name == "" {
		return errors.New("no name")
	}
	if strings.ContainsAny(f.Name, `/\`) {
		return fmt.Errorf("name %q contains a path separator", f.Name)
	}
	if f.Measure == "" {
		return errors.New("no measure")
	}
	tr, err := surface.ParseTransform(f.Transform)
	if err != nil {
		return err
	}

	switch f.Kind {
	case KindSurface, "":
		if f.Reference != "" || f.Lag != 0 {
			return errors.New("reference and lag only apply to ratio and diff figures")
		}
		if err := f.validateFill(tr); err != nil {
			return err
		}
	case KindRatio, KindDiff:
		if (f.Reference == "") == (f.Lag == 0) {
			return errors.New("need exactly one of reference and lag")
		}
		if f.Lag < 0 {
			return fmt.Errorf("negative lag %d", f.Lag)
		}
		if tr != surface.Identity {
			return fmt.Errorf("transform %s does not apply to %s figures", tr, f.Kind)
		}
		if f.FillMin != nil || f.FillMax != nil {
			return fmt.Errorf("fill_min and fill_max do not apply to %s figures; use clip", f.Kind)
		}
		if f.Clip < 0 || math.IsNaN(f.Clip) {
			return fmt.Errorf("clip %v: %w", f.Clip, surface.ErrBadClip)
		}
	default:
		return fmt.Errorf("unknown kind %q", f.Kind)
	}

	switch f.Format {
	case "", FormatSVG:
	case FormatPNG:
		if f.Contour != nil {
			return errors.New("contours cannot be drawn in png format")
		}
	default:
		return fmt.Errorf("unknown format %q", f.Format)
	}
	if f.Scale < 0 || f.MaxAge < 0 {
		return errors.New("negative scale or max_age")
	}
	if w := f.Window; w.MaxYear != 0 && w.MinYear > w.MaxYear {
		return fmt.Errorf("empty year window %d-%d", w.MinYear, w.MaxYear)
	}
	if _, err := f.Levels(); err != nil {
		return err
	}
	return nil
}

func (f *Figure) validateFill(tr surface.Transform) error {
	for _, v := range []*float64{f.FillMin, f.FillMax} {
		if v == nil {
			continue
		}
		if x := tr.Apply(*v); math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("fill bound %v has no %s value", *v, tr)
		}
	}
	if f.FillMin != nil && f.FillMax != nil && *f.FillMin >= *f.FillMax {
		return fmt.Errorf("empty fill range [%v, %v]", *f.FillMin, *f.FillMax)
	}
	return nil
}

// IsSurface reports whether f draws a plain surface.
func (f *Figure) IsSurface() bool {
	return f.Kind == KindSurface || f.Kind == ""
}

// TransformKind returns the parsed Transform of f.
func (f *Figure) TransformKind() (surface.Transform, error) {
	return surface.ParseTransform(f.Transform)
}

// ClipBound returns the clip bound to pass to surface.BuildRatio or
// surface.BuildDiff.
func (f *Figure) ClipBound() float64 {
	if f.Clip == 0 {
		return math.Inf(1)
	}
	return f.Clip
}

// Levels returns the contour levels of f, or nil if it has none.
func (f *Figure) Levels() ([]float64, error) {
	if f.Contour == nil {
		return nil, nil
	}
	c := f.Contour
	tr, err := f.TransformKind()
	if err != nil {
		return nil, err
	}
	if f.IsSurface() && tr == surface.Log10 {
		return surface.Breaks(c.Min, c.Max, c.Step)
	}
	return surface.LinearBreaks(c.Min, c.Max, c.Step)
}

// FileName returns the output file name of f.
func (f *Figure) FileName() string {
	format := f.Format
	if format == "" {
		format = FormatSVG
	}
	return f.Name + "." + format
}
