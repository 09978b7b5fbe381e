// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package surface builds Lexis surfaces from year/age tables.
//
// A Lexis surface is a grid indexed by calendar year and age. This
// package turns a collection of (year, age, value) observations into
// cells that a renderer can draw as one rectangle per cell, optionally
// transforming the value (see Transform) or deriving a ratio or
// difference against a reference set of observations (see BuildRatio
// and BuildDiff).
//
// Cell coordinates are centered: a cell for year Y and age A has
// X = Y + 0.5 and Y = A + 0.5, so a unit square drawn around the
// cell's coordinates covers [Y, Y+1) × [A, A+1).
//
// All operations are pure functions of their inputs.
package surface

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Observation is one cell of a year/age/rate table. Value is NaN if
// the rate is missing.
type Observation struct {
	Year, Age int
	Value     float64
}

// key identifies an observation within one measure.
type key struct {
	year, age int
}

func (o Observation) key() key {
	return key{o.Year, o.Age}
}

// Center is the offset added to the integer year and age of an
// observation to obtain the coordinates of its cell.
const Center = 0.5

// ErrDuplicateKey is returned when observations contain more than one
// value for the same (year, age) pair.
var ErrDuplicateKey = errors.New("duplicate (year, age) observation")

// A Transform maps a non-negative rate to the value used for coloring.
type Transform int

const (
	// Identity leaves values unchanged.
	Identity Transform = iota

	// Log10 takes the base-10 logarithm. Values <= 0 have no
	// logarithm and map to NaN.
	Log10
)

func (t Transform) String() string {
	switch t {
	case Identity:
		return "identity"
	case Log10:
		return "log10"
	}
	return fmt.Sprintf("Transform(%d)", int(t))
}

// ParseTransform parses the name of a Transform as returned by String.
// "" and "none" are accepted for Identity and "log" for Log10.
func ParseTransform(s string) (Transform, error) {
	switch strings.ToLower(s) {
	case "", "none", "identity":
		return Identity, nil
	case "log", "log10":
		return Log10, nil
	}
	return 0, fmt.Errorf("unknown transform %q", s)
}

// Apply applies t to v.
func (t Transform) Apply(v float64) float64 {
	switch t {
	case Log10:
		if !(v > 0) {
			return math.NaN()
		}
		return math.Log10(v)
	}
	return v
}

// Cell is an Observation placed on a Lexis surface.
type Cell struct {
	Year, Age int

	// X and Y are the centered coordinates of the cell.
	X, Y float64

	// Value is the observed value and Transformed is Value after
	// the surface's Transform.
	Value, Transformed float64
}

// Build returns one Cell for each observation, in order, with
// Transformed computed by t. Observations with no defined transform
// (for example, a zero rate under Log10) produce a NaN Transformed
// value rather than an error.
//
// obs must not contain two observations with the same year and age.
func Build(obs []Observation, t Transform) ([]Cell, error) {
	seen := make(map[key]bool, len(obs))
	cells := make([]Cell, len(obs))
	for i, o := range obs {
		k := o.key()
		if seen[k] {
			return nil, fmt.Errorf("year %d age %d: %w", o.Year, o.Age, ErrDuplicateKey)
		}
		seen[k] = true

		cells[i] = Cell{
			Year:        o.Year,
			Age:         o.Age,
			X:           float64(o.Year) + Center,
			Y:           float64(o.Age) + Center,
			Value:       o.Value,
			Transformed: t.Apply(o.Value),
		}
	}
	return cells, nil
}

// Window selects a rectangle of a Lexis surface. A zero MinYear,
// MaxYear, or MaxAge leaves that side unbounded.
type Window struct {
	MinYear, MaxYear int
	MinAge, MaxAge   int
}

// Contains reports whether year and age fall inside w. All bounds are
// inclusive.
func (w Window) Contains(year, age int) bool {
	if w.MinYear != 0 && year < w.MinYear {
		return false
	}
	if w.MaxYear != 0 && year > w.MaxYear {
		return false
	}
	if age < w.MinAge {
		return false
	}
	if w.MaxAge != 0 && age > w.MaxAge {
		return false
	}
	return true
}

// Filter returns the observations of obs that fall inside w. It does
// not modify obs.
func (w Window) Filter(obs []Observation) []Observation {
	out := make([]Observation, 0, len(obs))
	for _, o := range obs {
		if w.Contains(o.Year, o.Age) {
			out = append(out, o)
		}
	}
	return out
}
