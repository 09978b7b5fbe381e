// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package surface

import (
	"errors"
	"fmt"
	"math"
)

// ErrBadClip is returned when a clipping bound is not positive.
var ErrBadClip = errors.New("clip bound must be positive")

// RatioCell is a cell derived from two aligned observations.
type RatioCell struct {
	Year, Age int

	// X and Y are the centered coordinates of the cell.
	X, Y float64

	// Current and Reference are the two joined values.
	Current, Reference float64

	// Raw is the derived value before clipping and Value is Raw
	// clamped into the surface's clip bound.
	Raw, Value float64
}

// Clamp returns x limited to [-c, c]. NaN stays NaN.
func Clamp(x, c float64) float64 {
	return math.Max(-c, math.Min(c, x))
}

// LogRatio returns ln(cur/ref).
func LogRatio(cur, ref float64) float64 {
	return math.Log(cur / ref)
}

// Difference returns cur-ref.
func Difference(cur, ref float64) float64 {
	return cur - ref
}

// BuildRatio joins current and reference on (year, age) and returns a
// cell with value ln(current/reference) for every pair, clamped into
// [-clip, clip]. Cells appear in the order of current. Observations
// in current with no partner in reference are omitted.
//
// clip must be positive; use math.Inf(1) to disable clipping.
//
// To compare a series with the previous year of itself, pass
// Lag(obs, 1) as reference.
func BuildRatio(current, reference []Observation, clip float64) ([]RatioCell, error) {
	return join(current, reference, clip, LogRatio)
}

// BuildDiff is like BuildRatio, but the derived value is
// current-reference.
func BuildDiff(current, reference []Observation, clip float64) ([]RatioCell, error) {
	return join(current, reference, clip, Difference)
}

func join(current, reference []Observation, clip float64, f func(cur, ref float64) float64) ([]RatioCell, error) {
	if !(clip > 0) {
		return nil, fmt.Errorf("clip %v: %w", clip, ErrBadClip)
	}

	refs := make(map[key]float64, len(reference))
	for _, o := range reference {
		k := o.key()
		if _, ok := refs[k]; ok {
			return nil, fmt.Errorf("reference year %d age %d: %w", o.Year, o.Age, ErrDuplicateKey)
		}
		refs[k] = o.Value
	}

	seen := make(map[key]bool, len(current))
	var cells []RatioCell
	for _, o := range current {
		k := o.key()
		if seen[k] {
			return nil, fmt.Errorf("year %d age %d: %w", o.Year, o.Age, ErrDuplicateKey)
		}
		seen[k] = true

		ref, ok := refs[k]
		if !ok {
			continue
		}
		raw := f(o.Value, ref)
		cells = append(cells, RatioCell{
			Year:      o.Year,
			Age:       o.Age,
			X:         float64(o.Year) + Center,
			Y:         float64(o.Age) + Center,
			Current:   o.Value,
			Reference: ref,
			Raw:       raw,
			Value:     Clamp(raw, clip),
		})
	}
	return cells, nil
}

// Lag returns a copy of obs with every year shifted forward by years.
// Joining a series with Lag(series, 1) pairs each year with the year
// before it.
func Lag(obs []Observation, years int) []Observation {
	out := make([]Observation, len(obs))
	for i, o := range obs {
		o.Year += years
		out[i] = o
	}
	return out
}
