// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package surface

import "github.com/aclements/go-gg/table"

// Column names used by CellTable and RatioTable.
const (
	ColYear        = "year"
	ColAge         = "age"
	ColX           = "x"
	ColY           = "y"
	ColValue       = "value"
	ColTransformed = "transformed"
	ColCurrent     = "current"
	ColReference   = "reference"
	ColRaw         = "raw"
	ColRatio       = "ratio"
)

// CellTable returns cells as a table with columns year, age, x, y,
// value, and transformed.
func CellTable(cells []Cell) *table.Table {
	n := len(cells)
	years, ages := make([]int, n), make([]int, n)
	xs, ys := make([]float64, n), make([]float64, n)
	vals, tvals := make([]float64, n), make([]float64, n)
	for i, c := range cells {
		years[i], ages[i] = c.Year, c.Age
		xs[i], ys[i] = c.X, c.Y
		vals[i], tvals[i] = c.Value, c.Transformed
	}
	return new(table.Builder).
		Add(ColYear, years).
		Add(ColAge, ages).
		Add(ColX, xs).
		Add(ColY, ys).
		Add(ColValue, vals).
		Add(ColTransformed, tvals).
		Done()
}

// RatioTable returns cells as a table with columns year, age, x, y,
// current, reference, raw, and ratio. The ratio column holds the
// clipped value.
func RatioTable(cells []RatioCell) *table.Table {
	n := len(cells)
	years, ages := make([]int, n), make([]int, n)
	xs, ys := make([]float64, n), make([]float64, n)
	curs, refs := make([]float64, n), make([]float64, n)
	raws, vals := make([]float64, n), make([]float64, n)
	for i, c := range cells {
		years[i], ages[i] = c.Year, c.Age
		xs[i], ys[i] = c.X, c.Y
		curs[i], refs[i] = c.Current, c.Reference
		raws[i], vals[i] = c.Raw, c.Value
	}
	return new(table.Builder).
		Add(ColYear, years).
		Add(ColAge, ages).
		Add(ColX, xs).
		Add(ColY, ys).
		Add(ColCurrent, curs).
		Add(ColReference, refs).
		Add(ColRaw, raws).
		Add(ColRatio, vals).
		Done()
}
