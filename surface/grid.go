// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package surface

import (
	"errors"
	"fmt"
	"math"

	"github.com/aclements/go-moremath/stats"
)

// Point is a single value on the integer year/age lattice.
type Point struct {
	Year, Age int
	Value     float64
}

// CellPoints returns the transformed value of each cell.
func CellPoints(cells []Cell) []Point {
	ps := make([]Point, len(cells))
	for i, c := range cells {
		ps[i] = Point{c.Year, c.Age, c.Transformed}
	}
	return ps
}

// RatioPoints returns the clipped value of each cell.
func RatioPoints(cells []RatioCell) []Point {
	ps := make([]Point, len(cells))
	for i, c := range cells {
		ps[i] = Point{c.Year, c.Age, c.Value}
	}
	return ps
}

// Bounds returns the smallest and largest year and age in ps. If ps
// is empty, all results are 0.
func Bounds(ps []Point) (minYear, maxYear, minAge, maxAge int) {
	if len(ps) == 0 {
		return
	}
	years, ages := make([]float64, len(ps)), make([]float64, len(ps))
	for i, p := range ps {
		years[i], ages[i] = float64(p.Year), float64(p.Age)
	}
	y0, y1 := stats.Bounds(years)
	a0, a1 := stats.Bounds(ages)
	return int(y0), int(y1), int(a0), int(a1)
}

// Grid is a dense year × age lattice of values. Entries with no
// point are NaN.
type Grid struct {
	// Year and Age are the year and age of the first column and
	// row.
	Year, Age int

	// Years and Ages are the number of columns and rows.
	Years, Ages int

	// V holds the values in age-major order: the value for
	// column i and row j is V[j*Years+i].
	V []float64
}

// MaxGridCells is the largest number of cells NewGrid allocates.
const MaxGridCells = 1 << 24

// ErrGridTooLarge is returned by NewGrid when the points span more
// than MaxGridCells cells, which usually means a mistyped year or age.
var ErrGridTooLarge = errors.New("surface grid too large")

// NewGrid returns the smallest Grid covering ps. If two points share a
// year and age, the later one wins.
func NewGrid(ps []Point) (*Grid, error) {
	if len(ps) == 0 {
		return &Grid{}, nil
	}
	y0, y1, a0, a1 := Bounds(ps)
	years, ages := int64(y1)-int64(y0)+1, int64(a1)-int64(a0)+1
	if years > MaxGridCells || ages > MaxGridCells || years*ages > MaxGridCells {
		return nil, fmt.Errorf("years %d-%d × ages %d-%d: %w", y0, y1, a0, a1, ErrGridTooLarge)
	}
	g := &Grid{Year: y0, Age: a0, Years: int(years), Ages: int(ages)}
	g.V = make([]float64, g.Years*g.Ages)
	for i := range g.V {
		g.V[i] = math.NaN()
	}
	for _, p := range ps {
		g.Set(p.Year, p.Age, p.Value)
	}
	return g, nil
}

func (g *Grid) index(year, age int) (int, bool) {
	i, j := year-g.Year, age-g.Age
	if i < 0 || i >= g.Years || j < 0 || j >= g.Ages {
		return 0, false
	}
	return j*g.Years + i, true
}

// At returns the value at year and age, or NaN if it is outside g or
// missing.
func (g *Grid) At(year, age int) float64 {
	i, ok := g.index(year, age)
	if !ok {
		return math.NaN()
	}
	return g.V[i]
}

// Set sets the value at year and age. It panics if year and age are
// outside g.
func (g *Grid) Set(year, age int, v float64) {
	i, ok := g.index(year, age)
	if !ok {
		panic("surface: grid index out of range")
	}
	g.V[i] = v
}

// Finite returns the finite values of g.
func (g *Grid) Finite() []float64 {
	var out []float64
	for _, v := range g.V {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
