// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggsurface

import (
	"math"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/lexis/surface"
)

// Contour is a gg.Stat that traces iso-lines of a Lexis surface with
// marching squares.
//
// X and Y name the centered cell coordinates and Z names the value to
// contour. For each input group, Contour produces one subgroup per
// polyline, with columns X, Y, and "level". Squares with a missing
// corner are not traced, so lines stop at holes in the surface.
type Contour struct {
	X, Y, Z string
	Levels  []float64
}

// ColLevel is the column of Contour output giving the level of each
// line.
const ColLevel = "level"

func (c Contour) F(g table.Grouping) table.Grouping {
	var ng table.GroupingBuilder
	for _, gid := range g.Tables() {
		t := g.Table(gid)
		var xs, ys, zs []float64
		slice.Convert(&xs, t.MustColumn(c.X))
		slice.Convert(&ys, t.MustColumn(c.Y))
		slice.Convert(&zs, t.MustColumn(c.Z))

		ps := make([]surface.Point, 0, len(xs))
		for i := range xs {
			ps = append(ps, surface.Point{
				Year:  int(math.Floor(xs[i])),
				Age:   int(math.Floor(ys[i])),
				Value: zs[i],
			})
		}
		grid, err := surface.NewGrid(ps)
		if err != nil {
			// Stats cannot fail. Callers check the grid first.
			continue
		}

		for li, level := range c.Levels {
			for k, line := range Trace(grid, level) {
				lx, ly := make([]float64, len(line)), make([]float64, len(line))
				for i, p := range line {
					lx[i], ly[i] = p[0], p[1]
				}
				nt := new(table.Builder).
					Add(c.X, lx).
					Add(c.Y, ly).
					AddConst(ColLevel, level).
					Done()
				ng.Add(gid.Extend(li).Extend(k), nt)
			}
		}
	}
	return ng.Done()
}

// An edge is a side of a grid square. Horizontal edge (i, j) joins
// lattice points (i, j) and (i+1, j); vertical edge (i, j) joins (i,
// j) and (i, j+1).
type edge struct {
	i, j int
	vert bool
}

type segment struct {
	a, b edge
}

// Trace returns the iso-lines of g at level as polylines in centered
// surface coordinates. Closed lines end at their starting point.
func Trace(g *surface.Grid, level float64) [][][2]float64 {
	if math.IsNaN(level) || math.IsInf(level, 0) {
		return nil
	}
	z := func(i, j int) float64 {
		return g.V[j*g.Years+i]
	}
	ok := func(v float64) bool {
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	}

	var segs []segment
	for j := 0; j+1 < g.Ages; j++ {
		for i := 0; i+1 < g.Years; i++ {
			z00, z10, z11, z01 := z(i, j), z(i+1, j), z(i+1, j+1), z(i, j+1)
			if !ok(z00) || !ok(z10) || !ok(z11) || !ok(z01) {
				continue
			}
			bottom, right := edge{i, j, false}, edge{i + 1, j, true}
			top, left := edge{i, j + 1, false}, edge{i, j, true}

			var cs int
			for bit, v := range []float64{z00, z10, z11, z01} {
				if v >= level {
					cs |= 1 << uint(bit)
				}
			}
			switch cs {
			case 0, 15:
				// Entirely above or below.
			case 1, 14:
				segs = append(segs, segment{left, bottom})
			case 2, 13:
				segs = append(segs, segment{bottom, right})
			case 3, 12:
				segs = append(segs, segment{left, right})
			case 4, 11:
				segs = append(segs, segment{right, top})
			case 6, 9:
				segs = append(segs, segment{bottom, top})
			case 7, 8:
				segs = append(segs, segment{left, top})
			case 5, 10:
				// Saddle. If the mean of the corners
				// is high, the line cuts off the two
				// low corners; otherwise the two high
				// ones.
				high := (z00+z10+z11+z01)/4 >= level
				if (cs == 5) == high {
					segs = append(segs, segment{bottom, right}, segment{top, left})
				} else {
					segs = append(segs, segment{left, bottom}, segment{right, top})
				}
			}
		}
	}

	point := func(e edge) [2]float64 {
		za := z(e.i, e.j)
		var zb float64
		if e.vert {
			zb = z(e.i, e.j+1)
		} else {
			zb = z(e.i+1, e.j)
		}
		t := 0.0
		if zb != za {
			t = (level - za) / (zb - za)
		}
		x, y := float64(e.i), float64(e.j)
		if e.vert {
			y += t
		} else {
			x += t
		}
		return [2]float64{
			float64(g.Year) + x + surface.Center,
			float64(g.Age) + y + surface.Center,
		}
	}

	var lines [][][2]float64
	for _, chain := range chainSegments(segs) {
		line := make([][2]float64, len(chain))
		for i, e := range chain {
			line[i] = point(e)
		}
		lines = append(lines, line)
	}
	return lines
}

// chainSegments joins segments that share an edge into chains of
// edges. Open chains come first, in the order of their first segment,
// followed by closed chains.
func chainSegments(segs []segment) [][]edge {
	adj := make(map[edge][]int)
	for k, s := range segs {
		adj[s.a] = append(adj[s.a], k)
		adj[s.b] = append(adj[s.b], k)
	}
	used := make([]bool, len(segs))

	walk := func(k int, from edge) []edge {
		chain := []edge{from}
		at := from
		for {
			used[k] = true
			s := segs[k]
			if s.a == at {
				at = s.b
			} else {
				at = s.a
			}
			chain = append(chain, at)
			next := -1
			for _, k2 := range adj[at] {
				if !used[k2] {
					next = k2
					break
				}
			}
			if next < 0 {
				return chain
			}
			k = next
		}
	}

	var chains [][]edge
	for k, s := range segs {
		if used[k] {
			continue
		}
		switch {
		case len(adj[s.a]) == 1:
			chains = append(chains, walk(k, s.a))
		case len(adj[s.b]) == 1:
			chains = append(chains, walk(k, s.b))
		}
	}
	for k, s := range segs {
		if !used[k] {
			chains = append(chains, walk(k, s.a))
		}
	}
	return chains
}
