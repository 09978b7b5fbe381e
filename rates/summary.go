// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rates

import (
	"math"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
)

// Summary describes one rate column.
type Summary struct {
	Column string

	// N is the number of rows and Missing is how many of them
	// have no rate.
	N, Missing int

	// Zero is the number of zero rates. These have no logarithm.
	Zero int

	// Min, Max, and Mean summarize the non-missing rates. They
	// are NaN if every rate is missing.
	Min, Max, Mean float64
}

// Summarize returns a Summary of each rate column of t.
func (t *Table) Summarize() []Summary {
	var out []Summary
	for _, name := range t.names {
		s := Summary{Column: name, N: t.Len(), Min: math.NaN(), Max: math.NaN(), Mean: math.NaN()}
		var vals []float64
		for _, v := range t.rates[name] {
			switch {
			case math.IsNaN(v):
				s.Missing++
				continue
			case v == 0:
				s.Zero++
			}
			vals = append(vals, v)
		}
		if len(vals) > 0 {
			s.Min, s.Max = stats.Bounds(vals)
			s.Mean = stats.Mean(vals)
		}
		out = append(out, s)
	}
	return out
}

// SummaryTable returns summaries as a go-gg table, for printing with
// table.Fprint.
func SummaryTable(ss []Summary) *table.Table {
	n := len(ss)
	cols := make([]string, n)
	ns, missing, zero := make([]int, n), make([]int, n), make([]int, n)
	mins, maxs, means := make([]float64, n), make([]float64, n), make([]float64, n)
	for i, s := range ss {
		cols[i] = s.Column
		ns[i], missing[i], zero[i] = s.N, s.Missing, s.Zero
		mins[i], maxs[i], means[i] = s.Min, s.Max, s.Mean
	}
	return new(table.Builder).
		Add("column", cols).
		Add("rows", ns).
		Add("missing", missing).
		Add("zero", zero).
		Add("min", mins).
		Add("max", maxs).
		Add("mean", means).
		Done()
}
