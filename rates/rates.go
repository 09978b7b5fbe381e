// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rates reads year/age tables of demographic rates.
//
// A rate table has an integer Year column, an integer Age column, and
// one or more rate columns (for example, Female, Male, and Total).
// Tables can be read from CSV, from Human Mortality Database text
// files, and from Excel workbooks.
//
// Missing rates (an empty cell, ".", "NA", or "NaN") are NaN. An age
// of the form "110+" denotes the open age interval starting at 110
// and is read as 110.
package rates

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/lexis/surface"
)

// Standard column names. Lookups are case-insensitive.
const (
	YearColumn = "Year"
	AgeColumn  = "Age"
)

// ErrMissingColumn is returned when a required column is not present
// in a table.
var ErrMissingColumn = errors.New("missing column")

// Table is a parsed rate table.
type Table struct {
	years, ages []int
	names       []string
	rates       map[string][]float64
}

// FromRows parses a rate table from a header and string rows, as
// produced by encoding/csv. Every column other than Year and Age is a
// rate column. Columns with an empty name are ignored.
func FromRows(header []string, rows [][]string) (*Table, error) {
	header, rows = project(header, rows)
	yi, ai := find(header, YearColumn), find(header, AgeColumn)
	for _, c := range []struct {
		name string
		i    int
	}{{YearColumn, yi}, {AgeColumn, ai}} {
		if c.i < 0 {
			return nil, fmt.Errorf("%w %q (have %s)", ErrMissingColumn, c.name, strings.Join(header, ", "))
		}
	}
	seen := make(map[string]bool)
	for _, name := range header {
		k := strings.ToLower(name)
		if seen[k] {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		seen[k] = true
	}

	strs := table.TableFromStrings(header, rows, false)

	t := &Table{rates: make(map[string][]float64)}
	var err error
	if t.years, err = parseInts(strs.MustColumn(header[yi]).([]string), header[yi]); err != nil {
		return nil, err
	}
	if t.ages, err = parseInts(strs.MustColumn(header[ai]).([]string), header[ai]); err != nil {
		return nil, err
	}
	for i, name := range header {
		if i == yi || i == ai {
			continue
		}
		vals, err := parseRates(strs.MustColumn(name).([]string), name)
		if err != nil {
			return nil, err
		}
		t.names = append(t.names, name)
		t.rates[name] = vals
	}
	return t, nil
}

// project trims the header, drops unnamed columns, and makes every
// row exactly as wide as the remaining header.
func project(header []string, rows [][]string) ([]string, [][]string) {
	var keep []int
	var nheader []string
	for i, h := range header {
		if h = strings.TrimSpace(h); h != "" {
			keep = append(keep, i)
			nheader = append(nheader, h)
		}
	}
	nrows := make([][]string, len(rows))
	for i, row := range rows {
		r := make([]string, len(keep))
		for j, k := range keep {
			if k < len(row) {
				r[j] = row[k]
			}
		}
		nrows[i] = r
	}
	return nheader, nrows
}

func find(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

func parseInts(col []string, name string) ([]int, error) {
	out := make([]int, len(col))
	for i, s := range col {
		s = strings.TrimSuffix(strings.TrimSpace(s), "+")
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("row %d column %s: bad integer %q", i+1, name, col[i])
		}
		out[i] = v
	}
	return out, nil
}

func isMissing(s string) bool {
	switch strings.ToLower(s) {
	case "", ".", "na", "nan":
		return true
	}
	return false
}

func parseRates(col []string, name string) ([]float64, error) {
	out := make([]float64, len(col))
	for i, s := range col {
		s = strings.TrimSpace(s)
		if isMissing(s) {
			out[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d column %s: bad rate %q", i+1, name, col[i])
		}
		if v < 0 {
			return nil, fmt.Errorf("row %d column %s: negative rate %v", i+1, name, v)
		}
		if math.IsInf(v, 0) {
			return nil, fmt.Errorf("row %d column %s: infinite rate %q", i+1, name, col[i])
		}
		out[i] = v
	}
	return out, nil
}

// Len returns the number of rows in t.
func (t *Table) Len() int {
	return len(t.years)
}

// Columns returns the names of the rate columns of t, in file order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.names...)
}

// Lookup returns the name of the rate column matching name
// case-insensitively.
func (t *Table) Lookup(name string) (string, error) {
	if i := find(t.names, name); i >= 0 {
		return t.names[i], nil
	}
	return "", fmt.Errorf("%w %q (have %s)", ErrMissingColumn, name, strings.Join(t.names, ", "))
}

// Observations returns the observations of rate column col.
func (t *Table) Observations(col string) ([]surface.Observation, error) {
	name, err := t.Lookup(col)
	if err != nil {
		return nil, err
	}
	vals := t.rates[name]
	obs := make([]surface.Observation, len(vals))
	for i, v := range vals {
		obs[i] = surface.Observation{Year: t.years[i], Age: t.ages[i], Value: v}
	}
	return obs, nil
}

// Grouping returns t as a go-gg table with integer Year and Age
// columns followed by float64 rate columns.
func (t *Table) Grouping() *table.Table {
	b := new(table.Builder).Add(YearColumn, t.years).Add(AgeColumn, t.ages)
	for _, name := range t.names {
		b.Add(name, t.rates[name])
	}
	return b.Done()
}
