// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package surface

import (
	"errors"
	"math"
	"testing"
)

func near(a, b float64) bool {
	return math.Abs(a-b) <= 1e-12*math.Max(1, math.Abs(b))
}

func TestBuildCentering(t *testing.T) {
	obs := []Observation{
		{1900, 0, 0.2},
		{1900, 1, 0.05},
		{2018, 110, 0.6},
		{1750, 42, math.NaN()},
	}
	cells, err := Build(obs, Identity)
	if err != nil {
		t.Fatal(err)
	}
	if len(cells) != len(obs) {
		t.Fatalf("got %d cells, want %d", len(cells), len(obs))
	}
	for i, c := range cells {
		o := obs[i]
		if c.Year != o.Year || c.Age != o.Age {
			t.Errorf("cell %d is at (%d, %d), want (%d, %d)", i, c.Year, c.Age, o.Year, o.Age)
		}
		if c.X != float64(o.Year)+0.5 || c.Y != float64(o.Age)+0.5 {
			t.Errorf("cell %d centered at (%v, %v), want (%v, %v)", i, c.X, c.Y, float64(o.Year)+0.5, float64(o.Age)+0.5)
		}
	}
}

func TestBuildLog10(t *testing.T) {
	for _, test := range []struct {
		v    float64
		want float64
	}{
		{1, 0},
		{0.01, -2},
		{0.2345, math.Log10(0.2345)},
		{1e-7, -7},
		{0, math.NaN()},
		{-0.5, math.NaN()},
		{math.NaN(), math.NaN()},
	} {
		cells, err := Build([]Observation{{2000, 50, test.v}}, Log10)
		if err != nil {
			t.Fatal(err)
		}
		got := cells[0].Transformed
		if math.IsNaN(test.want) {
			if !math.IsNaN(got) {
				t.Errorf("log10(%v): got %v, want NaN", test.v, got)
			}
			continue
		}
		if !near(got, test.want) {
			t.Errorf("log10(%v): got %v, want %v", test.v, got, test.want)
		}
		if cells[0].Value != test.v {
			t.Errorf("value %v not preserved: got %v", test.v, cells[0].Value)
		}
	}
}

func TestBuildDuplicate(t *testing.T) {
	obs := []Observation{{2000, 1, 0.1}, {2000, 2, 0.1}, {2000, 1, 0.2}}
	if _, err := Build(obs, Identity); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("got error %v, want %v", err, ErrDuplicateKey)
	}
}

func TestParseTransform(t *testing.T) {
	for _, test := range []struct {
		in   string
		want Transform
		ok   bool
	}{
		{"", Identity, true},
		{"identity", Identity, true},
		{"LOG10", Log10, true},
		{"log", Log10, true},
		{"sqrt", 0, false},
	} {
		got, err := ParseTransform(test.in)
		if (err == nil) != test.ok {
			t.Errorf("ParseTransform(%q): got error %v, want ok=%v", test.in, err, test.ok)
			continue
		}
		if test.ok && got != test.want {
			t.Errorf("ParseTransform(%q): got %v, want %v", test.in, got, test.want)
		}
	}
	for _, tr := range []Transform{Identity, Log10} {
		if got, err := ParseTransform(tr.String()); err != nil || got != tr {
			t.Errorf("ParseTransform(%q) = %v, %v", tr.String(), got, err)
		}
	}
}

func TestWindow(t *testing.T) {
	obs := []Observation{
		{1899, 10, 1}, {1900, 10, 1}, {1950, 0, 1}, {1950, 100, 1}, {1950, 101, 1}, {2001, 5, 1},
	}
	w := Window{MinYear: 1900, MaxYear: 2000, MaxAge: 100}
	got := w.Filter(obs)
	want := []Observation{{1900, 10, 1}, {1950, 0, 1}, {1950, 100, 1}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}

	if n := len(Window{}.Filter(obs)); n != len(obs) {
		t.Errorf("zero window kept %d of %d observations", n, len(obs))
	}
}
