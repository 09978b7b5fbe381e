// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package surface

import (
	"errors"
	"math"
	"testing"
)

func TestBuildRatioLag(t *testing.T) {
	male := []Observation{
		{1999, 50, 0.008},
		{2000, 50, 0.01},
	}
	cells, err := BuildRatio(male, Lag(male, 1), 0.5)
	if err != nil {
		t.Fatal(err)
	}
	// 1999 has no previous year.
	if len(cells) != 1 {
		t.Fatalf("got %d cells, want 1: %v", len(cells), cells)
	}
	c := cells[0]
	if c.Year != 2000 || c.Age != 50 {
		t.Errorf("cell at (%d, %d), want (2000, 50)", c.Year, c.Age)
	}
	if c.X != 2000.5 || c.Y != 50.5 {
		t.Errorf("cell centered at (%v, %v), want (2000.5, 50.5)", c.X, c.Y)
	}
	if want := math.Log(0.01 / 0.008); !near(c.Value, want) || math.Abs(c.Value-0.2231) > 1e-4 {
		t.Errorf("got ratio %v, want %v", c.Value, want)
	}
	if c.Raw != c.Value {
		t.Errorf("unclipped ratio changed: raw %v, value %v", c.Raw, c.Value)
	}
	if c.Current != 0.01 || c.Reference != 0.008 {
		t.Errorf("got current %v reference %v, want 0.01 0.008", c.Current, c.Reference)
	}
}

func TestBuildRatioSex(t *testing.T) {
	male := []Observation{{1950, 20, 0.02}}
	female := []Observation{{1950, 20, 0.01}}
	cells, err := BuildRatio(male, female, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(cells) != 1 {
		t.Fatalf("got %d cells, want 1", len(cells))
	}
	if got, want := cells[0].Value, math.Ln2; !near(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	cells, err = BuildRatio(male, female, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if got := cells[0].Value; got != 0.5 {
		t.Errorf("with bound 0.5 got %v, want 0.5", got)
	}
	if got := cells[0].Raw; !near(got, math.Ln2) {
		t.Errorf("raw ratio: got %v, want %v", got, math.Ln2)
	}
}

func TestClamp(t *testing.T) {
	bounds := []float64{0.1, 0.5, 1, 3}
	values := []float64{-10, -1, -0.5, -0.2, 0, 0.2231, 0.5, 0.6931, 2, math.Inf(1), math.Inf(-1)}
	for _, c := range bounds {
		for _, r := range values {
			got := Clamp(r, c)
			if want := math.Max(-c, math.Min(c, r)); got != want {
				t.Errorf("Clamp(%v, %v) = %v, want %v", r, c, got, want)
			}
			if got < -c || got > c {
				t.Errorf("Clamp(%v, %v) = %v is out of range", r, c, got)
			}
		}
	}
	if !math.IsNaN(Clamp(math.NaN(), 1)) {
		t.Errorf("Clamp(NaN) is not NaN")
	}
	if got := Clamp(-7, math.Inf(1)); got != -7 {
		t.Errorf("unbounded Clamp(-7) = %v", got)
	}
}

func TestBuildRatioMissing(t *testing.T) {
	cur := []Observation{{2000, 0, 0.1}, {2000, 1, 0.2}, {2000, 2, 0}, {2000, 3, math.NaN()}}
	ref := []Observation{{2000, 1, 0.1}, {2000, 2, 0.1}, {2000, 3, 0.1}, {2000, 4, 0.1}}
	cells, err := BuildRatio(cur, ref, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if len(cells) != 3 {
		t.Fatalf("got %d cells, want 3: %v", len(cells), cells)
	}
	for i, age := range []int{1, 2, 3} {
		if cells[i].Age != age {
			t.Errorf("cell %d has age %d, want %d", i, cells[i].Age, age)
		}
	}
	if got := cells[0].Value; got != 0.5 {
		t.Errorf("ln(2) clipped to 0.5: got %v", got)
	}
	// A zero current rate has ratio -Inf, which clips to the bound.
	if got := cells[1].Value; got != -0.5 {
		t.Errorf("ln(0) clipped: got %v, want -0.5", got)
	}
	if got := cells[2].Value; !math.IsNaN(got) {
		t.Errorf("missing current value: got %v, want NaN", got)
	}
}

func TestBuildDiff(t *testing.T) {
	cur := []Observation{{2000, 0, 0.3}, {2000, 1, 0.1}}
	ref := []Observation{{2000, 0, 0.1}, {2000, 1, 0.4}}
	cells, err := BuildDiff(cur, ref, 0.25)
	if err != nil {
		t.Fatal(err)
	}
	if got := cells[0].Value; !near(got, 0.2) {
		t.Errorf("got diff %v, want 0.2", got)
	}
	if got := cells[1].Value; got != -0.25 {
		t.Errorf("got diff %v, want -0.25", got)
	}
}

func TestBuildRatioErrors(t *testing.T) {
	obs := []Observation{{2000, 0, 0.1}}
	for _, clip := range []float64{0, -1, math.NaN()} {
		if _, err := BuildRatio(obs, obs, clip); !errors.Is(err, ErrBadClip) {
			t.Errorf("clip %v: got %v, want %v", clip, err, ErrBadClip)
		}
	}
	dup := []Observation{{2000, 0, 0.1}, {2000, 0, 0.2}}
	if _, err := BuildRatio(obs, dup, 1); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("duplicate reference: got %v, want %v", err, ErrDuplicateKey)
	}
	if _, err := BuildDiff(dup, obs, 1); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("duplicate current: got %v, want %v", err, ErrDuplicateKey)
	}
	if _, err := BuildRatio(obs, obs, math.Inf(1)); err != nil {
		t.Errorf("infinite clip: %v", err)
	}
}

func TestLag(t *testing.T) {
	obs := []Observation{{1990, 3, 0.1}, {1991, 3, 0.2}}
	lagged := Lag(obs, 2)
	if lagged[0].Year != 1992 || lagged[1].Year != 1993 {
		t.Errorf("got years %d %d, want 1992 1993", lagged[0].Year, lagged[1].Year)
	}
	if obs[0].Year != 1990 {
		t.Errorf("Lag modified its input")
	}
}
