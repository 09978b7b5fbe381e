// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package surface

import (
	"errors"
	"fmt"
	"math"

	"github.com/aclements/go-moremath/vec"
)

// ErrBadStep is returned when a break step is zero, not finite, or
// points away from the end of the sequence.
var ErrBadStep = errors.New("bad break step")

// MaxBreaks is the longest break sequence Breaks and LinearBreaks
// return.
const MaxBreaks = 10000

// stepCount returns the number of points lo, lo+step, ... that do not
// pass hi.
func stepCount(lo, hi, step float64) (int, error) {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return 0, fmt.Errorf("range [%v, %v] is not finite", lo, hi)
	}
	if lo == hi {
		return 1, nil
	}
	if step == 0 || math.IsNaN(step) || math.IsInf(step, 0) || (hi-lo)/step < 0 {
		return 0, fmt.Errorf("from %v to %v by %v: %w", lo, hi, step, ErrBadStep)
	}
	// Tolerate rounding in (hi-lo)/step so that, for example, 0
	// to -7 by -0.5 includes -7.
	n := math.Floor((hi-lo)/step+1e-9) + 1
	if !(n <= MaxBreaks) {
		return 0, fmt.Errorf("from %v to %v by %v is more than %d breaks: %w", lo, hi, step, MaxBreaks, ErrBadStep)
	}
	return int(n), nil
}

// Breaks returns the geometric sequence 10^minExp, 10^(minExp+step),
// ..., stopping at the last exponent that does not pass maxExp. The
// sequence decreases if step is negative. For example, Breaks(0, -7,
// -0.5) returns the 15 values 1, 10^-0.5, 0.1, ..., 10^-7, which are
// the usual contour levels for mortality rates.
func Breaks(minExp, maxExp, step float64) ([]float64, error) {
	n, err := stepCount(minExp, maxExp, step)
	if err != nil {
		return nil, err
	}
	last := minExp + float64(n-1)*step
	return vec.Logspace(minExp, last, n, 10), nil
}

// LinearBreaks returns the arithmetic sequence lo, lo+step, ...,
// stopping at the last value that does not pass hi.
func LinearBreaks(lo, hi, step float64) ([]float64, error) {
	n, err := stepCount(lo, hi, step)
	if err != nil {
		return nil, err
	}
	return vec.Linspace(lo, lo+float64(n-1)*step, n), nil
}
