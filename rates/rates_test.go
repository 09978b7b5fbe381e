// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rates

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/aclements/lexis/surface"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `Year,Age,Female,Male,Total
1999,50,0.006,0.008,0.007
2000,50,0.0075,0.01,.
2000,110+,0.5,,0.55
`

func TestReadCSV(t *testing.T) {
	tab, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	if tab.Len() != 3 {
		t.Fatalf("got %d rows, want 3", tab.Len())
	}
	if got, want := tab.Columns(), []string{"Female", "Male", "Total"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got columns %v, want %v", got, want)
	}

	obs, err := tab.Observations("male")
	if err != nil {
		t.Fatal(err)
	}
	want := []surface.Observation{{Year: 1999, Age: 50, Value: 0.008}, {Year: 2000, Age: 50, Value: 0.01}, {Year: 2000, Age: 110, Value: math.NaN()}}
	for i, o := range obs {
		w := want[i]
		if o.Year != w.Year || o.Age != w.Age {
			t.Errorf("row %d at (%d, %d), want (%d, %d)", i, o.Year, o.Age, w.Year, w.Age)
		}
		if math.IsNaN(w.Value) != math.IsNaN(o.Value) || (!math.IsNaN(w.Value) && o.Value != w.Value) {
			t.Errorf("row %d: got %v, want %v", i, o.Value, w.Value)
		}
	}

	total, err := tab.Observations("Total")
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(total[1].Value) {
		t.Errorf("\".\" should be missing, got %v", total[1].Value)
	}
}

func TestMissingColumn(t *testing.T) {
	for _, input := range []string{
		"Age,Male\n1,0.1\n",
		"Year,Male\n2000,0.1\n",
	} {
		_, err := ReadCSV(strings.NewReader(input))
		if !errors.Is(err, ErrMissingColumn) {
			t.Errorf("%q: got %v, want %v", input, err, ErrMissingColumn)
		}
	}

	tab, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	_, err = tab.Observations("Both")
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("got %v, want %v", err, ErrMissingColumn)
	}
	if !strings.Contains(err.Error(), `"Both"`) {
		t.Errorf("error %q does not name the missing column", err)
	}
}

func TestReadErrors(t *testing.T) {
	for _, test := range []struct {
		input string
		want  string
	}{
		{"Year,Age,Male\nx,1,0.1\n", "bad integer"},
		{"Year,Age,Male\n2000,1,abc\n", "bad rate"},
		{"Year,Age,Male\n2000,1,-0.1\n", "negative rate"},
		{"Year,Age,Male\n2000,1,Inf\n", "infinite rate"},
		{"Year,Age,Male\n2000,1,+Inf\n", "infinite rate"},
		{"Year,Age,Male\n2000,1,1e999\n", "bad rate"},
		{"Year,Age,Male,male\n2000,1,0.1,0.1\n", "duplicate column"},
	} {
		_, err := ReadCSV(strings.NewReader(test.input))
		if err == nil || !strings.Contains(err.Error(), test.want) {
			t.Errorf("%q: got error %v, want %q", test.input, err, test.want)
		}
	}
	if _, err := ReadCSV(strings.NewReader("")); !errors.Is(err, ErrEmpty) {
		t.Errorf("empty input: got %v, want %v", err, ErrEmpty)
	}
}

func TestShortRows(t *testing.T) {
	tab, err := ReadCSV(strings.NewReader("Year,Age,Male,\n2000,1\n2001,1,0.2,\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got := tab.Columns(); !reflect.DeepEqual(got, []string{"Male"}) {
		t.Errorf("got columns %v, want [Male]", got)
	}
	obs, _ := tab.Observations("Male")
	if !math.IsNaN(obs[0].Value) || obs[1].Value != 0.2 {
		t.Errorf("got %v, want [NaN 0.2]", obs)
	}
}

const sampleHMD = `Sweden, Death rates (period 1x1), 	Last modified: 18 Mar 2022;  Methods Protocol: v6 (2017)

  Year          Age             Female            Male           Total
  1751            0           0.193208        0.224198        0.209056
  1751            1           0.072484        0.078988        0.075721
  1751          110+          .              0.000000        0.500000
`

func TestReadHMD(t *testing.T) {
	tab, err := ReadHMD(strings.NewReader(sampleHMD))
	if err != nil {
		t.Fatal(err)
	}
	if tab.Len() != 3 {
		t.Fatalf("got %d rows, want 3", tab.Len())
	}
	fem, err := tab.Observations("Female")
	if err != nil {
		t.Fatal(err)
	}
	if fem[0].Value != 0.193208 || fem[2].Age != 110 || !math.IsNaN(fem[2].Value) {
		t.Errorf("got %v", fem)
	}

	if _, err := ReadHMD(strings.NewReader("no header here\n1 2 3\n")); !errors.Is(err, ErrEmpty) {
		t.Errorf("got %v, want %v", err, ErrEmpty)
	}
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	cells := [][]interface{}{
		{"Year", "Age", "Male"},
		{2000, 0, 0.01},
		{2000, 1, 0.002},
	}
	for i, row := range cells {
		for j, v := range row {
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue(sheet, name, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "rates.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save test workbook: %v", err)
	}

	for _, sh := range []string{"", sheet} {
		tab, err := ReadXLSX(path, sh)
		if err != nil {
			t.Fatalf("sheet %q: %v", sh, err)
		}
		obs, err := tab.Observations("Male")
		if err != nil {
			t.Fatal(err)
		}
		if len(obs) != 2 || obs[1].Age != 1 || obs[1].Value != 0.002 {
			t.Errorf("sheet %q: got %v", sh, obs)
		}
	}

	tab, err := Open(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if tab.Len() != 2 {
		t.Errorf("Open: got %d rows, want 2", tab.Len())
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "mx.csv")
	hmdPath := filepath.Join(dir, "Mx_1x1.txt")
	if err := os.WriteFile(csvPath, []byte(sampleCSV), 0666); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(hmdPath, []byte(sampleHMD), 0666); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{csvPath, hmdPath} {
		tab, err := Open(path, "")
		if err != nil {
			t.Errorf("%s: %v", path, err)
			continue
		}
		if tab.Len() != 3 {
			t.Errorf("%s: got %d rows, want 3", path, tab.Len())
		}
	}
	if _, err := Open(filepath.Join(dir, "missing.csv"), ""); err == nil {
		t.Errorf("opening a missing file succeeded")
	}
}

func TestSummarize(t *testing.T) {
	tab, err := ReadHMD(strings.NewReader(sampleHMD))
	if err != nil {
		t.Fatal(err)
	}
	ss := tab.Summarize()
	if len(ss) != 3 {
		t.Fatalf("got %d summaries, want 3", len(ss))
	}
	fem, male := ss[0], ss[1]
	if fem.Column != "Female" || fem.Missing != 1 || fem.N != 3 {
		t.Errorf("got %+v", fem)
	}
	if male.Zero != 1 || male.Min != 0 || male.Max != 0.224198 {
		t.Errorf("got %+v", male)
	}
	if want := (0.193208 + 0.072484) / 2; math.Abs(fem.Mean-want) > 1e-12 {
		t.Errorf("got mean %v, want %v", fem.Mean, want)
	}
	if st := SummaryTable(ss); st.Len() != 3 {
		t.Errorf("summary table has %d rows, want 3", st.Len())
	}
}

func TestGrouping(t *testing.T) {
	tab, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	g := tab.Grouping()
	if got, want := g.Columns(), []string{"Year", "Age", "Female", "Male", "Total"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got columns %v, want %v", got, want)
	}
	if ages := g.MustColumn("Age").([]int); ages[2] != 110 {
		t.Errorf("got age %d, want 110", ages[2])
	}
}
