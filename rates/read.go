// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rates

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrEmpty is returned when an input has no header row.
var ErrEmpty = errors.New("empty rate table")

// ReadCSV reads a comma-separated rate table with a header row.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	return FromRows(rows[0], rows[1:])
}

// ReadHMD reads a Human Mortality Database text table, such as
// Mx_1x1.txt. These start with a title line and a blank line, followed
// by a whitespace-separated header row and data rows. Leading lines
// before the header row are skipped.
func ReadHMD(r io.Reader) (*Table, error) {
	var header []string
	var rows [][]string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		f := strings.Fields(scanner.Text())
		if len(f) == 0 {
			continue
		}
		if header == nil {
			if find(f, YearColumn) >= 0 && find(f, AgeColumn) >= 0 {
				header = f
			}
			continue
		}
		rows = append(rows, f)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if header == nil {
		return nil, fmt.Errorf("no header row with %s and %s: %w", YearColumn, AgeColumn, ErrEmpty)
	}
	return FromRows(header, rows)
}

// ReadXLSX reads a rate table from sheet of an Excel workbook. If
// sheet is "", it reads the first sheet.
func ReadXLSX(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%s: no sheets: %w", path, ErrEmpty)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for len(rows) > 0 && len(rows[0]) == 0 {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s sheet %s: %w", path, sheet, ErrEmpty)
	}
	return FromRows(rows[0], rows[1:])
}

// Open reads the rate table at path, choosing the format from its
// extension: .xlsx is an Excel workbook (see ReadXLSX), .txt is a
// Human Mortality Database table, and anything else is CSV. A path of
// "-" reads CSV from standard input.
func Open(path, sheet string) (*Table, error) {
	if path == "-" {
		return ReadCSV(os.Stdin)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xlsx" {
		return ReadXLSX(path, sheet)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var t *Table
	if ext == ".txt" {
		t, err = ReadHMD(f)
	} else {
		t, err = ReadCSV(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
