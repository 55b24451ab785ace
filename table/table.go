// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// DefaultMaxLines bounds the CSV text handed to the extraction oracle.
const DefaultMaxLines = 250

// Table is the first sheet of a spreadsheet as a rectangular grid of cell
// text. Empty cells are empty strings.
type Table struct {
	Rows [][]string
}

// Load reads the first sheet of an .xls or .xlsx file.
func Load(path string) (*Table, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = loadXLSX(path)
	case ".xls":
		rows, err = loadXLS(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
	if err != nil {
		return nil, err
	}

	return &Table{Rows: rectangular(rows)}, nil
}

func loadXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	return rows, nil
}

func loadXLS(path string) (rows [][]string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	defer file.Close()

	// The BIFF decoder panics on some malformed workbooks.
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("%w: %v", ErrUnreadable, r)
		}
	}()

	wb, err := xls.OpenReader(file, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	if wb == nil {
		return nil, fmt.Errorf("%w: no workbook stream", ErrUnreadable)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil || sheet.MaxRow == 0 {
		return nil, nil
	}
	// Capping at the first sheet's height keeps ReadAllCells on that sheet.
	return wb.ReadAllCells(int(sheet.MaxRow) + 1), nil
}

// rectangular pads every row to the widest row's length.
func rectangular(rows [][]string) [][]string {
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		row := make([]string, width)
		copy(row, r)
		out[i] = row
	}
	return out
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// DropEmpty returns a copy without rows and columns whose every cell is blank.
func (t *Table) DropEmpty() *Table {
	var rows [][]string
	for _, r := range t.Rows {
		for _, c := range r {
			if !isBlank(c) {
				rows = append(rows, r)
				break
			}
		}
	}
	if len(rows) == 0 {
		return &Table{}
	}

	var keep []int
	for col := range rows[0] {
		for _, r := range rows {
			if !isBlank(r[col]) {
				keep = append(keep, col)
				break
			}
		}
	}

	out := make([][]string, len(rows))
	for i, r := range rows {
		row := make([]string, len(keep))
		for j, col := range keep {
			row[j] = r[col]
		}
		out[i] = row
	}
	return &Table{Rows: out}
}

// CSV renders the table as CSV text without header or index.
func (t *Table) CSV() (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(t.Rows); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// TruncateLines keeps the first maxLines lines of s. Text with at most
// maxLines lines is returned unchanged; longer text is cut and joined
// without a trailing newline.
func TruncateLines(s string, maxLines int) string {
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	if s == "" || len(lines) <= maxLines {
		return s
	}
	return strings.Join(lines[:maxLines], "\n")
}

// Text loads path, drops empty rows and columns and returns CSV text bounded
// to maxLines lines.
func Text(path string, maxLines int) (string, error) {
	t, err := Load(path)
	if err != nil {
		return "", err
	}
	text, err := t.DropEmpty().CSV()
	if err != nil {
		return "", fmt.Errorf("failed to render %s as csv: %w", filepath.Base(path), err)
	}
	return TruncateLines(text, maxLines), nil
}
