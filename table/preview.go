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
	"fmt"
	"strings"
)

// DefaultPreviewRows is the number of data rows returned by Preview.
const DefaultPreviewRows = 15

// PreviewData is the head of a sheet with the first row used as column names.
// Blank cells are nil.
type PreviewData struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Preview loads path and returns up to n data rows below the header row.
func Preview(path string, n int) (*PreviewData, error) {
	t, err := Load(path)
	if err != nil {
		return nil, err
	}
	return t.Preview(n), nil
}

// Preview uses the first row as column names and returns up to n rows after it.
// Blank column names become "Unnamed: i"; repeated names get a ".k" suffix.
func (t *Table) Preview(n int) *PreviewData {
	p := &PreviewData{Columns: []string{}, Rows: [][]any{}}
	if len(t.Rows) == 0 {
		return p
	}

	seen := make(map[string]int)
	for i, name := range t.Rows[0] {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if k := seen[name]; k > 0 {
			seen[name] = k + 1
			name = fmt.Sprintf("%s.%d", name, k)
		} else {
			seen[name] = 1
		}
		p.Columns = append(p.Columns, name)
	}

	for _, r := range t.Rows[1:] {
		if len(p.Rows) == n {
			break
		}
		row := make([]any, len(r))
		for i, c := range r {
			if !isBlank(c) {
				row[i] = c
			}
		}
		p.Rows = append(p.Rows, row)
	}
	return p
}
