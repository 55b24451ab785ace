package manifest

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scan builds a manifest from dataDir/<key>/ for each of the given
// categories, listing .xls and .xlsx files. Categories whose folder is
// missing or holds no spreadsheets are left out.
func Scan(dataDir string, categories []CategoryFolder) (*Manifest, error) {
	logger := slog.Default().With("component", "manifest")

	m := &Manifest{Categories: []Category{}}
	for _, cf := range categories {
		dir := filepath.Join(dataDir, cf.Key)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}

		var files []string
		for _, e := range entries {
			if e.IsDir() || !IsSpreadsheet(e.Name()) {
				continue
			}
			files = append(files, e.Name())
		}
		if len(files) == 0 {
			continue
		}
		sort.Strings(files)

		logger.Info("category scanned", "category", cf.Name, "files", len(files))
		m.Categories = append(m.Categories, Category{Name: cf.Name, Key: cf.Key, Files: files})
	}
	return m, nil
}

// IsSpreadsheet reports whether name has a supported spreadsheet extension.
func IsSpreadsheet(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".xls" || ext == ".xlsx"
}
