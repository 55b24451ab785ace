package manifest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/FatihSuicmez/TUIK-MCP/core"
)

// Category is one manifest entry: a display name, the folder key under the
// data root, and the file names found there.
type Category struct {
	Name  string   `json:"name"`
	Key   string   `json:"kategori"`
	Files []string `json:"files"`
}

// Manifest lists every source table grouped by category.
type Manifest struct {
	Categories []Category
}

// Load reads a manifest file. A manifest that cannot be read or parsed is a
// fatal precondition for ingestion.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifestUnreadable, err)
	}

	var categories []Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrManifestInvalid, path, err)
	}
	for i, c := range categories {
		if c.Key == "" {
			return nil, fmt.Errorf("%w: entry %d has no folder key", ErrManifestInvalid, i)
		}
	}

	return &Manifest{Categories: categories}, nil
}

// Save writes the manifest as indented JSON, keeping non-ASCII names as is.
func (m *Manifest) Save(path string) error {
	categories := m.Categories
	if categories == nil {
		categories = []Category{}
	}
	data, err := json.MarshalIndent(categories, "", "    ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// FileCount returns the number of file entries across all categories.
func (m *Manifest) FileCount() int {
	n := 0
	for _, c := range m.Categories {
		n += len(c.Files)
	}
	return n
}

// Resolve maps every manifest entry to dataDir/<key>/<file>, keeping manifest
// order and dropping entries whose path does not exist on disk.
func (m *Manifest) Resolve(dataDir string) []core.InputDescriptor {
	logger := slog.Default().With("component", "manifest")

	root, err := filepath.Abs(dataDir)
	if err != nil {
		root = dataDir
	}

	var descriptors []core.InputDescriptor
	missing := 0
	for _, c := range m.Categories {
		for _, file := range c.Files {
			path := filepath.Join(root, c.Key, file)
			if _, err := os.Stat(path); err != nil {
				missing++
				logger.Debug("manifest entry not found on disk", "file", file, "category", c.Name, "path", path)
				continue
			}
			descriptors = append(descriptors, core.InputDescriptor{
				AbsolutePath: path,
				Category:     c.Name,
				CategoryKey:  c.Key,
			})
		}
	}

	logger.Info("resolved manifest", "files", len(descriptors), "missing", missing)
	return descriptors
}
