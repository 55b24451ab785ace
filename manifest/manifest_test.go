package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	content := `[
    {"name": "Nüfus ve Demografi", "kategori": "nufus", "files": ["a.xlsx", "b.xls"]},
    {"name": "Tarım", "kategori": "tarim", "files": []}
]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	m, err := Load(path)
	require.NoError(t, err)
	require.Len(t, m.Categories, 2)
	assert.Equal(t, "Nüfus ve Demografi", m.Categories[0].Name)
	assert.Equal(t, "nufus", m.Categories[0].Key)
	assert.Equal(t, []string{"a.xlsx", "b.xls"}, m.Categories[0].Files)
	assert.Equal(t, 2, m.FileCount())
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, ErrManifestUnreadable)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"not": "a list"}`), 0644))
	_, err := Load(bad)
	assert.ErrorIs(t, err, ErrManifestInvalid)

	noKey := filepath.Join(dir, "nokey.json")
	require.NoError(t, os.WriteFile(noKey, []byte(`[{"name": "x", "files": ["a.xlsx"]}]`), 0644))
	_, err = Load(noKey)
	assert.ErrorIs(t, err, ErrManifestInvalid)
}

func TestResolve_DropsMissingAndKeepsOrder(t *testing.T) {
	dataDir := t.TempDir()
	writeFile(t, filepath.Join(dataDir, "nufus", "b.xlsx"))
	writeFile(t, filepath.Join(dataDir, "nufus", "a.xlsx"))
	writeFile(t, filepath.Join(dataDir, "tarim", "c.xls"))

	m := &Manifest{Categories: []Category{
		{Name: "Nüfus ve Demografi", Key: "nufus", Files: []string{"b.xlsx", "missing.xlsx", "a.xlsx"}},
		{Name: "Tarım", Key: "tarim", Files: []string{"c.xls"}},
	}}

	descriptors := m.Resolve(dataDir)
	require.Len(t, descriptors, 3)

	var names []string
	for _, d := range descriptors {
		names = append(names, d.Basename())
		assert.True(t, filepath.IsAbs(d.AbsolutePath))
	}
	assert.Equal(t, []string{"b.xlsx", "a.xlsx", "c.xls"}, names)
	assert.Equal(t, "Tarım", descriptors[2].Category)
	assert.Equal(t, "tarim", descriptors[2].CategoryKey)
}

func TestScanAndSave(t *testing.T) {
	dataDir := t.TempDir()
	writeFile(t, filepath.Join(dataDir, "nufus", "z.xlsx"))
	writeFile(t, filepath.Join(dataDir, "nufus", "a.XLS"))
	writeFile(t, filepath.Join(dataDir, "nufus", "notes.txt"))
	writeFile(t, filepath.Join(dataDir, "tarim", "readme.md"))
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "nufus", "sub.xlsx"), 0755))

	m, err := Scan(dataDir, DefaultCategories)
	require.NoError(t, err)
	require.Len(t, m.Categories, 1)
	assert.Equal(t, "Nüfus ve Demografi", m.Categories[0].Name)
	assert.Equal(t, []string{"a.XLS", "z.xlsx"}, m.Categories[0].Files)

	out := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, m.Save(out))

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Nüfus ve Demografi")
	assert.Contains(t, string(raw), `"kategori": "nufus"`)

	loaded, err := Load(out)
	require.NoError(t, err)
	assert.Equal(t, m.Categories, loaded.Categories)
}

func TestScan_EmptyDataDir(t *testing.T) {
	m, err := Scan(t.TempDir(), DefaultCategories)
	require.NoError(t, err)
	assert.Empty(t, m.Categories)
	assert.Equal(t, 0, m.FileCount())
}

func TestDefaultCategories(t *testing.T) {
	assert.Len(t, DefaultCategories, 17)
	keys := map[string]bool{}
	for _, c := range DefaultCategories {
		assert.False(t, keys[c.Key], "duplicate key %s", c.Key)
		keys[c.Key] = true
	}
}
