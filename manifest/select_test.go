package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManifest() *Manifest {
	return &Manifest{Categories: []Category{
		{Name: "Enflasyon ve Fiyat", Key: "enflasyon", Files: []string{"tufe1.xls", "tufe2.xls", "tufe3.xls", "tufe4.xls", "tufe5.xls", "tufe6.xls"}},
		{Name: "İstihdam, İşsizlik ve Ücret", Key: "istihdam", Files: []string{"issizlik_orani.xlsx"}},
		{Name: "Tarım", Key: "tarim", Files: []string{"bugday_uretimi.xlsx", "hayvancilik.xls"}},
	}}
}

func TestSelectFiles_CategoryMatchCapsFiles(t *testing.T) {
	selected := testManifest().SelectFiles("Enflasyon 2023 yılında ne kadardı?")
	require.Len(t, selected, 1)
	assert.Equal(t, "enflasyon", selected[0].CategoryPath)
	assert.Len(t, selected[0].Files, 5)
}

func TestSelectFiles_TurkishCaseFolding(t *testing.T) {
	selected := testManifest().SelectFiles("İŞSİZLİK")
	require.Len(t, selected, 1)
	assert.Equal(t, "istihdam", selected[0].CategoryPath)
}

func TestSelectFiles_FallsBackToFileNames(t *testing.T) {
	selected := testManifest().SelectFiles("buğday bugday üretimi")
	require.Len(t, selected, 1)
	assert.Equal(t, "tarim", selected[0].CategoryPath)
	assert.Equal(t, []string{"bugday_uretimi.xlsx"}, selected[0].Files)
}

func TestSelectFiles_NoMatch(t *testing.T) {
	assert.Empty(t, testManifest().SelectFiles("kripto"))
	assert.Empty(t, testManifest().SelectFiles("   "))
}

func TestSelectFiles_DoesNotAliasManifest(t *testing.T) {
	m := testManifest()
	selected := m.SelectFiles("tarım")
	require.Len(t, selected, 1)
	selected[0].Files[0] = "changed"
	assert.Equal(t, "bugday_uretimi.xlsx", m.Categories[2].Files[0])
}
