package storage

import (
	"testing"
	"time"

	"github.com/FatihSuicmez/TUIK-MCP/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalFragment(t *testing.T) {
	tests := []struct {
		name     string
		fragment core.Fragment
	}{
		{"ascii", core.NewFragment("Population was 85 million in 2023.", "nufus.xlsx")},
		{"turkish", core.NewFragment("2023 yılında İstanbul'un nüfusu 15,6 milyondur.", "il_nufus.xls")},
		{"empty kind", core.Fragment{Text: "x", Metadata: core.FragmentMetadata{SourceFilename: "a.xlsx"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalFragment(&tt.fragment)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalFragment(data)
			require.NoError(t, err)
			assert.Equal(t, tt.fragment, *decoded)
		})
	}
}

func TestUnmarshalFragment_Invalid(t *testing.T) {
	_, err := UnmarshalFragment([]byte{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalUnmarshalFragmentBatch(t *testing.T) {
	batch := &core.FragmentBatch{
		Basename: "tufe.xlsx",
		Category: "Enflasyon ve Fiyat",
		Fragments: []core.Fragment{
			core.NewFragment("Ocak ayında TÜFE %2,9 arttı.", "tufe.xlsx"),
			core.NewFragment("Şubat ayında TÜFE %3,1 arttı.", "tufe.xlsx"),
		},
	}

	data := MarshalFragmentBatch(batch)
	decoded, err := UnmarshalFragmentBatch(data)
	require.NoError(t, err)
	assert.Equal(t, batch, decoded)
}

func TestMarshalUnmarshalFragmentBatch_Empty(t *testing.T) {
	batch := &core.FragmentBatch{Basename: "bos.xlsx", Category: "Tarım"}

	decoded, err := UnmarshalFragmentBatch(MarshalFragmentBatch(batch))
	require.NoError(t, err)
	assert.Equal(t, "bos.xlsx", decoded.Basename)
	assert.Empty(t, decoded.Fragments)
}

func TestUnmarshalFragmentBatch_Truncated(t *testing.T) {
	batch := &core.FragmentBatch{
		Basename:  "a.xlsx",
		Fragments: []core.Fragment{core.NewFragment("some fragment text", "a.xlsx")},
	}
	data := MarshalFragmentBatch(batch)

	for _, cut := range []int{1, len(data) / 2, len(data) - 1} {
		_, err := UnmarshalFragmentBatch(data[:cut])
		assert.ErrorIs(t, err, ErrSerializationFailed, "cut at %d", cut)
	}
}

func TestUnmarshalFragmentBatch_TrailingBytes(t *testing.T) {
	batch := &core.FragmentBatch{Basename: "a.xlsx"}
	data := append(MarshalFragmentBatch(batch), 0x01, 0x02)

	_, err := UnmarshalFragmentBatch(data)
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalUnmarshalArtifactInfo(t *testing.T) {
	info := &core.ArtifactInfo{
		BuildID:   "0b6f2a43-8f3e-4a71-9d8c-1e5b7c9a2f10",
		Model:     "paraphrase-multilingual-mpnet-base-v2",
		Dimension: 768,
		Count:     12345,
		Digest:    core.CorpusDigest([]core.Fragment{core.NewFragment("a", "a.xlsx")}),
		BuiltAt:   time.Now().UTC().Truncate(time.Microsecond),
	}

	decoded, err := UnmarshalArtifactInfo(MarshalArtifactInfo(info))
	require.NoError(t, err)
	assert.Equal(t, info.BuildID, decoded.BuildID)
	assert.Equal(t, info.Model, decoded.Model)
	assert.Equal(t, info.Dimension, decoded.Dimension)
	assert.Equal(t, info.Count, decoded.Count)
	assert.Equal(t, info.Digest, decoded.Digest)
	assert.True(t, info.BuiltAt.Equal(decoded.BuiltAt))
}
