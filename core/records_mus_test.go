package core

import (
	"math"
	"testing"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeBatchHeader(basename, category string, length int) []byte {
	bs := make([]byte, ord.String.Size(basename)+ord.String.Size(category)+varint.Int.Size(length))
	n := ord.String.Marshal(basename, bs)
	n += ord.String.Marshal(category, bs[n:])
	varint.Int.Marshal(length, bs[n:])
	return bs
}

func TestFragmentBatchMUS_RejectsBadLength(t *testing.T) {
	tests := []struct {
		name   string
		length int
	}{
		{"negative", -1},
		{"exceeds input", 4},
		{"overflows when scaled", math.MaxInt},
		{"near overflow", math.MaxInt/3 + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bs := append(encodeBatchHeader("a.xlsx", "Nüfus", tt.length), 0x00, 0x00, 0x00)
			assert.NotPanics(t, func() {
				_, _, err := FragmentBatchMUS.Unmarshal(bs)
				assert.ErrorIs(t, err, ErrBadLength)
			})
		})
	}
}

func TestFragmentBatchMUS_RoundTrip(t *testing.T) {
	batch := FragmentBatch{
		Basename:  "tufe.xlsx",
		Category:  "Enflasyon ve Fiyat",
		Fragments: []Fragment{NewFragment("Ocak ayında TÜFE %2,9 arttı.", "tufe.xlsx")},
	}
	bs := make([]byte, FragmentBatchMUS.Size(batch))
	FragmentBatchMUS.Marshal(batch, bs)

	decoded, n, err := FragmentBatchMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, len(bs), n)
	assert.Equal(t, batch, decoded)
}
