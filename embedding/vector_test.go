package embedding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeVector(t *testing.T) {
	result := NormalizeVector([]float32{3, 4})
	require.Len(t, result, 2)
	assert.InDelta(t, 0.6, result[0], 1e-6)
	assert.InDelta(t, 0.8, result[1], 1e-6)

	zero := NormalizeVector([]float32{0, 0, 0})
	assert.Equal(t, []float32{0, 0, 0}, zero)
}

func TestNormalizeVector_DoesNotModifyInput(t *testing.T) {
	input := []float32{1, 1}
	_ = NormalizeVector(input)
	assert.Equal(t, []float32{1, 1}, input)
}

func TestValidateVectors(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	tests := []struct {
		name    string
		vectors [][]float32
		n       int
		wantDim int
		wantErr error
	}{
		{"ok", [][]float32{{1, 2, 3}, {4, 5, 6}}, 2, 3, nil},
		{"empty corpus", [][]float32{}, 0, 0, nil},
		{"count", [][]float32{{1}}, 2, 0, ErrCountMismatch},
		{"ragged", [][]float32{{1, 2}, {1}}, 2, 0, ErrDimensionMismatch},
		{"zero dimension", [][]float32{{}}, 1, 0, ErrEmptyVector},
		{"nan", [][]float32{{1, nan}}, 1, 0, ErrNonFinite},
		{"inf", [][]float32{{inf}}, 1, 0, ErrNonFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dim, err := ValidateVectors(tt.vectors, tt.n)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDim, dim)
		})
	}
}
