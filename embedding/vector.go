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

package embedding

import (
	"fmt"
	"math"

	"github.com/hupe1980/vecgo/distance"
)

// NormalizeVector normalizes a vector to unit length.
// Returns a new vector; the input is not modified. A zero vector comes back
// as zeros.
func NormalizeVector(v []float32) []float32 {
	if out, ok := distance.NormalizeL2Copy(v); ok {
		return out
	}
	return make([]float32, len(v))
}

// ValidateVectors checks that vectors has n rows of one non-zero dimension
// with finite values, and returns that dimension.
func ValidateVectors(vectors [][]float32, n int) (int, error) {
	if len(vectors) != n {
		return 0, fmt.Errorf("%w: want %d vectors, got %d", ErrCountMismatch, n, len(vectors))
	}
	if n == 0 {
		return 0, nil
	}

	dim := len(vectors[0])
	if dim == 0 {
		return 0, ErrEmptyVector
	}
	for i, v := range vectors {
		if len(v) != dim {
			return 0, fmt.Errorf("%w: row %d has %d values, want %d", ErrDimensionMismatch, i, len(v), dim)
		}
		for _, x := range v {
			if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
				return 0, fmt.Errorf("%w: row %d", ErrNonFinite, i)
			}
		}
	}
	return dim, nil
}
