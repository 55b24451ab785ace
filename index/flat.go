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

package index

import (
	"container/heap"
	"fmt"

	"github.com/hupe1980/vecgo/distance"
)

// Flat is an exact nearest-neighbor index. Vectors are stored row-major and
// every search scans all of them. Ids are row positions.
//
// A Flat is immutable after Build and safe for concurrent searches.
type Flat struct {
	dim   int
	count int
	data  []float32
}

// Build copies vectors into a new index. All vectors must share one
// non-zero dimension.
func Build(vectors [][]float32) (*Flat, error) {
	if len(vectors) == 0 {
		return nil, ErrNoVectors
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: zero-length vector", ErrDimensionMismatch)
	}

	data := make([]float32, 0, dim*len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrDimensionMismatch, i, len(v), dim)
		}
		data = append(data, v...)
	}
	return &Flat{dim: dim, count: len(vectors), data: data}, nil
}

// fromData wraps a row-major buffer read from disk.
func fromData(dim, count int, data []float32) *Flat {
	return &Flat{dim: dim, count: count, data: data}
}

// Dimension returns the vector length.
func (f *Flat) Dimension() int {
	return f.dim
}

// Len returns the number of indexed vectors.
func (f *Flat) Len() int {
	return f.count
}

// Vector returns a copy of the vector stored at id.
func (f *Flat) Vector(id int) []float32 {
	if id < 0 || id >= f.count {
		return nil
	}
	out := make([]float32, f.dim)
	copy(out, f.row(id))
	return out
}

func (f *Flat) row(id int) []float32 {
	return f.data[id*f.dim : (id+1)*f.dim]
}

// Search returns the k nearest vectors to query by squared Euclidean
// distance, nearest first. Equal distances are ordered by lower id. k is
// clamped to the index size.
func (f *Flat) Search(query []float32, k int) ([]float32, []int, error) {
	if k <= 0 {
		return nil, nil, ErrInvalidK
	}
	if len(query) != f.dim {
		return nil, nil, fmt.Errorf("%w: query has %d values, index has %d", ErrDimensionMismatch, len(query), f.dim)
	}
	k = min(k, f.count)

	h := make(maxHeap, 0, k)
	for id := 0; id < f.count; id++ {
		c := candidate{id: id, distance: distance.SquaredL2(query, f.row(id))}
		if len(h) < k {
			heap.Push(&h, c)
			continue
		}
		if c.less(h[0]) {
			h[0] = c
			heap.Fix(&h, 0)
		}
	}

	distances := make([]float32, len(h))
	ids := make([]int, len(h))
	for i := len(h) - 1; i >= 0; i-- {
		c := heap.Pop(&h).(candidate)
		distances[i] = c.distance
		ids[i] = c.id
	}
	return distances, ids, nil
}

type candidate struct {
	id       int
	distance float32
}

// less orders by distance, then id.
func (c candidate) less(o candidate) bool {
	if c.distance != o.distance {
		return c.distance < o.distance
	}
	return c.id < o.id
}

// maxHeap keeps the worst retained candidate at the root.
type maxHeap []candidate

func (h maxHeap) Len() int           { return len(h) }
func (h maxHeap) Less(i, j int) bool { return h[j].less(h[i]) }
func (h maxHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x any)        { *h = append(*h, x.(candidate)) }
func (h *maxHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
