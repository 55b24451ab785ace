package mock

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	m := NewMockEmbedder()
	ctx := context.Background()

	a, err := m.EmbedText(ctx, "enflasyon")
	require.NoError(t, err)
	b, err := m.EmbedText(ctx, "enflasyon")
	require.NoError(t, err)
	c, err := m.EmbedText(ctx, "nüfus")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, DefaultDimension)

	var sum float64
	for _, v := range a {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
	assert.Equal(t, DefaultModelName, m.ModelName())
}

func TestMockEmbedder_BatchMatchesSingle(t *testing.T) {
	m := &MockEmbedder{Dimension: 8, Model: "test-model"}
	ctx := context.Background()

	batch, err := m.EmbedTexts(ctx, []string{"a", "b"})
	require.NoError(t, err)
	single, err := m.EmbedText(ctx, "b")
	require.NoError(t, err)

	assert.Len(t, batch[0], 8)
	assert.Equal(t, single, batch[1])
	assert.Equal(t, "test-model", m.ModelName())
	assert.Equal(t, 2, m.CallCount())

	m.Reset()
	assert.Equal(t, 0, m.CallCount())
}

func TestMockFragmentExtractor_Default(t *testing.T) {
	m := NewMockFragmentExtractor()
	got, err := m.ExtractFragments(context.Background(), "Yıl,Değer\n\n2023,5\n", "a.xlsx")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.xlsx tablosunda: Yıl,Değer", "a.xlsx tablosunda: 2023,5"}, got)
}

func TestMockFragmentExtractor_ConcurrentCalls(t *testing.T) {
	m := NewMockFragmentExtractor()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.ExtractFragments(context.Background(), "x", "a.xlsx")
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, m.CallCount())
}

func TestMockProvider(t *testing.T) {
	p := NewMockProvider()
	require.NotNil(t, p.Embedder())
	require.NotNil(t, p.FragmentExtractor())
	assert.NoError(t, p.Close())

	mp := p.(*MockProvider)
	assert.Same(t, mp.GetMockEmbedder(), p.Embedder())
}
