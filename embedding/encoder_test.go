package embedding

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/FatihSuicmez/TUIK-MCP/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.BatchSize = 4
	cfg.RetryDelay = time.Millisecond
	return cfg
}

func texts(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = string(rune('a'+i%26)) + " fragment"
	}
	return out
}

func TestNewEncoder_RequiresEmbedder(t *testing.T) {
	_, err := NewEncoder(nil, nil, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 64, cfg.BatchSize)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.RetryDelay)
	assert.False(t, cfg.Normalize)
}

func TestEncoder_EmbedCorpus(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.Dimension = 8

	var progress bytes.Buffer
	enc, err := NewEncoder(embedder, testConfig(), &progress)
	require.NoError(t, err)

	input := texts(10)
	vectors, err := enc.EmbedCorpus(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, vectors, 10)
	for i, v := range vectors {
		assert.Len(t, v, 8)
		assert.Equal(t, mock.DeterministicVector(input[i], 8), v, "row %d keeps text order", i)
	}

	// 10 texts in batches of 4
	assert.Equal(t, 3, embedder.CallCount())
	assert.Contains(t, progress.String(), "10/10")
}

func TestEncoder_EmbedCorpus_Empty(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	enc, err := NewEncoder(embedder, testConfig(), nil)
	require.NoError(t, err)

	vectors, err := enc.EmbedCorpus(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
	assert.Equal(t, 0, embedder.CallCount())
}

func TestEncoder_EmbedCorpus_RetriesBatch(t *testing.T) {
	var mu sync.Mutex
	failures := 1
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, in []string) ([][]float32, error) {
		mu.Lock()
		defer mu.Unlock()
		if failures > 0 {
			failures--
			return nil, errors.New("temporary")
		}
		out := make([][]float32, len(in))
		for i, s := range in {
			out[i] = mock.DeterministicVector(s, 4)
		}
		return out, nil
	}

	var progress bytes.Buffer
	enc, err := NewEncoder(embedder, testConfig(), &progress)
	require.NoError(t, err)

	vectors, err := enc.EmbedCorpus(context.Background(), texts(3))
	require.NoError(t, err)
	assert.Len(t, vectors, 3)
	assert.Equal(t, 2, embedder.CallCount())
	assert.Contains(t, progress.String(), "batch 1/1, 3/3 texts, 1 retried")
}

func TestEncoder_EmbedCorpus_GivesUp(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, in []string) ([][]float32, error) {
		return nil, errors.New("service down")
	}

	enc, err := NewEncoder(embedder, testConfig(), nil)
	require.NoError(t, err)

	_, err = enc.EmbedCorpus(context.Background(), texts(2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service down")
	assert.Equal(t, 3, embedder.CallCount())
}

func TestEncoder_EmbedCorpus_CountMismatch(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, in []string) ([][]float32, error) {
		return [][]float32{{1, 2}}, nil
	}

	enc, err := NewEncoder(embedder, testConfig(), nil)
	require.NoError(t, err)

	_, err = enc.EmbedCorpus(context.Background(), texts(3))
	assert.ErrorIs(t, err, ErrCountMismatch)
}

func TestEncoder_EmbedCorpus_DimensionMismatch(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, in []string) ([][]float32, error) {
		out := make([][]float32, len(in))
		for i := range in {
			out[i] = make([]float32, 3+i)
			out[i][0] = 1
		}
		return out, nil
	}

	enc, err := NewEncoder(embedder, testConfig(), nil)
	require.NoError(t, err)

	_, err = enc.EmbedCorpus(context.Background(), texts(2))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestEncoder_EmbedCorpus_Canceled(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	enc, err := NewEncoder(embedder, testConfig(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = enc.EmbedCorpus(ctx, texts(5))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEncoder_Normalize(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{3, 4}, nil
	}

	cfg := testConfig()
	cfg.Normalize = true
	enc, err := NewEncoder(embedder, cfg, nil)
	require.NoError(t, err)

	v, err := enc.EmbedQuery(context.Background(), "nüfus")
	require.NoError(t, err)
	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[1], 1e-6)
}

func TestEncoder_EmbedQuery_RejectsEmptyVector(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{}, nil
	}

	enc, err := NewEncoder(embedder, testConfig(), nil)
	require.NoError(t, err)

	_, err = enc.EmbedQuery(context.Background(), "x")
	assert.ErrorIs(t, err, ErrEmptyVector)
}

func TestEncoder_ModelName(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.Model = "paraphrase-multilingual-mpnet-base-v2"

	enc, err := NewEncoder(embedder, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "paraphrase-multilingual-mpnet-base-v2", enc.ModelName())
}
