package embedding

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchProgress(t *testing.T) {
	var buf bytes.Buffer
	p := newBatchProgress(&buf, "mpnet", 10, 4)
	assert.Equal(t, 3, p.batches)

	p.batchDone(4, 1)
	assert.Equal(t, "\rmpnet: batch 1/3, 4/10 texts", buf.String())

	buf.Reset()
	p.batchDone(4, 2)
	assert.Equal(t, "\rmpnet: batch 2/3, 8/10 texts, 1 retried", buf.String())

	buf.Reset()
	p.batchDone(2, 1)
	p.finish()
	assert.Equal(t, "\rmpnet: batch 3/3, 10/10 texts, 1 retried\n", buf.String())
}

func TestBatchProgress_SingleBatch(t *testing.T) {
	var buf bytes.Buffer
	p := newBatchProgress(&buf, "mpnet", 3, 64)
	p.batchDone(3, 1)
	elapsed := p.finish()

	assert.Equal(t, 1, p.batches)
	assert.True(t, strings.HasSuffix(buf.String(), "3/3 texts\n"))
	assert.GreaterOrEqual(t, elapsed.Nanoseconds(), int64(0))
}
