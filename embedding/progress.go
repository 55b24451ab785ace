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
	"io"
	"time"
)

// batchProgress writes one status line per embedded batch of a corpus run.
// It is driven from the single EmbedCorpus goroutine.
type batchProgress struct {
	w       io.Writer
	model   string
	texts   int
	batches int

	done     int
	embedded int
	retried  int
	start    time.Time
}

func newBatchProgress(w io.Writer, model string, texts, batchSize int) *batchProgress {
	return &batchProgress{
		w:       w,
		model:   model,
		texts:   texts,
		batches: (texts + batchSize - 1) / batchSize,
		start:   time.Now(),
	}
}

// batchDone records a batch of size texts that succeeded on attempt.
func (p *batchProgress) batchDone(size, attempt int) {
	p.done++
	p.embedded += size
	if attempt > 1 {
		p.retried++
	}
	fmt.Fprintf(p.w, "\r%s: batch %d/%d, %d/%d texts", p.model, p.done, p.batches, p.embedded, p.texts)
	if p.retried > 0 {
		fmt.Fprintf(p.w, ", %d retried", p.retried)
	}
}

// finish ends the status line and returns the elapsed time.
func (p *batchProgress) finish() time.Duration {
	fmt.Fprintln(p.w)
	return time.Since(p.start)
}
