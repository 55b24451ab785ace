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

package main

import (
	"log/slog"
	"time"

	"github.com/FatihSuicmez/TUIK-MCP/core"
	"github.com/FatihSuicmez/TUIK-MCP/retrieval"
)

// timingMonitor logs how long each retrieval stage took at debug level.
type timingMonitor struct {
	logger *slog.Logger
	start  time.Time
	last   time.Time
}

var _ retrieval.Monitor = (*timingMonitor)(nil)

func newTimingMonitor(logger *slog.Logger) *timingMonitor {
	return &timingMonitor{logger: logger}
}

func (m *timingMonitor) lap() time.Duration {
	now := time.Now()
	d := now.Sub(m.last)
	m.last = now
	return d
}

func (m *timingMonitor) Start(query string) {
	m.start = time.Now()
	m.last = m.start
	m.logger.Debug("query started", "query", query)
}

func (m *timingMonitor) AfterEmbedding(vector []float32) {
	m.logger.Debug("query embedded", "dimension", len(vector), "elapsed", m.lap())
}

func (m *timingMonitor) AfterSearch(ids []int, _ []float32) {
	m.logger.Debug("index searched", "hits", len(ids), "elapsed", m.lap())
}

func (m *timingMonitor) Finish(result *core.RetrievalResult) {
	m.logger.Debug("query finished", "sources", len(result.Sources), "total", time.Since(m.start))
}
