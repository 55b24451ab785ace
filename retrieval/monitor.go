package retrieval

import "github.com/FatihSuicmez/TUIK-MCP/core"

// Monitor provides hooks to observe a retrieval query.
type Monitor interface {
	Start(query string)
	AfterEmbedding(vector []float32)
	AfterSearch(ids []int, distances []float32)
	Finish(result *core.RetrievalResult)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                   {}
func (n *noopMonitor) AfterEmbedding(_ []float32)       {}
func (n *noopMonitor) AfterSearch(_ []int, _ []float32) {}
func (n *noopMonitor) Finish(_ *core.RetrievalResult)   {}
