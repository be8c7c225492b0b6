package batch

import (
	"sync"
	"time"
)

// percentMultiplier is used to convert a ratio to percentage (0-100).
const percentMultiplier = 100

// Progress tracks a running Map. It is safe for concurrent use.
type Progress struct {
	mu sync.RWMutex

	totalItems       int
	processedItems   int
	failedItems      int
	totalBatches     int
	processedBatches int
	startTime        time.Time
}

// NewProgress creates a progress tracker.
func NewProgress(totalItems, totalBatches int) *Progress {
	return &Progress{
		totalItems:   totalItems,
		totalBatches: totalBatches,
		startTime:    time.Now(),
	}
}

// AddBatch records a finished batch of n items, failed of which errored.
func (p *Progress) AddBatch(n, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processedItems += n
	p.failedItems += failed
	p.processedBatches++
}

// Snapshot returns a copy of the current state.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	s := ProgressSnapshot{
		TotalItems:       p.totalItems,
		ProcessedItems:   p.processedItems,
		FailedItems:      p.failedItems,
		TotalBatches:     p.totalBatches,
		ProcessedBatches: p.processedBatches,
		ElapsedTime:      time.Since(p.startTime),
	}
	if p.totalItems > 0 {
		s.PercentComplete = float64(p.processedItems) / float64(p.totalItems) * percentMultiplier
	}
	return s
}

// ProgressSnapshot is an immutable snapshot of progress state.
type ProgressSnapshot struct {
	TotalItems       int
	ProcessedItems   int
	FailedItems      int
	TotalBatches     int
	ProcessedBatches int
	PercentComplete  float64
	ElapsedTime      time.Duration
}

// IsComplete reports whether every item has been processed.
func (s ProgressSnapshot) IsComplete() bool {
	return s.ProcessedItems >= s.TotalItems
}
