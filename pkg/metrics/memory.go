package metrics

import (
	"sync"
	"time"
)

// MemoryMetrics tracks operation counts and latency for the memory verbs
type MemoryMetrics struct {
	mu sync.RWMutex

	// Remember metrics
	Remembers       int64
	FailedRemembers int64
	StoredFacts     int64
	RememberTime    time.Duration

	// Recall metrics
	Recalls       int64
	FailedRecalls int64
	RecallHits    int64
	RecallTime    time.Duration

	// Forget metrics
	Forgets       int64
	FailedForgets int64
}

// NewMemoryMetrics creates a new MemoryMetrics instance
func NewMemoryMetrics() *MemoryMetrics {
	return &MemoryMetrics{}
}

// RecordRemember records one remember operation and how many facts it stored
func (m *MemoryMetrics) RecordRemember(stored int, failed bool, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Remembers++
	if failed {
		m.FailedRemembers++
	}
	m.StoredFacts += int64(stored)
	m.RememberTime += duration
}

// RecordRecall records one recall operation and how many memories it returned
func (m *MemoryMetrics) RecordRecall(hits int, failed bool, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Recalls++
	if failed {
		m.FailedRecalls++
	}
	m.RecallHits += int64(hits)
	m.RecallTime += duration
}

// RecordForget records one forget operation
func (m *MemoryMetrics) RecordForget(failed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Forgets++
	if failed {
		m.FailedForgets++
	}
}

// Snapshot returns a copy of the current metrics
func (m *MemoryMetrics) Snapshot() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := map[string]any{
		"total_remembers":  m.Remembers,
		"failed_remembers": m.FailedRemembers,
		"stored_facts":     m.StoredFacts,
		"total_recalls":    m.Recalls,
		"failed_recalls":   m.FailedRecalls,
		"recall_hits":      m.RecallHits,
		"total_forgets":    m.Forgets,
		"failed_forgets":   m.FailedForgets,
	}

	if m.Remembers > 0 {
		snapshot["avg_remember_seconds"] = m.RememberTime.Seconds() / float64(m.Remembers)
	}

	if m.Recalls > 0 {
		snapshot["avg_recall_seconds"] = m.RecallTime.Seconds() / float64(m.Recalls)
	}

	return snapshot
}

// Reset clears all recorded values
func (m *MemoryMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Remembers = 0
	m.FailedRemembers = 0
	m.StoredFacts = 0
	m.RememberTime = 0
	m.Recalls = 0
	m.FailedRecalls = 0
	m.RecallHits = 0
	m.RecallTime = 0
	m.Forgets = 0
	m.FailedForgets = 0
}
