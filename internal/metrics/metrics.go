package metrics

import (
	"sync"
	"time"
)

// Tracks request counts and latencies across the client
type Collector struct {
	mu           sync.RWMutex
	requestCount uint64
	errorCount   uint64

	// Maps operation name to list of latencies in nanoseconds
	operationTimes map[string][]int64

	startTime time.Time
}

// OperationStats is a read-only summary of one operation's samples.
type OperationStats struct {
	Count   int
	Average time.Duration
}

func NewCollector() *Collector {
	return &Collector{
		operationTimes: make(map[string][]int64),
		startTime:      time.Now(),
	}
}

func (c *Collector) IncrementRequests() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requestCount++
}

func (c *Collector) IncrementErrors() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorCount++
}

func (c *Collector) AddOperationLatency(operationName string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.operationTimes[operationName] = append(
		c.operationTimes[operationName],
		duration.Nanoseconds(),
	)
}

// Counts returns the total request and error counts.
func (c *Collector) Counts() (requests uint64, errors uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.requestCount, c.errorCount
}

// Uptime reports how long this client has been running.
func (c *Collector) Uptime() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Since(c.startTime)
}

// Snapshot summarizes per-operation latency samples.
func (c *Collector) Snapshot() map[string]OperationStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := make(map[string]OperationStats, len(c.operationTimes))
	for name, samples := range c.operationTimes {
		if len(samples) == 0 {
			continue
		}
		var total int64
		for _, sample := range samples {
			total += sample
		}
		snapshot[name] = OperationStats{
			Count:   len(samples),
			Average: time.Duration(total / int64(len(samples))),
		}
	}
	return snapshot
}
