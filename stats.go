package cddb

import "sync/atomic"

// ClientStats contains counters for client operations. All fields are
// safe for concurrent access.
type ClientStats struct {
	Queries   uint64 // total query operations
	QueryHits uint64 // queries that found at least one match
	Reads     uint64 // total read operations
	Errors    uint64 // total errors across all operations
}

// clientStatsCollector provides internal methods for updating client
// stats. Not exported.
type clientStatsCollector struct {
	stats *ClientStats
}

func newClientStatsCollector() *clientStatsCollector {
	return &clientStatsCollector{stats: &ClientStats{}}
}

func (c *clientStatsCollector) recordQuery(hit bool) {
	atomic.AddUint64(&c.stats.Queries, 1)
	if hit {
		atomic.AddUint64(&c.stats.QueryHits, 1)
	}
}

func (c *clientStatsCollector) recordRead() {
	atomic.AddUint64(&c.stats.Reads, 1)
}

func (c *clientStatsCollector) recordError() {
	atomic.AddUint64(&c.stats.Errors, 1)
}

func (c *clientStatsCollector) snapshot() ClientStats {
	return ClientStats{
		Queries:   atomic.LoadUint64(&c.stats.Queries),
		QueryHits: atomic.LoadUint64(&c.stats.QueryHits),
		Reads:     atomic.LoadUint64(&c.stats.Reads),
		Errors:    atomic.LoadUint64(&c.stats.Errors),
	}
}
