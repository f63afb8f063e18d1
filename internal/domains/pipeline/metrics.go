package pipeline

import "sync/atomic"

// Counters are process-local turn statistics.
type Counters struct {
	turns         atomic.Int64
	cacheHits     atomic.Int64
	computed      atomic.Int64
	fallbacks     atomic.Int64
	historyErrors atomic.Int64
	cacheErrors   atomic.Int64
	failures      map[FailureKind]*atomic.Int64
}

type Snapshot struct {
	Turns              int64                 `json:"turns"`
	CacheHits          int64                 `json:"cache_hits"`
	Computed           int64                 `json:"computed"`
	Fallbacks          int64                 `json:"fallbacks"`
	HistoryWriteErrors int64                 `json:"history_write_errors"`
	CacheWriteErrors   int64                 `json:"cache_write_errors"`
	Failures           map[FailureKind]int64 `json:"failures"`
}

func newCounters() *Counters {
	c := &Counters{failures: make(map[FailureKind]*atomic.Int64, len(Kinds))}
	for _, k := range Kinds {
		c.failures[k] = new(atomic.Int64)
	}
	return c
}

func (c *Counters) failed(kind FailureKind) {
	c.fallbacks.Add(1)
	if n, ok := c.failures[kind]; ok {
		n.Add(1)
		return
	}
	c.failures[KindUnknown].Add(1)
}

func (c *Counters) Snapshot() Snapshot {
	s := Snapshot{
		Turns:              c.turns.Load(),
		CacheHits:          c.cacheHits.Load(),
		Computed:           c.computed.Load(),
		Fallbacks:          c.fallbacks.Load(),
		HistoryWriteErrors: c.historyErrors.Load(),
		CacheWriteErrors:   c.cacheErrors.Load(),
		Failures:           make(map[FailureKind]int64, len(c.failures)),
	}
	for k, n := range c.failures {
		s.Failures[k] = n.Load()
	}
	return s
}
