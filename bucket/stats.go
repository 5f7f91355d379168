package bucket

import (
	"sync/atomic"
)

// Stats counts per-unit outcomes; a unit is one log or one scenario.
type Stats struct {
	Downloaded atomic.Int64
	Failed     atomic.Int64
	Skipped    atomic.Int64
	Bytes      atomic.Int64
}

type StatsSnapshot struct {
	Downloaded int64 `json:"downloaded"`
	Failed     int64 `json:"failed"`
	Skipped    int64 `json:"skipped"`
	Bytes      int64 `json:"bytes"`
}

func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Downloaded: s.Downloaded.Load(),
		Failed:     s.Failed.Load(),
		Skipped:    s.Skipped.Load(),
		Bytes:      s.Bytes.Load(),
	}
}
