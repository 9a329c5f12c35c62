package realtime

import (
	"bytes"
	"context"
	"time"
)

// DefaultPollInterval bounds how stale an observer's view may be.
const DefaultPollInterval = 2 * time.Second

// SnapshotFunc serializes the observer's current canonical view. The poller
// compares whole snapshots, not individual fields: the stored state always
// replaces the cached one wholesale (last write wins).
type SnapshotFunc func() ([]byte, error)

// Poller re-reads the canonical store on an interval and invokes onChange
// with the fresh snapshot whenever it differs from the cached one.
type Poller struct {
	Interval time.Duration
	Snapshot SnapshotFunc
	OnChange func(snapshot []byte)

	last []byte
}

func NewPoller(interval time.Duration, snapshot SnapshotFunc, onChange func([]byte)) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{Interval: interval, Snapshot: snapshot, OnChange: onChange}
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Tick()
		}
	}
}

// Tick performs one reconciliation pass. Split out from Run so callers and
// tests can drive the poller without waiting on the timer.
func (p *Poller) Tick() {
	snap, err := p.Snapshot()
	if err != nil {
		return
	}
	if bytes.Equal(snap, p.last) {
		return
	}
	p.last = snap
	if p.OnChange != nil {
		p.OnChange(snap)
	}
}
