package resource

import "sync/atomic"

// Progress reports how far a load has come.  It may be polled from other
// goroutines while the load runs.
type Progress struct {
	stage atomic.Int64
	count atomic.Int64
}

// Stage returns the number of tags read after the header.
func (p *Progress) Stage() int { return int(p.stage.Load()) }

// StageCount returns the declared number of load steps, or 0 if the file
// does not declare one.
func (p *Progress) StageCount() int { return int(p.count.Load()) }

func (p *Progress) step() {
	if p != nil {
		p.stage.Add(1)
	}
}

func (p *Progress) setCount(n int64) {
	if p != nil {
		p.count.Store(n)
	}
}
