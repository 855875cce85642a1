package rooms

import "sync/atomic"

// ViewCounter counts messages written to any transport since the last reset.
type ViewCounter struct {
	n atomic.Uint64
}

func (v *ViewCounter) Inc() { v.n.Add(1) }

func (v *ViewCounter) Load() uint64 { return v.n.Load() }

func (v *ViewCounter) Reset() { v.n.Store(0) }
