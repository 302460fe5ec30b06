// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package dflow implements the discrete-event execution engine: per-block
// virtual clocks, bounded timestamped channels, broadcast fan-out, and the
// scheduler that runs a graph of blocks to completion.
package dflow

import "sync/atomic"

// TimeManager is a block's private virtual clock. Cycle counts only ever
// move forward: Tick reads the current value, IncrCycles spends simulated
// time explicitly, and AdvanceTo pulls the clock up to an observed
// timestamp (never back).
//
// The zero value is a clock at cycle 0, ready to use.
type TimeManager struct {
	cycle atomic.Uint64
}

// Tick returns the current cycle without advancing it.
func (t *TimeManager) Tick() uint64 {
	return t.cycle.Load()
}

// IncrCycles advances the clock by n cycles.
func (t *TimeManager) IncrCycles(n uint64) {
	if n == 0 {
		return
	}
	t.cycle.Add(n)
}

// AdvanceTo moves the clock forward to at least ts. It is a no-op if the
// clock is already past ts.
func (t *TimeManager) AdvanceTo(ts uint64) {
	for {
		cur := t.cycle.Load()
		if ts <= cur {
			return
		}
		if t.cycle.CompareAndSwap(cur, ts) {
			return
		}
	}
}
