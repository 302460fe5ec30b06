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

package dflow

import "sync"

// RunMode selects how the scheduler multiplexes blocks across workers.
type RunMode int

const (
	// Unconstrained runs every block on its own goroutine. This is the
	// default: parallel, cooperative workers with no
	// artificial serialization.
	Unconstrained RunMode = iota
	// Constrained caps the number of blocks actively running at once,
	// multiplexing the rest behind a worker-pool semaphore.
	Constrained
)

// RunOptions configures a single Run.
type RunOptions struct {
	Mode    RunMode
	Workers int // only meaningful when Mode == Constrained
}

// Run validates the graph, then runs every registered block to
// completion. It returns the simulation's elapsed_cycles: the maximum
// local clock value observed across all blocks once every block has
// exited cleanly.
//
// A block that panics (a protocol violation) causes Run to
// return that error immediately, without waiting for blocks still
// blocked on now-orphaned channels; those goroutines are abandoned, not
// joined, since the process is about to report a fatal error anyway.
func Run(b *Builder, opts RunOptions) (uint64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}

	var sem chan struct{}
	if opts.Mode == Constrained && opts.Workers > 0 {
		sem = make(chan struct{}, opts.Workers)
	}

	var wg sync.WaitGroup
	errCh := make(chan error, 1)
	for _, blk := range b.blocks {
		wg.Add(1)
		go func(blk Block) {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}
			defer func() {
				if r := recover(); r != nil {
					err, ok := r.(error)
					if !ok {
						err = NewProtocolViolation(blk.ID(), "unknown", errString(r))
					}
					select {
					case errCh <- err:
					default:
					}
				}
			}()
			blk.Run()
		}(blk)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case err := <-errCh:
		return 0, err
	case <-done:
	}

	var maxCycle uint64
	for _, blk := range b.blocks {
		if c := blk.Clock().Tick(); c > maxCycle {
			maxCycle = c
		}
	}
	return maxCycle, nil
}

func errString(r any) string {
	if s, ok := r.(string); ok {
		return s
	}
	return "panic: non-error value"
}
