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

package blocks

import (
	"fmt"
	"sync"

	"github.com/xtaci/attnsim/internal/dflow"
	"github.com/xtaci/attnsim/internal/numeric"
)

// Generator is an untimed source block: it has no upstream collaborator
// in the dataflow graph, so it owns no input channel. source is called
// repeatedly; returning ok=false closes the block's output and ends the
// run. Generator adds no latency or initiation interval of its own --
// pacing comes entirely from downstream backpressure.
type Generator[T any] struct {
	base
	output *dflow.BroadcastSender[T]
	source func() (T, bool)
}

// NewGenerator wires a Generator block's output and returns it ready to run.
func NewGenerator[T any](id string, output *dflow.BroadcastSender[T], source func() (T, bool)) *Generator[T] {
	g := &Generator[T]{base: base{id: id}, output: output, source: source}
	output.AttachSender()
	return g
}

// Run implements dflow.Block.
func (g *Generator[T]) Run() {
	defer g.output.Close()
	for {
		val, ok := g.source()
		if !ok {
			return
		}
		elem := dflow.ChannelElement[T]{Timestamp: g.tm.Tick(), Payload: val}
		if err := g.output.Enqueue(&g.tm, elem); err != nil {
			return
		}
	}
}

// Consumer is an untimed sink block: it drains an input to exhaustion,
// invoking sink for every element, and owns no output channel.
type Consumer[T any] struct {
	base
	input *dflow.Channel[T]
	sink  func(T)
}

// NewConsumer wires a Consumer block's input and returns it ready to run.
func NewConsumer[T any](id string, input *dflow.Channel[T], sink func(T)) *Consumer[T] {
	c := &Consumer[T]{base: base{id: id}, input: input, sink: sink}
	input.AttachReceiver()
	return c
}

// Run implements dflow.Block.
func (c *Consumer[T]) Run() {
	defer c.input.CloseReceiver()
	for {
		elem, err := c.input.Dequeue(&c.tm)
		if err != nil {
			return
		}
		c.sink(elem.Payload)
	}
}

// ApproxResult summarizes an ApproxChecker's comparison once its run
// completes without a tolerance panic.
type ApproxResult struct {
	Compared int
	MaxDiff  float64
}

// ApproxChecker zips a computed stream against a reference stream and
// verifies every pair is within an absolute tolerance, standing in for
// the CLI's --validate flag: approximate, not bit-exact, equivalence.
// The first element outside tolerance is fatal -- Run panics immediately
// rather than accumulating a pass/fail over the whole run, so a
// validation failure surfaces at the exact element that produced it.
type ApproxChecker[T numeric.Float] struct {
	base
	got, want *dflow.Channel[T]
	tolerance T

	mu       sync.Mutex
	compared int
	maxDiff  float64
}

// NewApproxChecker wires an ApproxChecker's two inputs and returns it
// ready to run.
func NewApproxChecker[T numeric.Float](id string, got, want *dflow.Channel[T], tolerance T) *ApproxChecker[T] {
	c := &ApproxChecker[T]{base: base{id: id}, got: got, want: want, tolerance: tolerance}
	got.AttachReceiver()
	want.AttachReceiver()
	return c
}

// Run implements dflow.Block.
func (c *ApproxChecker[T]) Run() {
	defer func() {
		c.got.CloseReceiver()
		c.want.CloseReceiver()
	}()

	for {
		_, _ = c.got.PeekNext(&c.tm)
		_, _ = c.want.PeekNext(&c.tm)

		ge, gerr := c.got.Dequeue(&c.tm)
		we, werr := c.want.Dequeue(&c.tm)

		switch {
		case gerr == nil && werr == nil:
			diff := numeric.Abs(ge.Payload - we.Payload)
			c.mu.Lock()
			c.compared++
			if d := float64(diff); d > c.maxDiff {
				c.maxDiff = d
			}
			n := c.compared
			c.mu.Unlock()
			if diff > c.tolerance {
				panic(fmt.Errorf("%s: element %d differs by %g, exceeds tolerance %g", c.id, n, diff, c.tolerance))
			}
		case gerr != nil && werr != nil:
			return
		default:
			panic(dflow.NewProtocolViolation(c.id, "validate", "mismatched got/want stream length"))
		}
	}
}

// Result reports how many elements were compared and the worst
// difference seen. Only meaningful after the scheduler run that executes
// this block has returned without error -- a tolerance failure instead
// surfaces as Run's panic propagating out of dflow.Run.
func (c *ApproxChecker[T]) Result() ApproxResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ApproxResult{Compared: c.compared, MaxDiff: c.maxDiff}
}
