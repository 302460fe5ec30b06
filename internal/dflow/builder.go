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

import (
	"fmt"
	"log"
)

// Block is anything the scheduler can run: a long-running worker with a
// small internal state machine, its own virtual clock, and channel
// endpoints it alone owns.
type Block interface {
	ID() string
	Run()
	Clock() *TimeManager
}

// Builder assembles a dataflow graph: channels and the blocks that own
// their endpoints. Construction is incremental -- flags parsed, then
// pieces wired one at a time -- rather than a declarative graph
// description.
type Builder struct {
	blocks     []Block
	validators []func() error
	seq        int
	Verbose    bool
}

// NewBuilder returns an empty graph builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Bounded creates a new bounded channel of element type T and registers
// it for graph validation. label is a diagnostic prefix; the builder
// appends a sequence number to keep ids unique across the graph.
func Bounded[T any](b *Builder, label string, capacity int) *Channel[T] {
	b.seq++
	ch := NewChannel[T](fmt.Sprintf("%s#%d", label, b.seq), capacity)
	b.validators = append(b.validators, ch.Validate)
	return ch
}

// AddBlock registers a block to be run by the scheduler.
func (b *Builder) AddBlock(blk Block) {
	if b.Verbose {
		log.Printf("dflow: registering block %q", blk.ID())
	}
	b.blocks = append(b.blocks, blk)
}

// Validate checks every channel registered via Bounded has exactly one
// sender and at least one receiver attached. It is called by Run before
// any block starts.
func (b *Builder) Validate() error {
	for _, v := range b.validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}
