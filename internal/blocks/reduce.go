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

	"github.com/xtaci/attnsim/internal/dflow"
)

// ReduceTimings configures a Reduce block. ResetTime is spent once per
// window, before the first element of that window is dequeued. Scan
// spends it the same way, and Matmul's Repeated behavior spends it
// before each row of A; Matmul's Buffered behavior does not spend it.
type ReduceTimings struct {
	InitiationInterval uint64
	Latency            uint64
	ResetTime          uint64
}

// Reduce performs a windowed fold over its input with period
// resetFreq, emitting one accumulator per window to a plain (non-
// broadcast) output. Input closure at the first dequeue of a window
// (a window boundary) ends the block cleanly; closure after a window has
// started is a fatal protocol violation.
type Reduce[InT, OutT any] struct {
	base
	resetFreq int
	input     *dflow.Channel[InT]
	output    *dflow.Channel[OutT]
	update    func(in InT, acc *OutT) OutT
	timings   ReduceTimings
}

// NewReduce wires a Reduce block's endpoints and returns it ready to run.
func NewReduce[InT, OutT any](id string, resetFreq int, input *dflow.Channel[InT], output *dflow.Channel[OutT], update func(InT, *OutT) OutT, timings ReduceTimings) *Reduce[InT, OutT] {
	r := &Reduce[InT, OutT]{base: base{id: id}, resetFreq: resetFreq, input: input, output: output, update: update, timings: timings}
	input.AttachReceiver()
	output.AttachSender()
	return r
}

// Run implements dflow.Block.
func (r *Reduce[InT, OutT]) Run() {
	defer func() {
		r.input.CloseReceiver()
		r.output.Close()
	}()

	for {
		r.tm.IncrCycles(r.timings.ResetTime)

		var acc OutT
		var accPtr *OutT
		for iter := 0; iter < r.resetFreq; iter++ {
			elem, err := r.input.Dequeue(&r.tm)
			if err != nil {
				if iter == 0 {
					return
				}
				panic(dflow.NewProtocolViolation(r.id, fmt.Sprintf("window element %d", iter), "premature end of input receiver"))
			}
			acc = r.update(elem.Payload, accPtr)
			accPtr = &acc
			r.tm.IncrCycles(r.timings.InitiationInterval)
		}

		out := dflow.ChannelElement[OutT]{Timestamp: r.tm.Tick() + r.timings.Latency, Payload: acc}
		if err := r.output.Enqueue(&r.tm, out); err != nil {
			panic(dflow.NewProtocolViolation(r.id, "emit", "premature end of output sender"))
		}
	}
}
