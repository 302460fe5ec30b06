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

// ScanTimings configures a Scan block. See ReduceTimings for ResetTime.
type ScanTimings struct {
	InitiationInterval uint64
	Latency            uint64
	ResetTime          uint64
}

// Scan performs a windowed prefix scan with period resetFreq, emitting
// one value per input element (unlike Reduce, which emits one per
// window) to a broadcast output. Shutdown semantics mirror Reduce: only
// the first element of a window may close cleanly.
type Scan[InT, OutT any] struct {
	base
	resetFreq int
	input     *dflow.Channel[InT]
	output    *dflow.BroadcastSender[OutT]
	update    func(in InT, prev *OutT) OutT
	timings   ScanTimings
}

// NewScan wires a Scan block's endpoints and returns it ready to run.
func NewScan[InT, OutT any](id string, resetFreq int, input *dflow.Channel[InT], output *dflow.BroadcastSender[OutT], update func(InT, *OutT) OutT, timings ScanTimings) *Scan[InT, OutT] {
	s := &Scan[InT, OutT]{base: base{id: id}, resetFreq: resetFreq, input: input, output: output, update: update, timings: timings}
	input.AttachReceiver()
	output.AttachSender()
	return s
}

// Run implements dflow.Block.
func (s *Scan[InT, OutT]) Run() {
	defer func() {
		s.input.CloseReceiver()
		s.output.Close()
	}()

	for {
		s.tm.IncrCycles(s.timings.ResetTime)

		var prev OutT
		var prevPtr *OutT
		for iter := 0; iter < s.resetFreq; iter++ {
			elem, err := s.input.Dequeue(&s.tm)
			if err != nil {
				if iter == 0 {
					return
				}
				panic(dflow.NewProtocolViolation(s.id, fmt.Sprintf("window element %d", iter), "premature end of input receiver"))
			}

			newVal := s.update(elem.Payload, prevPtr)
			out := dflow.ChannelElement[OutT]{Timestamp: s.tm.Tick() + s.timings.Latency, Payload: newVal}
			if err := s.output.Enqueue(&s.tm, out); err != nil {
				panic(dflow.NewProtocolViolation(s.id, fmt.Sprintf("window element %d", iter), "premature end of output sender"))
			}

			prev = newVal
			prevPtr = &prev
			s.tm.IncrCycles(s.timings.InitiationInterval)
		}
	}
}
