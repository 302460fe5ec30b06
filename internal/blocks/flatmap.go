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

import "github.com/xtaci/attnsim/internal/dflow"

// FlatmapTimings configures a Flatmap block's pipelining.
type FlatmapTimings struct {
	InitiationInterval uint64
	Latency            uint64
}

// Flatmap dequeues one element from every input per iteration, expands
// it via f into zero or more outputs, and enqueues each in turn,
// spending InitiationInterval per emitted output. Shuts down cleanly
// when any input is exhausted.
type Flatmap[InT, OutT any] struct {
	base
	inputs  []*dflow.Channel[InT]
	output  *dflow.BroadcastSender[OutT]
	f       func([]InT) []OutT
	timings FlatmapTimings
}

// NewFlatmap wires a Flatmap block's endpoints and returns it ready to run.
func NewFlatmap[InT, OutT any](id string, inputs []*dflow.Channel[InT], output *dflow.BroadcastSender[OutT], f func([]InT) []OutT, timings FlatmapTimings) *Flatmap[InT, OutT] {
	fm := &Flatmap[InT, OutT]{base: base{id: id}, inputs: inputs, output: output, f: f, timings: timings}
	for _, c := range inputs {
		c.AttachReceiver()
	}
	output.AttachSender()
	return fm
}

// Run implements dflow.Block.
func (fm *Flatmap[InT, OutT]) Run() {
	defer func() {
		for _, c := range fm.inputs {
			c.CloseReceiver()
		}
		fm.output.Close()
	}()

	data := make([]InT, len(fm.inputs))
	for {
		for _, c := range fm.inputs {
			_, _ = c.PeekNext(&fm.tm)
		}
		exhausted := false
		for i, c := range fm.inputs {
			elem, err := c.Dequeue(&fm.tm)
			if err != nil {
				exhausted = true
				break
			}
			data[i] = elem.Payload
		}
		if exhausted {
			return
		}

		for _, out := range fm.f(data) {
			elem := dflow.ChannelElement[OutT]{Timestamp: fm.tm.Tick() + fm.timings.Latency, Payload: out}
			if err := fm.output.Enqueue(&fm.tm, elem); err != nil {
				return
			}
			fm.tm.IncrCycles(fm.timings.InitiationInterval)
		}
	}
}
