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

// MapTimings configures a Map block's pipelining.
type MapTimings struct {
	InitiationInterval uint64
	Latency            uint64
}

// Map dequeues one element from every input per iteration, applies f,
// and broadcasts the result. It shuts down cleanly as soon as any input
// is exhausted -- never fatally, since closure here
// always falls on the natural per-iteration boundary.
type Map[InT, OutT any] struct {
	base
	inputs  []*dflow.Channel[InT]
	output  *dflow.BroadcastSender[OutT]
	f       func([]InT) OutT
	timings MapTimings
}

// NewMap wires a Map block's endpoints and returns it ready to run.
func NewMap[InT, OutT any](id string, inputs []*dflow.Channel[InT], output *dflow.BroadcastSender[OutT], f func([]InT) OutT, timings MapTimings) *Map[InT, OutT] {
	m := &Map[InT, OutT]{base: base{id: id}, inputs: inputs, output: output, f: f, timings: timings}
	for _, c := range inputs {
		c.AttachReceiver()
	}
	output.AttachSender()
	return m
}

// Run implements dflow.Block.
func (m *Map[InT, OutT]) Run() {
	defer func() {
		for _, c := range m.inputs {
			c.CloseReceiver()
		}
		m.output.Close()
	}()

	data := make([]InT, len(m.inputs))
	for {
		for _, c := range m.inputs {
			_, _ = c.PeekNext(&m.tm)
		}
		exhausted := false
		for i, c := range m.inputs {
			elem, err := c.Dequeue(&m.tm)
			if err != nil {
				exhausted = true
				break
			}
			data[i] = elem.Payload
		}
		if exhausted {
			return
		}

		out := m.f(data)
		elem := dflow.ChannelElement[OutT]{Timestamp: m.tm.Tick() + m.timings.Latency, Payload: out}
		if err := m.output.Enqueue(&m.tm, elem); err != nil {
			return
		}
		m.tm.IncrCycles(m.timings.InitiationInterval)
	}
}
