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

// Repeat re-emits every received element `repeats` times on its
// broadcast output. Each copy is stamped tick()+1 and the local clock
// then advances by one cycle, so successive copies are one cycle apart.
// Shuts down cleanly on input closure.
type Repeat[T any] struct {
	base
	input   *dflow.Channel[T]
	output  *dflow.BroadcastSender[T]
	repeats int
}

// NewRepeat wires a Repeat block's endpoints and returns it ready to run.
func NewRepeat[T any](id string, input *dflow.Channel[T], output *dflow.BroadcastSender[T], repeats int) *Repeat[T] {
	r := &Repeat[T]{base: base{id: id}, input: input, output: output, repeats: repeats}
	input.AttachReceiver()
	output.AttachSender()
	return r
}

// Run implements dflow.Block.
func (r *Repeat[T]) Run() {
	defer func() {
		r.input.CloseReceiver()
		r.output.Close()
	}()

	for {
		elem, err := r.input.Dequeue(&r.tm)
		if err != nil {
			return
		}
		for i := 0; i < r.repeats; i++ {
			out := dflow.ChannelElement[T]{Timestamp: r.tm.Tick() + 1, Payload: elem.Payload}
			if err := r.output.Enqueue(&r.tm, out); err != nil {
				return
			}
			r.tm.IncrCycles(1)
		}
	}
}
