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

// Pair holds the two halves of a Zip's output.
type Pair[A, B any] struct {
	Left  A
	Right B
}

// Zip dequeues one element from each of two inputs and emits their pair.
// Both sides closing simultaneously is a clean shutdown; either side
// closing alone while the other still has data is a fatal mismatched-
// length fault.
type Zip[L, R any] struct {
	base
	left   *dflow.Channel[L]
	right  *dflow.Channel[R]
	output *dflow.BroadcastSender[Pair[L, R]]
}

// NewZip wires a Zip block's endpoints and returns it ready to run.
func NewZip[L, R any](id string, left *dflow.Channel[L], right *dflow.Channel[R], output *dflow.BroadcastSender[Pair[L, R]]) *Zip[L, R] {
	z := &Zip[L, R]{base: base{id: id}, left: left, right: right, output: output}
	left.AttachReceiver()
	right.AttachReceiver()
	output.AttachSender()
	return z
}

// Run implements dflow.Block.
func (z *Zip[L, R]) Run() {
	defer func() {
		z.left.CloseReceiver()
		z.right.CloseReceiver()
		z.output.Close()
	}()

	for {
		_, _ = z.left.PeekNext(&z.tm)
		_, _ = z.right.PeekNext(&z.tm)

		le, lerr := z.left.Dequeue(&z.tm)
		re, rerr := z.right.Dequeue(&z.tm)

		switch {
		case lerr == nil && rerr == nil:
			out := dflow.ChannelElement[Pair[L, R]]{
				Timestamp: z.tm.Tick() + 1,
				Payload:   Pair[L, R]{Left: le.Payload, Right: re.Payload},
			}
			if err := z.output.Enqueue(&z.tm, out); err != nil {
				return
			}
		case lerr != nil && rerr != nil:
			return
		default:
			panic(dflow.NewProtocolViolation(z.id, "zip", "mismatched left/right closure"))
		}
	}
}
