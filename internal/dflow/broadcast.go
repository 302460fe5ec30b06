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

// BroadcastSender fans an enqueue out over one or more underlying
// channels. It is an explicit wrapper, not a channel property: back-
// pressure is governed by the slowest of its targets, and a send is
// atomic with respect to that back-pressure.
type BroadcastSender[T any] struct {
	targets []*Channel[T]
}

// NewBroadcastSender builds a fan-out over the given channels. A single
// target is the common case (it degenerates to a plain forwarding
// sender); zero targets is a configuration error the caller should not
// construct.
func NewBroadcastSender[T any](targets ...*Channel[T]) *BroadcastSender[T] {
	return &BroadcastSender[T]{targets: targets}
}

// AttachSender registers this sender with every target, for graph
// validation.
func (b *BroadcastSender[T]) AttachSender() {
	for _, t := range b.targets {
		t.AttachSender()
	}
}

// Enqueue waits for every target to have capacity, then pushes a copy of
// elem into each. If any target has been abandoned by its receiver, no
// element is sent to any target and ErrClosed is returned.
func (b *BroadcastSender[T]) Enqueue(tm *TimeManager, elem ChannelElement[T]) error {
	for _, t := range b.targets {
		if err := t.WaitUntilAvailable(tm); err != nil {
			return ErrClosed
		}
	}
	for _, t := range b.targets {
		// Capacity was just confirmed and this is the only sender for
		// each target, so Enqueue cannot block here.
		_ = t.Enqueue(tm, elem)
	}
	return nil
}

// Close closes every target's sender side.
func (b *BroadcastSender[T]) Close() {
	for _, t := range b.targets {
		t.Close()
	}
}
