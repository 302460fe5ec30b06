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
	"sync"
)

// ChannelElement is a (timestamp, payload) pair: the unit that moves
// across a Channel. Timestamp is the cycle at which payload becomes
// logically available to a receiver.
type ChannelElement[T any] struct {
	Timestamp uint64
	Payload   T
}

// Channel is a unidirectional, bounded FIFO with capacity >= 1, one
// sender endpoint and one receiver endpoint. It enforces send-order
// delivery and non-decreasing timestamps, and it exposes the
// Peek/Dequeue/Enqueue/WaitUntilAvailable operations.
//
// Backpressure and closure are implemented with a mutex + two condition
// variables rather than a native Go channel, because peek_next needs to
// observe the head element without consuming it -- something a native
// chan cannot do.
type Channel[T any] struct {
	id       string
	capacity int

	mu      sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	buf          []ChannelElement[T]
	lastTS       uint64
	haveLastTS   bool
	senderClosed bool // the sender side exited: no more elements will ever be pushed
	recvDone     bool // the receiver side exited: nobody will ever drain this again
	freeAt       uint64 // virtual time of the most recent dequeue completion, the moment a blocked sender's slot actually opened up

	senders   int
	receivers int
}

// NewChannel constructs a bounded channel with the given id (used only
// for diagnostics) and capacity.
func NewChannel[T any](id string, capacity int) *Channel[T] {
	if capacity < 1 {
		panic(fmt.Sprintf("dflow: channel %s: capacity must be >= 1, got %d", id, capacity))
	}
	c := &Channel[T]{id: id, capacity: capacity, buf: make([]ChannelElement[T], 0, capacity)}
	c.notEmpty = sync.NewCond(&c.mu)
	c.notFull = sync.NewCond(&c.mu)
	return c
}

// ID returns the channel's diagnostic name.
func (c *Channel[T]) ID() string { return c.id }

// AttachSender registers a sender endpoint for graph validation. Exactly
// one attach is expected per channel.
func (c *Channel[T]) AttachSender() {
	c.mu.Lock()
	c.senders++
	c.mu.Unlock()
}

// AttachReceiver registers a receiver endpoint for graph validation.
func (c *Channel[T]) AttachReceiver() {
	c.mu.Lock()
	c.receivers++
	c.mu.Unlock()
}

// Validate reports a *GraphError if the channel does not have exactly
// one sender and at least one receiver attached.
func (c *Channel[T]) Validate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.senders == 0:
		return &GraphError{ChannelID: c.id, Reason: "no sender attached"}
	case c.senders > 1:
		return &GraphError{ChannelID: c.id, Reason: fmt.Sprintf("%d senders attached, want exactly 1", c.senders)}
	case c.receivers == 0:
		return &GraphError{ChannelID: c.id, Reason: "no receiver attached"}
	}
	return nil
}

// WaitUntilAvailable blocks the caller until the channel has free
// capacity or has been abandoned by its receiver. If it had to wait, the
// caller's virtual clock is pulled forward to the time the slot actually
// opened up, so a channel-bound stall is accounted for in elapsed_cycles
// rather than silently absorbed.
func (c *Channel[T]) WaitUntilAvailable(tm *TimeManager) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	waited := false
	for len(c.buf) >= c.capacity && !c.recvDone {
		c.notFull.Wait()
		waited = true
	}
	if c.recvDone {
		return ErrClosed
	}
	if waited {
		tm.AdvanceTo(c.freeAt)
	}
	return nil
}

// Enqueue pushes element onto the channel, blocking for capacity first.
// It enforces the per-channel timestamp-monotonicity invariant and, like
// WaitUntilAvailable, advances tm to the slot-free time if the sender had
// to wait for capacity.
func (c *Channel[T]) Enqueue(tm *TimeManager, elem ChannelElement[T]) error {
	c.mu.Lock()
	waited := false
	for len(c.buf) >= c.capacity && !c.recvDone {
		c.notFull.Wait()
		waited = true
	}
	if c.recvDone {
		c.mu.Unlock()
		return ErrClosed
	}
	if waited {
		tm.AdvanceTo(c.freeAt)
	}
	if c.haveLastTS && elem.Timestamp < c.lastTS {
		c.mu.Unlock()
		panic(fmt.Sprintf("dflow: channel %s: non-monotonic timestamp %d after %d", c.id, elem.Timestamp, c.lastTS))
	}
	c.lastTS, c.haveLastTS = elem.Timestamp, true
	c.buf = append(c.buf, elem)
	c.notEmpty.Signal()
	c.mu.Unlock()
	return nil
}

// PeekNext returns the timestamp of the next element without consuming
// it, advancing tm to at least that timestamp. It returns ErrExhausted
// once the sender has closed and the buffer has drained.
func (c *Channel[T]) PeekNext(tm *TimeManager) (uint64, error) {
	c.mu.Lock()
	for len(c.buf) == 0 && !c.senderClosed {
		c.notEmpty.Wait()
	}
	if len(c.buf) == 0 {
		c.mu.Unlock()
		return 0, ErrExhausted
	}
	ts := c.buf[0].Timestamp
	c.mu.Unlock()
	tm.AdvanceTo(ts)
	return ts, nil
}

// Dequeue removes and returns the next element, advancing tm to at
// least its timestamp. It returns ErrExhausted once the sender has
// closed and the buffer has drained.
func (c *Channel[T]) Dequeue(tm *TimeManager) (ChannelElement[T], error) {
	c.mu.Lock()
	for len(c.buf) == 0 && !c.senderClosed {
		c.notEmpty.Wait()
	}
	if len(c.buf) == 0 {
		c.mu.Unlock()
		var zero ChannelElement[T]
		return zero, ErrExhausted
	}
	elem := c.buf[0]
	c.buf = c.buf[1:]
	c.mu.Unlock()
	tm.AdvanceTo(elem.Timestamp)

	c.mu.Lock()
	if now := tm.Tick(); now > c.freeAt {
		c.freeAt = now
	}
	c.notFull.Signal()
	c.mu.Unlock()
	return elem, nil
}

// Close marks the sender side as done. Called exactly once, by the
// block that owns this channel's sender endpoint, when its run loop
// returns. Any buffered elements remain available to the receiver;
// further receives return ErrExhausted only once they are drained.
func (c *Channel[T]) Close() {
	c.mu.Lock()
	c.senderClosed = true
	c.notEmpty.Broadcast()
	c.mu.Unlock()
}

// CloseReceiver marks the receiver side as abandoned. Called by the
// block that owns this channel's receiver endpoint when it exits, so a
// still-running upstream sender is released from WaitUntilAvailable /
// Enqueue with ErrClosed instead of blocking forever.
func (c *Channel[T]) CloseReceiver() {
	c.mu.Lock()
	c.recvDone = true
	c.notFull.Broadcast()
	c.mu.Unlock()
}
