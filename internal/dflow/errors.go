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

import "github.com/pkg/errors"

// Sentinel errors surfaced by channel operations. Blocks distinguish a
// clean, natural-boundary closure (which causes a silent exit) from a
// protocol violation (which is fatal) by where in their own state
// machine they observe one of these.
var (
	// ErrExhausted is returned by a receive when the channel is closed and
	// empty: no more elements will ever arrive.
	ErrExhausted = errors.New("dflow: channel exhausted")

	// ErrClosed is returned by an enqueue attempted against a channel (or
	// broadcast group) whose receiver side has gone away.
	ErrClosed = errors.New("dflow: channel closed")
)

// GraphError reports a construction-time validation failure: a dangling
// channel, a channel with more than one sender, or a channel with no
// attached receiver. The scheduler refuses to start when any exist.
type GraphError struct {
	ChannelID string
	Reason    string
}

func (e *GraphError) Error() string {
	return errors.Errorf("dflow: invalid graph: channel %s: %s", e.ChannelID, e.Reason).Error()
}

// ProtocolViolation reports a mid-stream invariant break: an upstream
// closed in the middle of a window, or one side of a Zip closed while the
// other still had data. Unlike ErrExhausted/ErrClosed these are fatal and
// identify the offending block and iteration.
type ProtocolViolation struct {
	BlockID   string
	Iteration string
	Detail    string
}

func (e *ProtocolViolation) Error() string {
	return errors.Errorf("dflow: protocol violation in block %s at %s: %s", e.BlockID, e.Iteration, e.Detail).Error()
}

// NewProtocolViolation is a small constructor so call sites read like the
// teacher's errors.Wrap/errors.Errorf call sites rather than struct
// literals scattered through the block implementations.
func NewProtocolViolation(blockID, iteration, detail string) error {
	return &ProtocolViolation{BlockID: blockID, Iteration: iteration, Detail: detail}
}
