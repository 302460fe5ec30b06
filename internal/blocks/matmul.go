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

// MatmulTiming configures a Matmul block's per-MAC and per-row pacing.
type MatmulTiming struct {
	DotLatency uint64
	DotII      uint64
	ResetTime  uint64 // Repeated behavior only: spent before each row of A.
}

// ShapeInfo describes an [M,K]x[K,N]=[M,N] matrix product.
type ShapeInfo struct {
	M, N, K int
}

// MatmulBehavior selects how Matmul aligns its two input streams.
type MatmulBehavior int

const (
	// Buffered: the left stream delivers one row of A per outer
	// M-iteration; the right stream delivers all of B per row.
	Buffered MatmulBehavior = iota
	// Repeated: the left stream delivers each row of A repeated N times;
	// both streams are consumed one element per MAC step.
	Repeated
)

// Matmul computes C = A*B for A:[M,K], B:[K,N], streaming both operands
// and emitting C row-major. Clean shutdown is only valid at the very
// first (m,n,k)=(0,0,0) of a batch; any later stream exhaustion is a
// fatal protocol violation.
type Matmul[InT, OutT any] struct {
	base
	timing   MatmulTiming
	behavior MatmulBehavior
	shape    ShapeInfo
	left     *dflow.Channel[InT]
	right    *dflow.Channel[InT]
	output   *dflow.Channel[OutT]
	mac      func(a, b InT, acc OutT) OutT
}

// NewMatmul wires a Matmul block's endpoints and returns it ready to run.
func NewMatmul[InT, OutT any](id string, timing MatmulTiming, behavior MatmulBehavior, shape ShapeInfo, left, right *dflow.Channel[InT], output *dflow.Channel[OutT], mac func(InT, InT, OutT) OutT) *Matmul[InT, OutT] {
	m := &Matmul[InT, OutT]{base: base{id: id}, timing: timing, behavior: behavior, shape: shape, left: left, right: right, output: output, mac: mac}
	left.AttachReceiver()
	right.AttachReceiver()
	output.AttachSender()
	return m
}

// Run implements dflow.Block.
func (m *Matmul[InT, OutT]) Run() {
	defer func() {
		m.left.CloseReceiver()
		m.right.CloseReceiver()
		m.output.Close()
	}()

	switch m.behavior {
	case Buffered:
		m.runBuffered()
	case Repeated:
		m.runRepeated()
	}
}

func (m *Matmul[InT, OutT]) runBuffered() {
	leftBuf := make([]InT, m.shape.K)
	for {
		for mi := 0; mi < m.shape.M; mi++ {
			for ni := 0; ni < m.shape.N; ni++ {
				populate := ni == 0
				var accum OutT
				for ki := 0; ki < m.shape.K; ki++ {
					if _, err := m.right.PeekNext(&m.tm); err != nil {
						if mi == 0 && ni == 0 && ki == 0 {
							return
						}
						panic(m.fault(mi, ni, ki, "right stream"))
					}
					if populate {
						le, err := m.left.Dequeue(&m.tm)
						if err != nil {
							if mi == 0 && ni == 0 && ki == 0 {
								return
							}
							panic(m.fault(mi, ni, ki, "left stream"))
						}
						leftBuf[ki] = le.Payload
					}
					re, _ := m.right.Dequeue(&m.tm) // peeked successfully above; single receiver, cannot fail now
					accum = m.mac(leftBuf[ki], re.Payload, accum)
					m.tm.IncrCycles(m.timing.DotII)
				}
				m.emit(accum)
			}
		}
	}
}

func (m *Matmul[InT, OutT]) runRepeated() {
	for {
		for mi := 0; mi < m.shape.M; mi++ {
			m.tm.IncrCycles(m.timing.ResetTime)
			for ni := 0; ni < m.shape.N; ni++ {
				var accum OutT
				for ki := 0; ki < m.shape.K; ki++ {
					_, _ = m.left.PeekNext(&m.tm)
					_, _ = m.right.PeekNext(&m.tm)

					le, lerr := m.left.Dequeue(&m.tm)
					re, rerr := m.right.Dequeue(&m.tm)
					switch {
					case lerr == nil && rerr == nil:
						accum = m.mac(le.Payload, re.Payload, accum)
					case mi == 0 && ni == 0 && ki == 0:
						return
					default:
						panic(m.fault(mi, ni, ki, "left/right streams"))
					}
					m.tm.IncrCycles(m.timing.DotII)
				}
				m.emit(accum)
			}
		}
	}
}

func (m *Matmul[InT, OutT]) emit(accum OutT) {
	out := dflow.ChannelElement[OutT]{Timestamp: m.tm.Tick() + m.timing.DotLatency, Payload: accum}
	if err := m.output.Enqueue(&m.tm, out); err != nil {
		panic(dflow.NewProtocolViolation(m.id, "emit", "premature end of output sender"))
	}
}

func (m *Matmul[InT, OutT]) fault(mi, ni, ki int, stream string) error {
	return dflow.NewProtocolViolation(m.id, fmt.Sprintf("m=%d n=%d k=%d", mi, ni, ki), fmt.Sprintf("unexpected termination of %s", stream))
}
