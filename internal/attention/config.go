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

// Package attention wires the primitive block library from internal/blocks
// into the two streaming attention pipelines, plus the dense reference
// oracle used to validate them.
package attention

// AttentionConfig describes the shape of one attention workload: N
// query/key positions of dimension D, repeated for Batch independent
// batches.
type AttentionConfig struct {
	SeqLen int
	Dim    int
	Batch  int
}

// CommonTimings configures the stages shared by both pipelines: the
// Matmul timings drive the Q*Kᵀ score Matmul (and naive's final Matmul),
// the Div timings drive each pipeline's divide stage, and ResetTime is
// the reset_time every window-based primitive accepts.
type CommonTimings struct {
	MatmulII      uint64
	MatmulLatency uint64
	DivII         uint64
	DivLatency    uint64
	ResetTime     uint64
}

// NaiveTimings configures the naive pipeline's exp and sum stages.
type NaiveTimings struct {
	ExpII      uint64
	ExpLatency uint64
	SumII      uint64
	SumLatency uint64
}

// AgnosticTimings configures the agnostic pipeline's scan and reduce stages.
type AgnosticTimings struct {
	MaxII             uint64
	MaxLatency        uint64
	ResidualII        uint64
	ResidualLatency   uint64
	VectorProdII      uint64
	VectorProdLatency uint64
}

// NaiveConfig is the full set of parameters needed to build the naive
// pipeline, the `naive` subcommand.
type NaiveConfig struct {
	AttentionConfig
	ShortDepth int
	LongDepth  int
	NaiveTimings
	CommonTimings
}

// AgnosticConfig is the full set of parameters needed to build the
// agnostic pipeline, the `agnostic` subcommand.
type AgnosticConfig struct {
	AttentionConfig
	ChannelDepth int
	AgnosticTimings
	CommonTimings
}

// CheckLongDepth reports whether the naive pipeline's long buffer is
// deep enough to avoid a back-pressure deadlock:
// the long buffer must hold at least one full row (SeqLen elements)
// before the replicated row sum starts draining it.
func CheckLongDepth(cfg NaiveConfig) bool {
	return cfg.LongDepth >= cfg.SeqLen
}
