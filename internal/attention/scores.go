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

package attention

import (
	"github.com/xtaci/attnsim/internal/blocks"
	"github.com/xtaci/attnsim/internal/dflow"
	"github.com/xtaci/attnsim/internal/numeric"
)

// BuildScoreProducer wires the Q*Kᵀ score stream both pipelines consume
// as their `qkt` input: two Generators feeding a Buffered Matmul, shape
// M=SeqLen (query rows), N=SeqLen (key rows), K=Dim (reduction). Row-
// major K fed in Buffered's (n-outer, k-inner) consumption order already
// computes the transpose implicitly.
func BuildScoreProducer[T numeric.Float](b *dflow.Builder, cfg AttentionConfig, timing blocks.MatmulTiming, qFeed, kFeed []T, depth int) *dflow.Channel[T] {
	qChan := dflow.Bounded[T](b, "scores.q", depth)
	kChan := dflow.Bounded[T](b, "scores.k", depth)
	qGen := blocks.NewGenerator[T]("scores.q_gen", dflow.NewBroadcastSender(qChan), SliceSource(qFeed))
	kGen := blocks.NewGenerator[T]("scores.k_gen", dflow.NewBroadcastSender(kChan), SliceSource(kFeed))
	b.AddBlock(qGen)
	b.AddBlock(kGen)

	qkt := dflow.Bounded[T](b, "scores.qkt", depth)
	mm := blocks.NewMatmul[T, T]("scores.matmul", timing, blocks.Buffered,
		blocks.ShapeInfo{M: cfg.SeqLen, N: cfg.SeqLen, K: cfg.Dim},
		qChan, kChan, qkt,
		func(a, bb, c T) T { return a*bb + c })
	b.AddBlock(mm)

	return qkt
}
