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

// BuildNaive wires the textbook attention pipeline: the
// full score row is exponentiated and summed before the final matmul
// divides by the normalizer. qkt carries the N*N score stream row-major;
// v carries the N*D value stream transposed-row-major, repeated N times
// (the external generator's responsibility, not this wiring's).
//
// Returns the channel carrying the N*D output stream, row-major.
func BuildNaive[T numeric.Float](b *dflow.Builder, cfg NaiveConfig, qkt, v *dflow.Channel[T]) *dflow.Channel[T] {
	longBuf := dflow.Bounded[T](b, "naive.long", cfg.LongDepth)
	toSum := dflow.Bounded[T](b, "naive.to_sum", cfg.ShortDepth)
	expOut := dflow.NewBroadcastSender(longBuf, toSum)
	expMap := blocks.NewMap[T, T]("naive.exp", []*dflow.Channel[T]{qkt}, expOut,
		func(in []T) T { return numeric.Exp(in[0]) },
		blocks.MapTimings{InitiationInterval: cfg.ExpII, Latency: cfg.ExpLatency})
	b.AddBlock(expMap)

	rowSum := dflow.Bounded[T](b, "naive.row_sum", cfg.ShortDepth)
	sumReduce := blocks.NewReduce[T, T]("naive.sum", cfg.SeqLen, toSum, rowSum,
		func(in T, acc *T) T {
			if acc == nil {
				return in
			}
			return *acc + in
		},
		blocks.ReduceTimings{InitiationInterval: cfg.SumII, Latency: cfg.SumLatency, ResetTime: cfg.ResetTime})
	b.AddBlock(sumReduce)

	repeatedSum := dflow.Bounded[T](b, "naive.repeated_sum", cfg.LongDepth)
	repeat := blocks.NewRepeat[T]("naive.repeat", rowSum, dflow.NewBroadcastSender(repeatedSum), cfg.SeqLen)
	b.AddBlock(repeat)

	prob := dflow.Bounded[T](b, "naive.prob", cfg.LongDepth)
	divMap := blocks.NewMap[T, T]("naive.div", []*dflow.Channel[T]{longBuf, repeatedSum}, dflow.NewBroadcastSender(prob),
		func(in []T) T { return in[0] / in[1] },
		blocks.MapTimings{InitiationInterval: cfg.DivII, Latency: cfg.DivLatency})
	b.AddBlock(divMap)

	out := dflow.Bounded[T](b, "naive.out", cfg.Dim)
	mm := blocks.NewMatmul[T, T]("naive.matmul",
		blocks.MatmulTiming{DotLatency: cfg.MatmulLatency, DotII: cfg.MatmulII, ResetTime: cfg.ResetTime},
		blocks.Buffered,
		blocks.ShapeInfo{M: cfg.SeqLen, N: cfg.Dim, K: cfg.SeqLen},
		prob, v, out,
		func(a, bb, c T) T { return a*bb + c })
	b.AddBlock(mm)

	return out
}
