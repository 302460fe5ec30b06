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
	"github.com/xtaci/attnsim/internal/tensor"
)

// scoreZip is the pair type Step 4 of the agnostic pipeline produces:
// one online-softmax state matched to the V row at the same key
// position.
type scoreZip[T numeric.Float] = blocks.Pair[tensor.RunningResult[T], tensor.Vector[T]]

// outputZip is the pair type Step 6 produces: the accumulated output
// vector for a query row matched to its residual denominator.
type outputZip[T numeric.Float] = blocks.Pair[tensor.Vector[T], T]

// BuildAgnostic wires the streaming (FlashAttention-style) pipeline
// normalization is fused with output accumulation via
// an online running maximum, so the full score row is never
// materialized. qkt carries the N*N score stream row-major; v carries
// the N*D value stream row-major, repeated N times.
//
// Returns the channel carrying the N*D output stream, row-major.
func BuildAgnostic[T numeric.Float](b *dflow.Builder, cfg AgnosticConfig, qkt, v *dflow.Channel[T]) *dflow.Channel[T] {
	toResidual := dflow.Bounded[tensor.RunningResult[T]](b, "agnostic.to_residual", cfg.ChannelDepth)
	toZip := dflow.Bounded[tensor.RunningResult[T]](b, "agnostic.to_zip", cfg.ChannelDepth)
	scan := blocks.NewScan[T, tensor.RunningResult[T]]("agnostic.scan", cfg.SeqLen, qkt,
		dflow.NewBroadcastSender(toResidual, toZip),
		runningResultUpdate[T],
		blocks.ScanTimings{InitiationInterval: cfg.MaxII, Latency: cfg.MaxLatency, ResetTime: cfg.ResetTime})
	b.AddBlock(scan)

	residual := dflow.Bounded[T](b, "agnostic.residual", cfg.ChannelDepth)
	residualReduce := blocks.NewReduce[tensor.RunningResult[T], T]("agnostic.residual", cfg.SeqLen, toResidual, residual,
		func(rr tensor.RunningResult[T], acc *T) T {
			if acc == nil {
				return rr.Exp
			}
			return *acc*rr.DeltaElem + rr.Exp
		},
		blocks.ReduceTimings{InitiationInterval: cfg.ResidualII, Latency: cfg.ResidualLatency, ResetTime: cfg.ResetTime})
	b.AddBlock(residualReduce)

	vRows := dflow.Bounded[tensor.Vector[T]](b, "agnostic.v_rows", cfg.ChannelDepth)
	vRowReduce := blocks.NewReduce[T, tensor.Vector[T]]("agnostic.v_row", cfg.Dim, v, vRows,
		func(x T, acc *tensor.Vector[T]) tensor.Vector[T] {
			if acc == nil {
				return tensor.Vector[T]{Value: []T{x}}
			}
			next := make([]T, len(acc.Value)+1)
			copy(next, acc.Value)
			next[len(acc.Value)] = x
			return tensor.Vector[T]{Value: next}
		},
		blocks.ReduceTimings{InitiationInterval: cfg.VectorProdII, Latency: cfg.VectorProdLatency, ResetTime: cfg.ResetTime})
	b.AddBlock(vRowReduce)

	zipped := dflow.Bounded[scoreZip[T]](b, "agnostic.score_zip", cfg.ChannelDepth)
	zip1 := blocks.NewZip[tensor.RunningResult[T], tensor.Vector[T]]("agnostic.zip1", toZip, vRows, dflow.NewBroadcastSender(zipped))
	b.AddBlock(zip1)

	outVec := dflow.Bounded[tensor.Vector[T]](b, "agnostic.out_vec", cfg.ChannelDepth)
	outReduce := blocks.NewReduce[scoreZip[T], tensor.Vector[T]]("agnostic.out_vec", cfg.SeqLen, zipped, outVec,
		func(p scoreZip[T], acc *tensor.Vector[T]) tensor.Vector[T] {
			rr, vrow := p.Left, p.Right
			if acc == nil {
				out := make([]T, len(vrow.Value))
				for i, val := range vrow.Value {
					out[i] = val * rr.Exp
				}
				return tensor.Vector[T]{Value: out}
			}
			out := make([]T, len(acc.Value))
			for i := range out {
				out[i] = acc.Value[i]*rr.DeltaElem + rr.Exp*vrow.Value[i]
			}
			return tensor.Vector[T]{Value: out}
		},
		blocks.ReduceTimings{InitiationInterval: cfg.VectorProdII, Latency: cfg.VectorProdLatency, ResetTime: cfg.ResetTime})
	b.AddBlock(outReduce)

	finalZip := dflow.Bounded[outputZip[T]](b, "agnostic.final_zip", cfg.ChannelDepth)
	zip2 := blocks.NewZip[tensor.Vector[T], T]("agnostic.zip2", outVec, residual, dflow.NewBroadcastSender(finalZip))
	b.AddBlock(zip2)

	out := dflow.Bounded[T](b, "agnostic.out", cfg.Dim)
	divide := blocks.NewFlatmap[outputZip[T], T]("agnostic.div", []*dflow.Channel[outputZip[T]]{finalZip}, dflow.NewBroadcastSender(out),
		func(in []outputZip[T]) []T {
			p := in[0]
			results := make([]T, len(p.Left.Value))
			for i, val := range p.Left.Value {
				results[i] = val / p.Right
			}
			return results
		},
		blocks.FlatmapTimings{InitiationInterval: cfg.DivII, Latency: cfg.DivLatency})
	b.AddBlock(divide)

	return out
}

// runningResultUpdate implements the online-softmax recurrence.
func runningResultUpdate[T numeric.Float](s T, prev *tensor.RunningResult[T]) tensor.RunningResult[T] {
	if prev == nil {
		return tensor.RunningResult[T]{CurMax: s, DeltaMax: s, Exp: 1, DeltaElem: numeric.Exp(s)}
	}
	newMax := numeric.Max(prev.CurMax, s)
	deltaMax := prev.CurMax - newMax
	return tensor.RunningResult[T]{
		CurMax:    newMax,
		DeltaMax:  deltaMax,
		Exp:       numeric.Exp(s - newMax),
		DeltaElem: numeric.Exp(deltaMax),
	}
}
