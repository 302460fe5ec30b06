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
	"math/rand"

	"github.com/xtaci/attnsim/internal/numeric"
	"github.com/xtaci/attnsim/internal/tensor"
)

// Workload holds everything the CLI needs to drive one run: the flat
// feeds in the exact streaming order each
// pipeline, and the concatenated dense reference output for
// --validate.
type Workload[T numeric.Float] struct {
	QKFeedQ     []T // Q streamed row-major, once per batch
	QKFeedK     []T // K streamed row-major, repeated SeqLen times per batch
	VFeedNaive  []T // V transposed-row-major, repeated SeqLen times per batch
	VFeedAgnostic []T // V row-major, repeated SeqLen times per batch
	Reference   []T // dense attention output, row-major, concatenated across batches
}

// GenerateWorkload draws Batch independent [SeqLen,Dim] Q/K/V matrices
// from rng (uniform on [0,1)) and lays out their
// feeds and reference outputs back to back.
func GenerateWorkload[T numeric.Float](rng *rand.Rand, cfg AttentionConfig) Workload[T] {
	var w Workload[T]
	for i := 0; i < cfg.Batch; i++ {
		q := randomMatrix[T](rng, cfg.SeqLen, cfg.Dim)
		k := randomMatrix[T](rng, cfg.SeqLen, cfg.Dim)
		v := randomMatrix[T](rng, cfg.SeqLen, cfg.Dim)

		w.QKFeedQ = append(w.QKFeedQ, q.Data...)
		for r := 0; r < cfg.SeqLen; r++ {
			w.QKFeedK = append(w.QKFeedK, k.Data...)
		}
		vt := transpose(v)
		for r := 0; r < cfg.SeqLen; r++ {
			w.VFeedNaive = append(w.VFeedNaive, vt.Data...)
			w.VFeedAgnostic = append(w.VFeedAgnostic, v.Data...)
		}

		ref := ComputeAttention(q, k, v)
		w.Reference = append(w.Reference, ref.Data...)
	}
	return w
}

func randomMatrix[T numeric.Float](rng *rand.Rand, rows, cols int) tensor.Matrix[T] {
	m := tensor.NewMatrix[T](rows, cols)
	for i := range m.Data {
		m.Data[i] = T(rng.Float64())
	}
	return m
}

func transpose[T numeric.Float](m tensor.Matrix[T]) tensor.Matrix[T] {
	t := tensor.NewMatrix[T](m.Cols, m.Rows)
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			t.Set(c, r, m.At(r, c))
		}
	}
	return t
}

// SliceSource returns a Generator source function that yields each
// element of feed in order, then reports exhaustion.
func SliceSource[T any](feed []T) func() (T, bool) {
	idx := 0
	return func() (T, bool) {
		if idx >= len(feed) {
			var zero T
			return zero, false
		}
		v := feed[idx]
		idx++
		return v, true
	}
}
