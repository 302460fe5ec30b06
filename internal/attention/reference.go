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
	"github.com/xtaci/attnsim/internal/numeric"
	"github.com/xtaci/attnsim/internal/tensor"
)

// ComputeAttention is the in-memory dense oracle both pipelines are
// validated against: standard row-max-stabilized softmax(Q*Kᵀ)*V. It is
// the one part of the system that is explicitly out of the simulated
// core -- a reference dense-matrix attention used only as a test oracle,
// with no channels and no clocks, just arithmetic.
func ComputeAttention[T numeric.Float](q, k, v tensor.Matrix[T]) tensor.Matrix[T] {
	n, d := q.Rows, q.Cols
	scores := tensor.NewMatrix[T](n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var dot T
			for x := 0; x < d; x++ {
				dot += q.At(i, x) * k.At(j, x)
			}
			scores.Set(i, j, dot)
		}
	}

	out := tensor.NewMatrix[T](n, d)
	for i := 0; i < n; i++ {
		row := scores.Row(i)
		maxVal := row[0]
		for _, s := range row[1:] {
			maxVal = numeric.Max(maxVal, s)
		}
		var sum T
		probs := make([]T, n)
		for j, s := range row {
			e := numeric.Exp(s - maxVal)
			probs[j] = e
			sum += e
		}
		for x := 0; x < d; x++ {
			var acc T
			for j := 0; j < n; j++ {
				acc += probs[j] * v.At(j, x)
			}
			out.Set(i, x, acc/sum)
		}
	}
	return out
}
