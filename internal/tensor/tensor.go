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

// Package tensor holds the small, cheaply-cloneable value types that
// travel across channels and the dense matrix handle the CLI and the
// reference oracle build workloads from. Channel payloads stay scalar
// or small fixed/variable-length sequences -- never a full matrix -- so
// this package deliberately stays light: a Matrix for whole-workload
// generation and reference computation, plus the two small streaming
// accumulator shapes the attention pipelines pass around.
package tensor

import "github.com/xtaci/attnsim/internal/numeric"

// Matrix is a row-major [Rows,Cols] dense matrix. Copying a Matrix value
// shares the underlying Data slice as a cheaply-cloneable handle --
// callers that need an independent copy call Clone explicitly.
type Matrix[T numeric.Float] struct {
	Rows, Cols int
	Data       []T
}

// NewMatrix allocates a zeroed Rows x Cols matrix.
func NewMatrix[T numeric.Float](rows, cols int) Matrix[T] {
	return Matrix[T]{Rows: rows, Cols: cols, Data: make([]T, rows*cols)}
}

// At returns the element at (r, c).
func (m Matrix[T]) At(r, c int) T { return m.Data[r*m.Cols+c] }

// Set assigns the element at (r, c).
func (m Matrix[T]) Set(r, c int, v T) { m.Data[r*m.Cols+c] = v }

// Row returns the backing slice for row r. Mutating it mutates m.
func (m Matrix[T]) Row(r int) []T { return m.Data[r*m.Cols : (r+1)*m.Cols] }

// Clone returns a Matrix with an independent backing slice.
func (m Matrix[T]) Clone() Matrix[T] {
	cp := make([]T, len(m.Data))
	copy(cp, m.Data)
	return Matrix[T]{Rows: m.Rows, Cols: m.Cols, Data: cp}
}

// Vector is an ordered sequence of scalars: one row of V, or one
// partial-output accumulator, as it travels across a channel.
type Vector[T numeric.Float] struct {
	Value []T
}

// NewVector wraps an existing slice. The caller gives up ownership of s.
func NewVector[T numeric.Float](s []T) Vector[T] {
	return Vector[T]{Value: s}
}

// Clone returns a Vector with an independent backing slice.
func (v Vector[T]) Clone() Vector[T] {
	cp := make([]T, len(v.Value))
	copy(cp, v.Value)
	return Vector[T]{Value: cp}
}

// RunningResult is the agnostic pipeline's per-score online-softmax
// state. It is constructed fresh on the first score of a
// row and updated on every subsequent score in that row.
type RunningResult[T numeric.Float] struct {
	CurMax    T
	DeltaMax  T
	Exp       T
	DeltaElem T
}
