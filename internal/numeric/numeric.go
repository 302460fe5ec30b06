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

// Package numeric collects the small numeric constraints shared by the
// block library, the tensor helpers, and the attention pipelines. It is
// a language-feature substitute, not a dependency substitute: Go's
// generics need a constraint interface in scope, and none of the pack's
// example repos pull in golang.org/x/exp/constraints for this, so a
// local interface is the idiomatic choice rather than an import.
package numeric

import "math"

// Float is satisfied by the two IEEE-754 floating point types the
// simulator's tensors and checkers operate on.
type Float interface {
	~float32 | ~float64
}

// Abs returns the absolute value of x.
func Abs[T Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Max returns the larger of a and b.
func Max[T Float](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Exp returns e**x, computed in float64 and rounded back to T.
func Exp[T Float](x T) T {
	return T(math.Exp(float64(x)))
}
