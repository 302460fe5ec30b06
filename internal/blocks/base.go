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

// Package blocks implements the primitive dataflow library -- Map,
// Reduce, Scan, Repeat, Zip, Flatmap, and Matmul -- plus the
// Generator/Consumer/ApproxChecker utility blocks that stand in for the
// CLI's random-input-generation and validation collaborators, wired up
// as small generic blocks so every channel endpoint is owned by a real,
// registered block.
//
// Every block is polymorphic over the element types it carries and over
// a caller-supplied transition function: a struct parameterized by type
// parameters plus a plain func, no inheritance hierarchy.
package blocks

import "github.com/xtaci/attnsim/internal/dflow"

// base is embedded by every block to provide the id/clock half of the
// dflow.Block interface; each concrete block still implements Run
// itself.
type base struct {
	id string
	tm dflow.TimeManager
}

func (b *base) ID() string               { return b.id }
func (b *base) Clock() *dflow.TimeManager { return &b.tm }
