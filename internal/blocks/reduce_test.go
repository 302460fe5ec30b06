package blocks

import (
	"testing"

	"github.com/xtaci/attnsim/internal/dflow"
)

func TestReduceWindowedSum(t *testing.T) {
	b := dflow.NewBuilder()
	in := dflow.Bounded[int](b, "in", 40)
	out := dflow.Bounded[int](b, "out", 8)

	b.AddBlock(NewGenerator[int]("gen", dflow.NewBroadcastSender(in), intRange(0, 40)))

	r := NewReduce[int, int]("reduce", 10, in, out,
		func(in int, acc *int) int {
			if acc == nil {
				return in
			}
			return *acc + in
		},
		ReduceTimings{InitiationInterval: 1, Latency: 1})
	b.AddBlock(r)

	coll := newCollector[int]("coll", out)
	b.AddBlock(coll)

	if _, err := dflow.Run(b, dflow.RunOptions{Mode: dflow.Unconstrained}); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []int{45, 145, 245, 345}
	if len(coll.Values) != len(want) {
		t.Fatalf("expected %d windows, got %d: %v", len(want), len(coll.Values), coll.Values)
	}
	for i, w := range want {
		if coll.Values[i] != w {
			t.Fatalf("window %d: expected %d, got %d", i, w, coll.Values[i])
		}
	}
}

func TestReduceCleanShutdownOnFirstElementOfWindow(t *testing.T) {
	b := dflow.NewBuilder()
	in := dflow.Bounded[int](b, "in", 4)
	out := dflow.Bounded[int](b, "out", 4)

	b.AddBlock(NewGenerator[int]("gen", dflow.NewBroadcastSender(in), intRange(0, 0)))

	r := NewReduce[int, int]("reduce", 10, in, out,
		func(in int, acc *int) int {
			if acc == nil {
				return in
			}
			return *acc + in
		},
		ReduceTimings{InitiationInterval: 1, Latency: 1})
	b.AddBlock(r)

	coll := newCollector[int]("coll", out)
	b.AddBlock(coll)

	if _, err := dflow.Run(b, dflow.RunOptions{Mode: dflow.Unconstrained}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(coll.Values) != 0 {
		t.Fatalf("expected no windows emitted on empty input, got %d", len(coll.Values))
	}
}

func TestReducePanicsOnMidWindowClosure(t *testing.T) {
	b := dflow.NewBuilder()
	in := dflow.Bounded[int](b, "in", 4)
	out := dflow.Bounded[int](b, "out", 4)

	b.AddBlock(NewGenerator[int]("gen", dflow.NewBroadcastSender(in), intRange(0, 3)))

	r := NewReduce[int, int]("reduce", 10, in, out,
		func(in int, acc *int) int {
			if acc == nil {
				return in
			}
			return *acc + in
		},
		ReduceTimings{InitiationInterval: 1, Latency: 1})
	b.AddBlock(r)
	b.AddBlock(newCollector[int]("coll", out))

	if _, err := dflow.Run(b, dflow.RunOptions{Mode: dflow.Unconstrained}); err == nil {
		t.Fatalf("expected a protocol violation error for mid-window closure")
	}
}
