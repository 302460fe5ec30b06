package blocks

import (
	"testing"

	"github.com/xtaci/attnsim/internal/dflow"
)

func TestMapAddsFive(t *testing.T) {
	b := dflow.NewBuilder()
	in := dflow.Bounded[int](b, "in", 16)
	out := dflow.Bounded[int](b, "out", 16)

	gen := NewGenerator[int]("gen", dflow.NewBroadcastSender(in), intRange(0, 16))
	b.AddBlock(gen)

	m := NewMap[int, int]("map", []*dflow.Channel[int]{in}, dflow.NewBroadcastSender(out),
		func(in []int) int { return in[0] + 5 },
		MapTimings{InitiationInterval: 1, Latency: 5})
	b.AddBlock(m)

	coll := newCollector[int]("coll", out)
	b.AddBlock(coll)

	if _, err := dflow.Run(b, dflow.RunOptions{Mode: dflow.Unconstrained}); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(coll.Values) != 16 {
		t.Fatalf("expected 16 outputs, got %d", len(coll.Values))
	}
	for i, v := range coll.Values {
		if v != i+5 {
			t.Fatalf("output %d: expected %d, got %d", i, i+5, v)
		}
	}
	if coll.Timestamps[0] < 5 {
		t.Fatalf("first output timestamp should be >= 5, got %d", coll.Timestamps[0])
	}
	if last := coll.Timestamps[len(coll.Timestamps)-1]; last < 20 {
		t.Fatalf("last output timestamp should be >= 20, got %d", last)
	}
}

func TestMapExitsCleanlyWhenAnyInputExhausted(t *testing.T) {
	b := dflow.NewBuilder()
	a := dflow.Bounded[int](b, "a", 4)
	bCh := dflow.Bounded[int](b, "b", 4)
	out := dflow.Bounded[int](b, "out", 4)

	b.AddBlock(NewGenerator[int]("gen_a", dflow.NewBroadcastSender(a), intRange(0, 5)))
	b.AddBlock(NewGenerator[int]("gen_b", dflow.NewBroadcastSender(bCh), intRange(0, 2)))

	m := NewMap[int, int]("map", []*dflow.Channel[int]{a, bCh}, dflow.NewBroadcastSender(out),
		func(in []int) int { return in[0] + in[1] },
		MapTimings{InitiationInterval: 1, Latency: 1})
	b.AddBlock(m)

	coll := newCollector[int]("coll", out)
	b.AddBlock(coll)

	if _, err := dflow.Run(b, dflow.RunOptions{Mode: dflow.Unconstrained}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(coll.Values) != 2 {
		t.Fatalf("expected 2 outputs bounded by the shorter input, got %d", len(coll.Values))
	}
}
