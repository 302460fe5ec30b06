package blocks

import (
	"testing"

	"github.com/xtaci/attnsim/internal/dflow"
)

func TestRepeatReemitsRTimes(t *testing.T) {
	b := dflow.NewBuilder()
	in := dflow.Bounded[int](b, "in", 4)
	out := dflow.Bounded[int](b, "out", 16)

	b.AddBlock(NewGenerator[int]("gen", dflow.NewBroadcastSender(in), intRange(0, 4)))

	r := NewRepeat[int]("repeat", in, dflow.NewBroadcastSender(out), 3)
	b.AddBlock(r)

	coll := newCollector[int]("coll", out)
	b.AddBlock(coll)

	if _, err := dflow.Run(b, dflow.RunOptions{Mode: dflow.Unconstrained}); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []int{0, 0, 0, 1, 1, 1, 2, 2, 2, 3, 3, 3}
	if len(coll.Values) != len(want) {
		t.Fatalf("expected %d outputs, got %d", len(want), len(coll.Values))
	}
	for i, w := range want {
		if coll.Values[i] != w {
			t.Fatalf("output %d: expected %d, got %d", i, w, coll.Values[i])
		}
	}
}
