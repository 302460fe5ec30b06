package blocks

import (
	"testing"

	"github.com/xtaci/attnsim/internal/dflow"
)

func TestGeneratorConsumerRoundTrip(t *testing.T) {
	b := dflow.NewBuilder()
	ch := dflow.Bounded[int](b, "ch", 4)

	b.AddBlock(NewGenerator[int]("gen", dflow.NewBroadcastSender(ch), intRange(0, 5)))

	var got []int
	b.AddBlock(NewConsumer[int]("sink", ch, func(v int) { got = append(got, v) }))

	if _, err := dflow.Run(b, dflow.RunOptions{Mode: dflow.Unconstrained}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 values, got %d", len(got))
	}
}

func TestApproxCheckerPassesWithinTolerance(t *testing.T) {
	b := dflow.NewBuilder()
	got := dflow.Bounded[float64](b, "got", 4)
	want := dflow.Bounded[float64](b, "want", 4)

	b.AddBlock(NewGenerator[float64]("gen_got", dflow.NewBroadcastSender(got), sliceSource([]float64{1.0, 2.0005, 3.0})))
	b.AddBlock(NewGenerator[float64]("gen_want", dflow.NewBroadcastSender(want), sliceSource([]float64{1.0, 2.0, 3.0})))

	checker := NewApproxChecker[float64]("checker", got, want, 0.01)
	b.AddBlock(checker)

	if _, err := dflow.Run(b, dflow.RunOptions{Mode: dflow.Unconstrained}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if r := checker.Result(); r.Compared != 3 {
		t.Fatalf("expected 3 elements compared, got %+v", r)
	}
}

func TestApproxCheckerFailsBeyondTolerance(t *testing.T) {
	b := dflow.NewBuilder()
	got := dflow.Bounded[float64](b, "got", 4)
	want := dflow.Bounded[float64](b, "want", 4)

	b.AddBlock(NewGenerator[float64]("gen_got", dflow.NewBroadcastSender(got), sliceSource([]float64{1.0, 5.0})))
	b.AddBlock(NewGenerator[float64]("gen_want", dflow.NewBroadcastSender(want), sliceSource([]float64{1.0, 2.0})))

	checker := NewApproxChecker[float64]("checker", got, want, 0.01)
	b.AddBlock(checker)

	if _, err := dflow.Run(b, dflow.RunOptions{Mode: dflow.Unconstrained}); err == nil {
		t.Fatalf("expected run to fail on the first out-of-tolerance element")
	}
}

func sliceSource(vals []float64) func() (float64, bool) {
	idx := 0
	return func() (float64, bool) {
		if idx >= len(vals) {
			return 0, false
		}
		v := vals[idx]
		idx++
		return v, true
	}
}
