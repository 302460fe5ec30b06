package dflow

import (
	"errors"
	"testing"
)

type fakeBlock struct {
	id     string
	tm     TimeManager
	run    func(*fakeBlock)
}

func (f *fakeBlock) ID() string           { return f.id }
func (f *fakeBlock) Clock() *TimeManager  { return &f.tm }
func (f *fakeBlock) Run()                 { f.run(f) }

func TestRunComputesMaxElapsedCycles(t *testing.T) {
	b := NewBuilder()
	b.AddBlock(&fakeBlock{id: "a", run: func(f *fakeBlock) { f.tm.IncrCycles(7) }})
	b.AddBlock(&fakeBlock{id: "b", run: func(f *fakeBlock) { f.tm.IncrCycles(20) }})
	b.AddBlock(&fakeBlock{id: "c", run: func(f *fakeBlock) { f.tm.IncrCycles(3) }})

	cycles, err := Run(b, RunOptions{Mode: Unconstrained})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cycles != 20 {
		t.Fatalf("expected elapsed_cycles 20, got %d", cycles)
	}
}

func TestRunRejectsInvalidGraph(t *testing.T) {
	b := NewBuilder()
	_ = Bounded[int](b, "dangling", 1) // never attached to any block
	if _, err := Run(b, RunOptions{Mode: Unconstrained}); err == nil {
		t.Fatalf("expected validation error for dangling channel")
	}
}

func TestRunSurfacesPanicAsError(t *testing.T) {
	b := NewBuilder()
	b.AddBlock(&fakeBlock{id: "ok", run: func(f *fakeBlock) {}})
	b.AddBlock(&fakeBlock{id: "bad", run: func(f *fakeBlock) {
		panic(NewProtocolViolation("bad", "0", "boom"))
	}})

	_, err := Run(b, RunOptions{Mode: Unconstrained})
	if err == nil {
		t.Fatalf("expected error from panicking block")
	}
	var pv *ProtocolViolation
	if !errors.As(err, &pv) {
		t.Fatalf("expected *ProtocolViolation, got %T: %v", err, err)
	}
}

func TestRunConstrainedMatchesUnconstrainedCycles(t *testing.T) {
	build := func() *Builder {
		b := NewBuilder()
		for i := 0; i < 5; i++ {
			n := uint64(i + 1)
			b.AddBlock(&fakeBlock{id: string(rune('a' + i)), run: func(f *fakeBlock) { f.tm.IncrCycles(n * 2) }})
		}
		return b
	}

	unconstrained, err := Run(build(), RunOptions{Mode: Unconstrained})
	if err != nil {
		t.Fatalf("unconstrained run: %v", err)
	}
	constrained, err := Run(build(), RunOptions{Mode: Constrained, Workers: 2})
	if err != nil {
		t.Fatalf("constrained run: %v", err)
	}
	if unconstrained != constrained {
		t.Fatalf("elapsed_cycles depends on worker count: %d vs %d", unconstrained, constrained)
	}
}
