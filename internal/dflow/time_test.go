package dflow

import "testing"

func TestTimeManagerZeroValueReady(t *testing.T) {
	var tm TimeManager
	if tm.Tick() != 0 {
		t.Fatalf("zero value clock should read 0, got %d", tm.Tick())
	}
}

func TestTimeManagerIncrCycles(t *testing.T) {
	var tm TimeManager
	tm.IncrCycles(5)
	tm.IncrCycles(3)
	if got := tm.Tick(); got != 8 {
		t.Fatalf("expected 8, got %d", got)
	}
}

func TestTimeManagerAdvanceToNeverGoesBackwards(t *testing.T) {
	var tm TimeManager
	tm.AdvanceTo(10)
	tm.AdvanceTo(3)
	if got := tm.Tick(); got != 10 {
		t.Fatalf("expected clock to stay at 10, got %d", got)
	}
	tm.AdvanceTo(20)
	if got := tm.Tick(); got != 20 {
		t.Fatalf("expected clock to advance to 20, got %d", got)
	}
}
