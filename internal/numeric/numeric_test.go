package numeric

import (
	"math"
	"testing"
)

func TestAbs(t *testing.T) {
	if Abs(-3.5) != 3.5 {
		t.Fatalf("Abs(-3.5) != 3.5")
	}
	if Abs(2.0) != 2.0 {
		t.Fatalf("Abs(2.0) != 2.0")
	}
}

func TestMax(t *testing.T) {
	if Max(1.0, 2.0) != 2.0 {
		t.Fatalf("Max(1,2) != 2")
	}
	if Max(-1.0, -5.0) != -1.0 {
		t.Fatalf("Max(-1,-5) != -1")
	}
}

func TestExp(t *testing.T) {
	got := Exp(0.0)
	if math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("Exp(0) = %v, want 1", got)
	}
}
