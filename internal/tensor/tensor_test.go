package tensor

import "testing"

func TestMatrixAtSetRowMajor(t *testing.T) {
	m := NewMatrix[float64](2, 3)
	m.Set(0, 0, 1)
	m.Set(0, 2, 3)
	m.Set(1, 1, 5)

	if m.At(0, 0) != 1 || m.At(0, 2) != 3 || m.At(1, 1) != 5 {
		t.Fatalf("unexpected matrix contents: %+v", m.Data)
	}
	row := m.Row(1)
	if len(row) != 3 || row[1] != 5 {
		t.Fatalf("unexpected row slice: %v", row)
	}
}

func TestMatrixCloneIsIndependent(t *testing.T) {
	m := NewMatrix[float64](1, 2)
	m.Set(0, 0, 1)
	clone := m.Clone()
	clone.Set(0, 0, 99)
	if m.At(0, 0) != 1 {
		t.Fatalf("mutating clone affected original: %v", m.Data)
	}
}

func TestVectorCloneIsIndependent(t *testing.T) {
	v := NewVector([]float64{1, 2, 3})
	clone := v.Clone()
	clone.Value[0] = 99
	if v.Value[0] != 1 {
		t.Fatalf("mutating clone affected original: %v", v.Value)
	}
}
