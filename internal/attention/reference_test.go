package attention

import (
	"math"
	"testing"

	"github.com/xtaci/attnsim/internal/tensor"
)

func TestComputeAttentionUniformScoresAveragesV(t *testing.T) {
	// With Q == 0, every score is 0, so softmax is uniform and the
	// output row is just the mean of V's rows.
	q := tensor.NewMatrix[float64](3, 2)
	k := tensor.NewMatrix[float64](3, 2)
	v := tensor.NewMatrix[float64](3, 2)
	v.Set(0, 0, 1)
	v.Set(1, 0, 2)
	v.Set(2, 0, 3)
	v.Set(0, 1, 4)
	v.Set(1, 1, 5)
	v.Set(2, 1, 6)

	out := ComputeAttention(q, k, v)
	for r := 0; r < 3; r++ {
		if math.Abs(out.At(r, 0)-2.0) > 1e-9 {
			t.Fatalf("row %d col 0: expected mean 2, got %g", r, out.At(r, 0))
		}
		if math.Abs(out.At(r, 1)-5.0) > 1e-9 {
			t.Fatalf("row %d col 1: expected mean 5, got %g", r, out.At(r, 1))
		}
	}
}
