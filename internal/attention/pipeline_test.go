package attention

import (
	"math"
	"math/rand"
	"testing"

	"github.com/xtaci/attnsim/internal/blocks"
	"github.com/xtaci/attnsim/internal/dflow"
)

func runPipeline(t *testing.T, build func(b *dflow.Builder, w Workload[float64], cfg AttentionConfig) *dflow.Channel[float64], w Workload[float64], cfg AttentionConfig) []float64 {
	t.Helper()
	b := dflow.NewBuilder()
	out := build(b, w, cfg)

	var got []float64
	b.AddBlock(blocks.NewConsumer[float64]("sink", out, func(v float64) { got = append(got, v) }))

	if _, err := dflow.Run(b, dflow.RunOptions{Mode: dflow.Unconstrained}); err != nil {
		t.Fatalf("run: %v", err)
	}
	return got
}

func buildNaivePipeline(b *dflow.Builder, w Workload[float64], cfg AttentionConfig) *dflow.Channel[float64] {
	timing := blocks.MatmulTiming{DotLatency: 1, DotII: 1, ResetTime: 0}
	qkt := BuildScoreProducer[float64](b, cfg, timing, w.QKFeedQ, w.QKFeedK, cfg.SeqLen+2)

	v := dflow.Bounded[float64](b, "naive.v", cfg.SeqLen+2)
	b.AddBlock(blocks.NewGenerator[float64]("naive.v_gen", dflow.NewBroadcastSender(v), SliceSource(w.VFeedNaive)))

	naiveCfg := NaiveConfig{
		AttentionConfig: cfg,
		ShortDepth:      16,
		LongDepth:       cfg.SeqLen + 2,
		NaiveTimings:    NaiveTimings{ExpII: 1, ExpLatency: 1, SumII: 1, SumLatency: 1},
		CommonTimings:   CommonTimings{MatmulII: 1, MatmulLatency: 1, DivII: 1, DivLatency: 1},
	}
	return BuildNaive[float64](b, naiveCfg, qkt, v)
}

func buildAgnosticPipeline(b *dflow.Builder, w Workload[float64], cfg AttentionConfig) *dflow.Channel[float64] {
	timing := blocks.MatmulTiming{DotLatency: 1, DotII: 1, ResetTime: 0}
	qkt := BuildScoreProducer[float64](b, cfg, timing, w.QKFeedQ, w.QKFeedK, 16)

	v := dflow.Bounded[float64](b, "agnostic.v", 16)
	b.AddBlock(blocks.NewGenerator[float64]("agnostic.v_gen", dflow.NewBroadcastSender(v), SliceSource(w.VFeedAgnostic)))

	agnosticCfg := AgnosticConfig{
		AttentionConfig: cfg,
		ChannelDepth:    16,
		AgnosticTimings: AgnosticTimings{MaxII: 1, MaxLatency: 1, ResidualII: 1, ResidualLatency: 1, VectorProdII: 1, VectorProdLatency: 1},
		CommonTimings:   CommonTimings{MatmulII: 1, MatmulLatency: 1, DivII: 1, DivLatency: 1},
	}
	return BuildAgnostic[float64](b, agnosticCfg, qkt, v)
}

func TestNaiveAttentionMatchesReference(t *testing.T) {
	cfg := AttentionConfig{SeqLen: 6, Dim: 3, Batch: 1}
	w := GenerateWorkload[float64](rand.New(rand.NewSource(1)), cfg)

	got := runPipeline(t, buildNaivePipeline, w, cfg)
	assertWithinTolerance(t, got, w.Reference, 0.01)
}

func TestAgnosticAttentionMatchesReference(t *testing.T) {
	cfg := AttentionConfig{SeqLen: 6, Dim: 3, Batch: 1}
	w := GenerateWorkload[float64](rand.New(rand.NewSource(2)), cfg)

	got := runPipeline(t, buildAgnosticPipeline, w, cfg)
	assertWithinTolerance(t, got, w.Reference, 0.01)
}

func TestNaiveAndAgnosticAgree(t *testing.T) {
	cfg := AttentionConfig{SeqLen: 5, Dim: 4, Batch: 2}
	w := GenerateWorkload[float64](rand.New(rand.NewSource(3)), cfg)

	naiveOut := runPipeline(t, buildNaivePipeline, w, cfg)
	agnosticOut := runPipeline(t, buildAgnosticPipeline, w, cfg)
	assertWithinTolerance(t, naiveOut, agnosticOut, 0.02)
}

func assertWithinTolerance(t *testing.T, got, want []float64, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > tol {
			t.Fatalf("element %d: got %g, want %g (tolerance %g)", i, got[i], want[i], tol)
		}
	}
}
