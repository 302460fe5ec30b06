// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Command attnsim runs the cycle-accurate streaming-attention simulator:
// it generates random Q/K/V workloads, wires the requested pipeline
// (naive or agnostic) out of the dataflow primitive library, runs it to
// completion, and prints the simulated elapsed cycle count.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/xtaci/attnsim/internal/attention"
	"github.com/xtaci/attnsim/internal/blocks"
	"github.com/xtaci/attnsim/internal/dflow"
)

func main() {
	app := cli.NewApp()
	app.Name = "attnsim"
	app.Usage = "cycle-accurate dataflow simulator for streaming attention kernels"
	app.Commands = []cli.Command{naiveCommand(), agnosticCommand()}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{Name: "length", Usage: "sequence length N", Required: true},
		cli.IntFlag{Name: "dim", Usage: "embedding dimension D", Required: true},
		cli.IntFlag{Name: "batch", Usage: "number of independent batches", Value: 1},
		cli.BoolFlag{Name: "validate", Usage: "compare streamed output against the dense reference"},
		cli.IntFlag{Name: "workers", Usage: "cap concurrent blocks to this many (0 = unconstrained)", Value: 0},
		cli.Uint64Flag{Name: "matmul-ii", Value: 1},
		cli.Uint64Flag{Name: "matmul-latency", Value: 1},
		cli.Uint64Flag{Name: "div-ii", Value: 1},
		cli.Uint64Flag{Name: "div-latency", Value: 1},
		cli.Uint64Flag{Name: "reset-time", Value: 0},
		cli.BoolFlag{Name: "verbose"},
	}
}

func naiveCommand() cli.Command {
	return cli.Command{
		Name:  "naive",
		Usage: "run the textbook (full softmax materialization) attention pipeline",
		Flags: append(commonFlags(),
			cli.IntFlag{Name: "short-depth", Required: true},
			cli.IntFlag{Name: "long-depth", Required: true},
			cli.Uint64Flag{Name: "exp-ii", Value: 1},
			cli.Uint64Flag{Name: "exp-latency", Value: 1},
			cli.Uint64Flag{Name: "sum-ii", Value: 1},
			cli.Uint64Flag{Name: "sum-latency", Value: 1},
		),
		Action: runNaive,
	}
}

func agnosticCommand() cli.Command {
	return cli.Command{
		Name:  "agnostic",
		Usage: "run the streaming (online-softmax) attention pipeline",
		Flags: append(commonFlags(),
			cli.IntFlag{Name: "channel-depth", Required: true},
			cli.Uint64Flag{Name: "max-ii", Value: 1},
			cli.Uint64Flag{Name: "max-latency", Value: 1},
			cli.Uint64Flag{Name: "residual-ii", Value: 1},
			cli.Uint64Flag{Name: "residual-latency", Value: 1},
			cli.Uint64Flag{Name: "vector-prod-ii", Value: 1},
			cli.Uint64Flag{Name: "vector-prod-latency", Value: 1},
		),
		Action: runAgnostic,
	}
}

func commonTimings(c *cli.Context) attention.CommonTimings {
	return attention.CommonTimings{
		MatmulII:      c.Uint64("matmul-ii"),
		MatmulLatency: c.Uint64("matmul-latency"),
		DivII:         c.Uint64("div-ii"),
		DivLatency:    c.Uint64("div-latency"),
		ResetTime:     c.Uint64("reset-time"),
	}
}

func runOptions(c *cli.Context) dflow.RunOptions {
	if workers := c.Int("workers"); workers > 0 {
		return dflow.RunOptions{Mode: dflow.Constrained, Workers: workers}
	}
	return dflow.RunOptions{Mode: dflow.Unconstrained}
}

func runNaive(c *cli.Context) error {
	cfg := attention.NaiveConfig{
		AttentionConfig: attention.AttentionConfig{SeqLen: c.Int("length"), Dim: c.Int("dim"), Batch: c.Int("batch")},
		ShortDepth:      c.Int("short-depth"),
		LongDepth:       c.Int("long-depth"),
		NaiveTimings: attention.NaiveTimings{
			ExpII: c.Uint64("exp-ii"), ExpLatency: c.Uint64("exp-latency"),
			SumII: c.Uint64("sum-ii"), SumLatency: c.Uint64("sum-latency"),
		},
		CommonTimings: commonTimings(c),
	}
	log.Printf("%+v", cfg)

	if !attention.CheckLongDepth(cfg) {
		color.Red("WARNING: long-depth %d < length %d; the naive pipeline's long buffer may deadlock", cfg.LongDepth, cfg.SeqLen)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	genStart := time.Now()
	workload := attention.GenerateWorkload[float64](rng, cfg.AttentionConfig)
	log.Printf("workload generation took %s", time.Since(genStart))

	b := dflow.NewBuilder()
	b.Verbose = c.Bool("verbose")

	qkt := attention.BuildScoreProducer[float64](b, cfg.AttentionConfig,
		blocks.MatmulTiming{DotLatency: cfg.MatmulLatency, DotII: cfg.MatmulII, ResetTime: cfg.ResetTime},
		workload.QKFeedQ, workload.QKFeedK, cfg.LongDepth)

	vChan := dflow.Bounded[float64](b, "naive.v", cfg.LongDepth)
	vGen := blocks.NewGenerator[float64]("naive.v_gen", dflow.NewBroadcastSender(vChan), attention.SliceSource(workload.VFeedNaive))
	b.AddBlock(vGen)

	out := attention.BuildNaive[float64](b, cfg, qkt, vChan)

	return drain(b, c, out, workload.Reference)
}

func runAgnostic(c *cli.Context) error {
	cfg := attention.AgnosticConfig{
		AttentionConfig: attention.AttentionConfig{SeqLen: c.Int("length"), Dim: c.Int("dim"), Batch: c.Int("batch")},
		ChannelDepth:    c.Int("channel-depth"),
		AgnosticTimings: attention.AgnosticTimings{
			MaxII: c.Uint64("max-ii"), MaxLatency: c.Uint64("max-latency"),
			ResidualII: c.Uint64("residual-ii"), ResidualLatency: c.Uint64("residual-latency"),
			VectorProdII: c.Uint64("vector-prod-ii"), VectorProdLatency: c.Uint64("vector-prod-latency"),
		},
		CommonTimings: commonTimings(c),
	}
	log.Printf("%+v", cfg)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	genStart := time.Now()
	workload := attention.GenerateWorkload[float64](rng, cfg.AttentionConfig)
	log.Printf("workload generation took %s", time.Since(genStart))

	b := dflow.NewBuilder()
	b.Verbose = c.Bool("verbose")

	qkt := attention.BuildScoreProducer[float64](b, cfg.AttentionConfig,
		blocks.MatmulTiming{DotLatency: cfg.MatmulLatency, DotII: cfg.MatmulII, ResetTime: cfg.ResetTime},
		workload.QKFeedQ, workload.QKFeedK, cfg.ChannelDepth)

	vChan := dflow.Bounded[float64](b, "agnostic.v", cfg.ChannelDepth)
	vGen := blocks.NewGenerator[float64]("agnostic.v_gen", dflow.NewBroadcastSender(vChan), attention.SliceSource(workload.VFeedAgnostic))
	b.AddBlock(vGen)

	out := attention.BuildAgnostic[float64](b, cfg, qkt, vChan)

	return drain(b, c, out, workload.Reference)
}

// drain wires either a terminal Consumer sink or, under --validate, an
// ApproxChecker against ref, then runs the graph and prints the result.
func drain(b *dflow.Builder, c *cli.Context, out *dflow.Channel[float64], ref []float64) error {
	if c.Bool("validate") {
		want := dflow.Bounded[float64](b, "validate.want", len(ref)+1)
		wantGen := blocks.NewGenerator[float64]("validate.want_gen", dflow.NewBroadcastSender(want), attention.SliceSource(ref))
		b.AddBlock(wantGen)

		checker := blocks.NewApproxChecker[float64]("validate.checker", out, want, 0.01)
		b.AddBlock(checker)

		cycles, err := dflow.Run(b, runOptions(c))
		if err != nil {
			return cli.NewExitError(errors.Wrap(err, "validate").Error(), 1)
		}
		fmt.Printf("Elapsed Cycles: %d\n", cycles)
		return nil
	}

	sink := blocks.NewConsumer[float64]("sink", out, func(float64) {})
	b.AddBlock(sink)

	cycles, err := dflow.Run(b, runOptions(c))
	if err != nil {
		return errors.Wrap(err, "run")
	}
	fmt.Printf("Elapsed Cycles: %d\n", cycles)
	return nil
}
