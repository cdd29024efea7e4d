// Command sweepplot times the solver across a range of difficulties and
// renders the sweep as an HTML chart: solve time and winning nonce per
// difficulty. The memory is built once per run; only the tree and the
// search depend on the difficulty.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"itsuku/challenge"
	"itsuku/config"
	"itsuku/memory"
	"itsuku/merkle"
	"itsuku/proof"
)

type sweepRow struct {
	Difficulty uint64
	Nonce      uint64
	SolveMS    float64
}

func main() {
	minD := flag.Uint64("min-d", 4, "lowest difficulty in the sweep")
	maxD := flag.Uint64("max-d", 14, "highest difficulty in the sweep")
	chunkCount := flag.Uint64("c", 16, "chunk count (P)")
	chunkSize := flag.Uint64("s", 64, "chunk size in elements (l)")
	seed := flag.String("seed", "sweep", "challenge seed")
	workers := flag.Int("workers", runtime.GOMAXPROCS(0), "parallel workers")
	out := flag.String("o", "itsuku_sweep.html", "output HTML file")
	flag.Parse()

	if *maxD < *minD {
		log.Fatalf("max-d (%d) must be >= min-d (%d)", *maxD, *minD)
	}

	cfg := config.Default()
	cfg.ChunkCount = *chunkCount
	cfg.ChunkSize = *chunkSize
	cfg.DifficultyBits = *minD
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	id, err := challenge.FromSeed([]byte(*seed), challenge.DefaultSize)
	if err != nil {
		log.Fatalf("challenge: %v", err)
	}

	mem, err := memory.New(cfg)
	if err != nil {
		log.Fatalf("memory: %v", err)
	}
	ctx := context.Background()
	if err := mem.BuildParallel(ctx, id, *workers); err != nil {
		log.Fatalf("build memory: %v", err)
	}

	rows := make([]sweepRow, 0, *maxD-*minD+1)
	for d := *minD; d <= *maxD; d++ {
		cfg.DifficultyBits = d
		tree, err := merkle.Build(cfg, id, mem)
		if err != nil {
			log.Fatalf("tree (d=%d): %v", d, err)
		}
		start := time.Now()
		p := proof.SearchParallel(ctx, cfg, id, mem, tree, *workers)
		elapsed := time.Since(start)
		if p == nil {
			log.Fatalf("no solution at d=%d", d)
		}
		if err := p.Verify(); err != nil {
			log.Fatalf("verify (d=%d): %v", d, err)
		}
		rows = append(rows, sweepRow{Difficulty: d, Nonce: p.Nonce, SolveMS: float64(elapsed.Microseconds()) / 1000.0})
		fmt.Fprintf(os.Stderr, "d=%-3d nonce=%-10d solve=%v\n", d, p.Nonce, elapsed)
	}

	if err := renderChart(rows, *out); err != nil {
		log.Fatalf("render: %v", err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", *out)
}

func renderChart(rows []sweepRow, path string) error {
	xs := make([]string, 0, len(rows))
	timeItems := make([]opts.LineData, 0, len(rows))
	nonceItems := make([]opts.LineData, 0, len(rows))
	for _, r := range rows {
		xs = append(xs, fmt.Sprintf("%d", r.Difficulty))
		timeItems = append(timeItems, opts.LineData{Value: r.SolveMS})
		nonceItems = append(nonceItems, opts.LineData{Value: r.Nonce})
	}

	timeLine := charts.NewLine()
	timeLine.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Solve time vs difficulty",
			Subtitle: "milliseconds per proof, single challenge",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "difficulty bits"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "ms"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	timeLine.SetXAxis(xs).AddSeries("solve time", timeItems)

	nonceLine := charts.NewLine()
	nonceLine.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Winning nonce vs difficulty",
			Subtitle: "nonces tried grow ~2^d",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "difficulty bits"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "nonce"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	nonceLine.SetXAxis(xs).AddSeries("winning nonce", nonceItems)

	page := components.NewPage().SetPageTitle("Itsuku difficulty sweep")
	page.AddCharts(timeLine, nonceLine)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return page.Render(f)
}
