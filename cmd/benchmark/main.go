package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/delaneyj/lazysignals/derive"
	"github.com/delaneyj/lazysignals/reactive"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

const (
	itersKey   = "iters"
	profileKey = "profile"
	quietKey   = "quiet"
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Propagation benchmarks for lazysignals",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  itersKey,
				Usage: "Timed writes per graph shape",
				Value: 100,
			},
			&cli.StringFlag{
				Name:  profileKey,
				Usage: "Write a CPU profile to this file, empty to disable",
				Value: "default.pgo",
			},
			&cli.BoolFlag{
				Name:  quietKey,
				Usage: "Skip rendering the result tables",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

var (
	ww = []int{1, 10, 100, 1_000}
	hh = []int{1, 10, 100, 1_000}
)

func addOne(oldValue int) int {
	return oldValue + 1
}

func pass(int) error {
	return nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	if path := cmd.String(profileKey); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	iters := int(cmd.Uint(itersKey))
	if iters < 1 {
		return fmt.Errorf("%s must be at least 1", itersKey)
	}
	shouldRender := !cmd.Bool(quietKey)

	log.Printf("warming up")

	benchmarks := []func(iters int, shouldRender bool){
		benchmarkPropagate,
		benchmarkBatchedFanIn,
		benchmarkMountChurn,
	}
	for _, b := range benchmarks {
		if err := ctx.Err(); err != nil {
			return err
		}
		b(iters, shouldRender)
	}
	return nil
}

func newSystem() *reactive.ReactiveSystem {
	return reactive.CreateReactiveSystem(func(from reactive.SignalAware, err error) {
		log.Panic(err)
	})
}

func newTable(title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetTitle(title)
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})
	return tbl
}

func appendCalc(tbl table.Writer, name string, tach *tachymeter.Tachymeter) {
	calc := tach.Calc()
	tbl.AppendRow(table.Row{
		name,
		calc.Time.Avg,
		calc.Time.Min,
		calc.Time.P75,
		calc.Time.P99,
		calc.Time.Max,
	})
}

// w chains of h computeds hanging off one signal, each chain watched by an effect.
func benchmarkPropagate(iters int, shouldRender bool) {
	tbl := newTable("Propagate")

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			rs := newSystem()
			src := reactive.Signal(rs, 1)
			for i := 0; i < w; i++ {
				var last reactive.Readable[int] = src
				for j := 0; j < h; j++ {
					last = derive.Derive1(rs, last, addOne)
				}
				derive.Watch1(rs, last, pass)
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				src.SetValue(src.Peek() + 1)
				tach.AddTime(time.Since(start))
			}

			appendCalc(tbl, fmt.Sprintf("propagate: %d * %d", w, h), tach)
		}
	}

	if shouldRender {
		tbl.Render()
	}
}

// w signals summed by one computed, all written in a single batch.
func benchmarkBatchedFanIn(iters int, shouldRender bool) {
	tbl := newTable("Batched fan-in")

	for _, w := range ww {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		rs := newSystem()
		sources := make([]*reactive.WriteableSignal[int], w)
		for i := range sources {
			sources[i] = reactive.Signal(rs, i)
		}
		sum := reactive.Computed(rs, func(int) int {
			total := 0
			for _, s := range sources {
				total += s.Value()
			}
			return total
		})
		runs := 0
		reactive.Effect(rs, func() error {
			sum.Value()
			runs++
			return nil
		})

		for i := 0; i < iters; i++ {
			start := time.Now()
			rs.Batch(func() {
				for _, s := range sources {
					s.Update(addOne)
				}
			})
			tach.AddTime(time.Since(start))
		}
		if runs != iters+1 {
			log.Panicf("fan-in %d: effect ran %d times, expected %d", w, runs, iters+1)
		}

		appendCalc(tbl, fmt.Sprintf("fan-in: %d", w), tach)
	}

	if shouldRender {
		tbl.Render()
	}
}

// a chain of h computeds with a mount listener at its root, observed and
// released once per iteration.
func benchmarkMountChurn(iters int, shouldRender bool) {
	tbl := newTable("Mount churn")

	for _, h := range hh {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		rs := newSystem()
		src := reactive.Signal(rs, 1)
		mounts := 0
		reactive.OnMount(src, func() func() {
			mounts++
			return nil
		})

		var last reactive.Readable[int] = src
		for j := 0; j < h; j++ {
			last = derive.Derive1(rs, last, addOne)
		}

		for i := 0; i < iters; i++ {
			start := time.Now()
			stop := derive.Watch1(rs, last, pass)
			stop()
			tach.AddTime(time.Since(start))
		}
		if mounts != iters {
			log.Panicf("mount churn %d: mounted %d times, expected %d", h, mounts, iters)
		}

		appendCalc(tbl, fmt.Sprintf("mount churn: %d", h), tach)
	}

	if shouldRender {
		tbl.Render()
	}
}
