// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// looptrace builds one of the example workloads, linearizes it, and reports its trace, the
// groups of repeating instructions found by the compiler and the kernels emitted for them.
// It then executes the trace on the selected backend.
//
// E.g.:
//
//	looptrace -workload=conv -size=8 -groups -kernels -backend=kernels:parallelism=4
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/looptrace/backends"
	_ "github.com/gomlx/looptrace/backends/default"
	"github.com/gomlx/looptrace/backends/kernels"
	"github.com/gomlx/looptrace/internal/workloads"
	"github.com/gomlx/looptrace/pkg/core/compiler"
	"github.com/gomlx/looptrace/pkg/core/graph"
	"github.com/janpfeifer/must"
	"github.com/muesli/termenv"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"
)

var (
	flagWorkload = flag.String("workload", "conv",
		fmt.Sprintf("Workload to build, one of %q.", workloads.Names()))
	flagSize = flag.Int("size", 4, "Size of the workload: output side for conv and dense, "+
		"number of random operations for random.")
	flagSeed    = flag.Uint64("seed", 42, "Seed used to fill the inputs and to generate random workloads.")
	flagBackend = flag.String("backend", "", fmt.Sprintf("Backend configuration, formatted as "+
		"\"<backend_name>:<options>\". If empty, $%s or the first registered backend is used.", backends.ConfigEnvVar))

	flagTrace   = flag.Bool("trace", false, "List the linearized instructions.")
	flagGroups  = flag.Bool("groups", false, "List the groups of repeating instructions and their dim-info.")
	flagKernels = flag.Bool("kernels", false, "Print the source of the kernel emitted for each group.")
	flagRepeat  = flag.Int("repeat", 0, "If > 0, rebuild and execute the workload this many times, "+
		"and report the throughput.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if len(flag.Args()) > 0 {
		klog.Errorf("Unexpected arguments %q. See 'looptrace -help'.", flag.Args())
		os.Exit(1)
	}

	var backend backends.Backend
	if *flagBackend != "" {
		backend = must.M1(backends.NewWithConfig(*flagBackend))
	} else {
		backend = must.M1(backends.New())
	}
	defer backend.Finalize()

	g := graph.New(backend)
	w := build(g)
	trace := g.LinearizeAll()
	groups := must.M1(compiler.CompileAll(trace))

	fmt.Println(titleStyle.Render("Summary"))
	fmt.Println(summaryTable(w, backend, trace, groups).Render())
	if *flagTrace {
		fmt.Println(titleStyle.Render("Trace"))
		fmt.Println(traceTable(trace).Render())
	}
	if *flagGroups {
		fmt.Println(titleStyle.Render("Groups"))
		fmt.Println(groupsTable(groups).Render())
	}
	if *flagKernels {
		if backend.Name() != kernels.BackendName {
			klog.Warningf("Printing kernels emitted for backend %q, but they are only launched by backend %q",
				backend.Name(), kernels.BackendName)
		}
		printKernels(groups)
	}

	start := time.Now()
	must.M(backend.Execute(trace))
	elapsed := time.Since(start)
	fmt.Println(titleStyle.Render("Results"))
	fmt.Println(resultsTable(w, backend, elapsed).Render())

	if *flagRepeat > 0 {
		benchmark(backend, len(trace))
	}
}

// build the selected workload on g.
func build(g *graph.Graph) *workloads.Workload {
	rng := rand.New(rand.NewPCG(*flagSeed, *flagSeed))
	w, err := workloads.Build(*flagWorkload, g, rng, *flagSize)
	if err != nil {
		klog.Fatalf("Failed to build workload: %+v", err)
	}
	return w
}

// checksum returns the sum of the elements of the outputs of the workload, and how many of
// them are not finite.
func checksum(w *workloads.Workload) (sum float64, numNonFinite int) {
	for _, b := range w.Outputs {
		for _, v := range b.Values() {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				numNonFinite++
				continue
			}
			sum += v
		}
	}
	return
}

func printKernels(groups []compiler.Group) {
	fmt.Println(titleStyle.Render("Kernels"))
	for ii := range groups {
		group := &groups[ii]
		k, err := kernels.Emit(group, fmt.Sprintf("group_%d", ii))
		if err != nil {
			fmt.Printf("// group_%d [%d:%d]: not emitted, interpreted instead: %v\n\n", ii, group.Start, group.End(), err)
			continue
		}
		fmt.Println(k.Source)
	}
}

// benchmark rebuilds the workload and executes it *flagRepeat times, with a progress bar.
// Only the execution is timed.
func benchmark(backend backends.Backend, traceLen int) {
	fmt.Println(titleStyle.Render("Benchmark"))
	out := termenv.NewOutput(os.Stdout)
	out.HideCursor()
	defer out.ShowCursor()

	bar := progressbar.NewOptions(*flagRepeat,
		progressbar.OptionSetDescription(fmt.Sprintf("[bold]%s on %s:[reset] ", *flagWorkload, backend.Name())),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("runs"),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
		progressbar.OptionSetWriter(os.Stdout),
	)
	var elapsed time.Duration
	for range *flagRepeat {
		g := graph.New(backend)
		build(g)
		trace := g.LinearizeAll()
		start := time.Now()
		must.M(backend.Execute(trace))
		elapsed += time.Since(start)
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	fmt.Println()

	numInstructions := int64(traceLen) * int64(*flagRepeat)
	perSecond := float64(numInstructions) / elapsed.Seconds()
	table := newPlainTable(false)
	table.Row("runs", humanize.Comma(int64(*flagRepeat)))
	table.Row("instructions", humanize.Comma(numInstructions))
	table.Row("execution time", elapsed.String())
	table.Row("instructions/s", humanize.SIWithDigits(perSecond, 2, ""))
	fmt.Println(table.Render())
}
