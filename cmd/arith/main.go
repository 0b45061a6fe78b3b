// arith prints the operations catalog and the type promotion tables of the arith library, and
// runs micro-benchmarks of elementwise operations on a backend.
//
// Examples:
//
//	arith -catalog
//	arith -promotion=add
//	arith -promotion=UnaryTranscendental -signed_wins_ties
//	arith -bench -bench_ops=add,sqrt,lt -backend="go:parallelism=4"
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/gomlx/arith/backends"
	_ "github.com/gomlx/arith/backends/default"
	"github.com/gomlx/arith/pkg/arith"
	"github.com/gomlx/arith/pkg/core/dtypes"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"
)

var (
	flagCatalog   = flag.Bool("catalog", false, "Lists all operations: arity, class and operand domain.")
	flagPromotion = flag.String("promotion", "",
		"Prints the promotion table (result and compute dtypes) of the given operation name (e.g. \"add\") "+
			"or operation class (e.g. \"Comparison\", using its first operation) for all operand dtypes.")
	flagSignedWinsTies = flag.Bool("signed_wins_ties", false,
		"Use a promotion lattice where the signed integer is the join of two integers of the same width.")
	flagBench    = flag.Bool("bench", false, "Runs micro-benchmarks of the operations in -bench_ops.")
	flagBenchOps = flag.String("bench_ops", "add,mul,lt,sqrt,exp,clamp",
		"Comma-separated list of operations to benchmark with -bench.")
	flagBenchMaxSize = flag.Int("bench_max_size", 1<<22, "Largest number of elements benchmarked.")
	flagBenchDType   = flag.String("bench_dtype", "float32", "DType of the operands in the benchmarks.")
	flagBackend      = flag.String("backend", "",
		fmt.Sprintf("Backend configuration \"<name>:<config>\". If empty it uses $%s or the default backend.",
			backends.ConfigEnvVar))
)

var titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 4, 1, 4)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if !*flagCatalog && *flagPromotion == "" && !*flagBench {
		klog.Errorf("Nothing to do: use -catalog, -promotion=<op> or -bench. See 'arith -help'.")
		os.Exit(1)
	}

	lattice := dtypes.Lattice{SignedWinsTies: *flagSignedWinsTies}
	if *flagCatalog {
		printCatalog()
	}
	if *flagPromotion != "" {
		if err := printPromotion(*flagPromotion, lattice); err != nil {
			klog.Errorf("%+v", err)
			os.Exit(1)
		}
	}
	if *flagBench {
		var backend backends.Backend
		if *flagBackend != "" {
			backend = must.M1(backends.NewWithConfig(*flagBackend))
		} else {
			backend = must.M1(backends.New())
		}
		defer backend.Finalize()
		engine := must.M1(arith.New(arith.WithBackend(backend), arith.WithLattice(lattice)))
		dtype := must.M1(dtypes.FromName(*flagBenchDType))
		if err := runBenchmarks(engine, splitList(*flagBenchOps), dtype, *flagBenchMaxSize); err != nil {
			klog.Errorf("%+v", err)
			os.Exit(1)
		}
	}
}
