package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/arith/backends"
	"github.com/gomlx/arith/pkg/arith"
	"github.com/gomlx/arith/pkg/core/arrays"
	"github.com/gomlx/arith/pkg/core/dtypes"
	"github.com/muesli/termenv"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"
)

const (
	// benchMinSize is the smallest number of elements benchmarked. Sizes grow 16x each step.
	benchMinSize = 1024

	// benchMinDuration each benchmark is repeated until it runs for at least this long.
	benchMinDuration = 200 * time.Millisecond
)

// benchSizes returns the number of elements benchmarked, up to maxSize.
func benchSizes(maxSize int) []int {
	var sizes []int
	for size := benchMinSize; size <= maxSize; size *= 16 {
		sizes = append(sizes, size)
	}
	if len(sizes) == 0 {
		sizes = append(sizes, maxSize)
	}
	return sizes
}

// benchOperands creates arity arrays of the given size and dtype, with values in (0, 1].
func benchOperands(engine *arith.Engine, arity, size int, dtype dtypes.DType) ([]*arrays.Array, error) {
	operands := make([]*arrays.Array, 0, arity)
	release := func() {
		for _, operand := range operands {
			operand.Release()
		}
	}
	for ii := range arity {
		values := make([]float64, size)
		for jj := range values {
			values[jj] = float64((jj+ii)%255+1) / 255
		}
		x, err := arrays.FromFlatData(engine.Backend(), values, size)
		if err != nil {
			release()
			return nil, err
		}
		converted, err := engine.Cast(x, dtype)
		x.Release()
		if err != nil {
			release()
			return nil, err
		}
		operands = append(operands, converted)
	}
	return operands, nil
}

// benchOp runs the operation repeatedly, and returns the average time per execution.
func benchOp(engine *arith.Engine, op backends.OpType, operands []*arrays.Array) (time.Duration, error) {
	var count int
	start := time.Now()
	for count < 3 || time.Since(start) < benchMinDuration {
		output, err := engine.Dispatch(op, false, operands...)
		if err != nil {
			return 0, err
		}
		output.Release()
		count++
	}
	return time.Since(start) / time.Duration(count), nil
}

// runBenchmarks measures the throughput of each operation over growing sizes, and prints a table with the results.
func runBenchmarks(engine *arith.Engine, opNames []string, dtype dtypes.DType, maxSize int) error {
	if len(opNames) == 0 {
		return errors.New("no operations to benchmark, see -bench_ops")
	}
	sizes := benchSizes(maxSize)
	bar := progressbar.NewOptions(len(opNames)*len(sizes),
		progressbar.OptionSetDescription(fmt.Sprintf("Benchmarking on %s: ", engine.Backend().Name())),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("benchmarks"),
		progressbar.OptionSetTheme(progressbar.ThemeUnicode),
		progressbar.OptionSetWriter(os.Stdout),
	)

	t := newPlainTable(lipgloss.Left, lipgloss.Right)
	headers := []string{"Op"}
	for _, size := range sizes {
		headers = append(headers, fmt.Sprintf("%s elems (%s)", humanize.Comma(int64(size)),
			humanize.Bytes(uint64(size)*uint64(dtype.Memory()))))
	}
	t.Table.Headers(headers...)

	for _, name := range opNames {
		entry, err := findEntry(name)
		if err != nil {
			return err
		}
		row := []string{entry.Name}
		for _, size := range sizes {
			row = append(row, benchCell(engine, entry.Op, entry.Arity, size, dtype))
			_ = bar.Add(1)
		}
		t.Row(row...)
	}
	_ = bar.Finish()
	termenv.NewOutput(os.Stdout).ClearLines(1)

	fmt.Println(titleStyle.Render(fmt.Sprintf("Throughput (%s operands, backend %s)", dtype, engine.Backend().Description())))
	fmt.Println(t.Table.Render())
	return nil
}

// benchCell runs one benchmark and returns its table cell: elements per second.
func benchCell(engine *arith.Engine, op backends.OpType, arity, size int, dtype dtypes.DType) string {
	operands, err := benchOperands(engine, arity, size, dtype)
	if err != nil {
		klog.Warningf("failed to create operands for %s: %v", op, err)
		return failedCell
	}
	defer func() {
		for _, operand := range operands {
			operand.Release()
		}
	}()
	elapsed, err := benchOp(engine, op, operands)
	if err != nil {
		klog.V(1).Infof("benchmark of %s on %s failed: %v", op, dtype, err)
		return failedCell
	}
	throughput := float64(size) / elapsed.Seconds()
	return humanize.SIWithDigits(throughput, 1, "elem/s")
}
