package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/gomlx/arith/backends"
	"github.com/gomlx/arith/backends/shapeinference"
	"github.com/gomlx/arith/pkg/core/dtypes"
	"github.com/gomlx/arith/pkg/support/sets"
	"github.com/pkg/errors"
)

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)
	oddRowStyle = lipgloss.NewStyle().Faint(false).
			PaddingLeft(1).PaddingRight(1)
	evenRowStyle = lipgloss.NewStyle().Faint(true).
			PaddingLeft(1).PaddingRight(1)
	failedCellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "9", Dark: "9"}).
			PaddingLeft(1).PaddingRight(1)
)

// failedCell is the content of cells of dtype combinations not accepted by an operation.
const failedCell = "✗"

// tableWithFailures is a lipgloss table that highlights the cells holding failedCell.
type tableWithFailures struct {
	Table  *lgtable.Table
	count  int
	failed map[[2]int]bool
}

// Row appends a row to the table.
func (t *tableWithFailures) Row(row ...string) {
	for col, cell := range row {
		if cell == failedCell {
			t.failed[[2]int{t.count, col}] = true
		}
	}
	t.Table.Row(row...)
	t.count++
}

// newPlainTable returns a table with the given alignments per column: the last one is used for the
// remaining columns.
func newPlainTable(alignments ...lipgloss.Position) *tableWithFailures {
	t := &tableWithFailures{failed: make(map[[2]int]bool)}
	t.Table = lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) (s lipgloss.Style) {
			switch {
			case row < 0:
				return headerRowStyle
			case t.failed[[2]int{row, col}]:
				s = failedCellStyle
			case row%2 == 0:
				s = oddRowStyle
			default:
				s = evenRowStyle
			}
			alignment := lipgloss.Left
			if col < len(alignments) {
				alignment = alignments[col]
			} else if len(alignments) > 0 {
				alignment = alignments[len(alignments)-1]
			}
			return s.Align(alignment)
		})
	return t
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

// printCatalog prints all operations of the catalog.
func printCatalog() {
	fmt.Println(titleStyle.Render("Operations"))
	t := newPlainTable(lipgloss.Left, lipgloss.Left, lipgloss.Center, lipgloss.Left, lipgloss.Left, lipgloss.Center)
	t.Table.Headers("Name", "OpType", "Arity", "Class", "Domain", "Commutative", "Bool result")
	for _, entry := range shapeinference.Entries() {
		t.Row(entry.Name, entry.Op.String(), fmt.Sprint(entry.Arity), entry.Class.String(), entry.Domain.String(),
			yesNo(shapeinference.CommutativeOperations.Has(entry.Op)),
			yesNo(shapeinference.BooleanResultOperations.Has(entry.Op)))
	}
	fmt.Println(t.Table.Render())
	fmt.Printf("Complex to real: %s\n", strings.Join(opNames(shapeinference.ComplexToRealOperations), ", "))
}

// opNames returns the short names of the operations in the set, in OpType order.
func opNames(ops sets.Set[backends.OpType]) []string {
	sorted := sets.Sorted(ops)
	names := make([]string, 0, len(sorted))
	for _, op := range sorted {
		if entry, found := shapeinference.Lookup(op); found {
			names = append(names, entry.Name)
		}
	}
	return names
}

// findEntry by operation name, OpType name or class name. For a class, the first operation of the class is used.
func findEntry(name string) (shapeinference.Entry, error) {
	if entry, found := shapeinference.LookupName(name); found {
		return entry, nil
	}
	if op, err := backends.OpTypeString(name); err == nil {
		if entry, found := shapeinference.Lookup(op); found {
			return entry, nil
		}
	}
	if class, err := backends.OpClassString(name); err == nil {
		for _, entry := range shapeinference.Entries() {
			if entry.Class == class {
				return entry, nil
			}
		}
	}
	return shapeinference.Entry{}, errors.Errorf("unknown operation or operation class %q", name)
}

// resolveCell returns the table cell for the operation on the given operand dtypes: the result dtype,
// followed by the compute dtype if different.
func resolveCell(entry shapeinference.Entry, lattice dtypes.Lattice, operands ...dtypes.DType) string {
	if shapeinference.CheckDomain(entry.Op, operands...) != nil {
		return failedCell
	}
	result, compute, err := shapeinference.ResolveDTypes(lattice, entry.Op, operands...)
	if err != nil {
		return failedCell
	}
	if compute != result {
		return fmt.Sprintf("%s (%s)", result, compute)
	}
	return result.String()
}

// printPromotion prints the table of result dtypes of an operation for all combinations of operand dtypes.
//
// Ternary operations (clamp) are printed with the same dtype for the lower and upper bounds.
func printPromotion(name string, lattice dtypes.Lattice) error {
	entry, err := findEntry(name)
	if err != nil {
		return err
	}
	all := dtypes.Values()
	title := fmt.Sprintf("Promotion for %q (%s): result (compute) dtypes", entry.Name, entry.Class)
	fmt.Println(titleStyle.Render(title))

	switch entry.Arity {
	case 1:
		t := newPlainTable(lipgloss.Right, lipgloss.Left)
		t.Table.Headers("Operand", "Result")
		for _, dtype := range all {
			if entry.Op == backends.OpTypeConvertDType {
				t.Row(dtype.String(), "any target")
				continue
			}
			t.Row(dtype.String(), resolveCell(entry, lattice, dtype))
		}
		fmt.Println(t.Table.Render())

	default:
		t := newPlainTable(lipgloss.Right, lipgloss.Center)
		headers := []string{"lhs \\ rhs"}
		for _, dtype := range all {
			headers = append(headers, dtype.String())
		}
		t.Table.Headers(headers...)
		for _, lhs := range all {
			row := []string{lhs.String()}
			for _, rhs := range all {
				operands := []dtypes.DType{lhs, rhs}
				if entry.Arity == 3 {
					operands = append(operands, rhs)
				}
				row = append(row, resolveCell(entry, lattice, operands...))
			}
			t.Row(row...)
		}
		fmt.Println(t.Table.Render())
	}
	fmt.Printf("%s: not accepted (domain or promotion failure)\n", failedCell)
	return nil
}

// splitList splits a comma-separated list, trimming spaces and dropping empty elements.
func splitList(list string) []string {
	var parts []string
	for _, part := range strings.Split(list, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
