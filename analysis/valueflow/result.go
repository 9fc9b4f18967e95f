package valueflow

import (
	"fmt"
	"io"

	L "github.com/cs-au-dk/goval/analysis/lattice"
	"github.com/cs-au-dk/goval/utils"

	"github.com/fatih/color"
	"golang.org/x/tools/go/ssa"
)

var colorize = struct {
	Func  func(...interface{}) string
	Block func(...interface{}) string
	Dead  func(...interface{}) string
}{
	Func: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiYellow, color.Bold).SprintFunc())(is...)
	},
	Block: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgGreen).SprintFunc())(is...)
	},
	Dead: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgRed).SprintFunc())(is...)
	},
}

// Result is the outcome of the value-flow analysis of a function.
type Result struct {
	fun        *ssa.Function
	values     env
	entries    map[*ssa.BasicBlock]env
	iterations int
}

// Function returns the analyzed function.
func (r *Result) Function() *ssa.Function {
	return r.fun
}

// Iterations returns the number of block visits needed to reach the fixpoint.
func (r *Result) Iterations() int {
	return r.iterations
}

// Reachable holds if some execution of the function reaches block b.
func (r *Result) Reachable(b *ssa.BasicBlock) bool {
	_, ok := r.entries[b]
	return ok
}

// Value returns the abstract value of v at its definition. Values defined in
// unreachable blocks are ⊥. Values of other functions and values of
// types without a precise abstraction are ⊤.
func (r *Result) Value(v ssa.Value) L.AbstractValue {
	if c, ok := v.(*ssa.Const); ok {
		return evalConst(c)
	}
	if av, ok := r.values.Get(v); ok {
		return av
	}
	if instr, ok := v.(ssa.Instruction); ok &&
		instr.Parent() == r.fun && instr.Block() != nil && !r.Reachable(instr.Block()) {
		return bot
	}
	return top
}

// ValueAt returns the abstract value of v on entry to block b, refined by the
// branch conditions leading to b. Values defined in b are reported at their
// definition.
func (r *Result) ValueAt(v ssa.Value, b *ssa.BasicBlock) L.AbstractValue {
	in, ok := r.entries[b]
	if !ok {
		return bot
	}
	if _, isConst := v.(*ssa.Const); !isConst {
		if av, ok := in.Get(v); ok {
			return av
		}
	}
	return r.Value(v)
}

// ForEach calls do with every tracked value defined in a reachable block, in
// block and instruction order.
func (r *Result) ForEach(do func(v ssa.Value, av L.AbstractValue)) {
	for _, b := range r.fun.Blocks {
		if !r.Reachable(b) {
			continue
		}
		for _, instr := range b.Instrs {
			if v, ok := instr.(ssa.Value); ok && tracked(v.Type()) {
				do(v, r.Value(v))
			}
		}
	}
}

// Fprint writes the abstract values of the function in block and instruction order.
func (r *Result) Fprint(w io.Writer) {
	fmt.Fprintln(w, colorize.Func(r.fun.String()))
	for _, b := range r.fun.Blocks {
		if !r.Reachable(b) {
			fmt.Fprintf(w, "%s %s\n", colorize.Block(fmt.Sprintf("%d:", b.Index)), colorize.Dead("unreachable"))
			continue
		}

		fmt.Fprintf(w, "%s %s\n", colorize.Block(fmt.Sprintf("%d:", b.Index)), b.Comment)
		for _, instr := range b.Instrs {
			v, ok := instr.(ssa.Value)
			if !ok || !tracked(v.Type()) {
				continue
			}
			fmt.Fprintf(w, "\t%s = %s ↦ %s\n", v.Name(), instr, r.Value(v))
		}
	}
}
