// Package valueflow propagates abstract values through the SSA form of a function.
// The analysis is intraprocedural: parameters, call results and values loaded from
// memory are ⊤, and branch conditions refine the values flowing along each edge.
package valueflow

import (
	L "github.com/cs-au-dk/goval/analysis/lattice"
	"github.com/cs-au-dk/goval/utils"
	"github.com/cs-au-dk/goval/utils/worklist"

	log "github.com/sirupsen/logrus"
	"golang.org/x/tools/go/ssa"
)

var (
	elFact = L.Create().Element()
	top    = elFact.Unknown()
	bot    = elFact.Bottom()
)

// edge is a control-flow edge between two basic blocks.
type edge struct {
	from, to *ssa.BasicBlock
}

// outgoing is the environment flowing along an edge.
type outgoing struct {
	to  *ssa.BasicBlock
	env env
}

type analysis struct {
	cfg Config
	fun *ssa.Function

	// values holds the abstract value of every tracked SSA value at its definition.
	values env
	// entries holds the environment on entry to every reachable block.
	entries map[*ssa.BasicBlock]env
	// edges holds the environment flowing along every executable edge.
	edges  map[edge]env
	visits map[*ssa.BasicBlock]int
}

// Analyze computes the abstract values of the SSA values of a function as a
// forward fixpoint over its basic blocks.
func Analyze(fun *ssa.Function, cfg Config) *Result {
	if cfg.WideningThreshold <= 0 {
		cfg.WideningThreshold = utils.DefaultWideningThreshold
	}

	A := &analysis{
		cfg:     cfg,
		fun:     fun,
		values:  emptyEnv(),
		entries: make(map[*ssa.BasicBlock]env),
		edges:   make(map[edge]env),
		visits:  make(map[*ssa.BasicBlock]int),
	}

	iterations := 0
	// Functions without blocks are external.
	if len(fun.Blocks) > 0 {
		start := []*ssa.BasicBlock{fun.Blocks[0]}
		if fun.Recover != nil {
			start = append(start, fun.Recover)
		}

		worklist.StartV(start, func(b *ssa.BasicBlock, add func(*ssa.BasicBlock)) {
			iterations++
			for _, succ := range A.visit(b) {
				add(succ)
			}
		})
	}

	log.WithFields(log.Fields{
		"function":   fun.String(),
		"iterations": iterations,
		"reachable":  len(A.entries),
	}).Debug("Value-flow analysis done")

	return &Result{
		fun:        fun,
		values:     A.values,
		entries:    A.entries,
		iterations: iterations,
	}
}

// isLoopHeader holds if b is the target of a back edge.
func isLoopHeader(b *ssa.BasicBlock) bool {
	for _, pred := range b.Preds {
		if b.Dominates(pred) {
			return true
		}
	}
	return false
}

// incoming computes the entry environment of a block. The boolean is false
// when no executable edge leads to the block.
func (A *analysis) incoming(b *ssa.BasicBlock) (env, bool) {
	if b.Index == 0 || b == A.fun.Recover {
		return emptyEnv(), true
	}

	var in env
	for _, pred := range b.Preds {
		out, ok := A.edges[edge{pred, b}]
		switch {
		case !ok:
		case in == nil:
			in = out
		default:
			in = joinEnv(in, out)
		}
	}
	return in, in != nil
}

// visit applies the transfer functions of a block, and returns the successors
// whose incoming environment changed.
func (A *analysis) visit(b *ssa.BasicBlock) (succs []*ssa.BasicBlock) {
	in, reachable := A.incoming(b)
	if !reachable {
		return nil
	}

	A.visits[b]++
	// Blocks of irreducible loops are widened eventually.
	widen := (isLoopHeader(b) && A.visits[b] > A.cfg.WideningThreshold) ||
		A.visits[b] > 2*A.cfg.WideningThreshold
	if old, ok := A.entries[b]; ok && widen {
		log.Debugf("Widening block %d of %s", b.Index, A.fun)
		in = widenEnv(old, in)
	}
	A.entries[b] = in

	out := in
	for _, instr := range b.Instrs {
		v, ok := instr.(ssa.Value)
		if !ok || !tracked(v.Type()) {
			continue
		}

		res := A.transfer(v, out, b)
		if old, found := A.values.Get(v); found {
			if widen {
				res = L.Widen(old, res)
			} else {
				res = old.Join(res)
			}
		}

		A.values = A.values.Set(v, res)
		out = out.Set(v, res)
	}

	for _, o := range A.branch(b, out) {
		key := edge{b, o.to}
		if old, ok := A.edges[key]; ok && envEq(old, o.env) {
			continue
		}
		A.edges[key] = o.env
		succs = append(succs, o.to)
	}
	return
}

// branch computes the environments flowing to the feasible successors of a block.
func (A *analysis) branch(b *ssa.BasicBlock, out env) (res []outgoing) {
	ifInstr, ok := b.Instrs[len(b.Instrs)-1].(*ssa.If)
	if !ok {
		for _, succ := range b.Succs {
			res = append(res, outgoing{succ, out})
		}
		return
	}

	for i, succ := range b.Succs {
		// The first successor is taken when the condition holds.
		if refined, feasible := A.assume(out, ifInstr.Cond, i == 0); feasible {
			res = append(res, outgoing{succ, refined})
		} else {
			log.Debugf("Pruning edge %d -> %d of %s", b.Index, succ.Index, A.fun)
		}
	}

	if len(res) == 2 && res[0].to == res[1].to {
		res = []outgoing{{res[0].to, joinEnv(res[0].env, res[1].env)}}
	}
	return
}
