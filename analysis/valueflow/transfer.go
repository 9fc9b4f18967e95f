package valueflow

import (
	"go/token"
	"go/types"
	"math"

	L "github.com/cs-au-dk/goval/analysis/lattice"

	"golang.org/x/tools/go/ssa"
)

// tracked holds for the types of values with a precise abstraction. Values of
// unsigned 64-bit types exceed int64 and are always ⊤. Slices are abstracted by
// their length.
func tracked(t types.Type) bool {
	switch t := t.Underlying().(type) {
	case *types.Basic:
		switch t.Kind() {
		case types.Uint, types.Uint64, types.Uintptr:
			return false
		}
		return t.Info()&(types.IsInteger|types.IsFloat|types.IsString|types.IsBoolean) != 0
	case *types.Slice:
		return true
	}
	return false
}

func isSlice(t types.Type) bool {
	_, ok := t.Underlying().(*types.Slice)
	return ok
}

func isString(t types.Type) bool {
	b, ok := t.Underlying().(*types.Basic)
	return ok && b.Info()&types.IsString != 0
}

func isByteSlice(t types.Type) bool {
	if s, ok := t.Underlying().(*types.Slice); ok {
		b, ok := s.Elem().Underlying().(*types.Basic)
		return ok && b.Kind() == types.Byte
	}
	return false
}

// convertTo passes a result through the conversion to its basic type, such that
// integer results wrap around.
func convertTo(v L.AbstractValue, t types.Type) L.AbstractValue {
	if b, ok := t.Underlying().(*types.Basic); ok {
		return L.Convert(v, b)
	}
	return v
}

// lengthsOf abstracts the lengths of slices created with the given lengths.
// Negative lengths panic, and are excluded.
func lengthsOf(n L.AbstractValue) L.AbstractValue {
	xs, ok := n.Ints()
	if !ok {
		if n.IsBot() {
			return bot
		}
		return top
	}

	lens := make([]int, 0, len(xs))
	for _, x := range xs {
		if x >= 0 && x <= math.MaxInt {
			lens = append(lens, int(x))
		}
	}
	return elFact.ArrayLenSet(lens...)
}

// evalConst abstracts a constant. Unsigned 64-bit constants are abstracted as
// well when they do not exceed int64.
func evalConst(c *ssa.Const) L.AbstractValue {
	switch t := c.Type().Underlying().(type) {
	case *types.Basic:
		if c.Value == nil || t.Info()&(types.IsInteger|types.IsFloat|types.IsString|types.IsBoolean) == 0 {
			return top
		}
		return L.Convert(elFact.FromConstant(c.Value), t)
	case *types.Slice:
		// The only slice constant is nil.
		return elFact.ArrayLenSet(0)
	}
	return top
}

// eval retrieves the abstract value of an operand in the given environment.
func (A *analysis) eval(v ssa.Value, env env) L.AbstractValue {
	if c, ok := v.(*ssa.Const); ok {
		return evalConst(c)
	}
	if !tracked(v.Type()) {
		return top
	}
	if av, ok := env.Get(v); ok {
		return av
	}
	return top
}

// transfer computes the abstract value defined by an instruction in block b.
func (A *analysis) transfer(v ssa.Value, env env, b *ssa.BasicBlock) L.AbstractValue {
	switch v := v.(type) {
	case *ssa.Phi:
		res := bot
		for i, pred := range b.Preds {
			if out, ok := A.edges[edge{pred, b}]; ok {
				res = res.Join(A.eval(v.Edges[i], out))
			}
		}
		return res
	case *ssa.BinOp:
		// Slices are only comparable to nil, which is not decided by their length.
		if isSlice(v.X.Type()) {
			return top
		}
		return convertTo(L.BinaryOp(v.Op, A.eval(v.X, env), A.eval(v.Y, env)), v.Type())
	case *ssa.UnOp:
		switch v.Op {
		case token.MUL, token.ARROW:
			return top
		}
		return convertTo(L.UnaryOp(v.Op, A.eval(v.X, env)), v.Type())
	case *ssa.Convert:
		switch t := v.Type().Underlying().(type) {
		case *types.Basic:
			if isSlice(v.X.Type()) {
				return top
			}
			return L.Convert(A.eval(v.X, env), t)
		case *types.Slice:
			if isString(v.X.Type()) && isByteSlice(t) {
				return lengthsOf(L.Len(A.eval(v.X, env)))
			}
		}
	case *ssa.ChangeType:
		return A.eval(v.X, env)
	case *ssa.MakeSlice:
		return lengthsOf(A.eval(v.Len, env))
	case *ssa.Call:
		if fun, ok := v.Call.Value.(*ssa.Builtin); ok && fun.Name() == "len" {
			arg := v.Call.Args[0]
			if isString(arg.Type()) || isSlice(arg.Type()) {
				return L.Len(A.eval(arg, env))
			}
		}
	}
	return top
}
