package valueflow

import (
	"go/token"
	"go/types"

	L "github.com/cs-au-dk/goval/analysis/lattice"

	"golang.org/x/tools/go/ssa"
)

// refinable holds for operand types whose comparisons may refine their values.
// Negating a floating point comparison is unsound in the presence of NaN.
func refinable(t types.Type) bool {
	b, ok := t.Underlying().(*types.Basic)
	return ok && tracked(b) && b.Info()&types.IsFloat == 0
}

// negate computes the comparison that holds when `x op y` does not.
func negate(op token.Token) token.Token {
	switch op {
	case token.EQL:
		return token.NEQ
	case token.NEQ:
		return token.EQL
	case token.LSS:
		return token.GEQ
	case token.LEQ:
		return token.GTR
	case token.GTR:
		return token.LEQ
	case token.GEQ:
		return token.LSS
	}
	return token.ILLEGAL
}

// mirror computes the comparison `y op' x` equivalent to `x op y`.
func mirror(op token.Token) token.Token {
	switch op {
	case token.LSS:
		return token.GTR
	case token.LEQ:
		return token.GEQ
	case token.GTR:
		return token.LSS
	case token.GEQ:
		return token.LEQ
	}
	return op
}

// assume refines an environment under the assumption that cond evaluates to
// branch. The boolean is false if the assumption cannot hold.
func (A *analysis) assume(env env, cond ssa.Value, branch bool) (env, bool) {
	c := A.eval(cond, env)
	if c.IsBot() {
		return env, false
	}
	if bs, ok := c.Booleans(); ok {
		found := false
		for _, b := range bs {
			found = found || b == branch
		}
		if !found {
			return env, false
		}
	}

	if _, ok := cond.(*ssa.Const); !ok {
		env = env.Set(cond, elFact.BooleanSet(branch))
	}

	switch cond := cond.(type) {
	case *ssa.UnOp:
		if cond.Op == token.NOT {
			return A.assume(env, cond.X, !branch)
		}
	case *ssa.BinOp:
		op := cond.Op
		if !branch {
			op = negate(op)
		}
		if op == token.ILLEGAL || !refinable(cond.X.Type()) {
			return env, true
		}

		var ok bool
		if env, ok = A.refine(env, cond.X, op, cond.Y); !ok {
			return env, false
		}
		return A.refine(env, cond.Y, mirror(op), cond.X)
	}
	return env, true
}

// refine narrows the value of x in env, given that `x op y` holds.
func (A *analysis) refine(env env, x ssa.Value, op token.Token, y ssa.Value) (env, bool) {
	res := L.Refine(op, A.eval(x, env), A.eval(y, env))
	if res.IsBot() {
		return env, false
	}
	if _, ok := x.(*ssa.Const); ok {
		return env, true
	}
	return env.Set(x, res), true
}
