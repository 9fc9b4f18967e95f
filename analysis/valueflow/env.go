package valueflow

import (
	L "github.com/cs-au-dk/goval/analysis/lattice"
	"github.com/cs-au-dk/goval/utils"

	"github.com/benbjohnson/immutable"
	"golang.org/x/tools/go/ssa"
)

// env maps SSA values to their abstract values at a program point.
// Values missing from an environment are ⊤.
type env = *immutable.Map[ssa.Value, L.AbstractValue]

func emptyEnv() env {
	return utils.NewPointerMap[ssa.Value, L.AbstractValue]()
}

func envEq(a, b env) bool {
	if a.Len() != b.Len() {
		return false
	}

	for iter := a.Iterator(); !iter.Done(); {
		k, v, _ := iter.Next()
		if w, ok := b.Get(k); !ok || !v.Eq(w) {
			return false
		}
	}
	return true
}

// joinEnv computes the point-wise join of two environments. A value missing
// from either side is ⊤, so it is left out of the result.
func joinEnv(a, b env) env {
	res := a
	for iter := a.Iterator(); !iter.Done(); {
		k, v, _ := iter.Next()
		if w, ok := b.Get(k); ok {
			res = res.Set(k, v.Join(w))
		} else {
			res = res.Delete(k)
		}
	}
	return res
}

// widenEnv widens every value of next with its counterpart in old.
func widenEnv(old, next env) env {
	res := next
	for iter := next.Iterator(); !iter.Done(); {
		k, v, _ := iter.Next()
		if o, ok := old.Get(k); ok {
			res = res.Set(k, L.Widen(o, v))
		}
	}
	return res
}
