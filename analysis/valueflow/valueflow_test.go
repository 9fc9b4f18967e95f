package valueflow

import (
	"bytes"
	"math"
	"strings"
	"testing"

	L "github.com/cs-au-dk/goval/analysis/lattice"
	"github.com/cs-au-dk/goval/testutil"

	"github.com/fatih/color"
	"golang.org/x/tools/go/ssa"
)

const source = `package main

func phi(b bool) int {
	x := 3
	if b {
		x = 5
	}
	return x * 2
}

func loop() int {
	i := 0
	for i < 10 {
		i++
	}
	return i
}

func longLoop() int {
	i := 0
	for i < 100 {
		i++
	}
	return i
}

func dead() int {
	x := 4
	if x > 5 {
		y := x * 3
		return y
	}
	return x
}

func clamp(n int) int {
	if n < 0 {
		n = 0
	}
	if n > 100 {
		n = 100
	}
	return n
}

func not(n int) int {
	if !(n >= 10) {
		return 0
	}
	return n
}

func greet(b bool) int {
	s := "hi"
	if b {
		s = "hello"
	}
	return len(s + "!")
}

func slices(b bool) int {
	n := 2
	if b {
		n = 4
	}
	s := make([]int, n)
	return len(s)
}

func wrap(b bool) int8 {
	x := 127
	if b {
		x = 100
	}
	return int8(x) + 1
}

func half(b bool) float64 {
	x := 3
	if b {
		x = 5
	}
	return float64(x) / 2
}

func unsigned(x uint64) uint64 {
	return x - 1
}

func guard(p int, b bool) int {
	if b {
		if p < 0 {
			return 0
		}
	}
	if p < 0 {
		return 1
	}
	return 2
}

func main() {}
`

func blockByComment(t *testing.T, fun *ssa.Function, comment string) *ssa.BasicBlock {
	t.Helper()

	for _, b := range fun.Blocks {
		if b.Comment == comment {
			return b
		}
	}
	t.Fatalf("%s has no %s block", fun, comment)
	return nil
}

func TestReturnedValues(t *testing.T) {
	loadRes := testutil.LoadSource(t, source)

	ints := L.Elements().IntSet
	tests := []struct {
		fun      string
		expected L.AbstractValue
	}{
		{"phi", ints(6, 10)},
		{"loop", L.Elements().IntRange(0, 10)},
		{"clamp", L.Elements().IntRange(0, 100)},
		{"greet", ints(3, 6)},
		{"slices", ints(2, 4)},
		{"wrap", ints(-128, 101)},
		{"half", L.Elements().DoubleSet(1.5, 2.5)},
		{"unsigned", L.Elements().Unknown()},
	}

	for _, test := range tests {
		t.Run(test.fun, func(t *testing.T) {
			fun := loadRes.Func(t, test.fun)
			res := Analyze(fun, Config{WideningThreshold: 32})

			ret := testutil.Return(t, fun)
			if v := res.Value(ret.Results[0]); !v.Eq(test.expected) {
				t.Errorf("Expected %s to return %s, got %s", test.fun, test.expected, v)
			}
		})
	}
}

func TestLoopExit(t *testing.T) {
	loadRes := testutil.LoadSource(t, source)
	fun := loadRes.Func(t, "loop")
	res := Analyze(fun, DefaultConfig())

	ret := testutil.Return(t, fun)
	if v := res.ValueAt(ret.Results[0], ret.Block()); !v.Eq(L.Elements().IntRange(10, 10)) {
		t.Errorf("Expected the loop counter to be 10 on exit, got %s", v)
	}

	body := blockByComment(t, fun, "for.body")
	if v := res.ValueAt(ret.Results[0], body); !v.Eq(L.Elements().IntRange(0, 9)) {
		t.Errorf("Expected the loop counter to be in [0, 9] in the body, got %s", v)
	}
}

func TestWidening(t *testing.T) {
	loadRes := testutil.LoadSource(t, source)
	fun := loadRes.Func(t, "longLoop")
	ret := testutil.Return(t, fun)

	precise := Analyze(fun, Config{WideningThreshold: 200})
	if v := precise.ValueAt(ret.Results[0], ret.Block()); !v.Eq(L.Elements().IntRange(100, 100)) {
		t.Errorf("Expected the loop counter to be 100 on exit, got %s", v)
	}

	widened := Analyze(fun, Config{WideningThreshold: 3})
	if v := widened.Value(ret.Results[0]); !v.Eq(L.Elements().IntRange(0, math.MaxInt64)) {
		t.Errorf("Expected the widened loop counter to be non-negative, got %s", v)
	}
	if v := widened.ValueAt(ret.Results[0], ret.Block()); !v.Eq(L.Elements().IntRange(100, math.MaxInt64)) {
		t.Errorf("Expected the widened loop counter to be at least 100 on exit, got %s", v)
	}

	if widened.Iterations() >= precise.Iterations() {
		t.Errorf("Expected widening to reduce the number of iterations, got %d and %d",
			widened.Iterations(), precise.Iterations())
	}
}

func TestPruning(t *testing.T) {
	loadRes := testutil.LoadSource(t, source)
	fun := loadRes.Func(t, "dead")
	res := Analyze(fun, DefaultConfig())

	then := blockByComment(t, fun, "if.then")
	if res.Reachable(then) {
		t.Errorf("Expected block %d of %s to be unreachable", then.Index, fun)
	}
	if !res.Reachable(fun.Blocks[0]) {
		t.Errorf("Expected the entry block of %s to be reachable", fun)
	}

	for _, instr := range then.Instrs {
		if v, ok := instr.(ssa.Value); ok {
			if av := res.Value(v); !av.IsBot() {
				t.Errorf("Expected %s in an unreachable block to be ⊥, got %s", v.Name(), av)
			}
		}
	}
}

func TestNegatedCondition(t *testing.T) {
	loadRes := testutil.LoadSource(t, source)
	fun := loadRes.Func(t, "not")
	res := Analyze(fun, DefaultConfig())

	then := blockByComment(t, fun, "if.then")
	done := blockByComment(t, fun, "if.done")
	param := fun.Params[0]

	if v := res.ValueAt(param, then); !v.Eq(L.Elements().IntRange(math.MinInt64, 9)) {
		t.Errorf("Expected %s < 10 when the condition holds, got %s", param.Name(), v)
	}
	if v := res.ValueAt(param, done); !v.Eq(L.Elements().IntRange(10, math.MaxInt64)) {
		t.Errorf("Expected %s >= 10 when the condition fails, got %s", param.Name(), v)
	}
	if v := res.Value(param); !v.IsTop() {
		t.Errorf("Expected parameter %s to be ⊤, got %s", param.Name(), v)
	}
}

func TestPartiallyRefinedParameter(t *testing.T) {
	loadRes := testutil.LoadSource(t, source)
	fun := loadRes.Func(t, "guard")
	res := Analyze(fun, DefaultConfig())

	for _, b := range fun.Blocks {
		if !res.Reachable(b) {
			t.Errorf("Expected block %d (%s) of %s to be reachable", b.Index, b.Comment, fun)
		}
	}

	param := fun.Params[0]
	for _, b := range fun.Blocks {
		ret, ok := b.Instrs[len(b.Instrs)-1].(*ssa.Return)
		if !ok {
			continue
		}

		c, ok := ret.Results[0].(*ssa.Const)
		if !ok || c.Int64() != 1 {
			continue
		}
		if v := res.ValueAt(param, b); !v.Eq(L.Elements().IntRange(math.MinInt64, -1)) {
			t.Errorf("Expected %s < 0 before returning 1, got %s", param.Name(), v)
		}
		return
	}
	t.Errorf("%s does not return 1", fun)
}

func TestFprint(t *testing.T) {
	color.NoColor = true
	loadRes := testutil.LoadSource(t, source)

	for name, expected := range map[string][]string{
		"phi":  {"main.phi", "IntSet{3, 5}", "IntSet{6, 10}"},
		"dead": {"main.dead", "unreachable", "BooleanSet{false}"},
	} {
		out := &bytes.Buffer{}
		Analyze(loadRes.Func(t, name), DefaultConfig()).Fprint(out)

		for _, s := range expected {
			if !strings.Contains(out.String(), s) {
				t.Errorf("Expected the report of %s to contain %q, got:\n%s", name, s, out)
			}
		}
	}
}
