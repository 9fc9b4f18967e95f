package lattice

import (
	"go/token"
	"go/types"
	"math"
	"testing"
)

func TestBinaryOp(t *testing.T) {
	tests := []struct {
		op       token.Token
		a, b     AbstractValue
		expected AbstractValue
	}{
		{token.ADD, ints(1, 2), ints(10), ints(11, 12)},
		{token.QUO, ints(10), ints(0, 2), ints(5)},
		{token.QUO, ints(1), ints(0), bot},
		{token.REM, ints(7), ints(0, 4), ints(3)},
		{token.MUL, ints(math.MaxInt64), ints(2), ints(-2)},
		{token.QUO, ints(math.MinInt64), ints(-1), ints(math.MinInt64)},
		{token.SHL, ints(1), ints(-1), bot},
		{token.SHL, ints(1), ints(64), ints(0)},
		{token.SHR, ints(-8), ints(1, 100), ints(-4, -1)},
		{token.AND_NOT, ints(7), ints(2), ints(5)},
		{token.ADD, rng(0, 10), ints(5), rng(5, 15)},
		{token.QUO, rng(10, 20), rng(2, 5), rng(2, 10)},
		{token.ADD, rng(math.MaxInt64-1, math.MaxInt64), ints(1), top},
		{token.ADD, ints(0, 1, 2, 3, 4, 5, 6, 7, 8, 9), ints(0, 100), rng(0, 109)},
		{token.SUB, lens(3), ints(1), ints(2)},
		{token.ADD, doubles(0.5), ints(1), doubles(1.5)},
		{token.QUO, doubles(1), doubles(0), doubles(math.Inf(1))},
		{token.REM, doubles(1), doubles(2), top},
		{token.ADD, strs("a", "b"), strs("c"), strs("ac", "bc")},
		{token.SUB, strs("a"), strs("c"), top},
		{token.LAND, bools(true), bools(false, true), bools(false, true)},
		{token.LOR, bools(true), bools(false), bools(true)},
		{token.LAND, ints(1), ints(1), top},
		{token.ADD, top, ints(1), top},
		{token.ADD, bot, top, bot},
		{token.ADD, strs("a"), ints(1), top},
	}

	for _, test := range tests {
		if res := BinaryOp(test.op, test.a, test.b); !res.Eq(test.expected) {
			t.Errorf("%s %s %s = %s, expected %s", test.a, test.op, test.b, res, test.expected)
		}
	}
}

func TestBinaryOpCompare(t *testing.T) {
	anyBool := Consts().AnyBoolean()
	TRUE, FALSE := Consts().Booleans()

	tests := []struct {
		op       token.Token
		a, b     AbstractValue
		expected AbstractValue
	}{
		{token.LSS, ints(1, 2), ints(3), TRUE},
		{token.LSS, ints(1, 4), ints(3), anyBool},
		{token.LSS, rng(0, 10), rng(20, 30), TRUE},
		{token.GEQ, rng(0, 10), rng(20, 30), FALSE},
		{token.LEQ, rng(0, 10), rng(10, 30), TRUE},
		{token.GTR, rng(0, 10), rng(10, 30), FALSE},
		{token.EQL, rng(0, 10), ints(5), anyBool},
		{token.EQL, rng(0, 10), ints(50), FALSE},
		{token.NEQ, rng(0, 10), ints(50), TRUE},
		{token.EQL, top, ints(1), anyBool},
		{token.EQL, strs("a"), strs("a", "b"), anyBool},
		{token.LSS, strs("a"), strs("b"), TRUE},
		{token.NEQ, bools(true), bools(true), FALSE},
		{token.LSS, doubles(math.NaN()), doubles(1), FALSE},
		{token.EQL, doubles(1), ints(1), TRUE},
		{token.EQL, strs("a"), ints(1), anyBool},
		{token.EQL, lens(3), ints(3), TRUE},
		{token.EQL, bot, ints(3), bot},
	}

	for _, test := range tests {
		if res := BinaryOp(test.op, test.a, test.b); !res.Eq(test.expected) {
			t.Errorf("%s %s %s = %s, expected %s", test.a, test.op, test.b, res, test.expected)
		}
	}
}

func TestUnaryOp(t *testing.T) {
	tests := []struct {
		op       token.Token
		a        AbstractValue
		expected AbstractValue
	}{
		{token.SUB, ints(1, -2), ints(-1, 2)},
		{token.SUB, ints(math.MinInt64), ints(math.MinInt64)},
		{token.SUB, rng(math.MinInt64, math.MinInt64+5), top},
		{token.SUB, rng(1, 5), rng(-5, -1)},
		{token.SUB, doubles(1.5), doubles(-1.5)},
		{token.ADD, rng(1, 5), rng(1, 5)},
		{token.XOR, ints(0), ints(-1)},
		{token.XOR, rng(0, 5), rng(-6, -1)},
		{token.NOT, bools(true), bools(false)},
		{token.NOT, ints(1), top},
		{token.ADD, strs("a"), top},
		{token.SUB, bot, bot},
		{token.SUB, top, top},
	}

	for _, test := range tests {
		if res := UnaryOp(test.op, test.a); !res.Eq(test.expected) {
			t.Errorf("%s%s = %s, expected %s", test.op, test.a, res, test.expected)
		}
	}
}

func TestRefine(t *testing.T) {
	negZero := math.Copysign(0, -1)
	tests := []struct {
		op       token.Token
		a, b     AbstractValue
		expected AbstractValue
	}{
		{token.LSS, rng(0, 100), ints(10), rng(0, 9)},
		{token.LSS, top, ints(10), rng(math.MinInt64, 9)},
		{token.GEQ, ints(1, 5, 9), ints(5), ints(5, 9)},
		{token.LSS, ints(1, 5, 9), rng(0, 6), ints(1, 5)},
		{token.NEQ, ints(1, 5), ints(5), ints(1)},
		{token.NEQ, ints(1, 5), ints(5, 6), ints(1, 5)},
		{token.NEQ, rng(0, 10), ints(0), rng(1, 10)},
		{token.GTR, rng(0, 10), ints(10), bot},
		{token.LSS, lens(0, 3, 5), ints(4), lens(0, 3)},
		{token.EQL, strs("a", "b"), strs("b"), strs("b")},
		{token.NEQ, strs("a", "b"), strs("b"), strs("a")},
		{token.NEQ, bools(false, true), bools(true), bools(false)},
		{token.EQL, top, strs("x"), strs("x")},
		{token.LSS, rng(0, 10), top, rng(0, 10)},
		{token.ADD, rng(0, 10), ints(1), rng(0, 10)},
		{token.LSS, bot, ints(1), bot},
		{token.NEQ, doubles(math.NaN()), doubles(math.NaN()), doubles(math.NaN())},
		{token.EQL, doubles(math.NaN(), 1), doubles(math.NaN()), bot},
		{token.EQL, doubles(negZero), doubles(0), doubles(negZero)},
		{token.NEQ, doubles(negZero, 1), doubles(0), doubles(1)},
		{token.LSS, doubles(0.5, 2.5), ints(1), doubles(0.5)},
		{token.EQL, ints(1, 2), doubles(2, 2.5), ints(2)},
		{token.LSS, strs("a", "c"), strs("b"), strs("a")},
	}

	for _, test := range tests {
		if res := Refine(test.op, test.a, test.b); !res.Eq(test.expected) {
			t.Errorf("%s refined by %s %s = %s, expected %s", test.a, test.op, test.b, res, test.expected)
		}
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		v        AbstractValue
		kind     types.BasicKind
		expected AbstractValue
	}{
		{ints(127, 128), types.Int8, ints(127, -128)},
		{rng(250, 260), types.Int8, rng(-6, 4)},
		{rng(0, 1<<20), types.Int16, rng(math.MinInt16, math.MaxInt16)},
		{ints(-1), types.Uint8, ints(255)},
		{rng(-1, 1), types.Uint16, rng(0, math.MaxUint16)},
		{ints(-1), types.Uint64, top},
		{ints(5), types.Uint, ints(5)},
		{rng(0, 100), types.Int, rng(0, 100)},
		{lens(3), types.Int64, ints(3)},
		{ints(1, 2), types.Float64, doubles(1, 2)},
		{rng(0, 100), types.Float64, top},
		{doubles(0.1), types.Float32, doubles(float64(float32(0.1)))},
		{doubles(2.7, -2.7), types.Int, ints(2, -2)},
		{doubles(math.NaN()), types.Int, top},
		{doubles(300), types.Int8, ints(44)},
		{ints(65, -1), types.String, strs("A", "\uFFFD")},
		{strs("x"), types.String, strs("x")},
		{bools(true), types.Bool, bools(true)},
		{ints(1), types.Complex128, top},
		{bot, types.Int, bot},
	}

	for _, test := range tests {
		typ := types.Typ[test.kind]
		if res := Convert(test.v, typ); !res.Eq(test.expected) {
			t.Errorf("%s(%s) = %s, expected %s", typ, test.v, res, test.expected)
		}
	}
}

func TestLen(t *testing.T) {
	tests := []struct {
		v, expected AbstractValue
	}{
		{strs("ab", ""), ints(0, 2)},
		{strs("ü"), ints(2)},
		{lens(3), ints(3)},
		{top, rng(0, math.MaxInt64)},
		{bot, bot},
	}

	for _, test := range tests {
		if res := Len(test.v); !res.Eq(test.expected) {
			t.Errorf("len(%s) = %s, expected %s", test.v, res, test.expected)
		}
	}
}
