package lattice

import (
	"bytes"
	"fmt"
	"math"
	"testing"

	"github.com/fatih/color"
	"github.com/sebdah/goldie/v2"
)

func TestValueString(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	var out bytes.Buffer
	for _, i := range []Interval{nothing, everything, iv(-3, 4)} {
		fmt.Fprintln(&out, i)
	}
	for _, v := range []AbstractValue{
		bot,
		top,
		rng(0, 10),
		rng(math.MinInt64, 0),
		ints(3, -1, 2),
		doubles(2.5, math.Copysign(0, -1), math.NaN(), 1e21),
		strs("b\n", "a"),
		bools(true, false),
		lens(3, 0),
	} {
		fmt.Fprintln(&out, v)
	}
	fmt.Fprintln(&out, Create().Lattice().Interval())
	fmt.Fprintln(&out, Create().Lattice().Value())

	goldie.New(t).Assert(t, t.Name(), out.Bytes())
}
