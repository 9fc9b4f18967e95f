package main

import (
	"fmt"
	"strings"

	L "github.com/cs-au-dk/goval/analysis/lattice"
	"github.com/cs-au-dk/goval/analysis/valueflow"

	"github.com/fatih/color"
	"golang.org/x/tools/go/ssa"
)

// metrics summarizes the precision of the analysis results.
type metrics struct {
	functions, blocks, reachable, iterations int
	// kinds counts the tracked values by the shape of their abstract value.
	kinds map[L.Kind]int
}

func gatherMetrics(results []*valueflow.Result) metrics {
	m := metrics{kinds: make(map[L.Kind]int)}

	for _, res := range results {
		m.functions++
		m.iterations += res.Iterations()
		for _, b := range res.Function().Blocks {
			m.blocks++
			if res.Reachable(b) {
				m.reachable++
			}
		}

		res.ForEach(func(_ ssa.Value, av L.AbstractValue) {
			m.kinds[av.Kind()]++
		})
	}

	return m
}

func (m metrics) String() string {
	sb := &strings.Builder{}

	sb.WriteString("================ Results =====================\n")
	fmt.Fprintf(sb, "Functions: %d\n", m.functions)
	fmt.Fprintf(sb, "Reachable blocks: %d/%d\n", m.reachable, m.blocks)
	fmt.Fprintf(sb, "Block visits: %d\n", m.iterations)

	total := 0
	for _, n := range m.kinds {
		total += n
	}
	fmt.Fprintf(sb, "Values: %d\n", total)

	for k := L.Bottom; k <= L.ArrayLenSet; k++ {
		if n := m.kinds[k]; n > 0 {
			colorize := color.GreenString
			if k == L.Unknown {
				colorize = color.YellowString
			}
			fmt.Fprintf(sb, "  %s: %s\n", k, colorize("%d", n))
		}
	}
	sb.WriteString("================ Results =====================")

	return sb.String()
}
