package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	L "github.com/cs-au-dk/goval/analysis/lattice"
	"github.com/cs-au-dk/goval/analysis/valueflow"
	"github.com/cs-au-dk/goval/testutil"

	"github.com/fatih/color"
	"golang.org/x/tools/go/ssa"
)

const source = `package main

func pick(b bool) string {
	s := "a"
	if b {
		s = "b"
	}
	return s
}

func count() int {
	i := 0
	for i < 3 {
		i++
	}
	return i
}

func main() {}
`

func TestPipeline(t *testing.T) {
	color.NoColor = true
	loadRes := testutil.LoadSource(t, source)

	pl := pipeline{prog: loadRes.Pkg.Prog, pkgs: []*ssa.Package{loadRes.Pkg}}
	results, err := pl.analyze(valueflow.Config{WideningThreshold: 32})
	if err != nil {
		t.Fatal(err)
	}

	names := []string{}
	for _, res := range results {
		names = append(names, res.Function().String())
	}
	if strings.Join(names, " ") != "main.count main.main main.pick" {
		t.Fatalf("Unexpected analyzed functions: %v", names)
	}

	count := results[0]
	ret := testutil.Return(t, count.Function())
	if v := count.Value(ret.Results[0]); !v.Eq(L.Elements().IntSet(0, 1, 2, 3)) {
		t.Errorf("Expected count to return IntSet{0, 1, 2, 3}, got %s", v)
	}

	out := &bytes.Buffer{}
	pl.report(out, results)
	if !strings.Contains(out.String(), `StringSet{"a", "b"}`) {
		t.Errorf("Expected the report to contain the strings returned by pick, got:\n%s", out)
	}
}

func TestMetrics(t *testing.T) {
	loadRes := testutil.LoadSource(t, source)
	res := valueflow.Analyze(loadRes.Func(t, "pick"), valueflow.Config{WideningThreshold: 32})

	m := gatherMetrics([]*valueflow.Result{res})
	if m.functions != 1 || m.reachable != m.blocks {
		t.Errorf("Expected one function without unreachable blocks, got %+v", m)
	}
	if m.kinds[L.StringSet] != 1 {
		t.Errorf("Expected one StringSet value, got %+v", m.kinds)
	}
}

func TestRunWithMissingConfig(t *testing.T) {
	rootCmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.toml"), "./..."})
	if err := rootCmd.Execute(); err == nil {
		t.Error("Expected an error for a missing configuration file")
	}
}
