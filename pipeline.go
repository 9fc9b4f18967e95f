package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/cs-au-dk/goval/analysis/valueflow"
	"github.com/cs-au-dk/goval/pkgutil"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/ssa"
)

// pipeline is a wrapper around the analysis pipeline.
type pipeline struct {
	prog *ssa.Program
	pkgs []*ssa.Package
}

// analyze performs the value-flow analysis of every selected function of the
// loaded packages. Functions are analyzed concurrently, and results are ordered
// by function name.
func (p pipeline) analyze(cfg valueflow.Config) ([]*valueflow.Result, error) {
	funs := pkgutil.Functions(p.prog, p.pkgs)
	if len(funs) == 0 {
		log.Warnf("No functions match %q", opts.Function())
		return nil, nil
	}
	log.Infof("Analyzing %d functions...", len(funs))

	results := make([]*valueflow.Result, len(funs))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, fun := range funs {
		i, fun := i, fun
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("analyzing %s: %v", fun, r)
				}
			}()

			results[i] = valueflow.Analyze(fun, cfg)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// report prints the results of the analysis.
func (p pipeline) report(w io.Writer, results []*valueflow.Result) {
	for _, res := range results {
		res.Fprint(w)
		fmt.Fprintln(w)
	}

	opts.OnVerbose(func() {
		fmt.Fprintln(w, gatherMetrics(results))
	})
}
