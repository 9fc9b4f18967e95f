package pkgutil

import (
	"go/types"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cs-au-dk/goval/utils"

	"golang.org/x/exp/slices"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// opts is a shorthand for the CLI option API.
var opts = utils.Opts()

// CheckPkgInGoroot checks whether a package is declared in GOROOT.
func CheckPkgInGoroot(pkg *types.Package) bool {
	path := filepath.Join(runtime.GOROOT(), "src", pkg.Path())
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return true
	}
	return false
}

// CheckInGoroot is true iff. the function is in a package declared in GOROOT.
func CheckInGoroot(fun *ssa.Function) bool {
	return fun != nil && fun.Pkg != nil &&
		CheckPkgInGoroot(fun.Pkg.Pkg)
}

// MatchesFunction holds if the function is selected by the given name. Names
// need not be qualified by package: a simple name matches every function of
// that name, and "." matches every function.
func MatchesFunction(fun *ssa.Function, name string) bool {
	return name == "" || name == "." ||
		fun.Name() == name ||
		strings.HasSuffix(fun.String(), name)
}

// Functions collects the functions with a body declared in the given packages,
// including methods and anonymous functions, ordered by name.
// Only functions matching the function option are included.
func Functions(prog *ssa.Program, pkgs []*ssa.Package) (res []*ssa.Function) {
	inPkgs := make(map[*ssa.Package]bool, len(pkgs))
	for _, pkg := range pkgs {
		// Packages that fail to load are nil.
		if pkg != nil {
			inPkgs[pkg] = true
		}
	}

	for fun := range ssautil.AllFunctions(prog) {
		if !inPkgs[fun.Pkg] || len(fun.Blocks) == 0 || fun.Synthetic != "" {
			continue
		}
		if !MatchesFunction(fun, opts.Function()) {
			continue
		}
		res = append(res, fun)
	}

	slices.SortFunc(res, func(a, b *ssa.Function) bool {
		return a.String() < b.String()
	})
	return
}
