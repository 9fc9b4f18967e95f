package testutil

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// LoadResult contains the SSA representation of a package loaded for a test.
type LoadResult struct {
	Fset *token.FileSet
	// Pkg is the SSA representation of the loaded package.
	Pkg *ssa.Package
}

// LoadSource type-checks the given source code as the main package and builds
// its SSA representation. Imports are resolved from the export data of the
// installed standard library.
func LoadSource(t *testing.T, content string) LoadResult {
	t.Helper()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "main.go", content, parser.ParseComments)
	if err != nil {
		t.Fatal(err)
	}

	pkg := types.NewPackage("main", "main")
	ssaPkg, _, err := ssautil.BuildPackage(
		&types.Config{Importer: importer.Default()},
		fset, pkg, []*ast.File{file},
		ssa.SanityCheckFunctions)
	if err != nil {
		t.Fatal(err)
	}

	return LoadResult{Fset: fset, Pkg: ssaPkg}
}

// Func retrieves a package-level function by name.
func (res LoadResult) Func(t *testing.T, name string) *ssa.Function {
	t.Helper()

	fun := res.Pkg.Func(name)
	if fun == nil {
		t.Fatalf("Function %s not found in %s", name, res.Pkg)
	}
	return fun
}

// Return retrieves the unique return instruction of a function.
func Return(t *testing.T, fun *ssa.Function) *ssa.Return {
	t.Helper()

	var ret *ssa.Return
	for _, b := range fun.Blocks {
		if r, ok := b.Instrs[len(b.Instrs)-1].(*ssa.Return); ok {
			if ret != nil {
				t.Fatalf("%s has more than one return", fun)
			}
			ret = r
		}
	}
	if ret == nil {
		t.Fatalf("%s does not return", fun)
	}
	return ret
}
