package pkgutil

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"

	"golang.org/x/tools/go/packages"
)

// LoadConfig is a structure according to which Go package loading is configured.
// Packages are loaded in module-aware mode from the module at ModulePath, or from
// the module containing the current working directory if ModulePath is empty. If
// IncludeTests is true, package loading will also expose test functions.
type LoadConfig struct {
	ModulePath   string
	IncludeTests bool
}

// loadMode avoids deprecation warnings from using packages.LoadAllSyntax.
// It sets all packages.Need* options.
const loadMode packages.LoadMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
	packages.NeedImports | packages.NeedTypes | packages.NeedTypesSizes | packages.NeedSyntax |
	packages.NeedTypesInfo | packages.NeedDeps

var (
	// ErrNoModule is returned when the module path does not contain a go.mod file
	// declaring a module.
	ErrNoModule = errors.New("no Go module")
	// ErrLoad is returned when packages fail to load or type-check.
	ErrLoad = errors.New("errors encountered while loading packages")

	// moduleRegex is a regular expression according to which a go.mod file can be parsed.
	moduleRegex = regexp.MustCompile(`(?m)^module\s+(.*)$`)

	// cwd retrieves the current working directory on invocation.
	cwd = func() string {
		if dir, err := os.Getwd(); err == nil {
			return dir
		} else {
			panic(err)
		}
	}()
)

// relativizingParseFile is a ParseFile implementation that relativizes
// filenames according to CWD. This is an easy way to globally make paths
// system agnostic, which is useful for reports involving file paths.
func relativizingParseFile(fset *token.FileSet, filename string, src []byte) (*ast.File, error) {
	if rel, err := filepath.Rel(cwd, filename); err == nil {
		filename = rel
	}
	const mode = parser.AllErrors | parser.ParseComments
	return parser.ParseFile(fset, filename, src, mode)
}

// ModuleName retrieves the name of the module declared in the go.mod file at modulePath.
func ModuleName(modulePath string) (string, error) {
	contents, err := os.ReadFile(filepath.Join(modulePath, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("%w at %s: %v", ErrNoModule, modulePath, err)
	}

	m := moduleRegex.FindSubmatch(contents)
	if len(m) <= 1 {
		return "", fmt.Errorf("%w: unable to locate module name in %s", ErrNoModule,
			filepath.Join(modulePath, "go.mod"))
	}
	return string(m[1]), nil
}

// LoadPackages loads the AST of the packages matching the patterns according to the
// provided LoadConfig.
func LoadPackages(cfg LoadConfig, patterns ...string) ([]*packages.Package, error) {
	config := &packages.Config{
		Mode:      loadMode,
		Tests:     cfg.IncludeTests,
		ParseFile: relativizingParseFile,
		Env:       append(os.Environ(), "GO111MODULE=on"),
	}

	if modulePath := cfg.ModulePath; modulePath != "" {
		pkgPath, err := filepath.Abs(modulePath)
		if err != nil {
			return nil, err
		}

		if _, err := ModuleName(pkgPath); err != nil {
			return nil, err
		}

		config.Dir = pkgPath
	}

	return loadPackagesWithConfig(config, patterns...)
}

// loadPackagesWithConfig wraps around packages.Load, that loads the packages specified
// by `patterns` according to the given configuration, and performs additional filtering when
// loading includes test packages.
func loadPackagesWithConfig(config *packages.Config, patterns ...string) ([]*packages.Package, error) {
	pkgs, err := packages.Load(config, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading %v: %w", patterns, err)
	} else if len(pkgs) == 0 {
		return nil, fmt.Errorf("%w: no packages match %v", ErrLoad, patterns)
	} else if packages.PrintErrors(pkgs) > 0 {
		return nil, ErrLoad
	}
	if config.Tests {
		// Deduplicate packages that have test functions (such packages are
		// returned twice, once with no tests and once with tests. We discard
		// the package without tests.) This prevents duplicate versions of the
		// same types, functions, ssa values, etc.
		packageIDs := map[string]bool{}
		for _, pkg := range pkgs {
			packageIDs[pkg.ID] = true
		}

		filteredPkgs := []*packages.Package{}
		for _, pkg := range pkgs {
			if !packageIDs[fmt.Sprintf("%s [%s.test]", pkg.ID, pkg.ID)] {
				filteredPkgs = append(filteredPkgs, pkg)
			}
		}
		pkgs = filteredPkgs
	}
	return pkgs, nil
}
