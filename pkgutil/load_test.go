package pkgutil

import (
	"errors"
	"testing"

	"github.com/cs-au-dk/goval/testutil"

	"golang.org/x/tools/go/ssa"
)

func TestLoadWithModule(t *testing.T) {
	if pkgs, err := LoadPackages(LoadConfig{
		ModulePath: "testdata/mod",
	}, "unrelated-name/..."); err != nil {
		t.Fatal(err)
	} else if len(pkgs) != 2 {
		t.Errorf("Expected load result to contain 2 packages, got: %s", pkgs)
	}
}

func TestLoadWithTests(t *testing.T) {
	if pkgs, err := LoadPackages(LoadConfig{
		ModulePath:   "testdata/mod",
		IncludeTests: true,
	}, "unrelated-name/sub"); err != nil {
		t.Fatal(err)
	} else if len(pkgs) != 2 {
		t.Errorf("Expected load result to contain 2 packages, got: %s", pkgs)
	}
}

func TestLoadWithoutModule(t *testing.T) {
	_, err := LoadPackages(LoadConfig{ModulePath: t.TempDir()}, "./...")
	if !errors.Is(err, ErrNoModule) {
		t.Errorf("Expected %v, got %v", ErrNoModule, err)
	}
}

func TestFunctions(t *testing.T) {
	loadRes := testutil.LoadSource(t, `package main

type T struct{}

func (T) M() int { return 1 }

func f() func() int {
	return func() int { return 2 }
}

func main() {}
`)

	funs := Functions(loadRes.Pkg.Prog, []*ssa.Package{loadRes.Pkg})
	names := make([]string, 0, len(funs))
	for _, fun := range funs {
		names = append(names, fun.String())
	}

	expected := []string{"(main.T).M", "main.f", "main.f$1", "main.main"}
	if len(names) != len(expected) {
		t.Fatalf("Expected functions %v, got %v", expected, names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("Expected functions %v, got %v", expected, names)
			break
		}
	}
}

func TestMatchesFunction(t *testing.T) {
	loadRes := testutil.LoadSource(t, "package main\n\nfunc main() {}\n")
	fun := loadRes.Func(t, "main")

	tests := []struct {
		name     string
		expected bool
	}{
		{".", true},
		{"", true},
		{"main", true},
		{"main.main", true},
		{"other", false},
	}

	for _, test := range tests {
		if res := MatchesFunction(fun, test.name); res != test.expected {
			t.Errorf("MatchesFunction(%s, %q) = %v, expected %v", fun, test.name, res, test.expected)
		}
	}
}
