package utils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func resetOpts() {
	*opts = options{wideningThreshold: DefaultWideningThreshold}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "goval.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestApplyConfig(t *testing.T) {
	defer resetOpts()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)
	if err := fs.Parse([]string{"--widening-threshold=8", "--verbose=false"}); err != nil {
		t.Fatal(err)
	}

	path := writeConfig(t, `
[analysis]
function = "main"
widening_threshold = 16
include_tests = true

[output]
verbose = true
no_colorize = true
`)
	if err := ApplyConfig(path, fs); err != nil {
		t.Fatal(err)
	}

	if Opts().Function() != "main" || Opts().AnalyzeAllFuncs() {
		t.Errorf("Expected function to be set by the configuration, got %q", Opts().Function())
	}
	if !Opts().IncludeTests() || !Opts().NoColorize() {
		t.Error("Expected include_tests and no_colorize to be set by the configuration")
	}
	if Opts().WideningThreshold() != 8 {
		t.Errorf("Expected the widening threshold flag to take precedence, got %d", Opts().WideningThreshold())
	}
	if Opts().Verbose() {
		t.Error("Expected the verbose flag to take precedence")
	}
}

func TestApplyConfigErrors(t *testing.T) {
	defer resetOpts()

	tests := []struct {
		name, content string
		isConfigErr   bool
	}{
		{"unknown key", "[analysis]\nfunktion = \"main\"\n", true},
		{"zero threshold", "[analysis]\nwidening_threshold = 0\n", true},
		{"malformed", "[analysis\n", false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := ApplyConfig(writeConfig(t, test.content), nil)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if errors.Is(err, ErrConfig) != test.isConfigErr {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}

	if err := ApplyConfig(filepath.Join(t.TempDir(), "missing.toml"), nil); err == nil {
		t.Error("Expected an error for a missing configuration file")
	}
}

func TestCanColorize(t *testing.T) {
	defer resetOpts()

	col := func(is ...interface{}) string { return "colored" }

	if res := CanColorize(col)("a", "b"); res != "colored" {
		t.Errorf("Expected colorization, got %q", res)
	}

	SetNoColorize(true)
	if res := CanColorize(col)("a", "b"); res != "ab" {
		t.Errorf("Expected plain output, got %q", res)
	}
}
