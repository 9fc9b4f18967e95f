package utils

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
)

type options struct {
	function          string
	modulePath        string
	config            string
	wideningThreshold int
	noColorize        bool
	verbose           bool
	includeTests      bool
}

// DefaultWideningThreshold is the number of times a block is visited before the
// values it defines are widened.
const DefaultWideningThreshold = 32

var opts = &options{
	wideningThreshold: DefaultWideningThreshold,
}

type optInterface struct{}

func Opts() optInterface {
	return optInterface{}
}

func CanColorize(col func(...interface{}) string) func(...interface{}) string {
	if opts.noColorize {
		return func(is ...interface{}) string {
			return fmt.Sprintf(strings.Repeat("%s", len(is)), is...)
		}
	}
	return col
}

func (optInterface) NoColorize() bool {
	return opts.noColorize
}
func (optInterface) Verbose() bool {
	return opts.verbose
}
func (optInterface) Function() string {
	return opts.function
}
func (optInterface) ModulePath() string {
	return opts.modulePath
}
func (optInterface) IncludeTests() bool {
	return opts.includeTests
}
func (optInterface) WideningThreshold() int {
	return opts.wideningThreshold
}
func (optInterface) Config() string {
	return opts.config
}

// AnalyzeAllFuncs holds if every function of the loaded packages is analyzed.
func (optInterface) AnalyzeAllFuncs() bool {
	return opts.function == "" || opts.function == "."
}

func (optInterface) OnVerbose(do func()) {
	if Opts().Verbose() {
		do()
	}
}

// SetNoColorize disables colorization, e.g., when the output is not a terminal.
func SetNoColorize(noColorize bool) {
	opts.noColorize = noColorize
}

// BindFlags registers the options as flags of the given flag set.
func BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&(opts.function), "fun", ".", "target a specific function.\n"+
		"- Function names need not be fully qualified w.r.t. package name. A simple name "+
		"matches every function of that name across the loaded packages.\n"+
		"- Use '.' to analyze all functions.")
	fs.StringVar(&(opts.modulePath), "modulepath", "", `specify a path to a directory containing a Go module.
- If provided this will make our code loading tools (that piggyback on Go's tools) run
in "module-aware" mode (GO111MODULE=on).`)
	fs.StringVar(&(opts.config), "config", "", "path to a TOML configuration file")
	fs.IntVar(&(opts.wideningThreshold), "widening-threshold", DefaultWideningThreshold,
		"number of visits to a block before its values are widened")
	fs.BoolVar(&(opts.noColorize), "no-colorize", false, "Disable pretty printer colorization")
	fs.BoolVarP(&(opts.verbose), "verbose", "v", false, "enable verbose output")
	fs.BoolVar(&(opts.includeTests), "include-tests", false, "include test files in the analysis.")
}

// fileConfig is the layout of the TOML configuration file:
//
//	[analysis]
//	function = "main"
//	widening_threshold = 16
//	include_tests = true
//
//	[output]
//	no_colorize = true
//	verbose = true
type fileConfig struct {
	Analysis struct {
		Function          string `toml:"function"`
		ModulePath        string `toml:"module_path"`
		WideningThreshold int    `toml:"widening_threshold"`
		IncludeTests      bool   `toml:"include_tests"`
	} `toml:"analysis"`
	Output struct {
		NoColorize bool `toml:"no_colorize"`
		Verbose    bool `toml:"verbose"`
	} `toml:"output"`
}

// ApplyConfig loads the TOML configuration file at path. Settings in the file
// override the defaults, but not flags explicitly set in fs.
func ApplyConfig(path string, fs *pflag.FlagSet) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening configuration: %w", err)
	}
	defer f.Close()

	var cfg fileConfig
	meta, err := toml.DecodeReader(f, &cfg)
	if err != nil {
		return fmt.Errorf("parsing configuration %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%w: %s: unknown key %s", ErrConfig, path, undecoded[0])
	}
	if meta.IsDefined("analysis", "widening_threshold") && cfg.Analysis.WideningThreshold <= 0 {
		return fmt.Errorf("%w: %s: widening_threshold must be positive", ErrConfig, path)
	}

	set := func(flag string, key []string, do func()) {
		if meta.IsDefined(key...) && (fs == nil || !fs.Changed(flag)) {
			do()
		}
	}
	set("fun", []string{"analysis", "function"}, func() { opts.function = cfg.Analysis.Function })
	set("modulepath", []string{"analysis", "module_path"}, func() { opts.modulePath = cfg.Analysis.ModulePath })
	set("widening-threshold", []string{"analysis", "widening_threshold"}, func() {
		opts.wideningThreshold = cfg.Analysis.WideningThreshold
	})
	set("include-tests", []string{"analysis", "include_tests"}, func() { opts.includeTests = cfg.Analysis.IncludeTests })
	set("no-colorize", []string{"output", "no_colorize"}, func() { opts.noColorize = cfg.Output.NoColorize })
	set("verbose", []string{"output", "verbose"}, func() { opts.verbose = cfg.Output.Verbose })

	return nil
}

// ErrConfig is returned for well-formed configuration files with invalid settings.
var ErrConfig = errors.New("invalid configuration")
