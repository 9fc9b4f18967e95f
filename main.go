package main

import (
	"fmt"
	"os"

	"github.com/cs-au-dk/goval/analysis/valueflow"
	"github.com/cs-au-dk/goval/pkgutil"
	"github.com/cs-au-dk/goval/utils"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"golang.org/x/tools/go/ssa/ssautil"
)

var opts = utils.Opts()

var rootCmd = &cobra.Command{
	Use:   "goval [flags] <packages>",
	Short: "Propagate abstract values through Go functions.",
	Long: `Propagate abstract values through the SSA form of the functions of the given packages.
Every value of a basic type is abstracted as a range of integers, a small set of
constants, or ⊤ if neither applies.`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	utils.BindFlags(rootCmd.Flags())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if path := opts.Config(); path != "" {
		if err := utils.ApplyConfig(path, cmd.Flags()); err != nil {
			return err
		}
	}

	if opts.Verbose() {
		log.SetLevel(log.DebugLevel)
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		utils.SetNoColorize(true)
	}
	if opts.NoColorize() {
		color.NoColor = true
	}

	pkgs, err := pkgutil.LoadPackages(pkgutil.LoadConfig{
		ModulePath:   opts.ModulePath(),
		IncludeTests: opts.IncludeTests(),
	}, args...)
	if err != nil {
		return fmt.Errorf("failed to load packages: %w", err)
	}

	prog, ssaPkgs := ssautil.AllPackages(pkgs, 0)
	prog.Build()

	pl := pipeline{prog: prog, pkgs: ssaPkgs}
	results, err := pl.analyze(valueflow.DefaultConfig())
	if err != nil {
		return err
	}

	pl.report(cmd.OutOrStdout(), results)
	return nil
}
