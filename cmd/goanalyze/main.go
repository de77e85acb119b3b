/*
Command goanalyze is a command line front-end for the Go subset analyzer.

	goanalyze analyze FILE...     analyze source files and print a report
	goanalyze repl                analyze snippets interactively
	goanalyze tables              export the parser tables for expressions
	goanalyze grammar             print and verify the EBNF of the Go subset

Global flags select the trace level, a configuration file (YAML) and the
output format (text or json). Flags override values of the configuration file.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"fmt"
	"os"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// tracer traces with key 'gofront.analyzer'.
func tracer() tracing.Trace {
	return tracing.Select("gofront.analyzer")
}

// traceKeys are the trace keys of all packages of the analyzer.
var traceKeys = []string{
	"gofront.lr", "gofront.scanner", "gofront.parser",
	"gofront.sema", "gofront.symtab", "gofront.analyzer",
}

var (
	flagTrace  string
	flagConfig string
	flagFormat string
)

// conf is the effective configuration, set up before any command runs.
var conf = defaultConfig()

// errFindings signals that analyzed sources contain errors. It has already
// been reported, main() only sets the exit status.
var errFindings = errors.New("sources contain errors")

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Cause(err) != errFindings {
			pterm.Error.Println(err.Error())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "goanalyze",
	Short:         "Static front-end analyzer for a subset of Go",
	Long:          "goanalyze tokenizes, parses and checks programs written in a subset of Go and reports diagnostics and symbol tables.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagTrace, "trace", "", "trace level [Debug|Info|Error]")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "configuration file (YAML)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "", "output format: text|json")
	rootCmd.AddCommand(analyzeCmd, replCmd, tablesCmd, grammarCmd)
}

// setup loads the configuration, applies flags and initializes tracing and
// display.
func setup(cmd *cobra.Command) error {
	c := defaultConfig()
	if flagConfig != "" {
		var err error
		if c, err = loadConfig(flagConfig); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("trace") {
		c.Trace = flagTrace
	}
	if cmd.Flags().Changed("format") {
		c.Format = flagFormat
	}
	if err := c.validate(); err != nil {
		return err
	}
	conf = c
	gtrace.SyntaxTracer = gologadapter.New()
	level := tracing.TraceLevelFromString(conf.Trace)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
	initDisplay()
	tracer().Debugf("configuration: %+v", conf)
	return nil
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
	pterm.Warning.Prefix = pterm.Prefix{
		Text:  "  WARN",
		Style: pterm.NewStyle(pterm.BgYellow, pterm.FgBlack),
	}
}

func fileError(err error, filename string) error {
	return errors.Wrap(err, fmt.Sprintf("file %q", filename))
}
