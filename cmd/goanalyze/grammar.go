package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/gofront/gosub/parser"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var grammarCmd = &cobra.Command{
	Use:   "grammar",
	Short: "Print and verify the EBNF of the Go subset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printGrammar(cmd.OutOrStdout())
	},
}

func printGrammar(w io.Writer) error {
	fmt.Fprintln(w, strings.TrimSpace(parser.Syntax))
	n, err := parser.VerifySyntax()
	if err != nil {
		return errors.Wrap(err, "grammar of Go subset")
	}
	fmt.Fprintln(w, pterm.Success.Sprintf("%d productions, start symbol %s", n, parser.SyntaxStart))
	return nil
}
