package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/npillmayer/gofront/gosub/parser"
	"github.com/npillmayer/gofront/lr"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	flagHTML string
	flagDot  string
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Export the SLR(1) tables of the expression grammar",
	Long:  "Prints the rules of the operator expression grammar. Optionally exports the ACTION and GOTO tables as HTML and the CFSM in Graphviz format.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportTables(cmd.OutOrStdout(), flagHTML, flagDot)
	},
}

func init() {
	tablesCmd.Flags().StringVar(&flagHTML, "html", "", "write ACTION and GOTO tables to an HTML file")
	tablesCmd.Flags().StringVar(&flagDot, "dot", "", "write the CFSM to a Graphviz file")
}

func exportTables(w io.Writer, htmlFile, dotFile string) error {
	lrgen := parser.ExpressionTables()
	g := lrgen.Grammar()
	data := pterm.TableData{{"#", "Rule"}}
	for i := 0; i < g.Size(); i++ {
		data = append(data, []string{strconv.Itoa(i), g.Rule(i).String()})
	}
	if err := renderTable(w, data); err != nil {
		return err
	}
	fmt.Fprintln(w, pterm.Info.Sprintf("%d rules, %d CFSM states", g.Size(), lrgen.CFSM().StateCount()))
	if htmlFile != "" {
		err := writeFile(htmlFile, func(f io.Writer) {
			lr.ActionTableAsHTML(lrgen, f)
			lr.GotoTableAsHTML(lrgen, f)
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(w, pterm.Info.Sprintf("tables written to %s", htmlFile))
	}
	if dotFile != "" {
		if err := writeFile(dotFile, lrgen.CFSM().CFSM2GraphViz); err != nil {
			return err
		}
		fmt.Fprintln(w, pterm.Info.Sprintf("CFSM written to %s", dotFile))
	}
	return nil
}

func writeFile(filename string, write func(io.Writer)) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "creating export file")
	}
	write(f)
	return errors.Wrapf(f.Close(), "writing %s", filename)
}
