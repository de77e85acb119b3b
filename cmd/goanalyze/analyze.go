package main

import (
	"io"
	"io/ioutil"

	"github.com/npillmayer/gofront/gosub"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE...",
	Short: "Analyze source files",
	Long:  "Analyzes each file on its own and prints a report. Exit status is 1 if any file contains errors.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	return analyzeFiles(cmd.OutOrStdout(), args, conf)
}

// analyzeFiles analyzes and reports files. It returns errFindings if any
// file contains errors.
func analyzeFiles(w io.Writer, filenames []string, c config) error {
	findings := false
	for _, filename := range filenames {
		src, err := ioutil.ReadFile(filename)
		if err != nil {
			return fileError(err, filename)
		}
		tracer().Infof("analyzing %s", filename)
		r := gosub.Analyze(string(src))
		if err := report(w, filename, r, c); err != nil {
			return fileError(err, filename)
		}
		findings = findings || r.HasErrors()
	}
	if findings {
		return errFindings
	}
	return nil
}
