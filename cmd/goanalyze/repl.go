package main

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/gofront/gosub"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Analyze snippets interactively",
	Long: `Starts an interactive session. Lines are collected until a line ';;' is
entered, then the collected source is analyzed. ':reset' discards the
collected lines, ':quit' or <ctrl>D ends the session. Sources without a
package clause are analyzed as package main.`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func runREPL(cmd *cobra.Command, args []string) error {
	rl, err := readline.New("goanalyze> ")
	if err != nil {
		return err
	}
	defer rl.Close()
	pterm.Info.Println("Welcome to goanalyze")
	pterm.Info.Println("Analyze with ';;', quit with <ctrl>D")
	sess := &session{repl: rl, out: cmd.OutOrStdout(), conf: conf}
	sess.loop()
	pterm.Info.Println("Good bye!")
	return nil
}

// session is an interactive analysis session.
type session struct {
	repl  *readline.Instance
	out   io.Writer
	conf  config
	lines []string
}

func (s *session) loop() {
	for {
		line, err := s.repl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		if quit := s.eval(line); quit {
			break
		}
	}
}

// eval processes an input line and is true if the session should end.
func (s *session) eval(line string) bool {
	switch strings.TrimSpace(line) {
	case ":quit":
		return true
	case ":reset":
		s.lines = s.lines[:0]
		s.repl.SetPrompt("goanalyze> ")
		return false
	case ";;":
		src := snippet(s.lines)
		s.lines = s.lines[:0]
		s.repl.SetPrompt("goanalyze> ")
		if err := report(s.out, "input", gosub.Analyze(src), s.conf); err != nil {
			pterm.Error.Println(err.Error())
		}
		return false
	}
	s.lines = append(s.lines, line)
	s.repl.SetPrompt("        .. ")
	return false
}

// snippet joins input lines into a source text. A missing package clause is
// supplied.
func snippet(lines []string) string {
	src := strings.Join(lines, "\n") + "\n"
	if !strings.HasPrefix(strings.TrimSpace(src), "package") {
		src = "package main\n" + src
	}
	return src
}
