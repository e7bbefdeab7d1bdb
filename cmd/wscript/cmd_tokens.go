// cmd/wscript/cmd_tokens.go
//
// ROLE: `wscript tokens` — dump the token stream of a file, one per line.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	wscript "github.com/Elastic-Softworks/worldenv-sub006"
)

var (
	triviaFlag bool

	tokensCmd = &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the lexed token stream of a script file",
		Args:  cobra.ExactArgs(1),
		RunE:  runTokens,
	}
)

func init() {
	tokensCmd.Flags().BoolVar(&triviaFlag, "trivia", false, "include comment/whitespace/preprocessor tokens")
}

func runTokens(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	rep := wscript.NewReporter(config.MaxErrors)
	toks := wscript.Tokenize(string(data), wscript.LexOptions{KeepTrivia: triviaFlag}, rep)

	for _, t := range toks {
		loc := fmt.Sprintf("%4d:%-3d", t.Line, t.Col+1)
		line := fmt.Sprintf("%s %-14s %q", paint(styleMuted, loc), t.Type, t.Lexeme)
		if t.Literal != nil {
			line += paint(styleInfo, fmt.Sprintf("  (%v)", t.Literal))
		}
		fmt.Println(line)
	}
	for _, d := range rep.All() {
		fmt.Println(renderDiagnostic(string(data), args[0], d))
	}
	if rep.ErrorCount() > 0 {
		os.Exit(1)
	}
	return nil
}
