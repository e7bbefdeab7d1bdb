// cmd/wscript/cmd_repl.go
//
// ROLE: `wscript repl` — interactive front-end checking with line editing
// and history.
//
// Input is accumulated until the braces balance, then the whole buffer goes
// through the pipeline and the diagnostics (or a green summary) come back.
// Nothing is executed; the REPL is a checker, not an interpreter.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	wscript "github.com/Elastic-Softworks/worldenv-sub006"
)

const (
	historyFile = ".wscript_history"
	promptMain  = "==> "
	promptCont  = "... "
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactively check script snippets",
	Args:  cobra.NoArgs,
	RunE:  runRepl,
}

func runRepl(cmd *cobra.Command, args []string) error {
	fmt.Println("wscript REPL. Ctrl+C cancels input, Ctrl+D exits. Type :quit to exit.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		code, ok := readBalanced(ln)
		if !ok {
			fmt.Println()
			return nil
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit", ":q":
				return nil
			case ":help":
				fmt.Println("REPL commands:\n  :quit    Exit the REPL\n  :help    Show this help")
			default:
				fmt.Println("unknown command. Type :quit to exit.")
			}
			continue
		}

		fr := wscript.Run("<repl>", code, config)
		for _, d := range fr.Diagnostics() {
			fmt.Println(renderDiagnostic(code, "<repl>", d))
		}
		if !fr.HasErrors() {
			fmt.Println(paint(styleOK, fmt.Sprintf("ok [%s] %d symbols, %d checks",
				fr.Mode, fr.Summary.SymbolsFound, fr.Summary.TypesChecked)))
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// readBalanced reads lines until the brace/paren/bracket depth returns to
// zero, so multi-line declarations can be typed naturally. Ctrl+C abandons
// the buffer; EOF ends the session.
func readBalanced(ln *liner.State) (string, bool) {
	var buf strings.Builder
	prompt := promptMain
	for {
		line, err := ln.Prompt(prompt)
		if err == liner.ErrPromptAborted {
			return "", true // aborted input, empty buffer
		}
		if err != nil {
			return "", false
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(line)
		if nestingDepth(buf.String()) <= 0 {
			return buf.String(), true
		}
		prompt = promptCont
	}
}

// nestingDepth lexes the buffer and reports the open delimiter depth.
// Lexing, not string scanning, so braces inside string literals and comments
// don't count.
func nestingDepth(src string) int {
	rep := wscript.NewReporter(wscript.DefaultMaxErrors)
	depth := 0
	for _, t := range wscript.Tokenize(src, wscript.LexOptions{}, rep) {
		switch t.Type {
		case wscript.LBRACE, wscript.LPAREN, wscript.LBRACKET:
			depth++
		case wscript.RBRACE, wscript.RPAREN, wscript.RBRACKET:
			depth--
		}
	}
	return depth
}
