// pipeline.go — one-shot front-end pipeline over a single source unit.
//
// Run wires the stages together: dialect detection, lexing, parsing,
// analysis. Each invocation owns a fresh Reporter and a fresh Table, so
// concurrent runs over different files never share mutable state; the CLI
// exploits that by checking files in parallel, and the language server by
// reanalyzing documents independently.
package wscript

// FileResult carries everything the pipeline produced for one unit.
type FileResult struct {
	Name       string // file path or LSP URI, for display only
	Source     string
	Tokens     []Token
	Program    *Program
	Table      *Table
	Confidence Confidence
	Mode       LanguageMode
	Summary    Result
	Reporter   *Reporter
}

// Diagnostics returns the run's diagnostics in timestamp order.
func (fr *FileResult) Diagnostics() []Diagnostic { return fr.Reporter.All() }

// HasErrors reports whether the run produced at least one error.
func (fr *FileResult) HasErrors() bool { return fr.Reporter.ErrorCount() > 0 }

// Run lexes, parses and analyzes src under cfg. It never fails: broken
// input comes back as diagnostics on the result's Reporter, with the
// surviving partial AST and symbol table alongside.
func Run(name, src string, cfg Config) *FileResult {
	rep := NewReporter(cfg.MaxErrors)

	conf := DetectDialect(src)
	mode := conf.Mode()
	if m := GuessModeFromFilename(name); m != MixedMode {
		mode = m // extension beats content heuristics
	}

	toks := Tokenize(src, LexOptions{KeepTrivia: cfg.KeepTrivia}, rep)
	prog := Parse(toks, cfg.Parser, rep)

	an := NewAnalyzer(rep)
	summary := an.Analyze(prog)

	return &FileResult{
		Name:       name,
		Source:     src,
		Tokens:     toks,
		Program:    prog,
		Table:      an.Table(),
		Confidence: conf,
		Mode:       mode,
		Summary:    summary,
		Reporter:   rep,
	}
}

// CheckSource is the minimal entry point used by tests and the REPL: defaults
// everywhere, diagnostics back.
func CheckSource(src string) *FileResult {
	return Run("<input>", src, DefaultConfig())
}
