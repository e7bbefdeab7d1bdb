// errors.go — bounded diagnostic sink and caret-snippet rendering.
//
// What this file does
// -------------------
// The Reporter is the error-handling subsystem of the front end: a bounded
// accumulator that every pipeline stage (lexer, parser, analyzer) reports
// into. It classifies diagnostics by category and severity, caps the number
// of ERROR-severity entries so pathological input cannot grow memory without
// bound, and produces deterministic textual reports for tooling and logs.
//
// It also renders Python-style caret snippets for CLI output:
//
//	SYNTAX ERROR in gun.wes at 3:12: expected ';' after declaration
//
//	   2 | int ammo = 30
//	   3 | float spread
//	       |            ^
//	   4 | }
//
// Behavior guarantees
// -------------------
//   - A fresh Reporter is created per analysis invocation; nothing is shared
//     across documents, so concurrent pipelines never contend.
//   - Once the error cap is hit, further ERROR reports are dropped and a
//     single synthetic FATAL "too many errors" entry is appended — exactly
//     once. Warnings and infos are unaffected.
//   - HasFatal() becomes true on any FATAL report. The parser and analyzer
//     do not stop on fatal; downstream build stages use it as a gate.
//   - GenerateReport/ExportLog output is stable for a given diagnostic set.
package wscript

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Category classifies a diagnostic by pipeline stage.
type Category int

const (
	LexicalError Category = iota
	SyntaxError
	SemanticError
	TypeCheckError
	RuntimeFault
	CompilationError
	InternalError
	FatalError
)

func (c Category) String() string {
	switch c {
	case LexicalError:
		return "LEXICAL"
	case SyntaxError:
		return "SYNTAX"
	case SemanticError:
		return "SEMANTIC"
	case TypeCheckError:
		return "TYPE"
	case RuntimeFault:
		return "RUNTIME"
	case CompilationError:
		return "COMPILATION"
	case InternalError:
		return "INTERNAL"
	case FatalError:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Severity grades a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	case SeverityFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Diagnostic is one issue found in a source unit. Line is 1-based, Col is a
// 0-based byte column (token coordinates); Span is the byte interval the
// issue covers, when known.
type Diagnostic struct {
	Category   Category
	Severity   Severity
	Message    string
	Line       int
	Col        int
	Span       Span
	Suggestion string
	When       time.Time
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s %d:%d %s", d.Severity, d.Category, d.Line, d.Col+1, d.Message)
}

// DefaultMaxErrors caps ERROR-severity entries per analysis pass.
const DefaultMaxErrors = 50

// Reporter accumulates diagnostics for one analysis invocation.
type Reporter struct {
	max       int
	errors    []Diagnostic // SeverityError and SeverityFatal entries
	warnings  []Diagnostic // SeverityInfo and SeverityWarning entries
	fatal     bool
	truncated bool
	now       func() time.Time
}

// NewReporter creates a Reporter; maxErrors <= 0 selects DefaultMaxErrors.
func NewReporter(maxErrors int) *Reporter {
	if maxErrors <= 0 {
		maxErrors = DefaultMaxErrors
	}
	return &Reporter{max: maxErrors, now: time.Now}
}

// Clear resets the Reporter to empty, keeping its configuration.
func (r *Reporter) Clear() {
	r.errors = nil
	r.warnings = nil
	r.fatal = false
	r.truncated = false
}

// Report appends a diagnostic, enforcing the error cap.
func (r *Reporter) Report(d Diagnostic) {
	if d.When.IsZero() {
		d.When = r.now()
	}
	switch d.Severity {
	case SeverityError:
		if len(r.errors) >= r.max {
			if !r.truncated {
				r.truncated = true
				r.fatal = true
				r.errors = append(r.errors, Diagnostic{
					Category: FatalError,
					Severity: SeverityFatal,
					Message:  fmt.Sprintf("too many errors (limit %d); further errors suppressed", r.max),
					When:     d.When,
				})
			}
			return
		}
		r.errors = append(r.errors, d)
	case SeverityFatal:
		r.fatal = true
		r.errors = append(r.errors, d)
	default:
		r.warnings = append(r.warnings, d)
	}
}

// Errorf reports an ERROR-severity diagnostic at line/col.
func (r *Reporter) Errorf(cat Category, line, col int, format string, a ...any) {
	r.Report(Diagnostic{
		Category: cat,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, a...),
		Line:     line,
		Col:      col,
	})
}

// Warnf reports a WARNING-severity diagnostic at line/col.
func (r *Reporter) Warnf(cat Category, line, col int, format string, a ...any) {
	r.Report(Diagnostic{
		Category: cat,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf(format, a...),
		Line:     line,
		Col:      col,
	})
}

// HasFatal reports whether any FATAL diagnostic was recorded. Intended to
// short-circuit downstream build/packaging stages; the front end itself
// keeps going so clients always get a complete diagnostic list.
func (r *Reporter) HasFatal() bool { return r.fatal }

// ErrorCount returns the number of ERROR/FATAL entries recorded.
func (r *Reporter) ErrorCount() int { return len(r.errors) }

// WarningCount returns the number of INFO/WARNING entries recorded.
func (r *Reporter) WarningCount() int { return len(r.warnings) }

// Errors returns a copy of the ERROR/FATAL entries in report order.
func (r *Reporter) Errors() []Diagnostic {
	return append([]Diagnostic(nil), r.errors...)
}

// Warnings returns a copy of the INFO/WARNING entries in report order.
func (r *Reporter) Warnings() []Diagnostic {
	return append([]Diagnostic(nil), r.warnings...)
}

// All returns every diagnostic ordered by timestamp, errors before warnings
// at equal instants. Report order is preserved within each class.
func (r *Reporter) All() []Diagnostic {
	out := make([]Diagnostic, 0, len(r.errors)+len(r.warnings))
	i, j := 0, 0
	for i < len(r.errors) && j < len(r.warnings) {
		if !r.warnings[j].When.Before(r.errors[i].When) {
			out = append(out, r.errors[i])
			i++
		} else {
			out = append(out, r.warnings[j])
			j++
		}
	}
	out = append(out, r.errors[i:]...)
	out = append(out, r.warnings[j:]...)
	return out
}

// GenerateReport renders a deterministic plain-text summary of everything
// recorded, timestamp-ordered.
func (r *Reporter) GenerateReport() string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== diagnostics: %d error(s), %d warning(s) ===\n",
		len(r.errors), len(r.warnings))
	for _, d := range r.All() {
		fmt.Fprintf(&b, "%s\n", d.String())
		if d.Suggestion != "" {
			fmt.Fprintf(&b, "    suggestion: %s\n", d.Suggestion)
		}
	}
	return b.String()
}

// ExportLog writes a timestamped log of all diagnostics to w, one line per
// entry, in timestamp order.
func (r *Reporter) ExportLog(w io.Writer) error {
	for _, d := range r.All() {
		if _, err := fmt.Fprintf(w, "%s %s\n", d.When.Format(time.RFC3339Nano), d.String()); err != nil {
			return err
		}
	}
	return nil
}

/* ===========================
   Caret snippet rendering
   =========================== */

// FormatDiagnostic renders a diagnostic as a caret-annotated snippet of the
// source, with up to one line of context before and after. Coordinates are
// clamped so out-of-range positions never crash rendering. Plain text, no
// ANSI escapes; CLI coloring happens in cmd/wscript.
func FormatDiagnostic(src, srcName string, d Diagnostic) string {
	header := fmt.Sprintf("%s %s", d.Category, d.Severity)
	return prettySnippet(src, header, srcName, d.Line, d.Col+1, d.Message)
}

// prettySnippet builds a Python-like snippet with a header and a caret.
// Line/col are treated as 1-based and clamped to the source bounds.
func prettySnippet(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	caretPad := col - 1
	if caretPad > len(lineTxt) {
		caretPad = len(lineTxt)
	}
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", caretPad))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
