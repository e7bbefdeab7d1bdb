// errors_test.go
package wscript

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func Test_Reporter_CountsBySeverity(t *testing.T) {
	rep := NewReporter(DefaultMaxErrors)
	rep.Errorf(SyntaxError, 1, 0, "bad token")
	rep.Errorf(SemanticError, 2, 4, "undeclared")
	rep.Warnf(SemanticError, 3, 0, "shadowed")
	if rep.ErrorCount() != 2 || rep.WarningCount() != 1 {
		t.Fatalf("counts: %d errors, %d warnings", rep.ErrorCount(), rep.WarningCount())
	}
	if rep.HasFatal() {
		t.Fatal("plain errors must not set the fatal flag")
	}
}

func Test_Reporter_ErrorCap(t *testing.T) {
	rep := NewReporter(5)
	for i := 0; i < 20; i++ {
		rep.Errorf(SyntaxError, i+1, 0, "error %d", i)
	}
	// 5 real errors plus one synthetic FATAL about the cap
	if got := rep.ErrorCount(); got != 6 {
		t.Fatalf("capped count: want 6, got %d", got)
	}
	if !rep.HasFatal() {
		t.Fatal("overflowing the cap must set fatal")
	}
	last := rep.Errors()[5]
	if last.Severity != SeverityFatal || !strings.Contains(last.Message, "too many errors") {
		t.Fatalf("synthetic fatal entry: %+v", last)
	}
}

func Test_Reporter_WarningsNotCapped(t *testing.T) {
	rep := NewReporter(3)
	for i := 0; i < 10; i++ {
		rep.Warnf(SemanticError, i+1, 0, "warn %d", i)
	}
	if rep.WarningCount() != 10 {
		t.Fatalf("warnings must not count against the error cap: %d", rep.WarningCount())
	}
	if rep.HasFatal() {
		t.Fatal("warnings alone must never go fatal")
	}
}

func Test_Reporter_ExplicitFatalAlwaysRecorded(t *testing.T) {
	rep := NewReporter(1)
	rep.Errorf(SyntaxError, 1, 0, "first")
	rep.Report(Diagnostic{Category: InternalError, Severity: SeverityFatal,
		Message: "invariant broken", Line: 2})
	if !rep.HasFatal() {
		t.Fatal("explicit FATAL must set the flag")
	}
	found := false
	for _, d := range rep.Errors() {
		if d.Message == "invariant broken" {
			found = true
		}
	}
	if !found {
		t.Fatal("explicit FATAL must be recorded even at the cap")
	}
}

func Test_Reporter_ClearResets(t *testing.T) {
	rep := NewReporter(2)
	rep.Errorf(SyntaxError, 1, 0, "a")
	rep.Errorf(SyntaxError, 2, 0, "b")
	rep.Errorf(SyntaxError, 3, 0, "c") // overflows
	rep.Clear()
	if rep.ErrorCount() != 0 || rep.HasFatal() {
		t.Fatal("Clear must reset counts and the fatal flag")
	}
	rep.Errorf(SyntaxError, 1, 0, "fresh")
	if rep.ErrorCount() != 1 {
		t.Fatal("reporter must be usable after Clear")
	}
}

func Test_Reporter_GenerateReportFormat(t *testing.T) {
	rep := NewReporter(DefaultMaxErrors)
	rep.Report(Diagnostic{
		Category: TypeCheckError, Severity: SeverityError,
		Message: "cannot use string as int", Line: 7, Col: 4,
		Suggestion: "change the declared type",
	})
	out := rep.GenerateReport()
	for _, want := range []string{"1 error(s)", "TYPE", "7:5", "change the declared type"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func Test_Reporter_ExportLog(t *testing.T) {
	rep := NewReporter(DefaultMaxErrors)
	rep.Errorf(LexicalError, 1, 2, "stray byte")
	var buf bytes.Buffer
	if err := rep.ExportLog(&buf); err != nil {
		t.Fatal(err)
	}
	line := buf.String()
	if !strings.Contains(line, "LEXICAL") || !strings.Contains(line, "stray byte") {
		t.Fatalf("log line: %q", line)
	}
	// timestamp must be RFC3339 parseable
	fields := strings.Fields(line)
	if _, err := time.Parse(time.RFC3339Nano, fields[0]); err != nil {
		t.Fatalf("timestamp %q: %v", fields[0], err)
	}
}

func Test_Reporter_AllMergesByTime(t *testing.T) {
	rep := NewReporter(DefaultMaxErrors)
	rep.Errorf(SyntaxError, 1, 0, "e1")
	rep.Warnf(SemanticError, 2, 0, "w1")
	rep.Errorf(SemanticError, 3, 0, "e2")
	all := rep.All()
	if len(all) != 3 {
		t.Fatalf("All: want 3, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].When.Before(all[i-1].When) {
			t.Fatal("All must be ordered by report time")
		}
	}
}

func Test_FormatDiagnostic_CaretSnippet(t *testing.T) {
	src := "int a;\nint a;\nint b;\n"
	d := Diagnostic{
		Category: SemanticError, Severity: SeverityError,
		Message: `redefinition of "a"`, Line: 2, Col: 4,
	}
	out := FormatDiagnostic(src, "dup.wes", d)
	if !strings.Contains(out, "dup.wes") {
		t.Fatalf("missing file name:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Fatalf("missing caret:\n%s", out)
	}
	if !strings.Contains(out, "int a;") {
		t.Fatalf("missing source line:\n%s", out)
	}
}

func Test_FormatDiagnostic_OutOfRangeCoordinatesClamped(t *testing.T) {
	out := FormatDiagnostic("x", "f.wes", Diagnostic{
		Category: InternalError, Severity: SeverityError,
		Message: "weird", Line: 99, Col: 99,
	})
	if out == "" {
		t.Fatal("clamped rendering must still produce output")
	}
}

func Test_ErrorCap_EndToEnd(t *testing.T) {
	// a torrent of bad declarations must cut off at the configured cap
	// with a synthetic FATAL and still terminate
	src := strings.Repeat("@@ ;\n", 200)
	cfg := DefaultConfig()
	cfg.MaxErrors = 10
	fr := Run("storm.wes", src, cfg)
	if got := fr.Reporter.ErrorCount(); got != 11 {
		t.Fatalf("want 10 errors + 1 fatal, got %d", got)
	}
	if !fr.Reporter.HasFatal() {
		t.Fatal("cap overflow must be fatal")
	}
}
