// cli_test.go
package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	wscript "github.com/Elastic-Softworks/worldenv-sub006"
)

// captureStdout pipes os.Stdout through a buffer while fn runs.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	oldColor := colorEnabled
	colorEnabled = false
	defer func() {
		os.Stdout = old
		colorEnabled = oldColor
	}()

	fn()

	require.NoError(t, w.Close())
	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCheckFiles_CleanAndBroken(t *testing.T) {
	config = wscript.DefaultConfig()
	good := writeTemp(t, "good.c", "int frames = 0;\nvoid tick() { frames++; }\n")
	bad := writeTemp(t, "bad.c", "int hp = \"full\";\n")

	var n int
	out := captureStdout(t, func() {
		var err error
		n, err = checkFiles([]string{good, bad})
		require.NoError(t, err)
	})

	require.Equal(t, 1, n, "exactly one file has errors")
	require.Contains(t, out, "ok "+good)
	require.Contains(t, out, "fail "+bad)
	require.Contains(t, out, "cannot use value of type")
}

func TestCheckFiles_MissingFile(t *testing.T) {
	config = wscript.DefaultConfig()
	_, err := checkFiles([]string{filepath.Join(t.TempDir(), "nope.c")})
	require.Error(t, err)
}

func TestTokensCommand_PrintsStream(t *testing.T) {
	config = wscript.DefaultConfig()
	path := writeTemp(t, "a.ts", "let hp: number = 42;\n")

	out := captureStdout(t, func() {
		require.NoError(t, runTokens(tokensCmd, []string{path}))
	})

	require.Contains(t, out, "IDENT")
	require.Contains(t, out, `"hp"`)
	require.Contains(t, out, "INT_LIT")
	require.Contains(t, out, "(42)", "integer literal value is shown")
}

func TestDetectCommand_ReportsScores(t *testing.T) {
	config = wscript.DefaultConfig()
	path := writeTemp(t, "a.cpp", "namespace e { class P {}; }\n")

	out := captureStdout(t, func() {
		require.NoError(t, runDetect(detectCmd, []string{path}))
	})

	require.Contains(t, out, "scores")
	require.Contains(t, out, "cpp")
}

func TestNestingDepth(t *testing.T) {
	require.Equal(t, 0, nestingDepth("int a = 1;"))
	require.Equal(t, 1, nestingDepth("void f() {"))
	require.Equal(t, 0, nestingDepth("void f() { return; }"))
	require.Equal(t, 0, nestingDepth(`const char* s = "{[(";`), "delimiters inside strings don't nest")
	require.Equal(t, 2, nestingDepth("class A { void m() {"))
}

func TestRenderDiagnostic_PlainWithoutTTY(t *testing.T) {
	oldColor := colorEnabled
	colorEnabled = false
	defer func() { colorEnabled = oldColor }()

	fr := wscript.CheckSource("int hp = \"full\";\n")
	diags := fr.Diagnostics()
	require.NotEmpty(t, diags)
	out := renderDiagnostic(fr.Source, fr.Name, diags[0])
	require.Contains(t, out, "cannot use value of type")
	require.NotContains(t, out, "\x1b[", "no ANSI escapes when piped")
}
