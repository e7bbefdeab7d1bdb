// server_test.go
package main

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	wscript "github.com/Elastic-Softworks/worldenv-sub006"
)

// -----------------------------------------------------------------------------
// Harness
// -----------------------------------------------------------------------------

// capture swaps stdoutSink for a buffer, runs fn, and returns the decoded
// frame bodies the server wrote.
func capture(t *testing.T, fn func()) []json.RawMessage {
	t.Helper()
	old := stdoutSink
	var buf bytes.Buffer
	stdoutSink = &buf
	defer func() { stdoutSink = old }()
	fn()
	return splitFrames(t, buf.Bytes())
}

func splitFrames(t *testing.T, raw []byte) []json.RawMessage {
	t.Helper()
	var out []json.RawMessage
	for len(raw) > 0 {
		sep := bytes.Index(raw, []byte("\r\n\r\n"))
		if sep < 0 {
			t.Fatalf("frame without header terminator: %q", raw)
		}
		header := string(raw[:sep])
		var n int
		for _, line := range strings.Split(header, "\r\n") {
			if strings.HasPrefix(strings.ToLower(line), "content-length:") {
				v, err := strconv.Atoi(strings.TrimSpace(line[len("content-length:"):]))
				if err != nil {
					t.Fatalf("bad content-length in %q", line)
				}
				n = v
			}
		}
		body := raw[sep+4 : sep+4+n]
		out = append(out, json.RawMessage(append([]byte(nil), body...)))
		raw = raw[sep+4+n:]
	}
	return out
}

func openDoc(t *testing.T, s *server, uri, text string) []json.RawMessage {
	t.Helper()
	raw, _ := json.Marshal(DidOpenParams{TextDocument: TextDocumentItem{
		URI: uri, LanguageID: "wscript", Version: 1, Text: text,
	}})
	return capture(t, func() { s.onDidOpen(raw) })
}

// posOf locates needle in text and converts its byte offset to an LSP
// position; occurrence counts from 1.
func posOf(t *testing.T, text, needle string, occurrence int) Position {
	t.Helper()
	off, from := -1, 0
	for i := 0; i < occurrence; i++ {
		j := strings.Index(text[from:], needle)
		if j < 0 {
			t.Fatalf("needle %q (occurrence %d) not in text", needle, occurrence)
		}
		off = from + j
		from = off + len(needle)
	}
	return offsetToPos(lineOffsets(text), off, text)
}

func posParams(uri string, p Position) json.RawMessage {
	raw, _ := json.Marshal(TextDocumentPositionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Position:     p,
	})
	return raw
}

func decodeResult(t *testing.T, frame json.RawMessage, into any) {
	t.Helper()
	var env struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(frame, &env); err != nil {
		t.Fatalf("bad frame: %v", err)
	}
	if err := json.Unmarshal(env.Result, into); err != nil {
		t.Fatalf("bad result payload: %v\n%s", err, env.Result)
	}
}

func lastPublish(t *testing.T, frames []json.RawMessage) PublishDiagnosticsParams {
	t.Helper()
	for i := len(frames) - 1; i >= 0; i-- {
		var env struct {
			Method string          `json:"method"`
			Params json.RawMessage `json:"params"`
		}
		if json.Unmarshal(frames[i], &env) == nil && env.Method == "textDocument/publishDiagnostics" {
			var p PublishDiagnosticsParams
			if err := json.Unmarshal(env.Params, &p); err != nil {
				t.Fatalf("bad publishDiagnostics params: %v", err)
			}
			return p
		}
	}
	t.Fatalf("no publishDiagnostics notification in %d frames", len(frames))
	return PublishDiagnosticsParams{}
}

// -----------------------------------------------------------------------------
// Position math
// -----------------------------------------------------------------------------

func Test_Positions_ASCIIRoundTrip(t *testing.T) {
	text := "int a;\nint bb;\n"
	lines := lineOffsets(text)
	for off := 0; off <= len(text); off++ {
		p := offsetToPos(lines, off, text)
		if back := posToOffset(lines, p, text); back != off {
			t.Fatalf("offset %d -> %+v -> %d", off, p, back)
		}
	}
}

func Test_Positions_UTF16Columns(t *testing.T) {
	// 𝓍 is outside the BMP: one rune, four bytes, two UTF-16 units
	text := "let 𝓍 = 1;\n"
	lines := lineOffsets(text)

	off := strings.Index(text, "=")
	p := offsetToPos(lines, off, text)
	// l-e-t-space (4) + surrogate pair (2) + space (1)
	if p.Character != 7 {
		t.Fatalf("UTF-16 column of '=': want 7, got %d", p.Character)
	}
	if back := posToOffset(lines, p, text); back != off {
		t.Fatalf("round trip: want %d, got %d", off, back)
	}
}

func Test_Positions_ClampOutOfRange(t *testing.T) {
	text := "x\n"
	lines := lineOffsets(text)
	if got := posToOffset(lines, Position{Line: 99, Character: 0}, text); got != len(text) {
		t.Fatalf("line past EOF must clamp to len(text), got %d", got)
	}
	if got := posToOffset(lines, Position{Line: 0, Character: 99}, text); got != 1 {
		t.Fatalf("column past EOL must clamp to the newline, got %d", got)
	}
}

func Test_ApplyChange_FullAndIncremental(t *testing.T) {
	text := "int a = 1;\n"
	lines := lineOffsets(text)

	full := applyChange(text, lines, TextDocumentContentChangeEvent{Text: "float b;\n"})
	if full != "float b;\n" {
		t.Fatalf("nil range must replace the whole document, got %q", full)
	}

	start := offsetToPos(lines, strings.Index(text, "1"), text)
	end := offsetToPos(lines, strings.Index(text, "1")+1, text)
	inc := applyChange(text, lines, TextDocumentContentChangeEvent{
		Range: &Range{Start: start, End: end},
		Text:  "42",
	})
	if inc != "int a = 42;\n" {
		t.Fatalf("incremental splice: got %q", inc)
	}
}

// -----------------------------------------------------------------------------
// Document lifecycle & diagnostics
// -----------------------------------------------------------------------------

func Test_DidOpen_PublishesTypedDiagnostics(t *testing.T) {
	s := newServer()
	frames := openDoc(t, s, "file:///a.wes", "int hp = \"full\";\n")

	p := lastPublish(t, frames)
	if p.URI != "file:///a.wes" || len(p.Diagnostics) == 0 {
		t.Fatalf("want diagnostics for the opened doc, got %+v", p)
	}
	d := p.Diagnostics[0]
	if d.Severity != 1 || d.Source != "wscript" {
		t.Fatalf("diagnostic severity/source: %+v", d)
	}
	if d.Data == nil || d.Data.ErrorCategory != "TYPE" {
		t.Fatalf("diagnostic must carry the TYPE category payload, got %+v", d.Data)
	}
	if d.Range.Start.Line != 0 {
		t.Fatalf("diagnostic on line 0, got %d", d.Range.Start.Line)
	}
}

func Test_DidChange_ReanalyzesNewBuffer(t *testing.T) {
	s := newServer()
	uri := "file:///b.wes"
	openDoc(t, s, uri, "int a = 1;\n")

	text := "int a = 1;\n"
	lines := lineOffsets(text)
	start := offsetToPos(lines, strings.Index(text, "1"), text)
	end := offsetToPos(lines, strings.Index(text, "1")+1, text)
	raw, _ := json.Marshal(DidChangeParams{
		TextDocument: VersionedTextDocumentIdentifier{URI: uri, Version: 2},
		ContentChanges: []TextDocumentContentChangeEvent{{
			Range: &Range{Start: start, End: end},
			Text:  "\"oops\"",
		}},
	})
	frames := capture(t, func() { s.onDidChange(raw) })

	d := s.snapshotDoc(uri)
	if d.text != "int a = \"oops\";\n" || d.version != 2 {
		t.Fatalf("buffer after change: %q version %d", d.text, d.version)
	}
	p := lastPublish(t, frames)
	if p.Version != 2 || len(p.Diagnostics) == 0 {
		t.Fatalf("want fresh diagnostics for version 2, got %+v", p)
	}
}

func Test_DidClose_ClearsDiagnostics(t *testing.T) {
	s := newServer()
	uri := "file:///c.wes"
	openDoc(t, s, uri, "@@@\n")

	raw, _ := json.Marshal(DidCloseParams{TextDocument: TextDocumentIdentifier{URI: uri}})
	frames := capture(t, func() { s.onDidClose(raw) })

	p := lastPublish(t, frames)
	if len(p.Diagnostics) != 0 {
		t.Fatalf("closing must publish an empty diagnostics list, got %d", len(p.Diagnostics))
	}
	if s.snapshotDoc(uri) != nil {
		t.Fatalf("document must be forgotten after didClose")
	}
}

func Test_Analyze_StaleResultDiscarded(t *testing.T) {
	s := newServer()
	uri := "file:///d.wes"
	openDoc(t, s, uri, "int a;\n")

	// simulate an edit landing while an older analysis is in flight
	s.mu.Lock()
	s.docs[uri].version = 7
	s.docs[uri].result = nil
	s.docs[uri].analyzedVersion = -1
	s.mu.Unlock()

	frames := capture(t, func() { s.analyze(uri, 1) })

	if len(frames) != 0 {
		t.Fatalf("stale analysis must not publish, wrote %d frames", len(frames))
	}
	d := s.snapshotDoc(uri)
	if d.result != nil || d.analyzedVersion != -1 {
		t.Fatalf("stale result must be discarded whole: %+v", d)
	}
}

func Test_Analyze_PanicBecomesInternalDiagnostic(t *testing.T) {
	oldRun := runFrontEnd
	runFrontEnd = func(name, src string, cfg wscript.Config) *wscript.FileResult {
		panic("synthetic front-end failure")
	}
	defer func() { runFrontEnd = oldRun }()

	s := newServer()
	frames := openDoc(t, s, "file:///boom.wes", "int a;\n")

	p := lastPublish(t, frames)
	if len(p.Diagnostics) != 1 {
		t.Fatalf("a panicking pipeline must yield exactly one diagnostic, got %d", len(p.Diagnostics))
	}
	d := p.Diagnostics[0]
	if d.Code != "INTERNAL" || d.Data == nil || d.Data.ErrorCategory != "INTERNAL" {
		t.Fatalf("want an INTERNAL diagnostic, got %+v", d)
	}
	if d.Range.Start.Line != 0 || d.Range.Start.Character != 0 {
		t.Fatalf("internal failures report at the top of the document, got %+v", d.Range)
	}
	if !strings.Contains(d.Message, "synthetic front-end failure") {
		t.Fatalf("panic value must survive into the message, got %q", d.Message)
	}

	// the server keeps serving: the document is still open and analyzable
	if s.snapshotDoc("file:///boom.wes") == nil {
		t.Fatalf("document must stay open after a recovered panic")
	}
}

// -----------------------------------------------------------------------------
// Features
// -----------------------------------------------------------------------------

func Test_Hover_FunctionSignature(t *testing.T) {
	s := newServer()
	uri := "file:///h.wes"
	text := "int add(int a, int b) { return a; }\n"
	openDoc(t, s, uri, text)

	frames := capture(t, func() {
		s.onHover(json.RawMessage(`1`), posParams(uri, posOf(t, text, "add", 1)))
	})
	var h Hover
	decodeResult(t, frames[0], &h)
	if !strings.Contains(h.Contents.Value, "add(int a, int b) -> int") {
		t.Fatalf("hover must render the signature, got:\n%s", h.Contents.Value)
	}
	if !strings.Contains(h.Contents.Value, "function") {
		t.Fatalf("hover must name the symbol kind, got:\n%s", h.Contents.Value)
	}
}

func Test_Hover_QualifiedSymbol(t *testing.T) {
	s := newServer()
	uri := "file:///q.wes"
	text := "namespace engine { void tick(); }\nvoid run() { engine::tick(); }\n"
	openDoc(t, s, uri, text)

	frames := capture(t, func() {
		s.onHover(json.RawMessage(`2`), posParams(uri, posOf(t, text, "tick", 2)))
	})
	var h Hover
	decodeResult(t, frames[0], &h)
	if !strings.Contains(h.Contents.Value, "tick()") || !strings.Contains(h.Contents.Value, "engine") {
		t.Fatalf("qualified hover, got:\n%s", h.Contents.Value)
	}
}

func Test_Definition_JumpsToDeclaration(t *testing.T) {
	s := newServer()
	uri := "file:///def.wes"
	text := "int hp = 1;\nint use() { return hp; }\n"
	openDoc(t, s, uri, text)

	frames := capture(t, func() {
		s.onDefinition(json.RawMessage(`3`), posParams(uri, posOf(t, text, "hp", 2)))
	})
	var loc Location
	decodeResult(t, frames[0], &loc)
	if loc.URI != uri || loc.Range.Start.Line != 0 {
		t.Fatalf("definition of hp is on line 0, got %+v", loc)
	}
}

func Test_References_TextualMatches(t *testing.T) {
	s := newServer()
	uri := "file:///refs.wes"
	text := "int hp = 1;\nint use() { return hp + hp; }\n"
	openDoc(t, s, uri, text)

	frames := capture(t, func() {
		s.onReferences(json.RawMessage(`4`), posParams(uri, posOf(t, text, "hp", 1)))
	})
	var locs []Location
	decodeResult(t, frames[0], &locs)
	if len(locs) != 3 {
		t.Fatalf("want 3 references to hp, got %d", len(locs))
	}
}

func Test_Completion_SymbolsAndKeywords(t *testing.T) {
	s := newServer()
	uri := "file:///comp.wes"
	text := "int health = 5;\nclass Player {};\n"
	openDoc(t, s, uri, text)

	end := offsetToPos(lineOffsets(text), len(text), text)
	frames := capture(t, func() {
		s.onCompletion(json.RawMessage(`5`), posParams(uri, end))
	})
	var items []CompletionItem
	decodeResult(t, frames[0], &items)

	kinds := map[string]int{}
	for _, it := range items {
		kinds[it.Label] = it.Kind
	}
	if kinds["health"] != CIKVariable {
		t.Fatalf("health must complete as a variable, got kind %d", kinds["health"])
	}
	if kinds["Player"] != CIKClass {
		t.Fatalf("Player must complete as a class, got kind %d", kinds["Player"])
	}
	if kinds["if"] != CIKKeyword {
		t.Fatalf("keywords must be offered, 'if' got kind %d", kinds["if"])
	}
}

func Test_Completion_MemberContext(t *testing.T) {
	s := newServer()
	uri := "file:///mem.wes"
	text := "class Player { public: int hp; void tick(); };\nPlayer p;\np.\n"
	openDoc(t, s, uri, text)

	// cursor right after "p."
	cursor := offsetToPos(lineOffsets(text), strings.LastIndex(text, ".")+1, text)
	frames := capture(t, func() {
		s.onCompletion(json.RawMessage(`6`), posParams(uri, cursor))
	})
	var items []CompletionItem
	decodeResult(t, frames[0], &items)

	labels := map[string]bool{}
	for _, it := range items {
		labels[it.Label] = true
	}
	if !labels["hp"] || !labels["tick"] {
		t.Fatalf("member completion after 'p.' must offer hp and tick, got %v", labels)
	}
	if labels["if"] {
		t.Fatalf("member completion must not offer keywords")
	}
}

func Test_DocumentSymbols_NestedTree(t *testing.T) {
	s := newServer()
	uri := "file:///sym.wes"
	text := "namespace game {\nclass Player {\npublic:\n    int hp;\n    void tick();\n};\n}\n"
	openDoc(t, s, uri, text)

	raw, _ := json.Marshal(map[string]any{"textDocument": map[string]string{"uri": uri}})
	frames := capture(t, func() { s.onDocumentSymbols(json.RawMessage(`7`), raw) })
	var syms []DocumentSymbol
	decodeResult(t, frames[0], &syms)

	if len(syms) != 1 || syms[0].Name != "game" || syms[0].Kind != SKNamespace {
		t.Fatalf("root symbol: %+v", syms)
	}
	cls := syms[0].Children
	if len(cls) != 1 || cls[0].Name != "Player" || cls[0].Kind != SKClass {
		t.Fatalf("namespace child: %+v", cls)
	}
	if len(cls[0].Children) != 2 {
		t.Fatalf("Player members: %+v", cls[0].Children)
	}
	if cls[0].Children[1].Name != "tick" || cls[0].Children[1].Kind != SKMethod {
		t.Fatalf("methods inside a class use the method kind: %+v", cls[0].Children[1])
	}
}

func Test_SignatureHelp_ActiveParameter(t *testing.T) {
	s := newServer()
	uri := "file:///sig.wes"
	text := "void emit(int code, int level);\nvoid f() { emit(1, 2); }\n"
	openDoc(t, s, uri, text)

	// cursor on the second argument
	frames := capture(t, func() {
		s.onSignatureHelp(json.RawMessage(`8`), posParams(uri, posOf(t, text, "2)", 1)))
	})
	var sh SignatureHelp
	decodeResult(t, frames[0], &sh)

	if len(sh.Signatures) != 1 {
		t.Fatalf("want one signature, got %+v", sh)
	}
	if !strings.Contains(sh.Signatures[0].Label, "emit(int code, int level)") {
		t.Fatalf("signature label: %q", sh.Signatures[0].Label)
	}
	if sh.ActiveParameter != 1 {
		t.Fatalf("cursor after the comma means parameter 1, got %d", sh.ActiveParameter)
	}
	if len(sh.Signatures[0].Parameters) != 2 || sh.Signatures[0].Parameters[1].Label != "int level" {
		t.Fatalf("parameter labels: %+v", sh.Signatures[0].Parameters)
	}
}

func Test_WorkspaceSymbols_QueryFilter(t *testing.T) {
	s := newServer()
	openDoc(t, s, "file:///w1.wes", "int health = 1;\nvoid heal();\n")
	openDoc(t, s, "file:///w2.wes", "class Weapon {};\n")

	raw, _ := json.Marshal(WorkspaceSymbolParams{Query: "hea"})
	frames := capture(t, func() { s.onWorkspaceSymbols(json.RawMessage(`9`), raw) })
	var syms []SymbolInformation
	decodeResult(t, frames[0], &syms)

	names := map[string]bool{}
	for _, si := range syms {
		names[si.Name] = true
	}
	if !names["health"] || !names["heal"] {
		t.Fatalf("query 'hea' must match health and heal, got %v", names)
	}
	if names["Weapon"] {
		t.Fatalf("query 'hea' must not match Weapon")
	}
}

func Test_Initialize_AdvertisesEditingCapabilities(t *testing.T) {
	s := newServer()
	frames := capture(t, func() {
		s.onInitialize(json.RawMessage(`0`), json.RawMessage(`{}`))
	})
	var res InitializeResult
	decodeResult(t, frames[0], &res)

	caps := res.Capabilities
	if !caps.CodeActionProvider || !caps.DocumentFormattingProvider || !caps.RenameProvider {
		t.Fatalf("codeAction/formatting/rename must be advertised, got %+v", caps)
	}
	if caps.TextDocumentSync.Change != 2 {
		t.Fatalf("incremental sync expected, got %d", caps.TextDocumentSync.Change)
	}
}

func Test_CodeAction_EmptyList(t *testing.T) {
	s := newServer()
	uri := "file:///ca.wes"
	openDoc(t, s, uri, "int a;\n")

	raw, _ := json.Marshal(CodeActionParams{TextDocument: TextDocumentIdentifier{URI: uri}})
	frames := capture(t, func() { s.onCodeAction(json.RawMessage(`11`), raw) })
	var actions []CodeAction
	decodeResult(t, frames[0], &actions)
	if len(actions) != 0 {
		t.Fatalf("no automated fixes exist yet, got %+v", actions)
	}
}

func Test_Formatting_TrimsTrailingWhitespace(t *testing.T) {
	s := newServer()
	uri := "file:///fmt.wes"
	text := "int a;   \nint b;\nint c;\t\n"
	openDoc(t, s, uri, text)

	raw, _ := json.Marshal(DocumentFormattingParams{TextDocument: TextDocumentIdentifier{URI: uri}})
	frames := capture(t, func() { s.onFormatting(json.RawMessage(`12`), raw) })
	var edits []TextEdit
	decodeResult(t, frames[0], &edits)

	if len(edits) != 2 {
		t.Fatalf("lines 1 and 3 carry trailing whitespace, got %d edits: %+v", len(edits), edits)
	}
	first := edits[0]
	if first.NewText != "" || first.Range.Start.Line != 0 || first.Range.Start.Character != 6 || first.Range.End.Character != 9 {
		t.Fatalf("first edit must delete cols 6-9 of line 0, got %+v", first)
	}
	if edits[1].Range.Start.Line != 2 {
		t.Fatalf("second edit on line 2, got %+v", edits[1])
	}
}

func Test_Rename_RewritesEveryOccurrence(t *testing.T) {
	s := newServer()
	uri := "file:///ren.wes"
	text := "int hp = 1;\nint use() { return hp + hp; }\n"
	openDoc(t, s, uri, text)

	raw, _ := json.Marshal(RenameParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Position:     posOf(t, text, "hp", 1),
		NewName:      "health",
	})
	frames := capture(t, func() { s.onRename(json.RawMessage(`13`), raw) })
	var we WorkspaceEdit
	decodeResult(t, frames[0], &we)

	edits := we.Changes[uri]
	if len(edits) != 3 {
		t.Fatalf("want 3 edits for hp, got %+v", we)
	}
	for _, e := range edits {
		if e.NewText != "health" {
			t.Fatalf("every edit inserts the new name, got %+v", e)
		}
	}
}

func Test_Hover_UnknownSymbolIsNull(t *testing.T) {
	s := newServer()
	uri := "file:///nul.wes"
	text := "int a;\n"
	openDoc(t, s, uri, text)

	frames := capture(t, func() {
		// position on whitespace past the declaration
		s.onHover(json.RawMessage(`10`), posParams(uri, Position{Line: 0, Character: 6}))
	})
	var env struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(frames[0], &env); err != nil {
		t.Fatalf("bad frame: %v", err)
	}
	if string(env.Result) != "null" {
		t.Fatalf("no symbol under the cursor must answer null, got %s", env.Result)
	}
}
