// cmd/wscript-lsp/core.go
//
// ROLE: Shared infrastructure for the LSP server: stdio framing, text and
//       UTF-16 position math, document sync, and the analysis/publish path.
//
// What lives here
//   • Content-Length framed JSON-RPC transport over stdio, with send/notify
//     helpers used by every handler.
//   • Unicode/UTF-16 column math and byte↔position conversions consistent
//     with the LSP spec (positions are UTF-16 code units; the front end
//     speaks byte offsets).
//   • Document lifecycle: didOpen/didChange/didClose, including incremental
//     range edits applied against the live buffer.
//   • analyze(): runs the front-end pipeline on a buffer snapshot, then
//     installs the result and publishes diagnostics — unless a newer version
//     of the document has arrived meanwhile, in which case the stale result
//     is discarded whole.
//
// What does NOT live here
//   • No LSP feature handlers (hover, completion, ...); see features.go.
//   • No wire DTOs; see protocol.go.

package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	wscript "github.com/Elastic-Softworks/worldenv-sub006"
)

////////////////////////////////////////////////////////////////////////////////
// Transport (stdio framing) + send/notify
////////////////////////////////////////////////////////////////////////////////

var stdoutSink io.Writer = os.Stdout

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

func init() {
	// Silence unsolicited output during `go test` unless opted in.
	if strings.HasSuffix(os.Args[0], ".test") && os.Getenv("LSP_STDOUT") == "" {
		stdoutSink = io.Discard
	}
}

func readMsg(r *bufio.Reader) ([]byte, error) {
	var contentLen int
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if i := strings.IndexByte(line, ':'); i >= 0 {
			key := strings.ToLower(strings.TrimSpace(line[:i]))
			val := strings.TrimSpace(line[i+1:])
			if key == "content-length" {
				_, _ = fmt.Sscanf(val, "%d", &contentLen)
			}
		}
	}
	if contentLen <= 0 {
		return nil, io.EOF
	}
	buf := make([]byte, contentLen)
	_, err := io.ReadFull(r, buf)
	return buf, err
}

func writeMsg(w io.Writer, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var b bytes.Buffer
	fmt.Fprintf(&b, "Content-Length: %d\r\n\r\n", len(body))
	b.Write(body)
	_, err = w.Write(b.Bytes())
	return err
}

func (s *server) sendResponse(id json.RawMessage, result any, respErr *ResponseError) {
	if respErr == nil && result == nil {
		rawNull := json.RawMessage([]byte("null"))
		_ = writeMsg(stdoutSink, Response{JSONRPC: "2.0", ID: id, Result: rawNull})
		return
	}
	_ = writeMsg(stdoutSink, Response{JSONRPC: "2.0", ID: id, Result: result, Error: respErr})
}

func (s *server) notify(method string, params any) {
	_ = writeMsg(stdoutSink, map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
	})
}

////////////////////////////////////////////////////////////////////////////////
// Text & UTF-16 helpers
////////////////////////////////////////////////////////////////////////////////

// lineOffsets records the byte offset of every line start. CRLF-aware: the
// offset stored is the byte after '\n'.
func lineOffsets(text string) []int {
	offs := []int{0}
	for i := 0; i < len(text); {
		if text[i] == '\n' {
			offs = append(offs, i+1)
			i++
			continue
		}
		_, sz := utf8.DecodeRuneInString(text[i:])
		if sz <= 0 {
			sz = 1
		}
		i += sz
	}
	return offs
}

func toU16(r rune) int {
	if r < 0x10000 {
		return 1
	}
	return 2
}

// posToOffset converts an LSP position (UTF-16 columns) into a byte offset.
func posToOffset(lines []int, p Position, text string) int {
	if p.Line < 0 {
		return 0
	}
	if p.Line >= len(lines) {
		return len(text)
	}
	i := lines[p.Line]
	need := p.Character
	for i < len(text) && need > 0 {
		r, sz := utf8.DecodeRuneInString(text[i:])
		if r == '\r' { // CR never counts toward columns
			i += sz
			continue
		}
		if r == '\n' {
			break
		}
		need -= toU16(r)
		i += sz
	}
	return i
}

// offsetToPos converts a byte offset into an LSP position.
func offsetToPos(lines []int, off int, text string) Position {
	if off < 0 {
		off = 0
	}
	if off > len(text) {
		off = len(text)
	}
	i, j := 0, len(lines)
	for i+1 < j {
		m := (i + j) / 2
		if lines[m] <= off {
			i = m
		} else {
			j = m
		}
	}
	u16 := 0
	for k := lines[i]; k < off && k < len(text); {
		r, sz := utf8.DecodeRuneInString(text[k:])
		if r == '\r' {
			k += sz
			continue
		}
		if r == '\n' {
			break
		}
		u16 += toU16(r)
		k += sz
	}
	return Position{Line: i, Character: u16}
}

func makeRange(lines []int, start, end int, text string) Range {
	return Range{
		Start: offsetToPos(lines, start, text),
		End:   offsetToPos(lines, end, text),
	}
}

// lineColToOffset maps the front end's 1-based line / 0-based byte column
// coordinates to a byte offset, clamped within the line.
func lineColToOffset(lines []int, line1, byteCol int, text string) int {
	line0 := line1 - 1
	if line0 < 0 {
		line0 = 0
	}
	if line0 >= len(lines) {
		return len(text)
	}
	start := lines[line0]
	end := len(text)
	if line0+1 < len(lines) {
		end = lines[line0+1]
	}
	off := start + byteCol
	if off < start {
		off = start
	}
	if off > end {
		off = end
	}
	return off
}

////////////////////////////////////////////////////////////////////////////////
// Document sync
////////////////////////////////////////////////////////////////////////////////

func (s *server) onDidOpen(params json.RawMessage) {
	var p DidOpenParams
	if err := json.Unmarshal(params, &p); err != nil {
		return
	}
	s.mu.Lock()
	s.docs[p.TextDocument.URI] = &docState{
		uri:             p.TextDocument.URI,
		text:            p.TextDocument.Text,
		version:         p.TextDocument.Version,
		lines:           lineOffsets(p.TextDocument.Text),
		analyzedVersion: -1,
	}
	s.mu.Unlock()
	s.analyze(p.TextDocument.URI, p.TextDocument.Version)
}

func (s *server) onDidChange(params json.RawMessage) {
	var p DidChangeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return
	}
	s.mu.Lock()
	d := s.docs[p.TextDocument.URI]
	if d == nil {
		s.mu.Unlock()
		return
	}
	for _, ch := range p.ContentChanges {
		d.text = applyChange(d.text, d.lines, ch)
		d.lines = lineOffsets(d.text)
	}
	d.version = p.TextDocument.Version
	version := d.version
	s.mu.Unlock()
	s.analyze(p.TextDocument.URI, version)
}

func (s *server) onDidClose(params json.RawMessage) {
	var p DidCloseParams
	if err := json.Unmarshal(params, &p); err != nil {
		return
	}
	s.mu.Lock()
	delete(s.docs, p.TextDocument.URI)
	s.mu.Unlock()
	// closing clears the problems pane for the document
	s.notify("textDocument/publishDiagnostics", PublishDiagnosticsParams{
		URI:         p.TextDocument.URI,
		Diagnostics: []Diagnostic{},
	})
}

// applyChange applies one content change. A nil Range means full-document
// replacement; otherwise the UTF-16 range is mapped to byte offsets against
// the buffer the change was produced for.
func applyChange(text string, lines []int, ch TextDocumentContentChangeEvent) string {
	if ch.Range == nil {
		return ch.Text
	}
	start := posToOffset(lines, ch.Range.Start, text)
	end := posToOffset(lines, ch.Range.End, text)
	if end < start {
		start, end = end, start
	}
	return text[:start] + ch.Text + text[end:]
}

////////////////////////////////////////////////////////////////////////////////
// Analysis & diagnostics
////////////////////////////////////////////////////////////////////////////////

// analyze runs the front end against the version of uri captured at call
// time and publishes the diagnostics. If the document advanced past that
// version while the pipeline ran, the whole result is discarded: publishing
// positions computed against an older buffer would mislead the client.
func (s *server) analyze(uri string, version int) {
	s.mu.RLock()
	d := s.docs[uri]
	if d == nil {
		s.mu.RUnlock()
		return
	}
	text := d.text
	s.mu.RUnlock()

	fr := runPipeline(uri, text, s.cfg)

	s.mu.Lock()
	d = s.docs[uri]
	if d == nil || d.version != version {
		s.mu.Unlock()
		logger.Debug("discarding stale analysis", "uri", uri, "version", version)
		return
	}
	d.result = fr
	d.analyzedVersion = version
	lines := append([]int(nil), d.lines...)
	s.mu.Unlock()

	s.publishDiagnostics(uri, version, text, lines, fr)
}

// runFrontEnd is swappable so tests can inject failures.
var runFrontEnd = wscript.Run

// runPipeline shields the message loop from front-end panics. A panic is
// converted into a single INTERNAL diagnostic at the top of the document,
// so the client sees a problem report instead of a dead server.
func runPipeline(uri, text string, cfg wscript.Config) (fr *wscript.FileResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("analysis panic", "uri", uri, "panic", r)
			rep := wscript.NewReporter(cfg.MaxErrors)
			rep.Report(wscript.Diagnostic{
				Category: wscript.InternalError,
				Severity: wscript.SeverityError,
				Message:  fmt.Sprintf("internal front-end failure: %v", r),
				Line:     1,
				Col:      0,
			})
			fr = &wscript.FileResult{
				Name:     uri,
				Source:   text,
				Table:    wscript.NewTable(),
				Reporter: rep,
			}
		}
	}()
	return runFrontEnd(uri, text, cfg)
}

func severityFor(d wscript.Diagnostic) int {
	switch d.Severity {
	case wscript.SeverityWarning:
		return 2
	case wscript.SeverityInfo:
		return 3
	default:
		return 1
	}
}

// publishDiagnostics converts front-end diagnostics to LSP ones. Every entry
// carries the data payload (errorCategory + suggestions) that engine-side
// tooling consumes.
func (s *server) publishDiagnostics(uri string, version int, text string, lines []int, fr *wscript.FileResult) {
	diags := make([]Diagnostic, 0, len(fr.Diagnostics()))
	for _, d := range fr.Diagnostics() {
		var rng Range
		if d.Span.EndByte > d.Span.StartByte {
			rng = makeRange(lines, d.Span.StartByte, d.Span.EndByte, text)
		} else {
			off := lineColToOffset(lines, d.Line, d.Col, text)
			rng = makeRange(lines, off, off+1, text)
		}
		data := &DiagnosticData{ErrorCategory: d.Category.String()}
		if d.Suggestion != "" {
			data.Suggestions = []string{d.Suggestion}
		}
		diags = append(diags, Diagnostic{
			Range:    rng,
			Severity: severityFor(d),
			Code:     d.Category.String(),
			Source:   "wscript",
			Message:  d.Message,
			Data:     data,
		})
	}
	s.notify("textDocument/publishDiagnostics", PublishDiagnosticsParams{
		URI:         uri,
		Version:     version,
		Diagnostics: diags,
	})
}
