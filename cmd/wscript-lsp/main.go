// cmd/wscript-lsp/main.go
//
// ROLE: Executable entrypoint and JSON-RPC dispatch loop.
//
// What lives here
//   • Process startup and server construction.
//   • Framed JSON-RPC read loop from stdin and write to stdout.
//   • Method routing: decode → switch on req.Method → delegate to server
//     handlers in features.go / core.go.
//   • Minimal lifecycle handling (initialize/shutdown/exit).
//
// What does NOT live here
//   • No language features, no text analysis, no diagnostics computation,
//     no document state. Keep this file small so the transport can be
//     swapped without touching feature logic.

package main

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
)

func main() {
	s := newServer()
	in := bufio.NewReader(os.Stdin)

	for {
		msgBytes, err := readMsg(in)
		if err != nil {
			if err != io.EOF {
				logger.Error("read error", "err", err)
			}
			return
		}

		var req Request
		if err := json.Unmarshal(msgBytes, &req); err != nil {
			// malformed JSON is dropped rather than killing the session
			continue
		}

		switch req.Method {
		// LSP lifecycle
		case "initialize":
			s.onInitialize(req.ID, req.Params)
		case "initialized":
			// no-op
		case "shutdown":
			s.sendResponse(req.ID, nil, nil)
		case "exit":
			return

		// Text sync
		case "textDocument/didOpen":
			s.onDidOpen(req.Params)
		case "textDocument/didChange":
			s.onDidChange(req.Params)
		case "textDocument/didClose":
			s.onDidClose(req.Params)

		// Language features
		case "textDocument/hover":
			s.onHover(req.ID, req.Params)
		case "textDocument/definition":
			s.onDefinition(req.ID, req.Params)
		case "textDocument/completion":
			s.onCompletion(req.ID, req.Params)
		case "textDocument/documentSymbol":
			s.onDocumentSymbols(req.ID, req.Params)
		case "textDocument/references":
			s.onReferences(req.ID, req.Params)
		case "textDocument/signatureHelp":
			s.onSignatureHelp(req.ID, req.Params)
		case "textDocument/codeAction":
			s.onCodeAction(req.ID, req.Params)
		case "textDocument/formatting":
			s.onFormatting(req.ID, req.Params)
		case "textDocument/rename":
			s.onRename(req.ID, req.Params)

		// Workspace
		case "workspace/symbol":
			s.onWorkspaceSymbols(req.ID, req.Params)

		default:
			// requests (have an id) get MethodNotFound; notifications are
			// ignored
			if len(req.ID) > 0 {
				s.sendResponse(req.ID, nil, &ResponseError{Code: -32601, Message: "method not found"})
			}
		}
	}
}
