// cmd/wscript-lsp/state.go
//
// ROLE: Server/document data structures and snapshot helpers.
//
// What lives here
//   • server/docState structs, the mutex, the shared project Config.
//   • newServer() and the read-only snapshotDoc() accessor.
//   • Version bookkeeping used to discard stale analysis results: every
//     didOpen/didChange bumps the document version, analysis captures the
//     version it ran against, and results for anything but the latest
//     version are dropped before publishing.
//
// What does NOT live here
//   • No transport/framing, no analysis logic, no feature handlers.

package main

import (
	"sync"

	wscript "github.com/Elastic-Softworks/worldenv-sub006"
)

// docState is the per-document cache populated by analysis. text/lines track
// the live buffer; result is the front-end output for analyzedVersion of
// that buffer and may lag behind during rapid edits.
type docState struct {
	uri             string
	text            string
	version         int
	lines           []int // line start byte offsets into text
	analyzedVersion int
	result          *wscript.FileResult
}

// server is the global LSP server state.
type server struct {
	mu   sync.RWMutex
	docs map[string]*docState
	cfg  wscript.Config
}

func newServer() *server {
	return &server{
		docs: make(map[string]*docState),
		cfg:  wscript.DefaultConfig(),
	}
}

// snapshotDoc returns a consistent read-only snapshot of a document, or nil
// when the document is not open. Slices are copied so readers can't race on
// later mutation; the FileResult is immutable once produced.
func (s *server) snapshotDoc(uri string) *docState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d := s.docs[uri]
	if d == nil {
		return nil
	}
	cp := *d
	if d.lines != nil {
		cp.lines = append([]int(nil), d.lines...)
	}
	cp.result = d.result
	return &cp
}

// currentVersion reports the live version of uri, or -1 when closed.
func (s *server) currentVersion(uri string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d := s.docs[uri]; d != nil {
		return d.version
	}
	return -1
}
