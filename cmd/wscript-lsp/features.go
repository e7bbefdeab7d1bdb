// cmd/wscript-lsp/features.go
//
// ROLE: LSP feature handlers. Every handler works against a read-only
//       document snapshot plus the front end's FileResult (tokens, AST,
//       symbol table); nothing here mutates server state.
//
// What lives here
//   • initialize (capability advertisement).
//   • hover, definition, references, completion, signatureHelp,
//     documentSymbol, workspace/symbol.
//   • Token/symbol resolution helpers shared by the handlers.
//
// What does NOT live here
//   • No transport, no document sync, no diagnostics publishing.

package main

import (
	"encoding/json"
	"sort"
	"strings"

	wscript "github.com/Elastic-Softworks/worldenv-sub006"
)

////////////////////////////////////////////////////////////////////////////////
// initialize
////////////////////////////////////////////////////////////////////////////////

func (s *server) onInitialize(id json.RawMessage, params json.RawMessage) {
	var p InitializeParams
	_ = json.Unmarshal(params, &p)
	if root := strings.TrimPrefix(p.RootURI, "file://"); root != "" {
		if cfg, err := wscript.LoadConfig(root + "/" + wscript.ConfigFileName); err == nil {
			s.mu.Lock()
			s.cfg = cfg
			s.mu.Unlock()
		}
	}
	caps := ServerCapabilities{
		TextDocumentSync: TextDocumentSyncOptions{
			OpenClose: true,
			Change:    2, // incremental
		},
		HoverProvider:           true,
		DefinitionProvider:      true,
		DocumentSymbolProvider:  true,
		ReferencesProvider:      true,
		WorkspaceSymbolProvider: true,
		CompletionProvider: &CompletionOptions{
			TriggerCharacters: []string{".", ">", ":", "#"},
		},
		SignatureHelpProvider: &SignatureHelpOptions{
			TriggerCharacters: []string{"(", ","},
		},
		CodeActionProvider:         true,
		DocumentFormattingProvider: true,
		RenameProvider:             true,
	}
	s.sendResponse(id, InitializeResult{
		Capabilities: caps,
		ServerInfo:   map[string]string{"name": "wscript-lsp", "version": "0.3.0"},
	}, nil)
}

////////////////////////////////////////////////////////////////////////////////
// token & symbol helpers
////////////////////////////////////////////////////////////////////////////////

// tokenAt finds the non-trivia token covering byte offset off (or ending
// exactly at it, which is where the cursor usually sits).
func tokenAt(toks []wscript.Token, off int) (wscript.Token, int, bool) {
	for i, t := range toks {
		if t.Type == wscript.EOF {
			break
		}
		if t.StartByte <= off && off <= t.EndByte {
			return t, i, true
		}
	}
	return wscript.Token{}, -1, false
}

// qualifiedAt expands an identifier token into its full `A::B::C` spelling
// by walking SCOPE neighbors in both directions.
func qualifiedAt(toks []wscript.Token, idx int) string {
	if idx < 0 || toks[idx].Type != wscript.IDENT {
		return ""
	}
	lo, hi := idx, idx
	for lo >= 2 && toks[lo-1].Type == wscript.SCOPE && toks[lo-2].Type == wscript.IDENT {
		lo -= 2
	}
	for hi+2 < len(toks) && toks[hi+1].Type == wscript.SCOPE && toks[hi+2].Type == wscript.IDENT {
		hi += 2
	}
	parts := make([]string, 0, (hi-lo)/2+1)
	for i := lo; i <= hi; i += 2 {
		parts = append(parts, toks[i].Lexeme)
	}
	return strings.Join(parts, "::")
}

// forEachSymbol visits every symbol in the table, scope by scope.
func forEachSymbol(tab *wscript.Table, fn func(wscript.ScopeID, *wscript.Symbol)) {
	var walk func(id wscript.ScopeID)
	walk = func(id wscript.ScopeID) {
		for _, sym := range tab.Symbols(id) {
			fn(id, sym)
		}
		for _, c := range tab.Children(id) {
			walk(c)
		}
	}
	walk(wscript.GlobalScope)
}

// resolveName finds the symbol for a (possibly qualified) name. Qualified
// names resolve through the scope tree; plain names fall back to a
// whole-table search preferring outer scopes, which is close enough for a
// cursor position we don't map to an exact scope.
func resolveName(tab *wscript.Table, name string) *wscript.Symbol {
	if strings.Contains(name, "::") {
		return tab.LookupQualified(wscript.GlobalScope, name)
	}
	if sym := tab.Lookup(wscript.GlobalScope, name); sym != nil {
		return sym
	}
	var found *wscript.Symbol
	forEachSymbol(tab, func(_ wscript.ScopeID, sym *wscript.Symbol) {
		if found == nil && sym.Name == name {
			found = sym
		}
	})
	return found
}

func completionKindFor(k wscript.SymbolKind) int {
	switch k {
	case wscript.SymFunction:
		return CIKFunction
	case wscript.SymParameter, wscript.SymVariable:
		return CIKVariable
	case wscript.SymStruct:
		return CIKStruct
	case wscript.SymClass:
		return CIKClass
	case wscript.SymInterface:
		return CIKInterface
	case wscript.SymNamespace:
		return CIKModule
	case wscript.SymEnum:
		return CIKEnum
	case wscript.SymEnumerator:
		return CIKEnumMem
	case wscript.SymTemplateParam:
		return CIKTypeParam
	case wscript.SymField:
		return CIKField
	default:
		return CIKText
	}
}

func symbolKindFor(k wscript.SymbolKind) int {
	switch k {
	case wscript.SymFunction:
		return SKFunction
	case wscript.SymStruct:
		return SKStruct
	case wscript.SymClass:
		return SKClass
	case wscript.SymInterface:
		return SKInterface
	case wscript.SymNamespace:
		return SKNamespace
	case wscript.SymEnum:
		return SKEnum
	case wscript.SymEnumerator:
		return SKEnumMem
	default:
		return SKVariable
	}
}

// symbolRange maps a symbol's position onto the document.
func symbolRange(d *docState, sym *wscript.Symbol) Range {
	if sym.Span.EndByte > sym.Span.StartByte {
		return makeRange(d.lines, sym.Span.StartByte, sym.Span.EndByte, d.text)
	}
	off := lineColToOffset(d.lines, sym.Line, sym.Col, d.text)
	return makeRange(d.lines, off, off+len(sym.Name), d.text)
}

// detailFor renders the hover/completion detail line of a symbol.
func detailFor(sym *wscript.Symbol) string {
	switch sym.Kind {
	case wscript.SymFunction:
		if sym.Sig != nil {
			return sym.Name + sym.Sig.String()
		}
		return sym.Name + "()"
	case wscript.SymClass, wscript.SymStruct, wscript.SymInterface, wscript.SymEnum:
		return sym.Kind.String() + " " + sym.Name
	case wscript.SymNamespace:
		return "namespace " + sym.Name
	default:
		if !sym.Type.IsZero() {
			return sym.Type.String() + " " + sym.Name
		}
		return sym.Name
	}
}

////////////////////////////////////////////////////////////////////////////////
// hover
////////////////////////////////////////////////////////////////////////////////

func (s *server) onHover(id json.RawMessage, params json.RawMessage) {
	var p TextDocumentPositionParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.sendResponse(id, nil, nil)
		return
	}
	d := s.snapshotDoc(p.TextDocument.URI)
	if d == nil || d.result == nil {
		s.sendResponse(id, nil, nil)
		return
	}
	off := posToOffset(d.lines, p.Position, d.text)
	tok, idx, ok := tokenAt(d.result.Tokens, off)
	if !ok || tok.Type != wscript.IDENT {
		s.sendResponse(id, nil, nil)
		return
	}
	name := qualifiedAt(d.result.Tokens, idx)
	sym := resolveName(d.result.Table, name)
	if sym == nil {
		s.sendResponse(id, nil, nil)
		return
	}

	var b strings.Builder
	b.WriteString("```\n" + detailFor(sym) + "\n```\n")
	b.WriteString("*" + sym.Kind.String() + "*")
	if q := d.result.Table.QualifiedName(sym); q != sym.Name {
		b.WriteString(" in `" + strings.TrimSuffix(q, "::"+sym.Name) + "`")
	}
	if len(sym.Overloads) > 0 {
		b.WriteString("\n\n")
		for _, o := range sym.Overloads {
			b.WriteString("- `" + sym.Name + o.String() + "`\n")
		}
	}
	rng := makeRange(d.lines, tok.StartByte, tok.EndByte, d.text)
	s.sendResponse(id, Hover{
		Contents: MarkupContent{Kind: "markdown", Value: b.String()},
		Range:    &rng,
	}, nil)
}

////////////////////////////////////////////////////////////////////////////////
// definition & references
////////////////////////////////////////////////////////////////////////////////

func (s *server) onDefinition(id json.RawMessage, params json.RawMessage) {
	var p TextDocumentPositionParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.sendResponse(id, nil, nil)
		return
	}
	d := s.snapshotDoc(p.TextDocument.URI)
	if d == nil || d.result == nil {
		s.sendResponse(id, nil, nil)
		return
	}
	off := posToOffset(d.lines, p.Position, d.text)
	_, idx, ok := tokenAt(d.result.Tokens, off)
	if !ok {
		s.sendResponse(id, nil, nil)
		return
	}
	name := qualifiedAt(d.result.Tokens, idx)
	sym := resolveName(d.result.Table, name)
	if sym == nil {
		s.sendResponse(id, nil, nil)
		return
	}
	s.sendResponse(id, Location{URI: d.uri, Range: symbolRange(d, sym)}, nil)
}

func (s *server) onReferences(id json.RawMessage, params json.RawMessage) {
	var p TextDocumentPositionParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.sendResponse(id, nil, nil)
		return
	}
	d := s.snapshotDoc(p.TextDocument.URI)
	if d == nil || d.result == nil {
		s.sendResponse(id, nil, nil)
		return
	}
	off := posToOffset(d.lines, p.Position, d.text)
	tok, _, ok := tokenAt(d.result.Tokens, off)
	if !ok || tok.Type != wscript.IDENT {
		s.sendResponse(id, []Location{}, nil)
		return
	}
	// references are token-textual: every identifier with the same
	// spelling. Shadowed names over-match; precise per-scope use tracking
	// is not kept.
	locs := []Location{}
	for _, t := range d.result.Tokens {
		if t.Type == wscript.IDENT && t.Lexeme == tok.Lexeme {
			locs = append(locs, Location{
				URI:   d.uri,
				Range: makeRange(d.lines, t.StartByte, t.EndByte, d.text),
			})
		}
	}
	s.sendResponse(id, locs, nil)
}

////////////////////////////////////////////////////////////////////////////////
// completion
////////////////////////////////////////////////////////////////////////////////

var keywordCompletions = []string{
	"if", "else", "for", "while", "do", "switch", "case", "default",
	"break", "continue", "return", "struct", "union", "enum", "typedef",
	"const", "static", "class", "template", "namespace", "using",
	"virtual", "override", "public", "private", "protected",
	"interface", "type", "let", "var", "function", "async", "await",
	"export", "import", "new", "delete", "this", "sizeof",
}

func (s *server) onCompletion(id json.RawMessage, params json.RawMessage) {
	var p TextDocumentPositionParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.sendResponse(id, []CompletionItem{}, nil)
		return
	}
	d := s.snapshotDoc(p.TextDocument.URI)
	if d == nil || d.result == nil {
		s.sendResponse(id, []CompletionItem{}, nil)
		return
	}
	off := posToOffset(d.lines, p.Position, d.text)
	tab := d.result.Table

	// member/scope context: complete from the receiver's scope only
	if items, ok := s.memberCompletions(d, off); ok {
		s.sendResponse(id, items, nil)
		return
	}

	seen := map[string]bool{}
	items := []CompletionItem{}
	forEachSymbol(tab, func(_ wscript.ScopeID, sym *wscript.Symbol) {
		if seen[sym.Name] || sym.Visibility != wscript.Public && sym.Kind == wscript.SymField {
			return
		}
		seen[sym.Name] = true
		items = append(items, CompletionItem{
			Label:  sym.Name,
			Kind:   completionKindFor(sym.Kind),
			Detail: detailFor(sym),
		})
	})
	for _, kw := range keywordCompletions {
		if !seen[kw] {
			items = append(items, CompletionItem{Label: kw, Kind: CIKKeyword})
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	s.sendResponse(id, items, nil)
}

// memberCompletions handles `recv.` / `recv->` / `Scope::` contexts: the
// candidates come from the receiver's class/namespace scope.
func (s *server) memberCompletions(d *docState, off int) ([]CompletionItem, bool) {
	toks := d.result.Tokens
	// find the last token ending at or before the cursor
	idx := -1
	for i, t := range toks {
		if t.Type == wscript.EOF || t.EndByte > off {
			break
		}
		idx = i
	}
	if idx < 1 {
		return nil, false
	}
	sep := toks[idx].Type
	if sep != wscript.PERIOD && sep != wscript.ARROW && sep != wscript.SCOPE {
		return nil, false
	}
	recvTok := toks[idx-1]
	if recvTok.Type != wscript.IDENT {
		return nil, false
	}
	tab := d.result.Table
	recv := resolveName(tab, qualifiedAt(toks, idx-1))
	if recv == nil {
		return []CompletionItem{}, true
	}

	// for variables, complete from the scope of their type
	scopeName := recv.Name
	if recv.Kind == wscript.SymVariable || recv.Kind == wscript.SymParameter || recv.Kind == wscript.SymField {
		if recv.Type.IsZero() {
			return []CompletionItem{}, true
		}
		scopeName = recv.Type.Name
		if recv = resolveName(tab, scopeName); recv == nil {
			return []CompletionItem{}, true
		}
	}

	body := wscript.NoScope
	for _, c := range tab.Children(recv.Scope) {
		if tab.Name(c) == scopeName {
			body = c
			break
		}
	}
	if body == wscript.NoScope {
		return []CompletionItem{}, true
	}
	items := []CompletionItem{}
	for _, sym := range tab.Symbols(body) {
		items = append(items, CompletionItem{
			Label:  sym.Name,
			Kind:   completionKindFor(sym.Kind),
			Detail: detailFor(sym),
		})
	}
	return items, true
}

////////////////////////////////////////////////////////////////////////////////
// signature help
////////////////////////////////////////////////////////////////////////////////

func (s *server) onSignatureHelp(id json.RawMessage, params json.RawMessage) {
	var p TextDocumentPositionParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.sendResponse(id, nil, nil)
		return
	}
	d := s.snapshotDoc(p.TextDocument.URI)
	if d == nil || d.result == nil {
		s.sendResponse(id, nil, nil)
		return
	}
	off := posToOffset(d.lines, p.Position, d.text)
	toks := d.result.Tokens

	// walk backwards to the innermost unclosed '(' and count commas at
	// depth zero for the active parameter
	depth, commas := 0, 0
	callee := -1
	for i := len(toks) - 1; i >= 0; i-- {
		t := toks[i]
		if t.StartByte >= off {
			continue
		}
		switch t.Type {
		case wscript.RPAREN:
			depth++
		case wscript.LPAREN:
			if depth == 0 {
				if i > 0 && toks[i-1].Type == wscript.IDENT {
					callee = i - 1
				}
				i = -1 // done
				continue
			}
			depth--
		case wscript.COMMA:
			if depth == 0 {
				commas++
			}
		case wscript.SEMI, wscript.LBRACE, wscript.RBRACE:
			if depth == 0 {
				i = -1
				continue
			}
		}
		if callee >= 0 {
			break
		}
	}
	if callee < 0 {
		s.sendResponse(id, nil, nil)
		return
	}
	sym := resolveName(d.result.Table, qualifiedAt(toks, callee))
	if sym == nil || sym.Kind != wscript.SymFunction {
		s.sendResponse(id, nil, nil)
		return
	}

	sigs := []SignatureInformation{}
	active := 0
	for i, sig := range sym.Signatures() {
		info := SignatureInformation{Label: sym.Name + sig.String()}
		for _, prm := range sig.Params {
			label := prm.Name
			if !prm.Type.IsZero() {
				label = prm.Type.String() + " " + prm.Name
			}
			info.Parameters = append(info.Parameters, ParameterInformation{Label: label})
		}
		// prefer the first overload that still has room for the argument
		// being typed
		if active == 0 && i > 0 && len(sigs) > 0 && commas >= len(sigs[0].Parameters) && commas < len(info.Parameters) {
			active = i
		}
		sigs = append(sigs, info)
	}
	s.sendResponse(id, SignatureHelp{
		Signatures:      sigs,
		ActiveSignature: active,
		ActiveParameter: commas,
	}, nil)
}

////////////////////////////////////////////////////////////////////////////////
// code actions, formatting, rename
////////////////////////////////////////////////////////////////////////////////

// onCodeAction answers the empty list: the front end has no automated fixes
// yet, and a missing capability would make clients stop asking.
func (s *server) onCodeAction(id json.RawMessage, params json.RawMessage) {
	s.sendResponse(id, []CodeAction{}, nil)
}

// onFormatting trims trailing whitespace per line. Heavier layout rework
// would need the trivia-preserving token stream; edits stay minimal so the
// client can apply them against its own buffer version.
func (s *server) onFormatting(id json.RawMessage, params json.RawMessage) {
	var p DocumentFormattingParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.sendResponse(id, []TextEdit{}, nil)
		return
	}
	d := s.snapshotDoc(p.TextDocument.URI)
	if d == nil {
		s.sendResponse(id, []TextEdit{}, nil)
		return
	}

	edits := []TextEdit{}
	for i, lineStart := range d.lines {
		lineEnd := len(d.text)
		if i+1 < len(d.lines) {
			lineEnd = d.lines[i+1]
		}
		line := d.text[lineStart:lineEnd]
		body := strings.TrimRight(line, "\r\n")
		trimmed := strings.TrimRight(body, " \t")
		if len(trimmed) == len(body) {
			continue
		}
		edits = append(edits, TextEdit{
			Range:   makeRange(d.lines, lineStart+len(trimmed), lineStart+len(body), d.text),
			NewText: "",
		})
	}
	s.sendResponse(id, edits, nil)
}

// onRename renames by token spelling, the same resolution onReferences
// uses; the edit covers the current document only.
func (s *server) onRename(id json.RawMessage, params json.RawMessage) {
	var p RenameParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.sendResponse(id, nil, nil)
		return
	}
	d := s.snapshotDoc(p.TextDocument.URI)
	if d == nil || d.result == nil || p.NewName == "" {
		s.sendResponse(id, nil, nil)
		return
	}
	off := posToOffset(d.lines, p.Position, d.text)
	tok, _, ok := tokenAt(d.result.Tokens, off)
	if !ok || tok.Type != wscript.IDENT {
		s.sendResponse(id, nil, nil)
		return
	}

	edits := []TextEdit{}
	for _, t := range d.result.Tokens {
		if t.Type == wscript.IDENT && t.Lexeme == tok.Lexeme {
			edits = append(edits, TextEdit{
				Range:   makeRange(d.lines, t.StartByte, t.EndByte, d.text),
				NewText: p.NewName,
			})
		}
	}
	s.sendResponse(id, WorkspaceEdit{
		Changes: map[string][]TextEdit{d.uri: edits},
	}, nil)
}

////////////////////////////////////////////////////////////////////////////////
// document & workspace symbols
////////////////////////////////////////////////////////////////////////////////

func (s *server) onDocumentSymbols(id json.RawMessage, params json.RawMessage) {
	var p struct {
		TextDocument TextDocumentIdentifier `json:"textDocument"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		s.sendResponse(id, []DocumentSymbol{}, nil)
		return
	}
	d := s.snapshotDoc(p.TextDocument.URI)
	if d == nil || d.result == nil || d.result.Program == nil {
		s.sendResponse(id, []DocumentSymbol{}, nil)
		return
	}
	out := []DocumentSymbol{}
	for _, decl := range d.result.Program.Decls {
		if ds, ok := declSymbol(d, decl); ok {
			out = append(out, ds)
		}
	}
	s.sendResponse(id, out, nil)
}

// declSymbol converts one declaration into a DocumentSymbol subtree.
func declSymbol(d *docState, decl wscript.Decl) (DocumentSymbol, bool) {
	rng := func(sp wscript.Span) Range {
		return makeRange(d.lines, sp.StartByte, sp.EndByte, d.text)
	}
	switch n := decl.(type) {
	case *wscript.FunctionDecl:
		return DocumentSymbol{
			Name: n.Name, Detail: n.Signature().String(), Kind: SKFunction,
			Range: rng(n.Span()), SelectionRange: rng(n.Span()),
		}, true
	case *wscript.VariableDecl:
		return DocumentSymbol{
			Name: n.Name, Detail: n.Type.String(), Kind: SKVariable,
			Range: rng(n.Span()), SelectionRange: rng(n.Span()),
		}, true
	case *wscript.StructDecl:
		ds := DocumentSymbol{
			Name: n.Name, Kind: SKStruct,
			Range: rng(n.Span()), SelectionRange: rng(n.Span()),
		}
		for _, f := range n.Fields {
			ds.Children = append(ds.Children, DocumentSymbol{
				Name: f.Name, Detail: f.Type.String(), Kind: SKField,
				Range: rng(f.Span()), SelectionRange: rng(f.Span()),
			})
		}
		return ds, true
	case *wscript.ClassDecl:
		ds := DocumentSymbol{
			Name: n.Name, Kind: SKClass,
			Range: rng(n.Span()), SelectionRange: rng(n.Span()),
		}
		for _, m := range n.Members {
			if child, ok := declSymbol(d, m.Decl); ok {
				if child.Kind == SKFunction {
					child.Kind = SKMethod
				}
				ds.Children = append(ds.Children, child)
			}
		}
		return ds, true
	case *wscript.InterfaceDecl:
		ds := DocumentSymbol{
			Name: n.Name, Kind: SKInterface,
			Range: rng(n.Span()), SelectionRange: rng(n.Span()),
		}
		for _, m := range n.Members {
			if child, ok := declSymbol(d, m.Decl); ok {
				ds.Children = append(ds.Children, child)
			}
		}
		return ds, true
	case *wscript.TemplateDecl:
		if inner, ok := declSymbol(d, n.Inner); ok {
			inner.Detail = "template<" + strings.Join(n.Params, ", ") + "> " + inner.Detail
			return inner, true
		}
	case *wscript.NamespaceDecl:
		ds := DocumentSymbol{
			Name: n.Name, Kind: SKNamespace,
			Range: rng(n.Span()), SelectionRange: rng(n.Span()),
		}
		for _, inner := range n.Decls {
			if child, ok := declSymbol(d, inner); ok {
				ds.Children = append(ds.Children, child)
			}
		}
		return ds, true
	case *wscript.TypeAliasDecl:
		return DocumentSymbol{
			Name: n.Name, Detail: "= " + n.Aliased.String(), Kind: SKClass,
			Range: rng(n.Span()), SelectionRange: rng(n.Span()),
		}, true
	case *wscript.EnumDecl:
		ds := DocumentSymbol{
			Name: n.Name, Kind: SKEnum,
			Range: rng(n.Span()), SelectionRange: rng(n.Span()),
		}
		for _, v := range n.Values {
			ds.Children = append(ds.Children, DocumentSymbol{
				Name: v, Kind: SKEnumMem,
				Range: rng(n.Span()), SelectionRange: rng(n.Span()),
			})
		}
		return ds, true
	}
	return DocumentSymbol{}, false
}

func (s *server) onWorkspaceSymbols(id json.RawMessage, params json.RawMessage) {
	var p WorkspaceSymbolParams
	_ = json.Unmarshal(params, &p)
	query := strings.ToLower(p.Query)

	s.mu.RLock()
	uris := make([]string, 0, len(s.docs))
	for uri := range s.docs {
		uris = append(uris, uri)
	}
	s.mu.RUnlock()
	sort.Strings(uris)

	out := []SymbolInformation{}
	for _, uri := range uris {
		d := s.snapshotDoc(uri)
		if d == nil || d.result == nil {
			continue
		}
		forEachSymbol(d.result.Table, func(_ wscript.ScopeID, sym *wscript.Symbol) {
			if sym.Kind == wscript.SymParameter {
				return
			}
			if query != "" && !strings.Contains(strings.ToLower(sym.Name), query) {
				return
			}
			out = append(out, SymbolInformation{
				Name: sym.Name,
				Kind: symbolKindFor(sym.Kind),
				Location: Location{
					URI:   uri,
					Range: symbolRange(d, sym),
				},
			})
		})
	}
	s.sendResponse(id, out, nil)
}
