// scope.go — arena-backed lexical scope tree and symbol table.
//
// WHAT THIS MODULE DOES
// =====================
// Scopes form a tree mirroring the program's lexical structure (global →
// namespace → class → function → block, plus template and interface
// scopes). Each scope owns a name→Symbol map; symbols hold a back-reference
// to their owning scope.
//
// The tree is stored as an arena: scope nodes live in one slice inside
// Table and reference each other by ScopeID index, never by pointer. That
// removes parent/child lifetime ambiguity and makes the whole table
// trivially snapshottable. GlobalScope is always ID 0.
//
// Redefinition policy (AddSymbol):
//
//	(a) existing forward declaration + new definition  -> merge in place
//	(b) both FUNCTION kind, different parameter shape  -> record overload
//	(c) anything else                                  -> duplicate error
//
// Lookup walks from the queried scope to global (inner shadows outer —
// lexical scoping). LookupQualified resolves "A::B::C" segment by segment
// through named child scopes, failing fast on the first unresolved segment.
//
// Visibility: PUBLIC is always usable; PRIVATE only from inside the owning
// class scope. PROTECTED is deliberately approximate — it is granted only
// from the same class, not from derived classes, because no inheritance
// graph is built at this level. Accessible documents this restriction.
package wscript

import (
	"fmt"
	"strings"
)

// ScopeKind classifies a scope node.
type ScopeKind int

const (
	GlobalScopeKind ScopeKind = iota
	NamespaceScope
	ClassScope
	FunctionScope
	BlockScope
	TemplateScope
	InterfaceScope
)

func (k ScopeKind) String() string {
	switch k {
	case GlobalScopeKind:
		return "GLOBAL"
	case NamespaceScope:
		return "NAMESPACE"
	case ClassScope:
		return "CLASS"
	case FunctionScope:
		return "FUNCTION"
	case BlockScope:
		return "BLOCK"
	case TemplateScope:
		return "TEMPLATE"
	case InterfaceScope:
		return "INTERFACE"
	default:
		return "UNKNOWN"
	}
}

// ScopeID is an index into the Table's scope arena.
type ScopeID int

// GlobalScope is the root scope's ID in every Table.
const GlobalScope ScopeID = 0

// NoScope marks an absent parent.
const NoScope ScopeID = -1

// SymbolKind classifies a symbol.
type SymbolKind int

const (
	SymFunction SymbolKind = iota
	SymVariable
	SymParameter
	SymStruct
	SymClass
	SymInterface
	SymNamespace
	SymTypeAlias
	SymEnum
	SymEnumerator
	SymTemplateParam
	SymField
)

func (k SymbolKind) String() string {
	switch k {
	case SymFunction:
		return "function"
	case SymVariable:
		return "variable"
	case SymParameter:
		return "parameter"
	case SymStruct:
		return "struct"
	case SymClass:
		return "class"
	case SymInterface:
		return "interface"
	case SymNamespace:
		return "namespace"
	case SymTypeAlias:
		return "type"
	case SymEnum:
		return "enum"
	case SymEnumerator:
		return "enumerator"
	case SymTemplateParam:
		return "template parameter"
	case SymField:
		return "field"
	default:
		return "symbol"
	}
}

// Visibility gates member access.
type Visibility int

const (
	Public Visibility = iota
	Protected
	Private
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return "public"
	}
}

// Symbol is one named declaration. Scope always points at the owning scope;
// ownership is exclusive per name, with overloads recorded on the original
// FUNCTION entry.
type Symbol struct {
	Name           string
	Kind           SymbolKind
	Type           TypeInfo
	Visibility     Visibility
	Storage        string
	Line           int // 1-based
	Col            int // 0-based
	Span           Span
	Scope          ScopeID
	Sig            *FunctionSignature   // primary signature (SymFunction)
	Overloads      []*FunctionSignature // additional signatures
	IsForwardDecl  bool
	IsDefinition   bool
	TemplateParams []string
	BaseClasses    []string
	Dialect        Dialect
}

// Signatures returns every signature registered under this name, primary
// first. Empty for non-functions.
func (s *Symbol) Signatures() []*FunctionSignature {
	if s.Sig == nil {
		return nil
	}
	out := make([]*FunctionSignature, 0, 1+len(s.Overloads))
	out = append(out, s.Sig)
	out = append(out, s.Overloads...)
	return out
}

// scopeNode is one arena entry.
type scopeNode struct {
	kind     ScopeKind
	name     string // namespaces/classes/functions get names; blocks don't
	parent   ScopeID
	children []ScopeID
	symbols  map[string]*Symbol
	order    []string // insertion order, for deterministic iteration
}

// Table is the arena of scopes for one analysis pass.
type Table struct {
	scopes []scopeNode
}

// NewTable creates a table containing only the global scope.
func NewTable() *Table {
	t := &Table{}
	t.scopes = append(t.scopes, scopeNode{
		kind:    GlobalScopeKind,
		parent:  NoScope,
		symbols: make(map[string]*Symbol),
	})
	return t
}

// NewScope appends a child scope and returns its handle.
func (t *Table) NewScope(parent ScopeID, kind ScopeKind, name string) ScopeID {
	id := ScopeID(len(t.scopes))
	t.scopes = append(t.scopes, scopeNode{
		kind:    kind,
		name:    name,
		parent:  parent,
		symbols: make(map[string]*Symbol),
	})
	t.scopes[parent].children = append(t.scopes[parent].children, id)
	return id
}

// Kind returns the scope's kind.
func (t *Table) Kind(id ScopeID) ScopeKind { return t.scopes[id].kind }

// Name returns the scope's name ("" for anonymous scopes).
func (t *Table) Name(id ScopeID) string { return t.scopes[id].name }

// Parent returns the parent handle, NoScope for the global scope.
func (t *Table) Parent(id ScopeID) ScopeID { return t.scopes[id].parent }

// Children returns the child scope handles in creation order.
func (t *Table) Children(id ScopeID) []ScopeID {
	return append([]ScopeID(nil), t.scopes[id].children...)
}

// Symbols returns the scope's own symbols in declaration order.
func (t *Table) Symbols(id ScopeID) []*Symbol {
	n := &t.scopes[id]
	out := make([]*Symbol, 0, len(n.order))
	for _, name := range n.order {
		out = append(out, n.symbols[name])
	}
	return out
}

// DuplicateError reports a rejected redefinition.
type DuplicateError struct {
	Name     string
	Prev     *Symbol
	Line     int
	Col      int
	Existing string // human description of the existing entry
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("redefinition of %q (previous %s at %d:%d)",
		e.Name, e.Existing, e.Prev.Line, e.Prev.Col+1)
}

// AddSymbol registers sym in scope id, applying the redefinition policy:
// forward-declaration merge, overload admission, or duplicate rejection.
// On success sym.Scope is set to id.
func (t *Table) AddSymbol(id ScopeID, sym *Symbol) error {
	n := &t.scopes[id]
	prev, exists := n.symbols[sym.Name]
	if !exists {
		sym.Scope = id
		n.symbols[sym.Name] = sym
		n.order = append(n.order, sym.Name)
		return nil
	}

	// (a) definition supersedes a matching forward declaration, in place:
	// same identity, now defined.
	if prev.IsForwardDecl && sym.IsDefinition && prev.Kind == sym.Kind {
		if prev.Kind != SymFunction || prev.Sig.SameShape(sym.Sig) {
			prev.IsForwardDecl = false
			prev.IsDefinition = true
			prev.Line, prev.Col, prev.Span = sym.Line, sym.Col, sym.Span
			prev.Type = sym.Type
			if sym.Sig != nil {
				prev.Sig = sym.Sig
			}
			if len(sym.BaseClasses) > 0 {
				prev.BaseClasses = sym.BaseClasses
			}
			return nil
		}
	}

	// (b) distinct function shapes under one name become an overload set.
	if prev.Kind == SymFunction && sym.Kind == SymFunction && sym.Sig != nil {
		for _, existing := range prev.Signatures() {
			if existing.SameShape(sym.Sig) {
				// same shape again: a second forward declaration is
				// harmless, a second definition is a duplicate
				if !sym.IsDefinition {
					return nil
				}
				if prev.IsForwardDecl {
					prev.IsForwardDecl = false
					prev.IsDefinition = true
					prev.Line, prev.Col, prev.Span = sym.Line, sym.Col, sym.Span
					return nil
				}
				return &DuplicateError{
					Name: sym.Name, Prev: prev,
					Line: sym.Line, Col: sym.Col,
					Existing: "definition",
				}
			}
		}
		prev.Overloads = append(prev.Overloads, sym.Sig)
		return nil
	}

	// (c) everything else is a duplicate definition.
	return &DuplicateError{
		Name: sym.Name, Prev: prev,
		Line: sym.Line, Col: sym.Col,
		Existing: prev.Kind.String(),
	}
}

// Lookup resolves name from scope id outwards to global, returning the
// first match (inner shadows outer) or nil.
func (t *Table) Lookup(id ScopeID, name string) *Symbol {
	for id != NoScope {
		if sym, ok := t.scopes[id].symbols[name]; ok {
			return sym
		}
		id = t.scopes[id].parent
	}
	return nil
}

// LookupLocal resolves name in scope id only.
func (t *Table) LookupLocal(id ScopeID, name string) *Symbol {
	sym := t.scopes[id].symbols[name]
	return sym
}

// LookupQualified resolves an "A::B::C" path. The first segment uses the
// normal outward walk; each later segment must name a symbol inside the
// named child scope of the previous segment's scope. Returns nil as soon as
// any segment fails to resolve.
func (t *Table) LookupQualified(id ScopeID, qualified string) *Symbol {
	segs := strings.Split(qualified, "::")
	if len(segs) == 1 {
		return t.Lookup(id, qualified)
	}
	sym := t.Lookup(id, segs[0])
	if sym == nil {
		return nil
	}
	cur := t.childScopeNamed(sym.Scope, segs[0])
	if cur == NoScope {
		return nil
	}
	for i := 1; i < len(segs); i++ {
		sym = t.LookupLocal(cur, segs[i])
		if sym == nil {
			return nil
		}
		if i < len(segs)-1 {
			cur = t.childScopeNamed(cur, segs[i])
			if cur == NoScope {
				return nil
			}
		}
	}
	return sym
}

// childScopeNamed finds the child of parent whose name matches.
func (t *Table) childScopeNamed(parent ScopeID, name string) ScopeID {
	for _, c := range t.scopes[parent].children {
		if t.scopes[c].name == name {
			return c
		}
	}
	return NoScope
}

// Accessible reports whether sym may be used from scope `from`.
//
// PUBLIC symbols are always accessible. PRIVATE requires `from` to sit
// inside the class scope that owns sym. PROTECTED is treated the same as
// PRIVATE: the derived-class case is intentionally not granted, because the
// table does not build an inheritance graph. This is a documented
// approximation, not an oversight.
func (t *Table) Accessible(sym *Symbol, from ScopeID) bool {
	if sym.Visibility == Public {
		return true
	}
	owner := t.enclosingClass(sym.Scope)
	if owner == NoScope {
		return true // visibility outside a class is meaningless
	}
	return t.enclosingClassMatching(from, owner)
}

// enclosingClass walks outwards to the nearest CLASS scope (which may be id
// itself).
func (t *Table) enclosingClass(id ScopeID) ScopeID {
	for id != NoScope {
		if t.scopes[id].kind == ClassScope {
			return id
		}
		id = t.scopes[id].parent
	}
	return NoScope
}

// enclosingClassMatching reports whether any CLASS scope enclosing `from`
// is exactly `owner`.
func (t *Table) enclosingClassMatching(from, owner ScopeID) bool {
	for from != NoScope {
		if t.scopes[from].kind == ClassScope && from == owner {
			return true
		}
		from = t.scopes[from].parent
	}
	return false
}

// QualifiedName renders the scope path of a symbol, e.g. "engine::Player".
func (t *Table) QualifiedName(sym *Symbol) string {
	var parts []string
	for id := sym.Scope; id != NoScope; id = t.scopes[id].parent {
		if n := t.scopes[id].name; n != "" {
			parts = append([]string{n}, parts...)
		}
	}
	parts = append(parts, sym.Name)
	return strings.Join(parts, "::")
}
