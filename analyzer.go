// analyzer.go — scope construction, name resolution and light type checks.
//
// OVERVIEW
// --------
// The analyzer makes a single document-order pass over the AST. As it walks
// it builds the scope tree in a Table, registers every declaration through
// AddSymbol (which applies the forward-declaration / overload / duplicate
// policy), and resolves every identifier use against the scopes open at that
// point. Use-before-declaration therefore falls out of the traversal order:
// a name not yet added simply fails to resolve.
//
// Type checking is declaration-level, not a full inference engine:
//
//   - initializers are checked against declared types (AssignableFrom)
//   - assignments are checked when both sides have known types
//   - call sites resolve against the callee's overload set; the first
//     signature whose parameters accept the argument types wins, and a call
//     matching none reports the candidates it tried
//   - member access is checked only when the receiver's type names a known
//     class or struct
//
// Every check degrades to silence when a type is unknown — unresolved or
// inferred-from-nothing values never cascade into secondary diagnostics.
// Analysis is non-fatal per declaration: one broken declaration does not
// stop the walk, but a FATAL on the reporter (error-cap overflow) does.
package wscript

import "fmt"

// Result summarizes one analysis pass.
type Result struct {
	SymbolsFound int
	TypesChecked int
	Errors       int
	Warnings     int
}

// Analyzer performs semantic analysis for a single Program. Not reusable
// across programs; build a fresh one per pass.
type Analyzer struct {
	table *Table
	rep   *Reporter

	symbols int
	checked int
}

// NewAnalyzer creates an analyzer reporting into rep.
func NewAnalyzer(rep *Reporter) *Analyzer {
	return &Analyzer{table: NewTable(), rep: rep}
}

// Table exposes the scope tree built by Analyze. Valid after Analyze
// returns; the LSP features query it for hover, completion and definition.
func (a *Analyzer) Table() *Table { return a.table }

// Analyze walks the program and returns the pass summary. Error and warning
// counts reflect the reporter's totals, which include any lexer and parser
// diagnostics recorded before analysis.
func (a *Analyzer) Analyze(prog *Program) Result {
	for _, d := range prog.Decls {
		if a.rep != nil && a.rep.HasFatal() {
			break
		}
		a.declare(d, GlobalScope, Public)
	}
	res := Result{SymbolsFound: a.symbols, TypesChecked: a.checked}
	if a.rep != nil {
		res.Errors = a.rep.ErrorCount()
		res.Warnings = a.rep.WarningCount()
	}
	return res
}

func (a *Analyzer) errorf(line, col int, format string, args ...any) {
	if a.rep != nil {
		a.rep.Errorf(SemanticError, line, col, format, args...)
	}
}

func (a *Analyzer) typeErrorf(line, col int, format string, args ...any) {
	if a.rep != nil {
		a.rep.Errorf(TypeCheckError, line, col, format, args...)
	}
}

func (a *Analyzer) report(d Diagnostic) {
	if a.rep != nil {
		a.rep.Report(d)
	}
}

// add registers sym and converts a DuplicateError into a SEMANTIC
// diagnostic. Returns the symbol actually stored under the name (the merged
// original on forward-decl/overload admission, nil on rejection).
func (a *Analyzer) add(scope ScopeID, sym *Symbol) *Symbol {
	if err := a.table.AddSymbol(scope, sym); err != nil {
		if dup, ok := err.(*DuplicateError); ok {
			a.report(Diagnostic{
				Category: SemanticError,
				Severity: SeverityError,
				Message:  dup.Error(),
				Line:     dup.Line,
				Col:      dup.Col,
				Span:     sym.Span,
				Suggestion: fmt.Sprintf("rename one of the conflicting declarations; the previous %s is at %d:%d",
					dup.Existing, dup.Prev.Line, dup.Prev.Col+1),
			})
		} else {
			a.errorf(sym.Line, sym.Col, "cannot declare %q: %v", sym.Name, err)
		}
		return nil
	}
	a.symbols++
	return a.table.LookupLocal(scope, sym.Name)
}

// nearestName proposes a visible symbol whose name is within two edits of
// name, for did-you-mean suggestions on unresolved identifiers.
func (a *Analyzer) nearestName(scope ScopeID, name string) string {
	best, bestDist := "", 3
	for id := scope; id != NoScope; id = a.table.Parent(id) {
		for _, sym := range a.table.Symbols(id) {
			d := editDistance(name, sym.Name)
			if d > 0 && d < bestDist {
				best, bestDist = sym.Name, d
			}
		}
	}
	return best
}

// undeclared reports an unresolved identifier, with a did-you-mean
// suggestion when a close name is in scope.
func (a *Analyzer) undeclared(scope ScopeID, line, col int, format, name string) {
	d := Diagnostic{
		Category: SemanticError,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, name),
		Line:     line,
		Col:      col,
	}
	if near := a.nearestName(scope, name); near != "" {
		d.Suggestion = fmt.Sprintf("did you mean %q?", near)
	}
	a.report(d)
}

// editDistance is a plain Levenshtein distance; inputs are identifier-sized.
func editDistance(s, t string) int {
	if len(s) > len(t) {
		s, t = t, s
	}
	if len(t)-len(s) > 2 {
		return len(t) // too far apart to ever suggest
	}
	prev := make([]int, len(s)+1)
	cur := make([]int, len(s)+1)
	for i := range prev {
		prev[i] = i
	}
	for j := 1; j <= len(t); j++ {
		cur[0] = j
		for i := 1; i <= len(s); i++ {
			cost := 1
			if s[i-1] == t[j-1] {
				cost = 0
			}
			cur[i] = min3(prev[i]+1, cur[i-1]+1, prev[i-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(s)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// ----- declarations -----

// declare registers one declaration and descends into its body. bodyParent
// differs from scope only under templates, where the body scope hangs off
// the template-parameter scope while the symbol lands in the enclosing one.
func (a *Analyzer) declare(d Decl, scope ScopeID, vis Visibility) {
	a.declareIn(d, scope, scope, vis)
}

func (a *Analyzer) declareIn(d Decl, scope, bodyParent ScopeID, vis Visibility) {
	switch n := d.(type) {
	case *FunctionDecl:
		a.declareFunction(n, scope, bodyParent, vis)
	case *VariableDecl:
		a.declareVariable(n, scope, vis, SymVariable)
	case *StructDecl:
		a.declareStruct(n, scope, vis)
	case *ClassDecl:
		a.declareClass(n, scope, bodyParent, vis)
	case *InterfaceDecl:
		a.declareInterface(n, scope, vis)
	case *TemplateDecl:
		a.declareTemplate(n, scope, vis)
	case *NamespaceDecl:
		a.declareNamespace(n, scope)
	case *TypeAliasDecl:
		a.add(scope, &Symbol{
			Name: n.Name, Kind: SymTypeAlias, Type: n.Aliased,
			Visibility: vis, Line: n.Line, Col: n.Col, Span: n.Sp,
			IsDefinition: true, Dialect: n.Dialect,
		})
	case *EnumDecl:
		a.declareEnum(n, scope, vis)
	case *ImportDecl:
		// imported names become opaque bindings; module resolution is a
		// build-system concern, not ours
		for _, name := range n.Names {
			a.add(scope, &Symbol{
				Name: name, Kind: SymVariable, Type: TypeInfo{Name: "any"},
				Visibility: Public, Line: n.Line, Col: n.Col, Span: n.Sp,
				IsDefinition: true, Dialect: DialectTS,
			})
		}
	case *BadDecl:
		// already reported by the parser
	}
}

func (a *Analyzer) declareFunction(n *FunctionDecl, scope, bodyParent ScopeID, vis Visibility) {
	sym := &Symbol{
		Name: n.Name, Kind: SymFunction, Type: n.Return,
		Visibility: vis, Line: n.Line, Col: n.Col, Span: n.Sp,
		Sig:            n.Signature(),
		IsForwardDecl:  n.Body == nil,
		IsDefinition:   n.Body != nil,
		TemplateParams: n.TemplateParams,
		Dialect:        n.Dialect,
	}
	if n.IsStatic {
		sym.Storage = "static"
	}
	a.add(scope, sym)
	if n.Body == nil {
		// prototypes carry their parameters on the signature only; a
		// function scope with SymParameter entries opens at the defining
		// occurrence (C prototypes may not even name their parameters)
		return
	}

	fnScope := a.table.NewScope(bodyParent, FunctionScope, n.Name)
	for _, p := range n.Params {
		if p.Name == "" || p.Name == "..." {
			continue
		}
		a.add(fnScope, &Symbol{
			Name: p.Name, Kind: SymParameter, Type: p.Type,
			Visibility: Public, Line: n.Line, Col: n.Col,
			IsDefinition: true, Dialect: n.Dialect,
		})
		if p.HasDefault && p.Default != nil {
			dt := a.checkExpr(p.Default, fnScope)
			a.checkAssignable(p.Type, dt, n.Line, n.Col,
				"default value for parameter %q", p.Name)
		}
	}
	// the body's brace scope is the function scope itself; nested braces
	// open fresh block scopes
	for _, s := range n.Body.Stmts {
		a.stmt(s, fnScope)
	}
}

func (a *Analyzer) declareVariable(n *VariableDecl, scope ScopeID, vis Visibility, kind SymbolKind) {
	sym := &Symbol{
		Name: n.Name, Kind: kind, Type: n.Type,
		Visibility: vis, Storage: n.Storage,
		Line: n.Line, Col: n.Col, Span: n.Sp,
		IsForwardDecl: n.Storage == "extern" && n.Init == nil,
		IsDefinition:  n.Storage != "extern" || n.Init != nil,
		Dialect:       n.Dialect,
	}
	if n.Init != nil {
		it := a.checkExpr(n.Init, scope)
		if n.Type.IsZero() {
			sym.Type = it // untyped `let x = ...` infers from the initializer
		} else {
			a.checkAssignable(n.Type, it, n.Line, n.Col,
				"initializer for %q", n.Name)
		}
	}
	a.add(scope, sym)
}

func (a *Analyzer) declareStruct(n *StructDecl, scope ScopeID, vis Visibility) {
	kind := SymStruct
	sym := &Symbol{
		Name: n.Name, Kind: kind, Type: TypeInfo{Name: n.Name},
		Visibility: vis, Line: n.Line, Col: n.Col, Span: n.Sp,
		IsForwardDecl: len(n.Fields) == 0,
		IsDefinition:  len(n.Fields) > 0,
		Dialect:       n.Dialect,
	}
	a.add(scope, sym)
	if len(n.Fields) == 0 {
		return
	}
	body := a.table.NewScope(scope, ClassScope, n.Name)
	for _, f := range n.Fields {
		a.declareVariable(f, body, Public, SymField)
	}
}

func (a *Analyzer) declareClass(n *ClassDecl, scope, bodyParent ScopeID, vis Visibility) {
	bases := make([]string, 0, len(n.Bases))
	for _, b := range n.Bases {
		bases = append(bases, b.Name)
	}
	sym := &Symbol{
		Name: n.Name, Kind: SymClass, Type: TypeInfo{Name: n.Name},
		Visibility: vis, Line: n.Line, Col: n.Col, Span: n.Sp,
		IsForwardDecl:  !n.HasBody,
		IsDefinition:   n.HasBody,
		TemplateParams: n.TemplateParams,
		BaseClasses:    bases,
		Dialect:        DialectCPP,
	}
	a.add(scope, sym)

	// base classes must already be known; a miss is a semantic defect, not
	// a type one
	for _, b := range n.Bases {
		if a.table.LookupQualified(scope, b.Name) == nil {
			a.errorf(n.Line, n.Col, "unknown base class %q of %q", b.Name, n.Name)
		}
	}
	if !n.HasBody {
		return
	}
	body := a.table.NewScope(bodyParent, ClassScope, n.Name)
	for _, m := range n.Members {
		if vd, ok := m.Decl.(*VariableDecl); ok {
			a.declareVariable(vd, body, m.Access, SymField)
			continue
		}
		a.declare(m.Decl, body, m.Access)
	}
}

func (a *Analyzer) declareInterface(n *InterfaceDecl, scope ScopeID, vis Visibility) {
	a.add(scope, &Symbol{
		Name: n.Name, Kind: SymInterface, Type: TypeInfo{Name: n.Name},
		Visibility: vis, Line: n.Line, Col: n.Col, Span: n.Sp,
		IsDefinition: true,
		BaseClasses:  append([]string(nil), n.Extends...),
		Dialect:      DialectTS,
	})
	for _, ext := range n.Extends {
		if a.table.LookupQualified(scope, ext) == nil {
			a.errorf(n.Line, n.Col, "interface %q extends unknown %q", n.Name, ext)
		}
	}
	body := a.table.NewScope(scope, InterfaceScope, n.Name)
	for _, m := range n.Members {
		switch md := m.Decl.(type) {
		case *FunctionDecl:
			a.add(body, &Symbol{
				Name: md.Name, Kind: SymFunction, Type: md.Return,
				Visibility: Public, Line: md.Line, Col: md.Col, Span: md.Sp,
				Sig: md.Signature(), IsDefinition: true, Dialect: DialectTS,
			})
		case *VariableDecl:
			a.declareVariable(md, body, Public, SymField)
		}
	}
}

func (a *Analyzer) declareTemplate(n *TemplateDecl, scope ScopeID, vis Visibility) {
	name := ""
	switch inner := n.Inner.(type) {
	case *ClassDecl:
		name = inner.Name
	case *FunctionDecl:
		name = inner.Name
	}
	tscope := a.table.NewScope(scope, TemplateScope, name)
	for _, p := range n.Params {
		a.add(tscope, &Symbol{
			Name: p, Kind: SymTemplateParam, Type: TypeInfo{Name: p},
			Visibility: Public, Line: n.Line, Col: n.Col,
			IsDefinition: true, Dialect: DialectCPP,
		})
	}
	// the declared symbol lands in the enclosing scope; its body resolves
	// names through the template-parameter scope
	a.declareIn(n.Inner, scope, tscope, vis)
}

func (a *Analyzer) declareNamespace(n *NamespaceDecl, scope ScopeID) {
	// namespaces reopen: a second `namespace engine { ... }` extends the
	// first instead of colliding
	body := NoScope
	if prev := a.table.LookupLocal(scope, n.Name); prev != nil && prev.Kind == SymNamespace {
		body = a.table.childScopeNamed(scope, n.Name)
	}
	if body == NoScope {
		a.add(scope, &Symbol{
			Name: n.Name, Kind: SymNamespace,
			Visibility: Public, Line: n.Line, Col: n.Col, Span: n.Sp,
			IsDefinition: true, Dialect: DialectCPP,
		})
		body = a.table.NewScope(scope, NamespaceScope, n.Name)
	}
	for _, d := range n.Decls {
		if a.rep != nil && a.rep.HasFatal() {
			return
		}
		a.declare(d, body, Public)
	}
}

func (a *Analyzer) declareEnum(n *EnumDecl, scope ScopeID, vis Visibility) {
	a.add(scope, &Symbol{
		Name: n.Name, Kind: SymEnum, Type: TypeInfo{Name: n.Name},
		Visibility: vis, Line: n.Line, Col: n.Col, Span: n.Sp,
		IsDefinition: true, Dialect: n.DeclDialect(),
	})
	// plain enums leak enumerators into the enclosing scope; `enum class`
	// confines them to a named child scope reached via `Color::RED`
	target := scope
	if n.IsClass {
		target = a.table.NewScope(scope, NamespaceScope, n.Name)
	}
	for _, v := range n.Values {
		a.add(target, &Symbol{
			Name: v, Kind: SymEnumerator, Type: TypeInfo{Name: n.Name},
			Visibility: Public, Line: n.Line, Col: n.Col,
			IsDefinition: true, Dialect: n.DeclDialect(),
		})
	}
}

// ----- statements -----

func (a *Analyzer) stmt(s Stmt, scope ScopeID) {
	if a.rep != nil && a.rep.HasFatal() {
		return
	}
	switch n := s.(type) {
	case *BlockStmt:
		inner := a.table.NewScope(scope, BlockScope, "")
		for _, sub := range n.Stmts {
			a.stmt(sub, inner)
		}
	case *DeclStmt:
		a.declare(n.D, scope, Public)
	case *ExprStmt:
		a.checkExpr(n.X, scope)
	case *IfStmt:
		a.checkExpr(n.Cond, scope)
		a.stmt(n.Then, scope)
		if n.Else != nil {
			a.stmt(n.Else, scope)
		}
	case *ForStmt:
		header := a.table.NewScope(scope, BlockScope, "")
		if n.Init != nil {
			a.stmt(n.Init, header)
		}
		if n.Cond != nil {
			a.checkExpr(n.Cond, header)
		}
		if n.Post != nil {
			a.checkExpr(n.Post, header)
		}
		a.stmt(n.Body, header)
	case *ForInStmt:
		header := a.table.NewScope(scope, BlockScope, "")
		a.add(header, &Symbol{
			Name: n.Var, Kind: SymVariable, IsDefinition: true,
			Visibility: Public, Dialect: DialectTS,
		})
		a.checkExpr(n.Iter, header)
		a.stmt(n.Body, header)
	case *WhileStmt:
		a.checkExpr(n.Cond, scope)
		a.stmt(n.Body, scope)
	case *DoWhileStmt:
		a.stmt(n.Body, scope)
		a.checkExpr(n.Cond, scope)
	case *SwitchStmt:
		a.checkExpr(n.Tag, scope)
		for _, c := range n.Cases {
			for _, v := range c.Values {
				a.checkExpr(v, scope)
			}
			inner := a.table.NewScope(scope, BlockScope, "")
			for _, sub := range c.Body {
				a.stmt(sub, inner)
			}
		}
	case *ReturnStmt:
		if n.Value != nil {
			a.checkExpr(n.Value, scope)
		}
	case *BreakStmt, *ContinueStmt, *BadStmt:
	}
}

// ----- expressions -----

// literalType maps a literal's class to its natural type.
func literalType(l *Literal) TypeInfo {
	switch l.Class {
	case LitInt:
		return TypeInfo{Name: "int"}
	case LitFloat:
		return TypeInfo{Name: "double"}
	case LitString:
		return TypeInfo{Name: "string"}
	case LitChar:
		return TypeInfo{Name: "char"}
	case LitBool:
		return TypeInfo{Name: "bool"}
	default:
		return TypeInfo{Name: "null"}
	}
}

// checkExpr resolves names and returns the expression's type, zero when
// unknown. Unknown types suppress downstream checks rather than erroring.
func (a *Analyzer) checkExpr(e Expr, scope ScopeID) TypeInfo {
	switch n := e.(type) {
	case *Literal:
		return literalType(n)

	case *Ident:
		if n.Name == "this" {
			return TypeInfo{} // typed by the enclosing class; left opaque
		}
		sym := a.table.LookupQualified(scope, n.Name)
		if sym == nil {
			a.undeclared(scope, n.Line, n.Col, "undeclared identifier %q", n.Name)
			return TypeInfo{}
		}
		if !a.table.Accessible(sym, scope) {
			a.errorf(n.Line, n.Col, "%q is %s in %s",
				n.Name, sym.Visibility, a.table.QualifiedName(sym))
		}
		return sym.Type

	case *UnaryExpr:
		xt := a.checkExpr(n.X, scope)
		switch n.Op {
		case BANG:
			return TypeInfo{Name: "bool"}
		case AMP:
			xt.IsPointer = true
			return xt
		case STAR:
			xt.IsPointer = false
			return xt
		case KW_SIZEOF:
			return TypeInfo{Name: "size_t"}
		case KW_NEW:
			xt.IsPointer = true
			return xt
		case KW_DELETE:
			return TypeInfo{Name: "void"}
		}
		return xt

	case *BinaryExpr:
		lt := a.checkExpr(n.L, scope)
		rt := a.checkExpr(n.R, scope)
		switch n.Op {
		case EQ, NEQ, STRICT_EQ, STRICT_NEQ, LESS, GREATER, LESS_EQ, GREATER_EQ,
			AND_AND, OR_OR:
			return TypeInfo{Name: "bool"}
		}
		if numericRank(rt.Name) > numericRank(lt.Name) {
			return rt
		}
		return lt

	case *AssignExpr:
		lt := a.checkExpr(n.L, scope)
		rt := a.checkExpr(n.R, scope)
		a.checkAssignable(lt, rt, lineOf(n.L), colOf(n.L), "assignment")
		return lt

	case *CondExpr:
		a.checkExpr(n.Cond, scope)
		tt := a.checkExpr(n.Then, scope)
		a.checkExpr(n.Else, scope)
		return tt

	case *CallExpr:
		return a.checkCall(n, scope)

	case *MemberExpr:
		return a.checkMember(n, scope)

	case *IndexExpr:
		xt := a.checkExpr(n.X, scope)
		a.checkExpr(n.Index, scope)
		if xt.IsArray {
			xt.IsArray = false
			xt.ArraySize = 0
			return xt
		}
		if xt.IsPointer {
			xt.IsPointer = false
			return xt
		}
		return TypeInfo{}

	case *ArrowFunc:
		fnScope := a.table.NewScope(scope, FunctionScope, "")
		for _, p := range n.Params {
			if p.Name == "" {
				continue
			}
			a.add(fnScope, &Symbol{
				Name: p.Name, Kind: SymParameter, Type: p.Type,
				Visibility: Public, IsDefinition: true, Dialect: DialectTS,
			})
		}
		a.stmt(n.Body, fnScope)
		return TypeInfo{Name: "function"}

	case *BadExpr:
		return TypeInfo{}
	}
	return TypeInfo{}
}

// checkCall resolves the callee and matches the arguments against its
// overload set.
func (a *Analyzer) checkCall(n *CallExpr, scope ScopeID) TypeInfo {
	args := make([]TypeInfo, len(n.Args))
	for i, arg := range n.Args {
		args[i] = a.checkExpr(arg, scope)
	}

	id, ok := n.Callee.(*Ident)
	if !ok {
		// method or computed callee: receiver is checked, the call itself
		// is not resolvable at this level
		a.checkExpr(n.Callee, scope)
		return TypeInfo{}
	}

	sym := a.table.LookupQualified(scope, id.Name)
	if sym == nil {
		a.undeclared(scope, id.Line, id.Col, "call to undeclared function %q", id.Name)
		return TypeInfo{}
	}
	if !a.table.Accessible(sym, scope) {
		a.errorf(id.Line, id.Col, "%q is %s in %s",
			id.Name, sym.Visibility, a.table.QualifiedName(sym))
	}

	switch sym.Kind {
	case SymFunction:
		a.checked++
		sigs := sym.Signatures()
		for _, sig := range sigs {
			if sig.AcceptsArgs(args) {
				return sig.Return
			}
		}
		a.typeErrorf(id.Line, id.Col,
			"no overload of %q matches arguments %s; candidates: %s",
			id.Name, renderArgs(args), renderSigs(sigs))
		return TypeInfo{}
	case SymClass, SymStruct:
		// constructor-style call
		return TypeInfo{Name: sym.Name}
	case SymVariable, SymParameter, SymField:
		// callable value (arrow function stored in a variable); argument
		// checking needs a function type, which TypeInfo does not carry
		return TypeInfo{}
	default:
		a.typeErrorf(id.Line, id.Col, "%q is a %s, not callable", id.Name, sym.Kind)
		return TypeInfo{}
	}
}

// checkMember resolves obj.field / obj->field when the receiver type names
// a known class or struct.
func (a *Analyzer) checkMember(n *MemberExpr, scope ScopeID) TypeInfo {
	xt := a.checkExpr(n.X, scope)
	if xt.IsZero() {
		return TypeInfo{}
	}
	recv := a.table.LookupQualified(scope, xt.Name)
	if recv == nil || (recv.Kind != SymClass && recv.Kind != SymStruct && recv.Kind != SymInterface) {
		return TypeInfo{}
	}
	body := a.table.childScopeNamed(recv.Scope, recv.Name)
	if body == NoScope {
		return TypeInfo{} // forward-declared receiver; nothing to resolve
	}
	member := a.table.LookupLocal(body, n.Member)
	if member == nil {
		a.errorf(lineOf(n.X), colOf(n.X), "%q has no member %q", xt.Name, n.Member)
		return TypeInfo{}
	}
	if !a.table.Accessible(member, scope) {
		a.errorf(lineOf(n.X), colOf(n.X), "member %q of %q is %s",
			n.Member, xt.Name, member.Visibility)
	}
	return member.Type
}

// checkAssignable reports a TYPE diagnostic when `from` cannot flow into
// `to`. Unknown sides are skipped.
func (a *Analyzer) checkAssignable(to, from TypeInfo, line, col int, format string, args ...any) {
	if to.IsZero() || from.IsZero() {
		return
	}
	a.checked++
	if !to.AssignableFrom(from) {
		what := fmt.Sprintf(format, args...)
		a.typeErrorf(line, col, "%s: cannot use value of type %s as %s", what, from, to)
	}
}

func renderArgs(args []TypeInfo) string {
	out := "("
	for i, t := range args {
		if i > 0 {
			out += ", "
		}
		if t.IsZero() {
			out += "?"
		} else {
			out += t.String()
		}
	}
	return out + ")"
}

func renderSigs(sigs []*FunctionSignature) string {
	out := ""
	for i, s := range sigs {
		if i > 0 {
			out += "; "
		}
		out += s.String()
	}
	return out
}

// lineOf / colOf pull best-effort coordinates off an expression for
// diagnostics; identifiers carry exact ones.
func lineOf(e Expr) int {
	if id, ok := e.(*Ident); ok {
		return id.Line
	}
	return 0
}

func colOf(e Expr) int {
	if id, ok := e.(*Ident); ok {
		return id.Col
	}
	return 0
}
