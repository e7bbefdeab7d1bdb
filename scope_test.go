// scope_test.go
package wscript

import "testing"

func sig(params ...TypeInfo) *FunctionSignature {
	ps := make([]Param, len(params))
	for i, t := range params {
		ps[i] = Param{Name: "p", Type: t}
	}
	return &FunctionSignature{Return: TypeInfo{Name: "void"}, Params: ps}
}

func intT() TypeInfo    { return TypeInfo{Name: "int"} }
func floatT() TypeInfo  { return TypeInfo{Name: "float"} }
func stringT() TypeInfo { return TypeInfo{Name: "string"} }

func Test_Scope_GlobalIsAlwaysZero(t *testing.T) {
	tab := NewTable()
	if tab.Kind(GlobalScope) != GlobalScopeKind {
		t.Fatal("scope 0 must be the global scope")
	}
	if tab.Parent(GlobalScope) != NoScope {
		t.Fatal("global scope has no parent")
	}
}

func Test_Scope_LookupWalksOutward(t *testing.T) {
	tab := NewTable()
	fn := tab.NewScope(GlobalScope, FunctionScope, "f")
	block := tab.NewScope(fn, BlockScope, "")

	if err := tab.AddSymbol(GlobalScope, &Symbol{Name: "g", Kind: SymVariable, Type: intT()}); err != nil {
		t.Fatal(err)
	}
	got := tab.Lookup(block, "g")
	if got == nil || got.Scope != GlobalScope {
		t.Fatalf("outward walk failed: %+v", got)
	}
	if tab.LookupLocal(block, "g") != nil {
		t.Fatal("LookupLocal must not walk outward")
	}
}

func Test_Scope_InnerShadowsOuter(t *testing.T) {
	tab := NewTable()
	fn := tab.NewScope(GlobalScope, FunctionScope, "f")

	if err := tab.AddSymbol(GlobalScope, &Symbol{Name: "x", Kind: SymVariable, Type: intT()}); err != nil {
		t.Fatal(err)
	}
	if err := tab.AddSymbol(fn, &Symbol{Name: "x", Kind: SymVariable, Type: floatT()}); err != nil {
		t.Fatalf("shadowing across scopes must be legal: %v", err)
	}
	if got := tab.Lookup(fn, "x"); got.Type.Name != "float" {
		t.Fatalf("inner must shadow outer, resolved %s", got.Type)
	}
	if got := tab.Lookup(GlobalScope, "x"); got.Type.Name != "int" {
		t.Fatalf("outer unaffected, resolved %s", got.Type)
	}
}

func Test_Scope_ForwardDeclMerge(t *testing.T) {
	tab := NewTable()
	fwd := &Symbol{Name: "update", Kind: SymFunction, Sig: sig(floatT()),
		IsForwardDecl: true, Line: 1}
	if err := tab.AddSymbol(GlobalScope, fwd); err != nil {
		t.Fatal(err)
	}
	def := &Symbol{Name: "update", Kind: SymFunction, Sig: sig(floatT()),
		IsDefinition: true, Line: 9}
	if err := tab.AddSymbol(GlobalScope, def); err != nil {
		t.Fatalf("definition must merge into forward declaration: %v", err)
	}
	got := tab.Lookup(GlobalScope, "update")
	if got.IsForwardDecl || !got.IsDefinition {
		t.Fatalf("merge flags: %+v", got)
	}
	if got.Line != 9 {
		t.Fatalf("merge must adopt the definition site, got line %d", got.Line)
	}
	if len(got.Signatures()) != 1 {
		t.Fatalf("merge must not create an overload, got %d signatures", len(got.Signatures()))
	}
}

func Test_Scope_OverloadAdmission(t *testing.T) {
	tab := NewTable()
	if err := tab.AddSymbol(GlobalScope, &Symbol{Name: "spawn", Kind: SymFunction,
		Sig: sig(intT()), IsDefinition: true}); err != nil {
		t.Fatal(err)
	}
	if err := tab.AddSymbol(GlobalScope, &Symbol{Name: "spawn", Kind: SymFunction,
		Sig: sig(intT(), floatT()), IsDefinition: true}); err != nil {
		t.Fatalf("different shapes must overload: %v", err)
	}
	got := tab.Lookup(GlobalScope, "spawn")
	if len(got.Signatures()) != 2 {
		t.Fatalf("want 2 signatures, got %d", len(got.Signatures()))
	}
}

func Test_Scope_SameShapeRedefinitionRejected(t *testing.T) {
	tab := NewTable()
	if err := tab.AddSymbol(GlobalScope, &Symbol{Name: "tick", Kind: SymFunction,
		Sig: sig(floatT()), IsDefinition: true}); err != nil {
		t.Fatal(err)
	}
	err := tab.AddSymbol(GlobalScope, &Symbol{Name: "tick", Kind: SymFunction,
		Sig: sig(floatT()), IsDefinition: true, Line: 4})
	if err == nil {
		t.Fatal("second definition with identical shape must be rejected")
	}
	if _, ok := err.(*DuplicateError); !ok {
		t.Fatalf("want *DuplicateError, got %T", err)
	}
}

func Test_Scope_RepeatedPrototypeTolerated(t *testing.T) {
	tab := NewTable()
	proto := func() *Symbol {
		return &Symbol{Name: "load", Kind: SymFunction, Sig: sig(stringT()), IsForwardDecl: true}
	}
	if err := tab.AddSymbol(GlobalScope, proto()); err != nil {
		t.Fatal(err)
	}
	if err := tab.AddSymbol(GlobalScope, proto()); err != nil {
		t.Fatalf("re-declaring the same prototype is harmless: %v", err)
	}
	if n := len(tab.Lookup(GlobalScope, "load").Signatures()); n != 1 {
		t.Fatalf("want 1 signature, got %d", n)
	}
}

func Test_Scope_DuplicateVariableRejected(t *testing.T) {
	tab := NewTable()
	if err := tab.AddSymbol(GlobalScope, &Symbol{Name: "hp", Kind: SymVariable, Type: intT()}); err != nil {
		t.Fatal(err)
	}
	if err := tab.AddSymbol(GlobalScope, &Symbol{Name: "hp", Kind: SymVariable, Type: intT()}); err == nil {
		t.Fatal("duplicate variable in one scope must be rejected")
	}
}

func Test_Scope_LookupQualified(t *testing.T) {
	tab := NewTable()
	if err := tab.AddSymbol(GlobalScope, &Symbol{Name: "engine", Kind: SymNamespace}); err != nil {
		t.Fatal(err)
	}
	ns := tab.NewScope(GlobalScope, NamespaceScope, "engine")
	if err := tab.AddSymbol(ns, &Symbol{Name: "Player", Kind: SymClass, Type: TypeInfo{Name: "Player"}}); err != nil {
		t.Fatal(err)
	}
	cls := tab.NewScope(ns, ClassScope, "Player")
	if err := tab.AddSymbol(cls, &Symbol{Name: "hp", Kind: SymField, Type: intT()}); err != nil {
		t.Fatal(err)
	}

	if got := tab.LookupQualified(GlobalScope, "engine::Player"); got == nil || got.Kind != SymClass {
		t.Fatalf("engine::Player: %+v", got)
	}
	if got := tab.LookupQualified(GlobalScope, "engine::Player::hp"); got == nil || got.Kind != SymField {
		t.Fatalf("engine::Player::hp: %+v", got)
	}
	if tab.LookupQualified(GlobalScope, "engine::Missing::hp") != nil {
		t.Fatal("unresolvable middle segment must fail fast")
	}
}

func Test_Scope_QualifiedNameRendering(t *testing.T) {
	tab := NewTable()
	ns := tab.NewScope(GlobalScope, NamespaceScope, "engine")
	sym := &Symbol{Name: "tick", Kind: SymFunction, Sig: sig()}
	if err := tab.AddSymbol(ns, sym); err != nil {
		t.Fatal(err)
	}
	if got := tab.QualifiedName(sym); got != "engine::tick" {
		t.Fatalf("QualifiedName: %q", got)
	}
}

func Test_Scope_VisibilityEnforcement(t *testing.T) {
	tab := NewTable()
	cls := tab.NewScope(GlobalScope, ClassScope, "Player")
	method := tab.NewScope(cls, FunctionScope, "heal")
	priv := &Symbol{Name: "hp_", Kind: SymField, Type: intT(), Visibility: Private}
	if err := tab.AddSymbol(cls, priv); err != nil {
		t.Fatal(err)
	}

	if !tab.Accessible(priv, method) {
		t.Fatal("private member must be accessible from its own class's method")
	}
	if tab.Accessible(priv, GlobalScope) {
		t.Fatal("private member must not be accessible from outside")
	}

	// protected is approximated as same-class only: no inheritance graph
	// exists at this layer, so a derived class is NOT granted access
	prot := &Symbol{Name: "shield_", Kind: SymField, Type: intT(), Visibility: Protected}
	if err := tab.AddSymbol(cls, prot); err != nil {
		t.Fatal(err)
	}
	derived := tab.NewScope(GlobalScope, ClassScope, "Boss")
	if tab.Accessible(prot, derived) {
		t.Fatal("protected access from another class is not granted")
	}
}
