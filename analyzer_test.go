// analyzer_test.go
package wscript

import (
	"strings"
	"testing"
)

func analyze(t *testing.T, src string) (*Analyzer, Result, *Reporter) {
	t.Helper()
	rep := NewReporter(DefaultMaxErrors)
	toks := Tokenize(src, LexOptions{}, rep)
	prog := Parse(toks, DefaultOptions(), rep)
	an := NewAnalyzer(rep)
	res := an.Analyze(prog)
	return an, res, rep
}

func analyzeClean(t *testing.T, src string) (*Analyzer, Result) {
	t.Helper()
	an, res, rep := analyze(t, src)
	if rep.ErrorCount() > 0 {
		t.Fatalf("unexpected errors:\n%s", rep.GenerateReport())
	}
	return an, res
}

func wantOneError(t *testing.T, rep *Reporter, cat Category, substr string) {
	t.Helper()
	if rep.ErrorCount() != 1 {
		t.Fatalf("want exactly 1 error, got %d:\n%s", rep.ErrorCount(), rep.GenerateReport())
	}
	d := rep.Errors()[0]
	if d.Category != cat {
		t.Fatalf("want %v, got %v (%s)", cat, d.Category, d.Message)
	}
	if !strings.Contains(d.Message, substr) {
		t.Fatalf("message %q does not mention %q", d.Message, substr)
	}
}

func Test_Analyzer_PrototypeParamsStayOnSignature(t *testing.T) {
	an, res := analyzeClean(t, `
int add(int a, int b);
int r = add(1, 2);
`)
	tab := an.Table()
	sym := tab.Lookup(GlobalScope, "add")
	if sym == nil || sym.Sig == nil {
		t.Fatal("prototype must register a function symbol with a signature")
	}
	if len(sym.Sig.Params) != 2 {
		t.Fatalf("both parameters live on the signature, got %d", len(sym.Sig.Params))
	}
	if !sym.IsForwardDecl {
		t.Fatal("a bodiless declaration is a forward declaration")
	}
	// no function scope opens until a body exists
	for _, c := range tab.Children(GlobalScope) {
		if tab.Kind(c) == FunctionScope && tab.Name(c) == "add" {
			t.Fatal("prototype must not open a function scope")
		}
	}
	// overload resolution still sees the parameter types
	if res.TypesChecked == 0 {
		t.Fatal("the call to add must be checked against the prototype")
	}

	// the defining occurrence opens the scope and registers parameters
	an2, _ := analyzeClean(t, `
int add(int a, int b);
int add(int a, int b) { return a + b; }
`)
	tab2 := an2.Table()
	var fn ScopeID = NoScope
	for _, c := range tab2.Children(GlobalScope) {
		if tab2.Kind(c) == FunctionScope && tab2.Name(c) == "add" {
			fn = c
		}
	}
	if fn == NoScope {
		t.Fatal("definition must open the function scope")
	}
	if tab2.LookupLocal(fn, "a") == nil || tab2.LookupLocal(fn, "b") == nil {
		t.Fatal("defined function registers SymParameter entries")
	}
}

func Test_Analyzer_SymbolsLandInScopes(t *testing.T) {
	an, res := analyzeClean(t, `
int lives = 3;
void tick(float dt) {
    int frame = 0;
    frame = frame + 1;
}
`)
	if res.SymbolsFound < 4 { // lives, tick, dt, frame
		t.Fatalf("SymbolsFound: %d", res.SymbolsFound)
	}
	tab := an.Table()
	if tab.Lookup(GlobalScope, "lives") == nil || tab.Lookup(GlobalScope, "tick") == nil {
		t.Fatal("globals missing")
	}
	if tab.Lookup(GlobalScope, "frame") != nil {
		t.Fatal("function locals must not leak into the global scope")
	}
}

func Test_Analyzer_UseBeforeDeclaration(t *testing.T) {
	_, _, rep := analyze(t, `
void f() {
    count = 1;
}
int count;
`)
	wantOneError(t, rep, SemanticError, "count")
}

func Test_Analyzer_UndeclaredIdentifier(t *testing.T) {
	_, _, rep := analyze(t, `
void f() {
    ghost++;
}
`)
	wantOneError(t, rep, SemanticError, "ghost")
}

func Test_Analyzer_ShadowingIsLegal(t *testing.T) {
	analyzeClean(t, `
int x = 1;
void f() {
    float x = 2.0;
    {
        string x = "deep";
    }
}
`)
}

func Test_Analyzer_DuplicateInSameScope(t *testing.T) {
	_, _, rep := analyze(t, `
int hp = 1;
int hp = 2;
`)
	wantOneError(t, rep, SemanticError, "redefinition")
}

func Test_Analyzer_DuplicateSuggestsPriorLocation(t *testing.T) {
	_, _, rep := analyze(t, `
int hp = 1;
int hp = 2;
`)
	wantOneError(t, rep, SemanticError, "redefinition")
	s := rep.Errors()[0].Suggestion
	if !strings.Contains(s, "2:5") {
		t.Fatalf("suggestion must point at the previous declaration, got %q", s)
	}
}

func Test_Analyzer_UndeclaredSuggestsNearbyName(t *testing.T) {
	_, _, rep := analyze(t, `
int health = 10;
void f() {
    healht = 0;
}
`)
	wantOneError(t, rep, SemanticError, "healht")
	if want := `did you mean "health"?`; rep.Errors()[0].Suggestion != want {
		t.Fatalf("suggestion: got %q, want %q", rep.Errors()[0].Suggestion, want)
	}

	// nothing close in scope: no guess is better than a bad guess
	_, _, rep2 := analyze(t, `
void g() {
    phantasm = 1;
}
`)
	wantOneError(t, rep2, SemanticError, "phantasm")
	if s := rep2.Errors()[0].Suggestion; s != "" {
		t.Fatalf("no close name exists, yet suggestion is %q", s)
	}
}

func Test_Analyzer_ForwardDeclThenDefinition(t *testing.T) {
	an, _ := analyzeClean(t, `
float clamp(float v);
float clamp(float v) { return v; }
`)
	sym := an.Table().Lookup(GlobalScope, "clamp")
	if sym.IsForwardDecl || !sym.IsDefinition {
		t.Fatalf("merge flags: %+v", sym)
	}
	if len(sym.Signatures()) != 1 {
		t.Fatalf("want one merged signature, got %d", len(sym.Signatures()))
	}
}

func Test_Analyzer_OverloadsResolveAtCallSites(t *testing.T) {
	analyzeClean(t, `
void emit(int code) {}
void emit(string text) {}
void g() {
    emit(42);
    emit("boom");
}
`)
}

func Test_Analyzer_CallWithNoMatchingOverload(t *testing.T) {
	_, _, rep := analyze(t, `
void emit(int code) {}
void g() {
    emit("boom", 2);
}
`)
	wantOneError(t, rep, TypeCheckError, "no overload")
	if !strings.Contains(rep.Errors()[0].Message, "(int") {
		t.Fatalf("candidates missing from %q", rep.Errors()[0].Message)
	}
}

func Test_Analyzer_InitializerTypeMismatch(t *testing.T) {
	_, _, rep := analyze(t, `int hp = "full";`)
	wantOneError(t, rep, TypeCheckError, "hp")
}

func Test_Analyzer_NumericWideningAccepted(t *testing.T) {
	analyzeClean(t, `
double d = 3;
float f = 'c';
let n: number = 7;
`)
}

func Test_Analyzer_UntypedLetInfersFromInitializer(t *testing.T) {
	an, _ := analyzeClean(t, `let speed = 1.5;`)
	sym := an.Table().Lookup(GlobalScope, "speed")
	if sym.Type.Name != "double" {
		t.Fatalf("inferred type: %s", sym.Type)
	}
}

func Test_Analyzer_DefaultParameterAllowsShortCall(t *testing.T) {
	analyzeClean(t, `
void log(string msg, int level = 1) {}
void g() {
    log("hi");
    log("hi", 3);
}
`)
}

func Test_Analyzer_ClassMembersAndVisibility(t *testing.T) {
	_, _, rep := analyze(t, `
class Player {
public:
    int hp;
private:
    int secret;
};
void g() {
    Player p;
    p.hp = 1;
    p.secret = 2;
}
`)
	wantOneError(t, rep, SemanticError, "secret")
}

func Test_Analyzer_UnknownMemberAccess(t *testing.T) {
	_, _, rep := analyze(t, `
struct Vec2 { float x; float y; };
void g() {
    Vec2 v;
    v.z = 1.0;
}
`)
	wantOneError(t, rep, SemanticError, "z")
}

func Test_Analyzer_NamespaceReopens(t *testing.T) {
	an, _ := analyzeClean(t, `
namespace engine { int a; }
namespace engine { int b; }
void g() {
    engine::a = engine::b;
}
`)
	tab := an.Table()
	if tab.LookupQualified(GlobalScope, "engine::a") == nil ||
		tab.LookupQualified(GlobalScope, "engine::b") == nil {
		t.Fatal("reopened namespace must share one scope")
	}
}

func Test_Analyzer_EnumeratorsVisible(t *testing.T) {
	analyzeClean(t, `
enum Color { RED, GREEN };
enum class State { Idle, Running };
void g() {
    Color c = RED;
    State s = State::Idle;
}
`)
}

func Test_Analyzer_UnknownBaseClass(t *testing.T) {
	_, _, rep := analyze(t, `
class Boss : public Phantom {
};
`)
	wantOneError(t, rep, SemanticError, "Phantom")
}

func Test_Analyzer_TemplateParamResolvesInBody(t *testing.T) {
	analyzeClean(t, `
template<typename T>
class Box {
public:
    T item;
};
`)
}

func Test_Analyzer_InterfaceExtendsKnownInterface(t *testing.T) {
	_, _, rep := analyze(t, `
interface Entity { id: number; }
interface Mob extends Entity { hp: number; }
interface Ghost extends Missing { }
`)
	wantOneError(t, rep, SemanticError, "Missing")
}

func Test_Analyzer_ImportedNamesUsable(t *testing.T) {
	analyzeClean(t, `
import { spawn } from "engine/entities";
void g() {
    spawn;
}
`)
}

func Test_Analyzer_MalformedInputNeverPanics(t *testing.T) {
	inputs := []string{
		"",
		";",
		"class",
		"int int int",
		"void f( { } )",
		"template<",
		"let = = =;",
		"}}}}{{{{",
		"\x00\xff\xfe",
		"interface X { ( }",
	}
	for _, src := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("panic on %q: %v", src, r)
				}
			}()
			CheckSource(src)
		}()
	}
}

func Test_Analyzer_PipelineRunSummary(t *testing.T) {
	fr := Run("level.wes", `
struct Vec2 { float x; float y; };
Vec2 position;
let label: string = 12;
`, DefaultConfig())
	if fr.Summary.SymbolsFound == 0 {
		t.Fatal("symbols not counted")
	}
	if !fr.HasErrors() {
		t.Fatal("the string/number mismatch must be reported")
	}
	if fr.Confidence.TS == 0 || fr.Confidence.C == 0 {
		t.Fatalf("confidence must score both dialects: %+v", fr.Confidence)
	}
}
