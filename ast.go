// ast.go — typed AST for the hybrid script language.
//
// OVERVIEW
// --------
// The parser produces a tree of concrete node structs discriminated by a
// closed NodeKind enumeration. Every node answers Kind() and Span(); switch
// statements over NodeKind are the dispatch mechanism throughout the
// analyzer, so adding a variant means the compiler points at every switch
// that must learn about it.
//
// Declarations additionally carry a Dialect tag recording which grammar rule
// produced them (plain C, C++, or TypeScript-flavored). The tag is metadata
// for tooling; it never changes semantics.
//
// Node catalog
// ------------
// Declarations:
//
//	FunctionDecl   int add(int a, int b) { ... }   |  function f(a: number) {...}
//	VariableDecl   int x = 1;  let y: string = ""; |  const z = 0;
//	StructDecl     struct Vec { float x; ... };
//	ClassDecl      class Player : public Entity { ... };
//	InterfaceDecl  interface Damageable { hp: number; }
//	TemplateDecl   template<typename T> ...inner declaration...
//	NamespaceDecl  namespace engine { ... }
//	TypeAliasDecl  typedef unsigned int uint;  |  type Vec2 = { x, y };
//	EnumDecl       enum Color { RED, GREEN };
//	ImportDecl     import { X } from "mod";  (TS; recorded, not resolved)
//	BadDecl        placeholder emitted after panic-mode recovery
//
// Statements: BlockStmt, DeclStmt, ExprStmt, IfStmt, ForStmt, ForInStmt,
// WhileStmt, DoWhileStmt, SwitchStmt, ReturnStmt, BreakStmt, ContinueStmt,
// BadStmt.
//
// Expressions: Ident, Literal, UnaryExpr, BinaryExpr, AssignExpr, CondExpr,
// CallExpr, MemberExpr, IndexExpr, ArrowFunc, BadExpr.
//
// Nodes are allocated fresh per parse and never mutated afterwards; the
// analyzer attaches symbol information to its own tables, not to the tree.
package wscript

// Span is a half-open byte interval [StartByte, EndByte) in the original
// UTF-8 source. Line/column coordinates are derived on demand from the
// source text by whoever needs them (carried over from the sidecar-span
// convention of the previous engine).
type Span struct {
	StartByte int // inclusive
	EndByte   int // exclusive
}

// Dialect records which grammar family produced a declaration.
type Dialect int

const (
	DialectC Dialect = iota
	DialectCPP
	DialectTS
)

func (d Dialect) String() string {
	switch d {
	case DialectC:
		return "c"
	case DialectCPP:
		return "cpp"
	case DialectTS:
		return "ts"
	default:
		return "unknown"
	}
}

// NodeKind discriminates AST node variants.
type NodeKind int

const (
	KindBadDecl NodeKind = iota
	KindFunctionDecl
	KindVariableDecl
	KindStructDecl
	KindClassDecl
	KindInterfaceDecl
	KindTemplateDecl
	KindNamespaceDecl
	KindTypeAliasDecl
	KindEnumDecl
	KindImportDecl

	KindBadStmt
	KindBlockStmt
	KindDeclStmt
	KindExprStmt
	KindIfStmt
	KindForStmt
	KindForInStmt
	KindWhileStmt
	KindDoWhileStmt
	KindSwitchStmt
	KindReturnStmt
	KindBreakStmt
	KindContinueStmt

	KindBadExpr
	KindIdent
	KindLiteral
	KindUnaryExpr
	KindBinaryExpr
	KindAssignExpr
	KindCondExpr
	KindCallExpr
	KindMemberExpr
	KindIndexExpr
	KindArrowFunc
)

// Node is any AST node.
type Node interface {
	Kind() NodeKind
	Span() Span
}

// Decl is a declaration node; declarations carry a dialect tag.
type Decl interface {
	Node
	DeclDialect() Dialect
	declNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Program is the root of a parsed compilation unit.
type Program struct {
	Decls []Decl
	Sp    Span
}

func (p *Program) Kind() NodeKind { return KindBlockStmt }
func (p *Program) Span() Span     { return p.Sp }

// declBase carries the fields shared by all declarations.
type declBase struct {
	Sp      Span
	Dialect Dialect
	Line    int // 1-based line of the declaring token
	Col     int // 0-based column of the declaring token
}

func (d declBase) Span() Span           { return d.Sp }
func (d declBase) DeclDialect() Dialect { return d.Dialect }
func (declBase) declNode()              {}

// ----- declarations -----

// Param is one formal parameter of a function-like declaration.
type Param struct {
	Name       string
	Type       TypeInfo
	Optional   bool // TS `x?: T`
	HasDefault bool
	Default    Expr
}

// FunctionDecl covers free functions, methods, and TS function statements.
// Body == nil marks a forward declaration (prototype).
type FunctionDecl struct {
	declBase
	Name           string
	Return         TypeInfo
	Params         []Param
	Body           *BlockStmt
	IsVirtual      bool
	IsOverride     bool
	IsFinal        bool
	IsAsync        bool
	IsStatic       bool
	TemplateParams []string
}

func (*FunctionDecl) Kind() NodeKind { return KindFunctionDecl }

// Signature assembles the declaration's FunctionSignature view.
func (f *FunctionDecl) Signature() *FunctionSignature {
	return &FunctionSignature{
		Return:         f.Return,
		Params:         f.Params,
		IsVirtual:      f.IsVirtual,
		IsOverride:     f.IsOverride,
		IsFinal:        f.IsFinal,
		IsAsync:        f.IsAsync,
		TemplateParams: append([]string(nil), f.TemplateParams...),
	}
}

// VariableDecl covers C declarations, C++ members, and TS let/const/var.
type VariableDecl struct {
	declBase
	Name    string
	Type    TypeInfo // zero Name means untyped (let x = ...)
	Init    Expr
	Storage string // "static" | "extern" | "" etc.
	IsConst bool
}

func (*VariableDecl) Kind() NodeKind { return KindVariableDecl }

// StructDecl is a plain-C struct or union.
type StructDecl struct {
	declBase
	Name    string
	IsUnion bool
	Fields  []*VariableDecl
}

func (*StructDecl) Kind() NodeKind { return KindStructDecl }

// BaseSpec names one base class with its access specifier.
type BaseSpec struct {
	Name   string
	Access Visibility
}

// Member is a class/interface member with its effective visibility.
type Member struct {
	Access Visibility
	Decl   Decl
}

// ClassDecl is a C++ class. Body == false (no brace body seen) marks a
// forward declaration.
type ClassDecl struct {
	declBase
	Name           string
	Bases          []BaseSpec
	Members        []Member
	HasBody        bool
	IsFinal        bool
	TemplateParams []string
}

func (*ClassDecl) Kind() NodeKind { return KindClassDecl }

// InterfaceDecl is a TS interface.
type InterfaceDecl struct {
	declBase
	Name    string
	Extends []string
	Members []Member
}

func (*InterfaceDecl) Kind() NodeKind { return KindInterfaceDecl }

// TemplateDecl wraps a class or function declaration with its template
// parameter list. Only declaration-level bookkeeping; no instantiation.
type TemplateDecl struct {
	declBase
	Params []string
	Inner  Decl
}

func (*TemplateDecl) Kind() NodeKind { return KindTemplateDecl }

// NamespaceDecl is a C++ namespace.
type NamespaceDecl struct {
	declBase
	Name  string
	Decls []Decl
}

func (*NamespaceDecl) Kind() NodeKind { return KindNamespaceDecl }

// TypeAliasDecl covers C typedef and TS type aliases.
type TypeAliasDecl struct {
	declBase
	Name    string
	Aliased TypeInfo
}

func (*TypeAliasDecl) Kind() NodeKind { return KindTypeAliasDecl }

// EnumDecl is a C/C++/TS enum; enumerators are name-only at this level.
type EnumDecl struct {
	declBase
	Name    string
	IsClass bool // C++ `enum class`
	Values  []string
}

func (*EnumDecl) Kind() NodeKind { return KindEnumDecl }

// ImportDecl records a TS import; module resolution is out of scope.
type ImportDecl struct {
	declBase
	Names  []string
	Module string
}

func (*ImportDecl) Kind() NodeKind { return KindImportDecl }

// BadDecl stands in for a region skipped by panic-mode recovery.
type BadDecl struct {
	declBase
}

func (*BadDecl) Kind() NodeKind { return KindBadDecl }

// ----- statements -----

type stmtBase struct{ Sp Span }

func (s stmtBase) Span() Span { return s.Sp }
func (stmtBase) stmtNode()    {}

type BlockStmt struct {
	stmtBase
	Stmts []Stmt
}

func (*BlockStmt) Kind() NodeKind { return KindBlockStmt }

// DeclStmt wraps a declaration appearing in statement position.
type DeclStmt struct {
	stmtBase
	D Decl
}

func (*DeclStmt) Kind() NodeKind { return KindDeclStmt }

type ExprStmt struct {
	stmtBase
	X Expr
}

func (*ExprStmt) Kind() NodeKind { return KindExprStmt }

type IfStmt struct {
	stmtBase
	Cond Expr
	Then Stmt
	Else Stmt // nil when absent
}

func (*IfStmt) Kind() NodeKind { return KindIfStmt }

type ForStmt struct {
	stmtBase
	Init Stmt // nil, DeclStmt or ExprStmt
	Cond Expr // nil when absent
	Post Expr // nil when absent
	Body Stmt
}

func (*ForStmt) Kind() NodeKind { return KindForStmt }

// ForInStmt is TS `for (const x of xs)` / `for (x in obj)`.
type ForInStmt struct {
	stmtBase
	Var  string
	Of   bool // true for `of`, false for `in`
	Iter Expr
	Body Stmt
}

func (*ForInStmt) Kind() NodeKind { return KindForInStmt }

type WhileStmt struct {
	stmtBase
	Cond Expr
	Body Stmt
}

func (*WhileStmt) Kind() NodeKind { return KindWhileStmt }

type DoWhileStmt struct {
	stmtBase
	Body Stmt
	Cond Expr
}

func (*DoWhileStmt) Kind() NodeKind { return KindDoWhileStmt }

// SwitchCase is one `case v1: ...` or `default: ...` arm.
type SwitchCase struct {
	Values []Expr // empty for default
	Body   []Stmt
}

type SwitchStmt struct {
	stmtBase
	Tag   Expr
	Cases []SwitchCase
}

func (*SwitchStmt) Kind() NodeKind { return KindSwitchStmt }

type ReturnStmt struct {
	stmtBase
	Value Expr // nil for bare return
}

func (*ReturnStmt) Kind() NodeKind { return KindReturnStmt }

type BreakStmt struct{ stmtBase }

func (*BreakStmt) Kind() NodeKind { return KindBreakStmt }

type ContinueStmt struct{ stmtBase }

func (*ContinueStmt) Kind() NodeKind { return KindContinueStmt }

// BadStmt stands in for a statement skipped by panic-mode recovery.
type BadStmt struct{ stmtBase }

func (*BadStmt) Kind() NodeKind { return KindBadStmt }

// ----- expressions -----

type exprBase struct{ Sp Span }

func (e exprBase) Span() Span { return e.Sp }
func (exprBase) exprNode()    {}

// Ident is a possibly qualified name. Qualified references keep their
// `A::B::C` spelling in Name and are resolved via Table.LookupQualified.
type Ident struct {
	exprBase
	Name string
	Line int
	Col  int
}

func (*Ident) Kind() NodeKind { return KindIdent }

// LiteralClass tags the value family of a Literal.
type LiteralClass int

const (
	LitInt LiteralClass = iota
	LitFloat
	LitString
	LitChar
	LitBool
	LitNull
)

type Literal struct {
	exprBase
	Class LiteralClass
	Value any // int64, float64, string, bool or nil
}

func (*Literal) Kind() NodeKind { return KindLiteral }

type UnaryExpr struct {
	exprBase
	Op      TokenType
	X       Expr
	Postfix bool // x++ / x--
}

func (*UnaryExpr) Kind() NodeKind { return KindUnaryExpr }

type BinaryExpr struct {
	exprBase
	Op TokenType
	L  Expr
	R  Expr
}

func (*BinaryExpr) Kind() NodeKind { return KindBinaryExpr }

type AssignExpr struct {
	exprBase
	Op TokenType // ASSIGN, PLUS_EQ, ...
	L  Expr
	R  Expr
}

func (*AssignExpr) Kind() NodeKind { return KindAssignExpr }

type CondExpr struct {
	exprBase
	Cond Expr
	Then Expr
	Else Expr
}

func (*CondExpr) Kind() NodeKind { return KindCondExpr }

type CallExpr struct {
	exprBase
	Callee Expr
	Args   []Expr
}

func (*CallExpr) Kind() NodeKind { return KindCallExpr }

type MemberExpr struct {
	exprBase
	X      Expr
	Member string
	Arrow  bool // obj->field vs obj.field
}

func (*MemberExpr) Kind() NodeKind { return KindMemberExpr }

type IndexExpr struct {
	exprBase
	X     Expr
	Index Expr
}

func (*IndexExpr) Kind() NodeKind { return KindIndexExpr }

// ArrowFunc is a TS arrow function expression.
type ArrowFunc struct {
	exprBase
	Params  []Param
	Return  TypeInfo
	Body    Stmt // BlockStmt or ExprStmt (expression body)
	IsAsync bool
}

func (*ArrowFunc) Kind() NodeKind { return KindArrowFunc }

// BadExpr stands in for an expression skipped by panic-mode recovery.
type BadExpr struct{ exprBase }

func (*BadExpr) Kind() NodeKind { return KindBadExpr }
