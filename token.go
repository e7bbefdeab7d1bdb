// token.go — token kinds and keyword tables for the WorldEnv script language.
//
// The language is a hybrid: a single compilation unit may freely mix plain C,
// C++ and TypeScript-flavored declarations. The lexer is dialect-agnostic; it
// recognizes the union of all three keyword sets and leaves disambiguation to
// the parser's dialect gates. Tokens are immutable once produced and carry
// both 1-based line / 0-based column coordinates and precise byte spans
// [StartByte, EndByte) into the UTF-8 source, which the LSP layer relies on.
package wscript

import "fmt"

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	ILLEGAL

	// Trivia (emitted only when the lexer keeps trivia)
	COMMENT
	WHITESPACE
	PREPROC // a full '#...' preprocessor line

	// Identifiers & literals
	IDENT
	INT_LIT
	FLOAT_LIT
	STRING_LIT
	CHAR_LIT
	BOOL_LIT
	NULL_LIT // null / NULL / nullptr / undefined

	// Punctuation
	LPAREN   // "("
	RPAREN   // ")"
	LBRACE   // "{"
	RBRACE   // "}"
	LBRACKET // "["
	RBRACKET // "]"
	SEMI     // ";"
	COLON    // ":"
	SCOPE    // "::"
	COMMA    // ","
	PERIOD   // "."
	QUESTION // "?"
	ELLIPSIS // "..."
	AT       // "@" (decorators; tolerated, not interpreted)

	// Operators
	ASSIGN     // "="
	PLUS       // "+"
	MINUS      // "-"
	STAR       // "*"
	SLASH      // "/"
	PERCENT    // "%"
	AMP        // "&"
	PIPE       // "|"
	CARET      // "^"
	TILDE      // "~"
	BANG       // "!"
	EQ         // "=="
	NEQ        // "!="
	STRICT_EQ  // "===" (TS)
	STRICT_NEQ // "!==" (TS)
	LESS       // "<"
	GREATER    // ">"
	LESS_EQ    // "<="
	GREATER_EQ // ">="
	AND_AND    // "&&"
	OR_OR      // "||"
	SHL        // "<<"
	SHR        // ">>"
	PLUS_EQ    // "+="
	MINUS_EQ   // "-="
	STAR_EQ    // "*="
	SLASH_EQ   // "/="
	INC        // "++"
	DEC        // "--"
	ARROW      // "->"
	FAT_ARROW  // "=>"

	// Shared / C keywords
	KW_IF
	KW_ELSE
	KW_FOR
	KW_WHILE
	KW_DO
	KW_SWITCH
	KW_CASE
	KW_DEFAULT
	KW_BREAK
	KW_CONTINUE
	KW_RETURN
	KW_STRUCT
	KW_UNION
	KW_ENUM
	KW_TYPEDEF
	KW_CONST
	KW_VOLATILE
	KW_STATIC
	KW_EXTERN
	KW_INLINE
	KW_SIZEOF
	KW_GOTO

	// C++ keywords
	KW_CLASS
	KW_TEMPLATE
	KW_TYPENAME
	KW_NAMESPACE
	KW_USING
	KW_VIRTUAL
	KW_OVERRIDE
	KW_FINAL
	KW_PUBLIC
	KW_PRIVATE
	KW_PROTECTED
	KW_NEW
	KW_DELETE
	KW_THIS
	KW_OPERATOR
	KW_FRIEND
	KW_CONSTEXPR
	KW_TRY
	KW_CATCH
	KW_THROW

	// TypeScript keywords
	KW_INTERFACE
	KW_TYPE
	KW_LET
	KW_VAR
	KW_FUNCTION
	KW_ASYNC
	KW_AWAIT
	KW_EXPORT
	KW_IMPORT
	KW_FROM
	KW_OF
	KW_IN
	KW_IMPLEMENTS
	KW_EXTENDS
	KW_READONLY

	// Builtin type names from any dialect (int, double, string, number, ...).
	// A single kind keeps the parser's type-prefix test cheap; the concrete
	// name travels in the lexeme.
	PRIMITIVE
)

// Token is a lexical token with optional decoded literal value.
type Token struct {
	Type      TokenType
	Lexeme    string // raw text slice
	Literal   any    // decoded value for literals (int64, float64, string, bool)
	Line      int    // 1-based
	Col       int    // 0-based byte column within line
	StartByte int    // inclusive
	EndByte   int    // exclusive
}

// Span returns the token's half-open byte interval in the source.
func (t Token) Span() Span { return Span{StartByte: t.StartByte, EndByte: t.EndByte} }

// IsTrivia reports whether the token carries no grammar content.
func (t Token) IsTrivia() bool {
	return t.Type == COMMENT || t.Type == WHITESPACE || t.Type == PREPROC
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q @%d:%d", t.Type, t.Lexeme, t.Line, t.Col)
}

// keywords maps reserved words from all three dialects to their token kinds.
// Case matters; NULL and nullptr both collapse to NULL_LIT.
var keywords = map[string]TokenType{
	// shared / C
	"if": KW_IF, "else": KW_ELSE, "for": KW_FOR, "while": KW_WHILE,
	"do": KW_DO, "switch": KW_SWITCH, "case": KW_CASE, "default": KW_DEFAULT,
	"break": KW_BREAK, "continue": KW_CONTINUE, "return": KW_RETURN,
	"struct": KW_STRUCT, "union": KW_UNION, "enum": KW_ENUM,
	"typedef": KW_TYPEDEF, "const": KW_CONST, "volatile": KW_VOLATILE,
	"static": KW_STATIC, "extern": KW_EXTERN, "inline": KW_INLINE,
	"sizeof": KW_SIZEOF, "goto": KW_GOTO,

	// C++
	"class": KW_CLASS, "template": KW_TEMPLATE, "typename": KW_TYPENAME,
	"namespace": KW_NAMESPACE, "using": KW_USING, "virtual": KW_VIRTUAL,
	"override": KW_OVERRIDE, "final": KW_FINAL,
	"public": KW_PUBLIC, "private": KW_PRIVATE, "protected": KW_PROTECTED,
	"new": KW_NEW, "delete": KW_DELETE, "this": KW_THIS,
	"operator": KW_OPERATOR, "friend": KW_FRIEND, "constexpr": KW_CONSTEXPR,
	"try": KW_TRY, "catch": KW_CATCH, "throw": KW_THROW,

	// TypeScript
	"interface": KW_INTERFACE, "type": KW_TYPE, "let": KW_LET, "var": KW_VAR,
	"function": KW_FUNCTION, "async": KW_ASYNC, "await": KW_AWAIT,
	"export": KW_EXPORT, "import": KW_IMPORT, "from": KW_FROM,
	"of": KW_OF, "in": KW_IN, "implements": KW_IMPLEMENTS,
	"extends": KW_EXTENDS, "readonly": KW_READONLY,

	// literals
	"true": BOOL_LIT, "false": BOOL_LIT,
	"null": NULL_LIT, "NULL": NULL_LIT, "nullptr": NULL_LIT, "undefined": NULL_LIT,

	// builtin type names (any dialect)
	"void": PRIMITIVE, "int": PRIMITIVE, "char": PRIMITIVE, "float": PRIMITIVE,
	"double": PRIMITIVE, "long": PRIMITIVE, "short": PRIMITIVE,
	"signed": PRIMITIVE, "unsigned": PRIMITIVE, "bool": PRIMITIVE,
	"auto": PRIMITIVE, "wchar_t": PRIMITIVE, "size_t": PRIMITIVE,
	"string": PRIMITIVE, "number": PRIMITIVE, "boolean": PRIMITIVE,
	"any": PRIMITIVE, "unknown": PRIMITIVE, "never": PRIMITIVE,
}

var tokenNames = map[TokenType]string{
	EOF: "EOF", ILLEGAL: "ILLEGAL",
	COMMENT: "COMMENT", WHITESPACE: "WHITESPACE", PREPROC: "PREPROC",
	IDENT: "IDENT", INT_LIT: "INT_LIT", FLOAT_LIT: "FLOAT_LIT",
	STRING_LIT: "STRING_LIT", CHAR_LIT: "CHAR_LIT", BOOL_LIT: "BOOL_LIT",
	NULL_LIT: "NULL_LIT",
	LPAREN:  "LPAREN", RPAREN: "RPAREN", LBRACE: "LBRACE", RBRACE: "RBRACE",
	LBRACKET: "LBRACKET", RBRACKET: "RBRACKET", SEMI: "SEMI", COLON: "COLON",
	SCOPE: "SCOPE", COMMA: "COMMA", PERIOD: "PERIOD", QUESTION: "QUESTION",
	ELLIPSIS: "ELLIPSIS", AT: "AT",
	ASSIGN: "ASSIGN", PLUS: "PLUS", MINUS: "MINUS", STAR: "STAR",
	SLASH: "SLASH", PERCENT: "PERCENT", AMP: "AMP", PIPE: "PIPE",
	CARET: "CARET", TILDE: "TILDE", BANG: "BANG",
	EQ: "EQ", NEQ: "NEQ", STRICT_EQ: "STRICT_EQ", STRICT_NEQ: "STRICT_NEQ",
	LESS: "LESS", GREATER: "GREATER", LESS_EQ: "LESS_EQ", GREATER_EQ: "GREATER_EQ",
	AND_AND: "AND_AND", OR_OR: "OR_OR", SHL: "SHL", SHR: "SHR",
	PLUS_EQ: "PLUS_EQ", MINUS_EQ: "MINUS_EQ", STAR_EQ: "STAR_EQ", SLASH_EQ: "SLASH_EQ",
	INC: "INC", DEC: "DEC", ARROW: "ARROW", FAT_ARROW: "FAT_ARROW",
	KW_IF: "if", KW_ELSE: "else", KW_FOR: "for", KW_WHILE: "while",
	KW_DO: "do", KW_SWITCH: "switch", KW_CASE: "case", KW_DEFAULT: "default",
	KW_BREAK: "break", KW_CONTINUE: "continue", KW_RETURN: "return",
	KW_STRUCT: "struct", KW_UNION: "union", KW_ENUM: "enum",
	KW_TYPEDEF: "typedef", KW_CONST: "const", KW_VOLATILE: "volatile",
	KW_STATIC: "static", KW_EXTERN: "extern", KW_INLINE: "inline",
	KW_SIZEOF: "sizeof", KW_GOTO: "goto",
	KW_CLASS: "class", KW_TEMPLATE: "template", KW_TYPENAME: "typename",
	KW_NAMESPACE: "namespace", KW_USING: "using", KW_VIRTUAL: "virtual",
	KW_OVERRIDE: "override", KW_FINAL: "final",
	KW_PUBLIC: "public", KW_PRIVATE: "private", KW_PROTECTED: "protected",
	KW_NEW: "new", KW_DELETE: "delete", KW_THIS: "this",
	KW_OPERATOR: "operator", KW_FRIEND: "friend", KW_CONSTEXPR: "constexpr",
	KW_TRY: "try", KW_CATCH: "catch", KW_THROW: "throw",
	KW_INTERFACE: "interface", KW_TYPE: "type", KW_LET: "let", KW_VAR: "var",
	KW_FUNCTION: "function", KW_ASYNC: "async", KW_AWAIT: "await",
	KW_EXPORT: "export", KW_IMPORT: "import", KW_FROM: "from",
	KW_OF: "of", KW_IN: "in", KW_IMPLEMENTS: "implements",
	KW_EXTENDS: "extends", KW_READONLY: "readonly",
	PRIMITIVE: "PRIMITIVE",
}

func (tt TokenType) String() string {
	if s, ok := tokenNames[tt]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// isDeclStart reports whether a token can begin a declaration in some
// dialect. The parser uses this set as panic-mode synchronization points.
func isDeclStart(tt TokenType) bool {
	switch tt {
	case KW_STRUCT, KW_UNION, KW_ENUM, KW_TYPEDEF,
		KW_CLASS, KW_TEMPLATE, KW_NAMESPACE, KW_USING,
		KW_INTERFACE, KW_TYPE, KW_LET, KW_VAR, KW_FUNCTION, KW_ASYNC,
		KW_EXPORT, KW_IMPORT,
		KW_STATIC, KW_EXTERN, KW_INLINE, KW_CONST, KW_CONSTEXPR, KW_VIRTUAL,
		PRIMITIVE:
		return true
	default:
		return false
	}
}
