// lexer.go — byte scanner for hybrid C / C++ / TypeScript source.
//
// The lexer is unaware of which dialect is "active": it produces the union
// token vocabulary (token.go) and leaves grammar-level disambiguation to the
// parser. Contract (per the front-end design):
//
//   - Scan() always terminates with an EOF token, even on malformed input.
//   - Unterminated strings and malformed numeric literals are reported as
//     LEXICAL diagnostics through the Reporter and a best-effort recovery
//     token is emitted so the parser can continue.
//   - Comments, whitespace runs and preprocessor lines are trivia: dropped
//     by default, retained as typed tokens when KeepTrivia is set (needed
//     by formatting/hover features in the LSP layer).
//   - No side effects besides diagnostic emission; the scanner performs no
//     I/O and allocates only the token slice.
//
// Every token carries 1-based Line, 0-based Col and exact byte offsets
// [StartByte, EndByte) into the source.
package wscript

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

// LexOptions configures trivia retention.
type LexOptions struct {
	// KeepTrivia emits COMMENT / WHITESPACE / PREPROC tokens instead of
	// discarding them. With trivia kept, concatenating every token lexeme
	// reproduces the source byte-for-byte.
	KeepTrivia bool
}

// Lexer scans a source string into tokens.
type Lexer struct {
	src    string
	start  int // start index of current token
	cur    int // current index
	line   int // 1-based
	col    int // 0-based column within line
	tokens []Token
	opts   LexOptions
	rep    *Reporter

	// precise token start position
	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a lexer for the given source. Diagnostics are delivered
// to rep; the lexer itself never returns an error.
func NewLexer(src string, opts LexOptions, rep *Reporter) *Lexer {
	return &Lexer{
		src:  src,
		line: 1,
		col:  0,
		opts: opts,
		rep:  rep,
	}
}

// Tokenize is the convenience entry point: scan src in one call.
func Tokenize(src string, opts LexOptions, rep *Reporter) []Token {
	return NewLexer(src, opts, rep).Scan()
}

// Scan tokenizes the entire source and returns the tokens, EOF included.
func (l *Lexer) Scan() []Token {
	for {
		tok := l.scanToken()
		if tok.Type == EOF {
			return l.tokens
		}
	}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) peekN(n int) (byte, bool) {
	idx := l.cur + n
	if idx >= len(l.src) {
		return 0, false
	}
	return l.src[idx], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch, true
}

// match consumes the next byte when it equals want.
func (l *Lexer) match(want byte) bool {
	if b, ok := l.peek(); ok && b == want {
		l.advance()
		return true
	}
	return false
}

// rewindToStart backs the scanner up to the marked token start so a
// literal/identifier scanner can re-consume from the first byte. Position
// counters rewind with the cursor, otherwise the re-consumed byte would be
// counted twice and every column after it would drift.
func (l *Lexer) rewindToStart() {
	l.cur = l.start
	l.line = l.tokStartLine
	l.col = l.tokStartCol
}

func (l *Lexer) addToken(tt TokenType, lit any) Token {
	tok := Token{
		Type:      tt,
		Lexeme:    l.src[l.start:l.cur],
		Literal:   lit,
		Line:      l.tokStartLine,
		Col:       l.tokStartCol,
		StartByte: l.start,
		EndByte:   l.cur,
	}
	l.tokens = append(l.tokens, tok)
	l.start = l.cur
	return tok
}

func (l *Lexer) lexical(msg string) {
	if l.rep != nil {
		l.rep.Report(Diagnostic{
			Category: LexicalError,
			Severity: SeverityError,
			Message:  msg,
			Line:     l.tokStartLine,
			Col:      l.tokStartCol,
			Span:     Span{StartByte: l.start, EndByte: l.cur},
		})
	}
}

// markStart records the start coordinates of the next token.
func (l *Lexer) markStart() {
	l.tokStartLine = l.line
	l.tokStartCol = l.col
	l.start = l.cur
}

// ----- classification helpers -----

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isHex(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
func isAlpha(b byte) bool    { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool { return isAlpha(b) || isDigit(b) }
func isSpace(b byte) bool    { return b == ' ' || b == '\t' || b == '\r' || b == '\n' }

// ----- trivia -----

// scanWhitespace consumes a maximal whitespace run. Returns true when a
// WHITESPACE token was emitted (KeepTrivia), false when it was dropped.
func (l *Lexer) scanWhitespace() bool {
	for {
		b, ok := l.peek()
		if !ok || !isSpace(b) {
			break
		}
		l.advance()
	}
	if l.opts.KeepTrivia {
		l.addToken(WHITESPACE, nil)
		return true
	}
	l.start = l.cur
	return false
}

// scanLineComment consumes "//" to end of line (newline not included).
func (l *Lexer) scanLineComment() {
	for {
		b, ok := l.peek()
		if !ok || b == '\n' {
			break
		}
		l.advance()
	}
}

// scanBlockComment consumes "/* ... */". An unterminated block comment is a
// LEXICAL diagnostic; the rest of the file is swallowed as the comment body
// so scanning still ends cleanly at EOF.
func (l *Lexer) scanBlockComment() {
	for {
		b, ok := l.peek()
		if !ok {
			l.lexical("block comment was not terminated")
			return
		}
		if b == '*' {
			if b2, ok2 := l.peekN(1); ok2 && b2 == '/' {
				l.advance()
				l.advance()
				return
			}
		}
		l.advance()
	}
}

// scanPreproc consumes a '#...' line including backslash continuations.
func (l *Lexer) scanPreproc() {
	for {
		b, ok := l.peek()
		if !ok {
			return
		}
		if b == '\\' {
			if b2, ok2 := l.peekN(1); ok2 && b2 == '\n' {
				l.advance()
				l.advance()
				continue
			}
		}
		if b == '\n' {
			return
		}
		l.advance()
	}
}

// ----- literals -----

// scanString decodes a quoted literal (", ' or `). On a missing closing
// delimiter it reports a LEXICAL diagnostic and returns the text scanned so
// far as the recovery value.
func (l *Lexer) scanString() (string, bool) {
	del := l.src[l.start]
	l.advance() // consume the delimiter

	var out []rune
	for !l.isAtEnd() {
		ch, _ := l.advance()
		if ch == del {
			return string(out), true
		}
		if ch == '\n' && del != '`' {
			// strings don't span lines outside template literals
			l.lexical("string literal was not terminated")
			return string(out), false
		}
		if ch == '\\' {
			if l.isAtEnd() {
				l.lexical("unfinished escape sequence")
				return string(out), false
			}
			esc, _ := l.advance()
			switch esc {
			case '"':
				out = append(out, '"')
			case '\'':
				out = append(out, '\'')
			case '`':
				out = append(out, '`')
			case '\\':
				out = append(out, '\\')
			case '0':
				out = append(out, 0)
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'u', 'x':
				// \xNN or \uNNNN
				n := 2
				if esc == 'u' {
					n = 4
				}
				var hex string
				for i := 0; i < n; i++ {
					b, ok := l.peek()
					if !ok || !isHex(b) {
						break
					}
					hex += string(b)
					l.advance()
				}
				if hex == "" {
					l.lexical(fmt.Sprintf("invalid \\%c escape", esc))
					continue
				}
				v, err := strconv.ParseInt(hex, 16, 32)
				if err != nil {
					l.lexical("invalid hex escape")
					continue
				}
				out = append(out, rune(v))
			case '\n':
				// escaped newline inside a string: keep going
			default:
				out = append(out, rune(esc))
			}
			continue
		}
		if ch < utf8.RuneSelf {
			out = append(out, rune(ch))
			continue
		}
		// non-ASCII byte: back up and decode a full rune
		l.cur--
		r, size := utf8.DecodeRuneInString(l.src[l.cur:])
		if r == utf8.RuneError && size == 1 {
			l.lexical("invalid UTF-8 in source")
			l.cur++
			continue
		}
		out = append(out, r)
		l.cur += size
		l.col += size - 1
	}
	l.lexical("string literal was not terminated")
	return string(out), false
}

// scanNumber parses an integer or float with C/TS shapes: decimal, hex
// (0x...), fractions, exponents, and single-letter suffixes (f, u, l, n).
// Malformed literals report a LEXICAL diagnostic and produce a zero-valued
// recovery token of the best-guess kind.
func (l *Lexer) scanNumber() (TokenType, any) {
	// hex
	if b, _ := l.peek(); b == '0' {
		if b2, ok := l.peekN(1); ok && (b2 == 'x' || b2 == 'X') {
			l.advance()
			l.advance()
			sawHex := false
			for {
				b, ok := l.peek()
				if !ok || !isHex(b) {
					break
				}
				l.advance()
				sawHex = true
			}
			if !sawHex {
				l.lexical("malformed hex literal")
				return INT_LIT, int64(0)
			}
			v, err := strconv.ParseInt(l.src[l.start+2:l.cur], 16, 64)
			if err != nil {
				l.lexical("hex literal out of range")
				v = 0
			}
			l.eatNumSuffix()
			return INT_LIT, v
		}
	}

	digits := func() {
		for {
			b, ok := l.peek()
			if !ok || !isDigit(b) {
				break
			}
			l.advance()
		}
	}

	digits()
	numEnd := l.cur

	sawDot := false
	if b, ok := l.peek(); ok && b == '.' {
		// ".." would start an ellipsis, not a fraction
		if b2, ok2 := l.peekN(1); !ok2 || isDigit(b2) {
			l.advance()
			sawDot = true
			digits()
			numEnd = l.cur
		}
	}

	sawExp := false
	if b, ok := l.peek(); ok && (b == 'e' || b == 'E') {
		save := l.cur
		l.advance()
		if b2, ok2 := l.peek(); ok2 && (b2 == '+' || b2 == '-') {
			l.advance()
		}
		if b3, ok3 := l.peek(); ok3 && isDigit(b3) {
			sawExp = true
			digits()
			numEnd = l.cur
		} else {
			l.cur = save
		}
	}

	lex := l.src[l.start:numEnd]
	l.eatNumSuffix()

	if !sawDot && !sawExp {
		v, err := strconv.ParseInt(lex, 10, 64)
		if err != nil {
			l.lexical("invalid integer literal")
			v = 0
		}
		return INT_LIT, v
	}
	vf, err := strconv.ParseFloat(lex, 64)
	if err != nil {
		l.lexical("invalid float literal")
		vf = 0
	}
	return FLOAT_LIT, vf
}

// eatNumSuffix swallows C-style literal suffixes (1.0f, 10u, 42L, 5n).
func (l *Lexer) eatNumSuffix() {
	for {
		b, ok := l.peek()
		if !ok {
			return
		}
		switch b {
		case 'f', 'F', 'u', 'U', 'l', 'L', 'n':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) scanIdentifier() string {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	return l.src[l.start:l.cur]
}

// ----- main scanner -----

func (l *Lexer) scanToken() Token {
	for {
		l.markStart()

		if l.isAtEnd() {
			return l.addToken(EOF, nil)
		}

		b, _ := l.peek()

		// trivia: whitespace
		if isSpace(b) {
			if l.scanWhitespace() {
				return l.tokens[len(l.tokens)-1]
			}
			continue
		}

		// trivia: comments
		if b == '/' {
			if b2, ok := l.peekN(1); ok && (b2 == '/' || b2 == '*') {
				l.advance()
				l.advance()
				if b2 == '/' {
					l.scanLineComment()
				} else {
					l.scanBlockComment()
				}
				if l.opts.KeepTrivia {
					return l.addToken(COMMENT, nil)
				}
				l.start = l.cur
				continue
			}
		}

		// trivia: preprocessor lines (#include, #define, #pragma, ...).
		// A stray mid-line '#' (e.g. a completion trigger being typed) is
		// tolerated the same way so the scanner never derails on it.
		if b == '#' {
			l.advance()
			l.scanPreproc()
			if l.opts.KeepTrivia {
				return l.addToken(PREPROC, nil)
			}
			l.start = l.cur
			continue
		}

		ch, _ := l.advance()

		switch ch {
		case '(':
			return l.addToken(LPAREN, nil)
		case ')':
			return l.addToken(RPAREN, nil)
		case '{':
			return l.addToken(LBRACE, nil)
		case '}':
			return l.addToken(RBRACE, nil)
		case '[':
			return l.addToken(LBRACKET, nil)
		case ']':
			return l.addToken(RBRACKET, nil)
		case ';':
			return l.addToken(SEMI, nil)
		case ',':
			return l.addToken(COMMA, nil)
		case '?':
			return l.addToken(QUESTION, nil)
		case '~':
			return l.addToken(TILDE, nil)
		case '@':
			return l.addToken(AT, nil)
		case '^':
			return l.addToken(CARET, nil)
		case '%':
			return l.addToken(PERCENT, nil)
		case ':':
			if l.match(':') {
				return l.addToken(SCOPE, nil)
			}
			return l.addToken(COLON, nil)
		case '.':
			if b2, ok := l.peek(); ok && isDigit(b2) {
				l.rewindToStart()
				tt, lit := l.scanNumber()
				return l.addToken(tt, lit)
			}
			if b2, ok := l.peek(); ok && b2 == '.' {
				if b3, ok3 := l.peekN(1); ok3 && b3 == '.' {
					l.advance()
					l.advance()
					return l.addToken(ELLIPSIS, nil)
				}
			}
			return l.addToken(PERIOD, nil)
		case '+':
			if l.match('+') {
				return l.addToken(INC, nil)
			}
			if l.match('=') {
				return l.addToken(PLUS_EQ, nil)
			}
			return l.addToken(PLUS, nil)
		case '-':
			if l.match('-') {
				return l.addToken(DEC, nil)
			}
			if l.match('=') {
				return l.addToken(MINUS_EQ, nil)
			}
			if l.match('>') {
				return l.addToken(ARROW, nil)
			}
			return l.addToken(MINUS, nil)
		case '*':
			if l.match('=') {
				return l.addToken(STAR_EQ, nil)
			}
			return l.addToken(STAR, nil)
		case '/':
			if l.match('=') {
				return l.addToken(SLASH_EQ, nil)
			}
			return l.addToken(SLASH, nil)
		case '=':
			if l.match('=') {
				if l.match('=') {
					return l.addToken(STRICT_EQ, nil)
				}
				return l.addToken(EQ, nil)
			}
			if l.match('>') {
				return l.addToken(FAT_ARROW, nil)
			}
			return l.addToken(ASSIGN, nil)
		case '!':
			if l.match('=') {
				if l.match('=') {
					return l.addToken(STRICT_NEQ, nil)
				}
				return l.addToken(NEQ, nil)
			}
			return l.addToken(BANG, nil)
		case '<':
			if l.match('=') {
				return l.addToken(LESS_EQ, nil)
			}
			if l.match('<') {
				return l.addToken(SHL, nil)
			}
			return l.addToken(LESS, nil)
		case '>':
			if l.match('=') {
				return l.addToken(GREATER_EQ, nil)
			}
			if l.match('>') {
				return l.addToken(SHR, nil)
			}
			return l.addToken(GREATER, nil)
		case '&':
			if l.match('&') {
				return l.addToken(AND_AND, nil)
			}
			return l.addToken(AMP, nil)
		case '|':
			if l.match('|') {
				return l.addToken(OR_OR, nil)
			}
			return l.addToken(PIPE, nil)
		}

		// strings & chars
		if ch == '"' || ch == '\'' || ch == '`' {
			l.rewindToStart()
			text, terminated := l.scanString()
			if ch == '\'' && terminated && utf8.RuneCountInString(text) == 1 {
				r, _ := utf8.DecodeRuneInString(text)
				return l.addToken(CHAR_LIT, int64(r))
			}
			return l.addToken(STRING_LIT, text)
		}

		// numbers
		if isDigit(ch) {
			l.rewindToStart()
			tt, lit := l.scanNumber()
			return l.addToken(tt, lit)
		}

		// identifiers & keywords
		if isAlpha(ch) {
			l.rewindToStart()
			lex := l.scanIdentifier()
			if tt, ok := keywords[lex]; ok {
				switch tt {
				case BOOL_LIT:
					return l.addToken(BOOL_LIT, lex == "true")
				case NULL_LIT:
					return l.addToken(NULL_LIT, nil)
				default:
					return l.addToken(tt, nil)
				}
			}
			return l.addToken(IDENT, lex)
		}

		// unknown byte: report once and emit a placeholder so positions
		// stay aligned for the parser
		l.lexical(fmt.Sprintf("unexpected character %q", ch))
		return l.addToken(ILLEGAL, nil)
	}
}

// StripTrivia returns tokens with COMMENT/WHITESPACE/PREPROC removed.
// The parser operates on the stripped stream.
func StripTrivia(toks []Token) []Token {
	out := make([]Token, 0, len(toks))
	for _, t := range toks {
		if t.IsTrivia() {
			continue
		}
		out = append(out, t)
	}
	return out
}
