// Package lexer implements the mako lexer (tokeniser).
//
// The lexer converts a source string into a flat stream of [ast.Token] values.
// Call [New] to create a lexer and then call [Lexer.NextToken] repeatedly until
// a token with [ast.Token.IsEnd] is returned.
//
// Design notes:
//   - Single-pass, character-by-character scanning using a read position cursor.
//   - No global state; every [Lexer] is independent and cannot be rewound.
//   - Line and column numbers are tracked for every token (1-based).
//   - Identifiers are scanned first and then classified as keywords via
//     [ast.LookupIdent].
//   - Interactive callers append the two characters `\0` to each chunk; the
//     lexer turns that into an [ast.TERMINAL] token. Input that simply runs out
//     produces [ast.EOF] instead, so the sentinel is optional.
package lexer

import (
	"github.com/metaphox/mako-lang/ast"
)

// Sentinel is the end-of-input marker interactive callers append to source text.
const Sentinel = `\0`

// Lexer holds all state required to tokenise a single source string.
type Lexer struct {
	input   string // the full source text
	pos     int    // current read position (index of ch)
	readPos int    // next read position (pos + 1)
	ch      byte   // current character under examination, 0 past the end

	line int // current 1-based line number
	col  int // 1-based column of ch
}

// New creates a [Lexer] that tokenises the given input string.
func New(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// NextToken returns the next token from the input.
//
// Whitespace (spaces, tabs, carriage returns, newlines) is skipped before each
// token. When the input is exhausted, NextToken returns an [ast.EOF] token on
// every subsequent call.
func (l *Lexer) NextToken() ast.Token {
	l.skipWhitespace()

	var tok ast.Token

	switch l.ch {
	// ── End of input ────────────────────────────────────────────────────────
	case 0:
		if l.pos >= len(l.input) {
			return l.makeToken(ast.EOF, "")
		}
		tok = l.makeToken(ast.ILLEGAL, string(l.ch))

	case '"':
		return l.readString()

	// ── Single-character operators and delimiters ───────────────────────────
	case '+':
		tok = l.makeToken(ast.PLUS, "+")
	case '-':
		tok = l.makeToken(ast.MINUS, "-")
	case '*':
		tok = l.makeToken(ast.ASTERISK, "*")
	case '/':
		tok = l.makeToken(ast.SLASH, "/")
	case '<':
		tok = l.makeToken(ast.LT, "<")
	case '>':
		tok = l.makeToken(ast.GT, ">")
	case ',':
		tok = l.makeToken(ast.COMMA, ",")
	case ';':
		tok = l.makeToken(ast.SEMICOLON, ";")
	case ':':
		tok = l.makeToken(ast.COLON, ":")
	case '(':
		tok = l.makeToken(ast.LPAREN, "(")
	case ')':
		tok = l.makeToken(ast.RPAREN, ")")
	case '{':
		tok = l.makeToken(ast.LBRACE, "{")
	case '}':
		tok = l.makeToken(ast.RBRACE, "}")
	case '[':
		tok = l.makeToken(ast.LBRACKET, "[")
	case ']':
		tok = l.makeToken(ast.RBRACKET, "]")

	// ── Characters that may start a two-character token ─────────────────────
	case '=':
		if l.peekChar() == '=' {
			tok = l.makeTwoCharToken(ast.EQ)
		} else {
			tok = l.makeToken(ast.ASSIGN, "=")
		}
	case '!':
		if l.peekChar() == '=' {
			tok = l.makeTwoCharToken(ast.NOT_EQ)
		} else {
			tok = l.makeToken(ast.BANG, "!")
		}
	case '\\':
		if l.peekChar() == '0' {
			tok = l.makeTwoCharToken(ast.TERMINAL)
		} else {
			tok = l.makeToken(ast.BACKSLASH, `\`)
		}

	// ── Identifiers, keywords and integers ──────────────────────────────────
	default:
		if isLetter(l.ch) {
			return l.readIdentifier()
		} else if isDigit(l.ch) {
			return l.readNumber()
		}
		tok = l.makeToken(ast.ILLEGAL, string(l.ch))
	}

	l.readChar() // advance past the last character of this token
	return tok
}

// Tokenize scans input to the first end marker and returns every token,
// including that marker.
func Tokenize(input string) []ast.Token {
	l := New(input)
	var toks []ast.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.IsEnd() {
			return toks
		}
	}
}

// ── Internal helpers ──────────────────────────────────────────────────────────

// readChar advances the lexer by one character.
// When the input is exhausted l.ch is set to 0.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.pos > 0 && l.pos <= len(l.input) && l.input[l.pos-1] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

// peekChar returns the next character without consuming it.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// makeToken constructs a token at the current source position.
// It does NOT advance the cursor.
func (l *Lexer) makeToken(tt ast.TokenType, literal string) ast.Token {
	return ast.Token{Type: tt, Literal: literal, Line: l.line, Col: l.col}
}

// makeTwoCharToken consumes the peeked character and returns a token whose
// literal is the current character followed by it. The cursor is left on the
// second character so NextToken's trailing readChar moves past both.
func (l *Lexer) makeTwoCharToken(tt ast.TokenType) ast.Token {
	line, col := l.line, l.col
	first := l.ch
	l.readChar()
	return ast.Token{Type: tt, Literal: string([]byte{first, l.ch}), Line: line, Col: col}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
		l.readChar()
	}
}

// readIdentifier scans an identifier or keyword. Like readNumber and readString
// it returns with the cursor already on the first character after the token.
func (l *Lexer) readIdentifier() ast.Token {
	line, col := l.line, l.col
	start := l.pos

	for isLetter(l.ch) {
		l.readChar()
	}

	literal := l.input[start:l.pos]
	return ast.Token{Type: ast.LookupIdent(literal), Literal: literal, Line: line, Col: col}
}

func (l *Lexer) readNumber() ast.Token {
	line, col := l.line, l.col
	start := l.pos

	for isDigit(l.ch) {
		l.readChar()
	}

	return ast.Token{Type: ast.INT, Literal: l.input[start:l.pos], Line: line, Col: col}
}

// readString scans a double-quoted string literal. The text runs verbatim to the
// next '"', newlines included. If the input ends first, an ILLEGAL token carrying
// the scanned text is returned.
func (l *Lexer) readString() ast.Token {
	line, col := l.line, l.col
	l.readChar() // skip opening '"'
	start := l.pos

	for l.ch != '"' {
		if l.pos >= len(l.input) {
			return ast.Token{Type: ast.ILLEGAL, Literal: l.input[start:], Line: line, Col: col}
		}
		l.readChar()
	}

	literal := l.input[start:l.pos]
	l.readChar() // consume closing '"'
	return ast.Token{Type: ast.STRING, Literal: literal, Line: line, Col: col}
}

// isLetter reports whether b may appear in an identifier: [a-zA-Z_].
func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		b == '_'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
