// Package ast defines the token types and the Token struct used by the mako lexer
// and parser, along with the syntax tree the parser builds.
//
// Tokens are the smallest meaningful units of a mako source string. Every token
// carries its type, the exact literal text it was scanned from, and its source
// position (line + column). Position is 1-based.
package ast

// TokenType identifies the category of a scanned token.
type TokenType int

const (
	// ── Special ────────────────────────────────────────────────────────────────

	// ILLEGAL represents a character the lexer could not recognise, or an
	// unterminated string literal.
	ILLEGAL TokenType = iota
	// EOF is produced once the input buffer is exhausted.
	EOF
	// TERMINAL is the explicit two-character end sentinel `\0` that interactive
	// callers append to each chunk of input.
	TERMINAL

	// ── Literals ───────────────────────────────────────────────────────────────

	// IDENT is an identifier: [a-zA-Z_]+
	IDENT
	// INT is a decimal integer literal, e.g. 0, 42.
	INT
	// STRING is a double-quoted literal. There are no escape sequences.
	STRING

	// ── Keywords ───────────────────────────────────────────────────────────────

	FUNCTION
	LET
	TRUE
	FALSE
	IF
	ELSE
	RETURN

	// ── Operators ──────────────────────────────────────────────────────────────

	ASSIGN
	PLUS
	MINUS
	BANG
	ASTERISK
	SLASH
	BACKSLASH
	LT
	GT
	EQ
	NOT_EQ

	// ── Delimiters ─────────────────────────────────────────────────────────────

	COMMA
	SEMICOLON
	COLON
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
)

var tokenNames = [...]string{
	ILLEGAL:   "ILLEGAL",
	EOF:       "EOF",
	TERMINAL:  `\0`,
	IDENT:     "IDENT",
	INT:       "INT",
	STRING:    "STRING",
	FUNCTION:  "FUNCTION",
	LET:       "LET",
	TRUE:      "TRUE",
	FALSE:     "FALSE",
	IF:        "IF",
	ELSE:      "ELSE",
	RETURN:    "RETURN",
	ASSIGN:    "=",
	PLUS:      "+",
	MINUS:     "-",
	BANG:      "!",
	ASTERISK:  "*",
	SLASH:     "/",
	BACKSLASH: `\`,
	LT:        "<",
	GT:        ">",
	EQ:        "==",
	NOT_EQ:    "!=",
	COMMA:     ",",
	SEMICOLON: ";",
	COLON:     ":",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LBRACKET:  "[",
	RBRACKET:  "]",
}

// String returns the category name used in parser diagnostics. Operators and
// delimiters are named by their own spelling; everything else by an upper-case word.
func (tt TokenType) String() string {
	if tt >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return "UNKNOWN"
}

// keywords maps the literal text of every mako keyword to its TokenType.
var keywords = map[string]TokenType{
	"fn":     FUNCTION,
	"let":    LET,
	"true":   TRUE,
	"false":  FALSE,
	"if":     IF,
	"else":   ELSE,
	"return": RETURN,
}

// LookupIdent checks whether ident is a reserved keyword and returns the
// corresponding TokenType. If ident is not a keyword, IDENT is returned.
func LookupIdent(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return IDENT
}

// Token is a single lexical unit produced by the lexer.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Col     int
}

// IsEnd reports whether t marks the end of a program, either the explicit
// sentinel or the natural end of the buffer.
func (t Token) IsEnd() bool {
	return t.Type == TERMINAL || t.Type == EOF
}

// String returns the literal text of the token.
func (t Token) String() string {
	return t.Literal
}
