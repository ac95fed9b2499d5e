// Package lexer turns C0 source bytes into a flat sequence of tokens
package lexer

import (
	"errors"
	"fmt"

	"github.com/xplshn/gc0/pkg/token"
)

// ErrUnrecognizedCharacter is matched by every *Error the lexer returns
var ErrUnrecognizedCharacter = errors.New("unrecognized character")

// Error reports a byte that begins no valid lexeme
type Error struct {
	Char   byte
	Offset int
	Line   int
	Column int
}

func (e *Error) Error() string {
	if e.Char >= 0x80 {
		return fmt.Sprintf("%d:%d: %v: non-ASCII byte 0x%02X at offset %d", e.Line, e.Column, ErrUnrecognizedCharacter, e.Char, e.Offset)
	}
	return fmt.Sprintf("%d:%d: %v %q at offset %d", e.Line, e.Column, ErrUnrecognizedCharacter, e.Char, e.Offset)
}

func (e *Error) Is(target error) bool { return target == ErrUnrecognizedCharacter }

// Token returns a one-byte token spanning the offending character, for diagnostics
func (e *Error) Token() token.Token {
	return token.Token{Offset: e.Offset, Line: e.Line, Column: e.Column, Len: 1}
}

// Lexer is a cursor over a source buffer
type Lexer struct {
	source []byte
	pos    int
	line   int
	column int
}

func NewLexer(source []byte) *Lexer {
	return &Lexer{source: source, line: 1, column: 1}
}

// Tokenize scans the whole of src. On error no tokens are returned.
func Tokenize(src []byte) ([]token.Token, error) {
	l := NewLexer(src)
	toks := make([]token.Token, 0, len(src)/2)
	for {
		tok, ok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

// Next consumes one lexeme. It returns ok=false once the input is exhausted.
func (l *Lexer) Next() (tok token.Token, ok bool, err error) {
	l.skipWhitespace()
	if l.isAtEnd() {
		return token.Token{}, false, nil
	}

	startPos, startCol, startLine := l.pos, l.column, l.line
	ch := l.peek()
	switch {
	case isDigit(ch):
		return l.integerLiteral(startPos, startCol, startLine), true, nil
	case isLetter(ch):
		return l.identifierOrKeyword(startPos, startCol, startLine), true, nil
	}

	if typ, isPunc := token.Punctuators[ch]; isPunc {
		l.advance()
		return l.makeToken(typ, startPos, startCol, startLine), true, nil
	}
	return token.Token{}, false, &Error{Char: ch, Offset: startPos, Line: startLine, Column: startCol}
}

// SkipWhitespace returns src without its leading whitespace
func SkipWhitespace(src []byte) []byte {
	i := 0
	for i < len(src) && isSpace(src[i]) {
		i++
	}
	return src[i:]
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) advance() byte {
	if l.isAtEnd() {
		return 0
	}
	ch := l.source[l.pos]
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
	return ch
}

func (l *Lexer) isAtEnd() bool { return l.pos >= len(l.source) }

func (l *Lexer) makeToken(typ token.Type, startPos, startCol, startLine int) token.Token {
	return token.Token{
		Type: typ, Value: string(l.source[startPos:l.pos]), Offset: startPos,
		Line: startLine, Column: startCol, Len: l.pos - startPos,
	}
}

func (l *Lexer) skipWhitespace() {
	for isSpace(l.peek()) {
		l.advance()
	}
}

// integerLiteral takes the longest digit run. Sign and range are left to the parser.
func (l *Lexer) integerLiteral(startPos, startCol, startLine int) token.Token {
	for isDigit(l.peek()) {
		l.advance()
	}
	return l.makeToken(token.LiteralInt, startPos, startCol, startLine)
}

func (l *Lexer) identifierOrKeyword(startPos, startCol, startLine int) token.Token {
	for isLetter(l.peek()) || isDigit(l.peek()) {
		l.advance()
	}
	tok := l.makeToken(token.Identifier, startPos, startCol, startLine)
	if typ, isKeyword := token.KeywordMap[tok.Value]; isKeyword {
		tok.Type = typ
	}
	return tok
}

func isSpace(ch byte) bool  { return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' }
func isDigit(ch byte) bool  { return ch >= '0' && ch <= '9' }
func isLetter(ch byte) bool { return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') }
