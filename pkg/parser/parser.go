// Package parser builds a syntax tree from a C0 token sequence.
//
// The accepted grammar is
//
//	program := "int" "main" "(" [ "void" ] ")" "{" "return" expr ";" "}"
//	expr    := term { ("+" | "-") term }
//	term    := unary { ("*" | "/") unary }
//	unary   := ("-" | "+") unary | primary
//	primary := LiteralInt | "(" expr ")"
package parser

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/xplshn/gc0/pkg/ast"
	"github.com/xplshn/gc0/pkg/config"
	"github.com/xplshn/gc0/pkg/token"
	"github.com/xplshn/gc0/pkg/util"
)

// ErrUnexpectedEOF matches syntax errors raised because the input ended mid-program
var ErrUnexpectedEOF = errors.New("unexpected end of input")

// Error is a syntax error at Tok
type Error struct {
	Tok token.Token
	Msg string
	EOF bool
}

func (e *Error) Error() string        { return fmt.Sprintf("%d:%d: %s", e.Tok.Line, e.Tok.Column, e.Msg) }
func (e *Error) Token() token.Token   { return e.Tok }
func (e *Error) Is(target error) bool { return e.EOF && target == ErrUnexpectedEOF }

// Parser holds the state for the parsing process
type Parser struct {
	tokens []token.Token
	pos    int
	cfg    *config.Config
}

func NewParser(tokens []token.Token, cfg *config.Config) *Parser {
	return &Parser{tokens: tokens, cfg: cfg}
}

// Parse parses a whole program
func (p *Parser) Parse() (*ast.Node, error) {
	fn, err := p.parseFuncDecl()
	if err != nil {
		return nil, err
	}
	if !p.isAtEnd() {
		return nil, p.errorAt(p.current(), "unexpected %s after end of program", describe(p.current()))
	}
	return fn, nil
}

// Parser helpers
func (p *Parser) isAtEnd() bool { return p.pos >= len(p.tokens) }

func (p *Parser) current() token.Token {
	if p.isAtEnd() {
		return p.endToken()
	}
	return p.tokens[p.pos]
}

// endToken is a zero-length token just past the last real one
func (p *Parser) endToken() token.Token {
	if len(p.tokens) == 0 {
		return token.Token{Line: 1, Column: 1}
	}
	last := p.tokens[len(p.tokens)-1]
	return token.Token{Offset: last.Offset + last.Len, Line: last.Line, Column: last.Column + last.Len}
}

func (p *Parser) check(typ token.Type) bool {
	return !p.isAtEnd() && p.tokens[p.pos].Type == typ
}

func (p *Parser) match(typ token.Type) bool {
	if !p.check(typ) {
		return false
	}
	p.pos++
	return true
}

func (p *Parser) previous() token.Token { return p.tokens[p.pos-1] }

func (p *Parser) expect(typ token.Type) (token.Token, error) {
	if p.match(typ) {
		return p.previous(), nil
	}
	return token.Token{}, p.errorAt(p.current(), "expected '%s', found %s", token.TypeStrings[typ], describe(p.current()))
}

func (p *Parser) errorAt(tok token.Token, format string, args ...any) error {
	return &Error{Tok: tok, Msg: fmt.Sprintf(format, args...), EOF: p.isAtEnd()}
}

func describe(tok token.Token) string {
	if tok.Len == 0 {
		return "end of input"
	}
	if tok.Type.IsKeyword() {
		return fmt.Sprintf("keyword '%s'", tok.Value)
	}
	return fmt.Sprintf("%s '%s'", tok.Type, tok.Value)
}

func (p *Parser) parseFuncDecl() (*ast.Node, error) {
	intTok, err := p.expect(token.KeywordTypeInt)
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.KeywordMain)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.PuncLeftParen); err != nil {
		return nil, err
	}

	voidParams := false
	if p.check(token.KeywordVoid) {
		if !p.cfg.IsFeatureEnabled(config.FeatVoidParams) {
			return nil, p.errorAt(p.current(), "'void' parameter lists are not enabled (use -Fvoid-params)")
		}
		p.pos++
		voidParams = true
	}
	rparen, err := p.expect(token.PuncRightParen)
	if err != nil {
		return nil, err
	}
	if !voidParams && p.cfg.StdName == "C89" {
		util.Warn(p.cfg, config.WarnPedantic, rparen, "function declaration without a prototype; use '%s(void)'", nameTok.Value)
	}

	if _, err := p.expect(token.PuncLeftBrace); err != nil {
		return nil, err
	}
	ret, err := p.parseReturn()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.PuncRightBrace); err != nil {
		return nil, err
	}
	return ast.NewFuncDecl(intTok, nameTok.Value, voidParams, []*ast.Node{ret}), nil
}

func (p *Parser) parseReturn() (*ast.Node, error) {
	retTok, err := p.expect(token.KeywordReturn)
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.PuncSemiColon); err != nil {
		return nil, err
	}
	return ast.NewReturn(retTok, expr), nil
}

func (p *Parser) parseExpr() (*ast.Node, error) {
	return p.parseBinary(p.parseTerm, token.Plus, token.Minus)
}

func (p *Parser) parseTerm() (*ast.Node, error) {
	return p.parseBinary(p.parseUnary, token.Star, token.Slash)
}

// parseBinary parses a left-associative chain of operands separated by ops
func (p *Parser) parseBinary(operand func() (*ast.Node, error), ops ...token.Type) (*ast.Node, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		var opTok token.Token
		matched := false
		for _, op := range ops {
			if p.match(op) {
				opTok, matched = p.previous(), true
				break
			}
		}
		if !matched {
			return left, nil
		}
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryOp(opTok, opTok.Type, left, right)
	}
}

func (p *Parser) parseUnary() (*ast.Node, error) {
	if p.check(token.Minus) || p.check(token.Plus) {
		opTok := p.current()
		if !p.cfg.IsFeatureEnabled(config.FeatUnary) {
			return nil, p.errorAt(opTok, "unary '%s' is not enabled (use -Funary)", opTok.Value)
		}
		p.pos++
		if opTok.Type == token.Plus {
			util.Warn(p.cfg, config.WarnExtra, opTok, "unary '+' has no effect")
		}
		expr, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryOp(opTok, opTok.Type, expr), nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (*ast.Node, error) {
	tok := p.current()
	if p.match(token.LiteralInt) {
		return p.parseNumber(tok)
	}
	if p.match(token.PuncLeftParen) {
		start := p.pos
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.PuncRightParen); err != nil {
			return nil, err
		}
		if p.pos-start == 2 && expr.Type == ast.Number {
			util.Warn(p.cfg, config.WarnExtra, tok, "redundant parentheses around '%s'", expr.Tok.Value)
		}
		return expr, nil
	}
	return nil, p.errorAt(tok, "expected expression, found %s", describe(tok))
}

// parseNumber converts a literal to int. Values past MaxInt32 wrap with a warning.
func (p *Parser) parseNumber(tok token.Token) (*ast.Node, error) {
	val, err := strconv.ParseUint(tok.Value, 10, 64)
	if err != nil {
		return nil, p.errorAt(tok, "integer literal '%s' is too large", tok.Value)
	}
	if val > math.MaxInt32 {
		util.Warn(p.cfg, config.WarnOverflow, tok, "integer literal '%s' is out of range for 'int' and wraps to %d", tok.Value, int32(val))
	}
	return ast.NewNumber(tok, int32(val)), nil
}
