// Package eval interprets a C0 syntax tree
package eval

import (
	"errors"
	"fmt"

	"github.com/xplshn/gc0/pkg/ast"
	"github.com/xplshn/gc0/pkg/token"
)

var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrOverflow       = errors.New("integer overflow in division")
	ErrNoReturn       = errors.New("function ends without returning a value")
)

// Error is a run-time failure attributed to the token that caused it
type Error struct {
	Tok token.Token
	Err error
}

func (e *Error) Error() string      { return fmt.Sprintf("%d:%d: %v", e.Tok.Line, e.Tok.Column, e.Err) }
func (e *Error) Unwrap() error      { return e.Err }
func (e *Error) Token() token.Token { return e.Tok }

// Eval runs the function in root and returns the value of its return statement
func Eval(root *ast.Node) (int32, error) {
	if root == nil || root.Type != ast.FuncDecl {
		return 0, fmt.Errorf("eval: expected a function declaration")
	}
	fn := root.Data.(ast.FuncDeclNode)
	for _, stmt := range fn.Body {
		if stmt.Type == ast.Return {
			return expr(stmt.Data.(ast.ReturnNode).Expr)
		}
	}
	return 0, &Error{Tok: root.Tok, Err: ErrNoReturn}
}

func expr(node *ast.Node) (int32, error) {
	switch node.Type {
	case ast.Number:
		return node.Data.(ast.NumberNode).Value, nil

	case ast.UnaryOp:
		d := node.Data.(ast.UnaryOpNode)
		v, err := expr(d.Expr)
		if err != nil {
			return 0, err
		}
		if res, ok := ast.ApplyUnary(d.Op, v); ok {
			return res, nil
		}
		return 0, fmt.Errorf("eval: unknown unary operator %v", d.Op)

	case ast.BinaryOp:
		d := node.Data.(ast.BinaryOpNode)
		l, err := expr(d.Left)
		if err != nil {
			return 0, err
		}
		r, err := expr(d.Right)
		if err != nil {
			return 0, err
		}
		if res, ok := ast.ApplyBinary(d.Op, l, r); ok {
			return res, nil
		}
		switch {
		case d.Op == token.Slash && r == 0:
			return 0, &Error{Tok: node.Tok, Err: ErrDivisionByZero}
		case d.Op == token.Slash:
			return 0, &Error{Tok: node.Tok, Err: ErrOverflow}
		}
		return 0, fmt.Errorf("eval: unknown binary operator %v", d.Op)
	}
	return 0, fmt.Errorf("eval: unexpected node type %d", node.Type)
}
