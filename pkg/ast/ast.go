// Package ast defines the syntax tree built from C0 tokens
package ast

import (
	"math"

	"github.com/xplshn/gc0/pkg/token"
)

// NodeType defines the kind of a node in the AST
type NodeType int

const (
	// Expressions
	Number NodeType = iota
	BinaryOp
	UnaryOp

	// Statements
	FuncDecl
	Return
)

// Node is one vertex of the tree. Data holds the *XxxNode matching Type.
type Node struct {
	Type NodeType
	Tok  token.Token
	Data interface{}
}

type NumberNode struct{ Value int32 }
type BinaryOpNode struct {
	Op          token.Type
	Left, Right *Node
}
type UnaryOpNode struct {
	Op   token.Type
	Expr *Node
}
type ReturnNode struct{ Expr *Node }
type FuncDeclNode struct {
	Name       string
	VoidParams bool // declared as f(void) rather than f()
	Body       []*Node
}

func NewNumber(tok token.Token, value int32) *Node {
	return &Node{Type: Number, Tok: tok, Data: NumberNode{Value: value}}
}

func NewBinaryOp(tok token.Token, op token.Type, left, right *Node) *Node {
	return &Node{Type: BinaryOp, Tok: tok, Data: BinaryOpNode{Op: op, Left: left, Right: right}}
}

func NewUnaryOp(tok token.Token, op token.Type, expr *Node) *Node {
	return &Node{Type: UnaryOp, Tok: tok, Data: UnaryOpNode{Op: op, Expr: expr}}
}

func NewReturn(tok token.Token, expr *Node) *Node {
	return &Node{Type: Return, Tok: tok, Data: ReturnNode{Expr: expr}}
}

func NewFuncDecl(tok token.Token, name string, voidParams bool, body []*Node) *Node {
	return &Node{Type: FuncDecl, Tok: tok, Data: FuncDeclNode{Name: name, VoidParams: voidParams, Body: body}}
}

// ApplyBinary computes l op r with 32-bit two's complement wrapping.
// ok is false for division by zero and for MinInt32 / -1, which have no int result.
func ApplyBinary(op token.Type, l, r int32) (result int32, ok bool) {
	switch op {
	case token.Plus:
		return l + r, true
	case token.Minus:
		return l - r, true
	case token.Star:
		return l * r, true
	case token.Slash:
		if r == 0 || (l == math.MinInt32 && r == -1) {
			return 0, false
		}
		return l / r, true
	}
	return 0, false
}

// ApplyUnary computes op v; negation wraps.
func ApplyUnary(op token.Type, v int32) (int32, bool) {
	switch op {
	case token.Minus:
		return -v, true
	case token.Plus:
		return v, true
	}
	return 0, false
}

// FoldConstants collapses operator nodes whose operands are numbers.
// Operations without a defined result are left in place for the caller to report.
func FoldConstants(node *Node) *Node {
	if node == nil {
		return nil
	}

	switch node.Type {
	case FuncDecl:
		d := node.Data.(FuncDeclNode)
		body := make([]*Node, len(d.Body))
		for i, stmt := range d.Body {
			body[i] = FoldConstants(stmt)
		}
		d.Body = body
		return &Node{Type: FuncDecl, Tok: node.Tok, Data: d}

	case Return:
		d := node.Data.(ReturnNode)
		return NewReturn(node.Tok, FoldConstants(d.Expr))

	case UnaryOp:
		d := node.Data.(UnaryOpNode)
		expr := FoldConstants(d.Expr)
		if expr.Type == Number {
			if v, ok := ApplyUnary(d.Op, expr.Data.(NumberNode).Value); ok {
				return NewNumber(node.Tok, v)
			}
		}
		return NewUnaryOp(node.Tok, d.Op, expr)

	case BinaryOp:
		d := node.Data.(BinaryOpNode)
		left, right := FoldConstants(d.Left), FoldConstants(d.Right)
		if left.Type == Number && right.Type == Number {
			if v, ok := ApplyBinary(d.Op, left.Data.(NumberNode).Value, right.Data.(NumberNode).Value); ok {
				return NewNumber(node.Tok, v)
			}
		}
		return NewBinaryOp(node.Tok, d.Op, left, right)
	}
	return node
}
