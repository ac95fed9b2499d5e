package codegen

import (
	"fmt"
	"strings"

	"github.com/xplshn/gc0/pkg/ast"
	"github.com/xplshn/gc0/pkg/config"
	"github.com/xplshn/gc0/pkg/token"
)

type qbeBackend struct {
	out   *strings.Builder
	temps int
}

func NewQBEBackend() Backend { return &qbeBackend{} }

// GenerateIR emits QBE IL. C0 int is always a QBE word ("w").
func (b *qbeBackend) GenerateIR(prog *ast.Node, cfg *config.Config) (string, error) {
	if prog == nil || prog.Type != ast.FuncDecl {
		return "", fmt.Errorf("codegen: expected a function declaration")
	}
	var sb strings.Builder
	b.out, b.temps = &sb, 0

	fn := prog.Data.(ast.FuncDeclNode)
	fmt.Fprintf(b.out, "export function w $%s() {\n@start\n", fn.Name)
	if err := b.genBody(fn.Body); err != nil {
		return "", err
	}
	b.out.WriteString("}\n")
	return sb.String(), nil
}

// genBody emits the body's return. C0 bodies hold a single return statement;
// an empty body returns 0.
func (b *qbeBackend) genBody(body []*ast.Node) error {
	if len(body) == 0 {
		b.out.WriteString("\tret 0\n")
		return nil
	}
	stmt := body[0]
	if stmt.Type != ast.Return {
		return fmt.Errorf("codegen: unexpected statement node %d", stmt.Type)
	}
	val, err := b.genExpr(stmt.Data.(ast.ReturnNode).Expr)
	if err != nil {
		return err
	}
	fmt.Fprintf(b.out, "\tret %s\n", val)
	return nil
}

func (b *qbeBackend) newTemp() string {
	b.temps++
	return fmt.Sprintf("%%.%d", b.temps)
}

// genExpr emits the instructions for node and returns the operand holding its value
func (b *qbeBackend) genExpr(node *ast.Node) (string, error) {
	switch node.Type {
	case ast.Number:
		return fmt.Sprintf("%d", node.Data.(ast.NumberNode).Value), nil

	case ast.UnaryOp:
		d := node.Data.(ast.UnaryOpNode)
		val, err := b.genExpr(d.Expr)
		if err != nil {
			return "", err
		}
		switch d.Op {
		case token.Plus:
			return val, nil
		case token.Minus:
			res := b.newTemp()
			fmt.Fprintf(b.out, "\t%s =w neg %s\n", res, val)
			return res, nil
		}
		return "", fmt.Errorf("codegen: unknown unary operator %v", d.Op)

	case ast.BinaryOp:
		d := node.Data.(ast.BinaryOpNode)
		l, err := b.genExpr(d.Left)
		if err != nil {
			return "", err
		}
		r, err := b.genExpr(d.Right)
		if err != nil {
			return "", err
		}
		opStr, ok := qbeOps[d.Op]
		if !ok {
			return "", fmt.Errorf("codegen: unknown binary operator %v", d.Op)
		}
		res := b.newTemp()
		fmt.Fprintf(b.out, "\t%s =w %s %s, %s\n", res, opStr, l, r)
		return res, nil
	}
	return "", fmt.Errorf("codegen: unexpected node type %d", node.Type)
}

var qbeOps = map[token.Type]string{
	token.Plus:  "add",
	token.Minus: "sub",
	token.Star:  "mul",
	token.Slash: "div",
}
