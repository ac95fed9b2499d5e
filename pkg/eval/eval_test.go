package eval_test

import (
	"errors"
	"testing"

	"github.com/xplshn/gc0/pkg/ast"
	"github.com/xplshn/gc0/pkg/config"
	"github.com/xplshn/gc0/pkg/eval"
	"github.com/xplshn/gc0/pkg/lexer"
	"github.com/xplshn/gc0/pkg/parser"
	"github.com/xplshn/gc0/pkg/token"
)

func build(t *testing.T, src string) *ast.Node {
	t.Helper()
	toks, err := lexer.Tokenize([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.NewConfig()
	if err := cfg.ApplyStd("C0"); err != nil {
		t.Fatal(err)
	}
	root, err := parser.NewParser(toks, cfg).Parse()
	if err != nil {
		t.Fatal(err)
	}
	return root
}

func TestEval(t *testing.T) {
	tests := []struct {
		expr string
		want int32
	}{
		{"0", 0},
		{"9 + 8", 17},
		{"2 + 3 * 5 - 8 / 3", 15},
		{"(2 + 3) * 5", 25},
		{"-7 / 2", -3},
		{"7 / -2", -3},
		{"- -4", 4},
		{"+4 - -4", 8},
		{"2147483647 + 1", -2147483648},
		{"100 / 10 / 5", 2},
		{"10 - 4 - 3", 3},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			root := build(t, "int main(void) { return "+tt.expr+"; }")
			for _, tree := range []*ast.Node{root, ast.FoldConstants(root)} {
				got, err := eval.Eval(tree)
				if err != nil {
					t.Fatalf("Eval: %v", err)
				}
				if got != tt.want {
					t.Errorf("Eval = %d, want %d", got, tt.want)
				}
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		expr string
		want error
		col  int
	}{
		{"1 / 0", eval.ErrDivisionByZero, 27},
		{"1 / (3 - 3)", eval.ErrDivisionByZero, 27},
		{"(0 - 2147483647 - 1) / -1", eval.ErrOverflow, 46},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			root := build(t, "int main(void) { return "+tt.expr+"; }")
			for _, tree := range []*ast.Node{root, ast.FoldConstants(root)} {
				_, err := eval.Eval(tree)
				if !errors.Is(err, tt.want) {
					t.Fatalf("Eval error = %v, want %v", err, tt.want)
				}
				var evalErr *eval.Error
				if !errors.As(err, &evalErr) || evalErr.Tok.Type != token.Slash || evalErr.Tok.Column != tt.col {
					t.Errorf("error not attributed to the division at column %d: %#v", tt.col, err)
				}
			}
		})
	}
}

func TestEvalNoReturn(t *testing.T) {
	root := ast.NewFuncDecl(token.Token{}, "main", false, nil)
	if _, err := eval.Eval(root); !errors.Is(err, eval.ErrNoReturn) {
		t.Errorf("Eval = %v, want ErrNoReturn", err)
	}
	if _, err := eval.Eval(nil); err == nil {
		t.Error("Eval(nil) succeeded")
	}
}
