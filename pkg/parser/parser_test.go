package parser

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/xplshn/gc0/pkg/ast"
	"github.com/xplshn/gc0/pkg/config"
	"github.com/xplshn/gc0/pkg/lexer"
	"github.com/xplshn/gc0/pkg/token"
	"github.com/xplshn/gc0/pkg/util"
)

// sexpr renders a tree compactly so expected shapes fit on one line
func sexpr(n *ast.Node) string {
	switch n.Type {
	case ast.Number:
		return fmt.Sprint(n.Data.(ast.NumberNode).Value)
	case ast.UnaryOp:
		d := n.Data.(ast.UnaryOpNode)
		return fmt.Sprintf("(%s %s)", token.TypeStrings[d.Op], sexpr(d.Expr))
	case ast.BinaryOp:
		d := n.Data.(ast.BinaryOpNode)
		return fmt.Sprintf("(%s %s %s)", token.TypeStrings[d.Op], sexpr(d.Left), sexpr(d.Right))
	case ast.Return:
		return fmt.Sprintf("(return %s)", sexpr(n.Data.(ast.ReturnNode).Expr))
	case ast.FuncDecl:
		d := n.Data.(ast.FuncDeclNode)
		parts := []string{"func", d.Name}
		if d.VoidParams {
			parts = append(parts, "void")
		}
		for _, stmt := range d.Body {
			parts = append(parts, sexpr(stmt))
		}
		return "(" + strings.Join(parts, " ") + ")"
	}
	return "?"
}

func parse(t *testing.T, src string, cfg *config.Config) (*ast.Node, error) {
	t.Helper()
	toks, err := lexer.Tokenize([]byte(src))
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", src, err)
	}
	return NewParser(toks, cfg).Parse()
}

func c0Config(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewConfig()
	if err := cfg.ApplyStd("C0"); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestParse(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"int main ( ) { return 0 ; }", "(func main (return 0))"},
		{"int main(void){return 1;}", "(func main void (return 1))"},
		{"int main() { return 2 + 3 * 5 - 8 / 3; }", "(func main (return (- (+ 2 (* 3 5)) (/ 8 3))))"},
		{"int main() { return 1 - 2 - 3; }", "(func main (return (- (- 1 2) 3)))"},
		{"int main() { return 8 / 4 / 2; }", "(func main (return (/ (/ 8 4) 2)))"},
		{"int main() { return (1 + 2) * 3; }", "(func main (return (* (+ 1 2) 3)))"},
		{"int main() { return - -4; }", "(func main (return (- (- 4))))"},
		{"int main() { return -2 * +3; }", "(func main (return (* (- 2) (+ 3))))"},
		{"int main() { return ((7)); }", "(func main (return 7))"},
		{"int main() { return 2147483647; }", "(func main (return 2147483647))"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			root, err := parse(t, tt.src, c0Config(t))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if diff := cmp.Diff(tt.want, sexpr(root)); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src  string
		msg  string
		line int
		col  int
		eof  bool
	}{
		{"", "expected 'int', found end of input", 1, 1, true},
		{"main", "expected 'int', found keyword 'main'", 1, 1, false},
		{"int foo() { return 0; }", "expected 'main', found Identifier 'foo'", 1, 5, false},
		{"int main() { return 0 }", "expected ';', found PuncRightBrace '}'", 1, 23, false},
		{"int main() { return 0;", "expected '}', found end of input", 1, 23, true},
		{"int main() { return ; }", "expected expression, found PuncSemiColon ';'", 1, 21, false},
		{"int main() { return x; }", "expected expression, found Identifier 'x'", 1, 21, false},
		{"int main() { return (1; }", "expected ')', found PuncSemiColon ';'", 1, 23, false},
		{"int main() { return 1 +", "expected expression, found end of input", 1, 24, true},
		{"int main() { return 0; } 1", "unexpected LiteralInt '1' after end of program", 1, 26, false},
		{"int main return", "expected '(', found keyword 'return'", 1, 10, false},
		{"int main() { return 99999999999999999999; }", "integer literal '99999999999999999999' is too large", 1, 21, false},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := parse(t, tt.src, c0Config(t))
			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if perr.Msg != tt.msg || perr.Tok.Line != tt.line || perr.Tok.Column != tt.col {
				t.Errorf("got %d:%d %q, want %d:%d %q", perr.Tok.Line, perr.Tok.Column, perr.Msg, tt.line, tt.col, tt.msg)
			}
			if errors.Is(err, ErrUnexpectedEOF) != tt.eof {
				t.Errorf("errors.Is(err, ErrUnexpectedEOF) = %v, want %v", !tt.eof, tt.eof)
			}
		})
	}
}

func TestFeatureGates(t *testing.T) {
	cfg := c0Config(t)
	cfg.SetFeature(config.FeatVoidParams, false)
	if _, err := parse(t, "int main(void) { return 0; }", cfg); err == nil || !strings.Contains(err.Error(), "-Fvoid-params") {
		t.Errorf("void params with feature off: err = %v", err)
	}

	cfg = c0Config(t)
	cfg.SetFeature(config.FeatUnary, false)
	if _, err := parse(t, "int main() { return -1; }", cfg); err == nil || !strings.Contains(err.Error(), "-Funary") {
		t.Errorf("unary with feature off: err = %v", err)
	}
	if _, err := parse(t, "int main() { return 3 - 1; }", cfg); err != nil {
		t.Errorf("binary minus with unary off: %v", err)
	}

	cfg = config.NewConfig()
	cfg.SetWarning(config.WarnPedantic, true)
	if err := cfg.ApplyStd("C0"); err != nil {
		t.Fatal(err)
	}
	if _, err := parse(t, "int main(void) { return 0; }", cfg); err == nil {
		t.Error("pedantic C0 accepted a void parameter list")
	}
	if _, err := parse(t, "int main(void) { return 0; }", c0Config(t)); err != nil {
		t.Errorf("C0 rejected a void parameter list: %v", err)
	}
}

func TestWarnings(t *testing.T) {
	var buf bytes.Buffer
	saved := util.Stderr
	util.Stderr = &buf
	defer func() { util.Stderr = saved }()

	root, err := parse(t, "int main() { return 4294967297; }", c0Config(t))
	if err != nil {
		t.Fatal(err)
	}
	if got := sexpr(root); got != "(func main (return 1))" {
		t.Errorf("wrapped literal tree = %s", got)
	}
	if !strings.Contains(buf.String(), "out of range for 'int' and wraps to 1 [-Woverflow]") {
		t.Errorf("missing overflow warning, stderr:\n%s", buf.String())
	}

	buf.Reset()
	cfg := config.NewConfig()
	cfg.SetWarning(config.WarnPedantic, true)
	if err := cfg.ApplyStd("C89"); err != nil {
		t.Fatal(err)
	}
	if _, err := parse(t, "int main() { return 0; }", cfg); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "without a prototype; use 'main(void)' [-Wpedantic]") {
		t.Errorf("missing pedantic warning, stderr:\n%s", buf.String())
	}

	buf.Reset()
	cfg.SetWarning(config.WarnOverflow, false)
	if _, err := parse(t, "int main(void) { return 3000000000; }", cfg); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("disabled warnings still printed:\n%s", buf.String())
	}
}

func TestExtraWarnings(t *testing.T) {
	var buf bytes.Buffer
	saved := util.Stderr
	util.Stderr = &buf
	defer func() { util.Stderr = saved }()

	tests := []struct {
		src  string
		want []string
	}{
		{"int main(void) { return +2; }", []string{"unary '+' has no effect [-Wextra]"}},
		{"int main(void) { return (7); }", []string{"redundant parentheses around '7' [-Wextra]"}},
		{"int main(void) { return ((7)); }", []string{"redundant parentheses around '7' [-Wextra]"}},
		{"int main(void) { return (1 + 2) * -(3); }", []string{"redundant parentheses around '3' [-Wextra]"}},
		{"int main(void) { return (1 + 2) * -3; }", nil},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			buf.Reset()
			cfg := config.NewConfig()
			if err := cfg.ApplyStd("C89"); err != nil {
				t.Fatal(err)
			}
			if _, err := parse(t, tt.src, cfg); err != nil {
				t.Fatal(err)
			}
			got := strings.Count(buf.String(), "[-Wextra]")
			if got != len(tt.want) {
				t.Errorf("got %d extra warning(s), want %d:\n%s", got, len(tt.want), buf.String())
			}
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("missing %q in:\n%s", w, buf.String())
				}
			}

			buf.Reset()
			if _, err := parse(t, tt.src, c0Config(t)); err != nil {
				t.Fatal(err)
			}
			if buf.Len() != 0 {
				t.Errorf("C0 printed warnings:\n%s", buf.String())
			}
		})
	}
}
