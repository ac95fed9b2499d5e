// Package driver chains the lexer, parser, evaluator and code generator
// into the strategies gc0 exposes.
package driver

import (
	"bytes"
	"fmt"
	"os"

	"github.com/xplshn/gc0/pkg/ast"
	"github.com/xplshn/gc0/pkg/codegen"
	"github.com/xplshn/gc0/pkg/config"
	"github.com/xplshn/gc0/pkg/eval"
	"github.com/xplshn/gc0/pkg/lexer"
	"github.com/xplshn/gc0/pkg/parser"
	"github.com/xplshn/gc0/pkg/token"
)

// Strategy names accepted on the command line
const (
	StrategyLex       = "lex"
	StrategyInterpret = "interpretc0"
	StrategyCompile   = "compilec89"
)

var Strategies = []string{StrategyLex, StrategyInterpret, StrategyCompile}

// Pipeline runs the stages for one source buffer. Progress lines go to Log when set.
type Pipeline struct {
	Cfg *config.Config
	Log func(format string, args ...any)
}

func New(cfg *config.Config) *Pipeline {
	return &Pipeline{Cfg: cfg}
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.Log != nil {
		p.Log(format, args...)
	}
}

func (p *Pipeline) Lex(src []byte) ([]token.Token, error) {
	p.logf("Tokenizing %d byte(s)...", len(src))
	return lexer.Tokenize(src)
}

// Parse tokenizes and parses src, folding constants when the fold feature is on
func (p *Pipeline) Parse(src []byte) (*ast.Node, error) {
	toks, err := p.Lex(src)
	if err != nil {
		return nil, err
	}
	return p.parseTokens(toks)
}

func (p *Pipeline) parseTokens(toks []token.Token) (*ast.Node, error) {
	p.logf("Parsing %d token(s) into AST...", len(toks))
	root, err := parser.NewParser(toks, p.Cfg).Parse()
	if err != nil {
		return nil, err
	}
	if p.Cfg.IsFeatureEnabled(config.FeatFold) {
		p.logf("Folding constants...")
		root = ast.FoldConstants(root)
	}
	return root, nil
}

func (p *Pipeline) Interpret(src []byte) (int32, error) {
	root, err := p.Parse(src)
	if err != nil {
		return 0, err
	}
	return p.eval(root)
}

func (p *Pipeline) eval(root *ast.Node) (int32, error) {
	p.logf("Evaluating...")
	return eval.Eval(root)
}

// CompileIR returns the backend's intermediate language for src
func (p *Pipeline) CompileIR(src []byte, backend codegen.Backend) (string, error) {
	root, err := p.Parse(src)
	if err != nil {
		return "", err
	}
	p.logf("Creating intermediate representation...")
	return backend.GenerateIR(root, p.Cfg)
}

func (p *Pipeline) Compile(src []byte, backend codegen.Backend) (*bytes.Buffer, error) {
	root, err := p.Parse(src)
	if err != nil {
		return nil, err
	}
	p.logf("Generating code for target '%s'...", p.Cfg.BackendTarget)
	return backend.Generate(root, p.Cfg)
}

// ReadSource reads a file byte for byte; every byte is one source character
func ReadSource(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read file '%s': %w", path, err)
	}
	return content, nil
}

// Outcome is what gc0 makes of one source file, as stored in golden files
type Outcome struct {
	Tokens []string `json:"tokens"`
	Value  int32    `json:"value"`
	Error  string   `json:"error,omitempty"`
}

// Record tokenizes and interprets src. Failures are part of the record.
func Record(src []byte, cfg *config.Config) Outcome {
	return New(cfg).Record(src)
}

// Record tokenizes src once and interprets the resulting tokens
func (p *Pipeline) Record(src []byte) Outcome {
	toks, err := p.Lex(src)
	if err != nil {
		return Outcome{Tokens: []string{}, Error: err.Error()}
	}
	out := Outcome{Tokens: make([]string, len(toks))}
	for i, tok := range toks {
		out.Tokens[i] = tok.Type.String() + " " + tok.Value
	}
	root, err := p.parseTokens(toks)
	if err == nil {
		out.Value, err = p.eval(root)
	}
	if err != nil {
		out.Error = err.Error()
	}
	return out
}
