package codegen

import (
	"bytes"

	"github.com/xplshn/gc0/pkg/ast"
	"github.com/xplshn/gc0/pkg/config"
)

// Backend is the interface that all code generation backends must implement.
type Backend interface {
	// GenerateIR returns the backend's textual intermediate language for prog.
	GenerateIR(prog *ast.Node, cfg *config.Config) (string, error)
	// Generate lowers prog all the way to target assembly.
	Generate(prog *ast.Node, cfg *config.Config) (*bytes.Buffer, error)
}

func SelectBackend(name string) (Backend, bool) {
	switch name {
	case "qbe":
		return NewQBEBackend(), true
	}
	return nil, false
}
