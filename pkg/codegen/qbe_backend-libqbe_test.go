//go:build !windows

package codegen

import (
	"strings"
	"testing"
)

func TestGenerateAssembly(t *testing.T) {
	root, cfg := build(t, "int main(void) { return 2 + 3 * 5 - 8 / 3; }")
	cfg.SetTarget("linux", "amd64", "amd64_sysv")

	asm, err := NewQBEBackend().Generate(root, cfg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	out := asm.String()
	for _, want := range []string{"main", "ret"} {
		if !strings.Contains(out, want) {
			t.Errorf("assembly missing %q:\n%s", want, out)
		}
	}
}
