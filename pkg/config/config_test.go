package config

import (
	"testing"

	"github.com/xplshn/gc0/pkg/cli"
)

func TestApplyStd(t *testing.T) {
	tests := []struct {
		std        string
		pedantic   bool
		fold       bool
		voidParams bool
	}{
		{"C0", false, true, true},
		{"C0", true, true, false},
		{"C89", false, true, true},
		{"C89", true, false, true},
	}
	for _, tt := range tests {
		cfg := NewConfig()
		cfg.SetWarning(WarnPedantic, tt.pedantic)
		if err := cfg.ApplyStd(tt.std); err != nil {
			t.Fatalf("ApplyStd(%q): %v", tt.std, err)
		}
		if cfg.StdName != tt.std {
			t.Errorf("StdName = %q, want %q", cfg.StdName, tt.std)
		}
		if got := cfg.IsFeatureEnabled(FeatFold); got != tt.fold {
			t.Errorf("%s pedantic=%v: fold = %v, want %v", tt.std, tt.pedantic, got, tt.fold)
		}
		if got := cfg.IsFeatureEnabled(FeatVoidParams); got != tt.voidParams {
			t.Errorf("%s pedantic=%v: void-params = %v, want %v", tt.std, tt.pedantic, got, tt.voidParams)
		}
		if !cfg.IsFeatureEnabled(FeatUnary) {
			t.Errorf("%s: unary disabled", tt.std)
		}
		if got := cfg.IsWarningEnabled(WarnExtra); got != (tt.std == "C89") {
			t.Errorf("%s: extra = %v", tt.std, got)
		}
	}

	cfg := NewConfig()
	if err := cfg.ApplyStd("K&R"); err == nil {
		t.Error("ApplyStd accepted an unknown standard")
	}
	if cfg.StdName != "" {
		t.Errorf("StdName set on failure: %q", cfg.StdName)
	}
}

func TestFlagGroups(t *testing.T) {
	cfg := NewConfig()
	fs := cli.NewFlagSet("gc0")
	warningFlags, featureFlags := cfg.SetupFlagGroups(fs)
	if len(warningFlags) != int(WarnCount) || len(featureFlags) != int(FeatCount) {
		t.Fatalf("got %d warning and %d feature entries", len(warningFlags), len(featureFlags))
	}

	if err := fs.Parse([]string{"-Wno-overflow", "-Wpedantic", "-Fno-fold", "in.c"}); err != nil {
		t.Fatal(err)
	}
	cfg.ApplyFlagGroups(warningFlags, featureFlags)

	if cfg.IsWarningEnabled(WarnOverflow) {
		t.Error("-Wno-overflow ignored")
	}
	if !cfg.IsWarningEnabled(WarnPedantic) {
		t.Error("-Wpedantic ignored")
	}
	if cfg.IsFeatureEnabled(FeatFold) {
		t.Error("-Fno-fold ignored")
	}
	if !cfg.IsFeatureEnabled(FeatVoidParams) {
		t.Error("untouched feature changed")
	}
}

func TestSetTarget(t *testing.T) {
	for _, target := range []string{"amd64_sysv", "arm64", "rv64"} {
		cfg := NewConfig()
		cfg.SetTarget("linux", "amd64", target)
		if cfg.BackendTarget != target {
			t.Errorf("SetTarget(%q): target = %q", target, cfg.BackendTarget)
		}
	}

	cfg := NewConfig()
	cfg.SetTarget("linux", "amd64", "")
	if cfg.BackendTarget == "" {
		t.Error("no default target selected")
	}
}
