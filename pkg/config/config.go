package config

import (
	"fmt"
	"os"
	"slices"

	"github.com/xplshn/gc0/pkg/cli"
	"modernc.org/libqbe"
)

type Feature int

const (
	FeatFold Feature = iota
	FeatVoidParams
	FeatUnary
	FeatCount
)

type Warning int

const (
	WarnOverflow Warning = iota
	WarnPedantic
	WarnExtra
	WarnCount
)

type Info struct {
	Name        string
	Enabled     bool
	Description string
}

type Config struct {
	Features      map[Feature]Info
	Warnings      map[Warning]Info
	FeatureMap    map[string]Feature
	WarningMap    map[string]Warning
	StdName       string
	BackendTarget string
}

func NewConfig() *Config {
	cfg := &Config{
		FeatureMap: make(map[string]Feature),
		WarningMap: make(map[string]Warning),
	}

	features := map[Feature]Info{
		FeatFold:       {"fold", true, "Fold constant expressions before evaluation and code generation."},
		FeatVoidParams: {"void-params", true, "Accept C89 `int main(void)`."},
		FeatUnary:      {"unary", true, "Accept unary '-' and '+' operators."},
	}

	warnings := map[Warning]Info{
		WarnOverflow: {"overflow", true, "Warn when an integer literal is out of range for 'int'."},
		WarnPedantic: {"pedantic", false, "Issue all warnings demanded by the strict standard."},
		WarnExtra:    {"extra", false, "Warn about operators and parentheses that have no effect."},
	}

	cfg.Features, cfg.Warnings = features, warnings
	for ft, info := range features {
		cfg.FeatureMap[info.Name] = ft
	}
	for wt, info := range warnings {
		cfg.WarningMap[info.Name] = wt
	}

	return cfg
}

// qbeTargets lists the targets libqbe can emit
var qbeTargets = []string{"amd64_sysv", "amd64_apple", "arm64", "arm64_apple", "rv64"}

// SetTarget selects the QBE target. An empty qbeTarget selects the host's.
func (c *Config) SetTarget(goos, goarch, qbeTarget string) {
	if qbeTarget == "" {
		c.BackendTarget = libqbe.DefaultTarget(goos, goarch)
	} else {
		c.BackendTarget = qbeTarget
	}

	if !slices.Contains(qbeTargets, c.BackendTarget) {
		fmt.Fprintf(os.Stderr, "gc0: warning: unrecognized or unsupported QBE target '%s'.\n", c.BackendTarget)
		fmt.Fprintf(os.Stderr, "gc0: warning: compilation may fail.\n")
	}
}

func (c *Config) SetFeature(ft Feature, enabled bool) {
	if info, ok := c.Features[ft]; ok {
		info.Enabled = enabled
		c.Features[ft] = info
	}
}

func (c *Config) IsFeatureEnabled(ft Feature) bool { return c.Features[ft].Enabled }

func (c *Config) SetWarning(wt Warning, enabled bool) {
	if info, ok := c.Warnings[wt]; ok {
		info.Enabled = enabled
		c.Warnings[wt] = info
	}
}

func (c *Config) IsWarningEnabled(wt Warning) bool { return c.Warnings[wt].Enabled }

// ApplyStd sets the features implied by a language standard. C0 is the
// interpretable subset, C89 the compiled superset.
func (c *Config) ApplyStd(stdName string) error {
	isPedantic := c.IsWarningEnabled(WarnPedantic)

	type stdSettings struct {
		feature  Feature
		c0Value  bool
		c89Value bool
	}

	settings := []stdSettings{
		{FeatFold, true, !isPedantic},
		{FeatVoidParams, !isPedantic, true},
		{FeatUnary, true, true},
	}

	switch stdName {
	case "C0":
		for _, s := range settings {
			c.SetFeature(s.feature, s.c0Value)
		}
	case "C89":
		for _, s := range settings {
			c.SetFeature(s.feature, s.c89Value)
		}
		c.SetWarning(WarnExtra, true)
	default:
		return fmt.Errorf("unsupported standard '%s'. Supported: 'C0', 'C89'", stdName)
	}
	c.StdName = stdName
	return nil
}

// SetupFlagGroups registers -W<name>/-Wno-<name> and -F<name>/-Fno-<name> on fs.
// The returned entries are indexed by Warning and Feature respectively.
func (c *Config) SetupFlagGroups(fs *cli.FlagSet) ([]cli.FlagGroupEntry, []cli.FlagGroupEntry) {
	warningFlags := make([]cli.FlagGroupEntry, WarnCount)
	for i := Warning(0); i < WarnCount; i++ {
		info := c.Warnings[i]
		warningFlags[i] = cli.FlagGroupEntry{
			Name: info.Name, Prefix: "W", Usage: info.Description,
			Enabled: new(bool), Disabled: new(bool),
		}
	}

	featureFlags := make([]cli.FlagGroupEntry, FeatCount)
	for i := Feature(0); i < FeatCount; i++ {
		info := c.Features[i]
		featureFlags[i] = cli.FlagGroupEntry{
			Name: info.Name, Prefix: "F", Usage: info.Description,
			Enabled: new(bool), Disabled: new(bool),
		}
	}

	fs.AddFlagGroup("Warning Flags", "Enable or disable specific warnings", "warning flag", "Available Warning Flags:", warningFlags)
	fs.AddFlagGroup("Feature Flags", "Enable or disable specific features", "feature flag", "Available Features:", featureFlags)
	return warningFlags, featureFlags
}

// ApplyFlagGroups applies the -W/-F entries returned by SetupFlagGroups.
// Explicit flags override whatever the standard selected.
func (c *Config) ApplyFlagGroups(warningFlags, featureFlags []cli.FlagGroupEntry) {
	for i, entry := range warningFlags {
		if entry.Enabled != nil && *entry.Enabled {
			c.SetWarning(Warning(i), true)
		}
		if entry.Disabled != nil && *entry.Disabled {
			c.SetWarning(Warning(i), false)
		}
	}
	for i, entry := range featureFlags {
		if entry.Enabled != nil && *entry.Enabled {
			c.SetFeature(Feature(i), true)
		}
		if entry.Disabled != nil && *entry.Disabled {
			c.SetFeature(Feature(i), false)
		}
	}
}
