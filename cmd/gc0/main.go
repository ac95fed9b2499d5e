package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"slices"

	"github.com/xplshn/gc0/pkg/cli"
	"github.com/xplshn/gc0/pkg/codegen"
	"github.com/xplshn/gc0/pkg/config"
	"github.com/xplshn/gc0/pkg/driver"
	"github.com/xplshn/gc0/pkg/token"
	"github.com/xplshn/gc0/pkg/util"
)

func main() {
	app := cli.NewApp("gc0")
	app.Synopsis = "[options] <strategy> <input.c>"
	app.Description = "A tokenizer, interpreter and compiler for C0, the minimal subset of C89. Strategies: lex, interpretc0, compilec89."
	app.Authors = []string{"xplshn"}
	app.Repository = "<https://github.com/xplshn/gc0>"
	app.Since = 2025

	var (
		outFile     string
		std         string
		target      string
		backendName string
		pedantic    bool
		verbose     bool
		asJSON      bool
		fingerprint bool
		dumpIR      bool
	)

	fs := app.FlagSet
	fs.String(&outFile, "output", "o", "./tmp.s", "Place the generated assembly into <file>.", "file")
	fs.String(&target, "target", "t", "", "Set the QBE target ABI (defaults to the host).", "target")
	fs.String(&backendName, "backend", "b", "qbe", "Set the code generation backend.", "backend")
	fs.String(&std, "std", "", "C0", "Specify language standard (C0, C89).", "std")
	fs.Bool(&pedantic, "pedantic", "", false, "Issue all warnings demanded by the current std.")
	fs.Bool(&verbose, "verbose", "v", false, "Report each pipeline stage on stderr.")
	fs.Bool(&asJSON, "json", "", false, "lex: print tokens as a JSON array.")
	fs.Bool(&fingerprint, "fingerprint", "", false, "lex: print the token stream fingerprint only.")
	fs.Bool(&dumpIR, "dump-ir", "d", false, "compilec89: dump the intermediate representation and exit.")

	cfg := config.NewConfig()
	warningFlags, featureFlags := cfg.SetupFlagGroups(fs)

	app.Action = func(args []string) error {
		if len(args) < 1 {
			util.Error(token.Token{}, "no evaluation strategy given")
		}
		strat := args[0]
		if !slices.Contains(driver.Strategies, strat) {
			util.Error(token.Token{}, "unknown strategy: %q (expected one of %v)", strat, driver.Strategies)
		}
		if len(args) < 2 {
			util.Error(token.Token{}, "no source file given")
		}
		srcPath := args[1]

		// Pedantic flag affects everything else
		if pedantic {
			cfg.SetWarning(config.WarnPedantic, true)
		}
		if err := cfg.ApplyStd(std); err != nil {
			util.Error(token.Token{}, "%v", err)
		}
		cfg.ApplyFlagGroups(warningFlags, featureFlags)

		pipeline := driver.New(cfg)
		if verbose {
			pipeline.Log = util.Info
			util.Info("received evaluation strategy: %s", strat)
			util.Info("received source: %s", srcPath)
		}

		src, err := driver.ReadSource(srcPath)
		if err != nil {
			util.Error(token.Token{}, "%v", err)
		}
		util.SetSourceFile(util.SourceFileRecord{Name: srcPath, Content: src})

		switch strat {
		case driver.StrategyLex:
			return runLex(pipeline, src, asJSON, fingerprint)
		case driver.StrategyInterpret:
			val, err := pipeline.Interpret(src)
			if err != nil {
				util.Fatal(err)
			}
			fmt.Printf("gc0: info: evaluated: %d\n", val)
		case driver.StrategyCompile:
			backend, ok := codegen.SelectBackend(backendName)
			if !ok {
				util.Error(token.Token{}, "unsupported backend '%s'", backendName)
			}
			cfg.SetTarget(runtime.GOOS, runtime.GOARCH, target)
			if dumpIR {
				ir, err := pipeline.CompileIR(src, backend)
				if err != nil {
					util.Fatal(err)
				}
				fmt.Print(ir)
				return nil
			}
			asm, err := pipeline.Compile(src, backend)
			if err != nil {
				util.Fatal(err)
			}
			if verbose {
				util.Info("generating target: %s", outFile)
			}
			if err := os.WriteFile(outFile, asm.Bytes(), 0o644); err != nil {
				util.Error(token.Token{}, "unable to write '%s': %v", outFile, err)
			}
		}
		return nil
	}

	if err := app.Run(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

func runLex(pipeline *driver.Pipeline, src []byte, asJSON, fingerprint bool) error {
	toks, err := pipeline.Lex(src)
	if err != nil {
		util.Fatal(err)
	}
	switch {
	case fingerprint:
		fmt.Printf("%016x\n", token.Fingerprint(toks))
	case asJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(toks)
	default:
		for _, tok := range toks {
			fmt.Println(tok)
		}
	}
	return nil
}
