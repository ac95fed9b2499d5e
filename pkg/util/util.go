package util

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xplshn/gc0/pkg/config"
	"github.com/xplshn/gc0/pkg/token"
)

// SourceFileRecord is the file being compiled, kept for rich error messages
type SourceFileRecord struct {
	Name    string
	Content []byte
}

var (
	source SourceFileRecord
	// Stderr receives every diagnostic; tests swap it out.
	Stderr io.Writer = os.Stderr
	exit             = os.Exit
)

func SetSourceFile(rec SourceFileRecord) { source = rec }

// Positioned is implemented by errors that know which token they refer to
type Positioned interface {
	error
	Token() token.Token
}

// printErrorLine prints the source line and a caret under the token's span
func printErrorLine(w io.Writer, tok token.Token) {
	content := source.Content
	if tok.Line == 0 || tok.Offset > len(content) {
		return
	}

	lineStart := tok.Offset
	for lineStart > 0 && content[lineStart-1] != '\n' {
		lineStart--
	}
	lineEnd := tok.Offset
	for lineEnd < len(content) && content[lineEnd] != '\n' {
		lineEnd++
	}

	fmt.Fprintf(w, "  %s\n", strings.TrimRight(string(content[lineStart:lineEnd]), "\r"))
	fmt.Fprintf(w, "  %s\033[32m^", strings.Repeat(" ", tok.Column-1))
	if tok.Len > 1 {
		fmt.Fprint(w, strings.Repeat("~", tok.Len-1))
	}
	fmt.Fprintln(w, "\033[0m")
}

func location(tok token.Token) string {
	name := source.Name
	if name == "" {
		name = "<input>"
	}
	if tok.Line == 0 {
		return name
	}
	return fmt.Sprintf("%s:%d:%d", name, tok.Line, tok.Column)
}

// Diagnose writes an error diagnostic for tok without exiting
func Diagnose(tok token.Token, format string, args ...any) {
	fmt.Fprintf(Stderr, "%s: \033[31merror:\033[0m ", location(tok))
	fmt.Fprintf(Stderr, format, args...)
	fmt.Fprintln(Stderr)
	printErrorLine(Stderr, tok)
}

// Error prints a formatted error message and exits the program
func Error(tok token.Token, format string, args ...any) {
	Diagnose(tok, format, args...)
	exit(1)
}

// Fatal reports err at its position, if it has one, and exits
func Fatal(err error) {
	var p Positioned
	if errors.As(err, &p) {
		Error(p.Token(), "%s", message(p))
		return
	}
	Error(token.Token{}, "%v", err)
}

// message strips the "line:col: " prefix positioned errors carry in Error()
func message(p Positioned) string {
	msg := p.Error()
	tok := p.Token()
	return strings.TrimPrefix(msg, fmt.Sprintf("%d:%d: ", tok.Line, tok.Column))
}

// Warn prints a formatted warning message if the corresponding warning is enabled
func Warn(cfg *config.Config, wt config.Warning, tok token.Token, format string, args ...any) {
	if !cfg.IsWarningEnabled(wt) {
		return
	}
	fmt.Fprintf(Stderr, "%s: \033[33mwarning:\033[0m ", location(tok))
	fmt.Fprintf(Stderr, format, args...)
	fmt.Fprintf(Stderr, " [-W%s]\n", cfg.Warnings[wt].Name)
	printErrorLine(Stderr, tok)
}

// Info prints a "gc0: info:" line
func Info(format string, args ...any) {
	fmt.Fprintf(Stderr, "gc0: info: "+format+"\n", args...)
}
