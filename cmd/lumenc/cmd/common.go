package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lumenlang/lumen/errors"
	"github.com/lumenlang/lumen/lexer"
)

// fileImporter resolves import paths against a set of include directories,
// the host-OS half of spec.md §6's "open-for-read by logical path"
// contract; the core only ever sees the resulting Read(path) call.
type fileImporter struct {
	includePaths []string
}

func (fi fileImporter) Read(path string) (string, error) {
	if data, err := os.ReadFile(path); err == nil {
		return string(data), nil
	}
	for _, dir := range fi.includePaths {
		candidate := filepath.Join(dir, path)
		if data, err := os.ReadFile(candidate); err == nil {
			return string(data), nil
		}
	}
	return "", fmt.Errorf("cannot open %q for reading (include paths: %v)", path, fi.includePaths)
}

// readSource reads filename, or stdin when filename is "-".
func readSource(filename string) (string, error) {
	if filename == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return string(data), nil
}

// splitDefine splits a "-D NAME" or "-D NAME=VALUE" argument into its
// name and value; the value is "1" when the argument has no '='.
func splitDefine(raw string) (name, value string) {
	if idx := strings.Index(raw, "="); idx >= 0 {
		return raw[:idx], raw[idx+1:]
	}
	return raw, "1"
}

// prependDefines renders each -D flag as source text ("#define NAME VALUE
// #\n") placed before the real source, so the ordinary #define directive
// handling in preproc.Preprocessor is the only definition path the CLI
// needs to support.
func prependDefines(source string, defines []string) string {
	if len(defines) == 0 {
		return source
	}
	var sb strings.Builder
	for _, d := range defines {
		name, value := splitDefine(d)
		fmt.Fprintf(&sb, "#define %s %s #\n", name, value)
	}
	sb.WriteString(source)
	return sb.String()
}

// withCompileError recovers a panicking *errors.CompileError raised by any
// pipeline stage and turns it into a plain error for cobra's RunE to
// report, printing the source-context-and-caret rendering along the way.
// source supplies the context lines for the caret rendering when the
// panicking stage didn't already attach one.
func withCompileError(filename, source string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*errors.CompileError); ok {
				if ce.Source == "" {
					ce.Source = source
				}
				fmt.Fprintln(os.Stderr, ce.Format(false))
				err = fmt.Errorf("%s: compilation failed", filename)
				return
			}
			panic(r)
		}
	}()
	return fn()
}

func printTokens(toks []lexer.Token) {
	for _, t := range toks {
		if t.Kind == lexer.KindNull {
			continue
		}
		if t.Value == "" {
			fmt.Printf("%4d  %s\n", t.Line, t.Kind)
		} else {
			fmt.Printf("%4d  %-14s %q\n", t.Line, t.Kind, t.Value)
		}
	}
}
