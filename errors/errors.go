// Package errors provides the tagged compile-error model shared by every
// stage of the lumen compiler (lexer, preproc, parser, codegen). Errors are
// fatal: a CompileError aborts the stage that raised it.
package errors

import (
	"fmt"
	"strings"
)

// Kind classifies a CompileError. The set is fixed by the language spec.
type Kind string

const (
	MissingToken            Kind = "Missing Token"
	SyntaxError              Kind = "Syntax Error"
	InvalidToken             Kind = "Invalid Token"
	RedefinitionError        Kind = "Redefinition Error"
	LogicError               Kind = "Logic Error"
	TypeError                Kind = "Type Error"
	SizeError                Kind = "Size Error"
	InitialDefinitionError   Kind = "Initial Definition Error"
	FileError                Kind = "File Error"
	DirectiveError           Kind = "Directive Error"
	InternalError             Kind = "Internal Error"
	IllegalState              Kind = "Illegal State"
)

// CompileError is a single fatal compiler error tagged with its kind, the
// source line it occurred on, and a short rendering of the current token.
type CompileError struct {
	Kind    Kind
	Message string
	Line    int
	Token   string
	Source  string // optional: full source text, for context rendering
	File    string // optional: logical file name
}

// New creates a CompileError with no source context attached.
func New(kind Kind, message string, line int, token string) *CompileError {
	return &CompileError{Kind: kind, Message: message, Line: line, Token: token}
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return e.Format(false)
}

// Format renders the error with source context and a caret, in the style
// CWBudde-go-dws's CompilerError.Format renders parser/type errors.
func (e *CompileError) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "%s in %s:%d\n", e.Kind, e.File, e.Line)
	} else {
		fmt.Fprintf(&sb, "%s at line %d\n", e.Kind, e.Line)
	}

	if line := e.sourceLine(e.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if e.Token != "" {
		fmt.Fprintf(&sb, " [%s]", e.Token)
	}
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

func (e *CompileError) sourceLine(n int) string {
	if e.Source == "" || n < 1 {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if n > len(lines) {
		return ""
	}
	return lines[n-1]
}
