package errors

import (
	"strings"
	"testing"
)

func TestCompileError_Format(t *testing.T) {
	tests := []struct {
		name        string
		err         *CompileError
		wantContain []string
	}{
		{
			name: "with file and source",
			err: &CompileError{
				Kind:    SyntaxError,
				Message: "unexpected token",
				Line:    2,
				Token:   "identifier 'x'",
				Source:  "var x : int;\nx = 1\n",
				File:    "main.lum",
			},
			wantContain: []string{
				"Syntax Error in main.lum:2",
				"   2 | x = 1",
				"unexpected token",
				"[identifier 'x']",
			},
		},
		{
			name: "without file",
			err: &CompileError{
				Kind:    TypeError,
				Message: "type mismatch",
				Line:    1,
			},
			wantContain: []string{
				"Type Error at line 1",
				"type mismatch",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.err.Format(false)
			for _, want := range tt.wantContain {
				if !strings.Contains(out, want) {
					t.Errorf("Format() = %q, want substring %q", out, want)
				}
			}
			if tt.err.Error() != tt.err.Format(false) {
				t.Errorf("Error() should match Format(false)")
			}
		})
	}
}

func TestKind_Values(t *testing.T) {
	kinds := []Kind{
		MissingToken, SyntaxError, InvalidToken, RedefinitionError,
		LogicError, TypeError, SizeError, InitialDefinitionError,
		FileError, DirectiveError, InternalError, IllegalState,
	}
	seen := map[Kind]bool{}
	for _, k := range kinds {
		if seen[k] {
			t.Errorf("duplicate kind %q", k)
		}
		seen[k] = true
		if k == "" {
			t.Error("empty kind value")
		}
	}
}
