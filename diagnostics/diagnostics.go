// Package diagnostics provides the non-fatal side channel used by #logi and
// #logw preprocessor directives and by codegen's warning about a global
// declared without an initializer.
// Fatal errors use the errors package instead; this package never aborts.
package diagnostics

import (
	"fmt"
	"os"
)

// Sink receives informational and warning diagnostics.
type Sink interface {
	Info(msg string)
	Warn(msg string)
}

// StderrSink writes diagnostics to standard error, prefixed by severity.
type StderrSink struct{}

func (StderrSink) Info(msg string) { fmt.Fprintf(os.Stderr, "info: %s\n", msg) }
func (StderrSink) Warn(msg string) { fmt.Fprintf(os.Stderr, "warning: %s\n", msg) }

// RecordingSink accumulates diagnostics in memory, for tests.
type RecordingSink struct {
	Infos []string
	Warns []string
}

func (s *RecordingSink) Info(msg string) { s.Infos = append(s.Infos, msg) }
func (s *RecordingSink) Warn(msg string) { s.Warns = append(s.Warns, msg) }

// Discard ignores every diagnostic.
type Discard struct{}

func (Discard) Info(string) {}
func (Discard) Warn(string) {}
