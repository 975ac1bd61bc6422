// Package diag is the diagnostic sink shared by every compiler stage: a
// pipeline processor appends to it and keeps running, rather than
// returning early, so a user sees every stage's diagnostics in one pass.
package diag

import (
	"fmt"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

// Code identifies one diagnostic kind, drawn from the unifier/match error
// taxonomy plus resolution-depth and emit failures.
type Code string

const (
	Mismatch                  Code = "mismatch"
	InfiniteType              Code = "infinite_type"
	RigidMismatch             Code = "rigid_mismatch"
	RigidRigidMismatch        Code = "rigid_rigid_mismatch"
	ArityMismatch             Code = "arity_mismatch"
	UninstantiatedGeneralized Code = "uninstantiated_generalized"
	ResolutionDepthExceeded   Code = "resolution_depth_exceeded"
	PatternColumnMismatch     Code = "pattern_column_mismatch"
	EmitFailed                Code = "emit_failed"
)

// Severity classifies how serious a diagnostic is.
type Severity uint8

const (
	Error Severity = iota
	Warning
	Bug
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Bug:
		return "bug"
	default:
		return "unknown"
	}
}

// Span is the minimal external diagnostic-position contract: a
// (file, line, column, length) tuple, satisfied without depending on the
// lexer/parser packages.
type Span struct {
	File   string
	Line   int
	Column int
	Length int
}

// Diagnostic is one reported problem.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Span     Span
	Message  string
}

// Error implements the error interface so a Diagnostic can be returned or
// wrapped anywhere Go code expects one.
func (d *Diagnostic) Error() string {
	if d.Span.File == "" {
		return fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.Span.File, d.Span.Line, d.Span.Column, d.Code, d.Message)
}

// New builds a Diagnostic at Error severity.
func New(code Code, span Span, format string, args ...any) *Diagnostic {
	return &Diagnostic{Code: code, Severity: Error, Span: span, Message: fmt.Sprintf(format, args...)}
}

// Sink accumulates diagnostics across every stage of a compilation run.
// Safe for concurrent use: the parallel per-function pipeline stages
// (§11.6) each report into the same Sink from their own goroutine.
type Sink struct {
	mu          sync.Mutex
	diagnostics []*Diagnostic
	color       ColorMode
}

// ColorMode controls whether Sink.Format emits ANSI color codes.
type ColorMode uint8

const (
	// ColorAuto decides based on whether stdout is a terminal.
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// NewSink returns an empty Sink using mode to decide coloring.
func NewSink(mode ColorMode) *Sink {
	return &Sink{color: mode}
}

// Report appends d to the sink. It never aborts the caller: every
// pipeline stage is expected to keep running after reporting.
func (s *Sink) Report(d *Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diagnostics = append(s.diagnostics, d)
}

// Reportf builds and reports a Diagnostic in one call.
func (s *Sink) Reportf(code Code, span Span, format string, args ...any) {
	s.Report(New(code, span, format, args...))
}

// Info reports a non-error structured event — debug-level iteration
// logging (e.g. liveness convergence) goes through this rather than a
// dedicated tracing library, since the donor's direct dependency set
// carries none.
func (s *Sink) Info(format string, args ...any) {
	s.Report(&Diagnostic{Severity: Warning, Message: fmt.Sprintf(format, args...)})
}

// Diagnostics returns every diagnostic reported so far, in report order.
func (s *Sink) Diagnostics() []*Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Diagnostic, len(s.diagnostics))
	copy(out, s.diagnostics)
	return out
}

// HasErrors reports whether any Error-severity diagnostic was recorded.
func (s *Sink) HasErrors() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.diagnostics {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

func (s *Sink) useColor() bool {
	switch s.color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
}

var severityColor = map[Severity]string{
	Error:   "\x1b[31m",
	Warning: "\x1b[33m",
	Bug:     "\x1b[35m",
}

const colorReset = "\x1b[0m"

// Format renders every diagnostic as one line per entry, coloring the
// severity tag when useColor() decides the output is an interactive
// terminal (or ColorMode forces it).
func (s *Sink) Format() string {
	color := s.useColor()
	var out string
	for _, d := range s.Diagnostics() {
		tag := d.Severity.String()
		if color {
			tag = severityColor[d.Severity] + tag + colorReset
		}
		out += fmt.Sprintf("[%s] %s\n", tag, d.Error())
	}
	return out
}
