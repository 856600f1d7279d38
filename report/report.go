// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package report

import (
	"fmt"
)

const (
	Error Level = 1 + iota
	Warning
	Remark
	note // Used internally within the diagnostic renderer.
)

// Level represents the severity of a diagnostic message.
type Level int8

// Diagnose is an error that can be rendered as a diagnostic.
type Diagnose interface {
	error

	// Diagnose writes out this error to the given diagnostic.
	//
	// This function should not set Level nor Err; those are set by the
	// diagnostics framework.
	Diagnose(*Diagnostic)
}

// Diagnostic is a type of error that can be rendered as a rich diagnostic.
//
// Not all Diagnostics are "errors", even though Diagnostic does embed error;
// some represent warnings, or perhaps debugging remarks.
type Diagnostic struct {
	// The error that prompted this diagnostic. Its Error() return is used
	// as the diagnostic message.
	Err error

	// The kind of diagnostic this is, which affects how and whether it is shown
	// to users.
	Level Level

	// The file this diagnostic occurs in, if it has no associated Annotations.
	// This is used for errors like "file too big" that cannot be given a
	// snippet.
	InFile string

	// A list of annotated source code spans in the diagnostic.
	Annotations []Annotation

	// Notes and help messages to include at the end of the diagnostic, after
	// the Annotations.
	Notes, Help []string
}

// Annotation is an annotated source code snippet within a [Diagnostic].
type Annotation struct {
	// The annotated region of source code.
	Span
	// A message to show under this snippet. May be empty.
	Message string
	// Whether this is a "primary" snippet, which is used for deciding whether
	// or not to mark the snippet with the same color as the overall diagnostic.
	Primary bool
}

// Primary returns this diagnostic's primary snippet, if it has one.
//
// If it doesn't have one, it returns the zero Annotation.
func (d *Diagnostic) Primary() Annotation {
	for _, annotation := range d.Annotations {
		if annotation.Primary {
			return annotation
		}
	}

	return Annotation{}
}

// With applies the given options to this diagnostic.
//
// Nil options are ignored, so option constructors may return nil to decline
// to annotate.
func (d *Diagnostic) With(options ...DiagnosticOption) *Diagnostic {
	for _, option := range options {
		if option != nil {
			option(d)
		}
	}
	return d
}

// DiagnosticOption is an option that can be applied to a [Diagnostic].
type DiagnosticOption func(*Diagnostic)

// InFile returns a DiagnosticOption that causes a diagnostic without a primary
// span to mention the given file.
func InFile(path string) DiagnosticOption {
	return func(d *Diagnostic) { d.InFile = path }
}

// Snippet returns a DiagnosticOption that adds a new snippet to a diagnostic.
//
// The first annotation added is the "primary" annotation, and will be rendered
// differently from the others.
func Snippet(at Spanner) DiagnosticOption {
	return Snippetf(at, "")
}

// Snippetf returns a DiagnosticOption that adds a new snippet to a diagnostic
// with the given message.
//
// The first annotation added is the "primary" annotation, and will be rendered
// differently from the others.
func Snippetf(at Spanner, format string, args ...any) DiagnosticOption {
	return SnippetAtf(getSpan(at), format, args...)
}

// SnippetAt is like [Snippet], but takes a span rather than something with a
// Span() method.
func SnippetAt(span Span) DiagnosticOption {
	return SnippetAtf(span, "")
}

// SnippetAtf is like [Snippetf], but takes a span rather than something with a
// Span() method.
//
// Returns nil if span is the zero span.
func SnippetAtf(span Span, format string, args ...any) DiagnosticOption {
	if span.IsZero() {
		return nil
	}

	// This is hoisted out so the fmt call is blamed on the Snippetf call
	// site, not on With().
	annotation := Annotation{
		Span:    span,
		Message: fmt.Sprintf(format, args...),
	}
	return func(d *Diagnostic) {
		annotation.Primary = len(d.Annotations) == 0
		d.Annotations = append(d.Annotations, annotation)
	}
}

// Note returns a DiagnosticOption that provides the user with context about
// the diagnostic, after the annotations.
func Note(format string, args ...any) DiagnosticOption {
	return func(d *Diagnostic) {
		d.Notes = append(d.Notes, fmt.Sprintf(format, args...))
	}
}

// Help returns a DiagnosticOption that provides the user with a helpful prose
// suggestion for resolving the diagnostic.
func Help(format string, args ...any) DiagnosticOption {
	return func(d *Diagnostic) {
		d.Help = append(d.Help, fmt.Sprintf(format, args...))
	}
}

// Report is a collection of diagnostics.
type Report []Diagnostic

// Error pushes an error diagnostic onto this report.
func (r *Report) Error(err Diagnose) *Diagnostic {
	d := r.push(err, Error)
	err.Diagnose(d)
	return d
}

// Warn pushes a warning diagnostic onto this report.
func (r *Report) Warn(err Diagnose) *Diagnostic {
	d := r.push(err, Warning)
	err.Diagnose(d)
	return d
}

// Errorf creates a new error diagnostic with an unspecified error type;
// analogous to [fmt.Errorf].
func (r *Report) Errorf(format string, args ...any) *Diagnostic {
	return r.push(fmt.Errorf(format, args...), Error)
}

// Warnf creates a new warning diagnostic with an unspecified error type;
// analogous to [fmt.Errorf].
func (r *Report) Warnf(format string, args ...any) *Diagnostic {
	return r.push(fmt.Errorf(format, args...), Warning)
}

// HasErrors returns whether this report contains any error diagnostics.
func (r *Report) HasErrors() bool {
	for i := range *r {
		if (*r)[i].Level == Error {
			return true
		}
	}
	return false
}

// Err returns this report wrapped as an [error], or nil if the report
// contains no error diagnostics.
func (r *Report) Err() error {
	if !r.HasErrors() {
		return nil
	}
	return &AsError{Report: *r}
}

// push is the core "make me a diagnostic" function.
func (r *Report) push(err error, level Level) *Diagnostic {
	*r = append(*r, Diagnostic{Err: err, Level: level})
	return &(*r)[len(*r)-1]
}
