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

package token

import (
	"fmt"
	"math"

	"github.com/frostu8/macrotk/report"
)

// MaxFileSize is the maximum input size macrotk supports.
const MaxFileSize int = math.MaxInt32 // 2GB

// ErrFileTooBig diagnoses an input that is beyond macrotk's implementation
// limits.
type ErrFileTooBig struct {
	Path string
}

func (e ErrFileTooBig) Error() string {
	return "inputs larger than 2GB are not supported"
}

func (e ErrFileTooBig) Diagnose(d *report.Diagnostic) {
	d.With(report.InFile(e.Path))
}

// ErrNotUTF8 diagnoses an input that contains non-UTF-8 bytes.
type ErrNotUTF8 struct {
	Path string
	At   int
	Byte byte
}

func (e ErrNotUTF8) Error() string {
	return "input must be encoded as valid UTF-8"
}

func (e ErrNotUTF8) Diagnose(d *report.Diagnostic) {
	d.With(
		report.InFile(e.Path),
		report.Note("found a 0x%02x byte at offset %d", e.Byte, e.At),
	)
}

// ErrUnrecognized diagnoses the presence of an unrecognized token.
type ErrUnrecognized struct{ Token Token }

func (e ErrUnrecognized) Error() string {
	return "unrecognized token"
}

func (e ErrUnrecognized) Diagnose(d *report.Diagnostic) {
	d.With(report.Snippet(e.Token))
}

// ErrNonASCIIIdent diagnoses an identifier that contains non-ASCII runes.
type ErrNonASCIIIdent struct{ Token Token }

func (e ErrNonASCIIIdent) Error() string {
	return "non-ASCII identifiers are not allowed"
}

func (e ErrNonASCIIIdent) Diagnose(d *report.Diagnostic) {
	d.With(report.Snippet(e.Token))
}

// ErrUnterminated diagnoses a delimiter for which we found one half of a
// matched pair but not the other.
type ErrUnterminated struct {
	Span report.Span

	// If present, this indicates that we did match with another delimiter,
	// but it was of the wrong kind.
	Mismatch report.Span
}

// OpenClose returns the expected open/close delimiters for this matched pair.
func (e ErrUnterminated) OpenClose() (string, string) {
	switch t := e.Span.Text(); t {
	case "(", ")":
		return "(", ")"
	case "[", "]":
		return "[", "]"
	case "{", "}":
		return "{", "}"
	default:
		panic(fmt.Sprintf("macrotk/token: invalid token in ErrUnterminated: %q (byte offset %d:%d)", t, e.Span.Start, e.Span.End))
	}
}

func (e ErrUnterminated) Error() string {
	return fmt.Sprintf("encountered unterminated `%s` delimiter", e.Span.Text())
}

func (e ErrUnterminated) Diagnose(d *report.Diagnostic) {
	text := e.Span.Text()
	openTok, closeTok := e.OpenClose()

	if text == openTok {
		d.With(report.Snippetf(e.Span, "expected to be closed by `%s`", closeTok))
		if !e.Mismatch.IsZero() {
			d.With(report.Snippetf(e.Mismatch, "closed by this instead"))
		}
	} else {
		d.With(report.Snippetf(e.Span, "expected to be opened by `%s`", openTok))
	}
}

// ErrUnterminatedStringLiteral diagnoses a string literal that continues to
// the end of the input.
type ErrUnterminatedStringLiteral struct{ Token Token }

func (e ErrUnterminatedStringLiteral) Error() string {
	return "unterminated string literal"
}

func (e ErrUnterminatedStringLiteral) Diagnose(d *report.Diagnostic) {
	open := e.Token.Text()[:1]
	d.With(report.Snippetf(e.Token, "expected to be terminated by `%s`", open))
}

// ErrInvalidEscape diagnoses an invalid escape sequence within a string
// literal.
type ErrInvalidEscape struct {
	Span report.Span
}

func (e ErrInvalidEscape) Error() string {
	return "invalid escape sequence"
}

func (e ErrInvalidEscape) Diagnose(d *report.Diagnostic) {
	d.With(report.Snippet(e.Span))
}

// ErrInvalidNumber diagnoses a numeric token that is not a base-10 integer.
type ErrInvalidNumber struct{ Token Token }

func (e ErrInvalidNumber) Error() string {
	return fmt.Sprintf("unsupported number `%s`", e.Token.Text())
}

func (e ErrInvalidNumber) Diagnose(d *report.Diagnostic) {
	d.With(
		report.Snippet(e.Token),
		report.Note("only base-10 integers, with optional _ separators, are supported"),
	)
}
