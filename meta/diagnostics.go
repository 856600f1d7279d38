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

package meta

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/frostu8/macrotk/report"
	"github.com/frostu8/macrotk/token"
)

// ErrUnknownKey diagnoses a key the destination struct does not accept.
type ErrUnknownKey struct {
	Name *Name
	// Candidates are the keys the destination does accept, sorted.
	Candidates []string
}

func (e ErrUnknownKey) Error() string {
	return fmt.Sprintf("unexpected key `%s`", e.Name.Text())
}

func (e ErrUnknownKey) Diagnose(d *report.Diagnostic) {
	d.With(report.Snippet(e.Name))
	if best := closest(e.Name.Text(), e.Candidates); best != "" {
		d.With(report.Help("did you mean `%s`?", best))
	}
	if len(e.Candidates) > 0 {
		d.With(report.Note("accepted keys are %s", quoteKeys(e.Candidates)))
	}
}

// ErrDuplicateKey diagnoses a key that was set twice in the same group.
type ErrDuplicateKey struct {
	Name  *Name // The second occurrence.
	First *Name // The first occurrence.
}

func (e ErrDuplicateKey) Error() string {
	return fmt.Sprintf("duplicate key `%s`", e.Name.Text())
}

func (e ErrDuplicateKey) Diagnose(d *report.Diagnostic) {
	d.With(
		report.Snippet(e.Name),
		report.Snippetf(e.First, "first set here"),
	)
}

// ErrMissingValue diagnoses a key that never got a value: either a required
// key that was not set at all, or a `name =` with nothing after it.
type ErrMissingValue struct {
	Key string
	// At is where the value was expected.
	At report.Span
}

func (e ErrMissingValue) Error() string {
	return fmt.Sprintf("missing value for `%s`", e.Key)
}

func (e ErrMissingValue) Diagnose(d *report.Diagnostic) {
	d.With(report.SnippetAtf(e.At, "expected a value for `%s`", e.Key))
}

// ErrMaxDepth diagnoses a braced group nested deeper than the decoder's
// limit.
type ErrMaxDepth struct {
	At    report.Span
	Limit int
}

func (e ErrMaxDepth) Error() string {
	return "maximum nesting depth exceeded"
}

func (e ErrMaxDepth) Diagnose(d *report.Diagnostic) {
	d.With(
		report.SnippetAt(e.At),
		report.Note("groups may nest at most %d deep", e.Limit),
	)
}

// ErrIntegerOverflow diagnoses an integer literal that does not fit in the
// type it converts into.
type ErrIntegerOverflow struct {
	Lit  *Literal
	Bits int
}

func (e ErrIntegerOverflow) Error() string {
	return fmt.Sprintf("integer `%s` out of range", e.Lit.Text())
}

func (e ErrIntegerOverflow) Diagnose(d *report.Diagnostic) {
	d.With(
		report.Snippet(e.Lit),
		report.Note("the value must fit in a signed %d-bit integer", e.Bits),
	)
}

// errUnexpected is a generic syntax error: found one thing, wanted another.
type errUnexpected struct {
	// The offending token; the zero token means the input ended early.
	found token.Token
	// Where to point when found is zero.
	at report.Span
	// What was expected, e.g. "a path, list, or literal".
	want string
}

func (e errUnexpected) Error() string {
	return fmt.Sprintf("unexpected %s; expected %s", describe(e.found), e.want)
}

func (e errUnexpected) Diagnose(d *report.Diagnostic) {
	span := e.found.Span()
	if e.found.IsZero() {
		span = e.at
	}
	d.With(report.SnippetAtf(span, "expected %s", e.want))
}

// errWrongItem diagnoses an [Item] of the wrong shape.
type errWrongItem struct {
	want string
	item Item
}

func (e errWrongItem) Error() string {
	// A name-value pair where a naked path was wanted blames the `=`.
	if _, ok := e.item.(*NameValue); ok && e.want == "a naked path" {
		return "unexpected `=`; expected a naked path"
	}
	return "expected " + e.want
}

func (e errWrongItem) Diagnose(d *report.Diagnostic) {
	d.With(report.Snippetf(e.item, "expected %s", e.want))
}

// errWrongLiteral diagnoses a [Literal] of the wrong kind.
type errWrongLiteral struct {
	want LitKind
	lit  *Literal
}

func (e errWrongLiteral) Error() string {
	return "expected " + e.want.noun()
}

func (e errWrongLiteral) Diagnose(d *report.Diagnostic) {
	d.With(report.Snippetf(e.lit, "found %s", e.lit.kind.noun()))
}

// noun returns this kind as a noun phrase with its article.
func (k LitKind) noun() string {
	switch k {
	case LitString:
		return "a string literal"
	case LitInt:
		return "an integer literal"
	case LitBool:
		return "a boolean literal"
	default:
		return "a literal"
	}
}

// describe returns a noun phrase for tok, for use in diagnostics.
func describe(tok token.Token) string {
	switch tok.Kind() {
	case token.String:
		return "string literal"
	case token.Number:
		return "number literal"
	case token.Punct:
		if !tok.IsLeaf() {
			open, close := tok.StartEnd()
			return fmt.Sprintf("`%s...%s`", open.Text(), close.Text())
		}
		return fmt.Sprintf("`%s`", tok.Text())
	case token.Ident:
		return fmt.Sprintf("`%s`", tok.Text())
	default:
		if tok.IsZero() {
			return "end of input"
		}
		return fmt.Sprintf("`%s`", tok.Text())
	}
}

// closest returns the candidate most similar to target, for "did you mean"
// suggestions. Returns "" when nothing is close enough.
func closest(target string, candidates []string) string {
	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

func quoteKeys(keys []string) string {
	var buf strings.Builder
	for i, key := range keys {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "`%s`", key)
	}
	return buf.String()
}
