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

package token_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostu8/macrotk/internal/golden"
	"github.com/frostu8/macrotk/report"
	"github.com/frostu8/macrotk/token"
)

func TestLex(t *testing.T) {
	t.Parallel()

	corpus := golden.Corpus{
		Root:      "testdata/lexer",
		Refresh:   "MACROTK_REFRESH",
		Extension: "attr",
		Outputs: []golden.Output{
			{Extension: "tokens.tsv"},
			{Extension: "stderr.txt"},
		},
	}

	corpus.Run(t, func(t *testing.T, path, text string, outputs []string) {
		var errs report.Report
		stream := token.Lex(report.NewFile(path, text), &errs)

		stderr, _, _ := report.Renderer{Colorize: true}.RenderString(&errs)
		if stderr != "" {
			t.Log("\n" + stderr)
		}
		outputs[1], _, _ = report.Renderer{}.RenderString(&errs)

		var tsv strings.Builder
		tsv.WriteString("#\t\tkind\t\toffsets\t\tlinecol\t\ttext\n")
		for tok := range stream.All() {
			span := tok.Span()
			loc := span.StartLoc()
			fmt.Fprintf(&tsv, "%v\t\t%v\t\t%03d:%03d\t\t%03d:%03d\t\t%q",
				int(tok.ID())-1, tok.Kind(),
				span.Start, span.End,
				loc.Line, loc.Column,
				tok.Text())

			if value, ok := tok.AsString(); ok {
				fmt.Fprintf(&tsv, "\t\tstring:%q", value)
			}
			if start, end := tok.StartEnd(); start != end {
				if tok == start {
					fmt.Fprintf(&tsv, "\t\tclose:%v", end.ID())
				} else {
					fmt.Fprintf(&tsv, "\t\topen:%v", start.ID())
				}
			}
			tsv.WriteByte('\n')
		}
		outputs[0] = tsv.String()
	})
}

// TestLexCovers checks that every byte of the input winds up in exactly one
// token, garbage input included.
func TestLexCovers(t *testing.T) {
	t.Parallel()

	texts := []string{
		"",
		`name = "spine", limit = 512`,
		"derive(clone, debug)",
		"a = { b = { c = 1 } }",
		"flags(a, \"b", // Unterminated on two counts.
		"a @@ b",
		"]",
		"((([{",
		"// comment with no newline",
		"café = 1",
	}
	for _, text := range texts {
		var errs report.Report
		stream := token.Lex(report.NewFile("test.attr", text), &errs)

		var end int
		for tok := range stream.All() {
			span := tok.Span()
			assert.Equal(t, end, span.Start, "token %v of %q", tok.ID(), text)
			end = span.End
		}
		assert.Equal(t, len(text), end, "text: %q", text)
	}
}

func TestLexNotUTF8(t *testing.T) {
	t.Parallel()

	var errs report.Report
	token.Lex(report.NewFile("test.attr", "name = \"a\xffb\""), &errs)
	require.True(t, errs.HasErrors())

	text, _, _ := report.Renderer{Compact: true}.RenderString(&errs)
	assert.Equal(t, "error: test.attr: input must be encoded as valid UTF-8\n", text)
}

func TestLexNonASCIIIdent(t *testing.T) {
	t.Parallel()

	var errs report.Report
	stream := token.Lex(report.NewFile("test.attr", "café = 1"), &errs)

	// The identifier still lexes as one token; the diagnostic is enough.
	tok := stream.Cursor().Peek()
	assert.Equal(t, token.Ident, tok.Kind())
	assert.Equal(t, "café", tok.Text())

	text, _, _ := report.Renderer{Compact: true}.RenderString(&errs)
	assert.Equal(t, "error: test.attr:1:1: non-ASCII identifiers are not allowed\n", text)
}

func TestLexInvalidEscape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text, want string
	}{
		{`a = "\q"`, "error: test.attr:1:6: invalid escape sequence\n"},
		{`a = "\x"`, "error: test.attr:1:6: invalid escape sequence\n"},
		{`a = "\u00"`, "error: test.attr:1:6: invalid escape sequence\n"},
		{`a = "\ud800"`, "error: test.attr:1:6: invalid escape sequence\n"}, // Unpaired surrogate.
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			var errs report.Report
			token.Lex(report.NewFile("test.attr", tt.text), &errs)

			text, _, _ := report.Renderer{Compact: true}.RenderString(&errs)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestLexEscapes(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	tests := []struct {
		text, value string
	}{
		{`"plain"`, "plain"},
		{`'single'`, "single"},
		{`"a\tb"`, "a\tb"},
		{`"a\\b"`, `a\b`},
		{`"\"quoted\""`, `"quoted"`},
		{`"\x41"`, "A"},
		{`"\101"`, "A"},
		{`"\0"`, "\x00"},
		{`"A"`, "A"},
		{`"\U0001F600"`, "\U0001F600"},
	}
	for _, tt := range tests {
		stream := lex(t, tt.text)
		tok := stream.Cursor().Peek()
		require.Equal(t, token.String, tok.Kind(), "text: %s", tt.text)

		value, ok := tok.AsString()
		assert.True(ok)
		assert.Equal(tt.value, value, "text: %s", tt.text)
	}
}

func TestLexNonPrintable(t *testing.T) {
	t.Parallel()

	var errs report.Report
	token.Lex(report.NewFile("test.attr", "a = \"\x01\""), &errs)
	require.False(t, errs.HasErrors())

	text, errors, warnings := report.Renderer{Compact: true}.RenderString(&errs)
	assert.Equal(t, 0, errors)
	assert.Equal(t, 1, warnings)
	assert.Equal(t, "warning: test.attr:1:6: non-printable character in string literal\n", text)
}

func TestLexStray(t *testing.T) {
	t.Parallel()

	// A rune that is only meaningful with a partner lexes alone, so the
	// lexer always makes progress.
	var errs report.Report
	stream := token.Lex(report.NewFile("test.attr", "a / b"), &errs)

	var kinds []token.Kind
	for tok := range stream.All() {
		kinds = append(kinds, tok.Kind())
	}
	assert.Equal(t, []token.Kind{
		token.Ident, token.Space, token.Unrecognized, token.Space, token.Ident,
	}, kinds)

	text, _, _ := report.Renderer{Compact: true}.RenderString(&errs)
	assert.Equal(t, "error: test.attr:1:3: unrecognized token\n", text)
}
