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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostu8/macrotk/report"
	"github.com/frostu8/macrotk/token"
)

// lex lexes text, failing the test if any diagnostics result.
func lex(t *testing.T, text string) *token.Stream {
	t.Helper()

	var errs report.Report
	stream := token.Lex(report.NewFile("test.attr", text), &errs)
	require.NoError(t, errs.Err())
	return stream
}

func TestZeroToken(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var zero token.Token
	assert.True(zero.IsZero())
	assert.True(zero.IsLeaf())
	assert.Equal(token.Unrecognized, zero.Kind())
	assert.Equal("", zero.Text())
	assert.True(zero.Span().IsZero())

	_, ok := zero.AsString()
	assert.False(ok)
	assert.Nil(zero.Children())
}

func TestLeafTokens(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	s := lex(t, "abc def ghi")
	assert.Equal(5, s.Len())
	assert.Equal("test.attr", s.File().Path())

	assertIdent := func(tok token.Token, a, b int, text string) {
		t.Helper()

		span := tok.Span()
		assert.Equal(a, span.Start)
		assert.Equal(b, span.End)

		assert.False(tok.IsZero())
		assert.True(tok.IsLeaf())
		assert.Equal(token.Ident, tok.Kind())
		assert.Equal(text, tok.Text())
		assert.Nil(tok.Children())
	}

	var idents []token.Token
	for tok := range s.All() {
		if tok.Kind() == token.Ident {
			idents = append(idents, tok)
		}
	}
	require.Len(t, idents, 3)

	assertIdent(idents[0], 0, 3, "abc")
	assertIdent(idents[1], 4, 7, "def")
	assertIdent(idents[2], 8, 11, "ghi")
}

func TestTreeTokens(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	s := lex(t, "abc(def(x), ghi)")

	c := s.Cursor()
	abc := c.Next()
	open := c.Next()
	assert.True(c.Done())

	assert.Equal("abc", abc.Text())
	assert.True(abc.IsLeaf())

	assert.Equal(token.Punct, open.Kind())
	assert.False(open.IsLeaf())
	assert.Equal("(", open.Text())

	start, end := open.StartEnd()
	assert.Equal(open, start)
	assert.Equal(")", end.Text())
	assert.Equal(15, end.Span().Start)
	// The group's own span is only the delimiter; the whole group is the
	// join of both halves.
	assert.Equal("(", open.Span().Text())
	assert.Equal("abc(def(x), ghi)"[3:], report.Join(start, end).Text())

	// Walking the children yields one token per group.
	inner := open.Children()
	def := inner.Next()
	open2 := inner.Next()
	comma := inner.Next()
	ghi := inner.Next()
	assert.True(inner.Done())

	assert.Equal("def", def.Text())
	assert.Equal("(", open2.Text())
	assert.False(open2.IsLeaf())
	assert.Equal(",", comma.Text())
	assert.Equal("ghi", ghi.Text())

	x := open2.Children().Next()
	assert.Equal("x", x.Text())
	assert.True(x.IsLeaf())
}

func TestStringTokens(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	s := lex(t, `a = "tab\there" 'plain'`)

	var strs []token.Token
	for tok := range s.All() {
		if tok.Kind() == token.String {
			strs = append(strs, tok)
		}
	}
	require.Len(t, strs, 2)

	// Escapes resolve; quotes strip.
	value, ok := strs[0].AsString()
	assert.True(ok)
	assert.Equal("tab\there", value)
	assert.Equal(`"tab\there"`, strs[0].Text())

	value, ok = strs[1].AsString()
	assert.True(ok)
	assert.Equal("plain", value)

	ident := s.Cursor().Next()
	_, ok = ident.AsString()
	assert.False(ok)
}
