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

package meta_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostu8/macrotk/meta"
	"github.com/frostu8/macrotk/report"
	"github.com/frostu8/macrotk/token"
)

// cursor lexes text as an attribute body, failing the test if the lexer
// reports anything.
func cursor(t *testing.T, text string) *token.Cursor {
	t.Helper()

	var errs report.Report
	stream := token.Lex(report.NewFile("test.attr", text), &errs)
	require.NoError(t, errs.Err())
	return stream.Cursor()
}

// diagnostic renders err in the compact style, so tests can pin down both the
// message and the exact position it points at.
func diagnostic(t *testing.T, err error) string {
	t.Helper()

	var diag report.Diagnose
	require.ErrorAs(t, err, &diag, "not a diagnostic: %v", err)

	var errs report.Report
	errs.Error(diag)
	text, _, _ := report.Renderer{Compact: true}.RenderString(&errs)
	return strings.TrimSuffix(text, "\n")
}

// offsets returns the byte range s spans, for terse span assertions.
func offsets(s report.Spanner) [2]int {
	span := s.Span()
	return [2]int{span.Start, span.End}
}

func TestParseList(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	list, err := meta.ParseList(cursor(t, `eq, derive(clone, debug), name = "spine", limit = -3, "bare"`))
	require.NoError(t, err)

	assert.Nil(list.Name)
	require.Len(t, list.Items, 5)

	eq, err := meta.AsPath(list.Items[0])
	require.NoError(t, err)
	assert.Equal("eq", eq.Text())
	assert.Equal([2]int{0, 2}, offsets(eq))

	derive, err := meta.AsList(list.Items[1])
	require.NoError(t, err)
	require.NotNil(t, derive.Name)
	assert.Equal("derive", derive.Name.Text())
	assert.Equal([2]int{4, 24}, offsets(derive))
	require.Len(t, derive.Items, 2)
	clone, err := meta.AsPath(derive.Items[0])
	require.NoError(t, err)
	assert.Equal("clone", clone.Text())

	name, err := meta.AsNameValue(list.Items[2])
	require.NoError(t, err)
	assert.Equal("name", name.Name.Text())
	assert.Equal([2]int{26, 40}, offsets(name))
	value, err := name.Value.AsString()
	require.NoError(t, err)
	assert.Equal("spine", value)

	limit, err := meta.AsNameValue(list.Items[3])
	require.NoError(t, err)
	n, err := limit.Value.AsInt()
	require.NoError(t, err)
	assert.Equal(int64(-3), n)

	bare, err := meta.AsLiteral(list.Items[4])
	require.NoError(t, err)
	assert.Equal(meta.LitString, bare.Kind())
	assert.Equal(`"bare"`, bare.Text())
	assert.Equal([2]int{54, 60}, offsets(bare))
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	for _, text := range []string{"", "   ", "// only a comment"} {
		list, err := meta.ParseList(cursor(t, text))
		require.NoError(t, err, "text: %q", text)
		assert.Nil(list.Name)
		assert.Empty(list.Items)
		assert.True(list.Span().IsZero())
	}

	// An empty interior is legal and yields zero children.
	list, err := meta.ParseList(cursor(t, "derive()"))
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	derive, err := meta.AsList(list.Items[0])
	require.NoError(t, err)
	assert.Empty(derive.Items)
}

func TestParseTrailingComma(t *testing.T) {
	t.Parallel()

	list, err := meta.ParseList(cursor(t, "a, b,"))
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
}

func TestParseDottedPath(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	list, err := meta.ParseList(cursor(t, `serde.rename = "x"`))
	require.NoError(t, err)

	// Lookup keys on the final path component, not the dotted text.
	item := list.Lookup("rename")
	require.NotNil(t, item)
	assert.Nil(list.Lookup("serde.rename"))
	assert.Nil(list.Lookup("serde"))

	nv, err := meta.AsNameValue(item)
	require.NoError(t, err)
	assert.Equal([]string{"serde", "rename"}, nv.Name.Components)
	assert.Equal("serde.rename", nv.Name.Text())
	assert.Equal("rename", nv.Name.Last())
	assert.Equal([2]int{0, 12}, offsets(&nv.Name))
}

func TestParseBoolIsLiteral(t *testing.T) {
	t.Parallel()

	// true and false are reserved words of the grammar: a bare true is a
	// boolean literal, never a path.
	list, err := meta.ParseList(cursor(t, "true"))
	require.NoError(t, err)
	require.Len(t, list.Items, 1)

	lit, err := meta.AsLiteral(list.Items[0])
	require.NoError(t, err)
	assert.Equal(t, meta.LitBool, lit.Kind())
	value, err := lit.AsBool()
	require.NoError(t, err)
	assert.True(t, value)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text, want string
	}{
		{"a b", "error: test.attr:1:3: unexpected `b`; expected `,`"},
		{"a,,", "error: test.attr:1:3: unexpected `,`; expected a path, list, or literal"},
		{"=", "error: test.attr:1:1: unexpected `=`; expected a path, list, or literal"},
		{"a = b", "error: test.attr:1:5: unexpected `b`; expected a literal"},
		{"a = (x)", "error: test.attr:1:5: unexpected `(...)`; expected a literal"},
		{"a = ", "error: test.attr:1:4: unexpected end of input; expected a literal"},
		{"serde. = 1", "error: test.attr:1:8: unexpected `=`; expected an identifier after `.`"},
		{"a = -x", "error: test.attr:1:6: unexpected `x`; expected an integer after `-`"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			_, err := meta.ParseList(cursor(t, tt.text))
			require.Error(t, err)
			assert.Equal(t, tt.want, diagnostic(t, err))
		})
	}
}

func TestItemShapes(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	list, err := meta.ParseList(cursor(t, `flag, name = "x", derive(a), 3`))
	require.NoError(t, err)
	require.Len(t, list.Items, 4)
	path, nv, sub, lit := list.Items[0], list.Items[1], list.Items[2], list.Items[3]

	_, err = meta.AsPath(nv)
	assert.EqualError(err, "unexpected `=`; expected a naked path")
	_, err = meta.AsPath(lit)
	assert.EqualError(err, "expected a naked path")
	_, err = meta.AsNameValue(path)
	assert.EqualError(err, "expected a name-value pair")
	_, err = meta.AsList(nv)
	assert.EqualError(err, "expected a list")
	_, err = meta.AsLiteral(sub)
	assert.EqualError(err, "expected a literal")

	// A name-value pair can stand in for its value.
	value, err := meta.AsLiteral(nv)
	require.NoError(t, err)
	text, err := value.AsString()
	require.NoError(t, err)
	assert.Equal("x", text)
}

func TestListAll(t *testing.T) {
	t.Parallel()

	list, err := meta.ParseList(cursor(t, "a, b(c, d(e)), f"))
	require.NoError(t, err)

	// Items come out in source order, parents before children.
	var texts []string
	for item := range list.All() {
		switch item := item.(type) {
		case *meta.Path:
			texts = append(texts, item.Text())
		case *meta.List:
			texts = append(texts, item.Name.Text()+"()")
		}
	}
	assert.Equal(t, []string{"a", "b()", "c", "d()", "e", "f"}, texts)
}

func TestGet(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	list, err := meta.ParseList(cursor(t,
		`eq, derive(clone), name = "spine", limit = 1_000, enabled = true, big = 9223372036854775807`))
	require.NoError(t, err)

	name, found, err := meta.Get[string](list, "name")
	require.NoError(t, err)
	assert.True(found)
	assert.Equal("spine", name)

	limit, found, err := meta.Get[int64](list, "limit")
	require.NoError(t, err)
	assert.True(found)
	assert.Equal(int64(1000), limit)

	// A bare path reads as a true flag.
	eq, found, err := meta.Get[bool](list, "eq")
	require.NoError(t, err)
	assert.True(found)
	assert.True(eq)

	enabled, _, err := meta.Get[bool](list, "enabled")
	require.NoError(t, err)
	assert.True(enabled)

	big, _, err := meta.Get[int64](list, "big")
	require.NoError(t, err)
	assert.Equal(int64(math.MaxInt64), big)

	_, found, err = meta.Get[string](list, "missing")
	require.NoError(t, err)
	assert.False(found)

	// Items themselves can be asked for.
	derive, found, err := meta.Get[*meta.List](list, "derive")
	require.NoError(t, err)
	assert.True(found)
	require.NotNil(t, derive)
	assert.Len(derive.Items, 1)

	item, _, err := meta.Get[meta.Item](list, "eq")
	require.NoError(t, err)
	_, err = meta.AsPath(item)
	assert.NoError(err)
}

func TestGetFirstMatch(t *testing.T) {
	t.Parallel()

	// Duplicate names are kept; lookup returns the first in source order.
	list, err := meta.ParseList(cursor(t, `keyword = "hi", keyword = "bye"`))
	require.NoError(t, err)
	require.Len(t, list.Items, 2)

	value, found, err := meta.Get[string](list, "keyword")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "hi", value)
}

func TestGetErrors(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	list, err := meta.ParseList(cursor(t, `limit = 512, name = "spine"`))
	require.NoError(t, err)

	_, _, err = meta.Get[string](list, "limit")
	assert.Equal("error: test.attr:1:9: expected a string literal", diagnostic(t, err))

	_, _, err = meta.Get[int8](list, "limit")
	assert.Equal("error: test.attr:1:9: integer `512` out of range", diagnostic(t, err))

	_, _, err = meta.Get[bool](list, "name")
	assert.Equal("error: test.attr:1:21: expected a boolean literal", diagnostic(t, err))

	_, _, err = meta.Get[int64](list, "name")
	assert.Equal("error: test.attr:1:21: expected an integer literal", diagnostic(t, err))

	_, _, err = meta.Get[*meta.List](list, "name")
	assert.EqualError(err, "expected a list")
}
