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
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostu8/macrotk/token"
)

// texts collects the text of every token the cursor has left.
func texts(c *token.Cursor) []string {
	var out []string
	for tok := range c.Rest() {
		out = append(out, tok.Text())
	}
	return out
}

func TestCursor(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	s := lex(t, "a = 1, // ignore me\nflags(b, c)")
	c := s.Cursor()

	// Peek does not advance; skippable tokens are stepped over.
	assert.False(c.Done())
	assert.Equal("a", c.Peek().Text())
	assert.Equal("a", c.Peek().Text())
	assert.Equal("a", c.Next().Text())

	assert.Equal("=", c.Next().Text())
	assert.Equal("1", c.Next().Text())
	assert.Equal(",", c.Next().Text())

	// PeekSkippable sees the whitespace Peek hides.
	assert.Equal(token.Space, c.PeekSkippable().Kind())
	assert.Equal("flags", c.Peek().Text())
	assert.Equal(token.Space, c.NextSkippable().Kind())

	// The comment between the space and flags is skipped too.
	mark := c.Mark()
	assert.Equal("flags", c.Next().Text())

	// A fused group comes off as a single token.
	group := c.Next()
	assert.Equal("(", group.Text())
	assert.True(c.Done())
	assert.True(c.Next().IsZero())

	c.Rewind(mark)
	assert.Equal([]string{"flags", "("}, texts(c))
	assert.True(c.Done())
}

func TestCursorRest(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	s := lex(t, "a, b, c")
	c := s.Cursor()

	// Breaking out of Rest and resuming picks up where it left off.
	for tok := range c.Rest() {
		if tok.Text() == "," {
			break
		}
	}
	assert.Equal([]string{",", "b", ",", "c"}, texts(c))

	all := slices.Collect(s.Cursor().RestSkippable())
	assert.Len(all, 7)
}

func TestCursorRewindWrongCursor(t *testing.T) {
	t.Parallel()

	s := lex(t, "a, b")
	c1 := s.Cursor()
	c2 := s.Cursor()

	mark := c1.Mark()
	assert.Panics(t, func() { c2.Rewind(mark) })
}

func TestCursorJustAfter(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	s := lex(t, "flags(a)  ")
	c := s.Cursor()

	// For the root cursor, the span just after the last token moors to the
	// last non-whitespace byte, not to trailing spaces.
	eof := c.JustAfter()
	assert.Equal(8, eof.Start)
	assert.Equal(8, eof.End)

	_ = c.Next() // flags
	group := c.Next()
	require.False(t, group.IsZero())

	// For a group's children, it is the closing delimiter.
	inner := group.Children()
	_ = inner.Next()
	assert.True(inner.Done())
	assert.Equal(")", inner.JustAfter().Text())
}

func TestCursorNil(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var c *token.Cursor
	assert.True(c.Done())
	assert.True(c.Peek().IsZero())
	assert.True(c.Next().IsZero())
	assert.True(c.PeekSkippable().IsZero())
}
