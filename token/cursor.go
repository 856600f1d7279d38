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
	"iter"

	"github.com/frostu8/macrotk/report"
)

// Cursor is an iterator-like construct for looping over a token tree.
// Unlike a plain range func, it supports peeking.
//
// A Cursor yields the tokens of a single nesting level: upon reaching the
// open half of a fused delimiter pair, the whole group is yielded as one
// token, and iteration resumes after its close. Use [Token.Children] to
// descend into a group.
type Cursor struct {
	stream *Stream

	// start is inclusive, end is exclusive. start == end means the cursor
	// is empty.
	start, end ID
	// idx is the ID of the token to yield next.
	idx ID
}

// CursorMark is the return value of [Cursor.Mark], which marks a position on
// a Cursor for rewinding to.
type CursorMark struct {
	// This contains exactly the values needed to rewind the cursor.
	owner *Cursor
	idx   ID
}

// Done returns whether or not there are still tokens left to yield.
func (c *Cursor) Done() bool {
	return c.Peek().IsZero()
}

// Mark makes a mark on this cursor to indicate a place that can be rewound
// to.
func (c *Cursor) Mark() CursorMark {
	return CursorMark{owner: c, idx: c.idx}
}

// Rewind moves this cursor back to the position described by mark.
//
// Panics if mark was not created using this cursor's Mark method.
func (c *Cursor) Rewind(mark CursorMark) {
	if c != mark.owner {
		panic("macrotk/token: rewound cursor using the wrong cursor's mark")
	}
	c.idx = mark.idx
}

// PeekSkippable returns the current token in the sequence, if there is one.
// This may return a skippable token.
//
// Returns the zero token if this cursor is at the end of its range.
func (c *Cursor) PeekSkippable() Token {
	if c == nil || c.idx < c.start || c.idx >= c.end {
		return Zero
	}
	c.stream.touch()
	return c.idx.In(c.stream)
}

// NextSkippable returns the current token in the sequence, and advances the
// cursor past it. This may return a skippable token.
func (c *Cursor) NextSkippable() Token {
	tok := c.PeekSkippable()
	if tok.IsZero() {
		return tok
	}

	// Step over the whole group when sitting on its open half.
	if pair := tok.raw().pair; pair > tok.id {
		c.idx = pair
	}
	c.idx++
	return tok
}

// Peek returns the next token in the sequence, if there is one.
// This automatically skips past skippable tokens.
//
// Returns the zero token if this cursor is at the end of its range.
func (c *Cursor) Peek() Token {
	if c == nil {
		return Zero
	}
	idx := c.idx
	tok := c.Next()
	c.idx = idx
	return tok
}

// Next returns the next token in the sequence, and advances the cursor.
func (c *Cursor) Next() Token {
	for {
		next := c.NextSkippable()
		if next.IsZero() || !next.Kind().IsSkippable() {
			return next
		}
	}
}

// Rest returns an iterator over the remaining tokens in the cursor.
//
// Note that breaking out of a loop over this iterator, and starting
// a new loop, will resume at the iteration that was broken at. E.g., if
// we break out of a loop over c.Rest at token tok, and start a new range
// over c.Rest, the first yielded token will be tok.
func (c *Cursor) Rest() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for {
			tok := c.Peek()
			if tok.IsZero() || !yield(tok) {
				break
			}
			_ = c.Next()
		}
	}
}

// RestSkippable is like [Cursor.Rest], but it yields skippable tokens, too.
func (c *Cursor) RestSkippable() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for {
			tok := c.PeekSkippable()
			if tok.IsZero() || !yield(tok) {
				break
			}
			_ = c.NextSkippable()
		}
	}
}

// JustAfter returns a span for whatever comes immediately after the end of
// this cursor's range.
//
// For a cursor over a whole stream this is the end-of-file; for a cursor over
// a group's children it is the group's closing delimiter. Used to position
// "expected more here" diagnostics.
func (c *Cursor) JustAfter() report.Span {
	if c == nil {
		return report.Span{}
	}
	if int(c.end) > len(c.stream.toks) {
		return c.stream.EOF()
	}
	return c.end.In(c.stream).Span()
}
