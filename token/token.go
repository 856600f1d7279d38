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

	"github.com/frostu8/macrotk/report"
)

// ID is the identity of a [Token] within its [Stream].
//
// IDs are 1-indexed; the zero ID identifies the zero token.
type ID int

// In returns the token with this ID in the given stream.
func (id ID) In(s *Stream) Token {
	return Token{id: id, stream: s}
}

// Zero is the zero [Token], used to indicate the absence of a token, such as
// when a [Cursor] is exhausted.
var Zero Token

// Token is a lexical element of an attribute body.
//
// A Token is a handle into a [Stream]; it is cheap to copy and compare.
// Delimiter tokens that have been fused into a matched pair are non-leaf:
// their contents can be walked with [Token.Children].
type Token struct {
	id     ID
	stream *Stream
}

// IsZero returns whether this is the zero token.
func (t Token) IsZero() bool {
	return t.id == 0
}

// ID returns this token's ID within its stream.
func (t Token) ID() ID {
	return t.id
}

// Kind returns this token's kind.
//
// The zero token has kind [Unrecognized].
func (t Token) Kind() Kind {
	if t.IsZero() {
		return Unrecognized
	}
	return t.raw().kind
}

// Text returns this token's raw source text.
//
// For a fused delimiter, this is the text of that delimiter alone, not of
// everything it contains.
func (t Token) Text() string {
	if t.IsZero() {
		return ""
	}
	raw := t.raw()
	return t.stream.file.Text()[raw.start:raw.end]
}

// Span returns this token's span in its source file.
//
// Like [Token.Text], the span of a fused delimiter covers the delimiter
// alone. The span of a whole group is report.Join of its two delimiters.
func (t Token) Span() report.Span {
	if t.IsZero() {
		return report.Span{}
	}
	raw := t.raw()
	return t.stream.file.Span(raw.start, raw.end)
}

// IsLeaf returns whether this token is a leaf: that is, whether it is not part
// of a fused delimiter pair.
func (t Token) IsLeaf() bool {
	return t.IsZero() || t.raw().pair == 0
}

// StartEnd returns the open and close tokens for this token.
//
// For a leaf, both returns are the token itself.
func (t Token) StartEnd() (start, end Token) {
	if t.IsLeaf() {
		return t, t
	}

	pair := t.raw().pair
	if pair > t.id {
		return t, pair.In(t.stream)
	}
	return pair.In(t.stream), t
}

// Children returns a cursor over the tokens between this token and the
// delimiter it is fused to.
//
// Returns nil if this is a leaf token.
func (t Token) Children() *Cursor {
	if t.IsLeaf() {
		return nil
	}

	start, end := t.StartEnd()
	return &Cursor{
		stream: t.stream,
		start:  start.id + 1,
		end:    end.id,
		idx:    start.id + 1,
	}
}

// AsString returns the value this token represents as a string literal, i.e.
// with its quotes removed and its escapes resolved.
//
// Returns ok == false if this is not a [String] token.
func (t Token) AsString() (value string, ok bool) {
	if t.Kind() != String {
		return "", false
	}

	if value, ok := t.stream.literals[t.id]; ok {
		return value, true
	}

	// The token had no escapes; strip the quotes off of its raw text.
	text := t.Text()
	if len(text) >= 2 && text[0] == text[len(text)-1] {
		return text[1 : len(text)-1], true
	}
	// Unterminated string; there is a diagnostic for this already.
	return text[1:], true
}

// String implements [fmt.Stringer], for debugging.
func (t Token) String() string {
	if t.IsZero() {
		return "Token(<zero>)"
	}
	return fmt.Sprintf("%v(%d):%q", t.Kind(), t.id, t.Text())
}

func (t Token) raw() *raw {
	t.stream.touch()
	return &t.stream.toks[t.id-1]
}
