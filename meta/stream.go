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
	"github.com/frostu8/macrotk/report"
	"github.com/frostu8/macrotk/token"
)

// DefaultMaxDepth is the group nesting limit a [Stream] applies when its
// MaxDepth field is zero.
const DefaultMaxDepth = 32

// Stream pulls `name = value` pairs off of a token cursor, one pair at a
// time.
//
// The zero value is an exhausted stream. Streams for nested braced groups
// are created internally by [Stream.NextValue]; an [Unmarshaler] receives
// one of those as its argument.
type Stream struct {
	// Cursor over the tokens this stream reads.
	Cursor *token.Cursor

	// CallSite identifies the attribute whose arguments this stream parses.
	// Diagnostics that cannot point at a token, such as a required key that
	// was never set, point here instead.
	CallSite report.Span

	// MaxDepth limits how deep braced groups may nest. Zero means
	// [DefaultMaxDepth].
	MaxDepth int

	depth int
}

// Name is a key pulled off of a [Stream] by [Stream.NextName].
type Name struct {
	text string
	span report.Span
}

// Text returns this name's text: the final component of the key path it was
// parsed from.
func (n *Name) Text() string {
	return n.text
}

// Span implements [report.Spanner]. The span covers the whole key path.
func (n *Name) Span() report.Span {
	return n.span
}

// NextName parses the next `name =` off of the stream, leaving the cursor on
// the first token of the value.
//
// Returns nil, nil once the stream is exhausted.
func (s *Stream) NextName() (*Name, error) {
	if s.Cursor.Done() {
		return nil, nil
	}

	tok := s.Cursor.Peek()
	if tok.Kind() != token.Ident {
		return nil, errUnexpected{found: tok, want: "a key"}
	}
	path, err := parsePath(s.Cursor)
	if err != nil {
		return nil, err
	}

	if eq := s.Cursor.Peek(); !isPunct(eq, "=") {
		return nil, errUnexpected{found: eq, at: s.Cursor.JustAfter(), want: "`=`"}
	}
	s.Cursor.Next()

	return &Name{text: path.Last(), span: path.Span()}, nil
}

// NextValue parses the next value off of the stream into v, along with the
// comma that separates it from the next pair. The comma is only optional
// after the final value.
//
// v may be a pointer to string, bool, or any signed integer type; a pointer
// to a struct, which parses a braced group of `name = value` pairs as
// [Decode] does; or a pointer to an [Unmarshaler]. A pointer to a pointer to
// any of these allocates on first use, which makes the pointed-to key
// optional under [Decode].
//
// Returns false, nil if the stream is exhausted. Callers that require a
// value should turn that into a diagnostic at [token.Cursor.JustAfter].
func (s *Stream) NextValue(v any) (bool, error) {
	if s.Cursor.Done() {
		return false, nil
	}

	if err := unmarshal(s, v); err != nil {
		return false, err
	}

	if s.Cursor.Done() {
		return true, nil
	}
	if tok := s.Cursor.Peek(); !isPunct(tok, ",") {
		return false, errUnexpected{found: tok, want: "`,`"}
	}
	s.Cursor.Next()

	return true, nil
}

// nest enters a braced group, returning a child stream over its contents.
func (s *Stream) nest() (*Stream, error) {
	tok := s.Cursor.Peek()
	if !isGroup(tok, "{") {
		return nil, errUnexpected{found: tok, at: s.Cursor.JustAfter(), want: "`{`"}
	}

	limit := s.MaxDepth
	if limit <= 0 {
		limit = DefaultMaxDepth
	}
	if s.depth+1 > limit {
		return nil, ErrMaxDepth{At: tok.Span(), Limit: limit}
	}

	s.Cursor.Next()
	return &Stream{
		Cursor:   tok.Children(),
		CallSite: tok.Span(),
		MaxDepth: s.MaxDepth,
		depth:    s.depth + 1,
	}, nil
}
