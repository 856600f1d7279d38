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
	"iter"

	"github.com/frostu8/macrotk/report"
)

// Stream is the result of lexing an attribute body: a flat list of tokens,
// minted in source order, in which matched delimiter pairs have been fused.
//
// A Stream is not synchronized. It is intended to be read only by the
// goroutine that lexed it; see [Stream.touch].
type Stream struct {
	file *report.File
	toks []raw

	// Unescaped values for String tokens that contain escapes. Tokens without
	// escapes resolve their value directly from the source text.
	literals map[ID]string

	// size is the number of bytes of file consumed by minted tokens so far.
	// Only used while lexing.
	size int

	// The goroutine that owns this stream, for the debug ownership check.
	owner int64
}

// raw is the storage for a single token.
type raw struct {
	// The token's byte offsets within the file.
	start, end int
	// The ID of the delimiter this token is fused to, or zero for a leaf.
	pair ID
	kind Kind
}

func newStream(file *report.File) *Stream {
	return &Stream{file: file, owner: currentGoroutine()}
}

// File returns the file this stream was lexed from.
func (s *Stream) File() *report.File {
	return s.file
}

// Len returns the number of tokens in this stream, including skippable ones.
func (s *Stream) Len() int {
	return len(s.toks)
}

// Cursor returns a cursor over the whole stream.
func (s *Stream) Cursor() *Cursor {
	s.touch()
	return &Cursor{
		stream: s,
		start:  1,
		end:    ID(len(s.toks) + 1),
		idx:    1,
	}
}

// All returns an iterator over every token in the stream in source order,
// including skippable tokens and both halves of fused delimiter pairs.
func (s *Stream) All() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		s.touch()
		for i := range s.toks {
			if !yield(ID(i + 1).In(s)) {
				return
			}
		}
	}
}

// EOF returns a span pointing just past the last non-whitespace byte of the
// file.
func (s *Stream) EOF() report.Span {
	return s.file.EOF()
}

// push mints the next token in the stream, which covers the next length bytes
// of the file.
func (s *Stream) push(length int, kind Kind) Token {
	if s.size+length > len(s.file.Text()) {
		panic(fmt.Sprintf(
			"macrotk/token: pushed token of length %d when only %d bytes remain",
			length, len(s.file.Text())-s.size,
		))
	}

	s.toks = append(s.toks, raw{
		start: s.size,
		end:   s.size + length,
		kind:  kind,
	})
	s.size += length

	return ID(len(s.toks)).In(s)
}

// fuse marks two delimiter tokens as a matched pair, making both non-leaf.
//
// Everything between them becomes reachable via [Token.Children] and is
// stepped over as a unit by [Cursor] iteration.
func (s *Stream) fuse(open, close Token) {
	if open.id >= close.id {
		panic(fmt.Sprintf("macrotk/token: fuse() called out of order: %v, %v", open, close))
	}

	open.raw().pair = close.id
	close.raw().pair = open.id
}

// setValue records the unescaped value of a String token.
func (s *Stream) setValue(tok Token, value string) {
	if s.literals == nil {
		s.literals = make(map[ID]string)
	}
	s.literals[tok.id] = value
}
