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

// Package token provides a memory-efficient representation of a token tree
// stream for attribute bodies.
//
// # Token Trees
//
// Tokens in macrotk are trees: a token may "contain" a range of other tokens.
// The tokens between matched delimiters ( ), [ ], or { } are contained within
// the delimiters, accessible via [Token.Children]. This simplifies parsing,
// since it moves the tricky work of matching delimiters out of the parser and
// into the lexer: by the time a [Cursor] walks the stream, a whole group reads
// as one token.
//
// A [Token] is a cheap handle into its [Stream]; it carries no text of its
// own. All source text lives in the [report.File] the stream was lexed from,
// and every token resolves its text and span against it on demand.
package token
