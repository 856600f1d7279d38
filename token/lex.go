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
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/frostu8/macrotk/internal/ext/stringsx"
	"github.com/frostu8/macrotk/report"
)

// Lex performs lexical analysis on file, and appends any diagnostics that
// result to errs.
//
// The returned stream is complete even when diagnostics were reported: every
// byte of the file belongs to exactly one token, and unclosed delimiters are
// fused to a zero-length token at the end of the file so the token tree stays
// well-formed.
func Lex(file *report.File, errs *report.Report) *Stream {
	l := &lexer{
		Stream: newStream(file),
		Report: errs,
	}
	l.Lex()
	return l.Stream
}

// lexer is an attribute body lexer.
type lexer struct {
	*Stream // Embedded so we don't have to name the stream everywhere.
	*report.Report

	// This is outlined so that it's easy to print in the panic handler.
	lexerState
}

type lexerState struct {
	cursor, count int
	openStack     []Token
}

// Lex performs lexical analysis, and places any diagnostics in the report.
func (l *lexer) Lex() {
	defer func() {
		if panicked := recover(); panicked != nil {
			panic(fmt.Sprintf("panic while lexing: %s; %#v", panicked, l.lexerState))
		}
	}()

	// Check that the input isn't too big. We give up immediately if that's
	// the case.
	if len(l.Text()) > MaxFileSize {
		l.Error(ErrFileTooBig{Path: l.file.Path()})
		return
	}

	// Also check that the text is actually UTF-8. We go rune by rune to find
	// the first invalid offset.
	for text := l.Text(); text != ""; {
		r := decodeRune(text)
		if r == -1 {
			l.Error(ErrNotUTF8{
				Path: l.file.Path(),
				At:   len(l.Text()) - len(text),
				Byte: text[0],
			})
			return
		}
		text = text[utf8.RuneLen(r):]
	}

	var prevCount int
	for !l.Done() {
		start := l.cursor
		r := l.Pop()

		if prevCount > 0 && prevCount == l.count {
			panic(fmt.Sprintf("macrotk/token: lexer failed to make progress at offset %d; this is a bug in macrotk", l.cursor))
		}
		prevCount = l.count

		switch {
		case unicode.In(r, unicode.Pattern_White_Space):
			// Whitespace. Consume as much whitespace as possible and mint a
			// whitespace token.
			l.TakeWhile(func(r rune) bool {
				return unicode.In(r, unicode.Pattern_White_Space)
			})
			l.Push(l.cursor-start, Space)

		case r == '/' && l.Peek() == '/':
			l.cursor++ // Skip the second /.

			// Single-line comment. Seek to the next '\n' or the EOF.
			var text string
			if comment, ok := l.SeekInclusive("\n"); ok {
				text = comment
			} else {
				text = l.SeekEOF()
			}
			l.Push(len("//")+len(text), Comment)

		case strings.ContainsRune("=,-", r): // . is handled elsewhere.
			// Punctuation that doesn't require special handling.
			l.Push(utf8.RuneLen(r), Punct)

		case strings.ContainsRune("([{", r): // Push the opener, close it later.
			tok := l.Push(utf8.RuneLen(r), Punct)
			l.openStack = append(l.openStack, tok)
		case strings.ContainsRune(")]}", r):
			tok := l.Push(utf8.RuneLen(r), Punct)
			if len(l.openStack) == 0 {
				l.Error(ErrUnterminated{Span: tok.Span()})
			} else {
				end := len(l.openStack) - 1
				var expected string
				switch l.openStack[end].Text() {
				case "(":
					expected = ")"
				case "[":
					expected = "]"
				case "{":
					expected = "}"
				}
				if tok.Text() != expected {
					l.Error(ErrUnterminated{Span: l.openStack[end].Span(), Mismatch: tok.Span()})
				}

				l.fuse(l.openStack[end], tok)
				l.openStack = l.openStack[:end]
			}

		case r == '"', r == '\'':
			l.cursor-- // Back up to behind the quote before resuming.
			l.LexString()

		case r == '.':
			// A . is normally a single token, unless followed by a digit,
			// which makes it into a number.
			if r := l.Peek(); !unicode.IsDigit(r) {
				l.Push(1, Punct)
				continue
			}
			fallthrough
		case unicode.IsDigit(r):
			// Back up behind the rune we just popped.
			l.cursor -= utf8.RuneLen(r)
			l.LexNumber()

		case r == '_' || unicode.IsLetter(r):
			// Back up behind the rune we just popped.
			l.cursor -= utf8.RuneLen(r)
			rawID := l.TakeWhile(isIdentContinue)

			// Eject any trailing unprintable characters.
			id := strings.TrimRightFunc(rawID, func(r rune) bool {
				return !unicode.IsPrint(r)
			})
			if id == "" {
				// This "identifier" appears to consist entirely of
				// unprintable characters (e.g. combining marks).
				tok := l.Push(len(rawID), Unrecognized)
				l.Error(ErrUnrecognized{Token: tok})
				continue
			}

			l.cursor -= len(rawID) - len(id)
			tok := l.Push(len(id), Ident)

			// Legalize non-ASCII runes.
			if !isASCIIIdent(tok.Text()) {
				l.Error(ErrNonASCIIIdent{Token: tok})
			}

		default:
			// Back up behind the rune we just popped.
			l.cursor -= utf8.RuneLen(r)

			// Consume as many grapheme clusters as possible, and diagnose it.
			l.TakeGraphemesWhile(func(g string) bool {
				r, _ := utf8.DecodeRuneInString(g)
				return !strings.ContainsRune("=,-.([{}])_\"'/", r) &&
					!isIdentContinue(r) &&
					!unicode.In(r, unicode.Pattern_White_Space)
			})
			if l.cursor == start {
				// A rune, like a stray /, that is only meaningful with a
				// partner. Take it alone so we always make progress.
				_ = l.Pop()
			}
			tok := l.Push(l.cursor-start, Unrecognized)
			l.Error(ErrUnrecognized{Token: tok})
		}
	}

	// Legalize against unclosed delimiters.
	for _, open := range l.openStack {
		l.Error(ErrUnterminated{Span: open.Span()})
	}
	// In backwards order, generate empty tokens to fuse with
	// the unclosed delimiters.
	for i := len(l.openStack) - 1; i >= 0; i-- {
		empty := l.Push(0, Unrecognized)
		l.fuse(l.openStack[i], empty)
	}
}

// Push mints a token and counts it towards the progress assertion.
func (l *lexer) Push(length int, kind Kind) Token {
	l.count++
	return l.Stream.push(length, kind)
}

// LexNumber lexes a number starting at the current cursor.
//
// Only base-10 integers exist in this grammar, with _ permitted as a digit
// separator. Everything else that looks like a number is still collected into
// a single Number token, so that bad numbers produce one diagnostic instead
// of a cascade.
func (l *lexer) LexNumber() Token {
	start := l.cursor
more:
	r := l.Peek()
	if r == 'e' || r == 'E' {
		_ = l.Pop()
		r = l.Peek()
		if r == '+' || r == '-' {
			_ = l.Pop()
		}
		goto more
	}
	if r == '.' || r == '_' || unicode.IsDigit(r) || unicode.IsLetter(r) {
		_ = l.Pop()
		goto more
	}

	digits := l.Text()[start:l.cursor]
	tok := l.Push(len(digits), Number)

	normalized := strings.ReplaceAll(digits, "_", "")
	isDecimal := normalized != "" && stringsx.EveryFunc(normalized, func(r rune) bool {
		return r >= '0' && r <= '9'
	})
	if !isDecimal {
		l.Error(ErrInvalidNumber{Token: tok})
	}

	return tok
}

// LexString lexes a string starting at the current cursor.
//
// The cursor position should be just before the string's first quote
// character.
func (l *lexer) LexString() Token {
	start := l.cursor
	q := l.Pop()

	// Seek to the end of the string, unescaping as we go. We do not
	// materialize an unescaped string if this string does not require
	// escaping.
	var buf strings.Builder
	var haveEsc bool
escapeLoop:
	for !l.Done() {
		r := l.Pop()
		if r == q {
			break
		}

		// Warn if the user has a non-printable character in their string that
		// isn't ASCII whitespace.
		if !unicode.IsGraphic(r) && !strings.ContainsRune(" \n\t\r", r) {
			l.Warnf("non-printable character in string literal").With(
				report.Snippetf(l.SpanFrom(l.cursor-utf8.RuneLen(r)), "this is the rune U+%04X", r),
			)
		}

		if r != '\\' {
			if haveEsc {
				buf.WriteRune(r)
			}
			continue
		}

		if !haveEsc {
			buf.WriteString(l.Text()[start+1 : l.cursor-1])
			haveEsc = true
		}

		escStart := l.cursor - 1
		r = l.Pop()
		switch r {
		// These are all the simple escapes.
		case 'a':
			buf.WriteByte('\a') // U+0007
		case 'b':
			buf.WriteByte('\b') // U+0008
		case 'f':
			buf.WriteByte('\f') // U+000C
		case 'n':
			buf.WriteByte('\n')
		case 'r':
			buf.WriteByte('\r')
		case 't':
			buf.WriteByte('\t')
		case 'v':
			buf.WriteByte('\v') // U+000B
		case '\\', '\'', '"', '?':
			buf.WriteRune(r)

		// Octal escape. Need to eat the next two runes if they're octal.
		case '0', '1', '2', '3', '4', '5', '6', '7':
			value := byte(r) - '0'
			for range 2 {
				if l.Done() {
					break escapeLoop
				}
				r = l.Peek()

				// Check before consuming the rune. If we see e.g.
				// an 8, we don't want to consume it.
				if r < '0' || r > '7' {
					break
				}
				_ = l.Pop()

				value *= 8
				value |= byte(r) - '0'
			}
			buf.WriteByte(value)

		// Hex escapes.
		case 'x', 'u', 'U':
			var value uint32
			var digits, consumed int
			switch r {
			case 'x':
				digits = 2
			case 'u':
				digits = 4
			case 'U':
				digits = 8
			}

		digits:
			for range digits {
				if l.Done() {
					break escapeLoop
				}
				r = l.Peek()

				value *= 16
				switch {
				case r >= '0' && r <= '9':
					value |= uint32(r) - '0'
				case r >= 'a' && r <= 'f':
					value |= uint32(r) - 'a' + 10
				case r >= 'A' && r <= 'F':
					value |= uint32(r) - 'A' + 10
				default:
					break digits
				}
				_ = l.Pop()

				consumed++
			}

			escape := l.SpanFrom(escStart)
			if consumed == 0 {
				l.Error(ErrInvalidEscape{Span: escape})
			} else if r != 'x' {
				if consumed != digits || !utf8.ValidRune(rune(value)) {
					l.Error(ErrInvalidEscape{Span: escape})
				}
			}

			if r == 'x' {
				buf.WriteByte(byte(value))
			} else {
				buf.WriteRune(rune(value))
			}
		default:
			l.Error(ErrInvalidEscape{Span: l.SpanFrom(escStart)})
		}
	}

	tok := l.Push(l.cursor-start, String)
	if haveEsc {
		l.setValue(tok, buf.String())
	}

	quoted := tok.Text()
	if len(quoted) < 2 || quoted[0] != quoted[len(quoted)-1] {
		l.Error(ErrUnterminatedStringLiteral{Token: tok})
	}

	return tok
}

// Done returns whether or not we're done lexing runes.
func (l *lexer) Done() bool {
	return l.Rest() == ""
}

// Text returns the text being lexed.
func (l *lexer) Text() string {
	return l.file.Text()
}

// Rest returns unlexed text.
func (l *lexer) Rest() string {
	return l.Text()[l.cursor:]
}

// Peek peeks the next character.
//
// Returns -1 if l.Done().
func (l *lexer) Peek() rune {
	return decodeRune(l.Rest())
}

// Pop consumes the next character; returns that character.
//
// Returns -1 if l.Done().
func (l *lexer) Pop() rune {
	r := l.Peek()
	if r != -1 {
		l.cursor += utf8.RuneLen(r)
		return r
	}
	return -1
}

// TakeWhile consumes the characters while they match the given function.
// Returns consumed characters.
func (l *lexer) TakeWhile(f func(rune) bool) string {
	start := l.cursor
	for !l.Done() {
		r := l.Peek()
		if r == -1 || !f(r) {
			break
		}
		_ = l.Pop()
	}
	return l.Text()[start:l.cursor]
}

// TakeGraphemesWhile consumes grapheme clusters while they match the given
// function. Returns consumed characters.
func (l *lexer) TakeGraphemesWhile(f func(string) bool) string {
	start := l.cursor

	for gs := uniseg.NewGraphemes(l.Rest()); gs.Next(); {
		g := gs.Str()
		if !f(g) {
			break
		}
		l.cursor += len(g)
	}
	return l.Text()[start:l.cursor]
}

// SeekInclusive seeks until the given needle is found; returns the prefix
// inclusive of that needle, and updates the cursor to point after it.
func (l *lexer) SeekInclusive(needle string) (string, bool) {
	if idx := strings.Index(l.Rest(), needle); idx != -1 {
		prefix := l.Rest()[:idx+len(needle)]
		l.cursor += idx + len(needle)
		return prefix, true
	}
	return "", false
}

// SeekEOF seeks the cursor to the end of the text and returns what remained.
func (l *lexer) SeekEOF() string {
	rest := l.Rest()
	l.cursor += len(rest)
	return rest
}

// SpanFrom returns a span from start to the current cursor.
func (l *lexer) SpanFrom(start int) report.Span {
	return l.file.Span(start, l.cursor)
}

// decodeRune is a wrapper around utf8.DecodeRuneInString that makes it easier
// to check for failure. Instead of returning RuneError (which is a valid
// rune!), it returns -1.
func decodeRune(s string) rune {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && n < 2 {
		return -1
	}
	return r
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isASCIIIdent(s string) bool {
	return stringsx.EveryFunc(s, func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
	})
}
