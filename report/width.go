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

package report

import (
	"fmt"
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/frostu8/macrotk/internal/ext/stringsx"
)

const (
	// TabstopWidth is the size we render all tabstops as.
	TabstopWidth int = 4
	// MaxMessageWidth is the maximum width of a diagnostic message before it is
	// word-wrapped, to try to keep everything within the bounds of a terminal.
	MaxMessageWidth int = 80
)

// NonPrint defines whether or not a rune is considered "unprintable for the
// purposes of diagnostics", that is, whether it is a rune that the diagnostics
// engine will replace with <U+NNNN> when printing.
func NonPrint(r rune) bool {
	return !strings.ContainsRune(" \r\t\n", r) && !unicode.IsPrint(r)
}

// wordWrap returns an iterator over chunks of text that are no wider than
// width, which can be printed as their own lines.
func wordWrap(text string, width int) iter.Seq[string] {
	return func(yield func(string) bool) {
		for line := range stringsx.Lines(text) {
			var out strings.Builder
			var column int
			for _, word := range strings.Fields(line) {
				w := uniseg.StringWidth(word)
				switch {
				case column == 0:
					out.WriteString(word)
					column = w
				case column+1+w <= width:
					out.WriteByte(' ')
					out.WriteString(word)
					column += 1 + w
				default:
					if !yield(out.String()) {
						return
					}
					out.Reset()
					out.WriteString(word)
					column = w
				}
			}
			if !yield(out.String()) {
				return
			}
		}
	}
}

// stringWidth calculates the rendered width of text if placed at the given
// column, accounting for tabstops.
//
// If out is non-nil, the text is also written to it, with tabs expanded into
// spaces and unprintable runes replaced with <U+NNNN> escapes. Escapes count
// towards the width whether or not out is set, so that measured columns always
// agree with rendered ones.
func stringWidth(column int, text string, out *strings.Builder) int {
	// We can't just use StringWidth, because that doesn't respect tabstops
	// correctly.
	for text != "" {
		nextTab := strings.IndexByte(text, '\t')
		haveTab := nextTab != -1
		next := text
		if haveTab {
			next, text = text[:nextTab], text[nextTab+1:]
		} else {
			text = ""
		}

		for next != "" {
			chunk := next
			nextNonPrint := strings.IndexFunc(next, NonPrint)
			if nextNonPrint != -1 {
				chunk, next = next[:nextNonPrint], next[nextNonPrint:]
				nonPrint, runeLen := utf8.DecodeRuneInString(next)
				next = next[runeLen:]

				escape := fmt.Sprintf("<U+%04X>", nonPrint)
				if out != nil {
					out.WriteString(chunk)
					out.WriteString(escape)
				}
				column += uniseg.StringWidth(chunk) + len(escape)
			} else {
				if out != nil {
					out.WriteString(chunk)
				}
				column += uniseg.StringWidth(chunk)
				next = ""
			}
		}

		if haveTab {
			tab := TabstopWidth - (column % TabstopWidth)
			column += tab
			if out != nil {
				for range tab {
					out.WriteByte(' ')
				}
			}
		}
	}

	return column
}

// padBy writes padding spaces to out.
func padBy(out *strings.Builder, spaces int) {
	for range spaces {
		out.WriteByte(' ')
	}
}
