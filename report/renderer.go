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
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

// Renderer renders a [Report] into user-visible text.
//
// The zero Renderer renders in the "fancy" style: Rust-like multi-line windows
// of annotated source code. Setting Compact renders each diagnostic as a
// single Go-compiler-style line instead.
type Renderer struct {
	// Compact renders each diagnostic as a single line, in the style of the
	// Go compiler.
	Compact bool

	// Colorize uses ANSI escapes to color the output.
	Colorize bool

	// ShowRemarks includes remark diagnostics in the output, which are hidden
	// by default.
	ShowRemarks bool

	// WarningsAreErrors renders (and counts) warnings as though they were
	// errors.
	WarningsAreErrors bool
}

// Render renders a report to the given writer, returning the number of errors
// and warnings it contains.
func (r Renderer) Render(report *Report, out io.Writer) (errorCount, warningCount int, err error) {
	for _, diagnostic := range *report {
		if diagnostic.Level == Remark && !r.ShowRemarks {
			continue
		}

		if _, err = fmt.Fprintln(out, r.Diagnostic(diagnostic)); err != nil {
			return errorCount, warningCount, err
		}

		if !r.Compact {
			if _, err = fmt.Fprintln(out); err != nil {
				return errorCount, warningCount, err
			}
		}

		switch diagnostic.Level {
		case Error:
			errorCount++
		case Warning:
			if r.WarningsAreErrors {
				errorCount++
			} else {
				warningCount++
			}
		}
	}
	if r.Compact {
		return errorCount, warningCount, nil
	}

	c := r.colors()

	pluralize := func(count int, what string) string {
		if count == 1 {
			return "1 " + what
		}
		return fmt.Sprint(count, " ", what, "s")
	}

	if errorCount > 0 {
		_, err = fmt.Fprint(out, c.bError, "encountered ", pluralize(errorCount, "error"))
		if err != nil {
			return errorCount, warningCount, err
		}
		if warningCount > 0 {
			if _, err = fmt.Fprint(out, " and ", pluralize(warningCount, "warning")); err != nil {
				return errorCount, warningCount, err
			}
		}
		_, err = fmt.Fprintln(out, c.reset)
	} else if warningCount > 0 {
		if _, err = fmt.Fprint(out, c.bWarning, "encountered ", pluralize(warningCount, "warning")); err != nil {
			return errorCount, warningCount, err
		}
		_, err = fmt.Fprintln(out, c.reset)
	}

	return errorCount, warningCount, err
}

// RenderString is a helper for calling [Renderer.Render] with a
// [strings.Builder].
func (r Renderer) RenderString(report *Report) (text string, errorCount, warningCount int) {
	var buf strings.Builder
	e, w, _ := r.Render(report, &buf)
	return buf.String(), e, w
}

// Diagnostic renders a single diagnostic to a string.
func (r Renderer) Diagnostic(d Diagnostic) string {
	var level string
	switch d.Level {
	case Error:
		level = "error"
	case Warning:
		if r.WarningsAreErrors {
			level = "error"
		} else {
			level = "warning"
		}
	case Remark:
		level = "remark"
	}

	c := r.colors()

	// For the compact style, we imitate the Go compiler.
	if r.Compact {
		annotation := d.Primary()

		if annotation.IsZero() {
			if d.InFile == "" {
				return fmt.Sprintf(
					"%s%s: %s%s",
					c.ColorForLevel(d.Level), level, d.Err.Error(), c.reset,
				)
			}

			return fmt.Sprintf(
				"%s%s: %s: %s%s",
				c.ColorForLevel(d.Level), level, d.InFile, d.Err.Error(), c.reset,
			)
		}

		start := annotation.StartLoc()
		return fmt.Sprintf(
			"%s%s: %s:%d:%d: %s%s",
			c.ColorForLevel(d.Level), level,
			annotation.Path(), start.Line, start.Column,
			d.Err.Error(), c.reset,
		)
	}

	// For the other style, we imitate the Rust compiler. See
	// https://github.com/rust-lang/rustc-dev-guide/blob/master/src/diagnostics.md
	var out strings.Builder
	fmt.Fprint(&out, c.BoldForLevel(d.Level), level, ": ", d.Err.Error(), c.reset)

	// Figure out how wide the line bar needs to be. This is given by
	// the width of the largest line value among the annotations.
	var greatestLine int
	for _, snip := range d.Annotations {
		greatestLine = max(greatestLine, snip.EndLoc().Line)
	}
	lineBarWidth := len(strconv.Itoa(greatestLine)) // Easier than messing with math.Log10()
	lineBarWidth = max(2, lineBarWidth)

	// Render all the diagnostic windows, one per file.
	parts := partition(d.Annotations, func(a, b *Annotation) bool { return a.Path() != b.Path() })
	parts(func(i int, annotations []Annotation) bool {
		out.WriteByte('\n')
		out.WriteString(c.nAccent)
		padBy(&out, lineBarWidth)

		first := annotations[0]
		loc := first.StartLoc()
		if i == 0 {
			fmt.Fprintf(&out, "--> %s:%d:%d", first.Path(), loc.Line, loc.Column)
		} else {
			fmt.Fprintf(&out, "::: %s:%d:%d", first.Path(), loc.Line, loc.Column)
		}

		// Add a blank line after the file. This gives the diagnostic window
		// some visual breathing room.
		out.WriteByte('\n')
		padBy(&out, lineBarWidth)
		out.WriteString(" |")

		r.window(&c, lineBarWidth, d.Level, annotations, &out)
		return true
	})

	// Render a remedial file name for spanless errors.
	if len(d.Annotations) == 0 && d.InFile != "" {
		out.WriteByte('\n')
		out.WriteString(c.nAccent)
		padBy(&out, lineBarWidth)
		fmt.Fprintf(&out, "--> %s", d.InFile)
	}

	// Render the footers. For simplicity we collect them into an array first.
	footers := make([][3]string, 0, len(d.Notes)+len(d.Help))
	for _, note := range d.Notes {
		footers = append(footers, [3]string{c.bRemark, "note", note})
	}
	for _, help := range d.Help {
		footers = append(footers, [3]string{c.bRemark, "help", help})
	}
	for _, footer := range footers {
		out.WriteByte('\n')
		out.WriteString(c.nAccent)
		padBy(&out, lineBarWidth)
		out.WriteString(" = ")
		fmt.Fprint(&out, footer[0], footer[1], ": ", c.reset)

		margin := lineBarWidth + 3 + len(footer[1]) + 2
		first := true
		for line := range wordWrap(footer[2], MaxMessageWidth-margin) {
			if !first {
				out.WriteByte('\n')
				padBy(&out, margin)
			}
			first = false
			out.WriteString(line)
		}
	}

	out.WriteString(c.reset)
	return out.String()
}

// window renders an annotated region of source code from a single file.
//
// Annotations are grouped by the line their span starts on; each annotated
// line is shown once, with one underline row per annotation. Spans that
// continue onto later lines underline through the end of their first line.
// Gaps between annotated lines render as a "..." break in the line bar.
func (r Renderer) window(c *stylesheet, lineBarWidth int, level Level, annotations []Annotation, out *strings.Builder) {
	sorted := slices.Clone(annotations)
	slices.SortStableFunc(sorted, func(a, b Annotation) int {
		return cmp.Compare(a.Start, b.Start)
	})

	type lineInfo struct {
		lineno      int
		annotations []Annotation
	}
	var lines []lineInfo
	for _, annotation := range sorted {
		lineno := annotation.StartLoc().Line
		if len(lines) > 0 && lines[len(lines)-1].lineno == lineno {
			last := &lines[len(lines)-1]
			last.annotations = append(last.annotations, annotation)
			continue
		}
		lines = append(lines, lineInfo{lineno: lineno, annotations: []Annotation{annotation}})
	}

	file := sorted[0].File
	var prev int
	for _, li := range lines {
		if prev != 0 && li.lineno > prev+1 {
			// Visual break for skipped lines.
			out.WriteByte('\n')
			out.WriteString(c.nAccent)
			padBy(out, lineBarWidth-2)
			out.WriteString("...")
		}
		prev = li.lineno

		lineText := strings.TrimSuffix(file.Line(li.lineno), "\n")
		lineStart, _ := file.LineOffsets(li.lineno)

		out.WriteByte('\n')
		fmt.Fprintf(out, "%s%*d | %s", c.nAccent, lineBarWidth, li.lineno, c.reset)
		stringWidth(0, lineText, out)

		for _, annotation := range li.annotations {
			// Clamp the annotation to this line; spans that continue past the
			// end of the line underline through the last column.
			start := annotation.Start - lineStart
			end := min(annotation.End-lineStart, len(lineText))
			end = max(end, start)

			startCol := stringWidth(0, lineText[:start], nil)
			width := stringWidth(startCol, lineText[start:end], nil) - startCol
			// Zero-width spans, such as end-of-input, still get one caret.
			width = max(width, 1)

			color, underline := c.bAccent, '-'
			if annotation.Primary {
				color, underline = c.BoldForLevel(level), '^'
			}

			out.WriteByte('\n')
			out.WriteString(c.nAccent)
			padBy(out, lineBarWidth)
			out.WriteString(" | ")
			out.WriteString(c.reset)
			padBy(out, startCol)
			out.WriteString(color)
			for range width {
				out.WriteRune(underline)
			}
			if annotation.Message != "" {
				out.WriteByte(' ')
				out.WriteString(annotation.Message)
			}
			out.WriteString(c.reset)
		}
	}
}

func (r Renderer) colors() stylesheet {
	if !r.Colorize {
		return stylesheet{}
	}

	return stylesheet{
		reset: "\033[0m",
		// Red.
		nError: "\033[0;31m",
		bError: "\033[1;31m",

		// Yellow.
		nWarning: "\033[0;33m",
		bWarning: "\033[1;33m",

		// Cyan.
		nRemark: "\033[0;36m",
		bRemark: "\033[1;36m",

		// Blue.
		nAccent: "\033[0;34m",
		bAccent: "\033[1;34m",
	}
}

// partition returns an iterator over subslices of s such that each yielded
// slice is delimited according to delimit. Also yields the starting index of
// the subslice.
func partition[T any](s []T, delimit func(a, b *T) bool) func(func(int, []T) bool) {
	return func(yield func(int, []T) bool) {
		var start int
		for i := 1; i < len(s); i++ {
			if delimit(&s[i-1], &s[i]) {
				if !yield(start, s[start:i]) {
					return
				}
				start = i
			}
		}
		rest := s[start:]
		if len(rest) > 0 {
			yield(start, rest)
		}
	}
}
