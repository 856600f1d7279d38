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

/*
Package report provides a diagnostics framework for errors in parsed text.
It offers diagnostic construction, collection, and ASCII art rendering.

Diagnostics are collected into a [Report], which is a helpful builder over
a slice of [Diagnostic]s. Each [Diagnostic] consists of a Go error plus
metadata for rendering, such as source code spans and notes. This package
takes after Rust's diagnostic philosophy: diagnostics should be pleasant
to read, provide rich information about the error, and point at the exact
source text that caused it.

Reports can be rendered using a [Renderer], which provides several options
for how to render the result to the user: a compact, Go-compiler-style
one-line form, and a "fancy" multi-line form with annotated source windows.

The [File] type is a generic utility for converting byte offsets into
text editor coordinates: given a byte offset, what is the user-visible
line and column number? All spans in this package are plain byte ranges
into a File; coordinates are computed lazily, only when rendering.

# Defining Diagnostics

Generally, to define a diagnostic, you should define a new Go error type,
and then make it implement [Diagnose]. This has two benefits:

 1. When someone using this library looks through a Report, they can type
    assert Diagnostic.Err to programmatically determine the nature of a
    diagnostic.

 2. When emitting the diagnostic in different places you get the same UX.
    This means you should do this even if the error type will be unexported.

Sometimes, (2) is not enough of a benefit, in which case you can just use
Report.Errorf() and friends.

Diagnostic messages do not begin with a capital letter and do not end in
punctuation. The words "error", "warning", "remark", "help", and "note"
are never capitalized.
*/
package report
