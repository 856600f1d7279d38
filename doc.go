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

// Package macrotk parses the argument lists of attribute annotations into Go
// values, with rich diagnostics for malformed input.
//
// An attribute body is the text between the parentheses of an annotation
// such as `#[limits(depth = 3, name = "spine")]`. [Unmarshal] decodes one
// into a struct in a single call; [Decoder] adds source names, nesting
// limits, tree-shaped parsing, and concurrent decoding of many bodies at
// once.
//
// The underlying pieces are exposed as subpackages: token lexes bodies into
// token streams, meta parses those streams into arguments, and report
// carries and renders the diagnostics everything else produces.
package macrotk
