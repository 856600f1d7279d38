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

// Package meta parses attribute arguments: the `name = value` lists that
// appear between the parentheses of an annotation.
//
// Two surfaces are provided. [ParseList] parses a whole body up front into a
// tree of [Item] values, which can then be picked over with [List.Lookup] and
// [Get]. [Stream] instead pulls `name = value` pairs off of a token cursor
// one at a time; [Decode] and custom [Unmarshaler] implementations build on
// it to fill in Go structs directly.
//
// Every parse and conversion error in this package can be rendered as a rich
// diagnostic: collect them into a report.Report to get source snippets
// pointing at the offending tokens.
package meta
