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
	"fmt"
	"iter"
	"strings"

	"github.com/frostu8/macrotk/report"
)

// Item is a single argument in an attribute body.
//
// Item is implemented by [*Path], [*NameValue], [*List], and [*Literal], and
// by nothing else.
type Item interface {
	report.Spanner

	isItem()
}

// Path is a dot-separated sequence of identifiers, such as `serde.rename`.
type Path struct {
	// Components of the path, in source order. Never empty for a parsed path.
	Components []string

	span report.Span
}

// Text returns the dotted text of this path.
func (p *Path) Text() string {
	return strings.Join(p.Components, ".")
}

// Last returns the final component of this path, which is the name keyed
// lookup matches on.
func (p *Path) Last() string {
	if len(p.Components) == 0 {
		return ""
	}
	return p.Components[len(p.Components)-1]
}

// Span implements [report.Spanner].
func (p *Path) Span() report.Span {
	return p.span
}

func (p *Path) isItem() {}

// NameValue is a `name = value` argument, such as `limit = 32`.
type NameValue struct {
	// Name is the key to the left of the `=`.
	Name Path
	// Value is the literal to the right of it.
	Value Literal
}

// Span implements [report.Spanner].
func (nv *NameValue) Span() report.Span {
	return report.Join(&nv.Name, &nv.Value)
}

func (nv *NameValue) isItem() {}

// List is a parenthesized list of items, such as `derive(Clone, Debug)`.
//
// The root of a parsed attribute body is also a List: one with a nil Name
// and no surrounding parentheses.
type List struct {
	// Name of the list. Nil for the anonymous root list.
	Name *Path
	// Items of the list, in source order.
	Items []Item

	parens report.Span
}

// Lookup returns the first item in this list named name, or nil if there is
// none.
//
// An item's name is the final component of its path: a bare path matches its
// own last component, while name-value pairs and named lists match the last
// component of their key. Literals have no name and never match.
func (l *List) Lookup(name string) Item {
	for _, item := range l.Items {
		switch item := item.(type) {
		case *Path:
			if item.Last() == name {
				return item
			}
		case *NameValue:
			if item.Name.Last() == name {
				return item
			}
		case *List:
			if item.Name != nil && item.Name.Last() == name {
				return item
			}
		}
	}
	return nil
}

// All returns an iterator over every item in this list, recursively: each
// item is yielded before its children, in source order.
func (l *List) All() iter.Seq[Item] {
	return func(yield func(Item) bool) {
		l.walk(yield)
	}
}

func (l *List) walk(yield func(Item) bool) bool {
	for _, item := range l.Items {
		if !yield(item) {
			return false
		}
		if list, ok := item.(*List); ok && !list.walk(yield) {
			return false
		}
	}
	return true
}

// Span implements [report.Spanner].
func (l *List) Span() report.Span {
	switch {
	case !l.parens.IsZero() && l.Name != nil:
		return report.Join(l.Name, l.parens)
	case !l.parens.IsZero():
		return l.parens
	case len(l.Items) > 0:
		return report.Join(l.Items[0], l.Items[len(l.Items)-1])
	default:
		return report.Span{}
	}
}

func (l *List) isItem() {}

// LitKind identifies which kind of value a [Literal] holds.
type LitKind byte

const (
	LitString LitKind = 1 + iota
	LitInt
	LitBool
)

// String implements [fmt.Stringer].
func (k LitKind) String() string {
	switch k {
	case LitString:
		return "string"
	case LitInt:
		return "int"
	case LitBool:
		return "bool"
	default:
		return fmt.Sprintf("meta.LitKind(%d)", int(k))
	}
}

// Literal is a literal value: a string, an integer, or a boolean.
type Literal struct {
	kind LitKind
	// Raw source text, including any sign and quotes.
	text string
	// Unescaped value, for string literals.
	str  string
	span report.Span
}

// Kind returns which kind of literal this is.
func (l *Literal) Kind() LitKind {
	return l.kind
}

// Text returns the raw source text of this literal.
func (l *Literal) Text() string {
	return l.text
}

// AsString returns the string this literal holds, unquoted and with escapes
// resolved.
//
// Fails if this is not a string literal.
func (l *Literal) AsString() (string, error) {
	if l.kind != LitString {
		return "", errWrongLiteral{want: LitString, lit: l}
	}
	return l.str, nil
}

// AsInt returns the integer this literal holds.
//
// Fails if this is not an integer literal, or if the value does not fit in
// an int64.
func (l *Literal) AsInt() (int64, error) {
	return litInt[int64](l)
}

// AsBool returns the boolean this literal holds.
//
// Fails if this is not a boolean literal.
func (l *Literal) AsBool() (bool, error) {
	if l.kind != LitBool {
		return false, errWrongLiteral{want: LitBool, lit: l}
	}
	return l.text == "true", nil
}

// Span implements [report.Spanner].
func (l *Literal) Span() report.Span {
	return l.span
}

func (l *Literal) isItem() {}

// AsPath asserts that item is a bare path.
func AsPath(item Item) (*Path, error) {
	if p, ok := item.(*Path); ok {
		return p, nil
	}
	return nil, errWrongItem{want: "a naked path", item: item}
}

// AsNameValue asserts that item is a `name = value` pair.
func AsNameValue(item Item) (*NameValue, error) {
	if nv, ok := item.(*NameValue); ok {
		return nv, nil
	}
	return nil, errWrongItem{want: "a name-value pair", item: item}
}

// AsList asserts that item is a parenthesized list.
func AsList(item Item) (*List, error) {
	if l, ok := item.(*List); ok {
		return l, nil
	}
	return nil, errWrongItem{want: "a list", item: item}
}

// AsLiteral asserts that item is a literal. A name-value pair is accepted
// too; its value is taken.
func AsLiteral(item Item) (*Literal, error) {
	switch item := item.(type) {
	case *Literal:
		return item, nil
	case *NameValue:
		return &item.Value, nil
	}
	return nil, errWrongItem{want: "a literal", item: item}
}

// Get looks up name in list and converts the item it finds to T.
//
// T may be string, bool, or any signed integer type; a name-value pair
// converts its value, and for bool, a bare path converts to true, so flags
// like `derive(eq)` can be queried directly. T may instead be [Item],
// [*Path], [*NameValue], [*List], or [*Literal] to get the item itself.
//
// Returns found == false if there is no item named name. A found item that
// cannot convert to T returns an error.
func Get[T any](list *List, name string) (value T, found bool, err error) {
	item := list.Lookup(name)
	if item == nil {
		return value, false, nil
	}

	value, err = convertItem[T](item)
	return value, true, err
}
