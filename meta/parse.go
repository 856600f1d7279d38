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

// ParseList parses a whole attribute body as the anonymous root list.
//
// Parsing is strict: the first syntax error aborts the parse and is returned.
func ParseList(c *token.Cursor) (*List, error) {
	items, err := parseItems(c)
	if err != nil {
		return nil, err
	}
	return &List{Items: items}, nil
}

// parseItems parses comma-separated items until c runs out.
func parseItems(c *token.Cursor) ([]Item, error) {
	var items []Item
	for !c.Done() {
		item, err := parseItem(c)
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		if c.Done() {
			break
		}
		// Items are comma-separated; a trailing comma is allowed.
		if tok := c.Peek(); !isPunct(tok, ",") {
			return nil, errUnexpected{found: tok, want: "`,`"}
		}
		c.Next()
	}
	return items, nil
}

func parseItem(c *token.Cursor) (Item, error) {
	tok := c.Peek()
	switch {
	case tok.IsZero():
		return nil, errUnexpected{at: c.JustAfter(), want: "a path, list, or literal"}

	case startsLiteral(tok):
		lit, err := parseLiteral(c)
		if err != nil {
			return nil, err
		}
		return lit, nil

	case tok.Kind() == token.Ident:
		path, err := parsePath(c)
		if err != nil {
			return nil, err
		}

		switch next := c.Peek(); {
		case isGroup(next, "("):
			c.Next()
			items, err := parseItems(next.Children())
			if err != nil {
				return nil, err
			}

			open, close := next.StartEnd()
			return &List{
				Name:   path,
				Items:  items,
				parens: report.Join(open, close),
			}, nil

		case isPunct(next, "="):
			c.Next()
			value, err := parseLiteral(c)
			if err != nil {
				return nil, err
			}
			return &NameValue{Name: *path, Value: *value}, nil

		default:
			return path, nil
		}

	default:
		return nil, errUnexpected{found: tok, want: "a path, list, or literal"}
	}
}

// parsePath parses a dotted path. The caller must have checked that the
// cursor is sitting on an identifier.
func parsePath(c *token.Cursor) (*Path, error) {
	first := c.Next()
	path := &Path{
		Components: []string{first.Text()},
		span:       first.Span(),
	}

	for isPunct(c.Peek(), ".") {
		c.Next()

		next := c.Peek()
		if next.Kind() != token.Ident {
			return nil, errUnexpected{found: next, at: c.JustAfter(), want: "an identifier after `.`"}
		}
		c.Next()

		path.Components = append(path.Components, next.Text())
		path.span = report.Join(path.span, next)
	}

	return path, nil
}

func parseLiteral(c *token.Cursor) (*Literal, error) {
	tok := c.Peek()
	switch {
	case tok.IsZero():
		return nil, errUnexpected{at: c.JustAfter(), want: "a literal"}

	case tok.Kind() == token.String:
		c.Next()
		value, _ := tok.AsString()
		return &Literal{
			kind: LitString,
			text: tok.Text(),
			str:  value,
			span: tok.Span(),
		}, nil

	case tok.Kind() == token.Number:
		c.Next()
		return &Literal{
			kind: LitInt,
			text: tok.Text(),
			span: tok.Span(),
		}, nil

	case isPunct(tok, "-"):
		c.Next()

		digits := c.Peek()
		if digits.Kind() != token.Number {
			return nil, errUnexpected{found: digits, at: c.JustAfter(), want: "an integer after `-`"}
		}
		c.Next()

		return &Literal{
			kind: LitInt,
			// Any whitespace between the sign and the digits is dropped
			// here, so conversions can hand this text to strconv whole.
			text: "-" + digits.Text(),
			span: report.Join(tok, digits),
		}, nil

	case tok.Kind() == token.Ident && (tok.Text() == "true" || tok.Text() == "false"):
		c.Next()
		return &Literal{
			kind: LitBool,
			text: tok.Text(),
			span: tok.Span(),
		}, nil

	default:
		return nil, errUnexpected{found: tok, want: "a literal"}
	}
}

// startsLiteral returns whether tok can begin a literal.
func startsLiteral(tok token.Token) bool {
	switch tok.Kind() {
	case token.String, token.Number:
		return true
	case token.Ident:
		return tok.Text() == "true" || tok.Text() == "false"
	default:
		return isPunct(tok, "-")
	}
}

// isPunct returns whether tok is the given leaf punctuation mark.
func isPunct(tok token.Token, text string) bool {
	return tok.Kind() == token.Punct && tok.IsLeaf() && tok.Text() == text
}

// isGroup returns whether tok is the opening half of a fused delimiter pair.
func isGroup(tok token.Token, open string) bool {
	return tok.Kind() == token.Punct && !tok.IsLeaf() && tok.Text() == open
}
