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
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// Unmarshaler is implemented by types that parse themselves out of a braced
// group of attribute arguments.
type Unmarshaler interface {
	// UnmarshalMeta parses from the given stream, which ranges over the
	// tokens between the braces. The stream must be fully consumed; leftover
	// tokens become an error at the call site.
	UnmarshalMeta(s *Stream) error
}

// unmarshal parses a single value off of s into v. This is the dispatch
// behind [Stream.NextValue].
func unmarshal(s *Stream, v any) error {
	if u, ok := v.(Unmarshaler); ok {
		child, err := s.nest()
		if err != nil {
			return err
		}
		if err := u.UnmarshalMeta(child); err != nil {
			return err
		}
		if tok := child.Cursor.Peek(); !tok.IsZero() {
			return errUnexpected{found: tok, want: "`}`"}
		}
		return nil
	}

	// Fast paths for the common scalar destinations.
	switch p := v.(type) {
	case *string:
		lit, err := parseLiteral(s.Cursor)
		if err != nil {
			return err
		}
		*p, err = lit.AsString()
		return err
	case *bool:
		lit, err := parseLiteral(s.Cursor)
		if err != nil {
			return err
		}
		*p, err = lit.AsBool()
		return err
	case *int:
		return unmarshalInt(s, p)
	case *int8:
		return unmarshalInt(s, p)
	case *int16:
		return unmarshalInt(s, p)
	case *int32:
		return unmarshalInt(s, p)
	case *int64:
		return unmarshalInt(s, p)
	}

	// Everything else goes through reflection: named scalar types, structs,
	// and pointers to any supported type.
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("macrotk/meta: cannot unmarshal into %T", v)
	}

	elem := rv.Elem()
	switch elem.Kind() {
	case reflect.Pointer:
		// An optional value; allocate on first use.
		if elem.IsNil() {
			elem.Set(reflect.New(elem.Type().Elem()))
		}
		return unmarshal(s, elem.Interface())

	case reflect.Struct:
		child, err := s.nest()
		if err != nil {
			return err
		}
		return Decode(child, v)

	case reflect.String:
		lit, err := parseLiteral(s.Cursor)
		if err != nil {
			return err
		}
		value, err := lit.AsString()
		if err != nil {
			return err
		}
		elem.SetString(value)
		return nil

	case reflect.Bool:
		lit, err := parseLiteral(s.Cursor)
		if err != nil {
			return err
		}
		value, err := lit.AsBool()
		if err != nil {
			return err
		}
		elem.SetBool(value)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		lit, err := parseLiteral(s.Cursor)
		if err != nil {
			return err
		}
		value, err := litIntBits(lit, elem.Type().Bits())
		if err != nil {
			return err
		}
		elem.SetInt(value)
		return nil

	default:
		return fmt.Errorf("macrotk/meta: cannot unmarshal into %T", v)
	}
}

func unmarshalInt[T constraints.Signed](s *Stream, p *T) error {
	lit, err := parseLiteral(s.Cursor)
	if err != nil {
		return err
	}
	*p, err = litInt[T](lit)
	return err
}

// convertItem converts a tree item to T on behalf of [Get].
func convertItem[T any](item Item) (T, error) {
	var out T
	var err error
	switch p := any(&out).(type) {
	case *Item:
		*p = item
	case **Path:
		*p, err = AsPath(item)
	case **NameValue:
		*p, err = AsNameValue(item)
	case **List:
		*p, err = AsList(item)
	case **Literal:
		*p, err = AsLiteral(item)

	case *bool:
		// A bare path is a flag; its presence means true.
		if _, ok := item.(*Path); ok {
			*p = true
			break
		}
		var lit *Literal
		if lit, err = AsLiteral(item); err == nil {
			*p, err = lit.AsBool()
		}
	case *string:
		var lit *Literal
		if lit, err = AsLiteral(item); err == nil {
			*p, err = lit.AsString()
		}
	case *int:
		err = convertInt(item, p)
	case *int8:
		err = convertInt(item, p)
	case *int16:
		err = convertInt(item, p)
	case *int32:
		err = convertInt(item, p)
	case *int64:
		err = convertInt(item, p)

	default:
		err = fmt.Errorf("macrotk/meta: cannot convert into %T", out)
	}

	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func convertInt[T constraints.Signed](item Item, p *T) error {
	lit, err := AsLiteral(item)
	if err != nil {
		return err
	}
	*p, err = litInt[T](lit)
	return err
}

// litInt converts an integer literal, checking that the value fits in T.
func litInt[T constraints.Signed](l *Literal) (T, error) {
	n, err := litIntBits(l, reflect.TypeFor[T]().Bits())
	return T(n), err
}

func litIntBits(l *Literal, bits int) (int64, error) {
	if l.kind != LitInt {
		return 0, errWrongLiteral{want: LitInt, lit: l}
	}

	// The lexer permits `_` separators; strconv does not.
	digits := strings.ReplaceAll(l.text, "_", "")
	n, err := strconv.ParseInt(digits, 10, bits)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, ErrIntegerOverflow{Lit: l, Bits: bits}
		}
		// Unreachable for literals the parser produced, since the lexer
		// legalizes number tokens.
		return 0, errWrongLiteral{want: LitInt, lit: l}
	}
	return n, nil
}
