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
	"reflect"
	"strings"
	"sync"

	"github.com/tidwall/btree"
)

// Decode parses `name = value` pairs off of s into the fields of the struct
// v points to, until s is exhausted.
//
// Exported fields are matched by key. A field's key is its lowercased name,
// overridden with a `meta:"name"` tag; `meta:"-"` skips the field entirely.
// Values convert as described by [Stream.NextValue].
//
// Every key is required unless its field is a pointer, which absent keys
// leave nil, or carries the `default` tag option, e.g. `meta:"limit,default"`,
// which absent keys leave at whatever value the field already holds. Keys the
// struct does not accept, and keys set twice, are errors.
func Decode(s *Stream, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("macrotk/meta: cannot decode into %T, expected a non-nil pointer to a struct", v)
	}

	table := tableOf(rv.Elem().Type())
	seen := make(map[string]*Name, len(table.decl))
	for {
		name, err := s.NextName()
		if err != nil {
			return err
		}
		if name == nil {
			break
		}

		field, ok := table.byKey.Get(name.Text())
		if !ok {
			return ErrUnknownKey{Name: name, Candidates: table.keys()}
		}
		if first, ok := seen[name.Text()]; ok {
			return ErrDuplicateKey{Name: name, First: first}
		}
		seen[name.Text()] = name

		ok, err = s.NextValue(rv.Elem().Field(field.index).Addr().Interface())
		if err != nil {
			return err
		}
		if !ok {
			return ErrMissingValue{Key: name.Text(), At: s.Cursor.JustAfter()}
		}
	}

	// Required keys that never appeared, reported in declaration order.
	for _, field := range table.decl {
		if field.optional {
			continue
		}
		if _, ok := seen[field.key]; !ok {
			at := s.CallSite
			if at.IsZero() {
				at = s.Cursor.JustAfter()
			}
			return ErrMissingValue{Key: field.key, At: at}
		}
	}

	return nil
}

// fieldTable is the decoding plan for a struct type, computed once and
// cached.
type fieldTable struct {
	byKey btree.Map[string, *fieldInfo]
	decl  []*fieldInfo
}

type fieldInfo struct {
	key      string
	index    int
	optional bool
}

var tables sync.Map // reflect.Type -> *fieldTable

func tableOf(t reflect.Type) *fieldTable {
	if cached, ok := tables.Load(t); ok {
		return cached.(*fieldTable)
	}

	table := new(fieldTable)
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		key, opts, _ := strings.Cut(f.Tag.Get("meta"), ",")
		if key == "-" && opts == "" {
			continue
		}
		if key == "" {
			key = strings.ToLower(f.Name)
		}

		info := &fieldInfo{
			key:   key,
			index: i,
			// Pointer fields are optional: absent keys leave them nil.
			optional: f.Type.Kind() == reflect.Pointer,
		}
		for opts != "" {
			var opt string
			opt, opts, _ = strings.Cut(opts, ",")
			if opt == "default" {
				info.optional = true
			}
		}

		table.byKey.Set(key, info)
		table.decl = append(table.decl, info)
	}

	cached, _ := tables.LoadOrStore(t, table)
	return cached.(*fieldTable)
}

// keys returns every key this table accepts, in sorted order.
func (t *fieldTable) keys() []string {
	keys := make([]string, 0, t.byKey.Len())
	t.byKey.Scan(func(key string, _ *fieldInfo) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}
