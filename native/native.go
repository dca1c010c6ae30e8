// Package native provides tree operations over plain Go values.
//
// Trees are built from string, int64, uint64, float64, bool, []any,
// map[string]any and nil, which is the empty value. Reads also accept the
// other Go numeric types and json.Number, so trees decoded by encoding/json,
// msgpack or go-toml can be consumed directly.
package native

import (
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"

	"github.com/zoobzio/codex"
)

// nativeOps implements codex.Ops for plain Go values.
type nativeOps struct {
	name     string
	compress bool
}

var (
	plainOps      = &nativeOps{name: "native"}
	compressedOps = &nativeOps{name: "native+compressed", compress: true}
)

// Ops returns the native tree operations.
func Ops() codex.Ops {
	return plainOps
}

// CompressedOps returns native tree operations that ask adapters for the
// compact encoding of enum-like values.
func CompressedOps() codex.Ops {
	return compressedOps
}

func (o *nativeOps) Name() string { return o.name }

func (o *nativeOps) Empty() codex.Tree { return nil }

func (o *nativeOps) CompressMaps() bool { return o.compress }

func (o *nativeOps) Kind(t codex.Tree) codex.TreeKind {
	switch x := t.(type) {
	case nil:
		return codex.KindEmpty
	case string:
		return codex.KindString
	case bool:
		return codex.KindBool
	case json.Number:
		return codex.KindNumber
	case []any:
		return codex.KindList
	case map[string]any:
		return codex.KindMap
	default:
		if _, ok := codex.NumberOf(x); ok {
			return codex.KindNumber
		}
		switch rv := reflect.ValueOf(x); rv.Kind() {
		case reflect.Slice, reflect.Array:
			return codex.KindList
		case reflect.Map:
			if rv.Type().Key().Kind() == reflect.String {
				return codex.KindMap
			}
		}
		return codex.KindEmpty
	}
}

func (o *nativeOps) CreateString(s string) codex.Tree { return s }

func (o *nativeOps) StringValue(t codex.Tree) (string, error) {
	s, ok := t.(string)
	if !ok {
		return "", mismatch("string", t)
	}
	return s, nil
}

func (o *nativeOps) CreateNumber(n codex.Number) codex.Tree { return n.Value() }

func (o *nativeOps) NumberValue(t codex.Tree) (codex.Number, error) {
	if n, ok := t.(json.Number); ok {
		return codex.ParseNumber(string(n))
	}
	n, ok := codex.NumberOf(t)
	if !ok {
		return codex.Number{}, mismatch("number", t)
	}
	return n, nil
}

func (o *nativeOps) CreateBool(b bool) codex.Tree { return b }

func (o *nativeOps) BoolValue(t codex.Tree) (bool, error) {
	b, ok := t.(bool)
	if !ok {
		return false, mismatch("bool", t)
	}
	return b, nil
}

func (o *nativeOps) CreateList(items []codex.Tree) codex.Tree {
	out := make([]any, len(items))
	copy(out, items)
	return out
}

func (o *nativeOps) ListValue(t codex.Tree) ([]codex.Tree, error) {
	if l, ok := t.([]any); ok {
		return l, nil
	}
	rv := reflect.ValueOf(t)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: %s", codex.ErrNotList, describe(t))
	}
	out := make([]codex.Tree, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

func (o *nativeOps) CreateMap(entries []codex.Entry) codex.Tree {
	out := make(map[string]any, len(entries))
	for _, e := range entries {
		out[e.Key] = e.Value
	}
	return out
}

// MapValue returns the entries of t ordered by key.
func (o *nativeOps) MapValue(t codex.Tree) ([]codex.Entry, error) {
	m, err := asMap(t)
	if err != nil {
		return nil, err
	}
	entries := make([]codex.Entry, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		entries = append(entries, codex.Entry{Key: k, Value: m[k]})
	}
	return entries, nil
}

func (o *nativeOps) MergeToList(list codex.Tree, value codex.Tree) (codex.Tree, error) {
	if list == nil {
		return []any{value}, nil
	}
	items, err := o.ListValue(list)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(items), len(items)+1)
	copy(out, items)
	return append(out, value), nil
}

func (o *nativeOps) MergeToMap(m codex.Tree, key string, value codex.Tree) (codex.Tree, error) {
	if m == nil {
		return map[string]any{key: value}, nil
	}
	src, err := asMap(m)
	if err != nil {
		return nil, err
	}
	out := maps.Clone(src)
	out[key] = value
	return out, nil
}

func (o *nativeOps) Remove(t codex.Tree, key string) codex.Tree {
	src, err := asMap(t)
	if err != nil {
		return t
	}
	out := maps.Clone(src)
	delete(out, key)
	return out
}

func (o *nativeOps) ConvertTo(out codex.Ops, t codex.Tree) codex.Tree {
	return codex.Convert(o, out, t)
}

func asMap(t codex.Tree) (map[string]any, error) {
	if m, ok := t.(map[string]any); ok {
		return m, nil
	}
	rv := reflect.ValueOf(t)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("%w: %s", codex.ErrNotMap, describe(t))
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, nil
}

func mismatch(want string, t codex.Tree) error {
	return fmt.Errorf("%w: not a %s: %s", codex.ErrDecode, want, describe(t))
}

func describe(t codex.Tree) string {
	if t == nil {
		return "empty"
	}
	return fmt.Sprintf("%T", t)
}
