package codex

import (
	"maps"
	"slices"
)

// testOps is a small Ops over plain Go values for in-package tests.
type testOps struct {
	compress bool
}

func (o testOps) Name() string               { return "test" }
func (o testOps) Empty() Tree                { return nil }
func (o testOps) CompressMaps() bool         { return o.compress }
func (o testOps) CreateString(s string) Tree { return s }
func (o testOps) CreateNumber(n Number) Tree { return n.Value() }
func (o testOps) CreateBool(b bool) Tree     { return b }

func (o testOps) Kind(t Tree) TreeKind {
	switch t.(type) {
	case nil:
		return KindEmpty
	case string:
		return KindString
	case bool:
		return KindBool
	case []any:
		return KindList
	case map[string]any:
		return KindMap
	}
	if _, ok := NumberOf(t); ok {
		return KindNumber
	}
	return KindEmpty
}

func (o testOps) StringValue(t Tree) (string, error) {
	if s, ok := t.(string); ok {
		return s, nil
	}
	return "", ErrDecode
}

func (o testOps) NumberValue(t Tree) (Number, error) {
	if n, ok := NumberOf(t); ok {
		return n, nil
	}
	return Number{}, ErrDecode
}

func (o testOps) BoolValue(t Tree) (bool, error) {
	if b, ok := t.(bool); ok {
		return b, nil
	}
	return false, ErrDecode
}

func (o testOps) CreateList(items []Tree) Tree { return slices.Clone(items) }

func (o testOps) ListValue(t Tree) ([]Tree, error) {
	if l, ok := t.([]any); ok {
		return l, nil
	}
	return nil, ErrNotList
}

func (o testOps) CreateMap(entries []Entry) Tree {
	m := make(map[string]any, len(entries))
	for _, e := range entries {
		m[e.Key] = e.Value
	}
	return m
}

func (o testOps) MapValue(t Tree) ([]Entry, error) {
	m, ok := t.(map[string]any)
	if !ok {
		return nil, ErrNotMap
	}
	var out []Entry
	for _, k := range slices.Sorted(maps.Keys(m)) {
		out = append(out, Entry{Key: k, Value: m[k]})
	}
	return out, nil
}

func (o testOps) MergeToList(list Tree, value Tree) (Tree, error) {
	if list == nil {
		return []any{value}, nil
	}
	l, ok := list.([]any)
	if !ok {
		return nil, ErrNotList
	}
	return append(slices.Clone(l), value), nil
}

func (o testOps) MergeToMap(m Tree, key string, value Tree) (Tree, error) {
	if m == nil {
		return map[string]any{key: value}, nil
	}
	src, ok := m.(map[string]any)
	if !ok {
		return nil, ErrNotMap
	}
	out := maps.Clone(src)
	out[key] = value
	return out, nil
}

func (o testOps) Remove(t Tree, key string) Tree {
	src, ok := t.(map[string]any)
	if !ok {
		return t
	}
	out := maps.Clone(src)
	delete(out, key)
	return out
}

func (o testOps) ConvertTo(out Ops, t Tree) Tree { return Convert(o, out, t) }
