package codex

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
)

func mapFactory(c Creator, t TypeDescriptor) (Adapter, error) {
	if t.rt.Kind() != reflect.Map {
		return nil, nil
	}
	key, err := c.Resolve(Describe(t.rt.Key()))
	if err != nil {
		return nil, err
	}
	elem, err := c.Resolve(Describe(t.rt.Elem()))
	if err != nil {
		return nil, err
	}
	reg := registryOf(c)

	if unwrapAdapter(key) == StringAdapter {
		return &nativeMapAdapter{typ: t.rt, key: StringAdapter, elem: elem, reg: reg}, nil
	}
	if stringLike, ok := c.StringLike(Describe(t.rt.Key())); ok {
		return &nativeMapAdapter{typ: t.rt, key: stringLike, elem: elem, reg: reg}, nil
	}
	return &entryListAdapter{typ: t.rt, key: key, elem: elem, reg: reg}, nil
}

// nativeMapAdapter encodes maps whose keys project to strings as map nodes.
type nativeMapAdapter struct {
	typ  reflect.Type
	key  Adapter
	elem Adapter
	reg  *Registry
}

func (a *nativeMapAdapter) Encode(value any, ops Ops, prefix Tree) (Tree, error) {
	rv, err := valueOf(a.typ, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	entries := make([]Entry, 0, rv.Len())
	var errs []error
	for _, k := range rv.MapKeys() {
		keyNode, err := a.key.Encode(k.Interface(), ops, ops.Empty())
		if err != nil {
			errs = append(errs, err)
			continue
		}
		name, err := ops.StringValue(keyNode)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		node, err := a.elem.Encode(rv.MapIndex(k).Interface(), ops, ops.Empty())
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		entries = append(entries, Entry{Key: name, Value: node})
	}
	slices.SortFunc(entries, func(x, y Entry) int { return cmp.Compare(x.Key, y.Key) })

	out, err := mergeMap(ops, prefix, entries)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return out, &ListError{Errs: errs}
	}
	return out, nil
}

func (a *nativeMapAdapter) Decode(ops Ops, input Tree) (any, Tree, error) {
	entries, err := ops.MapValue(input)
	if err != nil {
		return nil, input, err
	}
	out := a.reg.newCollection(a.typ, len(entries))
	var errs []error
	for _, e := range entries {
		k, _, err := a.key.Decode(ops, ops.CreateString(e.Key))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.Key, err))
			continue
		}
		v, _, err := a.elem.Decode(ops, e.Value)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.Key, err))
			partial, ok := Partial(err)
			if !ok {
				continue
			}
			v = partial
		}
		if err := setEntry(out, k, v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.Key, err))
		}
	}
	if len(errs) > 0 {
		return nil, input, &PartialError{Err: &ListError{Errs: errs}, Value: out.Interface()}
	}
	return out.Interface(), ops.Empty(), nil
}

// entryListAdapter encodes maps with arbitrary keys as a list of
// {key, value} records.
type entryListAdapter struct {
	typ  reflect.Type
	key  Adapter
	elem Adapter
	reg  *Registry
}

const (
	entryKey   = "key"
	entryValue = "value"
)

func (a *entryListAdapter) Encode(value any, ops Ops, prefix Tree) (Tree, error) {
	rv, err := valueOf(a.typ, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	keys := sortedKeys(rv)
	items := make([]Tree, 0, len(keys))
	var errs []error
	for _, k := range keys {
		keyNode, err := a.key.Encode(k.Interface(), ops, ops.Empty())
		if err != nil {
			errs = append(errs, err)
			continue
		}
		node, err := a.elem.Encode(rv.MapIndex(k).Interface(), ops, ops.Empty())
		if err != nil {
			errs = append(errs, err)
			continue
		}
		items = append(items, ops.CreateMap([]Entry{
			{Key: entryKey, Value: keyNode},
			{Key: entryValue, Value: node},
		}))
	}
	out, err := mergeList(ops, prefix, items)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return out, &ListError{Errs: errs}
	}
	return out, nil
}

func (a *entryListAdapter) Decode(ops Ops, input Tree) (any, Tree, error) {
	items, err := ops.ListValue(input)
	if err != nil {
		return nil, input, err
	}
	out := a.reg.newCollection(a.typ, len(items))
	var (
		failed []Tree
		errs   []error
	)
	for _, item := range items {
		if err := a.decodeEntry(ops, item, out); err != nil {
			failed = append(failed, item)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		rest := ops.CreateList(failed)
		return nil, rest, &PartialError{Err: &ListError{Errs: errs, Remainder: rest}, Value: out.Interface()}
	}
	return out.Interface(), ops.Empty(), nil
}

func (a *entryListAdapter) decodeEntry(ops Ops, item Tree, out reflect.Value) error {
	keyNode, ok, err := Lookup(ops, item, entryKey)
	if err != nil {
		return err
	}
	if !ok {
		return &FieldError{Err: ErrMissingKey, Field: entryKey}
	}
	valueNode, ok, err := Lookup(ops, item, entryValue)
	if err != nil {
		return err
	}
	if !ok {
		return &FieldError{Err: ErrMissingKey, Field: entryValue}
	}
	k, _, err := a.key.Decode(ops, keyNode)
	if err != nil {
		return &FieldError{Err: ErrDecode, Field: entryKey, Cause: err}
	}
	v, _, err := a.elem.Decode(ops, valueNode)
	if err != nil {
		return &FieldError{Err: ErrDecode, Field: entryValue, Cause: err}
	}
	return setEntry(out, k, v)
}

func setEntry(m reflect.Value, k, v any) error {
	kv, err := valueOf(m.Type().Key(), k)
	if err != nil {
		return err
	}
	vv, err := valueOf(m.Type().Elem(), v)
	if err != nil {
		return err
	}
	m.SetMapIndex(kv, vv)
	return nil
}

// sortedKeys returns the keys of m in a deterministic order.
func sortedKeys(m reflect.Value) []reflect.Value {
	keys := m.MapKeys()
	slices.SortFunc(keys, compareValues)
	return keys
}

func compareValues(x, y reflect.Value) int {
	switch x.Kind() {
	case reflect.String:
		return cmp.Compare(x.String(), y.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(x.Int(), y.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(x.Uint(), y.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(x.Float(), y.Float())
	case reflect.Bool:
		switch {
		case x.Bool() == y.Bool():
			return 0
		case !x.Bool():
			return -1
		default:
			return 1
		}
	default:
		return cmp.Compare(fmt.Sprint(x.Interface()), fmt.Sprint(y.Interface()))
	}
}
