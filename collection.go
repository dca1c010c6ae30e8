package codex

import (
	"fmt"
	"reflect"
)

// listAdapter encodes slices and arrays as list nodes.
type listAdapter struct {
	typ  reflect.Type
	elem Adapter
	reg  *Registry
}

func listFactory(c Creator, t TypeDescriptor) (Adapter, error) {
	if k := t.rt.Kind(); k != reflect.Slice && k != reflect.Array {
		return nil, nil
	}
	elem, err := c.Resolve(Describe(t.rt.Elem()))
	if err != nil {
		return nil, err
	}
	return &listAdapter{typ: t.rt, elem: elem, reg: registryOf(c)}, nil
}

// ListOf returns an adapter for slices of elemType built on elem.
func ListOf(elem Adapter, elemType reflect.Type) Adapter {
	return &listAdapter{typ: reflect.SliceOf(elemType), elem: elem}
}

func (a *listAdapter) Encode(value any, ops Ops, prefix Tree) (Tree, error) {
	rv, err := valueOf(a.typ, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	items := make([]Tree, 0, rv.Len())
	var errs []error
	for i := 0; i < rv.Len(); i++ {
		node, err := a.elem.Encode(rv.Index(i).Interface(), ops, ops.Empty())
		if err != nil {
			errs = append(errs, fmt.Errorf("[%d]: %w", i, err))
			continue
		}
		items = append(items, node)
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

func (a *listAdapter) Decode(ops Ops, input Tree) (any, Tree, error) {
	items, err := ops.ListValue(input)
	if err != nil {
		return nil, input, err
	}

	var out reflect.Value
	if a.typ.Kind() == reflect.Array {
		if len(items) > a.typ.Len() {
			return nil, input, fmt.Errorf("%w: %d elements do not fit %s", ErrDecode, len(items), a.typ)
		}
		out = reflect.New(a.typ).Elem()
	} else {
		out = a.reg.newCollection(a.typ, len(items))
	}

	var (
		failed []Tree
		errs   []error
	)
	for i, item := range items {
		v, _, err := a.elem.Decode(ops, item)
		if err != nil {
			failed = append(failed, item)
			errs = append(errs, err)
			partial, ok := Partial(err)
			if !ok {
				continue
			}
			v = partial
		}
		ev, err := valueOf(a.typ.Elem(), v)
		if err != nil {
			return nil, input, err
		}
		if a.typ.Kind() == reflect.Array {
			out.Index(i).Set(ev)
		} else {
			out = reflect.Append(out, ev)
		}
	}

	if len(failed) > 0 {
		rest := ops.CreateList(failed)
		return nil, rest, &PartialError{
			Err:   &ListError{Errs: errs, Remainder: rest},
			Value: out.Interface(),
		}
	}
	return out.Interface(), ops.Empty(), nil
}

// setAdapter encodes map[K]struct{} as a list of its members.
type setAdapter struct {
	typ  reflect.Type
	elem Adapter
	reg  *Registry
}

var emptyStruct = reflect.TypeFor[struct{}]()

func setFactory(c Creator, t TypeDescriptor) (Adapter, error) {
	if t.rt.Kind() != reflect.Map || t.rt.Elem() != emptyStruct {
		return nil, nil
	}
	elem, err := c.Resolve(Describe(t.rt.Key()))
	if err != nil {
		return nil, err
	}
	return &setAdapter{typ: t.rt, elem: elem, reg: registryOf(c)}, nil
}

func (a *setAdapter) Encode(value any, ops Ops, prefix Tree) (Tree, error) {
	rv, err := valueOf(a.typ, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	keys := sortedKeys(rv)
	items := make([]Tree, 0, len(keys))
	var errs []error
	for _, k := range keys {
		node, err := a.elem.Encode(k.Interface(), ops, ops.Empty())
		if err != nil {
			errs = append(errs, err)
			continue
		}
		items = append(items, node)
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

func (a *setAdapter) Decode(ops Ops, input Tree) (any, Tree, error) {
	items, err := ops.ListValue(input)
	if err != nil {
		return nil, input, err
	}
	out := a.reg.newCollection(a.typ, len(items))
	member := reflect.New(emptyStruct).Elem()

	var (
		failed []Tree
		errs   []error
	)
	for _, item := range items {
		v, _, err := a.elem.Decode(ops, item)
		if err != nil {
			failed = append(failed, item)
			errs = append(errs, err)
			continue
		}
		kv, err := valueOf(a.typ.Key(), v)
		if err != nil {
			return nil, input, err
		}
		out.SetMapIndex(kv, member)
	}

	if len(failed) > 0 {
		rest := ops.CreateList(failed)
		return nil, rest, &PartialError{
			Err:   &ListError{Errs: errs, Remainder: rest},
			Value: out.Interface(),
		}
	}
	return out.Interface(), ops.Empty(), nil
}
