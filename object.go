package codex

import (
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// objectAdapter encodes an aggregate as a map of its fields.
type objectAdapter struct {
	typ     reflect.Type
	fields  []*FieldBinding
	builder instanceBuilder
}

// aggregateFactory builds object adapters for struct types. It is always
// consulted last.
type aggregateFactory struct{}

func (aggregateFactory) Create(c Creator, t TypeDescriptor) (Adapter, error) {
	if t.rt.Kind() != reflect.Struct {
		return nil, nil
	}
	reg := registryOf(c)
	if reg == nil {
		return nil, nil
	}
	a, err := reg.buildObject(c, t)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *Registry) buildObject(c Creator, t TypeDescriptor) (*objectAdapter, error) {
	members, err := scanMembers(t.rt)
	if err != nil {
		return nil, err
	}
	ov := r.overridesFor(t)

	a := &objectAdapter{typ: t.rt, fields: make([]*FieldBinding, 0, len(members))}
	seen := make(map[string]string, len(members))
	for _, m := range members {
		if ov.excluded[m.name] {
			continue
		}
		f, err := r.resolveField(c, t.rt, m, ov)
		if err != nil {
			return nil, err
		}
		if other, dup := seen[f.Name]; dup {
			return nil, &ConfigError{Err: ErrConfiguration, Type: t.String(), Field: m.name, Detail: fmt.Sprintf("name %q already used by %s", f.Name, other)}
		}
		seen[f.Name] = m.name
		f.position = len(a.fields)
		a.fields = append(a.fields, f)
	}

	if ctor, ok := r.constructors.Load(t.rt); ok {
		ctor := ctor.(*constructor)
		if err := ctor.check(t.rt, a.fields); err != nil {
			return nil, err
		}
		a.builder = newConstructingBuilder(t.rt, ctor)
	} else {
		for _, f := range a.fields {
			if f.access.write == nil {
				return nil, &ConfigError{Err: ErrConfiguration, Type: t.String(), Field: f.Member, Detail: "accessor members require a registered constructor"}
			}
		}
		a.builder = &allocatingBuilder{typ: t.rt, allocate: r.instanceFor(t.rt)}
	}

	r.logger.Debug("object adapter built",
		zap.Stringer("type", t),
		zap.Int("fields", len(a.fields)),
	)
	return a, nil
}

// Fields returns the bindings of the object's fields in declaration order.
func (a *objectAdapter) Fields() []*FieldBinding {
	return a.fields
}

func (a *objectAdapter) Encode(value any, ops Ops, prefix Tree) (Tree, error) {
	rv, err := valueOf(a.typ, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	entries := make([]Entry, 0, len(a.fields))
	var errs []*FieldError
	for _, f := range a.fields {
		v, present, err := f.read(rv)
		if err != nil {
			errs = append(errs, &FieldError{Err: ErrEncode, Field: f.Name, Cause: err})
			continue
		}
		if !present {
			continue
		}
		node, err := f.Adapter.Encode(v, ops, ops.Empty())
		if err != nil {
			errs = append(errs, &FieldError{Err: ErrEncode, Field: f.Name, Cause: err})
			continue
		}
		if IsEmpty(ops, node) {
			continue
		}
		entries = append(entries, Entry{Key: f.Name, Value: node})
	}

	out, err := mergeMap(ops, prefix, entries)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return out, &ObjectError{Type: a.typ.String(), Fields: errs}
	}
	return out, nil
}

func (a *objectAdapter) Decode(ops Ops, input Tree) (any, Tree, error) {
	entries, err := ops.MapValue(input)
	if err != nil {
		return nil, input, err
	}
	nodes := make(map[string]Tree, len(entries))
	for _, e := range entries {
		nodes[e.Key] = e.Value
	}

	acc, err := a.builder.start()
	if err != nil {
		return nil, input, err
	}

	var errs []*FieldError
	for _, f := range a.fields {
		node, ok := nodes[f.Name]
		if !ok || IsEmpty(ops, node) {
			if f.Required {
				errs = append(errs, &FieldError{Err: ErrMissingKey, Field: f.Name})
				continue
			}
			if f.Default != nil {
				if err := acc.accept(f, f.Default()); err != nil {
					errs = append(errs, &FieldError{Err: ErrDecode, Field: f.Name, Cause: err})
				}
			}
			continue
		}

		v, _, err := f.Adapter.Decode(ops, node)
		if err != nil {
			fe := &FieldError{Err: ErrDecode, Field: f.Name, Cause: err}
			if partial, ok := Partial(err); ok {
				if perr := acc.acceptPartial(f, partial); perr != nil {
					fe.Cause = errors.Join(err, perr)
				}
			}
			errs = append(errs, fe)
			continue
		}
		if err := acc.accept(f, v); err != nil {
			errs = append(errs, &FieldError{Err: ErrDecode, Field: f.Name, Cause: err})
		}
	}

	if len(errs) == 0 {
		out, err := acc.finish()
		if err != nil {
			return nil, input, err
		}
		return out, input, nil
	}

	oe := &ObjectError{Type: a.typ.String(), Fields: errs}
	if partial, ok := acc.finishNow(); ok {
		return nil, input, &PartialError{Err: oe, Value: partial}
	}
	return nil, input, oe
}

// registryOf returns the registry behind a Creator handed out by a Registry.
func registryOf(c Creator) *Registry {
	if s, ok := c.(*session); ok {
		return s.reg
	}
	return nil
}
