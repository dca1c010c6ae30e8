package codex

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
)

// FieldBinding is the resolved metadata of one member of an aggregate.
type FieldBinding struct {
	// Name is the key the member is stored under.
	Name string
	// Member is the Go field or accessor name.
	Member string
	// Type is the member's declared type.
	Type reflect.Type
	// Adapter encodes the member's value. For pointer members it is the
	// adapter of the element type.
	Adapter Adapter
	// Required members must be present on decode.
	Required bool
	// Default supplies the value of an absent optional member, or is nil
	// when an absent member is left unset.
	Default func() any

	container bool // pointer member wrapping an optional value
	position  int
	access    accessor
}

// read returns the member's value, or false when the member is absent.
func (f *FieldBinding) read(owner reflect.Value) (any, bool, error) {
	v, ok, err := f.access.read(owner)
	if err != nil || !ok {
		return nil, ok, err
	}
	if f.container {
		rv := reflect.ValueOf(v)
		if !rv.IsValid() || rv.IsNil() {
			return nil, false, nil
		}
		return rv.Elem().Interface(), true, nil
	}
	return v, true, nil
}

// value converts a decoded value into a value of the member's type,
// wrapping optional values back into a pointer.
func (f *FieldBinding) value(v any) (reflect.Value, error) {
	if !f.container {
		return valueOf(f.Type, v)
	}
	if v == nil {
		return reflect.Zero(f.Type), nil
	}
	if rv := reflect.ValueOf(v); rv.Type() == f.Type {
		return rv, nil
	}
	ptr := reflect.New(f.Type.Elem())
	if err := assign(ptr.Elem(), v); err != nil {
		return reflect.Value{}, err
	}
	return ptr, nil
}

// resolveField computes the binding of m declared on owner. Resolution
// runs in a fixed order: name, adapter, range, validator, optionality.
func (r *Registry) resolveField(c Creator, owner reflect.Type, m member, ov *typeOverrides) (*FieldBinding, error) {
	fail := func(err error, detail string) error {
		return &ConfigError{Err: err, Type: owner.String(), Field: m.name, Detail: detail}
	}

	tag, err := parseCodexTag(m.tags[TagCodex])
	if err != nil {
		return nil, fail(ErrConfiguration, err.Error())
	}

	f := &FieldBinding{
		Name:      tag.name,
		Member:    m.name,
		Type:      m.typ,
		container: m.typ.Kind() == reflect.Pointer,
		access:    compileAccessor(owner, m),
	}
	if f.Name == "" {
		f.Name = m.serialName()
	}
	if f.Name == "" {
		return nil, fail(ErrMissingName, "")
	}

	valueType := m.typ
	if f.container {
		valueType = m.typ.Elem()
	}

	adapter, err := r.fieldAdapter(c, owner, m, ov, tag, valueType)
	if err != nil {
		var ce *ConfigError
		if errors.As(err, &ce) {
			return nil, err
		}
		return nil, fail(err, "")
	}

	if raw, ok := m.tags[TagRange]; ok {
		rng, err := parseRange(valueType, raw)
		if err != nil {
			return nil, fail(ErrConfiguration, err.Error())
		}
		adapter = Checked(adapter, rng.check, true, true)
	}

	if raw, ok := m.tags[TagValidate]; ok {
		vt, err := parseValidateTag(raw)
		if err != nil {
			return nil, fail(ErrConfiguration, err.Error())
		}
		v, ok := r.validators.Load(vt.name)
		if !ok {
			return nil, fail(ErrConfiguration, fmt.Sprintf("validator %q is not registered", vt.name))
		}
		adapter = Checked(adapter, v.(Validator).Validate, vt.onEncode, vt.onDecode)
	}
	f.Adapter = adapter

	if raw, ok := m.tags[TagDefault]; ok {
		def, err := parseDefault(valueType, raw)
		if err != nil {
			return nil, fail(ErrConfiguration, err.Error())
		}
		f.Default = func() any { return def }
	} else if supply, ok := ov.defaults[m.name]; ok {
		f.Default = supply
	}
	if tag.options[OptionOrEmpty] {
		if f.Default != nil {
			return nil, fail(ErrConfiguration, "orempty conflicts with a default value")
		}
		k := valueType.Kind()
		if k != reflect.Slice && k != reflect.Map {
			return nil, fail(ErrConfiguration, fmt.Sprintf("orempty on non-collection type %s", valueType))
		}
		f.Default = func() any { return r.newCollection(valueType, 0).Interface() }
	}

	optional := tag.options[OptionOptional] || f.container || f.Default != nil
	if tag.options[OptionRequired] {
		if optional {
			return nil, fail(ErrConfiguration, "required member can not be optional or have a default")
		}
	}
	f.Required = !optional
	return f, nil
}

func (r *Registry) fieldAdapter(c Creator, owner reflect.Type, m member, ov *typeOverrides, tag codexTag, valueType reflect.Type) (Adapter, error) {
	if name, ok := m.tags[TagAdapter]; ok {
		a, ok := r.named.Load(name)
		if !ok {
			return nil, &ConfigError{Err: ErrConfiguration, Type: owner.String(), Field: m.name, Detail: fmt.Sprintf("adapter %q is not registered", name)}
		}
		return a.(Adapter), nil
	}
	if a, ok := ov.adapters[m.name]; ok && a != nil {
		return a, nil
	}
	if tag.options[OptionSingleOrList] {
		if valueType.Kind() != reflect.Slice {
			return nil, &ConfigError{Err: ErrConfiguration, Type: owner.String(), Field: m.name, Detail: fmt.Sprintf("single on non-slice type %s", valueType)}
		}
		elem, err := c.Resolve(Describe(valueType.Elem()))
		if err != nil {
			return nil, err
		}
		return singleOrList(elem, valueType, r), nil
	}
	return c.Resolve(Describe(valueType))
}

// singleOrList decodes a slice from either a list or a single element.
// Encoding always produces a list.
func singleOrList(elem Adapter, sliceType reflect.Type, r *Registry) Adapter {
	list := &listAdapter{typ: sliceType, elem: elem, reg: r}
	return AdapterFuncs{
		EncodeFunc: list.Encode,
		DecodeFunc: func(ops Ops, input Tree) (any, Tree, error) {
			if ops.Kind(input) == KindList {
				return list.Decode(ops, input)
			}
			v, rest, err := elem.Decode(ops, input)
			if err != nil {
				return nil, rest, err
			}
			ev, err := valueOf(sliceType.Elem(), v)
			if err != nil {
				return nil, rest, err
			}
			out := reflect.MakeSlice(sliceType, 0, 1)
			return reflect.Append(out, ev).Interface(), rest, nil
		},
	}
}

// parseDefault reads a default tag for a string, bool or numeric type.
func parseDefault(t reflect.Type, raw string) (any, error) {
	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		out.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid bool default %q", raw)
		}
		out.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(raw, 10, t.Bits())
		if err != nil {
			return nil, fmt.Errorf("invalid integer default %q", raw)
		}
		out.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(raw, 10, t.Bits())
		if err != nil {
			return nil, fmt.Errorf("invalid unsigned default %q", raw)
		}
		out.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, t.Bits())
		if err != nil {
			return nil, fmt.Errorf("invalid float default %q", raw)
		}
		out.SetFloat(f)
	default:
		return nil, fmt.Errorf("default tag on unsupported type %s", t)
	}
	return out.Interface(), nil
}
