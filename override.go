package codex

// Capability interfaces let a type take part in adapter generation without
// struct tags. Each is discovered on the type's zero value, or on a pointer
// to it, when the type is first resolved. The returned tables are read once
// and cached per declaring type.

// AdapterProvider supplies the complete adapter for its type. It takes
// precedence over every factory.
type AdapterProvider interface {
	CodexAdapter() Adapter
}

// FieldAdapterProvider supplies per-member adapters keyed by Go member name.
// An `adapter` tag on the member takes precedence.
type FieldAdapterProvider interface {
	CodexFieldAdapters() map[string]Adapter
}

// FieldDefaultProvider supplies per-member default values keyed by Go member
// name. A `default` tag on the member takes precedence.
type FieldDefaultProvider interface {
	CodexFieldDefaults() map[string]func() any
}

// FieldExcluder lists Go member names that are never serialized.
type FieldExcluder interface {
	CodexExcludedFields() []string
}

// MemberLister lists accessor methods that make up an immutable record,
// in constructor parameter order. Without it a record's members are its
// exported fields.
type MemberLister interface {
	CodexMembers() []string
}

// InstanceProvider allocates the instance that decoding fills in.
// A creator registered on the Registry takes precedence.
type InstanceProvider interface {
	CodexNewInstance() any
}

// typeOverrides caches the capability tables of one declaring type.
type typeOverrides struct {
	adapters map[string]Adapter
	defaults map[string]func() any
	excluded map[string]bool
}

func (r *Registry) overridesFor(t TypeDescriptor) *typeOverrides {
	if ov, ok := r.overrides.Load(t.rt); ok {
		return ov.(*typeOverrides)
	}
	ov := &typeOverrides{excluded: make(map[string]bool)}
	if p, ok := capability[FieldAdapterProvider](t.rt); ok {
		ov.adapters = p.CodexFieldAdapters()
	}
	if p, ok := capability[FieldDefaultProvider](t.rt); ok {
		ov.defaults = p.CodexFieldDefaults()
	}
	if p, ok := capability[FieldExcluder](t.rt); ok {
		for _, name := range p.CodexExcludedFields() {
			ov.excluded[name] = true
		}
	}
	actual, _ := r.overrides.LoadOrStore(t.rt, ov)
	return actual.(*typeOverrides)
}
