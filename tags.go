package codex

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/zoobzio/sentinel"
)

func init() {
	sentinel.Tag(TagCodex)
	sentinel.Tag(TagDefault)
	sentinel.Tag(TagRange)
	sentinel.Tag(TagValidate)
	sentinel.Tag(TagAdapter)
}

// member is one serializable part of an aggregate: an exported field or,
// for records declared through MemberLister, an accessor method.
type member struct {
	name   string       // Go name
	typ    reflect.Type // declared type
	index  []int        // field path, nil for accessors
	method string       // accessor method, empty for fields
	tags   map[string]string
}

// serialName is the name a member has when no codex tag overrides it.
// Accessor names lose a leading Get or Is and are decapitalized.
func (m member) serialName() string {
	if m.method == "" {
		return m.name
	}
	name := m.method
	for _, prefix := range []string{"Get", "Is"} {
		if rest, ok := strings.CutPrefix(name, prefix); ok && rest != "" {
			r, _ := utf8.DecodeRuneInString(rest)
			if unicode.IsUpper(r) {
				name = rest
				break
			}
		}
	}
	return decapitalize(name)
}

func decapitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// scanMembers lists the members of the struct type t in declaration order.
// Metadata comes from sentinel when t has been scanned and from reflection
// otherwise; tags are always read from the declaring struct field.
func scanMembers(t reflect.Type) ([]member, error) {
	if lister, ok := capability[MemberLister](t); ok {
		return accessorMembers(t, lister.CodexMembers())
	}

	meta := scanType(t)
	members := make([]member, 0, len(meta.Fields))
	for _, fm := range meta.Fields {
		sf := t.FieldByIndex(fm.Index)
		if !sf.IsExported() {
			continue
		}
		tags := parseTags(sf.Tag)
		if tags[TagCodex] == "-" {
			continue
		}
		members = append(members, member{
			name:  fm.Name,
			typ:   fm.ReflectType,
			index: fm.Index,
			tags:  tags,
		})
	}
	return members, nil
}

func accessorMembers(t reflect.Type, methods []string) ([]member, error) {
	ptr := reflect.PointerTo(t)
	members := make([]member, 0, len(methods))
	for _, name := range methods {
		m, ok := t.MethodByName(name)
		if !ok {
			m, ok = ptr.MethodByName(name)
		}
		if !ok {
			return nil, &ConfigError{Err: ErrConfiguration, Type: t.String(), Field: name, Detail: "accessor method not found"}
		}
		// Method types on reflect.Type include the receiver.
		mt := m.Type
		if mt.NumIn() != 1 || mt.NumOut() < 1 || mt.NumOut() > 2 || (mt.NumOut() == 2 && mt.Out(1) != errorType) {
			return nil, &ConfigError{Err: ErrConfiguration, Type: t.String(), Field: name, Detail: "accessor must take no arguments and return a value and optionally an error"}
		}
		members = append(members, member{
			name:   name,
			typ:    mt.Out(0),
			method: name,
			tags:   map[string]string{},
		})
	}
	return members, nil
}

var errorType = reflect.TypeFor[error]()

// scanType returns sentinel metadata for t, building it by reflection when
// sentinel has not seen the type.
func scanType(rt reflect.Type) sentinel.Metadata {
	if meta, ok := lookupType(rt); ok {
		return meta
	}

	meta := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        parseTags(sf.Tag),
		}

		switch sf.Type.Kind() {
		case reflect.Struct:
			fm.Kind = sentinel.KindStruct
		case reflect.Ptr:
			fm.Kind = sentinel.KindPointer
		case reflect.Slice, reflect.Array:
			fm.Kind = sentinel.KindSlice
		case reflect.Map:
			fm.Kind = sentinel.KindMap
		case reflect.Interface:
			fm.Kind = sentinel.KindInterface
		default:
			fm.Kind = sentinel.KindScalar
		}

		meta.Fields = append(meta.Fields, fm)
	}

	return meta
}

// lookupType finds rt in the sentinel cache. Sentinel keys its cache by the
// bare type name, so an entry only counts when it describes rt's fields.
func lookupType(rt reflect.Type) (sentinel.Metadata, bool) {
	if rt.Name() == "" {
		return sentinel.Metadata{}, false
	}
	meta, ok := sentinel.Lookup(rt.Name())
	if !ok || meta.PackageName != rt.PkgPath() {
		return sentinel.Metadata{}, false
	}

	exported := 0
	for i := 0; i < rt.NumField(); i++ {
		if rt.Field(i).IsExported() {
			exported++
		}
	}
	if exported != len(meta.Fields) {
		return sentinel.Metadata{}, false
	}
	for _, fm := range meta.Fields {
		if len(fm.Index) != 1 || fm.Index[0] >= rt.NumField() {
			return sentinel.Metadata{}, false
		}
		sf := rt.Field(fm.Index[0])
		if sf.Name != fm.Name || sf.Type != fm.ReflectType {
			return sentinel.Metadata{}, false
		}
	}
	return meta, true
}

// parseTags extracts the codex tags from a struct tag.
func parseTags(tag reflect.StructTag) map[string]string {
	tags := make(map[string]string)
	for _, key := range []string{TagCodex, TagDefault, TagRange, TagValidate, TagAdapter} {
		if val, ok := tag.Lookup(key); ok {
			tags[key] = val
		}
	}
	return tags
}

// codexTag is the parsed form of a codex tag.
type codexTag struct {
	name    string
	options map[FieldOption]bool
}

func parseCodexTag(raw string) (codexTag, error) {
	parts := strings.Split(raw, ",")
	out := codexTag{name: strings.TrimSpace(parts[0]), options: make(map[FieldOption]bool)}
	for _, p := range parts[1:] {
		opt := FieldOption(strings.TrimSpace(p))
		if opt == "" {
			continue
		}
		if !IsValidFieldOption(opt) {
			return out, fmt.Errorf("unknown option %q", opt)
		}
		out.options[opt] = true
	}
	return out, nil
}

// validateTag is the parsed form of a validate tag.
type validateTag struct {
	name     string
	onEncode bool
	onDecode bool
}

func parseValidateTag(raw string) (validateTag, error) {
	parts := strings.Split(raw, ",")
	out := validateTag{name: strings.TrimSpace(parts[0]), onEncode: true, onDecode: true}
	if out.name == "" {
		return out, fmt.Errorf("empty validator name")
	}
	if len(parts) > 2 {
		return out, fmt.Errorf("too many validator options in %q", raw)
	}
	if len(parts) == 2 {
		d := ValidateDirection(strings.TrimSpace(parts[1]))
		if !IsValidDirection(d) {
			return out, fmt.Errorf("unknown validator direction %q", d)
		}
		out.onEncode = d == ValidateEncode
		out.onDecode = d == ValidateDecode
	}
	return out, nil
}
