// Package codex generates bidirectional adapters between Go values and
// format-agnostic trees.
//
// A Registry resolves a type to an Adapter once and caches it. Adapters are
// produced by an ordered chain of factories: a type's own AdapterProvider,
// then registered factories by priority (containers, maps, enums, pairs,
// pointers, text types, scalars), then the aggregate fallback that builds an
// object adapter from a struct's fields.
//
// Adapters never see a concrete format. They are written against Ops, which
// creates and reads string, number, bool, list and map nodes. The native,
// json, yaml, msgpack, bson and toml subpackages provide Ops together with a
// Format that turns trees into bytes.
//
// # Field Tags
//
// Field behavior is declared via struct tags:
//
//	codex:"name,optional,required,orempty,single"
//	codex:"-"
//	default:"value"
//	range:"min,max"
//	validate:"name[,encode|,decode]"
//	adapter:"name"
//
// Resolution order per field is fixed: serialized name, adapter, range,
// validator, optionality and default. Malformed or conflicting tags fail when
// the type is first resolved, never during encode or decode.
//
// # Basic Usage
//
//	type Person struct {
//	    Name   string   `codex:"name"`
//	    Age    int      `codex:"age" range:"0,150"`
//	    Height int      `codex:"height" default:"178"`
//	    Email  *string  `codex:"email"`
//	    Tags   []string `codex:"tags,orempty"`
//	}
//
//	reg := codex.New()
//	people, _ := codex.CodecFor[Person](reg)
//
//	data, _ := people.Marshal(ctx, json.New(), p)
//	p, err := people.Unmarshal(ctx, json.New(), data)
//
// # Partial Results
//
// Decoding never stops at the first bad field. Every field failure is
// collected into an *ObjectError, and when the instance could be allocated
// the value decoded so far is carried by a *PartialError:
//
//	p, err := people.Decode(ctx, ops, tree)
//	if err != nil {
//	    if _, ok := codex.Partial(err); ok {
//	        // p holds every field that decoded
//	    }
//	}
//
// Records built through a constructor registered with WithConstructor have
// no partial form.
//
// # Cycles
//
// A placeholder adapter is cached before a type's factories run, so a type
// that refers to itself, for example through a *Node field, resolves to the
// placeholder. The placeholder forwards to the real adapter once it is built.
package codex
