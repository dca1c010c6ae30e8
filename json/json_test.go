package json

import (
	stdjson "encoding/json"
	"testing"

	"github.com/zoobzio/codex"
)

func TestNew(t *testing.T) {
	f := New()
	if f == nil {
		t.Error("New() should return non-nil format")
	}
}

func TestContentType(t *testing.T) {
	f := New()
	if f.ContentType() != "application/json" {
		t.Errorf("ContentType() = %q, want %q", f.ContentType(), "application/json")
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	f := New()

	tree := map[string]any{"name": "test", "value": int64(42), "tags": []any{"a"}}

	data, err := f.Marshal(tree)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(data) != `{"name":"test","tags":["a"],"value":42}` {
		t.Errorf("Marshal() = %s", data)
	}

	restored, err := f.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	m := restored.(map[string]any)
	if m["name"] != "test" {
		t.Errorf("name = %v", m["name"])
	}
	n, err := f.Ops().NumberValue(m["value"])
	if err != nil {
		t.Fatalf("NumberValue() error: %v", err)
	}
	if v, _ := n.Int64(); v != 42 {
		t.Errorf("value = %v, want 42", n)
	}
}

func TestUnmarshalKeepsPrecision(t *testing.T) {
	f := New()

	tree, err := f.Unmarshal([]byte(`18446744073709551615`))
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if _, ok := tree.(stdjson.Number); !ok {
		t.Fatalf("Unmarshal() = %T, want json.Number", tree)
	}
	if f.Ops().Kind(tree) != codex.KindNumber {
		t.Errorf("Kind() = %s, want number", f.Ops().Kind(tree))
	}
	n, err := f.Ops().NumberValue(tree)
	if err != nil {
		t.Fatalf("NumberValue() error: %v", err)
	}
	if u, err := n.Uint64(); err != nil || u != 18446744073709551615 {
		t.Errorf("Uint64() = %d, %v", u, err)
	}
}

func TestMarshalNil(t *testing.T) {
	f := New()

	data, err := f.Marshal(nil)
	if err != nil {
		t.Fatalf("Marshal(nil) error: %v", err)
	}

	if string(data) != "null" {
		t.Errorf("Marshal(nil) = %q, want %q", data, "null")
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	f := New()

	for _, in := range []string{`{invalid}`, `{"a":1} {"b":2}`, ``} {
		if _, err := f.Unmarshal([]byte(in)); err == nil {
			t.Errorf("Unmarshal(%q) should fail", in)
		}
	}
}
