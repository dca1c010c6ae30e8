package codex_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/zoobzio/codex"
	"github.com/zoobzio/codex/json"
	"github.com/zoobzio/codex/native"
)

type Order struct {
	ID    string   `codex:"id"`
	Items []string `codex:"items,orempty"`
	Total float64  `codex:"total"`
	Note  *string  `codex:"note"`
}

func TestCodecFor_Cached(t *testing.T) {
	r := codex.New()

	first, err := codex.CodecFor[Order](r)
	if err != nil {
		t.Fatalf("CodecFor() error: %v", err)
	}
	second := codex.MustCodecFor[Order](r)
	if first != second {
		t.Error("CodecFor() should return the cached codec")
	}
	if first.Adapter() != r.MustResolve(codex.TypeOf[Order]()) {
		t.Error("codec should use the registry's adapter")
	}
}

func TestCodecFor_Unresolvable(t *testing.T) {
	if _, err := codex.CodecFor[WithChannel](codex.New()); !errors.Is(err, codex.ErrUnresolvedType) {
		t.Errorf("CodecFor() error = %v, want ErrUnresolvedType", err)
	}
}

func TestCodec_EncodeDecode(t *testing.T) {
	c := codex.MustCodecFor[Order](codex.New())
	ctx := context.Background()
	in := Order{ID: "o-1", Items: []string{"tea"}, Total: 4.5}

	tree, err := c.Encode(ctx, in, native.Ops())
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	want := map[string]any{"id": "o-1", "items": []any{"tea"}, "total": 4.5}
	if !reflect.DeepEqual(tree, want) {
		t.Fatalf("Encode() = %#v, want %#v", tree, want)
	}

	out, err := c.Decode(ctx, native.Ops(), tree)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("Decode() = %#v, want %#v", out, in)
	}
}

func TestCodec_DecodeReturnsTypedPartial(t *testing.T) {
	c := codex.MustCodecFor[Order](codex.New())

	out, err := c.Decode(context.Background(), native.Ops(), map[string]any{"id": "o-2"})
	if err == nil || err.Error() != "Missing required key: total" {
		t.Fatalf("Decode() error = %v", err)
	}
	if out.ID != "o-2" || out.Items == nil {
		t.Errorf("partial = %#v", out)
	}
}

func TestCodec_MarshalJSON(t *testing.T) {
	c := codex.MustCodecFor[Order](codex.New())
	ctx := context.Background()
	f := json.New()
	note := "gift"
	in := Order{ID: "o-3", Items: []string{}, Total: 10, Note: &note}

	data, err := c.Marshal(ctx, f, in)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if got := string(data); got != `{"id":"o-3","items":[],"note":"gift","total":10}` {
		t.Errorf("Marshal() = %s", got)
	}

	out, err := c.Unmarshal(ctx, f, data)
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("Unmarshal() = %#v, want %#v", out, in)
	}
}

func TestCodec_UnmarshalInvalid(t *testing.T) {
	c := codex.MustCodecFor[Order](codex.New())

	_, err := c.Unmarshal(context.Background(), json.New(), []byte(`{"id":`))
	var ce *codex.CodecError
	if !errors.As(err, &ce) {
		t.Fatalf("Unmarshal() error = %v, want *CodecError", err)
	}
	if ce.ContentType != "application/json" || !errors.Is(err, codex.ErrDecode) {
		t.Errorf("CodecError = %+v", ce)
	}
}
