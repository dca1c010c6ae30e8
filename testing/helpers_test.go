package testing

import (
	"context"
	"reflect"
	"testing"

	"github.com/zoobzio/codex"
	"github.com/zoobzio/codex/native"
)

func TestFormats(t *testing.T) {
	seen := make(map[string]bool)
	for _, f := range Formats() {
		if seen[f.ContentType()] {
			t.Errorf("duplicate format %s", f.ContentType())
		}
		seen[f.ContentType()] = true
	}
	if len(seen) != 5 {
		t.Errorf("Formats() = %d formats, want 5", len(seen))
	}
}

func TestSampleCustomer_NativeRoundTrip(t *testing.T) {
	c := codex.MustCodecFor[Customer](codex.New())
	ctx := context.Background()
	in := SampleCustomer()

	tree, err := c.Encode(ctx, in, native.Ops())
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if got := tree.(map[string]any)["tier"]; got != "gold" {
		t.Errorf("tier = %v, want gold", got)
	}

	out, err := c.Decode(ctx, native.Ops(), tree)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("Decode() = %#v, want %#v", out, in)
	}
}

func TestRoundTrip(t *testing.T) {
	r := codex.New()
	for _, f := range Formats() {
		t.Run(f.ContentType(), func(t *testing.T) {
			in := Address{Street: "2 Side St", City: "Shelbyville"}
			if out := RoundTrip(t, r, f, in); out != in {
				t.Errorf("RoundTrip() = %#v, want %#v", out, in)
			}
		})
	}
}
