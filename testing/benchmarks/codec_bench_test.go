package benchmarks

import (
	"context"
	"testing"

	"github.com/zoobzio/codex"
	"github.com/zoobzio/codex/native"
	codextest "github.com/zoobzio/codex/testing"
)

func BenchmarkCodec_Encode_Native(b *testing.B) {
	c := codex.MustCodecFor[codextest.Customer](codex.New())
	ctx := context.Background()
	customer := codextest.SampleCustomer()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Encode(ctx, customer, native.Ops())
	}
}

func BenchmarkCodec_Decode_Native(b *testing.B) {
	c := codex.MustCodecFor[codextest.Customer](codex.New())
	ctx := context.Background()
	tree, err := c.Encode(ctx, codextest.SampleCustomer(), native.Ops())
	if err != nil {
		b.Fatalf("Encode() error: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Decode(ctx, native.Ops(), tree)
	}
}

func BenchmarkCodec_Marshal(b *testing.B) {
	r := codex.New()
	c := codex.MustCodecFor[codextest.Customer](r)
	ctx := context.Background()
	customer := codextest.SampleCustomer()

	for _, f := range codextest.Formats() {
		b.Run(f.ContentType(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _ = c.Marshal(ctx, f, customer)
			}
		})
	}
}

func BenchmarkCodec_Unmarshal(b *testing.B) {
	r := codex.New()
	c := codex.MustCodecFor[codextest.Customer](r)
	ctx := context.Background()

	for _, f := range codextest.Formats() {
		data, err := c.Marshal(ctx, f, codextest.SampleCustomer())
		if err != nil {
			b.Fatalf("%s: Marshal() error: %v", f.ContentType(), err)
		}
		b.Run(f.ContentType(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _ = c.Unmarshal(ctx, f, data)
			}
		})
	}
}

func BenchmarkResolve_Cached(b *testing.B) {
	r := codex.New()
	d := codex.TypeOf[codextest.Customer]()
	if _, err := r.Resolve(d); err != nil {
		b.Fatalf("Resolve() error: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = r.Resolve(d)
	}
}
