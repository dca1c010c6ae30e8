// Package testing provides fixtures and helpers for testing codex adapters
// against every bundled format.
package testing

import (
	"context"
	"testing"
	"time"

	"github.com/zoobzio/codex"
	"github.com/zoobzio/codex/bson"
	"github.com/zoobzio/codex/json"
	"github.com/zoobzio/codex/msgpack"
	"github.com/zoobzio/codex/toml"
	"github.com/zoobzio/codex/yaml"
)

// Formats returns one instance of every bundled format.
func Formats() []codex.Format {
	return []codex.Format{
		json.New(),
		yaml.New(),
		msgpack.New(),
		toml.New(),
		bson.New(),
	}
}

// RoundTrip marshals v with f and unmarshals the result, failing tb on any
// error.
func RoundTrip[T any](tb testing.TB, r *codex.Registry, f codex.Format, v T) T {
	tb.Helper()

	c, err := codex.CodecFor[T](r)
	if err != nil {
		tb.Fatalf("CodecFor() error: %v", err)
	}
	ctx := context.Background()

	data, err := c.Marshal(ctx, f, v)
	if err != nil {
		tb.Fatalf("%s: Marshal() error: %v", f.ContentType(), err)
	}
	out, err := c.Unmarshal(ctx, f, data)
	if err != nil {
		tb.Fatalf("%s: Unmarshal() error: %v", f.ContentType(), err)
	}
	return out
}

// Tier is an enum fixture.
type Tier int

// Tier values.
const (
	Bronze Tier = iota
	Silver
	Gold
)

func (t Tier) String() string {
	switch t {
	case Bronze:
		return "bronze"
	case Silver:
		return "silver"
	case Gold:
		return "gold"
	default:
		return "unknown"
	}
}

// EnumValues lists every Tier.
func (Tier) EnumValues() []any { return []any{Bronze, Silver, Gold} }

// Address is a nested object fixture.
type Address struct {
	Street string `codex:"street"`
	City   string `codex:"city"`
}

// Customer exercises objects, enums, optional fields, collections and
// string-backed scalars.
type Customer struct {
	ID      string             `codex:"id"`
	Name    string             `codex:"name"`
	Tier    Tier               `codex:"tier"`
	Age     int                `codex:"age" range:"0,150"`
	Email   *string            `codex:"email"`
	Tags    []string           `codex:"tags,orempty"`
	Address Address            `codex:"address"`
	Scores  map[string]float64 `codex:"scores,orempty"`
	Since   time.Duration      `codex:"since"`
}

// SampleCustomer returns a fully populated Customer.
func SampleCustomer() Customer {
	email := "alice@example.com"
	return Customer{
		ID:      "c-123",
		Name:    "Alice",
		Tier:    Gold,
		Age:     34,
		Email:   &email,
		Tags:    []string{"vip", "early"},
		Address: Address{Street: "1 Main St", City: "Springfield"},
		Scores:  map[string]float64{"q1": 0.5, "q2": 0.75},
		Since:   36 * time.Hour,
	}
}
