package codex_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/zoobzio/codex"
	"github.com/zoobzio/codex/native"
)

type Server struct {
	Host    string   `codex:"host"`
	Port    int      `codex:"port" default:"8080"`
	Tags    []string `codex:"tags,orempty"`
	Nick    string   `codex:"nick,optional"`
	Level   int      `codex:"level,optional" range:"1,10"`
	Aliases []string `codex:"aliases,single,optional"`
	Secret  string   `codex:"-"`
}

func TestFields_Defaults(t *testing.T) {
	a := resolve[Server](t, codex.New())

	v, _, err := a.Decode(native.Ops(), map[string]any{"host": "db"})
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	got := v.(Server)
	if got.Port != 8080 {
		t.Errorf("Port = %d, want default 8080", got.Port)
	}
	if got.Tags == nil || len(got.Tags) != 0 {
		t.Errorf("Tags = %#v, want empty slice", got.Tags)
	}
	if got.Nick != "" || got.Aliases != nil {
		t.Errorf("optional fields = %q, %v", got.Nick, got.Aliases)
	}
}

func TestFields_SkipsExcluded(t *testing.T) {
	a := resolve[Server](t, codex.New())

	tree, err := a.Encode(Server{Host: "db", Port: 1, Level: 2, Secret: "x"}, native.Ops(), nil)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if _, ok := tree.(map[string]any)["Secret"]; ok {
		t.Error("fields tagged \"-\" must not be encoded")
	}
}

func TestFields_Range(t *testing.T) {
	a := resolve[Server](t, codex.New())

	_, _, err := a.Decode(native.Ops(), map[string]any{"host": "db", "level": 11})
	if !errors.Is(err, codex.ErrOutOfRange) {
		t.Fatalf("Decode() error = %v, want ErrOutOfRange", err)
	}
	if !strings.Contains(err.Error(), "value 11 outside of range [1, 10]") {
		t.Errorf("error = %q", err.Error())
	}
	partial, ok := codex.Partial(err)
	if !ok || partial.(Server).Level != 11 {
		t.Errorf("partial = %#v, want the rejected level kept", partial)
	}

	_, err = a.Encode(Server{Host: "db", Level: 0}, native.Ops(), nil)
	if !errors.Is(err, codex.ErrOutOfRange) {
		t.Errorf("Encode() error = %v, want ErrOutOfRange", err)
	}
}

type Mix struct {
	Ratio float32 `codex:"ratio" range:"0,0.1"`
}

func TestFields_RangeFloat32Bounds(t *testing.T) {
	a := resolve[Mix](t, codex.New())

	tests := []struct {
		name    string
		ratio   float32
		wantErr bool
	}{
		{"min", 0, false},
		{"max", 0.1, false},
		{"inside", 0.05, false},
		{"above max", 0.10001, true},
		{"below min", -0.001, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Encode(Mix{Ratio: tt.ratio}, native.Ops(), nil)
			if tt.wantErr != errors.Is(err, codex.ErrOutOfRange) {
				t.Errorf("Encode(%v) error = %v, wantErr %v", tt.ratio, err, tt.wantErr)
			}
		})
	}

	v, _, err := a.Decode(native.Ops(), map[string]any{"ratio": 0.1})
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if v.(Mix).Ratio != 0.1 {
		t.Errorf("Ratio = %v, want 0.1", v.(Mix).Ratio)
	}
}

func TestFields_SingleOrList(t *testing.T) {
	a := resolve[Server](t, codex.New())

	tests := []struct {
		name  string
		input any
		want  []string
	}{
		{"single", "a", []string{"a"}},
		{"list", []any{"a", "b"}, []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _, err := a.Decode(native.Ops(), map[string]any{"host": "db", "level": 1, "aliases": tt.input})
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if got := v.(Server).Aliases; !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Aliases = %#v, want %#v", got, tt.want)
			}
		})
	}

	tree, err := a.Encode(Server{Host: "db", Level: 1, Aliases: []string{"a"}}, native.Ops(), nil)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if got := tree.(map[string]any)["aliases"]; !reflect.DeepEqual(got, []any{"a"}) {
		t.Errorf("aliases = %#v, want a list", got)
	}
}

func TestFields_ValidatorDirections(t *testing.T) {
	type Account struct {
		Owner string `codex:"owner" validate:"nonempty,decode"`
		Login string `codex:"login,optional" validate:"lower"`
	}
	r := codex.New(
		codex.WithValidator("nonempty", codex.Predicate(func(v any) bool { return v.(string) != "" }, "")),
		codex.WithValidator("lower", codex.Predicate(func(v any) bool {
			return v.(string) == strings.ToLower(v.(string))
		}, "must be lower case")),
	)
	a := resolve[Account](t, r)

	if _, err := a.Encode(Account{Owner: ""}, native.Ops(), nil); err != nil {
		t.Errorf("decode-only validator ran on encode: %v", err)
	}
	_, _, err := a.Decode(native.Ops(), map[string]any{"owner": ""})
	if !errors.Is(err, codex.ErrValidation) {
		t.Errorf("Decode() error = %v, want ErrValidation", err)
	}
	if !strings.Contains(err.Error(), `"" did not pass validation`) {
		t.Errorf("error = %q", err.Error())
	}

	_, err = a.Encode(Account{Owner: "x", Login: "Ann"}, native.Ops(), nil)
	if err == nil || !strings.Contains(err.Error(), "login: validation failed: must be lower case") {
		t.Errorf("Encode() error = %v", err)
	}
}

func TestFields_ConfigErrors(t *testing.T) {
	type RangeOnString struct {
		Name string `range:"1,2"`
	}
	type UnknownValidator struct {
		Name string `validate:"missing"`
	}
	type UnknownAdapter struct {
		Name string `adapter:"missing"`
	}
	type EmptyWithDefault struct {
		Tags []string `codex:"tags,orempty" default:"x"`
	}
	type EmptyOnScalar struct {
		Name string `codex:"name,orempty"`
	}
	type RequiredOptional struct {
		Name string `codex:"name,required,optional"`
	}
	type SingleOnScalar struct {
		Name string `codex:"name,single"`
	}
	type UnknownOption struct {
		Name string `codex:"name,sometimes"`
	}
	type DuplicateName struct {
		A string `codex:"x"`
		B string `codex:"x"`
	}
	type BadDefault struct {
		Port int `default:"many"`
	}
	type BadRange struct {
		Port int `range:"10,1"`
	}

	r := codex.New()
	tests := []struct {
		name  string
		d     codex.TypeDescriptor
		field string
	}{
		{"range on string", codex.TypeOf[RangeOnString](), "Name"},
		{"unknown validator", codex.TypeOf[UnknownValidator](), "Name"},
		{"unknown adapter", codex.TypeOf[UnknownAdapter](), "Name"},
		{"orempty with default", codex.TypeOf[EmptyWithDefault](), "Tags"},
		{"orempty on scalar", codex.TypeOf[EmptyOnScalar](), "Name"},
		{"required and optional", codex.TypeOf[RequiredOptional](), "Name"},
		{"single on scalar", codex.TypeOf[SingleOnScalar](), "Name"},
		{"unknown option", codex.TypeOf[UnknownOption](), "Name"},
		{"duplicate name", codex.TypeOf[DuplicateName](), "B"},
		{"bad default", codex.TypeOf[BadDefault](), "Port"},
		{"inverted range", codex.TypeOf[BadRange](), "Port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(tt.d)
			var ce *codex.ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Resolve() error = %v, want *ConfigError", err)
			}
			if !errors.Is(err, codex.ErrConfiguration) {
				t.Errorf("error should match ErrConfiguration: %v", err)
			}
			if ce.Field != tt.field {
				t.Errorf("ConfigError.Field = %q, want %q", ce.Field, tt.field)
			}
			if !strings.HasPrefix(err.Error(), "could not compute field data for ") {
				t.Errorf("error = %q", err.Error())
			}
		})
	}
}

type Profile struct {
	Name     string
	Country  string
	Internal string
	Visits   int
}

func (Profile) CodexExcludedFields() []string { return []string{"Internal"} }

func (Profile) CodexFieldDefaults() map[string]func() any {
	return map[string]func() any{"Country": func() any { return "NZ" }}
}

func (Profile) CodexFieldAdapters() map[string]codex.Adapter {
	return map[string]codex.Adapter{
		"Visits": codex.Map(codex.StringAdapter,
			func(v any) any { return len(v.(string)) },
			func(v any) any { return strings.Repeat("*", v.(int)) },
		),
	}
}

func TestFields_Overrides(t *testing.T) {
	a := resolve[Profile](t, codex.New())

	tree, err := a.Encode(Profile{Name: "Ann", Country: "AU", Internal: "x", Visits: 3}, native.Ops(), nil)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	want := map[string]any{"Name": "Ann", "Country": "AU", "Visits": "***"}
	if !reflect.DeepEqual(tree, want) {
		t.Errorf("Encode() = %#v, want %#v", tree, want)
	}

	v, _, err := a.Decode(native.Ops(), map[string]any{"Name": "Ann", "Visits": "**"})
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got := v.(Profile); got.Country != "NZ" || got.Visits != 2 {
		t.Errorf("Decode() = %#v", got)
	}
}

type Token struct {
	raw string
}

func (Token) CodexAdapter() codex.Adapter {
	return codex.Map(codex.StringAdapter,
		func(v any) any { return Token{raw: v.(string)} },
		func(v any) any { return v.(Token).raw },
	)
}

func TestAdapterProvider(t *testing.T) {
	a := resolve[Token](t, codex.New())

	tree, err := a.Encode(Token{raw: "abc"}, native.Ops(), nil)
	if err != nil || tree != "abc" {
		t.Fatalf("Encode() = %v, %v", tree, err)
	}
	v, _, err := a.Decode(native.Ops(), "xyz")
	if err != nil || v != (Token{raw: "xyz"}) {
		t.Errorf("Decode() = %#v, %v", v, err)
	}
}

type Settings struct {
	Mode    string
	Retries int `codex:"retries,optional"`
}

func (Settings) CodexNewInstance() any { return Settings{Retries: 3} }

func TestInstanceCreation(t *testing.T) {
	tests := []struct {
		name string
		reg  *codex.Registry
		want int
	}{
		{"instance provider", codex.New(), 3},
		{"registered creator", codex.New(codex.WithCreator(func() Settings { return Settings{Retries: 5} })), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := resolve[Settings](t, tt.reg)
			v, _, err := a.Decode(native.Ops(), map[string]any{"Mode": "fast"})
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if got := v.(Settings); got.Retries != tt.want || got.Mode != "fast" {
				t.Errorf("Decode() = %#v, want Retries %d", got, tt.want)
			}
		})
	}
}
