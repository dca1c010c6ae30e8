package codex

import (
	"errors"
	"fmt"
	"testing"
)

func TestConfigError_Is(t *testing.T) {
	err := &ConfigError{Err: ErrMissingName, Type: "codex.Person", Field: "Get"}

	if !errors.Is(err, ErrMissingName) {
		t.Error("ConfigError should unwrap to ErrMissingName")
	}

	if errors.Is(err, ErrConfiguration) {
		t.Error("ConfigError should not match ErrConfiguration")
	}
}

func TestConfigError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "full context",
			err:  &ConfigError{Err: ErrConfiguration, Type: "codex.Person", Field: "Age", Detail: "range on non-numeric type string"},
			want: "could not compute field data for codex.Person (field Age): invalid configuration: range on non-numeric type string",
		},
		{
			name: "type only",
			err:  &ConfigError{Err: ErrConfiguration, Type: "codex.Person"},
			want: "could not compute field data for codex.Person: invalid configuration",
		},
		{
			name: "no context",
			err:  &ConfigError{Err: ErrMissingName},
			want: "could not compute field data: missing serialized name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFieldError_Message(t *testing.T) {
	missing := &FieldError{Err: ErrMissingKey, Field: "name"}
	if got := missing.Error(); got != "Missing required key: name" {
		t.Errorf("Error() = %q", got)
	}

	cause := errors.New("not a number")
	failed := &FieldError{Err: ErrDecode, Field: "age", Cause: cause}
	if got := failed.Error(); got != "age: not a number" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(failed, ErrDecode) || !errors.Is(failed, cause) {
		t.Error("FieldError should unwrap to both sentinel and cause")
	}
}

func TestObjectError_JoinsFields(t *testing.T) {
	err := &ObjectError{
		Type: "codex.Person",
		Fields: []*FieldError{
			{Err: ErrMissingKey, Field: "name"},
			{Err: ErrDecode, Field: "age", Cause: errors.New("bad")},
		},
	}

	if got, want := err.Error(), "Missing required key: name; age: bad"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrMissingKey) {
		t.Error("ObjectError should match ErrMissingKey")
	}
	if !errors.Is(err, ErrDecode) {
		t.Error("ObjectError should match ErrDecode")
	}
}

func TestPartial(t *testing.T) {
	inner := &ObjectError{Fields: []*FieldError{{Err: ErrMissingKey, Field: "name"}}}
	err := fmt.Errorf("wrapped: %w", &PartialError{Err: inner, Value: 42})

	v, ok := Partial(err)
	if !ok {
		t.Fatal("Partial() should find the partial value")
	}
	if v != 42 {
		t.Errorf("Partial() = %v, want 42", v)
	}
	if !errors.Is(err, ErrMissingKey) {
		t.Error("PartialError should unwrap to the inner error")
	}

	if _, ok := Partial(errors.New("plain")); ok {
		t.Error("Partial() should report false for plain errors")
	}
}

func TestCodecError(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := &CodecError{Err: ErrDecode, ContentType: "application/json", Cause: cause}

	if got, want := err.Error(), "application/json decode failed: unexpected EOF"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrDecode) || !errors.Is(err, cause) {
		t.Error("CodecError should unwrap to sentinel and cause")
	}
}

func TestListError(t *testing.T) {
	err := &ListError{Errs: []error{errors.New("a"), fmt.Errorf("%w: b", ErrOutOfRange)}}
	if got := err.Error(); got != "a; value out of range: b" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrOutOfRange) {
		t.Error("ListError should match element errors")
	}
}
