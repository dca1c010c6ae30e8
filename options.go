package codex

import (
	"fmt"
	"reflect"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures a Registry.
type Option func(*config)

type config struct {
	logger     *zap.Logger
	registerer prometheus.Registerer
	noBuiltins bool
	setup      []func(*Registry)
}

func (c *config) add(fn func(*Registry)) {
	c.setup = append(c.setup, fn)
}

// WithLogger sets the logger used for resolution diagnostics.
// A no-op logger is used by default.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics registers the registry's collectors on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *config) {
		c.registerer = reg
	}
}

// WithoutBuiltins skips the Builtin bundle.
func WithoutBuiltins() Option {
	return func(c *config) {
		c.noBuiltins = true
	}
}

// WithAdapter pins a as the adapter for T.
func WithAdapter[T any](a Adapter) Option {
	return func(c *config) {
		c.add(func(r *Registry) { r.Register(reflect.TypeFor[T](), a) })
	}
}

// WithStringLike pins a as the string-like adapter for T.
func WithStringLike[T any](a Adapter) Option {
	return func(c *config) {
		c.add(func(r *Registry) { r.RegisterStringLike(reflect.TypeFor[T](), a) })
	}
}

// WithFactory adds f to the factory chain at priority.
func WithFactory(f Factory, priority int) Option {
	return func(c *config) {
		c.add(func(r *Registry) { r.RegisterFactory(f, priority) })
	}
}

// WithCreator sets the constructor used to allocate T for decoding.
func WithCreator[T any](create func() T) Option {
	return func(c *config) {
		c.add(func(r *Registry) {
			r.RegisterCreator(reflect.TypeFor[T](), func() any { return create() })
		})
	}
}

// WithConstructor declares T as an immutable record built by fn. fn takes
// one parameter per member, in member order, and returns T or (T, error).
// An invalid fn surfaces as a configuration error when T is resolved.
func WithConstructor[T any](fn any) Option {
	return func(c *config) {
		c.add(func(r *Registry) { r.RegisterConstructor(reflect.TypeFor[T](), fn) })
	}
}

// WithValidator makes v available to `validate:"name"` tags.
func WithValidator(name string, v Validator) Option {
	return func(c *config) {
		c.add(func(r *Registry) { r.RegisterValidator(name, v) })
	}
}

// WithNamedAdapter makes a available to `adapter:"name"` tags.
func WithNamedAdapter(name string, a Adapter) Option {
	return func(c *config) {
		c.add(func(r *Registry) { r.RegisterNamed(name, a) })
	}
}

// WithBundle applies b.
func WithBundle(b Bundle) Option {
	return func(c *config) {
		c.add(func(r *Registry) { r.Apply(b) })
	}
}

// Bundle is a named group of registrations applied at most once per registry.
type Bundle struct {
	Name  string
	Apply func(r *Registry)
}

func (b Bundle) String() string {
	return fmt.Sprintf("bundle(%s)", b.Name)
}
