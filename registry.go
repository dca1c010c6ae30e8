package codex

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Registry caches adapters by type and owns the factory chain that builds
// them. It is built once through options and then shared; all methods are
// safe for concurrent use.
type Registry struct {
	cache      sync.Map // reflect.Type -> Adapter
	stringLike sync.Map // reflect.Type -> Adapter

	named      sync.Map // string -> Adapter
	validators sync.Map // string -> Validator

	creators     sync.Map // reflect.Type -> func() any
	constructors sync.Map // reflect.Type -> *constructor
	instances    sync.Map // reflect.Type -> instanceFunc
	overrides    sync.Map // reflect.Type -> *typeOverrides

	factoryMu sync.Mutex
	factories atomic.Pointer[[]registeredFactory]
	seq       int

	bundleMu sync.Mutex
	bundles  map[string]bool

	codecMu sync.RWMutex
	codecs  map[reflect.Type]any

	logger  *zap.Logger
	metrics *metrics
}

type registeredFactory struct {
	factory  Factory
	priority int
	seq      int
}

// New builds a Registry. The Builtin bundle is applied first unless
// WithoutBuiltins is given; the remaining options are applied in order.
func New(opts ...Option) *Registry {
	cfg := &config{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(cfg)
	}

	r := &Registry{
		bundles: make(map[string]bool),
		codecs:  make(map[reflect.Type]any),
		logger:  cfg.logger,
		metrics: newMetrics(cfg.registerer),
	}
	empty := []registeredFactory{}
	r.factories.Store(&empty)

	if !cfg.noBuiltins {
		r.Apply(Builtin)
	}
	for _, setup := range cfg.setup {
		setup(r)
	}
	return r
}

// Register pins a for t. Pinned adapters bypass the factory chain and
// replace anything previously cached for t, including a typed codec.
func (r *Registry) Register(t reflect.Type, a Adapter) {
	r.cache.Store(t, a)
	r.codecMu.Lock()
	delete(r.codecs, t)
	r.codecMu.Unlock()
	r.logger.Debug("adapter registered", zap.Stringer("type", t))
}

// RegisterStringLike pins a as the string-like adapter for t. String-like
// adapters always encode to string nodes and let maps keyed by t use native
// map encoding.
func (r *Registry) RegisterStringLike(t reflect.Type, a Adapter) {
	r.stringLike.Store(t, a)
}

// RegisterFactory adds f to the chain. Factories with a higher priority are
// consulted first; equal priorities keep registration order.
func (r *Registry) RegisterFactory(f Factory, priority int) {
	r.factoryMu.Lock()
	defer r.factoryMu.Unlock()

	r.seq++
	current := *r.factories.Load()
	next := make([]registeredFactory, len(current), len(current)+1)
	copy(next, current)
	next = append(next, registeredFactory{factory: f, priority: priority, seq: r.seq})
	slices.SortStableFunc(next, func(a, b registeredFactory) int {
		if a.priority != b.priority {
			return b.priority - a.priority
		}
		return a.seq - b.seq
	})
	r.factories.Store(&next)
}

// RegisterCreator sets the zero-argument constructor used when t is
// allocated for decoding.
func (r *Registry) RegisterCreator(t reflect.Type, create func() any) {
	r.creators.Store(t, create)
	r.instances.Delete(t)
}

// RegisterValidator makes v available to `validate:"name"` tags.
func (r *Registry) RegisterValidator(name string, v Validator) {
	r.validators.Store(name, v)
}

// RegisterNamed makes a available to `adapter:"name"` tags.
func (r *Registry) RegisterNamed(name string, a Adapter) {
	r.named.Store(name, a)
}

// Apply registers a bundle. A bundle is applied at most once per registry;
// Apply reports whether b was applied by this call.
func (r *Registry) Apply(b Bundle) bool {
	r.bundleMu.Lock()
	if r.bundles[b.Name] {
		r.bundleMu.Unlock()
		return false
	}
	r.bundles[b.Name] = true
	r.bundleMu.Unlock()

	b.Apply(r)
	r.logger.Debug("bundle applied", zap.String("bundle", b.Name))
	return true
}

// Resolve returns the adapter for d, building and caching it on first use.
// Resolving the same descriptor again returns the same adapter instance.
func (r *Registry) Resolve(d TypeDescriptor) (Adapter, error) {
	if d.IsZero() {
		return nil, fmt.Errorf("%w: nil type", ErrUnresolvedType)
	}
	if a, ok := r.cache.Load(d.rt); ok {
		if p, pending := a.(*pendingAdapter); !pending || (p.ready() && !p.failed()) {
			r.metrics.resolved("hit")
			return a.(Adapter), nil
		}
	}

	s := &session{reg: r, inflight: make(map[reflect.Type]*pendingAdapter)}
	a, err := s.Resolve(d)
	if err != nil {
		s.rollback(err)
		r.metrics.resolved("error")
		r.logger.Warn("adapter resolution failed", zap.Stringer("type", d), zap.Error(err))
		emitResolveFailed(d.String(), err)
		return nil, err
	}
	r.metrics.resolved("miss")
	return a, nil
}

// ResolveType is Resolve for a reflect.Type.
func (r *Registry) ResolveType(t reflect.Type) (Adapter, error) {
	return r.Resolve(Describe(t))
}

// MustResolve is Resolve that panics on failure.
func (r *Registry) MustResolve(d TypeDescriptor) Adapter {
	a, err := r.Resolve(d)
	if err != nil {
		panic(err)
	}
	return a
}

// StringLike returns the string-like adapter for d. Besides explicit
// registrations, named string kinds and types implementing both
// encoding.TextMarshaler and encoding.TextUnmarshaler are string-like.
func (r *Registry) StringLike(d TypeDescriptor) (Adapter, bool) {
	if d.IsZero() {
		return nil, false
	}
	if a, ok := r.stringLike.Load(d.rt); ok {
		return a.(Adapter), true
	}
	var a Adapter
	switch {
	case isText(d.rt):
		a = &textAdapter{typ: d.rt}
	case d.rt.Kind() == reflect.String && !isEnum(d.rt):
		a = &scalarAdapter{typ: d.rt}
	default:
		return nil, false
	}
	actual, _ := r.stringLike.LoadOrStore(d.rt, a)
	return actual.(Adapter), true
}

// chain returns the ordered factories: the self-adapter factory, the
// registered factories by priority, and the aggregate fallback.
func (r *Registry) chain() []Factory {
	registered := *r.factories.Load()
	out := make([]Factory, 0, len(registered)+2)
	out = append(out, selfAdapterFactory{})
	for _, rf := range registered {
		out = append(out, rf.factory)
	}
	return append(out, aggregateFactory{})
}

// session tracks one top-level resolution. Types being built by this
// session resolve to their own placeholder; a placeholder owned by another
// goroutine is raced by running the chain again.
type session struct {
	reg       *Registry
	inflight  map[reflect.Type]*pendingAdapter
	installed []installed
}

type installed struct {
	typ reflect.Type
	p   *pendingAdapter
}

// Resolve implements Creator.
func (s *session) Resolve(d TypeDescriptor) (Adapter, error) {
	if d.IsZero() {
		return nil, fmt.Errorf("%w: nil type", ErrUnresolvedType)
	}
	t := d.rt
	if a, ok := s.reg.cache.Load(t); ok {
		if p, pending := a.(*pendingAdapter); !pending || !p.failed() {
			return s.observe(t, a.(Adapter))
		}
		s.reg.cache.CompareAndDelete(t, a)
	}

	p := newPendingAdapter(t)
	if actual, loaded := s.reg.cache.LoadOrStore(t, p); loaded {
		return s.observe(t, actual.(Adapter))
	}
	s.installed = append(s.installed, installed{typ: t, p: p})
	return s.build(t, p, true)
}

// StringLike implements Creator.
func (s *session) StringLike(d TypeDescriptor) (Adapter, bool) {
	return s.reg.StringLike(d)
}

func (s *session) observe(t reflect.Type, a Adapter) (Adapter, error) {
	p, pending := a.(*pendingAdapter)
	if pending && p.failed() {
		return nil, p.resolved().(failedAdapter).err
	}
	if !pending || p.ready() {
		return a, nil
	}
	if _, mine := s.inflight[t]; mine {
		return p, nil
	}
	return s.build(t, p, false)
}

func (s *session) build(t reflect.Type, p *pendingAdapter, owner bool) (Adapter, error) {
	s.inflight[t] = p
	defer delete(s.inflight, t)

	d := Describe(t)
	for _, f := range s.reg.chain() {
		a, err := f.Create(s, d)
		if err != nil {
			if owner {
				p.fail(err)
				s.reg.cache.CompareAndDelete(t, p)
			}
			return nil, err
		}
		if a == nil {
			continue
		}
		p.set(a)
		if p.failed() {
			return nil, p.resolved().(failedAdapter).err
		}
		s.reg.logger.Debug("adapter resolved",
			zap.Stringer("type", t),
			zap.String("factory", fmt.Sprintf("%T", f)),
		)
		return p, nil
	}

	err := fmt.Errorf("%w: %s", ErrUnresolvedType, t)
	if owner {
		p.fail(err)
		s.reg.cache.CompareAndDelete(t, p)
	}
	return nil, err
}

// rollback removes every placeholder a failed session installed so a later
// resolution starts clean. Placeholders still unassigned are failed with err,
// since adapters already handed to other goroutines may refer to them.
func (s *session) rollback(err error) {
	for _, in := range s.installed {
		in.p.fail(err)
		s.reg.cache.CompareAndDelete(in.typ, in.p)
	}
}

// CodecFor returns the typed codec for T, cached per registry.
func CodecFor[T any](r *Registry) (*Codec[T], error) {
	typ := reflect.TypeFor[T]()

	// Fast path: read-lock cache check
	r.codecMu.RLock()
	if cached, ok := r.codecs[typ]; ok {
		r.codecMu.RUnlock()
		return cached.(*Codec[T]), nil
	}
	r.codecMu.RUnlock()

	// Slow path: build and cache with write-lock
	r.codecMu.Lock()
	defer r.codecMu.Unlock()

	// Double-check pattern
	if cached, ok := r.codecs[typ]; ok {
		return cached.(*Codec[T]), nil
	}

	c, err := newCodec[T](r)
	if err != nil {
		return nil, err
	}
	r.codecs[typ] = c
	return c, nil
}

// MustCodecFor is CodecFor that panics on failure.
func MustCodecFor[T any](r *Registry) *Codec[T] {
	c, err := CodecFor[T](r)
	if err != nil {
		panic(err)
	}
	return c
}
