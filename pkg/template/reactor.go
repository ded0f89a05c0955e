package template

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/jsonms/pkg/domain"
	"github.com/aretw0/jsonms/pkg/observable"
)

// Reactor keeps a node sequence in step with its template and lookup.
// Every input change recomputes the nodes synchronously.
type Reactor[F any] struct {
	// writeMu serializes recomputation so subscribers see results in input order.
	writeMu sync.Mutex

	mu       sync.RWMutex
	template string
	lookup   Lookup[F]
	stops    []func()

	nodes *observable.Value[[]Node[F]]
	hooks domain.Hooks
}

// ReactorOption configures a Reactor.
type ReactorOption func(*reactorOptions)

type reactorOptions struct {
	hooks domain.Hooks
}

// WithHooks registers hooks fired after every recomputation.
func WithHooks(hooks domain.Hooks) ReactorOption {
	return func(o *reactorOptions) {
		o.hooks = hooks
	}
}

// NewReactor creates a Reactor and computes its nodes immediately.
func NewReactor[F any](template string, lookup Lookup[F], opts ...ReactorOption) *Reactor[F] {
	o := reactorOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	r := &Reactor[F]{
		template: template,
		lookup:   lookup,
		hooks:    o.hooks,
	}
	nodes := r.compute(template, lookup)
	r.nodes = observable.New(nodes)
	return r
}

// Nodes returns the current node sequence.
func (r *Reactor[F]) Nodes() []Node[F] {
	return r.nodes.Get()
}

// Template returns the current template.
func (r *Reactor[F]) Template() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.template
}

// SetTemplate replaces the template and recomputes.
func (r *Reactor[F]) SetTemplate(template string) {
	r.update(func() { r.template = template })
}

// SetLookup replaces the lookup and recomputes.
func (r *Reactor[F]) SetLookup(lookup Lookup[F]) {
	r.update(func() { r.lookup = lookup })
}

// Refresh recomputes with unchanged inputs, for lookups whose providers changed in place.
func (r *Reactor[F]) Refresh() {
	r.update(func() {})
}

// Subscribe registers fn for every recomputed sequence.
// fn must not call SetTemplate, SetLookup or Refresh.
func (r *Reactor[F]) Subscribe(fn func([]Node[F])) (unsubscribe func()) {
	return r.nodes.Subscribe(fn)
}

// Follow makes src the template source: the current value is applied now and
// every later write recomputes. The returned function stops following.
func (r *Reactor[F]) Follow(src *observable.Value[string]) (stop func()) {
	// src is read under writeMu, so the last recomputation always sees its latest value.
	pull := func() {
		r.update(func() { r.template = src.Get() })
	}
	stop = src.Subscribe(func(string) { pull() })
	pull()

	r.mu.Lock()
	r.stops = append(r.stops, stop)
	r.mu.Unlock()
	return stop
}

// Close stops following every source.
func (r *Reactor[F]) Close() {
	r.mu.Lock()
	stops := r.stops
	r.stops = nil
	r.mu.Unlock()
	for _, stop := range stops {
		stop()
	}
}

func (r *Reactor[F]) update(apply func()) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	r.mu.Lock()
	apply()
	template, lookup := r.template, r.lookup
	r.mu.Unlock()

	r.nodes.Set(r.compute(template, lookup))
}

func (r *Reactor[F]) compute(template string, lookup Lookup[F]) []Node[F] {
	nodes, missing := assemble(Parse(template), lookup)
	r.hooks.Render(context.Background(), &domain.RenderEvent{
		Timestamp: time.Now(),
		Nodes:     len(nodes),
		Missing:   missing,
	})
	return nodes
}
