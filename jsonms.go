package jsonms

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/jsonms/internal/logging"
	"github.com/aretw0/jsonms/pkg/binding"
	"github.com/aretw0/jsonms/pkg/domain"
	"github.com/aretw0/jsonms/pkg/notifier"
	"github.com/aretw0/jsonms/pkg/observable"
	"github.com/aretw0/jsonms/pkg/ports"
	"github.com/aretw0/jsonms/pkg/store"
)

// Provider wires the store, the editor binding and the notifier of one session.
type Provider[D any] struct {
	Name string

	store    *store.Store[D]
	binding  *binding.Binding[D]
	notifier *notifier.Notifier
	route    *observable.Value[domain.Route]
	logger   *slog.Logger
}

// Option configures a Provider.
type Option func(*config)

type config struct {
	parent       ports.ParentTarget
	targetOrigin string
	scheduler    notifier.Scheduler
	delay        time.Duration
	logger       *slog.Logger
	hooks        domain.Hooks
	watchLocale  *bool
	watchRoute   *bool
	route        domain.Route
}

// WithParent sets the target of outbound notifications.
func WithParent(parent ports.ParentTarget) Option {
	return func(c *config) {
		c.parent = parent
	}
}

// WithTargetOrigin restricts outbound notifications to one origin (default "*").
func WithTargetOrigin(origin string) Option {
	return func(c *config) {
		c.targetOrigin = origin
	}
}

// WithScheduler replaces the debounce timer source.
func WithScheduler(s notifier.Scheduler) Option {
	return func(c *config) {
		c.scheduler = s
	}
}

// WithDebounce sets the debounce delay of outbound notifications.
func WithDebounce(d time.Duration) Option {
	return func(c *config) {
		c.delay = d
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithHooks registers observability hooks on the store and the notifier.
func WithHooks(hooks domain.Hooks) Option {
	return func(c *config) {
		c.hooks = hooks
	}
}

// WithLocaleWatch enables or disables locale notifications.
// By default they are enabled when a parent is set.
func WithLocaleWatch(enabled bool) Option {
	return func(c *config) {
		c.watchLocale = &enabled
	}
}

// WithRouteWatch enables or disables route notifications.
// By default they are enabled when a parent is set.
func WithRouteWatch(enabled bool) Option {
	return func(c *config) {
		c.watchRoute = &enabled
	}
}

// WithInitialRoute sets the navigation context the provider starts with.
// It is not reported to the parent.
func WithInitialRoute(route domain.Route) Option {
	return func(c *config) {
		c.route = route
	}
}

// New creates a Provider whose store starts from defaults.
func New[D any](defaults store.Defaults[D], opts ...Option) *Provider[D] {
	c := config{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&c)
	}

	st := store.New(defaults, store.WithLogger(c.logger), store.WithHooks(c.hooks))

	notifyOpts := []notifier.Option{
		notifier.WithTargetOrigin(c.targetOrigin),
		notifier.WithDelay(c.delay),
		notifier.WithLogger(c.logger),
		notifier.WithHooks(c.hooks),
	}
	if c.scheduler != nil {
		notifyOpts = append(notifyOpts, notifier.WithScheduler(c.scheduler))
	}

	p := &Provider[D]{
		Name:     domain.ProviderName,
		store:    st,
		binding:  binding.New(st, binding.WithLogger(c.logger)),
		notifier: notifier.New(c.parent, notifyOpts...),
		route:    observable.New(c.route),
		logger:   c.logger,
	}

	if enabled(c.watchLocale, c.parent != nil) {
		p.notifier.WatchLocale(st.LocaleValue())
	}
	if enabled(c.watchRoute, c.parent != nil) {
		p.notifier.WatchRoute(p.route)
	}
	return p
}

func enabled(flag *bool, fallback bool) bool {
	if flag == nil {
		return fallback
	}
	return *flag
}

// Store returns the shared state store.
func (p *Provider[D]) Store() *store.Store[D] { return p.store }

// Binding returns the editor binding.
func (p *Provider[D]) Binding() *binding.Binding[D] { return p.binding }

// Notifier returns the outbound notifier.
func (p *Provider[D]) Notifier() *notifier.Notifier { return p.notifier }

// Route exposes the navigation context for observation.
func (p *Provider[D]) Route() *observable.Value[domain.Route] { return p.route }

// Bind performs the editor handshake. See binding.Binding.Bind.
func (p *Provider[D]) Bind(ctx context.Context, editor ports.Editor[D]) error {
	return p.binding.Bind(ctx, editor)
}

// Navigate records a route change of the host.
func (p *Provider[D]) Navigate(route domain.Route) {
	p.route.Set(route)
}

// FilePath resolves the public location of file. A nil settings uses the store's current settings.
func (p *Provider[D]) FilePath(file *domain.File, settings *domain.Settings) string {
	s := p.store.Settings()
	if settings != nil {
		s = *settings
	}
	return domain.FilePath(file, s)
}

// Close stops outbound notifications. Pending notifications are dropped.
func (p *Provider[D]) Close() {
	p.notifier.Close()
}
