package notifier

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/jsonms/internal/logging"
	"github.com/aretw0/jsonms/pkg/domain"
	"github.com/aretw0/jsonms/pkg/observable"
	"github.com/aretw0/jsonms/pkg/ports"
)

// Notifier debounces locale and route changes and posts them to a ParentTarget.
type Notifier struct {
	target       ports.ParentTarget
	targetOrigin string
	scheduler    Scheduler
	delay        time.Duration
	logger       *slog.Logger
	hooks        domain.Hooks

	mu     sync.Mutex
	lanes  map[domain.MessageType]*lane
	stops  []func()
	closed bool
}

// lane is the debounce state of one message type.
// gen invalidates callbacks of timers that were replaced while already firing.
type lane struct {
	gen   uint64
	timer Timer
	msg   domain.Message
}

// Option configures the Notifier.
type Option func(*Notifier)

// WithTargetOrigin restricts delivery to receivers at origin. Empty keeps the wildcard.
func WithTargetOrigin(origin string) Option {
	return func(n *Notifier) {
		if origin != "" {
			n.targetOrigin = origin
		}
	}
}

// WithScheduler replaces the timer source.
func WithScheduler(s Scheduler) Option {
	return func(n *Notifier) {
		n.scheduler = s
	}
}

// WithDelay sets the debounce delay. The default is zero: a burst issued within
// one scheduling tick collapses into a single message.
func WithDelay(d time.Duration) Option {
	return func(n *Notifier) {
		n.delay = d
	}
}

// WithLogger configures a logger for delivery outcomes.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Notifier) {
		n.logger = logger
	}
}

// WithHooks registers hooks fired after every delivery attempt.
func WithHooks(hooks domain.Hooks) Option {
	return func(n *Notifier) {
		n.hooks = hooks
	}
}

// New creates a Notifier posting to target.
func New(target ports.ParentTarget, opts ...Option) *Notifier {
	n := &Notifier{
		target:       target,
		targetOrigin: domain.WildcardOrigin,
		scheduler:    RealScheduler{},
		logger:       logging.NewNop(),
		lanes:        make(map[domain.MessageType]*lane),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// TargetOrigin returns the origin messages are posted with.
func (n *Notifier) TargetOrigin() string {
	return n.targetOrigin
}

// NotifyLocale schedules a locale notification.
func (n *Notifier) NotifyLocale(locale string) {
	n.schedule(domain.NewLocaleMessage(locale))
}

// NotifyRoute schedules a route notification.
func (n *Notifier) NotifyRoute(route domain.Route) {
	msg, err := domain.NewRouteMessage(route)
	if err != nil {
		n.failed(domain.MessageRoute, err)
		return
	}
	n.schedule(msg)
}

// WatchLocale notifies every subsequent change of v. The current value is not sent.
func (n *Notifier) WatchLocale(v *observable.Value[string]) {
	n.watch(v.Subscribe(n.NotifyLocale))
}

// WatchRoute notifies every subsequent change of v. The current value is not sent.
func (n *Notifier) WatchRoute(v *observable.Value[domain.Route]) {
	n.watch(v.Subscribe(n.NotifyRoute))
}

func (n *Notifier) watch(stop func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		stop()
		return
	}
	n.stops = append(n.stops, stop)
}

// Pending reports whether a message of type t is waiting for its timer.
func (n *Notifier) Pending(t domain.MessageType) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	l, ok := n.lanes[t]
	return ok && l.timer != nil
}

// Close stops watching, cancels pending timers and drops their messages.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	stops := n.stops
	n.stops = nil
	for _, l := range n.lanes {
		if l.timer != nil {
			l.timer.Stop()
			l.timer = nil
		}
		l.gen++
	}
	n.mu.Unlock()

	for _, stop := range stops {
		stop()
	}
}

func (n *Notifier) schedule(msg domain.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}

	l, ok := n.lanes[msg.Type]
	if !ok {
		l = &lane{}
		n.lanes[msg.Type] = l
	}
	if l.timer != nil {
		l.timer.Stop()
	}
	l.gen++
	l.msg = msg
	gen := l.gen
	l.timer = n.scheduler.AfterFunc(n.delay, func() {
		n.fire(msg.Type, gen)
	})
}

func (n *Notifier) fire(t domain.MessageType, gen uint64) {
	n.mu.Lock()
	l := n.lanes[t]
	if n.closed || l == nil || l.gen != gen {
		n.mu.Unlock()
		return
	}
	msg := l.msg
	l.timer = nil
	n.mu.Unlock()

	n.deliver(msg)
}

func (n *Notifier) deliver(msg domain.Message) {
	ctx := context.Background()
	if n.target == nil {
		n.failed(msg.Type, domain.ErrParentUnavailable)
		return
	}
	if err := n.target.PostMessage(ctx, msg, n.targetOrigin); err != nil {
		n.failed(msg.Type, err)
		return
	}
	n.logger.Debug("Notification sent", "type", msg.Type, "data", msg.Data, "target_origin", n.targetOrigin)
	n.hooks.Notify(ctx, &domain.NotifyEvent{Timestamp: time.Now(), Type: msg.Type})
}

func (n *Notifier) failed(t domain.MessageType, err error) {
	n.logger.Warn("Notification failed", "type", t, "error", err)
	n.hooks.Notify(context.Background(), &domain.NotifyEvent{Timestamp: time.Now(), Type: t, Err: err})
}
