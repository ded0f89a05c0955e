package hub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/jsonms"
	"github.com/aretw0/jsonms/internal/logging"
	"github.com/aretw0/jsonms/pkg/binding"
	"github.com/aretw0/jsonms/pkg/domain"
	"github.com/aretw0/jsonms/pkg/notifier"
	"github.com/aretw0/jsonms/pkg/ports"
	"github.com/aretw0/jsonms/pkg/session"
	"github.com/aretw0/jsonms/pkg/store"
	"github.com/google/uuid"
)

// outboxSize bounds the notifications kept per session for polling clients.
const outboxSize = 32

// Hub owns the live sessions of one process.
type Hub struct {
	sessions *session.Manager

	mu   sync.Mutex
	live map[string]*Live

	parents      func(sessionID string) ports.ParentTarget
	onDiff       func(sessionID string, diff *domain.SnapshotDiff)
	targetOrigin string
	delay        time.Duration
	scheduler    notifier.Scheduler
	seed         func(*domain.Snapshot)
	watchLocale  bool
	watchRoute   bool
	logger       *slog.Logger
	hooks        domain.Hooks
}

// Option configures the Hub.
type Option func(*Hub)

// WithParents sets the factory of the parent target of each session.
func WithParents(f func(sessionID string) ports.ParentTarget) Option {
	return func(h *Hub) {
		h.parents = f
	}
}

// WithDiffListener is called with the slots changed by every write.
func WithDiffListener(f func(sessionID string, diff *domain.SnapshotDiff)) Option {
	return func(h *Hub) {
		h.onDiff = f
	}
}

// WithTargetOrigin restricts outbound notifications to one origin.
func WithTargetOrigin(origin string) Option {
	return func(h *Hub) {
		h.targetOrigin = origin
	}
}

// WithDebounce sets the debounce delay of outbound notifications.
func WithDebounce(d time.Duration) Option {
	return func(h *Hub) {
		h.delay = d
	}
}

// WithScheduler replaces the debounce timer source.
func WithScheduler(s notifier.Scheduler) Option {
	return func(h *Hub) {
		h.scheduler = s
	}
}

// WithWatches enables or disables locale and route notifications. Both are on by default.
func WithWatches(locale, route bool) Option {
	return func(h *Hub) {
		h.watchLocale = locale
		h.watchRoute = route
	}
}

// WithSeed adjusts every newly created session before it is first persisted.
func WithSeed(seed func(*domain.Snapshot)) Option {
	return func(h *Hub) {
		h.seed = seed
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Hub) {
		h.logger = logger
	}
}

// WithHooks registers observability hooks on every session.
func WithHooks(hooks domain.Hooks) Option {
	return func(h *Hub) {
		h.hooks = hooks
	}
}

// New creates a Hub persisting through sessions.
func New(sessions *session.Manager, opts ...Option) *Hub {
	h := &Hub{
		sessions:    sessions,
		live:        make(map[string]*Live),
		watchLocale: true,
		watchRoute:  true,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Live is one bound session.
type Live struct {
	ID       string
	Provider *jsonms.Provider[any]

	callbacks ports.EditorCallbacks[any]

	mu     sync.Mutex
	last   *domain.Snapshot
	outbox []domain.Message
	stops  []func()
}

// Snapshot returns the current slot values and route.
func (l *Live) Snapshot() *domain.Snapshot {
	snap := l.Provider.Store().Snapshot(l.ID)
	snap.Route = l.Provider.Route().Get()
	return snap
}

// Messages returns the latest outbound notifications, oldest first.
func (l *Live) Messages() []domain.Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Message(nil), l.outbox...)
}

func (l *Live) record(msg domain.Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outbox = append(l.outbox, msg)
	if len(l.outbox) > outboxSize {
		l.outbox = l.outbox[len(l.outbox)-outboxSize:]
	}
}

// Open binds a session, creating it when it does not exist. An empty id creates a new session.
func (h *Hub) Open(ctx context.Context, id string) (*Live, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if l := h.lookup(id); l != nil {
		return l, nil
	}
	snap, err := h.sessions.LoadOrStart(ctx, id, h.seed)
	if err != nil {
		return nil, fmt.Errorf("failed to open session %s: %w", id, err)
	}
	return h.attach(ctx, snap)
}

// Get returns a live session, rehydrating it from the store when needed.
// Returns domain.ErrSessionNotFound if it was never opened.
func (h *Hub) Get(ctx context.Context, id string) (*Live, error) {
	if l := h.lookup(id); l != nil {
		return l, nil
	}
	snap, err := h.sessions.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return h.attach(ctx, snap)
}

// State returns the snapshot of a session without binding it.
func (h *Hub) State(ctx context.Context, id string) (*domain.Snapshot, error) {
	if l := h.lookup(id); l != nil {
		return l.Snapshot(), nil
	}
	return h.sessions.Load(ctx, id)
}

// Dispatch delivers a named editor event (e.g. "onLocaleChange") to a session.
func (h *Hub) Dispatch(ctx context.Context, id, event string, payload any) error {
	l, err := h.Get(ctx, id)
	if err != nil {
		return err
	}
	return binding.DispatchNamed(l.callbacks, event, payload)
}

// SetLocale records a locale change made by the host.
func (h *Hub) SetLocale(ctx context.Context, id, locale string) error {
	l, err := h.Get(ctx, id)
	if err != nil {
		return err
	}
	l.Provider.Store().SetLocale(locale)
	return nil
}

// Navigate records a route change made by the host.
func (h *Hub) Navigate(ctx context.Context, id string, route domain.Route) error {
	l, err := h.Get(ctx, id)
	if err != nil {
		return err
	}
	l.Provider.Navigate(route)
	return nil
}

// List returns every persisted session ID.
func (h *Hub) List(ctx context.Context) ([]string, error) {
	return h.sessions.List(ctx)
}

// Close unbinds a live session. Its snapshot stays in the store.
func (h *Hub) Close(id string) {
	h.mu.Lock()
	l, ok := h.live[id]
	delete(h.live, id)
	h.mu.Unlock()
	if ok {
		h.detach(l)
	}
}

// Delete unbinds a session and removes its snapshot.
func (h *Hub) Delete(ctx context.Context, id string) error {
	h.Close(id)
	return h.sessions.Delete(ctx, id)
}

// Shutdown unbinds every live session.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	live := h.live
	h.live = make(map[string]*Live)
	h.mu.Unlock()
	for _, l := range live {
		h.detach(l)
	}
}

func (h *Hub) lookup(id string) *Live {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.live[id]
}

func (h *Hub) attach(ctx context.Context, snap *domain.Snapshot) (*Live, error) {
	l := &Live{ID: snap.SessionID, last: snap}

	var parent ports.ParentTarget = ports.ParentTargetFunc(func(ctx context.Context, msg domain.Message, targetOrigin string) error {
		l.record(msg)
		return nil
	})
	if h.parents != nil {
		parent = fanOut{parent, h.parents(snap.SessionID)}
	}

	opts := []jsonms.Option{
		jsonms.WithParent(parent),
		jsonms.WithTargetOrigin(h.targetOrigin),
		jsonms.WithDebounce(h.delay),
		jsonms.WithInitialRoute(snap.Route),
		jsonms.WithLocaleWatch(h.watchLocale),
		jsonms.WithRouteWatch(h.watchRoute),
		jsonms.WithLogger(h.logger.With("session_id", snap.SessionID)),
		jsonms.WithHooks(h.hooks),
	}
	if h.scheduler != nil {
		opts = append(opts, jsonms.WithScheduler(h.scheduler))
	}

	section, structure, settings := snap.Section, snap.Structure, snap.Settings
	l.Provider = jsonms.New(store.Defaults[any]{
		Content:   snap.Content,
		Section:   &section,
		Locale:    snap.Locale,
		Structure: &structure,
		Settings:  &settings,
	}, opts...)

	err := l.Provider.Bind(ctx, ports.EditorFunc[any](func(ctx context.Context, cb ports.EditorCallbacks[any]) error {
		l.callbacks = cb
		return nil
	}))
	if err != nil {
		l.Provider.Close()
		return nil, err
	}

	l.stops = append(l.stops,
		l.Provider.Store().OnChange(func(domain.Slot) { h.persist(l) }),
		l.Provider.Route().Subscribe(func(domain.Route) { h.persist(l) }),
	)

	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.live[l.ID]; ok {
		// Lost a race with another Open of the same session.
		h.detach(l)
		return existing, nil
	}
	h.live[l.ID] = l
	h.logger.Info("Session bound", "session_id", l.ID)
	return l, nil
}

func (h *Hub) detach(l *Live) {
	l.mu.Lock()
	stops := l.stops
	l.stops = nil
	l.mu.Unlock()
	for _, stop := range stops {
		stop()
	}
	l.Provider.Close()
	h.logger.Info("Session unbound", "session_id", l.ID)
}

func (h *Hub) persist(l *Live) {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := l.Snapshot()
	if err := h.sessions.Save(context.Background(), l.ID, snap); err != nil {
		h.logger.Error("Failed to persist session", "session_id", l.ID, "error", err)
	}

	diff := domain.Diff(l.last, snap)
	l.last = snap
	if diff != nil && h.onDiff != nil {
		h.onDiff(l.ID, diff)
	}
}

// fanOut posts to every target and joins their errors.
type fanOut []ports.ParentTarget

func (f fanOut) PostMessage(ctx context.Context, msg domain.Message, targetOrigin string) error {
	var errs []error
	for _, t := range f {
		if err := t.PostMessage(ctx, msg, targetOrigin); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
