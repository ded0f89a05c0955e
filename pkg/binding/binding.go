package binding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/jsonms/internal/logging"
	"github.com/aretw0/jsonms/pkg/domain"
	"github.com/aretw0/jsonms/pkg/ports"
	"github.com/aretw0/jsonms/pkg/store"
)

// Binding routes editor callbacks into a Store.
type Binding[D any] struct {
	store  *store.Store[D]
	logger *slog.Logger
}

// Option configures the Binding.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger configures a logger for handshake failures.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New creates a Binding writing into st.
func New[D any](st *store.Store[D], opts ...Option) *Binding[D] {
	o := options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Binding[D]{store: st, logger: o.logger}
}

// Store returns the store the binding writes into.
func (b *Binding[D]) Store() *store.Store[D] {
	return b.store
}

// Callbacks returns the nine handlers, one per event kind.
func (b *Binding[D]) Callbacks() ports.EditorCallbacks[D] {
	st := b.store
	return ports.EditorCallbacks[D]{
		OnDataChange:      st.SetContent,
		OnSectionInit:     st.SetSection,
		OnLocaleInit:      st.SetLocale,
		OnSettingsInit:    st.SetSettings,
		OnStructureInit:   st.SetStructure,
		OnSectionChange:   st.SetSection,
		OnLocaleChange:    st.SetLocale,
		OnSettingsChange:  st.SetSettings,
		OnStructureChange: st.SetStructure,
	}
}

// Bind performs the handshake with editor. It is attempted once; on failure the
// error is logged, the slots keep their current values and the returned error
// wraps domain.ErrBindFailed.
func (b *Binding[D]) Bind(ctx context.Context, editor ports.Editor[D]) error {
	if editor == nil {
		err := fmt.Errorf("%w: %w", domain.ErrBindFailed, domain.ErrEditorUnavailable)
		b.logger.Error("Editor handshake failed", "error", err)
		return err
	}
	if err := editor.Bind(ctx, b.Callbacks()); err != nil {
		b.logger.Error("Editor handshake failed", "error", err)
		return fmt.Errorf("%w: %w", domain.ErrBindFailed, err)
	}
	b.logger.Debug("Editor bound")
	return nil
}
