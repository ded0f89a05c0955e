package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/jsonms/pkg/binding"
	"github.com/aretw0/jsonms/pkg/domain"
	"github.com/aretw0/jsonms/pkg/ports"
)

// Editor is an in-process ports.Editor. Events are pushed with Emit once bound.
type Editor[D any] struct {
	mu        sync.RWMutex
	callbacks *ports.EditorCallbacks[D]
	reject    error
}

// EditorOption configures the Editor.
type EditorOption func(*editorOptions)

type editorOptions struct {
	reject error
}

// WithReject makes every handshake fail with err.
func WithReject(err error) EditorOption {
	return func(o *editorOptions) {
		o.reject = err
	}
}

// NewEditor creates an unbound Editor.
func NewEditor[D any](opts ...EditorOption) *Editor[D] {
	o := editorOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	return &Editor[D]{reject: o.reject}
}

// Bind implements ports.Editor.
func (e *Editor[D]) Bind(ctx context.Context, callbacks ports.EditorCallbacks[D]) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrEditorUnavailable, err)
	}
	if e.reject != nil {
		return fmt.Errorf("%w: %w", domain.ErrHandshakeRejected, e.reject)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.callbacks = &callbacks
	return nil
}

// Bound reports whether a handshake succeeded.
func (e *Editor[D]) Bound() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.callbacks != nil
}

// Emit delivers an event to the bound host.
func (e *Editor[D]) Emit(kind domain.EventKind, payload any) error {
	e.mu.RLock()
	cb := e.callbacks
	e.mu.RUnlock()
	if cb == nil {
		return domain.ErrEditorUnavailable
	}
	return binding.Dispatch(*cb, kind, payload)
}

// Init emits the four init events in the order an editor sends them after the handshake.
func (e *Editor[D]) Init(section domain.Section, locale string, settings domain.Settings, structure domain.Structure) error {
	events := []struct {
		kind    domain.EventKind
		payload any
	}{
		{domain.EventSettingsInit, settings},
		{domain.EventStructureInit, structure},
		{domain.EventSectionInit, section},
		{domain.EventLocaleInit, locale},
	}
	for _, ev := range events {
		if err := e.Emit(ev.kind, ev.payload); err != nil {
			return err
		}
	}
	return nil
}
