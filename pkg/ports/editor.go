package ports

import (
	"context"

	"github.com/aretw0/jsonms/pkg/domain"
)

// EditorCallbacks holds one handler per editor event kind.
// Init and change handlers of the same slot usually share an implementation.
type EditorCallbacks[D any] struct {
	OnDataChange      func(D)
	OnSectionInit     func(domain.Section)
	OnLocaleInit      func(string)
	OnSettingsInit    func(domain.Settings)
	OnStructureInit   func(domain.Structure)
	OnSectionChange   func(domain.Section)
	OnLocaleChange    func(string)
	OnSettingsChange  func(domain.Settings)
	OnStructureChange func(domain.Structure)
}

// Editor establishes a session with an external editor.
type Editor[D any] interface {
	// Bind performs the handshake and registers callbacks for the lifetime of the session.
	// It returns an error if the editor is unavailable or rejects the handshake.
	Bind(ctx context.Context, callbacks EditorCallbacks[D]) error
}

// EditorFunc adapts a function to the Editor interface.
type EditorFunc[D any] func(ctx context.Context, callbacks EditorCallbacks[D]) error

// Bind implements Editor.
func (f EditorFunc[D]) Bind(ctx context.Context, callbacks EditorCallbacks[D]) error {
	return f(ctx, callbacks)
}
