package binding

import (
	"fmt"

	"github.com/aretw0/jsonms/internal/decode"
	"github.com/aretw0/jsonms/pkg/domain"
	"github.com/aretw0/jsonms/pkg/ports"
)

// Dispatch decodes payload into the slot type of kind and invokes the matching callback.
// A nil callback is a no-op.
func Dispatch[D any](cb ports.EditorCallbacks[D], kind domain.EventKind, payload any) error {
	switch kind {
	case domain.EventDataChange:
		return call(cb.OnDataChange, kind, payload)
	case domain.EventSectionInit:
		return call(cb.OnSectionInit, kind, payload)
	case domain.EventLocaleInit:
		return call(cb.OnLocaleInit, kind, payload)
	case domain.EventSettingsInit:
		return call(cb.OnSettingsInit, kind, payload)
	case domain.EventStructureInit:
		return call(cb.OnStructureInit, kind, payload)
	case domain.EventSectionChange:
		return call(cb.OnSectionChange, kind, payload)
	case domain.EventLocaleChange:
		return call(cb.OnLocaleChange, kind, payload)
	case domain.EventSettingsChange:
		return call(cb.OnSettingsChange, kind, payload)
	case domain.EventStructureChange:
		return call(cb.OnStructureChange, kind, payload)
	default:
		return fmt.Errorf("%w: %d", domain.ErrUnknownEvent, int(kind))
	}
}

// DispatchNamed is Dispatch keyed by the wire name of the event (e.g. "onLocaleChange").
func DispatchNamed[D any](cb ports.EditorCallbacks[D], name string, payload any) error {
	kind, err := domain.ParseEventKind(name)
	if err != nil {
		return err
	}
	return Dispatch(cb, kind, payload)
}

func call[T any](fn func(T), kind domain.EventKind, payload any) error {
	if fn == nil {
		return nil
	}
	v, err := decode.Into[T](payload)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidPayload, kind, err)
	}
	fn(v)
	return nil
}
