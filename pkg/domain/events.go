package domain

import (
	"context"
	"fmt"
	"time"
)

// EventKind enumerates the callbacks an editor may invoke.
// Each kind writes exactly one slot.
type EventKind int

const (
	EventDataChange EventKind = iota
	EventSectionInit
	EventLocaleInit
	EventSettingsInit
	EventStructureInit
	EventSectionChange
	EventLocaleChange
	EventSettingsChange
	EventStructureChange
)

// EventKinds lists every kind in declaration order.
var EventKinds = []EventKind{
	EventDataChange,
	EventSectionInit,
	EventLocaleInit,
	EventSettingsInit,
	EventStructureInit,
	EventSectionChange,
	EventLocaleChange,
	EventSettingsChange,
	EventStructureChange,
}

var eventNames = map[EventKind]string{
	EventDataChange:      "onDataChange",
	EventSectionInit:     "onSectionInit",
	EventLocaleInit:      "onLocaleInit",
	EventSettingsInit:    "onSettingsInit",
	EventStructureInit:   "onStructureInit",
	EventSectionChange:   "onSectionChange",
	EventLocaleChange:    "onLocaleChange",
	EventSettingsChange:  "onSettingsChange",
	EventStructureChange: "onStructureChange",
}

// String returns the wire name of the event (e.g. "onLocaleChange").
func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Slot returns the store slot written by this event.
func (k EventKind) Slot() Slot {
	switch k {
	case EventDataChange:
		return SlotContent
	case EventSectionInit, EventSectionChange:
		return SlotSection
	case EventLocaleInit, EventLocaleChange:
		return SlotLocale
	case EventSettingsInit, EventSettingsChange:
		return SlotSettings
	case EventStructureInit, EventStructureChange:
		return SlotStructure
	}
	return ""
}

// IsInit reports whether the editor sends this event while establishing the session.
func (k EventKind) IsInit() bool {
	switch k {
	case EventSectionInit, EventLocaleInit, EventSettingsInit, EventStructureInit:
		return true
	}
	return false
}

// ParseEventKind maps a wire name back to its kind.
func ParseEventKind(name string) (EventKind, error) {
	for kind, n := range eventNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
}

// SlotEvent records a write into a store slot.
type SlotEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Slot      Slot      `json:"slot"`
	Version   uint64    `json:"version"`
}

// NotifyEvent records an outbound delivery attempt.
type NotifyEvent struct {
	Timestamp time.Time   `json:"timestamp"`
	Type      MessageType `json:"type"`
	Err       error       `json:"-"`
}

// RenderEvent records a template recomputation.
type RenderEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Nodes     int       `json:"nodes"`
	Missing   int       `json:"missing"`
}

// Hooks defines callbacks for observability.
// Nil fields are ignored.
type Hooks struct {
	OnSlotWrite func(context.Context, *SlotEvent)
	OnNotify    func(context.Context, *NotifyEvent)
	OnRender    func(context.Context, *RenderEvent)
}

// SlotWrite invokes OnSlotWrite if set.
func (h Hooks) SlotWrite(ctx context.Context, e *SlotEvent) {
	if h.OnSlotWrite != nil {
		h.OnSlotWrite(ctx, e)
	}
}

// Notify invokes OnNotify if set.
func (h Hooks) Notify(ctx context.Context, e *NotifyEvent) {
	if h.OnNotify != nil {
		h.OnNotify(ctx, e)
	}
}

// Render invokes OnRender if set.
func (h Hooks) Render(ctx context.Context, e *RenderEvent) {
	if h.OnRender != nil {
		h.OnRender(ctx, e)
	}
}

// Merge combines hooks so that both sets are invoked, h first.
func (h Hooks) Merge(other Hooks) Hooks {
	return Hooks{
		OnSlotWrite: func(ctx context.Context, e *SlotEvent) {
			h.SlotWrite(ctx, e)
			other.SlotWrite(ctx, e)
		},
		OnNotify: func(ctx context.Context, e *NotifyEvent) {
			h.Notify(ctx, e)
			other.Notify(ctx, e)
		},
		OnRender: func(ctx context.Context, e *RenderEvent) {
			h.Render(ctx, e)
			other.Render(ctx, e)
		},
	}
}
