package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/jsonms/internal/logging"
	"github.com/aretw0/jsonms/pkg/domain"
	"github.com/aretw0/jsonms/pkg/observable"
)

// Defaults are the initial slot values. Nil pointers and empty strings fall back to
// the documented defaults; Content falls back to the zero value of D.
type Defaults[D any] struct {
	Content   D
	Section   *domain.Section
	Locale    string
	Structure *domain.Structure
	Settings  *domain.Settings
}

// Store holds the five synchronized slots.
type Store[D any] struct {
	content   *observable.Value[D]
	section   *observable.Value[domain.Section]
	locale    *observable.Value[string]
	structure *observable.Value[domain.Structure]
	settings  *observable.Value[domain.Settings]

	hooks  domain.Hooks
	logger *slog.Logger
}

// Option configures the Store.
type Option func(*options)

type options struct {
	hooks  domain.Hooks
	logger *slog.Logger
}

// WithHooks registers observability hooks fired after every slot write.
func WithHooks(hooks domain.Hooks) Option {
	return func(o *options) {
		o.hooks = hooks
	}
}

// WithLogger configures a logger for slot writes (debug level).
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New creates a Store seeded from defaults.
func New[D any](defaults Defaults[D], opts ...Option) *Store[D] {
	o := options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	section := domain.HomeSection()
	if defaults.Section != nil {
		section = *defaults.Section
	}
	locale := defaults.Locale
	if locale == "" {
		locale = domain.DefaultLocale
	}
	structure := domain.DefaultStructure()
	if defaults.Structure != nil {
		structure = *defaults.Structure
	}
	settings := domain.DefaultSettings()
	if defaults.Settings != nil {
		settings = *defaults.Settings
	}

	return &Store[D]{
		content:   observable.New(defaults.Content),
		section:   observable.New(section),
		locale:    observable.New(locale),
		structure: observable.New(structure),
		settings:  observable.New(settings),
		hooks:     o.hooks,
		logger:    o.logger,
	}
}

func (s *Store[D]) wrote(slot domain.Slot, version uint64) {
	s.logger.Debug("Slot written", "slot", slot, "version", version)
	s.hooks.SlotWrite(context.Background(), &domain.SlotEvent{
		Timestamp: time.Now(),
		Slot:      slot,
		Version:   version,
	})
}

// Content returns the current content payload.
func (s *Store[D]) Content() D { return s.content.Get() }

// SetContent replaces the content payload.
func (s *Store[D]) SetContent(v D) { s.wrote(domain.SlotContent, s.content.Set(v)) }

// ContentValue exposes the content slot for observation.
func (s *Store[D]) ContentValue() *observable.Value[D] { return s.content }

// Section returns the active section.
func (s *Store[D]) Section() domain.Section { return s.section.Get() }

// SetSection replaces the active section.
func (s *Store[D]) SetSection(v domain.Section) { s.wrote(domain.SlotSection, s.section.Set(v)) }

// SectionValue exposes the section slot for observation.
func (s *Store[D]) SectionValue() *observable.Value[domain.Section] { return s.section }

// Locale returns the active locale.
func (s *Store[D]) Locale() string { return s.locale.Get() }

// SetLocale replaces the active locale.
func (s *Store[D]) SetLocale(v string) { s.wrote(domain.SlotLocale, s.locale.Set(v)) }

// LocaleValue exposes the locale slot for observation.
func (s *Store[D]) LocaleValue() *observable.Value[string] { return s.locale }

// Structure returns the layout structure.
func (s *Store[D]) Structure() domain.Structure { return s.structure.Get() }

// SetStructure replaces the layout structure.
func (s *Store[D]) SetStructure(v domain.Structure) {
	s.wrote(domain.SlotStructure, s.structure.Set(v))
}

// StructureValue exposes the structure slot for observation.
func (s *Store[D]) StructureValue() *observable.Value[domain.Structure] { return s.structure }

// Settings returns the project settings.
func (s *Store[D]) Settings() domain.Settings { return s.settings.Get() }

// SetSettings replaces the project settings.
func (s *Store[D]) SetSettings(v domain.Settings) {
	s.wrote(domain.SlotSettings, s.settings.Set(v))
}

// SettingsValue exposes the settings slot for observation.
func (s *Store[D]) SettingsValue() *observable.Value[domain.Settings] { return s.settings }

// OnChange subscribes fn to writes on any slot. fn receives the slot that changed.
func (s *Store[D]) OnChange(fn func(domain.Slot)) (unsubscribe func()) {
	stops := []func(){
		s.content.Subscribe(func(D) { fn(domain.SlotContent) }),
		s.section.Subscribe(func(domain.Section) { fn(domain.SlotSection) }),
		s.locale.Subscribe(func(string) { fn(domain.SlotLocale) }),
		s.structure.Subscribe(func(domain.Structure) { fn(domain.SlotStructure) }),
		s.settings.Subscribe(func(domain.Settings) { fn(domain.SlotSettings) }),
	}
	return func() {
		for _, stop := range stops {
			stop()
		}
	}
}
