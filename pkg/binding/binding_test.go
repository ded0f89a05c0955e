package binding_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aretw0/jsonms/pkg/binding"
	"github.com/aretw0/jsonms/pkg/domain"
	"github.com/aretw0/jsonms/pkg/ports"
	"github.com/aretw0/jsonms/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type page struct {
	Title string `json:"title"`
	Views int    `json:"views"`
}

func TestBind_RegistersAllCallbacks(t *testing.T) {
	st := store.New(store.Defaults[page]{})
	b := binding.New(st)

	var got ports.EditorCallbacks[page]
	editor := ports.EditorFunc[page](func(ctx context.Context, cb ports.EditorCallbacks[page]) error {
		got = cb
		return nil
	})

	require.NoError(t, b.Bind(context.Background(), editor))

	assert.NotNil(t, got.OnDataChange)
	assert.NotNil(t, got.OnSectionInit)
	assert.NotNil(t, got.OnLocaleInit)
	assert.NotNil(t, got.OnSettingsInit)
	assert.NotNil(t, got.OnStructureInit)
	assert.NotNil(t, got.OnSectionChange)
	assert.NotNil(t, got.OnLocaleChange)
	assert.NotNil(t, got.OnSettingsChange)
	assert.NotNil(t, got.OnStructureChange)
}

func TestBind_InitAndChangeShareSlot(t *testing.T) {
	st := store.New(store.Defaults[page]{})
	cb := binding.New(st).Callbacks()

	cb.OnLocaleInit("fr-FR")
	assert.Equal(t, "fr-FR", st.Locale())
	cb.OnLocaleChange("de-DE")
	assert.Equal(t, "de-DE", st.Locale())

	cb.OnSectionInit(domain.Section{Key: "blog", Paths: []string{"posts"}})
	cb.OnSectionChange(domain.Section{Key: "about", Paths: []string{}})
	assert.Equal(t, "about", st.Section().Key)

	cb.OnSettingsInit(domain.Settings{PublicURL: "https://a.example"})
	cb.OnSettingsChange(domain.Settings{PublicURL: "https://b.example"})
	assert.Equal(t, "https://b.example", st.Settings().PublicURL)

	cb.OnStructureInit(domain.Structure{Locales: map[string]string{"en-US": "English"}})
	cb.OnStructureChange(domain.Structure{Locales: map[string]string{"fr-FR": "Français"}})
	assert.Equal(t, map[string]string{"fr-FR": "Français"}, st.Structure().Locales)

	cb.OnDataChange(page{Title: "Hello"})
	assert.Equal(t, "Hello", st.Content().Title)

	// Content was never touched by the other callbacks
	assert.Equal(t, 0, st.Content().Views)
}

func TestBind_FailureKeepsDefaults(t *testing.T) {
	st := store.New(store.Defaults[page]{})
	b := binding.New(st)

	boom := errors.New("editor rejected handshake")
	editor := ports.EditorFunc[page](func(ctx context.Context, cb ports.EditorCallbacks[page]) error {
		return boom
	})

	err := b.Bind(context.Background(), editor)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBindFailed)
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, domain.DefaultLocale, st.Locale())
	assert.Equal(t, domain.HomeSection(), st.Section())
	assert.Equal(t, page{}, st.Content())
}

func TestBind_NilEditor(t *testing.T) {
	b := binding.New(store.New(store.Defaults[page]{}))
	err := b.Bind(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrBindFailed)
	assert.ErrorIs(t, err, domain.ErrEditorUnavailable)
}

func TestDispatch(t *testing.T) {
	st := store.New(store.Defaults[page]{})
	cb := binding.New(st).Callbacks()

	t.Run("typed value", func(t *testing.T) {
		require.NoError(t, binding.Dispatch(cb, domain.EventLocaleChange, "pt-BR"))
		assert.Equal(t, "pt-BR", st.Locale())
	})

	t.Run("json bytes", func(t *testing.T) {
		raw := json.RawMessage(`{"title":"From JSON","views":3}`)
		require.NoError(t, binding.Dispatch(cb, domain.EventDataChange, raw))
		assert.Equal(t, page{Title: "From JSON", Views: 3}, st.Content())
	})

	t.Run("generic map", func(t *testing.T) {
		payload := map[string]any{"key": "docs", "paths": []any{"intro", "setup"}}
		require.NoError(t, binding.Dispatch(cb, domain.EventSectionInit, payload))
		assert.Equal(t, domain.Section{Key: "docs", Paths: []string{"intro", "setup"}}, st.Section())
	})

	t.Run("settings map", func(t *testing.T) {
		payload := map[string]any{"publicUrl": "https://cdn.example.com/"}
		require.NoError(t, binding.Dispatch(cb, domain.EventSettingsChange, payload))
		assert.Equal(t, "https://cdn.example.com/", st.Settings().PublicURL)
	})

	t.Run("invalid payload", func(t *testing.T) {
		err := binding.Dispatch(cb, domain.EventDataChange, json.RawMessage(`{not json`))
		assert.ErrorIs(t, err, domain.ErrInvalidPayload)
		assert.Equal(t, "From JSON", st.Content().Title)
	})

	t.Run("unknown kind", func(t *testing.T) {
		err := binding.Dispatch(cb, domain.EventKind(99), nil)
		assert.ErrorIs(t, err, domain.ErrUnknownEvent)
	})

	t.Run("by name", func(t *testing.T) {
		require.NoError(t, binding.DispatchNamed(cb, "onLocaleInit", "ja-JP"))
		assert.Equal(t, "ja-JP", st.Locale())

		err := binding.DispatchNamed(cb, "onSomethingElse", "x")
		assert.ErrorIs(t, err, domain.ErrUnknownEvent)
	})

	t.Run("nil callback", func(t *testing.T) {
		assert.NoError(t, binding.Dispatch(ports.EditorCallbacks[page]{}, domain.EventLocaleChange, "xx"))
	})
}
